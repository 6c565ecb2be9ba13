package storage

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalUploadAndRemove(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocal(root, "http://localhost:8080/uploads/")
	require.NoError(t, err)
	ctx := context.Background()

	stored, err := s.Upload(ctx, "avatars", "abc/1700000000000-0.jpg", strings.NewReader("jpeg"), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "abc/1700000000000-0.jpg", stored)

	data, err := os.ReadFile(filepath.Join(root, "avatars", "abc", "1700000000000-0.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", string(data))

	url := s.PublicURL("avatars", stored)
	assert.Equal(t, "http://localhost:8080/uploads/avatars/abc/1700000000000-0.jpg", url)

	p, ok := s.PathFromURL("avatars", url)
	require.True(t, ok)
	assert.Equal(t, stored, p)

	_, ok = s.PathFromURL("documents", url)
	assert.False(t, ok)

	require.NoError(t, s.Remove(ctx, "avatars", []string{stored, "abc/missing.jpg"}))
	_, err = os.Stat(filepath.Join(root, "avatars", "abc", "1700000000000-0.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalRejectsEscapingPaths(t *testing.T) {
	s, err := NewLocal(t.TempDir(), "http://localhost/uploads")
	require.NoError(t, err)

	_, err = s.Upload(context.Background(), "avatars", "../../etc/passwd", strings.NewReader("x"), "")
	assert.Error(t, err)
}

func TestPathFromURLNeedsPath(t *testing.T) {
	_, ok := pathFromURL("https://cdn/avatars/", "https://cdn/avatars/")
	assert.False(t, ok)
	p, ok := pathFromURL("https://cdn/avatars/", "https://cdn/avatars/x/y.png")
	assert.True(t, ok)
	assert.Equal(t, "x/y.png", p)
}

func TestOSSPublicURL(t *testing.T) {
	s := &OSS{endpoint: "oss-ap-southeast-5.aliyuncs.com", bucketName: "rentflow"}
	url := s.PublicURL("tenant-documents", "id/1-0.pdf")
	assert.Equal(t, "https://rentflow.oss-ap-southeast-5.aliyuncs.com/tenant-documents/id/1-0.pdf", url)
	p, ok := s.PathFromURL("tenant-documents", url)
	require.True(t, ok)
	assert.Equal(t, "id/1-0.pdf", p)

	s.publicBase = "https://cdn.example.com"
	assert.Equal(t, "https://cdn.example.com/avatars/a.jpg", s.PublicURL("avatars", "a.jpg"))
}

func TestThumbnailShrinksLargeImages(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 1200, 600))
	for x := 0; x < 1200; x++ {
		for y := 0; y < 600; y++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 100, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, src))

	out, err := Thumbnail(buf.Bytes(), AvatarSize)
	require.NoError(t, err)

	img, err := imaging.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 512, img.Bounds().Dx())
	assert.Equal(t, 256, img.Bounds().Dy())
}

func TestThumbnailRejectsNonImages(t *testing.T) {
	_, err := Thumbnail([]byte("%PDF-1.4"), AvatarSize)
	assert.Error(t, err)
}
