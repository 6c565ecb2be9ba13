package storage

import (
	"bytes"
	"fmt"

	"github.com/disintegration/imaging"
)

// AvatarSize is the longest edge of a stored avatar, in pixels.
const AvatarSize = 512

// Thumbnail decodes a JPEG, PNG, GIF, BMP or TIFF image, fits it inside
// size x size and re-encodes it as JPEG.
func Thumbnail(data []byte, size int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	b := img.Bounds()
	if b.Dx() > size || b.Dy() > size {
		img = imaging.Fit(img, size, size, imaging.Lanczos)
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(85)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return buf.Bytes(), nil
}
