package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Local writes objects under Root/<bucket>/<path> and serves them from
// BaseURL, which is normally PUBLIC_BASE_URL + "/uploads".
type Local struct {
	Root    string
	BaseURL string
}

func NewLocal(root, baseURL string) (*Local, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{Root: root, BaseURL: strings.TrimRight(baseURL, "/")}, nil
}

func (s *Local) Upload(ctx context.Context, bucket, path string, r io.Reader, _ string) (string, error) {
	full, err := s.file(bucket, path)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return "", err
	}
	f, err := os.Create(full)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(full)
		return "", err
	}
	return path, f.Close()
}

func (s *Local) PublicURL(bucket, storedPath string) string {
	return s.BaseURL + "/" + objectKey(bucket, storedPath)
}

func (s *Local) Remove(ctx context.Context, bucket string, paths []string) error {
	var errs []error
	for _, p := range paths {
		full, err := s.file(bucket, p)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Local) PathFromURL(bucket, url string) (string, bool) {
	return pathFromURL(s.PublicURL(bucket, ""), url)
}

// file resolves the on-disk location and rejects paths escaping Root.
func (s *Local) file(bucket, path string) (string, error) {
	full := filepath.Join(s.Root, bucket, filepath.FromSlash(path))
	rel, err := filepath.Rel(s.Root, full)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("invalid object path %q", path)
	}
	return full, nil
}
