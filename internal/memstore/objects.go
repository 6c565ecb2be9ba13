package memstore

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"rentflow-backend/internal/ports"
)

// Objects is an in-memory object store. Paths listed in FailUploads are
// rejected to exercise partial failures.
type Objects struct {
	mu          sync.Mutex
	objects     map[string][]byte
	FailUploads map[string]bool
	FailRemove  bool
}

var _ ports.ObjectStore = (*Objects)(nil)

const objectsBase = "mem://"

func (o *Objects) Upload(_ context.Context, bucket, path string, r io.Reader, _ string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.FailUploads[path] {
		return "", errors.New("upload rejected")
	}
	if o.objects == nil {
		o.objects = map[string][]byte{}
	}
	o.objects[bucket+"/"+path] = data
	return path, nil
}

func (o *Objects) PublicURL(bucket, storedPath string) string {
	return objectsBase + bucket + "/" + storedPath
}

func (o *Objects) Remove(_ context.Context, bucket string, paths []string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.FailRemove {
		return errors.New("remove rejected")
	}
	for _, p := range paths {
		delete(o.objects, bucket+"/"+p)
	}
	return nil
}

func (o *Objects) PathFromURL(bucket, url string) (string, bool) {
	prefix := objectsBase + bucket + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", false
	}
	return strings.TrimPrefix(url, prefix), true
}

// Has reports whether bucket/path is stored.
func (o *Objects) Has(bucket, path string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.objects[bucket+"/"+path]
	return ok
}

// Len returns the number of stored objects.
func (o *Objects) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.objects)
}
