package settings

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// OverlayKey is the key the overlay blob is stored under.
const OverlayKey = "rentflow.settings.local"

// FileOverlay keeps the overlay in a small JSON key-value file. A file
// that is not valid JSON reads as empty and is rewritten on the next Save.
type FileOverlay struct {
	Path   string
	Logger *slog.Logger

	mu sync.Mutex
}

func (f *FileOverlay) Load(ctx context.Context) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	kv, err := f.read()
	if err != nil {
		return nil, err
	}
	return kv[OverlayKey], nil
}

func (f *FileOverlay) Save(ctx context.Context, blob []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kv, err := f.read()
	if err != nil {
		return err
	}
	kv[OverlayKey] = json.RawMessage(blob)
	out, err := json.MarshalIndent(kv, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return err
	}
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, f.Path)
}

func (f *FileOverlay) read() (map[string]json.RawMessage, error) {
	kv := map[string]json.RawMessage{}
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return kv, nil
	}
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return kv, nil
	}
	if err := json.Unmarshal(data, &kv); err != nil {
		f.logger().Warn("local settings file is corrupt, starting empty", "path", f.Path, "err", err)
		return map[string]json.RawMessage{}, nil
	}
	return kv, nil
}

func (f *FileOverlay) logger() *slog.Logger {
	if f.Logger != nil {
		return f.Logger
	}
	return slog.Default()
}
