package settings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"
)

// Store owns the unified settings view. Commit is the only writer.
type Store struct {
	server ports.SettingsStore
	local  ports.OverlayStore
	log    *slog.Logger

	mu      sync.RWMutex
	overlay Overlay
	current Settings
}

func NewStore(server ports.SettingsStore, local ports.OverlayStore, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{server: server, local: local, log: logger, overlay: Overlay{}, current: Defaults()}
}

// Load reads both sources and rebuilds the unified view.
func (s *Store) Load(ctx context.Context) error {
	rec, err := s.server.Get(ctx)
	if err != nil {
		return fmt.Errorf("load server settings: %w", err)
	}
	overlay, err := s.loadOverlay(ctx)
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.overlay = overlay
	s.current = Reconcile(rec, overlay)
	s.mu.Unlock()
	return nil
}

func (s *Store) Current() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Store) Overlay() Overlay {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.overlay.Clone()
}

// Commit writes one top-level field. Server-owned fields go to the settings
// row and any overlay entry for the same field is dropped; local fields go
// to the overlay only. value may be a partial object, merged onto the
// current value.
func (s *Store) Commit(ctx context.Context, field string, value json.RawMessage) (Settings, error) {
	owner, ok := Owner(field)
	if !ok {
		return Settings{}, domain.Invalid(field, "unknown settings field")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := decodeField(s.current, field, value)
	if err != nil {
		return Settings{}, domain.Invalid(field, err.Error())
	}

	overlay := s.overlay.Clone()
	switch owner {
	case OwnerServer:
		if err := s.server.Patch(ctx, Columns(field, updated)); err != nil {
			return Settings{}, fmt.Errorf("save %s: %w", field, err)
		}
		if _, stale := overlay[field]; stale {
			delete(overlay, field)
			if err := s.saveOverlay(ctx, overlay); err != nil {
				s.log.Warn("drop stale overlay key failed", "field", field, "err", err)
			}
		}
	case OwnerLocal:
		raw, err := json.Marshal(fieldValue(updated, field))
		if err != nil {
			return Settings{}, err
		}
		overlay[field] = raw
		if err := s.saveOverlay(ctx, overlay); err != nil {
			return Settings{}, fmt.Errorf("save %s: %w", field, err)
		}
	}

	rec, err := s.server.Get(ctx)
	if err != nil {
		return Settings{}, fmt.Errorf("reload server settings: %w", err)
	}
	s.overlay = overlay
	s.current = Reconcile(rec, overlay)
	return s.current, nil
}

// With reconciles the current server row against a caller supplied overlay
// without persisting anything.
func (s *Store) With(ctx context.Context, overlay Overlay) (Settings, error) {
	rec, err := s.server.Get(ctx)
	if err != nil {
		return Settings{}, err
	}
	return Reconcile(rec, overlay), nil
}

func (s *Store) loadOverlay(ctx context.Context) (Overlay, error) {
	blob, err := s.local.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load local settings: %w", err)
	}
	overlay := Overlay{}
	if len(bytes.TrimSpace(blob)) == 0 {
		return overlay, nil
	}
	if err := json.Unmarshal(blob, &overlay); err != nil {
		s.log.Warn("local settings unreadable, ignoring", "err", err)
		return Overlay{}, nil
	}
	return overlay, nil
}

func (s *Store) saveOverlay(ctx context.Context, overlay Overlay) error {
	blob, err := json.Marshal(overlay)
	if err != nil {
		return err
	}
	if err := s.local.Save(ctx, blob); err != nil {
		return err
	}
	s.overlay = overlay
	return nil
}

// decodeField merges value onto a copy of the named field of cur. Unknown
// keys are rejected.
func decodeField(cur Settings, field string, value json.RawMessage) (Settings, error) {
	f, _ := fieldByName(field)
	target := reflect.ValueOf(&cur).Elem().FieldByIndex(f.Index)
	candidate := reflect.New(f.Type)
	candidate.Elem().Set(target)
	if f.Type.Kind() == reflect.Slice {
		candidate.Elem().Set(reflect.Zero(f.Type))
	}
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.DisallowUnknownFields()
	if err := dec.Decode(candidate.Interface()); err != nil {
		return cur, fmt.Errorf("invalid value: %w", err)
	}
	if f.Type.Kind() == reflect.Slice && candidate.Elem().IsNil() {
		candidate.Elem().Set(reflect.MakeSlice(f.Type, 0, 0))
	}
	target.Set(candidate.Elem())
	return cur, nil
}

func fieldValue(s Settings, field string) any {
	f, _ := fieldByName(field)
	return reflect.ValueOf(s).FieldByIndex(f.Index).Interface()
}
