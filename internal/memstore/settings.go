package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/ports"
)

// Settings emulates the single property_settings row.
type Settings struct {
	mu      sync.Mutex
	rec     *domain.PropertySettings
	Patches int
	// Err, when set, fails Get and Patch.
	Err error
}

var _ ports.SettingsStore = (*Settings)(nil)

// NewSettings seeds the row; a nil rec means it was never written.
func NewSettings(rec *domain.PropertySettings) *Settings {
	return &Settings{rec: rec}
}

func (s *Settings) Get(context.Context) (*domain.PropertySettings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	if s.rec == nil {
		return nil, nil
	}
	cp := *s.rec
	return &cp, nil
}

func (s *Settings) Patch(_ context.Context, columns map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	if s.rec == nil {
		s.rec = &domain.PropertySettings{}
	}
	for col, v := range columns {
		if err := setColumn(s.rec, col, v); err != nil {
			return err
		}
	}
	s.rec.UpdatedAt = time.Now()
	s.Patches++
	return nil
}

func setColumn(rec *domain.PropertySettings, col string, v any) error {
	switch col {
	case "house_name":
		rec.HouseName = v.(*string)
	case "address":
		rec.Address = v.(*string)
	case "logo_url":
		rec.LogoURL = v.(*string)
	case "contact_phone":
		rec.ContactPhone = v.(*string)
	case "contact_email":
		rec.ContactEmail = v.(*string)
	case "contact_whatsapp":
		rec.ContactWhatsApp = v.(*string)
	case "theme_primary":
		rec.ThemePrimary = v.(*string)
	case "theme_secondary":
		rec.ThemeSecondary = v.(*string)
	case "theme_accent":
		rec.ThemeAccent = v.(*string)
	case "theme_table_header_background":
		rec.ThemeTableHeaderBackground = v.(*string)
	case "theme_table_header_text":
		rec.ThemeTableHeaderText = v.(*string)
	case "document_categories":
		rec.DocumentCategories = v.([]string)
	case "whatsapp_reminder_enabled":
		rec.WhatsAppReminderEnabled = v.(*bool)
	case "whatsapp_reminder_days_before":
		rec.WhatsAppReminderDaysBefore = v.(*int)
	case "whatsapp_reminder_template":
		rec.WhatsAppReminderTemplate = v.(*string)
	case "date_format":
		rec.DateFormat = v.(*string)
	case "currency_symbol":
		rec.CurrencySymbol = v.(*string)
	default:
		return fmt.Errorf("unknown settings column %q", col)
	}
	return nil
}

// Overlay keeps the overlay blob in memory.
type Overlay struct {
	mu    sync.Mutex
	blob  []byte
	Saves int
}

var _ ports.OverlayStore = (*Overlay)(nil)

func NewOverlay(blob string) *Overlay {
	return &Overlay{blob: []byte(blob)}
}

func (o *Overlay) Load(context.Context) ([]byte, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]byte(nil), o.blob...), nil
}

func (o *Overlay) Save(_ context.Context, blob []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.blob = append([]byte(nil), blob...)
	o.Saves++
	return nil
}

func (o *Overlay) Blob() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return string(o.blob)
}
