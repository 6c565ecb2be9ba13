package settings

import (
	"encoding/json"
	"reflect"

	"rentflow-backend/internal/domain"
)

// Overlay holds locally persisted settings keyed by top-level field name.
// Values may be partial objects.
type Overlay map[string]json.RawMessage

// Clone returns a copy that can be modified without touching o.
func (o Overlay) Clone() Overlay {
	out := make(Overlay, len(o))
	for k, v := range o {
		out[k] = append(json.RawMessage(nil), v...)
	}
	return out
}

// Reconcile builds the unified settings from the server row and the local
// overlay. A nil server row means defaults. Overlay keys win over server
// values: nested objects merge field by field and arrays are replaced whole.
// Overlay entries that do not match the schema are ignored.
func Reconcile(server *domain.PropertySettings, overlay Overlay) Settings {
	base := FromRecord(server)
	merged := base
	for key, raw := range overlay {
		f, ok := fieldByName(key)
		if !ok {
			continue
		}
		target := reflect.ValueOf(&merged).Elem().FieldByIndex(f.Index)
		candidate := reflect.New(f.Type)
		candidate.Elem().Set(target)
		if err := json.Unmarshal(raw, candidate.Interface()); err != nil {
			continue
		}
		target.Set(candidate.Elem())
	}
	fillEmpty(&merged, base)
	return merged
}

// FromRecord maps each server column onto its unified field. Null columns
// keep the default value.
func FromRecord(rec *domain.PropertySettings) Settings {
	s := Defaults()
	if rec == nil {
		return s
	}
	setString(&s.HouseName, rec.HouseName)
	setString(&s.Address, rec.Address)
	setString(&s.LogoURL, rec.LogoURL)
	setString(&s.Contact.Phone, rec.ContactPhone)
	setString(&s.Contact.Email, rec.ContactEmail)
	setString(&s.Contact.WhatsApp, rec.ContactWhatsApp)
	setString(&s.Theme.Colors.Primary, rec.ThemePrimary)
	setString(&s.Theme.Colors.Secondary, rec.ThemeSecondary)
	setString(&s.Theme.Colors.Accent, rec.ThemeAccent)
	setString(&s.Theme.Colors.TableHeaderBackground, rec.ThemeTableHeaderBackground)
	setString(&s.Theme.Colors.TableHeaderText, rec.ThemeTableHeaderText)
	if rec.DocumentCategories != nil {
		s.DocumentCategories = append([]string(nil), rec.DocumentCategories...)
	}
	if rec.WhatsAppReminderEnabled != nil {
		s.WhatsAppReminder.Enabled = *rec.WhatsAppReminderEnabled
	}
	if rec.WhatsAppReminderDaysBefore != nil {
		s.WhatsAppReminder.DaysBefore = *rec.WhatsAppReminderDaysBefore
	}
	setString(&s.WhatsAppReminder.Template, rec.WhatsAppReminderTemplate)
	setString(&s.Locale.DateFormat, rec.DateFormat)
	setString(&s.Locale.CurrencySymbol, rec.CurrencySymbol)
	return s
}

// ToRecord is the inverse of FromRecord: every server column is set.
func ToRecord(s Settings) domain.PropertySettings {
	return domain.PropertySettings{
		HouseName:                  ptr(s.HouseName),
		Address:                    ptr(s.Address),
		LogoURL:                    ptr(s.LogoURL),
		ContactPhone:               ptr(s.Contact.Phone),
		ContactEmail:               ptr(s.Contact.Email),
		ContactWhatsApp:            ptr(s.Contact.WhatsApp),
		ThemePrimary:               ptr(s.Theme.Colors.Primary),
		ThemeSecondary:             ptr(s.Theme.Colors.Secondary),
		ThemeAccent:                ptr(s.Theme.Colors.Accent),
		ThemeTableHeaderBackground: ptr(s.Theme.Colors.TableHeaderBackground),
		ThemeTableHeaderText:       ptr(s.Theme.Colors.TableHeaderText),
		DocumentCategories:         append([]string{}, s.DocumentCategories...),
		WhatsAppReminderEnabled:    ptr(s.WhatsAppReminder.Enabled),
		WhatsAppReminderDaysBefore: ptr(s.WhatsAppReminder.DaysBefore),
		WhatsAppReminderTemplate:   ptr(s.WhatsAppReminder.Template),
		DateFormat:                 ptr(s.Locale.DateFormat),
		CurrencySymbol:             ptr(s.Locale.CurrencySymbol),
	}
}

// Owner reports which store owns the named top-level field.
func Owner(field string) (string, bool) {
	f, ok := fieldByName(field)
	if !ok {
		return "", false
	}
	return f.Tag.Get("owner"), true
}

// Fields lists every top-level field name in declaration order.
func Fields() []string {
	t := reflect.TypeOf(Settings{})
	out := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		out = append(out, jsonName(t.Field(i).Tag.Get("json")))
	}
	return out
}

// Columns returns the property_settings columns backing field, with the
// values taken from s.
func Columns(field string, s Settings) map[string]any {
	rec := reflect.ValueOf(ToRecord(s))
	t := rec.Type()
	cols := map[string]any{}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Tag.Get("field") != field {
			continue
		}
		cols[sf.Tag.Get("db")] = rec.Field(i).Interface()
	}
	return cols
}

func fieldByName(name string) (reflect.StructField, bool) {
	t := reflect.TypeOf(Settings{})
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if jsonName(f.Tag.Get("json")) == name {
			return f, true
		}
	}
	return reflect.StructField{}, false
}

// fillEmpty restores slices an overlay set to null.
func fillEmpty(s *Settings, base Settings) {
	if s.DocumentCategories == nil {
		s.DocumentCategories = base.DocumentCategories
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func ptr[T any](v T) *T {
	return &v
}
