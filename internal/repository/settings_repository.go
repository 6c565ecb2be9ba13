package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"rentflow-backend/internal/db"
	"rentflow-backend/internal/domain"

	"github.com/jackc/pgx/v5"
)

type SettingsRepository struct {
	DB *db.Postgres
}

var settingsColumns = []string{
	"house_name", "address", "logo_url",
	"contact_phone", "contact_email", "contact_whatsapp",
	"theme_primary", "theme_secondary", "theme_accent", "theme_table_header_background", "theme_table_header_text",
	"document_categories",
	"whatsapp_reminder_enabled", "whatsapp_reminder_days_before", "whatsapp_reminder_template",
	"date_format", "currency_symbol",
}

// Get loads the settings row. It returns nil, nil when nothing was saved yet.
func (r SettingsRepository) Get(ctx context.Context) (*domain.PropertySettings, error) {
	return scanSettings(r.DB.Pool.QueryRow(ctx, selectSettings))
}

var selectSettings = `SELECT ` + strings.Join(settingsColumns, ", ") + `, updated_at FROM property_settings WHERE id=1`

func scanSettings(row pgx.Row) (*domain.PropertySettings, error) {
	var s domain.PropertySettings
	if err := row.Scan(
		&s.HouseName, &s.Address, &s.LogoURL,
		&s.ContactPhone, &s.ContactEmail, &s.ContactWhatsApp,
		&s.ThemePrimary, &s.ThemeSecondary, &s.ThemeAccent, &s.ThemeTableHeaderBackground, &s.ThemeTableHeaderText,
		&s.DocumentCategories,
		&s.WhatsAppReminderEnabled, &s.WhatsAppReminderDaysBefore, &s.WhatsAppReminderTemplate,
		&s.DateFormat, &s.CurrencySymbol, &s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

// Patch upserts row 1, writing only the given columns.
func (r SettingsRepository) Patch(ctx context.Context, columns map[string]any) error {
	if len(columns) == 0 {
		return nil
	}
	names := make([]string, 0, len(columns))
	for name := range columns {
		if !knownSettingsColumn(name) {
			return fmt.Errorf("unknown settings column %q", name)
		}
		names = append(names, name)
	}
	sort.Strings(names)

	values := []any{1}
	updates := make([]string, 0, len(names)+1)
	for _, name := range names {
		values = append(values, columns[name])
		updates = append(updates, name+"=EXCLUDED."+name)
	}
	updates = append(updates, "updated_at=now()")

	sql, args, err := db.Builder.Insert("property_settings").
		Columns(append([]string{"id"}, names...)...).
		Values(values...).
		Suffix("ON CONFLICT (id) DO UPDATE SET " + strings.Join(updates, ", ")).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.DB.Pool.Exec(ctx, sql, args...)
	return err
}

// writeSettings overwrites row 1 inside tx. A nil s leaves the table empty.
func writeSettings(ctx context.Context, tx pgx.Tx, s *domain.PropertySettings) error {
	if _, err := tx.Exec(ctx, `DELETE FROM property_settings`); err != nil {
		return err
	}
	if s == nil {
		return nil
	}
	_, err := tx.Exec(ctx, `
		INSERT INTO property_settings (id, `+strings.Join(settingsColumns, ", ")+`, updated_at)
		VALUES (1,$1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17, now())
	`,
		s.HouseName, s.Address, s.LogoURL,
		s.ContactPhone, s.ContactEmail, s.ContactWhatsApp,
		s.ThemePrimary, s.ThemeSecondary, s.ThemeAccent, s.ThemeTableHeaderBackground, s.ThemeTableHeaderText,
		s.DocumentCategories,
		s.WhatsAppReminderEnabled, s.WhatsAppReminderDaysBefore, s.WhatsAppReminderTemplate,
		s.DateFormat, s.CurrencySymbol,
	)
	return err
}

func knownSettingsColumn(name string) bool {
	for _, c := range settingsColumns {
		if c == name {
			return true
		}
	}
	return false
}
