package settings

import "strings"

// Owners of a top-level settings field.
const (
	OwnerServer = "server"
	OwnerLocal  = "local"
)

// Settings is the unified configuration the dashboard consumes. Every
// top-level field carries an owner tag: server fields live in the
// property_settings row, local fields only in the local overlay.
type Settings struct {
	HouseName          string           `json:"houseName" owner:"server"`
	Address            string           `json:"address" owner:"server"`
	LogoURL            string           `json:"logoUrl" owner:"server"`
	Contact            Contact          `json:"contact" owner:"server"`
	Theme              Theme            `json:"theme" owner:"server"`
	DocumentCategories []string         `json:"documentCategories" owner:"server"`
	WhatsAppReminder   WhatsAppReminder `json:"whatsappReminder" owner:"server"`
	Locale             Locale           `json:"locale" owner:"server"`
	TabLabels          TabLabels        `json:"tabLabels" owner:"local"`
	PageText           PageText         `json:"pageText" owner:"local"`
}

type Contact struct {
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	WhatsApp string `json:"whatsapp"`
}

type Theme struct {
	Colors ThemeColors `json:"colors"`
}

// ThemeColors are stored as hex strings.
type ThemeColors struct {
	Primary               string `json:"primary"`
	Secondary             string `json:"secondary"`
	Accent                string `json:"accent"`
	TableHeaderBackground string `json:"tableHeaderBackground"`
	TableHeaderText       string `json:"tableHeaderText"`
}

type WhatsAppReminder struct {
	Enabled    bool   `json:"enabled"`
	DaysBefore int    `json:"daysBefore"`
	Template   string `json:"template"`
}

type Locale struct {
	DateFormat     string `json:"dateFormat"`
	CurrencySymbol string `json:"currencySymbol"`
}

type TabLabels struct {
	Dashboard string `json:"dashboard"`
	Tenants   string `json:"tenants"`
	Rent      string `json:"rent"`
	Expenses  string `json:"expenses"`
	Documents string `json:"documents"`
	Zakat     string `json:"zakat"`
	Settings  string `json:"settings"`
}

type PageText struct {
	DashboardTitle    string `json:"dashboardTitle"`
	DashboardSubtitle string `json:"dashboardSubtitle"`
	TenantsTitle      string `json:"tenantsTitle"`
	RentTitle         string `json:"rentTitle"`
	ExpensesTitle     string `json:"expensesTitle"`
	Footer            string `json:"footer"`
}

// Defaults is the configuration used when nothing has been saved.
func Defaults() Settings {
	return Settings{
		HouseName: "My Property",
		Address:   "",
		LogoURL:   "",
		Contact:   Contact{},
		Theme: Theme{Colors: ThemeColors{
			Primary:               "#2563eb",
			Secondary:             "#64748b",
			Accent:                "#f59e0b",
			TableHeaderBackground: "#1e293b",
			TableHeaderText:       "#ffffff",
		}},
		DocumentCategories: []string{"Lease Agreement", "Identity", "Utility Bill", "Maintenance", "Other"},
		WhatsAppReminder: WhatsAppReminder{
			Enabled:    false,
			DaysBefore: 3,
			Template:   "Dear {name}, your rent of {amount} for {month} is due on {dueDate}.",
		},
		Locale: Locale{DateFormat: "dd/MM/yyyy", CurrencySymbol: "Rs"},
		TabLabels: TabLabels{
			Dashboard: "Dashboard",
			Tenants:   "Tenants",
			Rent:      "Rent",
			Expenses:  "Expenses",
			Documents: "Documents",
			Zakat:     "Zakat",
			Settings:  "Settings",
		},
		PageText: PageText{
			DashboardTitle:    "Overview",
			DashboardSubtitle: "Rent collection and spending at a glance",
			TenantsTitle:      "Tenants",
			RentTitle:         "Rent Collection",
			ExpensesTitle:     "Expenses",
			Footer:            "",
		},
	}
}

// ThemeHSL returns each theme color as an "H S% L%" triple keyed by its JSON name.
func (s Settings) ThemeHSL() map[string]string {
	c := s.Theme.Colors
	return map[string]string{
		"primary":               HexToHSL(c.Primary),
		"secondary":             HexToHSL(c.Secondary),
		"accent":                HexToHSL(c.Accent),
		"tableHeaderBackground": HexToHSL(c.TableHeaderBackground),
		"tableHeaderText":       HexToHSL(c.TableHeaderText),
	}
}

func jsonName(tag string) string {
	name, _, _ := strings.Cut(tag, ",")
	return name
}
