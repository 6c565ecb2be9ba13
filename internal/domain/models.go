package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Enumerations
const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleViewer  UserRole = "viewer"

	TenantActive  TenantStatus = "Active"
	TenantPaid    TenantStatus = "Paid"
	TenantOverdue TenantStatus = "Overdue"

	RentPending RentStatus = "Pending"
	RentPaid    RentStatus = "Paid"
	RentOverdue RentStatus = "Overdue"

	ExpenseDue  ExpenseStatus = "Due"
	ExpensePaid ExpenseStatus = "Paid"

	ZakatIn  ZakatType = "in"
	ZakatOut ZakatType = "out"

	DepositReceived DepositType = "received"
	DepositRefunded DepositType = "refunded"

	LogInfo    ActivityLogType = "info"
	LogWarning ActivityLogType = "warning"
	LogError   ActivityLogType = "error"
)

type UserRole string
type TenantStatus string
type RentStatus string
type ExpenseStatus string
type ZakatType string
type DepositType string
type ActivityLogType string

func (s TenantStatus) Valid() bool {
	switch s {
	case TenantActive, TenantPaid, TenantOverdue:
		return true
	}
	return false
}

func (s RentStatus) Valid() bool {
	switch s {
	case RentPending, RentPaid, RentOverdue:
		return true
	}
	return false
}

func (s ExpenseStatus) Valid() bool {
	return s == ExpenseDue || s == ExpensePaid
}

type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	Role         UserRole   `json:"role"`
	IsGoogle     bool       `json:"isGoogle"`
	PasswordHash *string    `json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    *time.Time `json:"deletedAt,omitempty"`
}

type Tenant struct {
	ID               uuid.UUID        `json:"id"`
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Property         string           `json:"property"`
	Rent             decimal.Decimal  `json:"rent"`
	JoinDate         time.Time        `json:"joinDate"`
	Status           TenantStatus     `json:"status"`
	AvatarURL        string           `json:"avatarUrl"`
	FatherName       string           `json:"fatherName"`
	Address          string           `json:"address"`
	DateOfBirth      *time.Time       `json:"dateOfBirth,omitempty"`
	NationalID       string           `json:"nationalId"`
	DepositAmount    *decimal.Decimal `json:"depositAmount,omitempty"`
	ElectricityMeter string           `json:"electricityMeter"`
	GasMeter         string           `json:"gasMeter"`
	WaterMeter       string           `json:"waterMeter"`
	Documents        []string         `json:"documents"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
	DeletedAt        *time.Time       `json:"deletedAt,omitempty"`
}

// RentEntry is one billing period for one tenant. TenantName, Property and
// AvatarURL are copied from the tenant when the entry is written.
type RentEntry struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    uuid.UUID       `json:"tenantId"`
	TenantName  string          `json:"tenantName"`
	Property    string          `json:"property"`
	AvatarURL   string          `json:"avatarUrl"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"dueDate"`
	Status      RentStatus      `json:"status"`
	PaymentDate *time.Time      `json:"paymentDate,omitempty"`
	CollectedBy string          `json:"collectedBy"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty"`
}

type Expense struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Status      ExpenseStatus   `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty"`
}

type Document struct {
	ID          uuid.UUID  `json:"id"`
	Category    string     `json:"category"`
	FileURL     string     `json:"fileUrl"`
	MimeType    string     `json:"mimeType"`
	FileName    string     `json:"fileName"`
	Description string     `json:"description"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

type ZakatTransaction struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Type        ZakatType       `json:"type"`
	Person      string          `json:"person"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	ReceiptURL  string          `json:"receiptUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty"`
}

type ZakatBankDetail struct {
	ID            uuid.UUID  `json:"id"`
	BankName      string     `json:"bankName"`
	AccountHolder string     `json:"accountHolder"`
	AccountNumber string     `json:"accountNumber"`
	IBAN          string     `json:"iban"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
	DeletedAt     *time.Time `json:"deletedAt,omitempty"`
}

type Deposit struct {
	ID          uuid.UUID       `json:"id"`
	TenantID    *uuid.UUID      `json:"tenantId,omitempty"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Type        DepositType     `json:"type"`
	Description string          `json:"description"`
	ReceiptURL  string          `json:"receiptUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty"`
}

type WorkDetail struct {
	ID          uuid.UUID       `json:"id"`
	Date        time.Time       `json:"date"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Status      string          `json:"status"`
	ReceiptURL  string          `json:"receiptUrl"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
	DeletedAt   *time.Time      `json:"deletedAt,omitempty"`
}

type Notice struct {
	ID        uuid.UUID  `json:"id"`
	Date      time.Time  `json:"date"`
	Title     string     `json:"title"`
	Body      string     `json:"body"`
	FileURL   string     `json:"fileUrl"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
	DeletedAt *time.Time `json:"deletedAt,omitempty"`
}

// ActivityLog is one audit trail entry.
type ActivityLog struct {
	ID       uuid.UUID       `json:"id"`
	Title    string          `json:"title"`
	Message  string          `json:"message"`
	Actor    string          `json:"actor"`
	Type     ActivityLogType `json:"type"`
	LoggedAt time.Time       `json:"timestamp"`
}

// PropertySettings is the single server-side settings row. Every column is
// nullable; the field tag names the unified settings field that owns it.
type PropertySettings struct {
	HouseName                  *string   `db:"house_name" field:"houseName" json:"house_name,omitempty"`
	Address                    *string   `db:"address" field:"address" json:"address,omitempty"`
	LogoURL                    *string   `db:"logo_url" field:"logoUrl" json:"logo_url,omitempty"`
	ContactPhone               *string   `db:"contact_phone" field:"contact" json:"contact_phone,omitempty"`
	ContactEmail               *string   `db:"contact_email" field:"contact" json:"contact_email,omitempty"`
	ContactWhatsApp            *string   `db:"contact_whatsapp" field:"contact" json:"contact_whatsapp,omitempty"`
	ThemePrimary               *string   `db:"theme_primary" field:"theme" json:"theme_primary,omitempty"`
	ThemeSecondary             *string   `db:"theme_secondary" field:"theme" json:"theme_secondary,omitempty"`
	ThemeAccent                *string   `db:"theme_accent" field:"theme" json:"theme_accent,omitempty"`
	ThemeTableHeaderBackground *string   `db:"theme_table_header_background" field:"theme" json:"theme_table_header_background,omitempty"`
	ThemeTableHeaderText       *string   `db:"theme_table_header_text" field:"theme" json:"theme_table_header_text,omitempty"`
	DocumentCategories         []string  `db:"document_categories" field:"documentCategories" json:"document_categories,omitempty"`
	WhatsAppReminderEnabled    *bool     `db:"whatsapp_reminder_enabled" field:"whatsappReminder" json:"whatsapp_reminder_enabled,omitempty"`
	WhatsAppReminderDaysBefore *int      `db:"whatsapp_reminder_days_before" field:"whatsappReminder" json:"whatsapp_reminder_days_before,omitempty"`
	WhatsAppReminderTemplate   *string   `db:"whatsapp_reminder_template" field:"whatsappReminder" json:"whatsapp_reminder_template,omitempty"`
	DateFormat                 *string   `db:"date_format" field:"locale" json:"date_format,omitempty"`
	CurrencySymbol             *string   `db:"currency_symbol" field:"locale" json:"currency_symbol,omitempty"`
	UpdatedAt                  time.Time `db:"-" json:"updatedAt"`
}

// Snapshot is a full export of every entity table.
type Snapshot struct {
	ExportedAt        time.Time          `json:"exportedAt"`
	Tenants           []Tenant           `json:"tenants"`
	RentEntries       []RentEntry        `json:"rentEntries"`
	Expenses          []Expense          `json:"expenses"`
	Documents         []Document         `json:"documents"`
	ZakatTransactions []ZakatTransaction `json:"zakatTransactions"`
	ZakatBankDetails  []ZakatBankDetail  `json:"zakatBankDetails"`
	Deposits          []Deposit          `json:"deposits"`
	WorkDetails       []WorkDetail       `json:"workDetails"`
	Notices           []Notice           `json:"notices"`
	Settings          *PropertySettings  `json:"settings,omitempty"`
}

// Upload is a file received from a client, ready to be written to object storage.
type Upload struct {
	FileName    string
	ContentType string
	Data        []byte
}
