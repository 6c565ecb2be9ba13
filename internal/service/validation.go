package service

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"rentflow-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterStructValidationMapRules(map[string]string{
		"Name":     "required,max=200",
		"Email":    "omitempty,email",
		"Property": "required",
		"JoinDate": "required",
		"Status":   "oneof=Active Paid Overdue",
	}, domain.Tenant{})
	v.RegisterStructValidationMapRules(map[string]string{
		"TenantID": "required",
		"Year":     "gte=1",
		"Month":    "gte=1,lte=12",
		"DueDate":  "required",
		"Status":   "oneof=Pending Paid Overdue",
	}, domain.RentEntry{})
	v.RegisterStructValidationMapRules(map[string]string{
		"Date":     "required",
		"Category": "required",
		"Status":   "oneof=Due Paid",
	}, domain.Expense{})
	v.RegisterStructValidationMapRules(map[string]string{
		"Category": "required",
		"FileURL":  "required",
	}, domain.Document{})
	v.RegisterStructValidationMapRules(map[string]string{
		"Date":   "required",
		"Type":   "oneof=in out",
		"Person": "required",
	}, domain.ZakatTransaction{})
	v.RegisterStructValidationMapRules(map[string]string{
		"BankName":      "required",
		"AccountHolder": "required",
		"AccountNumber": "required",
	}, domain.ZakatBankDetail{})
	v.RegisterStructValidationMapRules(map[string]string{
		"Date": "required",
		"Type": "oneof=received refunded",
	}, domain.Deposit{})
	v.RegisterStructValidationMapRules(map[string]string{
		"Date":        "required",
		"Description": "required",
	}, domain.WorkDetail{})
	v.RegisterStructValidationMapRules(map[string]string{
		"Title": "required,max=200",
	}, domain.Notice{})
	return v
}

// Validate checks records that have no service of their own. Amount must
// not be negative when the record carries one.
func Validate(v any) error {
	var extra map[string]string
	switch rec := v.(type) {
	case domain.Deposit:
		extra = positiveRule("amount", rec.Amount.IsPositive())
	case domain.WorkDetail:
		extra = amountRule("amount", rec.Amount.IsNegative())
	}
	return check(v, extra)
}

// check validates v against the registered rules. extra carries failures
// found by hand (amounts, cross-field rules) and is merged into the result.
func check(v any, extra map[string]string) error {
	fields := map[string]string{}
	if err := validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields[fieldName(fe.Field())] = reason(fe)
		}
	}
	for k, v := range extra {
		fields[k] = v
	}
	if len(fields) == 0 {
		return nil
	}
	return &domain.ValidationError{Fields: fields}
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "gte":
		return "must be at least " + fe.Param()
	case "lte", "max":
		return "must be at most " + fe.Param()
	}
	return "is invalid"
}

// fieldName turns a Go field name into the JSON name clients send.
func fieldName(s string) string {
	switch {
	case strings.HasSuffix(s, "ID"):
		s = strings.TrimSuffix(s, "ID") + "Id"
	case strings.HasSuffix(s, "URL"):
		s = strings.TrimSuffix(s, "URL") + "Url"
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToLower(r)) + s[n:]
}
