// Package validation normalizes and checks user- or model-supplied field values
// before they reach the ledger. Every function is pure.
package validation

import (
	"regexp"
	"strings"
	"time"

	"github.com/SscSPs/dailybalance/internal/utils/money"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date key format used throughout the ledger.
const DateLayout = "2006-01-02"

// MaxHistoryYears bounds how far back a date may be.
const MaxHistoryYears = 5

var (
	// MaxAmount is the largest amount accepted by ValidateAmount.
	MaxAmount = decimal.RequireFromString("999999999.99")

	htmlTagPattern   = regexp.MustCompile(`<[^>]*>`)
	currencyStripper = strings.NewReplacer(
		"$", "", "€", "", "£", "", "₹", "", "¥", "", "₩", "", "₽", "",
		",", "", " ", "", "\t", "", "\u00a0", "",
	)

	validate = validator.New()
)

// DefaultCategories is the category set used when none is configured.
var DefaultCategories = []string{
	"Food", "Transport", "Shopping", "Bills", "Entertainment", "Health",
	"Education", "Salary", "Freelance", "Investment", "Gift", "Other",
}

// Result is the outcome of validating one field.
type Result[T any] struct {
	IsValid bool
	Error   string
	Value   T
}

func invalid[T any](msg string) Result[T] {
	return Result[T]{IsValid: false, Error: msg}
}

func valid[T any](v T) Result[T] {
	return Result[T]{IsValid: true, Value: v}
}

// ValidateAmount parses a user-typed amount such as "$1,234.50".
func ValidateAmount(text string) Result[decimal.Decimal] {
	cleaned := currencyStripper.Replace(strings.TrimSpace(text))
	if cleaned == "" {
		return invalid[decimal.Decimal]("Amount is required")
	}
	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return invalid[decimal.Decimal]("Amount must be a valid number")
	}
	if !amount.IsPositive() {
		return invalid[decimal.Decimal]("Amount must be greater than 0")
	}
	if amount.GreaterThan(MaxAmount) {
		return invalid[decimal.Decimal]("Amount is too large (max 999,999,999.99)")
	}
	return valid(money.Round(amount))
}

// ValidatePersonName checks a debtor or lender name.
func ValidatePersonName(text string) Result[string] {
	name := strings.TrimSpace(text)
	if err := validate.Var(name, "required"); err != nil {
		return invalid[string]("Name is required")
	}
	if err := validate.Var(name, "min=2,max=50"); err != nil {
		return invalid[string]("Name must be between 2 and 50 characters")
	}
	if htmlTagPattern.MatchString(name) {
		return invalid[string]("Name contains invalid characters")
	}
	return valid(name)
}

// ValidateNote checks an optional free-text note. An empty note is valid.
func ValidateNote(text string) Result[string] {
	note := strings.TrimSpace(text)
	if err := validate.Var(note, "max=200"); err != nil {
		return invalid[string]("Note must be 200 characters or less")
	}
	if htmlTagPattern.MatchString(note) {
		return invalid[string]("Note contains invalid characters")
	}
	return valid(note)
}

// ValidateCategory checks value against the allowed set, ignoring case.
// The returned value uses the spelling from the allowed set.
func ValidateCategory(value string, allowed []string) Result[string] {
	category := strings.TrimSpace(value)
	if err := validate.Var(category, "required"); err != nil {
		return invalid[string]("Category is required")
	}
	for _, a := range allowed {
		if strings.EqualFold(a, category) {
			return valid(a)
		}
	}
	return invalid[string]("Category must be one of: " + strings.Join(allowed, ", "))
}

// ValidateDate checks a YYYY-MM-DD (or RFC 3339) date against now.
// Dates after now's calendar day, or more than MaxHistoryYears before it, are rejected.
// The value is the normalized YYYY-MM-DD key.
func ValidateDate(text string, now time.Time) Result[string] {
	raw := strings.TrimSpace(text)
	if raw == "" {
		return invalid[string]("Date is required")
	}
	parsed, err := time.ParseInLocation(DateLayout, raw, now.Location())
	if err != nil {
		ts, err2 := time.Parse(time.RFC3339, raw)
		if err2 != nil {
			return invalid[string]("Date must be in YYYY-MM-DD format")
		}
		parsed = ts.In(now.Location())
	}
	day := truncateDay(parsed)
	today := truncateDay(now)
	if day.After(today) {
		return invalid[string]("Date cannot be in the future")
	}
	if day.Before(today.AddDate(-MaxHistoryYears, 0, 0)) {
		return invalid[string]("Date cannot be more than 5 years in the past")
	}
	return valid(day.Format(DateLayout))
}

// ValidateDueDate checks a YYYY-MM-DD due date. Future dates are allowed.
func ValidateDueDate(text string) Result[string] {
	raw := strings.TrimSpace(text)
	parsed, err := time.Parse(DateLayout, raw)
	if err != nil {
		return invalid[string]("Due date must be in YYYY-MM-DD format")
	}
	return valid(parsed.Format(DateLayout))
}

// IsDateKey reports whether s is a well-formed YYYY-MM-DD key.
func IsDateKey(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}

// DateKey formats t as a YYYY-MM-DD key in t's location.
func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
