// Package money provides fixed-point arithmetic for currency values.
// Every operation goes through shopspring/decimal so that values with two
// fractional digits never pick up binary floating-point drift.
package money

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits stored for every amount.
const Places int32 = 2

var (
	// ErrDivideByZero is returned by Divide when the divisor is zero.
	ErrDivideByZero = errors.New("division by zero")
	// ErrNotNumeric is returned by FromValue for values that cannot be read as a finite number.
	ErrNotNumeric = errors.New("value is not a finite number")
)

// FromValue converts a number or numeric string into a decimal.
// Floats are converted through their shortest decimal representation, so 0.1 stays 0.1.
func FromValue(v any) (decimal.Decimal, error) {
	switch x := v.(type) {
	case decimal.Decimal:
		return x, nil
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero, ErrNotNumeric
		}
		return *x, nil
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return decimal.Zero, ErrNotNumeric
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, x)
		}
		return d, nil
	case json.Number:
		return FromValue(string(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return decimal.Zero, ErrNotNumeric
		}
		return decimal.NewFromFloat(x), nil
	case float32:
		return FromValue(float64(x))
	case int:
		return decimal.NewFromInt(int64(x)), nil
	case int32:
		return decimal.NewFromInt32(x), nil
	case int64:
		return decimal.NewFromInt(x), nil
	default:
		return decimal.Zero, fmt.Errorf("%w: unsupported type %T", ErrNotNumeric, v)
	}
}

// Round rounds x to two decimal places, half away from zero (12.345 -> 12.35).
func Round(x decimal.Decimal) decimal.Decimal {
	return x.Round(Places)
}

// Add returns a + b.
func Add(a, b decimal.Decimal) decimal.Decimal {
	return a.Add(b)
}

// Subtract returns a - b.
func Subtract(a, b decimal.Decimal) decimal.Decimal {
	return a.Sub(b)
}

// Multiply returns a * b.
func Multiply(a, b decimal.Decimal) decimal.Decimal {
	return a.Mul(b)
}

// Divide returns a / b rounded to two decimal places.
func Divide(a, b decimal.Decimal) (decimal.Decimal, error) {
	if b.IsZero() {
		return decimal.Zero, ErrDivideByZero
	}
	return a.DivRound(b, Places), nil
}

// Sum adds every value in the list. An empty list sums to zero.
func Sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// IsValidAmount reports whether v is a finite, non-negative number.
func IsValidAmount(v any) bool {
	d, err := FromValue(v)
	if err != nil {
		return false
	}
	return !d.IsNegative()
}

// ToFixed formats x with exactly the given number of decimal places.
// Example: ToFixed(12.3456, 2) returns "12.35".
func ToFixed(x decimal.Decimal, places int) string {
	return x.StringFixed(int32(places))
}

// Format is ToFixed with the stored precision.
func Format(x decimal.Decimal) string {
	return x.StringFixed(Places)
}
