package money_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/SscSPs/dailybalance/internal/utils/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestFromValue(t *testing.T) {
	tests := []struct {
		name    string
		in      any
		want    string
		wantErr bool
	}{
		{name: "float keeps short representation", in: 0.1, want: "0.1"},
		{name: "numeric string", in: " 12.50 ", want: "12.5"},
		{name: "json number", in: json.Number("25"), want: "25"},
		{name: "int", in: 7, want: "7"},
		{name: "decimal passthrough", in: d("3.14"), want: "3.14"},
		{name: "empty string", in: "", wantErr: true},
		{name: "garbage string", in: "abc", wantErr: true},
		{name: "NaN", in: math.NaN(), wantErr: true},
		{name: "infinity", in: math.Inf(1), wantErr: true},
		{name: "unsupported type", in: []int{1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.FromValue(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, money.ErrNotNumeric)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(d(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}

func TestArithmeticHasNoFloatingPointDrift(t *testing.T) {
	a, _ := money.FromValue(0.1)
	b, _ := money.FromValue(0.2)
	assert.Equal(t, "0.30", money.Format(money.Add(a, b)))

	assert.Equal(t, "0.10", money.Format(money.Subtract(d("0.3"), d("0.2"))))
	assert.Equal(t, "3.30", money.Format(money.Multiply(d("1.1"), d("3"))))
	assert.Equal(t, "0.60", money.Format(money.Sum([]decimal.Decimal{a, b, d("0.3")})))
	assert.True(t, money.Sum(nil).IsZero())
}

func TestDivide(t *testing.T) {
	got, err := money.Divide(d("10"), d("3"))
	require.NoError(t, err)
	assert.Equal(t, "3.33", money.Format(got))

	_, err = money.Divide(d("10"), decimal.Zero)
	assert.ErrorIs(t, err, money.ErrDivideByZero)
}

func TestRoundIsIdempotent(t *testing.T) {
	inputs := []string{"12.345", "12.344", "-0.005", "0.005", "999999999.999", "1", "0", "2.675"}
	for _, in := range inputs {
		once := money.Round(d(in))
		assert.True(t, money.Round(once).Equal(once), "round not idempotent for %s", in)
	}
	assert.Equal(t, "12.35", money.Format(money.Round(d("12.345"))))
	assert.Equal(t, "2.68", money.Format(money.Round(d("2.675"))))
}

func TestIsValidAmount(t *testing.T) {
	assert.True(t, money.IsValidAmount("0"))
	assert.True(t, money.IsValidAmount(12.5))
	assert.False(t, money.IsValidAmount(-1))
	assert.False(t, money.IsValidAmount(math.NaN()))
	assert.False(t, money.IsValidAmount(math.Inf(-1)))
	assert.False(t, money.IsValidAmount("Infinity"))
}

func TestToFixed(t *testing.T) {
	assert.Equal(t, "12.35", money.ToFixed(d("12.3456"), 2))
	assert.Equal(t, "12", money.ToFixed(d("12.3456"), 0))
	assert.Equal(t, "5.000", money.ToFixed(d("5"), 3))
}
