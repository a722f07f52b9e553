// Package money implements the currency amount type used for every monetary
// field: order totals, payments and derived balances. Values are exact
// decimals (shopspring/decimal) and always serialize with two fractional
// digits, e.g. "1234.50".
package money

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits kept for every amount.
const Scale = 2

// ErrInvalid is returned for amounts that cannot be represented exactly.
var ErrInvalid = errors.New("invalid amount")

// Money is an immutable currency amount. The zero value is 0.00.
type Money struct {
	d decimal.Decimal
}

// Zero is 0.00.
var Zero = Money{}

// Max is the largest amount a numeric(12,2) column holds.
var Max = Money{d: decimal.New(999999999999, -Scale)}

// Parse reads an amount coming from an untrusted boundary (JSON body, query
// string). More than two fractional digits are rejected instead of rounded,
// as are exponent forms and magnitudes above Max.
func Parse(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, fmt.Errorf("%w: empty value", ErrInvalid)
	}
	switch strings.ToLower(strings.TrimLeft(s, "+-")) {
	case "nan", "inf", "infinity":
		return Zero, fmt.Errorf("%w: %q is not finite", ErrInvalid, s)
	}
	if strings.ContainsAny(s, "eE") {
		return Zero, fmt.Errorf("%w: %q uses exponent notation", ErrInvalid, s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Zero, fmt.Errorf("%w: %q is not a decimal number", ErrInvalid, s)
	}
	if !d.Equal(d.Round(Scale)) {
		return Zero, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalid, s, Scale)
	}
	m := Money{d: d}
	if m.ExceedsMax() {
		return Zero, fmt.Errorf("%w: %q exceeds the maximum of %s", ErrInvalid, s, Max)
	}
	return m, nil
}

// MustParse is Parse for literals; it panics on error.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// FromMinor builds an amount from minor units (paise, cents): 12345 -> 123.45.
func FromMinor(minor int64) Money {
	return Money{d: decimal.New(minor, -Scale)}
}

// FromDecimal wraps a trusted decimal, e.g. a SUM computed by the database.
func FromDecimal(d decimal.Decimal) Money {
	return Money{d: d.Round(Scale)}
}

// Minor returns the amount in minor units.
func (m Money) Minor() int64 { return m.d.Shift(Scale).IntPart() }

func (m Money) Add(o Money) Money { return Money{d: m.d.Add(o.d)} }

// Sub may return a negative amount; callers clamp where required.
func (m Money) Sub(o Money) Money { return Money{d: m.d.Sub(o.d)} }

// MulInt multiplies by a whole quantity (plates, units).
func (m Money) MulInt(n int64) Money { return Money{d: m.d.Mul(decimal.NewFromInt(n))} }

// ClampZero returns max(m, 0).
func (m Money) ClampZero() Money {
	if m.d.IsNegative() {
		return Zero
	}
	return m
}

func (m Money) Cmp(o Money) int { return m.d.Cmp(o.d) }
func (m Money) Equal(o Money) bool { return m.d.Equal(o.d) }
func (m Money) LessThan(o Money) bool { return m.d.LessThan(o.d) }
func (m Money) GreaterThanOrEqual(o Money) bool { return m.d.GreaterThanOrEqual(o.d) }
func (m Money) IsZero() bool { return m.d.IsZero() }
func (m Money) IsPositive() bool { return m.d.IsPositive() }
func (m Money) IsNegative() bool { return m.d.IsNegative() }

// ExceedsMax reports whether |m| is too large to store.
func (m Money) ExceedsMax() bool { return m.d.Abs().GreaterThan(Max.d) }

// String always renders two fractional digits.
func (m Money) String() string { return m.d.StringFixed(Scale) }

// Sum adds all amounts.
func Sum(amounts ...Money) Money {
	total := Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// MarshalJSON emits a JSON string so clients never see a binary float.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(`"` + m.String() + `"`), nil
}

// UnmarshalJSON accepts "12.50" or 12.50 and applies the Parse rules.
func (m *Money) UnmarshalJSON(b []byte) error {
	s := string(b)
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Scan implements sql.Scanner for numeric(12,2) columns.
func (m *Money) Scan(value any) error {
	if value == nil {
		*m = Zero
		return nil
	}
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return fmt.Errorf("money: scan %T: %w", value, err)
	}
	*m = FromDecimal(d)
	return nil
}

// Value implements driver.Valuer.
func (m Money) Value() (driver.Value, error) {
	return m.String(), nil
}
