// Package money coerces loosely typed amounts into decimals.
//
// Records reach the reconciliation code from several sources: JSON bodies,
// relational columns and documents imported from a schema-less store where
// amounts were sometimes saved as strings. Every boundary converts through
// this package so that a missing or malformed amount always becomes zero.
package money

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Currency is the label printed in front of amounts.
const Currency = "LKR"

// Parse converts a user-entered string into a decimal. Grouping commas and
// surrounding whitespace are ignored. Anything unparseable yields zero.
func Parse(s string) decimal.Decimal {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, Currency)
	clean = strings.ReplaceAll(strings.TrimSpace(clean), ",", "")

	if clean == "" {
		return decimal.Zero
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero
	}

	return d
}

// FromFloat converts a float, mapping NaN and infinities to zero.
func FromFloat(f float64) decimal.Decimal {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return decimal.Zero
	}

	return decimal.NewFromFloat(f)
}

// FromAny converts any value a decoder may produce for an amount field.
func FromAny(v any) decimal.Decimal {
	switch x := v.(type) {
	case nil:
		return decimal.Zero
	case decimal.Decimal:
		return x
	case *decimal.Decimal:
		if x == nil {
			return decimal.Zero
		}

		return *x
	case string:
		return Parse(x)
	case json.Number:
		return Parse(x.String())
	case float64:
		return FromFloat(x)
	case float32:
		return FromFloat(float64(x))
	case int:
		return decimal.NewFromInt(int64(x))
	case int32:
		return decimal.NewFromInt32(x)
	case int64:
		return decimal.NewFromInt(x)
	case primitive.Decimal128:
		return Parse(x.String())
	default:
		return decimal.Zero
	}
}

// NonNegative clamps d at zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}

	return d
}

// Format renders d with two decimals and thousands separators, e.g. "1,234.50".
func Format(d decimal.Decimal) string {
	s := d.StringFixed(2)

	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder

	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}

		b.WriteRune(r)
	}

	return sign + b.String() + "." + frac
}

// Amount is a decimal that unmarshals from a JSON number, a numeric string or
// null. Malformed input decodes to zero instead of failing the request.
type Amount struct {
	decimal.Decimal
}

func NewAmount(d decimal.Decimal) Amount {
	return Amount{Decimal: d}
}

func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)

	switch {
	case len(data) == 0, bytes.Equal(data, []byte("null")):
		a.Decimal = decimal.Zero
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			a.Decimal = decimal.Zero
			return nil
		}

		a.Decimal = Parse(s)
	default:
		a.Decimal = Parse(string(data))
	}

	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.Decimal.String()), nil
}
