package money

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount is an exact decimal money value in a currency-agnostic unit.
// It always renders with two fraction digits.
type Amount struct {
	d decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

func Zero() Amount { return Amount{d: decimal.Zero} }

// Parse reads a decimal string such as "8.90". Binary floats never enter here.
func Parse(s string) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return Amount{d: d}, nil
}

// MustParse is Parse for literals known to be valid.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

func (a Amount) Mul(qty int) Amount {
	return Amount{d: a.d.Mul(decimal.NewFromInt(int64(qty)))}
}

func (a Amount) Add(b Amount) Amount {
	return Amount{d: a.d.Add(b.d)}
}

func (a Amount) IsNegative() bool { return a.d.IsNegative() }

func (a Amount) Equal(b Amount) bool { return a.d.Equal(b.d) }

// MinorUnits converts to the smallest currency subdivision (x100), rounded
// half away from zero. Exact for inputs with at most two fraction digits.
func (a Amount) MinorUnits() int64 {
	return a.d.Mul(hundred).Round(0).IntPart()
}

func (a Amount) String() string {
	return a.d.StringFixed(2)
}

// MarshalJSON writes a JSON number with two fraction digits, e.g. 17.80.
func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(b); err != nil {
		return err
	}
	a.d = d
	return nil
}
