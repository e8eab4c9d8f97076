// Package decimal provides the fixed-precision arithmetic the matching
// engine uses for prices and quantities. It wraps github.com/shopspring/decimal
// rather than reimplementing fixed-point math, following the pattern
// github.com/shopspring/decimal is used in throughout the retrieval pack
// (mkhoshkam/orderbook, sujalsin/microCoin): decimal strings in, decimal
// strings out, exact add/sub/mul, and a total order for comparisons.
package decimal

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidDecimal is returned when a string does not parse as a decimal,
// or when a value falls outside the domain the engine supports (see
// MaxIntegerDigits and MaxFractionalDigits).
var ErrInvalidDecimal = errors.New("decimal: invalid value")

// MaxIntegerDigits and MaxFractionalDigits bound, separately, the integer
// and fractional digits Parse will accept, matching spec.md §4.1's
// "typical: up to 18 integer digits, up to 8 fractional". Values outside
// this domain are rejected rather than allowed to silently overflow.
const (
	MaxIntegerDigits    = 18
	MaxFractionalDigits = 8
)

// Decimal is an exact fixed-precision number used for every price and
// quantity that crosses the engine boundary.
type Decimal struct {
	d decimal.Decimal
}

// Zero is the additive identity.
var Zero = Decimal{d: decimal.Zero}

// Parse converts a decimal string into a Decimal. It never tolerates binary
// floating point drift: the string is parsed digit-for-digit.
func Parse(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, ErrInvalidDecimal
	}
	out := Decimal{d: d}
	if !out.withinDomain() {
		return Decimal{}, ErrInvalidDecimal
	}
	return out, nil
}

// MustParse is Parse, panicking on error. Intended for tests and constants,
// never for data crossing the engine boundary.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (dc Decimal) withinDomain() bool {
	coeff := dc.d.Coefficient()
	digits := len(strings.TrimLeft(coeff.String(), "-"))
	exp := dc.d.Exponent()
	fractional := 0
	if exp < 0 {
		fractional = int(-exp)
	}
	integer := digits - fractional
	if integer < 0 {
		integer = 0
	}
	return integer <= MaxIntegerDigits && fractional <= MaxFractionalDigits
}

// Add returns dc + other. Exact; never overflows within the supported domain.
func (dc Decimal) Add(other Decimal) Decimal {
	return Decimal{d: dc.d.Add(other.d)}
}

// Sub returns dc - other.
func (dc Decimal) Sub(other Decimal) Decimal {
	return Decimal{d: dc.d.Sub(other.d)}
}

// Mul returns dc * other.
func (dc Decimal) Mul(other Decimal) Decimal {
	return Decimal{d: dc.d.Mul(other.d)}
}

// Cmp returns -1, 0, or 1 as dc is less than, equal to, or greater than other.
func (dc Decimal) Cmp(other Decimal) int {
	return dc.d.Cmp(other.d)
}

// GreaterThan reports whether dc > other.
func (dc Decimal) GreaterThan(other Decimal) bool { return dc.d.GreaterThan(other.d) }

// GreaterThanOrEqual reports whether dc >= other.
func (dc Decimal) GreaterThanOrEqual(other Decimal) bool { return dc.d.GreaterThanOrEqual(other.d) }

// LessThan reports whether dc < other.
func (dc Decimal) LessThan(other Decimal) bool { return dc.d.LessThan(other.d) }

// LessThanOrEqual reports whether dc <= other.
func (dc Decimal) LessThanOrEqual(other Decimal) bool { return dc.d.LessThanOrEqual(other.d) }

// Equal reports whether dc and other are the same magnitude after normalization.
func (dc Decimal) Equal(other Decimal) bool { return dc.d.Equal(other.d) }

// IsZero reports whether dc is exactly zero.
func (dc Decimal) IsZero() bool { return dc.d.IsZero() }

// IsPositive reports whether dc > 0.
func (dc Decimal) IsPositive() bool { return dc.d.IsPositive() }

// IsNegative reports whether dc < 0.
func (dc Decimal) IsNegative() bool { return dc.d.IsNegative() }

// Min returns the smaller of a and b.
func Min(a, b Decimal) Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// String formats dc with trailing fractional zeros stripped, returning "0"
// for zero, per spec.md §4.1.
func (dc Decimal) String() string {
	if dc.d.IsZero() {
		return "0"
	}
	s := dc.d.String()
	if !strings.Contains(s, ".") {
		return s
	}
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" {
		return "0"
	}
	return s
}

// MarshalText implements encoding.TextMarshaler so Decimal round-trips
// through JSON as the spec-mandated decimal string rather than a float.
func (dc Decimal) MarshalText() ([]byte, error) {
	return []byte(dc.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (dc *Decimal) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*dc = parsed
	return nil
}
