// Package decimal implements the fixed-point numbers used for sensor readings.
//
// A Decimal is an int64 count of hundredths, the same minor-unit approach a
// ledger uses for money: 7.25 is stored and compared as 725, so equality and
// range filters are exact and never suffer binary floating point rounding.
package decimal

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Places is the number of fractional digits every Decimal carries.
const Places = 2

// unit is 10^Places.
const unit = 100

// maxIntegerDigits keeps every parsed value inside int64 hundredths.
const maxIntegerDigits = 15

var (
	// ErrSyntax is returned for input that is not a plain decimal number.
	ErrSyntax = errors.New("decimal: a valid number is required")

	// ErrPlaces is returned when more than Places fractional digits are given.
	ErrPlaces = errors.New("decimal: too many decimal places")

	// ErrRange is returned when the integer part cannot be represented.
	ErrRange = errors.New("decimal: value out of range")
)

// Decimal is a signed fixed-point number with two fractional digits.
type Decimal int64

// Parse reads a plain decimal such as "7", "-0.5", "+12.25" or ".75".
// Exponents, NaN and infinities are rejected.
func Parse(s string) (Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrSyntax
	}

	neg := false
	switch s[0] {
	case '-':
		neg = true
		s = s[1:]
	case '+':
		s = s[1:]
	}

	intPart, fracPart, hasDot := strings.Cut(s, ".")
	if intPart == "" && fracPart == "" {
		return 0, ErrSyntax
	}
	if !allDigits(intPart) || !allDigits(fracPart) || (hasDot && strings.Contains(fracPart, ".")) {
		return 0, ErrSyntax
	}
	if len(fracPart) > Places {
		return 0, fmt.Errorf("%w: at most %d allowed", ErrPlaces, Places)
	}

	intPart = strings.TrimLeft(intPart, "0")
	if len(intPart) > maxIntegerDigits {
		return 0, ErrRange
	}

	var whole int64
	if intPart != "" {
		n, err := strconv.ParseInt(intPart, 10, 64)
		if err != nil {
			return 0, ErrRange
		}
		whole = n
	}

	frac := int64(0)
	if fracPart != "" {
		padded := fracPart + strings.Repeat("0", Places-len(fracPart))
		n, err := strconv.ParseInt(padded, 10, 64)
		if err != nil {
			return 0, ErrSyntax
		}
		frac = n
	}

	v := whole*unit + frac
	if neg {
		v = -v
	}
	return Decimal(v), nil
}

// MustParse is Parse for constants and tests. It panics on error.
func MustParse(s string) Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// String renders the value with exactly two fractional digits.
func (d Decimal) String() string {
	v := int64(d)
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/unit, v%unit)
}

// Hundredths returns the raw fixed-point value, as stored in the database.
func (d Decimal) Hundredths() int64 {
	return int64(d)
}

// Float64 converts to a float for sinks that only accept floats.
func (d Decimal) Float64() float64 {
	return float64(d) / unit
}

// IntegerDigits counts the significant digits before the decimal point.
// Zero has no integer digits, so 0.75 reports 0.
func (d Decimal) IntegerDigits() int {
	v := int64(d) / unit
	if v < 0 {
		v = -v
	}
	n := 0
	for v > 0 {
		n++
		v /= 10
	}
	return n
}

// FitsDigits reports whether d fits a column of maxDigits total digits,
// two of which are fractional.
func (d Decimal) FitsDigits(maxDigits int) bool {
	return d.IntegerDigits() <= maxDigits-Places
}

// MarshalJSON encodes the value as a JSON string, e.g. "7.00", so clients
// never see a binary float approximation.
func (d Decimal) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON accepts either a JSON string or a JSON number. The number's
// literal text is parsed, never a float64 conversion of it.
func (d *Decimal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return ErrSyntax
	}

	var text string
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &text); err != nil {
			return ErrSyntax
		}
	} else {
		text = string(data)
	}

	v, err := Parse(text)
	if err != nil {
		return err
	}
	*d = v
	return nil
}
