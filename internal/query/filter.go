package query

import (
	"errors"
	"net/url"
	"strconv"
	"strings"

	"github.com/nerrad567/hydroponics-core/internal/decimal"
	"github.com/nerrad567/hydroponics-core/internal/infrastructure/database"
	"github.com/nerrad567/hydroponics-core/internal/validation"
)

// Validation messages for malformed filter values.
const (
	msgInteger   = "Enter a whole number."
	msgDecimal   = "Enter a number."
	msgTime      = "Enter a valid date/time."
	msgPrecision = "Enter a date/time with at most 6 fractional second digits."
	msgReference = "Select a valid choice. That choice is not one of the available choices."
)

// Condition is a single compiled constraint.
type Condition struct {
	Column string
	Op     Operator
	Value  any
}

// Filter is the conjunction of all constraints parsed from a request.
// The zero Filter matches everything.
type Filter struct {
	Conditions []Condition
}

// ParseFilter compiles the schema's fields found in params.
//
// Unknown parameters are ignored, as are constraints with an empty value.
// When a parameter repeats, its last value wins. If any value is malformed
// no Filter is returned: the error names every offending parameter.
func (s *Schema) ParseFilter(params url.Values) (Filter, error) {
	var (
		f    Filter
		verr validation.Error
	)

	for _, field := range s.Fields {
		for _, op := range field.Ops {
			key := field.key(op)
			values, ok := params[key]
			if !ok || len(values) == 0 {
				continue
			}
			raw := strings.TrimSpace(values[len(values)-1])
			if raw == "" {
				continue
			}

			value, msg := convert(field.Kind, raw)
			if msg != "" {
				verr.Add(key, msg)
				continue
			}
			f.Conditions = append(f.Conditions, Condition{Column: field.Column, Op: op, Value: value})
		}
	}

	if err := verr.Err(); err != nil {
		return Filter{}, err
	}
	return f, nil
}

// convert parses raw into the bind value stored in the database for kind.
// A non-empty message means raw is malformed.
func convert(kind Kind, raw string) (any, string) {
	switch kind {
	case Integer:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, msgInteger
		}
		return n, ""
	case Decimal:
		d, err := decimal.Parse(raw)
		if err != nil {
			return nil, msgDecimal
		}
		return d.Hundredths(), ""
	case Time:
		t, err := ParseTimestamp(raw)
		if errors.Is(err, errTimestampPrecision) {
			return nil, msgPrecision
		}
		if err != nil {
			return nil, msgTime
		}
		return database.FormatTime(t), ""
	case Reference:
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 1 {
			return nil, msgReference
		}
		return id, ""
	default:
		return raw, ""
	}
}

// Empty reports whether the filter has no constraints.
func (f Filter) Empty() bool {
	return len(f.Conditions) == 0
}

// SQL renders the constraints as an AND-joined clause with ? placeholders,
// without a leading WHERE/AND. An empty Filter renders "".
func (f Filter) SQL() (string, []any) {
	if f.Empty() {
		return "", nil
	}

	parts := make([]string, 0, len(f.Conditions))
	args := make([]any, 0, len(f.Conditions))
	for _, c := range f.Conditions {
		parts = append(parts, c.Column+" "+sqlOperator(c.Op)+" ?")
		args = append(args, c.Value)
	}
	return strings.Join(parts, " AND "), args
}

func sqlOperator(op Operator) string {
	switch op {
	case GTE:
		return ">="
	case LTE:
		return "<="
	default:
		return "="
	}
}
