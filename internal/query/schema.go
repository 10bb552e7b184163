package query

// Kind is the value type of a filterable field.
type Kind int

const (
	// Text fields match by exact string equality.
	Text Kind = iota
	// Integer fields accept base-10 whole numbers.
	Integer
	// Decimal fields accept two-place fixed-point numbers.
	Decimal
	// Time fields accept RFC 3339 or naive (UTC) timestamps.
	Time
	// Reference fields hold the positive integer id of a parent record.
	Reference
)

// Operator is a comparison applied to a field.
type Operator string

// Supported operators. Exact uses the bare field name as its query key;
// the others append "__" and the operator name.
const (
	Exact Operator = "exact"
	GTE   Operator = "gte"
	LTE   Operator = "lte"
)

// Field declares one filterable field.
type Field struct {
	// Param is the query parameter base name, e.g. "plant_count".
	Param string
	// Column is the SQL column the constraint applies to.
	Column string
	Kind   Kind
	Ops    []Operator
}

// key returns the query parameter carrying op for this field.
func (f Field) key(op Operator) string {
	if op == Exact {
		return f.Param
	}
	return f.Param + "__" + string(op)
}

// Schema is the static query description of one resource collection.
type Schema struct {
	Fields []Field

	// OrderKeys maps an accepted ordering key to its column.
	OrderKeys map[string]string

	// DefaultOrder applies when no valid ordering key is supplied.
	DefaultOrder []Term

	// TieBreak is appended to every ordering so page boundaries are stable.
	TieBreak []Term

	// PageSize is the fixed number of records per page.
	PageSize int
}
