package hydroponics

import "github.com/nerrad567/hydroponics-core/internal/query"

// Page sizes of the two collections.
const (
	SystemPageSize  = 10
	ReadingPageSize = 20
)

var ordered = []query.Operator{query.Exact, query.GTE, query.LTE}

// SystemQuery describes the filters and orderings of the system collection.
var SystemQuery = &query.Schema{
	Fields: []query.Field{
		{Param: "name", Column: "name", Kind: query.Text, Ops: []query.Operator{query.Exact}},
		{Param: "plant_count", Column: "plant_count", Kind: query.Integer, Ops: ordered},
		{Param: "created_at", Column: "created_at", Kind: query.Time, Ops: ordered},
	},
	OrderKeys: map[string]string{
		"name":        "name",
		"plant_count": "plant_count",
		"created_at":  "created_at",
	},
	DefaultOrder: []query.Term{{Column: "created_at"}},
	TieBreak:     []query.Term{{Column: "created_at"}, {Column: "id"}},
	PageSize:     SystemPageSize,
}

// ReadingQuery describes the filters and orderings of the reading
// collection. Columns are qualified because reading queries join the
// owning system.
var ReadingQuery = &query.Schema{
	Fields: []query.Field{
		{Param: "hydroponic_system", Column: "r.hydroponic_system_id", Kind: query.Reference, Ops: []query.Operator{query.Exact}},
		{Param: "ph", Column: "r.ph", Kind: query.Decimal, Ops: ordered},
		{Param: "water_temp", Column: "r.water_temp", Kind: query.Decimal, Ops: ordered},
		{Param: "tds", Column: "r.tds", Kind: query.Decimal, Ops: ordered},
		{Param: "created_at", Column: "r.created_at", Kind: query.Time, Ops: ordered},
	},
	OrderKeys: map[string]string{
		"ph":         "r.ph",
		"water_temp": "r.water_temp",
		"tds":        "r.tds",
		"created_at": "r.created_at",
	},
	DefaultOrder: []query.Term{{Column: "r.created_at"}},
	TieBreak:     []query.Term{{Column: "r.created_at"}, {Column: "r.id"}},
	PageSize:     ReadingPageSize,
}
