package query

import "strings"

// Term is one ORDER BY column.
type Term struct {
	Column string
	Desc   bool
}

// Ordering is a resolved sort specification including tie-breaks.
type Ordering struct {
	Terms []Term
}

// ParseOrdering resolves the "ordering" parameter against the schema.
//
// raw is a comma-separated list of keys, each optionally prefixed with "-"
// for descending order. Keys outside the whitelist are dropped rather than
// rejected; if none survive, DefaultOrder applies. TieBreak columns that
// are not already sorted on are appended.
func (s *Schema) ParseOrdering(raw string) Ordering {
	var terms []Term
	seen := make(map[string]bool)

	for _, key := range strings.Split(raw, ",") {
		key = strings.TrimSpace(key)
		desc := strings.HasPrefix(key, "-")
		key = strings.TrimPrefix(key, "-")

		column, ok := s.OrderKeys[key]
		if !ok || seen[column] {
			continue
		}
		seen[column] = true
		terms = append(terms, Term{Column: column, Desc: desc})
	}

	if len(terms) == 0 {
		for _, t := range s.DefaultOrder {
			seen[t.Column] = true
			terms = append(terms, t)
		}
	}

	for _, t := range s.TieBreak {
		if !seen[t.Column] {
			seen[t.Column] = true
			terms = append(terms, t)
		}
	}

	return Ordering{Terms: terms}
}

// SQL renders the terms for an ORDER BY clause, without the keywords.
func (o Ordering) SQL() string {
	parts := make([]string, 0, len(o.Terms))
	for _, t := range o.Terms {
		dir := "ASC"
		if t.Desc {
			dir = "DESC"
		}
		parts = append(parts, t.Column+" "+dir)
	}
	return strings.Join(parts, ", ")
}
