// Package query turns list-endpoint query parameters into SQL fragments.
//
// It holds the three collection stages that run after ownership scoping:
//
//   - Filter: equality and range constraints (field, field__gte, field__lte)
//   - Ordering: a whitelisted sort key with deterministic tie-breaks
//   - Page: fixed-size, 1-based offset pagination
//
// Each resource declares a static Schema. Nothing is discovered by
// reflection: a query parameter is honoured only if the Schema names it,
// and SQL identifiers only ever come from the Schema, never from input.
//
//	f, err := schema.ParseFilter(r.URL.Query())
//	order := schema.ParseOrdering(r.URL.Query().Get("ordering"))
//	page, err := query.ParsePage(r.URL.Query().Get("page"), schema.PageSize)
//
// Filter values that fail to parse are collected into a single
// validation.Error so the caller sees every bad field at once.
package query
