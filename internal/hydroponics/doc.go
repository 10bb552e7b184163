// Package hydroponics manages hydroponic systems and their sensor readings.
//
// Every system belongs to exactly one owner and every reading belongs to
// exactly one system, so each reading is transitively owned. Callers only
// ever see their own records: lists are scoped to the caller, detail
// operations on another owner's system look like a missing record, and a
// reading cannot be attached to another owner's system.
//
// # Architecture
//
//	┌──────────────────────────────────────────────────────────────┐
//	│                      Service (service.go)                     │
//	│                                                              │
//	│  auth.Authorize ─▶ query.Schema ─▶ Repository ─▶ Notifier    │
//	│   (ownership)     (filter/order/    (SQLite,     (after      │
//	│                    page)            one tx)      commit)     │
//	└──────────────────────────────────────────────────────────────┘
//
// Each Service operation runs inside a single transaction. Repositories are
// built on database.Querier, so the same code runs against the transaction
// or a bare connection.
//
// # Request bodies
//
// DecodeSystemInput and DecodeReadingInput validate raw JSON into typed
// inputs and collect every field problem into one validation.Error.
// Read-only fields (id, owner, created_at) are accepted and ignored.
//
// # Thread Safety
//
// Service and the repositories hold no mutable state and are safe for
// concurrent use. The database serialises writers.
package hydroponics
