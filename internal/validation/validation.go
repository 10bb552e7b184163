// Package validation carries field-level input errors from the decoding and
// query layers to the API, which renders them as a 400 response.
package validation

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Error reports one or more invalid input fields.
// Fields maps a field name to its human-readable messages.
type Error struct {
	Fields map[string][]string
}

// Add records a message against field.
func (e *Error) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// Addf records a formatted message against field.
func (e *Error) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

// Merge copies every message of other into e.
func (e *Error) Merge(other *Error) {
	if other == nil {
		return
	}
	for _, field := range slices.Sorted(maps.Keys(other.Fields)) {
		for _, msg := range other.Fields[field] {
			e.Add(field, msg)
		}
	}
}

// Empty reports whether no field has been flagged.
func (e *Error) Empty() bool {
	return len(e.Fields) == 0
}

// Err returns e as an error, or nil when nothing was flagged.
// Callers accumulate into a value and finish with `return v.Err()`.
func (e *Error) Err() error {
	if e.Empty() {
		return nil
	}
	return e
}

// Error lists the offending fields in a stable order.
func (e *Error) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range slices.Sorted(maps.Keys(e.Fields)) {
		parts = append(parts, field+": "+strings.Join(e.Fields[field], "; "))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// New returns an Error with a single field message.
func New(field, message string) *Error {
	e := &Error{}
	e.Add(field, message)
	return e
}

// As extracts a *Error from err's chain.
func As(err error) (*Error, bool) {
	var ve *Error
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
