package database

import (
	"fmt"
	"time"
)

// TimestampLayout is the storage format for every TEXT timestamp column.
//
// It is fixed-width UTC with microsecond precision, so lexical order of the
// stored strings equals chronological order. ORDER BY and range comparisons
// on created_at rely on this.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// FormatTime renders t in the storage layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTime reads a value written by FormatTime.
// RFC 3339 values written by older rows or by hand are accepted too.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err == nil {
		return t, nil
	}
	t, err = time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", s, err)
	}
	return t.UTC(), nil
}

// Now returns the current time truncated to the storage precision, so a
// value handed back to the caller equals the value read back later.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
