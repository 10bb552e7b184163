package query

import (
	"errors"
	"time"
)

var (
	// errTimestamp is returned by ParseTimestamp for unrecognised input.
	errTimestamp = errors.New("query: unrecognised timestamp")
	// errTimestampPrecision is returned for instants finer than the
	// microsecond the store keeps.
	errTimestampPrecision = errors.New("query: timestamp finer than a microsecond")
)

// Layouts with an explicit offset. Values are compared as exact instants.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04Z07:00",
}

// Layouts without an offset are read as UTC.
var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseTimestamp reads a filter timestamp at whatever precision the caller
// gives. "2024-06-04T13:00" means exactly 13:00:00.000000 UTC; nothing is
// rounded to a day or widened to a range. Digits below the microsecond are
// rejected, not truncated.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := parseTimestamp(s)
	if err != nil {
		return time.Time{}, err
	}
	if t.Nanosecond()%int(time.Microsecond) != 0 {
		return time.Time{}, errTimestampPrecision
	}
	return t, nil
}

func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errTimestamp
}
