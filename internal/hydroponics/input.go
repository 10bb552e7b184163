package hydroponics

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/nerrad567/hydroponics-core/internal/decimal"
	"github.com/nerrad567/hydroponics-core/internal/validation"
)

// maxPlantCount is the largest accepted plant count, the signed 32-bit range.
const maxPlantCount = math.MaxInt32

// SystemInput holds the writable fields of a system request body.
// A nil field was absent from the body and leaves the stored value alone.
type SystemInput struct {
	Name        *string
	Description *string
	PlantCount  *int
}

// DecodeSystemInput validates a create, replace or patch body.
//
// plant_count is required unless partial is set. name and description are
// always optional and default to "" on create. id, owner and created_at
// are read-only and ignored, as are unknown keys.
func DecodeSystemInput(body []byte, partial bool) (SystemInput, error) {
	f, err := decodeObject(body)
	if err != nil {
		return SystemInput{}, err
	}

	in := SystemInput{
		Name:        f.text("name", MaxNameLength),
		Description: f.text("description", MaxDescriptionLength),
		PlantCount:  f.integer("plant_count", !partial, 0, maxPlantCount),
	}
	if err := f.verr.Err(); err != nil {
		return SystemInput{}, err
	}
	return in, nil
}

// Apply copies the supplied fields onto s.
func (in SystemInput) Apply(s *System) {
	if in.Name != nil {
		s.Name = *in.Name
	}
	if in.Description != nil {
		s.Description = *in.Description
	}
	if in.PlantCount != nil {
		s.PlantCount = *in.PlantCount
	}
}

// ReadingInput holds a validated reading create body.
type ReadingInput struct {
	PH        decimal.Decimal
	WaterTemp decimal.Decimal
	TDS       decimal.Decimal
	SystemID  int64
}

// DecodeReadingInput validates a reading create body. All four fields are
// required. Whether the referenced system exists, and who owns it, is
// checked by the Service.
func DecodeReadingInput(body []byte) (ReadingInput, error) {
	f, err := decodeObject(body)
	if err != nil {
		return ReadingInput{}, err
	}

	in := ReadingInput{
		PH:        f.decimal("ph", PHDigits),
		WaterTemp: f.decimal("water_temp", WaterTempDigits),
		TDS:       f.decimal("tds", TDSDigits),
		SystemID:  f.primaryKey("hydroponic_system"),
	}
	if err := f.verr.Err(); err != nil {
		return ReadingInput{}, err
	}
	return in, nil
}

// fields walks a decoded JSON object, collecting problems in verr.
type fields struct {
	raw  map[string]json.RawMessage
	verr validation.Error
}

// decodeObject parses body as a JSON object. An empty body is an empty object.
func decodeObject(body []byte) (*fields, error) {
	body = bytes.TrimSpace(body)
	f := &fields{raw: map[string]json.RawMessage{}}
	if len(body) == 0 {
		return f, nil
	}

	if isNull(body) {
		return nil, validation.New(nonFieldErrors, fmt.Sprintf(msgNotObject, jsonType(body)))
	}
	if err := json.Unmarshal(body, &f.raw); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return nil, validation.New(nonFieldErrors, fmt.Sprintf(msgNotObject, jsonType(body)))
		}
		return nil, validation.New(nonFieldErrors, fmt.Sprintf(msgParse, err))
	}
	return f, nil
}

// lookup returns the raw value for name. Absent and null values are
// reported (absent only when required) and return ok=false.
func (f *fields) lookup(name string, required bool) (json.RawMessage, bool) {
	raw, present := f.raw[name]
	if !present {
		if required {
			f.verr.Add(name, msgRequired)
		}
		return nil, false
	}
	if isNull(raw) {
		f.verr.Add(name, msgNull)
		return nil, false
	}
	return raw, true
}

func (f *fields) text(name string, maxLen int) *string {
	raw, ok := f.lookup(name, false)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		f.verr.Add(name, msgString)
		return nil
	}
	if utf8.RuneCountInString(s) > maxLen {
		f.verr.Addf(name, msgMaxLength, maxLen)
		return nil
	}
	return &s
}

// integer accepts a JSON integer or a string holding one. A trailing
// ".0" is tolerated so 3.0 reads as 3.
func (f *fields) integer(name string, required bool, minValue, maxValue int) *int {
	raw, ok := f.lookup(name, required)
	if !ok {
		return nil
	}
	text, ok := scalarText(raw)
	if !ok {
		f.verr.Add(name, msgInteger)
		return nil
	}
	if whole, frac, found := strings.Cut(text, "."); found && strings.Trim(frac, "0") == "" {
		text = whole
	}
	n, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		f.verr.Add(name, msgInteger)
		return nil
	}
	switch {
	case n < int64(minValue):
		f.verr.Addf(name, msgMinValue, minValue)
		return nil
	case n > int64(maxValue):
		f.verr.Addf(name, msgMaxValue, maxValue)
		return nil
	}
	v := int(n)
	return &v
}

// decimal accepts a JSON number or string with at most two fractional
// digits and at most maxDigits digits in total.
func (f *fields) decimal(name string, maxDigits int) decimal.Decimal {
	raw, ok := f.lookup(name, true)
	if !ok {
		return 0
	}
	var d decimal.Decimal
	if err := d.UnmarshalJSON(raw); err != nil {
		switch {
		case errors.Is(err, decimal.ErrPlaces):
			f.verr.Add(name, msgDecimalPlaces)
		case errors.Is(err, decimal.ErrRange):
			f.verr.Addf(name, msgWholeDigits, maxDigits-decimal.Places)
		default:
			f.verr.Add(name, msgNumber)
		}
		return 0
	}
	if !d.FitsDigits(maxDigits) {
		f.verr.Addf(name, msgWholeDigits, maxDigits-decimal.Places)
		return 0
	}
	return d
}

// primaryKey reads a reference to another record by its integer id.
func (f *fields) primaryKey(name string) int64 {
	raw, ok := f.lookup(name, true)
	if !ok {
		return 0
	}
	text, ok := scalarText(raw)
	if !ok {
		f.verr.Addf(name, msgPKType, jsonType(raw))
		return 0
	}
	id, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		f.verr.Addf(name, msgPKType, jsonType(raw))
		return 0
	}
	return id
}

// scalarText returns the text of a JSON number, or the trimmed contents of
// a JSON string. Other JSON types return ok=false.
func scalarText(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch c := raw[0]; {
	case c == '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", false
		}
		return strings.TrimSpace(s), true
	case c == '-' || (c >= '0' && c <= '9'):
		return string(raw), true
	default:
		return "", false
	}
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// jsonType names the JSON type of raw for error messages.
func jsonType(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "nothing"
	}
	switch c := raw[0]; {
	case c == '{':
		return "object"
	case c == '[':
		return "array"
	case c == '"':
		return "string"
	case c == 't' || c == 'f':
		return "boolean"
	case c == 'n':
		return "null"
	default:
		return "number"
	}
}
