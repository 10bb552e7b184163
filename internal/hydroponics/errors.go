package hydroponics

import "errors"

// Domain errors for the hydroponics package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, hydroponics.ErrSystemNotFound) {
//	    // handle not found case
//	}
var (
	// ErrSystemNotFound is returned when a system ID does not exist.
	ErrSystemNotFound = errors.New("hydroponics: system not found")
)

// Field messages reported through validation.Error.
const (
	msgRequired      = "This field is required."
	msgNull          = "This field may not be null."
	msgString        = "Not a valid string."
	msgMaxLength     = "Ensure this field has no more than %d characters."
	msgInteger       = "A valid integer is required."
	msgMinValue      = "Ensure this value is greater than or equal to %d."
	msgMaxValue      = "Ensure this value is less than or equal to %d."
	msgNumber        = "A valid number is required."
	msgDecimalPlaces = "Ensure that there are no more than 2 decimal places."
	msgWholeDigits   = "Ensure that there are no more than %d digits before the decimal point."
	msgPKType        = "Incorrect type. Expected pk value, received %s."
	msgPKMissing     = "Invalid pk \"%d\" - object does not exist."
	msgNotObject     = "Invalid data. Expected a dictionary, but got %s."
	msgParse         = "JSON parse error - %s"
)

// nonFieldErrors is the validation key for problems with the body as a whole.
const nonFieldErrors = "non_field_errors"
