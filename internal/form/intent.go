// internal/form/intent.go
//
// Playground – Forms subsystem: submission intent.
//
// Context
//   Every POST carries an intent telling the server why validation runs.
//   “submit” is a full submission.  “validate/<field>” asks for a single
//   field to be checked, usually while the user is still typing.  Schemas
//   receive the intent so rules can switch themselves on or off.
//
//------------------------------------------------------------------------------

package form

import "strings"

// IntentKey is the reserved form key carrying the intent.  Submit buttons may
// use it as name with the intent as value.
const IntentKey = "__intent__"

const validatePrefix = "validate/"

// Intent describes which part of the form is being validated.
type Intent string

// IntentSubmit marks a full submission.
const IntentSubmit Intent = "submit"

// ValidateIntent returns the intent that validates the named field only.
func ValidateIntent(field string) Intent { return Intent(validatePrefix + field) }

// ParseIntent normalises a raw intent.  Blank input means submit.
func ParseIntent(raw string) Intent {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return IntentSubmit
	}
	return Intent(raw)
}

// IsSubmit reports whether the intent is a full submission.
func (i Intent) IsSubmit() bool { return i == IntentSubmit }

// Field returns the field targeted by a validate intent.
func (i Intent) Field() (string, bool) {
	name, ok := strings.CutPrefix(string(i), validatePrefix)
	if !ok || name == "" {
		return "", false
	}
	return name, true
}

// Covers reports whether validation under this intent concerns field.
func (i Intent) Covers(field string) bool {
	if i.IsSubmit() {
		return true
	}
	name, ok := i.Field()
	return ok && name == field
}

func (i Intent) String() string { return string(i) }
