// internal/form/outcome.go
//
// Playground – Forms subsystem: refinement outcomes.
//
// Context
//   Asynchronous refinements (for example an email uniqueness lookup) can end
//   four ways.  They pass, they fail with a user-facing message, they are
//   skipped because the intent does not concern them, or they are undefined
//   because no checker is wired in this context (client-side validation).
//   The last two are markers, not errors.  They are kept apart from the
//   user-facing messages in Submission.Deferred.
//
//------------------------------------------------------------------------------

package form

import "fmt"

// Outcome classifies how a refinement concluded.
type Outcome int

const (
	OutcomeValid     Outcome = iota // check ran and passed
	OutcomeInvalid                  // check ran and failed
	OutcomeSkipped                  // not run for this intent
	OutcomeUndefined                // no checker available
)

var outcomeNames = [...]string{"valid", "invalid", "skipped", "undefined"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return fmt.Sprintf("Outcome(%d)", int(o))
	}
	return outcomeNames[o]
}

// Deferred reports whether the outcome is a marker rather than a result.
func (o Outcome) Deferred() bool { return o == OutcomeSkipped || o == OutcomeUndefined }

// MarshalText implements encoding.TextMarshaler.
func (o Outcome) MarshalText() ([]byte, error) {
	if o < 0 || int(o) >= len(outcomeNames) {
		return nil, fmt.Errorf("form: unknown outcome %d", int(o))
	}
	return []byte(outcomeNames[o]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (o *Outcome) UnmarshalText(b []byte) error {
	for i, n := range outcomeNames {
		if n == string(b) {
			*o = Outcome(i)
			return nil
		}
	}
	return fmt.Errorf("form: unknown outcome %q", b)
}

// Verdict is what a Refinement returns.  Message is shown to the user when
// Outcome is OutcomeInvalid and ignored otherwise.
type Verdict struct {
	Outcome Outcome
	Message string
}

// Pass, Fail, Skip, and Undefined build the four verdicts.
func Pass() Verdict { return Verdict{Outcome: OutcomeValid} }
func Fail(msg string) Verdict { return Verdict{Outcome: OutcomeInvalid, Message: msg} }
func Skip() Verdict { return Verdict{Outcome: OutcomeSkipped} }
func Undefined() Verdict { return Verdict{Outcome: OutcomeUndefined} }
