// internal/form/submission.go
//
// Playground – Forms subsystem: the Submission result.
//
// Context
//   A Submission is created per request and serialised verbatim as the
//   action response.  The view re-renders from it.  User-facing messages live
//   in Error, keyed by field name, with "" reserved for form-level messages.
//   Skipped and undefined refinement markers live in Deferred and never leak
//   into Error.
//
//------------------------------------------------------------------------------

package form

import "net/url"

// Submission is the structured outcome of one validation pass.
type Submission struct {
	Intent   Intent              `json:"intent"`
	Payload  map[string]string   `json:"payload"`
	Error    map[string][]string `json:"error"`
	Deferred map[string]Outcome  `json:"deferred,omitempty"`
	Value    map[string]string   `json:"value,omitempty"` // set on a ready submit
}

func newSubmission(intent Intent, posted url.Values) *Submission {
	sub := &Submission{
		Intent:  intent,
		Payload: make(map[string]string, len(posted)),
		Error:   make(map[string][]string),
	}
	for k, vs := range posted {
		if reservedKey(k) || len(vs) == 0 {
			continue
		}
		sub.Payload[k] = vs[0]
	}
	return sub
}

func reservedKey(k string) bool { return k == IntentKey || k == CSRFKey }

func (s *Submission) addError(field, msg string) {
	s.Error[field] = append(s.Error[field], msg)
}

func (s *Submission) deferField(field string, o Outcome) {
	if s.Deferred == nil {
		s.Deferred = make(map[string]Outcome)
	}
	s.Deferred[field] = o
}

// Valid reports whether no user-facing error was recorded.
func (s *Submission) Valid() bool { return len(s.Error) == 0 }

// Ready reports whether the submission is valid and every refinement
// actually ran.
func (s *Submission) Ready() bool { return s.Valid() && len(s.Deferred) == 0 }

// NeedsServer reports whether the only thing keeping the submission from
// being ready is a check that could not run here.  Client-side callers
// forward such submissions to the server action.
func (s *Submission) NeedsServer() bool {
	if !s.Valid() {
		return false
	}
	for _, o := range s.Deferred {
		if o == OutcomeUndefined {
			return true
		}
	}
	return false
}

// FormError returns the form-level messages.
func (s *Submission) FormError() []string { return s.Error[""] }

// Visible returns the errors a view should display for the intent.  A
// validate intent only reveals its own field plus form-level messages.
func (s *Submission) Visible() map[string][]string {
	out := make(map[string][]string, len(s.Error))
	for name, msgs := range s.Error {
		if name == "" || s.Intent.Covers(name) {
			out[name] = msgs
		}
	}
	return out
}

// Messages returns the visible messages for one field.  Nil-safe so views
// can call it before any submission exists.
func (s *Submission) Messages(field string) []string {
	if s == nil {
		return nil
	}
	if field != "" && !s.Intent.Covers(field) {
		return nil
	}
	return s.Error[field]
}
