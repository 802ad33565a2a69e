// internal/form/validate.go
//
// Playground – Forms subsystem: schemas and server-side validation.
//
// Context
//   A Schema is an ordered list of fields.  Each field carries synchronous
//   rules and, optionally, one asynchronous refinement.  Synchronous rules are
//   go-playground/validator tags checked with Var, paired with the message the
//   user sees.  The refinement runs only after every synchronous rule of its
//   field passed.
//
// Workflow
//   •  Validate copies the posted values verbatim into the submission
//      payload.  Rules see exactly what the user sent; nothing is trimmed.
//   •  Rules run in declaration order.  The first failing rule records its
//      message and the field moves on, so each field reports one problem.
//   •  A refinement verdict is either an error message, a deferred marker
//      (skipped, undefined), or nothing.
//   •  Validation failures are data inside the Submission.  A Go error is
//      returned only when a refinement itself fails or ctx is done.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by every schema.  *validator.Validate is safe for
// concurrent use and caches tag parsing.
var validate = validator.New(validator.WithRequiredStructEnabled())

// -----------------------------------------------------------------------------
// Building blocks
// -----------------------------------------------------------------------------

// Rule pairs a validator tag with its user-facing message.
type Rule struct {
	Tag     string // e.g. "required", "email", "max=20"
	Message string
}

// Check returns a Rule.
func Check(tag, message string) Rule { return Rule{Tag: tag, Message: message} }

// Refinement is an asynchronous rule.  It may block (network, database) and
// must honour ctx.
type Refinement func(ctx context.Context, value string) (Verdict, error)

// FieldSchema describes one field of a Schema.
type FieldSchema struct {
	Name   string
	Rules  []Rule
	refine Refinement
}

// Field declares a field with its synchronous rules.
func Field(name string, rules ...Rule) FieldSchema {
	return FieldSchema{Name: name, Rules: rules}
}

// Refine attaches r as the field's asynchronous refinement.
func (f FieldSchema) Refine(r Refinement) FieldSchema {
	f.refine = r
	return f
}

// Schema is an ordered set of fields.
type Schema struct {
	fields []FieldSchema
}

// SchemaFunc builds a schema for the given intent.
type SchemaFunc func(Intent) *Schema

// NewSchema returns a Schema validating fields in the given order.
func NewSchema(fields ...FieldSchema) *Schema {
	return &Schema{fields: fields}
}

// Fields returns the field names in declaration order.
func (s *Schema) Fields() []string {
	out := make([]string, len(s.fields))
	for i, f := range s.fields {
		out[i] = f.Name
	}
	return out
}

// -----------------------------------------------------------------------------
// Constraints
// -----------------------------------------------------------------------------

// Constraint is the part of a field's rules that HTML can express natively.
type Constraint struct {
	Required  bool
	MinLength int
	MaxLength int
	Type      string // "email" when an email rule exists
}

// Constraint derives native attributes for the named field.  Unknown fields
// yield the zero Constraint.
func (s *Schema) Constraint(name string) Constraint {
	var c Constraint
	for _, f := range s.fields {
		if f.Name != name {
			continue
		}
		for _, r := range f.Rules {
			tag, param, _ := strings.Cut(r.Tag, "=")
			switch tag {
			case "required":
				c.Required = true
			case "email":
				c.Type = "email"
			case "min":
				c.MinLength, _ = strconv.Atoi(param)
			case "max":
				c.MaxLength, _ = strconv.Atoi(param)
			}
		}
	}
	return c
}

// -----------------------------------------------------------------------------
// Validation
// -----------------------------------------------------------------------------

// Validate checks posted against the schema under intent.
func (s *Schema) Validate(ctx context.Context, intent Intent, posted url.Values) (*Submission, error) {
	sub := newSubmission(intent, posted)

	for _, f := range s.fields {
		raw := sub.Payload[f.Name]

		msg, err := checkRules(f, raw)
		if err != nil {
			return nil, err
		}
		if msg != "" {
			sub.addError(f.Name, msg)
			continue
		}
		if f.refine == nil {
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		v, err := f.refine(ctx, raw)
		if err != nil {
			return nil, fmt.Errorf("refine %s: %w", f.Name, err)
		}
		switch {
		case v.Outcome == OutcomeInvalid:
			sub.addError(f.Name, failMsg(v.Message))
		case v.Outcome.Deferred():
			sub.deferField(f.Name, v.Outcome)
		}
	}

	if intent.IsSubmit() && sub.Ready() {
		sub.Value = make(map[string]string, len(s.fields))
		for _, f := range s.fields {
			sub.Value[f.Name] = sub.Payload[f.Name]
		}
	}
	return sub, nil
}

// checkRules returns the message of the first failing rule, or "".
func checkRules(f FieldSchema, val string) (string, error) {
	for _, r := range f.Rules {
		err := validate.Var(val, r.Tag)
		if err == nil {
			continue
		}
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return "", fmt.Errorf("rule %q on %s: %w", r.Tag, f.Name, err)
		}
		return failMsg(r.Message), nil
	}
	return "", nil
}

func failMsg(msg string) string {
	if msg == "" {
		return "Invalid input."
	}
	return msg
}
