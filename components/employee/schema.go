// components/employee/schema.go
//
// Employee – validation schema.
//
// Context
//   name, email, and title are checked synchronously.  Email additionally
//   carries an asynchronous uniqueness refinement whose verdict depends on
//   the intent and on whether a checker was injected:
//
//     intent other than submit or validate/email  → skipped
//     no checker supplied                          → undefined
//     checker reports the address taken            → "Email is already used"
//
//   Skipped and undefined are markers, not user-facing errors.
//
//------------------------------------------------------------------------------

package employee

import (
	"context"
	"strconv"

	"github.com/yanizio/playground/internal/form"
)

// Field names.
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldTitle = "title"
)

// TitleMaxLength is the longest accepted title, in characters.
const TitleMaxLength = 20

// User-facing messages.
const (
	MsgNameRequired  = "Name is required"
	MsgEmailRequired = "Email is required"
	MsgEmailInvalid  = "Email is invalid"
	MsgEmailUsed     = "Email is already used"
	MsgTitleRequired = "Title is required"
	MsgTitleTooLong  = "Title is too long"
)

// UniquenessCheck reports whether email is not yet taken.
type UniquenessCheck func(ctx context.Context, email string) (bool, error)

// Constraints carries the optional collaborators of the schema.  The
// server supplies IsEmailUnique; the client-side validator leaves it nil.
type Constraints struct {
	IsEmailUnique UniquenessCheck
}

// NewSchema builds the employee schema for intent.
func NewSchema(intent form.Intent, c Constraints) *form.Schema {
	return form.NewSchema(
		form.Field(FieldName,
			form.Check("required", MsgNameRequired),
		),
		form.Field(FieldEmail,
			form.Check("required", MsgEmailRequired),
			form.Check("email", MsgEmailInvalid),
		).Refine(emailUnique(intent, c.IsEmailUnique)),
		form.Field(FieldTitle,
			form.Check("required", MsgTitleRequired),
			form.Check("max="+strconv.Itoa(TitleMaxLength), MsgTitleTooLong),
		),
	)
}

// SchemaFor adapts NewSchema to form.SchemaFunc with fixed constraints.
func SchemaFor(c Constraints) form.SchemaFunc {
	return func(intent form.Intent) *form.Schema { return NewSchema(intent, c) }
}

func emailUnique(intent form.Intent, check UniquenessCheck) form.Refinement {
	return func(ctx context.Context, email string) (form.Verdict, error) {
		if intent != form.ValidateIntent(FieldEmail) && !intent.IsSubmit() {
			return form.Skip(), nil
		}
		if check == nil {
			return form.Undefined(), nil
		}
		unique, err := check(ctx, email)
		if err != nil {
			return form.Verdict{}, err
		}
		if !unique {
			return form.Fail(MsgEmailUsed), nil
		}
		return form.Pass(), nil
	}
}
