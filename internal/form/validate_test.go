// internal/form/validate_test.go
//
// Unit-tests for Schema.Validate.
//
// Context
// -------
// These tests pin the engine's contract rather than any component schema:
//
//   • Rules stop at the first failure per field
//   • Refinements run only after the field's rules pass
//   • Deferred markers stay out of Error
//   • Refinement errors surface as Go errors, not messages

package form

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSchema(refine Refinement) *Schema {
	email := Field("email", Check("required", "Email is required"), Check("email", "Email is invalid"))
	if refine != nil {
		email = email.Refine(refine)
	}
	return NewSchema(
		Field("name", Check("required", "Name is required")),
		email,
		Field("title", Check("required", "Title is required"), Check("max=5", "Title is too long")),
	)
}

func values(kv ...string) url.Values {
	v := url.Values{}
	for i := 0; i+1 < len(kv); i += 2 {
		v.Set(kv[i], kv[i+1])
	}
	return v
}

func TestValidate_FirstFailingRuleWins(t *testing.T) {
	sub, err := testSchema(nil).Validate(context.Background(), IntentSubmit, values(
		"name", "", "email", "", "title", "",
	))
	require.NoError(t, err)

	assert.Equal(t, []string{"Name is required"}, sub.Error["name"])
	assert.Equal(t, []string{"Email is required"}, sub.Error["email"])
	assert.Equal(t, []string{"Title is required"}, sub.Error["title"])
	assert.False(t, sub.Valid())
	assert.Nil(t, sub.Value)
}

func TestValidate_KeepsRawPayload(t *testing.T) {
	sub, err := testSchema(nil).Validate(context.Background(), IntentSubmit, values(
		"name", "   ", "email", " a@b.co ", "title", "abcd ",
	))
	require.NoError(t, err)

	assert.Empty(t, sub.Error["name"], "whitespace is a value")
	assert.Equal(t, " a@b.co ", sub.Payload["email"])
	assert.Equal(t, []string{"Email is invalid"}, sub.Error["email"])
	assert.Equal(t, []string{"Title is too long"}, sub.Error["title"], "trailing space counts")
}

func TestValidate_MaxCountsRunes(t *testing.T) {
	sub, err := testSchema(nil).Validate(context.Background(), IntentSubmit, values(
		"name", "n", "email", "a@b.co", "title", "ééééé",
	))
	require.NoError(t, err)
	assert.Empty(t, sub.Error["title"])

	sub, err = testSchema(nil).Validate(context.Background(), IntentSubmit, values(
		"name", "n", "email", "a@b.co", "title", "éééééé",
	))
	require.NoError(t, err)
	assert.Equal(t, []string{"Title is too long"}, sub.Error["title"])
}

func TestValidate_RefinementOnlyAfterRules(t *testing.T) {
	called := false
	refine := func(context.Context, string) (Verdict, error) {
		called = true
		return Pass(), nil
	}

	_, err := testSchema(refine).Validate(context.Background(), IntentSubmit, values("email", "not-an-email"))
	require.NoError(t, err)
	assert.False(t, called, "refinement must not run on a malformed value")

	_, err = testSchema(refine).Validate(context.Background(), IntentSubmit, values("email", "a@b.co"))
	require.NoError(t, err)
	assert.True(t, called)
}

func TestValidate_Verdicts(t *testing.T) {
	cases := []struct {
		verdict  Verdict
		wantErr  []string
		deferred Outcome
		ready    bool
	}{
		{Pass(), nil, -1, true},
		{Fail("taken"), []string{"taken"}, -1, false},
		{Fail(""), []string{"Invalid input."}, -1, false},
		{Skip(), nil, OutcomeSkipped, false},
		{Undefined(), nil, OutcomeUndefined, false},
	}

	for _, tc := range cases {
		t.Run(tc.verdict.Outcome.String(), func(t *testing.T) {
			refine := func(context.Context, string) (Verdict, error) { return tc.verdict, nil }
			sub, err := testSchema(refine).Validate(context.Background(), IntentSubmit, values(
				"name", "n", "email", "a@b.co", "title", "t",
			))
			require.NoError(t, err)

			assert.Equal(t, tc.wantErr, sub.Error["email"])
			if tc.deferred >= 0 {
				assert.Equal(t, tc.deferred, sub.Deferred["email"])
			} else {
				assert.NotContains(t, sub.Deferred, "email")
			}
			assert.Equal(t, tc.ready, sub.Ready())
			if tc.ready {
				assert.Equal(t, map[string]string{"name": "n", "email": "a@b.co", "title": "t"}, sub.Value)
			}
		})
	}
}

func TestValidate_RefinementError(t *testing.T) {
	boom := errors.New("directory down")
	refine := func(context.Context, string) (Verdict, error) { return Verdict{}, boom }

	sub, err := testSchema(refine).Validate(context.Background(), IntentSubmit, values("email", "a@b.co"))
	require.ErrorIs(t, err, boom)
	assert.Nil(t, sub)
}

func TestValidate_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	refine := func(context.Context, string) (Verdict, error) { return Pass(), nil }
	_, err := testSchema(refine).Validate(ctx, IntentSubmit, values("email", "a@b.co"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestValidate_ValueOnlyOnSubmit(t *testing.T) {
	sub, err := testSchema(nil).Validate(context.Background(), ValidateIntent("name"), values(
		"name", "n", "email", "a@b.co", "title", "t",
	))
	require.NoError(t, err)
	assert.True(t, sub.Ready())
	assert.Nil(t, sub.Value)
}

func TestConstraint(t *testing.T) {
	s := testSchema(nil)

	assert.Equal(t, Constraint{Required: true, Type: "email"}, s.Constraint("email"))
	assert.Equal(t, Constraint{Required: true, MaxLength: 5}, s.Constraint("title"))
	assert.Equal(t, Constraint{}, s.Constraint("missing"))
	assert.Equal(t, []string{"name", "email", "title"}, s.Fields())
}
