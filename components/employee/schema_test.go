package employee

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yanizio/playground/internal/form"
)

func values(name, email, title string) url.Values {
	return url.Values{"name": {name}, "email": {email}, "title": {title}}
}

// onlyHey mirrors the simulated directory without the delay.
func onlyHey(_ context.Context, email string) (bool, error) {
	return email == DefaultUniqueEmail, nil
}

func validate(t *testing.T, intent form.Intent, c Constraints, v url.Values) *form.Submission {
	t.Helper()
	sub, err := NewSchema(intent, c).Validate(context.Background(), intent, v)
	require.NoError(t, err)
	return sub
}

func TestSchema_NameRequired(t *testing.T) {
	sub := validate(t, form.IntentSubmit, Constraints{IsEmailUnique: onlyHey}, values("", DefaultUniqueEmail, "Engineer"))
	assert.Equal(t, []string{MsgNameRequired}, sub.Error[FieldName])

	sub = validate(t, form.IntentSubmit, Constraints{IsEmailUnique: onlyHey}, values("   ", DefaultUniqueEmail, "Engineer"))
	assert.Empty(t, sub.Error[FieldName], "whitespace satisfies required")
}

func TestSchema_PaddedEmailIsInvalid(t *testing.T) {
	called := false
	check := func(context.Context, string) (bool, error) {
		called = true
		return true, nil
	}
	sub := validate(t, form.IntentSubmit, Constraints{IsEmailUnique: check}, values("Ada", " "+DefaultUniqueEmail+" ", "Engineer"))
	assert.Equal(t, []string{MsgEmailInvalid}, sub.Error[FieldEmail])
	assert.False(t, called)
	assert.Nil(t, sub.Value)
}

func TestSchema_EmailSyntax(t *testing.T) {
	sub := validate(t, form.IntentSubmit, Constraints{IsEmailUnique: onlyHey}, values("Ada", "", "Engineer"))
	assert.Equal(t, []string{MsgEmailRequired}, sub.Error[FieldEmail])

	for _, bad := range []string{"hey", "conform.guide", "hey at conform.guide"} {
		sub := validate(t, form.IntentSubmit, Constraints{IsEmailUnique: onlyHey}, values("Ada", bad, "Engineer"))
		assert.Equal(t, []string{MsgEmailInvalid}, sub.Error[FieldEmail], bad)
	}
}

func TestSchema_UniqueEmailOnSubmit(t *testing.T) {
	sub := validate(t, form.IntentSubmit, Constraints{IsEmailUnique: onlyHey}, values("Ada", "hey@conform.guide", "Engineer"))
	assert.True(t, sub.Ready())
	assert.Equal(t, map[string]string{
		"name":  "Ada",
		"email": "hey@conform.guide",
		"title": "Engineer",
	}, sub.Value)
}

func TestSchema_TakenEmail(t *testing.T) {
	for _, intent := range []form.Intent{form.IntentSubmit, form.ValidateIntent(FieldEmail)} {
		sub := validate(t, intent, Constraints{IsEmailUnique: onlyHey}, values("Ada", "ada@example.com", "Engineer"))
		assert.Equal(t, []string{MsgEmailUsed}, sub.Error[FieldEmail], intent.String())
		assert.Nil(t, sub.Value)
	}
}

func TestSchema_OtherIntentsSkipCheck(t *testing.T) {
	var calls atomic.Int32
	check := func(context.Context, string) (bool, error) {
		calls.Add(1)
		return false, nil
	}

	for _, intent := range []form.Intent{
		form.ValidateIntent(FieldName),
		form.ValidateIntent(FieldTitle),
		"reset",
	} {
		sub := validate(t, intent, Constraints{IsEmailUnique: check}, values("Ada", "ada@example.com", "Engineer"))
		assert.Empty(t, sub.Error[FieldEmail], intent.String())
		assert.Equal(t, form.OutcomeSkipped, sub.Deferred[FieldEmail], intent.String())
	}
	assert.Zero(t, calls.Load())
}

func TestSchema_NoCheckerIsUndefined(t *testing.T) {
	sub := validate(t, form.IntentSubmit, Constraints{}, values("Ada", "ada@example.com", "Engineer"))
	assert.True(t, sub.Valid())
	assert.False(t, sub.Ready())
	assert.True(t, sub.NeedsServer())
	assert.Equal(t, form.OutcomeUndefined, sub.Deferred[FieldEmail])
}

func TestSchema_CheckRunsOnlyAfterSyntax(t *testing.T) {
	called := false
	check := func(context.Context, string) (bool, error) {
		called = true
		return true, nil
	}
	validate(t, form.IntentSubmit, Constraints{IsEmailUnique: check}, values("Ada", "not-an-email", "Engineer"))
	assert.False(t, called)
}

func TestSchema_CheckErrorPropagates(t *testing.T) {
	boom := errors.New("directory down")
	check := func(context.Context, string) (bool, error) { return false, boom }

	_, err := NewSchema(form.IntentSubmit, Constraints{IsEmailUnique: check}).
		Validate(context.Background(), form.IntentSubmit, values("Ada", "ada@example.com", "Engineer"))
	assert.ErrorIs(t, err, boom)
}

func TestSchema_TitleLength(t *testing.T) {
	c := Constraints{IsEmailUnique: onlyHey}

	sub := validate(t, form.IntentSubmit, c, values("Ada", DefaultUniqueEmail, ""))
	assert.Equal(t, []string{MsgTitleRequired}, sub.Error[FieldTitle])

	sub = validate(t, form.IntentSubmit, c, values("Ada", DefaultUniqueEmail, strings.Repeat("x", 21)))
	assert.Equal(t, []string{MsgTitleTooLong}, sub.Error[FieldTitle])

	sub = validate(t, form.IntentSubmit, c, values("Ada", DefaultUniqueEmail, strings.Repeat("x", 20)+" "))
	assert.Equal(t, []string{MsgTitleTooLong}, sub.Error[FieldTitle], "trailing space is the 21st character")
	assert.Nil(t, sub.Value)

	sub = validate(t, form.IntentSubmit, c, values("Ada", DefaultUniqueEmail, strings.Repeat("x", 20)))
	assert.Empty(t, sub.Error[FieldTitle])

	sub = validate(t, form.IntentSubmit, c, values("Ada", DefaultUniqueEmail, strings.Repeat("é", 20)))
	assert.Empty(t, sub.Error[FieldTitle], "length counts characters, not bytes")
}

func TestValidateClient_NeverReportsUsed(t *testing.T) {
	for _, email := range []string{"ada@example.com", "taken@conform.guide", DefaultUniqueEmail} {
		for _, intent := range []form.Intent{form.IntentSubmit, form.ValidateIntent(FieldEmail), form.ValidateIntent(FieldName)} {
			sub, err := ValidateClient(context.Background(), intent, values("Ada", email, "Engineer"))
			require.NoError(t, err)
			assert.NotContains(t, sub.Error[FieldEmail], MsgEmailUsed)
			assert.True(t, sub.Valid())
		}
	}
}
