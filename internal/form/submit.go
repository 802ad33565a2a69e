// internal/form/submit.go
//
// Playground – Forms subsystem: consolidated Parse helper.
//
// Context
//   Most handlers want one call that parses the POST body, reads the intent,
//   verifies the CSRF token, builds the intent-specific schema, and validates.
//   Parse provides that convenience so component code stays terse.
//
//------------------------------------------------------------------------------

package form

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const maxMultipartMemory = 1 << 20

// ErrMalformedBody marks a request whose form body could not be decoded.
// Handlers answer it with 400 rather than 500.
var ErrMalformedBody = errors.New("form: malformed body")

// msgCSRF is the form-level message for a missing or forged token.
const msgCSRF = "Security token invalid.  Please refresh and try again."

type parseOptions struct {
	csrf *CSRF
}

// ParseOption tweaks Parse and ParseValues.
type ParseOption func(*parseOptions)

// WithCSRF makes parsing reject submissions whose token fails c.Verify.
func WithCSRF(c *CSRF) ParseOption {
	return func(o *parseOptions) { o.csrf = c }
}

// Parse reads r's form body and validates it against build(intent).  Both
// url-encoded and multipart bodies are accepted.
func Parse(ctx context.Context, r *http.Request, build SchemaFunc, opts ...ParseOption) (*Submission, error) {
	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		err = r.ParseMultipartForm(maxMultipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}
	return ParseValues(ctx, r.PostForm, build, opts...)
}

// ParseValues is Parse for already decoded values.  A failed CSRF check
// yields a submission carrying only the form-level error.
func ParseValues(ctx context.Context, posted url.Values, build SchemaFunc, opts ...ParseOption) (*Submission, error) {
	var o parseOptions
	for _, fn := range opts {
		fn(&o)
	}

	intent := ParseIntent(posted.Get(IntentKey))

	if o.csrf != nil && !o.csrf.Verify(posted.Get(CSRFKey)) {
		sub := newSubmission(intent, posted)
		sub.addError("", msgCSRF)
		return sub, nil
	}

	return build(intent).Validate(ctx, intent, posted)
}
