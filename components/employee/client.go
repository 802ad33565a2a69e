// components/employee/client.go
package employee

import (
	"context"
	"net/url"

	"github.com/yanizio/playground/internal/form"
)

// ValidateClient runs the schema without a uniqueness checker, the way a
// browser does before anything reaches the server.  The email refinement
// therefore reports undefined (or skipped) and never "already used".
func ValidateClient(ctx context.Context, intent form.Intent, values url.Values) (*form.Submission, error) {
	return NewSchema(intent, Constraints{}).Validate(ctx, intent, values)
}
