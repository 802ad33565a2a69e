// internal/form/renderer.go
//
// Playground – Forms subsystem: HTML renderer.
//
// Context
//   Given a FormDef (presentation) and a Schema (rules), the renderer writes
//   accessible inputs bound to the current Submission.  Native constraint
//   attributes come from Schema.Constraint so the browser enforces the same
//   required and length rules the server does.
//
// Workflow
//   •  RenderFields writes each field via writeField in definition order.
//   •  Prefill comes from the submission payload.  Messages come from
//      Submission.Messages, so a validate intent only reveals its own field.
//   •  Invalid fields get aria-invalid and point aria-describedby at their
//      message list.
//   •  A CSRF hidden input is appended when a token is supplied.
//   •  The caller receives template.HTML so the surrounding template does not
//      double-escape the markup.
//
// Style
//   Output HTML is deliberately plain, with no framework classes, so themes
//   can style via element selectors or class hooks.  Each input gets
//   id="fld-{name}" and is wrapped in <div class="form-field">.
//
//------------------------------------------------------------------------------

package form

import (
	"bytes"
	"fmt"
	"html"
	"html/template"
	"strconv"
)

// RenderOptions bundles optional parameters influencing HTML output.
type RenderOptions struct {
	// Submission is the latest validation result; nil on first render.
	Submission *Submission
	// CSRFToken is embedded as a hidden input when non-empty.
	CSRFToken string
}

// RenderFields returns the markup for every field of fd.
func RenderFields(fd *FormDef, s *Schema, opts RenderOptions) (template.HTML, error) {
	var buf bytes.Buffer
	buf.WriteString(`<div class="playground-form">` + "\n")

	for i := range fd.Fields {
		if err := writeField(&buf, &fd.Fields[i], s.Constraint(fd.Fields[i].Name), opts.Submission); err != nil {
			return "", err
		}
	}

	if opts.CSRFToken != "" {
		buf.WriteString(fmt.Sprintf(`<input type="hidden" name="%s" value="%s">`+"\n",
			CSRFKey, html.EscapeString(opts.CSRFToken)))
	}

	buf.WriteString(`</div>`)
	return template.HTML(buf.String()), nil
}

// writeField emits HTML for an individual field into buf.
func writeField(buf *bytes.Buffer, f *FieldDef, c Constraint, sub *Submission) error {
	name := html.EscapeString(f.Name)
	id := "fld-" + name
	errID := id + "-error"
	msgs := sub.Messages(f.Name)

	typ := f.Type
	if typ == "" {
		typ = c.Type
	}
	if typ == "" {
		typ = "text"
	}

	buf.WriteString(`<div class="form-field">` + "\n")
	buf.WriteString(`<label for="` + id + `">` + html.EscapeString(f.Label) + `</label>` + "\n")

	switch typ {
	case "text", "email":
		buf.WriteString(`<input id="` + id + `" name="` + name + `" type="` + typ + `"`)
		writeConstraints(buf, f, c)
		if val := prefillValue(sub, f.Name); val != "" {
			buf.WriteString(` value="` + html.EscapeString(val) + `"`)
		}
		writeAria(buf, errID, msgs)
		buf.WriteString(`>` + "\n")

	case "textarea":
		buf.WriteString(`<textarea id="` + id + `" name="` + name + `"`)
		writeConstraints(buf, f, c)
		writeAria(buf, errID, msgs)
		buf.WriteString(`>` + html.EscapeString(prefillValue(sub, f.Name)) + `</textarea>` + "\n")

	default:
		return fmt.Errorf("writeField: unsupported field type %q in form field %s", typ, f.Name)
	}

	// Message list (empty container keeps aria-live targets stable).
	buf.WriteString(`<ul id="` + errID + `" class="error" aria-live="polite">`)
	for _, m := range msgs {
		buf.WriteString(`<li>` + html.EscapeString(m) + `</li>`)
	}
	buf.WriteString(`</ul>` + "\n")

	buf.WriteString(`</div>` + "\n")
	return nil
}

func writeConstraints(buf *bytes.Buffer, f *FieldDef, c Constraint) {
	if c.Required {
		buf.WriteString(` required`)
	}
	if c.MinLength > 0 {
		buf.WriteString(` minlength="` + strconv.Itoa(c.MinLength) + `"`)
	}
	if c.MaxLength > 0 {
		buf.WriteString(` maxlength="` + strconv.Itoa(c.MaxLength) + `"`)
	}
	if f.Placeholder != "" {
		buf.WriteString(` placeholder="` + html.EscapeString(f.Placeholder) + `"`)
	}
	if f.Autocomplete != "" {
		buf.WriteString(` autocomplete="` + html.EscapeString(f.Autocomplete) + `"`)
	}
}

func writeAria(buf *bytes.Buffer, errID string, msgs []string) {
	if len(msgs) == 0 {
		return
	}
	buf.WriteString(` aria-invalid="true" aria-describedby="` + errID + `"`)
}

// prefillValue returns the previously submitted value or empty string.
func prefillValue(sub *Submission, name string) string {
	if sub == nil {
		return ""
	}
	return sub.Payload[name]
}
