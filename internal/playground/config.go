// internal/playground/config.go
//
// Playground – demo switches read from the query string.
//
// Context
//   Every playground page accepts the same knobs so a visitor can compare
//   validation timing without editing code:
//
//     ?validate=onBlur&revalidate=onSubmit&noValidate=yes&fallbackNative=on
//
//   Unknown or malformed values silently fall back to the defaults.  The
//   struct is rendered in the state panel and drives the form attributes.
//
//------------------------------------------------------------------------------

package playground

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Mode says when the client runs validation.
type Mode string

const (
	OnSubmit Mode = "onSubmit"
	OnBlur   Mode = "onBlur"
	OnInput  Mode = "onInput"
)

// Config is the per-request playground configuration.
type Config struct {
	ShouldValidate   Mode `json:"shouldValidate"`
	ShouldRevalidate Mode `json:"shouldRevalidate"`
	NoValidate       bool `json:"noValidate"`
	FallbackNative   bool `json:"fallbackNative"`
}

// Default returns the configuration used when no query parameters are set.
func Default() Config {
	return Config{ShouldValidate: OnSubmit, ShouldRevalidate: OnInput}
}

// ParseConfig reads the playground knobs from r's query string.
func ParseConfig(r *http.Request) Config {
	return FromValues(r.URL.Query())
}

// FromValues is ParseConfig for already decoded values.
func FromValues(q url.Values) Config {
	cfg := Default()
	if m, ok := parseMode(q.Get("validate")); ok {
		cfg.ShouldValidate = m
	}
	if m, ok := parseMode(q.Get("revalidate")); ok {
		cfg.ShouldRevalidate = m
	}
	cfg.NoValidate = parseFlag(q.Get("noValidate"))
	cfg.FallbackNative = parseFlag(q.Get("fallbackNative"))
	return cfg
}

// Query encodes cfg back into query parameters, omitting defaults.
func (c Config) Query() url.Values {
	q := url.Values{}
	def := Default()
	if c.ShouldValidate != def.ShouldValidate {
		q.Set("validate", string(c.ShouldValidate))
	}
	if c.ShouldRevalidate != def.ShouldRevalidate {
		q.Set("revalidate", string(c.ShouldRevalidate))
	}
	if c.NoValidate {
		q.Set("noValidate", "yes")
	}
	if c.FallbackNative {
		q.Set("fallbackNative", "yes")
	}
	return q
}

func parseMode(s string) (Mode, bool) {
	switch m := Mode(s); m {
	case OnSubmit, OnBlur, OnInput:
		return m, true
	}
	return "", false
}

// parseFlag accepts strconv booleans plus yes/on.
func parseFlag(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "yes", "on":
		return true
	}
	b, _ := strconv.ParseBool(s)
	return b
}
