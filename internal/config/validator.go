// internal/config/validator.go
//
// Thin wrapper around go-playground/validator.
//
// Context
// -------
// `internal/config/loader.go` calls `validateStruct` right after secrets are
// resolved.  Any tag mismatch aborts startup, ensuring the binary never runs
// with partial, malformed, or missing configuration.
//
// Rules in use: `required`, `hostname_port`, `oneof`, `required_if`,
// `email`, and `base64rawurl`.  Cross-field rules that tags cannot express
// are checked in validateStruct itself.
//
// Notes
// -----
//   • Oxford commas, two spaces after periods.

package config

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

//
// validator instance (package-level singleton)
//

var v = validator.New()

//
// public API
//

// validateStruct returns the first validation error, or nil on success.
func validateStruct(c *Config) error {
	if err := v.Struct(c); err != nil {
		return err
	}
	if c.Directory.Driver == "simulated" && c.Directory.UniqueEmail == "" {
		return errors.New("config directory.unique_email: required for the simulated directory")
	}
	return nil
}
