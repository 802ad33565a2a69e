// internal/config/secrets.go
//
// `vault:` reference resolution.
//
// Context
// -------
// Secret-bearing fields may hold a reference of the form
//
//	vault:<mount>/<path>#<key>
//
// instead of a literal value.  Load hands each reference to the configured
// SecretResolver (normally *vault.Client) and stores the plain result.  A
// reference without a resolver is a startup error so secrets never end up
// used verbatim.

package config

import (
	"context"
	"fmt"
	"strings"
)

// VaultPrefix marks a value as a Vault reference.
const VaultPrefix = "vault:"

// SecretResolver turns a reference (without the prefix) into its value.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}

// secretFields lists the fields allowed to carry references.
func secretFields(c *Config) map[string]*string {
	return map[string]*string{
		"security.csrf_key": &c.Security.CSRFKey,
		"directory.dsn":     &c.Directory.DSN,
	}
}

func resolveSecrets(ctx context.Context, c *Config, r SecretResolver) error {
	for name, ptr := range secretFields(c) {
		ref, ok := strings.CutPrefix(*ptr, VaultPrefix)
		if !ok {
			continue
		}
		if r == nil {
			return fmt.Errorf("config %s: vault reference but no vault client configured", name)
		}
		val, err := r.Resolve(ctx, ref)
		if err != nil {
			return fmt.Errorf("config %s: %w", name, err)
		}
		*ptr = val
	}
	return nil
}
