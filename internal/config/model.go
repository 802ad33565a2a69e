// internal/config/model.go
//
// Typed configuration model for the playground.
//
// Context
// -------
// These structs define the shape of the configuration tree that
// `internal/config/loader.go` builds from built-in defaults plus three
// overlay layers:
//
//   • optional `.env`                              – dotenv values,
//   • `conf/global.yaml`                           – primary static file,
//   • `PLAYGROUND_`-prefixed environment overrides – highest precedence.
//
// Any value whose string begins with the prefix `vault:` is resolved
// through the Vault client *before* validation, so the model never holds
// Vault references once Load returns.
//
// Notes
// -----
//   • Struct tags use `koanf:"…"`, not `yaml:"…"`.
//   • The `Paths` block is filled at runtime; YAML must not try to set it.
//   • Oxford commas, two spaces after periods.  No em-dash.

package config

import "time"

//
// HTTP section
//

// HTTP holds web-server tunables.
type HTTP struct {
	ListenAddr      string        `koanf:"listen_addr"      validate:"required,hostname_port"`
	ForceHTTPS      bool          `koanf:"force_https"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gte=0"`
}

//
// Log section
//

// Log controls the file logger.  Dir is relative to Paths.Root unless
// absolute.
type Log struct {
	Dir   string `koanf:"dir"   validate:"required"`
	Level string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
}

//
// Security section
//

// Security holds form secrets.  CSRFKey is base64url and usually a
// `vault:` reference in production.  Blank means an ephemeral key.
type Security struct {
	CSRFKey string `koanf:"csrf_key" validate:"omitempty,base64rawurl"`
}

//
// Directory section
//

// Directory selects the backend answering email uniqueness checks.
//
// `simulated` waits a random delay below MaxDelay and only reports
// UniqueEmail as unique.  `mysql` looks the address up in the employee
// table through DSN.
type Directory struct {
	Driver      string        `koanf:"driver"       validate:"required,oneof=simulated mysql"`
	DSN         string        `koanf:"dsn"          validate:"required_if=Driver mysql"`
	MaxDelay    time.Duration `koanf:"max_delay"    validate:"gte=0"`
	UniqueEmail string        `koanf:"unique_email" validate:"omitempty,email"`
}

//
// View section
//

// View controls template lookup.  ThemeDir is relative to Paths.Root unless
// absolute; templates found there override the embedded ones.
type View struct {
	ThemeDir string `koanf:"theme_dir"`
	NoCache  bool   `koanf:"no_cache"`
}

//
// GeoIP section
//

// GeoIP points at an optional GeoLite2-City database.
type GeoIP struct {
	DBPath string `koanf:"db_path"`
}

//
// Paths section (runtime only)
//

// Paths is resolved at runtime, never set in YAML or env.
type Paths struct {
	Root string // PLAYGROUND_ROOT or discovered parent
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load() and cached in an
// atomic.Pointer for lock-free reads throughout the app lifetime.
type Config struct {
	HTTP      HTTP      `koanf:"http"`
	Log       Log       `koanf:"log"`
	Security  Security  `koanf:"security"`
	Directory Directory `koanf:"directory"`
	View      View      `koanf:"view"`
	GeoIP     GeoIP     `koanf:"geoip"`
	Paths     Paths     `koanf:"-"`
}

// defaults seeds the koanf tree before any file or env layer.
var defaults = map[string]any{
	"http.listen_addr":       ":8080",
	"http.force_https":       false,
	"http.shutdown_timeout":  "10s",
	"log.dir":                "logs",
	"log.level":              "info",
	"directory.driver":       "simulated",
	"directory.max_delay":    "500ms",
	"directory.unique_email": "hey@conform.guide",
	"view.theme_dir":         "themes/default",
}
