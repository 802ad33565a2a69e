// internal/requestinfo/requestinfo.go
//
// Playground – per-request client metadata.
//
// Context
//   Enrich parses the User-Agent and Accept-Language headers, resolves the
//   client address, and looks it up in an optional GeoLite2 database.  The
//   result travels in the request context.  Handlers read it back with
//   FromContext; the employee page shows Summary() in its state panel and
//   the request logger carries LogFields() on every line.
//
//   Values are plain data, safe to log or JSON-encode.
//
//------------------------------------------------------------------------------

package requestinfo

import (
	"context"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/avct/uasurfer"
	"github.com/oschwald/geoip2-golang"
)

// UA is the parsed User-Agent plus the preferred language.
type UA struct {
	Raw         string
	Browser     string // Chrome, Firefox, Safari, …
	Version     string // 124.0.6367
	OS          string // macOS, Windows, Android, …
	OSVersion   string
	Device      string // Desktop, Phone, Tablet, …
	Platform    string // Mac, Windows, iPhone, …
	IsBot       bool
	PrimaryLang string // first Accept-Language tag, lower-case
}

// Geo is a best-effort location for the client address.
type Geo struct {
	IP         net.IP
	CountryISO string
	City       string
}

// RequestInfo is what Enrich stores in the request context.
type RequestInfo struct {
	UA        UA
	Geo       Geo
	URL       *url.URL
	Timestamp time.Time
}

// Summary is the compact client description rendered by views.
type Summary struct {
	Browser  string `json:"browser"`
	OS       string `json:"os"`
	Device   string `json:"device"`
	Language string `json:"language,omitempty"`
	Country  string `json:"country,omitempty"`
	Bot      bool   `json:"bot"`
}

// Summary condenses ri for display.  Nil-safe.
func (ri *RequestInfo) Summary() Summary {
	if ri == nil {
		return Summary{}
	}
	browser := ri.UA.Browser
	if ri.UA.Version != "" && ri.UA.Version != "0" {
		browser += " " + ri.UA.Version
	}
	osName := ri.UA.OS
	if ri.UA.OSVersion != "" && ri.UA.OSVersion != "0" {
		osName += " " + ri.UA.OSVersion
	}
	return Summary{
		Browser:  browser,
		OS:       osName,
		Device:   ri.UA.Device,
		Language: ri.UA.PrimaryLang,
		Country:  ri.Geo.CountryISO,
		Bot:      ri.UA.IsBot,
	}
}

// LogFields returns zap key/value pairs describing the client.
func (ri *RequestInfo) LogFields() []any {
	if ri == nil {
		return nil
	}
	return []any{
		"ip", ri.Geo.IP.String(),
		"country", ri.Geo.CountryISO,
		"browser", ri.UA.Browser,
		"device", ri.UA.Device,
		"bot", ri.UA.IsBot,
	}
}

/*──────────────────────────── GeoIP ────────────────────────────────────────*/

// geoReader is nil until InitGeo succeeds; lookups then leave Geo empty.
var geoReader *geoip2.Reader

// InitGeo opens a GeoLite2-City database.  An empty path disables lookups.
func InitGeo(dbPath string) error {
	if dbPath == "" {
		return nil
	}
	r, err := geoip2.Open(dbPath)
	if err != nil {
		return fmt.Errorf("requestinfo: open GeoLite2 DB: %w", err)
	}
	geoReader = r
	return nil
}

// CloseGeo releases the database, if open.
func CloseGeo() error {
	if geoReader == nil {
		return nil
	}
	err := geoReader.Close()
	geoReader = nil
	return err
}

func lookupGeo(ip net.IP) Geo {
	g := Geo{IP: ip}
	if geoReader == nil || ip == nil {
		return g
	}
	if rec, err := geoReader.City(ip); err == nil {
		g.CountryISO = rec.Country.IsoCode
		g.City = rec.City.Names["en"]
	}
	return g
}

/*──────────────────────────── context ──────────────────────────────────────*/

type ctxKey struct{}

// FromContext returns the info stored by Enrich, or nil.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

/*──────────────────────────── UA parsing ───────────────────────────────────*/

var deviceNames = map[uasurfer.DeviceType]string{
	uasurfer.DeviceComputer: "Desktop",
	uasurfer.DevicePhone:    "Phone",
	uasurfer.DeviceTablet:   "Tablet",
	uasurfer.DeviceConsole:  "Console",
	uasurfer.DeviceWearable: "Wearable",
	uasurfer.DeviceTV:       "TV",
}

func parseUA(header, acceptLang string) UA {
	u := uasurfer.Parse(header)

	osName := strings.TrimPrefix(u.OS.Name.String(), "OS")
	if osName == "MacOSX" {
		osName = "macOS"
	}
	device, ok := deviceNames[u.DeviceType]
	if !ok {
		device = "Unknown"
	}

	return UA{
		Raw:         header,
		Browser:     strings.TrimPrefix(u.Browser.Name.String(), "Browser"),
		Version:     shortVersion(u.Browser.Version),
		OS:          osName,
		OSVersion:   shortVersion(u.OS.Version),
		Device:      device,
		Platform:    strings.TrimPrefix(u.OS.Platform.String(), "Platform"),
		IsBot:       u.IsBot(),
		PrimaryLang: primaryLang(acceptLang),
	}
}

// shortVersion renders major.minor.patch without trailing zero parts.
func shortVersion(v uasurfer.Version) string {
	parts := []int{v.Major, v.Minor, v.Patch}
	for len(parts) > 1 && parts[len(parts)-1] == 0 {
		parts = parts[:len(parts)-1]
	}
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strconv.Itoa(p)
	}
	return strings.Join(out, ".")
}

// primaryLang returns the first Accept-Language tag without its q-value.
func primaryLang(al string) string {
	tag, _, _ := strings.Cut(al, ",")
	tag, _, _ = strings.Cut(tag, ";")
	return strings.ToLower(strings.TrimSpace(tag))
}
