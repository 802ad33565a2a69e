// components/employee/employee.go
//
// Employee component – the playground's form route.
//
// Routes
//   GET  /          → 302 to /employee
//   GET  /employee  → loader: renders the form (JSON with the CSRF token and
//                     playground config when the client asks for JSON)
//   POST /employee  → action: validates with the uniqueness check attached
//                     and returns the submission (JSON or re-rendered page)
//
//------------------------------------------------------------------------------

package employee

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/yanizio/playground/internal/component"
	"github.com/yanizio/playground/internal/form"
	"github.com/yanizio/playground/internal/logger"
	"github.com/yanizio/playground/internal/metrics"
	"github.com/yanizio/playground/internal/playground"
	"github.com/yanizio/playground/internal/requestinfo"
	"github.com/yanizio/playground/internal/view"
)

//go:embed templates/*.html forms/*.yaml
var assets embed.FS

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const formID = "employee"

// Compile-time assertions.
var (
	_ component.Component   = (*Component)(nil)
	_ component.Initializer = (*Component)(nil)
)

// Component serves the employee form.
type Component struct {
	log    *zap.SugaredLogger
	view   *view.Engine
	csrf   *form.CSRF
	def    *form.FormDef
	build  form.SchemaFunc
	policy view.CachePolicy
}

/*────────────────── component.Component methods ───────────────────────────*/

func (c *Component) Name() string { return "employee" }

// Migrations creates the table SQLDirectory reads.
func (c *Component) Migrations() []string {
	return []string{`CREATE TABLE IF NOT EXISTS employee (
	id    BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
	name  VARCHAR(255)    NOT NULL,
	email VARCHAR(255)    NOT NULL,
	title VARCHAR(20)     NOT NULL,
	UNIQUE KEY uq_employee_email (email)
)`}
}

// Init picks the directory backend and loads the form definition.
func (c *Component) Init(env component.Env) error {
	if env.View == nil || env.CSRF == nil || env.Config == nil {
		return errors.New("employee: view, csrf, and config are required")
	}

	dir, err := newDirectory(env)
	if err != nil {
		return err
	}

	def, err := form.LoadFormDef(assets, "forms/employee.yaml")
	if err != nil {
		return err
	}
	form.Register(def)

	env.View.Mount(c.Name(), assets)

	c.log = env.Logger
	if c.log == nil {
		c.log = zap.NewNop().Sugar()
	}
	c.log.Infow("employee directory ready", "driver", dir.Name())
	c.view = env.View
	c.csrf = env.CSRF
	c.def = def
	c.build = SchemaFor(Constraints{IsEmailUnique: Instrument(dir)})
	if env.Config.View.NoCache {
		c.policy = view.CacheSkip
	}
	return nil
}

func newDirectory(env component.Env) (Directory, error) {
	d := env.Config.Directory
	switch d.Driver {
	case "", "simulated":
		sim := NewSimulatedDirectory()
		sim.MaxDelay = d.MaxDelay
		if d.UniqueEmail != "" {
			sim.UniqueEmail = d.UniqueEmail
		}
		return sim, nil
	case "mysql":
		if env.DB == nil {
			return nil, errors.New("employee: mysql directory needs a database")
		}
		return NewSQLDirectory(env.DB), nil
	}
	return nil, fmt.Errorf("employee: unknown directory driver %q", d.Driver)
}

// Routes builds and returns the router mounted at “/”.
func (c *Component) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/employee", http.StatusFound)
	})
	r.Get("/employee", c.handleGET)
	r.Post("/employee", c.handlePOST)
	return r
}

// Register component at program start.
func init() { component.Register(&Component{}) }

/*──────────────────────────── Handlers ─────────────────────────────────────*/

type loaderData struct {
	Config    playground.Config `json:"config"`
	CSRFToken string            `json:"csrfToken"`
}

func (c *Component) handleGET(w http.ResponseWriter, r *http.Request) {
	cfg := playground.ParseConfig(r)
	tok, err := c.csrf.Generate()
	if err != nil {
		c.fail(w, r, "csrf token", err)
		return
	}

	if wantsJSON(r) {
		c.writeJSON(w, r, loaderData{Config: cfg, CSRFToken: tok})
		return
	}
	c.render(w, r, cfg, tok, nil)
}

func (c *Component) handlePOST(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	sub, err := form.Parse(r.Context(), r, c.build, form.WithCSRF(c.csrf))
	if errors.Is(err, form.ErrMalformedBody) {
		log.Infow("employee body rejected", "err", err)
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	if err != nil {
		metrics.FormValidationErrorsTotal.WithLabelValues(formID).Inc()
		c.fail(w, r, "validate", err)
		return
	}

	result := resultLabel(sub)
	metrics.FormValidationsTotal.WithLabelValues(formID, intentLabel(sub.Intent), result).Inc()
	log.Debugw("employee validated", "intent", sub.Intent, "result", result)

	if wantsJSON(r) {
		c.writeJSON(w, r, sub)
		return
	}

	tok, err := c.csrf.Generate()
	if err != nil {
		c.fail(w, r, "csrf token", err)
		return
	}
	c.render(w, r, playground.ParseConfig(r), tok, sub)
}

/*──────────────────────────── Rendering ────────────────────────────────────*/

type pageData struct {
	Title      string
	Action     template.URL // keeps the playground switches across posts
	Config     playground.Config
	Client     requestinfo.Summary
	Fields     template.HTML
	Submission *form.Submission
	FormError  []string
	Done       bool
}

func (c *Component) render(w http.ResponseWriter, r *http.Request, cfg playground.Config, tok string, sub *form.Submission) {
	fields, err := form.RenderFields(c.def, c.build(form.IntentSubmit), form.RenderOptions{
		Submission: sub,
		CSRFToken:  tok,
	})
	if err != nil {
		c.fail(w, r, "render fields", err)
		return
	}

	data := pageData{
		Title:      c.def.Title,
		Action:     actionURL(cfg),
		Config:     cfg,
		Client:     requestinfo.FromContext(r.Context()).Summary(),
		Fields:     fields,
		Submission: sub,
	}
	if sub != nil {
		data.FormError = sub.FormError()
		data.Done = sub.Intent.IsSubmit() && sub.Ready()
	}

	if err := c.view.Render(w, http.StatusOK, c.Name(), "employee", data, c.policy); err != nil {
		c.fail(w, r, "render page", err)
	}
}

func (c *Component) writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	b, err := json.Marshal(v)
	if err != nil {
		c.fail(w, r, "encode json", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(b)
}

func (c *Component) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	logger.FromContext(r.Context()).Errorw("employee "+op+" failed", "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

/*──────────────────────────── Helpers ──────────────────────────────────────*/

// actionURL is the form target carrying cfg's non-default switches.
func actionURL(cfg playground.Config) template.URL {
	q := cfg.Query()
	if len(q) == 0 {
		return "/employee"
	}
	return template.URL("/employee?" + q.Encode())
}

// wantsJSON reports whether the client prefers a JSON response.
func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

// intentLabel keeps metric cardinality bounded.
func intentLabel(i form.Intent) string {
	if i.IsSubmit() {
		return i.String()
	}
	if f, ok := i.Field(); ok {
		switch f {
		case FieldName, FieldEmail, FieldTitle:
			return i.String()
		}
	}
	return "other"
}

func resultLabel(sub *form.Submission) string {
	switch {
	case !sub.Valid():
		return "invalid"
	case !sub.Ready():
		return "deferred"
	}
	return "valid"
}
