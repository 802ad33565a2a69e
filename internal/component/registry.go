// internal/component/registry.go
//
// Component registry (cycle-free).
//
// Each concrete component lives under components/<name> and calls
// component.Register() in an init() function.  cmd/web mounts every
// component’s Routes() at “/”, after invoking Init() with the shared Env
// and applying Migrations() when a database is configured.

package component

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/yanizio/playground/internal/config"
	"github.com/yanizio/playground/internal/form"
	"github.com/yanizio/playground/internal/view"
)

// Env exposes process-wide resources to Components during Init.  DB is nil
// when the directory driver does not need a database.
type Env struct {
	Logger *zap.SugaredLogger
	Config *config.Config
	DB     *sqlx.DB
	View   *view.Engine
	CSRF   *form.CSRF
}

// Initializer is called once before Routes.
type Initializer interface {
	Init(Env) error
}

// Component contract.
//
// Migrations() may return nil if the component has no schema changes.
// Routes() should mount BOTH page and API endpoints, e.g:
//
//	r := chi.NewRouter()
//	r.Get("/employee", getForm)
//	r.Post("/employee", postForm)
//	return r
type Component interface {
	Name() string
	Routes() chi.Router
	Migrations() []string
	Initializer // embed so Components may omit Init
}

var (
	mu       sync.RWMutex
	registry = map[string]Component{}
)

// Register is invoked from component init() functions.
func Register(c Component) {
	mu.Lock()
	registry[c.Name()] = c
	mu.Unlock()
}

// All returns every registered component sorted by name.
func All() []Component {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Component, 0, len(registry))
	for _, c := range registry {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}

// Migrate executes every component's migration statements in name order.
// Statements must be idempotent (CREATE TABLE IF NOT EXISTS, …).
func Migrate(ctx context.Context, db *sqlx.DB, comps []Component) error {
	for _, c := range comps {
		for i, stmt := range c.Migrations() {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("migrate %s #%d: %w", c.Name(), i, err)
			}
		}
	}
	return nil
}

// Mount initialises comps and mounts their routers on r.
func Mount(r chi.Router, env Env, comps []Component) error {
	for _, c := range comps {
		if err := c.Init(env); err != nil {
			return fmt.Errorf("init %s: %w", c.Name(), err)
		}
		r.Mount("/", c.Routes())
		if env.Logger != nil {
			env.Logger.Infow("component mounted", "component", c.Name())
		}
	}
	return nil
}
