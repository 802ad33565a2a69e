// cmd/web/main.go
//
// Playground – HTTP entry point.
//
// Boot sequence
// -------------
//
//  1. Load env vars (jail-wide file → .env fallback).
//
//  2. Connect to Vault when VAULT_ADDR is set, so `vault:` config values
//     can be resolved.
//
//  3. Load and validate configuration (defaults → YAML → env).
//
//  4. Start the rotating logger (tees to console when running in a TTY).
//
//  5. Open optional resources: GeoIP database, MySQL pool, CSRF key.
//
//  6. Build the chi router: request id, real IP, panic recovery, request
//     logging, request info, security headers, and HTTPS enforcement.
//
//  7. Initialise and mount every registered component, expose /metrics,
//     and serve until SIGINT or SIGTERM.
//
// Large comment blocks are framed by blank “//” lines; inline comments use
// a single “//”.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/playground/internal/component"
	"github.com/yanizio/playground/internal/config"
	"github.com/yanizio/playground/internal/database"
	"github.com/yanizio/playground/internal/form"
	"github.com/yanizio/playground/internal/logger"
	"github.com/yanizio/playground/internal/middleware"
	"github.com/yanizio/playground/internal/requestinfo"
	"github.com/yanizio/playground/internal/server"
	"github.com/yanizio/playground/internal/vault"
	"github.com/yanizio/playground/internal/view"

	_ "github.com/yanizio/playground/components/employee"
)

const serverEnvPath = "/usr/local/etc/playground/global.env"

// loadEnv prefers the jail-wide env file; on dev it falls back to .env.
func loadEnv() {
	if _, err := os.Stat(serverEnvPath); err == nil {
		_ = godotenv.Load(serverEnvPath)
		return
	}
	_ = godotenv.Load()
}

// runningInTTY returns true when stdout is a character device.
func runningInTTY() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func init() { loadEnv() }

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		log.Fatalf("playground: %v", err)
	}
}

func run(ctx context.Context) error {
	boot := zap.Must(zap.NewProduction()).Sugar()
	zap.ReplaceGlobals(boot.Desugar())

	//
	// ── 1.  Vault (optional) and configuration ──────────────────────────
	//
	var opts []config.Option
	if os.Getenv("VAULT_ADDR") != "" {
		vc, err := vault.New(ctx, boot)
		if err != nil {
			return err
		}
		opts = append(opts, config.WithSecrets(vc))
	}
	cfg, err := config.Load(ctx, opts...)
	if err != nil {
		return err
	}

	//
	// ── 2.  Logger ──────────────────────────────────────────────────────
	//
	logOut, err := logger.New(logger.Options{
		Dir:   cfg.Log.Dir,
		Level: cfg.Log.Level,
		Tee:   runningInTTY(),
	})
	if err != nil {
		return err
	}
	defer func() { _ = logOut.Sync() }()

	//
	// ── 3.  Optional resources ──────────────────────────────────────────
	//
	if err := requestinfo.InitGeo(cfg.GeoIP.DBPath); err != nil {
		logOut.Warnw("geoip disabled", "err", err)
	}
	defer func() { _ = requestinfo.CloseGeo() }()

	var db *sqlx.DB
	if cfg.Directory.Driver == "mysql" {
		logOut.Infow("connecting to directory DB")
		db, err = database.Open(ctx, cfg.Directory.DSN)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	csrf, err := form.NewCSRF(cfg.Security.CSRFKey)
	if err != nil {
		return err
	}
	if csrf.Ephemeral() {
		logOut.Warnw("security.csrf_key not set; tokens will not survive a restart")
	}

	//
	// ── 4.  Router ──────────────────────────────────────────────────────
	//
	r := chi.NewRouter()
	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		logger.Requests(logOut),
		requestinfo.Enrich,
		middleware.Security,
		middleware.ForceHTTPS(cfg.HTTP.ForceHTTPS),
	)
	r.Handle("/metrics", promhttp.Handler())

	//
	// ── 5.  Components ──────────────────────────────────────────────────
	//
	comps := component.All()
	if db != nil {
		if err := component.Migrate(ctx, db, comps); err != nil {
			return err
		}
	}
	env := component.Env{
		Logger: logOut,
		Config: cfg,
		DB:     db,
		View:   view.New(cfg.View.ThemeDir),
		CSRF:   csrf,
	}
	if err := component.Mount(r, env, comps); err != nil {
		return err
	}

	//
	// ── 6.  Serve ───────────────────────────────────────────────────────
	//
	srv := server.New(cfg.HTTP.ListenAddr, r)
	return server.Run(ctx, srv, cfg.HTTP.ShutdownTimeout, logOut)
}
