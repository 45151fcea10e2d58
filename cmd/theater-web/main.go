// main is the entry point of the theater records web front end.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Build the backend client, templates, notice store and filter sequencer
//  4. Register the page, fragment and action routes
//  5. Start the HTTP server in a separate goroutine
//  6. Block until an OS signal (Ctrl+C / kill) arrives
//  7. Gracefully shut down: finish in-flight requests, then exit
//
// RUNNING THE SERVER:
//
//	go run ./cmd/theater-web --config=config/local.yaml
//
// The records backend must be reachable at backend.base_url; for local
// work run ./cmd/theater-api next to it.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/securecookie"

	"github.com/aanand-mishra/theater-records/internal/backend"
	"github.com/aanand-mishra/theater-records/internal/config"
	"github.com/aanand-mishra/theater-records/internal/entity"
	"github.com/aanand-mishra/theater-records/internal/filter"
	"github.com/aanand-mishra/theater-records/internal/http/handlers/web"
	"github.com/aanand-mishra/theater-records/internal/http/middleware"
	"github.com/aanand-mishra/theater-records/internal/logging"
	"github.com/aanand-mishra/theater-records/internal/notify"
	"github.com/aanand-mishra/theater-records/internal/view"
)

func main() {
	// ── 1. Load Config ────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Initialise Logger ──────────────────────────────────────────────
	log := logging.Setup(cfg.Env)
	slog.SetDefault(log)

	log.Info("starting theater-web",
		slog.String("env", cfg.Env),
		slog.String("backend", cfg.Backend.BaseURL),
	)

	// ── 3. Build Components ───────────────────────────────────────────────
	// One backend client is shared by every handler; it is safe for
	// concurrent use. The sequencer remembers the newest filter request
	// per open list view so late responses can be dropped.
	client, err := backend.New(cfg.Backend.BaseURL,
		backend.WithTimeout(cfg.Backend.Timeout),
		backend.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to create backend client", slog.String("error", err.Error()))
		os.Exit(1)
	}

	render, err := view.NewRenderer()
	if err != nil {
		log.Error("failed to parse templates", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Notices ride in a signed cookie. Without a configured key a random
	// one is used, so pending notices do not survive a restart.
	key := []byte(cfg.Session.Key)
	if len(key) == 0 {
		log.Warn("session key not set, generating a random one")
		key = securecookie.GenerateRandomKey(32)
	}

	seq := filter.NewSequencer(cfg.Filter.TokenTTL)
	deps := web.NewDeps(client, render, entity.Default(), seq, notify.NewStore(key), log)

	// ── 4. Register HTTP Routes ───────────────────────────────────────────
	router := http.NewServeMux()
	web.Register(router, deps)

	// ── 5. Create and Start the HTTP Server ───────────────────────────────
	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      middleware.Chain(router, log),
		ReadTimeout:  cfg.HTTPServer.Timeout,
		WriteTimeout: cfg.HTTPServer.Timeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	// ── 6. Wait for Shutdown Signal ───────────────────────────────────────
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
