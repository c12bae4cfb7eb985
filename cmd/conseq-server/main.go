// Command conseq-server provides a REST API for consensus generation.
//
// Usage:
//
//	conseq-server [options]
//
// Options:
//
//	-port     Port to listen on (default: 8080)
//	-host     Host to bind to (default: localhost)
//	-config   YAML configuration file
//	-verbose  Log at debug level
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aria-lang/conseq-go/api/handlers"
	"github.com/aria-lang/conseq-go/api/middleware"
	"github.com/aria-lang/conseq-go/internal/config"
	"github.com/aria-lang/conseq-go/pkg/conseq"
)

func main() {
	port := flag.Int("port", 8080, "Port to listen on")
	host := flag.String("host", "localhost", "Host to bind to")
	configPath := flag.String("config", "", "YAML configuration file")
	verbose := flag.Bool("verbose", false, "Log at debug level")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("loading config", "error", err)
		os.Exit(1)
	}
	strategy, err := cfg.NewStrategy(logger)
	if err != nil {
		logger.Error("building strategy", "error", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf("%s:%d", *host, *port)
	server := &http.Server{
		Addr:         addr,
		Handler:      newRouter(strategy, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	done := make(chan struct{})
	quit := make(chan os.Signal, 1)

	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("server is shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("could not gracefully shut down", "error", err)
			os.Exit(1)
		}
		close(done)
	}()

	logger.Info("conseq API server starting", "addr", "http://"+addr, "strategy", strategy.Name(), "version", conseq.Version())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("could not listen", "addr", addr, "error", err)
		os.Exit(1)
	}

	<-done
	logger.Info("server stopped")
}

func newRouter(strategy conseq.Strategy, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(5 * time.Minute))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", handlers.NewConsensus(strategy, logger).Routes)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(conseq.Info() + `
Endpoints:
  POST /api/consensus          {"label": "1", "reads": ["ACGT", ...]}
  POST /api/consensus/batch    {"bins": [{"label": "1", "reads": [...]}, ...]}
  POST /api/seed               {"reads": [...]}
  POST /api/reads/validate     {"reads": [...]}
  POST /api/reads/stats        {"reads": [...]}
  POST /api/alignment/global   {"sequence1": "...", "sequence2": "...", "penalized": false}
  POST /api/alignment/score    {"sequence1": "...", "sequence2": "..."}
  GET  /health
  GET  /metrics
`))
	})

	return r
}
