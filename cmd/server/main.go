/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the mood calendar server. Handles configuration,
  dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and the YAML config file
  2. Apply command-line flag overrides
  3. Initialize the SQLite store
  4. Create the API handler and router
  5. Start the server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  YAML config file path (default: config.yaml; missing file uses
           built-in defaults)
  -port    HTTP server port override
  -db      SQLite database path override; use ":memory:" for in-memory

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the database
  4. Exit

EXAMPLES:
  ./server -db="./data/moods.db"
  ./server -config=./deploy/config.yaml -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - config/config.go: Configuration loading
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/mood-calendar/api"
	"github.com/warp/mood-calendar/auth"
	"github.com/warp/mood-calendar/config"
	"github.com/warp/mood-calendar/logger"
	"github.com/warp/mood-calendar/store/sqlite"
)

func main() {
	// Flags
	configPath := flag.String("config", "config.yaml", "YAML config file path")
	port := flag.Int("port", 0, "HTTP server port (overrides config)")
	dbPath := flag.String("db", "", "SQLite database path (overrides config)")
	flag.Parse()

	// .env is optional; config values may reference its variables.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	log := logger.SetupDefault(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Error("failed to initialize database", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	// Wire handler and router
	issuer := auth.NewIssuer(store)
	var handlerOpts []api.HandlerOption
	if cfg.CacheDir != "" {
		handlerOpts = append(handlerOpts, api.WithCacheDir(cfg.CacheDir))
	}
	handler := api.NewHandler(issuer, store, log, handlerOpts...)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", fmt.Sprintf("http://localhost:%d", cfg.Port), "db", cfg.DBPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "err", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
