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

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-book-recommender/api"
	"github.com/gcbaptista/go-book-recommender/config"
	"github.com/gcbaptista/go-book-recommender/internal/engine"
	"github.com/gcbaptista/go-book-recommender/internal/jobs"
	"github.com/gcbaptista/go-book-recommender/internal/logging"
	"github.com/gcbaptista/go-book-recommender/internal/metrics"
	"github.com/gcbaptista/go-book-recommender/internal/recommend"
)

const shutdownTimeout = 10 * time.Second

func main() {
	// Define command-line flags
	var (
		help       = flag.Bool("help", false, "Show help message")
		version    = flag.Bool("version", false, "Show version information")
		configPath = flag.String("config", "", "Path to YAML config file")
		port       = flag.Int("port", 0, "Port to run the server on (overrides config)")
	)

	flag.Parse()

	// Handle help flag
	if *help {
		fmt.Printf("Go Book Recommender - TF-IDF similarity over a book catalog\n\n")
		fmt.Printf("Usage: %s [options]\n\n", os.Args[0])
		fmt.Printf("Options:\n")
		flag.PrintDefaults()
		fmt.Printf("\nExamples:\n")
		fmt.Printf("  %s                          # Start server with built-in defaults\n", os.Args[0])
		fmt.Printf("  %s --config config.yaml     # Start with a config file\n", os.Args[0])
		fmt.Printf("  %s --port 9000              # Override the listen port\n", os.Args[0])
		return
	}

	// Handle version flag
	if *version {
		fmt.Printf("Go Book Recommender v1.0.0\n")
		fmt.Printf("TF-IDF book similarity with async reloads and query analytics\n")
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting book recommender", "port", cfg.Server.Port, "books_path", cfg.Data.BooksPath)

	met := metrics.New()

	jobManager := jobs.NewManager(cfg.Engine.JobWorkers)
	jobManager.Start()
	defer jobManager.Stop()

	// A snapshot persisted by an earlier run is served as-is; otherwise load
	// the catalog from its source files. A failed load still leaves a usable
	// degraded service, so it does not abort startup.
	eng := engine.New(cfg, jobManager, met)
	if eng.Snapshot() == nil {
		if err := eng.Reload(); err != nil {
			slog.Warn("initial catalog load incomplete, serving degraded", "error", err)
		}
	}

	recommender := recommend.NewService(eng, cfg.Engine.RecommendDefault, cfg.Engine.CacheSize, met)
	apiHandler := api.NewAPI(eng, recommender, eng, jobManager, met, cfg)

	// Initialize Gin router
	router := gin.Default()
	api.SetupRoutes(router, apiHandler)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("book recommender listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("book recommender stopped")
}
