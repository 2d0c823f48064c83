package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"match-comb/app/api"
	"match-comb/app/blogger"
	"match-comb/app/cfg"
	"match-comb/app/database"
	"match-comb/app/feed"
	"match-comb/app/lifecycle"
	"match-comb/app/metrics"
	"match-comb/app/sources"
	"match-comb/app/tasks"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// Load .env if present; real environment variables win
	_ = godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Match Comb", "version", appCfg.Version)

	httpClient := &http.Client{Timeout: 30 * time.Second}

	srcs, err := sources.Load(appCfg.SourcesFile, appCfg.FeedURL)
	if err != nil {
		log.Fatalf("Failed to load feed sources: %v", err)
	}
	slog.Info("Feed sources loaded", "count", len(srcs))

	feedService := feed.NewService(srcs, httpClient, appCfg.UserAgent)
	publisher := blogger.NewClient(appCfg.ClientID, appCfg.ClientSecret, appCfg.RefreshToken, appCfg.BlogID, httpClient)

	runner := lifecycle.NewRunner(feedService, publisher,
		appCfg.MaxCreatesPerRun, appCfg.MaxDeletesPerRun,
		time.Duration(appCfg.CreateDelayMs)*time.Millisecond,
		time.Duration(appCfg.DeleteDelayMs)*time.Millisecond,
		int64(appCfg.FinishedOffset))

	if appCfg.Once {
		runOnce(runner)
		return
	}

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	version, dirty, err := database.RunMigrations(db)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database ready", "path", appCfg.DBPath, "migration_version", version, "dirty", dirty)

	runRepo := database.NewRunRepository(db)
	appMetrics := metrics.New()

	scheduler := tasks.NewScheduler(runner, runRepo, appMetrics)
	scheduler.Start()
	defer scheduler.Stop()

	apiHandler := api.NewHandler(runRepo, scheduler, appMetrics)
	server := api.NewServer(apiHandler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + appCfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("HTTP server listening", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	slog.Info("Shutdown complete")
}

// runOnce executes a single lifecycle run and maps its outcome to the exit
// code contract for external schedulers: 0 up to date, 3 more remaining,
// 4 rate limited, 1 fatal.
func runOnce(runner *lifecycle.Runner) {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	report, err := runner.Run(ctx)
	if err != nil {
		slog.Error("Run failed", "error", err)
		os.Exit(1)
	}

	os.Exit(report.ExitCode())
}
