package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/contre95/songbase/src/features/config"
	"github.com/contre95/songbase/src/features/hosting"
	"github.com/contre95/songbase/src/features/importing"
	"github.com/contre95/songbase/src/features/logging"
	"github.com/contre95/songbase/src/features/metrics"
	"github.com/contre95/songbase/src/features/songs"
	"github.com/contre95/songbase/src/features/stats"
	"github.com/contre95/songbase/src/infra/database"
	"github.com/contre95/songbase/src/infra/watcher"
)

func main() {
	configPath := "config.yaml"
	if p := os.Getenv("SONGBASE_CONFIG"); p != "" {
		configPath = p
	}

	// Load configuration
	cfgManager, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Setup default logger with slog
	logger := logging.SetupLogger(cfgManager)
	slog.SetDefault(logger)

	// Create the song catalog
	db, err := database.NewSqliteCatalog(cfgManager.Get().Database.Path)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	collector := metrics.NewCollector()
	songsService := songs.NewService(db)
	statsService := stats.NewService(db, collector)

	// Create the importing service and its directory watcher
	var importingService *importing.Service
	if cfgManager.Get().Import.Enabled {
		importingService = importing.NewService(songsService, cfgManager.Get().Import.Path)
		events := make(chan watcher.FileEvent, 1)
		dirWatcher, err := watcher.NewWatcher(events, watcher.DefaultDebounce, importing.Extensions...)
		if err != nil {
			log.Fatalf("failed to create import watcher: %v", err)
		}
		if err := dirWatcher.Start(ctx, importingService.Dir()); err != nil {
			log.Fatalf("failed to watch import directory: %v", err)
		}
		defer dirWatcher.Stop()

		go importingService.Watch(ctx, events)
		// Files dropped while the service was down.
		events <- watcher.FileEvent{Path: importingService.Dir(), EventType: watcher.FileCreated}
	}

	// Create and start the Telegram bot if enabled
	var telegramBot *hosting.TelegramBot
	if cfgManager.Get().Telegram.Enabled {
		telegramBot, err = hosting.NewTelegramBot(cfgManager, statsService, songsService, importingService)
		if err != nil {
			slog.Error("Failed to initialize Telegram bot", "error", err)
		} else {
			go telegramBot.Start()
			slog.Info("Telegram bot started")
		}
	}

	// Create and start the HTTP server
	server := hosting.NewServer(cfgManager, hosting.Services{
		Songs:     songsService,
		Stats:     statsService,
		Importing: importingService,
		Metrics:   collector,
	})
	go func() {
		if err := server.Start(); err != nil {
			slog.Error("Server stopped", "error", err)
		}
	}()
	slog.Info("Server started. Press Ctrl+C to shut down.", "port", cfgManager.Get().Server.Port)

	// Wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	sig := <-quit
	slog.Info("Shutting down server...", "signal", sig.String())

	if telegramBot != nil {
		telegramBot.Stop()
		slog.Info("Telegram bot stopped")
	}

	if err := server.Shutdown(); err != nil {
		slog.Error("Failed to shutdown server", "error", err)
	}
	cancel()
	slog.Info("Server gracefully shut down.")
}
