package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/gdcards/cardbot/cardbot"
	"github.com/gdcards/cardbot/cardbot/api"
	"github.com/gdcards/cardbot/cardbot/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting GDCards service",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	// Optional: secrets from a local .env during development
	_ = godotenv.Load()

	cfg, err := cardbot.LoadConfig(*path)
	if err != nil {
		logger.LogError("Failed to load configuration", err)
		os.Exit(1)
	}
	customHandler.SetLevel(cfg.Log.Level)
	slog.Info("Configuration loaded successfully")

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	app := cardbot.New(*cfg, version, commit)
	if err := app.Setup(ctx); err != nil {
		logger.LogError("Failed to set up application", err)
		os.Exit(1)
	}
	defer app.Close()

	handlers := api.NewHandlers(app.Draw, app.Promos, app.Ranking, app.Collection, app.Catalog, app.Search)
	server := api.NewServer(handlers, cfg.Admin.Token)

	addr := cfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}

	go func() {
		if err := server.Listen(addr); err != nil {
			logger.LogError("HTTP server stopped", err)
			os.Exit(1)
		}
	}()

	logger.LogSystem("GDCards service is now running", slog.String("addr", addr))

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-s

	logger.LogSystem("Shutting down...")
	if err := server.ShutdownWithTimeout(10 * time.Second); err != nil {
		logger.LogError("Graceful shutdown failed", err)
	}
}
