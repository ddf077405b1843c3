// Package main is the entry point for the navidash sync server.
//
// main only reads configuration from the environment, builds the logger, and
// hands both to internal/server. Everything else lives in internal packages.
//
// ENVIRONMENT:
//
//	PORT              listen port (default 8080)
//	DATA_DIR          directory for the JSON documents (default "data")
//	STATIC_DIR        optional directory served at /static/*
//	DEMO_MODE         "true" or "1" makes the instance read-mostly
//	DEFAULT_BOOKMARKS JSON bookmark tree replacing the built-in seed
//	LOG_LEVEL         debug | info | warn | error (default info)
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/sakif/navidash/internal/seed"
	"github.com/sakif/navidash/internal/server"
)

func main() {
	// === 1. SET UP LOGGING ===
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(os.Getenv("LOG_LEVEL")),
	}))

	// === 2. READ CONFIGURATION ===
	port := 8080
	if portStr := os.Getenv("PORT"); portStr != "" {
		var err error
		port, err = strconv.Atoi(portStr)
		if err != nil {
			logger.Error("invalid PORT value", slog.String("value", portStr))
			os.Exit(1)
		}
	}

	dataDir := "data"
	if env := os.Getenv("DATA_DIR"); env != "" {
		dataDir = env
	}
	dataDir, _ = filepath.Abs(dataDir)

	staticDir := os.Getenv("STATIC_DIR")
	if staticDir != "" {
		staticDir, _ = filepath.Abs(staticDir)
	}

	demo := parseBool(os.Getenv("DEMO_MODE"))
	if demo {
		logger.Warn("demo mode enabled: widget writes are refused, bookmark and settings writes are discarded")
	}

	// === 3. CREATE AND START THE SERVER ===
	cfg := server.Config{
		Port:          port,
		DataDir:       dataDir,
		StaticDir:     staticDir,
		DemoMode:      demo,
		SeedBookmarks: seed.BookmarksFromEnv(os.Getenv("DEFAULT_BOOKMARKS"), logger),
	}

	// Run blocks until Ctrl+C or SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := server.New(cfg, logger).Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
