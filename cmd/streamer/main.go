package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rickgao/market-replay/internal/config"
	"github.com/rickgao/market-replay/internal/database"
	"github.com/rickgao/market-replay/internal/loader"
	"github.com/rickgao/market-replay/internal/progress"
	"github.com/rickgao/market-replay/internal/replay"
	"github.com/rickgao/market-replay/internal/stream"
	"github.com/rickgao/market-replay/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/streamer.local.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("starting streamer",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	load, cleanup, err := buildLoader(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to build loader", "error", err)
		os.Exit(1)
	}
	defer cleanup()

	opts, err := cfg.ReplayOptions()
	if err != nil {
		logger.Error("failed to resolve replay options", "error", err)
		os.Exit(1)
	}
	opts.Logger = logger
	// The streamer loops full passes; per-pass progress reports would
	// only repeat themselves.
	opts.Progress = &progress.Nop{}

	engine, err := replay.New(load, opts)
	if err != nil {
		logger.Error("failed to create replay engine", "error", err)
		os.Exit(1)
	}

	srv := stream.NewServer(stream.Config{
		Addr:         cfg.Stream.Addr,
		Path:         cfg.Stream.Path,
		Speed:        cfg.Stream.Speed,
		QueueSize:    cfg.Stream.QueueSize,
		WriteTimeout: cfg.Stream.WriteTimeout,
	}, engine, logger)

	if err := srv.Start(ctx); err != nil {
		logger.Error("failed to start stream server", "error", err)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Stop(shutdownCtx); err != nil {
		logger.Warn("stream server stop", "error", err)
	}

	stats := engine.Stats()
	logger.Info("streamer stopped",
		"records", stats.Records,
		"passes", stats.Passes,
	)
}

// buildLoader constructs the configured daily loader and its cleanup.
func buildLoader(ctx context.Context, cfg *config.ReplayerConfig, logger *slog.Logger) (replay.LoadFunc, func(), error) {
	switch cfg.Source.Backend {
	case "csv":
		l := loader.NewCSV(cfg.Source.CSVRoot, logger)
		return l.Load, func() {}, nil
	case "postgres":
		pool, err := database.Connect(ctx, cfg.Source.Database)
		if err != nil {
			return nil, nil, err
		}
		l := loader.NewPostgres(pool, logger)
		return l.Load, pool.Close, nil
	default:
		// Unreachable after config validation.
		return nil, nil, errors.New("unknown source backend " + cfg.Source.Backend)
	}
}

// newLogger builds the process logger from config.
func newLogger(cfg config.LoggingConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, opts))
}
