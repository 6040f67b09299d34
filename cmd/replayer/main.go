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

	"github.com/rickgao/market-replay/internal/calendar"
	"github.com/rickgao/market-replay/internal/config"
	"github.com/rickgao/market-replay/internal/database"
	"github.com/rickgao/market-replay/internal/loader"
	"github.com/rickgao/market-replay/internal/replay"
	"github.com/rickgao/market-replay/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/replayer.local.yaml", "path to config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.Logging)
	slog.SetDefault(logger)

	logger.Info("starting replayer",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Create context with signal-driven cancellation
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
	opts.BOD = func(date time.Time) {
		logger.Info("begin of day", "date", calendar.Format(date))
	}
	opts.EOD = func(date time.Time) {
		logger.Info("end of day", "date", calendar.Format(date))
	}

	engine, err := replay.New(load, opts)
	if err != nil {
		logger.Error("failed to create replay engine", "error", err)
		os.Exit(1)
	}

	start := time.Now()
	var count int64
	for {
		_, err := engine.Next(ctx)
		if errors.Is(err, replay.ErrExhausted) {
			break
		}
		if err != nil {
			logger.Error("replay failed", "error", err, "records", count)
			os.Exit(1)
		}
		count++
	}

	stats := engine.Stats()
	logger.Info("replay complete",
		"records", count,
		"dates", stats.DatesLoaded,
		"duration", time.Since(start),
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
