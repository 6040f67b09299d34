package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTempFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "replayer.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write temp config: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	yaml := `
replay:
  start_date: 2024-03-08
  end_date: 2024-03-09
  tickers: [000004.SZ, 000005.SZ]
source:
  backend: csv
  csv_root: /srv/market-data
`
	path := writeTempFile(t, yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Replay.StartDate != "2024-03-08" {
		t.Errorf("Replay.StartDate = %q, want 2024-03-08", cfg.Replay.StartDate)
	}
	if len(cfg.Replay.Tickers) != 2 {
		t.Errorf("Replay.Tickers = %v, want 2 entries", cfg.Replay.Tickers)
	}
	if cfg.Source.CSVRoot != "/srv/market-data" {
		t.Errorf("Source.CSVRoot = %q, want /srv/market-data", cfg.Source.CSVRoot)
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "secret123")

	yaml := `
replay:
  start_date: 2024-03-08
  end_date: 2024-03-08
source:
  backend: postgres
  database:
    host: localhost
    name: histdb
    user: replay
    password: ${TEST_DB_PASSWORD}
`
	cfg, err := LoadAndValidate(writeTempFile(t, yaml))
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if cfg.Source.Database.Password != "secret123" {
		t.Errorf("Database.Password = %q, want secret123", cfg.Source.Database.Password)
	}
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
replay:
  start_date: 2024-03-08
  end_date: 2024-03-08
`
	cfg, err := LoadWithDefaults(writeTempFile(t, yaml))
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	if cfg.Source.Backend != DefaultBackend {
		t.Errorf("Source.Backend = %q, want %q", cfg.Source.Backend, DefaultBackend)
	}
	if cfg.Stream.QueueSize != DefaultQueueSize {
		t.Errorf("Stream.QueueSize = %d, want %d", cfg.Stream.QueueSize, DefaultQueueSize)
	}
	if cfg.Stream.WriteTimeout != DefaultWriteTimeout {
		t.Errorf("Stream.WriteTimeout = %v, want %v", cfg.Stream.WriteTimeout, DefaultWriteTimeout)
	}
	if cfg.Logging.Level != DefaultLogLevel {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, DefaultLogLevel)
	}
}

func TestValidate(t *testing.T) {
	base := func() *ReplayerConfig {
		cfg := &ReplayerConfig{
			Replay: ReplayConfig{
				StartDate: "2024-03-08",
				EndDate:   "2024-03-09",
			},
		}
		cfg.applyDefaults()
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*ReplayerConfig)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(cfg *ReplayerConfig) {},
		},
		{
			name: "no calendar source",
			mutate: func(cfg *ReplayerConfig) {
				cfg.Replay.StartDate = ""
			},
			wantErr: "calendar",
		},
		{
			name: "bad date",
			mutate: func(cfg *ReplayerConfig) {
				cfg.Replay.StartDate = "03/08/2024"
			},
			wantErr: "start_date",
		},
		{
			name: "ticker alias conflict",
			mutate: func(cfg *ReplayerConfig) {
				cfg.Replay.Ticker = "AAA"
				cfg.Replay.Tickers = []string{"BBB"}
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "kind alias conflict",
			mutate: func(cfg *ReplayerConfig) {
				cfg.Replay.Kind = "trade"
				cfg.Replay.Kinds = []string{"tick"}
			},
			wantErr: "mutually exclusive",
		},
		{
			name: "incomplete subscription",
			mutate: func(cfg *ReplayerConfig) {
				cfg.Replay.Subscriptions = []SubscriptionConfig{{Ticker: "AAA"}}
			},
			wantErr: "subscriptions[0]",
		},
		{
			name: "unknown backend",
			mutate: func(cfg *ReplayerConfig) {
				cfg.Source.Backend = "s3"
			},
			wantErr: "backend",
		},
		{
			name: "postgres missing host",
			mutate: func(cfg *ReplayerConfig) {
				cfg.Source.Backend = "postgres"
				cfg.Source.Database.Name = "histdb"
				cfg.Source.Database.User = "replay"
				cfg.Source.Database.Password = "pass"
			},
			wantErr: "host",
		},
		{
			name: "negative stream speed",
			mutate: func(cfg *ReplayerConfig) {
				cfg.Stream.Speed = -1
			},
			wantErr: "speed",
		},
		{
			name: "bad log level",
			mutate: func(cfg *ReplayerConfig) {
				cfg.Logging.Level = "verbose"
			},
			wantErr: "logging.level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate failed: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate passed, want error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestReplayOptions_AliasResolution(t *testing.T) {
	cfg := &ReplayerConfig{
		Replay: ReplayConfig{
			StartDate: "2024-03-08",
			EndDate:   "2024-03-09",
			Ticker:    "000004.SZ",
			Kind:      "trade",
			Subscriptions: []SubscriptionConfig{
				{Ticker: "000005.SZ", Kind: "tick"},
			},
		},
	}

	opts, err := cfg.ReplayOptions()
	if err != nil {
		t.Fatalf("ReplayOptions failed: %v", err)
	}

	if len(opts.Tickers) != 1 || opts.Tickers[0] != "000004.SZ" {
		t.Errorf("Tickers = %v, want [000004.SZ]", opts.Tickers)
	}
	if len(opts.Kinds) != 1 || string(opts.Kinds[0]) != "trade" {
		t.Errorf("Kinds = %v, want [trade]", opts.Kinds)
	}
	if len(opts.Subscriptions) != 1 || opts.Subscriptions[0].Ticker != "000005.SZ" {
		t.Errorf("Subscriptions = %v, want one 000005.SZ pair", opts.Subscriptions)
	}
	if opts.Start.IsZero() || opts.End.IsZero() {
		t.Error("Start/End not populated from date strings")
	}
}

func TestReplayOptions_ExplicitCalendar(t *testing.T) {
	cfg := &ReplayerConfig{
		Replay: ReplayConfig{
			Calendar: []string{"2024-03-08", "2024-03-08", "2024-03-11"},
		},
	}

	opts, err := cfg.ReplayOptions()
	if err != nil {
		t.Fatalf("ReplayOptions failed: %v", err)
	}
	if len(opts.Calendar) != 3 {
		t.Errorf("Calendar = %d dates, want 3 (duplicates kept)", len(opts.Calendar))
	}
}
