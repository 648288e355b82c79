package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("TELEGRAM_API_TOKEN", "token")

	path := writeConfig(t, `
env: production
timezone: UTC+9
database:
  driver: sqlite
  sqlite_path: /tmp/progress.db
http:
  addr: ":9000"
  max_period_days: 90
reconcile:
  schedule: "@every 15m"
  lookback: 2h
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Env != "production" || cfg.DB.Driver != DriverSQLite || cfg.DB.SQLitePath != "/tmp/progress.db" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.HTTP.Addr != ":9000" || cfg.HTTP.MaxPeriodDays != 90 {
		t.Fatalf("http = %+v", cfg.HTTP)
	}
	if cfg.Reconcile.Schedule != "@every 15m" || cfg.Reconcile.Lookback != 2*time.Hour || !cfg.Reconcile.Enabled {
		t.Fatalf("reconcile = %+v", cfg.Reconcile)
	}
	if cfg.TelegramAPIToken != "token" {
		t.Fatalf("token = %q", cfg.TelegramAPIToken)
	}
	if _, off := time.Now().In(cfg.Location).Zone(); off != 9*3600 {
		t.Fatalf("location offset = %d", off)
	}
	if cfg.HTTP.WriteTimeout != 30*time.Second {
		t.Fatalf("default write timeout = %v", cfg.HTTP.WriteTimeout)
	}
}

func TestLoadValidation(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	cases := []struct {
		name string
		body string
		want error
	}{
		{"postgres without url", "database:\n  driver: postgres\n", ErrMissingEnvironmentVariables},
		{"unknown driver", "database:\n  driver: mongo\n", ErrUnknownDriver},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); !errors.Is(err, tc.want) {
				t.Fatalf("err = %v, want %v", err, tc.want)
			}
		})
	}

	if _, err := Load(writeConfig(t, "timezone: Mars/Base\ndatabase:\n  driver: memory\n")); err == nil {
		t.Fatal("invalid timezone must fail")
	}
}

func TestLoadPostgresURLFromEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/progress")

	cfg, err := Load(writeConfig(t, "database:\n  driver: postgres\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	dsn, err := cfg.DB.DSN()
	if err != nil || dsn != "postgres://localhost/progress" {
		t.Fatalf("dsn = %q, %v", dsn, err)
	}
}
