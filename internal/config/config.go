package config

import (
	"log/slog"
	"os"
	"time"
)

type Config struct {
	Port        string
	Env         string
	DatabaseDSN string

	// LedgerEndpoint points at the external ledger node. When empty, the
	// ledger-backed account variant is disabled and only the relational
	// backend is wired.
	LedgerEndpoint string
	LedgerTimeout  time.Duration
}

func Load() Config {
	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		Env:            getEnv("ENV", "development"),
		DatabaseDSN:    getEnv("DATABASE_DSN", "root:password@tcp(127.0.0.1:3306)/datapact?parseTime=true"),
		LedgerEndpoint: getEnv("LEDGER_ENDPOINT", ""),
		LedgerTimeout:  30 * time.Second,
	}

	if raw := os.Getenv("LEDGER_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			slog.Error("invalid LEDGER_TIMEOUT", "value", raw, "error", err)
			os.Exit(1)
		}
		cfg.LedgerTimeout = d
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
