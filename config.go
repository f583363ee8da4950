package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Config is loaded from the environment (after a non-destructive .env pass).
// The JWT_SECRET default exists for development only; production deployments
// must set their own.
type Config struct {
	Addr           string   `env:"ADDR" envDefault:":8081"`
	DBDSN          string   `env:"DB_DSN"`
	JWTSecret      string   `env:"JWT_SECRET" envDefault:"dev-insecure-secret-change"`
	Debug          bool     `env:"DEBUG" envDefault:"false"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
	AutoMigrate    bool     `env:"DB_AUTO_MIGRATE" envDefault:"true"`
	ReceiptBase    string   `env:"RECEIPT_BASE" envDefault:"receipts"`
}

func loadConfig() (*Config, error) {
	loadDotEnv()
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// loadDotEnv loads key=value pairs from a local .env file into the environment
// without overwriting variables that are already set. Lines starting with # are ignored.
func loadDotEnv() {
	path := ".env"
	if _, err := os.Stat(path); err != nil {
		return // no .env file
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// split on first '='
		if eq := strings.IndexByte(line, '='); eq > 0 {
			key := strings.TrimSpace(line[:eq])
			val := strings.TrimSpace(line[eq+1:])
			if _, exists := os.LookupEnv(key); !exists {
				_ = os.Setenv(key, val)
			}
		}
	}
}
