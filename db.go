package main

import (
	"fmt"
	"log/slog"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fuelcheck/models"
)

func initDB(cfg *Config, log *slog.Logger) (*gorm.DB, error) {
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is not set; this service requires a Postgres DSN in DB_DSN")
	}
	db, err := gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.AutoMigrate {
		// Migrate models individually so a failure on one doesn't block others
		for _, m := range []any{&models.User{}, &models.Vehicle{}, &models.Transaction{}, &models.Receipt{}} {
			if err := db.AutoMigrate(m); err != nil {
				log.Warn("migration warning", "model", fmt.Sprintf("%T", m), "err", err)
			}
		}
	}
	return db, nil
}

// ensureReceiptBase creates the base directory for stored receipt images.
func ensureReceiptBase(cfg *Config, log *slog.Logger) {
	if err := os.MkdirAll(cfg.ReceiptBase, 0755); err != nil {
		log.Warn("failed to create receipt base dir", "dir", cfg.ReceiptBase, "err", err)
	}
}
