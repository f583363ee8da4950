package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := loadConfig()
	if err != nil {
		log.Fatal(err)
	}
	level := slog.LevelInfo
	if cfg.Debug {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))

	// Support a lightweight migrate command: `./fuelcheck migrate`
	// Runs AutoMigrate then exits. Useful for CI or manual DB setup.
	if len(os.Args) > 1 && os.Args[1] == "migrate" {
		if _, err := initDB(cfg, logger); err != nil {
			log.Fatal(err)
		}
		fmt.Println("migration completed")
		return
	}

	db, err := initDB(cfg, logger)
	if err != nil {
		log.Fatal(err)
	}
	ensureReceiptBase(cfg, logger)

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := NewServer(cfg, db, NewUserStore(db), logger)
	if err := srv.router().Run(cfg.Addr); err != nil {
		log.Fatal(err)
	}
}
