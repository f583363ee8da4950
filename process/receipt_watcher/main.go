// receipt_watcher back-fills OCR amounts for receipt rows whose upload-time
// extraction failed or produced nothing, and can watch the receipt directory
// for files dropped out-of-band.
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"fuelcheck/models"
	"fuelcheck/pkg/receipt"
)

var verbose bool

func mustInitDBFromEnv() *gorm.DB {
	dsn := os.Getenv("DB_DSN")
	if dsn == "" {
		log.Fatalf("DB_DSN must be set in environment to run this tool")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	return db
}

func main() {
	dirFlag := flag.String("dir", "receipts", "base directory holding receipt images")
	watch := flag.Bool("watch", false, "watch the directory for new files")
	workers := flag.Int("workers", 0, "worker pool size (default NumCPU)")
	dryRun := flag.Bool("dry-run", false, "re-run OCR and report, without writing to the DB")
	flag.BoolVar(&verbose, "verbose", false, "verbose per-file logging")
	flag.Parse()

	if *workers <= 0 {
		*workers = runtime.NumCPU()
	}

	db := mustInitDBFromEnv()

	pending := loadPending(db)
	log.Printf("Found %d receipts pending OCR", len(pending))
	runWorkerPool(db, pending, *workers, *dryRun)

	if *watch {
		if err := watchDirectory(db, *dirFlag, *dryRun); err != nil {
			log.Fatalf("watch failed: %v", err)
		}
	}
}

func loadPending(db *gorm.DB) []models.Receipt {
	var recs []models.Receipt
	if err := db.Where("amount = 0 OR failed = ?", true).Find(&recs).Error; err != nil {
		log.Printf("query pending receipts: %v", err)
	}
	return recs
}

func runWorkerPool(db *gorm.DB, recs []models.Receipt, workers int, dryRun bool) {
	ch := make(chan models.Receipt, len(recs))
	for _, r := range recs {
		ch <- r
	}
	close(ch)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := range ch {
				processReceipt(db, &r, dryRun)
			}
		}()
	}
	wg.Wait()
}

func processReceipt(db *gorm.DB, rec *models.Receipt, dryRun bool) {
	amount, litres, raw, err := receipt.ExtractTotal(rec.StorePath)
	if err != nil {
		if verbose {
			log.Printf("ocr failed for %s: %v", rec.FileName, err)
		}
		if !dryRun {
			db.Model(rec).Updates(map[string]any{"failed": true, "failed_reason": err.Error()})
		}
		return
	}
	if verbose {
		log.Printf("%s: amount=%d litres=%.2f raw=%q", rec.FileName, amount, litres, raw)
	}
	if dryRun || amount == 0 {
		return
	}
	if err := db.Model(rec).Updates(map[string]any{"amount": amount, "failed": false, "failed_reason": ""}).Error; err != nil {
		log.Printf("update receipt %s: %v", rec.ID, err)
	}
}

// watchDirectory watches base and its per-user subdirectories, debouncing
// Create events so half-written files settle before OCR runs.
func watchDirectory(db *gorm.DB, base string, dryRun bool) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()
	if err := w.Add(base); err != nil {
		return err
	}
	entries, _ := os.ReadDir(base)
	for _, e := range entries {
		if e.IsDir() {
			_ = w.Add(filepath.Join(base, e.Name()))
		}
	}
	log.Printf("Watching %s (debounced) ...", base)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != fsnotify.Create {
				continue
			}
			if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
				_ = w.Add(ev.Name)
				continue
			}
			if !isSupportedExt(filepath.Base(ev.Name)) {
				continue
			}
			pending[ev.Name] = time.Now()
		case <-ticker.C:
			now := time.Now()
			for path, t := range pending {
				if now.Sub(t) > 300*time.Millisecond { // stable
					delete(pending, path)
					backfillByPath(db, path, dryRun)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Printf("watch error: %v", err)
		}
	}
}

func backfillByPath(db *gorm.DB, path string, dryRun bool) {
	var rec models.Receipt
	if err := db.Where("store_path = ?", path).First(&rec).Error; err != nil {
		if verbose {
			log.Printf("no receipt row for %s yet", path)
		}
		return
	}
	processReceipt(db, &rec, dryRun)
}

func isSupportedExt(name string) bool {
	// ignore OCR-generated temp files to avoid recursive processing
	if strings.Contains(name, ".ocr.") {
		return false
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp":
		return true
	}
	return false
}
