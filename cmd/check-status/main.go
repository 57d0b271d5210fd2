package main

import (
	"flag"
	"log"
	"time"

	"github.com/Niftys/ebiddle/internal/config"
	"github.com/Niftys/ebiddle/internal/database"
	"github.com/Niftys/ebiddle/internal/models"
	"github.com/Niftys/ebiddle/internal/refresh"
	"github.com/Niftys/ebiddle/internal/store"
	"github.com/go-resty/resty/v2"
	"github.com/joho/godotenv"
)

// Status report: probes the deployed API and prints today's primary and
// backup run log entries.

var baseURL = flag.String("base", "http://localhost:8080", "deployed API base URL")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	cfg := config.Load()
	today := refresh.Today(cfg.Location())
	log.Printf("Checking daily refresh status for %s", today)

	// API connectivity
	client := resty.New()
	client.SetTimeout(10 * time.Second)
	resp, err := client.R().Get(*baseURL + "/health")
	if err != nil {
		log.Printf("API health check FAILED: %v", err)
	} else if !resp.IsSuccess() {
		log.Printf("API health check FAILED: status %d", resp.StatusCode())
	} else {
		log.Println("API is responding")
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	s := store.NewGormStore(db)

	printLog(s, today, "primary")
	printLog(s, models.BackupLogKey(today), "backup")

	// Snapshot coverage
	for _, category := range append([]string{models.CategoryGeneral}, models.Categories...) {
		snapshot, exists, err := s.GetSnapshot(today, category)
		if err != nil {
			log.Printf("  %s: read error: %v", category, err)
			continue
		}
		if !exists {
			log.Printf("  %s: no snapshot", category)
			continue
		}
		log.Printf("  %s: %d items (written %s)", category, snapshot.ItemCount, snapshot.CreatedAt.Format(time.RFC3339))
	}
}

func printLog(s store.Store, key, kind string) {
	runLog, exists, err := s.GetRunLog(key)
	if err != nil {
		log.Printf("%s log: read error: %v", kind, err)
		return
	}
	if !exists {
		log.Printf("%s log: none", kind)
		return
	}
	log.Printf("%s log: success=%t trigger=%s duration=%.2fs categories=%d",
		kind, runLog.Success, runLog.Trigger, runLog.Duration, len(runLog.Results))
	if runLog.Error != "" {
		log.Printf("  error: %s", runLog.Error)
	}
	for _, r := range runLog.Results {
		if r.Error != "" {
			log.Printf("  %s: ERROR %s", r.Category, r.Error)
		}
	}
}
