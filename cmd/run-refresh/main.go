package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/Niftys/ebiddle/internal/refresh"
	"github.com/joho/godotenv"
)

var baseURL = flag.String("base", "http://localhost:8080", "deployed API base URL")

func main() {
	flag.Parse()
	_ = godotenv.Load()

	token := os.Getenv("CACHE_RESET_TOKEN")
	if token == "" {
		log.Fatal("CACHE_RESET_TOKEN environment variable is required")
	}

	log.Println("Starting daily refresh...")
	trigger := refresh.NewHTTPTrigger(*baseURL, token)
	result, err := trigger.TriggerRefresh(context.Background())
	if err != nil {
		log.Fatalf("Failed to run daily refresh: %v", err)
	}

	log.Printf("Daily refresh completed: %s (%ss)", result.Message, result.Duration)
	for _, r := range result.Results {
		if r.Error != "" {
			log.Printf("  %s: ERROR %s", r.Category, r.Error)
			continue
		}
		log.Printf("  %s: %d items", r.Category, r.ItemCount)
	}
}
