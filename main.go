package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Niftys/ebiddle/internal/api"
	"github.com/Niftys/ebiddle/internal/config"
	"github.com/Niftys/ebiddle/internal/database"
	"github.com/Niftys/ebiddle/internal/ebay"
	"github.com/Niftys/ebiddle/internal/ingest"
	"github.com/Niftys/ebiddle/internal/metrics"
	"github.com/Niftys/ebiddle/internal/models"
	"github.com/Niftys/ebiddle/internal/refresh"
	"github.com/Niftys/ebiddle/internal/scheduler"
	"github.com/Niftys/ebiddle/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Invalid configuration: ", err)
	}
	if cfg.EbayAppID == "" || cfg.EbayCertID == "" {
		log.Println("Warning: eBay credentials not configured, refresh runs will fail")
	}

	db, err := database.Initialize(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	// Wire the pipeline
	sink := metrics.NewMetrics()
	snapshotStore := store.NewGormStore(db)
	client := ebay.NewClient(cfg.EbayAppID, cfg.EbayCertID)
	collector := ingest.NewCollector(client, cfg.ItemLimit, cfg.DetailDelay, sink)
	orchestrator := refresh.NewOrchestrator(snapshotStore, client, collector, sink, cfg.Location(), cfg.SampleSize)
	trigger := refresh.NewHTTPTrigger(cfg.PublicBaseURL, cfg.CacheResetToken)
	monitor := refresh.NewMonitor(snapshotStore, trigger, sink)

	// Initialize Gin router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.Default()

	// CORS middleware
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": refresh.Today(cfg.Location()),
			"version":   "2.0",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(sink.Registry, promhttp.HandlerOpts{})))

	apiGroup := r.Group("/api")
	api.SetupRoutes(apiGroup, snapshotStore, orchestrator, cfg, sink)

	// Scheduled triggers: primary refresh, then the completion monitor on a
	// fixed offset so a missed or crashed primary run self-heals.
	ctx, cancel := context.WithCancel(context.Background())
	loc := cfg.Location()
	go scheduler.Daily(ctx, loc, cfg.RefreshAt, "daily-refresh", func(ctx context.Context) {
		if _, err := orchestrator.Run(ctx, models.TriggerScheduled); err != nil {
			log.Printf("Scheduled refresh failed: %v", err)
		}
	})
	go scheduler.Daily(ctx, loc, cfg.MonitorAt, "backup-check", func(ctx context.Context) {
		monitor.CheckAndRepair(ctx, refresh.Today(loc))
	})

	server := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server error: ", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	cancel()
	_ = server.Shutdown(context.Background())
}
