package api

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"github.com/Niftys/ebiddle/internal/config"
	"github.com/Niftys/ebiddle/internal/metrics"
	"github.com/Niftys/ebiddle/internal/models"
	"github.com/Niftys/ebiddle/internal/refresh"
	"github.com/Niftys/ebiddle/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// imageCacheTTL mirrors the Cache-Control lifetime sent to clients.
const imageCacheTTL = 24 * time.Hour

const imageCacheSize = 256

type cachedImage struct {
	contentType string
	data        []byte
}

type APIHandler struct {
	store        store.Store
	orchestrator *refresh.Orchestrator
	resetToken   string
	loc          *time.Location
	metrics      *metrics.Metrics

	imageCache  *expirable.LRU[string, cachedImage]
	imageClient *http.Client
}

func SetupRoutes(r *gin.RouterGroup, s store.Store, orchestrator *refresh.Orchestrator, cfg *config.Config, m *metrics.Metrics) *APIHandler {
	handler := &APIHandler{
		store:        s,
		orchestrator: orchestrator,
		resetToken:   cfg.CacheResetToken,
		loc:          cfg.Location(),
		metrics:      m,
		imageCache:   expirable.NewLRU[string, cachedImage](imageCacheSize, nil, imageCacheTTL),
		imageClient:  &http.Client{Timeout: 10 * time.Second},
	}

	r.GET("/proxy-image", handler.ProxyImage)
	r.GET("/sold-items", handler.GetSoldItems)
	r.GET("/daily-refresh", handler.DailyRefresh)

	return handler
}

// ProxyImage streams an upstream image through the API so the game client
// never loads marketplace URLs directly. Responses carry a 24h cache
// lifetime and permissive CORS headers; repeat fetches are served from the
// in-process cache.
func (h *APIHandler) ProxyImage(c *gin.Context) {
	imageURL := c.Query("url")
	if imageURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image URL"})
		return
	}

	if img, ok := h.imageCache.Get(imageURL); ok {
		h.metrics.IncProxyImage("hit")
		h.writeImage(c, img)
		return
	}

	resp, err := h.imageClient.Get(imageURL)
	if err != nil {
		log.Printf("Error proxying image: %v", err)
		h.metrics.IncProxyImage("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to proxy image"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		h.metrics.IncProxyImage("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to proxy image"})
		return
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		h.metrics.IncProxyImage("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to proxy image"})
		return
	}

	img := cachedImage{contentType: resp.Header.Get("Content-Type"), data: data}
	h.imageCache.Add(imageURL, img)
	h.metrics.IncProxyImage("fetch")
	h.writeImage(c, img)
}

func (h *APIHandler) writeImage(c *gin.Context, img cachedImage) {
	c.Header("Cache-Control", "public, max-age=86400")
	c.Header("Access-Control-Allow-Origin", "*")
	c.Header("Access-Control-Allow-Methods", "GET")
	c.Header("Access-Control-Allow-Headers", "Content-Type")
	contentType := img.contentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, img.data)
}

// GetSoldItems serves today's stored items for a category. The general
// category is the pre-aggregated stored sample; nothing is aggregated at
// read time. A missing snapshot is the normal "not yet refreshed" state and
// yields an empty array.
func (h *APIHandler) GetSoldItems(c *gin.Context) {
	category := c.DefaultQuery("category", "electronics")
	today := refresh.Today(h.loc)

	snapshot, exists, err := h.store.GetSnapshot(today, category)
	if err != nil {
		log.Printf("Error fetching sold items for %s: %v", category, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch sold items", "details": err.Error()})
		return
	}
	if !exists || snapshot.Items == nil {
		c.JSON(http.StatusOK, []models.Item{})
		return
	}
	c.JSON(http.StatusOK, snapshot.Items)
}

// DailyRefresh is the manual trigger. The shared-secret token guards it;
// the run itself executes synchronously, so callers need a generous timeout.
// A 200 can still carry per-category error strings in results.
func (h *APIHandler) DailyRefresh(c *gin.Context) {
	token := c.Query("token")
	if h.resetToken == "" || token != h.resetToken {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	log.Printf("Manual daily refresh triggered at %s", time.Now().Format(time.RFC3339))
	runLog, err := h.orchestrator.Run(c.Request.Context(), models.TriggerManualAPICall)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    "Daily refresh failed",
			"details":  err.Error(),
			"duration": fmt.Sprintf("%.2f", runLog.Duration),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Daily refresh completed successfully",
		"results":  runLog.Results,
		"duration": fmt.Sprintf("%.2f", runLog.Duration),
	})
}
