package ingest

import (
	"context"
	"log"
	"net/url"
	"time"

	"github.com/Niftys/ebiddle/internal/ebay"
	"github.com/Niftys/ebiddle/internal/metrics"
	"github.com/Niftys/ebiddle/internal/models"
)

// MarketClient is the upstream marketplace capability the pipeline consumes.
// *ebay.Client satisfies it; tests substitute fakes.
type MarketClient interface {
	GetToken(ctx context.Context) (string, error)
	SearchSoldItems(ctx context.Context, token, categoryID string, limit int) ([]ebay.ItemSummary, error)
	GetItemDetail(ctx context.Context, token, itemID string) (*ebay.ItemDetail, error)
}

// categoryIDs maps game categories to eBay Browse category ids.
var categoryIDs = map[string]string{
	"electronics":   "293",
	"fashion":       "11450",
	"home":          "11700",
	"sports":        "888",
	"collectibles":  "1",
	"entertainment": "267",
	"automotive":    "6000",
	"jewelry":       "281",
}

// UnknownCategoryFallback is the category substituted when a requested
// category has no upstream mapping. The fallback is silent: callers get
// electronics listings, not an error.
const UnknownCategoryFallback = "electronics"

// CategoryID resolves a category to its upstream id, applying the fallback
// policy for unknown categories.
func CategoryID(category string) string {
	if id, ok := categoryIDs[category]; ok {
		return id
	}
	return categoryIDs[UnknownCategoryFallback]
}

// maxImages caps stored image references: the primary detail image plus up
// to four additional ones.
const maxImages = 5

// ProxyImageRef rewrites a raw upstream image URL into the image proxy
// reference stored with items.
func ProxyImageRef(rawURL string) string {
	return "/api/proxy-image?url=" + url.QueryEscape(rawURL)
}

// Collector ingests one category's sold listings: a single search page,
// enriched with per-item detail, throttled between detail calls.
type Collector struct {
	client  MarketClient
	limiter *rateLimiter
	limit   int
	metrics *metrics.Metrics
}

func NewCollector(client MarketClient, limit int, delay time.Duration, m *metrics.Metrics) *Collector {
	return &Collector{
		client:  client,
		limiter: newRateLimiter(delay),
		limit:   limit,
		metrics: m,
	}
}

// Collect returns the accumulated items in upstream order. An empty slice is
// a valid result. Per-item detail failures are logged and skipped; only the
// search call itself can fail the category.
func (c *Collector) Collect(ctx context.Context, token, category string) ([]models.Item, error) {
	categoryID := CategoryID(category)

	c.metrics.IncUpstream("search")
	summaries, err := c.client.SearchSoldItems(ctx, token, categoryID, c.limit)
	if err != nil {
		return nil, err
	}

	items := make([]models.Item, 0, len(summaries))
	for _, summary := range summaries {
		price := summary.Price.Amount()
		if price <= 0 {
			continue
		}

		c.limiter.Wait()
		c.metrics.IncUpstream("detail")
		detail, err := c.client.GetItemDetail(ctx, token, summary.ItemID)
		if err != nil {
			// Skip the item, keep the category going.
			log.Printf("Error fetching details for item %s: %v", summary.ItemID, err)
			c.metrics.IncDetailFailure()
			continue
		}

		images := collectImages(detail)
		item := models.Item{
			ID:         summary.ItemID,
			Title:      summary.Title,
			Images:     images,
			Price:      price,
			Currency:   summary.Price.Currency,
			Category:   category,
			Condition:  detail.Condition,
			ItemWebURL: detail.ItemWebURL,
		}
		if len(images) > 0 {
			item.Image = images[0]
		}
		items = append(items, item)
	}

	c.metrics.AddItems(len(items))
	return items, nil
}

func collectImages(detail *ebay.ItemDetail) []string {
	images := make([]string, 0, maxImages)
	if detail.Image != nil && detail.Image.ImageURL != "" {
		images = append(images, ProxyImageRef(detail.Image.ImageURL))
	}
	additional := 0
	for _, img := range detail.AdditionalImages {
		if additional >= maxImages-1 {
			break
		}
		if img.ImageURL != "" {
			images = append(images, ProxyImageRef(img.ImageURL))
			additional++
		}
	}
	return images
}
