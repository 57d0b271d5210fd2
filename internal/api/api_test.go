package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/Niftys/ebiddle/internal/config"
	"github.com/Niftys/ebiddle/internal/ebay"
	"github.com/Niftys/ebiddle/internal/ingest"
	"github.com/Niftys/ebiddle/internal/models"
	"github.com/Niftys/ebiddle/internal/refresh"
	"github.com/Niftys/ebiddle/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/jarcoal/httpmock"
)

type stubMarket struct {
	tokenErr error
}

func (s *stubMarket) GetToken(ctx context.Context) (string, error) {
	if s.tokenErr != nil {
		return "", s.tokenErr
	}
	return "stub-token", nil
}

func (s *stubMarket) SearchSoldItems(ctx context.Context, token, categoryID string, limit int) ([]ebay.ItemSummary, error) {
	return []ebay.ItemSummary{
		{ItemID: "v1|1|0", Title: "Listing", Price: ebay.Money{Value: "12.00", Currency: "USD"}},
	}, nil
}

func (s *stubMarket) GetItemDetail(ctx context.Context, token, itemID string) (*ebay.ItemDetail, error) {
	return &ebay.ItemDetail{ItemID: itemID, Condition: "Used"}, nil
}

func newTestRouter(t *testing.T, s store.Store, market ingest.MarketClient, resetToken string) (*gin.Engine, *APIHandler) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		CacheResetToken: resetToken,
		Timezone:        "UTC",
		ItemLimit:       100,
		SampleSize:      10,
	}
	collector := ingest.NewCollector(market, cfg.ItemLimit, 0, nil)
	orchestrator := refresh.NewOrchestrator(s, market, collector, nil, time.UTC, cfg.SampleSize)

	router := gin.New()
	handler := SetupRoutes(router.Group("/api"), s, orchestrator, cfg, nil)
	return router, handler
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	router.ServeHTTP(w, req)
	return w
}

func TestGetSoldItems(t *testing.T) {
	s := store.NewMemoryStore()
	today := refresh.Today(time.UTC)
	seeded := []models.Item{
		{ID: "v1|1|0", Title: "Camera", Price: 120.5, Category: "electronics"},
		{ID: "v1|2|0", Title: "Lens", Price: 89, Category: "electronics"},
	}
	if err := s.PutSnapshot(today, "electronics", seeded); err != nil {
		t.Fatalf("seed: %v", err)
	}
	router, _ := newTestRouter(t, s, &stubMarket{}, "secret")

	w := get(router, "/api/sold-items?category=electronics")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var items []models.Item
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 || items[0].ID != "v1|1|0" {
		t.Fatalf("items = %+v", items)
	}
}

func TestGetSoldItemsDefaultsToElectronics(t *testing.T) {
	s := store.NewMemoryStore()
	today := refresh.Today(time.UTC)
	if err := s.PutSnapshot(today, "electronics", []models.Item{{ID: "e1"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	router, _ := newTestRouter(t, s, &stubMarket{}, "secret")

	w := get(router, "/api/sold-items")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var items []models.Item
	if err := json.Unmarshal(w.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 1 || items[0].ID != "e1" {
		t.Fatalf("items = %+v", items)
	}
}

func TestGetSoldItemsMissingSnapshot(t *testing.T) {
	router, _ := newTestRouter(t, store.NewMemoryStore(), &stubMarket{}, "secret")

	w := get(router, "/api/sold-items?category=jewelry")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (missing data is not an error)", w.Code)
	}
	if body := w.Body.String(); body != "[]" {
		t.Fatalf("body = %q, want []", body)
	}
}

func TestDailyRefreshRequiresToken(t *testing.T) {
	router, _ := newTestRouter(t, store.NewMemoryStore(), &stubMarket{}, "secret")

	for _, path := range []string{
		"/api/daily-refresh",
		"/api/daily-refresh?token=wrong",
	} {
		w := get(router, path)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: status = %d, want 401", path, w.Code)
		}
		var body map[string]string
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["error"] != "Unauthorized" {
			t.Fatalf("error = %q, want Unauthorized", body["error"])
		}
	}
}

func TestDailyRefreshRejectsAllWhenTokenUnset(t *testing.T) {
	router, _ := newTestRouter(t, store.NewMemoryStore(), &stubMarket{}, "")

	// An unset server token disables the endpoint entirely, including for
	// an empty client token.
	w := get(router, "/api/daily-refresh?token=")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
}

func TestDailyRefresh(t *testing.T) {
	s := store.NewMemoryStore()
	router, _ := newTestRouter(t, s, &stubMarket{}, "secret")

	w := get(router, "/api/daily-refresh?token=secret")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}

	var body struct {
		Message  string                  `json:"message"`
		Results  []models.CategoryResult `json:"results"`
		Duration string                  `json:"duration"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Message != "Daily refresh completed successfully" {
		t.Fatalf("message = %q", body.Message)
	}
	if len(body.Results) != len(models.Categories)+1 {
		t.Fatalf("results = %d, want %d", len(body.Results), len(models.Categories)+1)
	}

	runLog, ok, err := s.GetRunLog(refresh.Today(time.UTC))
	if err != nil || !ok {
		t.Fatalf("run log: ok=%v err=%v", ok, err)
	}
	if runLog.Trigger != models.TriggerManualAPICall {
		t.Fatalf("trigger = %q, want %q", runLog.Trigger, models.TriggerManualAPICall)
	}
}

func TestDailyRefreshFatalFailure(t *testing.T) {
	market := &stubMarket{tokenErr: errors.New("credentials rejected")}
	router, _ := newTestRouter(t, store.NewMemoryStore(), market, "secret")

	w := get(router, "/api/daily-refresh?token=secret")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Daily refresh failed" || body["details"] == "" {
		t.Fatalf("body = %+v", body)
	}
}

func TestProxyImageMissingURL(t *testing.T) {
	router, _ := newTestRouter(t, store.NewMemoryStore(), &stubMarket{}, "secret")

	w := get(router, "/api/proxy-image")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestProxyImageFetchAndCache(t *testing.T) {
	router, handler := newTestRouter(t, store.NewMemoryStore(), &stubMarket{}, "secret")

	transport := httpmock.NewMockTransport()
	handler.imageClient = &http.Client{Transport: transport}

	fetches := 0
	transport.RegisterResponder("GET", "https://i.ebayimg.com/images/m.jpg",
		func(req *http.Request) (*http.Response, error) {
			fetches++
			resp := httpmock.NewBytesResponse(200, []byte{0xFF, 0xD8, 0xFF})
			resp.Header.Set("Content-Type", "image/jpeg")
			return resp, nil
		})

	path := "/api/proxy-image?url=" + url.QueryEscape("https://i.ebayimg.com/images/m.jpg")

	w := get(router, path)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Content-Type"); got != "image/jpeg" {
		t.Fatalf("content type = %q, want image/jpeg", got)
	}
	if got := w.Header().Get("Cache-Control"); got != "public, max-age=86400" {
		t.Fatalf("cache control = %q", got)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("cors origin = %q, want *", got)
	}

	// Second request must come from the cache, not the upstream.
	w = get(router, path)
	if w.Code != http.StatusOK {
		t.Fatalf("cached status = %d", w.Code)
	}
	if fetches != 1 {
		t.Fatalf("upstream fetches = %d, want 1", fetches)
	}
}

func TestProxyImageUpstreamFailure(t *testing.T) {
	router, handler := newTestRouter(t, store.NewMemoryStore(), &stubMarket{}, "secret")

	transport := httpmock.NewMockTransport()
	handler.imageClient = &http.Client{Transport: transport}
	transport.RegisterResponder("GET", "https://i.ebayimg.com/images/gone.jpg",
		httpmock.NewStringResponder(404, "not found"))

	w := get(router, "/api/proxy-image?url="+url.QueryEscape("https://i.ebayimg.com/images/gone.jpg"))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["error"] != "Failed to proxy image" {
		t.Fatalf("error = %q", body["error"])
	}
}
