package refresh

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Niftys/ebiddle/internal/models"
	"github.com/go-resty/resty/v2"
)

// TriggerResult is the manual refresh endpoint's success payload.
type TriggerResult struct {
	Message  string                  `json:"message"`
	Results  []models.CategoryResult `json:"results"`
	Duration string                  `json:"duration"`
}

// RunTrigger re-invokes ingestion through the externally exposed refresh
// surface. The monitor repairs through this rather than calling the
// orchestrator directly, so a repair exercises the same path an operator
// would.
type RunTrigger interface {
	TriggerRefresh(ctx context.Context) (*TriggerResult, error)
}

// HTTPTrigger calls the deployed manual refresh endpoint. The timeout must
// cover the ingestion worst case (categories x items x delay), so it is set
// in the tens of minutes.
type HTTPTrigger struct {
	baseURL string
	token   string
	http    *resty.Client
}

func NewHTTPTrigger(baseURL, token string) *HTTPTrigger {
	client := resty.New()
	client.SetTimeout(30 * time.Minute)

	return &HTTPTrigger{
		baseURL: baseURL,
		token:   token,
		http:    client,
	}
}

// HTTPClient exposes the underlying client so tests can install a mock
// transport.
func (t *HTTPTrigger) HTTPClient() *resty.Client {
	return t.http
}

func (t *HTTPTrigger) TriggerRefresh(ctx context.Context) (*TriggerResult, error) {
	resp, err := t.http.R().
		SetContext(ctx).
		SetQueryParam("token", t.token).
		Get(t.baseURL + "/api/daily-refresh")
	if err != nil {
		return nil, fmt.Errorf("refresh trigger request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("refresh trigger returned HTTP %d: %s", resp.StatusCode(), resp.Body())
	}

	var result TriggerResult
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("refresh trigger response: %w", err)
	}
	return &result, nil
}
