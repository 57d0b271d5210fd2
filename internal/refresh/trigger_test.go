package refresh

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"
)

func newMockedTrigger(t *testing.T) *HTTPTrigger {
	t.Helper()
	trigger := NewHTTPTrigger("https://ebiddle.example.com", "secret-token")
	httpmock.ActivateNonDefault(trigger.HTTPClient().GetClient())
	t.Cleanup(httpmock.DeactivateAndReset)
	return trigger
}

func TestTriggerRefresh(t *testing.T) {
	trigger := newMockedTrigger(t)

	httpmock.RegisterResponder("GET", "https://ebiddle.example.com/api/daily-refresh",
		func(req *http.Request) (*http.Response, error) {
			if got := req.URL.Query().Get("token"); got != "secret-token" {
				return httpmock.NewStringResponse(401, `{"error":"Unauthorized"}`), nil
			}
			return httpmock.NewStringResponse(200, `{
				"message": "Daily refresh completed successfully",
				"results": [{"category": "electronics", "itemCount": 42}],
				"duration": "93.20 seconds"
			}`), nil
		})

	result, err := trigger.TriggerRefresh(context.Background())
	if err != nil {
		t.Fatalf("TriggerRefresh: %v", err)
	}
	if result.Message != "Daily refresh completed successfully" {
		t.Fatalf("message = %q", result.Message)
	}
	if len(result.Results) != 1 || result.Results[0].ItemCount != 42 {
		t.Fatalf("results = %+v", result.Results)
	}
}

func TestTriggerRefreshUnauthorized(t *testing.T) {
	trigger := newMockedTrigger(t)

	httpmock.RegisterResponder("GET", "https://ebiddle.example.com/api/daily-refresh",
		httpmock.NewStringResponder(401, `{"error":"Unauthorized"}`))

	_, err := trigger.TriggerRefresh(context.Background())
	if err == nil {
		t.Fatal("expected an error for a rejected trigger")
	}
	if !strings.Contains(err.Error(), "401") {
		t.Fatalf("err = %v, want the HTTP status surfaced", err)
	}
}
