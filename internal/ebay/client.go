package ebay

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

const (
	TokenURL        = "https://api.ebay.com/identity/v1/oauth2/token"
	BrowseSearchURL = "https://api.ebay.com/buy/browse/v1/item_summary/search"
	BrowseItemURL   = "https://api.ebay.com/buy/browse/v1/item"

	marketplaceID = "EBAY-US"
	oauthScope    = "https://api.ebay.com/oauth/api_scope"

	// Used condition, US delivery, sold listings only.
	soldItemFilter = "conditionIds:{3000},deliveryCountry:US,soldItems:true"
)

// Money is eBay's amount shape; Value arrives as a decimal string.
type Money struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

// Amount parses the decimal value, returning 0 for absent or junk input.
func (m Money) Amount() float64 {
	v, err := strconv.ParseFloat(m.Value, 64)
	if err != nil {
		return 0
	}
	return v
}

// ItemSummary is one row of a Browse search response.
type ItemSummary struct {
	ItemID string `json:"itemId"`
	Title  string `json:"title"`
	Price  Money  `json:"price"`
}

type Image struct {
	ImageURL string `json:"imageUrl"`
}

// ItemDetail is the Browse item endpoint response, trimmed to what ingestion
// needs.
type ItemDetail struct {
	ItemID           string  `json:"itemId"`
	Title            string  `json:"title"`
	Image            *Image  `json:"image"`
	AdditionalImages []Image `json:"additionalImages"`
	Condition        string  `json:"condition"`
	ItemWebURL       string  `json:"itemWebUrl"`
}

type searchResponse struct {
	ItemSummaries []ItemSummary `json:"itemSummaries"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// Client talks to the eBay Browse API using an application access token
// obtained via the client-credentials grant.
type Client struct {
	appID  string
	certID string
	http   *resty.Client
}

func NewClient(appID, certID string) *Client {
	client := resty.New()
	client.SetTimeout(30 * time.Second)

	return &Client{
		appID:  appID,
		certID: certID,
		http:   client,
	}
}

// HTTPClient exposes the underlying client so tests can install a mock
// transport.
func (c *Client) HTTPClient() *resty.Client {
	return c.http
}

// GetToken exchanges the application credentials for a bearer token. A fresh
// token is requested once per refresh run; no caching.
func (c *Client) GetToken(ctx context.Context) (string, error) {
	if c.appID == "" || c.certID == "" {
		return "", ConfigurationError{Reason: "eBay credentials not configured"}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBasicAuth(c.appID, c.certID).
		SetHeader("Content-Type", "application/x-www-form-urlencoded").
		SetBody("grant_type=client_credentials&scope=" + oauthScope).
		Post(TokenURL)
	if err != nil {
		return "", UpstreamRequestError{Endpoint: "oauth2/token", Err: err}
	}
	if !resp.IsSuccess() {
		return "", UpstreamAuthError{Status: resp.StatusCode(), Body: string(resp.Body())}
	}

	var tok tokenResponse
	if err := json.Unmarshal(resp.Body(), &tok); err != nil {
		return "", UpstreamRequestError{Endpoint: "oauth2/token", Err: err}
	}
	if tok.AccessToken == "" {
		return "", UpstreamAuthError{Status: resp.StatusCode(), Body: "empty access token"}
	}
	return tok.AccessToken, nil
}

// SearchSoldItems fetches one page of recently sold listings for an upstream
// category id, newest end date first.
func (c *Client) SearchSoldItems(ctx context.Context, token, categoryID string, limit int) ([]ItemSummary, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("X-EBAY-C-MARKETPLACE-ID", marketplaceID).
		SetQueryParams(map[string]string{
			"category_ids": categoryID,
			"filter":       soldItemFilter,
			"sort":         "-endDate",
			"limit":        strconv.Itoa(limit),
		}).
		Get(BrowseSearchURL)
	if err != nil {
		return nil, UpstreamRequestError{Endpoint: "item_summary/search", Err: err}
	}
	if !resp.IsSuccess() {
		return nil, UpstreamRequestError{Endpoint: "item_summary/search", Status: resp.StatusCode()}
	}

	var out searchResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, UpstreamRequestError{Endpoint: "item_summary/search", Err: err}
	}
	return out.ItemSummaries, nil
}

// GetItemDetail fetches full detail for one listing.
func (c *Client) GetItemDetail(ctx context.Context, token, itemID string) (*ItemDetail, error) {
	resp, err := c.http.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("X-EBAY-C-MARKETPLACE-ID", marketplaceID).
		Get(BrowseItemURL + "/" + itemID)
	if err != nil {
		return nil, UpstreamRequestError{Endpoint: "item", Err: err}
	}
	if !resp.IsSuccess() {
		return nil, UpstreamRequestError{Endpoint: "item", Status: resp.StatusCode()}
	}

	var detail ItemDetail
	if err := json.Unmarshal(resp.Body(), &detail); err != nil {
		return nil, UpstreamRequestError{Endpoint: "item", Err: err}
	}
	return &detail, nil
}
