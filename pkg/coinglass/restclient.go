package coinglass

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrMissingAPIKey is returned before any request is made when no key is set.
var ErrMissingAPIKey = errors.New("coinglass api key missing")

const secretHeader = "coinglass-secret"

type RESTClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewRESTClient builds a client bound to a single credential.
func NewRESTClient(baseURL, apiKey string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetLiquidations fetches the liquidation lists for symbol over interval (e.g. "1h").
// A nil Data in the returned response means the payload carried no "data" object.
func (c *RESTClient) GetLiquidations(ctx context.Context, symbol, interval string) (*LiquidationResponse, error) {
	if c.apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("interval", interval)
	endpoint := c.baseURL + "/public/v2/liquidation?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set(secretHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("making request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("coinglass error: status %d: %s", resp.StatusCode, body)
	}

	var out LiquidationResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
