package bybit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

var (
	// ErrMissingResult is returned when the envelope carries no "result" payload.
	ErrMissingResult = errors.New("bybit response missing result")
	// ErrEmptyResult is returned when the result list holds no rows.
	ErrEmptyResult = errors.New("bybit result list is empty")
	// ErrNonFinite is returned when a numeric field decodes to NaN or an infinity.
	ErrNonFinite = errors.New("bybit value is not a finite number")
)

type RESTClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	return &RESTClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GetOpenInterest returns up to limit open interest buckets for symbol, newest first.
func (c *RESTClient) GetOpenInterest(ctx context.Context, category Category, symbol string,
	interval IntervalTime, limit int) ([]float64, error) {
	if !interval.IsValid() {
		return nil, fmt.Errorf("invalid IntervalTime: %s", interval)
	}

	query := url.Values{}
	query.Set("category", string(category))
	query.Set("symbol", symbol)
	query.Set("intervalTime", string(interval))
	query.Set("limit", strconv.Itoa(limit))

	var result OpenInterestResponse
	if err := c.getResult(ctx, "/v5/market/open-interest", query, &result); err != nil {
		return nil, err
	}
	if len(result.List) == 0 {
		return nil, fmt.Errorf("open interest: %w", ErrEmptyResult)
	}

	values := make([]float64, 0, len(result.List))
	for _, row := range result.List {
		oi, err := parseFinite(row.OpenInterest)
		if err != nil {
			return nil, fmt.Errorf("parse open interest %q: %w", row.OpenInterest, err)
		}
		values = append(values, oi)
	}
	return values, nil
}

// GetFundingRate returns the last settled funding rate for symbol.
func (c *RESTClient) GetFundingRate(ctx context.Context, category Category, symbol string) (float64, error) {
	query := url.Values{}
	query.Set("category", string(category))
	query.Set("symbol", symbol)
	query.Set("limit", "1")

	var result FundingHistoryResponse
	if err := c.getResult(ctx, "/v5/market/funding/history", query, &result); err != nil {
		return 0, err
	}
	if len(result.List) == 0 {
		return 0, fmt.Errorf("funding history: %w", ErrEmptyResult)
	}

	rate, err := parseFinite(result.List[0].FundingRate)
	if err != nil {
		return 0, fmt.Errorf("parse funding rate %q: %w", result.List[0].FundingRate, err)
	}
	return rate, nil
}

// GetDerivatives fetches the last OpenInterestSamples open interest buckets and
// the funding rate. Either failure fails the pair.
func (c *RESTClient) GetDerivatives(ctx context.Context, category Category, symbol string,
	interval IntervalTime) (Derivatives, error) {
	oi, err := c.GetOpenInterest(ctx, category, symbol, interval, OpenInterestSamples)
	if err != nil {
		return Derivatives{}, err
	}
	rate, err := c.GetFundingRate(ctx, category, symbol)
	if err != nil {
		return Derivatives{}, err
	}
	var sum float64
	for _, v := range oi {
		sum += v
	}
	return Derivatives{
		OpenInterest:        oi[0],
		OpenInterestAverage: sum / float64(len(oi)),
		FundingRate:         rate,
	}, nil
}

// getResult performs a GET against path and decodes the envelope's result into dest.
func (c *RESTClient) getResult(ctx context.Context, path string, query url.Values, dest interface{}) error {
	endpoint := c.baseURL + path + "?" + query.Encode()

	// Construct the GET request with context for timeout/cancel support
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("bybit error: status %d: %s", resp.StatusCode, body)
	}

	var rawResp BybitResponse
	if err := json.NewDecoder(resp.Body).Decode(&rawResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if len(rawResp.Result) == 0 || bytes.Equal(rawResp.Result, []byte("null")) {
		return fmt.Errorf("%s: %w", path, ErrMissingResult)
	}
	if rawResp.RetCode != 0 {
		return fmt.Errorf("bybit error: retCode=%d retMsg=%s", rawResp.RetCode, rawResp.RetMsg)
	}

	if err := json.Unmarshal(rawResp.Result, dest); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrNonFinite
	}
	return v, nil
}
