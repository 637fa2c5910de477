package binance

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	gobinance "github.com/adshao/go-binance/v2"
)

var (
	// ErrEmptyKlines is returned when the klines endpoint yields no rows.
	ErrEmptyKlines = errors.New("binance klines response is empty")
	// ErrMissingBookSide is returned when a depth snapshot lacks bids or asks.
	ErrMissingBookSide = errors.New("binance depth response missing a book side")
	// ErrNonFinite is returned when a numeric field decodes to NaN or an infinity.
	ErrNonFinite = errors.New("binance value is not a finite number")
)

// Kline intervals used by the feed.
const (
	Interval1Min  = "1m"
	Interval4Hour = "4h"
)

// BookTotals is the summed quantity on each side of a top-N depth snapshot.
type BookTotals struct {
	BidVolume float64
	AskVolume float64
}

// RESTClient wraps the go-binance spot client with the endpoints the feed needs.
type RESTClient struct {
	client *gobinance.Client
}

// NewRESTClient builds an unauthenticated spot client. baseURL overrides the
// SDK default (useful for regional hosts and tests).
func NewRESTClient(baseURL string, timeout time.Duration) *RESTClient {
	client := gobinance.NewClient("", "")
	client.HTTPClient = &http.Client{Timeout: timeout}
	if baseURL != "" {
		client.BaseURL = baseURL
	}
	return &RESTClient{client: client}
}

// GetKlines fetches the last limit candles for symbol at interval.
func (c *RESTClient) GetKlines(ctx context.Context, symbol, interval string, limit int) (Candles, error) {
	raw, err := c.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return Candles{}, fmt.Errorf("klines %s %s: %w", symbol, interval, err)
	}

	candles, err := ParseKlineList(raw)
	if err != nil {
		return Candles{}, fmt.Errorf("klines %s %s: %w", symbol, interval, err)
	}
	return candles, nil
}

// GetBookTotals fetches a top-limit depth snapshot and sums each side.
func (c *RESTClient) GetBookTotals(ctx context.Context, symbol string, limit int) (BookTotals, error) {
	depth, err := c.client.NewDepthService().
		Symbol(symbol).
		Limit(limit).
		Do(ctx)
	if err != nil {
		return BookTotals{}, fmt.Errorf("depth %s: %w", symbol, err)
	}

	// The SDK decodes an absent side as an empty slice.
	if len(depth.Bids) == 0 || len(depth.Asks) == 0 {
		return BookTotals{}, fmt.Errorf("depth %s: %w", symbol, ErrMissingBookSide)
	}

	var totals BookTotals
	for _, bid := range depth.Bids {
		qty, err := parseFinite(bid.Quantity)
		if err != nil {
			return BookTotals{}, fmt.Errorf("depth %s bid quantity: %w", symbol, err)
		}
		totals.BidVolume += qty
	}
	for _, ask := range depth.Asks {
		qty, err := parseFinite(ask.Quantity)
		if err != nil {
			return BookTotals{}, fmt.Errorf("depth %s ask quantity: %w", symbol, err)
		}
		totals.AskVolume += qty
	}
	return totals, nil
}
