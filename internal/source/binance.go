package source

import (
	"context"
	"fmt"
	"time"

	"btcfeed/internal/indicator"
	"btcfeed/pkg/binance"

	"go.uber.org/zap"
)

// MarketClient is the slice of the Binance REST client the source needs.
type MarketClient interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) (binance.Candles, error)
	GetBookTotals(ctx context.Context, symbol string, limit int) (binance.BookTotals, error)
}

// BinanceSource provides the 1m market window, the order book summary and the
// 4h trend for one symbol.
type BinanceSource struct {
	client  MarketClient
	symbol  string
	timeout time.Duration
	logger  *zap.Logger
}

func NewBinanceSource(client MarketClient, symbol string, timeout time.Duration, logger *zap.Logger) *BinanceSource {
	return &BinanceSource{
		client:  client,
		symbol:  symbol,
		timeout: timeout,
		logger:  logger.With(zap.String("source", "binance"), zap.String("symbol", symbol)),
	}
}

// Market fetches the last 10 one-minute candles and the top-5 book. Any failure
// in either call yields the complete fallback bag.
func (s *BinanceSource) Market(ctx context.Context) Result[Market] {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	market, err := s.fetchMarket(ctx)
	if err != nil {
		s.logger.Warn("market data unavailable, using fallback", zap.Error(err))
		return Degraded(FallbackMarket(), err)
	}
	return OK(market)
}

func (s *BinanceSource) fetchMarket(ctx context.Context) (Market, error) {
	candles, err := s.client.GetKlines(ctx, s.symbol, binance.Interval1Min, PrimaryWindow)
	if err != nil {
		return Market{}, err
	}

	book, err := s.client.GetBookTotals(ctx, s.symbol, BookDepth)
	if err != nil {
		return Market{}, err
	}

	return Market{
		Prices:          candles.Closes,
		Volumes:         candles.Volumes,
		TakerBuyVolumes: candles.TakerBuyVolumes,
		BidVolume:       book.BidVolume,
		AskVolume:       book.AskVolume,
		Imbalance:       indicator.Imbalance(book.BidVolume, book.AskVolume),
	}, nil
}

// Trend fetches the last 50 four-hour candles and reduces them to EMA20/EMA50.
func (s *BinanceSource) Trend(ctx context.Context) Result[Trend] {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	candles, err := s.client.GetKlines(ctx, s.symbol, binance.Interval4Hour, TrendWindow)
	if err != nil {
		err = fmt.Errorf("trend: %w", err)
		s.logger.Warn("trend data unavailable, using fallback", zap.Error(err))
		return Degraded(FallbackTrend(), err)
	}

	return OK(Trend{
		EMA20: indicator.Last(candles.Closes, 20),
		EMA50: indicator.Last(candles.Closes, 50),
	})
}
