package source

import (
	"context"
	"errors"
	"time"

	"btcfeed/pkg/coinglass"

	"go.uber.org/zap"
)

// ErrNoLiquidationData means the response decoded but carried no "data" object.
var ErrNoLiquidationData = errors.New("coinglass response has no data")

const liquidationInterval = "1h"

// LiquidationClient is the slice of the Coinglass REST client the source needs.
// The credential lives in the client, fixed at construction.
type LiquidationClient interface {
	GetLiquidations(ctx context.Context, symbol, interval string) (*coinglass.LiquidationResponse, error)
}

// CoinglassSource provides the top liquidation levels per side.
type CoinglassSource struct {
	client  LiquidationClient
	symbol  string
	timeout time.Duration
	logger  *zap.Logger
}

func NewCoinglassSource(client LiquidationClient, symbol string, timeout time.Duration, logger *zap.Logger) *CoinglassSource {
	return &CoinglassSource{
		client:  client,
		symbol:  symbol,
		timeout: timeout,
		logger:  logger.With(zap.String("source", "coinglass"), zap.String("symbol", symbol)),
	}
}

// Liquidations returns the two leading long and short liquidation prices.
// Inside a present payload each side falls back to zeros on its own; a list
// shorter than two is zero-padded.
func (s *CoinglassSource) Liquidations(ctx context.Context) Result[Liquidations] {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.client.GetLiquidations(ctx, s.symbol, liquidationInterval)
	if err != nil {
		s.logger.Warn("liquidation data unavailable, using fallback", zap.Error(err))
		return Degraded(FallbackLiquidations(), err)
	}
	if resp.Data == nil {
		s.logger.Warn("liquidation payload empty, using fallback", zap.String("code", resp.Code), zap.String("msg", resp.Msg))
		return Degraded(FallbackLiquidations(), ErrNoLiquidationData)
	}

	var out Liquidations
	copy(out.Longs[:], coinglass.Prices(resp.Data.LongLiquidationList, 2))
	copy(out.Shorts[:], coinglass.Prices(resp.Data.ShortLiquidationList, 2))
	return OK(out)
}
