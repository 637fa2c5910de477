package source

import (
	"context"
	"time"

	"btcfeed/pkg/bybit"

	"go.uber.org/zap"
)

// DerivativesClient is the slice of the Bybit REST client the source needs.
type DerivativesClient interface {
	GetDerivatives(ctx context.Context, category bybit.Category, symbol string, interval bybit.IntervalTime) (bybit.Derivatives, error)
}

// BybitSource provides open interest and funding for one perpetual contract.
type BybitSource struct {
	client   DerivativesClient
	category bybit.Category
	interval bybit.IntervalTime
	symbol   string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewBybitSource reads symbol in category; interval is the open-interest bucket.
func NewBybitSource(client DerivativesClient, category bybit.Category, interval bybit.IntervalTime,
	symbol string, timeout time.Duration, logger *zap.Logger) *BybitSource {
	return &BybitSource{
		client:   client,
		category: category,
		interval: interval,
		symbol:   symbol,
		timeout:  timeout,
		logger:   logger.With(zap.String("source", "bybit"), zap.String("symbol", symbol)),
	}
}

// Derivatives returns live open interest and funding, or both fallbacks together.
func (s *BybitSource) Derivatives(ctx context.Context) Result[Derivatives] {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	d, err := s.client.GetDerivatives(ctx, s.category, s.symbol, s.interval)
	if err != nil {
		s.logger.Warn("derivatives data unavailable, using fallback", zap.Error(err))
		return Degraded(FallbackDerivatives(), err)
	}
	return OK(Derivatives{
		OpenInterest:        d.OpenInterest,
		OpenInterestAverage: d.OpenInterestAverage,
		FundingRate:         d.FundingRate,
	})
}
