// Package report turns one run's source results into the text snapshot.
package report

import (
	"time"

	"btcfeed/internal/indicator"
	"btcfeed/internal/source"
)

const (
	emaPeriod    = 20
	rsiPeriod    = 7
	atrWindow    = 14
	shortATR     = 3
	seriesLength = 10 // trailing EMA values shown
)

// Input is everything the sources produced for a run.
type Input struct {
	Market       source.Result[source.Market]
	Trend        source.Result[source.Trend]
	Derivatives  source.Result[source.Derivatives]
	Liquidations source.Result[source.Liquidations]
}

// SourceStatus records whether a source's fields are live or substituted.
type SourceStatus struct {
	Name   string
	Status source.Status
}

// Snapshot is the flat set of values rendered into a Document.
type Snapshot struct {
	Timestamp time.Time

	CurrentPrice float64
	EMA20        float64
	MACD         float64
	RSI7         float64

	OpenInterest        float64
	OpenInterestAverage float64
	FundingRate         float64

	Prices      []float64
	EMA20Series []float64
	MACDSeries  []float64
	RSI7Series  []float64

	TrendEMA20 float64
	TrendEMA50 float64

	ATR3          float64
	ATR           float64
	CurrentVolume float64
	AverageVolume float64

	BidVolume float64
	AskVolume float64
	Imbalance float64

	TakerBuyVolume float64
	TakerBuyShare  float64 // percent of the latest candle's volume

	LongLevels  [2]float64
	ShortLevels [2]float64

	Regime  indicator.VolatilityRegime
	Sources []SourceStatus
}

// Compose derives the indicators and assembles the snapshot taken at t.
func Compose(in Input, t time.Time) Snapshot {
	market := in.Market.Data
	prices := market.Prices
	if len(prices) == 0 {
		// sources never hand out an empty window; keep the invariant here too
		market = source.FallbackMarket()
		prices = market.Prices
	}
	last := len(prices) - 1

	ema20 := indicator.EMA(prices, emaPeriod)
	macd := indicator.RollingMACD(prices)
	rsi7 := indicator.RollingRSI(prices, rsiPeriod)
	atr, regime := indicator.Volatility(prices, atrWindow)

	s := Snapshot{
		Timestamp:    t.UTC(),
		CurrentPrice: prices[last],
		EMA20:        ema20[last],
		RSI7:         indicator.NeutralRSI,

		OpenInterest:        in.Derivatives.Data.OpenInterest,
		OpenInterestAverage: in.Derivatives.Data.OpenInterestAverage,
		FundingRate:         in.Derivatives.Data.FundingRate,

		Prices:      prices,
		EMA20Series: indicator.Tail(ema20, seriesLength),
		MACDSeries:  macd,
		RSI7Series:  rsi7,

		TrendEMA20: in.Trend.Data.EMA20,
		TrendEMA50: in.Trend.Data.EMA50,

		ATR3:          indicator.ATR(prices, shortATR),
		ATR:           atr,
		AverageVolume: indicator.Mean(market.Volumes),

		BidVolume: market.BidVolume,
		AskVolume: market.AskVolume,
		Imbalance: market.Imbalance,

		LongLevels:  in.Liquidations.Data.Longs,
		ShortLevels: in.Liquidations.Data.Shorts,

		Regime: regime,
		Sources: []SourceStatus{
			{Name: "binance", Status: in.Market.Status},
			{Name: "bybit", Status: in.Derivatives.Status},
			{Name: "coinglass", Status: in.Liquidations.Status},
			{Name: "trend", Status: in.Trend.Status},
		},
	}

	if len(macd) > 0 {
		s.MACD = macd[len(macd)-1]
	}
	if len(rsi7) > 0 {
		s.RSI7 = rsi7[len(rsi7)-1]
	}

	if n := len(market.Volumes); n > 0 {
		s.CurrentVolume = market.Volumes[n-1]
	}
	if n := len(market.TakerBuyVolumes); n > 0 {
		s.TakerBuyVolume = market.TakerBuyVolumes[n-1]
	}
	if s.CurrentVolume > 0 {
		s.TakerBuyShare = s.TakerBuyVolume / s.CurrentVolume * 100
	}

	return s
}

// Degraded lists the names of substituted sources.
func (s Snapshot) Degraded() []string {
	var out []string
	for _, src := range s.Sources {
		if src.Status == source.StatusDegraded {
			out = append(out, src.Name)
		}
	}
	return out
}
