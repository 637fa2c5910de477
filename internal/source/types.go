package source

// Window sizes requested from the exchanges.
const (
	PrimaryWindow = 10 // 1m candles
	TrendWindow   = 50 // 4h candles
	BookDepth     = 5  // order book levels per side
)

// Market is the Binance feature bag: the 1m window plus the top-of-book summary.
type Market struct {
	Prices          []float64
	Volumes         []float64
	TakerBuyVolumes []float64
	BidVolume       float64
	AskVolume       float64
	Imbalance       float64
}

// Trend holds the long-horizon EMA endpoints from 4h candles.
type Trend struct {
	EMA20 float64
	EMA50 float64
}

// Derivatives is the perp open interest (latest and recent mean) and funding rate.
type Derivatives struct {
	OpenInterest        float64
	OpenInterestAverage float64
	FundingRate  float64
}

// Liquidations holds the two largest long- and short-side liquidation prices.
type Liquidations struct {
	Longs  [2]float64
	Shorts [2]float64
}

func repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// FallbackMarket is substituted whenever either Binance market call fails.
func FallbackMarket() Market {
	return Market{
		Prices:          repeat(60000.0, PrimaryWindow),
		Volumes:         repeat(1.0, PrimaryWindow),
		TakerBuyVolumes: repeat(0.5, PrimaryWindow),
		BidVolume:       10.0,
		AskVolume:       10.0,
		Imbalance:       0.0,
	}
}

// FallbackTrend is substituted when the 4h candles cannot be fetched.
func FallbackTrend() Trend {
	return Trend{EMA20: 60000.0, EMA50: 59000.0}
}

// FallbackDerivatives is substituted when either Bybit call fails.
func FallbackDerivatives() Derivatives {
	return Derivatives{OpenInterest: 29000.0, OpenInterestAverage: 29000.0, FundingRate: 0.00001}
}

// FallbackLiquidations is the zero-filled pair of levels.
func FallbackLiquidations() Liquidations {
	return Liquidations{}
}
