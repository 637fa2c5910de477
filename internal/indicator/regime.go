package indicator

// VolatilityRegime buckets ATR relative to price.
type VolatilityRegime string

const (
	RegimeLow    VolatilityRegime = "low"
	RegimeNormal VolatilityRegime = "normal"
	RegimeHigh   VolatilityRegime = "high"
)

const (
	highVolatilityRatio = 0.005
	lowVolatilityRatio  = 0.002
)

// VolatilityRatio is atr/price, 0 when price is not positive.
func VolatilityRatio(atr, price float64) float64 {
	if price <= 0 {
		return 0
	}
	return atr / price
}

// Regime classifies atr/price with ClassifyRatio.
func Regime(atr, price float64) VolatilityRegime {
	return ClassifyRatio(VolatilityRatio(atr, price))
}

// ClassifyRatio maps a volatility ratio to its regime. Both thresholds are
// exclusive, so exactly 0.002 or 0.005 is normal.
func ClassifyRatio(ratio float64) VolatilityRegime {
	switch {
	case ratio > highVolatilityRatio:
		return RegimeHigh
	case ratio < lowVolatilityRatio:
		return RegimeLow
	default:
		return RegimeNormal
	}
}

// Volatility returns the ATR over window and the regime at the latest price.
// With fewer than window steps the ATR is 0 and the regime is normal.
func Volatility(series []float64, window int) (float64, VolatilityRegime) {
	if window <= 0 || len(series)-1 < window {
		return 0, RegimeNormal
	}
	atr := ATR(series, window)
	return atr, Regime(atr, series[len(series)-1])
}
