// Package indicator computes technical indicators over short price series.
//
// Every function is pure: a value at index i depends only on series[:i+1], and
// nothing is carried between calls. Rolling variants recompute each prefix from
// scratch rather than updating incrementally.
package indicator

import (
	"math"

	"github.com/shopspring/decimal"
)

const (
	// MACDFastPeriod and MACDSlowPeriod are the EMA periods MACD subtracts.
	MACDFastPeriod = 12
	MACDSlowPeriod = 26
	// MACDMinPrefix is the shortest prefix RollingMACD evaluates.
	MACDMinPrefix = 10

	// NeutralRSI is returned when there is not enough history.
	NeutralRSI = 50.0
)

// EMA returns the exponential moving average of series, seeded with the first
// element. The result has the same length as series; nil for an empty series.
func EMA(series []float64, period int) []float64 {
	if len(series) == 0 {
		return nil
	}

	k := 2.0 / float64(period+1)
	out := make([]float64, len(series))
	out[0] = series[0]
	for i := 1; i < len(series); i++ {
		out[i] = series[i]*k + out[i-1]*(1-k)
	}
	return out
}

// Last returns the final EMA value, or 0 for an empty series.
func Last(series []float64, period int) float64 {
	ema := EMA(series, period)
	if len(ema) == 0 {
		return 0
	}
	return ema[len(ema)-1]
}

// Tail returns at most the last n elements of series.
func Tail(series []float64, n int) []float64 {
	if len(series) <= n {
		return series
	}
	return series[len(series)-n:]
}

// MACD is EMA12 minus EMA26, both taken at the last element.
func MACD(series []float64) float64 {
	return Last(series, MACDFastPeriod) - Last(series, MACDSlowPeriod)
}

// RollingMACD evaluates MACD on every prefix of length MACDMinPrefix..len(series),
// rounding each value to 3 decimals. Its length is len(series)-9, or zero.
func RollingMACD(series []float64) []float64 {
	out := make([]float64, 0, max(0, len(series)-MACDMinPrefix+1))
	for i := MACDMinPrefix; i <= len(series); i++ {
		out = append(out, Round(MACD(series[:i]), 3))
	}
	return out
}

// RSI is the relative strength index over the last period deltas.
//
// The average loss is floored at 1 when the window holds no losses at all, so a
// strictly rising window yields 100-100/(1+avgGain) instead of dividing by zero.
func RSI(series []float64, period int) float64 {
	if period <= 0 || len(series) < period+1 {
		return NeutralRSI
	}

	var gains, losses float64
	for i := len(series) - period; i < len(series); i++ {
		delta := series[i] - series[i-1]
		if delta > 0 {
			gains += delta
		} else if delta < 0 {
			losses -= delta
		}
	}

	avgGain := gains / float64(period)
	avgLoss := 1.0
	if losses > 0 {
		avgLoss = losses / float64(period)
	}

	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// RollingRSI evaluates RSI on every prefix of length period+1..len(series),
// rounding each value to 3 decimals. Its length is len(series)-period, or zero.
func RollingRSI(series []float64, period int) []float64 {
	out := make([]float64, 0, max(0, len(series)-period))
	for i := period + 1; i <= len(series); i++ {
		out = append(out, Round(RSI(series[:i], period), 3))
	}
	return out
}

// ATR approximates average true range from closes alone: the mean absolute
// step between consecutive prices over the trailing window. It is 0 until
// window steps exist.
func ATR(series []float64, window int) float64 {
	steps := len(series) - 1
	if window <= 0 || steps < window {
		return 0
	}

	var sum float64
	for i := len(series) - window; i < len(series); i++ {
		hi, lo := series[i], series[i-1]
		if lo > hi {
			hi, lo = lo, hi
		}
		sum += hi - lo
	}
	return sum / float64(window)
}

// Mean returns the arithmetic mean, 0 for an empty series.
func Mean(series []float64) float64 {
	if len(series) == 0 {
		return 0
	}
	var sum float64
	for _, v := range series {
		sum += v
	}
	return sum / float64(len(series))
}

// Imbalance is (bid-ask)/(bid+ask), or 0 when the book is empty, rounded to 4 decimals.
func Imbalance(bidVolume, askVolume float64) float64 {
	total := bidVolume + askVolume
	if total <= 0 {
		return 0
	}
	return Round((bidVolume-askVolume)/total, 4)
}

// Round rounds v half away from zero to places decimals. NaN and infinities
// are returned unchanged.
func Round(v float64, places int32) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
