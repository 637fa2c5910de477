package binance

import (
	"fmt"
	"math"
	"strconv"

	gobinance "github.com/adshao/go-binance/v2"
)

// Candles holds index-aligned series extracted from a kline list, oldest first.
type Candles struct {
	Closes          []float64
	Volumes         []float64
	TakerBuyVolumes []float64
}

// ParseKlineList converts SDK klines (string-typed numbers) into float series.
// Unlike a streaming collector it does not skip bad rows: one unparseable
// field rejects the whole list so callers never see a partially filled window.
func ParseKlineList(raw []*gobinance.Kline) (Candles, error) {
	if len(raw) == 0 {
		return Candles{}, ErrEmptyKlines
	}

	out := Candles{
		Closes:          make([]float64, 0, len(raw)),
		Volumes:         make([]float64, 0, len(raw)),
		TakerBuyVolumes: make([]float64, 0, len(raw)),
	}

	for i, k := range raw {
		if k == nil {
			return Candles{}, fmt.Errorf("kline %d: nil row", i)
		}

		closeVal, err := parseFinite(k.Close)
		if err != nil {
			return Candles{}, fmt.Errorf("kline %d close: %w", i, err)
		}
		volume, err := parseFinite(k.Volume)
		if err != nil {
			return Candles{}, fmt.Errorf("kline %d volume: %w", i, err)
		}
		takerBuy, err := parseFinite(k.TakerBuyBaseAssetVolume)
		if err != nil {
			return Candles{}, fmt.Errorf("kline %d taker buy volume: %w", i, err)
		}

		out.Closes = append(out.Closes, closeVal)
		out.Volumes = append(out.Volumes, volume)
		out.TakerBuyVolumes = append(out.TakerBuyVolumes, takerBuy)
	}
	return out, nil
}

// parseFinite parses a numeric string, rejecting NaN and infinities.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q: %w", s, ErrNonFinite)
	}
	return v, nil
}
