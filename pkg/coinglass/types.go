package coinglass

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

// ErrNonFinite is returned when a price decodes to NaN or an infinity.
var ErrNonFinite = errors.New("coinglass price is not a finite number")

// LiquidationResponse is the envelope of /public/v2/liquidation.
type LiquidationResponse struct {
	Code    string           `json:"code"`
	Msg     string           `json:"msg"`
	Success bool             `json:"success"`
	Data    *LiquidationData `json:"data"` // nil when the payload is absent
}

type LiquidationData struct {
	LongLiquidationList  []LiquidationItem `json:"longLiquidationList"`
	ShortLiquidationList []LiquidationItem `json:"shortLiquidationList"`
}

type LiquidationItem struct {
	Price Price `json:"price"`
}

// Price accepts both JSON numbers and numeric strings.
type Price float64

func (p *Price) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*p = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return fmt.Errorf("parse price %q: %w", b, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("parse price %q: %w", b, ErrNonFinite)
	}
	*p = Price(v)
	return nil
}

// Prices returns up to n leading prices of items.
func Prices(items []LiquidationItem, n int) []float64 {
	if len(items) > n {
		items = items[:n]
	}
	out := make([]float64, 0, len(items))
	for _, it := range items {
		out = append(out, float64(it.Price))
	}
	return out
}

var _ json.Unmarshaler = (*Price)(nil)
