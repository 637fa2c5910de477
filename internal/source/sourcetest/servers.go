// Package sourcetest serves canned exchange responses for tests.
package sourcetest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
)

// Fixture describes what the fake exchanges answer. Zero status means 200.
type Fixture struct {
	Closes1m []float64
	Volumes  []float64
	TakerBuy []float64
	Closes4h []float64
	Bids     [][2]float64 // price, quantity
	Asks     [][2]float64

	// RawKlines1m and RawDepth replace the generated bodies when set.
	RawKlines1m string
	RawDepth    string

	OpenInterest string
	FundingRate  string
	RawBybitOI   string

	Longs         []float64
	Shorts        []float64
	RawCoinglass  string
	CoinglassKey  string // expected credential; requests without it get 401
	BinanceStatus int
	BybitStatus   int
}

// Ramp returns n values start, start+1, ...
func Ramp(start float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

// Repeat returns n copies of v.
func Repeat(v float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// Default is a healthy market: 1m closes 100..109, unit volumes, half taker buys.
func Default() Fixture {
	return Fixture{
		Closes1m:     Ramp(100, 10),
		Volumes:      Repeat(1.0, 10),
		TakerBuy:     Repeat(0.5, 10),
		Closes4h:     Ramp(50000, 50),
		Bids:         [][2]float64{{108.9, 3}, {108.8, 1}},
		Asks:         [][2]float64{{109.1, 1}, {109.2, 1}},
		OpenInterest: "31000.5",
		FundingRate:  "0.0001",
		Longs:        []float64{105, 104},
		Shorts:       []float64{112, 113},
		CoinglassKey: "test-key",
	}
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func klines(closes, volumes, taker []float64) string {
	rows := make([]string, len(closes))
	for i, c := range closes {
		vol, tb := 1.0, 0.5
		if i < len(volumes) {
			vol = volumes[i]
		}
		if i < len(taker) {
			tb = taker[i]
		}
		open := int64(1700000000000) + int64(i)*60000
		rows[i] = fmt.Sprintf(`[%d,"%s","%s","%s","%s","%s",%d,"0",1,"%s","0","0"]`,
			open, num(c), num(c), num(c), num(c), num(vol), open+59999, num(tb))
	}
	return "[" + strings.Join(rows, ",") + "]"
}

func levels(side [][2]float64) string {
	rows := make([]string, len(side))
	for i, l := range side {
		rows[i] = fmt.Sprintf(`["%s","%s"]`, num(l[0]), num(l[1]))
	}
	return "[" + strings.Join(rows, ",") + "]"
}

func prices(ps []float64) string {
	rows := make([]string, len(ps))
	for i, p := range ps {
		rows[i] = fmt.Sprintf(`{"price":%s}`, num(p))
	}
	return "[" + strings.Join(rows, ",") + "]"
}

func status(code int) int {
	if code == 0 {
		return http.StatusOK
	}
	return code
}

// Binance serves /api/v3/klines (1m and 4h) and /api/v3/depth.
func Binance(t *testing.T, f Fixture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code := status(f.BinanceStatus); code != http.StatusOK {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"code":-1000,"msg":"unavailable"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v3/klines":
			if r.URL.Query().Get("interval") == "4h" {
				_, _ = w.Write([]byte(klines(f.Closes4h, nil, nil)))
				return
			}
			if f.RawKlines1m != "" {
				_, _ = w.Write([]byte(f.RawKlines1m))
				return
			}
			_, _ = w.Write([]byte(klines(f.Closes1m, f.Volumes, f.TakerBuy)))
		case "/api/v3/depth":
			if f.RawDepth != "" {
				_, _ = w.Write([]byte(f.RawDepth))
				return
			}
			fmt.Fprintf(w, `{"lastUpdateId":1,"bids":%s,"asks":%s}`, levels(f.Bids), levels(f.Asks))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// Bybit serves the v5 open-interest and funding-history endpoints.
func Bybit(t *testing.T, f Fixture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if code := status(f.BybitStatus); code != http.StatusOK {
			w.WriteHeader(code)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/v5/market/open-interest":
			if f.RawBybitOI != "" {
				_, _ = w.Write([]byte(f.RawBybitOI))
				return
			}
			fmt.Fprintf(w, `{"retCode":0,"retMsg":"OK","result":{"category":"inverse","symbol":"BTCUSD","list":[{"openInterest":"%s","timestamp":"1700000000000"}]},"time":1700000000000}`, f.OpenInterest)
		case "/v5/market/funding/history":
			fmt.Fprintf(w, `{"retCode":0,"retMsg":"OK","result":{"category":"inverse","list":[{"symbol":"BTCUSD","fundingRate":"%s","fundingRateTimestamp":"1700000000000"}]},"time":1700000000000}`, f.FundingRate)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// Coinglass serves /public/v2/liquidation, enforcing the expected credential.
func Coinglass(t *testing.T, f Fixture) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/public/v2/liquidation" {
			http.NotFound(w, r)
			return
		}
		if r.Header.Get("coinglass-secret") != f.CoinglassKey {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if f.RawCoinglass != "" {
			_, _ = w.Write([]byte(f.RawCoinglass))
			return
		}
		fmt.Fprintf(w, `{"code":"0","msg":"success","success":true,"data":{"longLiquidationList":%s,"shortLiquidationList":%s}}`,
			prices(f.Longs), prices(f.Shorts))
	}))
	t.Cleanup(srv.Close)
	return srv
}
