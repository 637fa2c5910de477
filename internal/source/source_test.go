package source_test

import (
	"context"
	"errors"
	"math"
	"net/http"
	"reflect"
	"testing"
	"time"

	"btcfeed/internal/source"
	"btcfeed/internal/source/sourcetest"
	"btcfeed/pkg/binance"
	"btcfeed/pkg/bybit"
	"btcfeed/pkg/coinglass"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const timeout = 2 * time.Second

func newBinance(t *testing.T, f sourcetest.Fixture) *source.BinanceSource {
	srv := sourcetest.Binance(t, f)
	return source.NewBinanceSource(binance.NewRESTClient(srv.URL, timeout), "BTCUSDT", timeout, zap.NewNop())
}

// go test -v --run TestBinanceMarket
func TestBinanceMarket(t *testing.T) {
	src := newBinance(t, sourcetest.Default())

	res := src.Market(context.Background())
	if res.IsDegraded() {
		t.Fatalf("unexpected fallback: %v", res.Reason)
	}

	got := res.Data
	if !reflect.DeepEqual(got.Prices, sourcetest.Ramp(100, 10)) {
		t.Errorf("prices = %v", got.Prices)
	}
	if got.BidVolume != 4 || got.AskVolume != 2 || got.Imbalance != 0.3333 {
		t.Errorf("book = %v/%v imbalance %v", got.BidVolume, got.AskVolume, got.Imbalance)
	}
	if len(got.Volumes) != 10 || len(got.TakerBuyVolumes) != 10 {
		t.Errorf("series not aligned: %d %d", len(got.Volumes), len(got.TakerBuyVolumes))
	}
}

// go test -v --run TestBinanceMarketFallback
func TestBinanceMarketFallback(t *testing.T) {
	tests := []struct {
		name    string
		fixture func() sourcetest.Fixture
		want    error
	}{
		{
			name: "empty klines",
			fixture: func() sourcetest.Fixture {
				f := sourcetest.Default()
				f.RawKlines1m = `[]`
				return f
			},
			want: binance.ErrEmptyKlines,
		},
		{
			name: "missing asks",
			fixture: func() sourcetest.Fixture {
				f := sourcetest.Default()
				f.RawDepth = `{"lastUpdateId":1,"bids":[["1","1"]]}`
				return f
			},
			want: binance.ErrMissingBookSide,
		},
		{
			name: "NaN bid quantity",
			fixture: func() sourcetest.Fixture {
				f := sourcetest.Default()
				f.RawDepth = `{"lastUpdateId":1,"bids":[["100","NaN"]],"asks":[["101","1"]]}`
				return f
			},
			want: binance.ErrNonFinite,
		},
		{
			name: "infinite close",
			fixture: func() sourcetest.Fixture {
				f := sourcetest.Default()
				f.RawKlines1m = `[[1700000000000,"1","1","1","Inf","1",1700000059999,"0",1,"0.5","0","0"]]`
				return f
			},
			want: binance.ErrNonFinite,
		},
		{
			name: "server error",
			fixture: func() sourcetest.Fixture {
				f := sourcetest.Default()
				f.BinanceStatus = http.StatusInternalServerError
				return f
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := newBinance(t, tt.fixture()).Market(context.Background())

			if !res.IsDegraded() || res.Reason == nil {
				t.Fatalf("expected degraded result, got %+v", res)
			}
			if tt.want != nil && !errors.Is(res.Reason, tt.want) {
				t.Errorf("reason = %v, want %v", res.Reason, tt.want)
			}
			// all-or-nothing: the whole bag is the fallback, never a mix
			if !reflect.DeepEqual(res.Data, source.FallbackMarket()) {
				t.Errorf("partial fallback: %+v", res.Data)
			}
		})
	}
}

// go test -v --run TestBinanceTrend
func TestBinanceTrend(t *testing.T) {
	f := sourcetest.Default()
	f.Closes4h = sourcetest.Repeat(61000, 50)
	res := newBinance(t, f).Trend(context.Background())
	if res.IsDegraded() {
		t.Fatalf("unexpected fallback: %v", res.Reason)
	}
	if math.Abs(res.Data.EMA20-61000) > 1e-6 || math.Abs(res.Data.EMA50-61000) > 1e-6 {
		t.Errorf("trend = %+v", res.Data)
	}

	f.Closes4h = nil
	res = newBinance(t, f).Trend(context.Background())
	if !res.IsDegraded() || res.Data != source.FallbackTrend() {
		t.Errorf("expected trend fallback, got %+v", res)
	}
}

func newBybit(url string, logger *zap.Logger) *source.BybitSource {
	client := bybit.NewRESTClient(url, timeout)
	return source.NewBybitSource(client, bybit.CategoryInverse, bybit.OIInterval5Min, "BTCUSD", timeout, logger)
}

// go test -v --run TestBybitDerivatives
func TestBybitDerivatives(t *testing.T) {
	srv := sourcetest.Bybit(t, sourcetest.Default())
	src := newBybit(srv.URL, zap.NewNop())

	res := src.Derivatives(context.Background())
	if res.IsDegraded() {
		t.Fatalf("unexpected fallback: %v", res.Reason)
	}
	if res.Data.OpenInterest != 31000.5 || res.Data.OpenInterestAverage != 31000.5 || res.Data.FundingRate != 0.0001 {
		t.Errorf("derivatives = %+v", res.Data)
	}
}

// go test -v --run TestBybitDerivativesNonFinite
func TestBybitDerivativesNonFinite(t *testing.T) {
	f := sourcetest.Default()
	f.OpenInterest = "NaN"
	srv := sourcetest.Bybit(t, f)

	res := newBybit(srv.URL, zap.NewNop()).Derivatives(context.Background())
	if !res.IsDegraded() || !errors.Is(res.Reason, bybit.ErrNonFinite) {
		t.Fatalf("expected non-finite fallback, got %+v", res)
	}
	if res.Data != source.FallbackDerivatives() {
		t.Errorf("data = %+v", res.Data)
	}
}

// go test -v --run TestBybitDerivativesFallback
func TestBybitDerivativesFallback(t *testing.T) {
	f := sourcetest.Default()
	f.RawBybitOI = `{"retCode":0,"retMsg":"OK"}`
	srv := sourcetest.Bybit(t, f)

	core, logs := observer.New(zap.WarnLevel)
	src := newBybit(srv.URL, zap.New(core))

	res := src.Derivatives(context.Background())
	if !res.IsDegraded() || !errors.Is(res.Reason, bybit.ErrMissingResult) {
		t.Fatalf("expected missing-result fallback, got %+v", res)
	}
	if res.Data != source.FallbackDerivatives() {
		t.Errorf("data = %+v", res.Data)
	}
	if logs.FilterField(zap.String("source", "bybit")).Len() != 1 {
		t.Errorf("expected one warning tagged with the source, got %d", logs.Len())
	}
}

func newCoinglass(t *testing.T, f sourcetest.Fixture, key string) *source.CoinglassSource {
	srv := sourcetest.Coinglass(t, f)
	return source.NewCoinglassSource(coinglass.NewRESTClient(srv.URL, key, timeout), "BTC", timeout, zap.NewNop())
}

// go test -v --run TestCoinglassLiquidations
func TestCoinglassLiquidations(t *testing.T) {
	f := sourcetest.Default()

	t.Run("live", func(t *testing.T) {
		res := newCoinglass(t, f, "test-key").Liquidations(context.Background())
		want := source.Liquidations{Longs: [2]float64{105, 104}, Shorts: [2]float64{112, 113}}
		if res.IsDegraded() || res.Data != want {
			t.Errorf("got %+v", res)
		}
	})

	t.Run("missing credential", func(t *testing.T) {
		res := newCoinglass(t, f, "").Liquidations(context.Background())
		if !res.IsDegraded() || !errors.Is(res.Reason, coinglass.ErrMissingAPIKey) {
			t.Errorf("got %+v", res)
		}
		if res.Data != source.FallbackLiquidations() {
			t.Errorf("data = %+v", res.Data)
		}
	})

	t.Run("wrong credential", func(t *testing.T) {
		res := newCoinglass(t, f, "nope").Liquidations(context.Background())
		if !res.IsDegraded() || res.Data != source.FallbackLiquidations() {
			t.Errorf("got %+v", res)
		}
	})

	t.Run("sides degrade independently", func(t *testing.T) {
		g := f
		g.RawCoinglass = `{"code":"0","data":{"longLiquidationList":[{"price":"101.5"}]}}`
		res := newCoinglass(t, g, "test-key").Liquidations(context.Background())
		want := source.Liquidations{Longs: [2]float64{101.5, 0}}
		if res.IsDegraded() || res.Data != want {
			t.Errorf("got %+v", res)
		}
	})

	t.Run("non-finite price", func(t *testing.T) {
		g := f
		g.RawCoinglass = `{"code":"0","data":{"longLiquidationList":[{"price":"Infinity"}],"shortLiquidationList":[]}}`
		res := newCoinglass(t, g, "test-key").Liquidations(context.Background())
		if !res.IsDegraded() || !errors.Is(res.Reason, coinglass.ErrNonFinite) {
			t.Errorf("got %+v", res)
		}
		if res.Data != source.FallbackLiquidations() {
			t.Errorf("data = %+v", res.Data)
		}
	})

	t.Run("no data object", func(t *testing.T) {
		g := f
		g.RawCoinglass = `{"code":"50001","msg":"busy"}`
		res := newCoinglass(t, g, "test-key").Liquidations(context.Background())
		if !res.IsDegraded() || !errors.Is(res.Reason, source.ErrNoLiquidationData) {
			t.Errorf("got %+v", res)
		}
	})
}

// go test -v --run TestResult
func TestResult(t *testing.T) {
	ok := source.OK(1)
	if ok.IsDegraded() || ok.Status.String() != "ok" || ok.Reason != nil {
		t.Errorf("OK = %+v", ok)
	}

	boom := errors.New("boom")
	d := source.Degraded(2, boom)
	if !d.IsDegraded() || d.Status.String() != "degraded" || d.Reason != boom || d.Data != 2 {
		t.Errorf("Degraded = %+v", d)
	}
}
