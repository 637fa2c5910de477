package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
)

// go test -v --run TestLoadDefaults
func TestLoadDefaults(t *testing.T) {
	t.Setenv("COINGLASS_API_KEY", "")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Symbol.Binance != "BTCUSDT" || cfg.Symbol.Bybit != "BTCUSD" || cfg.Symbol.Coinglass != "BTC" {
		t.Errorf("unexpected symbols: %+v", cfg.Symbol)
	}
	if cfg.Sources.Binance.Timeout != 10*time.Second {
		t.Errorf("binance timeout = %v, want 10s", cfg.Sources.Binance.Timeout)
	}
	if cfg.Output.Path != "public/btc-data.txt" {
		t.Errorf("output path = %q", cfg.Output.Path)
	}
	if cfg.Bybit.Category != "inverse" || cfg.Bybit.OIInterval != "5min" {
		t.Errorf("unexpected bybit config: %+v", cfg.Bybit)
	}
	if cfg.Coinglass.APIKey != "" {
		t.Errorf("expected empty api key, got %q", cfg.Coinglass.APIKey)
	}
}

// go test -v --run TestLoadFileAndEnv
func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yaml := []byte("sources:\n  bybit:\n    base_url: http://bybit.local\n    timeout: 3s\noutput:\n  path: out/feed.txt\n")
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("COINGLASS_API_KEY", "secret")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("BYBIT_OI_INTERVAL", "1h")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Sources.Bybit.BaseURL != "http://bybit.local" || cfg.Sources.Bybit.Timeout != 3*time.Second {
		t.Errorf("bybit config not read from file: %+v", cfg.Sources.Bybit)
	}
	if cfg.Output.Path != "out/feed.txt" {
		t.Errorf("output path = %q", cfg.Output.Path)
	}
	if cfg.Coinglass.APIKey != "secret" {
		t.Errorf("api key = %q, want env value", cfg.Coinglass.APIKey)
	}
	if cfg.Bybit.OIInterval != "1h" {
		t.Errorf("oi interval = %q, want env override", cfg.Bybit.OIInterval)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q, want env override", cfg.Log.Level)
	}
}

type fakeParameterStore struct {
	value *string
	err   error
	name  string
}

func (f *fakeParameterStore) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.name = aws.ToString(in.Name)
	if f.err != nil {
		return nil, f.err
	}
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: f.value}}, nil
}

// go test -v --run TestResolveAPIKey
func TestResolveAPIKey(t *testing.T) {
	ctx := context.Background()

	t.Run("direct key wins", func(t *testing.T) {
		store := &fakeParameterStore{value: aws.String("from-ssm")}
		key, err := ResolveAPIKey(ctx, CoinglassConfig{APIKey: "direct", APIKeyParameter: "/btcfeed/key"}, store)
		if err != nil || key != "direct" {
			t.Fatalf("got %q, %v", key, err)
		}
		if store.name != "" {
			t.Error("parameter store should not be queried")
		}
	})

	t.Run("parameter store", func(t *testing.T) {
		store := &fakeParameterStore{value: aws.String("from-ssm")}
		key, err := ResolveAPIKey(ctx, CoinglassConfig{APIKeyParameter: "/btcfeed/key"}, store)
		if err != nil || key != "from-ssm" {
			t.Fatalf("got %q, %v", key, err)
		}
		if store.name != "/btcfeed/key" {
			t.Errorf("queried %q", store.name)
		}
	})

	t.Run("nothing configured", func(t *testing.T) {
		key, err := ResolveAPIKey(ctx, CoinglassConfig{}, nil)
		if err != nil || key != "" {
			t.Fatalf("got %q, %v", key, err)
		}
	})

	t.Run("lookup failure", func(t *testing.T) {
		boom := errors.New("access denied")
		_, err := ResolveAPIKey(ctx, CoinglassConfig{APIKeyParameter: "/btcfeed/key"}, &fakeParameterStore{err: boom})
		if !errors.Is(err, boom) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
	})
}
