package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Symbol    SymbolConfig    `mapstructure:"symbol"`
	Sources   SourcesConfig   `mapstructure:"sources"`
	Bybit     BybitConfig     `mapstructure:"bybit"`
	Coinglass CoinglassConfig `mapstructure:"coinglass"`
	Output    OutputConfig    `mapstructure:"output"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Log       LogConfig       `mapstructure:"log"`
}

// SymbolConfig names the single instrument on each venue.
type SymbolConfig struct {
	Binance   string `mapstructure:"binance"`   // e.g. "BTCUSDT"
	Bybit     string `mapstructure:"bybit"`     // e.g. "BTCUSD" (inverse perp)
	Coinglass string `mapstructure:"coinglass"` // e.g. "BTC"
}

type SourcesConfig struct {
	Binance   RESTConfig `mapstructure:"binance"`
	Bybit     RESTConfig `mapstructure:"bybit"`
	Coinglass RESTConfig `mapstructure:"coinglass"`
}

type RESTConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// BybitConfig selects the derivatives contract family and the open-interest bucket.
type BybitConfig struct {
	Category   string `mapstructure:"category"`    // "inverse" or "linear"
	OIInterval string `mapstructure:"oi_interval"` // e.g. "5min", "1h"
}

// CoinglassConfig holds the liquidation source credential.
// APIKey wins; APIKeyParameter is an SSM parameter name used when APIKey is empty.
type CoinglassConfig struct {
	APIKey          string `mapstructure:"api_key"`
	APIKeyParameter string `mapstructure:"api_key_parameter"`
}

type OutputConfig struct {
	Path string `mapstructure:"path"`
}

type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"` // empty disables the export
}

// Options defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("symbol.binance", "BTCUSDT")
	v.SetDefault("symbol.bybit", "BTCUSD")
	v.SetDefault("symbol.coinglass", "BTC")

	v.SetDefault("sources.binance.base_url", "https://api.binance.com")
	v.SetDefault("sources.binance.timeout", 10*time.Second)
	v.SetDefault("sources.bybit.base_url", "https://api.bybit.com")
	v.SetDefault("sources.bybit.timeout", 10*time.Second)
	v.SetDefault("sources.coinglass.base_url", "https://open-api.coinglass.com")
	v.SetDefault("sources.coinglass.timeout", 10*time.Second)

	v.SetDefault("bybit.category", "inverse")
	v.SetDefault("bybit.oi_interval", "5min")

	v.SetDefault("coinglass.api_key", "")
	v.SetDefault("coinglass.api_key_parameter", "")

	v.SetDefault("output.path", "public/btc-data.txt")
	v.SetDefault("metrics.textfile_path", "")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_file", "")
	v.SetDefault("log.environment", "prod")
}

// Load loads application configuration using Viper.
// It reads config.yaml from the given paths (and ./config), then overrides with
// environment variables. A missing config file is fine: defaults cover every key.
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config") // config.yaml
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("config")

	// Support environment variables with dot notation (e.g., SOURCES_BYBIT_BASE_URL)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The liquidation credential keeps its conventional variable name.
	if err := v.BindEnv("coinglass.api_key", "COINGLASS_API_KEY"); err != nil {
		return nil, fmt.Errorf("bind coinglass key: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}
