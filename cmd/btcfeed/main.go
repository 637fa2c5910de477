package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"btcfeed/config"
	"btcfeed/internal/collector"
	"btcfeed/logger"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

func main() {
	// .env is optional; real environment variables win
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic("failed to load .env: " + err.Error())
	}

	// viper config
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// zap logger
	log, err := logger.New(cfg.Log)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	apiKey, err := resolveAPIKey(ctx, cfg.Coinglass)
	if err != nil {
		// liquidations degrade; the rest of the snapshot is still useful
		log.Warn("coinglass credential unavailable", zap.Error(err))
	} else if apiKey == "" {
		log.Warn("no coinglass credential configured, liquidation levels will use fallback values")
	}

	// run collector
	c, err := collector.New(cfg, apiKey, afero.NewOsFs(), log)
	if err != nil {
		log.Fatal("invalid collector config", zap.Error(err))
	}
	if _, err := c.Run(ctx); err != nil {
		log.Fatal("collector failed", zap.Error(err))
	}
}

func resolveAPIKey(ctx context.Context, cfg config.CoinglassConfig) (string, error) {
	if cfg.APIKey != "" || cfg.APIKeyParameter == "" {
		return config.ResolveAPIKey(ctx, cfg, nil)
	}

	store, err := config.NewParameterStore(ctx)
	if err != nil {
		return "", err
	}
	return config.ResolveAPIKey(ctx, cfg, store)
}
