package collector

import (
	"context"
	"fmt"
	"time"

	"btcfeed/config"
	"btcfeed/internal/indicator"
	"btcfeed/internal/metrics"
	"btcfeed/internal/report"
	"btcfeed/internal/sink"
	"btcfeed/internal/source"
	"btcfeed/pkg/binance"
	"btcfeed/pkg/bybit"
	"btcfeed/pkg/coinglass"

	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Collector runs one snapshot: fetch every source, build the report, write it.
type Collector struct {
	binance   *source.BinanceSource
	bybit     *source.BybitSource
	coinglass *source.CoinglassSource

	sink         *sink.FileSink
	metrics      *metrics.Recorder
	textfilePath string

	now    func() time.Time
	logger *zap.Logger
}

// Option customises a Collector.
type Option func(*Collector)

// WithClock replaces time.Now as the snapshot timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) { c.now = now }
}

// WithRecorder shares a metrics recorder instead of creating a fresh one.
func WithRecorder(r *metrics.Recorder) Option {
	return func(c *Collector) { c.metrics = r }
}

// New wires the exchange clients, sources and sink from cfg. apiKey is the
// resolved Coinglass credential; an empty key degrades that source only.
func New(cfg *config.Config, apiKey string, fs afero.Fs, logger *zap.Logger, opts ...Option) (*Collector, error) {
	src := cfg.Sources

	category, err := bybit.ParseCategory(cfg.Bybit.Category)
	if err != nil {
		return nil, fmt.Errorf("bybit category: %w", err)
	}
	oiInterval, err := bybit.ParseIntervalTime(cfg.Bybit.OIInterval)
	if err != nil {
		return nil, fmt.Errorf("bybit open interest interval: %w", err)
	}

	binanceClient := binance.NewRESTClient(src.Binance.BaseURL, src.Binance.Timeout)
	bybitClient := bybit.NewRESTClient(src.Bybit.BaseURL, src.Bybit.Timeout)
	coinglassClient := coinglass.NewRESTClient(src.Coinglass.BaseURL, apiKey, src.Coinglass.Timeout)

	c := &Collector{
		binance:      source.NewBinanceSource(binanceClient, cfg.Symbol.Binance, src.Binance.Timeout, logger),
		bybit:        source.NewBybitSource(bybitClient, category, oiInterval, cfg.Symbol.Bybit, src.Bybit.Timeout, logger),
		coinglass:    source.NewCoinglassSource(coinglassClient, cfg.Symbol.Coinglass, src.Coinglass.Timeout, logger),
		sink:         sink.NewFileSink(fs, cfg.Output.Path),
		textfilePath: cfg.Metrics.TextfilePath,
		now:          time.Now,
		logger:       logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.metrics == nil {
		c.metrics = metrics.New()
	}
	return c, nil
}

// Gather queries all sources concurrently. Sources never fail; a broken one
// comes back degraded with its fallback values.
func (c *Collector) Gather(ctx context.Context) report.Input {
	var in report.Input

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		in.Market = c.binance.Market(ctx)
		return nil
	})
	g.Go(func() error {
		in.Trend = c.binance.Trend(ctx)
		return nil
	})
	g.Go(func() error {
		in.Derivatives = c.bybit.Derivatives(ctx)
		return nil
	})
	g.Go(func() error {
		in.Liquidations = c.coinglass.Liquidations(ctx)
		return nil
	})
	_ = g.Wait()

	return in
}

// Run produces and writes one snapshot. The only error is a failed write.
func (c *Collector) Run(ctx context.Context) (report.Document, error) {
	start := time.Now()

	in := c.Gather(ctx)
	at := c.now()
	snap := report.Compose(in, at)
	doc := report.Render(snap)

	if err := c.sink.Write(doc); err != nil {
		return report.Document{}, fmt.Errorf("write snapshot: %w", err)
	}

	took := time.Since(start)
	c.record(snap, at, took)

	if degraded := snap.Degraded(); len(degraded) > 0 {
		c.logger.Warn("snapshot written with fallback values",
			zap.String("path", c.sink.Path()),
			zap.Strings("degraded", degraded),
			zap.Duration("took", took))
	} else {
		c.logger.Info("snapshot written",
			zap.String("path", c.sink.Path()),
			zap.Float64("price", snap.CurrentPrice),
			zap.Duration("took", took))
	}
	return doc, nil
}

func (c *Collector) record(snap report.Snapshot, at time.Time, took time.Duration) {
	for _, s := range snap.Sources {
		c.metrics.RecordSource(s.Name, s.Status == source.StatusDegraded)
	}

	ratio := indicator.VolatilityRatio(snap.ATR, snap.CurrentPrice)
	c.metrics.RecordRun(at, took, snap.CurrentPrice, ratio)

	if c.textfilePath == "" {
		return
	}
	// metrics are best effort; the snapshot is already on disk
	if err := c.metrics.WriteTextfile(c.textfilePath); err != nil {
		c.logger.Warn("failed to export metrics", zap.String("path", c.textfilePath), zap.Error(err))
	}
}
