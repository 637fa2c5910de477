// Package metrics records per-run gauges and exports them in the Prometheus
// text format for node_exporter's textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the run gauges on a private registry.
type Recorder struct {
	registry        *prometheus.Registry
	sourceDegraded  *prometheus.GaugeVec
	runDuration     prometheus.Gauge
	lastPrice       prometheus.Gauge
	volatilityRatio prometheus.Gauge
	lastRun         prometheus.Gauge
}

// New creates a recorder with all gauges registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		sourceDegraded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "btcfeed_source_degraded",
				Help: "1 when the source's fields were replaced by fallback values in the last run",
			},
			[]string{"source"},
		),
		runDuration: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "btcfeed_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
		lastPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "btcfeed_last_price",
			Help: "Latest close rendered into the snapshot",
		}),
		volatilityRatio: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "btcfeed_volatility_ratio",
			Help: "ATR divided by the latest price",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "btcfeed_last_run_timestamp_seconds",
			Help: "Unix time the last snapshot was written",
		}),
	}

	r.registry.MustRegister(r.sourceDegraded, r.runDuration, r.lastPrice, r.volatilityRatio, r.lastRun)
	return r
}

// RecordSource sets the degraded flag for one source.
func (r *Recorder) RecordSource(name string, degraded bool) {
	v := 0.0
	if degraded {
		v = 1
	}
	r.sourceDegraded.WithLabelValues(name).Set(v)
}

// RecordRun stores the outcome of a completed run.
func (r *Recorder) RecordRun(at time.Time, took time.Duration, price, volatilityRatio float64) {
	r.runDuration.Set(took.Seconds())
	r.lastPrice.Set(price)
	r.volatilityRatio.Set(volatilityRatio)
	r.lastRun.Set(float64(at.Unix()))
}

// WriteTextfile atomically writes every gauge to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
