package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimestampLayout is the header's time format; the header is the only line that
// differs between runs over identical inputs.
const TimestampLayout = "2006-01-02 15:04:05 UTC"

// HeaderPrefix starts the first line of every document.
const HeaderPrefix = "# BTC Data Feed - Updated: "

// Document is a rendered snapshot. It is not modified after Render returns.
type Document struct {
	body string
}

// Bytes returns a copy of the document contents.
func (d Document) Bytes() []byte { return []byte(d.body) }

func (d Document) String() string { return d.body }

// Build composes and renders in one step.
func Build(in Input, t time.Time) Document {
	return Render(Compose(in, t))
}

func list(values []float64, places int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'f', places, 64)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Render writes the snapshot as fixed-label lines. Line order, labels and
// decimal places are what downstream readers match on.
func Render(s Snapshot) Document {
	var b strings.Builder

	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("%s%s", HeaderPrefix, s.Timestamp.UTC().Format(TimestampLayout))
	line("current_price = %.3f", s.CurrentPrice)
	line("current_ema20 = %.3f", s.EMA20)
	line("current_macd = %.3f", s.MACD)
	line("current_rsi (7 period) = %.3f", s.RSI7)
	line("")
	line("In addition, here is the latest BTC open interest and funding rate for perps (the instrument you are trading):")
	line("Open Interest: Latest: %.2f Average: %.2f", s.OpenInterest, s.OpenInterestAverage)
	line("Funding Rate: %.8f", s.FundingRate)
	line("")
	line("Intraday series (by minute, oldest → latest):")
	line("Mid prices: %s", list(s.Prices, 3))
	line("EMA indicators (20‑period): %s", list(s.EMA20Series, 3))
	line("MACD indicators: %s", list(s.MACDSeries, 3))
	line("RSI indicators (7‑Period): %s", list(s.RSI7Series, 3))
	line("")
	line("Longer‑term context (4‑hour timeframe):")
	line("20‑Period EMA: %.3f vs. 50‑Period EMA: %.3f", s.TrendEMA20, s.TrendEMA50)
	line("3‑Period ATR: %.3f vs. 14‑Period ATR: %.3f", s.ATR3, s.ATR)
	line("Current Volume: %.3f vs. Average Volume: %.3f", s.CurrentVolume, s.AverageVolume)
	line("")
	line("# HIGH-IMPACT ADDITIONS:")
	line("Order Book Imbalance (top 5 levels): bid_vol = %.1f, ask_vol = %.1f → imbalance = %.4f",
		s.BidVolume, s.AskVolume, s.Imbalance)
	line("1H Aggressive Buy Volume: %.1f BTC (%.1f%% of total)", s.TakerBuyVolume, s.TakerBuyShare)
	line("Major Liquidation Zones: Longs = %s, Shorts = %s",
		list(s.LongLevels[:], 1), list(s.ShortLevels[:], 1))
	line("Volatility Regime: %q (1H ATR = %.1f)", string(s.Regime), s.ATR)

	statuses := make([]string, len(s.Sources))
	for i, src := range s.Sources {
		statuses[i] = src.Name + "=" + src.Status.String()
	}
	line("Source Status: %s", strings.Join(statuses, " "))

	return Document{body: b.String()}
}
