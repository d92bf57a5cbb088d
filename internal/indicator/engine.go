package indicator

import (
	"context"
	"fmt"

	"github.com/vsantana/radarbdr/internal/contracts"
	"github.com/vsantana/radarbdr/pkg/logger"
)

// Indicator windows
const (
	rsiPeriod       = 14
	stochPeriod     = 14
	bollingerPeriod = 20
	bollingerSigma  = 2.0
	emaShortPeriod  = 20
	emaTrendPeriod  = 50
	smaLongPeriod   = 200
	avgVolPeriod    = 10
)

// Engine computes derived per-day metrics for every ticker.
// Technical indicator computation lives here and nowhere else.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new indicator engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// Compute augments one symbol's history with indicator rows.
// The history must be ascending by date with no duplicate dates.
func (e *Engine) Compute(ctx context.Context, ticker string, bars contracts.History) (*contracts.IndicatorSeries, error) {
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %w", ticker, contracts.ErrInsufficientHistory)
	}
	for i := 1; i < len(bars); i++ {
		if !bars[i].Date.After(bars[i-1].Date) {
			return nil, fmt.Errorf("%s: history not strictly ascending at index %d", ticker, i)
		}
	}

	closes := bars.Closes()
	highs := bars.Highs()
	lows := bars.Lows()
	volumes := bars.Volumes()

	rsi := RSI(closes, rsiPeriod)
	stoch := StochK(highs, lows, closes, stochPeriod)
	ema20 := EMA(closes, emaShortPeriod)
	ema50 := EMA(closes, emaTrendPeriod)
	sma200 := SMA(closes, smaLongPeriod)
	sma20 := SMA(closes, bollingerPeriod)
	std20 := RollingStd(closes, bollingerPeriod)
	macdHist := MACDHistogram(closes)
	pctChange := PctChange(closes)
	avgVol := SMA(volumes, avgVolPeriod)

	rows := make([]contracts.IndicatorRow, len(bars))
	for i := range bars {
		row := contracts.IndicatorRow{
			RSI14:     rsi[i],
			StochK:    stoch[i],
			EMA20:     ema20[i],
			EMA50:     ema50[i],
			SMA200:    sma200[i],
			BBUpper:   contracts.Undefined(),
			BBLower:   contracts.Undefined(),
			MACDHist:  macdHist[i],
			PctChange: pctChange[i],
			AvgVol10:  avgVol[i],
		}
		if contracts.Defined(sma20[i]) && contracts.Defined(std20[i]) {
			row.BBUpper = sma20[i] + bollingerSigma*std20[i]
			row.BBLower = sma20[i] - bollingerSigma*std20[i]
		}
		rows[i] = row
	}

	return &contracts.IndicatorSeries{
		Ticker:           ticker,
		Bars:             bars,
		Rows:             rows,
		Fib:              GoldenZone(bars, ema50),
		DonchianBreakout: DonchianBreakout(bars),
		FibRange618:      FullRangeLevel618(bars),
	}, nil
}

// ComputeBatch runs Compute for every symbol, skipping failures.
// One malformed series never aborts the batch: the symbol is dropped,
// logged and counted, and processing continues.
func (e *Engine) ComputeBatch(ctx context.Context, histories map[string]contracts.History) ([]*contracts.IndicatorSeries, int) {
	out := make([]*contracts.IndicatorSeries, 0, len(histories))
	skipped := 0

	for ticker, bars := range histories {
		series, err := e.computeSafe(ctx, ticker, bars)
		if err != nil {
			skipped++
			e.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"bars":   len(bars),
				"error":  err.Error(),
			}).Warn("Skipping symbol: indicator computation failed")
			continue
		}
		out = append(out, series)
	}

	e.logger.WithFields(map[string]interface{}{
		"computed": len(out),
		"skipped":  skipped,
	}).Debug("Indicator batch completed")

	return out, skipped
}

// computeSafe contains panics from degenerate numeric input
func (e *Engine) computeSafe(ctx context.Context, ticker string, bars contracts.History) (series *contracts.IndicatorSeries, err error) {
	defer func() {
		if r := recover(); r != nil {
			series = nil
			err = fmt.Errorf("%s: computation panic: %v", ticker, r)
		}
	}()
	return e.Compute(ctx, ticker, bars)
}
