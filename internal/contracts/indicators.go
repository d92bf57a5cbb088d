package contracts

import "math"

// Undefined is the sentinel for an indicator whose trailing window is not
// yet full. No indicator is ever reported from an incomplete window.
func Undefined() float64 {
	return math.NaN()
}

// Defined reports whether an indicator value is usable
func Defined(v float64) bool {
	return !math.IsNaN(v)
}

// IndicatorRow is the derived per-(symbol, date) record. Fields are
// Undefined() (NaN) wherever fewer prior bars exist than the window needs,
// so rows must never be serialized directly; signals carry the safe values.
type IndicatorRow struct {
	RSI14     float64 // relative strength index, rolling-mean variant
	StochK    float64 // stochastic %K(14)
	EMA20     float64
	EMA50     float64
	SMA200    float64
	BBUpper   float64 // Bollinger upper band (20, +2 sigma)
	BBLower   float64 // Bollinger lower band (20, -2 sigma)
	MACDHist  float64 // MACD(12,26) minus its EMA9 signal
	PctChange float64 // day-over-day close change, fraction
	AvgVol10  float64 // 10-period average volume
}

// FibZone is the golden-zone detection result for the latest bar
type FibZone struct {
	SwingTop    float64 `json:"swing_top"`
	SwingBottom float64 `json:"swing_bottom"`
	Level50     float64 `json:"level_50"`  // 50.0% retracement price
	Level618    float64 `json:"level_618"` // 61.8% retracement price
	Matched     bool    `json:"matched"`   // today's low inside the zone
}

// IndicatorSeries is one symbol's history augmented with indicator rows,
// aligned by index with the bars.
type IndicatorSeries struct {
	Ticker string
	Bars   History
	Rows   []IndicatorRow

	// Strategy extras computed on the latest bar
	Fib              *FibZone // nil when the swing filter rejects the series
	DonchianBreakout bool
	FibRange618      float64 // 61.8% retracement of the full-history range, Undefined() when unavailable
}

// Latest returns the most recent bar with its indicator row
func (s *IndicatorSeries) Latest() (PriceBar, IndicatorRow, bool) {
	if len(s.Bars) == 0 || len(s.Rows) != len(s.Bars) {
		return PriceBar{}, IndicatorRow{}, false
	}
	n := len(s.Bars) - 1
	return s.Bars[n], s.Rows[n], true
}

// Previous returns the bar before the latest one
func (s *IndicatorSeries) Previous() (PriceBar, bool) {
	if len(s.Bars) < 2 {
		return PriceBar{}, false
	}
	return s.Bars[len(s.Bars)-2], true
}
