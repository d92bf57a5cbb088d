package indicator

import (
	"math"

	"github.com/vsantana/radarbdr/internal/contracts"
)

// Rolling primitives over daily series. Every function returns a slice
// aligned with its input; positions whose trailing window is not yet full
// hold contracts.Undefined().

// SMA computes a simple moving average
func SMA(values []float64, period int) []float64 {
	out := undefinedSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var sum float64
	for i, v := range values {
		sum += v
		if i >= period {
			sum -= values[i-period]
		}
		if i >= period-1 {
			out[i] = sum / float64(period)
		}
	}
	return out
}

// RollingStd computes a rolling sample standard deviation (ddof=1)
func RollingStd(values []float64, period int) []float64 {
	out := undefinedSlice(len(values))
	if period <= 1 || len(values) < period {
		return out
	}

	for i := period - 1; i < len(values); i++ {
		window := values[i-period+1 : i+1]

		var mean float64
		for _, v := range window {
			mean += v
		}
		mean /= float64(period)

		var ss float64
		for _, v := range window {
			d := v - mean
			ss += d * d
		}
		out[i] = math.Sqrt(ss / float64(period-1))
	}
	return out
}

// EMA computes an exponential moving average seeded with the SMA of the
// first window, multiplier 2/(period+1)
func EMA(values []float64, period int) []float64 {
	out := undefinedSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}

	var seed float64
	for i := 0; i < period; i++ {
		seed += values[i]
	}
	seed /= float64(period)
	out[period-1] = seed

	multiplier := 2.0 / (float64(period) + 1.0)
	ema := seed
	for i := period; i < len(values); i++ {
		ema = values[i]*multiplier + ema*(1-multiplier)
		out[i] = ema
	}
	return out
}

// RSI computes the relative strength index using the rolling-mean variant:
// simple averages of gains and losses over the window.
// Degenerate windows resolve to the bounded extremes: all-gain 100,
// all-loss 0, flat 50.
func RSI(values []float64, period int) []float64 {
	out := undefinedSlice(len(values))
	if period <= 0 || len(values) < period+1 {
		return out
	}

	gains := make([]float64, len(values))
	losses := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		delta := values[i] - values[i-1]
		if delta > 0 {
			gains[i] = delta
		} else {
			losses[i] = -delta
		}
	}

	var gainSum, lossSum float64
	for i := 1; i < len(values); i++ {
		gainSum += gains[i]
		lossSum += losses[i]
		if i > period {
			gainSum -= gains[i-period]
			lossSum -= losses[i-period]
		}
		if i < period {
			continue
		}

		avgGain := gainSum / float64(period)
		avgLoss := lossSum / float64(period)

		switch {
		case avgLoss == 0 && avgGain == 0:
			out[i] = 50.0
		case avgLoss == 0:
			out[i] = 100.0
		default:
			rs := avgGain / avgLoss
			out[i] = 100.0 - 100.0/(1.0+rs)
		}
	}
	return out
}

// StochK computes the stochastic %K oscillator:
// 100 * (close - rolling min low) / (rolling max high - rolling min low)
func StochK(highs, lows, closes []float64, period int) []float64 {
	out := undefinedSlice(len(closes))
	if period <= 0 || len(closes) < period {
		return out
	}

	maxHigh := RollingMax(highs, period)
	minLow := RollingMin(lows, period)

	for i := period - 1; i < len(closes); i++ {
		span := maxHigh[i] - minLow[i]
		if span == 0 {
			// flat window, oscillator undefined
			continue
		}
		out[i] = 100.0 * (closes[i] - minLow[i]) / span
	}
	return out
}

// RollingMax computes a rolling maximum
func RollingMax(values []float64, period int) []float64 {
	out := undefinedSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		m := values[i-period+1]
		for _, v := range values[i-period+2 : i+1] {
			if v > m {
				m = v
			}
		}
		out[i] = m
	}
	return out
}

// RollingMin computes a rolling minimum
func RollingMin(values []float64, period int) []float64 {
	out := undefinedSlice(len(values))
	if period <= 0 || len(values) < period {
		return out
	}
	for i := period - 1; i < len(values); i++ {
		m := values[i-period+1]
		for _, v := range values[i-period+2 : i+1] {
			if v < m {
				m = v
			}
		}
		out[i] = m
	}
	return out
}

// MACDHistogram computes MACD(12,26) minus its EMA9 signal line
func MACDHistogram(closes []float64) []float64 {
	out := undefinedSlice(len(closes))
	if len(closes) < 26 {
		return out
	}

	ema12 := EMA(closes, 12)
	ema26 := EMA(closes, 26)

	macd := make([]float64, 0, len(closes))
	offset := 25 // first index where ema26 is defined
	for i := offset; i < len(closes); i++ {
		macd = append(macd, ema12[i]-ema26[i])
	}

	signal := EMA(macd, 9)
	for i, s := range signal {
		if contracts.Defined(s) {
			out[offset+i] = macd[i] - s
		}
	}
	return out
}

// PctChange computes the day-over-day fractional change
func PctChange(values []float64) []float64 {
	out := undefinedSlice(len(values))
	for i := 1; i < len(values); i++ {
		if values[i-1] == 0 {
			continue
		}
		out[i] = (values[i] - values[i-1]) / values[i-1]
	}
	return out
}

func undefinedSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = contracts.Undefined()
	}
	return out
}
