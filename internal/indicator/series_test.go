package indicator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vsantana/radarbdr/internal/contracts"
)

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := SMA(values, 3)

	assert.False(t, contracts.Defined(out[0]))
	assert.False(t, contracts.Defined(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-9)
	assert.InDelta(t, 3.0, out[3], 1e-9)
	assert.InDelta(t, 4.0, out[4], 1e-9)
}

func TestSMA_ShortSeries(t *testing.T) {
	out := SMA([]float64{1, 2}, 3)
	for _, v := range out {
		assert.False(t, contracts.Defined(v), "incomplete window must be undefined")
	}
}

func TestEMA_SeededWithSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	out := EMA(values, 3)

	assert.False(t, contracts.Defined(out[1]))
	assert.InDelta(t, 2.0, out[2], 1e-9) // seed = SMA(1,2,3)

	// next: 4*0.5 + 2*0.5 = 3
	assert.InDelta(t, 3.0, out[3], 1e-9)
	assert.InDelta(t, 4.0, out[4], 1e-9)
}

func TestRollingStd_Sample(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	out := RollingStd(values, 8)

	// sample stddev (ddof=1) of the whole set
	assert.InDelta(t, 2.13809, out[7], 1e-4)
}

func TestRSI_Bounds(t *testing.T) {
	values := []float64{50, 51, 49, 52, 48, 53, 47, 54, 46, 55, 45, 56, 44, 57, 43, 58}
	out := RSI(values, 14)

	for i, v := range out {
		if !contracts.Defined(v) {
			continue
		}
		assert.GreaterOrEqual(t, v, 0.0, "index %d", i)
		assert.LessOrEqual(t, v, 100.0, "index %d", i)
	}
}

func TestRSI_MonotoneUp(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 100 + float64(i)
	}
	out := RSI(values, 14)

	assert.Equal(t, 100.0, out[len(out)-1], "strictly increasing series must drive RSI to 100")
}

func TestRSI_MonotoneDown(t *testing.T) {
	values := make([]float64, 30)
	for i := range values {
		values[i] = 100 - float64(i)
	}
	out := RSI(values, 14)

	assert.Equal(t, 0.0, out[len(out)-1], "strictly decreasing series must drive RSI to 0")
}

func TestRSI_FlatSeries(t *testing.T) {
	values := make([]float64, 20)
	for i := range values {
		values[i] = 42
	}
	out := RSI(values, 14)

	assert.Equal(t, 50.0, out[len(out)-1], "flat window resolves to neutral")
}

func TestRSI_InsufficientHistory(t *testing.T) {
	out := RSI([]float64{1, 2, 3}, 14)
	for _, v := range out {
		assert.False(t, contracts.Defined(v))
	}
}

func TestStochK(t *testing.T) {
	highs := []float64{10, 11, 12, 13, 14}
	lows := []float64{8, 9, 10, 11, 12}
	closes := []float64{9, 10, 11, 12, 13}

	out := StochK(highs, lows, closes, 3)

	assert.False(t, contracts.Defined(out[1]))
	// window [2..4]: max high 14, min low 10, close 13 -> 75
	assert.InDelta(t, 75.0, out[4], 1e-9)
}

func TestStochK_FlatWindowUndefined(t *testing.T) {
	flat := []float64{5, 5, 5, 5}
	out := StochK(flat, flat, flat, 3)
	for _, v := range out {
		assert.False(t, contracts.Defined(v), "zero span has no oscillator value")
	}
}

func TestRollingMaxMin(t *testing.T) {
	values := []float64{3, 1, 4, 1, 5}

	maxOut := RollingMax(values, 3)
	minOut := RollingMin(values, 3)

	assert.InDelta(t, 4.0, maxOut[2], 1e-9)
	assert.InDelta(t, 5.0, maxOut[4], 1e-9)
	assert.InDelta(t, 1.0, minOut[2], 1e-9)
	assert.InDelta(t, 1.0, minOut[4], 1e-9)
}

func TestMACDHistogram(t *testing.T) {
	values := make([]float64, 60)
	for i := range values {
		values[i] = 100 + float64(i)*0.5
	}
	out := MACDHistogram(values)

	assert.False(t, contracts.Defined(out[25]), "signal line needs nine MACD values")
	assert.True(t, contracts.Defined(out[33]))
	assert.True(t, contracts.Defined(out[59]))

	// steady uptrend: histogram settles near zero but stays finite
	assert.False(t, math.IsInf(out[59], 0))
}

func TestMACDHistogram_ShortSeries(t *testing.T) {
	out := MACDHistogram([]float64{1, 2, 3})
	for _, v := range out {
		assert.False(t, contracts.Defined(v))
	}
}

func TestPctChange(t *testing.T) {
	out := PctChange([]float64{100, 95, 114})

	assert.False(t, contracts.Defined(out[0]))
	assert.InDelta(t, -0.05, out[1], 1e-9)
	assert.InDelta(t, 0.2, out[2], 1e-9)
}

func TestPctChange_ZeroBase(t *testing.T) {
	out := PctChange([]float64{0, 10})
	assert.False(t, contracts.Defined(out[1]), "division by zero stays undefined")
}

func TestBollingerZeroVolatility(t *testing.T) {
	// constant close: bands collapse onto the SMA
	values := make([]float64, 25)
	for i := range values {
		values[i] = 80
	}

	sma := SMA(values, 20)
	std := RollingStd(values, 20)

	last := len(values) - 1
	assert.InDelta(t, 80.0, sma[last], 1e-9)
	assert.InDelta(t, 0.0, std[last], 1e-9)

	upper := sma[last] + 2*std[last]
	lower := sma[last] - 2*std[last]
	assert.Equal(t, upper, lower, "zero volatility must give zero band width")
}
