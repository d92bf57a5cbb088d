package indicator

import (
	"github.com/vsantana/radarbdr/internal/contracts"
)

// Golden-zone detection parameters
const (
	fibTopWindow    = 20   // bars scanned for the swing top
	fibBottomWindow = 60   // bars before the top scanned for the swing bottom
	fibMinAmplitude = 0.08 // minimum swing, fraction of the bottom price
	fibZoneSlack    = 0.01 // tolerance applied to the zone bounds
)

// GoldenZone locates the most recent swing and checks whether today's low
// sits inside the 50%-61.8% retracement band of that swing.
//
// The swing top is the highest high of the last fibTopWindow bars; the swing
// bottom is the lowest low of the fibBottomWindow bars strictly before the
// top. Sideways noise is rejected by requiring the latest close above its
// EMA50 and a swing amplitude of at least fibMinAmplitude.
// Returns nil when the series does not qualify for the setup at all.
func GoldenZone(bars contracts.History, ema50 []float64) *contracts.FibZone {
	n := len(bars)
	if n < fibTopWindow+2 || len(ema50) != n {
		return nil
	}

	// Uptrend filter
	lastClose := bars[n-1].Close
	lastEMA := ema50[n-1]
	if !contracts.Defined(lastEMA) || lastClose <= lastEMA {
		return nil
	}

	// Swing top: highest high of the most recent window
	topIdx := n - fibTopWindow
	for i := topIdx + 1; i < n; i++ {
		if bars[i].High > bars[topIdx].High {
			topIdx = i
		}
	}
	if topIdx == 0 {
		return nil // no room for a bottom strictly before the top
	}

	// Swing bottom: lowest low strictly before the top
	start := topIdx - fibBottomWindow
	if start < 0 {
		start = 0
	}
	bottomIdx := start
	for i := start + 1; i < topIdx; i++ {
		if bars[i].Low < bars[bottomIdx].Low {
			bottomIdx = i
		}
	}

	top := bars[topIdx].High
	bottom := bars[bottomIdx].Low
	if bottom <= 0 || (top-bottom)/bottom < fibMinAmplitude {
		return nil
	}

	diff := top - bottom
	zone := &contracts.FibZone{
		SwingTop:    top,
		SwingBottom: bottom,
		Level50:     top - diff*0.500,
		Level618:    top - diff*0.618,
	}

	low := bars[n-1].Low
	zone.Matched = low >= zone.Level618*(1-fibZoneSlack) && low <= zone.Level50*(1+fibZoneSlack)
	return zone
}

// FullRangeLevel618 computes the 61.8% retracement level of the whole
// history's high/low range, used by the additive scoring as a support check.
func FullRangeLevel618(bars contracts.History) float64 {
	if len(bars) < 50 {
		return contracts.Undefined()
	}

	high := bars[0].High
	low := bars[0].Low
	for _, b := range bars[1:] {
		if b.High > high {
			high = b.High
		}
		if b.Low < low {
			low = b.Low
		}
	}
	return low + (high-low)*0.618
}
