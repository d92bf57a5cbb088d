package indicator

import (
	"time"

	"github.com/vsantana/radarbdr/internal/contracts"
)

// donchianWeeks is the channel length in weeks
const donchianWeeks = 10

// weeklyBar is a Friday-anchored weekly aggregate
type weeklyBar struct {
	weekEnd time.Time
	high    float64
	close   float64
}

// weekEnding returns the Friday that closes the trading week of d.
// Weekend dates roll forward to the next Friday.
func weekEnding(d time.Time) time.Time {
	day := d.Truncate(24 * time.Hour)
	offset := (int(time.Friday) - int(day.Weekday()) + 7) % 7
	return day.AddDate(0, 0, offset)
}

// resampleWeekly folds daily bars into weekly bars (max high, last close).
// Input is ascending by date, so each week's last daily bar wins the close.
func resampleWeekly(bars contracts.History) []weeklyBar {
	var weeks []weeklyBar
	for _, b := range bars {
		end := weekEnding(b.Date)
		if len(weeks) > 0 && weeks[len(weeks)-1].weekEnd.Equal(end) {
			w := &weeks[len(weeks)-1]
			if b.High > w.high {
				w.high = b.High
			}
			w.close = b.Close
			continue
		}
		weeks = append(weeks, weeklyBar{weekEnd: end, high: b.High, close: b.Close})
	}
	return weeks
}

// DonchianBreakout reports whether the latest weekly close exceeds the
// rolling 10-week maximum of weekly highs, shifted one week so the current
// week never competes against itself.
func DonchianBreakout(bars contracts.History) bool {
	weeks := resampleWeekly(bars)
	if len(weeks) < donchianWeeks+1 {
		return false
	}

	last := weeks[len(weeks)-1]
	channel := weeks[len(weeks)-1-donchianWeeks : len(weeks)-1]

	maxHigh := channel[0].high
	for _, w := range channel[1:] {
		if w.high > maxHigh {
			maxHigh = w.high
		}
	}

	return last.close > maxHigh
}
