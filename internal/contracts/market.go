package contracts

import "time"

// CatalogEntry is one row of the raw instrument catalog as returned by the
// universe source. Ticker is a stable, non-empty identifier; Name may be empty.
type CatalogEntry struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
}

// Symbol is a resolved tradable instrument
type Symbol struct {
	Ticker string `json:"ticker"`
	Name   string `json:"name"` // display name, falls back to ticker
}

// PriceBar is one trading day for one symbol
type PriceBar struct {
	Date   time.Time `json:"date"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}

// History is an ordered-by-date sequence of price bars for one symbol,
// ascending, with no duplicate dates.
type History []PriceBar

// Len returns the number of bars
func (h History) Len() int {
	return len(h)
}

// Last returns the most recent bar
func (h History) Last() (PriceBar, bool) {
	if len(h) == 0 {
		return PriceBar{}, false
	}
	return h[len(h)-1], true
}

// Closes extracts the close series
func (h History) Closes() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high series
func (h History) Highs() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low series
func (h History) Lows() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts the volume series as floats for rolling averages
func (h History) Volumes() []float64 {
	out := make([]float64, len(h))
	for i, b := range h {
		out[i] = float64(b.Volume)
	}
	return out
}
