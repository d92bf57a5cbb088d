package contracts

import "time"

// Strategy identifies which filter branch produced a signal
type Strategy string

const (
	StrategyDecline   Strategy = "decline"
	StrategyFibonacci Strategy = "fibonacci"
	StrategyDonchian  Strategy = "donchian"
)

// Ranking priority per strategy. Non-decline strategies surface above plain
// declines regardless of magnitude; decline is the tie-break.
const (
	PriorityFibonacci = 6
	PriorityDonchian  = 5
	PriorityDecline   = 0
)

// Classification labels. Decline signals use the additive score bands from
// the swing-trade setup; strategy signals carry their own label.
const (
	LabelGold       = "Ouro"
	LabelSilver     = "Prata"
	LabelBronze     = "Bronze"
	LabelNeutral    = "Neutro"
	LabelGoldenZone = "Golden Zone"
	LabelBreakout   = "Breakout"
)

// Signal is the classification outcome for one symbol at one point in time
type Signal struct {
	Ticker   string   `json:"ticker"`
	Name     string   `json:"name"`
	Strategy Strategy `json:"strategy"`

	Price     float64 `json:"price"`
	Volume    int64   `json:"volume"`
	ChangeDay float64 `json:"change_day"` // fraction, negative on falls

	// Oversold index: ((100-RSI)+(100-%K))/2, neutral 50 substituted
	// for undefined inputs
	OversoldIndex float64 `json:"oversold_index"`
	DistSMA200    float64 `json:"dist_sma200"` // fraction, 0 when SMA200 undefined
	RSI14         float64 `json:"rsi14"`

	Score     int      `json:"score"`
	Priority  int      `json:"priority"`
	Label     string   `json:"label"`
	Rationale []string `json:"rationale"`
	TrendUp   bool     `json:"trend_up"` // close above the long moving average

	At time.Time `json:"at"`
}

// ScanConfig is the runtime criteria for one classifier pass
type ScanConfig struct {
	DeclineThreshold float64 `json:"decline_threshold"` // inclusive, e.g. -0.03
	RequireBollinger bool    `json:"require_bollinger"`
	EnableFibonacci  bool    `json:"enable_fibonacci"`
	EnableDonchian   bool    `json:"enable_donchian"`
	MinHistoryBars   int     `json:"min_history_bars"`
}

// ScanResult is the outcome of one full pipeline pass.
// An empty Signals slice with ProviderDown=false means "no opportunities",
// a valid terminal state distinct from a provider outage.
type ScanResult struct {
	At           time.Time  `json:"at"`
	Config       ScanConfig `json:"config"`
	UniverseSize int        `json:"universe_size"`
	Analyzed     int        `json:"analyzed"`
	Skipped      int        `json:"skipped"`
	Signals      []Signal   `json:"signals"`
	ProviderDown bool       `json:"provider_down"`
}

// TrendCount returns how many signals follow the long-trend setup
func (r *ScanResult) TrendCount() int {
	n := 0
	for _, s := range r.Signals {
		if s.TrendUp {
			n++
		}
	}
	return n
}

// Top returns the first n signals in ranked order
func (r *ScanResult) Top(n int) []Signal {
	if n > len(r.Signals) {
		n = len(r.Signals)
	}
	return r.Signals[:n]
}
