package signal

import (
	"time"

	"github.com/vsantana/radarbdr/internal/contracts"
	"github.com/vsantana/radarbdr/internal/universe"
	"github.com/vsantana/radarbdr/pkg/logger"
)

// Near-band tolerance for the "Suporte BB" score factor: close within 2%
// above the lower band still counts as sitting on support.
const bbSupportSlack = 1.02

// Full-range retracement tolerance for the "Suporte Fibo" factor
const fibSupportSlack = 0.01

// Classifier turns the latest indicator row of each symbol into signals.
// It is a pure function of (series, names, config): no state survives a pass.
type Classifier struct {
	logger *logger.Logger
}

// NewClassifier creates a new signal classifier
func NewClassifier(log *logger.Logger) *Classifier {
	return &Classifier{logger: log}
}

// Classify evaluates every series against the configured strategy and returns
// the qualifying signals, unranked, plus the number of symbols skipped on
// unexpected failures. Symbols that simply do not qualify are not skips.
func (c *Classifier) Classify(at time.Time, series []*contracts.IndicatorSeries, names map[string]string, cfg contracts.ScanConfig) ([]contracts.Signal, int) {
	signals := make([]contracts.Signal, 0, len(series))
	skipped := 0

	for _, s := range series {
		sig, ok := c.classifySafe(at, s, names, cfg)
		if !ok {
			skipped++
			continue
		}
		if sig != nil {
			signals = append(signals, *sig)
		}
	}

	return signals, skipped
}

// classifySafe contains a panic on one symbol so a malformed series cannot
// abort the batch
func (c *Classifier) classifySafe(at time.Time, s *contracts.IndicatorSeries, names map[string]string, cfg contracts.ScanConfig) (sig *contracts.Signal, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ticker := ""
			if s != nil {
				ticker = s.Ticker
			}
			c.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"panic":  r,
			}).Warn("Skipping symbol: classification panicked")
			sig, ok = nil, false
		}
	}()
	return c.classify(at, s, names, cfg), true
}

func (c *Classifier) classify(at time.Time, s *contracts.IndicatorSeries, names map[string]string, cfg contracts.ScanConfig) *contracts.Signal {
	if s.Bars.Len() < cfg.MinHistoryBars {
		return nil
	}

	bar, row, ok := s.Latest()
	if !ok {
		return nil
	}
	prev, ok := s.Previous()
	if !ok || prev.Close <= 0 {
		return nil
	}

	changeDay := (bar.Close - prev.Close) / prev.Close

	sig := &contracts.Signal{
		Ticker:        s.Ticker,
		Name:          universe.ShortName(names[s.Ticker], s.Ticker),
		Price:         bar.Close,
		Volume:        bar.Volume,
		ChangeDay:     changeDay,
		OversoldIndex: oversoldIndex(row),
		DistSMA200:    distSMA200(bar.Close, row.SMA200),
		RSI14:         valueOrNeutral(row.RSI14),
		TrendUp:       contracts.Defined(row.SMA200) && bar.Close > row.SMA200,
		At:            at,
	}

	switch {
	case cfg.EnableFibonacci:
		if s.Fib == nil || !s.Fib.Matched {
			return nil
		}
		sig.Strategy = contracts.StrategyFibonacci
		sig.Priority = contracts.PriorityFibonacci
		sig.Score = contracts.PriorityFibonacci
		sig.Label = contracts.LabelGoldenZone
		sig.Rationale = append(trendRationale(row, bar.Close), "Pullback Golden Zone")

	case cfg.EnableDonchian:
		if !s.DonchianBreakout {
			return nil
		}
		sig.Strategy = contracts.StrategyDonchian
		sig.Priority = contracts.PriorityDonchian
		sig.Score = contracts.PriorityDonchian
		sig.Label = contracts.LabelBreakout
		sig.Rationale = append(trendRationale(row, bar.Close), "Rompimento Semanal")

	default:
		if changeDay > cfg.DeclineThreshold {
			return nil
		}
		if cfg.RequireBollinger {
			if !contracts.Defined(row.BBLower) || bar.Low >= row.BBLower {
				return nil
			}
		}
		sig.Strategy = contracts.StrategyDecline
		sig.Priority = contracts.PriorityDecline
		sig.Score, sig.Rationale = scoreDecline(bar, row, s.FibRange618)
		sig.Label = labelForScore(sig.Score)
	}

	return sig
}

// scoreDecline applies the additive pullback score to the latest row.
// Undefined inputs contribute nothing; they never disqualify the symbol.
func scoreDecline(bar contracts.PriceBar, row contracts.IndicatorRow, fibLevel float64) (int, []string) {
	score := 0
	rationale := []string{}

	if contracts.Defined(row.SMA200) {
		if bar.Close > row.SMA200 {
			score += 3
			rationale = append(rationale, "Tendência Alta")
		} else {
			rationale = append(rationale, "Tendência Baixa")
		}
	}

	if contracts.Defined(row.RSI14) {
		if row.RSI14 < 30 {
			score += 3
			rationale = append(rationale, "RSI Sobrevenda")
		} else if row.RSI14 < 40 {
			score++
		}
	}

	if contracts.Defined(row.StochK) && row.StochK < 20 {
		score += 2
		rationale = append(rationale, "Stoch. Fundo")
	}

	if contracts.Defined(row.BBLower) && bar.Close < row.BBLower*bbSupportSlack {
		score++
		rationale = append(rationale, "Suporte BB")
	}

	if contracts.Defined(fibLevel) &&
		bar.Close >= fibLevel*(1-fibSupportSlack) && bar.Close <= fibLevel*(1+fibSupportSlack) {
		score += 2
		rationale = append(rationale, "Suporte Fibo")
	}

	return score, rationale
}

func labelForScore(score int) string {
	switch {
	case score >= 4:
		return contracts.LabelGold
	case score >= 2:
		return contracts.LabelSilver
	case score >= 1:
		return contracts.LabelBronze
	default:
		return contracts.LabelNeutral
	}
}

func trendRationale(row contracts.IndicatorRow, close float64) []string {
	if !contracts.Defined(row.SMA200) {
		return []string{}
	}
	if close > row.SMA200 {
		return []string{"Tendência Alta"}
	}
	return []string{"Tendência Baixa"}
}

// oversoldIndex averages how far RSI and %K sit below their ceilings.
// Undefined oscillators read as neutral 50 so the index stays comparable
// across symbols with short histories.
func oversoldIndex(row contracts.IndicatorRow) float64 {
	rsi := valueOrNeutral(row.RSI14)
	stoch := valueOrNeutral(row.StochK)
	return ((100 - rsi) + (100 - stoch)) / 2
}

func valueOrNeutral(v float64) float64 {
	if contracts.Defined(v) {
		return v
	}
	return 50
}

func distSMA200(close, sma200 float64) float64 {
	if !contracts.Defined(sma200) || sma200 == 0 {
		return 0
	}
	return (close - sma200) / sma200
}
