package signal

import (
	"sort"

	"github.com/vsantana/radarbdr/internal/contracts"
)

// Rank orders signals for presentation: strategy priority first, then
// trend-following setups, then the deepest daily fall. The input slice is
// not mutated; reranking the same snapshot always yields the same order.
func Rank(signals []contracts.Signal) []contracts.Signal {
	ranked := make([]contracts.Signal, len(signals))
	copy(ranked, signals)

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Priority != ranked[j].Priority {
			return ranked[i].Priority > ranked[j].Priority
		}
		if ranked[i].TrendUp != ranked[j].TrendUp {
			return ranked[i].TrendUp
		}
		return ranked[i].ChangeDay < ranked[j].ChangeDay
	})

	return ranked
}
