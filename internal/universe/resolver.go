package universe

import (
	"strings"

	"github.com/vsantana/radarbdr/internal/contracts"
	"github.com/vsantana/radarbdr/pkg/logger"
)

// BDRSuffixes are the two-digit class endings that identify a Brazilian
// Depositary Receipt on the B3 exchange.
var BDRSuffixes = []string{"31", "32", "33", "34", "35", "39"}

// corporate tokens stripped from display names
var nameIgnoreList = map[string]bool{
	"INC": true, "CORP": true, "LTD": true, "SA": true,
	"GMBH": true, "PLC": true, "GROUP": true, "HOLDINGS": true,
}

// Resolver filters the raw instrument catalog down to the BDR universe
type Resolver struct {
	logger *logger.Logger
}

// NewResolver creates a new universe resolver
func NewResolver(log *logger.Logger) *Resolver {
	return &Resolver{logger: log}
}

// Resolve keeps catalog entries whose ticker ends in a BDR class suffix.
// The returned ticker list preserves catalog order; the name map falls back
// to the ticker when the catalog name is missing. An empty catalog yields an
// empty universe, which is recoverable, never fatal.
func (r *Resolver) Resolve(catalog []contracts.CatalogEntry) ([]string, map[string]string) {
	tickers := make([]string, 0, len(catalog))
	names := make(map[string]string, len(catalog))

	for _, entry := range catalog {
		if entry.Ticker == "" || !IsBDR(entry.Ticker) {
			continue
		}

		tickers = append(tickers, entry.Ticker)
		if entry.Name != "" {
			names[entry.Ticker] = entry.Name
		} else {
			names[entry.Ticker] = entry.Ticker
		}
	}

	r.logger.WithFields(map[string]interface{}{
		"catalog": len(catalog),
		"bdrs":    len(tickers),
	}).Debug("Universe resolved")

	return tickers, names
}

// IsBDR reports whether a ticker carries a BDR class suffix
func IsBDR(ticker string) bool {
	for _, suffix := range BDRSuffixes {
		if strings.HasSuffix(ticker, suffix) {
			return true
		}
	}
	return false
}

// ShortName compacts a catalog company name for display: corporate suffix
// tokens are dropped and the first two remaining words are title-cased.
// Falls back to the ticker when nothing usable remains.
func ShortName(fullName, ticker string) string {
	if fullName == "" {
		return ticker
	}

	words := strings.Fields(fullName)
	useful := make([]string, 0, len(words))
	for _, w := range words {
		key := strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(w, ".", ""), ",", ""))
		if nameIgnoreList[key] {
			continue
		}
		useful = append(useful, w)
	}

	if len(useful) == 0 {
		return ticker
	}
	if len(useful) > 2 {
		useful = useful[:2]
	}

	short := strings.Join(useful, " ")
	short = strings.ReplaceAll(short, ",", "")
	return titleCase(short)
}

// titleCase lowercases a phrase and capitalizes each word
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
