package scanner

import (
	"context"
	"time"

	"github.com/vsantana/radarbdr/internal/contracts"
	"github.com/vsantana/radarbdr/internal/indicator"
	"github.com/vsantana/radarbdr/internal/signal"
	"github.com/vsantana/radarbdr/internal/universe"
	"github.com/vsantana/radarbdr/pkg/logger"
)

// CatalogSource provides the raw instrument catalog
type CatalogSource interface {
	FetchQuoteList(ctx context.Context) ([]contracts.CatalogEntry, error)
}

// FallbackCatalog is consulted when the primary catalog source fails
type FallbackCatalog interface {
	FetchBDRList(ctx context.Context) ([]contracts.CatalogEntry, error)
}

// PriceProvider supplies daily OHLCV history per ticker
type PriceProvider interface {
	FetchBatch(ctx context.Context, tickers []string) (map[string]contracts.History, int)
}

// Pipeline runs one full scan pass:
// catalog → universe → price history → indicators → classification → ranking
type Pipeline struct {
	catalog    CatalogSource
	fallback   FallbackCatalog
	provider   PriceProvider
	resolver   *universe.Resolver
	engine     *indicator.Engine
	classifier *signal.Classifier
	logger     *logger.Logger
}

// New creates a scan pipeline. fallback may be nil when no secondary
// catalog source is configured.
func New(catalog CatalogSource, fallback FallbackCatalog, provider PriceProvider, log *logger.Logger) *Pipeline {
	return &Pipeline{
		catalog:    catalog,
		fallback:   fallback,
		provider:   provider,
		resolver:   universe.NewResolver(log),
		engine:     indicator.NewEngine(log),
		classifier: signal.NewClassifier(log),
		logger:     log,
	}
}

// Run executes one scan under the given criteria. A catalog outage yields a
// ProviderDown result; every per-symbol failure downstream is contained and
// counted in Skipped. Run never returns an error: the result itself encodes
// the terminal state.
func (p *Pipeline) Run(ctx context.Context, cfg contracts.ScanConfig) *contracts.ScanResult {
	at := time.Now().UTC()
	result := &contracts.ScanResult{
		At:      at,
		Config:  cfg,
		Signals: []contracts.Signal{},
	}

	entries, err := p.fetchCatalog(ctx)
	if err != nil {
		p.logger.WithError(err).Error("Scan aborted: no catalog source available")
		result.ProviderDown = true
		return result
	}

	tickers, names := p.resolver.Resolve(entries)
	result.UniverseSize = len(tickers)
	if len(tickers) == 0 {
		p.logger.Warn("Catalog resolved to an empty BDR universe")
		return result
	}

	histories, fetchSkipped := p.provider.FetchBatch(ctx, tickers)
	series, computeSkipped := p.engine.ComputeBatch(ctx, histories)
	signals, classifySkipped := p.classifier.Classify(at, series, names, cfg)

	result.Analyzed = len(series)
	result.Skipped = fetchSkipped + computeSkipped + classifySkipped
	result.Signals = signal.Rank(signals)

	p.logger.WithFields(map[string]interface{}{
		"universe": result.UniverseSize,
		"analyzed": result.Analyzed,
		"skipped":  result.Skipped,
		"signals":  len(result.Signals),
	}).Info("Scan completed")
	return result
}

func (p *Pipeline) fetchCatalog(ctx context.Context) ([]contracts.CatalogEntry, error) {
	entries, err := p.catalog.FetchQuoteList(ctx)
	if err == nil {
		return entries, nil
	}
	if p.fallback == nil {
		return nil, err
	}

	p.logger.WithError(err).Warn("Primary catalog failed, trying fallback listing")
	return p.fallback.FetchBDRList(ctx)
}
