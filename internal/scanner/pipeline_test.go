package scanner

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsantana/radarbdr/internal/contracts"
	"github.com/vsantana/radarbdr/pkg/config"
	"github.com/vsantana/radarbdr/pkg/logger"
)

type fakeCatalog struct {
	entries []contracts.CatalogEntry
	err     error
}

func (f *fakeCatalog) FetchQuoteList(ctx context.Context) ([]contracts.CatalogEntry, error) {
	return f.entries, f.err
}

type fakeFallback struct {
	entries []contracts.CatalogEntry
	err     error
	called  bool
}

func (f *fakeFallback) FetchBDRList(ctx context.Context) ([]contracts.CatalogEntry, error) {
	f.called = true
	return f.entries, f.err
}

type fakeProvider struct {
	histories map[string]contracts.History
	skipped   int
}

func (f *fakeProvider) FetchBatch(ctx context.Context, tickers []string) (map[string]contracts.History, int) {
	return f.histories, f.skipped
}

// decliningHistory builds 60 flat bars followed by a -5% fall
func decliningHistory() contracts.History {
	bars := make(contracts.History, 0, 61)
	date := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 60; i++ {
		bars = append(bars, contracts.PriceBar{
			Date: date, Open: 100, High: 101, Low: 99, Close: 100, Volume: 100000,
		})
		date = date.AddDate(0, 0, 1)
	}
	bars = append(bars, contracts.PriceBar{
		Date: date, Open: 100, High: 100, Low: 94, Close: 95, Volume: 300000,
	})
	return bars
}

func newTestPipeline(t *testing.T, catalog CatalogSource, fallback FallbackCatalog, provider PriceProvider) *Pipeline {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)
	return New(catalog, fallback, provider, logger.New(cfg))
}

func scanConfig() contracts.ScanConfig {
	return contracts.ScanConfig{
		DeclineThreshold: -0.03,
		MinHistoryBars:   2,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	catalog := &fakeCatalog{entries: []contracts.CatalogEntry{
		{Ticker: "AAPL34", Name: "APPLE INC"},
		{Ticker: "PETR4", Name: "PETROBRAS"}, // not a BDR, filtered out
	}}
	provider := &fakeProvider{histories: map[string]contracts.History{
		"AAPL34": decliningHistory(),
	}}

	p := newTestPipeline(t, catalog, nil, provider)
	result := p.Run(context.Background(), scanConfig())

	assert.False(t, result.ProviderDown)
	assert.Equal(t, 1, result.UniverseSize)
	assert.Equal(t, 1, result.Analyzed)
	require.Len(t, result.Signals, 1)

	sig := result.Signals[0]
	assert.Equal(t, "AAPL34", sig.Ticker)
	assert.Equal(t, "Apple", sig.Name)
	assert.InDelta(t, -0.05, sig.ChangeDay, 1e-9)
}

func TestRun_CatalogDown(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("brapi timeout")}
	p := newTestPipeline(t, catalog, nil, &fakeProvider{})

	result := p.Run(context.Background(), scanConfig())
	assert.True(t, result.ProviderDown)
	assert.Empty(t, result.Signals)
	assert.Zero(t, result.UniverseSize)
}

func TestRun_FallbackCatalog(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("brapi timeout")}
	fallback := &fakeFallback{entries: []contracts.CatalogEntry{
		{Ticker: "AAPL34", Name: "APPLE INC"},
	}}
	provider := &fakeProvider{histories: map[string]contracts.History{
		"AAPL34": decliningHistory(),
	}}

	p := newTestPipeline(t, catalog, fallback, provider)
	result := p.Run(context.Background(), scanConfig())

	assert.True(t, fallback.called)
	assert.False(t, result.ProviderDown)
	assert.Len(t, result.Signals, 1)
}

func TestRun_FallbackAlsoDown(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("brapi timeout")}
	fallback := &fakeFallback{err: errors.New("b3 unreachable")}

	p := newTestPipeline(t, catalog, fallback, &fakeProvider{})
	result := p.Run(context.Background(), scanConfig())
	assert.True(t, result.ProviderDown)
}

func TestRun_EmptyUniverseIsNotAnOutage(t *testing.T) {
	catalog := &fakeCatalog{entries: []contracts.CatalogEntry{
		{Ticker: "PETR4", Name: "PETROBRAS"},
	}}

	p := newTestPipeline(t, catalog, nil, &fakeProvider{})
	result := p.Run(context.Background(), scanConfig())

	assert.False(t, result.ProviderDown)
	assert.Zero(t, result.UniverseSize)
	assert.Empty(t, result.Signals)
}

func TestRun_SkipsAccumulateAcrossStages(t *testing.T) {
	catalog := &fakeCatalog{entries: []contracts.CatalogEntry{
		{Ticker: "AAPL34", Name: "APPLE INC"},
		{Ticker: "MSFT34", Name: "MICROSOFT CORP"},
	}}
	provider := &fakeProvider{
		histories: map[string]contracts.History{"AAPL34": decliningHistory()},
		skipped:   1, // MSFT34 price fetch failed
	}

	p := newTestPipeline(t, catalog, nil, provider)
	result := p.Run(context.Background(), scanConfig())

	assert.Equal(t, 2, result.UniverseSize)
	assert.Equal(t, 1, result.Analyzed)
	assert.Equal(t, 1, result.Skipped)
}
