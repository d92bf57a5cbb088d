package brapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsantana/radarbdr/internal/contracts"
	"github.com/vsantana/radarbdr/pkg/config"
	"github.com/vsantana/radarbdr/pkg/httputil"
	"github.com/vsantana/radarbdr/pkg/logger"
	"github.com/vsantana/radarbdr/pkg/redis"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)

	log := logger.New(cfg)
	brapiCfg := cfg.Brapi
	brapiCfg.BaseURL = baseURL

	return NewClient(
		httputil.New(log).DisableRetry(),
		log,
		brapiCfg,
		redis.NewCache(redis.Disabled(), "radar"),
	)
}

func TestParseQuoteList(t *testing.T) {
	body := []byte(`{
		"stocks": [
			{"stock": "AAPL34", "name": "Apple Inc"},
			{"stock": "PETR4", "name": "Petrobras"},
			{"stock": "", "name": "ghost"},
			{"stock": "DISB39"}
		]
	}`)

	entries, err := parseQuoteList(body)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, contracts.CatalogEntry{Ticker: "AAPL34", Name: "Apple Inc"}, entries[0])
	assert.Equal(t, "DISB39", entries[2].Ticker)
	assert.Empty(t, entries[2].Name)
}

func TestParseQuoteList_Malformed(t *testing.T) {
	_, err := parseQuoteList([]byte(`not json`))
	assert.Error(t, err)
}

func TestParseQuoteList_Empty(t *testing.T) {
	entries, err := parseQuoteList([]byte(`{"stocks": []}`))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFetchQuoteList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/quote/list", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"stocks":[{"stock":"MSFT34","name":"Microsoft Corp"}]}`))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	entries, err := client.FetchQuoteList(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "MSFT34", entries[0].Ticker)
}

func TestFetchQuoteList_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.FetchQuoteList(context.Background())
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)
}
