package b3

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
)

const listingFixture = `<html><body>
<table>
  <tr><th>Código</th><th>Empresa</th></tr>
  <tr><td>AAPL34</td><td>APPLE INC</td></tr>
  <tr><td> disb39 </td><td>WALT DISNEY CO</td></tr>
  <tr><td>AAPL34</td><td>APPLE INC (duplicada)</td></tr>
  <tr><td>PETR4</td><td>PETROBRAS</td></tr>
  <tr><td colspan="2">Seção</td></tr>
</table>
</body></html>`

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	cfg, err := config.Load()
	require.NoError(t, err)

	log := logger.New(cfg)
	return NewClient(httputil.New(log).DisableRetry(), log).WithBaseURL(baseURL)
}

func TestParseBDRList(t *testing.T) {
	entries, err := parseBDRList(listingFixture)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, contracts.CatalogEntry{Ticker: "AAPL34", Name: "APPLE INC"}, entries[0])
	assert.Equal(t, contracts.CatalogEntry{Ticker: "DISB39", Name: "WALT DISNEY CO"}, entries[1])
}

func TestParseBDRList_NoRows(t *testing.T) {
	_, err := parseBDRList(`<html><body><p>manutenção</p></body></html>`)
	assert.Error(t, err)
}

func TestFetchBDRList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/InstDados/BdrsNaoPatrocinados/bdrs.htm", r.URL.Path)
		_, _ = w.Write([]byte(listingFixture))
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	entries, err := client.FetchBDRList(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestFetchBDRList_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := newTestClient(t, server.URL)
	_, err := client.FetchBDRList(context.Background())
	assert.ErrorIs(t, err, contracts.ErrProviderUnavailable)
}
