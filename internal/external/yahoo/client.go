package yahoo

import (
	"github.com/vsantana/radarbdr/pkg/config"
	"github.com/vsantana/radarbdr/pkg/httputil"
	"github.com/vsantana/radarbdr/pkg/logger"
)

// Client handles communication with the Yahoo Finance chart API, the
// historical price provider for B3-listed tickers.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	lookback   string // chart range, e.g. "1y"
}

// NewClient creates a new Yahoo Finance client
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.YahooConfig) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    cfg.BaseURL,
		lookback:   cfg.Range,
	}
}

// Lookback returns the configured chart range
func (c *Client) Lookback() string {
	return c.lookback
}
