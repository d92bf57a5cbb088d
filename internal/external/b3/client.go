package b3

import (
	"github.com/vsantana/radarbdr/pkg/httputil"
	"github.com/vsantana/radarbdr/pkg/logger"
)

const defaultBaseURL = "https://bvmf.bmfbovespa.com.br"

// Client scrapes the B3 public listing pages. It is the fallback catalog
// source used when brapi is unavailable.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new B3 scraping client
func NewClient(httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    defaultBaseURL,
	}
}

// WithBaseURL overrides the listing page host. Used by tests.
func (c *Client) WithBaseURL(baseURL string) *Client {
	c.baseURL = baseURL
	return c
}
