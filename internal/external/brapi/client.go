package brapi

import (
	"time"

	"github.com/vsantana/radarbdr/pkg/config"
	"github.com/vsantana/radarbdr/pkg/httputil"
	"github.com/vsantana/radarbdr/pkg/logger"
	"github.com/vsantana/radarbdr/pkg/redis"
)

// Client handles communication with the brapi.dev catalog API.
// All brapi calls go through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cache      *redis.Cache
	baseURL    string
	token      string
	cacheTTL   time.Duration
}

// NewClient creates a new brapi client
func NewClient(httpClient *httputil.Client, log *logger.Logger, cfg config.BrapiConfig, cache *redis.Cache) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log,
		cache:      cache,
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		cacheTTL:   cfg.CacheTTL,
	}
}
