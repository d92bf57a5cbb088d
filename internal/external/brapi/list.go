package brapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/vsantana/radarbdr/internal/contracts"
	pkgredis "github.com/vsantana/radarbdr/pkg/redis"
)

// quoteListResponse mirrors the brapi /quote/list payload
type quoteListResponse struct {
	Stocks []quoteListItem `json:"stocks"`
}

type quoteListItem struct {
	Stock string `json:"stock"`
	Name  string `json:"name"`
}

// FetchQuoteList fetches the raw instrument catalog.
// The list is served from the Redis cache when fresh; a fetch failure wraps
// contracts.ErrProviderUnavailable so the caller can degrade to an empty
// universe instead of crashing.
func (c *Client) FetchQuoteList(ctx context.Context) ([]contracts.CatalogEntry, error) {
	var cached []contracts.CatalogEntry
	if found, err := c.cache.Get(ctx, pkgredis.CatalogKey(), &cached); err == nil && found {
		c.logger.WithField("count", len(cached)).Debug("Catalog served from cache")
		return cached, nil
	}

	fullURL := fmt.Sprintf("%s/quote/list", c.baseURL)
	if c.token != "" {
		params := url.Values{}
		params.Set("token", c.token)
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	resp, err := c.httpClient.Get(ctx, fullURL)
	if err != nil {
		return nil, fmt.Errorf("%w: brapi quote list: %v", contracts.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: brapi quote list: status %d", contracts.ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: brapi quote list: read body: %v", contracts.ErrProviderUnavailable, err)
	}

	entries, err := parseQuoteList(body)
	if err != nil {
		return nil, fmt.Errorf("%w: brapi quote list: %v", contracts.ErrProviderUnavailable, err)
	}

	if err := c.cache.Set(ctx, pkgredis.CatalogKey(), entries, c.cacheTTL); err != nil {
		// cache failures are not fetch failures
		c.logger.WithError(err).Warn("Failed to cache catalog")
	}

	c.logger.WithField("count", len(entries)).Debug("Fetched catalog")
	return entries, nil
}

// parseQuoteList decodes the quote/list payload into catalog entries,
// dropping rows without a ticker
func parseQuoteList(body []byte) ([]contracts.CatalogEntry, error) {
	var decoded quoteListResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode quote list: %v", err)
	}

	entries := make([]contracts.CatalogEntry, 0, len(decoded.Stocks))
	for _, item := range decoded.Stocks {
		if item.Stock == "" {
			continue
		}
		entries = append(entries, contracts.CatalogEntry{
			Ticker: item.Stock,
			Name:   item.Name,
		})
	}
	return entries, nil
}
