package b3

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vsantana/radarbdr/internal/contracts"
)

// unsponsored BDR codes look like DISB39, AAPL34, GOGL35
var tickerRe = regexp.MustCompile(`^[A-Z0-9]{4}3[1-9]$`)

// FetchBDRList scrapes the unsponsored BDR listing page.
// A scrape failure wraps contracts.ErrProviderUnavailable so the caller
// can fall through the same degradation path as the primary catalog.
func (c *Client) FetchBDRList(ctx context.Context) ([]contracts.CatalogEntry, error) {
	url := fmt.Sprintf("%s/InstDados/BdrsNaoPatrocinados/bdrs.htm", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: b3 listing: %v", contracts.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: b3 listing: status %d", contracts.ErrProviderUnavailable, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: b3 listing: read body: %v", contracts.ErrProviderUnavailable, err)
	}

	entries, err := parseBDRList(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: b3 listing: %v", contracts.ErrProviderUnavailable, err)
	}

	c.logger.WithField("count", len(entries)).Debug("Scraped BDR listing")
	return entries, nil
}

// parseBDRList extracts ticker/name pairs from the listing HTML.
// Rows without a code-shaped first cell (headers, section dividers) are
// skipped.
func parseBDRList(html string) ([]contracts.CatalogEntry, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse html: %v", err)
	}

	var entries []contracts.CatalogEntry
	seen := make(map[string]bool)

	doc.Find("table tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		if cells.Length() < 2 {
			return
		}

		ticker := strings.ToUpper(strings.TrimSpace(cells.Eq(0).Text()))
		if !tickerRe.MatchString(ticker) || seen[ticker] {
			return
		}
		seen[ticker] = true

		entries = append(entries, contracts.CatalogEntry{
			Ticker: ticker,
			Name:   strings.TrimSpace(cells.Eq(1).Text()),
		})
	})

	if len(entries) == 0 {
		return nil, fmt.Errorf("no listing rows found")
	}
	return entries, nil
}
