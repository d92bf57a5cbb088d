package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/vsantana/radarbdr/internal/contracts"
)

// chartResponse mirrors the relevant slice of the v8 chart payload.
// Numeric series are pointers because Yahoo emits null for halted days.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
				AdjClose []struct {
					AdjClose []*float64 `json:"adjclose"`
				} `json:"adjclose"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchDailyHistory fetches daily OHLCV bars for one BDR ticker.
// The ticker gets the B3 ".SA" suffix; prices are split/dividend adjusted
// the way the adjusted close implies.
func (c *Client) FetchDailyHistory(ctx context.Context, ticker string) (contracts.History, error) {
	params := url.Values{}
	params.Set("range", c.lookback)
	params.Set("interval", "1d")
	params.Set("events", "div,split")
	params.Set("includeAdjustedClose", "true")

	fullURL := fmt.Sprintf("%s/v8/finance/chart/%s.SA?%s", c.baseURL, url.PathEscape(ticker), params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo chart %s: %v", contracts.ErrProviderUnavailable, ticker, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: yahoo chart %s: status %d", contracts.ErrProviderUnavailable, ticker, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: yahoo chart %s: read body: %v", contracts.ErrProviderUnavailable, ticker, err)
	}

	bars, err := parseChart(body)
	if err != nil {
		return nil, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}

	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"bars":   len(bars),
	}).Debug("Fetched price history")
	return bars, nil
}

// FetchBatch fetches history for every ticker, skipping tickers that fail.
// Returns the histories plus the number of skipped tickers.
func (c *Client) FetchBatch(ctx context.Context, tickers []string) (map[string]contracts.History, int) {
	out := make(map[string]contracts.History, len(tickers))
	skipped := 0

	for _, ticker := range tickers {
		bars, err := c.FetchDailyHistory(ctx, ticker)
		if err != nil {
			skipped++
			c.logger.WithFields(map[string]interface{}{
				"ticker": ticker,
				"error":  err.Error(),
			}).Warn("Skipping ticker: price fetch failed")
			continue
		}
		if len(bars) == 0 {
			skipped++
			continue
		}
		out[ticker] = bars
	}

	return out, skipped
}

// parseChart decodes a v8 chart payload into daily bars.
// Days with a null close are dropped; open/high/low are adjusted by the
// adjclose/close ratio so the whole bar is on the adjusted scale.
func parseChart(body []byte) (contracts.History, error) {
	var decoded chartResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("decode chart: %v", err)
	}

	if decoded.Chart.Error != nil {
		return nil, fmt.Errorf("%w: chart error: %s", contracts.ErrProviderUnavailable, decoded.Chart.Error.Code)
	}
	if len(decoded.Chart.Result) == 0 {
		return nil, fmt.Errorf("chart: empty result")
	}

	result := decoded.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, fmt.Errorf("chart: missing quote block")
	}
	quote := result.Indicators.Quote[0]

	var adj []*float64
	if len(result.Indicators.AdjClose) > 0 {
		adj = result.Indicators.AdjClose[0].AdjClose
	}

	bars := make(contracts.History, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(quote.Close) || quote.Close[i] == nil {
			continue
		}
		closePrice := *quote.Close[i]
		if closePrice <= 0 {
			continue
		}

		factor := 1.0
		if i < len(adj) && adj[i] != nil && *adj[i] > 0 {
			factor = *adj[i] / closePrice
		}

		bar := contracts.PriceBar{
			Date:  time.Unix(ts, 0).UTC().Truncate(24 * time.Hour),
			Close: closePrice * factor,
		}
		if i < len(quote.Open) && quote.Open[i] != nil {
			bar.Open = *quote.Open[i] * factor
		}
		if i < len(quote.High) && quote.High[i] != nil {
			bar.High = *quote.High[i] * factor
		}
		if i < len(quote.Low) && quote.Low[i] != nil {
			bar.Low = *quote.Low[i] * factor
		}
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			bar.Volume = *quote.Volume[i]
		}

		bars = append(bars, bar)
	}

	return bars, nil
}
