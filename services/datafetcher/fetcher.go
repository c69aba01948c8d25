// Package datafetcher talks to the external data providers: Yahoo Finance,
// Investing.com, the NY Fed markets API, FRED and CNN's Fear & Greed feed.
// Every fetch is bounded by the client timeout and a shared outbound rate
// limit; every failure surfaces as an error, never as a panic, so the
// orchestration layer can treat any miss as "no data this cycle".
package datafetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// ErrNoData means the source responded but did not yield a usable
// observation. Callers treat it the same as any other fetch failure.
var ErrNoData = errors.New("no data")

// Browser User-Agents rotated on scrape requests; some providers reject
// obvious bot agents.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
}

// DataFetcher holds the shared HTTP client and provider endpoints. Base URLs
// are fields so tests can point them at a local server.
type DataFetcher struct {
	httpClient *http.Client
	limiter    *rate.Limiter

	fredAPIKey string

	yahooBaseURL string
	nyfedBaseURL string
	fredBaseURL  string
	fearGreedURL string
}

// New creates a fetcher. fredAPIKey may be empty: the FRED paths then
// degrade to ErrNoData instead of failing the process.
func New(fredAPIKey string) *DataFetcher {
	return &DataFetcher{
		httpClient: &http.Client{Timeout: 8 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(5), 10),
		fredAPIKey: fredAPIKey,

		yahooBaseURL: "https://query1.finance.yahoo.com",
		nyfedBaseURL: "https://markets.newyorkfed.org",
		fredBaseURL:  "https://api.stlouisfed.org",
		fearGreedURL: "https://production.dataviz.cnn.io/index/fearandgreed/graphdata",
	}
}

func (df *DataFetcher) httpGet(ctx context.Context, url string) ([]byte, error) {
	if err := df.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgents[rand.Intn(len(userAgents))])
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/json;q=0.9,*/*;q=0.8")
	req.Header.Set("Referer", "https://www.google.com/")

	resp, err := df.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return io.ReadAll(io.LimitReader(resp.Body, 4<<20))
}
