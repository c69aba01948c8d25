package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"macro_dashboard_backend/metrics"
	"macro_dashboard_backend/models"
)

type yahooChartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"previousClose"`
				ChartPreviousClose float64 `json:"chartPreviousClose"`
			} `json:"meta"`
		} `json:"result"`
		Error interface{} `json:"error"`
	} `json:"chart"`
}

// FetchTicker fetches the latest price for one Yahoo Finance symbol and
// derives change and percent from the previous close.
func (df *DataFetcher) FetchTicker(ctx context.Context, symbol string) (*models.Observation, error) {
	u := fmt.Sprintf("%s/v8/finance/chart/%s?range=2d&interval=1d", df.yahooBaseURL, url.PathEscape(symbol))
	body, err := df.httpGet(ctx, u)
	if err != nil {
		metrics.RecordFetch("yahoo", metrics.StatusError)
		return nil, err
	}

	var parsed yahooChartResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.RecordFetch("yahoo", metrics.StatusError)
		return nil, fmt.Errorf("yahoo decode %s: %w", symbol, err)
	}
	if len(parsed.Chart.Result) == 0 {
		metrics.RecordFetch("yahoo", metrics.StatusError)
		return nil, ErrNoData
	}

	meta := parsed.Chart.Result[0].Meta
	price := meta.RegularMarketPrice
	prevClose := meta.PreviousClose
	if prevClose == 0 {
		prevClose = meta.ChartPreviousClose
	}
	if price == 0 || prevClose == 0 {
		metrics.RecordFetch("yahoo", metrics.StatusError)
		return nil, ErrNoData
	}

	change := price - prevClose
	percent := (change / prevClose) * 100

	metrics.RecordFetch("yahoo", metrics.StatusOK)
	return &models.Observation{
		Value:      formatFloatWithCommas(price, 2),
		Change:     signedCommas(change, 2),
		Percent:    signedCommas(percent, 2),
		RawValue:   models.Float64Ptr(price),
		RawChange:  models.Float64Ptr(change),
		RawPercent: models.Float64Ptr(percent),
	}, nil
}
