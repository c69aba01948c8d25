package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"macro_dashboard_backend/metrics"
	"macro_dashboard_backend/models"
)

type fredObservationsResponse struct {
	Observations []struct {
		Date  string `json:"date"`
		Value string `json:"value"`
	} `json:"observations"`
}

func (df *DataFetcher) fredObservations(ctx context.Context, seriesID string, params url.Values) (*fredObservationsResponse, error) {
	if df.fredAPIKey == "" {
		return nil, fmt.Errorf("fred %s: no api key: %w", seriesID, ErrNoData)
	}
	params.Set("series_id", seriesID)
	params.Set("api_key", df.fredAPIKey)
	params.Set("file_type", "json")

	body, err := df.httpGet(ctx, df.fredBaseURL+"/fred/series/observations?"+params.Encode())
	if err != nil {
		return nil, err
	}
	var parsed fredObservationsResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("fred decode %s: %w", seriesID, err)
	}
	return &parsed, nil
}

// FetchFredLatest returns the most recent observation of a FRED series, with
// change and percent against the one before it. FRED encodes missing values
// as ".".
func (df *DataFetcher) FetchFredLatest(ctx context.Context, seriesID string) (*models.Observation, error) {
	params := url.Values{}
	params.Set("sort_order", "desc")
	params.Set("limit", "10")

	parsed, err := df.fredObservations(ctx, seriesID, params)
	if err != nil {
		metrics.RecordFetch("fred", metrics.StatusError)
		return nil, err
	}

	var values []float64
	var latestDate string
	for _, o := range parsed.Observations {
		if o.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		if latestDate == "" {
			latestDate = o.Date
		}
		values = append(values, v)
		if len(values) >= 2 {
			break
		}
	}
	if len(values) == 0 {
		metrics.RecordFetch("fred", metrics.StatusError)
		return nil, ErrNoData
	}

	obs := &models.Observation{
		Value:    fmt.Sprintf("%.2f%%", values[0]),
		Change:   "0.00",
		Percent:  "0.00%",
		Date:     latestDate,
		RawValue: models.Float64Ptr(values[0]),
	}
	if len(values) >= 2 {
		change := values[0] - values[1]
		obs.Change = signedCommas(change, 2)
		obs.RawChange = models.Float64Ptr(change)
		if values[1] != 0 {
			percent := (change / values[1]) * 100
			obs.Percent = signedCommas(percent, 2) + "%"
			obs.RawPercent = models.Float64Ptr(percent)
		}
	}

	metrics.RecordFetch("fred", metrics.StatusOK)
	return obs, nil
}

// FetchFredSeries returns roughly five years of a FRED series in ascending
// date order, for the history charts.
func (df *DataFetcher) FetchFredSeries(ctx context.Context, seriesID string) (*models.HistorySeries, error) {
	params := url.Values{}
	params.Set("sort_order", "asc")
	params.Set("observation_start", time.Now().AddDate(-5, 0, 0).Format("2006-01-02"))

	parsed, err := df.fredObservations(ctx, seriesID, params)
	if err != nil {
		metrics.RecordFetch("fred", metrics.StatusError)
		return nil, err
	}

	series := &models.HistorySeries{}
	for _, o := range parsed.Observations {
		if o.Value == "." {
			continue
		}
		v, err := strconv.ParseFloat(o.Value, 64)
		if err != nil {
			continue
		}
		series.Dates = append(series.Dates, o.Date)
		series.Values = append(series.Values, v)
	}
	if len(series.Dates) == 0 {
		metrics.RecordFetch("fred", metrics.StatusError)
		return nil, ErrNoData
	}

	metrics.RecordFetch("fred", metrics.StatusOK)
	return series, nil
}
