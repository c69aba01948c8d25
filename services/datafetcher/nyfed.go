package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"macro_dashboard_backend/metrics"
	"macro_dashboard_backend/models"
)

type nyfedRatesResponse struct {
	RefRates []struct {
		EffectiveDate string  `json:"effectiveDate"`
		Type          string  `json:"type"`
		PercentRate   float64 `json:"percentRate"`
	} `json:"refRates"`
}

// FetchSOFR reads the last week of SOFR fixings from the NY Fed markets API
// and derives change and percent from the two most recent publications.
func (df *DataFetcher) FetchSOFR(ctx context.Context) (*models.Observation, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -7)
	u := fmt.Sprintf("%s/api/rates/secured/sofr/search.json?startDate=%s&endDate=%s&type=sofr",
		df.nyfedBaseURL, start.Format("2006-01-02"), end.Format("2006-01-02"))

	body, err := df.httpGet(ctx, u)
	if err != nil {
		metrics.RecordFetch("nyfed", metrics.StatusError)
		return nil, err
	}

	var parsed nyfedRatesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.RecordFetch("nyfed", metrics.StatusError)
		return nil, fmt.Errorf("nyfed decode: %w", err)
	}

	fixings := parsed.RefRates[:0]
	for _, r := range parsed.RefRates {
		if r.Type == "SOFR" {
			fixings = append(fixings, r)
		}
	}
	if len(fixings) == 0 {
		metrics.RecordFetch("nyfed", metrics.StatusError)
		return nil, ErrNoData
	}
	sort.Slice(fixings, func(i, j int) bool {
		return fixings[i].EffectiveDate > fixings[j].EffectiveDate
	})

	latest := fixings[0]
	obs := &models.Observation{
		Value:    fmt.Sprintf("%.2f%%", latest.PercentRate),
		Change:   "0.00",
		Percent:  "0.00%",
		Date:     latest.EffectiveDate,
		RawValue: models.Float64Ptr(latest.PercentRate),
	}
	if len(fixings) >= 2 {
		prev := fixings[1].PercentRate
		change := latest.PercentRate - prev
		obs.Change = signedCommas(change, 2)
		obs.RawChange = models.Float64Ptr(change)
		if prev != 0 {
			percent := (change / prev) * 100
			obs.Percent = signedCommas(percent, 2) + "%"
			obs.RawPercent = models.Float64Ptr(percent)
		}
	}

	metrics.RecordFetch("nyfed", metrics.StatusOK)
	return obs, nil
}
