package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"

	"macro_dashboard_backend/metrics"
	"macro_dashboard_backend/models"
)

type fearGreedResponse struct {
	FearAndGreed struct {
		Score         float64 `json:"score"`
		PreviousClose float64 `json:"previous_close"`
		Rating        string  `json:"rating"`
	} `json:"fear_and_greed"`
}

// FetchFearGreed reads CNN's Fear & Greed index. The score is a 0-100
// integer; change is derived from the previous close.
func (df *DataFetcher) FetchFearGreed(ctx context.Context) (*models.Observation, error) {
	body, err := df.httpGet(ctx, df.fearGreedURL)
	if err != nil {
		metrics.RecordFetch("feargreed", metrics.StatusError)
		return nil, err
	}

	var parsed fearGreedResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		metrics.RecordFetch("feargreed", metrics.StatusError)
		return nil, fmt.Errorf("feargreed decode: %w", err)
	}
	if parsed.FearAndGreed.Score == 0 {
		metrics.RecordFetch("feargreed", metrics.StatusError)
		return nil, ErrNoData
	}

	score := parsed.FearAndGreed.Score
	change := score - parsed.FearAndGreed.PreviousClose

	metrics.RecordFetch("feargreed", metrics.StatusOK)
	return &models.Observation{
		Value:     fmt.Sprintf("%.0f", score),
		Change:    fmt.Sprintf("%.0f", change),
		RawValue:  models.Float64Ptr(score),
		RawChange: models.Float64Ptr(change),
	}, nil
}
