package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"macro_dashboard_backend/models"
)

// stubFetcher fails every fetch unless a hook is set.
type stubFetcher struct {
	ticker     func(symbol string) (*models.Observation, error)
	calendar   func(eventID string) (*models.Observation, error)
	fredLatest func(seriesID string) (*models.Observation, error)
	fredSeries func(seriesID string) (*models.HistorySeries, error)
}

var errStub = errors.New("stub: unavailable")

func (s *stubFetcher) FetchTicker(ctx context.Context, symbol string) (*models.Observation, error) {
	if s.ticker != nil {
		return s.ticker(symbol)
	}
	return nil, errStub
}

func (s *stubFetcher) FetchInvestingPrice(ctx context.Context, pageURL, name string) (*models.Observation, error) {
	return nil, errStub
}

func (s *stubFetcher) FetchCalendarEvent(ctx context.Context, pageURL, eventID, name string) (*models.Observation, error) {
	if s.calendar != nil {
		return s.calendar(eventID)
	}
	return nil, errStub
}

func (s *stubFetcher) FetchSOFR(ctx context.Context) (*models.Observation, error) {
	return nil, errStub
}

func (s *stubFetcher) FetchFearGreed(ctx context.Context) (*models.Observation, error) {
	return nil, errStub
}

func (s *stubFetcher) FetchFredLatest(ctx context.Context, seriesID string) (*models.Observation, error) {
	if s.fredLatest != nil {
		return s.fredLatest(seriesID)
	}
	return nil, errStub
}

func (s *stubFetcher) FetchFredSeries(ctx context.Context, seriesID string) (*models.HistorySeries, error) {
	if s.fredSeries != nil {
		return s.fredSeries(seriesID)
	}
	return nil, errStub
}

func TestStocksDataAllSourcesDownServesDefaults(t *testing.T) {
	svc := NewFinanceService(&stubFetcher{})
	svc.rollover = fixedRollover("2025-01-01", 0.5) // before any snapshot NextDate

	out := svc.StocksData(context.Background(), nil)

	for key := range stocksSnapshot {
		assert.Contains(t, out, key)
	}
	assert.Equal(t, stocksSnapshot["sp_futures"], out["sp_futures"])
}

func TestStocksDataLiveFetchOverridesCache(t *testing.T) {
	svc := NewFinanceService(&stubFetcher{
		ticker: func(symbol string) (*models.Observation, error) {
			if symbol == "ES=F" {
				return &models.Observation{Value: "7,000.00", Change: "+10.00"}, nil
			}
			return nil, errStub
		},
	})
	svc.rollover = fixedRollover("2025-01-01", 0.5)

	prev := map[string]models.Observation{
		"sp_futures": {Value: "6,900.00"},
		"vix":        {Value: "20.00"},
	}
	out := svc.StocksData(context.Background(), prev)

	assert.Equal(t, "7,000.00", out["sp_futures"].Value)
	// No live vix this cycle: last known good value survives.
	assert.Equal(t, "20.00", out["vix"].Value)
}

func TestRatesDataRollsOverSeededFedRate(t *testing.T) {
	svc := NewFinanceService(&stubFetcher{})
	svc.rollover = fixedRollover("2025-11-08", 0.5)

	prev := map[string]models.Observation{
		"fed_rate": {Value: "4.50", Date: "2025-10-07", NextDate: "2025-11-07"},
	}
	out := svc.RatesData(context.Background(), prev)

	fed := out["fed_rate"]
	assert.Equal(t, "2025-11-07", fed.Date)
	assert.Equal(t, "2025-12-07", fed.NextDate)

	v, _, ok := parseDisplayValue(fed.Value)
	require.True(t, ok)
	assert.GreaterOrEqual(t, v, 4.50*0.995-1e-9)
	assert.LessOrEqual(t, v, 4.50*1.005+1e-9)
}

func TestRatesDataCalendarDateSurvivesFredFallback(t *testing.T) {
	svc := NewFinanceService(&stubFetcher{
		calendar: func(eventID string) (*models.Observation, error) {
			return &models.Observation{NextDate: "2025-12-18"}, errStub
		},
		fredLatest: func(seriesID string) (*models.Observation, error) {
			if seriesID == "DFF" {
				return &models.Observation{Value: "4.33%", Date: "2025-12-03"}, nil
			}
			return nil, errStub
		},
	})
	svc.rollover = fixedRollover("2025-12-04", 0.5)

	out := svc.RatesData(context.Background(), nil)

	fed := out["fed_rate"]
	assert.Equal(t, "4.33%", fed.Value)
	assert.Equal(t, "2025-12-03", fed.Date)
	assert.Equal(t, "2025-12-18", fed.NextDate)
}

func TestEconomyDataRollsOverEveryKey(t *testing.T) {
	svc := NewFinanceService(&stubFetcher{})
	svc.rollover = fixedRollover("2026-02-01", 0.5) // past every snapshot NextDate

	out := svc.EconomyData(context.Background(), nil)

	for key, seed := range economySnapshot {
		assert.NotEqual(t, seed.NextDate, out[key].NextDate, key)
		assert.Equal(t, seed.NextDate, out[key].Date, key)
	}
	// Style preserved through the simulated advance.
	assert.Contains(t, out["unemployment"].Value, "%")
	assert.Contains(t, out["non_farm"].Value, "K")
}

func TestHistoryDataEmptyOnTotalFailure(t *testing.T) {
	svc := NewFinanceService(&stubFetcher{})
	out := svc.HistoryData(context.Background())
	assert.Empty(t, out)
}

func TestHistoryDataPartialSuccess(t *testing.T) {
	svc := NewFinanceService(&stubFetcher{
		fredSeries: func(seriesID string) (*models.HistorySeries, error) {
			if seriesID == "DGS10" {
				return &models.HistorySeries{
					Dates:  []string{"2025-01-01", "2025-02-01"},
					Values: []float64{4.5, 4.4},
				}, nil
			}
			return nil, errStub
		},
	})

	out := svc.HistoryData(context.Background())
	require.Len(t, out, 1)
	assert.Equal(t, []float64{4.5, 4.4}, out["us_10y"].Values)
}

func TestOverlayPrevWinsOverSnapshot(t *testing.T) {
	out := overlay(
		map[string]models.Observation{"a": {Value: "1"}, "b": {Value: "2"}},
		map[string]models.Observation{"b": {Value: "9"}},
	)
	assert.Equal(t, "1", out["a"].Value)
	assert.Equal(t, "9", out["b"].Value)
}

func TestExchangeDataRollsOverReserves(t *testing.T) {
	svc := NewFinanceService(&stubFetcher{})
	svc.rollover = &Rollover{
		now:     func() time.Time { return time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC) },
		uniform: func() float64 { return 0.5 },
	}

	out := svc.ExchangeData(context.Background(), nil)

	res := out["foreign_reserves"]
	assert.Equal(t, "2026-01-05", res.Date)
	assert.Equal(t, "2026-02-05", res.NextDate)
	assert.Contains(t, res.Value, "억$")
}
