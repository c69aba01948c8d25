package services

import (
	"context"

	"macro_dashboard_backend/models"
)

// MarketData is what the orchestration layer needs from the fetchers: pure
// calls that return a normalized observation or an error within a bounded
// time, with no side effects on the cache.
type MarketData interface {
	FetchTicker(ctx context.Context, symbol string) (*models.Observation, error)
	FetchInvestingPrice(ctx context.Context, pageURL, name string) (*models.Observation, error)
	FetchCalendarEvent(ctx context.Context, pageURL, eventID, name string) (*models.Observation, error)
	FetchSOFR(ctx context.Context) (*models.Observation, error)
	FetchFearGreed(ctx context.Context) (*models.Observation, error)
	FetchFredLatest(ctx context.Context, seriesID string) (*models.Observation, error)
	FetchFredSeries(ctx context.Context, seriesID string) (*models.HistorySeries, error)
}

// FinanceService builds the per-category result maps that the scheduler
// merges into the cache. Every builder starts from the last known good
// values (previous cache contents over the built-in snapshot defaults) and
// overlays whatever live fetches succeeded this cycle, so a cycle where
// every source fails still produces a complete, merely stale, mapping.
type FinanceService struct {
	fetcher  MarketData
	resolver *Resolver
	rollover *Rollover
}

func NewFinanceService(fetcher MarketData) *FinanceService {
	return &FinanceService{
		fetcher:  fetcher,
		resolver: NewResolver(),
		rollover: NewRollover(),
	}
}

const (
	fedRateCalendarURL = "https://kr.investing.com/economic-calendar/interest-rate-decision-168"
	fedRateEventID     = "168"
	us10yInvestingURL  = "https://kr.investing.com/rates-bonds/u.s.-10-year-bond-yield"
)

var stockTickers = map[string]string{
	"sp_futures":     "ES=F",
	"dow_futures":    "YM=F",
	"nasdaq_futures": "NQ=F",
	"wti":            "CL=F",
	"russell":        "RTY=F",
	"vix":            "^VIX",
}

// FRED series backing the history category.
var historySeries = map[string]string{
	"fed_funds":    "DFF",
	"us_10y":       "DGS10",
	"cpi":          "CPIAUCSL",
	"unemployment": "UNRATE",
}

// StocksData refreshes the realtime equity/volatility block.
func (s *FinanceService) StocksData(ctx context.Context, prev map[string]models.Observation) map[string]models.Observation {
	out := overlay(stocksSnapshot, prev)

	for key, symbol := range stockTickers {
		if obs, err := s.fetcher.FetchTicker(ctx, symbol); err == nil && obs.HasValue() {
			out[key] = *obs
		}
	}

	if obs, err := s.fetcher.FetchFearGreed(ctx); err == nil && obs.HasValue() {
		out["fear_greed"] = *obs
	}

	out["high_yield"] = s.rollover.Apply(out["high_yield"])
	return out
}

// RatesData refreshes bond yields and policy rates. The Fed rate takes the
// hybrid path: the Investing.com rate-decision calendar knows the next
// announcement date, FRED only knows the level, so the calendar is tried
// first and its date fields survive a fall-through to FRED.
func (s *FinanceService) RatesData(ctx context.Context, prev map[string]models.Observation) map[string]models.Observation {
	out := overlay(ratesSnapshot, prev)

	if obs := s.resolver.Resolve(ctx, []Source{
		{Name: "yahoo_us_10y", Fetch: func(ctx context.Context) (*models.Observation, error) {
			return s.fetcher.FetchTicker(ctx, "^TNX")
		}},
		{Name: "investing_us_10y", Fetch: func(ctx context.Context) (*models.Observation, error) {
			return s.fetcher.FetchInvestingPrice(ctx, us10yInvestingURL, "us_10y")
		}},
	}); obs != nil {
		out["us_10y"] = *obs
	}

	if obs := s.resolver.Resolve(ctx, []Source{
		{Name: "investing_rate_decision", Fetch: func(ctx context.Context) (*models.Observation, error) {
			return s.fetcher.FetchCalendarEvent(ctx, fedRateCalendarURL, fedRateEventID, "fed_rate")
		}},
		{Name: "fred_fed_funds", Fetch: func(ctx context.Context) (*models.Observation, error) {
			return s.fetcher.FetchFredLatest(ctx, "DFF")
		}},
	}); obs != nil {
		out["fed_rate"] = *obs
	}

	if obs, err := s.fetcher.FetchSOFR(ctx); err == nil && obs.HasValue() {
		out["sofr"] = *obs
	}

	for _, key := range []string{"fed_rate", "jp_policy", "kr_base"} {
		out[key] = s.rollover.Apply(out[key])
	}
	return out
}

// ExchangeData refreshes FX and reserve figures.
func (s *FinanceService) ExchangeData(ctx context.Context, prev map[string]models.Observation) map[string]models.Observation {
	out := overlay(exchangeSnapshot, prev)

	if obs, err := s.fetcher.FetchTicker(ctx, "DX-Y.NYB"); err == nil && obs.HasValue() {
		out["dxy"] = *obs
	}
	if obs, err := s.fetcher.FetchTicker(ctx, "KRW=X"); err == nil && obs.HasValue() {
		out["usd_krw"] = *obs
	}

	out["foreign_reserves"] = s.rollover.Apply(out["foreign_reserves"])
	out["foreign_bond"] = s.rollover.Apply(out["foreign_bond"])
	return out
}

// EconomyData refreshes announcement-driven macro releases. There is no
// realtime source for these; the rollover simulator is what keeps them
// moving between the twice-daily refreshes.
func (s *FinanceService) EconomyData(ctx context.Context, prev map[string]models.Observation) map[string]models.Observation {
	out := overlay(economySnapshot, prev)
	for key := range economySnapshot {
		out[key] = s.rollover.Apply(out[key])
	}
	return out
}

// HistoryData fetches the full FRED series set. An empty map signals the
// caller to keep the previous history untouched.
func (s *FinanceService) HistoryData(ctx context.Context) map[string]models.HistorySeries {
	out := make(map[string]models.HistorySeries, len(historySeries))
	for key, id := range historySeries {
		series, err := s.fetcher.FetchFredSeries(ctx, id)
		if err != nil || series == nil || len(series.Dates) == 0 {
			continue
		}
		out[key] = *series
	}
	return out
}

// overlay layers the previous cache contents over the snapshot defaults, so
// last known good values win over the shipped seeds and live fetches can
// then overwrite either.
func overlay(snapshot, prev map[string]models.Observation) map[string]models.Observation {
	out := make(map[string]models.Observation, len(snapshot)+len(prev))
	for k, v := range snapshot {
		out[k] = v
	}
	for k, v := range prev {
		out[k] = v
	}
	return out
}
