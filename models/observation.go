package models

// Category groups indicators that share a refresh cadence.
type Category string

const (
	CategoryStocks   Category = "stocks"
	CategoryRates    Category = "rates"
	CategoryExchange Category = "exchange"
	CategoryEconomy  Category = "economy"
	CategoryHistory  Category = "history"
)

// ObservationCategories are the categories holding indicator observations.
// CategoryHistory is handled separately (full-replace series data).
var ObservationCategories = []Category{
	CategoryStocks,
	CategoryRates,
	CategoryExchange,
	CategoryEconomy,
}

// NextDateTBD marks an unknown next announcement date. Rollover skips it.
const NextDateTBD = "TBD"

// Observation is one indicator's latest value as produced by a fetcher.
// Value/Change/Percent are pre-formatted display strings; RawValue, RawChange
// and RawPercent carry the unformatted numbers so arithmetic (the rollover
// simulator in particular) never has to round-trip through the display
// string. Observations are immutable once produced: the cache only ever
// replaces them whole.
type Observation struct {
	Value      string   `json:"value"`
	Change     string   `json:"change,omitempty"`
	Percent    string   `json:"percent,omitempty"`
	Date       string   `json:"date,omitempty"`
	NextDate   string   `json:"next_date,omitempty"`
	RawValue   *float64 `json:"raw_value,omitempty"`
	RawChange  *float64 `json:"raw_change,omitempty"`
	RawPercent *float64 `json:"raw_percent,omitempty"`
}

// HasValue reports whether the observation is well-formed enough to be
// served. Fetchers may return partial observations (e.g. a calendar page
// that only yielded the next release date) alongside an error.
func (o *Observation) HasValue() bool {
	return o != nil && o.Value != ""
}

// HistorySeries is an index-aligned pair of ISO dates and values in
// ascending date order.
type HistorySeries struct {
	Dates  []string  `json:"dates"`
	Values []float64 `json:"values"`
}

// Float64Ptr returns a pointer to v, for the optional raw fields.
func Float64Ptr(v float64) *float64 {
	return &v
}
