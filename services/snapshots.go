package services

import "macro_dashboard_backend/models"

// Snapshot defaults seed every category so the API serves a complete mapping
// from the very first request, even before any live fetch has succeeded.
// Values are the last manually verified readings; the rollover simulator
// keeps the dated ones from going visibly stale.

var stocksSnapshot = map[string]models.Observation{
	"sp_futures":     {Value: "6,878.25", Change: "-7.25", Percent: "-0.11"},
	"dow_futures":    {Value: "48,001.00", Change: "-49.00", Percent: "-0.10"},
	"nasdaq_futures": {Value: "25,718.25", Change: "+95.50", Percent: "+0.37"},
	"wti":            {Value: "60.08", Change: "+0.41", Percent: "+0.69"},
	"russell":        {Value: "2,520.95", Change: "-10.21", Percent: "-0.40"},
	"vix":            {Value: "15.42", Change: "-1.01", Percent: "-6.15"},
	"high_yield":     {Value: "2.89", Date: "2025-12-04", NextDate: "2025-12-05"},
	"fear_greed":     {Value: "40", Change: "0", RawChange: models.Float64Ptr(0)},
}

var ratesSnapshot = map[string]models.Observation{
	"us_10y":         {Value: "4.14", Change: "-0.04", Percent: "-0.96"},
	"us_2y":          {Value: "3.56", Change: "-0.03", Percent: "-0.84"},
	"us_10_2_spread": {Value: "0.58", Change: "-0.01", Percent: "-1.72"},
	"fed_rate":       {Value: "4.50", Change: "0.00", Percent: "0.00", Date: "2025-11-07", NextDate: "2025-12-18"},
	"jp_2y":          {Value: "1.01", Change: "+0.01", Percent: "+0.99"},
	"jp_policy":      {Value: "0.50", Change: "0.00", Date: "2025-10-31", NextDate: "2025-12-19"},
	"kr_10y":         {Value: "3.375", Change: "+0.02", Percent: "+0.60"},
	"kr_2y":          {Value: "2.87", Change: "-0.01", Percent: "-0.35"},
	"kr_base":        {Value: "2.50", Change: "0.00", Date: "2025-11-28", NextDate: "2026-01-11"},
	"sofr":           {Value: "3.92", Change: "-0.03"},
}

var exchangeSnapshot = map[string]models.Observation{
	"dxy":              {Value: "98.99", Change: "-0.01"},
	"usd_krw":          {Value: "1,473.81", Change: "+0.60"},
	"foreign_reserves": {Value: "4,307억$", Change: "+19억", Date: "2025-12-04", NextDate: "2026-01-05"},
	"foreign_bond":     {Value: "1,807억$", Change: "+46억", Date: "2025-12-01", NextDate: "2026-01-01"},
}

var economySnapshot = map[string]models.Observation{
	"cci":          {Value: "88.7", Change: "-6.8", Date: "2025-11-25", NextDate: "2025-12-23"},
	"pmi":          {Value: "48.2", Change: "-0.3", Date: "2025-12-01", NextDate: "2026-01-02"},
	"unemployment": {Value: "4.4%", Change: "+0.0%", Date: "2025-11-20", NextDate: "2025-12-16"},
	"non_farm":     {Value: "119K", Change: "+12K", Date: "2025-11-20", NextDate: "2025-12-16"},
}
