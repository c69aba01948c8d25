package services

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"macro_dashboard_backend/models"
)

const dateLayout = "2006-01-02"

// Rollover keeps announcement-style indicators (central bank rates, macro
// releases) from looking frozen once their scheduled release date passes and
// no source has produced a fresh number yet. The synthesized value is an
// acknowledged simulation, not a real observation.
type Rollover struct {
	now     func() time.Time
	uniform func() float64 // draws from [0, 1)
}

func NewRollover() *Rollover {
	return &Rollover{now: time.Now, uniform: rand.Float64}
}

// Apply checks whether the observation's next announcement date has passed
// and, if so, advances the dates and perturbs the value by up to ±0.5% while
// keeping the original formatting style. Any parse failure aborts the whole
// rollover: the observation comes back unmodified, never half-mutated.
func (r *Rollover) Apply(obs models.Observation) models.Observation {
	if obs.NextDate == "" || obs.NextDate == models.NextDateTBD {
		return obs
	}
	next, err := time.Parse(dateLayout, obs.NextDate)
	if err != nil {
		return obs
	}

	now := r.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if today.Before(next) {
		return obs
	}

	val, style, ok := parseDisplayValue(obs.Value)
	if !ok {
		return obs
	}
	// The display string still decides the formatting style, but when a
	// fetcher supplied the raw number the arithmetic uses it directly.
	if obs.RawValue != nil {
		val = *obs.RawValue
	}

	out := obs
	out.Date = obs.NextDate
	out.NextDate = addOneMonth(next).Format(dateLayout)

	delta := val * (r.uniform()*0.01 - 0.005)
	out.Value = formatDisplayValue(val+delta, style)
	out.Change = signedTwoDecimal(delta)
	out.RawValue = models.Float64Ptr(val + delta)
	out.RawChange = models.Float64Ptr(delta)
	return out
}

func addOneMonth(d time.Time) time.Time {
	year, month, day := d.Date()
	if month == time.December {
		year++
		month = time.January
	} else {
		month++
	}
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

type valueStyle int

const (
	stylePlain valueStyle = iota
	stylePercent
	styleThousandsK
	styleEokUSD // "억$" suffix on Korean reserve figures (hundreds of millions USD)
)

func parseDisplayValue(s string) (float64, valueStyle, bool) {
	style := stylePlain
	switch {
	case strings.Contains(s, "%"):
		style = stylePercent
	case strings.Contains(s, "억$"):
		style = styleEokUSD
	case strings.Contains(s, "K"):
		style = styleThousandsK
	}

	cleaned := strings.NewReplacer("%", "", "K", "", "B", "", "억$", "", ",", "").Replace(s)
	cleaned = strings.TrimSpace(cleaned)
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, stylePlain, false
	}
	return v, style, true
}

func formatDisplayValue(v float64, style valueStyle) string {
	switch style {
	case stylePercent:
		return fmt.Sprintf("%.1f%%", v)
	case styleThousandsK:
		return fmt.Sprintf("%dK", int(v))
	case styleEokUSD:
		return fmt.Sprintf("%d억$", int(v))
	default:
		return fmt.Sprintf("%.2f", v)
	}
}

func signedTwoDecimal(v float64) string {
	d := decimal.NewFromFloat(v)
	s := d.StringFixed(2)
	if d.Sign() >= 0 {
		return "+" + s
	}
	return s
}
