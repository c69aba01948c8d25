package datafetcher

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"macro_dashboard_backend/metrics"
	"macro_dashboard_backend/models"
)

var (
	investingPriceRe   = regexp.MustCompile(`(?s)data-test="instrument-price-last"[^>]*>(.*?)</`)
	investingChangeRe  = regexp.MustCompile(`(?s)data-test="instrument-price-change"[^>]*>(.*?)</`)
	investingPercentRe = regexp.MustCompile(`(?s)data-test="instrument-price-change-percent"[^>]*>(.*?)</`)

	tbodyRe    = regexp.MustCompile(`(?s)<tbody[^>]*>(.*?)</tbody>`)
	tableRowRe = regexp.MustCompile(`(?s)<tr[^>]*>(.*?)</tr>`)
	tableColRe = regexp.MustCompile(`(?s)<td[^>]*>(.*?)</td>`)
	htmlTagRe  = regexp.MustCompile(`<[^>]*>`)

	// Calendar dates render as "2025년 12월 24일 (12월)".
	koreanDateRe = regexp.MustCompile(`(\d{4})년\s*(\d{1,2})월\s*(\d{1,2})일`)
)

// FetchInvestingPrice scrapes an Investing.com instrument page for the main
// price, change and percent.
func (df *DataFetcher) FetchInvestingPrice(ctx context.Context, pageURL, name string) (*models.Observation, error) {
	body, err := df.httpGet(ctx, pageURL)
	if err != nil {
		metrics.RecordFetch("investing", metrics.StatusError)
		return nil, err
	}
	page := string(body)

	price := firstMatch(investingPriceRe, page)
	if price == "" {
		metrics.RecordFetch("investing", metrics.StatusError)
		return nil, fmt.Errorf("%s: price element not found: %w", name, ErrNoData)
	}

	change := firstMatch(investingChangeRe, page)
	if change == "" {
		change = "0.00"
	}
	percent := firstMatch(investingPercentRe, page)
	if percent == "" {
		percent = "0.00%"
	}
	// Percent renders as "(+0.5%)" on some layouts.
	percent = strings.NewReplacer("(", "", ")", "").Replace(percent)

	metrics.RecordFetch("investing", metrics.StatusOK)
	return &models.Observation{
		Value:   price,
		Change:  change,
		Percent: percent,
	}, nil
}

// FetchCalendarEvent scrapes an Investing.com economic-calendar event page.
// The history table lists upcoming releases (rows without an "actual" value)
// above past releases; the first empty row yields the next announcement
// date, the first two filled rows yield the current value and its change.
// When only the next date could be read, the partial observation is returned
// alongside ErrNoData so a fallback source can inherit the date.
func (df *DataFetcher) FetchCalendarEvent(ctx context.Context, pageURL, eventID, name string) (*models.Observation, error) {
	body, err := df.httpGet(ctx, pageURL)
	if err != nil {
		metrics.RecordFetch("investing_calendar", metrics.StatusError)
		return nil, err
	}

	tableRe := regexp.MustCompile(`(?s)<table[^>]*id="eventHistoryTable` + regexp.QuoteMeta(eventID) + `"[^>]*>(.*?)</table>`)
	table := firstSubmatch(tableRe, string(body))
	if table == "" {
		metrics.RecordFetch("investing_calendar", metrics.StatusError)
		return nil, fmt.Errorf("%s: history table %s not found: %w", name, eventID, ErrNoData)
	}
	if tb := firstSubmatch(tbodyRe, table); tb != "" {
		table = tb
	}

	type release struct {
		date  string
		value string
	}
	var history []release
	var nextDate string

	for _, row := range tableRowRe.FindAllStringSubmatch(table, -1) {
		cols := tableColRe.FindAllStringSubmatch(row[1], -1)
		if len(cols) < 3 {
			continue
		}
		rawDate := stripTags(cols[0][1])
		actual := stripTags(cols[2][1])

		date := rawDate
		if m := koreanDateRe.FindStringSubmatch(rawDate); m != nil {
			month, _ := strconv.Atoi(m[2])
			day, _ := strconv.Atoi(m[3])
			date = fmt.Sprintf("%s-%02d-%02d", m[1], month, day)
		}

		if actual == "" {
			if nextDate == "" && date != "" {
				nextDate = date
			}
			continue
		}
		history = append(history, release{date: date, value: actual})
		if len(history) >= 2 {
			break
		}
	}

	if len(history) == 0 {
		metrics.RecordFetch("investing_calendar", metrics.StatusError)
		if nextDate != "" {
			return &models.Observation{NextDate: nextDate}, ErrNoData
		}
		return nil, ErrNoData
	}

	latest := history[0]
	obs := &models.Observation{
		Value:    latest.value,
		Change:   "0.00",
		Percent:  "0.00%",
		Date:     latest.date,
		NextDate: nextDate,
	}

	if len(history) >= 2 {
		curr, okCurr := parseCalendarValue(latest.value)
		prev, okPrev := parseCalendarValue(history[1].value)
		if okCurr {
			obs.RawValue = models.Float64Ptr(curr)
		}
		if okCurr && okPrev {
			change := curr - prev
			var percent float64
			if prev != 0 {
				percent = (change / prev) * 100
			}
			obs.Change = signedCommas(change, 2)
			obs.Percent = signedCommas(percent, 2) + "%"
			obs.RawChange = models.Float64Ptr(change)
			obs.RawPercent = models.Float64Ptr(percent)
		}
	}

	metrics.RecordFetch("investing_calendar", metrics.StatusOK)
	return obs, nil
}

func parseCalendarValue(s string) (float64, bool) {
	s = strings.NewReplacer(",", "", "B", "", "M", "", "K", "", "k", "", "%", "").Replace(s)
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func stripTags(s string) string {
	s = htmlTagRe.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	s = strings.ReplaceAll(s, "\u00a0", "")
	return strings.TrimSpace(s)
}

func firstMatch(re *regexp.Regexp, page string) string {
	return stripTags(firstSubmatch(re, page))
}

func firstSubmatch(re *regexp.Regexp, page string) string {
	m := re.FindStringSubmatch(page)
	if m == nil {
		return ""
	}
	return m[1]
}
