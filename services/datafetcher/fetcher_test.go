package datafetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchTicker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/ES=F", r.URL.Path)
		w.Write([]byte(`{"chart":{"result":[{"meta":{"regularMarketPrice":6890.25,"previousClose":6851.0}}],"error":null}}`))
	}))
	defer srv.Close()

	df := New("")
	df.yahooBaseURL = srv.URL

	obs, err := df.FetchTicker(context.Background(), "ES=F")
	require.NoError(t, err)
	assert.Equal(t, "6,890.25", obs.Value)
	assert.Equal(t, "+39.25", obs.Change)
	assert.Equal(t, "+0.57", obs.Percent)
	require.NotNil(t, obs.RawChange)
	assert.InDelta(t, 39.25, *obs.RawChange, 1e-9)
}

func TestFetchTickerEmptyResult(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	}))
	defer srv.Close()

	df := New("")
	df.yahooBaseURL = srv.URL

	_, err := df.FetchTicker(context.Background(), "ES=F")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFetchSOFR(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/rates/secured/sofr/search.json", r.URL.Path)
		assert.Equal(t, "sofr", r.URL.Query().Get("type"))
		w.Write([]byte(`{"refRates":[
			{"effectiveDate":"2025-12-03","type":"SOFR","percentRate":4.58},
			{"effectiveDate":"2025-12-04","type":"SOFR","percentRate":4.60},
			{"effectiveDate":"2025-12-04","type":"TGCR","percentRate":4.55}
		]}`))
	}))
	defer srv.Close()

	df := New("")
	df.nyfedBaseURL = srv.URL

	obs, err := df.FetchSOFR(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "4.60%", obs.Value)
	assert.Equal(t, "+0.02", obs.Change)
	assert.Equal(t, "2025-12-04", obs.Date)
}

func TestFetchFredLatestNoKey(t *testing.T) {
	df := New("")
	_, err := df.FetchFredLatest(context.Background(), "DFF")
	assert.ErrorIs(t, err, ErrNoData)

	_, err = df.FetchFredSeries(context.Background(), "DFF")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestFetchFredLatest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/fred/series/observations", r.URL.Path)
		assert.Equal(t, "DFF", r.URL.Query().Get("series_id"))
		assert.Equal(t, "test-key", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{"observations":[
			{"date":"2025-12-04","value":"."},
			{"date":"2025-12-03","value":"4.33"},
			{"date":"2025-12-02","value":"4.58"}
		]}`))
	}))
	defer srv.Close()

	df := New("test-key")
	df.fredBaseURL = srv.URL

	obs, err := df.FetchFredLatest(context.Background(), "DFF")
	require.NoError(t, err)
	assert.Equal(t, "4.33%", obs.Value)
	assert.Equal(t, "-0.25", obs.Change)
	assert.Equal(t, "2025-12-03", obs.Date)
}

func TestFetchFredSeries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "asc", r.URL.Query().Get("sort_order"))
		w.Write([]byte(`{"observations":[
			{"date":"2025-01-01","value":"4.33"},
			{"date":"2025-02-01","value":"."},
			{"date":"2025-03-01","value":"4.08"}
		]}`))
	}))
	defer srv.Close()

	df := New("test-key")
	df.fredBaseURL = srv.URL

	series, err := df.FetchFredSeries(context.Background(), "DGS10")
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01-01", "2025-03-01"}, series.Dates)
	assert.Equal(t, []float64{4.33, 4.08}, series.Values)
}

func TestFetchFearGreed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"fear_and_greed":{"score":62.4,"previous_close":58.1,"rating":"greed"}}`))
	}))
	defer srv.Close()

	df := New("")
	df.fearGreedURL = srv.URL

	obs, err := df.FetchFearGreed(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "62", obs.Value)
	assert.Equal(t, "4", obs.Change)
}

const calendarPage = `
<html><body>
<table id="eventHistoryTable168" class="genTbl">
<tbody>
<tr><td>2025년 12월 18일 (12월)</td><td>21:00</td><td>&nbsp;</td><td>4.50%</td><td>4.50%</td></tr>
<tr><td>2025년 11월 7일 (11월)</td><td>21:00</td><td>4.50%</td><td>4.50%</td><td>4.75%</td></tr>
<tr><td>2025년 9월 18일 (9월)</td><td>21:00</td><td>4.75%</td><td>4.75%</td><td>5.00%</td></tr>
</tbody>
</table>
</body></html>`

func TestFetchCalendarEvent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(calendarPage))
	}))
	defer srv.Close()

	df := New("")
	obs, err := df.FetchCalendarEvent(context.Background(), srv.URL, "168", "fed_rate")
	require.NoError(t, err)
	assert.Equal(t, "4.50%", obs.Value)
	assert.Equal(t, "2025-11-07", obs.Date)
	assert.Equal(t, "2025-12-18", obs.NextDate)
	assert.Equal(t, "-0.25", obs.Change)
}

func TestFetchCalendarEventOnlyUpcoming(t *testing.T) {
	page := `<table id="eventHistoryTable168"><tbody>
	<tr><td>2025년 12월 18일 (12월)</td><td>21:00</td><td>&nbsp;</td><td>4.50%</td></tr>
	</tbody></table>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	df := New("")
	obs, err := df.FetchCalendarEvent(context.Background(), srv.URL, "168", "fed_rate")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoData))
	require.NotNil(t, obs)
	assert.Equal(t, "2025-12-18", obs.NextDate)
	assert.Empty(t, obs.Value)
}

func TestFetchCalendarEventTableMissing(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body>nothing here</body></html>`))
	}))
	defer srv.Close()

	df := New("")
	_, err := df.FetchCalendarEvent(context.Background(), srv.URL, "168", "fed_rate")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestHTTPGetNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	df := New("")
	_, err := df.httpGet(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestFormatFloatWithCommas(t *testing.T) {
	assert.Equal(t, "6,890.25", formatFloatWithCommas(6890.25, 2))
	assert.Equal(t, "123", formatFloatWithCommas(123, 0))
	assert.Equal(t, "1,234,567.80", formatFloatWithCommas(1234567.8, 2))
	assert.Equal(t, "-1,000.00", formatFloatWithCommas(-1000, 2))
	assert.Equal(t, "+0.57", signedCommas(0.57, 2))
	assert.Equal(t, "-0.25", signedCommas(-0.25, 2))
}
