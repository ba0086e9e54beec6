package polygon

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(Options{BaseURL: srv.URL, APIKey: "test-key", Timeout: 2 * time.Second})
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(payload)
}

func TestGainers(t *testing.T) {
	var gotPath, gotKey string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.URL.Query().Get("apiKey")
		writeJSON(w, map[string]any{
			"status": "OK",
			"tickers": []map[string]any{
				{
					"ticker":           "LOW",
					"todaysChangePerc": 12.5,
					"day":              map[string]any{"c": 4.10, "v": 250000},
				},
				{
					"ticker":           "ABC",
					"todaysChangePerc": 25.0,
					"lastTrade":        map[string]any{"p": 10.00, "s": 100},
					"day":              map[string]any{"c": 9.90, "v": 1000000},
				},
				{
					"ticker":           "TIE",
					"todaysChangePerc": 12.5,
					"min":              map[string]any{"c": 2.20, "av": 5000},
				},
				{
					"ticker":           "NOPX",
					"todaysChangePerc": 40.0,
				},
			},
		})
	})

	records, err := client.Gainers(context.Background())
	require.NoError(t, err)

	assert.Equal(t, gainersPath, gotPath)
	assert.Equal(t, "test-key", gotKey)

	require.Len(t, records, 3)
	assert.Equal(t, "ABC", records[0].Ticker)
	assert.Equal(t, 10.00, records[0].Price)
	assert.Equal(t, 25.0, records[0].ChangePct)
	assert.Equal(t, int64(1000000), records[0].Volume)

	// equal change keeps provider order
	assert.Equal(t, "LOW", records[1].Ticker)
	assert.Equal(t, 4.10, records[1].Price)
	assert.Equal(t, "TIE", records[2].Ticker)
	assert.Equal(t, 2.20, records[2].Price)
	assert.Equal(t, int64(5000), records[2].Volume)
}

func TestGainersServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	records, err := client.Gainers(context.Background())
	assert.Nil(t, records)

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusInternalServerError, fetchErr.StatusCode)
	assert.Equal(t, "gainers", fetchErr.Endpoint)
	assert.Contains(t, err.Error(), "500")
}

func TestGainersMalformedJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tickers": [{"ticker": "ABC",`))
	})

	_, err := client.Gainers(context.Background())

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusOK, fetchErr.StatusCode)
	assert.Error(t, fetchErr.Err)
}

func TestGainersTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()
	client := NewClient(Options{BaseURL: srv.URL, APIKey: "k", Timeout: time.Second})

	_, err := client.Gainers(context.Background())

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, 0, fetchErr.StatusCode)
}

func TestTickerDetails(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, map[string]any{
			"status": "OK",
			"results": map[string]any{
				"ticker":           "ABC",
				"name":             "Acme Biotech Corp",
				"market_cap":       512000000.0,
				"primary_exchange": "XNAS",
			},
		})
	})

	details, err := client.TickerDetails(context.Background(), "ABC")
	require.NoError(t, err)

	assert.Equal(t, "/v3/reference/tickers/ABC", gotPath)
	assert.Equal(t, "ABC", details.Ticker)
	assert.Equal(t, "Acme Biotech Corp", details.Name)
	assert.Equal(t, 512000000.0, details.MarketCap)
	assert.Equal(t, "XNAS", details.PrimaryExchange)
}

func TestTickerDetailsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.TickerDetails(context.Background(), "NOPE")

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, http.StatusNotFound, fetchErr.StatusCode)
}

func TestHeadlines(t *testing.T) {
	since := time.Date(2026, 2, 25, 12, 0, 0, 0, time.UTC)

	var query map[string]string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, newsPath, r.URL.Path)
		q := r.URL.Query()
		query = map[string]string{
			"ticker":            q.Get("ticker"),
			"published_utc.gte": q.Get("published_utc.gte"),
			"order":             q.Get("order"),
			"limit":             q.Get("limit"),
		}
		writeJSON(w, map[string]any{
			"status": "OK",
			"results": []map[string]any{
				{
					"id":            "576d99da",
					"title":         "Acme Biotech Wins FDA Approval",
					"article_url":   "https://example.com/acme-fda",
					"published_utc": "2026-02-26T11:02:00Z",
					"tickers":       []string{"ABC"},
					"publisher":     map[string]any{"name": "GlobeNewswire Inc."},
				},
				{
					"id":            "b1",
					"title":         "Second",
					"published_utc": "not a time",
				},
			},
		})
	})

	headlines, err := client.Headlines(context.Background(), "ABC", since, 5)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"ticker":            "ABC",
		"published_utc.gte": "2026-02-25T12:00:00Z",
		"order":             "desc",
		"limit":             "5",
	}, query)

	require.Len(t, headlines, 2)
	h := headlines[0]
	assert.Equal(t, "Acme Biotech Wins FDA Approval", h.Title)
	assert.Equal(t, "GlobeNewswire Inc.", h.Publisher)
	assert.Equal(t, "https://example.com/acme-fda", h.URL)
	assert.Equal(t, "Polygon", h.Source)
	assert.Equal(t, 26, h.PublishedAt.Day())
	assert.True(t, headlines[1].PublishedAt.IsZero())
}

func TestRequestsArePaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"tickers": []any{}})
	}))
	t.Cleanup(srv.Close)

	// 600 per minute is one request every 100ms
	client := NewClient(Options{BaseURL: srv.URL, APIKey: "k", RequestsPerMinute: 600})

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := client.Gainers(context.Background())
		require.NoError(t, err)
	}
	assert.GreaterOrEqual(t, time.Since(start), 180*time.Millisecond)
}

func TestLastQuote(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		writeJSON(w, map[string]any{
			"status":  "OK",
			"results": map[string]any{"bp": 9.98, "ap": 10.02, "bs": 300, "as": 500},
		})
	})

	q, err := client.LastQuote(context.Background(), "ABC")
	require.NoError(t, err)

	assert.Equal(t, "/v3/quotes/ABC/last", gotPath)
	assert.Equal(t, 9.98, q.BidPrice)
	assert.Equal(t, 10.02, q.AskPrice)
	assert.Equal(t, 300.0, q.BidSize)
	assert.Equal(t, 500.0, q.AskSize)
}

func TestMinuteBars(t *testing.T) {
	from := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	to := from.Add(5*time.Hour + 45*time.Minute)

	var gotPath, gotSort, gotLimit string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSort = r.URL.Query().Get("sort")
		gotLimit = r.URL.Query().Get("limit")
		writeJSON(w, map[string]any{
			"status": "OK",
			"results": []map[string]any{
				{"o": 9.0, "h": 9.5, "l": 8.9, "c": 9.4, "v": 12000, "vw": 9.3, "t": from.UnixMilli()},
				{"o": 9.4, "h": 10.1, "l": 9.4, "c": 10.0, "v": 30000, "vw": 9.8, "t": from.Add(time.Minute).UnixMilli()},
			},
		})
	})

	bars, err := client.MinuteBars(context.Background(), "ABC", from, to)
	require.NoError(t, err)

	assert.Equal(t, "/v2/aggs/ticker/ABC/range/1/minute/1772442000000/1772462700000", gotPath)
	assert.Equal(t, "asc", gotSort)
	assert.Equal(t, "5000", gotLimit)

	require.Len(t, bars, 2)
	assert.Equal(t, 10.0, bars[1].Close)
	assert.Equal(t, 30000.0, bars[1].Volume)
	assert.Equal(t, from.Add(time.Minute), bars[1].Timestamp)
}

func TestDailyBars(t *testing.T) {
	// 01:30 UTC on the 2nd is still the 1st in New York
	to := time.Date(2026, 3, 2, 1, 30, 0, 0, time.UTC)
	from := to.AddDate(0, 0, -30)

	var gotPath, gotSort string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotSort = r.URL.Query().Get("sort")
		writeJSON(w, map[string]any{"results": []map[string]any{{"h": 12.5, "c": 11.0}}})
	})

	bars, err := client.DailyBars(context.Background(), "ABC", from, to)
	require.NoError(t, err)

	assert.Equal(t, "/v2/aggs/ticker/ABC/range/1/day/2026-01-30/2026-03-01", gotPath)
	assert.Equal(t, "desc", gotSort)
	require.Len(t, bars, 1)
	assert.Equal(t, 12.5, bars[0].High)
}

func TestBarsServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})

	_, err := client.MinuteBars(context.Background(), "SPY", time.Now().Add(-time.Hour), time.Now())

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "minute bars", fetchErr.Endpoint)
	assert.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
}
