package collector

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockScout/internal/analyzer"
	"StockScout/internal/model"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

const yahooBody = `{
  "chart": {
    "result": [{
      "meta": {"symbol": "VOD.L", "longName": "Vodafone Group Plc", "gmtoffset": 3600},
      "timestamp": [1717138800, 1717225200, 1717052400],
      "indicators": {"quote": [{
        "open":   [70.1, null, 69.0],
        "high":   [71.0, null, 70.2],
        "low":    [69.5, null, 68.8],
        "close":  [70.8, null, 70.0],
        "volume": [1200000, null, 900000]
      }]}
    }],
    "error": null
  }
}`

func TestYahooFetcher_FetchHistory(t *testing.T) {
	var gotPath, gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		fmt.Fprint(w, yahooBody)
	}))
	defer srv.Close()

	f := NewYahooFetcher("")
	f.BaseURL = srv.URL

	bars, err := f.FetchHistory(context.Background(), "VOD.L", "6mo")
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/VOD.L", gotPath)
	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, "range=6mo")

	// null bar skipped, sorted oldest first, exchange-local days
	require.Len(t, bars, 2)
	assert.Equal(t, day(2024, 5, 30), bars[0].Time)
	assert.Equal(t, 70.0, bars[0].Close)
	assert.Equal(t, day(2024, 5, 31), bars[1].Time)
	assert.Equal(t, 1200000.0, bars[1].Volume)

	name, ok := f.CompanyName("VOD.L")
	assert.True(t, ok)
	assert.Equal(t, "Vodafone Group Plc", name)
}

func TestYahooFetcher_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		noData bool
	}{
		{"not found", http.StatusNotFound, `{}`, true},
		{"empty result", http.StatusOK, `{"chart":{"result":[],"error":null}}`, true},
		{"api error", http.StatusOK, `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`, false},
		{"server error", http.StatusBadGateway, `oops`, false},
		{"bad json", http.StatusOK, `{`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			}))
			defer srv.Close()

			f := NewYahooFetcher("")
			f.BaseURL = srv.URL
			_, err := f.FetchHistory(context.Background(), "XXX", "1mo")
			require.Error(t, err)
			assert.Equal(t, tt.noData, errors.Is(err, ErrNoData))
		})
	}
}

func TestRESTFetcher_FetchHistory(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/bars/daily", r.URL.Path)
		assert.Equal(t, "AAPL", r.URL.Query().Get("symbol"))
		assert.Equal(t, "3mo", r.URL.Query().Get("period"))
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		fmt.Fprint(w, `[
			{"timestamp": 1717200000, "open": 2, "high": 3, "low": 1, "close": 2.5, "volume": 10},
			{"timestamp": 1717113600, "open": 1, "high": 2, "low": 1, "close": 2, "volume": 20}
		]`)
	}))
	defer srv.Close()

	f := NewRESTFetcher(srv.URL+"/", "secret", "")
	bars, err := f.FetchHistory(context.Background(), "AAPL", "3mo")
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, day(2024, 5, 31), bars[0].Time)
	assert.Equal(t, day(2024, 6, 1), bars[1].Time)
	assert.Equal(t, 2.5, bars[1].Close)
}

func TestRESTFetcher_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	}))
	defer srv.Close()

	_, err := NewRESTFetcher(srv.URL, "", "").FetchHistory(context.Background(), "AAPL", "3mo")
	assert.ErrorIs(t, err, ErrNoData)
}

func TestSyntheticFetcher(t *testing.T) {
	f := NewSyntheticFetcher()
	f.Now = func() time.Time { return time.Date(2024, 6, 5, 15, 0, 0, 0, time.UTC) }

	a, err := f.FetchHistory(context.Background(), "AAPL", "6mo")
	require.NoError(t, err)
	b, err := f.FetchHistory(context.Background(), "AAPL", "6mo")
	require.NoError(t, err)
	c, err := f.FetchHistory(context.Background(), "MSFT", "6mo")
	require.NoError(t, err)

	assert.Len(t, a, PeriodDays("6mo"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a[len(a)-1].Close, c[len(c)-1].Close)
	assert.Equal(t, day(2024, 6, 5), a[len(a)-1].Time)
	for _, bar := range a {
		assert.NotEqual(t, time.Saturday, bar.Time.Weekday())
		assert.NotEqual(t, time.Sunday, bar.Time.Weekday())
	}
	assert.NoError(t, analyzer.Validate(a))
}

func TestFallbackFetcher(t *testing.T) {
	bars := []model.Bar{{Time: day(2024, 1, 2), Open: 1, High: 1, Low: 1, Close: 1}}
	failing := &StaticFetcher{Err: errors.New("provider down")}
	backup := &StaticFetcher{Bars: map[string][]model.Bar{"AAPL": bars}, Names: map[string]string{"AAPL": "Apple Inc."}}
	f := NewFallbackFetcher(failing, backup)

	got, source, err := f.FetchWithSource(context.Background(), "AAPL", "6mo")
	require.NoError(t, err)
	assert.Equal(t, "static", source)
	assert.Equal(t, bars, got)

	name, ok := f.CompanyName("AAPL")
	assert.True(t, ok)
	assert.Equal(t, "Apple Inc.", name)

	_, _, err = f.FetchWithSource(context.Background(), "MSFT", "6mo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "provider down")
	assert.ErrorIs(t, err, ErrNoData)
}

type flakyFetcher struct {
	failures int32
	calls    atomic.Int32
	err      error
	bars     []model.Bar
}

func (f *flakyFetcher) Name() string { return "flaky" }

func (f *flakyFetcher) FetchHistory(context.Context, string, string) ([]model.Bar, error) {
	if f.calls.Add(1) <= f.failures {
		return nil, f.err
	}
	return f.bars, nil
}

func newTestCollector(f Fetcher, retries int) *Collector {
	c := NewCollector(f, "6mo", 1000, retries, zerolog.Nop())
	c.Backoff = time.Millisecond
	return c
}

func TestCollector_RetriesTransientErrors(t *testing.T) {
	f := &flakyFetcher{
		failures: 2,
		err:      errors.New("timeout"),
		bars: []model.Bar{
			{Time: day(2024, 1, 3), Close: 2},
			{Time: day(2024, 1, 2), Close: 1},
		},
	}
	bars, source, err := newTestCollector(f, 3).History(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, "flaky", source)
	assert.Equal(t, int32(3), f.calls.Load())
	require.Len(t, bars, 2)
	assert.Equal(t, 1.0, bars[0].Close)
}

func TestCollector_GivesUp(t *testing.T) {
	f := &flakyFetcher{failures: 10, err: errors.New("timeout")}
	_, _, err := newTestCollector(f, 2).History(context.Background(), "AAPL")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout")
	assert.Equal(t, int32(3), f.calls.Load())
}

func TestCollector_NoRetryOnNoData(t *testing.T) {
	f := &flakyFetcher{failures: 10, err: fmt.Errorf("x: %w", ErrNoData)}
	_, _, err := newTestCollector(f, 3).History(context.Background(), "AAPL")
	assert.ErrorIs(t, err, ErrNoData)
	assert.Equal(t, int32(1), f.calls.Load())
}

func TestCollector_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	f := &flakyFetcher{bars: []model.Bar{{Time: day(2024, 1, 2)}}}
	_, _, err := newTestCollector(f, 3).History(ctx, "AAPL")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCollector_SourceFromFallback(t *testing.T) {
	synthetic := NewSyntheticFetcher()
	f := NewFallbackFetcher(&StaticFetcher{Err: fmt.Errorf("down: %w", ErrNoData)}, synthetic)
	bars, source, err := newTestCollector(f, 0).History(context.Background(), "NVDA")
	require.NoError(t, err)
	assert.Equal(t, "synthetic", source)
	assert.NotEmpty(t, bars)
}

func TestNormalize(t *testing.T) {
	in := []model.Bar{
		{Time: time.Date(2024, 1, 3, 21, 0, 0, 0, time.UTC), Close: 3},
		{Time: time.Date(2024, 1, 2, 14, 30, 0, 0, time.UTC), Close: 1},
		{Time: time.Date(2024, 1, 2, 21, 0, 0, 0, time.UTC), Close: 2},
	}
	out := Normalize(in)
	require.Len(t, out, 2)
	assert.Equal(t, day(2024, 1, 2), out[0].Time)
	assert.Equal(t, 2.0, out[0].Close)
	assert.Equal(t, day(2024, 1, 3), out[1].Time)
	assert.Empty(t, Normalize(nil))
}
