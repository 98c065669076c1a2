package collector

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"StockScout/internal/model"
)

// ErrNoData is returned when a provider has no bars for a symbol.
var ErrNoData = errors.New("no data returned")

// Fetcher defines the interface for fetching daily market data.
type Fetcher interface {
	// FetchHistory returns daily bars covering period ("1mo", "3mo", "6mo", "1y", "2y").
	FetchHistory(ctx context.Context, symbol, period string) ([]model.Bar, error)
	Name() string
}

// NameResolver is implemented by fetchers that also know a symbol's company name.
type NameResolver interface {
	CompanyName(symbol string) (string, bool)
}

// PeriodDays converts a history period to an approximate number of trading days.
func PeriodDays(period string) int {
	switch strings.ToLower(period) {
	case "1mo":
		return 22
	case "3mo":
		return 66
	case "6mo":
		return 126
	case "1y":
		return 252
	case "2y":
		return 504
	case "5y":
		return 1260
	default:
		return 126
	}
}

// newHTTPClient creates an HTTP client with optional proxy support.
func newHTTPClient(proxyURL string) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
}
