package collector

import (
	"context"
	"errors"
	"fmt"

	"StockScout/internal/model"
)

// FallbackFetcher tries each fetcher in order and returns the first success.
type FallbackFetcher struct {
	Fetchers []Fetcher
}

// NewFallbackFetcher chains fetchers in priority order.
func NewFallbackFetcher(fetchers ...Fetcher) *FallbackFetcher {
	return &FallbackFetcher{Fetchers: fetchers}
}

func (f *FallbackFetcher) Name() string { return "fallback" }

func (f *FallbackFetcher) FetchHistory(ctx context.Context, symbol, period string) ([]model.Bar, error) {
	bars, _, err := f.FetchWithSource(ctx, symbol, period)
	return bars, err
}

// FetchWithSource also reports the name of the fetcher that served the bars.
func (f *FallbackFetcher) FetchWithSource(ctx context.Context, symbol, period string) ([]model.Bar, string, error) {
	var errs []error
	for _, fetcher := range f.Fetchers {
		bars, err := fetcher.FetchHistory(ctx, symbol, period)
		if err == nil && len(bars) > 0 {
			return bars, fetcher.Name(), nil
		}
		if err == nil {
			err = ErrNoData
		}
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}
		errs = append(errs, fmt.Errorf("%s: %w", fetcher.Name(), err))
	}
	if len(errs) == 0 {
		return nil, "", fmt.Errorf("no fetchers configured: %w", ErrNoData)
	}
	return nil, "", errors.Join(errs...)
}

// CompanyName asks each fetcher that can resolve names.
func (f *FallbackFetcher) CompanyName(symbol string) (string, bool) {
	for _, fetcher := range f.Fetchers {
		if r, ok := fetcher.(NameResolver); ok {
			if name, ok := r.CompanyName(symbol); ok {
				return name, true
			}
		}
	}
	return "", false
}
