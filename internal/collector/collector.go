package collector

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"StockScout/internal/model"
)

// sourceFetcher is implemented by fetchers that can name the provider that answered.
type sourceFetcher interface {
	FetchWithSource(ctx context.Context, symbol, period string) ([]model.Bar, string, error)
}

// Collector retrieves normalized daily history with rate limiting and retries.
type Collector struct {
	Fetcher    Fetcher
	Period     string
	MaxRetries int
	Backoff    time.Duration // first retry delay, doubled per attempt

	limiter *rate.Limiter
	logger  zerolog.Logger
}

// NewCollector creates a collector allowing rps provider requests per second.
func NewCollector(fetcher Fetcher, period string, rps float64, maxRetries int, logger zerolog.Logger) *Collector {
	return &Collector{
		Fetcher:    fetcher,
		Period:     period,
		MaxRetries: maxRetries,
		Backoff:    time.Second,
		limiter:    rate.NewLimiter(rate.Limit(rps), 1),
		logger:     logger,
	}
}

// History returns the normalized bars of symbol and the name of the source that served them.
func (c *Collector) History(ctx context.Context, symbol string) ([]model.Bar, string, error) {
	var lastErr error
	for i := 0; i <= c.MaxRetries; i++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, "", err
		}

		bars, source, err := c.fetch(ctx, symbol)
		if err == nil {
			return Normalize(bars), source, nil
		}
		lastErr = err
		if errors.Is(err, ErrNoData) || ctx.Err() != nil {
			break
		}
		if i == c.MaxRetries {
			break
		}

		backoff := c.Backoff * time.Duration(1<<uint(i))
		c.logger.Warn().Err(err).
			Str("symbol", symbol).
			Int("attempt", i+1).
			Dur("backoff", backoff).
			Msg("history fetch failed, retrying")
		select {
		case <-ctx.Done():
			return nil, "", ctx.Err()
		case <-time.After(backoff):
		}
	}
	if ctx.Err() != nil {
		return nil, "", ctx.Err()
	}
	return nil, "", fmt.Errorf("fetch %s: %w", symbol, lastErr)
}

func (c *Collector) fetch(ctx context.Context, symbol string) ([]model.Bar, string, error) {
	if sf, ok := c.Fetcher.(sourceFetcher); ok {
		return sf.FetchWithSource(ctx, symbol, c.Period)
	}
	bars, err := c.Fetcher.FetchHistory(ctx, symbol, c.Period)
	return bars, c.Fetcher.Name(), err
}

// CompanyName resolves the display name of symbol when the fetcher knows it.
func (c *Collector) CompanyName(symbol string) (string, bool) {
	if r, ok := c.Fetcher.(NameResolver); ok {
		return r.CompanyName(symbol)
	}
	return "", false
}

// Normalize sorts bars by time, truncates timestamps to the calendar day and
// keeps only the last bar of each day.
func Normalize(bars []model.Bar) []model.Bar {
	out := make([]model.Bar, len(bars))
	for i, b := range bars {
		b.Time = model.Day(b.Time)
		out[i] = b
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time.Before(out[j].Time) })

	deduped := out[:0]
	for _, b := range out {
		if n := len(deduped); n > 0 && deduped[n-1].Time.Equal(b.Time) {
			deduped[n-1] = b
			continue
		}
		deduped = append(deduped, b)
	}
	return deduped
}
