package collector

import (
	"context"
	"fmt"

	"StockScout/internal/model"
)

// StaticFetcher serves fixed bars for development and testing.
type StaticFetcher struct {
	Bars  map[string][]model.Bar
	Names map[string]string
	Err   error // returned for every call when set
}

func (s *StaticFetcher) Name() string { return "static" }

func (s *StaticFetcher) FetchHistory(_ context.Context, symbol, _ string) ([]model.Bar, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	bars, ok := s.Bars[symbol]
	if !ok || len(bars) == 0 {
		return nil, fmt.Errorf("static %s: %w", symbol, ErrNoData)
	}
	return append([]model.Bar(nil), bars...), nil
}

func (s *StaticFetcher) CompanyName(symbol string) (string, bool) {
	name, ok := s.Names[symbol]
	return name, ok
}
