package collector

import (
	"context"
	"hash/fnv"
	"math"
	"math/rand/v2"
	"time"

	"gonum.org/v1/gonum/stat/distuv"

	"StockScout/internal/model"
)

// SyntheticFetcher generates a deterministic random walk per symbol. The same
// symbol, period and day always produce the same bars.
type SyntheticFetcher struct {
	Now   func() time.Time
	Drift float64 // mean daily return
	Vol   float64 // daily return standard deviation
}

// NewSyntheticFetcher creates a synthetic fetcher with equity-like parameters.
func NewSyntheticFetcher() *SyntheticFetcher {
	return &SyntheticFetcher{Now: time.Now, Drift: 0.0005, Vol: 0.02}
}

func (f *SyntheticFetcher) Name() string { return "synthetic" }

func symbolSeed(symbol string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(symbol))
	return h.Sum64()
}

// businessDays returns the n most recent weekdays ending at or before end, oldest first.
func businessDays(end time.Time, n int) []time.Time {
	days := make([]time.Time, 0, n)
	d := model.Day(end)
	for len(days) < n {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days = append(days, d)
		}
		d = d.AddDate(0, 0, -1)
	}
	for i, j := 0, len(days)-1; i < j; i, j = i+1, j-1 {
		days[i], days[j] = days[j], days[i]
	}
	return days
}

// FetchHistory generates bars for the trading days of period ending today.
func (f *SyntheticFetcher) FetchHistory(_ context.Context, symbol, period string) ([]model.Bar, error) {
	seed := symbolSeed(symbol)
	src := rand.NewPCG(seed, seed>>7|1)
	rng := rand.New(src)

	returns := distuv.Normal{Mu: f.Drift, Sigma: f.Vol, Src: src}
	volumes := distuv.LogNormal{Mu: math.Log(2e6 + float64(seed%8e6)), Sigma: 0.35, Src: src}

	price := 20 + float64(seed%480)
	days := businessDays(f.Now(), PeriodDays(period))
	bars := make([]model.Bar, len(days))
	for i, day := range days {
		open := price
		price = math.Max(open*(1+returns.Rand()), 0.5)
		hi := math.Max(open, price) * (1 + rng.Float64()*0.01)
		lo := math.Min(open, price) * (1 - rng.Float64()*0.01)
		bars[i] = model.Bar{
			Time:   day,
			Open:   model.Round(open, 2),
			High:   model.Round(hi, 2),
			Low:    model.Round(lo, 2),
			Close:  model.Round(price, 2),
			Volume: math.Round(volumes.Rand()),
		}
		// rounding can invert a bar whose range is under a cent
		bars[i].High = math.Max(bars[i].High, math.Max(bars[i].Open, bars[i].Close))
		bars[i].Low = math.Min(bars[i].Low, math.Min(bars[i].Open, bars[i].Close))
	}
	return bars, nil
}
