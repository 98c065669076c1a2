package strategy

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"StockScout/internal/calculator"
	"StockScout/internal/model"
)

// randomWalk turns per-bar returns and volumes into a valid bar series.
func randomWalk(returns, volumes []float64) []model.Bar {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	bars := make([]model.Bar, len(returns))
	price := 100.0
	for i, r := range returns {
		open := price
		price *= 1 + r
		if price < 0.01 {
			price = 0.01
		}
		high, low := open, price
		vol := 0.0
		if i < len(volumes) {
			vol = volumes[i]
		}
		if low > high {
			high, low = low, high
		}
		bars[i] = model.Bar{
			Time:   start.AddDate(0, 0, i),
			Open:   open,
			High:   high * 1.01,
			Low:    low * 0.99,
			Close:  price,
			Volume: vol,
		}
	}
	return bars
}

func TestProperty_ScoreWithinCaps(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	w := DefaultWeights()

	properties.Property("components and total stay within their caps", prop.ForAll(
		func(returns, volumes []float64) bool {
			bars := randomWalk(returns, volumes)
			snap, err := calculator.BuildSnapshot(bars)
			if err != nil {
				return false
			}
			b := Score(Input{Closes: model.Closes(bars), Volumes: model.Volumes(bars), Snapshot: snap})

			within := func(v, hi float64) bool { return v >= 0 && v <= hi }
			return within(b.PriceMomentum, w.MomentumCap) &&
				within(b.TechnicalStrength, w.TechnicalCap) &&
				within(b.VolumeConfirmation, w.VolumeCap) &&
				within(b.TrendQuality, w.TrendCap) &&
				within(b.RiskAdjustment, w.RiskCap) &&
				within(b.TotalScore, 100)
		},
		gen.SliceOfN(60, gen.Float64Range(-0.15, 0.15)),
		gen.SliceOfN(60, gen.Float64Range(0, 5e7)),
	))

	properties.Property("short histories degrade without failing", prop.ForAll(
		func(returns, volumes []float64) bool {
			bars := randomWalk(returns, volumes)
			snap, err := calculator.BuildSnapshot(bars)
			if err != nil {
				return false
			}
			b := Score(Input{Closes: model.Closes(bars), Volumes: model.Volumes(bars), Snapshot: snap})
			return b.TotalScore >= 0 && b.TotalScore <= 100 && !snap.Defined(model.IndSMA50)
		},
		gen.SliceOfN(25, gen.Float64Range(-0.1, 0.1)),
		gen.SliceOfN(25, gen.Float64Range(0, 1e6)),
	))

	properties.Property("score is deterministic", prop.ForAll(
		func(returns, volumes []float64) bool {
			bars := randomWalk(returns, volumes)
			snap, _ := calculator.BuildSnapshot(bars)
			in := Input{Closes: model.Closes(bars), Volumes: model.Volumes(bars), Snapshot: snap}
			a, b := Score(in), Score(in)
			return a == b && Narrate(a, snap) == Narrate(b, snap)
		},
		gen.SliceOfN(50, gen.Float64Range(-0.05, 0.05)),
		gen.SliceOfN(50, gen.Float64Range(1, 1e6)),
	))

	properties.TestingRun(t)
}
