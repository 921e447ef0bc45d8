package market

import (
	"fmt"
	"math"
	"math/rand"
	"time"

	"fleetsim/core/model"
)

// GeneratorParams shapes the synthetic day-ahead price curve: a flat base
// with a morning and an evening peak, uniform noise on top, clamped into a
// plausible band. The same seed always yields the same series.
type GeneratorParams struct {
	Start          time.Time
	Days           int
	Resolution     time.Duration
	BasePrice      float64
	PeakMultiplier float64
	NoiseAmplitude float64
	FloorPrice     float64
	CeilingPrice   float64
	Seed           int64
}

// DefaultGeneratorParams returns the canonical curve: one week of hourly
// prices around 80 $/MWh doubling in the evening peak, clamped to [50, 250].
func DefaultGeneratorParams(start time.Time) GeneratorParams {
	return GeneratorParams{
		Start:          start,
		Days:           7,
		Resolution:     time.Hour,
		BasePrice:      80,
		PeakMultiplier: 2,
		NoiseAmplitude: 10,
		FloorPrice:     50,
		CeilingPrice:   250,
	}
}

// Generator emits deterministic synthetic price series.
type Generator struct {
	params GeneratorParams
	rand   *rand.Rand
}

// NewGenerator validates the parameters and seeds the noise source.
func NewGenerator(params GeneratorParams) (*Generator, error) {
	if params.Days <= 0 {
		return nil, &model.ConfigError{Reason: fmt.Sprintf("generator days must be > 0, got %d", params.Days)}
	}
	if params.Resolution <= 0 {
		return nil, &model.ConfigError{Reason: fmt.Sprintf("generator resolution must be positive, got %s", params.Resolution)}
	}
	if params.FloorPrice > params.CeilingPrice {
		return nil, &model.ConfigError{Reason: fmt.Sprintf("generator floor %v above ceiling %v", params.FloorPrice, params.CeilingPrice)}
	}
	if params.NoiseAmplitude < 0 {
		return nil, &model.ConfigError{Reason: fmt.Sprintf("generator noise amplitude must be >= 0, got %v", params.NoiseAmplitude)}
	}
	return &Generator{
		params: params,
		rand:   rand.New(rand.NewSource(params.Seed)),
	}, nil
}

// Generate walks the horizon at the configured resolution. Hours 07-09 carry
// a softened morning peak, hours 17-21 the full evening peak; everything
// else sits at the base price. Prices are rounded to cents.
func (g *Generator) Generate() model.PriceSeries {
	end := g.params.Start.AddDate(0, 0, g.params.Days)
	series := make(model.PriceSeries, 0, int(end.Sub(g.params.Start)/g.params.Resolution))
	for ts := g.params.Start; ts.Before(end); ts = ts.Add(g.params.Resolution) {
		noise := (g.rand.Float64()*2 - 1) * g.params.NoiseAmplitude
		price := g.params.BasePrice*g.multiplier(ts.Hour()) + noise
		price = math.Min(g.params.CeilingPrice, math.Max(g.params.FloorPrice, price))
		series = append(series, model.PricePoint{
			Timestamp: ts,
			PriceMWh:  round2(price),
		})
	}
	return series
}

func (g *Generator) multiplier(hour int) float64 {
	switch {
	case hour >= 7 && hour < 9:
		return 1.8 * (g.params.PeakMultiplier / 2)
	case hour >= 17 && hour < 21:
		return g.params.PeakMultiplier
	default:
		return 1
	}
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
