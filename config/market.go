package config

import (
	"fmt"
	"time"

	"fleetsim/market"
)

// GeneratorConfig shapes the synthetic price curve used when no CSV file is
// supplied.
type GeneratorConfig struct {
	Days           int     `json:"days"`
	BasePrice      float64 `json:"base_price"`
	PeakMultiplier float64 `json:"peak_multiplier"`
	NoiseAmplitude float64 `json:"noise_amplitude"`
	FloorPrice     float64 `json:"floor_price"`
	CeilingPrice   float64 `json:"ceiling_price"`
	Seed           int64   `json:"seed"`
	// Start is RFC3339 or 2006-01-02; empty means midnight today in the
	// market timezone.
	Start string `json:"start"`
}

// MarketConfig selects the price input: a CSV file when PricesCSV is set,
// the synthetic generator otherwise.
type MarketConfig struct {
	Resolution string          `json:"resolution"` // Go duration, e.g. 1h, 30m
	Timezone   string          `json:"timezone"`
	PricesCSV  string          `json:"prices_csv"`
	Generator  GeneratorConfig `json:"generator"`
}

// SetDefaults applies hourly resolution, UTC and the canonical curve shape.
func (c *MarketConfig) SetDefaults() {
	if c.Resolution == "" {
		c.Resolution = "1h"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	g := &c.Generator
	if g.Days == 0 {
		g.Days = 7
	}
	if g.BasePrice == 0 {
		g.BasePrice = 80
	}
	if g.PeakMultiplier == 0 {
		g.PeakMultiplier = 2
	}
	if g.NoiseAmplitude == 0 {
		g.NoiseAmplitude = 10
	}
	if g.FloorPrice == 0 && g.CeilingPrice == 0 {
		g.FloorPrice = 50
		g.CeilingPrice = 250
	}
}

// Validate parses the duration, timezone and start date eagerly so a broken
// configuration fails at load time, not mid-wiring.
func (c MarketConfig) Validate() error {
	if _, err := time.ParseDuration(c.Resolution); err != nil {
		return fmt.Errorf("market: bad resolution %q: %w", c.Resolution, err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("market: bad timezone %q: %w", c.Timezone, err)
	}
	if c.Generator.Start != "" {
		if _, err := parseStart(c.Generator.Start, time.UTC); err != nil {
			return fmt.Errorf("market: bad generator start %q: %w", c.Generator.Start, err)
		}
	}
	return nil
}

// ResolutionDuration returns the parsed market resolution.
func (c MarketConfig) ResolutionDuration() time.Duration {
	d, _ := time.ParseDuration(c.Resolution)
	return d
}

// Location returns the parsed market timezone.
func (c MarketConfig) Location() *time.Location {
	loc, _ := time.LoadLocation(c.Timezone)
	return loc
}

// GeneratorParams assembles the generator inputs. now supplies the default
// start (midnight of the current day in the market timezone), keeping the
// method deterministic for tests.
func (c MarketConfig) GeneratorParams(now time.Time) (market.GeneratorParams, error) {
	loc := c.Location()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if c.Generator.Start != "" {
		parsed, err := parseStart(c.Generator.Start, loc)
		if err != nil {
			return market.GeneratorParams{}, err
		}
		start = parsed
	}
	return market.GeneratorParams{
		Start:          start,
		Days:           c.Generator.Days,
		Resolution:     c.ResolutionDuration(),
		BasePrice:      c.Generator.BasePrice,
		PeakMultiplier: c.Generator.PeakMultiplier,
		NoiseAmplitude: c.Generator.NoiseAmplitude,
		FloorPrice:     c.Generator.FloorPrice,
		CeilingPrice:   c.Generator.CeilingPrice,
		Seed:           c.Generator.Seed,
	}, nil
}

func parseStart(s string, loc *time.Location) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.ParseInLocation("2006-01-02", s, loc)
}
