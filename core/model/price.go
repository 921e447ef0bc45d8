package model

import (
	"math"
	"time"
)

// PricePoint is one observation of the market price.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	PriceMWh  float64   `json:"price_mwh"`
}

// PriceSeries is an ordered market price curve. Timestamps must be strictly
// increasing; prices may take any sign but must be finite.
type PriceSeries []PricePoint

// Validate checks the series before a run. Any violation is a DataError.
func (s PriceSeries) Validate() error {
	if len(s) == 0 {
		return dataErrorf("series is empty")
	}
	for i, p := range s {
		if math.IsNaN(p.PriceMWh) || math.IsInf(p.PriceMWh, 0) {
			return dataErrorf("non-finite price %v at index %d (%s)", p.PriceMWh, i, p.Timestamp.Format(time.RFC3339))
		}
		if i > 0 && !p.Timestamp.After(s[i-1].Timestamp) {
			return dataErrorf("timestamps not strictly increasing at index %d (%s after %s)",
				i, p.Timestamp.Format(time.RFC3339), s[i-1].Timestamp.Format(time.RFC3339))
		}
	}
	return nil
}

// StepDurations derives the per-step duration in hours from consecutive
// timestamp deltas. The final point has no successor, so it takes the
// provided resolution. The series supports variable steps; resolution must
// be positive.
func (s PriceSeries) StepDurations(resolution time.Duration) []float64 {
	dts := make([]float64, len(s))
	for i := range s {
		if i+1 < len(s) {
			dts[i] = s[i+1].Timestamp.Sub(s[i].Timestamp).Hours()
		} else {
			dts[i] = resolution.Hours()
		}
	}
	return dts
}
