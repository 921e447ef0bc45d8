package model

import "math"

// BatteryAsset describes one battery energy-storage system participating in
// a simulation run. All fields are immutable for the duration of a run.
//
// Power is defined at the grid connection point: charging draws MW from the
// grid, discharging injects MW into it. Efficiency is applied once, at the
// conversion between grid energy and stored energy: charging stores
// drawn*ChargeEfficiency, discharging withdraws delivered/DischargeEfficiency
// from storage. The dispatch policy and the physics integrator share this
// convention through the headroom methods below.
type BatteryAsset struct {
	ID string

	CapacityMWh    float64 // usable energy capacity, > 0
	MaxChargeMW    float64 // maximum charging power magnitude, >= 0
	MaxDischargeMW float64 // maximum discharging power, >= 0

	ChargeEfficiency    float64 // (0, 1]
	DischargeEfficiency float64 // (0, 1]

	// Threshold prices driving the dispatch policy. Charging triggers at
	// price <= ChargeThreshold, discharging at price >= DischargeThreshold;
	// both comparisons are inclusive.
	ChargeThreshold    float64
	DischargeThreshold float64

	InitialSoeMWh float64 // starting state of energy, in [0, CapacityMWh]
}

// Validate checks the asset parameters. Any violation is a ConfigError.
func (a BatteryAsset) Validate() error {
	if a.ID == "" {
		return configErrorf("asset id is required")
	}
	if !(a.CapacityMWh > 0) {
		return configErrorf("asset %s: capacity_mwh must be > 0, got %v", a.ID, a.CapacityMWh)
	}
	if a.MaxChargeMW < 0 || math.IsNaN(a.MaxChargeMW) {
		return configErrorf("asset %s: max_charge_mw must be >= 0, got %v", a.ID, a.MaxChargeMW)
	}
	if a.MaxDischargeMW < 0 || math.IsNaN(a.MaxDischargeMW) {
		return configErrorf("asset %s: max_discharge_mw must be >= 0, got %v", a.ID, a.MaxDischargeMW)
	}
	if !(a.ChargeEfficiency > 0 && a.ChargeEfficiency <= 1) {
		return configErrorf("asset %s: charge_efficiency must be in (0,1], got %v", a.ID, a.ChargeEfficiency)
	}
	if !(a.DischargeEfficiency > 0 && a.DischargeEfficiency <= 1) {
		return configErrorf("asset %s: discharge_efficiency must be in (0,1], got %v", a.ID, a.DischargeEfficiency)
	}
	if math.IsNaN(a.ChargeThreshold) || math.IsNaN(a.DischargeThreshold) {
		return configErrorf("asset %s: thresholds must be finite", a.ID)
	}
	if a.ChargeThreshold >= a.DischargeThreshold {
		return configErrorf("asset %s: charge_threshold (%v) must be below discharge_threshold (%v)",
			a.ID, a.ChargeThreshold, a.DischargeThreshold)
	}
	if a.InitialSoeMWh < 0 || a.InitialSoeMWh > a.CapacityMWh || math.IsNaN(a.InitialSoeMWh) {
		return configErrorf("asset %s: initial_soe_mwh must be in [0, %v], got %v",
			a.ID, a.CapacityMWh, a.InitialSoeMWh)
	}
	return nil
}

// MaxChargePowerMW returns the largest charging power magnitude the asset can
// absorb for dtHours given the current state of energy: the rate limit, or
// the power filling the remaining headroom after charge losses, whichever is
// smaller.
func (a BatteryAsset) MaxChargePowerMW(soeMWh, dtHours float64) float64 {
	headroom := a.CapacityMWh - soeMWh
	if headroom <= 0 {
		return 0
	}
	byEnergy := headroom / (a.ChargeEfficiency * dtHours)
	return math.Max(0, math.Min(a.MaxChargeMW, byEnergy))
}

// MaxDischargePowerMW returns the largest discharging power the asset can
// sustain for dtHours: the rate limit, or the power that exactly empties the
// stored energy after conversion losses, whichever is smaller.
func (a BatteryAsset) MaxDischargePowerMW(soeMWh, dtHours float64) float64 {
	if soeMWh <= 0 {
		return 0
	}
	byEnergy := soeMWh * a.DischargeEfficiency / dtHours
	return math.Max(0, math.Min(a.MaxDischargeMW, byEnergy))
}

// AssetState is the mutable per-asset state advanced by the simulator. It is
// owned exclusively by the orchestrator for the duration of a run and holds
// the invariant 0 <= SoeMWh <= capacity at every observable point.
type AssetState struct {
	SoeMWh float64
}

// Fleet is an ordered, validated collection of assets. Order is significant:
// records, approvals and cumulative totals all follow it, which keeps
// repeated runs byte-identical.
type Fleet struct {
	Assets []BatteryAsset
}

// NewFleet validates every asset and rejects duplicate identifiers.
func NewFleet(assets []BatteryAsset) (*Fleet, error) {
	f := &Fleet{Assets: assets}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// Validate re-checks every asset and identifier uniqueness. NewFleet runs it
// on construction; the simulator runs it again before a run starts.
func (f *Fleet) Validate() error {
	if f == nil || len(f.Assets) == 0 {
		return configErrorf("fleet must contain at least one asset")
	}
	seen := make(map[string]struct{}, len(f.Assets))
	for _, a := range f.Assets {
		if err := a.Validate(); err != nil {
			return err
		}
		if _, dup := seen[a.ID]; dup {
			return configErrorf("duplicate asset id %q", a.ID)
		}
		seen[a.ID] = struct{}{}
	}
	return nil
}

// TotalCapacityMWh sums the energy capacity of all assets.
func (f *Fleet) TotalCapacityMWh() float64 {
	var total float64
	for _, a := range f.Assets {
		total += a.CapacityMWh
	}
	return total
}

// InitialStates builds the starting AssetState slice, one per asset in order.
func (f *Fleet) InitialStates() []AssetState {
	states := make([]AssetState, len(f.Assets))
	for i, a := range f.Assets {
		states[i] = AssetState{SoeMWh: a.InitialSoeMWh}
	}
	return states
}
