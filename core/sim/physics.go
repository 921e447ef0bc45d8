package sim

import "fleetsim/core/model"

// soeToleranceMWh is the largest state-of-energy excursion the integrator
// corrects silently. Anything beyond it is floating-point drift worth
// surfacing, so the step is flagged as clamped.
const soeToleranceMWh = 1e-9

// Transition is the outcome of advancing one asset by one step: the energy
// observed at the grid boundary and the state of energy before and after.
type Transition struct {
	SoeBeforeMWh      float64
	SoeAfterMWh       float64
	EnergyToGridMWh   float64
	EnergyFromGridMWh float64
	Clamped           bool
}

// Integrator advances asset state under an approved dispatch. Conversion
// losses stay inside the battery: charging stores drawn*chargeEfficiency,
// discharging consumes delivered/dischargeEfficiency of stored energy. The
// same convention backs the policy headroom caps, so a request the policy
// emitted can never leave the [0, capacity] band by more than rounding noise.
type Integrator struct{}

// Advance applies powerMW over dtHours, mutating state and returning the
// observed transition. The state of energy is clamped back into
// [0, capacity]; a clamp larger than the tolerance marks the transition.
func (Integrator) Advance(asset model.BatteryAsset, state *model.AssetState, powerMW, dtHours float64) Transition {
	tr := Transition{SoeBeforeMWh: state.SoeMWh}
	switch {
	case powerMW < 0:
		tr.EnergyFromGridMWh = -powerMW * dtHours
		state.SoeMWh += tr.EnergyFromGridMWh * asset.ChargeEfficiency
	case powerMW > 0:
		tr.EnergyToGridMWh = powerMW * dtHours
		state.SoeMWh -= tr.EnergyToGridMWh / asset.DischargeEfficiency
	}
	switch {
	case state.SoeMWh < 0:
		tr.Clamped = -state.SoeMWh > soeToleranceMWh
		state.SoeMWh = 0
	case state.SoeMWh > asset.CapacityMWh:
		tr.Clamped = state.SoeMWh-asset.CapacityMWh > soeToleranceMWh
		state.SoeMWh = asset.CapacityMWh
	// A step that moved energy and landed within tolerance of a bound snaps
	// onto it, so later policy decisions see a crisp full or empty battery
	// instead of a sub-tolerance residue that dispatches forever.
	case powerMW != 0 && state.SoeMWh < soeToleranceMWh:
		state.SoeMWh = 0
	case powerMW != 0 && asset.CapacityMWh-state.SoeMWh < soeToleranceMWh:
		state.SoeMWh = asset.CapacityMWh
	}
	tr.SoeAfterMWh = state.SoeMWh
	return tr
}
