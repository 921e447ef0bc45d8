package sim

import "fleetsim/core/model"

// Enforcer shrinks per-asset requests until the fleet respects its aggregate
// import and export ceilings. Charging and discharging groups are constrained
// independently; within a group every member is scaled by the same factor, so
// the reduction is proportional to what each asset asked for.
//
// Scaling never flips a direction, never raises a magnitude above the request
// and leaves requests untouched while the group fits under its ceiling.
type Enforcer struct {
	limits model.FleetConstraints
}

// NewEnforcer builds an enforcer for the given fleet constraints.
func NewEnforcer(limits model.FleetConstraints) *Enforcer {
	return &Enforcer{limits: limits}
}

// Apply consumes the complete request set for one step and emits one approval
// per request, in the same order. A ceiling with no headroom zeroes out its
// group; that is a degenerate configuration, not an error.
func (e *Enforcer) Apply(requests []model.DispatchRequest) []model.ApprovedDispatch {
	var chargeSum, dischargeSum float64
	for _, r := range requests {
		switch {
		case r.PowerMW < 0:
			chargeSum -= r.PowerMW
		case r.PowerMW > 0:
			dischargeSum += r.PowerMW
		}
	}
	chargeFactor := scaleFactor(chargeSum, e.limits.MaxChargeMW)
	dischargeFactor := scaleFactor(dischargeSum, e.limits.MaxDischargeMW)

	approved := make([]model.ApprovedDispatch, len(requests))
	for i, r := range requests {
		p := r.PowerMW
		switch {
		case p < 0:
			p = scaled(p, chargeFactor)
		case p > 0:
			p = scaled(p, dischargeFactor)
		}
		approved[i] = model.ApprovedDispatch{AssetID: r.AssetID, PowerMW: p}
	}
	return approved
}

// scaleFactor returns the multiplier for one direction group: 1 while the
// summed request fits under the ceiling, ceiling/sum beyond it, 0 when the
// ceiling grants no headroom at all.
func scaleFactor(sum, ceilingMW float64) float64 {
	if sum <= 0 {
		return 1
	}
	if ceilingMW <= 0 {
		return 0
	}
	if sum <= ceilingMW {
		return 1
	}
	return ceilingMW / sum
}

func scaled(p, factor float64) float64 {
	switch factor {
	case 1:
		return p
	case 0:
		return 0
	}
	return p * factor
}
