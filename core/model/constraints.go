package model

import "math"

// Unbounded marks a fleet power ceiling with no limit.
var Unbounded = math.Inf(1)

// FleetConstraints caps the aggregate power the whole fleet may exchange
// with the grid at any single step, per direction. Magnitudes are compared:
// the sum of approved charging power magnitudes stays within MaxChargeMW and
// the sum of approved discharging power within MaxDischargeMW.
//
// A ceiling of zero means that direction is shut off for the run; the
// enforcer resolves it to all-zero approvals rather than an error.
type FleetConstraints struct {
	MaxChargeMW    float64
	MaxDischargeMW float64
}

// Validate rejects negative or NaN ceilings. +Inf (Unbounded) is allowed.
func (c FleetConstraints) Validate() error {
	if c.MaxChargeMW < 0 || math.IsNaN(c.MaxChargeMW) {
		return configErrorf("fleet max_charge_mw must be >= 0, got %v", c.MaxChargeMW)
	}
	if c.MaxDischargeMW < 0 || math.IsNaN(c.MaxDischargeMW) {
		return configErrorf("fleet max_discharge_mw must be >= 0, got %v", c.MaxDischargeMW)
	}
	return nil
}
