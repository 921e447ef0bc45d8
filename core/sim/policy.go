package sim

import "fleetsim/core/model"

// ThresholdPolicy issues one dispatch request per asset per step by comparing
// the market price against the asset's thresholds. Both comparisons are
// inclusive: price <= charge threshold requests charging, price >= discharge
// threshold requests discharging, anything in between stays idle. Asset
// validation guarantees the two bands cannot overlap.
//
// The requested magnitude is already capped by the asset's rate limit and by
// the energy headroom reachable within the step, so every request is
// physically executable in isolation. Only the fleet-level ceilings can shrink
// it further.
type ThresholdPolicy struct{}

// Decide returns the signed power request for one asset. Negative is charging,
// positive is discharging, zero is idle.
func (ThresholdPolicy) Decide(asset model.BatteryAsset, state model.AssetState, priceMWh, dtHours float64) model.DispatchRequest {
	req := model.DispatchRequest{AssetID: asset.ID}
	switch {
	case priceMWh <= asset.ChargeThreshold:
		if p := asset.MaxChargePowerMW(state.SoeMWh, dtHours); p > 0 {
			req.PowerMW = -p
		}
	case priceMWh >= asset.DischargeThreshold:
		if p := asset.MaxDischargePowerMW(state.SoeMWh, dtHours); p > 0 {
			req.PowerMW = p
		}
	}
	return req
}
