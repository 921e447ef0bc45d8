package model

import "time"

// AssetStep is one asset's slice of a timestep record.
type AssetStep struct {
	AssetID string  `json:"asset_id"`
	Mode    string  `json:"mode"`
	PowerMW float64 `json:"power_mw"` // signed, grid side

	EnergyToGridMWh   float64 `json:"energy_to_grid_mwh"`
	EnergyFromGridMWh float64 `json:"energy_from_grid_mwh"`

	SoeBeforeMWh float64 `json:"soe_before_mwh"`
	SoeAfterMWh  float64 `json:"soe_after_mwh"`

	Revenue    float64 `json:"revenue"`     // this step; cost is negative
	CumRevenue float64 `json:"cum_revenue"` // running sum across the run

	// Clamped flags a defensive state-of-energy clamp that exceeded the
	// numeric tolerance. It marks an upstream capping inconsistency worth
	// surfacing, never a fatal condition.
	Clamped bool `json:"clamped,omitempty"`
}

// StepAggregate sums the fleet's activity for one step.
type StepAggregate struct {
	ChargeMW    float64 `json:"charge_mw"`    // sum of charging magnitudes
	DischargeMW float64 `json:"discharge_mw"` // sum of discharging power
	Revenue     float64 `json:"revenue"`      // net across the fleet, this step
	CumRevenue  float64 `json:"cum_revenue"`
}

// TimestepRecord captures everything that happened in one step. Records are
// immutable once appended to a result and carry the run identifier so
// streaming consumers can correlate steps across runs.
type TimestepRecord struct {
	RunID     string    `json:"run_id"`
	Timestamp time.Time `json:"timestamp"`
	PriceMWh  float64   `json:"price_mwh"`
	DtHours   float64   `json:"dt_hours"`

	// Assets holds one entry per fleet asset, in fleet order.
	Assets []AssetStep `json:"assets"`

	Fleet StepAggregate `json:"fleet"`

	// Anomalies counts the assets whose integration clamped beyond
	// tolerance during this step.
	Anomalies int `json:"anomalies,omitempty"`
}
