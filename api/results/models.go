package results

import (
	"time"

	"fleetsim/core/analysis"
	"fleetsim/core/model"
)

// assetView is the wire form of a configured asset.
type assetView struct {
	ID                  string  `json:"id"`
	CapacityMWh         float64 `json:"capacity_mwh"`
	MaxChargeMW         float64 `json:"max_charge_mw"`
	MaxDischargeMW      float64 `json:"max_discharge_mw"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	ChargeThreshold     float64 `json:"charge_threshold"`
	DischargeThreshold  float64 `json:"discharge_threshold"`
	InitialSoeMWh       float64 `json:"initial_soe_mwh"`
}

// fleetResponse describes the configured fleet. Ceilings are omitted when
// unbounded: JSON has no representation for infinity.
type fleetResponse struct {
	Assets           []assetView `json:"assets"`
	TotalCapacityMWh float64     `json:"total_capacity_mwh"`
	MaxChargeMW      *float64    `json:"max_charge_mw,omitempty"`
	MaxDischargeMW   *float64    `json:"max_discharge_mw,omitempty"`
}

// simulateRequest triggers a new run. Threshold overrides apply to every
// asset; explicit prices win over the generator, whose horizon and seed can
// be overridden per request.
type simulateRequest struct {
	ChargeThreshold    *float64  `json:"charge_threshold"`
	DischargeThreshold *float64  `json:"discharge_threshold"`
	Days               int       `json:"days"`
	Seed               int64     `json:"seed"`
	PricesMWh          []float64 `json:"prices_mwh"`
}

// simulateResponse returns the finished run with its KPI report.
type simulateResponse struct {
	RunID  string                  `json:"run_id"`
	Report analysis.Report         `json:"report"`
	Result *model.SimulationResult `json:"result"`
}

// seriesPoint is one sample of an asset's trajectory, shaped for charting.
type seriesPoint struct {
	Timestamp  time.Time `json:"timestamp"`
	Mode       string    `json:"mode"`
	PriceMWh   float64   `json:"price_mwh"`
	PowerMW    float64   `json:"power_mw"`
	SoeMWh     float64   `json:"soe_mwh"`
	Revenue    float64   `json:"revenue"`
	CumRevenue float64   `json:"cum_revenue"`
}

type seriesResponse struct {
	RunID   string        `json:"run_id"`
	AssetID string        `json:"asset_id"`
	Points  []seriesPoint `json:"points"`
}
