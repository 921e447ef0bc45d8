package model

import "time"

// AssetTotal carries the per-asset cumulative figures at run end.
type AssetTotal struct {
	AssetID     string  `json:"asset_id"`
	Revenue     float64 `json:"revenue"`
	FinalSoeMWh float64 `json:"final_soe_mwh"`

	ChargedMWh    float64 `json:"charged_mwh"`    // energy drawn from grid
	DischargedMWh float64 `json:"discharged_mwh"` // energy delivered to grid
}

// SimulationResult is the complete output of one run: one record per price
// point plus cumulative totals. It is assembled by the orchestrator and
// never mutated after the run completes; consumers (CSV export, HTTP API,
// stream sinks) receive it whole.
type SimulationResult struct {
	RunID string `json:"run_id"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Records []TimestepRecord `json:"records"`

	Totals       []AssetTotal `json:"totals"` // fleet order
	FleetRevenue float64      `json:"fleet_revenue"`

	// Anomalies is the run-wide count of clamp inconsistencies.
	Anomalies int `json:"anomalies"`
}

// Steps reports the number of simulated timesteps.
func (r *SimulationResult) Steps() int { return len(r.Records) }

// AssetTotal looks up the totals for one asset, nil if unknown.
func (r *SimulationResult) AssetTotal(id string) *AssetTotal {
	for i := range r.Totals {
		if r.Totals[i].AssetID == id {
			return &r.Totals[i]
		}
	}
	return nil
}
