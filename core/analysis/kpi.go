package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"fleetsim/core/model"
)

// PriceStats summarises the market prices a run was exposed to.
type PriceStats struct {
	MeanMWh   float64 `json:"mean_mwh"`
	StdDevMWh float64 `json:"stddev_mwh"`
	MinMWh    float64 `json:"min_mwh"`
	MaxMWh    float64 `json:"max_mwh"`
	Spread    float64 `json:"spread"` // max - min, the arbitrage room
}

// AssetReport carries the per-asset performance indicators.
type AssetReport struct {
	AssetID          string  `json:"asset_id"`
	Revenue          float64 `json:"revenue"`
	ChargedMWh       float64 `json:"charged_mwh"`
	DischargedMWh    float64 `json:"discharged_mwh"`
	EquivalentCycles float64 `json:"equivalent_cycles"`
	FinalSoeMWh      float64 `json:"final_soe_mwh"`
}

// Report is the key-performance-indicator summary of one run. Energy figures
// are grid-side; equivalent cycles relate discharged energy to capacity, and
// the annualized figure scales revenue per installed MWh to a full year.
type Report struct {
	NetRevenue              float64 `json:"net_revenue"`
	ChargedMWh              float64 `json:"charged_mwh"`
	DischargedMWh           float64 `json:"discharged_mwh"`
	EquivalentCycles        float64 `json:"equivalent_cycles"`
	AnnualizedRevenuePerMWh float64 `json:"annualized_revenue_per_mwh"`

	SimulatedHours float64 `json:"simulated_hours"`
	Steps          int     `json:"steps"`
	Anomalies      int     `json:"anomalies"`

	Prices PriceStats    `json:"prices"`
	Assets []AssetReport `json:"assets"`
}

// Compute derives the KPI report from a finished run. The simulated horizon
// is the sum of step durations, which stays exact under variable-step series.
func Compute(fleet *model.Fleet, res *model.SimulationResult) Report {
	rep := Report{
		NetRevenue: res.FleetRevenue,
		Steps:      res.Steps(),
		Anomalies:  res.Anomalies,
		Assets:     make([]AssetReport, len(fleet.Assets)),
	}

	prices := make([]float64, 0, len(res.Records))
	for _, rec := range res.Records {
		rep.SimulatedHours += rec.DtHours
		prices = append(prices, rec.PriceMWh)
	}
	if len(prices) > 0 {
		rep.Prices = PriceStats{
			MeanMWh:   stat.Mean(prices, nil),
			StdDevMWh: stat.StdDev(prices, nil),
			MinMWh:    floats.Min(prices),
			MaxMWh:    floats.Max(prices),
		}
		rep.Prices.Spread = rep.Prices.MaxMWh - rep.Prices.MinMWh
	}

	for i, a := range fleet.Assets {
		ar := AssetReport{AssetID: a.ID}
		if tot := res.AssetTotal(a.ID); tot != nil {
			ar.Revenue = tot.Revenue
			ar.ChargedMWh = tot.ChargedMWh
			ar.DischargedMWh = tot.DischargedMWh
			ar.FinalSoeMWh = tot.FinalSoeMWh
			ar.EquivalentCycles = tot.DischargedMWh / a.CapacityMWh
		}
		rep.Assets[i] = ar
		rep.ChargedMWh += ar.ChargedMWh
		rep.DischargedMWh += ar.DischargedMWh
	}

	if capacity := fleet.TotalCapacityMWh(); capacity > 0 {
		rep.EquivalentCycles = rep.DischargedMWh / capacity
		if rep.SimulatedHours > 0 {
			days := rep.SimulatedHours / 24
			rep.AnnualizedRevenuePerMWh = res.FleetRevenue / capacity * (365 / days)
		}
	}
	return rep
}
