package analysis

import (
	"context"
	"math"
	"testing"
	"time"

	"fleetsim/core/model"
	"fleetsim/core/sim"
)

func TestCompute(t *testing.T) {
	fleet, err := model.NewFleet([]model.BatteryAsset{{
		ID:                  "bess-1",
		CapacityMWh:         10,
		MaxChargeMW:         5,
		MaxDischargeMW:      20,
		ChargeEfficiency:    1,
		DischargeEfficiency: 1,
		ChargeThreshold:     10,
		DischargeThreshold:  50,
		InitialSoeMWh:       0,
	}})
	if err != nil {
		t.Fatalf("fleet: %v", err)
	}
	s, err := sim.New(fleet, model.FleetConstraints{MaxChargeMW: model.Unbounded, MaxDischargeMW: model.Unbounded}, time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	series := model.PriceSeries{
		{Timestamp: start, PriceMWh: 5},
		{Timestamp: start.Add(time.Hour), PriceMWh: 5},
		{Timestamp: start.Add(2 * time.Hour), PriceMWh: 60},
	}
	res, err := s.Run(context.Background(), series)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	rep := Compute(fleet, res)

	if math.Abs(rep.NetRevenue-550) > 1e-9 {
		t.Fatalf("expected net revenue 550, got %v", rep.NetRevenue)
	}
	if math.Abs(rep.ChargedMWh-10) > 1e-9 || math.Abs(rep.DischargedMWh-10) > 1e-9 {
		t.Fatalf("expected 10 MWh each way, got %v / %v", rep.ChargedMWh, rep.DischargedMWh)
	}
	// 10 MWh discharged over 10 MWh of capacity is exactly one cycle.
	if math.Abs(rep.EquivalentCycles-1) > 1e-9 {
		t.Fatalf("expected 1 equivalent cycle, got %v", rep.EquivalentCycles)
	}
	if rep.SimulatedHours != 3 || rep.Steps != 3 {
		t.Fatalf("expected 3 simulated hours over 3 steps, got %v / %d", rep.SimulatedHours, rep.Steps)
	}
	// revenue/capacity * 365/days with days = 3/24.
	wantAnnualized := 550.0 / 10 * (365 / (3.0 / 24))
	if math.Abs(rep.AnnualizedRevenuePerMWh-wantAnnualized) > 1e-6 {
		t.Fatalf("expected annualized %v, got %v", wantAnnualized, rep.AnnualizedRevenuePerMWh)
	}

	if rep.Prices.MinMWh != 5 || rep.Prices.MaxMWh != 60 || rep.Prices.Spread != 55 {
		t.Fatalf("price stats wrong: %+v", rep.Prices)
	}
	if math.Abs(rep.Prices.MeanMWh-70.0/3) > 1e-9 {
		t.Fatalf("expected mean %v, got %v", 70.0/3, rep.Prices.MeanMWh)
	}

	if len(rep.Assets) != 1 {
		t.Fatalf("expected one asset report, got %d", len(rep.Assets))
	}
	ar := rep.Assets[0]
	if ar.AssetID != "bess-1" || math.Abs(ar.Revenue-550) > 1e-9 || math.Abs(ar.EquivalentCycles-1) > 1e-9 {
		t.Fatalf("asset report wrong: %+v", ar)
	}
}

func TestCompute_StdDevMatchesSampleFormula(t *testing.T) {
	fleet, err := model.NewFleet([]model.BatteryAsset{{
		ID:                  "bess-1",
		CapacityMWh:         50,
		MaxChargeMW:         5,
		MaxDischargeMW:      5,
		ChargeEfficiency:    1,
		DischargeEfficiency: 1,
		ChargeThreshold:     40,
		DischargeThreshold:  120,
		InitialSoeMWh:       25,
	}})
	if err != nil {
		t.Fatalf("fleet: %v", err)
	}
	s, err := sim.New(fleet, model.FleetConstraints{MaxChargeMW: model.Unbounded, MaxDischargeMW: model.Unbounded}, time.Hour)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	values := []float64{80, 90, 100, 110}
	series := make(model.PriceSeries, len(values))
	for i, v := range values {
		series[i] = model.PricePoint{Timestamp: start.Add(time.Duration(i) * time.Hour), PriceMWh: v}
	}
	res, err := s.Run(context.Background(), series)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	rep := Compute(fleet, res)
	if rep.Prices.MeanMWh != 95 {
		t.Fatalf("expected mean 95, got %v", rep.Prices.MeanMWh)
	}
	// Sample standard deviation of {80,90,100,110}.
	want := math.Sqrt((225 + 25 + 25 + 225) / 3.0)
	if math.Abs(rep.Prices.StdDevMWh-want) > 1e-9 {
		t.Fatalf("expected stddev %v, got %v", want, rep.Prices.StdDevMWh)
	}
}
