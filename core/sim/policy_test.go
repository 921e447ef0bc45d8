package sim

import (
	"math"
	"testing"

	"fleetsim/core/model"
)

func testAsset() model.BatteryAsset {
	return model.BatteryAsset{
		ID:                  "bess-1",
		CapacityMWh:         10,
		MaxChargeMW:         5,
		MaxDischargeMW:      5,
		ChargeEfficiency:    1,
		DischargeEfficiency: 1,
		ChargeThreshold:     40,
		DischargeThreshold:  120,
		InitialSoeMWh:       5,
	}
}

func TestThresholdPolicy_Bands(t *testing.T) {
	a := testAsset()
	var p ThresholdPolicy

	cases := []struct {
		name  string
		price float64
		want  float64
	}{
		{"below charge threshold", 20, -5},
		{"at charge threshold", 40, -5},
		{"inside idle band", 80, 0},
		{"at discharge threshold", 120, 5},
		{"above discharge threshold", 200, 5},
		{"negative price charges", -30, -5},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := p.Decide(a, model.AssetState{SoeMWh: 5}, tc.price, 1)
			if req.PowerMW != tc.want {
				t.Fatalf("price %v: expected %v MW, got %v", tc.price, tc.want, req.PowerMW)
			}
		})
	}
}

func TestThresholdPolicy_HeadroomCaps(t *testing.T) {
	a := testAsset()
	a.ChargeEfficiency = 0.8
	var p ThresholdPolicy

	// 2 MWh of headroom at 0.8 efficiency: 2.5 MW of draw fills it in 1h.
	req := p.Decide(a, model.AssetState{SoeMWh: 8}, 20, 1)
	if math.Abs(req.PowerMW+2.5) > 1e-12 {
		t.Fatalf("expected -2.5, got %v", req.PowerMW)
	}
	// A full battery idles even below the charge threshold.
	req = p.Decide(a, model.AssetState{SoeMWh: 10}, 20, 1)
	if req.PowerMW != 0 || req.Mode() != model.ModeIdle {
		t.Fatalf("expected idle at full, got %v", req.PowerMW)
	}

	a.DischargeEfficiency = 0.5
	// 1 MWh stored delivers only 0.5 MWh in 1h.
	req = p.Decide(a, model.AssetState{SoeMWh: 1}, 200, 1)
	if math.Abs(req.PowerMW-0.5) > 1e-12 {
		t.Fatalf("expected 0.5, got %v", req.PowerMW)
	}
	// An empty battery idles even above the discharge threshold.
	req = p.Decide(a, model.AssetState{SoeMWh: 0}, 200, 1)
	if req.PowerMW != 0 {
		t.Fatalf("expected idle when empty, got %v", req.PowerMW)
	}
}

func TestThresholdPolicy_ShortStepRestoresRateLimit(t *testing.T) {
	a := testAsset()
	a.ChargeEfficiency = 0.8
	var p ThresholdPolicy

	// The same 2 MWh headroom admits the full rate over a quarter hour.
	req := p.Decide(a, model.AssetState{SoeMWh: 8}, 20, 0.25)
	if req.PowerMW != -5 {
		t.Fatalf("expected full rate -5, got %v", req.PowerMW)
	}
}

func TestThresholdPolicy_ZeroRateIsCleanIdle(t *testing.T) {
	a := testAsset()
	a.MaxChargeMW = 0
	var p ThresholdPolicy

	req := p.Decide(a, model.AssetState{SoeMWh: 5}, 20, 1)
	if req.PowerMW != 0 || math.Signbit(req.PowerMW) {
		t.Fatalf("zero-rate charge must be a clean idle, got %v", req.PowerMW)
	}
}
