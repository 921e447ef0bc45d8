package model

import (
	"errors"
	"math"
	"testing"
)

func validAsset() BatteryAsset {
	return BatteryAsset{
		ID:                  "bess-1",
		CapacityMWh:         20,
		MaxChargeMW:         5,
		MaxDischargeMW:      5,
		ChargeEfficiency:    0.95,
		DischargeEfficiency: 0.95,
		ChargeThreshold:     100,
		DischargeThreshold:  150,
		InitialSoeMWh:       10,
	}
}

func TestAssetValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*BatteryAsset)
		ok     bool
	}{
		{"valid", func(a *BatteryAsset) {}, true},
		{"missing id", func(a *BatteryAsset) { a.ID = "" }, false},
		{"zero capacity", func(a *BatteryAsset) { a.CapacityMWh = 0 }, false},
		{"negative capacity", func(a *BatteryAsset) { a.CapacityMWh = -1 }, false},
		{"negative charge rate", func(a *BatteryAsset) { a.MaxChargeMW = -2 }, false},
		{"negative discharge rate", func(a *BatteryAsset) { a.MaxDischargeMW = -2 }, false},
		{"zero rates allowed", func(a *BatteryAsset) { a.MaxChargeMW, a.MaxDischargeMW = 0, 0 }, true},
		{"charge efficiency zero", func(a *BatteryAsset) { a.ChargeEfficiency = 0 }, false},
		{"charge efficiency above one", func(a *BatteryAsset) { a.ChargeEfficiency = 1.01 }, false},
		{"discharge efficiency zero", func(a *BatteryAsset) { a.DischargeEfficiency = 0 }, false},
		{"efficiency exactly one", func(a *BatteryAsset) { a.ChargeEfficiency, a.DischargeEfficiency = 1, 1 }, true},
		{"thresholds inverted", func(a *BatteryAsset) { a.ChargeThreshold, a.DischargeThreshold = 150, 100 }, false},
		{"thresholds equal", func(a *BatteryAsset) { a.ChargeThreshold, a.DischargeThreshold = 120, 120 }, false},
		{"nan threshold", func(a *BatteryAsset) { a.ChargeThreshold = math.NaN() }, false},
		{"initial soe negative", func(a *BatteryAsset) { a.InitialSoeMWh = -0.1 }, false},
		{"initial soe above capacity", func(a *BatteryAsset) { a.InitialSoeMWh = 20.1 }, false},
		{"initial soe at capacity", func(a *BatteryAsset) { a.InitialSoeMWh = 20 }, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			a := validAsset()
			tc.mutate(&a)
			err := a.Validate()
			if tc.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatalf("expected error")
				}
				var ce *ConfigError
				if !errors.As(err, &ce) {
					t.Fatalf("expected ConfigError, got %T", err)
				}
			}
		})
	}
}

func TestMaxChargePowerMW(t *testing.T) {
	a := validAsset()
	a.ChargeEfficiency = 0.5

	// Plenty of headroom: rate limited.
	if got := a.MaxChargePowerMW(0, 1); got != 5 {
		t.Fatalf("expected rate limit 5, got %v", got)
	}
	// 1 MWh headroom at 0.5 efficiency over 1h: 2 MW of grid draw stores 1 MWh.
	if got := a.MaxChargePowerMW(19, 1); got != 2 {
		t.Fatalf("expected headroom cap 2, got %v", got)
	}
	// Full: nothing to absorb.
	if got := a.MaxChargePowerMW(20, 1); got != 0 {
		t.Fatalf("expected 0 at full, got %v", got)
	}
	// Shorter step admits more power for the same headroom.
	if got := a.MaxChargePowerMW(19, 0.25); got != 5 {
		t.Fatalf("expected rate limit 5 for quarter-hour step, got %v", got)
	}
}

func TestMaxDischargePowerMW(t *testing.T) {
	a := validAsset()
	a.DischargeEfficiency = 0.8

	// 10 MWh stored delivers 8 MWh over 1h, above the 5 MW rate limit.
	if got := a.MaxDischargePowerMW(10, 1); got != 5 {
		t.Fatalf("expected rate limit 5, got %v", got)
	}
	// 2 MWh stored delivers only 1.6 MWh in 1h.
	if got := a.MaxDischargePowerMW(2, 1); math.Abs(got-1.6) > 1e-12 {
		t.Fatalf("expected energy cap 1.6, got %v", got)
	}
	if got := a.MaxDischargePowerMW(0, 1); got != 0 {
		t.Fatalf("expected 0 when empty, got %v", got)
	}
}

func TestNewFleet(t *testing.T) {
	a := validAsset()
	b := validAsset()
	b.ID = "bess-2"

	fleet, err := NewFleet([]BatteryAsset{a, b})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fleet.TotalCapacityMWh() != 40 {
		t.Fatalf("expected total capacity 40, got %v", fleet.TotalCapacityMWh())
	}
	states := fleet.InitialStates()
	if len(states) != 2 || states[0].SoeMWh != 10 || states[1].SoeMWh != 10 {
		t.Fatalf("unexpected initial states: %+v", states)
	}

	if _, err := NewFleet(nil); err == nil {
		t.Fatal("expected error for empty fleet")
	}
	dup := validAsset()
	if _, err := NewFleet([]BatteryAsset{a, dup}); err == nil {
		t.Fatal("expected error for duplicate id")
	}
}

func TestModeOf(t *testing.T) {
	if ModeOf(-1) != ModeCharging || ModeOf(1) != ModeDischarging || ModeOf(0) != ModeIdle {
		t.Fatal("mode derivation broken")
	}
	if ModeCharging.String() != "CHARGE" || ModeDischarging.String() != "DISCHARGE" || ModeIdle.String() != "IDLE" {
		t.Fatal("mode strings must stay stable, they are exported to CSV")
	}
}
