package scenarios

import (
	"context"
	"math"
	"testing"
	"time"

	"fleetsim/core/model"
	"fleetsim/core/sim"
)

const tolerance = 1e-9

// scenarioEpoch anchors the synthetic price timeline. The actual date is
// irrelevant to the physics; it only has to be fixed so runs stay
// reproducible.
var scenarioEpoch = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

// RunScenario executes one declarative scenario and checks every expectation.
func RunScenario(t *testing.T, sc *Scenario) {
	resolution, err := sc.ResolutionDuration()
	if err != nil {
		t.Fatalf("resolution: %v", err)
	}

	assets := make([]model.BatteryAsset, len(sc.Assets))
	for i, a := range sc.Assets {
		assets[i] = a.ToModel()
	}
	fleet, err := model.NewFleet(assets)
	if err != nil {
		t.Fatalf("fleet: %v", err)
	}

	series := make(model.PriceSeries, len(sc.PricesMWh))
	for i, p := range sc.PricesMWh {
		series[i] = model.PricePoint{
			Timestamp: scenarioEpoch.Add(time.Duration(i) * resolution),
			PriceMWh:  p,
		}
	}

	s, err := sim.New(fleet, sc.Constraints.ToModel(), resolution)
	if err != nil {
		t.Fatalf("simulator: %v", err)
	}
	res, err := s.Run(context.Background(), series)
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if want := sc.Expected.FleetRevenue; want != nil && math.Abs(res.FleetRevenue-*want) > tolerance {
		t.Errorf("fleet revenue: got %v, want %v", res.FleetRevenue, *want)
	}
	if res.Anomalies != sc.Expected.Anomalies {
		t.Errorf("anomalies: got %d, want %d", res.Anomalies, sc.Expected.Anomalies)
	}
	for id, want := range sc.Expected.FinalSoeMWh {
		tot := res.AssetTotal(id)
		if tot == nil {
			t.Errorf("final soe: unknown asset %s", id)
			continue
		}
		if math.Abs(tot.FinalSoeMWh-want) > tolerance {
			t.Errorf("asset %s final soe: got %v, want %v", id, tot.FinalSoeMWh, want)
		}
	}
	for _, step := range sc.Expected.Steps {
		if step.Index < 0 || step.Index >= len(res.Records) {
			t.Errorf("step expectation %d outside run of %d steps", step.Index, len(res.Records))
			continue
		}
		rec := res.Records[step.Index]
		for id, want := range step.Power {
			got, ok := assetPower(rec, id)
			if !ok {
				t.Errorf("step %d: unknown asset %s", step.Index, id)
				continue
			}
			if math.Abs(got-want) > tolerance {
				t.Errorf("step %d asset %s: approved power %v, want %v", step.Index, id, got, want)
			}
		}
	}
}

func assetPower(rec model.TimestepRecord, id string) (float64, bool) {
	for _, a := range rec.Assets {
		if a.AssetID == id {
			return a.PowerMW, true
		}
	}
	return 0, false
}
