package scenarios

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"fleetsim/core/model"
)

// AssetDef declares one battery in a scenario file. Zero efficiencies default
// to lossless so simple scenarios stay terse.
type AssetDef struct {
	ID                  string  `yaml:"id"`
	CapacityMWh         float64 `yaml:"capacity_mwh"`
	MaxChargeMW         float64 `yaml:"max_charge_mw"`
	MaxDischargeMW      float64 `yaml:"max_discharge_mw"`
	ChargeEfficiency    float64 `yaml:"charge_efficiency,omitempty"`
	DischargeEfficiency float64 `yaml:"discharge_efficiency,omitempty"`
	ChargeThreshold     float64 `yaml:"charge_threshold"`
	DischargeThreshold  float64 `yaml:"discharge_threshold"`
	InitialSoeMWh       float64 `yaml:"initial_soe_mwh"`
}

func (a AssetDef) ToModel() model.BatteryAsset {
	asset := model.BatteryAsset{
		ID:                  a.ID,
		CapacityMWh:         a.CapacityMWh,
		MaxChargeMW:         a.MaxChargeMW,
		MaxDischargeMW:      a.MaxDischargeMW,
		ChargeEfficiency:    a.ChargeEfficiency,
		DischargeEfficiency: a.DischargeEfficiency,
		ChargeThreshold:     a.ChargeThreshold,
		DischargeThreshold:  a.DischargeThreshold,
		InitialSoeMWh:       a.InitialSoeMWh,
	}
	if asset.ChargeEfficiency == 0 {
		asset.ChargeEfficiency = 1
	}
	if asset.DischargeEfficiency == 0 {
		asset.DischargeEfficiency = 1
	}
	return asset
}

// ConstraintsDef declares the aggregate ceilings. Omitted fields mean that
// direction is unbounded; an explicit zero closes it.
type ConstraintsDef struct {
	MaxChargeMW    *float64 `yaml:"max_charge_mw,omitempty"`
	MaxDischargeMW *float64 `yaml:"max_discharge_mw,omitempty"`
}

func (c ConstraintsDef) ToModel() model.FleetConstraints {
	limits := model.FleetConstraints{
		MaxChargeMW:    model.Unbounded,
		MaxDischargeMW: model.Unbounded,
	}
	if c.MaxChargeMW != nil {
		limits.MaxChargeMW = *c.MaxChargeMW
	}
	if c.MaxDischargeMW != nil {
		limits.MaxDischargeMW = *c.MaxDischargeMW
	}
	return limits
}

// StepExpectation pins per-asset approved power at one step index.
type StepExpectation struct {
	Index int                `yaml:"index"`
	Power map[string]float64 `yaml:"power"`
}

// Expected lists the outcomes a scenario asserts after the run.
type Expected struct {
	FleetRevenue *float64           `yaml:"fleet_revenue,omitempty"`
	Anomalies    int                `yaml:"anomalies"`
	FinalSoeMWh  map[string]float64 `yaml:"final_soe_mwh,omitempty"`
	Steps        []StepExpectation  `yaml:"steps,omitempty"`
}

// Scenario is one declarative simulation case: a fleet, its ceilings, a
// price sequence laid out at the given resolution, and the expected outcome.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description,omitempty"`
	Resolution  string         `yaml:"resolution"`
	Assets      []AssetDef     `yaml:"assets"`
	Constraints ConstraintsDef `yaml:"constraints"`
	PricesMWh   []float64      `yaml:"prices_mwh"`
	Expected    Expected       `yaml:"expected"`
}

// ResolutionDuration parses the scenario step size, defaulting to one hour.
func (s *Scenario) ResolutionDuration() (time.Duration, error) {
	if s.Resolution == "" {
		return time.Hour, nil
	}
	d, err := time.ParseDuration(s.Resolution)
	if err != nil {
		return 0, fmt.Errorf("scenario %s: bad resolution %q: %w", s.Name, s.Resolution, err)
	}
	return d, nil
}

// Load reads and parses a scenario file.
func Load(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	return &sc, nil
}
