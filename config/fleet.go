package config

import (
	"fmt"

	"fleetsim/core/model"
)

// AssetConfig declares one battery. Optional fields are pointers so an
// explicit zero can be told apart from an omitted key.
type AssetConfig struct {
	ID             string  `json:"id"`
	CapacityMWh    float64 `json:"capacity_mwh"`
	MaxChargeMW    float64 `json:"max_charge_mw"`
	MaxDischargeMW float64 `json:"max_discharge_mw"`

	// Efficiency is the shorthand applied to both directions; the explicit
	// per-direction fields override it. All default to 1 (lossless).
	Efficiency          *float64 `json:"efficiency"`
	ChargeEfficiency    *float64 `json:"charge_efficiency"`
	DischargeEfficiency *float64 `json:"discharge_efficiency"`

	// Per-asset threshold overrides; the strategy section supplies the
	// fleet-wide defaults.
	ChargeThreshold    *float64 `json:"charge_threshold"`
	DischargeThreshold *float64 `json:"discharge_threshold"`

	// Starting state of energy: a percentage of capacity wins over an
	// absolute figure; with neither, the battery starts half full.
	InitialSoePct *float64 `json:"initial_soe_pct"`
	InitialSoeMWh *float64 `json:"initial_soe_mwh"`
}

// FleetConfig declares the assets and the aggregate grid ceilings. A missing
// ceiling means that direction is unbounded.
type FleetConfig struct {
	Assets         []AssetConfig `json:"assets"`
	MaxChargeMW    *float64      `json:"max_charge_mw"`
	MaxDischargeMW *float64      `json:"max_discharge_mw"`
}

// Validate performs the structural checks; value ranges are enforced by the
// domain model when the fleet is built.
func (c FleetConfig) Validate() error {
	if len(c.Assets) == 0 {
		return fmt.Errorf("fleet: at least one asset is required")
	}
	for i, a := range c.Assets {
		if a.ID == "" {
			return fmt.Errorf("fleet: asset %d has no id", i)
		}
	}
	return nil
}

// BuildFleet resolves shorthands and strategy defaults into validated domain
// assets.
func (c *Config) BuildFleet() (*model.Fleet, error) {
	assets := make([]model.BatteryAsset, len(c.Fleet.Assets))
	for i, ac := range c.Fleet.Assets {
		assets[i] = ac.toAsset(c.Strategy)
	}
	return model.NewFleet(assets)
}

// Constraints maps the optional ceilings onto the domain type.
func (c *Config) Constraints() model.FleetConstraints {
	limits := model.FleetConstraints{
		MaxChargeMW:    model.Unbounded,
		MaxDischargeMW: model.Unbounded,
	}
	if c.Fleet.MaxChargeMW != nil {
		limits.MaxChargeMW = *c.Fleet.MaxChargeMW
	}
	if c.Fleet.MaxDischargeMW != nil {
		limits.MaxDischargeMW = *c.Fleet.MaxDischargeMW
	}
	return limits
}

func (a AssetConfig) toAsset(strategy StrategyConfig) model.BatteryAsset {
	asset := model.BatteryAsset{
		ID:                  a.ID,
		CapacityMWh:         a.CapacityMWh,
		MaxChargeMW:         a.MaxChargeMW,
		MaxDischargeMW:      a.MaxDischargeMW,
		ChargeEfficiency:    1,
		DischargeEfficiency: 1,
		ChargeThreshold:     strategy.ChargeThreshold,
		DischargeThreshold:  strategy.DischargeThreshold,
	}
	if a.Efficiency != nil {
		asset.ChargeEfficiency = *a.Efficiency
		asset.DischargeEfficiency = *a.Efficiency
	}
	if a.ChargeEfficiency != nil {
		asset.ChargeEfficiency = *a.ChargeEfficiency
	}
	if a.DischargeEfficiency != nil {
		asset.DischargeEfficiency = *a.DischargeEfficiency
	}
	if a.ChargeThreshold != nil {
		asset.ChargeThreshold = *a.ChargeThreshold
	}
	if a.DischargeThreshold != nil {
		asset.DischargeThreshold = *a.DischargeThreshold
	}
	switch {
	case a.InitialSoePct != nil:
		asset.InitialSoeMWh = a.CapacityMWh * (*a.InitialSoePct / 100)
	case a.InitialSoeMWh != nil:
		asset.InitialSoeMWh = *a.InitialSoeMWh
	default:
		asset.InitialSoeMWh = a.CapacityMWh * 0.5
	}
	return asset
}
