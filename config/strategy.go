package config

import "fmt"

// StrategyConfig holds the fleet-wide threshold defaults. Assets may
// override either side individually.
type StrategyConfig struct {
	ChargeThreshold    float64 `json:"charge_threshold"`
	DischargeThreshold float64 `json:"discharge_threshold"`
}

// SetDefaults applies the canonical arbitrage band.
func (c *StrategyConfig) SetDefaults() {
	if c.ChargeThreshold == 0 && c.DischargeThreshold == 0 {
		c.ChargeThreshold = 100
		c.DischargeThreshold = 150
	}
}

// Validate checks the band ordering.
func (c StrategyConfig) Validate() error {
	if c.ChargeThreshold >= c.DischargeThreshold {
		return fmt.Errorf("strategy: charge_threshold (%v) must be below discharge_threshold (%v)",
			c.ChargeThreshold, c.DischargeThreshold)
	}
	return nil
}
