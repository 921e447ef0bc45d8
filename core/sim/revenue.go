package sim

// StepRevenue settles one asset transition at the grid boundary: exported
// energy earns the step price, imported energy pays it. With negative prices
// the signs flip, charging earns and discharging pays.
func StepRevenue(priceMWh float64, tr Transition) float64 {
	net := tr.EnergyToGridMWh - tr.EnergyFromGridMWh
	if net == 0 {
		return 0
	}
	return priceMWh * net
}

// RevenueMeter keeps the running totals for a run, per asset and for the
// fleet. Totals accumulate step by step and are never recomputed, so every
// cumulative value reported downstream equals the sum of its preceding
// steps. Settlement order must follow fleet order to keep repeated runs
// identical.
type RevenueMeter struct {
	assets []float64
	fleet  float64
}

// NewRevenueMeter creates a meter for a fleet of n assets.
func NewRevenueMeter(n int) *RevenueMeter {
	return &RevenueMeter{assets: make([]float64, n)}
}

// Settle books a step amount for the asset at fleet index i and returns the
// new per-asset and fleet cumulative totals.
func (m *RevenueMeter) Settle(i int, step float64) (assetCum, fleetCum float64) {
	m.assets[i] += step
	m.fleet += step
	return m.assets[i], m.fleet
}

// AssetTotal returns the cumulative revenue of the asset at fleet index i.
func (m *RevenueMeter) AssetTotal(i int) float64 { return m.assets[i] }

// FleetTotal returns the cumulative revenue of the whole fleet.
func (m *RevenueMeter) FleetTotal() float64 { return m.fleet }
