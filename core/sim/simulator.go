package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"fleetsim/core/logger"
	"fleetsim/core/model"
	"fleetsim/core/sink"
)

// Simulator drives a fleet through a market price series, one step at a
// time. Steps are strictly ordered; within a step the per-asset work fans
// out across goroutines into pre-allocated slots and is reduced sequentially
// in fleet order, so two runs over the same inputs produce identical records
// and totals.
type Simulator struct {
	fleet      *model.Fleet
	limits     model.FleetConstraints
	resolution time.Duration

	policy     ThresholdPolicy
	integrator Integrator
	enforcer   *Enforcer

	sink sink.Sink
	log  logger.Logger
}

// Option customises a Simulator.
type Option func(*Simulator)

// WithSink attaches a sink observing each record and the final result. Sink
// failures are logged and never interrupt a run.
func WithSink(s sink.Sink) Option {
	return func(sim *Simulator) { sim.sink = s }
}

// WithLogger replaces the default no-op logger.
func WithLogger(l logger.Logger) Option {
	return func(sim *Simulator) { sim.log = l }
}

// New builds a simulator and validates fleet, constraints and market
// resolution up front. Nothing invalid ever reaches Run.
func New(fleet *model.Fleet, limits model.FleetConstraints, resolution time.Duration, opts ...Option) (*Simulator, error) {
	if err := fleet.Validate(); err != nil {
		return nil, err
	}
	if err := limits.Validate(); err != nil {
		return nil, err
	}
	if resolution <= 0 {
		return nil, &model.ConfigError{Reason: fmt.Sprintf("market resolution must be positive, got %s", resolution)}
	}
	s := &Simulator{
		fleet:      fleet,
		limits:     limits,
		resolution: resolution,
		enforcer:   NewEnforcer(limits),
		sink:       sink.NopSink{},
		log:        nopLogger{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run executes the full series and returns the assembled result. The price
// series is validated before the first step; a cancelled context aborts the
// run between steps and discards all partial work.
func (s *Simulator) Run(ctx context.Context, prices model.PriceSeries) (*model.SimulationResult, error) {
	if err := prices.Validate(); err != nil {
		return nil, err
	}
	dts := prices.StepDurations(s.resolution)

	assets := s.fleet.Assets
	n := len(assets)
	states := s.fleet.InitialStates()

	// Per-step scratch slots, one per asset. Workers write only their own
	// index, which keeps the fan-out race free without locking.
	requests := make([]model.DispatchRequest, n)
	transitions := make([]Transition, n)
	stepRevenue := make([]float64, n)

	meter := NewRevenueMeter(n)
	chargedMWh := make([]float64, n)
	dischargedMWh := make([]float64, n)

	res := &model.SimulationResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Records:   make([]model.TimestepRecord, 0, len(prices)),
	}
	s.log.Infof("run %s: %d assets, %d price points", res.RunID, n, len(prices))

	for i, pt := range prices {
		if err := ctx.Err(); err != nil {
			s.log.Warnf("run %s aborted at step %d/%d: %v", res.RunID, i, len(prices), err)
			return nil, fmt.Errorf("run aborted at step %d/%d: %w", i, len(prices), err)
		}
		dt := dts[i]

		var wg sync.WaitGroup
		for j := range assets {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				requests[j] = s.policy.Decide(assets[j], states[j], pt.PriceMWh, dt)
			}(j)
		}
		wg.Wait()

		approved := s.enforcer.Apply(requests)

		for j := range assets {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()
				tr := s.integrator.Advance(assets[j], &states[j], approved[j].PowerMW, dt)
				transitions[j] = tr
				stepRevenue[j] = StepRevenue(pt.PriceMWh, tr)
			}(j)
		}
		wg.Wait()

		rec := s.reduce(pt, dt, approved, transitions, stepRevenue, meter)
		rec.RunID = res.RunID
		for j := range assets {
			chargedMWh[j] += transitions[j].EnergyFromGridMWh
			dischargedMWh[j] += transitions[j].EnergyToGridMWh
		}
		res.Anomalies += rec.Anomalies
		res.Records = append(res.Records, rec)

		if err := s.sink.RecordStep(rec); err != nil {
			s.log.Errorf("run %s: step sink failed at %s: %v", res.RunID, pt.Timestamp.Format(time.RFC3339), err)
		}
	}

	res.Totals = make([]model.AssetTotal, n)
	for j := range assets {
		res.Totals[j] = model.AssetTotal{
			AssetID:       assets[j].ID,
			Revenue:       meter.AssetTotal(j),
			FinalSoeMWh:   states[j].SoeMWh,
			ChargedMWh:    chargedMWh[j],
			DischargedMWh: dischargedMWh[j],
		}
	}
	res.FleetRevenue = meter.FleetTotal()
	res.FinishedAt = time.Now().UTC()

	s.log.Infof("run %s: %d steps, fleet revenue %.2f, %d anomalies",
		res.RunID, len(res.Records), res.FleetRevenue, res.Anomalies)
	if err := s.sink.RecordResult(res); err != nil {
		s.log.Errorf("run %s: result sink failed: %v", res.RunID, err)
	}
	return res, nil
}

// reduce assembles the immutable record for one step. It is the only place
// cumulative totals advance, and it walks assets in fleet order so float
// summation order never varies between runs.
func (s *Simulator) reduce(pt model.PricePoint, dt float64, approved []model.ApprovedDispatch,
	transitions []Transition, stepRevenue []float64, meter *RevenueMeter) model.TimestepRecord {

	rec := model.TimestepRecord{
		Timestamp: pt.Timestamp,
		PriceMWh:  pt.PriceMWh,
		DtHours:   dt,
		Assets:    make([]model.AssetStep, len(approved)),
	}
	for j := range approved {
		tr := transitions[j]
		assetCum, fleetCum := meter.Settle(j, stepRevenue[j])
		rec.Assets[j] = model.AssetStep{
			AssetID:           approved[j].AssetID,
			Mode:              approved[j].Mode().String(),
			PowerMW:           approved[j].PowerMW,
			EnergyToGridMWh:   tr.EnergyToGridMWh,
			EnergyFromGridMWh: tr.EnergyFromGridMWh,
			SoeBeforeMWh:      tr.SoeBeforeMWh,
			SoeAfterMWh:       tr.SoeAfterMWh,
			Revenue:           stepRevenue[j],
			CumRevenue:        assetCum,
			Clamped:           tr.Clamped,
		}
		switch {
		case approved[j].PowerMW < 0:
			rec.Fleet.ChargeMW -= approved[j].PowerMW
		case approved[j].PowerMW > 0:
			rec.Fleet.DischargeMW += approved[j].PowerMW
		}
		rec.Fleet.Revenue += stepRevenue[j]
		rec.Fleet.CumRevenue = fleetCum
		if tr.Clamped {
			rec.Anomalies++
			s.log.Warnf("asset %s at %s: state of energy clamped beyond tolerance (before %.12f, power %.6f)",
				approved[j].AssetID, pt.Timestamp.Format(time.RFC3339), tr.SoeBeforeMWh, approved[j].PowerMW)
		}
	}
	return rec
}

// nopLogger keeps the simulator silent unless a logger is injected.
type nopLogger struct{}

func (nopLogger) Debugf(string, ...any)         {}
func (nopLogger) Debugw(string, map[string]any) {}
func (nopLogger) Infof(string, ...any)          {}
func (nopLogger) Warnf(string, ...any)          {}
func (nopLogger) Errorf(string, ...any)         {}
