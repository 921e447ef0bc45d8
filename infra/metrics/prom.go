// Package metrics exposes run activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"fleetsim/core/model"
)

// PromSink records run activity in Prometheus metrics. It implements
// sink.Sink.
type PromSink struct {
	runs      prometheus.Counter
	steps     prometheus.Counter
	anomalies prometheus.Counter
	energy    *prometheus.CounterVec
	revenue   prometheus.Gauge
	duration  prometheus.Histogram
}

// NewPromSink registers the simulation metrics on the default Prometheus
// registerer. The metrics server is started separately.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by a previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fleetsim_runs_total",
		Help: "Total number of completed simulation runs",
	})
	steps := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fleetsim_steps_total",
		Help: "Total number of simulated timesteps",
	})
	anomalies := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "fleetsim_clamp_anomalies_total",
		Help: "Total number of state-of-energy clamps beyond tolerance",
	})
	energy := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "fleetsim_energy_mwh_total",
		Help: "Energy exchanged with the grid in MWh",
	}, []string{"asset_id", "direction"})
	revenue := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "fleetsim_last_run_revenue",
		Help: "Fleet revenue of the most recent run",
	})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "fleetsim_run_duration_seconds",
		Help:    "Wall-clock duration of simulation runs",
		Buckets: prometheus.DefBuckets,
	})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(steps); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			steps = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(anomalies); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			anomalies = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(energy); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			energy = are.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(revenue); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			revenue = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(duration); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			duration = are.ExistingCollector.(prometheus.Histogram)
		} else {
			return nil, err
		}
	}

	return &PromSink{
		runs:      runs,
		steps:     steps,
		anomalies: anomalies,
		energy:    energy,
		revenue:   revenue,
		duration:  duration,
	}, nil
}

// RecordStep advances the step counters.
func (s *PromSink) RecordStep(rec model.TimestepRecord) error {
	s.steps.Inc()
	s.anomalies.Add(float64(rec.Anomalies))
	for _, a := range rec.Assets {
		if a.EnergyToGridMWh > 0 {
			s.energy.WithLabelValues(a.AssetID, "to_grid").Add(a.EnergyToGridMWh)
		}
		if a.EnergyFromGridMWh > 0 {
			s.energy.WithLabelValues(a.AssetID, "from_grid").Add(a.EnergyFromGridMWh)
		}
	}
	return nil
}

// RecordResult counts the run and records its revenue and duration.
func (s *PromSink) RecordResult(res *model.SimulationResult) error {
	s.runs.Inc()
	s.revenue.Set(res.FleetRevenue)
	s.duration.Observe(res.FinishedAt.Sub(res.StartedAt).Seconds())
	return nil
}

// Close is a no-op: registered collectors outlive individual runs.
func (s *PromSink) Close() error { return nil }
