package sink

import (
	"errors"

	"fleetsim/core/model"
)

// Sink observes a simulation run: every appended timestep record, then the
// final result. The simulator invokes sinks sequentially from the run
// goroutine; a sink shared between concurrent runs must synchronize
// internally.
type Sink interface {
	RecordStep(rec model.TimestepRecord) error
	RecordResult(res *model.SimulationResult) error
	Close() error
}

// NopSink discards everything it is given.
type NopSink struct{}

func (NopSink) RecordStep(model.TimestepRecord) error      { return nil }
func (NopSink) RecordResult(*model.SimulationResult) error { return nil }
func (NopSink) Close() error                               { return nil }

// MultiSink fans records out to multiple sinks.
type MultiSink struct {
	Sinks []Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordStep forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordStep(rec model.TimestepRecord) error {
	for _, s := range m.Sinks {
		if err := s.RecordStep(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordResult forwards the result to all sinks, returning the first error encountered.
func (m *MultiSink) RecordResult(res *model.SimulationResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordResult(res); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink, continuing past failures, and reports them joined.
func (m *MultiSink) Close() error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
