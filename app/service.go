// Package app wires the configuration into a runnable service: fleet,
// market prices, simulator, output sinks and the serving surfaces.
package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"fleetsim/api/results"
	"fleetsim/config"
	"fleetsim/core/analysis"
	"fleetsim/core/model"
	"fleetsim/core/sim"
	"fleetsim/core/sink"
	"fleetsim/infra/influx"
	"fleetsim/infra/logger"
	"fleetsim/infra/metrics"
	"fleetsim/infra/mqtt"
	"fleetsim/infra/output"
	"fleetsim/market"
)

// Service holds the validated fleet and constraints built from the
// configuration.
type Service struct {
	cfg    *config.Config
	fleet  *model.Fleet
	limits model.FleetConstraints
	log    logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.SetLevel(cfg.Logging.Level)
	fleet, err := cfg.BuildFleet()
	if err != nil {
		return nil, fmt.Errorf("fleet: %w", err)
	}
	limits := cfg.Constraints()
	if err := limits.Validate(); err != nil {
		return nil, fmt.Errorf("constraints: %w", err)
	}
	return &Service{
		cfg:    cfg,
		fleet:  fleet,
		limits: limits,
		log:    logger.New("service"),
	}, nil
}

// Fleet returns the validated fleet.
func (s *Service) Fleet() *model.Fleet { return s.fleet }

// Prices loads the market series: the configured CSV file when set, the
// synthetic generator otherwise. The second return reports whether the
// series was generated.
func (s *Service) Prices(now time.Time) (model.PriceSeries, bool, error) {
	if path := s.cfg.Market.PricesCSV; path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, false, fmt.Errorf("prices csv: %w", err)
		}
		defer f.Close()
		series, err := market.ReadPricesCSV(f, s.cfg.Market.Location())
		if err != nil {
			return nil, false, fmt.Errorf("prices csv: %w", err)
		}
		return series, false, nil
	}

	params, err := s.cfg.Market.GeneratorParams(now)
	if err != nil {
		return nil, false, err
	}
	gen, err := market.NewGenerator(params)
	if err != nil {
		return nil, false, err
	}
	return gen.Generate(), true, nil
}

// RunOnce executes one full simulation: resolve prices, attach every
// configured sink, run, and write the summary file. The caller renders any
// console output.
func (s *Service) RunOnce(ctx context.Context) (*model.SimulationResult, analysis.Report, error) {
	prices, generated, err := s.Prices(time.Now())
	if err != nil {
		return nil, analysis.Report{}, err
	}
	if generated {
		if path := s.cfg.Outputs.PricesCSV; path != "" {
			if err := s.writePrices(path, prices); err != nil {
				return nil, analysis.Report{}, err
			}
		}
	}

	sinks, err := s.buildSinks()
	if err != nil {
		return nil, analysis.Report{}, err
	}
	multi := sink.NewMultiSink(sinks...)
	defer func() {
		if cerr := multi.Close(); cerr != nil {
			s.log.Errorf("closing sinks: %v", cerr)
		}
	}()

	simulator, err := sim.New(s.fleet, s.limits, s.cfg.Market.ResolutionDuration(),
		sim.WithSink(multi), sim.WithLogger(logger.New("simulator")))
	if err != nil {
		return nil, analysis.Report{}, err
	}
	res, err := simulator.Run(ctx, prices)
	if err != nil {
		return nil, analysis.Report{}, err
	}

	rep := analysis.Compute(s.fleet, res)
	if path := s.cfg.Outputs.SummaryJSON; path != "" {
		if err := output.WriteSummaryFile(path, rep); err != nil {
			return nil, analysis.Report{}, fmt.Errorf("summary json: %w", err)
		}
	}
	return res, rep, nil
}

// Serve runs one simulation so dashboards have data, then serves the
// results API (and the metrics endpoint when enabled) until the context is
// canceled.
func (s *Service) Serve(ctx context.Context) error {
	params, err := s.cfg.Market.GeneratorParams(time.Now())
	if err != nil {
		return err
	}
	api := results.NewServer(s.fleet, s.limits, s.cfg.Market.ResolutionDuration(), params)

	res, _, err := s.RunOnce(ctx)
	if err != nil {
		return err
	}
	api.SetResult(res)

	if s.cfg.Outputs.Metrics.Enabled {
		go func() {
			if err := metrics.StartPromServer(ctx, s.cfg.Outputs.Metrics.Addr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	return api.Start(ctx, s.cfg.Outputs.API.Addr)
}

// GeneratePrices produces a synthetic series and writes it to path.
func (s *Service) GeneratePrices(path string, now time.Time) (model.PriceSeries, error) {
	params, err := s.cfg.Market.GeneratorParams(now)
	if err != nil {
		return nil, err
	}
	gen, err := market.NewGenerator(params)
	if err != nil {
		return nil, err
	}
	series := gen.Generate()
	if err := s.writePrices(path, series); err != nil {
		return nil, err
	}
	return series, nil
}

func (s *Service) writePrices(path string, series model.PriceSeries) error {
	f, err := output.CreateFile(path)
	if err != nil {
		return fmt.Errorf("prices csv: %w", err)
	}
	if err := market.WritePricesCSV(f, series); err != nil {
		f.Close()
		return fmt.Errorf("prices csv: %w", err)
	}
	return f.Close()
}

// buildSinks assembles every configured run consumer. The CSV ledger is
// always on; the rest follow their enabled flags. An enabled MQTT broker
// that cannot be reached fails the run, an unreachable InfluxDB degrades to
// a no-op with an error log.
func (s *Service) buildSinks() ([]sink.Sink, error) {
	var sinks []sink.Sink
	if path := s.cfg.Outputs.ResultsCSV; path != "" {
		csvSink, err := output.NewCSVSink(path)
		if err != nil {
			return nil, fmt.Errorf("csv sink: %w", err)
		}
		sinks = append(sinks, csvSink)
	}
	if in := s.cfg.Outputs.Influx; in.Enabled {
		sinks = append(sinks, influx.NewSinkWithFallback(in.URL, in.Token, in.Org, in.Bucket))
	}
	if mq := s.cfg.Outputs.MQTT; mq.Enabled {
		pub, err := mqtt.NewPublisher(mqtt.Config{
			Broker:      mq.Broker,
			ClientID:    mq.ClientID,
			TopicPrefix: mq.TopicPrefix,
			QoS:         mq.QoS,
			Username:    mq.Username,
			Password:    mq.Password,
		})
		if err != nil {
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		sinks = append(sinks, pub)
	}
	if s.cfg.Outputs.Metrics.Enabled {
		prom, err := metrics.NewPromSink()
		if err != nil {
			return nil, fmt.Errorf("prom sink: %w", err)
		}
		sinks = append(sinks, prom)
	}
	return sinks, nil
}
