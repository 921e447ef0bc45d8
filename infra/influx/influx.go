// Package influx persists run activity to InfluxDB: one point per asset per
// timestep plus a summary point per run.
package influx

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"fleetsim/core/model"
	"fleetsim/core/sink"
	"fleetsim/infra/logger"
)

// Sink writes step points to an InfluxDB instance using the official client.
type Sink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewSink creates a sink configured for the given InfluxDB endpoint.
func NewSink(url, token, org, bucket string) *Sink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &Sink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewSinkWithFallback tries to ping the InfluxDB instance and returns a
// NopSink if the health check fails, so an unreachable database never keeps
// a simulation from running.
func NewSinkWithFallback(url, token, org, bucket string) sink.Sink {
	s := NewSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := s.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			s.log.Errorf("influx health check error: %v", err)
		} else {
			s.log.Errorf("influx health status: %s", health.Status)
		}
		s.client.Close()
		return sink.NopSink{}
	}
	return s
}

// RecordStep writes one point per asset for the step.
func (s *Sink) RecordStep(rec model.TimestepRecord) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, a := range rec.Assets {
		p := write.NewPointWithMeasurement("timestep").
			AddTag("run_id", rec.RunID).
			AddTag("asset_id", a.AssetID).
			AddTag("mode", a.Mode).
			AddField("power_mw", round3(a.PowerMW)).
			AddField("soe_mwh", round3(a.SoeAfterMWh)).
			AddField("price_mwh", round3(rec.PriceMWh)).
			AddField("revenue", round3(a.Revenue)).
			AddField("cum_revenue", round3(a.CumRevenue)).
			SetTime(rec.Timestamp)
		if err := s.writeAPI.WritePoint(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// RecordResult writes the run summary point.
func (s *Sink) RecordResult(res *model.SimulationResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	p := write.NewPointWithMeasurement("run_summary").
		AddTag("run_id", res.RunID).
		AddField("fleet_revenue", round3(res.FleetRevenue)).
		AddField("steps", res.Steps()).
		AddField("anomalies", res.Anomalies).
		SetTime(res.FinishedAt)
	return s.writeAPI.WritePoint(ctx, p)
}

// Close releases the underlying client.
func (s *Sink) Close() error {
	s.client.Close()
	return nil
}

func round3(f float64) float64 {
	return math.Round(f*1000) / 1000
}
