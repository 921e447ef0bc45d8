// Package output writes finished runs to files: the per-asset CSV ledger,
// the KPI summary JSON and the console summary block.
package output

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"fleetsim/core/model"
)

var resultsHeader = []string{
	"timestamp", "asset_id", "mode", "power_mw",
	"energy_to_grid_mwh", "energy_from_grid_mwh",
	"soe_before_mwh", "soe_after_mwh",
	"price_mwh", "revenue", "cum_revenue", "clamped",
}

// CreateFile creates the file at path, making parent directories as needed.
func CreateFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

// CSVSink streams the run ledger to a file as steps complete, one row per
// asset per timestep. It implements sink.Sink.
type CSVSink struct {
	f  *os.File
	cw *csv.Writer
}

// NewCSVSink opens path for writing and emits the header row.
func NewCSVSink(path string) (*CSVSink, error) {
	f, err := CreateFile(path)
	if err != nil {
		return nil, err
	}
	cw := csv.NewWriter(f)
	if err := cw.Write(resultsHeader); err != nil {
		f.Close()
		return nil, err
	}
	return &CSVSink{f: f, cw: cw}, nil
}

// RecordStep appends one ledger row per asset.
func (s *CSVSink) RecordStep(rec model.TimestepRecord) error {
	for _, a := range rec.Assets {
		if err := s.cw.Write(assetRow(rec.Timestamp, rec.PriceMWh, a)); err != nil {
			return err
		}
	}
	return nil
}

// RecordResult is a no-op: the ledger is already complete once the last step
// has been recorded.
func (s *CSVSink) RecordResult(*model.SimulationResult) error { return nil }

// Close flushes buffered rows and closes the file.
func (s *CSVSink) Close() error {
	s.cw.Flush()
	err := s.cw.Error()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteResultsCSV writes the full ledger of a finished run to w.
func WriteResultsCSV(w io.Writer, res *model.SimulationResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(resultsHeader); err != nil {
		return err
	}
	for _, rec := range res.Records {
		for _, a := range rec.Assets {
			if err := cw.Write(assetRow(rec.Timestamp, rec.PriceMWh, a)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func assetRow(ts time.Time, priceMWh float64, a model.AssetStep) []string {
	return []string{
		ts.Format(time.RFC3339),
		a.AssetID,
		a.Mode,
		formatFloat(a.PowerMW),
		formatFloat(a.EnergyToGridMWh),
		formatFloat(a.EnergyFromGridMWh),
		formatFloat(a.SoeBeforeMWh),
		formatFloat(a.SoeAfterMWh),
		formatFloat(priceMWh),
		formatFloat(a.Revenue),
		formatFloat(a.CumRevenue),
		strconv.FormatBool(a.Clamped),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
