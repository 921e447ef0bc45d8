package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fleetsim/core/analysis"
	"fleetsim/core/model"
)

// WriteSummaryJSON writes the KPI report to w as indented JSON.
func WriteSummaryJSON(w io.Writer, report analysis.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteSummaryFile writes the KPI report to path, creating directories as
// needed.
func WriteSummaryFile(path string, report analysis.Report) error {
	f, err := CreateFile(path)
	if err != nil {
		return err
	}
	if err := WriteSummaryJSON(f, report); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// PrintSummary renders the post-run console block: fleet revenue, exchanged
// energy and the final state of energy per asset.
func PrintSummary(w io.Writer, fleet *model.Fleet, res *model.SimulationResult) {
	line := strings.Repeat("=", 40)
	var charged, discharged float64
	for _, t := range res.Totals {
		charged += t.ChargedMWh
		discharged += t.DischargedMWh
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, line)
	fmt.Fprintln(w, "SIMULATION RESULTS SUMMARY")
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "Total Revenue:       $%.2f\n", res.FleetRevenue)
	fmt.Fprintf(w, "Total Energy Charged:    %.2f MWh\n", charged)
	fmt.Fprintf(w, "Total Energy Discharged: %.2f MWh\n", discharged)
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintln(w, "Final State of Energy:")
	for i, t := range res.Totals {
		pct := 0.0
		if capacity := fleet.Assets[i].CapacityMWh; capacity > 0 {
			pct = 100 * t.FinalSoeMWh / capacity
		}
		fmt.Fprintf(w, "  %s: %.2f MWh (%.1f%%)\n", t.AssetID, t.FinalSoeMWh, pct)
	}
	fmt.Fprintln(w, line)
}
