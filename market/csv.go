package market

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"fleetsim/core/model"
)

// tsLayouts are the accepted timestamp formats, tried in order. The second
// is what spreadsheet-exported price files typically carry; it has no zone
// and is interpreted in the provided location.
var tsLayouts = []string{time.RFC3339, "2006-01-02 15:04:05"}

// ReadPricesCSV parses a two-column (timestamp, price) file with a header
// row. The returned series is validated, so callers can feed it straight
// into a run.
func ReadPricesCSV(r io.Reader, loc *time.Location) (model.PriceSeries, error) {
	if loc == nil {
		loc = time.UTC
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, &model.DataError{Reason: fmt.Sprintf("csv: %v", err)}
	}
	if len(rows) < 2 {
		return nil, &model.DataError{Reason: "csv: no data rows"}
	}

	series := make(model.PriceSeries, 0, len(rows)-1)
	for i, row := range rows[1:] {
		ts, err := parseTimestamp(row[0], loc)
		if err != nil {
			return nil, &model.DataError{Reason: fmt.Sprintf("csv row %d: %v", i+2, err)}
		}
		price, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, &model.DataError{Reason: fmt.Sprintf("csv row %d: bad price %q", i+2, row[1])}
		}
		series = append(series, model.PricePoint{Timestamp: ts, PriceMWh: price})
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	return series, nil
}

// WritePricesCSV writes the series with the same header the reader expects,
// so generated files round-trip.
func WritePricesCSV(w io.Writer, series model.PriceSeries) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timestamp", "price_mwh"}); err != nil {
		return err
	}
	for _, p := range series {
		rec := []string{
			p.Timestamp.Format(time.RFC3339),
			strconv.FormatFloat(p.PriceMWh, 'f', -1, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseTimestamp(s string, loc *time.Location) (time.Time, error) {
	for _, layout := range tsLayouts {
		if layout == time.RFC3339 {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, nil
			}
			continue
		}
		if ts, err := time.ParseInLocation(layout, s, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
