package export

import (
	"fmt"
	"math"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/gocarina/gocsv"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/temporal"
)

// WriteTimeSeriesCSV writes a zonal time series as CSV. NoData entries are
// written as NaN so "unmeasured" stays distinguishable from zero.
func WriteTimeSeriesCSV(path string, series []temporal.Entry) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	rows := make([]*temporal.Entry, len(series))
	for i := range series {
		rows[i] = &series[i]
	}
	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return fmt.Errorf("failed to write CSV: %v", err)
	}
	return nil
}

// WriteTimeSeriesChart renders a zonal time series as a standalone HTML line
// chart. NoData entries leave a gap in the line.
func WriteTimeSeriesChart(path, title, unit string, series []temporal.Entry) error {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithYAxisOpts(opts.YAxis{Name: unit}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)

	periods := make([]string, len(series))
	values := make([]opts.LineData, len(series))
	for i, entry := range series {
		periods[i] = fmt.Sprintf("%d", entry.Period)
		if math.IsNaN(entry.Value) {
			values[i] = opts.LineData{Value: nil}
		} else {
			values[i] = opts.LineData{Value: entry.Value}
		}
	}
	line.SetXAxis(periods).AddSeries(title, values)

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %v", err)
	}
	defer file.Close()
	return line.Render(file)
}
