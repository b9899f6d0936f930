package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/export"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/properties"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/temporal"
)

// reduceScale is the zonal sampling resolution in degrees, roughly one
// kilometer at the equator.
const reduceScale = 0.01

// RunClimatology builds the two zonal time series: monthly precipitation
// climatology (mean composites, periods 1..12) and the land-surface
// temperature series by observation day (cloud-filtered median composites).
// Months or days without usable scenes stay in the series as NaN entries.
func (p *Pipeline) RunClimatology(ctx context.Context, yearFrom, yearTo int) error {
	fmt.Printf("Building climatology for %d-%d\n", yearFrom, yearTo)
	from := time.Date(yearFrom, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(yearTo, 12, 31, 0, 0, 0, 0, time.UTC)

	precip, err := p.Precipitation.FetchCollection(ctx, []string{"precipitation"}, p.Boundary, from, to, 1)
	if err != nil {
		return fmt.Errorf("failed to fetch precipitation collection: %v", err)
	}
	monthly, err := temporal.AggregateByPeriod(precip, temporal.ByMonth, raster.Mean, 1)
	if err != nil {
		return err
	}
	precipSeries, err := temporal.BuildTimeSeries(monthly, "precipitation", p.Boundary, reduceScale)
	if err != nil {
		return err
	}
	if err := p.exportSeries("precipitation_monthly", "Monthly precipitation", "mm", precipSeries); err != nil {
		return err
	}

	lst, err := p.Temperature.FetchCollection(ctx, []string{"LST", "CLD"}, p.Boundary, from, to, 1)
	if err != nil {
		return fmt.Errorf("failed to fetch temperature collection: %v", err)
	}
	daily, err := temporal.AggregateByPeriod(lst, temporal.ByDay, raster.Median, properties.MaxCloudCover())
	if err != nil {
		return err
	}
	// Temperature is reduced over the glacier extent, not the whole
	// watershed: the series tracks conditions on the ice.
	lstSeries, err := temporal.BuildTimeSeries(daily, "LST", p.Glaciers, reduceScale)
	if err != nil {
		return err
	}
	return p.exportSeries("temperature_daily", "Land surface temperature", "K", lstSeries)
}

func (p *Pipeline) exportSeries(name, title, unit string, series []temporal.Entry) error {
	csvPath, err := p.outputPath(name + ".csv")
	if err != nil {
		return err
	}
	if err := export.WriteTimeSeriesCSV(csvPath, series); err != nil {
		return err
	}
	chartPath, err := p.outputPath(name + ".html")
	if err != nil {
		return err
	}
	if err := export.WriteTimeSeriesChart(chartPath, title, unit, series); err != nil {
		return err
	}
	fmt.Printf("Series %s written (%d entries)\n", name, len(series))
	return nil
}
