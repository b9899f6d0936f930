package temporal

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
)

// Entry is one point of a zonal time series. Value is NoData (NaN) for
// periods with no measurement, so consumers can tell "unmeasured" from a
// measured zero.
type Entry struct {
	Period int     `csv:"period"`
	Value  float64 `csv:"value"`
}

// ReduceRegion reduces one band of a raster to its mean over a region. A
// pixel contributes iff its center point falls inside the region polygon;
// pixels straddling the boundary follow their center. scale is the sampling
// resolution in world units: pixels are visited at a stride of
// scale/pixelSize (minimum 1), which makes coarse scans of large rasters
// cheap. NoData pixels are skipped; a region with zero valid pixels reduces
// to NoData. The fold is a plain sum/count, so partial reductions combine in
// any order.
func ReduceRegion(r *raster.Raster, band string, region orb.MultiPolygon, scale float64) (float64, error) {
	buf, err := r.Band(band)
	if err != nil {
		return raster.NoData, fmt.Errorf("failed to reduce region: %v", err)
	}

	stride := 1
	if scale > r.Grid.PixelSize {
		stride = int(scale / r.Grid.PixelSize)
	}

	sum, count := 0.0, 0
	for y := 0; y < r.Grid.Height; y += stride {
		for x := 0; x < r.Grid.Width; x += stride {
			v := buf[y*r.Grid.Width+x]
			if raster.IsNoData(v) {
				continue
			}
			wx, wy := r.Grid.PixelCenter(x, y)
			if !planar.MultiPolygonContains(region, orb.Point{wx, wy}) {
				continue
			}
			sum += v
			count++
		}
	}
	if count == 0 {
		return raster.NoData, nil
	}
	return sum / float64(count), nil
}

// BuildTimeSeries reduces each period composite over a region into an ordered
// scalar series. Input composites must already be in period order, as
// produced by AggregateByPeriod. Empty composites yield NoData entries rather
// than being dropped.
func BuildTimeSeries(composites []raster.Composite, band string, region orb.MultiPolygon, scale float64) ([]Entry, error) {
	series := make([]Entry, 0, len(composites))
	for _, comp := range composites {
		if comp.Empty() {
			series = append(series, Entry{Period: comp.Period, Value: raster.NoData})
			continue
		}
		v, err := ReduceRegion(comp.Raster, band, region, scale)
		if err != nil {
			return nil, fmt.Errorf("failed to build time series at period %d: %v", comp.Period, err)
		}
		series = append(series, Entry{Period: comp.Period, Value: v})
	}
	return series, nil
}
