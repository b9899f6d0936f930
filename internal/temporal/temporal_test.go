package temporal

import (
	"math"
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
)

func testGrid(width, height int) raster.Grid {
	return raster.Grid{Width: width, Height: height, OriginY: float64(height), PixelSize: 1, EPSG: 4326}
}

func constantScene(grid raster.Grid, value float64, ts time.Time, cloud float64) raster.Scene {
	r := raster.New(grid, "v")
	buf, _ := r.Band("v")
	for i := range buf {
		buf[i] = value
	}
	return raster.Scene{Raster: r, Timestamp: ts, CloudCover: cloud}
}

func fullRegion(grid raster.Grid) orb.MultiPolygon {
	b := grid.Bound()
	return orb.MultiPolygon{{{
		{b.Min[0], b.Min[1]}, {b.Max[0], b.Min[1]}, {b.Max[0], b.Max[1]}, {b.Min[0], b.Max[1]}, {b.Min[0], b.Min[1]},
	}}}
}

func TestAggregateByPeriodSyntheticYear(t *testing.T) {
	grid := testGrid(3, 3)
	coll := &raster.Collection{}
	// One scene per month, added out of order on purpose.
	for _, month := range []int{7, 1, 12, 3, 2, 11, 5, 4, 10, 6, 9, 8} {
		ts := time.Date(2023, time.Month(month), 15, 0, 0, 0, 0, time.UTC)
		coll.Add(constantScene(grid, float64(month), ts, 0))
	}

	composites, err := AggregateByPeriod(coll, ByMonth, raster.Mean, 1)
	require.NoError(t, err)
	require.Len(t, composites, 12)
	for i, comp := range composites {
		assert.Equal(t, i+1, comp.Period, "period keys must be ordered 1..12")
		require.False(t, comp.Empty())
		assert.Len(t, comp.SourceTimes, 1, "each month has exactly one contributing tile")
		assert.Equal(t, float64(i+1), comp.Raster.Value("v", 1, 1))
	}
}

func TestAggregateByPeriodCloudFilteredMonthStaysVisible(t *testing.T) {
	grid := testGrid(2, 2)
	coll := &raster.Collection{}
	coll.Add(constantScene(grid, 1, time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), 0.05))
	coll.Add(constantScene(grid, 9, time.Date(2023, 2, 10, 0, 0, 0, 0, time.UTC), 0.9))

	composites, err := AggregateByPeriod(coll, ByMonth, raster.Median, 0.2)
	require.NoError(t, err)
	require.Len(t, composites, 2)
	assert.False(t, composites[0].Empty())
	assert.True(t, composites[1].Empty(), "a fully clouded month must yield an empty composite, not disappear")

	series, err := BuildTimeSeries(composites, "v", fullRegion(grid), 1)
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, 1, series[0].Period)
	assert.Equal(t, 1.0, series[0].Value)
	assert.Equal(t, 2, series[1].Period)
	assert.True(t, math.IsNaN(series[1].Value), "the gap propagates as NaN, not zero")
}

func TestAggregateByPeriodFillsMonthsWithNoScenes(t *testing.T) {
	grid := testGrid(2, 2)
	coll := &raster.Collection{}
	// The archive returned nothing for February: no scene maps to that key.
	coll.Add(constantScene(grid, 1, time.Date(2023, 1, 10, 0, 0, 0, 0, time.UTC), 0))
	coll.Add(constantScene(grid, 3, time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC), 0))

	composites, err := AggregateByPeriod(coll, ByMonth, raster.Mean, 1)
	require.NoError(t, err)
	require.Len(t, composites, 3, "the gap month was silently dropped")
	assert.Equal(t, []int{1, 2, 3}, []int{composites[0].Period, composites[1].Period, composites[2].Period})
	assert.True(t, composites[1].Empty())

	series, err := BuildTimeSeries(composites, "v", fullRegion(grid), 1)
	require.NoError(t, err)
	require.Len(t, series, 3)
	assert.True(t, math.IsNaN(series[1].Value))
}

func TestReduceRegionConstantFieldIsScaleInvariant(t *testing.T) {
	grid := testGrid(20, 20)
	scene := constantScene(grid, 7.5, time.Time{}, 0)
	region := fullRegion(grid)

	for _, scale := range []float64{0.5, 1, 2, 5} {
		v, err := ReduceRegion(scene.Raster, "v", region, scale)
		require.NoError(t, err)
		assert.InDelta(t, 7.5, v, 1e-9, "scale %v", scale)
	}
}

func TestReduceRegionUsesPixelCenters(t *testing.T) {
	grid := testGrid(4, 4)
	r := raster.New(grid, "v")
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			v := 0.0
			if x < 2 {
				v = 10
			}
			r.SetValue("v", x, y, v)
		}
	}
	// Region covering the left half of the grid only.
	region := orb.MultiPolygon{{{{0, 0}, {2, 0}, {2, 4}, {0, 4}, {0, 0}}}}
	v, err := ReduceRegion(r, "v", region, 1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
}

func TestReduceRegionNoValidPixels(t *testing.T) {
	grid := testGrid(3, 3)
	r := raster.New(grid, "v") // all NoData
	v, err := ReduceRegion(r, "v", fullRegion(grid), 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))

	// Region entirely off the grid.
	off := orb.MultiPolygon{{{{100, 100}, {101, 100}, {101, 101}, {100, 101}, {100, 100}}}}
	v, err = ReduceRegion(constantScene(grid, 1, time.Time{}, 0).Raster, "v", off, 1)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))
}

func TestByDayKeepsDistinctDatesApart(t *testing.T) {
	a := time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC)
	b := time.Date(2023, 6, 1, 23, 0, 0, 0, time.UTC)
	c := time.Date(2023, 6, 2, 1, 0, 0, 0, time.UTC)
	assert.Equal(t, ByDay(a), ByDay(b))
	assert.NotEqual(t, ByDay(a), ByDay(c))
}
