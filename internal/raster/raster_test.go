package raster

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid(width, height int) Grid {
	return Grid{Width: width, Height: height, OriginX: 0, OriginY: float64(height), PixelSize: 1, EPSG: 4326}
}

func constantRaster(grid Grid, band string, value float64) *Raster {
	r := New(grid, band)
	buf, _ := r.Band(band)
	for i := range buf {
		buf[i] = value
	}
	return r
}

func TestAlignRejectsMismatchedGrids(t *testing.T) {
	a := New(testGrid(4, 4), "b")
	b := New(testGrid(4, 5), "b")
	require.Error(t, a.Align(b))
	require.NoError(t, a.Align(New(testGrid(4, 4), "other")))
}

func TestWorldToPixelRoundTrip(t *testing.T) {
	grid := testGrid(10, 8)
	for _, tc := range [][2]int{{0, 0}, {9, 7}, {3, 5}} {
		wx, wy := grid.PixelCenter(tc[0], tc[1])
		x, y, ok := grid.WorldToPixel(wx, wy)
		require.True(t, ok)
		assert.Equal(t, tc[0], x)
		assert.Equal(t, tc[1], y)
	}
	_, _, ok := grid.WorldToPixel(-1, 4)
	assert.False(t, ok)
}

func TestWorldToPixelRejectsPointsJustOutsideExtent(t *testing.T) {
	grid := testGrid(4, 4)

	// Fractions of a pixel west or north of the extent must not truncate
	// onto row/column zero.
	_, _, ok := grid.WorldToPixel(-0.5, 2.5)
	assert.False(t, ok, "point west of extent reported inside")
	_, _, ok = grid.WorldToPixel(2.5, 4.5)
	assert.False(t, ok, "point north of extent reported inside")

	x, y, ok := grid.WorldToPixel(0.5, 3.5)
	require.True(t, ok)
	assert.Equal(t, 0, x)
	assert.Equal(t, 0, y)
}

func TestReduceMeanSkipsNoData(t *testing.T) {
	grid := testGrid(2, 1)
	a := constantRaster(grid, "v", 2)
	b := constantRaster(grid, "v", 4)
	c := New(grid, "v") // all NoData

	comp, err := Reduce([]Scene{
		{Raster: a, Timestamp: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{Raster: b, Timestamp: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)},
		{Raster: c, Timestamp: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
	}, Mean)
	require.NoError(t, err)
	require.False(t, comp.Empty())
	assert.Equal(t, 3.0, comp.Raster.Value("v", 0, 0))
	assert.Len(t, comp.SourceTimes, 3)
	assert.Equal(t, "mean", comp.Reducer)
}

func TestReduceMedianAllNoDataPixelStaysNoData(t *testing.T) {
	grid := testGrid(1, 1)
	comp, err := Reduce([]Scene{
		{Raster: New(grid, "v")},
		{Raster: New(grid, "v")},
	}, Median)
	require.NoError(t, err)
	assert.True(t, IsNoData(comp.Raster.Value("v", 0, 0)))
}

func TestReduceEmptySceneSetYieldsEmptyComposite(t *testing.T) {
	comp, err := Reduce(nil, Mean)
	require.NoError(t, err)
	assert.True(t, comp.Empty())
}

func TestReduceRejectsMisalignedScenes(t *testing.T) {
	_, err := Reduce([]Scene{
		{Raster: New(testGrid(2, 2), "v")},
		{Raster: New(testGrid(3, 2), "v")},
	}, Mean)
	require.Error(t, err)
}

func TestMedianReducerOddAndEvenStacks(t *testing.T) {
	assert.Equal(t, 2.0, Median.Fn([]float64{3, 1, 2}))
	assert.Equal(t, 2.0, Median.Fn([]float64{1, 3, math.NaN(), 2}))
}

func TestStackCombinesAlignedBands(t *testing.T) {
	grid := testGrid(2, 2)
	a := constantRaster(grid, "slope", 10)
	b := constantRaster(grid, "elevation", 4800)

	stacked, err := Stack(a, b)
	require.NoError(t, err)
	assert.Equal(t, []string{"slope", "elevation"}, stacked.Bands())
	assert.Equal(t, 4800.0, stacked.Value("elevation", 1, 1))

	_, err = Stack(a, constantRaster(grid, "slope", 1))
	require.Error(t, err)
}
