package spectral

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
)

func testGrid(width, height int) raster.Grid {
	return raster.Grid{Width: width, Height: height, OriginY: float64(height), PixelSize: 1, EPSG: 4326}
}

func TestNormalizedDifferenceRangeAndNoData(t *testing.T) {
	grid := testGrid(2, 2)
	r := raster.New(grid, "B03", "B08")
	r.SetValue("B03", 0, 0, 8)
	r.SetValue("B08", 0, 0, 2)
	r.SetValue("B03", 1, 0, 2)
	r.SetValue("B08", 1, 0, 8)
	r.SetValue("B03", 0, 1, 5)
	r.SetValue("B08", 0, 1, -5) // zero denominator
	r.SetValue("B03", 1, 1, 0)
	r.SetValue("B08", 1, 1, 0) // zero denominator again

	index, err := NormalizedDifference(r, "B03", "B08")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, index.Value(IndexBand, 0, 0), 1e-9)
	assert.InDelta(t, -0.6, index.Value(IndexBand, 1, 0), 1e-9)
	assert.True(t, raster.IsNoData(index.Value(IndexBand, 0, 1)))
	assert.True(t, raster.IsNoData(index.Value(IndexBand, 1, 1)))

	buf, _ := index.Band(IndexBand)
	for _, v := range buf {
		if !raster.IsNoData(v) {
			assert.GreaterOrEqual(t, v, -1.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestNormalizedDifferencePropagatesInputNoData(t *testing.T) {
	r := raster.New(testGrid(1, 1), "a", "b")
	r.SetValue("a", 0, 0, 3)
	// band b stays NoData

	index, err := NormalizedDifference(r, "a", "b")
	require.NoError(t, err)
	assert.True(t, raster.IsNoData(index.Value(IndexBand, 0, 0)))
}

func TestNormalizedDifferenceUnknownBand(t *testing.T) {
	r := raster.New(testGrid(1, 1), "a")
	_, err := NormalizedDifference(r, "a", "missing")
	require.Error(t, err)
}

func countSet(mask *raster.Raster) int {
	buf, _ := mask.Band(MaskBand)
	n := 0
	for _, v := range buf {
		if v == 1 {
			n++
		}
	}
	return n
}

func TestThresholdIsMonotonicAndStrict(t *testing.T) {
	grid := testGrid(3, 1)
	index := raster.New(grid, IndexBand)
	index.SetValue(IndexBand, 0, 0, 0.2)
	index.SetValue(IndexBand, 1, 0, 0.5)
	// pixel (2,0) stays NoData and must never be set

	prev := grid.Width * grid.Height
	for _, threshold := range []float64{-1, 0.1, 0.2, 0.4, 0.5, 0.9} {
		mask, err := Threshold(index, threshold)
		require.NoError(t, err)
		set := countSet(mask)
		assert.LessOrEqual(t, set, prev, "raising the threshold grew the mask")
		assert.True(t, mask.Value(MaskBand, 2, 0) == 0, "no-data pixel leaked into the mask")
		prev = set
	}

	// Strict comparison: a pixel exactly at the threshold is not set.
	mask, err := Threshold(index, 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.0, mask.Value(MaskBand, 1, 0))
}
