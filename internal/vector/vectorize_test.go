package vector

import (
	"math"
	"testing"

	"github.com/paulmach/orb/planar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/spectral"
)

func maskFromRows(rows [][]int) *raster.Raster {
	height := len(rows)
	width := len(rows[0])
	grid := raster.Grid{Width: width, Height: height, OriginY: float64(height), PixelSize: 1, EPSG: 4326}
	mask := raster.New(grid, spectral.MaskBand)
	for y, row := range rows {
		for x, v := range row {
			mask.SetValue(spectral.MaskBand, x, y, float64(v))
		}
	}
	return mask
}

func TestVectorizeEmptyMask(t *testing.T) {
	polys, err := Vectorize(maskFromRows([][]int{
		{0, 0, 0},
		{0, 0, 0},
	}))
	require.NoError(t, err)
	assert.Empty(t, polys)
}

func TestVectorizeFullMaskIsOnePolygonOverTheGrid(t *testing.T) {
	polys, err := Vectorize(maskFromRows([][]int{
		{1, 1, 1, 1},
		{1, 1, 1, 1},
		{1, 1, 1, 1},
	}))
	require.NoError(t, err)
	require.Len(t, polys, 1)
	require.Len(t, polys[0], 1)
	assert.InDelta(t, 12.0, math.Abs(planar.Area(polys[0])), 1e-9)

	bound := polys[0].Bound()
	assert.Equal(t, 0.0, bound.Min[0])
	assert.Equal(t, 0.0, bound.Min[1])
	assert.Equal(t, 4.0, bound.Max[0])
	assert.Equal(t, 3.0, bound.Max[1])
}

func TestVectorizeComponentCountMatchesConnectivity(t *testing.T) {
	// Two blobs separated by more than one pixel in every direction.
	polys, err := Vectorize(maskFromRows([][]int{
		{1, 1, 0, 0, 0},
		{1, 1, 0, 0, 0},
		{0, 0, 0, 1, 1},
		{0, 0, 0, 1, 1},
	}))
	require.NoError(t, err)
	assert.Len(t, polys, 2)
}

func TestVectorizeCheckerboardIsOneComponentUnderEightConnectivity(t *testing.T) {
	// Under 4-connectivity every set square would be its own singleton
	// component; diagonal adjacency fuses them all into one.
	rows := make([][]int, 4)
	for y := range rows {
		rows[y] = make([]int, 4)
		for x := range rows[y] {
			if (x+y)%2 == 0 {
				rows[y][x] = 1
			}
		}
	}
	polys, err := Vectorize(maskFromRows(rows))
	require.NoError(t, err)
	assert.Len(t, polys, 1)
}

func TestVectorizeIsDeterministic(t *testing.T) {
	rows := [][]int{
		{1, 0, 1, 1},
		{0, 1, 0, 0},
		{1, 0, 0, 1},
	}
	first, err := Vectorize(maskFromRows(rows))
	require.NoError(t, err)
	second, err := Vectorize(maskFromRows(rows))
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestWaterDetectionEndToEnd(t *testing.T) {
	// 4x4 scene whose top-left 2x2 block is water: the index exceeds 0.3
	// there and nowhere else.
	grid := raster.Grid{Width: 4, Height: 4, OriginY: 4, PixelSize: 1, EPSG: 4326}
	scene := raster.New(grid, "B03", "B08")
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 && y < 2 {
				scene.SetValue("B03", x, y, 8)
				scene.SetValue("B08", x, y, 2)
			} else {
				scene.SetValue("B03", x, y, 5)
				scene.SetValue("B08", x, y, 5)
			}
		}
	}

	index, err := spectral.NormalizedDifference(scene, "B03", "B08")
	require.NoError(t, err)
	mask, err := spectral.Threshold(index, 0.3)
	require.NoError(t, err)
	polys, err := Vectorize(mask)
	require.NoError(t, err)

	require.Len(t, polys, 1)
	assert.InDelta(t, 4.0, math.Abs(planar.Area(polys[0])), 1e-9)
	bound := polys[0].Bound()
	assert.Equal(t, 0.0, bound.Min[0])
	assert.Equal(t, 2.0, bound.Min[1])
	assert.Equal(t, 2.0, bound.Max[0])
	assert.Equal(t, 4.0, bound.Max[1])
}
