package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
)

func TestPassingScenesAppliesCloudLimit(t *testing.T) {
	grid := raster.Grid{Width: 1, Height: 1, OriginY: 1, PixelSize: 1, EPSG: 4326}
	scenes := []raster.Scene{
		{Raster: raster.New(grid, "v"), CloudCover: 0.05},
		{Raster: raster.New(grid, "v"), CloudCover: 0.2},
		{Raster: raster.New(grid, "v"), CloudCover: 0.9},
	}

	passing := passingScenes(scenes, 0.2)
	assert.Len(t, passing, 2, "the limit is inclusive")
	assert.Empty(t, passingScenes(scenes, 0.01))
}
