package raster

import (
	"math"

	"github.com/paulmach/orb"
)

// Grid describes the spatial footprint of a raster: a north-up regular grid
// with square pixels. OriginX/OriginY are the world coordinates of the
// top-left corner of the top-left pixel.
type Grid struct {
	Width     int
	Height    int
	OriginX   float64
	OriginY   float64
	PixelSize float64
	EPSG      int
}

func (g Grid) Equal(other Grid) bool {
	return g == other
}

// PixelCenter returns the world coordinates of the center of pixel (x, y).
func (g Grid) PixelCenter(x, y int) (float64, float64) {
	wx := g.OriginX + (float64(x)+0.5)*g.PixelSize
	wy := g.OriginY - (float64(y)+0.5)*g.PixelSize
	return wx, wy
}

// PixelCorner returns the world coordinates of the top-left corner of pixel
// (x, y). x may equal Width and y may equal Height to address the far edges.
func (g Grid) PixelCorner(x, y int) (float64, float64) {
	wx := g.OriginX + float64(x)*g.PixelSize
	wy := g.OriginY - float64(y)*g.PixelSize
	return wx, wy
}

// WorldToPixel maps world coordinates to the pixel containing them. The third
// return value is false when the point falls outside the grid.
func (g Grid) WorldToPixel(wx, wy float64) (int, int, bool) {
	// Floor before converting: int() truncates toward zero, which would fold
	// points just west or north of the extent onto pixel 0.
	x := int(math.Floor((wx - g.OriginX) / g.PixelSize))
	y := int(math.Floor((g.OriginY - wy) / g.PixelSize))
	if x < 0 || x >= g.Width || y < 0 || y >= g.Height {
		return 0, 0, false
	}
	return x, y, true
}

func (g Grid) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{g.OriginX, g.OriginY - float64(g.Height)*g.PixelSize},
		Max: orb.Point{g.OriginX + float64(g.Width)*g.PixelSize, g.OriginY},
	}
}

// GeoTransform returns the affine transform in the GDAL six-element layout.
func (g Grid) GeoTransform() [6]float64 {
	return [6]float64{g.OriginX, g.PixelSize, 0, g.OriginY, 0, -g.PixelSize}
}
