package terrain

import (
	"fmt"
	"math"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
)

const (
	ElevationBand = "elevation"
	SlopeBand     = "slope"
	AspectBand    = "aspect"
	ThicknessBand = "thickness"
	VelocityBand  = "velocity"
)

// SlopeAspect derives slope and aspect rasters from an elevation raster using
// the Horn 3x3 finite-difference kernel. Slope is in degrees, clamped to
// [0, 90]. Aspect is the compass bearing of the downslope direction in
// degrees [0, 360); on flat pixels (slope == 0) aspect is NoData, which is
// the documented flat sentinel. Border pixels use an edge-replicated
// neighborhood.
func SlopeAspect(dem *raster.Raster) (*raster.Raster, *raster.Raster, error) {
	elev, err := dem.Band(ElevationBand)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to derive slope/aspect: %v", err)
	}

	width, height := dem.Grid.Width, dem.Grid.Height
	cell := dem.Grid.PixelSize
	slope := raster.New(dem.Grid, SlopeBand)
	aspect := raster.New(dem.Grid, AspectBand)
	slopeBuf, _ := slope.Band(SlopeBand)
	aspectBuf, _ := aspect.Band(AspectBand)

	at := func(x, y int) float64 {
		if x < 0 {
			x = 0
		} else if x >= width {
			x = width - 1
		}
		if y < 0 {
			y = 0
		} else if y >= height {
			y = height - 1
		}
		return elev[y*width+x]
	}

	raster.EachRow(height, func(y int) {
		for x := 0; x < width; x++ {
			a, b, c := at(x-1, y-1), at(x, y-1), at(x+1, y-1)
			d, f := at(x-1, y), at(x+1, y)
			g, h, i := at(x-1, y+1), at(x, y+1), at(x+1, y+1)

			p := y*width + x
			if anyNoData(a, b, c, d, f, g, h, i) {
				slopeBuf[p] = raster.NoData
				aspectBuf[p] = raster.NoData
				continue
			}

			dzdxEast := ((c + 2*f + i) - (a + 2*d + g)) / (8 * cell)
			dzdyNorth := ((a + 2*b + c) - (g + 2*h + i)) / (8 * cell)

			rise := math.Sqrt(dzdxEast*dzdxEast + dzdyNorth*dzdyNorth)
			deg := math.Atan(rise) * 180 / math.Pi
			if deg < 0 {
				deg = 0
			} else if deg > 90 {
				deg = 90
			}
			slopeBuf[p] = deg

			if deg == 0 {
				aspectBuf[p] = raster.NoData
				continue
			}
			// Downslope direction is the negated gradient; bearing measured
			// clockwise from north.
			bearing := math.Atan2(-dzdxEast, -dzdyNorth) * 180 / math.Pi
			aspectBuf[p] = math.Mod(bearing+360, 360)
		}
	})
	return slope, aspect, nil
}

// EstimateThicknessVelocity applies the fixed glacier proxy formulas:
// thickness = slope * snowlineElevation / 100 where the terrain sits at or
// above the snowline (NoData below it), and velocity = thickness *
// velocityFactor. These are approximate proxies for relative comparison, not
// physical models.
func EstimateThicknessVelocity(dem, slope *raster.Raster, snowlineElevation, velocityFactor float64) (*raster.Raster, *raster.Raster, error) {
	if err := dem.Align(slope); err != nil {
		return nil, nil, fmt.Errorf("failed to estimate thickness: %v", err)
	}
	elev, err := dem.Band(ElevationBand)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to estimate thickness: %v", err)
	}
	slopeBuf, err := slope.Band(SlopeBand)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to estimate thickness: %v", err)
	}

	thickness := raster.New(dem.Grid, ThicknessBand)
	velocity := raster.New(dem.Grid, VelocityBand)
	thicknessBuf, _ := thickness.Band(ThicknessBand)
	velocityBuf, _ := velocity.Band(VelocityBand)

	width := dem.Grid.Width
	raster.EachRow(dem.Grid.Height, func(y int) {
		for x := 0; x < width; x++ {
			p := y*width + x
			if raster.IsNoData(elev[p]) || raster.IsNoData(slopeBuf[p]) || elev[p] < snowlineElevation {
				thicknessBuf[p] = raster.NoData
				velocityBuf[p] = raster.NoData
				continue
			}
			t := slopeBuf[p] * snowlineElevation / 100
			thicknessBuf[p] = t
			velocityBuf[p] = t * velocityFactor
		}
	})
	return thickness, velocity, nil
}

func anyNoData(values ...float64) bool {
	for _, v := range values {
		if raster.IsNoData(v) {
			return true
		}
	}
	return false
}
