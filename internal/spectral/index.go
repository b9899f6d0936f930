package spectral

import (
	"fmt"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
)

// IndexBand is the band name carried by rasters produced by
// NormalizedDifference.
const IndexBand = "index"

// MaskBand is the band name carried by rasters produced by Threshold.
const MaskBand = "mask"

// NormalizedDifference computes (a-b)/(a+b) per pixel between two bands of
// the same raster. The result is NoData where the denominator is zero or
// where either input is NoData; everywhere else it lies in [-1, 1].
func NormalizedDifference(r *raster.Raster, bandA, bandB string) (*raster.Raster, error) {
	bufA, err := r.Band(bandA)
	if err != nil {
		return nil, fmt.Errorf("failed to compute index: %v", err)
	}
	bufB, err := r.Band(bandB)
	if err != nil {
		return nil, fmt.Errorf("failed to compute index: %v", err)
	}

	out := raster.New(r.Grid, IndexBand)
	outBuf, _ := out.Band(IndexBand)
	width := r.Grid.Width
	raster.EachRow(r.Grid.Height, func(y int) {
		for x := 0; x < width; x++ {
			p := y*width + x
			a, b := bufA[p], bufB[p]
			if raster.IsNoData(a) || raster.IsNoData(b) || a+b == 0 {
				outBuf[p] = raster.NoData
				continue
			}
			outBuf[p] = (a - b) / (a + b)
		}
	})
	return out, nil
}

// Threshold turns an index raster into a 0/1 mask: a pixel is set iff its
// index value is strictly greater than t. NoData pixels map to 0 — they are
// deliberately excluded from detection rather than carried as unknowns.
func Threshold(index *raster.Raster, t float64) (*raster.Raster, error) {
	buf, err := index.Band(IndexBand)
	if err != nil {
		return nil, fmt.Errorf("failed to threshold: %v", err)
	}

	out := raster.New(index.Grid, MaskBand)
	outBuf, _ := out.Band(MaskBand)
	width := index.Grid.Width
	raster.EachRow(index.Grid.Height, func(y int) {
		for x := 0; x < width; x++ {
			p := y*width + x
			if !raster.IsNoData(buf[p]) && buf[p] > t {
				outBuf[p] = 1
			} else {
				outBuf[p] = 0
			}
		}
	})
	return out, nil
}
