package export

import (
	"fmt"
	"image/color"

	"github.com/fogleman/gg"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
)

// RenderBandPNG renders one band as a grayscale PNG, stretching the valid
// value range to 0-255. NoData pixels render black. Quick-look output only;
// the GeoTIFF is the authoritative raster.
func RenderBandPNG(path string, r *raster.Raster, band string) error {
	buf, err := r.Band(band)
	if err != nil {
		return fmt.Errorf("failed to render band: %v", err)
	}

	min, max := rangeOf(buf)
	dc := gg.NewContext(r.Grid.Width, r.Grid.Height)
	for y := 0; y < r.Grid.Height; y++ {
		for x := 0; x < r.Grid.Width; x++ {
			v := buf[y*r.Grid.Width+x]
			if raster.IsNoData(v) {
				dc.SetRGB(0, 0, 0)
			} else {
				gray := 0.0
				if max > min {
					gray = (v - min) / (max - min)
				}
				dc.SetRGB(gray, gray, gray)
			}
			dc.SetPixel(x, y)
		}
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save image: %v", err)
	}
	return nil
}

// RenderClassPNG renders a 0/1 classification or mask band with a color per
// class over a dark background.
func RenderClassPNG(path string, r *raster.Raster, band string, colors map[int]color.RGBA) error {
	buf, err := r.Band(band)
	if err != nil {
		return fmt.Errorf("failed to render classification: %v", err)
	}

	dc := gg.NewContext(r.Grid.Width, r.Grid.Height)
	for y := 0; y < r.Grid.Height; y++ {
		for x := 0; x < r.Grid.Width; x++ {
			v := buf[y*r.Grid.Width+x]
			if raster.IsNoData(v) {
				dc.SetRGB(0.1, 0.1, 0.1)
			} else if c, ok := colors[int(v)]; ok {
				dc.SetRGBA255(int(c.R), int(c.G), int(c.B), int(c.A))
			} else {
				dc.SetRGB(0.1, 0.1, 0.1)
			}
			dc.SetPixel(x, y)
		}
	}
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("failed to save image: %v", err)
	}
	return nil
}

func rangeOf(buf []float64) (float64, float64) {
	min, max := 0.0, 0.0
	first := true
	for _, v := range buf {
		if raster.IsNoData(v) {
			continue
		}
		if first {
			min, max = v, v
			first = false
			continue
		}
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	return min, max
}
