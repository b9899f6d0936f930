package raster

import "fmt"

// Stack combines the bands of several aligned rasters into one multi-band
// raster, sharing the underlying buffers. Band names must not collide.
func Stack(rasters ...*Raster) (*Raster, error) {
	if len(rasters) == 0 {
		return nil, fmt.Errorf("cannot stack zero rasters")
	}
	first := rasters[0]
	out := &Raster{Grid: first.Grid, bands: make(map[string][]float64)}
	for _, r := range rasters {
		if err := first.Align(r); err != nil {
			return nil, fmt.Errorf("cannot stack: %v", err)
		}
		for _, band := range r.order {
			if _, exists := out.bands[band]; exists {
				return nil, fmt.Errorf("cannot stack: duplicate band %q", band)
			}
			buf, _ := r.Band(band)
			out.bands[band] = buf
			out.order = append(out.order, band)
		}
	}
	return out, nil
}
