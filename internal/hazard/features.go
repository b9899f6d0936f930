package hazard

import (
	"fmt"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
)

// TrainingPoint is one hand-curated labeled location. Training sets are data
// injected by the caller, never constants of this package.
type TrainingPoint struct {
	Longitude float64 `csv:"longitude"`
	Latitude  float64 `csv:"latitude"`
	Label     int     `csv:"label"`
}

// Sample pairs a feature vector, the band values at one pixel, with a binary
// class label.
type Sample struct {
	Features []float64
	Label    int
}

// ExtractFeatures samples the raster at each labeled point using the nearest
// pixel (no interpolation) and pairs the band vector with the point's label.
// Points outside the raster extent, or landing on a pixel with a NoData band,
// are dropped; the dropped count is returned so callers can warn. Dropping is
// a policy, not an error.
func ExtractFeatures(r *raster.Raster, points []TrainingPoint) ([]Sample, int, error) {
	if len(points) == 0 {
		return nil, 0, fmt.Errorf("no training points supplied")
	}

	bands := r.Bands()
	samples := make([]Sample, 0, len(points))
	dropped := 0
	for _, pt := range points {
		x, y, ok := r.Grid.WorldToPixel(pt.Longitude, pt.Latitude)
		if !ok {
			dropped++
			continue
		}
		features := make([]float64, len(bands))
		valid := true
		for i, band := range bands {
			v := r.Value(band, x, y)
			if raster.IsNoData(v) {
				valid = false
				break
			}
			features[i] = v
		}
		if !valid {
			dropped++
			continue
		}
		samples = append(samples, Sample{Features: features, Label: pt.Label})
	}
	return samples, dropped, nil
}
