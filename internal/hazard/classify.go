package hazard

import (
	"fmt"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
)

// ClassBand is the band name of rasters produced by Classify.
const ClassBand = "class"

// Classify applies a trained model pixel-wise over a raster, using the
// raster's bands in order as the feature vector. Pixels with any NoData band
// classify to NoData. Rows are classified in parallel; the model is
// read-only during inference.
func Classify(model *Forest, r *raster.Raster) (*raster.Raster, error) {
	bands := r.Bands()
	if len(bands) != model.features {
		return nil, fmt.Errorf("raster has %d bands, model expects %d features", len(bands), model.features)
	}
	buffers := make([][]float64, len(bands))
	for i, band := range bands {
		buffers[i], _ = r.Band(band)
	}

	out := raster.New(r.Grid, ClassBand)
	outBuf, _ := out.Band(ClassBand)
	width := r.Grid.Width

	raster.EachRow(r.Grid.Height, func(y int) {
		features := make([]float64, len(bands))
		for x := 0; x < width; x++ {
			p := y*width + x
			valid := true
			for i := range buffers {
				v := buffers[i][p]
				if raster.IsNoData(v) {
					valid = false
					break
				}
				features[i] = v
			}
			if !valid {
				outBuf[p] = raster.NoData
				continue
			}
			label, err := model.Predict(features)
			if err != nil {
				outBuf[p] = raster.NoData
				continue
			}
			outBuf[p] = float64(label)
		}
	})
	return out, nil
}
