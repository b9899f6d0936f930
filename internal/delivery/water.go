package delivery

import (
	"context"
	"fmt"
	"image/color"
	"time"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/export"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/spectral"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/vector"
)

// Optical bands used for surface-water detection: green and near-infrared
// for the NDWI-style index, plus the cloud flag for scene filtering.
var waterBands = []string{"B03", "B08", "CLD"}

// passingScenes keeps the scenes whose cloud-cover fraction is within the
// limit. Both optical composites go through this filter.
func passingScenes(scenes []raster.Scene, maxCloud float64) []raster.Scene {
	passing := make([]raster.Scene, 0, len(scenes))
	for _, s := range scenes {
		if s.CloudCover <= maxCloud {
			passing = append(passing, s)
		}
	}
	return passing
}

// RunWaterMapping builds a cloud-filtered median composite over the date
// range, computes the green/NIR normalized-difference water index, thresholds
// it into a water mask and vectorizes the mask into lake polygons.
func (p *Pipeline) RunWaterMapping(ctx context.Context, from, to time.Time, maxCloud, threshold float64) error {
	fmt.Printf("Water mapping from %s to %s\n", from.Format("2006-01-02"), to.Format("2006-01-02"))

	coll, err := p.Optical.FetchCollection(ctx, waterBands, p.Boundary, from, to, maxCloud)
	if err != nil {
		return fmt.Errorf("failed to fetch optical collection: %v", err)
	}
	if len(coll.Scenes) == 0 {
		return fmt.Errorf("no optical scenes available between %s and %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	composite, err := raster.Reduce(passingScenes(coll.Scenes, maxCloud), raster.Median)
	if err != nil {
		return fmt.Errorf("failed to build water composite: %v", err)
	}
	if composite.Empty() {
		return fmt.Errorf("every scene between %s and %s exceeded the cloud limit", from.Format("2006-01-02"), to.Format("2006-01-02"))
	}

	index, err := spectral.NormalizedDifference(composite.Raster, "B03", "B08")
	if err != nil {
		return err
	}
	mask, err := spectral.Threshold(index, threshold)
	if err != nil {
		return err
	}
	lakes, err := vector.Vectorize(mask)
	if err != nil {
		return err
	}
	fmt.Printf("Detected %d water bodies\n", len(lakes))

	if err := p.exportRaster("water_index.tiff", index, composite.SourceTimes); err != nil {
		return err
	}
	if err := p.exportRaster("water_mask.tiff", mask, composite.SourceTimes); err != nil {
		return err
	}
	indexPNG, err := p.outputPath("water_index.png")
	if err != nil {
		return err
	}
	if err := export.RenderBandPNG(indexPNG, index, spectral.IndexBand); err != nil {
		return err
	}
	maskPNG, err := p.outputPath("water_mask.png")
	if err != nil {
		return err
	}
	if err := export.RenderClassPNG(maskPNG, mask, spectral.MaskBand, map[int]color.RGBA{
		1: {R: 30, G: 144, B: 255, A: 255},
	}); err != nil {
		return err
	}
	lakesPath, err := p.outputPath("water_bodies.geojson")
	if err != nil {
		return err
	}
	return export.WritePolygons(lakesPath, lakes, "surface_water")
}

func (p *Pipeline) exportRaster(name string, r *raster.Raster, sourceTimes []time.Time) error {
	path, err := p.outputPath(name)
	if err != nil {
		return err
	}
	if err := export.WriteGeoTIFF(path, r, sourceTimes); err != nil {
		return err
	}
	fmt.Println("Raster written to", path)
	return nil
}
