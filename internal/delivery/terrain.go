package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/properties"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/terrain"
)

// RunTerrain derives slope and aspect from the watershed DEM and the glacier
// thickness/velocity proxies above the configured snowline. The terrain
// rasters are returned so the hazard pipeline can reuse them without a second
// fetch.
func (p *Pipeline) RunTerrain(ctx context.Context) (*raster.Raster, *raster.Raster, *raster.Raster, error) {
	fmt.Println("Deriving terrain layers")

	dem, err := p.fetchDEM(ctx)
	if err != nil {
		return nil, nil, nil, err
	}

	slope, aspect, err := terrain.SlopeAspect(dem)
	if err != nil {
		return nil, nil, nil, err
	}
	thickness, velocity, err := terrain.EstimateThicknessVelocity(
		dem, slope, properties.SnowlineElevation(), properties.VelocityFactor())
	if err != nil {
		return nil, nil, nil, err
	}

	for _, layer := range []struct {
		name string
		r    *raster.Raster
	}{
		{"slope.tiff", slope},
		{"aspect.tiff", aspect},
		{"thickness.tiff", thickness},
		{"velocity.tiff", velocity},
	} {
		if err := p.exportRaster(layer.name, layer.r, nil); err != nil {
			return nil, nil, nil, err
		}
	}
	return dem, slope, aspect, nil
}

// fetchDEM pulls a single elevation scene covering the whole boundary. The
// DEM archive is static, so the date range is a fixed wide window.
func (p *Pipeline) fetchDEM(ctx context.Context) (*raster.Raster, error) {
	from := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	coll, err := p.Elevation.FetchCollection(ctx, []string{terrain.ElevationBand}, p.Boundary, from, to, 1)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch DEM: %v", err)
	}
	if len(coll.Scenes) == 0 {
		return nil, fmt.Errorf("elevation archive returned no scenes")
	}
	return coll.Scenes[0].Raster, nil
}
