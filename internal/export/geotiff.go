package export

import (
	"fmt"
	"strings"
	"time"

	"github.com/airbusgeo/godal"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
)

// noDataValue is what NoData pixels become on disk; NaN does not survive
// every downstream GIS tool.
const noDataValue = -9999

// WriteGeoTIFF serializes a raster to a GeoTIFF carrying its grid transform,
// spatial reference and, when provided, the source timestamps it was
// composited from as file metadata.
func WriteGeoTIFF(path string, r *raster.Raster, sourceTimes []time.Time) error {
	bands := r.Bands()
	ds, err := godal.Create(godal.GTiff, path, len(bands), godal.Float64, r.Grid.Width, r.Grid.Height)
	if err != nil {
		return fmt.Errorf("failed to create TIFF file: %v", err)
	}
	defer ds.Close()

	if err := ds.SetGeoTransform(r.Grid.GeoTransform()); err != nil {
		return fmt.Errorf("failed to set GeoTransform: %v", err)
	}
	sr, err := godal.NewSpatialRefFromEPSG(r.Grid.EPSG)
	if err == nil {
		defer sr.Close()
		if err := ds.SetSpatialRef(sr); err != nil {
			return fmt.Errorf("failed to set spatial reference: %v", err)
		}
	}

	fileBands := ds.Bands()
	for i, name := range bands {
		buf, _ := r.Band(name)
		data := make([]float64, len(buf))
		for p, v := range buf {
			if raster.IsNoData(v) {
				data[p] = noDataValue
			} else {
				data[p] = v
			}
		}
		if err := fileBands[i].SetNoData(noDataValue); err != nil {
			return fmt.Errorf("failed to set no-data value: %v", err)
		}
		if err := fileBands[i].Write(0, 0, data, r.Grid.Width, r.Grid.Height); err != nil {
			return fmt.Errorf("failed to write raster data: %v", err)
		}
	}

	if err := ds.SetMetadata("BAND_SCHEMA", strings.Join(bands, ",")); err != nil {
		return fmt.Errorf("failed to set band schema metadata: %v", err)
	}

	if len(sourceTimes) > 0 {
		stamps := make([]string, len(sourceTimes))
		for i, t := range sourceTimes {
			stamps[i] = t.Format(time.RFC3339)
		}
		if err := ds.SetMetadata("SOURCE_TIMES", strings.Join(stamps, ",")); err != nil {
			return fmt.Errorf("failed to set provenance metadata: %v", err)
		}
	}
	return nil
}
