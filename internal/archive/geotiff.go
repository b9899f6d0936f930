package archive

import (
	"fmt"

	"github.com/airbusgeo/godal"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
)

// ReadGeoTIFF loads a GeoTIFF into a raster, naming its bands after the
// given schema in file order. The file's no-data value, when set, maps to
// NoData.
func ReadGeoTIFF(path string, bandNames []string) (*raster.Raster, error) {
	ds, err := godal.Open(path, godal.ErrLogger(func(ec godal.ErrorCategory, code int, msg string) error {
		if ec == godal.CE_Warning {
			return nil
		}
		return fmt.Errorf("%s", msg)
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to open TIFF file: %v", err)
	}
	defer ds.Close()

	fileBands := ds.Bands()
	if len(fileBands) < len(bandNames) {
		return nil, fmt.Errorf("TIFF has %d bands, schema names %d", len(fileBands), len(bandNames))
	}

	geoTransform, err := ds.GeoTransform()
	if err != nil {
		return nil, fmt.Errorf("failed to get GeoTransform: %v", err)
	}
	width := ds.Structure().SizeX
	height := ds.Structure().SizeY

	// Scenes are requested and delivered in WGS84 (EPSG:4326); arbitrary CRS
	// handling is out of scope.
	grid := raster.Grid{
		Width:     width,
		Height:    height,
		OriginX:   geoTransform[0],
		OriginY:   geoTransform[3],
		PixelSize: geoTransform[1],
		EPSG:      4326,
	}

	out := raster.New(grid, bandNames...)
	for i, name := range bandNames {
		band := fileBands[i]
		data := make([]float64, width*height)
		if err := band.Read(0, 0, data, width, height); err != nil {
			return nil, fmt.Errorf("failed to read raster data: %v", err)
		}
		buf, _ := out.Band(name)
		noData, hasNoData := band.NoData()
		for p, v := range data {
			if hasNoData && v == noData {
				buf[p] = raster.NoData
				continue
			}
			buf[p] = v
		}
	}
	return out, nil
}
