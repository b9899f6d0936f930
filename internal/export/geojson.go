package export

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// WritePolygons serializes a polygon set to a GeoJSON FeatureCollection, one
// feature per polygon, numbered in vectorization order.
func WritePolygons(path string, polygons []orb.Polygon, layer string) error {
	fc := geojson.NewFeatureCollection()
	for i, poly := range polygons {
		feature := geojson.NewFeature(poly)
		feature.Properties["layer"] = layer
		feature.Properties["id"] = i + 1
		fc.Append(feature)
	}

	data, err := fc.MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode GeoJSON: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write GeoJSON file: %v", err)
	}
	return nil
}
