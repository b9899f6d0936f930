package boundary

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/properties"
)

// Load reads a named study-area boundary from the geojsons directory and
// returns its geometry as a multipolygon. Boundary files are read-only vector
// inputs; one file per watershed, the feature name matching the file name.
func Load(name string) (orb.MultiPolygon, error) {
	return loadNamed(name, "")
}

// LoadFeature reads one named feature (for example a glacier extent) out of a
// boundary file that carries several.
func LoadFeature(file, feature string) (orb.MultiPolygon, error) {
	return loadNamed(file, feature)
}

func loadNamed(file, feature string) (orb.MultiPolygon, error) {
	path := filepath.Join(properties.RootPath(), "geojsons", file+".geojson")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read boundary file: %v", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse boundary file %s: %v", path, err)
	}

	for _, f := range fc.Features {
		if feature != "" {
			name, _ := f.Properties["name"].(string)
			if name != feature {
				continue
			}
		}
		switch geom := f.Geometry.(type) {
		case orb.Polygon:
			return orb.MultiPolygon{geom}, nil
		case orb.MultiPolygon:
			return geom, nil
		}
	}
	if feature != "" {
		return nil, fmt.Errorf("geometry not found for boundary %s and feature %s", file, feature)
	}
	return nil, fmt.Errorf("no polygon geometry in boundary file %s", path)
}

// List returns the boundary names available under the geojsons directory.
func List() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(properties.RootPath(), "geojsons"))
	if err != nil {
		return nil, fmt.Errorf("failed to list boundaries: %v", err)
	}
	var names []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".geojson" {
			names = append(names, e.Name()[:len(e.Name())-len(".geojson")])
		}
	}
	return names, nil
}
