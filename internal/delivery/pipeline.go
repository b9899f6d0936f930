package delivery

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/paulmach/orb"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/archive"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/properties"
)

// Pipeline wires the study-area inputs and archive sources for one watershed
// run. Every output file is stamped with the run ID so runs never overwrite
// each other.
type Pipeline struct {
	Boundary orb.MultiPolygon
	Glaciers orb.MultiPolygon

	Optical       archive.Source
	Elevation     archive.Source
	Precipitation archive.Source
	Temperature   archive.Source

	RunID string
}

func NewPipeline(boundary, glaciers orb.MultiPolygon, optical, elevation, precipitation, temperature archive.Source) *Pipeline {
	return &Pipeline{
		Boundary:      boundary,
		Glaciers:      glaciers,
		Optical:       optical,
		Elevation:     elevation,
		Precipitation: precipitation,
		Temperature:   temperature,
		RunID:         uuid.New().String()[:8],
	}
}

// outputPath returns the result path for a named artifact, creating the
// result directory on first use.
func (p *Pipeline) outputPath(name string) (string, error) {
	dir := filepath.Join(properties.RootPath(), "data", "result")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create result directory: %v", err)
	}
	return filepath.Join(dir, fmt.Sprintf("%s_%s", p.RunID, name)), nil
}
