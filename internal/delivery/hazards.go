package delivery

import (
	"context"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/export"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/hazard"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/properties"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/spectral"
)

const (
	// forestSize is the ensemble size for both hazard models.
	forestSize = 100
	// trainingSeed fixes the forest construction so two runs over the same
	// inputs train the same model.
	trainingSeed = 42
)

// LoadTrainingPoints reads a curated labeled-point file from the
// training_input directory. Training sets are data, supplied per problem.
func LoadTrainingPoints(fileName string) ([]hazard.TrainingPoint, error) {
	path := filepath.Join(properties.RootPath(), "data", "training_input", fileName)
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open training file: %v", err)
	}
	defer file.Close()

	var points []hazard.TrainingPoint
	if err := gocsv.UnmarshalFile(file, &points); err != nil {
		return nil, fmt.Errorf("failed to parse training file %s: %v", path, err)
	}
	return points, nil
}

// RunHazards trains and applies both hazard classifiers. Rockfall
// susceptibility is predicted from terrain features (elevation, slope,
// aspect); GLOF risk additionally sees the water index, since proximity of
// ponded water to steep ice is what distinguishes a dangerous basin. The two
// problems share mechanics and differ only in training data and feature
// stack.
func (p *Pipeline) RunHazards(ctx context.Context, rockfallFile, glofFile string, from, to time.Time) error {
	dem, slope, aspect, err := p.RunTerrain(ctx)
	if err != nil {
		return err
	}

	terrainStack, err := raster.Stack(dem, slope, aspect)
	if err != nil {
		return err
	}

	rockfallPoints, err := LoadTrainingPoints(rockfallFile)
	if err != nil {
		return err
	}
	if err := p.classifyHazard("rockfall", terrainStack, rockfallPoints); err != nil {
		return err
	}

	coll, err := p.Optical.FetchCollection(ctx, waterBands, p.Boundary, from, to, properties.MaxCloudCover())
	if err != nil {
		return fmt.Errorf("failed to fetch optical collection: %v", err)
	}
	composite, err := raster.Reduce(passingScenes(coll.Scenes, properties.MaxCloudCover()), raster.Median)
	if err != nil {
		return err
	}
	if composite.Empty() {
		return fmt.Errorf("no optical scenes for the GLOF feature stack")
	}
	index, err := spectral.NormalizedDifference(composite.Raster, "B03", "B08")
	if err != nil {
		return err
	}
	if err := index.Align(terrainStack); err != nil {
		return fmt.Errorf("optical and terrain stacks are not aligned: %v", err)
	}
	glofStack, err := raster.Stack(terrainStack, index)
	if err != nil {
		return err
	}

	glofPoints, err := LoadTrainingPoints(glofFile)
	if err != nil {
		return err
	}
	return p.classifyHazard("glof", glofStack, glofPoints)
}

func (p *Pipeline) classifyHazard(name string, features *raster.Raster, points []hazard.TrainingPoint) error {
	samples, dropped, err := hazard.ExtractFeatures(features, points)
	if err != nil {
		return fmt.Errorf("failed to extract %s features: %v", name, err)
	}
	if dropped > 0 {
		fmt.Printf("Warning: dropped %d %s training points outside the raster extent\n", dropped, name)
	}

	model, err := hazard.Train(samples, forestSize, trainingSeed)
	if err != nil {
		return fmt.Errorf("failed to train %s model: %v", name, err)
	}
	classified, err := hazard.Classify(model, features)
	if err != nil {
		return fmt.Errorf("failed to classify %s: %v", name, err)
	}

	if err := p.exportRaster(name+"_classification.tiff", classified, nil); err != nil {
		return err
	}
	pngPath, err := p.outputPath(name + "_classification.png")
	if err != nil {
		return err
	}
	return export.RenderClassPNG(pngPath, classified, hazard.ClassBand, map[int]color.RGBA{
		0: {R: 34, G: 139, B: 34, A: 255},
		1: {R: 220, G: 20, B: 60, A: 255},
	})
}
