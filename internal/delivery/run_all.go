package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/notification"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/properties"
)

// RunAll executes every indicator pipeline for one watershed in sequence and
// reports the outcome to the configured webhook. The stages are independent
// layers; a failure stops the run so partial results are never mistaken for a
// complete set.
func (p *Pipeline) RunAll(ctx context.Context, from, to time.Time, yearFrom, yearTo int, rockfallFile, glofFile string) error {
	stages := []struct {
		name string
		run  func() error
	}{
		{"water mapping", func() error {
			return p.RunWaterMapping(ctx, from, to, properties.MaxCloudCover(), properties.WaterIndexThreshold())
		}},
		{"climatology", func() error {
			return p.RunClimatology(ctx, yearFrom, yearTo)
		}},
		{"hazard classification", func() error {
			return p.RunHazards(ctx, rockfallFile, glofFile, from, to)
		}},
	}

	bar := progressbar.Default(int64(len(stages)), "Running watershed pipelines")
	for _, stage := range stages {
		if err := stage.run(); err != nil {
			notification.SendDiscordErrorNotification(fmt.Sprintf("run %s: %s failed: %v", p.RunID, stage.name, err))
			return fmt.Errorf("%s failed: %v", stage.name, err)
		}
		bar.Add(1)
	}

	notification.SendDiscordSuccessNotification(fmt.Sprintf("run %s finished: water, terrain, climatology and hazard layers written", p.RunID))
	return nil
}
