package temporal

import (
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/utils"
)

// PeriodFunc maps a scene timestamp to its aggregation period key.
type PeriodFunc func(t time.Time) int

// ByMonth buckets timestamps by calendar month (1..12), folding years
// together into a monthly climatology.
func ByMonth(t time.Time) int {
	return int(t.Month())
}

// ByYear buckets timestamps by calendar year.
func ByYear(t time.Time) int {
	return t.Year()
}

// ByDay buckets timestamps by day-of-era, keeping one period per distinct
// observation date.
func ByDay(t time.Time) int {
	return int(t.Unix() / 86400)
}

// AggregateByPeriod reduces a collection into one composite per period,
// ordered by period key. Scenes whose cloud-cover fraction exceeds maxCloud
// are excluded before reduction. A period present in the key range but with
// no passing scenes yields an empty composite (nil raster); it is reported,
// never dropped and never an error. Period composites are computed
// concurrently; output order is by period key, not completion order.
func AggregateByPeriod(coll *raster.Collection, periodFn PeriodFunc, reducer raster.Reducer, maxCloud float64) ([]raster.Composite, error) {
	groups := make(map[int][]raster.Scene)
	for _, s := range coll.Scenes {
		key := periodFn(s.Timestamp)
		if s.CloudCover > maxCloud {
			// Cloud-filtered out, but keep the period key so the gap stays
			// visible downstream.
			if _, ok := groups[key]; !ok {
				groups[key] = nil
			}
			continue
		}
		groups[key] = append(groups[key], s)
	}

	// A period for which the archive returned nothing at all has no key yet.
	// Fill the observed key range so gap periods surface as empty composites
	// instead of vanishing from the series.
	if len(groups) > 0 {
		keys := utils.SortedKeys(groups)
		for key := keys[0]; key <= keys[len(keys)-1]; key++ {
			if _, ok := groups[key]; !ok {
				groups[key] = nil
			}
		}
	}

	keys := utils.SortedKeys(groups)
	composites := make([]raster.Composite, len(keys))
	var g errgroup.Group
	for i, key := range keys {
		i, key := i, key
		g.Go(func() error {
			comp, err := raster.Reduce(groups[key], reducer)
			if err != nil {
				return fmt.Errorf("failed to composite period %d: %v", key, err)
			}
			comp.Period = key
			composites[i] = *comp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return composites, nil
}
