package archive

import (
	"context"
	"time"

	"github.com/paulmach/orb"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
)

// Source is the remote-archive boundary: it supplies time-stamped multi-band
// scenes for a bounding geometry. Implementations may fail per scene; the
// returned collection is not guaranteed gap-free or temporally uniform, and
// callers must treat missing scenes as missing-data events rather than
// pipeline failures.
type Source interface {
	FetchCollection(ctx context.Context, bands []string, region orb.MultiPolygon, from, to time.Time, maxCloud float64) (*raster.Collection, error)
}
