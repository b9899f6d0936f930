package raster

import (
	"fmt"
	"math"
	"time"
)

// NoData marks an undefined pixel. It is distinct from a valid zero: a NaN
// pixel means "unmeasured", not "measured as zero".
var NoData = math.NaN()

func IsNoData(v float64) bool {
	return math.IsNaN(v)
}

// Raster is a multi-band grid of float64 values. Bands are flat row-major
// buffers. Rasters are built once by a producing step and treated as
// read-only afterwards; derived rasters get their own buffers.
type Raster struct {
	Grid  Grid
	order []string
	bands map[string][]float64
}

// New allocates a raster with the given band names, every pixel initialised
// to NoData.
func New(grid Grid, bandNames ...string) *Raster {
	bands := make(map[string][]float64, len(bandNames))
	for _, name := range bandNames {
		buf := make([]float64, grid.Width*grid.Height)
		for i := range buf {
			buf[i] = NoData
		}
		bands[name] = buf
	}
	return &Raster{Grid: grid, order: append([]string(nil), bandNames...), bands: bands}
}

func (r *Raster) Bands() []string {
	return append([]string(nil), r.order...)
}

func (r *Raster) HasBand(name string) bool {
	_, ok := r.bands[name]
	return ok
}

// Band returns the raw buffer of a band. The buffer must not be modified by
// consumers of a finished raster.
func (r *Raster) Band(name string) ([]float64, error) {
	buf, ok := r.bands[name]
	if !ok {
		return nil, fmt.Errorf("raster has no band %q", name)
	}
	return buf, nil
}

func (r *Raster) Value(band string, x, y int) float64 {
	buf, ok := r.bands[band]
	if !ok {
		return NoData
	}
	return buf[y*r.Grid.Width+x]
}

func (r *Raster) SetValue(band string, x, y int, v float64) {
	if buf, ok := r.bands[band]; ok {
		buf[y*r.Grid.Width+x] = v
	}
}

// Align verifies the precondition for per-pixel arithmetic between two
// rasters: identical grids. A mismatch is an input error, never corrected
// silently.
func (r *Raster) Align(other *Raster) error {
	if !r.Grid.Equal(other.Grid) {
		return fmt.Errorf("raster grids are not aligned: %dx%d@%g vs %dx%d@%g",
			r.Grid.Width, r.Grid.Height, r.Grid.PixelSize,
			other.Grid.Width, other.Grid.Height, other.Grid.PixelSize)
	}
	return nil
}

// Scene is one time-stamped member of a collection, with the cloud-cover
// fraction reported by the archive as quality metadata.
type Scene struct {
	Raster     *Raster
	Timestamp  time.Time
	CloudCover float64
}

// Collection is a time-ordered sequence of scenes sharing a band schema. It
// is not guaranteed to be temporally contiguous.
type Collection struct {
	Scenes []Scene
}

func (c *Collection) Add(s Scene) {
	c.Scenes = append(c.Scenes, s)
}

// Composite is a raster reduced from a set of scenes, carrying the source
// timestamps for provenance. A composite with a nil Raster represents a
// period with no contributing scenes.
type Composite struct {
	Raster      *Raster
	Period      int
	Reducer     string
	SourceTimes []time.Time
}

func (c Composite) Empty() bool {
	return c.Raster == nil
}
