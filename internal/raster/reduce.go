package raster

import (
	"fmt"
	"sort"
	"time"

	"gonum.org/v1/gonum/stat"
)

// Reducer is a per-pixel statistic over a stack of values. NoData inputs are
// skipped; an all-NoData stack reduces to NoData. Both reducers are order
// independent so parallel partial stacks combine correctly.
type Reducer struct {
	Name string
	Fn   func(values []float64) float64
}

var Mean = Reducer{Name: "mean", Fn: func(values []float64) float64 {
	valid := validValues(values)
	if len(valid) == 0 {
		return NoData
	}
	return stat.Mean(valid, nil)
}}

var Median = Reducer{Name: "median", Fn: func(values []float64) float64 {
	valid := validValues(values)
	if len(valid) == 0 {
		return NoData
	}
	sort.Float64s(valid)
	return stat.Quantile(0.5, stat.Empirical, valid, nil)
}}

func validValues(values []float64) []float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !IsNoData(v) {
			valid = append(valid, v)
		}
	}
	return valid
}

// Reduce builds a composite raster from a stack of scenes with a per-pixel
// statistic. All scenes must share the first scene's grid and band schema.
func Reduce(scenes []Scene, reducer Reducer) (*Composite, error) {
	if len(scenes) == 0 {
		return &Composite{Reducer: reducer.Name}, nil
	}

	first := scenes[0].Raster
	for _, s := range scenes[1:] {
		if err := first.Align(s.Raster); err != nil {
			return nil, fmt.Errorf("cannot reduce collection: %v", err)
		}
		for _, band := range first.Bands() {
			if !s.Raster.HasBand(band) {
				return nil, fmt.Errorf("cannot reduce collection: scene at %s is missing band %q", s.Timestamp.Format("2006-01-02"), band)
			}
		}
	}

	out := New(first.Grid, first.Bands()...)
	stack := make([]float64, len(scenes))
	size := first.Grid.Width * first.Grid.Height
	for _, band := range first.Bands() {
		buffers := make([][]float64, len(scenes))
		for i, s := range scenes {
			buffers[i], _ = s.Raster.Band(band)
		}
		outBuf, _ := out.Band(band)
		for p := 0; p < size; p++ {
			for i := range buffers {
				stack[i] = buffers[i][p]
			}
			outBuf[p] = reducer.Fn(stack)
		}
	}

	times := make([]time.Time, 0, len(scenes))
	for _, s := range scenes {
		times = append(times, s.Timestamp)
	}
	return &Composite{Raster: out, Reducer: reducer.Name, SourceTimes: times}, nil
}
