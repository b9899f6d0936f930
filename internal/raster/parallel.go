package raster

import (
	"runtime"

	"github.com/gammazero/workerpool"
)

// EachRow runs fn for every row index on a worker pool and waits for all of
// them. Rows are independent; fn must only write pixels of its own row.
func EachRow(height int, fn func(y int)) {
	wp := workerpool.New(runtime.NumCPU())
	for y := 0; y < height; y++ {
		y := y
		wp.Submit(func() {
			fn(y)
		})
	}
	wp.StopWait()
}
