package vector

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/raster"
	"github.com/watershed-guardian/watershed-guardian-api-poc/internal/spectral"
)

// Vectorize converts a 0/1 mask raster into one polygon per maximal
// 8-connected component of set pixels. Components are discovered in a
// row-major scan, so output order is deterministic for a given mask. Polygon
// boundaries follow pixel edges in world coordinates; interior holes are kept
// as inner rings. An empty mask yields an empty set.
func Vectorize(mask *raster.Raster) ([]orb.Polygon, error) {
	buf, err := mask.Band(spectral.MaskBand)
	if err != nil {
		return nil, fmt.Errorf("failed to vectorize: %v", err)
	}

	width, height := mask.Grid.Width, mask.Grid.Height
	labels := labelComponents(buf, width, height)
	edges := traceEdges(buf, labels, width, height)
	rings, ringLabels := chainRings(edges, width)

	count := 0
	for _, l := range labels {
		if l > count {
			count = l
		}
	}

	polygons := make([]orb.Polygon, count)
	for i, ring := range rings {
		label := ringLabels[i]
		worldRing := make(orb.Ring, 0, len(ring)+1)
		for _, c := range ring {
			wx, wy := mask.Grid.PixelCorner(c[0], c[1])
			worldRing = append(worldRing, orb.Point{wx, wy})
		}
		worldRing = append(worldRing, worldRing[0])
		polygons[label-1] = append(polygons[label-1], worldRing)
	}

	// The outer ring of each polygon must come first; move the largest ring
	// to the front.
	for i, poly := range polygons {
		outer := 0
		largest := 0.0
		for j, ring := range poly {
			if a := math.Abs(orbRingArea(ring)); a > largest {
				largest = a
				outer = j
			}
		}
		if outer != 0 {
			poly[0], poly[outer] = poly[outer], poly[0]
			polygons[i] = poly
		}
	}
	return polygons, nil
}

// labelComponents assigns 1-based component labels to set pixels under
// 8-connectivity, 0 to unset pixels.
func labelComponents(buf []float64, width, height int) []int {
	labels := make([]int, width*height)
	next := 0
	queue := make([][2]int, 0, 64)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			p := y*width + x
			if buf[p] != 1 || labels[p] != 0 {
				continue
			}
			next++
			labels[p] = next
			queue = append(queue[:0], [2]int{x, y})
			for len(queue) > 0 {
				cur := queue[0]
				queue = queue[1:]
				for dy := -1; dy <= 1; dy++ {
					for dx := -1; dx <= 1; dx++ {
						nx, ny := cur[0]+dx, cur[1]+dy
						if nx < 0 || nx >= width || ny < 0 || ny >= height {
							continue
						}
						np := ny*width + nx
						if buf[np] == 1 && labels[np] == 0 {
							labels[np] = next
							queue = append(queue, [2]int{nx, ny})
						}
					}
				}
			}
		}
	}
	return labels
}

// boundaryEdge is a directed edge between pixel corners, oriented so the
// component interior lies to the right of travel.
type boundaryEdge struct {
	x0, y0, x1, y1 int
	label          int
}

func traceEdges(buf []float64, labels []int, width, height int) []boundaryEdge {
	set := func(x, y int) bool {
		if x < 0 || x >= width || y < 0 || y >= height {
			return false
		}
		return buf[y*width+x] == 1
	}

	var edges []boundaryEdge
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !set(x, y) {
				continue
			}
			label := labels[y*width+x]
			if !set(x, y-1) {
				edges = append(edges, boundaryEdge{x, y, x + 1, y, label})
			}
			if !set(x+1, y) {
				edges = append(edges, boundaryEdge{x + 1, y, x + 1, y + 1, label})
			}
			if !set(x, y+1) {
				edges = append(edges, boundaryEdge{x + 1, y + 1, x, y + 1, label})
			}
			if !set(x-1, y) {
				edges = append(edges, boundaryEdge{x, y + 1, x, y, label})
			}
		}
	}
	return edges
}

// chainRings connects boundary edges into closed rings of pixel corners. At a
// pinch corner (diagonally touching pixels of one component) the walk prefers
// the left-most turn, which keeps an 8-connected component in a single ring.
func chainRings(edges []boundaryEdge, width int) ([][][2]int, []int) {
	cornerStride := width + 1
	outgoing := make(map[int][]int)
	for i, e := range edges {
		start := e.y0*cornerStride + e.x0
		outgoing[start] = append(outgoing[start], i)
	}

	used := make([]bool, len(edges))
	var rings [][][2]int
	var ringLabels []int

	for i := range edges {
		if used[i] {
			continue
		}
		start := edges[i]
		ring := [][2]int{{start.x0, start.y0}}
		cur := start
		used[i] = true
		for {
			ring = append(ring, [2]int{cur.x1, cur.y1})
			if cur.x1 == start.x0 && cur.y1 == start.y0 {
				break
			}
			next := pickNext(edges, used, outgoing, cur, cornerStride)
			if next < 0 {
				break
			}
			used[next] = true
			cur = edges[next]
		}
		// Drop the duplicated closing corner; it is re-added in world space.
		rings = append(rings, ring[:len(ring)-1])
		ringLabels = append(ringLabels, start.label)
	}
	return rings, ringLabels
}

func pickNext(edges []boundaryEdge, used []bool, outgoing map[int][]int, cur boundaryEdge, cornerStride int) int {
	dx, dy := cur.x1-cur.x0, cur.y1-cur.y0
	// Candidate directions in preference order: left turn, straight, right
	// turn (grid coordinates, y down).
	prefs := [3][2]int{{dy, -dx}, {dx, dy}, {-dy, dx}}
	candidates := outgoing[cur.y1*cornerStride+cur.x1]
	for _, dir := range prefs {
		for _, ci := range candidates {
			if used[ci] {
				continue
			}
			e := edges[ci]
			if e.x1-e.x0 == dir[0] && e.y1-e.y0 == dir[1] {
				return ci
			}
		}
	}
	return -1
}

func orbRingArea(ring orb.Ring) float64 {
	area := 0.0
	for i := 0; i < len(ring)-1; i++ {
		area += ring[i][0]*ring[i+1][1] - ring[i+1][0]*ring[i][1]
	}
	return area / 2
}
