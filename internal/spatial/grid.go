// Package spatial provides obstacle indexes that narrow collision checks to
// the obstacles near a query point. Both indexes answer the same Any query as
// a linear scan over *obstacle.Set and are read-only once built.
package spatial

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/aerial.sampling/internal/monitoring"
	"github.com/banshee-data/aerial.sampling/internal/obstacle"
)

// MaxCellsPerObstacle caps how many grid cells a single footprint may cover.
const MaxCellsPerObstacle = 1 << 20

// Grid buckets obstacle footprints into square (north, east) cells. An
// obstacle is stored in every cell its footprint bound touches, so a point
// query only inspects the obstacles registered in the point's own cell.
type Grid struct {
	CellSize float64
	Cells    map[int64][]int // cell ID → obstacle indices, ascending

	obstacles []obstacle.Obstacle
}

// NewGrid indexes the obstacles of set. Degenerate footprints contain no
// point and are left out.
func NewGrid(set *obstacle.Set, cellSize float64) (*Grid, error) {
	if !(cellSize > 0) || math.IsInf(cellSize, 0) {
		return nil, fmt.Errorf("grid cell size must be positive and finite, got %g", cellSize)
	}
	g := &Grid{
		CellSize:  cellSize,
		Cells:     make(map[int64][]int),
		obstacles: set.Obstacles(),
	}

	skipped := 0
	for i, o := range g.obstacles {
		if o.Degenerate() {
			skipped++
			continue
		}
		b := o.Bound()
		x0, y0 := g.cellCoords(b.Min[0], b.Min[1])
		x1, y1 := g.cellCoords(b.Max[0], b.Max[1])
		if span := (x1 - x0 + 1) * (y1 - y0 + 1); span > MaxCellsPerObstacle {
			return nil, fmt.Errorf("obstacle %d covers %d cells of size %g; use a larger cell size", i, span, cellSize)
		}
		for cx := x0; cx <= x1; cx++ {
			for cy := y0; cy <= y1; cy++ {
				id := cellID(cx, cy)
				g.Cells[id] = append(g.Cells[id], i)
			}
		}
	}
	monitoring.Logf("spatial: grid of %d cells (size %.2f m) over %d obstacles, %d degenerate skipped",
		len(g.Cells), cellSize, len(g.obstacles), skipped)
	return g, nil
}

// Any calls pred on the obstacles registered in p's cell, in input order, and
// reports whether one returned true.
func (g *Grid) Any(p r3.Vec, pred func(obstacle.Obstacle) bool) bool {
	cx, cy := g.cellCoords(p.X, p.Y)
	for _, i := range g.Cells[cellID(cx, cy)] {
		if pred(g.obstacles[i]) {
			return true
		}
	}
	return false
}

// Candidates returns the indices of obstacles registered in the cell holding
// (north, east).
func (g *Grid) Candidates(north, east float64) []int {
	cx, cy := g.cellCoords(north, east)
	ids := g.Cells[cellID(cx, cy)]
	out := make([]int, len(ids))
	copy(out, ids)
	return out
}

func (g *Grid) cellCoords(x, y float64) (int64, int64) {
	return int64(math.Floor(x / g.CellSize)), int64(math.Floor(y / g.CellSize))
}

// cellID pairs signed cell coordinates into one key: zigzag encoding maps
// each coordinate onto the naturals, then Szudzik's pairing function combines
// them.
func cellID(cx, cy int64) int64 {
	a, b := zigzag(cx), zigzag(cy)
	if a >= b {
		return a*a + a + b
	}
	return a + b*b
}

func zigzag(v int64) int64 {
	if v >= 0 {
		return 2 * v
	}
	return -2*v - 1
}
