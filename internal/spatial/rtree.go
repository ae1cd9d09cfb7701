package spatial

import (
	"fmt"
	"math"

	"github.com/dhconnelly/rtreego"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/aerial.sampling/internal/monitoring"
	"github.com/banshee-data/aerial.sampling/internal/obstacle"
)

// Tree fan-out. Small nodes suit the few hundred obstacles of a survey.
const (
	rtreeMinChildren = 4
	rtreeMaxChildren = 16
)

// queryTolerance is the smallest padding that widens a point query into a
// tiny rectangle, since rtreego only reports strict overlaps and footprint
// boundaries count as inside.
const queryTolerance = 1e-9

// RTree indexes obstacle footprint bounds in an R-tree.
type RTree struct {
	tree *rtreego.Rtree
}

// footprint adapts an obstacle to rtreego.Spatial.
type footprint struct {
	index int
	o     obstacle.Obstacle
	rect  rtreego.Rect
}

func (f *footprint) Bounds() rtreego.Rect { return f.rect }

// NewRTree bulk-loads the non-degenerate footprints of set.
func NewRTree(set *obstacle.Set) (*RTree, error) {
	var items []rtreego.Spatial
	for i, o := range set.Obstacles() {
		if o.Degenerate() {
			continue
		}
		b := o.Bound()
		rect, err := rtreego.NewRectFromPoints(rtreego.Point{b.Min[0], b.Min[1]}, rtreego.Point{b.Max[0], b.Max[1]})
		if err != nil {
			return nil, fmt.Errorf("obstacle %d bounds: %w", i, err)
		}
		items = append(items, &footprint{index: i, o: o, rect: rect})
	}
	t := rtreego.NewTree(2, rtreeMinChildren, rtreeMaxChildren, items...)
	monitoring.Logf("spatial: r-tree over %d footprints, depth %d", t.Size(), t.Depth())
	return &RTree{tree: t}, nil
}

// Any calls pred on each obstacle whose footprint bound touches (p.X, p.Y)
// and reports whether one returned true.
func (t *RTree) Any(p r3.Vec, pred func(obstacle.Obstacle) bool) bool {
	for _, s := range t.tree.SearchIntersect(rtreego.Point{p.X, p.Y}.ToRect(queryPadding(p))) {
		if pred(s.(*footprint).o) {
			return true
		}
	}
	return false
}

// queryPadding is queryTolerance, or a few float steps of p's largest
// horizontal coordinate when that step is coarser.
func queryPadding(p r3.Vec) float64 {
	m := math.Max(math.Abs(p.X), math.Abs(p.Y))
	return math.Max(queryTolerance, 4*(math.Nextafter(m, math.Inf(1))-m))
}

// Nearest returns the index of the obstacle whose footprint is closest to
// (north, east), or -1 when the tree is empty. Points inside a footprint are
// at distance zero from it.
func (t *RTree) Nearest(north, east float64) int {
	s := t.tree.NearestNeighbor(rtreego.Point{north, east})
	if s == nil {
		return -1
	}
	return s.(*footprint).index
}

// Len returns the number of indexed footprints.
func (t *RTree) Len() int { return t.tree.Size() }
