package obstacle

import (
	"errors"
	"math"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/aerial.sampling/internal/monitoring"
)

// Set is an ordered, immutable collection of obstacles with their footprint
// centres kept in a parallel slice. Obstacle i always corresponds to record i.
type Set struct {
	obstacles []Obstacle
	centers   []orb.Point
	tree      *kdtree.Tree
}

// NewSet builds one obstacle per record, preserving order. Construction is
// all-or-nothing: the first invalid record aborts with an
// *InvalidRecordError carrying its index and no set is returned.
func NewSet(records []Record) (*Set, error) {
	s := &Set{
		obstacles: make([]Obstacle, 0, len(records)),
		centers:   make([]orb.Point, 0, len(records)),
	}
	degenerate := 0
	for i, r := range records {
		o, err := New(r)
		if err != nil {
			var ire *InvalidRecordError
			if errors.As(err, &ire) {
				ire.Index = i
			}
			return nil, err
		}
		if o.Degenerate() {
			degenerate++
		}
		s.obstacles = append(s.obstacles, o)
		s.centers = append(s.centers, o.Center)
	}
	if degenerate > 0 {
		monitoring.Logf("obstacle: %d of %d footprints are degenerate and contain no points", degenerate, len(records))
	}
	if len(s.centers) > 0 {
		s.tree = kdtree.New(centerPoints(indexCenters(s.centers)), false)
	}
	return s, nil
}

// Build is NewSet followed by Bounds(zCap). When records is empty the set is
// still returned together with an *EmptyObstacleSetError, since
// classification against an empty set is well defined; only the volume is
// missing.
func Build(records []Record, zCap float64) (*Set, BoundingVolume, error) {
	s, err := NewSet(records)
	if err != nil {
		return nil, BoundingVolume{}, err
	}
	b, err := s.Bounds(zCap)
	if err != nil {
		return s, BoundingVolume{}, err
	}
	return s, b, nil
}

// Len returns the number of obstacles.
func (s *Set) Len() int { return len(s.obstacles) }

// At returns obstacle i.
func (s *Set) At(i int) Obstacle { return s.obstacles[i] }

// Obstacles returns a copy of the obstacles in input order.
func (s *Set) Obstacles() []Obstacle {
	out := make([]Obstacle, len(s.obstacles))
	copy(out, s.obstacles)
	return out
}

// Centers returns a copy of the footprint centres, parallel to Obstacles.
func (s *Set) Centers() []orb.Point {
	out := make([]orb.Point, len(s.centers))
	copy(out, s.centers)
	return out
}

// Bounds returns the union of all footprints, extended vertically over
// [0, zCap]. It fails with *EmptyObstacleSetError for an empty set and with
// ErrInvalidCeiling when zCap is not positive.
func (s *Set) Bounds(zCap float64) (BoundingVolume, error) {
	if !(zCap > 0) || math.IsInf(zCap, 0) {
		return BoundingVolume{}, ErrInvalidCeiling
	}
	if len(s.obstacles) == 0 {
		return BoundingVolume{}, &EmptyObstacleSetError{Op: "bounding volume"}
	}
	b := s.obstacles[0].bound
	for _, o := range s.obstacles[1:] {
		b = b.Union(o.bound)
	}
	return BoundingVolume{
		Min: r3.Vec{X: b.Min[0], Y: b.Min[1], Z: 0},
		Max: r3.Vec{X: b.Max[0], Y: b.Max[1], Z: zCap},
	}, nil
}

// Any reports whether some obstacle satisfies pred, scanning in input order
// and stopping at the first match. p is ignored: every obstacle is a
// candidate. Any makes *Set usable as a linear-scan collision finder; a nil
// *Set has no obstacles.
func (s *Set) Any(p r3.Vec, pred func(Obstacle) bool) bool {
	if s == nil {
		return false
	}
	for _, o := range s.obstacles {
		if pred(o) {
			return true
		}
	}
	return false
}

// NearestCenter returns the index of the obstacle whose footprint centre is
// closest to (north, east) and the horizontal distance to it.
func (s *Set) NearestCenter(north, east float64) (int, float64, error) {
	if s.tree == nil {
		return -1, 0, &EmptyObstacleSetError{Op: "nearest centre"}
	}
	got, d2 := s.tree.Nearest(centerPoint{p: orb.Point{north, east}, index: -1})
	return got.(centerPoint).index, math.Sqrt(d2), nil
}

// centerPoint is a footprint centre tagged with its obstacle index so that
// k-d tree results map back into the set.
type centerPoint struct {
	p     orb.Point
	index int
}

func (c centerPoint) Compare(o kdtree.Comparable, d kdtree.Dim) float64 {
	return c.p[d] - o.(centerPoint).p[d]
}

func (c centerPoint) Dims() int { return 2 }

func (c centerPoint) Distance(o kdtree.Comparable) float64 {
	q := o.(centerPoint).p
	dn, de := c.p[0]-q[0], c.p[1]-q[1]
	return dn*dn + de*de
}

type centerPoints []centerPoint

func indexCenters(centers []orb.Point) centerPoints {
	out := make(centerPoints, len(centers))
	for i, c := range centers {
		out[i] = centerPoint{p: c, index: i}
	}
	return out
}

func (c centerPoints) Index(i int) kdtree.Comparable { return c[i] }
func (c centerPoints) Len() int                      { return len(c) }
func (c centerPoints) Pivot(d kdtree.Dim) int {
	return centerPlane{centerPoints: c, Dim: d}.Pivot()
}
func (c centerPoints) Slice(start, end int) kdtree.Interface { return c[start:end] }

// centerPlane pivots centerPoints on one dimension.
type centerPlane struct {
	kdtree.Dim
	centerPoints
}

func (p centerPlane) Less(i, j int) bool {
	return p.centerPoints[i].p[p.Dim] < p.centerPoints[j].p[p.Dim]
}
func (p centerPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }
func (p centerPlane) Slice(start, end int) kdtree.SortSlicer {
	p.centerPoints = p.centerPoints[start:end]
	return p
}
func (p centerPlane) Swap(i, j int) {
	p.centerPoints[i], p.centerPoints[j] = p.centerPoints[j], p.centerPoints[i]
}
