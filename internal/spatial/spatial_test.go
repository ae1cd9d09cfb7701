package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/aerial.sampling/internal/collision"
	"github.com/banshee-data/aerial.sampling/internal/obstacle"
	"github.com/banshee-data/aerial.sampling/internal/sampler"
)

func testField(t *testing.T) *obstacle.Set {
	t.Helper()
	records := []obstacle.Record{
		{North: 0, East: 0, Alt: 5, DNorth: 2, DEast: 3, DAlt: 1},
		{North: 20, East: -10, Alt: 8, DNorth: 4, DEast: 4, DAlt: 8},
		{North: -15, East: 30, Alt: 2, DNorth: 1, DEast: 5, DAlt: 2},
		{North: -35, East: -25, Alt: 3, DNorth: 12, DEast: 2, DAlt: 3},
		{North: 1, East: 1, Alt: 9, DNorth: 1, DEast: 1, DAlt: 1},  // overlaps the first
		{North: 40, East: 40, Alt: 5, DNorth: 0, DEast: 3, DAlt: 1}, // degenerate
	}
	s, err := obstacle.NewSet(records)
	require.NoError(t, err)
	return s
}

func queryPoints(t *testing.T, s *obstacle.Set) []r3.Vec {
	t.Helper()
	b, err := s.Bounds(obstacle.DefaultCeiling + 10)
	require.NoError(t, err)
	pts, err := sampler.Sample(b, 3000, 11)
	require.NoError(t, err)

	// Footprint corners and edge midpoints at and above each top.
	for _, o := range s.Obstacles() {
		for _, c := range o.Corners() {
			pts = append(pts,
				r3.Vec{X: c[0], Y: c[1], Z: o.Height},
				r3.Vec{X: c[0], Y: c[1], Z: o.Height + 1e-6},
			)
		}
		bd := o.Bound()
		pts = append(pts,
			r3.Vec{X: bd.Min[0], Y: o.Center[1], Z: 0},
			r3.Vec{X: bd.Max[0], Y: o.Center[1], Z: 0},
			r3.Vec{X: o.Center[0], Y: bd.Max[1], Z: 0},
		)
	}
	return pts
}

func TestIndexesMatchLinearScan(t *testing.T) {
	s := testField(t)
	pts := queryPoints(t, s)
	want := collision.ClassifyBatch(pts, s)

	grids := map[string]float64{"fine": 1, "default": 10, "coarse": 100, "odd": 3.7}
	for name, size := range grids {
		g, err := NewGrid(s, size)
		require.NoError(t, err)
		assert.Equal(t, want, collision.ClassifyBatch(pts, g), "grid %s", name)
	}

	rt, err := NewRTree(s)
	require.NoError(t, err)
	assert.Equal(t, want, collision.ClassifyBatch(pts, rt), "r-tree")
	assert.Equal(t, want, collision.ClassifyBatchParallel(pts, rt, 4), "r-tree parallel")

	_, occupied := collision.Counts(want)
	assert.Greater(t, occupied, 0, "query set should hit some obstacles")
}

func TestIndexesAgreeFarFromOrigin(t *testing.T) {
	s, err := obstacle.NewSet([]obstacle.Record{
		{North: 1e8, East: 0, Alt: 1, DNorth: 2, DEast: 3, DAlt: 1},
		{North: -3e9, East: 5e8, Alt: 1, DNorth: 10, DEast: 10, DAlt: 1},
	})
	require.NoError(t, err)
	g, err := NewGrid(s, 10)
	require.NoError(t, err)
	rt, err := NewRTree(s)
	require.NoError(t, err)

	for _, p := range []r3.Vec{
		{X: 1e8 + 2, Y: 3, Z: 1},
		{X: 1e8 - 2, Y: -3, Z: 2},
		{X: -3e9 + 10, Y: 5e8 - 10, Z: 0},
		{X: -3e9 - 10, Y: 5e8 + 10, Z: 2},
	} {
		assert.Equal(t, collision.Occupied, collision.Classify(p, s), "linear %v", p)
		assert.Equal(t, collision.Occupied, collision.Classify(p, g), "grid %v", p)
		assert.Equal(t, collision.Occupied, collision.Classify(p, rt), "r-tree %v", p)
	}

	outside := r3.Vec{X: 1e8 + 2.5, Y: 3, Z: 1}
	assert.Equal(t, collision.Feasible, collision.Classify(outside, rt))
}

func TestGrid_SkipsDegenerateAndNarrows(t *testing.T) {
	s := testField(t)
	g, err := NewGrid(s, 10)
	require.NoError(t, err)

	for _, ids := range g.Cells {
		assert.NotContains(t, ids, 5, "degenerate footprint must not be indexed")
	}
	assert.Equal(t, []int{0, 4}, g.Candidates(1, 1))
	assert.Empty(t, g.Candidates(500, 500))

	calls := 0
	g.Any(r3.Vec{X: 20, Y: -10}, func(obstacle.Obstacle) bool { calls++; return false })
	assert.Less(t, calls, s.Len(), "grid should not scan every obstacle")
}

func TestGrid_InvalidCellSize(t *testing.T) {
	s := testField(t)
	for _, size := range []float64{0, -1} {
		_, err := NewGrid(s, size)
		assert.Error(t, err)
	}
	_, err := NewGrid(s, 1e-6)
	assert.Error(t, err, "tiny cells should trip the per-obstacle cell cap")
}

func TestCellID_Unique(t *testing.T) {
	seen := make(map[int64][2]int64)
	for x := int64(-30); x <= 30; x++ {
		for y := int64(-30); y <= 30; y++ {
			id := cellID(x, y)
			if prev, ok := seen[id]; ok {
				t.Fatalf("cell (%d,%d) collides with %v", x, y, prev)
			}
			seen[id] = [2]int64{x, y}
		}
	}
}

func TestRTree_Nearest(t *testing.T) {
	s := testField(t)
	rt, err := NewRTree(s)
	require.NoError(t, err)
	assert.Equal(t, 5, rt.Len(), "degenerate footprint is not indexed")

	assert.Equal(t, 1, rt.Nearest(21, -9))
	assert.Equal(t, 3, rt.Nearest(-60, -25))
	assert.Equal(t, 2, rt.Nearest(-15, 40))

	empty, err := obstacle.NewSet(nil)
	require.NoError(t, err)
	et, err := NewRTree(empty)
	require.NoError(t, err)
	assert.Equal(t, -1, et.Nearest(0, 0))
	assert.Equal(t, collision.Feasible, collision.Classify(r3.Vec{}, et))
}
