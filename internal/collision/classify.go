// Package collision labels points as feasible or occupied against an
// obstacle field.
//
// Classification only asks a Finder whether any obstacle satisfies a
// predicate for the point, so a linear scan (*obstacle.Set), a uniform grid
// or an R-tree can be swapped in without changing results.
package collision

import (
	"sync"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/aerial.sampling/internal/obstacle"
)

// Finder answers "does any obstacle near p satisfy pred". Implementations
// may skip obstacles that cannot contain p, but must call pred for every
// obstacle that could.
type Finder interface {
	Any(p r3.Vec, pred func(obstacle.Obstacle) bool) bool
}

// LabeledSample is a point with its classification.
type LabeledSample struct {
	Point r3.Vec `json:"point"`
	Label Label  `json:"label"`
}

// Classify returns Occupied if some obstacle contains p (footprint boundary
// inclusive, p.Z at or below the top) and Feasible otherwise. A nil Finder
// behaves as an empty obstacle set.
func Classify(p r3.Vec, f Finder) Label {
	if f == nil {
		return Feasible
	}
	if f.Any(p, func(o obstacle.Obstacle) bool { return o.Contains(p) }) {
		return Occupied
	}
	return Feasible
}

// ClassifyBatch classifies every point, preserving input order.
func ClassifyBatch(points []r3.Vec, f Finder) []LabeledSample {
	out := make([]LabeledSample, len(points))
	classifyRange(points, out, f)
	return out
}

// ClassifyBatchParallel is ClassifyBatch split across workers goroutines.
// Each worker owns a contiguous slice of the output, so the result is
// identical to ClassifyBatch. The Finder must be safe for concurrent reads.
func ClassifyBatchParallel(points []r3.Vec, f Finder, workers int) []LabeledSample {
	out := make([]LabeledSample, len(points))
	parallelRanges(len(points), workers, func(lo, hi int) {
		classifyRange(points[lo:hi], out[lo:hi], f)
	})
	return out
}

// parallelRanges splits [0, n) into at most workers contiguous ranges and
// runs fn on each in its own goroutine, returning when all are done. With
// one worker or fewer than two items fn runs once on the caller's goroutine.
func parallelRanges(n, workers int, fn func(lo, hi int)) {
	if workers <= 1 || n < 2 {
		fn(0, n)
		return
	}
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(start, end)
	}
	wg.Wait()
}

func classifyRange(points []r3.Vec, out []LabeledSample, f Finder) {
	for i, p := range points {
		out[i] = LabeledSample{Point: p, Label: Classify(p, f)}
	}
}

// Counts tallies labels.
func Counts(samples []LabeledSample) (feasible, occupied int) {
	for _, s := range samples {
		if s.Label == Occupied {
			occupied++
		} else {
			feasible++
		}
	}
	return feasible, occupied
}
