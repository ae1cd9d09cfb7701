// Package planning wires the obstacle model, sampler and classifier into a
// single sampling run driven by a PlannerConfig.
package planning

import (
	"errors"
	"fmt"
	"time"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/aerial.sampling/internal/collision"
	"github.com/banshee-data/aerial.sampling/internal/config"
	"github.com/banshee-data/aerial.sampling/internal/monitoring"
	"github.com/banshee-data/aerial.sampling/internal/obstacle"
	"github.com/banshee-data/aerial.sampling/internal/sampler"
	"github.com/banshee-data/aerial.sampling/internal/spatial"
)

// Result is the outcome of one sampling run.
type Result struct {
	Seed      uint64
	Index     string
	Bounds    obstacle.BoundingVolume
	Obstacles *obstacle.Set
	Samples   []collision.LabeledSample
	Started   time.Time
	Elapsed   time.Duration
}

// Feasible returns the feasible sample points in sample order.
func (r *Result) Feasible() []r3.Vec { return r.points(collision.Feasible) }

// Occupied returns the occupied sample points in sample order.
func (r *Result) Occupied() []r3.Vec { return r.points(collision.Occupied) }

// Counts returns the number of feasible and occupied samples.
func (r *Result) Counts() (feasible, occupied int) { return collision.Counts(r.Samples) }

func (r *Result) points(l collision.Label) []r3.Vec {
	var out []r3.Vec
	for _, s := range r.Samples {
		if s.Label == l {
			out = append(out, s.Point)
		}
	}
	return out
}

// Run builds the obstacle set from records, draws cfg's sample count from the
// bounding volume and labels every sample.
//
// The volume comes from cfg.Bounds when set and from the obstacles otherwise;
// with neither, Run fails with an error wrapping *obstacle.EmptyObstacleSetError.
// A zero seed is replaced by one derived from the start time and recorded in
// the Result.
func Run(cfg *config.PlannerConfig, records []obstacle.Record) (*Result, error) {
	if cfg == nil {
		cfg = config.EmptyPlannerConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	started := time.Now()

	set, err := obstacle.NewSet(records)
	if err != nil {
		return nil, fmt.Errorf("failed to build obstacle set: %w", err)
	}

	bounds, err := resolveBounds(cfg, set)
	if err != nil {
		return nil, err
	}

	seed := cfg.GetSeed()
	if seed == 0 {
		seed = uint64(started.UnixNano())
		monitoring.Logf("planning: no seed configured, using %d", seed)
	}

	points, err := sampler.NewSeeded(seed).Sample(bounds, cfg.GetSampleCount())
	if err != nil {
		return nil, fmt.Errorf("failed to sample: %w", err)
	}

	finder, err := NewFinder(cfg, set)
	if err != nil {
		return nil, err
	}

	var samples []collision.LabeledSample
	if cfg.Vehicle != nil {
		v := collision.Vehicle{Probes: cfg.Vehicle.ProbeOffsets()}
		samples, err = collision.ClassifyVehicleBatch(points, cfg.Vehicle.Attitude(), v, finder, cfg.GetWorkers())
		if err != nil {
			return nil, err
		}
	} else {
		samples = collision.ClassifyBatchParallel(points, finder, cfg.GetWorkers())
	}

	res := &Result{
		Seed:      seed,
		Index:     cfg.GetIndex(),
		Bounds:    bounds,
		Obstacles: set,
		Samples:   samples,
		Started:   started,
		Elapsed:   time.Since(started),
	}
	feasible, occupied := res.Counts()
	monitoring.Logf("planning: %d obstacles, %d samples in %v: %d feasible, %d occupied (index=%s, seed=%d)",
		set.Len(), len(samples), bounds, feasible, occupied, res.Index, seed)
	return res, nil
}

// NewFinder returns the obstacle index named by cfg over set.
func NewFinder(cfg *config.PlannerConfig, set *obstacle.Set) (collision.Finder, error) {
	switch idx := cfg.GetIndex(); idx {
	case config.IndexLinear:
		return set, nil
	case config.IndexGrid:
		g, err := spatial.NewGrid(set, cfg.GetGridCellSize())
		if err != nil {
			return nil, fmt.Errorf("failed to build grid index: %w", err)
		}
		return g, nil
	case config.IndexRTree:
		t, err := spatial.NewRTree(set)
		if err != nil {
			return nil, fmt.Errorf("failed to build r-tree index: %w", err)
		}
		return t, nil
	default:
		return nil, fmt.Errorf("unknown index %q", idx)
	}
}

func resolveBounds(cfg *config.PlannerConfig, set *obstacle.Set) (obstacle.BoundingVolume, error) {
	if cfg.Bounds != nil {
		return cfg.Bounds.BoundingVolume()
	}
	b, err := set.Bounds(cfg.GetZCap())
	if err != nil {
		var empty *obstacle.EmptyObstacleSetError
		if errors.As(err, &empty) {
			return obstacle.BoundingVolume{}, fmt.Errorf("no obstacles and no explicit bounds configured: %w", err)
		}
		return obstacle.BoundingVolume{}, err
	}
	return b, nil
}
