package collision

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/aerial.sampling/internal/attitude"
)

// Vehicle is a set of clearance probe points fixed to the airframe, such as
// rotor tips. Probes are body-frame offsets in metres: X forward, Y right,
// Z down.
type Vehicle struct {
	Probes []r3.Vec `json:"probes" yaml:"probes"`
}

// WorldProbes places the probes of v for a vehicle at pos with orientation
// att. The attitude rotates body axes into north-east-down; the result is
// returned in this package's (north, east, altitude) frame. Without probes
// the result is just pos.
func (v Vehicle) WorldProbes(pos r3.Vec, att attitude.Quaternion) ([]r3.Vec, error) {
	if len(v.Probes) == 0 {
		return []r3.Vec{pos}, nil
	}
	q, err := att.Unit()
	if err != nil {
		return nil, fmt.Errorf("vehicle attitude: %w", err)
	}
	out := make([]r3.Vec, len(v.Probes))
	for i, b := range v.Probes {
		ned := q.Rotate(b)
		out[i] = r3.Vec{X: pos.X + ned.X, Y: pos.Y + ned.Y, Z: pos.Z - ned.Z}
	}
	return out, nil
}

// ClassifyVehicle reports Occupied when any probe of v, placed at pos with
// orientation att, is occupied.
func ClassifyVehicle(pos r3.Vec, att attitude.Quaternion, v Vehicle, f Finder) (Label, error) {
	probes, err := v.WorldProbes(pos, att)
	if err != nil {
		return Feasible, err
	}
	for _, p := range probes {
		if Classify(p, f) == Occupied {
			return Occupied, nil
		}
	}
	return Feasible, nil
}

// ClassifyVehicleBatch runs ClassifyVehicle for a vehicle at every point with
// the same attitude, split across workers goroutines like
// ClassifyBatchParallel. The attitude is checked once up front.
func ClassifyVehicleBatch(points []r3.Vec, att attitude.Quaternion, v Vehicle, f Finder, workers int) ([]LabeledSample, error) {
	q, err := att.Unit()
	if err != nil {
		return nil, fmt.Errorf("vehicle attitude: %w", err)
	}
	out := make([]LabeledSample, len(points))
	parallelRanges(len(points), workers, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			// q is a unit quaternion, so WorldProbes cannot fail here.
			l, _ := ClassifyVehicle(points[i], q, v, f)
			out[i] = LabeledSample{Point: points[i], Label: l}
		}
	})
	return out, nil
}
