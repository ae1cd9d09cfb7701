package obstacle

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// DefaultCeiling is the default top of the sampling volume in metres. It bounds
// where samples are drawn; it is not a physical limit of the obstacles.
const DefaultCeiling = 10.0

// BoundingVolume is an axis-aligned box; X is north, Y east and Z altitude.
type BoundingVolume struct {
	Min r3.Vec `json:"min" yaml:"min"`
	Max r3.Vec `json:"max" yaml:"max"`
}

// NewBoundingVolume returns the box spanning min and max after checking that
// both corners are finite and min <= max on every axis.
func NewBoundingVolume(min, max r3.Vec) (BoundingVolume, error) {
	b := BoundingVolume{Min: min, Max: max}
	if err := b.Validate(); err != nil {
		return BoundingVolume{}, err
	}
	return b, nil
}

// Validate reports a non-finite or inverted box.
func (b BoundingVolume) Validate() error {
	lo := [3]float64{b.Min.X, b.Min.Y, b.Min.Z}
	hi := [3]float64{b.Max.X, b.Max.Y, b.Max.Z}
	for i := range lo {
		if !finite(lo[i]) || !finite(hi[i]) {
			return fmt.Errorf("bounding volume %v: non-finite coordinate", b)
		}
		if lo[i] > hi[i] {
			return fmt.Errorf("bounding volume %v: min exceeds max on axis %d", b, i)
		}
	}
	return nil
}

// Contains reports whether p lies in the box, faces included.
func (b BoundingVolume) Contains(p r3.Vec) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X &&
		b.Min.Y <= p.Y && p.Y <= b.Max.Y &&
		b.Min.Z <= p.Z && p.Z <= b.Max.Z
}

// Size returns the box extent along each axis.
func (b BoundingVolume) Size() r3.Vec { return b.Box().Size() }

// Box returns b as an r3.Box.
func (b BoundingVolume) Box() r3.Box { return r3.Box{Min: b.Min, Max: b.Max} }

func (b BoundingVolume) String() string {
	return fmt.Sprintf("north [%.2f, %.2f] east [%.2f, %.2f] alt [%.2f, %.2f]",
		b.Min.X, b.Max.X, b.Min.Y, b.Max.Y, b.Min.Z, b.Max.Z)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
