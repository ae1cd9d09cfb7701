// Package obstacle turns survey records into immutable obstacles with
// axis-aligned rectangular footprints and a flat top, and groups them into
// ordered sets with a bounding volume for sampling.
//
// Horizontal coordinates are (north, east) in metres and map onto orb points
// as X=north, Y=east. Altitude is measured up from the ground plane.
package obstacle

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
	"gonum.org/v1/gonum/spatial/r3"
)

// Record is one surveyed obstacle: its centre and half-extents.
type Record struct {
	North  float64 `json:"north" yaml:"north"`
	East   float64 `json:"east" yaml:"east"`
	Alt    float64 `json:"alt" yaml:"alt"`
	DNorth float64 `json:"d_north" yaml:"d_north"`
	DEast  float64 `json:"d_east" yaml:"d_east"`
	DAlt   float64 `json:"d_alt" yaml:"d_alt"`
}

// Validate checks that every value is finite, every half-extent is
// non-negative and the obstacle top lies above the ground plane.
func (r Record) Validate() error {
	fields := []struct {
		name     string
		value    float64
		halfSize bool
	}{
		{"north", r.North, false},
		{"east", r.East, false},
		{"alt", r.Alt, false},
		{"d_north", r.DNorth, true},
		{"d_east", r.DEast, true},
		{"d_alt", r.DAlt, true},
	}
	for _, f := range fields {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &InvalidRecordError{Index: -1, Field: f.name, Value: f.value}
		}
		if f.halfSize && f.value < 0 {
			return &InvalidRecordError{Index: -1, Field: f.name, Value: f.value}
		}
	}
	if top := r.Alt + r.DAlt; top <= 0 {
		return &InvalidRecordError{Index: -1, Field: "height", Value: top}
	}
	return nil
}

// Obstacle is a rectangular footprint extruded from the ground up to Height.
type Obstacle struct {
	// Footprint is the closed ring (n-dn, e-de), (n-dn, e+de), (n+dn, e+de),
	// (n+dn, e-de), back to the first corner: clockwise with north on X.
	Footprint orb.Ring
	Height    float64
	Center    orb.Point

	bound orb.Bound
}

// New builds the obstacle for r after validating it.
func New(r Record) (Obstacle, error) {
	if err := r.Validate(); err != nil {
		return Obstacle{}, err
	}
	n0, n1 := r.North-r.DNorth, r.North+r.DNorth
	e0, e1 := r.East-r.DEast, r.East+r.DEast
	ring := orb.Ring{
		{n0, e0},
		{n0, e1},
		{n1, e1},
		{n1, e0},
		{n0, e0},
	}
	return Obstacle{
		Footprint: ring,
		Height:    r.Alt + r.DAlt,
		Center:    orb.Point{r.North, r.East},
		bound:     orb.Bound{Min: orb.Point{n0, e0}, Max: orb.Point{n1, e1}},
	}, nil
}

// Corners returns the four footprint corners without the closing point.
func (o Obstacle) Corners() []orb.Point {
	c := make([]orb.Point, 4)
	copy(c, o.Footprint[:4])
	return c
}

// Bound returns the footprint's axis-aligned bound.
func (o Obstacle) Bound() orb.Bound { return o.bound }

// Degenerate reports a footprint with zero width in north or east.
func (o Obstacle) Degenerate() bool {
	return o.bound.Max[0] <= o.bound.Min[0] || o.bound.Max[1] <= o.bound.Min[1]
}

// Area returns the footprint area in square metres.
func (o Obstacle) Area() float64 {
	return math.Abs(planar.Area(o.Footprint))
}

// ContainsFootprint reports whether (north, east) lies inside or on the
// footprint. Degenerate footprints contain nothing.
func (o Obstacle) ContainsFootprint(pt orb.Point) bool {
	if o.Degenerate() || !o.bound.Contains(pt) {
		return false
	}
	return planar.RingContains(o.Footprint, pt)
}

// Contains reports whether p = (north, east, alt) is inside the obstacle: its
// horizontal projection is within the footprint, boundary included, and
// p.Z <= Height.
func (o Obstacle) Contains(p r3.Vec) bool {
	if p.Z > o.Height {
		return false
	}
	return o.ContainsFootprint(orb.Point{p.X, p.Y})
}
