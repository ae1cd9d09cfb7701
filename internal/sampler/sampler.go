// Package sampler draws uniformly distributed points from a bounding volume.
//
// All randomness comes from the rand.Source handed to the Sampler; nothing in
// this package touches the global generator, so equal seeds reproduce equal
// sample sequences.
package sampler

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/spatial/r3"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/banshee-data/aerial.sampling/internal/obstacle"
)

var (
	// ErrNegativeCount is returned when fewer than zero samples are requested.
	ErrNegativeCount = errors.New("sample count must not be negative")
	// ErrInvalidBounds is returned for a non-finite or inverted volume.
	ErrInvalidBounds = errors.New("invalid sampling bounds")
)

// pcgStream is the fixed PCG increment paired with the caller's seed.
const pcgStream = 0x9e3779b97f4a7c15

// Sampler draws points from a single random source. It is not safe for
// concurrent use.
type Sampler struct {
	src rand.Source
}

// New returns a Sampler drawing from src.
func New(src rand.Source) *Sampler {
	return &Sampler{src: src}
}

// NewSeeded returns a Sampler over a PCG generator seeded with seed.
func NewSeeded(seed uint64) *Sampler {
	return New(rand.NewPCG(seed, pcgStream))
}

// Sample draws count points with each coordinate independently uniform over
// the corresponding axis of bounds. The x coordinates of all points are drawn
// first, then y, then z. count == 0 yields an empty, non-nil slice.
func (s *Sampler) Sample(bounds obstacle.BoundingVolume, count int) ([]r3.Vec, error) {
	if count < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeCount, count)
	}
	if err := bounds.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidBounds, err)
	}

	samples := make([]r3.Vec, count)
	if count == 0 {
		return samples, nil
	}

	x := s.uniform(bounds.Min.X, bounds.Max.X)
	for i := range samples {
		samples[i].X = draw(x)
	}
	y := s.uniform(bounds.Min.Y, bounds.Max.Y)
	for i := range samples {
		samples[i].Y = draw(y)
	}
	z := s.uniform(bounds.Min.Z, bounds.Max.Z)
	for i := range samples {
		samples[i].Z = draw(z)
	}
	return samples, nil
}

// Sample is a convenience for NewSeeded(seed).Sample(bounds, count).
func Sample(bounds obstacle.BoundingVolume, count int, seed uint64) ([]r3.Vec, error) {
	return NewSeeded(seed).Sample(bounds, count)
}

func (s *Sampler) uniform(min, max float64) distuv.Uniform {
	return distuv.Uniform{Min: min, Max: max, Src: s.src}
}

// draw keeps rounding in rnd*(max-min)+min from stepping past max.
func draw(u distuv.Uniform) float64 {
	return math.Min(u.Rand(), u.Max)
}
