package attitude

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// Axis tags an elementary rotation.
type Axis int

const (
	// Roll rotates about the body x axis.
	Roll Axis = iota
	// Pitch rotates about the body y axis.
	Pitch
	// Yaw rotates about the body z axis.
	Yaw
)

// ErrUnknownAxis is returned for Axis values outside Roll, Pitch and Yaw.
var ErrUnknownAxis = errors.New("unknown rotation axis")

var axisNames = [...]string{"roll", "pitch", "yaw"}

func (a Axis) String() string {
	if a.valid() {
		return axisNames[a]
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

func (a Axis) valid() bool { return a >= Roll && a <= Yaw }

// ParseAxis accepts "roll", "pitch" or "yaw" (case-insensitive) and the
// single-letter forms "x", "y" and "z".
func ParseAxis(s string) (Axis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "roll", "x":
		return Roll, nil
	case "pitch", "y":
		return Pitch, nil
	case "yaw", "z":
		return Yaw, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownAxis, s)
}

// elementaryMatrix maps each axis to the constructor of its rotation matrix.
var elementaryMatrix = [...]func(angle float64) *r3.Mat{
	Roll:  rollMatrix,
	Pitch: pitchMatrix,
	Yaw:   yawMatrix,
}

// elementaryQuaternion maps each axis to the unit quaternion of a rotation by
// angle about it.
var elementaryQuaternion = [...]func(angle float64) Quaternion{
	Roll:  func(phi float64) Quaternion { s, c := math.Sincos(phi / 2); return Quaternion{W: c, X: s} },
	Pitch: func(theta float64) Quaternion { s, c := math.Sincos(theta / 2); return Quaternion{W: c, Y: s} },
	Yaw:   func(psi float64) Quaternion { s, c := math.Sincos(psi / 2); return Quaternion{W: c, Z: s} },
}

func rollMatrix(phi float64) *r3.Mat {
	s, c := math.Sincos(phi)
	return r3.NewMat([]float64{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	})
}

func pitchMatrix(theta float64) *r3.Mat {
	s, c := math.Sincos(theta)
	return r3.NewMat([]float64{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	})
}

func yawMatrix(psi float64) *r3.Mat {
	s, c := math.Sincos(psi)
	return r3.NewMat([]float64{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	})
}
