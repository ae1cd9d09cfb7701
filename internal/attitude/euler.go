package attitude

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/spatial/r3"
)

// EulerAngles is an orientation as roll, pitch and yaw in radians.
type EulerAngles struct {
	Roll  float64 `json:"roll" yaml:"roll"`
	Pitch float64 `json:"pitch" yaml:"pitch"`
	Yaw   float64 `json:"yaw" yaml:"yaw"`
}

// EulerFromDegrees builds EulerAngles from degree values.
func EulerFromDegrees(roll, pitch, yaw float64) EulerAngles {
	return EulerAngles{Roll: Deg2Rad(roll), Pitch: Deg2Rad(pitch), Yaw: Deg2Rad(yaw)}
}

// Degrees returns roll, pitch and yaw in degrees.
func (e EulerAngles) Degrees() (roll, pitch, yaw float64) {
	return Rad2Deg(e.Roll), Rad2Deg(e.Pitch), Rad2Deg(e.Yaw)
}

func (e EulerAngles) String() string {
	r, p, y := e.Degrees()
	return fmt.Sprintf("roll=%.3f° pitch=%.3f° yaw=%.3f°", r, p, y)
}

// Steps returns the composition sequence equivalent to e: yaw, then pitch,
// then roll about the successively rotated axes.
func (e EulerAngles) Steps() []Step {
	return []Step{
		{Axis: Yaw, Angle: e.Yaw},
		{Axis: Pitch, Angle: e.Pitch},
		{Axis: Roll, Angle: e.Roll},
	}
}

// Matrix returns Rz(yaw)·Ry(pitch)·Rx(roll).
func (e EulerAngles) Matrix() *r3.Mat {
	yp := r3.NewMat(nil)
	yp.Mul(yawMatrix(e.Yaw), pitchMatrix(e.Pitch))
	r := r3.NewMat(nil)
	r.Mul(yp, rollMatrix(e.Roll))
	return r
}

// Quaternion is shorthand for FromEuler(e).
func (e EulerAngles) Quaternion() Quaternion {
	return FromEuler(e)
}

// Wrapped returns e with every angle mapped into (-π, π].
func (e EulerAngles) Wrapped() EulerAngles {
	return EulerAngles{Roll: WrapAngle(e.Roll), Pitch: WrapAngle(e.Pitch), Yaw: WrapAngle(e.Yaw)}
}

// GimbalLocked reports whether pitch sits at ±π/2, where roll and yaw are no
// longer independently recoverable.
func (e EulerAngles) GimbalLocked() bool {
	return math.Abs(math.Cos(e.Pitch)) <= GimbalLockEpsilon
}

// EqualApprox compares wrapped angles within tol, treating π and -π as equal.
func (e EulerAngles) EqualApprox(o EulerAngles, tol float64) bool {
	return angleEqual(e.Roll, o.Roll, tol) &&
		angleEqual(e.Pitch, o.Pitch, tol) &&
		angleEqual(e.Yaw, o.Yaw, tol)
}

func angleEqual(a, b, tol float64) bool {
	d := WrapAngle(a - b)
	return scalar.EqualWithinAbs(d, 0, tol)
}

// WrapAngle maps a into (-π, π].
func WrapAngle(a float64) float64 {
	a = math.Mod(a+math.Pi, 2*math.Pi)
	if a <= 0 {
		a += 2 * math.Pi
	}
	return a - math.Pi
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(deg float64) float64 { return deg * math.Pi / 180 }

// Rad2Deg converts radians to degrees.
func Rad2Deg(rad float64) float64 { return rad * 180 / math.Pi }
