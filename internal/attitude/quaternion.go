package attitude

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/num/quat"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/aerial.sampling/internal/monitoring"
)

const (
	// NormTolerance is the largest accepted deviation of |q| from 1 before a
	// quaternion is renormalized. Beyond it conversions fail with DomainError
	// rather than silently producing a different rotation.
	NormTolerance = 1e-3

	// GimbalLockEpsilon bounds cos(pitch) at gimbal lock: below it the roll
	// and yaw atan2 arguments are rounding noise and Euler extraction folds
	// roll into yaw.
	GimbalLockEpsilon = 1e-12
)

// Quaternion is a scalar-first quaternion w + xi + yj + zk. Values produced
// by this package are unit quaternions.
type Quaternion struct {
	W float64 `json:"w" yaml:"w"`
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Identity is the zero rotation.
var Identity = Quaternion{W: 1}

// NewQuaternion validates and normalizes (w, x, y, z). It fails with a
// *DomainError when a component is not finite or the norm is more than
// NormTolerance away from 1.
func NewQuaternion(w, x, y, z float64) (Quaternion, error) {
	return Quaternion{W: w, X: x, Y: y, Z: z}.Unit()
}

// AxisQuaternion returns the unit quaternion of a rotation by angle radians
// about axis.
func AxisQuaternion(axis Axis, angle float64) (Quaternion, error) {
	if !axis.valid() {
		return Quaternion{}, fmt.Errorf("%w: %d", ErrUnknownAxis, int(axis))
	}
	return elementaryQuaternion[axis](angle), nil
}

// Multiply returns the Hamilton product q1 ⊗ q0: the rotation q0 followed by
// q1.
func Multiply(q1, q0 Quaternion) Quaternion {
	return fromNumber(quat.Mul(q1.number(), q0.number()))
}

// FromEuler converts e to the unit quaternion q_yaw ⊗ (q_pitch ⊗ q_roll).
func FromEuler(e EulerAngles) Quaternion {
	qRoll := elementaryQuaternion[Roll](e.Roll)
	qPitch := elementaryQuaternion[Pitch](e.Pitch)
	qYaw := elementaryQuaternion[Yaw](e.Yaw)
	return Multiply(qYaw, Multiply(qPitch, qRoll))
}

// Euler extracts roll, pitch and yaw from q, each in (-π, π] and pitch in
// [-π/2, π/2].
//
// At gimbal lock (cos pitch at most GimbalLockEpsilon) roll and yaw are
// coupled. Euler then returns roll = 0 and a yaw that reproduces the same
// rotation matrix; the original roll/yaw split cannot be recovered.
//
// q is renormalized first; a norm further than NormTolerance from 1 yields a
// *DomainError.
func (q Quaternion) Euler() (EulerAngles, error) {
	u, err := q.Unit()
	if err != nil {
		return EulerAngles{}, err
	}
	w, x, y, z := u.W, u.X, u.Y, u.Z

	sinPitch := clamp(2*(w*y-z*x), -1, 1)
	// cosRoll and sinRoll carry a cos(pitch) factor; their length is cos(pitch).
	sinRoll, cosRoll := 2*(w*x+y*z), 1-2*(x*x+y*y)
	cosPitch := math.Hypot(sinRoll, cosRoll)
	if cosPitch <= GimbalLockEpsilon {
		yaw := math.Atan2(2*(w*z-x*y), 1-2*(x*x+z*z))
		monitoring.Debugf("attitude: gimbal lock at cos(pitch)=%.3g, folding roll into yaw=%.6f", cosPitch, yaw)
		return EulerAngles{
			Roll:  0,
			Pitch: math.Copysign(math.Pi/2, sinPitch),
			Yaw:   WrapAngle(yaw),
		}, nil
	}

	return EulerAngles{
		Roll:  WrapAngle(math.Atan2(sinRoll, cosRoll)),
		Pitch: math.Atan2(sinPitch, cosPitch),
		Yaw:   WrapAngle(math.Atan2(2*(w*z+x*y), 1-2*(y*y+z*z))),
	}, nil
}

// Norm returns |q|.
func (q Quaternion) Norm() float64 {
	return quat.Abs(q.number())
}

// Unit returns q scaled to unit length. It fails with a *DomainError if a
// component is NaN or infinite, or if |q| is further than NormTolerance from 1.
func (q Quaternion) Unit() (Quaternion, error) {
	n := q.number()
	if quat.IsNaN(n) || quat.IsInf(n) {
		return Quaternion{}, &DomainError{Op: "normalize", Quaternion: q, Norm: math.NaN(), Reason: "non-finite component"}
	}
	norm := quat.Abs(n)
	if math.Abs(norm-1) > NormTolerance {
		return Quaternion{}, &DomainError{Op: "normalize", Quaternion: q, Norm: norm, Reason: "not a unit quaternion"}
	}
	return fromNumber(quat.Scale(1/norm, n)), nil
}

// Conjugate returns w - xi - yj - zk, the inverse rotation of a unit q.
func (q Quaternion) Conjugate() Quaternion {
	return fromNumber(quat.Conj(q.number()))
}

// Canonical returns whichever of q and -q has a non-negative scalar part.
// Both encode the same rotation.
func (q Quaternion) Canonical() Quaternion {
	if q.W < 0 {
		return Quaternion{W: -q.W, X: -q.X, Y: -q.Y, Z: -q.Z}
	}
	return q
}

// EqualApprox reports whether q and o encode the same rotation, component-wise
// within tol after resolving the q / -q ambiguity.
func (q Quaternion) EqualApprox(o Quaternion, tol float64) bool {
	a, b := q.Canonical(), o.Canonical()
	return math.Abs(a.W-b.W) <= tol && math.Abs(a.X-b.X) <= tol &&
		math.Abs(a.Y-b.Y) <= tol && math.Abs(a.Z-b.Z) <= tol
}

// Rotate applies q to v as q ⊗ v ⊗ q*.
func (q Quaternion) Rotate(v r3.Vec) r3.Vec {
	return r3.Rotation(q.number()).Rotate(v)
}

// Matrix returns the rotation matrix of q. q should be a unit quaternion.
func (q Quaternion) Matrix() *r3.Mat {
	return r3.Rotation(q.number()).Mat()
}

func (q Quaternion) String() string {
	return fmt.Sprintf("[%.3f %.3f %.3f %.3f]", q.W, q.X, q.Y, q.Z)
}

func (q Quaternion) number() quat.Number {
	return quat.Number{Real: q.W, Imag: q.X, Jmag: q.Y, Kmag: q.Z}
}

func fromNumber(n quat.Number) Quaternion {
	return Quaternion{W: n.Real, X: n.Imag, Y: n.Jmag, Z: n.Kmag}
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
