package attitude

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r3"
)

// OrthonormalTolerance is the default tolerance used by IsRotation.
const OrthonormalTolerance = 1e-9

// Step is one elementary rotation in a composition.
type Step struct {
	Axis  Axis
	Angle float64 // radians
}

// StepDegrees builds a Step from an angle in degrees.
func StepDegrees(axis Axis, degrees float64) Step {
	return Step{Axis: axis, Angle: Deg2Rad(degrees)}
}

func (s Step) String() string {
	return fmt.Sprintf("%s %.3f°", s.Axis, Rad2Deg(s.Angle))
}

// RotationMatrix returns the elementary rotation of angle radians about axis.
// RotationMatrix(axis, 0) is the identity and the transpose of
// RotationMatrix(axis, θ) equals RotationMatrix(axis, -θ).
func RotationMatrix(axis Axis, angle float64) (*r3.Mat, error) {
	if !axis.valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAxis, int(axis))
	}
	return elementaryMatrix[axis](angle), nil
}

// Compose multiplies the elementary rotations of steps in the order given,
// R = R(steps[0])·R(steps[1])·…, i.e. each step rotates about the body axes
// left by the steps before it. An empty sequence yields the identity.
//
// Composition is not commutative: permuting steps generally changes R.
func Compose(steps ...Step) (*r3.Mat, error) {
	r := r3.Eye()
	for i, s := range steps {
		e, err := RotationMatrix(s.Axis, s.Angle)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		next := r3.NewMat(nil)
		next.Mul(r, e)
		r = next
	}
	return r, nil
}

// RotateVector returns m·v.
func RotateVector(m *r3.Mat, v r3.Vec) r3.Vec {
	return m.MulVec(v)
}

// IsRotation reports whether m is orthonormal (mᵀ·m = I) with determinant +1,
// each within tol.
func IsRotation(m *r3.Mat, tol float64) bool {
	if m == nil {
		return false
	}
	if math.Abs(m.Det()-1) > tol {
		return false
	}
	gram := r3.NewMat(nil)
	gram.Mul(m.T(), m)
	return mat.EqualApprox(gram, r3.Eye(), tol)
}

// EqualMatrices reports whether a and b agree element-wise within tol.
func EqualMatrices(a, b mat.Matrix, tol float64) bool {
	return mat.EqualApprox(a, b, tol)
}

// FormatMatrix renders m one row per line with three decimals, matching the
// precision used when comparing composed matrices by eye.
func FormatMatrix(m mat.Matrix) string {
	return fmt.Sprintf("%.3f", mat.Formatted(m, mat.Squeeze()))
}
