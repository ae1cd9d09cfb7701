package attitude

import "fmt"

// DomainError reports a quaternion that cannot be converted because it is not
// (close enough to) a unit quaternion.
type DomainError struct {
	Op         string
	Quaternion Quaternion
	Norm       float64
	Reason     string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("attitude: %s %v: %s (norm %.6g, tolerance %g)",
		e.Op, e.Quaternion, e.Reason, e.Norm, NormTolerance)
}
