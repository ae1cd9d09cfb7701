package obstacle

import (
	"errors"
	"fmt"
)

// ErrInvalidCeiling is returned when a sampling ceiling is not a positive,
// finite altitude.
var ErrInvalidCeiling = errors.New("sampling ceiling must be positive and finite")

// InvalidRecordError reports a record rejected at build time. Index is the
// record's position in the input, or -1 when the record was validated alone.
type InvalidRecordError struct {
	Index int
	Field string
	Value float64
}

func (e *InvalidRecordError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid obstacle record: %s=%g", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid obstacle record %d: %s=%g", e.Index, e.Field, e.Value)
}

// EmptyObstacleSetError reports an operation that needs at least one
// obstacle, such as deriving a bounding volume. Callers can recover by
// supplying an explicit volume.
type EmptyObstacleSetError struct {
	Op string
}

func (e *EmptyObstacleSetError) Error() string {
	return fmt.Sprintf("%s: obstacle set is empty", e.Op)
}
