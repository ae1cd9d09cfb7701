package collision

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Label is the outcome of classifying a point.
type Label uint8

const (
	// Feasible points lie in free space.
	Feasible Label = iota
	// Occupied points lie inside at least one obstacle.
	Occupied
)

func (l Label) String() string {
	switch l {
	case Feasible:
		return "feasible"
	case Occupied:
		return "occupied"
	}
	return fmt.Sprintf("Label(%d)", uint8(l))
}

// ParseLabel is the inverse of Label.String.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(s) {
	case "feasible":
		return Feasible, nil
	case "occupied":
		return Occupied, nil
	}
	return 0, fmt.Errorf("unknown label %q", s)
}

func (l Label) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

func (l *Label) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	v, err := ParseLabel(s)
	if err != nil {
		return err
	}
	*l = v
	return nil
}
