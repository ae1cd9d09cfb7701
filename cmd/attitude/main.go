// Command attitude converts between Euler angles, quaternions and rotation
// matrices.
//
//	attitude euler -roll 25 -pitch 75 -yaw 90
//	attitude quat 0.683 0.683 0.183 -0.183
//	attitude compose roll:25,pitch:75,yaw:90
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/spatial/r3"

	"github.com/banshee-data/aerial.sampling/internal/attitude"
	"github.com/banshee-data/aerial.sampling/internal/monitoring"
)

const usage = `usage:
  attitude euler [-roll deg] [-pitch deg] [-yaw deg]   Euler angles to quaternion and matrix
  attitude quat w x y z                                quaternion to Euler angles and matrix
  attitude compose axis:deg[,axis:deg...]              compose ordered rotations`

func main() {
	monitoring.SetLogger(log.Infof)
	monitoring.SetDebugLogger(log.Debugf)
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command")
	}
	switch args[0] {
	case "euler":
		return runEuler(args[1:], out)
	case "quat":
		return runQuat(args[1:], out)
	case "compose":
		return runCompose(args[1:], out)
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func runEuler(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("euler", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	roll := fs.Float64("roll", 0, "roll in degrees")
	pitch := fs.Float64("pitch", 0, "pitch in degrees")
	yaw := fs.Float64("yaw", 0, "yaw in degrees")
	if err := fs.Parse(args); err != nil {
		return err
	}

	e := attitude.EulerFromDegrees(*roll, *pitch, *yaw)
	q := attitude.FromEuler(e)
	fmt.Fprintf(out, "euler:      %s\n", e)
	fmt.Fprintf(out, "quaternion: %s\n", q)
	printMatrix(out, e.Matrix())
	return nil
}

func runQuat(args []string, out io.Writer) error {
	if len(args) != 4 {
		return fmt.Errorf("quat needs 4 components, got %d", len(args))
	}
	var c [4]float64
	for i, a := range args {
		v, err := strconv.ParseFloat(a, 64)
		if err != nil {
			return fmt.Errorf("component %d: %w", i, err)
		}
		c[i] = v
	}
	q, err := attitude.NewQuaternion(c[0], c[1], c[2], c[3])
	if err != nil {
		return err
	}
	e, err := q.Euler()
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "quaternion: %s\n", q)
	fmt.Fprintf(out, "euler:      %s\n", e)
	if e.GimbalLocked() {
		fmt.Fprintln(out, "note:       gimbal lock, roll folded into yaw")
	}
	printMatrix(out, q.Matrix())
	return nil
}

func runCompose(args []string, out io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("compose needs one step list")
	}
	steps, err := parseSteps(args[0])
	if err != nil {
		return err
	}
	m, err := attitude.Compose(steps...)
	if err != nil {
		return err
	}
	names := make([]string, len(steps))
	for i, s := range steps {
		names[i] = s.String()
	}
	fmt.Fprintf(out, "steps:      %s\n", strings.Join(names, ", "))
	printMatrix(out, m)
	return nil
}

// parseSteps reads "roll:25,pitch:75,yaw:90" into ordered degree steps.
func parseSteps(s string) ([]attitude.Step, error) {
	var steps []attitude.Step
	for i, part := range strings.Split(s, ",") {
		axisStr, degStr, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("step %d: expected axis:degrees, got %q", i+1, part)
		}
		axis, err := attitude.ParseAxis(axisStr)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		deg, err := strconv.ParseFloat(strings.TrimSpace(degStr), 64)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		steps = append(steps, attitude.StepDegrees(axis, deg))
	}
	return steps, nil
}

func printMatrix(out io.Writer, m *r3.Mat) {
	fmt.Fprintf(out, "matrix:\n%s\n", attitude.FormatMatrix(m))
	v := attitude.RotateVector(m, r3.Vec{X: 1})
	fmt.Fprintf(out, "R·x̂:        (%.4f, %.4f, %.4f)\n", v.X, v.Y, v.Z)
}
