package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/banshee-data/aerial.sampling/internal/attitude"
)

func TestParseSteps(t *testing.T) {
	steps, err := parseSteps("roll:25, pitch:75,yaw:90")
	if err != nil {
		t.Fatalf("parseSteps: %v", err)
	}
	want := []attitude.Step{
		attitude.StepDegrees(attitude.Roll, 25),
		attitude.StepDegrees(attitude.Pitch, 75),
		attitude.StepDegrees(attitude.Yaw, 90),
	}
	if len(steps) != len(want) {
		t.Fatalf("got %d steps, want %d", len(steps), len(want))
	}
	for i := range want {
		if steps[i] != want[i] {
			t.Errorf("step %d = %v, want %v", i, steps[i], want[i])
		}
	}
}

func TestParseSteps_Errors(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"roll25", "step 1"},
		{"roll:25,spin:3", "step 2"},
		{"roll:abc", "step 1"},
	}
	for _, tt := range tests {
		_, err := parseSteps(tt.in)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("parseSteps(%q) error = %v, want mention of %q", tt.in, err, tt.want)
		}
	}
	_, err := parseSteps("roll:1,spin:3")
	if !errors.Is(err, attitude.ErrUnknownAxis) {
		t.Errorf("expected ErrUnknownAxis, got %v", err)
	}
}

func TestRun_Compose(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"compose", "roll:25,pitch:75,yaw:90"}, &out); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	for _, want := range []string{"steps:", "matrix:", "(0.0000, 0.9063, 0.4226)"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRun_EulerAndQuat(t *testing.T) {
	var out bytes.Buffer
	if err := run([]string{"euler", "-roll", "90", "-pitch", "0", "-yaw", "0"}, &out); err != nil {
		t.Fatalf("euler: %v", err)
	}
	if !strings.Contains(out.String(), "quaternion:") {
		t.Errorf("euler output missing quaternion:\n%s", out.String())
	}

	out.Reset()
	if err := run([]string{"quat", "0.7071067811865476", "0", "0.7071067811865476", "0"}, &out); err != nil {
		t.Fatalf("quat: %v", err)
	}
	if !strings.Contains(out.String(), "gimbal lock") {
		t.Errorf("pitch 90° should report gimbal lock:\n%s", out.String())
	}
}

func TestRun_Errors(t *testing.T) {
	cases := [][]string{
		nil,
		{"spin"},
		{"quat", "1", "0"},
		{"quat", "2", "0", "0", "0"},
		{"compose"},
		{"euler", "-bogus", "1"},
	}
	for _, args := range cases {
		if err := run(args, &bytes.Buffer{}); err == nil {
			t.Errorf("run(%q) expected error", args)
		}
	}
}
