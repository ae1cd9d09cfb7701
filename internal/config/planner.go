package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/banshee-data/aerial.sampling/internal/attitude"
	"github.com/banshee-data/aerial.sampling/internal/obstacle"
)

// DefaultConfigPath is the path to the canonical planner defaults file.
const DefaultConfigPath = "config/planner.defaults.json"

// Obstacle index kinds accepted by the "index" field.
const (
	IndexLinear = "linear"
	IndexGrid   = "grid"
	IndexRTree  = "rtree"
)

// Defaults used when a field is absent.
const (
	DefaultSampleCount  = 1000
	DefaultZCap         = obstacle.DefaultCeiling
	DefaultIndex        = IndexLinear
	DefaultGridCellSize = 10.0
	DefaultWorkers      = 1
)

// PlannerConfig is the configuration of a sampling run. Every field is a
// pointer so partial files leave the rest at their defaults; use the Get*
// accessors to read effective values.
type PlannerConfig struct {
	SampleCount  *int     `json:"sample_count,omitempty" yaml:"sample_count,omitempty"`
	ZCap         *float64 `json:"z_cap,omitempty" yaml:"z_cap,omitempty"`
	Seed         *uint64  `json:"seed,omitempty" yaml:"seed,omitempty"` // 0 derives a seed from the start time
	Index        *string  `json:"index,omitempty" yaml:"index,omitempty"`
	GridCellSize *float64 `json:"grid_cell_size,omitempty" yaml:"grid_cell_size,omitempty"`
	Workers      *int     `json:"workers,omitempty" yaml:"workers,omitempty"`

	// Bounds overrides the volume derived from the obstacles. It is required
	// when the obstacle set is empty.
	Bounds *Volume `json:"bounds,omitempty" yaml:"bounds,omitempty"`

	// Vehicle switches classification from bare points to body-frame probes
	// around each sample.
	Vehicle *VehicleConfig `json:"vehicle,omitempty" yaml:"vehicle,omitempty"`
}

// Volume is an explicit sampling box as [north, east, alt] triples.
type Volume struct {
	Min [3]float64 `json:"min" yaml:"min"`
	Max [3]float64 `json:"max" yaml:"max"`
}

// BoundingVolume converts v after validating it.
func (v Volume) BoundingVolume() (obstacle.BoundingVolume, error) {
	return obstacle.NewBoundingVolume(
		r3.Vec{X: v.Min[0], Y: v.Min[1], Z: v.Min[2]},
		r3.Vec{X: v.Max[0], Y: v.Max[1], Z: v.Max[2]},
	)
}

// VehicleConfig fixes the attitude and probe offsets used for vehicle
// clearance checks. Angles are in degrees; probes are [forward, right, down]
// offsets in metres.
type VehicleConfig struct {
	RollDeg  float64      `json:"roll_deg" yaml:"roll_deg"`
	PitchDeg float64      `json:"pitch_deg" yaml:"pitch_deg"`
	YawDeg   float64      `json:"yaw_deg" yaml:"yaw_deg"`
	Probes   [][3]float64 `json:"probes" yaml:"probes"`
}

// Attitude returns the configured orientation as a unit quaternion.
func (v VehicleConfig) Attitude() attitude.Quaternion {
	return attitude.EulerFromDegrees(v.RollDeg, v.PitchDeg, v.YawDeg).Quaternion()
}

// ProbeOffsets returns the probes as body-frame vectors.
func (v VehicleConfig) ProbeOffsets() []r3.Vec {
	out := make([]r3.Vec, len(v.Probes))
	for i, p := range v.Probes {
		out[i] = r3.Vec{X: p[0], Y: p[1], Z: p[2]}
	}
	return out
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrInt(v int) *int             { return &v }
func ptrString(v string) *string    { return &v }
func ptrUint64(v uint64) *uint64    { return &v }

// EmptyPlannerConfig returns a PlannerConfig with every field unset.
func EmptyPlannerConfig() *PlannerConfig {
	return &PlannerConfig{}
}

// DefaultPlannerConfig returns a PlannerConfig with every scalar field set to
// its default.
func DefaultPlannerConfig() *PlannerConfig {
	return &PlannerConfig{
		SampleCount:  ptrInt(DefaultSampleCount),
		ZCap:         ptrFloat64(DefaultZCap),
		Seed:         ptrUint64(0),
		Index:        ptrString(DefaultIndex),
		GridCellSize: ptrFloat64(DefaultGridCellSize),
		Workers:      ptrInt(DefaultWorkers),
	}
}

// LoadPlannerConfig loads a PlannerConfig from a .json, .yaml or .yml file of
// at most 1 MB. Fields omitted from the file keep their defaults.
func LoadPlannerConfig(path string) (*PlannerConfig, error) {
	cleanPath := filepath.Clean(path)
	ext := strings.ToLower(filepath.Ext(cleanPath))
	switch ext {
	case ".json", ".yaml", ".yml":
	default:
		return nil, fmt.Errorf("config file must have .json, .yaml or .yml extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyPlannerConfig()
	if ext == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config JSON: %w", err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config YAML: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// MustLoadDefaultConfig loads DefaultConfigPath from the current directory or
// one of its parents. It panics if the file cannot be loaded and is intended
// for tests and command defaults.
func MustLoadDefaultConfig() *PlannerConfig {
	candidates := []string{
		DefaultConfigPath,
		"../" + DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/obstacle/colliders/
	}
	for _, path := range candidates {
		if cfg, err := LoadPlannerConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run from repository root")
}

// Validate checks the fields that are set.
func (c *PlannerConfig) Validate() error {
	if c.SampleCount != nil && *c.SampleCount < 0 {
		return fmt.Errorf("sample_count must be non-negative, got %d", *c.SampleCount)
	}
	if c.ZCap != nil && (!(*c.ZCap > 0) || math.IsInf(*c.ZCap, 0)) {
		return fmt.Errorf("z_cap must be positive, got %g", *c.ZCap)
	}
	if c.Index != nil {
		switch *c.Index {
		case IndexLinear, IndexGrid, IndexRTree:
		default:
			return fmt.Errorf("index must be one of %q, %q or %q, got %q", IndexLinear, IndexGrid, IndexRTree, *c.Index)
		}
	}
	if c.GridCellSize != nil && (!(*c.GridCellSize > 0) || math.IsInf(*c.GridCellSize, 0)) {
		return fmt.Errorf("grid_cell_size must be positive, got %g", *c.GridCellSize)
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", *c.Workers)
	}
	if c.Bounds != nil {
		if _, err := c.Bounds.BoundingVolume(); err != nil {
			return fmt.Errorf("bounds: %w", err)
		}
	}
	if c.Vehicle != nil {
		for i, p := range c.Vehicle.Probes {
			for _, v := range p {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					return fmt.Errorf("vehicle probe %d is not finite", i)
				}
			}
		}
	}
	return nil
}

// GetSampleCount returns sample_count or the default.
func (c *PlannerConfig) GetSampleCount() int {
	if c.SampleCount == nil {
		return DefaultSampleCount
	}
	return *c.SampleCount
}

// GetZCap returns z_cap or the default.
func (c *PlannerConfig) GetZCap() float64 {
	if c.ZCap == nil {
		return DefaultZCap
	}
	return *c.ZCap
}

// GetSeed returns seed, or 0 when unset.
func (c *PlannerConfig) GetSeed() uint64 {
	if c.Seed == nil {
		return 0
	}
	return *c.Seed
}

// GetIndex returns index or the default.
func (c *PlannerConfig) GetIndex() string {
	if c.Index == nil || *c.Index == "" {
		return DefaultIndex
	}
	return *c.Index
}

// GetGridCellSize returns grid_cell_size or the default.
func (c *PlannerConfig) GetGridCellSize() float64 {
	if c.GridCellSize == nil {
		return DefaultGridCellSize
	}
	return *c.GridCellSize
}

// GetWorkers returns workers or the default.
func (c *PlannerConfig) GetWorkers() int {
	if c.Workers == nil {
		return DefaultWorkers
	}
	return *c.Workers
}

// SetSampleCount overrides sample_count, e.g. from a command-line flag.
func (c *PlannerConfig) SetSampleCount(v int) { c.SampleCount = ptrInt(v) }

// SetZCap overrides z_cap.
func (c *PlannerConfig) SetZCap(v float64) { c.ZCap = ptrFloat64(v) }

// SetSeed overrides seed.
func (c *PlannerConfig) SetSeed(v uint64) { c.Seed = ptrUint64(v) }

// SetIndex overrides index.
func (c *PlannerConfig) SetIndex(v string) { c.Index = ptrString(v) }

// SetWorkers overrides workers.
func (c *PlannerConfig) SetWorkers(v int) { c.Workers = ptrInt(v) }
