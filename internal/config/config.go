// Package config handles voxeltool configuration loading and management.
package config

import (
	"errors"
	"fmt"

	"github.com/Faultbox/voxelgrid/pkg/math"
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Output formats.
const (
	FormatOBJ  = "obj"
	FormatJSON = "json"
)

// Config holds all voxeltool settings.
type Config struct {
	Grid    GridConfig    `yaml:"grid"`
	Output  OutputConfig  `yaml:"output"`
	Bench   BenchConfig   `yaml:"bench"`
	Logging LoggingConfig `yaml:"logging"`
}

// GridConfig describes the voxel grid to build.
type GridConfig struct {
	Min       [3]float32 `yaml:"min"`
	Max       [3]float32 `yaml:"max"`
	Dims      [3]int     `yaml:"dims"`
	ForceCube bool       `yaml:"force_cube"`
}

// Box returns the configured bounding box.
func (g GridConfig) Box() math.AABB {
	return math.AABB{
		Min: math.Vec3{X: g.Min[0], Y: g.Min[1], Z: g.Min[2]},
		Max: math.Vec3{X: g.Max[0], Y: g.Max[1], Z: g.Max[2]},
	}
}

// Resolution returns the configured per-axis cell counts.
func (g GridConfig) Resolution() math.Vec3i {
	return math.Vec3i{X: g.Dims[0], Y: g.Dims[1], Z: g.Dims[2]}
}

// OutputConfig controls debug mesh export.
type OutputConfig struct {
	Format string `yaml:"format"` // obj or json
	Path   string `yaml:"path"`   // empty writes to stdout
}

// BenchConfig controls the parallel traversal benchmark.
type BenchConfig struct {
	Rays    int   `yaml:"rays"`
	Workers int   `yaml:"workers"` // 0 uses one worker per CPU
	Seed    int64 `yaml:"seed"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Grid: GridConfig{
			Min:  [3]float32{0, 0, 0},
			Max:  [3]float32{10, 10, 10},
			Dims: [3]int{10, 10, 10},
		},
		Output: OutputConfig{
			Format: FormatOBJ,
		},
		Bench: BenchConfig{
			Rays:    100000,
			Workers: 0,
			Seed:    1,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks settings that the grid itself does not check.
// Box and resolution errors are reported when the grid is built.
func (c *Config) Validate() error {
	switch c.Output.Format {
	case FormatOBJ, FormatJSON:
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, c.Output.Format)
	}
	if c.Bench.Rays <= 0 {
		return fmt.Errorf("%w: bench.rays must be positive, got %d", ErrInvalidConfig, c.Bench.Rays)
	}
	if c.Bench.Workers < 0 {
		return fmt.Errorf("%w: bench.workers must not be negative, got %d", ErrInvalidConfig, c.Bench.Workers)
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: unknown log level %q", ErrInvalidConfig, c.Logging.Level)
	}
	return nil
}
