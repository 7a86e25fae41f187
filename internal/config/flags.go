package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
)

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagLogFile = flag.String("log-file", "", "Also write logs to this file")
	flagMin     = flag.String("min", "", "Grid box min corner as x,y,z")
	flagMax     = flag.String("max", "", "Grid box max corner as x,y,z")
	flagDims    = flag.String("dims", "", "Cells per axis as nx,ny,nz or a single n")
	flagCube    = flag.Bool("cube", false, "Force near-cubic cells")
	flagNoCube  = flag.Bool("no-cube", false, "Keep the requested cell counts")
	flagFormat  = flag.String("format", "", "Mesh output format (obj, json)")
	flagOut     = flag.String("o", "", "Mesh output path")
	flagRays    = flag.Int("rays", 0, "Number of rays for bench")
	flagWorkers = flag.Int("workers", -1, "Bench workers (0 = one per CPU)")
	flagSeed    = flag.Int64("seed", 0, "Bench random seed")
)

// ParseFlags parses command-line flags from args (without the program
// name and subcommand).
func ParseFlags(args []string) error {
	return flag.CommandLine.Parse(args)
}

// Args returns the positional arguments left after flag parsing.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) error {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagLogFile != "" {
		cfg.Logging.LogFile = *flagLogFile
	}
	if *flagMin != "" {
		v, err := ParseVec3(*flagMin)
		if err != nil {
			return fmt.Errorf("-min: %w", err)
		}
		cfg.Grid.Min = v
	}
	if *flagMax != "" {
		v, err := ParseVec3(*flagMax)
		if err != nil {
			return fmt.Errorf("-max: %w", err)
		}
		cfg.Grid.Max = v
	}
	if *flagDims != "" {
		d, err := ParseDims(*flagDims)
		if err != nil {
			return fmt.Errorf("-dims: %w", err)
		}
		cfg.Grid.Dims = d
	}
	if *flagCube {
		cfg.Grid.ForceCube = true
	}
	if *flagNoCube {
		cfg.Grid.ForceCube = false
	}
	if *flagFormat != "" {
		cfg.Output.Format = strings.ToLower(*flagFormat)
	}
	if *flagOut != "" {
		cfg.Output.Path = *flagOut
	}
	if *flagRays > 0 {
		cfg.Bench.Rays = *flagRays
	}
	if *flagWorkers >= 0 {
		cfg.Bench.Workers = *flagWorkers
	}
	if *flagSeed != 0 {
		cfg.Bench.Seed = *flagSeed
	}
	return nil
}

// ParseVec3 parses "x,y,z".
func ParseVec3(s string) ([3]float32, error) {
	var v [3]float32
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return v, fmt.Errorf("expected x,y,z, got %q", s)
	}
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 32)
		if err != nil {
			return v, fmt.Errorf("component %d: %w", i, err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

// ParseDims parses "nx,ny,nz", or "n" for the same count on every axis.
func ParseDims(s string) ([3]int, error) {
	var d [3]int
	parts := strings.Split(s, ",")
	if len(parts) == 1 {
		parts = []string{parts[0], parts[0], parts[0]}
	}
	if len(parts) != 3 {
		return d, fmt.Errorf("expected n or nx,ny,nz, got %q", s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return d, fmt.Errorf("component %d: %w", i, err)
		}
		d[i] = n
	}
	return d, nil
}
