// voxeltool is a CLI for building voxel grids, classifying points,
// marching rays and exporting debug cell meshes.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/voxelgrid/internal/config"
	"github.com/Faultbox/voxelgrid/internal/logger"
	"github.com/Faultbox/voxelgrid/pkg/voxel"
)

var (
	flagJSON     = flag.Bool("json", false, "info: print as JSON")
	flagCell     = flag.String("cell", "", "mesh: export only the cell x,y,z")
	flagMinCount = flag.Int("min-count", 1, "bucket: minimum points for a cell to count as occupied")
	flagFit      = flag.Bool("fit", false, "bucket: fit the grid box to the point cloud bounds")
)

type command func(out io.Writer, cfg *config.Config, args []string) error

var commands = map[string]command{
	"info":   cmdInfo,
	"cell":   cmdCell,
	"id":     cmdID,
	"march":  cmdMarch,
	"mesh":   cmdMesh,
	"bucket": cmdBucket,
	"bench":  cmdBench,
	"config": cmdConfig,
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	name := os.Args[1]
	switch name {
	case "help", "-h", "--help":
		printUsage()
		return
	}

	run, ok := commands[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", name)
		printUsage()
		os.Exit(1)
	}

	if err := config.ParseFlags(os.Args[2:]); err != nil {
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}

	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(os.Stdout, cfg, config.Args()); err != nil {
		logger.Error("command failed", zap.String("command", name), zap.Error(err))
		logger.Sync()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Sync()
}

func printUsage() {
	fmt.Println(`voxeltool - uniform voxel grid utility

Usage:
  voxeltool <command> [options] [args]

Commands:
  info                      Show grid box, dims and cell size
  cell <x> <y> <z>          Classify a world position
  id <n>                    Convert a linear cell id to a coordinate
  march <ox> <oy> <oz> <dx> <dy> <dz>
                            List the cells a ray passes through, in order
  mesh                      Export the debug mesh of all cells (or -cell x,y,z)
  bucket <points-file>      Count points per cell and export occupied cells
  bench                     March random rays in parallel and report metrics
  config [path]             Save the effective config as YAML (default: user config dir)

Grid options:
  -min x,y,z -max x,y,z     Bounding box
  -dims n | nx,ny,nz        Cells per axis
  -cube | -no-cube          Force near-cubic cells
  -config path              YAML config (default ./voxeltool.yaml)

Output options:
  -format obj|json -o path  Mesh format and destination (default stdout)

Put -- before arguments that start with a minus sign.

Examples:
  voxeltool info -dims 8 -max 4,4,4
  voxeltool march -dims 10 -- 0.5 0.5 0.5 1 0 0
  voxeltool mesh -cell 1,2,3 -format json -o cell.json
  voxeltool bucket -fit -min-count 5 -o occupied.obj scan.xyz
  voxeltool config -dims 32 -cube ./voxeltool.yaml`)
}

// buildGrid constructs the configured grid.
func buildGrid(cfg *config.Config) (*voxel.Grid, error) {
	g, err := voxel.New(cfg.Grid.Box(), cfg.Grid.Resolution(), cfg.Grid.ForceCube)
	if err != nil {
		return nil, fmt.Errorf("building grid: %w", err)
	}

	logger.Named("grid").Debug("grid built",
		zap.Stringer("dims", g.Dims()),
		zap.Any("cell_size", g.CellSize()),
		zap.Int("cells", g.NumCells()),
	)
	return g, nil
}
