package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/segmentio/encoding/json"
	"go.uber.org/zap"

	"github.com/Faultbox/voxelgrid/internal/config"
	"github.com/Faultbox/voxelgrid/internal/logger"
	"github.com/Faultbox/voxelgrid/internal/meshio"
	"github.com/Faultbox/voxelgrid/internal/pointcloud"
	"github.com/Faultbox/voxelgrid/pkg/math"
	"github.com/Faultbox/voxelgrid/pkg/voxel"
)

var errUsage = errors.New("usage")

type gridInfo struct {
	Min      [3]float32 `json:"min"`
	Max      [3]float32 `json:"max"`
	Center   [3]float32 `json:"center"`
	Dims     [3]int     `json:"dims"`
	CellSize [3]float32 `json:"cell_size"`
	Cells    int        `json:"cells"`
}

func newGridInfo(g *voxel.Grid) gridInfo {
	box, d, cs := g.Box(), g.Dims(), g.CellSize()
	c := box.Center()
	return gridInfo{
		Min:      [3]float32{box.Min.X, box.Min.Y, box.Min.Z},
		Max:      [3]float32{box.Max.X, box.Max.Y, box.Max.Z},
		Center:   [3]float32{c.X, c.Y, c.Z},
		Dims:     [3]int{d.X, d.Y, d.Z},
		CellSize: [3]float32{cs.X, cs.Y, cs.Z},
		Cells:    g.NumCells(),
	}
}

func cmdInfo(out io.Writer, cfg *config.Config, _ []string) error {
	g, err := buildGrid(cfg)
	if err != nil {
		return err
	}

	info := newGridInfo(g)
	if *flagJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "Box:       %v - %v\n", info.Min, info.Max)
	fmt.Fprintf(out, "Center:    %v\n", info.Center)
	fmt.Fprintf(out, "Dims:      %s\n", g.Dims())
	fmt.Fprintf(out, "Cell size: %v\n", info.CellSize)
	fmt.Fprintf(out, "Cells:     %d\n", info.Cells)
	if cfg.Grid.ForceCube {
		fmt.Fprintf(out, "Requested: %s (force cube)\n", cfg.Grid.Resolution())
	}
	return nil
}

func cmdCell(out io.Writer, cfg *config.Config, args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("%w: voxeltool cell <x> <y> <z>", errUsage)
	}
	v, err := parseFloats(args)
	if err != nil {
		return err
	}
	pos := math.Vec3{X: v[0], Y: v[1], Z: v[2]}

	g, err := buildGrid(cfg)
	if err != nil {
		return err
	}

	raw := g.CellAt(pos)
	fmt.Fprintf(out, "Position: (%g, %g, %g)\n", pos.X, pos.Y, pos.Z)
	fmt.Fprintf(out, "Inside:   %t\n", g.IsInside(pos))
	fmt.Fprintf(out, "Cell:     %s\n", raw)

	if id, err := g.CellID(raw); err == nil {
		fmt.Fprintf(out, "ID:       %d\n", id)
	} else {
		fmt.Fprintf(out, "ID:       none (%v)\n", err)
	}

	clamped := g.ClampedCellAt(pos)
	if clamped != raw {
		fmt.Fprintf(out, "Clamped:  %s\n", clamped)
	}
	center := g.CellCenter(clamped)
	fmt.Fprintf(out, "Center:   (%g, %g, %g)\n", center.X, center.Y, center.Z)
	fmt.Fprintf(out, "Offset:   %g\n", pos.Distance(center))
	return nil
}

func cmdID(out io.Writer, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: voxeltool id <n>", errUsage)
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid id %q: %w", args[0], err)
	}

	g, err := buildGrid(cfg)
	if err != nil {
		return err
	}

	c, err := g.Cell(id)
	if err != nil {
		return err
	}
	box := g.CellBox(c)
	fmt.Fprintf(out, "Cell: %s\n", c)
	fmt.Fprintf(out, "Box:  (%g, %g, %g) - (%g, %g, %g)\n",
		box.Min.X, box.Min.Y, box.Min.Z, box.Max.X, box.Max.Y, box.Max.Z)
	return nil
}

func cmdMarch(out io.Writer, cfg *config.Config, args []string) error {
	if len(args) != 6 {
		return fmt.Errorf("%w: voxeltool march <ox> <oy> <oz> <dx> <dy> <dz>", errUsage)
	}
	v, err := parseFloats(args)
	if err != nil {
		return err
	}
	ray := math.NewRay(math.Vec3{X: v[0], Y: v[1], Z: v[2]}, math.Vec3{X: v[3], Y: v[4], Z: v[5]})

	g, err := buildGrid(cfg)
	if err != nil {
		return err
	}

	ids := g.RayMarch(ray)
	logger.Named("march").Debug("ray marched",
		zap.Any("origin", ray.Origin),
		zap.Any("direction", ray.Direction),
		zap.Int("cells", len(ids)),
	)

	fmt.Fprintf(out, "%d cells\n", len(ids))
	for _, id := range ids {
		c, _ := g.Cell(id)
		fmt.Fprintf(out, "%d\t%s\n", id, c)
	}
	return nil
}

func cmdMesh(out io.Writer, cfg *config.Config, _ []string) error {
	g, err := buildGrid(cfg)
	if err != nil {
		return err
	}

	var m voxel.Mesh
	if *flagCell != "" {
		c, err := parseCell(*flagCell)
		if err != nil {
			return err
		}
		if !g.ValidCell(c) {
			return fmt.Errorf("%w: cell %s outside dims %s", voxel.ErrOutOfRange, c, g.Dims())
		}
		m = g.CellMesh(c)
	} else {
		m = g.AllCellsMesh()
	}

	return writeMesh(out, cfg.Output, m)
}

func cmdBucket(out io.Writer, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: voxeltool bucket <points-file>", errUsage)
	}
	log := logger.Named("bucket")

	points, err := pointcloud.ReadFile(args[0])
	if err != nil {
		return err
	}

	if *flagFit {
		box, err := pointcloud.Bounds(points)
		if err != nil {
			return err
		}
		cfg.Grid.Min = [3]float32{box.Min.X, box.Min.Y, box.Min.Z}
		cfg.Grid.Max = [3]float32{box.Max.X, box.Max.Y, box.Max.Z}
	}

	g, err := buildGrid(cfg)
	if err != nil {
		return err
	}

	counts, outside := bucketPoints(g, points)
	log.Info("points bucketed",
		zap.Int("points", len(points)),
		zap.Int("outside", outside),
		zap.Stringer("dims", g.Dims()),
	)

	minCount := *flagMinCount
	occupied := func(n int) bool { return n >= minCount }
	ids := counts.SelectIDs(occupied)

	fmt.Fprintf(out, "%d points, %d outside, %d cells with >= %d points\n",
		len(points), outside, len(ids), minCount)
	for _, id := range ids {
		n, _ := counts.At(id)
		c, _ := g.Cell(id)
		fmt.Fprintf(out, "%d\t%s\t%d\n", id, c, *n)
	}

	if cfg.Output.Path == "" {
		return nil
	}
	return writeMesh(out, cfg.Output, voxel.FilteredMesh(counts, occupied))
}

// bucketPoints counts the points that fall in each cell and returns the
// number of points outside the grid box.
func bucketPoints(g *voxel.Grid, points []math.Vec3) (*voxel.Storage[int], int) {
	counts := voxel.NewStorage[int](g)
	outside := 0
	for _, p := range points {
		if !g.IsInside(p) {
			outside++
			continue
		}
		// Points on the max faces belong to the last cell.
		n, err := counts.AtCell(g.ClampedCellAt(p))
		if err != nil {
			outside++
			continue
		}
		*n++
	}
	return counts, outside
}

func writeMesh(out io.Writer, oc config.OutputConfig, m voxel.Mesh) error {
	if oc.Path == "" {
		return meshio.Encode(out, oc.Format, m)
	}

	if err := meshio.Write(oc.Path, oc.Format, m); err != nil {
		return fmt.Errorf("writing %s: %w", oc.Path, err)
	}
	logger.Info("mesh written",
		zap.String("path", oc.Path),
		zap.String("format", oc.Format),
		zap.Int("vertices", m.VertexCount()),
		zap.Int("triangles", m.TriangleCount()),
	)
	return nil
}

func parseFloats(args []string) ([]float32, error) {
	out := make([]float32, len(args))
	for i, a := range args {
		f, err := strconv.ParseFloat(a, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q: %w", a, err)
		}
		out[i] = float32(f)
	}
	return out, nil
}

func parseCell(s string) (math.Vec3i, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return math.Vec3i{}, fmt.Errorf("expected x,y,z, got %q", s)
	}
	var c math.Vec3i
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return math.Vec3i{}, fmt.Errorf("invalid cell component %q: %w", p, err)
		}
		c = c.Set(i, n)
	}
	return c, nil
}

// cmdConfig writes the effective config (defaults < file < flags) as YAML,
// to the given path or to the user's config directory.
func cmdConfig(out io.Writer, cfg *config.Config, args []string) error {
	var path string
	switch len(args) {
	case 0:
		path = filepath.Join(config.ConfigDir(), config.FileName)
		if err := cfg.Save(); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	case 1:
		path = args[0]
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
	default:
		return fmt.Errorf("%w: voxeltool config [path]", errUsage)
	}

	logger.Info("config saved", zap.String("path", path))
	fmt.Fprintf(out, "Saved %s\n", path)
	return nil
}
