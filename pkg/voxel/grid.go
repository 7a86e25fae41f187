// Package voxel provides a uniform voxel grid over an axis-aligned box.
//
// A Grid maps world positions to integer cell coordinates and linear cell
// ids, enumerates the cells a ray crosses in travel order (3D DDA), and
// generates debug line meshes for one, all, or a filtered subset of cells.
// A Grid is immutable after New returns, so every query is safe for
// concurrent use. Per-cell payload lives in a separate Storage that holds a
// reference to its Grid.
//
// Linear ids are row-major with z varying fastest:
//
//	id = x*(ny*nz) + y*nz + z
package voxel

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/voxelgrid/pkg/math"
)

// Grid errors.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrOutOfRange      = errors.New("cell out of range")
)

// Grid is a uniform partition of a bounding box into dims.X*dims.Y*dims.Z cells.
type Grid struct {
	box      math.AABB
	dims     math.Vec3i
	cellSize math.Vec3
	template Mesh
}

// NewUniformGrid creates a grid with n cells requested on every axis.
func NewUniformGrid(box math.AABB, n int, forceCube bool) (*Grid, error) {
	return New(box, math.Vec3i{X: n, Y: n, Z: n}, forceCube)
}

// New creates a grid over box with the requested per-axis cell counts.
//
// With forceCube set, the counts are recomputed so that cells are as close
// to cubic as integer counts allow: the largest requested cell extent is
// kept and every axis gets round(size/extent) cells (at least one). The box
// itself is never changed.
func New(box math.AABB, dims math.Vec3i, forceCube bool) (*Grid, error) {
	size := box.Size()
	if !box.Valid() {
		return nil, fmt.Errorf("%w: box extent %v must be positive on every axis", ErrInvalidArgument, size)
	}
	if dims.X <= 0 || dims.Y <= 0 || dims.Z <= 0 {
		return nil, fmt.Errorf("%w: cell counts %v must be positive", ErrInvalidArgument, dims)
	}

	if forceCube {
		extent := size.Div(dims.ToVec3()).MaxComponent()
		for axis := 0; axis < 3; axis++ {
			n := int(gomath.Round(float64(size.Get(axis) / extent)))
			dims = dims.Set(axis, max(n, 1))
		}
	}

	g := &Grid{
		box:      box,
		dims:     dims,
		cellSize: size.Div(dims.ToVec3()),
	}
	g.template = newCellTemplate(box.Min, g.cellSize)
	return g, nil
}

// Box returns the bounding box.
func (g *Grid) Box() math.AABB { return g.box }

// Dims returns the number of cells per axis.
func (g *Grid) Dims() math.Vec3i { return g.dims }

// CellSize returns the world-space extent of one cell.
func (g *Grid) CellSize() math.Vec3 { return g.cellSize }

// NumCells returns dims.X*dims.Y*dims.Z.
func (g *Grid) NumCells() int { return g.dims.Prod() }

// IsInside reports whether pos lies in the bounding box, faces included.
func (g *Grid) IsInside(pos math.Vec3) bool {
	return g.box.Contains(pos)
}

// ValidCell reports whether every coordinate of c is in [0, dims).
func (g *Grid) ValidCell(c math.Vec3i) bool {
	return c.X >= 0 && c.X < g.dims.X &&
		c.Y >= 0 && c.Y < g.dims.Y &&
		c.Z >= 0 && c.Z < g.dims.Z
}

// CellID returns the linear id of c.
func (g *Grid) CellID(c math.Vec3i) (int, error) {
	if !g.ValidCell(c) {
		return 0, fmt.Errorf("%w: cell %v not in dims %v", ErrOutOfRange, c, g.dims)
	}
	return g.cellID(c), nil
}

func (g *Grid) cellID(c math.Vec3i) int {
	return c.X*(g.dims.Y*g.dims.Z) + c.Y*g.dims.Z + c.Z
}

// Cell returns the coordinate of the linear id.
func (g *Grid) Cell(id int) (math.Vec3i, error) {
	if id < 0 || id >= g.NumCells() {
		return math.Vec3i{}, fmt.Errorf("%w: id %d not in [0, %d)", ErrOutOfRange, id, g.NumCells())
	}
	return g.cell(id), nil
}

func (g *Grid) cell(id int) math.Vec3i {
	plane := g.dims.Y * g.dims.Z
	rem := id % plane
	return math.Vec3i{X: id / plane, Y: rem / g.dims.Z, Z: rem % g.dims.Z}
}

// CellAt returns floor((pos - box.Min) / cellSize). The result is not
// clamped: positions outside the box give coordinates outside [0, dims),
// and a position on a max face gives dims on that axis. Use IsInside or
// ValidCell to check, or ClampedCellAt.
func (g *Grid) CellAt(pos math.Vec3) math.Vec3i {
	return math.FloorToVec3i(pos.Sub(g.box.Min).Div(g.cellSize))
}

// ClampedCellAt is CellAt with every coordinate clamped into [0, dims-1].
// Points on a max face land in the last cell.
func (g *Grid) ClampedCellAt(pos math.Vec3) math.Vec3i {
	return g.clamp(g.CellAt(pos))
}

func (g *Grid) clamp(c math.Vec3i) math.Vec3i {
	return math.Vec3i{
		X: min(max(c.X, 0), g.dims.X-1),
		Y: min(max(c.Y, 0), g.dims.Y-1),
		Z: min(max(c.Z, 0), g.dims.Z-1),
	}
}

// CellCenter returns box.Min + (c + 0.5) * cellSize.
func (g *Grid) CellCenter(c math.Vec3i) math.Vec3 {
	return g.box.Min.Add(c.ToVec3().Add(math.Splat(0.5)).Mul(g.cellSize))
}

// CellBox returns the world-space box covered by c.
func (g *Grid) CellBox(c math.Vec3i) math.AABB {
	lo := g.box.Min.Add(c.ToVec3().Mul(g.cellSize))
	return math.AABB{Min: lo, Max: lo.Add(g.cellSize)}
}

// IntersectBox returns the point where r enters the bounding box. It
// reports false when the box is entirely behind the ray or missed. For a
// ray starting inside the box the returned point lies behind the origin.
func (g *Grid) IntersectBox(r math.Ray) (math.Vec3, bool) {
	nearT, ok := g.box.IntersectRay(r)
	if !ok {
		return math.Vec3{}, false
	}
	return r.At(nearT), true
}
