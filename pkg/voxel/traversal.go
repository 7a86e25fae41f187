package voxel

import (
	gomath "math"

	"github.com/Faultbox/voxelgrid/pkg/math"
)

// MinAxis returns the axis holding the smallest component of v.
// Ties resolve as x<y ? (x<z ? 0 : 2) : (y<z ? 1 : 2); traversal order
// depends on this exact chain.
func MinAxis(v math.Vec3) int {
	if v.X < v.Y {
		if v.X < v.Z {
			return 0
		}
		return 2
	}
	if v.Y < v.Z {
		return 1
	}
	return 2
}

// RayMarch returns the linear ids of every cell r passes through, in
// travel order. A ray that misses the box, points away from it, or has a
// zero direction yields an empty result.
func (g *Grid) RayMarch(r math.Ray) []int {
	var ids []int
	g.RayMarchFunc(r, func(id int) bool {
		ids = append(ids, id)
		return true
	})
	return ids
}

// RayMarchFunc calls visit with each cell id r passes through, in travel
// order, until visit returns false or the ray leaves the grid.
func (g *Grid) RayMarchFunc(r math.Ray, visit func(id int) bool) {
	if r.Direction.IsZero() {
		return
	}

	start := r.Origin
	if !g.IsInside(start) {
		entry, ok := g.IntersectBox(r)
		if !ok {
			return
		}
		start = entry
	}

	// Clamping covers a start exactly on a max face (floor gives dims) and
	// entry points that round to just outside the min face.
	cell := g.ClampedCellAt(start)
	rel := start.Sub(g.box.Min).Div(g.cellSize)

	speed := r.Direction.Abs()

	var (
		steps  [3]int
		final  [3]int
		deltas math.Vec3
		ts     math.Vec3
	)
	for axis := 0; axis < 3; axis++ {
		d := r.Direction.Get(axis)
		// Offset inside the (clamped) start cell, so a start on the far
		// face of the last cell counts as frac 1 rather than 0.
		frac := min(max(rel.Get(axis)-float32(cell.Get(axis)), 0), 1)

		if d >= 0 {
			steps[axis] = 1
			final[axis] = g.dims.Get(axis)
		} else {
			steps[axis] = -1
			final[axis] = -1
		}

		// A component too small to cross a cell in float32 range never
		// steps, same as zero. Inf*0 would otherwise give a NaN tMax.
		delta := g.cellSize.Get(axis) / speed.Get(axis)
		if d == 0 || gomath.IsInf(float64(delta), 1) {
			inf := float32(gomath.Inf(1))
			deltas = deltas.Set(axis, inf)
			ts = ts.Set(axis, inf)
			continue
		}

		deltas = deltas.Set(axis, delta)
		if d > 0 {
			ts = ts.Set(axis, delta*(1-frac))
		} else {
			ts = ts.Set(axis, delta*frac)
		}
	}

	for {
		if !visit(g.cellID(cell)) {
			return
		}

		axis := MinAxis(ts)
		next := cell.Get(axis) + steps[axis]
		if next == final[axis] {
			return
		}
		cell = cell.Set(axis, next)
		ts = ts.Set(axis, ts.Get(axis)+deltas.Get(axis))
	}
}
