package math

import gomath "math"

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min Vec3
	Max Vec3
}

// NewAABB creates an AABB from min and max corners, swapping per axis so
// that Min <= Max.
func NewAABB(lo, hi Vec3) AABB {
	box := AABB{Min: lo, Max: hi}
	if box.Min.X > box.Max.X {
		box.Min.X, box.Max.X = box.Max.X, box.Min.X
	}
	if box.Min.Y > box.Max.Y {
		box.Min.Y, box.Max.Y = box.Max.Y, box.Min.Y
	}
	if box.Min.Z > box.Max.Z {
		box.Min.Z, box.Max.Z = box.Max.Z, box.Min.Z
	}
	return box
}

// Size returns Max - Min.
func (b AABB) Size() Vec3 {
	return b.Max.Sub(b.Min)
}

// Center returns the midpoint of the box.
func (b AABB) Center() Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Valid reports whether the box has a strictly positive extent on every axis.
func (b AABB) Valid() bool {
	s := b.Size()
	return s.X > 0 && s.Y > 0 && s.Z > 0
}

// Contains reports whether p lies in the box. Both faces are inclusive.
func (b AABB) Contains(p Vec3) bool {
	return b.Min.X <= p.X && p.X <= b.Max.X &&
		b.Min.Y <= p.Y && p.Y <= b.Max.Y &&
		b.Min.Z <= p.Z && p.Z <= b.Max.Z
}

// Corner returns one of the 8 corners. Bit 0 of i selects the max X face,
// bit 1 the max Y face and bit 2 the max Z face.
func (b AABB) Corner(i int) Vec3 {
	c := b.Min
	if i&1 != 0 {
		c.X = b.Max.X
	}
	if i&2 != 0 {
		c.Y = b.Max.Y
	}
	if i&4 != 0 {
		c.Z = b.Max.Z
	}
	return c
}

// Extend returns the smallest box containing both b and p.
func (b AABB) Extend(p Vec3) AABB {
	return AABB{
		Min: Vec3{min(b.Min.X, p.X), min(b.Min.Y, p.Y), min(b.Min.Z, p.Z)},
		Max: Vec3{max(b.Max.X, p.X), max(b.Max.Y, p.Y), max(b.Max.Z, p.Z)},
	}
}

// IntersectRay runs the slab test against the box.
// It returns the parametric distance of the entry point along the ray and
// whether the ray hits the box in front of its origin (farT > 0). When the
// origin is inside the box, nearT is negative.
func (b AABB) IntersectRay(r Ray) (nearT float32, hit bool) {
	if r.Direction.IsZero() {
		return 0, false
	}

	nearT = float32(-gomath.MaxFloat32)
	farT := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		o := r.Origin.Get(axis)
		d := r.Direction.Get(axis)
		lo := b.Min.Get(axis)
		hi := b.Max.Get(axis)

		// Parallel to the slab: either always inside it or never.
		if d == 0 {
			if o < lo || o > hi {
				return 0, false
			}
			continue
		}

		t0 := (lo - o) / d
		t1 := (hi - o) / d
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		nearT = max(nearT, t0)
		farT = min(farT, t1)
	}

	if nearT <= farT && farT > 0 {
		return nearT, true
	}
	return 0, false
}
