package math

import "fmt"

// Vec3i is an integer triple, used for cell coordinates.
type Vec3i struct {
	X, Y, Z int
}

// Add returns v + other.
func (v Vec3i) Add(other Vec3i) Vec3i {
	return Vec3i{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Get returns the component on the given axis (0=X, 1=Y, 2=Z).
func (v Vec3i) Get(axis int) int {
	switch axis {
	case 0:
		return v.X
	case 1:
		return v.Y
	default:
		return v.Z
	}
}

// Set returns a copy of v with the component on axis replaced.
func (v Vec3i) Set(axis int, n int) Vec3i {
	switch axis {
	case 0:
		v.X = n
	case 1:
		v.Y = n
	default:
		v.Z = n
	}
	return v
}

// Prod returns X*Y*Z.
func (v Vec3i) Prod() int {
	return v.X * v.Y * v.Z
}

// ToVec3 converts to a float vector.
func (v Vec3i) ToVec3() Vec3 {
	return Vec3{float32(v.X), float32(v.Y), float32(v.Z)}
}

// String returns "(x, y, z)".
func (v Vec3i) String() string {
	return fmt.Sprintf("(%d, %d, %d)", v.X, v.Y, v.Z)
}

// FloorToVec3i floors every component of v and converts to integers.
func FloorToVec3i(v Vec3) Vec3i {
	f := v.Floor()
	return Vec3i{int(f.X), int(f.Y), int(f.Z)}
}
