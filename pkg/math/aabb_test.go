package math

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAABBSwapsCorners(t *testing.T) {
	box := NewAABB(Vec3{1, -1, 5}, Vec3{0, 2, 3})
	require.Equal(t, AABB{Min: Vec3{0, -1, 3}, Max: Vec3{1, 2, 5}}, box)
	require.Equal(t, Vec3{1, 3, 2}, box.Size())
	require.Equal(t, Vec3{0.5, 0.5, 4}, box.Center())
}

func TestAABBContains(t *testing.T) {
	box := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}

	tests := []struct {
		name string
		p    Vec3
		want bool
	}{
		{"center", Vec3{0.5, 0.5, 0.5}, true},
		{"min corner", Vec3{0, 0, 0}, true},
		{"max corner", Vec3{1, 1, 1}, true},
		{"outside x", Vec3{1.01, 0.5, 0.5}, false},
		{"outside z", Vec3{0.5, 0.5, -0.01}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, box.Contains(tt.p))
		})
	}
}

func TestAABBCorner(t *testing.T) {
	box := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 2, 3}}
	want := []Vec3{
		{0, 0, 0}, {1, 0, 0}, {0, 2, 0}, {1, 2, 0},
		{0, 0, 3}, {1, 0, 3}, {0, 2, 3}, {1, 2, 3},
	}
	for i, w := range want {
		require.Equal(t, w, box.Corner(i), "Corner(%d)", i)
	}
}

func TestAABBExtend(t *testing.T) {
	box := AABB{Min: Splat(1), Max: Splat(1)}
	box = box.Extend(Vec3{-1, 2, 0})
	box = box.Extend(Vec3{3, 0, 0.5})
	require.Equal(t, AABB{Min: Vec3{-1, 0, 0}, Max: Vec3{3, 2, 1}}, box)
}

func TestAABBValid(t *testing.T) {
	require.True(t, AABB{Max: Vec3{1, 1, 1}}.Valid())
	require.False(t, AABB{Max: Vec3{1, 0, 1}}.Valid(), "flat box")
}

func TestAABBIntersectRay(t *testing.T) {
	box := AABB{Min: Vec3{0, 0, 0}, Max: Vec3{1, 1, 1}}

	tests := []struct {
		name     string
		ray      Ray
		wantHit  bool
		wantNear float32
	}{
		{
			name:     "hit from -x",
			ray:      Ray{Origin: Vec3{-2, 0.5, 0.5}, Direction: Vec3{1, 0, 0}},
			wantHit:  true,
			wantNear: 2,
		},
		{
			name:    "pointing away",
			ray:     Ray{Origin: Vec3{-2, 0.5, 0.5}, Direction: Vec3{-1, 0, 0}},
			wantHit: false,
		},
		{
			name:    "parallel outside slab",
			ray:     Ray{Origin: Vec3{10, 10, 10}, Direction: Vec3{1, 0, 0}},
			wantHit: false,
		},
		{
			name:     "origin inside",
			ray:      Ray{Origin: Vec3{0.5, 0.5, 0.5}, Direction: Vec3{0, 0, 1}},
			wantHit:  true,
			wantNear: -0.5,
		},
		{
			name:     "diagonal",
			ray:      Ray{Origin: Vec3{-1, -1, -1}, Direction: Vec3{1, 1, 1}},
			wantHit:  true,
			wantNear: 1,
		},
		{
			name:    "zero direction",
			ray:     Ray{Origin: Vec3{0.5, 0.5, 0.5}},
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			near, hit := box.IntersectRay(tt.ray)
			require.Equal(t, tt.wantHit, hit)
			if hit {
				require.Equal(t, tt.wantNear, near)
			}
		})
	}
}

func TestRayAt(t *testing.T) {
	r := NewRay(Vec3{1, 1, 1}, Vec3{0, 0, 5})
	require.Equal(t, Vec3{0, 0, 1}, r.Direction)
	require.Equal(t, Vec3{1, 1, 3}, r.At(2))
}
