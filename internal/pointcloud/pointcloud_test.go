package pointcloud

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Faultbox/voxelgrid/pkg/math"
)

func TestRead(t *testing.T) {
	input := `# scan 1
0 0 0
1.5,2,-3

4	5	6
  7, 8, 9  
`
	points, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	require.Equal(t, []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 1.5, Y: 2, Z: -3},
		{X: 4, Y: 5, Z: 6},
		{X: 7, Y: 8, Z: 9},
	}, points)
}

func TestReadMalformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  string
	}{
		{"two values", "1 2 3\n4 5\n", "line 2"},
		{"not a number", "1 x 3\n", "line 1"},
		{"four values", "\n\n1 2 3 4\n", "line 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.True(t, errors.Is(err, ErrMalformedPoint), "got %v", err)
			require.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestReadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "points.xyz")
	require.NoError(t, os.WriteFile(path, []byte("1 2 3\n"), 0644))

	points, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, points, 1)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing.xyz"))
	require.Error(t, err)
}

func TestBounds(t *testing.T) {
	box, err := Bounds([]math.Vec3{
		{X: 1, Y: -2, Z: 3},
		{X: -1, Y: 5, Z: 0},
		{X: 0, Y: 0, Z: 7},
	})
	require.NoError(t, err)
	require.Equal(t, math.AABB{
		Min: math.Vec3{X: -1, Y: -2, Z: 0},
		Max: math.Vec3{X: 1, Y: 5, Z: 7},
	}, box)

	_, err = Bounds(nil)
	require.True(t, errors.Is(err, ErrEmpty))
}
