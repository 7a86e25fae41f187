// Package pointcloud reads plain-text point clouds for bucketing into
// voxel cells.
//
// The format is one point per line as three floats separated by spaces,
// tabs or commas. Blank lines and lines starting with # are ignored.
package pointcloud

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/voxelgrid/pkg/math"
)

// Errors.
var (
	ErrMalformedPoint = errors.New("malformed point")
	ErrEmpty          = errors.New("point cloud is empty")
)

// Read parses points from r.
func Read(r io.Reader) ([]math.Vec3, error) {
	var points []math.Vec3

	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		fields := strings.FieldsFunc(text, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(fields) != 3 {
			return nil, fmt.Errorf("%w: line %d: expected 3 values, got %d", ErrMalformedPoint, line, len(fields))
		}

		var p [3]float32
		for i, f := range fields {
			v, err := strconv.ParseFloat(f, 32)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrMalformedPoint, line, err)
			}
			p[i] = float32(v)
		}
		points = append(points, math.Vec3{X: p[0], Y: p[1], Z: p[2]})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	return points, nil
}

// ReadFile parses points from the file at path.
func ReadFile(path string) ([]math.Vec3, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	points, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return points, nil
}

// Bounds returns the smallest box enclosing points.
func Bounds(points []math.Vec3) (math.AABB, error) {
	if len(points) == 0 {
		return math.AABB{}, ErrEmpty
	}

	box := math.AABB{Min: points[0], Max: points[0]}
	for _, p := range points[1:] {
		box = box.Extend(p)
	}
	return box, nil
}
