// Package meshio writes voxel debug meshes to disk formats.
package meshio

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/segmentio/encoding/json"

	"github.com/Faultbox/voxelgrid/pkg/voxel"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown mesh format")

// Supported formats.
const (
	FormatOBJ  = "obj"
	FormatJSON = "json"
)

// WriteOBJ writes m as Wavefront OBJ. Degenerate (a, b, b) triangles are
// written as line elements, everything else as faces. Indices are 1-based.
func WriteOBJ(w io.Writer, m voxel.Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# voxel debug mesh: %d vertices, %d triangles\n", m.VertexCount(), m.TriangleCount())
	for _, v := range m.Vertices {
		fmt.Fprintf(bw, "v %g %g %g\n", v.X, v.Y, v.Z)
	}
	for _, t := range m.Triangles {
		if t[1] == t[2] {
			fmt.Fprintf(bw, "l %d %d\n", t[0]+1, t[1]+1)
			continue
		}
		fmt.Fprintf(bw, "f %d %d %d\n", t[0]+1, t[1]+1, t[2]+1)
	}

	return bw.Flush()
}

// jsonMesh is the JSON layout of a mesh.
type jsonMesh struct {
	Vertices  [][3]float32 `json:"vertices"`
	Triangles [][3]uint32  `json:"triangles"`
}

// WriteJSON writes m as {"vertices": [[x,y,z]...], "triangles": [[a,b,c]...]}.
func WriteJSON(w io.Writer, m voxel.Mesh) error {
	out := jsonMesh{
		Vertices:  make([][3]float32, len(m.Vertices)),
		Triangles: m.Triangles,
	}
	if out.Triangles == nil {
		out.Triangles = [][3]uint32{}
	}
	for i, v := range m.Vertices {
		out.Vertices[i] = [3]float32{v.X, v.Y, v.Z}
	}
	return json.NewEncoder(w).Encode(out)
}

// Encode writes m to w in the given format.
func Encode(w io.Writer, format string, m voxel.Mesh) error {
	switch format {
	case FormatOBJ:
		return WriteOBJ(w, m)
	case FormatJSON:
		return WriteJSON(w, m)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Write encodes m to path, creating parent directories.
func Write(path, format string, m voxel.Mesh) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	return Encode(f, format, m)
}
