package voxel

import (
	"github.com/Faultbox/voxelgrid/pkg/math"
)

// CellVertexCount is the number of vertices each cell contributes to a mesh.
const CellVertexCount = 8

// cellTriangles is the topology shared by every cell mesh. Each triangle is
// degenerate (a, b, b) and stands for one of the 12 cube edges, so the
// mesh draws as a wireframe in line mode. Vertex i is AABB.Corner(i).
var cellTriangles = [...][3]uint32{
	{0, 4, 4}, {5, 1, 1}, {4, 5, 5}, {0, 1, 1},
	{2, 6, 6}, {7, 3, 3}, {6, 7, 7}, {2, 3, 3},
	{0, 2, 2}, {1, 3, 3}, {4, 6, 6}, {5, 7, 7},
}

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Vertices  []math.Vec3
	Triangles [][3]uint32
}

// VertexCount returns the number of vertices.
func (m Mesh) VertexCount() int { return len(m.Vertices) }

// TriangleCount returns the number of triangles.
func (m Mesh) TriangleCount() int { return len(m.Triangles) }

// Empty reports whether the mesh has no vertices.
func (m Mesh) Empty() bool { return len(m.Vertices) == 0 }

// Append returns m with other's vertices added and other's triangle
// indices shifted past m's vertices.
func (m Mesh) Append(other Mesh) Mesh {
	offset := uint32(len(m.Vertices))
	m.Vertices = append(m.Vertices, other.Vertices...)
	for _, t := range other.Triangles {
		m.Triangles = append(m.Triangles, [3]uint32{t[0] + offset, t[1] + offset, t[2] + offset})
	}
	return m
}

// Edges returns the line segments encoded by degenerate (a, b, b) triangles.
func (m Mesh) Edges() [][2]uint32 {
	var edges [][2]uint32
	for _, t := range m.Triangles {
		if t[1] == t[2] && t[0] != t[1] {
			edges = append(edges, [2]uint32{t[0], t[1]})
		}
	}
	return edges
}

// newCellTemplate builds the mesh of cell (0, 0, 0).
func newCellTemplate(origin, cellSize math.Vec3) Mesh {
	cell := math.AABB{Min: origin, Max: origin.Add(cellSize)}
	m := Mesh{
		Vertices:  make([]math.Vec3, CellVertexCount),
		Triangles: cellTriangles[:],
	}
	for i := range m.Vertices {
		m.Vertices[i] = cell.Corner(i)
	}
	return m
}

// CellMesh returns a wireframe mesh of cell c. The result is a fresh copy
// and never shares vertex or index storage with the grid.
func (g *Grid) CellMesh(c math.Vec3i) Mesh {
	m := Mesh{
		Vertices:  make([]math.Vec3, CellVertexCount),
		Triangles: make([][3]uint32, len(cellTriangles)),
	}
	g.writeCell(c, m.Vertices, m.Triangles, 0)
	return m
}

// AllCellsMesh returns the wireframe of every cell, in id order. Cells do
// not share vertices.
func (g *Grid) AllCellsMesh() Mesh {
	ids := make([]int, g.NumCells())
	for i := range ids {
		ids[i] = i
	}
	return g.meshForIDs(ids)
}

// meshForIDs concatenates the cell meshes of ids, which must be valid.
func (g *Grid) meshForIDs(ids []int) Mesh {
	if len(ids) == 0 {
		return Mesh{}
	}

	m := Mesh{
		Vertices:  make([]math.Vec3, len(ids)*CellVertexCount),
		Triangles: make([][3]uint32, len(ids)*len(cellTriangles)),
	}
	for i, id := range ids {
		g.writeCell(g.cell(id), m.Vertices[i*CellVertexCount:], m.Triangles[i*len(cellTriangles):], uint32(i*CellVertexCount))
	}
	return m
}

func (g *Grid) writeCell(c math.Vec3i, vs []math.Vec3, ts [][3]uint32, base uint32) {
	offset := c.ToVec3().Mul(g.cellSize)
	for v := 0; v < CellVertexCount; v++ {
		vs[v] = g.template.Vertices[v].Add(offset)
	}
	for t, tri := range g.template.Triangles {
		ts[t] = [3]uint32{tri[0] + base, tri[1] + base, tri[2] + base}
	}
}
