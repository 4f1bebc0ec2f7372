// Package mesh holds indexed quad meshes and builds tubes around curves.
package mesh

import (
	"fmt"
	"log"

	"github.com/binzume/mocapgeom/geom"
)

type QuadMesh struct {
	Vertices []geom.Vector3
	Quads    [][4]int
	// Normals is parallel to Vertices after CalculateNormals.
	Normals []geom.Vector3
}

func NewQuadMesh(vertices []geom.Vector3, quads [][4]int) *QuadMesh {
	return &QuadMesh{Vertices: vertices, Quads: quads}
}

func (m *QuadMesh) Clone() *QuadMesh {
	c := &QuadMesh{
		Vertices: append([]geom.Vector3(nil), m.Vertices...),
		Quads:    append([][4]int(nil), m.Quads...),
	}
	if m.Normals != nil {
		c.Normals = append([]geom.Vector3(nil), m.Normals...)
	}
	return c
}

// Validate checks that every quad index refers to a vertex.
func (m *QuadMesh) Validate() error {
	for i, q := range m.Quads {
		for _, v := range q {
			if v < 0 || v >= len(m.Vertices) {
				return fmt.Errorf("mesh: quad %d: vertex index %d out of range (%d vertices)", i, v, len(m.Vertices))
			}
		}
	}
	return nil
}

// FaceNormal returns the unit normal of quad i from its diagonals.
func (m *QuadMesh) FaceNormal(i int) *geom.Vector3 {
	q := m.Quads[i]
	d1 := m.Vertices[q[2]].Sub(&m.Vertices[q[0]])
	d2 := m.Vertices[q[3]].Sub(&m.Vertices[q[1]])
	return d1.Cross(d2).Normalized()
}

// CalculateNormals sets each vertex normal to the normalized sum of the
// normals of the quads using it. Vertices not used by any quad get a zero
// normal; their indices are returned.
func (m *QuadMesh) CalculateNormals() []int {
	normals := make([]geom.Vector3, len(m.Vertices))
	used := make([]bool, len(m.Vertices))
	for i, q := range m.Quads {
		n := m.FaceNormal(i)
		for _, v := range q {
			normals[v] = *normals[v].Add(n)
			used[v] = true
		}
	}
	var unused []int
	for i := range normals {
		if !used[i] {
			unused = append(unused, i)
			continue
		}
		normals[i] = *normals[i].Normalized()
	}
	if len(unused) > 0 {
		log.Printf("WARN: %d vertices are not used by any quad. first: %d", len(unused), unused[0])
	}
	m.Normals = normals
	return unused
}

// MakeFlatShaded gives every quad its own four vertices so normals are not shared.
func (m *QuadMesh) MakeFlatShaded() {
	vertices := make([]geom.Vector3, 0, len(m.Quads)*4)
	quads := make([][4]int, len(m.Quads))
	for i, q := range m.Quads {
		for j, v := range q {
			quads[i][j] = len(vertices)
			vertices = append(vertices, m.Vertices[v])
		}
	}
	m.Vertices = vertices
	m.Quads = quads
	m.Normals = nil
}

// Triangles splits each quad (a,b,c,d) into (a,b,c) and (a,c,d).
func (m *QuadMesh) Triangles() []uint32 {
	indices := make([]uint32, 0, len(m.Quads)*6)
	for _, q := range m.Quads {
		indices = append(indices,
			uint32(q[0]), uint32(q[1]), uint32(q[2]),
			uint32(q[0]), uint32(q[2]), uint32(q[3]))
	}
	return indices
}

// Export returns vertex positions and triangle indices in renderer layout.
func (m *QuadMesh) Export() ([][3]float32, []uint32) {
	positions := make([][3]float32, len(m.Vertices))
	for i := range m.Vertices {
		positions[i] = m.Vertices[i].Array()
	}
	return positions, m.Triangles()
}

// ExportNormals returns the vertex normals, calculating them if needed.
func (m *QuadMesh) ExportNormals() [][3]float32 {
	if len(m.Normals) != len(m.Vertices) {
		m.CalculateNormals()
	}
	normals := make([][3]float32, len(m.Normals))
	for i := range m.Normals {
		normals[i] = m.Normals[i].Array()
	}
	return normals
}
