package mqo

import (
	"fmt"

	"github.com/binzume/mocapgeom/geom"
	"github.com/binzume/mocapgeom/mesh"
)

// Transform object
func (o *Object) Transform(transform func(v *geom.Vector3)) {
	for _, v := range o.Vertexes {
		transform(v)
	}
}

// Transform all objects
func (doc *Document) Transform(transform func(v *geom.Vector3)) {
	for _, o := range doc.Objects {
		o.Transform(transform)
	}
}

// ToQuadMesh returns the polygons of o as a quad mesh.
// Faces that are not quads are rejected.
func (o *Object) ToQuadMesh() (*mesh.QuadMesh, error) {
	vertices := make([]geom.Vector3, len(o.Vertexes))
	for i, v := range o.Vertexes {
		vertices[i] = *v
	}
	quads := make([][4]int, 0, len(o.Faces))
	for i, f := range o.Faces {
		if len(f.Verts) != 4 {
			return nil, fmt.Errorf("mqo: object %q: face %d has %d vertices, only quads are supported", o.Name, i, len(f.Verts))
		}
		quads = append(quads, [4]int{f.Verts[0], f.Verts[1], f.Verts[2], f.Verts[3]})
	}
	m := mesh.NewQuadMesh(vertices, quads)
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("mqo: object %q: %w", o.Name, err)
	}
	return m, nil
}

func NewObjectFromQuadMesh(name string, m *mesh.QuadMesh, material int) *Object {
	o := NewObject(name)
	o.Vertexes = make([]*geom.Vector3, len(m.Vertices))
	for i := range m.Vertices {
		v := m.Vertices[i]
		o.Vertexes[i] = &v
	}
	o.Faces = make([]*Face, len(m.Quads))
	for i, q := range m.Quads {
		o.Faces[i] = &Face{Verts: []int{q[0], q[1], q[2], q[3]}, Material: material}
	}
	return o
}
