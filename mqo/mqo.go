// Package mqo reads and writes the polygon data of Metasequoia (.mqo) text files.
package mqo

import "github.com/binzume/mocapgeom/geom"

type Material struct {
	Name  string
	Color geom.Vector4

	Diffuse  float32
	Ambient  float32
	Emission float32
	Specular float32
	Power    float32
}

func NewMaterial(name string) *Material {
	return &Material{Name: name, Color: geom.Vector4{X: 1, Y: 1, Z: 1, W: 1}, Diffuse: 0.8, Ambient: 0.6, Power: 5}
}

type Face struct {
	Verts    []int
	Material int
	UVs      []geom.Vector2
}

type Object struct {
	Name     string
	Vertexes []*geom.Vector3
	Faces    []*Face
	Visible  bool
	Locked   bool
	Depth    int
	Shading  int
	Facet    float32
}

func NewObject(name string) *Object {
	return &Object{Name: name, Visible: true, Shading: 1, Facet: 59.5}
}

type Document struct {
	Materials []*Material
	Objects   []*Object
}

func NewDocument() *Document {
	return &Document{}
}

// FindObject returns the first object named name, or nil.
func (doc *Document) FindObject(name string) *Object {
	for _, o := range doc.Objects {
		if o.Name == name {
			return o
		}
	}
	return nil
}
