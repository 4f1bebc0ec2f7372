package converter

import (
	"strconv"

	"github.com/binzume/mocapgeom/bezier"
	"github.com/binzume/mocapgeom/mesh"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

var DefaultColor = [4]float32{0.8, 0.8, 0.8, 1}

// NewDocument returns a glTF document with a single scene and a default material.
func NewDocument() *gltf.Document {
	doc := gltf.NewDocument()
	AddMaterial(doc, "default", DefaultColor)
	return doc
}

func AddMaterial(doc *gltf.Document, name string, color [4]float32) uint32 {
	var rf float32 = 0.4
	var mf float32 = 0
	mm := &gltf.Material{
		Name: name,
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor: &color,
			RoughnessFactor: &rf,
			MetallicFactor:  &mf,
		},
	}
	if color[3] < 0.99 {
		mm.AlphaMode = gltf.AlphaBlend
	}
	doc.Materials = append(doc.Materials, mm)
	return uint32(len(doc.Materials) - 1)
}

func newNode(name string) *gltf.Node {
	return &gltf.Node{Name: name, Rotation: [4]float32{0, 0, 0, 1}, Scale: [3]float32{1, 1, 1}}
}

func addNode(doc *gltf.Document, node *gltf.Node, parent *uint32) uint32 {
	n := uint32(len(doc.Nodes))
	doc.Nodes = append(doc.Nodes, node)
	if parent != nil {
		doc.Nodes[*parent].Children = append(doc.Nodes[*parent].Children, n)
	} else {
		doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, n)
	}
	return n
}

// AddMesh writes m as a triangulated glTF mesh and returns the mesh index.
// Normals are calculated if m has none.
func AddMesh(doc *gltf.Document, name string, m *mesh.QuadMesh) uint32 {
	positions, indices := m.Export()
	attributes := map[string]uint32{
		"POSITION": modeler.WritePosition(doc, positions),
		"NORMAL":   modeler.WriteNormal(doc, m.ExportNormals()),
	}
	primitive := &gltf.Primitive{
		Indices:    gltf.Index(modeler.WriteIndices(doc, indices)),
		Attributes: attributes,
	}
	if len(doc.Materials) > 0 {
		primitive.Material = gltf.Index(0)
	}
	doc.Meshes = append(doc.Meshes, &gltf.Mesh{Name: name, Primitives: []*gltf.Primitive{primitive}})
	return uint32(len(doc.Meshes) - 1)
}

// AddQuadMesh adds m and a scene root node referring to it. Returns the node index.
func AddQuadMesh(doc *gltf.Document, name string, m *mesh.QuadMesh) uint32 {
	node := newNode(name)
	node.Mesh = gltf.Index(AddMesh(doc, name, m))
	return addNode(doc, node, nil)
}

// AddPlacements adds a node named name with a child instance of meshIndex at each placement.
func AddPlacements(doc *gltf.Document, name string, links []bezier.Placement, meshIndex uint32) uint32 {
	parent := addNode(doc, newNode(name), nil)
	for i := range links {
		l := &links[i]
		node := newNode(name + "_" + strconv.Itoa(i))
		node.Mesh = gltf.Index(meshIndex)
		node.Translation = l.Position.Array()
		node.Rotation = l.Rotation().Array()
		addNode(doc, node, &parent)
	}
	return parent
}
