package gltfutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/binzume/mocapgeom/bvh"
	"github.com/binzume/mocapgeom/converter"
	"github.com/binzume/mocapgeom/mesh"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

const testBVH = `HIERARCHY
ROOT Hips
{
	OFFSET 0 0 0
	CHANNELS 6 Xposition Yposition Zposition Zrotation Xrotation Yrotation
	End Site
	{
		OFFSET 0 1 0
	}
}
MOTION
Frames: 1
Frame Time: 0.1
1 2 3 0 0 0
`

func TestTransform(t *testing.T) {
	src, err := bvh.Parse(strings.NewReader(testBVH))
	if err != nil {
		t.Fatal(err)
	}
	doc, err := converter.BVHToGLTF(src, &converter.BVHToGLTFOption{JointSize: 1, Animation: true})
	if err != nil {
		t.Fatal(err)
	}
	box := converter.AddQuadMesh(doc, "box", mesh.NewBox(2, 2, 2))

	if err := Transform(doc, 0.5); err != nil {
		t.Fatal(err)
	}
	if doc.Nodes[0].Translation != [3]float32{0.5, 1, 1.5} {
		t.Error("root translation:", doc.Nodes[0].Translation)
	}
	if doc.Nodes[1].Translation != [3]float32{0, 0.5, 0} {
		t.Error("end site translation:", doc.Nodes[1].Translation)
	}

	p := doc.Meshes[*doc.Nodes[box].Mesh].Primitives[0]
	acr := doc.Accessors[p.Attributes["POSITION"]]
	pos, err := modeler.ReadPosition(doc, acr, nil)
	if err != nil {
		t.Fatal(err)
	}
	if pos[6] != [3]float32{0.5, 0.5, 0.5} || acr.Max[0] != 0.5 {
		t.Error("positions:", pos[6], acr.Max)
	}

	a := doc.Animations[0]
	for _, ch := range a.Channels {
		if ch.Target.Path != gltf.TRSTranslation {
			continue
		}
		tr, _ := modeler.ReadPosition(doc, doc.Accessors[*a.Samplers[*ch.Sampler].Output], nil)
		if tr[0] != [3]float32{0.5, 1, 1.5} {
			t.Error("animated translation:", tr)
		}
	}
}

func TestSave(t *testing.T) {
	doc := converter.NewDocument()
	converter.AddQuadMesh(doc, "box", mesh.NewBox(1, 1, 1))

	dir := t.TempDir()
	for _, name := range []string{"box.glb", "box.gltf"} {
		path := filepath.Join(dir, name)
		if err := Save(doc, path); err != nil {
			t.Fatal(err)
		}
		loaded, err := Load(path)
		if err != nil {
			t.Fatal(err)
		}
		if len(loaded.Meshes) != 1 || loaded.Nodes[0].Name != "box" {
			t.Error("loaded:", name, len(loaded.Meshes))
		}
	}
	if err := Save(doc, filepath.Join(dir, "box.obj")); err == nil {
		t.Error("expected error for unknown extension")
	}
}
