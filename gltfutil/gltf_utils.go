package gltfutil

import (
	"fmt"
	"log"
	"math"
	"path/filepath"
	"strings"

	"github.com/binzume/mocapgeom/geom"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/binary"
	"github.com/qmuntal/gltf/modeler"
)

func Load(path string) (*gltf.Document, error) {
	return gltf.Open(path)
}

// Save writes doc as .glb or .gltf depending on the extension of path.
func Save(doc *gltf.Document, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".glb":
		return gltf.SaveBinary(doc, path)
	case ".gltf":
		return gltf.Save(doc, path)
	}
	return fmt.Errorf("unsupported glTF file type: %v", path)
}

func scalePositions(doc *gltf.Document, a uint32, scaleMat *geom.Matrix4) error {
	acr := doc.Accessors[a]
	if acr.Sparse != nil || acr.BufferView == nil {
		return fmt.Errorf("accessor %d: sparse accessor is not supported", a)
	}
	pos, err := modeler.ReadPosition(doc, acr, [][3]float32{})
	if err != nil {
		return err
	}

	acr.Min = []float32{math.MaxFloat32, math.MaxFloat32, math.MaxFloat32}
	acr.Max = []float32{-math.MaxFloat32, -math.MaxFloat32, -math.MaxFloat32}
	for i := range pos {
		scaleMat.ApplyTo(geom.NewVector3FromArray(pos[i])).ToArray(pos[i][:])
		for t, v := range pos[i] {
			acr.Min[t] = float32(math.Min(float64(acr.Min[t]), float64(v)))
			acr.Max[t] = float32(math.Max(float64(acr.Max[t]), float64(v)))
		}
	}
	bufferView := doc.BufferViews[*acr.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	return binary.Write(buffer.Data[bufferView.ByteOffset+acr.ByteOffset:], bufferView.ByteStride, pos)
}

// Transform scales the whole document uniformly: mesh positions, node
// translations and animated translations.
func Transform(doc *gltf.Document, scale float32) error {
	if scale == 1 {
		return nil
	}
	scaleMat := geom.NewScaleMatrix4(scale, scale, scale)

	accs := map[uint32]bool{}
	for _, m := range doc.Meshes {
		for _, p := range m.Primitives {
			if a, ok := p.Attributes["POSITION"]; ok {
				accs[a] = true
			}
		}
	}
	for _, anim := range doc.Animations {
		for _, ch := range anim.Channels {
			if ch.Target.Path != gltf.TRSTranslation || ch.Sampler == nil {
				continue
			}
			if s := anim.Samplers[*ch.Sampler]; s.Output != nil {
				accs[*s.Output] = true
			}
		}
	}
	for a := range accs {
		if err := scalePositions(doc, a, scaleMat); err != nil {
			return err
		}
	}
	for _, node := range doc.Nodes {
		scaleMat.ApplyTo(geom.NewVector3FromArray(node.Translation)).ToArray(node.Translation[:])
	}
	log.Printf("scaled %d accessors and %d nodes by %v", len(accs), len(doc.Nodes), scale)
	return nil
}
