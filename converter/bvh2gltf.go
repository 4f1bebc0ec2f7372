package converter

import (
	"log"

	"github.com/binzume/mocapgeom/bvh"
	"github.com/binzume/mocapgeom/geom"
	"github.com/binzume/mocapgeom/mesh"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

type BVHToGLTFOption struct {
	Name string
	// RestFrame is used for the node transforms.
	RestFrame int
	// JointSize is the size of the box shown at each joint. 0: no mesh.
	JointSize float32
	// Animation adds an animation of all frames.
	Animation bool
}

// BVHToGLTF converts the skeleton of src into glTF nodes and its motion into an animation.
func BVHToGLTF(src *bvh.Document, opt *BVHToGLTFOption) (*gltf.Document, error) {
	if opt == nil {
		opt = &BVHToGLTFOption{Animation: true}
	}
	doc := NewDocument()
	nodes, err := AddSkeleton(doc, src, opt.RestFrame, opt.JointSize)
	if err != nil {
		return nil, err
	}
	if opt.Animation && src.NumFrames() > 0 {
		if err := AddMotion(doc, src, nodes, opt.Name); err != nil {
			return nil, err
		}
	}
	return doc, nil
}

func localTRS(src *bvh.Document, j *bvh.Joint, frame int) (*geom.Vector3, *geom.Quaternion, error) {
	if src.NumFrames() == 0 {
		return &j.Offset, &geom.Quaternion{W: 1}, nil
	}
	m, err := src.LocalTransform(j, frame)
	if err != nil {
		return nil, nil, err
	}
	t, r, _ := m.Decompose()
	return t, r, nil
}

// AddSkeleton adds a node per joint, including end sites, posed at frame.
func AddSkeleton(doc *gltf.Document, src *bvh.Document, frame int, jointSize float32) (map[*bvh.Joint]uint32, error) {
	var jointMesh *uint32
	if jointSize > 0 {
		jointMesh = gltf.Index(AddMesh(doc, "joint", mesh.NewBox(jointSize, jointSize, jointSize)))
	}

	nodes := map[*bvh.Joint]uint32{}
	for _, j := range src.Joints() {
		t, r, err := localTRS(src, j, frame)
		if err != nil {
			return nil, err
		}
		node := newNode(j.Name)
		node.Translation = t.Array()
		node.Rotation = r.Array()
		node.Mesh = jointMesh

		var parent *uint32
		if j.Parent != nil {
			parent = gltf.Index(nodes[j.Parent])
		}
		nodes[j] = addNode(doc, node, parent)
	}
	return nodes, nil
}

// AddMotion adds an animation sampling every frame of src.
// Rotations are written for all joints with channels and translations for the root.
func AddMotion(doc *gltf.Document, src *bvh.Document, nodes map[*bvh.Joint]uint32, name string) error {
	a := &gltf.Animation{Name: name}

	keys := make([]float32, src.NumFrames())
	for f := range keys {
		keys[f] = float32(float64(f) * src.FrameTime)
	}
	keysAcc := modeler.WriteAccessor(doc, gltf.TargetArrayBuffer, keys)

	addChannel := func(output uint32, node uint32, path gltf.TRSProperty) {
		a.Samplers = append(a.Samplers, &gltf.AnimationSampler{
			Input:         gltf.Index(keysAcc),
			Output:        gltf.Index(output),
			Interpolation: gltf.InterpolationLinear,
		})
		a.Channels = append(a.Channels, &gltf.Channel{
			Sampler: gltf.Index(uint32(len(a.Samplers) - 1)),
			Target: gltf.ChannelTarget{
				Node: gltf.Index(node),
				Path: path,
			},
		})
	}

	for _, j := range src.Joints() {
		if j.EndSite || !j.HasRotation() {
			continue
		}
		n, ok := nodes[j]
		if !ok {
			continue
		}
		rotations := make([][4]float32, len(keys))
		var translations [][3]float32
		if j.Parent == nil {
			translations = make([][3]float32, len(keys))
		}
		var prev *geom.Quaternion
		for f := range keys {
			t, r, err := localTRS(src, j, f)
			if err != nil {
				return err
			}
			// keep the shortest path between samples
			if prev != nil && prev.Dot(r) < 0 {
				r = r.Scale(-1)
			}
			prev = r
			rotations[f] = r.Array()
			if translations != nil {
				translations[f] = t.Array()
			}
		}
		addChannel(modeler.WriteTangent(doc, rotations), n, gltf.TRSRotation)
		if translations != nil {
			addChannel(modeler.WritePosition(doc, translations), n, gltf.TRSTranslation)
		}
	}

	log.Printf("animation %q: %d frames, %d channels", name, len(keys), len(a.Channels))
	doc.Animations = append(doc.Animations, a)
	return nil
}
