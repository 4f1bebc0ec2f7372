package bvh

import (
	"github.com/binzume/mocapgeom/geom"
)

// TransformSink receives the world transform computed for each joint,
// typically a renderable node owned by the caller.
type TransformSink interface {
	ApplyTransform(j *Joint, world *geom.Matrix4)
}

// Pose is a TransformSink that keeps the last world transform of each joint.
type Pose map[*Joint]*geom.Matrix4

func (p Pose) ApplyTransform(j *Joint, world *geom.Matrix4) {
	p[j] = world
}

// Position returns the world position of j, or nil if j has no transform yet.
func (p Pose) Position(j *Joint) *geom.Vector3 {
	if m, ok := p[j]; ok {
		return m.Position()
	}
	return nil
}

func (d *Document) Frame(frame int) ([]float32, error) {
	if frame < 0 || frame >= len(d.Frames) {
		return nil, &PoseError{Frame: frame, Msg: "frame index out of range"}
	}
	return d.Frames[frame], nil
}

func channelValues(j *Joint, ch [3]int, values []float32, frame int) ([3]float32, error) {
	var v [3]float32
	for i, c := range ch {
		if c == NoChannel {
			return v, &PoseError{Frame: frame, Joint: j.Name, Msg: "missing channel"}
		}
		if c < 0 || c >= len(values) {
			return v, &PoseError{Frame: frame, Joint: j.Name, Msg: "channel index out of range"}
		}
		v[i] = values[c]
	}
	return v, nil
}

// rotation composes the joint rotation in its declared channel order.
// X and Y angles are negated to convert the handedness of the source data.
func rotation(j *Joint, values []float32, frame int) (*geom.Matrix4, error) {
	deg, err := channelValues(j, j.RotationChannels, values, frame)
	if err != nil {
		return nil, err
	}
	e := geom.NewEuler(-deg[0]*geom.Deg2Rad, -deg[1]*geom.Deg2Rad, deg[2]*geom.Deg2Rad, j.RotationOrder)
	return e.ToMatrix4(), nil
}

func (d *Document) localTransform(j *Joint, values []float32, frame int) (*geom.Matrix4, error) {
	m := geom.NewTranslateMatrix4(j.Offset.X, j.Offset.Y, j.Offset.Z)
	if j.EndSite {
		return m, nil
	}
	if j.Parent == nil {
		pos, err := channelValues(j, j.PositionChannels, values, frame)
		if err != nil {
			return nil, err
		}
		// rigid body motion, no scaling.
		m = geom.NewTranslateMatrix4(pos[0], pos[1], pos[2]).Mul(m)
	}
	r, err := rotation(j, values, frame)
	if err != nil {
		return nil, err
	}
	return m.Mul(r), nil
}

// LocalTransform returns the transform of j relative to its parent at the given frame.
func (d *Document) LocalTransform(j *Joint, frame int) (*geom.Matrix4, error) {
	values, err := d.Frame(frame)
	if err != nil {
		return nil, err
	}
	return d.localTransform(j, values, frame)
}

type Evaluator struct {
	doc  *Document
	sink TransformSink
}

func NewEvaluator(doc *Document, sink TransformSink) *Evaluator {
	return &Evaluator{doc: doc, sink: sink}
}

type jointTransform struct {
	joint *Joint
	world *geom.Matrix4
}

// Evaluate computes the world transform of every joint at the given frame and
// applies them to the sink. Nothing is applied if the frame can not be evaluated.
func (e *Evaluator) Evaluate(frame int) error {
	values, err := e.doc.Frame(frame)
	if err != nil {
		return err
	}

	var transforms []jointTransform
	var walk func(j *Joint, parent *geom.Matrix4) error
	walk = func(j *Joint, parent *geom.Matrix4) error {
		local, err := e.doc.localTransform(j, values, frame)
		if err != nil {
			return err
		}
		world := parent.Mul(local)
		transforms = append(transforms, jointTransform{j, world})
		for _, c := range j.Children {
			if err := walk(c, world); err != nil {
				return err
			}
		}
		return nil
	}
	if err := walk(e.doc.Root, geom.NewMatrix4()); err != nil {
		return err
	}

	for _, t := range transforms {
		e.sink.ApplyTransform(t.joint, t.world)
	}
	return nil
}

// EvaluatePose returns the world transforms of all joints at the given frame.
func (d *Document) EvaluatePose(frame int) (Pose, error) {
	pose := Pose{}
	if err := NewEvaluator(d, pose).Evaluate(frame); err != nil {
		return nil, err
	}
	return pose, nil
}
