// Package bvh reads Biovision Hierarchy motion capture files and evaluates
// skeleton poses by forward kinematics.
package bvh

import (
	"fmt"
	"time"

	"github.com/binzume/mocapgeom/geom"
)

// NoChannel marks an absent channel slot.
const NoChannel = -1

type Joint struct {
	// End sites are named "<parent>_end". Names are not checked for
	// uniqueness, so such a name may also belong to a declared joint.
	Name     string
	Offset   geom.Vector3
	Parent   *Joint
	Children []*Joint
	EndSite  bool

	// Indices into a frame, by axis (X, Y, Z). NoChannel if absent.
	PositionChannels [3]int
	RotationChannels [3]int
	// Axes in the order the rotation channels were declared.
	RotationOrder geom.RotationOrder
}

func newJoint(name string, parent *Joint) *Joint {
	return &Joint{
		Name:             name,
		Parent:           parent,
		PositionChannels: [3]int{NoChannel, NoChannel, NoChannel},
		RotationChannels: [3]int{NoChannel, NoChannel, NoChannel},
		RotationOrder:    geom.RotationOrderXYZ,
	}
}

func (j *Joint) HasPosition() bool {
	return j.PositionChannels[0] != NoChannel
}

func (j *Joint) HasRotation() bool {
	return j.RotationChannels[0] != NoChannel
}

// ChannelCount returns the number of channels declared by this joint.
func (j *Joint) ChannelCount() int {
	n := 0
	for i := 0; i < 3; i++ {
		if j.PositionChannels[i] != NoChannel {
			n++
		}
		if j.RotationChannels[i] != NoChannel {
			n++
		}
	}
	return n
}

// Walk visits j and its descendants depth-first.
func (j *Joint) Walk(fn func(j *Joint)) {
	fn(j)
	for _, c := range j.Children {
		c.Walk(fn)
	}
}

type Document struct {
	Root         *Joint
	FrameTime    float64 // seconds
	Frames       [][]float32
	ChannelCount int
}

func (d *Document) NumFrames() int {
	return len(d.Frames)
}

// Joints returns all joints including end sites in depth-first order.
func (d *Document) Joints() []*Joint {
	var joints []*Joint
	if d.Root != nil {
		d.Root.Walk(func(j *Joint) { joints = append(joints, j) })
	}
	return joints
}

// FindJoint returns the first joint named name in depth-first order.
func (d *Document) FindJoint(name string) *Joint {
	for _, j := range d.Joints() {
		if j.Name == name {
			return j
		}
	}
	return nil
}

func (d *Document) FrameInterval() time.Duration {
	return time.Duration(d.FrameTime * float64(time.Second))
}

func (d *Document) Duration() time.Duration {
	return d.FrameInterval() * time.Duration(len(d.Frames))
}

// ParseError reports malformed or inconsistent BVH text.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("bvh: %s:%d: %s", e.File, e.Line, e.Msg)
	}
	return fmt.Sprintf("bvh: line %d: %s", e.Line, e.Msg)
}

// PoseError reports a frame that cannot be evaluated.
type PoseError struct {
	Frame int
	Joint string
	Msg   string
}

func (e *PoseError) Error() string {
	if e.Joint != "" {
		return fmt.Sprintf("bvh: frame %d: joint %q: %s", e.Frame, e.Joint, e.Msg)
	}
	return fmt.Sprintf("bvh: frame %d: %s", e.Frame, e.Msg)
}
