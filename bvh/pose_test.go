package bvh

import (
	"errors"
	"testing"

	"github.com/binzume/mocapgeom/geom"
)

const eps = 0.0001

func near(v *geom.Vector3, x, y, z float32) bool {
	return v != nil && geom.Abs(v.X-x) < eps && geom.Abs(v.Y-y) < eps && geom.Abs(v.Z-z) < eps
}

func TestEvaluatePose(t *testing.T) {
	doc := mustParse(t, testHierarchy+testMotion)
	chest := doc.FindJoint("Chest")
	head := doc.FindJoint("Head")

	pose, err := doc.EvaluatePose(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(pose) != 6 {
		t.Error("transforms:", len(pose))
	}
	if p := pose.Position(doc.Root); !near(p, 1, 2, 3) {
		t.Error("root position:", p)
	}
	if p := pose.Position(chest); !near(p, 1, 7.21, 3) {
		t.Error("Chest position:", p)
	}
	if p := pose.Position(doc.FindJoint("Head_end")); !near(p, 1, 2+5.21+5.45+3.87, 3) {
		t.Error("end site position:", p)
	}
	if p := pose.Position(doc.FindJoint("LeftHip_end")); !near(p, 4.91, 2-18.34, 3) {
		t.Error("LeftHip end position:", p)
	}

	// Z rotation is applied as is.
	pose, err = doc.EvaluatePose(1)
	if err != nil {
		t.Fatal(err)
	}
	if p := pose.Position(chest); !near(p, 1-5.21, 2, 3) {
		t.Error("Chest position (rotZ 90):", p)
	}
	if p := pose.Position(head); !near(p, 1-5.21-5.45, 2, 3) {
		t.Error("Head position (rotZ 90):", p)
	}

	// X rotation is negated.
	pose, err = doc.EvaluatePose(2)
	if err != nil {
		t.Fatal(err)
	}
	if p := pose.Position(chest); !near(p, 1, 2, 3-5.21) {
		t.Error("Chest position (rotX 90):", p)
	}
}

func TestEvaluateRotationOrder(t *testing.T) {
	// Hips: Zrotation 90, Xrotation 90. Chest: Xrotation 90.
	doc := mustParse(t, testHierarchy+`MOTION
Frames: 1
Frame Time: 0.1
1 2 3 90 90 0 0 90 0 0 0 0 0 0 0
`)
	pose, err := doc.EvaluatePose(0)
	if err != nil {
		t.Fatal(err)
	}
	// Rz * Rx * Ry. Rx * Rz * Ry would give (1-5.21, 2, 3).
	if p := pose.Position(doc.FindJoint("Chest")); !near(p, 1, 2, 3-5.21) {
		t.Error("Chest position:", p)
	}
	if p := pose.Position(doc.FindJoint("LeftHip")); !near(p, 1, 2+3.91, 3) {
		t.Error("LeftHip position:", p)
	}
	if p := pose.Position(doc.FindJoint("Head")); !near(p, 1+5.45, 2, 3-5.21) {
		t.Error("Head position:", p)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	doc := mustParse(t, testHierarchy+testMotion)
	p1, _ := doc.EvaluatePose(1)
	doc.EvaluatePose(2)
	p2, _ := doc.EvaluatePose(1)
	for j, m := range p1 {
		if !m.ApproxEqual(p2[j], 0) {
			t.Error("pose changed:", j.Name)
		}
	}
}

func TestLocalTransform(t *testing.T) {
	doc := mustParse(t, testHierarchy+testMotion)
	m, err := doc.LocalTransform(doc.FindJoint("Chest"), 1)
	if err != nil {
		t.Fatal(err)
	}
	if p := m.Position(); !near(p, 0, 5.21, 0) {
		t.Error("local position:", p)
	}
	if _, err := doc.LocalTransform(doc.Root, 3); err == nil {
		t.Error("expected error for out of range frame")
	}
}

func TestEvaluateError(t *testing.T) {
	doc := mustParse(t, testHierarchy+testMotion)
	pose := Pose{}
	ev := NewEvaluator(doc, pose)

	var pe *PoseError
	if err := ev.Evaluate(-1); !errors.As(err, &pe) {
		t.Error("expected PoseError:", err)
	}

	// short frame row
	doc.Frames[0] = doc.Frames[0][:10]
	if err := ev.Evaluate(0); !errors.As(err, &pe) || pe.Joint == "" {
		t.Error("expected PoseError with joint name:", err)
	}
	if len(pose) != 0 {
		t.Error("sink should be untouched:", len(pose))
	}
}
