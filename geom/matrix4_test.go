package geom

import (
	"math"
	"testing"
)

func TestDecomposeMatrix(t *testing.T) {
	const eps = 0.00001

	pos := NewVector3(1, 2, 3)
	rot := NewEuler(10*Deg2Rad, 20*Deg2Rad, 30*Deg2Rad, RotationOrderZXY).ToQuaternion()
	scale := NewVector3(1.5, 1.6, 1.7)

	mat := NewTRSMatrix4(pos, rot, scale)
	pos1, rot1, scale1 := mat.Decompose()

	if pos.Sub(pos1).Len() > eps {
		t.Error("pos: ", pos, pos1)
	}
	if rot.Sub(rot1).Len() > eps && rot.Add(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
	if scale.Sub(scale1).Len() > eps {
		t.Error("scale: ", scale, scale1)
	}

	mat2 := NewRotationMatrix4FromQuaternion(rot)
	pos1, rot1, scale1 = mat2.Decompose()
	if rot.Sub(rot1).Len() > eps && rot.Add(rot1).Len() > eps {
		t.Error("rot: ", rot, rot1)
	}
	if pos1.Len() > eps {
		t.Error("pos: ", pos1)
	}
	if scale1.Sub(NewVector3(1, 1, 1)).Len() > eps {
		t.Error("scale: ", scale1)
	}
}

func TestAxisRotation(t *testing.T) {
	const eps = 0.00001

	for _, c := range []struct {
		m    *Matrix4
		v    *Vector3
		want *Vector3
	}{
		{NewRotationMatrix4X(math.Pi / 2), NewVector3(0, 1, 0), NewVector3(0, 0, 1)},
		{NewRotationMatrix4Y(math.Pi / 2), NewVector3(0, 0, 1), NewVector3(1, 0, 0)},
		{NewRotationMatrix4Z(math.Pi / 2), NewVector3(1, 0, 0), NewVector3(0, 1, 0)},
		{NewAxisRotationMatrix4(AxisZ, math.Pi), NewVector3(1, 0, 0), NewVector3(-1, 0, 0)},
	} {
		if got := c.m.ApplyTo(c.v); got.Sub(c.want).Len() > eps {
			t.Error("rotate: ", c.v, got, c.want)
		}
	}
}

func TestTranslateScale(t *testing.T) {
	m := NewTranslateMatrix4(1, 2, 3).Mul(NewScaleMatrix4(2, 2, 2))
	if *m.ApplyTo(NewVector3(1, 1, 1)) != *NewVector3(3, 4, 5) {
		t.Error("T*S: ", m.ApplyTo(NewVector3(1, 1, 1)))
	}
	if *m.ApplyToDirection(NewVector3(1, 1, 1)) != *NewVector3(2, 2, 2) {
		t.Error("direction: ", m.ApplyToDirection(NewVector3(1, 1, 1)))
	}
	if *m.Position() != *NewVector3(1, 2, 3) {
		t.Error("Position(): ", m.Position())
	}
	if !m.Mul(m.Inverse()).ApproxEqual(NewMatrix4(), 0.00001) {
		t.Error("M * M^-1 != I")
	}
}

func TestLookRotation(t *testing.T) {
	const eps = 0.00001
	m := NewLookRotationMatrix4(NewVector3(1, 0, 0), NewVector3(0, 1, 0))
	if m.ApplyToDirection(NewVector3(0, 0, 1)).Sub(NewVector3(1, 0, 0)).Len() > eps {
		t.Error("forward: ", m)
	}
	if m.ApplyToDirection(NewVector3(0, 1, 0)).Sub(NewVector3(0, 1, 0)).Len() > eps {
		t.Error("up: ", m)
	}
	if Abs(m.Det()-1) > eps {
		t.Error("det != 1", m.Det())
	}

	// parallel up
	m = NewLookRotationMatrix4(NewVector3(0, 1, 0), NewVector3(0, 1, 0))
	if Abs(m.Det()-1) > eps {
		t.Error("det != 1", m.Det())
	}
}
