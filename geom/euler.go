package geom

import "math"

const Deg2Rad = math.Pi / 180

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return "?"
}

// RotationOrder lists the axes in multiplication order: R = R[0] * R[1] * R[2].
type RotationOrder [3]Axis

var (
	RotationOrderXYZ = RotationOrder{AxisX, AxisY, AxisZ}
	RotationOrderXZY = RotationOrder{AxisX, AxisZ, AxisY}
	RotationOrderYXZ = RotationOrder{AxisY, AxisX, AxisZ}
	RotationOrderYZX = RotationOrder{AxisY, AxisZ, AxisX}
	RotationOrderZXY = RotationOrder{AxisZ, AxisX, AxisY}
	RotationOrderZYX = RotationOrder{AxisZ, AxisY, AxisX}
)

// Valid reports whether o is a permutation of X, Y and Z.
func (o RotationOrder) Valid() bool {
	var seen [3]bool
	for _, a := range o {
		if a < AxisX || a > AxisZ || seen[a] {
			return false
		}
		seen[a] = true
	}
	return true
}

func (o RotationOrder) String() string {
	return o[0].String() + o[1].String() + o[2].String()
}

type EulerAngles struct {
	Vector3
	Order RotationOrder
}

func NewEuler(x, y, z float32, order RotationOrder) *EulerAngles {
	return &EulerAngles{Vector3: Vector3{x, y, z}, Order: order}
}

func (v *EulerAngles) Angle(axis Axis) Element {
	switch axis {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	case AxisZ:
		return v.Z
	}
	return 0
}

// ToMatrix4 composes the per-axis rotations in Order.
func (v *EulerAngles) ToMatrix4() *Matrix4 {
	m := NewMatrix4()
	for _, axis := range v.Order {
		m = m.Mul(NewAxisRotationMatrix4(axis, v.Angle(axis)))
	}
	return m
}

func (v *EulerAngles) ToQuaternion() *Quaternion {
	q := &Quaternion{W: 1}
	for _, axis := range v.Order {
		h := float64(v.Angle(axis) / 2)
		r := &Quaternion{W: Element(math.Cos(h))}
		s := Element(math.Sin(h))
		switch axis {
		case AxisX:
			r.X = s
		case AxisY:
			r.Y = s
		case AxisZ:
			r.Z = s
		}
		q = q.Mul(r)
	}
	return q
}

func Abs(v Element) Element {
	if v < 0 {
		return -v
	}
	return v
}
