// Package bezier evaluates cubic Bezier curves and their Frenet-like frames,
// and maps arc length to curve parameter through a cumulative length table.
package bezier

import (
	"errors"
	"fmt"

	"github.com/binzume/mocapgeom/geom"
)

// DefaultNumSteps is the number of samples of the arc length table.
const DefaultNumSteps = 128

var ErrDegenerateTangent = errors.New("bezier: degenerate tangent")

type Curve struct {
	// NumSteps is used by the next CalcCumLengths.
	NumSteps int

	points     [4]geom.Vector3
	cumLengths []float32
}

func NewCurve(p0, p1, p2, p3 *geom.Vector3) *Curve {
	c := &Curve{NumSteps: DefaultNumSteps}
	c.SetControlPoints(p0, p1, p2, p3)
	return c
}

// NewDefaultCurve returns the initial curve of a new chain.
func NewDefaultCurve() *Curve {
	return NewCurve(
		geom.NewVector3(1, 0, 1),
		geom.NewVector3(1, 0, -1),
		geom.NewVector3(-1, 0, -1),
		geom.NewVector3(-1, 0, 1))
}

// SetControlPoints replaces the control points and discards the length table.
func (c *Curve) SetControlPoints(p0, p1, p2, p3 *geom.Vector3) {
	c.points = [4]geom.Vector3{*p0, *p1, *p2, *p3}
	c.cumLengths = nil
}

func (c *Curve) ControlPoint(i int) *geom.Vector3 {
	p := c.points[i]
	return &p
}

func (c *Curve) ControlPoints() [4]geom.Vector3 {
	return c.points
}

// weighted returns w0*p0 + w1*p1 + w2*p2 + w3*p3.
func (c *Curve) weighted(w0, w1, w2, w3 float32) *geom.Vector3 {
	p := &c.points
	return &geom.Vector3{
		X: w0*p[0].X + w1*p[1].X + w2*p[2].X + w3*p[3].X,
		Y: w0*p[0].Y + w1*p[1].Y + w2*p[2].Y + w3*p[3].Y,
		Z: w0*p[0].Z + w1*p[1].Z + w2*p[2].Z + w3*p[3].Z,
	}
}

func (c *Curve) GetPoint(t float32) *geom.Vector3 {
	u := 1 - t
	return c.weighted(u*u*u, 3*u*u*t, 3*u*t*t, t*t*t)
}

func (c *Curve) GetFirstDerivative(t float32) *geom.Vector3 {
	tt := t * t
	return c.weighted(-tt+2*t-1, 3*tt-4*t+1, -3*tt+2*t, tt).Scale(3)
}

func (c *Curve) GetSecondDerivative(t float32) *geom.Vector3 {
	return c.weighted(-2*t+2, 6*t-4, -6*t+2, 2*t).Scale(3)
}

// GetTangent returns the unit first derivative, or a zero vector where the derivative vanishes.
func (c *Curve) GetTangent(t float32) *geom.Vector3 {
	return c.GetFirstDerivative(t).Normalized()
}

// GetBinormal returns normalize(tangent x normalize(B' + B'')).
// On straight segments the cross product vanishes and an arbitrary unit
// vector perpendicular to the tangent is returned instead.
func (c *Curve) GetBinormal(t float32) *geom.Vector3 {
	tangent := c.GetTangent(t)
	if tangent.IsZero() {
		return &geom.Vector3{}
	}
	d := c.GetFirstDerivative(t).Add(c.GetSecondDerivative(t)).Normalized()
	b := tangent.Cross(d)
	if b.LenSqr() < 1e-12 {
		return geom.Perpendicular(tangent)
	}
	return b.Normalized()
}

func (c *Curve) GetNormal(t float32) *geom.Vector3 {
	return c.GetTangent(t).Cross(c.GetBinormal(t)).Normalized()
}

// CheckRegular returns ErrDegenerateTangent if the first derivative vanishes at t.
func (c *Curve) CheckRegular(t float32) error {
	if c.GetFirstDerivative(t).LenSqr() < 1e-12 {
		return fmt.Errorf("%w at t=%v", ErrDegenerateTangent, t)
	}
	return nil
}
