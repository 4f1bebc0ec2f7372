package bezier

import (
	"fmt"

	"github.com/binzume/mocapgeom/geom"
)

// Placement is the pose of a chain link on the curve.
type Placement struct {
	ArcLength float32
	T         float32
	Position  *geom.Vector3
	Forward   *geom.Vector3
	Up        *geom.Vector3
}

// Rotation returns the rotation that maps +Z to Forward and +Y towards Up.
func (p *Placement) Rotation() *geom.Quaternion {
	return geom.NewQuaternionFromMatrix4(geom.NewLookRotationMatrix4(p.Forward, p.Up))
}

// Placements returns links every spacing units of arc length, starting at
// the beginning of the curve. The up vector alternates between the binormal
// and the normal so neighbouring links interlock.
// The length table is calculated if needed.
func (c *Curve) Placements(spacing float32) ([]Placement, error) {
	if spacing <= 0 {
		return nil, fmt.Errorf("bezier: invalid link spacing %v", spacing)
	}
	if c.cumLengths == nil {
		c.CalcCumLengths()
	}
	total, _ := c.ArcLength()

	var links []Placement
	top := true
	for length := float32(0); length < total; length += spacing {
		t, err := c.ArcLengthToT(length)
		if err != nil {
			return nil, err
		}
		up := c.GetNormal(t)
		if top {
			up = c.GetBinormal(t)
		}
		links = append(links, Placement{
			ArcLength: length,
			T:         t,
			Position:  c.GetPoint(t),
			Forward:   c.GetTangent(t),
			Up:        up,
		})
		top = !top
	}
	return links, nil
}
