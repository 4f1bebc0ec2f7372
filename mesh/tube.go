package mesh

import (
	"fmt"
	"math"

	"github.com/binzume/mocapgeom/geom"
)

// FrameCurve is a parametric curve with a moving frame, t in [0, 1].
type FrameCurve interface {
	GetPoint(t float32) *geom.Vector3
	GetNormal(t float32) *geom.Vector3
	GetBinormal(t float32) *geom.Vector3
}

// NewTube builds a tube of the given radius around curve. It has numSteps+1
// rings of numSides vertices. Ring vertex j lies at angle 2*pi*j/numSides in
// the plane spanned by the binormal and the normal.
func NewTube(curve FrameCurve, radius float32, numSteps, numSides int) (*QuadMesh, error) {
	if numSteps < 1 || numSides < 1 {
		return nil, fmt.Errorf("mesh: invalid tube resolution steps=%d sides=%d", numSteps, numSides)
	}

	circle := make([]geom.Vector2, numSides)
	for j := range circle {
		circle[j] = *geom.NewUnitCirclePoint(2 * math.Pi * float64(j) / float64(numSides)).Scale(radius)
	}

	m := &QuadMesh{
		Vertices: make([]geom.Vector3, 0, (numSteps+1)*numSides),
		Quads:    make([][4]int, 0, numSteps*numSides),
	}
	for i := 0; i <= numSteps; i++ {
		t := float32(i) / float32(numSteps)
		s := curve.GetPoint(t)
		b := curve.GetBinormal(t)
		n := curve.GetNormal(t)
		for _, p := range circle {
			m.Vertices = append(m.Vertices, *s.Add(b.Scale(p.X)).Add(n.Scale(p.Y)))
		}
	}

	for i := 0; i < numSteps; i++ {
		r1 := i * numSides
		r2 := r1 + numSides
		for j := 0; j < numSides-1; j++ {
			m.Quads = append(m.Quads, [4]int{r1 + j + 1, r1 + j, r2 + j, r2 + j + 1})
		}
		m.Quads = append(m.Quads, [4]int{r1, r1 + numSides - 1, r2 + numSides - 1, r2})
	}
	return m, nil
}
