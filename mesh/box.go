package mesh

import "github.com/binzume/mocapgeom/geom"

// NewBox returns an axis aligned box centered at the origin with outward facing quads.
func NewBox(sx, sy, sz float32) *QuadMesh {
	x, y, z := sx/2, sy/2, sz/2
	return NewQuadMesh([]geom.Vector3{
		{X: -x, Y: -y, Z: -z}, {X: x, Y: -y, Z: -z}, {X: x, Y: y, Z: -z}, {X: -x, Y: y, Z: -z},
		{X: -x, Y: -y, Z: z}, {X: x, Y: -y, Z: z}, {X: x, Y: y, Z: z}, {X: -x, Y: y, Z: z},
	}, [][4]int{
		{0, 3, 2, 1}, {4, 5, 6, 7},
		{0, 1, 5, 4}, {3, 7, 6, 2},
		{0, 4, 7, 3}, {1, 2, 6, 5},
	})
}
