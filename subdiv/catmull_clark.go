// Package subdiv implements Catmull-Clark subdivision of quad meshes.
package subdiv

import (
	"errors"
	"fmt"

	"github.com/binzume/mocapgeom/geom"
	"github.com/binzume/mocapgeom/mesh"
)

// NoFace is the second face of a boundary edge.
const NoFace = -1

var ErrNonManifold = errors.New("subdiv: non-manifold mesh")

type Edge struct {
	V1, V2 int
	F1, F2 int
}

func (e *Edge) IsBoundary() bool {
	return e.F2 == NoFace
}

type edgeKey struct {
	a, b int
}

func newEdgeKey(v1, v2 int) edgeKey {
	if v1 > v2 {
		return edgeKey{v2, v1}
	}
	return edgeKey{v1, v2}
}

func edgeIndex(edges []Edge) map[edgeKey]int {
	index := make(map[edgeKey]int, len(edges))
	for i, e := range edges {
		index[newEdgeKey(e.V1, e.V2)] = i
	}
	return index
}

// Edges returns the unique edges of m in the order they first appear.
// It fails if an edge is shared by more than two quads.
func Edges(m *mesh.QuadMesh) ([]Edge, error) {
	var edges []Edge
	index := map[edgeKey]int{}
	for f, q := range m.Quads {
		for k := 0; k < 4; k++ {
			v1, v2 := q[k], q[(k+1)%4]
			key := newEdgeKey(v1, v2)
			i, ok := index[key]
			if !ok {
				index[key] = len(edges)
				edges = append(edges, Edge{V1: v1, V2: v2, F1: f, F2: NoFace})
				continue
			}
			if edges[i].F2 != NoFace {
				return nil, fmt.Errorf("%w: edge (%d, %d) is shared by more than two quads", ErrNonManifold, key.a, key.b)
			}
			edges[i].F2 = f
		}
	}
	return edges, nil
}

// FacePoints returns the centroid of each quad.
func FacePoints(m *mesh.QuadMesh) []geom.Vector3 {
	points := make([]geom.Vector3, len(m.Quads))
	for i, q := range m.Quads {
		p := &geom.Vector3{}
		for _, v := range q {
			p = p.Add(&m.Vertices[v])
		}
		points[i] = *p.Scale(0.25)
	}
	return points
}

// EdgePoints returns the average of each edge's end points and adjacent face
// points. Boundary edges have a single face point.
func EdgePoints(m *mesh.QuadMesh, edges []Edge, facePoints []geom.Vector3) []geom.Vector3 {
	points := make([]geom.Vector3, len(edges))
	for i, e := range edges {
		p := m.Vertices[e.V1].Add(&m.Vertices[e.V2]).Add(&facePoints[e.F1])
		if e.IsBoundary() {
			points[i] = *p.Scale(1.0 / 3)
		} else {
			points[i] = *p.Add(&facePoints[e.F2]).Scale(0.25)
		}
	}
	return points
}

// RelocatedPoints moves each original vertex P to (F + 2R + (n-3)P) / n, where
// n is the number of adjacent quads, F the average of their face points and R
// the average of the midpoints of the incident edges.
// Vertices not used by any quad are unchanged.
func RelocatedPoints(m *mesh.QuadMesh, edges []Edge, facePoints []geom.Vector3) []geom.Vector3 {
	nv := len(m.Vertices)
	f := make([]geom.Vector3, nv)
	fn := make([]int, nv)
	r := make([]geom.Vector3, nv)
	rn := make([]int, nv)
	for i, q := range m.Quads {
		for _, v := range q {
			f[v] = *f[v].Add(&facePoints[i])
			fn[v]++
		}
	}
	for _, e := range edges {
		mid := m.Vertices[e.V1].Add(&m.Vertices[e.V2]).Scale(0.5)
		r[e.V1] = *r[e.V1].Add(mid)
		r[e.V2] = *r[e.V2].Add(mid)
		rn[e.V1]++
		rn[e.V2]++
	}

	points := make([]geom.Vector3, nv)
	for i := range points {
		p := &m.Vertices[i]
		if fn[i] == 0 || rn[i] == 0 {
			points[i] = *p
			continue
		}
		n := float32(fn[i])
		favg := f[i].Scale(1 / n)
		ravg := r[i].Scale(1 / float32(rn[i]))
		points[i] = *favg.Add(ravg.Scale(2)).Add(p.Scale(n - 3)).Scale(1 / n)
	}
	return points
}

// Subdivide applies one Catmull-Clark pass. The result holds the relocated
// points, then the face points, then the edge points; each quad (a,b,c,d) is
// replaced by four quads around its face point.
func Subdivide(m *mesh.QuadMesh) (*mesh.QuadMesh, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	edges, err := Edges(m)
	if err != nil {
		return nil, err
	}
	facePoints := FacePoints(m)
	edgePoints := EdgePoints(m, edges, facePoints)
	newPoints := RelocatedPoints(m, edges, facePoints)

	vertices := make([]geom.Vector3, 0, len(newPoints)+len(facePoints)+len(edgePoints))
	vertices = append(vertices, newPoints...)
	vertices = append(vertices, facePoints...)
	vertices = append(vertices, edgePoints...)

	index := edgeIndex(edges)
	faceBase := len(newPoints)
	edgeBase := faceBase + len(facePoints)
	quads := make([][4]int, 0, len(m.Quads)*4)
	for i, q := range m.Quads {
		var e [4]int
		for k := 0; k < 4; k++ {
			j, ok := index[newEdgeKey(q[k], q[(k+1)%4])]
			if !ok {
				return nil, fmt.Errorf("subdiv: quad %d: edge (%d, %d) not found", i, q[k], q[(k+1)%4])
			}
			e[k] = edgeBase + j
		}
		fp := faceBase + i
		quads = append(quads,
			[4]int{q[0], e[0], fp, e[3]},
			[4]int{q[1], e[1], fp, e[0]},
			[4]int{q[2], e[2], fp, e[1]},
			[4]int{q[3], e[3], fp, e[2]})
	}
	return mesh.NewQuadMesh(vertices, quads), nil
}

// SubdivideN applies levels passes of Subdivide.
func SubdivideN(m *mesh.QuadMesh, levels int) (*mesh.QuadMesh, error) {
	for i := 0; i < levels; i++ {
		var err error
		if m, err = Subdivide(m); err != nil {
			return nil, fmt.Errorf("level %d: %w", i+1, err)
		}
	}
	return m, nil
}

// CheckManifold reports out of range indices, quads with repeated vertices
// and edges shared by more than two quads.
func CheckManifold(m *mesh.QuadMesh) error {
	if err := m.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrNonManifold, err)
	}
	for i, q := range m.Quads {
		for a := 0; a < 4; a++ {
			for b := a + 1; b < 4; b++ {
				if q[a] == q[b] {
					return fmt.Errorf("%w: quad %d has repeated vertex %d", ErrNonManifold, i, q[a])
				}
			}
		}
	}
	_, err := Edges(m)
	return err
}
