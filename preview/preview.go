// Package preview draws orthographic wireframe images of poses and meshes.
package preview

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/binzume/mocapgeom/bvh"
	"github.com/binzume/mocapgeom/geom"
	"github.com/binzume/mocapgeom/mesh"
	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

type Segment struct {
	A, B geom.Vector3
}

type Options struct {
	Width  int
	Height int
	// Scale is pixels per unit. 0: fit to the image.
	Scale float32
	// LineWidth in pixels.
	LineWidth float32
	// View is "front" (XY), "side" (ZY) or "top" (XZ).
	View       string
	Color      color.Color
	Background color.Color
}

func DefaultOptions() *Options {
	return &Options{
		Width:      512,
		Height:     512,
		LineWidth:  1.5,
		View:       "front",
		Color:      color.Black,
		Background: color.White,
	}
}

// PoseSegments returns a bone from each joint to its parent.
func PoseSegments(doc *bvh.Document, pose bvh.Pose) []Segment {
	var segments []Segment
	for _, j := range doc.Joints() {
		if j.Parent == nil {
			continue
		}
		a, b := pose.Position(j.Parent), pose.Position(j)
		if a == nil || b == nil {
			continue
		}
		segments = append(segments, Segment{A: *a, B: *b})
	}
	return segments
}

// MeshSegments returns the unique edges of m.
func MeshSegments(m *mesh.QuadMesh) []Segment {
	type edge struct{ a, b int }
	seen := map[edge]bool{}
	var segments []Segment
	for _, q := range m.Quads {
		for k := 0; k < 4; k++ {
			e := edge{q[k], q[(k+1)%4]}
			if e.a > e.b {
				e = edge{e.b, e.a}
			}
			if seen[e] {
				continue
			}
			seen[e] = true
			segments = append(segments, Segment{A: m.Vertices[e.a], B: m.Vertices[e.b]})
		}
	}
	return segments
}

func (opt *Options) project(v *geom.Vector3) (float32, float32) {
	switch opt.View {
	case "side":
		return v.Z, v.Y
	case "top":
		return v.X, -v.Z
	}
	return v.X, v.Y
}

// Render draws segments centered in a new image.
func Render(segments []Segment, opt *Options) *image.RGBA {
	if opt == nil {
		opt = DefaultOptions()
	}
	img := image.NewRGBA(image.Rect(0, 0, opt.Width, opt.Height))
	bg := opt.Background
	if bg == nil {
		bg = color.White
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
	if len(segments) == 0 {
		return img
	}

	minX, minY := float32(math.MaxFloat32), float32(math.MaxFloat32)
	maxX, maxY := -minX, -minY
	for i := range segments {
		for _, v := range []*geom.Vector3{&segments[i].A, &segments[i].B} {
			x, y := opt.project(v)
			minX, maxX = float32(math.Min(float64(minX), float64(x))), float32(math.Max(float64(maxX), float64(x)))
			minY, maxY = float32(math.Min(float64(minY), float64(y))), float32(math.Max(float64(maxY), float64(y)))
		}
	}
	scale := opt.Scale
	if scale <= 0 {
		w, h := maxX-minX, maxY-minY
		scale = 1
		if w > 0 || h > 0 {
			margin := float32(0.9)
			scale = float32(math.Min(float64(float32(opt.Width)*margin/w), float64(float32(opt.Height)*margin/h)))
		}
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2
	toScreen := func(v *geom.Vector3) (float32, float32) {
		x, y := opt.project(v)
		return float32(opt.Width)/2 + (x-cx)*scale, float32(opt.Height)/2 - (y-cy)*scale
	}

	lw := opt.LineWidth
	if lw <= 0 {
		lw = 1
	}
	z := vector.NewRasterizer(opt.Width, opt.Height)
	for i := range segments {
		x0, y0 := toScreen(&segments[i].A)
		x1, y1 := toScreen(&segments[i].B)
		dx, dy := x1-x0, y1-y0
		l := float32(math.Sqrt(float64(dx*dx + dy*dy)))
		if l == 0 {
			dx, dy, l = 1, 0, 1
		}
		// quad around the segment, extended by half the width at both ends
		nx, ny := -dy/l*lw/2, dx/l*lw/2
		ex, ey := dx/l*lw/2, dy/l*lw/2
		z.MoveTo(x0-ex+nx, y0-ey+ny)
		z.LineTo(x1+ex+nx, y1+ey+ny)
		z.LineTo(x1+ex-nx, y1+ey-ny)
		z.LineTo(x0-ex-nx, y0-ey-ny)
		z.ClosePath()
	}
	fg := opt.Color
	if fg == nil {
		fg = color.Black
	}
	z.Draw(img, img.Bounds(), image.NewUniform(fg), image.Point{})
	return img
}

func SavePNG(path string, img image.Image) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	defer w.Close()
	return png.Encode(w, img)
}
