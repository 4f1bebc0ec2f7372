package preview

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/binzume/mocapgeom/bvh"
	"github.com/binzume/mocapgeom/geom"
	"github.com/binzume/mocapgeom/mesh"
)

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r < 0x8000 && g < 0x8000 && b < 0x8000
}

func TestRender(t *testing.T) {
	opt := DefaultOptions()
	opt.Width, opt.Height = 64, 64
	opt.LineWidth = 3
	segments := []Segment{{A: geom.Vector3{X: -1}, B: geom.Vector3{X: 1}}}

	img := Render(segments, opt)
	if img.Bounds().Dx() != 64 || img.Bounds().Dy() != 64 {
		t.Fatal("size:", img.Bounds())
	}
	if !isDark(img.At(32, 32)) {
		t.Error("line not drawn at the center", img.At(32, 32))
	}
	if isDark(img.At(32, 5)) || isDark(img.At(1, 1)) {
		t.Error("background should be white")
	}

	opt.View = "side"
	img = Render(segments, opt)
	if isDark(img.At(10, 32)) {
		t.Error("side view of a line along X should be a point")
	}
}

func TestMeshSegments(t *testing.T) {
	m := mesh.NewBox(1, 1, 1)
	if s := MeshSegments(m); len(s) != 12 {
		t.Error("box edges:", len(s))
	}

	img := Render(MeshSegments(m), &Options{Width: 32, Height: 32, View: "top"})
	path := filepath.Join(t.TempDir(), "box.png")
	if err := SavePNG(path, img); err != nil {
		t.Fatal(err)
	}
	if st, err := os.Stat(path); err != nil || st.Size() == 0 {
		t.Error("png not written", err)
	}
}

func TestPoseSegments(t *testing.T) {
	src := "HIERARCHY\nROOT Hips\n{\n\tOFFSET 0 0 0\n\tCHANNELS 6 Xposition Yposition Zposition Zrotation Xrotation Yrotation\n" +
		"\tEnd Site\n\t{\n\t\tOFFSET 0 1 0\n\t}\n}\nMOTION\nFrames: 1\nFrame Time: 0.1\n1 2 3 0 0 0\n"
	doc, err := bvh.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	pose, err := doc.EvaluatePose(0)
	if err != nil {
		t.Fatal(err)
	}
	segments := PoseSegments(doc, pose)
	if len(segments) != 1 {
		t.Fatal("segments:", len(segments))
	}
	if segments[0].A != (geom.Vector3{X: 1, Y: 2, Z: 3}) || segments[0].B != (geom.Vector3{X: 1, Y: 3, Z: 3}) {
		t.Error("segment:", segments[0])
	}
}
