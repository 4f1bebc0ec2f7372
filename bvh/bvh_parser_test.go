package bvh

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/japanese"
)

const testHierarchy = `HIERARCHY
ROOT Hips
{
	OFFSET 0.00 0.00 0.00
	CHANNELS 6 Xposition Yposition Zposition Zrotation Xrotation Yrotation
	JOINT Chest
	{
		OFFSET 0.00 5.21 0.00
		CHANNELS 3 Zrotation Xrotation Yrotation
		JOINT Head
		{
			OFFSET 0.00 5.45 0.00
			CHANNELS 3 Zrotation Xrotation Yrotation
			End Site
			{
				OFFSET 0.00 3.87 0.00
			}
		}
	}
	JOINT LeftHip
	{
		OFFSET 3.91 0.00 0.00
		CHANNELS 3 Zrotation Xrotation Yrotation
		End Site
		{
			OFFSET 0.00 -18.34 0.00
		}
	}
}
`

const testMotion = `MOTION
Frames: 3
Frame Time: 0.033333
1.0 2.0 3.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0
1.0 2.0 3.0 90.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0
1.0 2.0 3.0 0.0 90.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0 0.0
`

func mustParse(t *testing.T, src string) *Document {
	t.Helper()
	doc, err := Parse(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	return doc
}

func TestParse(t *testing.T) {
	doc := mustParse(t, testHierarchy+testMotion)

	if doc.Root.Name != "Hips" {
		t.Error("root name:", doc.Root.Name)
	}
	if doc.ChannelCount != 15 {
		t.Error("channel count:", doc.ChannelCount)
	}
	if doc.NumFrames() != 3 || len(doc.Frames[2]) != 15 {
		t.Fatal("frames:", doc.NumFrames())
	}
	if doc.Frames[1][3] != 90 {
		t.Error("frame value:", doc.Frames[1])
	}
	if doc.FrameTime != 0.033333 {
		t.Error("frame time:", doc.FrameTime)
	}

	var names []string
	for _, j := range doc.Joints() {
		names = append(names, j.Name)
	}
	expected := "Hips,Chest,Head,Head_end,LeftHip,LeftHip_end"
	if strings.Join(names, ",") != expected {
		t.Error("joints:", names)
	}

	hips := doc.Root
	if hips.PositionChannels != [3]int{0, 1, 2} {
		t.Error("position channels:", hips.PositionChannels)
	}
	// declared Z, X, Y
	if hips.RotationChannels != [3]int{4, 5, 3} {
		t.Error("rotation channels:", hips.RotationChannels)
	}
	if hips.RotationOrder.String() != "ZXY" {
		t.Error("rotation order:", hips.RotationOrder)
	}

	chest := doc.FindJoint("Chest")
	if chest == nil || chest.Parent != hips || chest.Offset.Y != 5.21 {
		t.Fatal("Chest:", chest)
	}
	if chest.HasPosition() || !chest.HasRotation() || chest.ChannelCount() != 3 {
		t.Error("Chest channels:", chest.PositionChannels, chest.RotationChannels)
	}
	if chest.RotationChannels != [3]int{7, 8, 6} {
		t.Error("Chest rotation channels:", chest.RotationChannels)
	}

	end := doc.FindJoint("LeftHip_end")
	if end == nil || !end.EndSite || end.ChannelCount() != 0 || end.Offset.Y != -18.34 {
		t.Error("end site:", end)
	}
	if doc.FindJoint("RightHip") != nil {
		t.Error("unknown joint found")
	}
}

func TestParseLineEndings(t *testing.T) {
	src := strings.ReplaceAll(testHierarchy+testMotion, "\n", "\r\n")
	doc := mustParse(t, "\xef\xbb\xbf"+src)
	if doc.NumFrames() != 3 || doc.Root.Name != "Hips" {
		t.Error("CRLF with BOM:", doc.NumFrames(), doc.Root.Name)
	}
}

func TestParseNamespacedName(t *testing.T) {
	src := strings.Replace(testHierarchy, "ROOT Hips", "ROOT mixamorig:Hips", 1)
	doc := mustParse(t, src+testMotion)
	if doc.Root.Name != "mixamorig:Hips" {
		t.Error("root name:", doc.Root.Name)
	}
}

func TestParseShiftJIS(t *testing.T) {
	name, err := japanese.ShiftJIS.NewEncoder().String("腰")
	if err != nil {
		t.Fatal(err)
	}
	src := strings.Replace(testHierarchy, "ROOT Hips", "ROOT "+name, 1) + testMotion

	p := NewParser(strings.NewReader(src))
	p.ShiftJIS = true
	doc, err := p.Parse()
	if err != nil {
		t.Fatal(err)
	}
	if doc.Root.Name != "腰" {
		t.Error("root name:", doc.Root.Name)
	}
}

func TestParseEndSiteNameCollision(t *testing.T) {
	src := strings.Replace(testHierarchy, "JOINT LeftHip", "JOINT Head_end", 1)
	doc := mustParse(t, src+testMotion)
	var found []*Joint
	for _, j := range doc.Joints() {
		if j.Name == "Head_end" {
			found = append(found, j)
		}
	}
	if len(found) != 2 || !found[0].EndSite || found[1].EndSite {
		t.Fatal("joints named Head_end:", len(found))
	}
	if doc.FindJoint("Head_end") != found[0] {
		t.Error("FindJoint should return the first joint in depth-first order")
	}
}

func TestParseNumberFormats(t *testing.T) {
	src := testHierarchy + `MOTION
Frames: 02
Frame Time: 0.1
09 08 00 1.0E+01 +1 .5 -0.5 1. 2 1e-05 -1e-05 0 0 0 007
01.5 02 -03 0 0 0 0 0 0 0 0 0 0 0 0
`
	doc := mustParse(t, src)
	if doc.NumFrames() != 2 {
		t.Fatal("frames:", doc.NumFrames())
	}
	expected := []float32{9, 8, 0, 10, 1, 0.5, -0.5, 1, 2, 1e-05, -1e-05, 0, 0, 0, 7}
	for i, v := range expected {
		if doc.Frames[0][i] != v {
			t.Errorf("value %d: %v, expected %v", i, doc.Frames[0][i], v)
		}
	}
	if doc.Frames[1][0] != 1.5 || doc.Frames[1][1] != 2 || doc.Frames[1][2] != -3 {
		t.Error("leading zeros:", doc.Frames[1][:3])
	}
}

func TestParseNoFrames(t *testing.T) {
	doc := mustParse(t, testHierarchy+"MOTION\nFrames: 0\nFrame Time: 0.1\n")
	if doc.NumFrames() != 0 || doc.Duration() != 0 {
		t.Error("frames:", doc.NumFrames())
	}
}

func TestParseErrors(t *testing.T) {
	row := "\n1 2 3 0 0 0 0 0 0 0 0 0 0 0 0"
	motion := func(frames string, rows ...string) string {
		return "MOTION\nFrames: " + frames + "\nFrame Time: 0.1" + strings.Join(rows, "") + "\n"
	}
	tests := []struct {
		name string
		src  string
	}{
		{"empty", ""},
		{"no hierarchy", strings.Replace(testHierarchy, "HIERARCHY", "", 1) + motion("1", row)},
		{"root without position", strings.Replace(testHierarchy, "CHANNELS 6 Xposition Yposition Zposition", "CHANNELS 3", 1) + motion("1", "\n0 0 0 0 0 0 0 0 0 0 0 0")},
		{"two rotations", strings.Replace(testHierarchy, "CHANNELS 3 Zrotation Xrotation Yrotation", "CHANNELS 2 Zrotation Xrotation", 1) + motion("1", row)},
		{"unknown channel", strings.Replace(testHierarchy, "Yrotation", "Wrotation", 1) + motion("1", row)},
		{"duplicate channel", strings.Replace(testHierarchy, "Zrotation Xrotation Yrotation\n\t\tJOINT", "Zrotation Zrotation Yrotation\n\t\tJOINT", 1) + motion("1", row)},
		{"missing offset", strings.Replace(testHierarchy, "OFFSET 3.91 0.00 0.00", "", 1) + motion("1", row)},
		{"unclosed joint", strings.TrimSuffix(testHierarchy, "}\n")},
		{"no motion", testHierarchy},
		{"zero frame time", testHierarchy + "MOTION\nFrames: 0\nFrame Time: 0\n"},
		{"missing frame", testHierarchy + motion("2", row)},
		{"short row", testHierarchy + motion("2", row, "\n1 2 3 0 0 0 0 0 0 0 0 0 0 0")},
		{"long row", testHierarchy + motion("1", row+" 0")},
		{"extra row", testHierarchy + motion("1", row, row)},
		{"bad number", testHierarchy + motion("1", "\n1 2 3 0 0 0 0 0 0 0 0 0 0 0 x")},
	}
	for _, test := range tests {
		_, err := Parse(strings.NewReader(test.src))
		var pe *ParseError
		if !errors.As(err, &pe) {
			t.Errorf("%s: expected ParseError, got %v", test.name, err)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	name, err := japanese.ShiftJIS.NewEncoder().String("腰")
	if err != nil {
		t.Fatal(err)
	}
	sjis := filepath.Join(dir, "sjis.bvh")
	src := strings.Replace(testHierarchy, "ROOT Hips", "ROOT "+name, 1) + testMotion
	if err := os.WriteFile(sjis, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}
	doc, err := LoadShiftJIS(sjis)
	if err != nil {
		t.Fatal(err)
	}
	if doc.Root.Name != "腰" {
		t.Error("root name:", doc.Root.Name)
	}

	broken := filepath.Join(dir, "broken.bvh")
	if err := os.WriteFile(broken, []byte(testHierarchy), 0644); err != nil {
		t.Fatal(err)
	}
	_, err = Load(broken)
	var pe *ParseError
	if !errors.As(err, &pe) || pe.File != broken || !strings.Contains(err.Error(), broken) {
		t.Error("expected ParseError with file name, got", err)
	}

	if _, err := Load(filepath.Join(dir, "missing.bvh")); err == nil {
		t.Error("expected error for missing file")
	}
}
