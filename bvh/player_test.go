package bvh

import (
	"testing"
	"time"
)

func TestPlayer(t *testing.T) {
	doc := mustParse(t, testHierarchy+testMotion)
	doc.FrameTime = 0.1
	pose := Pose{}
	player := NewPlayer(doc, pose)

	if f, changed, err := player.Advance(50 * time.Millisecond); f != 0 || changed || err != nil {
		t.Error("Advance(50ms):", f, changed, err)
	}
	if len(pose) != 0 {
		t.Error("pose should not be evaluated yet")
	}
	// remainder is carried: 50ms + 60ms
	if f, changed, err := player.Advance(60 * time.Millisecond); f != 1 || !changed || err != nil {
		t.Error("Advance(60ms):", f, changed, err)
	}
	if p := pose.Position(doc.FindJoint("Chest")); !near(p, 1-5.21, 2, 3) {
		t.Error("Chest position:", p)
	}
	// 10ms + 290ms = 3 frames, wraps around
	if f, _, _ := player.Advance(290 * time.Millisecond); f != 1 {
		t.Error("wrap around:", f)
	}

	if err := player.Seek(2); err != nil || player.Frame() != 2 {
		t.Error("Seek:", player.Frame(), err)
	}
	if err := player.Seek(5); err == nil || player.Frame() != 2 {
		t.Error("Seek out of range:", player.Frame(), err)
	}
}

func TestPlayerNoAnimate(t *testing.T) {
	doc := mustParse(t, testHierarchy+testMotion)
	pose := Pose{}
	player := NewPlayer(doc, pose)
	player.Animate = false
	if f, changed, _ := player.Advance(time.Second); !changed || f != 30%3 {
		t.Error("Advance:", f, changed)
	}
	if len(pose) != 0 {
		t.Error("pose should not be evaluated")
	}
}
