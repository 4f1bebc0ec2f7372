package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/binzume/mocapgeom/bvh"
	"github.com/binzume/mocapgeom/converter"
	"github.com/binzume/mocapgeom/preview"
)

func loadBVH(path string, shiftJIS bool) (*bvh.Document, error) {
	if shiftJIS {
		return bvh.LoadShiftJIS(path)
	}
	return bvh.Load(path)
}

// poseFrame returns the frame shown at playback time opt.at, or the configured frame.
func poseFrame(doc *bvh.Document, opt *options) (int, error) {
	if opt.at <= 0 {
		return opt.conf.Skeleton.RestFrame, nil
	}
	player := bvh.NewPlayer(doc, bvh.Pose{})
	player.Animate = false
	frame, _, err := player.Advance(opt.at)
	return frame, err
}

func bvhToOutput(input, output string, opt *options) error {
	doc, err := loadBVH(input, opt.shiftJIS)
	if err != nil {
		return err
	}
	log.Printf("joints: %d, channels: %d, frames: %d (%v)", len(doc.Joints()), doc.ChannelCount, doc.NumFrames(), doc.Duration())

	frame, err := poseFrame(doc, opt)
	if err != nil {
		return err
	}
	if doc.NumFrames() > 0 && (frame < 0 || frame >= doc.NumFrames()) {
		return fmt.Errorf("frame %d out of range (%d frames)", frame, doc.NumFrames())
	}

	renderPose := func(path string) error {
		pose, err := doc.EvaluatePose(frame)
		if err != nil {
			return err
		}
		return savePreview(path, preview.PoseSegments(doc, pose), opt.conf)
	}
	if opt.pngPath != "" {
		if err := renderPose(opt.pngPath); err != nil {
			return err
		}
	}
	if strings.ToLower(filepath.Ext(output)) == ".png" {
		return renderPose(output)
	}

	gltfdoc, err := converter.BVHToGLTF(doc, &converter.BVHToGLTFOption{
		Name:      strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)),
		RestFrame: frame,
		JointSize: opt.conf.Skeleton.JointSize,
		Animation: true,
	})
	if err != nil {
		return err
	}
	return saveGLTF(gltfdoc, output, opt.conf.Scale)
}
