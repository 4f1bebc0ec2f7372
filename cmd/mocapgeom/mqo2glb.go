package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/binzume/mocapgeom/converter"
	"github.com/binzume/mocapgeom/mqo"
	"github.com/binzume/mocapgeom/preview"
)

func mqoToOutput(input, output string, opt *options) error {
	doc, err := mqo.Load(input)
	if err != nil {
		return err
	}

	ext := strings.ToLower(filepath.Ext(output))
	gltfdoc := converter.NewDocument()
	var segments []preview.Segment
	for _, obj := range doc.Objects {
		if !obj.Visible || len(obj.Faces) == 0 {
			continue
		}
		m, err := obj.ToQuadMesh()
		if err != nil {
			return err
		}
		if m, err = subdivide(m, opt.conf); err != nil {
			return fmt.Errorf("object %q: %w", obj.Name, err)
		}
		log.Printf("object %q: %d vertices, %d quads", obj.Name, len(m.Vertices), len(m.Quads))

		segments = append(segments, preview.MeshSegments(m)...)
		switch ext {
		case ".mqo":
			*obj = *mqo.NewObjectFromQuadMesh(obj.Name, m, 0)
		case ".glb", ".gltf":
			converter.AddQuadMesh(gltfdoc, obj.Name, m)
		}
	}

	if opt.pngPath != "" {
		if err := savePreview(opt.pngPath, segments, opt.conf); err != nil {
			return err
		}
	}
	switch ext {
	case ".png":
		return savePreview(output, segments, opt.conf)
	case ".mqo":
		if len(doc.Materials) == 0 {
			doc.Materials = append(doc.Materials, mqo.NewMaterial("default"))
		}
		return mqo.Save(doc, output)
	case ".glb", ".gltf":
		return saveGLTF(gltfdoc, output, opt.conf.Scale)
	}
	return fmt.Errorf("unsupported output type: %v", output)
}
