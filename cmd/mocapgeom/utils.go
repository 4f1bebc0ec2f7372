package main

import (
	"github.com/binzume/mocapgeom/config"
	"github.com/binzume/mocapgeom/gltfutil"
	"github.com/binzume/mocapgeom/mesh"
	"github.com/binzume/mocapgeom/preview"
	"github.com/binzume/mocapgeom/subdiv"
	"github.com/qmuntal/gltf"
)

func subdivide(m *mesh.QuadMesh, conf *config.Config) (*mesh.QuadMesh, error) {
	if conf.Subdivision.Strict {
		if err := subdiv.CheckManifold(m); err != nil {
			return nil, err
		}
	}
	m, err := subdiv.SubdivideN(m, conf.Subdivision.Levels)
	if err != nil {
		return nil, err
	}
	if conf.Subdivision.Flat {
		m.MakeFlatShaded()
	}
	return m, nil
}

func saveGLTF(doc *gltf.Document, path string, scale float32) error {
	if err := gltfutil.Transform(doc, scale); err != nil {
		return err
	}
	return gltfutil.Save(doc, path)
}

func savePreview(path string, segments []preview.Segment, conf *config.Config) error {
	opt := preview.DefaultOptions()
	opt.Width = conf.Preview.Width
	opt.Height = conf.Preview.Height
	opt.Scale = conf.Preview.Scale
	opt.LineWidth = conf.Preview.LineWidth
	opt.View = conf.Preview.View
	return preview.SavePNG(path, preview.Render(segments, opt))
}
