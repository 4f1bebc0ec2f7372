package main

import (
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/binzume/mocapgeom/converter"
	"github.com/binzume/mocapgeom/mesh"
	"github.com/binzume/mocapgeom/mqo"
	"github.com/binzume/mocapgeom/preview"
)

func curveToOutput(output string, opt *options) error {
	conf := opt.conf
	curve := conf.NewCurve()
	if conf.Subdivision.Strict {
		for i := 0; i <= conf.Tube.NumSteps; i++ {
			if err := curve.CheckRegular(float32(i) / float32(conf.Tube.NumSteps)); err != nil {
				return err
			}
		}
	}
	curve.CalcCumLengths()
	length, _ := curve.ArcLength()
	log.Printf("curve length: %v (quadrature: %v)", length, curve.IntegratedLength())

	tube, err := mesh.NewTube(curve, conf.Tube.Radius, conf.Tube.NumSteps, conf.Tube.NumSides)
	if err != nil {
		return err
	}
	tube, err = subdivide(tube, conf)
	if err != nil {
		return err
	}
	if opt.pngPath != "" {
		if err := savePreview(opt.pngPath, preview.MeshSegments(tube), conf); err != nil {
			return err
		}
	}

	switch strings.ToLower(filepath.Ext(output)) {
	case ".png":
		return savePreview(output, preview.MeshSegments(tube), conf)
	case ".mqo":
		doc := mqo.NewDocument()
		doc.Materials = append(doc.Materials, mqo.NewMaterial("tube"))
		doc.Objects = append(doc.Objects, mqo.NewObjectFromQuadMesh("tube", tube, 0))
		return mqo.Save(doc, output)
	case ".glb", ".gltf":
		doc := converter.NewDocument()
		converter.AddQuadMesh(doc, "tube", tube)
		if conf.Chain.Enabled {
			links, err := curve.Placements(conf.Chain.LinkSize)
			if err != nil {
				return err
			}
			b := conf.Chain.LinkBox
			link := converter.AddMesh(doc, "link", mesh.NewBox(b.X, b.Y, b.Z))
			converter.AddPlacements(doc, "chain", links, link)
			log.Printf("chain links: %d", len(links))
		}
		return saveGLTF(doc, output, conf.Scale)
	}
	return fmt.Errorf("unsupported output type: %v", output)
}
