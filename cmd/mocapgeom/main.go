package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/binzume/mocapgeom/config"
)

type options struct {
	conf     *config.Config
	frame    int
	at       time.Duration
	pngPath  string
	shiftJIS bool
}

func defaultOutputFile(input string) string {
	ext := strings.ToLower(filepath.Ext(input))
	base := input[0 : len(input)-len(ext)]
	if ext == ".mqo" || ext == ".mqoz" {
		return base + ".subdiv.glb"
	}
	return base + ".glb"
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s input.bvh|curve.yaml|input.mqo [output.glb|.gltf|.mqo|.png]\n", os.Args[0])
		flag.PrintDefaults()
	}
	confPath := flag.String("config", "", "config file (.yaml)")
	scale := flag.Float64("scale", 0, "output scale. 0: config value")
	levels := flag.Int("subdiv", -1, "Catmull-Clark subdivision levels. -1: config value")
	flat := flag.Bool("flat", false, "flat shading")
	strict := flag.Bool("strict", false, "check curve regularity and mesh manifoldness")
	frame := flag.Int("frame", -1, "bvh frame to pose. -1: config value")
	at := flag.Duration("at", 0, "bvh playback time to pose (e.g. 1.5s)")
	pngPath := flag.String("png", "", "also render a wireframe preview")
	view := flag.String("view", "", "preview view: front, side or top")
	shiftJIS := flag.Bool("shiftjis", false, "decode bvh joint names as Shift_JIS")
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		return
	}
	input := flag.Arg(0)
	output := defaultOutputFile(input)
	if flag.NArg() > 1 {
		output = flag.Arg(1)
	}

	inputExt := strings.ToLower(filepath.Ext(input))
	confFile := *confPath
	if confFile == "" && (inputExt == ".yaml" || inputExt == ".yml") {
		confFile = input
	}
	conf, err := loadConfig(confFile)
	if err != nil {
		log.Fatal(err)
	}
	if *scale != 0 {
		conf.Scale = float32(*scale)
	}
	if *levels >= 0 {
		conf.Subdivision.Levels = *levels
	}
	if *flat {
		conf.Subdivision.Flat = true
	}
	if *strict {
		conf.Subdivision.Strict = true
	}
	if *view != "" {
		conf.Preview.View = *view
	}
	if *frame >= 0 {
		conf.Skeleton.RestFrame = *frame
	}

	opt := &options{
		conf:     conf,
		at:       *at,
		pngPath:  *pngPath,
		shiftJIS: *shiftJIS || conf.Skeleton.ShiftJIS,
	}

	log.Print("out: ", output)
	switch inputExt {
	case ".bvh":
		err = bvhToOutput(input, output, opt)
	case ".yaml", ".yml":
		err = curveToOutput(output, opt)
	case ".mqo", ".mqoz":
		err = mqoToOutput(input, output, opt)
	default:
		err = fmt.Errorf("unsupported input type: %v", inputExt)
	}
	if err != nil {
		log.Fatal(err)
	}
}
