// Package config loads the YAML settings of the command line tool.
package config

import (
	"fmt"
	"io/ioutil"

	"github.com/binzume/mocapgeom/bezier"
	"github.com/binzume/mocapgeom/geom"
	yaml "gopkg.in/yaml.v2"
)

type CurveConfig struct {
	// Control points p0..p3.
	Points   []geom.Vector3 `yaml:"points"`
	NumSteps int            `yaml:"num_steps"`
}

type TubeConfig struct {
	Radius   float32 `yaml:"radius"`
	NumSteps int     `yaml:"num_steps"`
	NumSides int     `yaml:"num_sides"`
}

type ChainConfig struct {
	Enabled  bool         `yaml:"enabled"`
	LinkSize float32      `yaml:"link_size"`
	LinkBox  geom.Vector3 `yaml:"link_box"`
}

type SubdivisionConfig struct {
	Levels int  `yaml:"levels"`
	Flat   bool `yaml:"flat"`
	Strict bool `yaml:"strict"`
}

type SkeletonConfig struct {
	JointSize float32 `yaml:"joint_size"`
	RestFrame int     `yaml:"rest_frame"`
	ShiftJIS  bool    `yaml:"shift_jis"`
}

type PreviewConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	Scale     float32 `yaml:"scale"`
	LineWidth float32 `yaml:"line_width"`
	View      string  `yaml:"view"`
}

type Config struct {
	// Scale applied to the exported glTF document.
	Scale       float32           `yaml:"scale"`
	Curve       CurveConfig       `yaml:"curve"`
	Tube        TubeConfig        `yaml:"tube"`
	Chain       ChainConfig       `yaml:"chain"`
	Subdivision SubdivisionConfig `yaml:"subdivision"`
	Skeleton    SkeletonConfig    `yaml:"skeleton"`
	Preview     PreviewConfig     `yaml:"preview"`
}

func Default() *Config {
	curve := bezier.NewDefaultCurve().ControlPoints()
	return &Config{
		Scale: 1,
		Curve: CurveConfig{
			Points:   curve[:],
			NumSteps: bezier.DefaultNumSteps,
		},
		Tube: TubeConfig{Radius: 0.5, NumSteps: 16, NumSides: 8},
		Chain: ChainConfig{
			LinkSize: 2.0,
			LinkBox:  geom.Vector3{X: 0.4, Y: 0.1, Z: 1.0},
		},
		Subdivision: SubdivisionConfig{Levels: 1},
		Skeleton:    SkeletonConfig{JointSize: 1.0},
		Preview:     PreviewConfig{Width: 512, Height: 512, LineWidth: 1.5, View: "front"},
	}
}

// Parse decodes data over the defaults. Unknown keys are errors.
func Parse(data []byte) (*Config, error) {
	conf := Default()
	if err := yaml.UnmarshalStrict(data, conf); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return conf, nil
}

func Load(path string) (*Config, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func (c *Config) Validate() error {
	if len(c.Curve.Points) != 4 {
		return fmt.Errorf("config: curve needs 4 control points, got %d", len(c.Curve.Points))
	}
	if c.Curve.NumSteps < 1 {
		return fmt.Errorf("config: invalid curve num_steps %d", c.Curve.NumSteps)
	}
	if c.Tube.NumSteps < 1 || c.Tube.NumSides < 1 {
		return fmt.Errorf("config: invalid tube resolution %d x %d", c.Tube.NumSteps, c.Tube.NumSides)
	}
	if c.Chain.LinkSize <= 0 {
		return fmt.Errorf("config: invalid chain link_size %v", c.Chain.LinkSize)
	}
	if c.Subdivision.Levels < 0 {
		return fmt.Errorf("config: invalid subdivision levels %d", c.Subdivision.Levels)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("config: invalid scale %v", c.Scale)
	}
	return nil
}

// NewCurve returns the configured curve.
func (c *Config) NewCurve() *bezier.Curve {
	p := c.Curve.Points
	curve := bezier.NewCurve(&p[0], &p[1], &p[2], &p[3])
	curve.NumSteps = c.Curve.NumSteps
	return curve
}
