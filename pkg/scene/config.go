package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// ErrUnknownMaterial is returned when an object references a material name
// the description does not define.
var ErrUnknownMaterial = errors.New("unknown material")

// DefaultWidth is the image width used when neither the description nor the
// caller picks one.
const DefaultWidth = 400

// Vec is a JSON [x, y, z] triple
type Vec [3]float64

func (v Vec) vec3() core.Vec3 { return core.NewVec3(v[0], v[1], v[2]) }

// Config is a JSON scene description. Materials are declared once by name and
// shared by every object that references them.
type Config struct {
	Name        string `json:"name"`
	Description string `json:"description"`

	Camera struct {
		Position    Vec     `json:"position"`
		FOV         float64 `json:"fov"`
		AspectRatio float64 `json:"aspect_ratio"`
		Width       int     `json:"width"`
	} `json:"camera"`

	Sampling struct {
		SamplesPerPixel int     `json:"samples_per_pixel"`
		MaxDepth        int     `json:"max_depth"`
		Gamma           float64 `json:"gamma"`
		Seed            int64   `json:"seed"`
	} `json:"sampling"`

	Ambient struct {
		Ratio float64 `json:"ratio"`
		Color Vec     `json:"color"`
	} `json:"ambient"`

	Materials map[string]MaterialConfig `json:"materials"`
	Spheres   []SphereConfig            `json:"spheres"`
	Planes    []PlaneConfig             `json:"planes"`
	Cylinders []CylinderConfig          `json:"cylinders"`
}

// MaterialConfig describes a lambertian or metal material
type MaterialConfig struct {
	Type   string  `json:"type"` // "lambertian" or "metal"
	Albedo Vec     `json:"albedo"`
	Fuzz   float64 `json:"fuzz"` // metal only
}

// SphereConfig describes a sphere
type SphereConfig struct {
	Center   Vec     `json:"center"`
	Radius   float64 `json:"radius"`
	Material string  `json:"material"`
}

// PlaneConfig describes an infinite plane
type PlaneConfig struct {
	Point    Vec    `json:"point"`
	Normal   Vec    `json:"normal"`
	Material string `json:"material"`
}

// CylinderConfig describes a capped cylinder. The cap materials default to
// the body material.
type CylinderConfig struct {
	Center         Vec     `json:"center"`
	Axis           Vec     `json:"axis"`
	Radius         float64 `json:"radius"`
	Height         float64 `json:"height"`
	Material       string  `json:"material"`
	TopMaterial    string  `json:"top_material"`
	BottomMaterial string  `json:"bottom_material"`
}

// Flags holds CLI flag values that override the description's settings
type Flags struct {
	Width   int
	Samples int
	Depth   int
	Seed    int64
	Gamma   float64
}

// LoadConfig reads a JSON scene description from a file
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	defer f.Close()

	cfg, err := ParseConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes a JSON scene description. Unknown fields are rejected.
func ParseConfig(r io.Reader) (Config, error) {
	var cfg Config
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Resolve fills unset fields with defaults. CLI flags take priority when
// non-zero.
func (c *Config) Resolve(flags Flags) {
	if flags.Width > 0 {
		c.Camera.Width = flags.Width
	}
	if flags.Samples > 0 {
		c.Sampling.SamplesPerPixel = flags.Samples
	}
	if flags.Depth > 0 {
		c.Sampling.MaxDepth = flags.Depth
	}
	if flags.Seed != 0 {
		c.Sampling.Seed = flags.Seed
	}
	if flags.Gamma > 0 {
		c.Sampling.Gamma = flags.Gamma
	}

	defaults := renderer.DefaultSamplingConfig()
	if c.Camera.Width <= 0 {
		c.Camera.Width = DefaultWidth
	}
	if c.Camera.FOV <= 0 {
		c.Camera.FOV = 90
	}
	if c.Camera.AspectRatio <= 0 {
		c.Camera.AspectRatio = 16.0 / 9.0
	}
	if c.Sampling.SamplesPerPixel <= 0 {
		c.Sampling.SamplesPerPixel = defaults.SamplesPerPixel
	}
	if c.Sampling.MaxDepth <= 0 {
		c.Sampling.MaxDepth = defaults.MaxDepth
	}
	if c.Sampling.Gamma <= 0 {
		c.Sampling.Gamma = defaults.Gamma
	}
	if c.Sampling.Seed == 0 {
		c.Sampling.Seed = defaults.Seed
	}
}

// Build validates the description and constructs the scene it describes
func (c *Config) Build() (*Scene, error) {
	cameraConfig := renderer.CameraConfig{
		Position:    c.Camera.Position.vec3(),
		VFov:        c.Camera.FOV,
		AspectRatio: c.Camera.AspectRatio,
		ImageWidth:  c.Camera.Width,
	}
	if err := cameraConfig.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	sampling := renderer.SamplingConfig{
		SamplesPerPixel: c.Sampling.SamplesPerPixel,
		MaxDepth:        c.Sampling.MaxDepth,
		Gamma:           c.Sampling.Gamma,
		Seed:            c.Sampling.Seed,
	}
	if err := sampling.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	materials, err := c.buildMaterials()
	if err != nil {
		return nil, err
	}
	lookup := func(object, name string) (material.Material, error) {
		mat, ok := materials[name]
		if !ok {
			return nil, fmt.Errorf("config: %s: %w %q", object, ErrUnknownMaterial, name)
		}
		return mat, nil
	}

	s := New(cameraConfig, AmbientLight{Ratio: c.Ambient.Ratio, Color: c.Ambient.Color.vec3()})
	s.SamplingConfig = sampling

	for i, sc := range c.Spheres {
		object := fmt.Sprintf("sphere %d", i)
		if sc.Radius <= 0 {
			return nil, fmt.Errorf("config: %s: radius must be positive, got %g", object, sc.Radius)
		}
		mat, err := lookup(object, sc.Material)
		if err != nil {
			return nil, err
		}
		s.AddShape(geometry.NewSphere(sc.Center.vec3(), sc.Radius, mat))
	}

	for i, pc := range c.Planes {
		object := fmt.Sprintf("plane %d", i)
		if pc.Normal.vec3().LengthSquared() == 0 {
			return nil, fmt.Errorf("config: %s: normal must be non-zero", object)
		}
		mat, err := lookup(object, pc.Material)
		if err != nil {
			return nil, err
		}
		s.AddShape(geometry.NewPlane(pc.Point.vec3(), pc.Normal.vec3(), mat))
	}

	for i, cc := range c.Cylinders {
		object := fmt.Sprintf("cylinder %d", i)
		if cc.Radius <= 0 || cc.Height <= 0 {
			return nil, fmt.Errorf("config: %s: radius and height must be positive", object)
		}
		if cc.Axis.vec3().LengthSquared() == 0 {
			return nil, fmt.Errorf("config: %s: axis must be non-zero", object)
		}
		body, err := lookup(object, cc.Material)
		if err != nil {
			return nil, err
		}
		top, bottom := body, body
		if cc.TopMaterial != "" {
			if top, err = lookup(object, cc.TopMaterial); err != nil {
				return nil, err
			}
		}
		if cc.BottomMaterial != "" {
			if bottom, err = lookup(object, cc.BottomMaterial); err != nil {
				return nil, err
			}
		}
		s.AddShape(geometry.NewCylinder(cc.Center.vec3(), cc.Axis.vec3(), cc.Radius, cc.Height, body, top, bottom))
	}

	return s, nil
}

// buildMaterials creates one instance per declared material
func (c *Config) buildMaterials() (map[string]material.Material, error) {
	materials := make(map[string]material.Material, len(c.Materials))
	for name, mc := range c.Materials {
		switch mc.Type {
		case "lambertian":
			materials[name] = material.NewLambertian(mc.Albedo.vec3())
		case "metal":
			materials[name] = material.NewMetal(mc.Albedo.vec3(), mc.Fuzz)
		default:
			return nil, fmt.Errorf("config: material %q: unsupported type %q", name, mc.Type)
		}
	}
	return materials, nil
}
