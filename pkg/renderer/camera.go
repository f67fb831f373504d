package renderer

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// CameraConfig contains all parameters needed to create a camera
type CameraConfig struct {
	Position    core.Vec3 // Camera position; the camera looks down -Z
	VFov        float64   // Vertical field of view in degrees
	AspectRatio float64   // Requested width / height
	ImageWidth  int       // Image width in pixels
}

// Validate checks that the configuration describes a usable camera
func (c CameraConfig) Validate() error {
	if c.ImageWidth <= 0 {
		return fmt.Errorf("camera: image width must be positive, got %d", c.ImageWidth)
	}
	if c.AspectRatio <= 0 || math.IsNaN(c.AspectRatio) || math.IsInf(c.AspectRatio, 0) {
		return fmt.Errorf("camera: aspect ratio must be positive, got %g", c.AspectRatio)
	}
	if !(c.VFov > 0 && c.VFov < 180) {
		return fmt.Errorf("camera: vertical fov must be in (0, 180) degrees, got %g", c.VFov)
	}
	return nil
}

// Viewport is the virtual image plane one focal length in front of the camera
type Viewport struct {
	U      core.Vec3 // Left-to-right edge
	V      core.Vec3 // Top-to-bottom edge (points down in world space)
	Origin core.Vec3 // Top-left corner
	PDU    core.Vec3 // Pixel spacing along U
	PDV    core.Vec3 // Pixel spacing along V
	P00    core.Vec3 // Center of the top-left pixel
}

// Camera generates primary rays for rendering. It is immutable once built.
type Camera struct {
	Position    core.Vec3
	AspectRatio float64 // Actual ratio after rounding the image height
	ImageWidth  int
	ImageHeight int
	FocalLength float64
	Viewport    Viewport
}

// NewCamera creates a camera from the given configuration
func NewCamera(config CameraConfig) *Camera {
	imageHeight := max(1, int(float64(config.ImageWidth)/config.AspectRatio))
	actualRatio := float64(config.ImageWidth) / float64(imageHeight)

	focalLength := 1.0
	theta := config.VFov * math.Pi / 180.0
	viewportHeight := 2.0 * focalLength * math.Tan(theta/2)
	viewportWidth := viewportHeight * config.AspectRatio

	// Rows grow downward, so V is flipped relative to world +Y
	u := core.NewVec3(viewportWidth, 0, 0)
	v := core.NewVec3(0, -viewportHeight, 0)

	topLeft := config.Position.
		Subtract(core.NewVec3(0, 0, focalLength)).
		Subtract(u.Multiply(0.5)).
		Subtract(v.Multiply(0.5))

	pdu := u.Divide(float64(config.ImageWidth))
	pdv := v.Divide(float64(imageHeight))
	p00 := topLeft.Add(pdu.Add(pdv).Multiply(0.5))

	return &Camera{
		Position:    config.Position,
		AspectRatio: actualRatio,
		ImageWidth:  config.ImageWidth,
		ImageHeight: imageHeight,
		FocalLength: focalLength,
		Viewport: Viewport{
			U:      u,
			V:      v,
			Origin: topLeft,
			PDU:    pdu,
			PDV:    pdv,
			P00:    p00,
		},
	}
}

// GetRay returns the primary ray through pixel (i, j) offset by (du, dv)
// pixel units from its center. The direction is unit length.
func (c *Camera) GetRay(i, j int, du, dv float64) core.Ray {
	pixel := c.Viewport.P00.
		Add(c.Viewport.PDU.Multiply(float64(i) + du)).
		Add(c.Viewport.PDV.Multiply(float64(j) + dv))

	return core.NewRay(c.Position, pixel.Subtract(c.Position).Normalize())
}

// GetJitteredRay returns a ray through a uniformly random point of pixel (i, j)
func (c *Camera) GetJitteredRay(i, j int, random *rand.Rand) core.Ray {
	return c.GetRay(i, j, random.Float64()-0.5, random.Float64()-0.5)
}
