package scene

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// NewDefaultScene creates a default scene with spheres, a cylinder and a
// ground plane
func NewDefaultScene(width int) *Scene {
	cameraConfig := renderer.CameraConfig{
		Position:    core.NewVec3(0, 0.6, 1.5), // Slightly above the ground, looking down -Z
		VFov:        60.0,
		AspectRatio: 16.0 / 9.0,
		ImageWidth:  width,
	}

	s := New(cameraConfig, defaultAmbient)
	s.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: 32,
		MaxDepth:        50,
		Gamma:           2.0,
		Seed:            42,
	}

	// Create materials
	lambertianGreen := material.NewLambertian(core.NewVec3(0.8, 0.8, 0.0).Multiply(0.6))
	lambertianRed := material.NewLambertian(core.NewVec3(0.65, 0.25, 0.2))
	lambertianBlue := material.NewLambertian(core.NewVec3(0.1, 0.2, 0.5))
	metalSilver := material.NewMetal(core.NewVec3(0.8, 0.8, 0.8), 0.0)
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.3)

	// Ground
	s.AddShape(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), lambertianGreen))

	// Three spheres in a row
	s.AddShape(geometry.NewSphere(core.NewVec3(0, 0.5, -1), 0.5, lambertianRed))
	s.AddShape(geometry.NewSphere(core.NewVec3(-1, 0.5, -1), 0.5, metalSilver))
	s.AddShape(geometry.NewSphere(core.NewVec3(1, 0.5, -1), 0.5, metalGold))

	// Blue cylinder with a silver top behind the spheres
	s.AddShape(geometry.NewCylinder(
		core.NewVec3(0, 0, -2.5), // center of bottom cap
		core.NewVec3(0, 1, 0),    // axis
		0.4,                      // radius
		1.2,                      // height
		lambertianBlue,           // body
		metalSilver,              // top cap
		lambertianBlue,           // bottom cap
	))

	return s
}

// NewSingleSphereScene creates one diffuse sphere in front of a camera at the
// origin: a square image with a 90 degree field of view, one sample per pixel
// and a single bounce.
func NewSingleSphereScene(width int) *Scene {
	cameraConfig := renderer.CameraConfig{
		Position:    core.NewVec3(0, 0, 0),
		VFov:        90.0,
		AspectRatio: 1.0,
		ImageWidth:  width,
	}

	s := New(cameraConfig, defaultAmbient)
	s.SamplingConfig = renderer.SamplingConfig{
		SamplesPerPixel: 1,
		MaxDepth:        1,
		Gamma:           2.0,
		Seed:            42,
	}

	gray := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	s.AddShape(geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, gray))

	return s
}
