package scene

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// NewCylinderScene creates a test scene with cylinders in several orientations
func NewCylinderScene(width int) *Scene {
	cameraConfig := renderer.CameraConfig{
		Position:    core.NewVec3(0, 1, 4),
		VFov:        50.0,
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
	lambertianGray := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	lambertianRed := material.NewLambertian(core.NewVec3(0.8, 0.2, 0.2))
	lambertianBlue := material.NewLambertian(core.NewVec3(0.2, 0.2, 0.8))
	metalGold := material.NewMetal(core.NewVec3(0.8, 0.6, 0.2), 0.1)
	metalMirror := material.NewMetal(core.NewVec3(0.9, 0.9, 0.9), 0.0)

	// Ground
	s.AddShape(geometry.NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), lambertianGray))

	// Left: upright red cylinder with a mirror top
	s.AddShape(geometry.NewCylinder(
		core.NewVec3(-1.5, 0, 0), core.NewVec3(0, 1, 0), 0.4, 1.5,
		lambertianRed, metalMirror, lambertianRed,
	))

	// Center: gold cylinder lying along X
	s.AddShape(geometry.NewSolidCylinder(
		core.NewVec3(-0.6, 0.35, 0.5), core.NewVec3(1, 0, 0), 0.35, 1.2, metalGold,
	))

	// Right: blue cylinder tilted toward the camera
	s.AddShape(geometry.NewCylinder(
		core.NewVec3(1.5, 0.4, -0.5), core.NewVec3(0, 1, 1), 0.3, 1.0,
		lambertianBlue, lambertianRed, lambertianBlue,
	))

	// A sphere sharing the gold material with the lying cylinder
	s.AddShape(geometry.NewSphere(core.NewVec3(0, 0.3, 1.3), 0.3, metalGold))

	return s
}
