package scene

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/geometry"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
	"github.com/df07/go-stochastic-raytracer/pkg/renderer"
)

// AmbientLight describes the scene's ambient term. The renderer lights misses
// with the sky gradient, so Ratio and Color are carried for scene descriptions
// but do not change the image.
type AmbientLight struct {
	Ratio float64
	Color core.Vec3
}

// Scene contains all the elements needed for rendering
type Scene struct {
	Camera         *renderer.Camera
	Shapes         []geometry.Shape // Objects in the scene, in insertion order
	Ambient        AmbientLight
	SamplingConfig renderer.SamplingConfig
	CameraConfig   renderer.CameraConfig
}

// New creates an empty scene viewed through the given camera
func New(cameraConfig renderer.CameraConfig, ambient AmbientLight) *Scene {
	return &Scene{
		Camera:         renderer.NewCamera(cameraConfig),
		Shapes:         make([]geometry.Shape, 0),
		Ambient:        ambient,
		SamplingConfig: renderer.DefaultSamplingConfig(),
		CameraConfig:   cameraConfig,
	}
}

// AddShape appends a shape to the scene
func (s *Scene) AddShape(shape geometry.Shape) {
	s.Shapes = append(s.Shapes, shape)
}

// Clear removes every shape from the scene
func (s *Scene) Clear() {
	s.Shapes = s.Shapes[:0]
}

// NearestHit scans all shapes and returns the closest hit along the ray.
// On an exact tie in t the shape added first wins.
func (s *Scene) NearestHit(ray core.Ray) (*material.HitRecord, bool) {
	var closest *material.HitRecord

	for _, shape := range s.Shapes {
		hit, ok := shape.Hit(ray)
		if ok && (closest == nil || hit.T < closest.T) {
			closest = hit
		}
	}

	return closest, closest != nil
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera {
	return s.Camera
}

// GetSamplingConfig returns the scene's sampling configuration
func (s *Scene) GetSamplingConfig() renderer.SamplingConfig {
	return s.SamplingConfig
}

// SetImageWidth rebuilds the camera at a new image width, keeping the
// field of view and aspect ratio
func (s *Scene) SetImageWidth(width int) {
	s.CameraConfig.ImageWidth = width
	s.Camera = renderer.NewCamera(s.CameraConfig)
}

// defaultAmbient is the ambient term used by the built-in scenes
var defaultAmbient = AmbientLight{Ratio: 0.2, Color: core.NewVec3(1, 1, 1)}
