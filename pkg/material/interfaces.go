package material

import (
	"math/rand"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

const (
	// OffsetEpsilon is how far scattered rays start above the surface so they
	// do not immediately re-hit it.
	OffsetEpsilon = 1e-4

	// Epsilon guards degenerate reflection directions
	Epsilon = 1e-8
)

// Material interface for objects that can scatter rays.
// Implementations must be immutable so one instance can be shared by many
// shapes and read from many goroutines.
type Material interface {
	// Scatter returns the continued ray and its attenuation, or false when
	// the ray is absorbed.
	Scatter(rayIn core.Ray, hit HitRecord, random *rand.Rand) (ScatterResult, bool)
}

// ScatterResult contains the result of material scattering
type ScatterResult struct {
	Scattered   core.Ray  // The scattered ray
	Attenuation core.Vec3 // Color attenuation
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T         float64   // Parameter t along the ray
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Unit surface normal, as defined by the shape
	FrontFace bool      // Whether the ray arrived against the normal
	Material  Material  // Material of the hit object
}

// NewHitRecord builds a hit record for the given ray and outward normal.
// The normal is stored as given; FrontFace only records which side was hit.
func NewHitRecord(ray core.Ray, t float64, normal core.Vec3, mat Material) *HitRecord {
	return &HitRecord{
		T:         t,
		Point:     ray.At(t),
		Normal:    normal,
		FrontFace: ray.Direction.Dot(normal) < 0,
		Material:  mat,
	}
}
