package geometry

import (
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Plane represents an infinite plane defined by a point and normal
type Plane struct {
	Anchor   core.Vec3         // A point on the plane
	Normal   core.Vec3         // Unit normal vector
	Material material.Material // Material of the plane
}

// NewPlane creates a new plane. The normal is normalized and must be non-zero.
func NewPlane(anchor, normal core.Vec3, mat material.Material) *Plane {
	return &Plane{
		Anchor:   anchor,
		Normal:   normal.Normalize(),
		Material: mat,
	}
}

// intersect returns the ray parameter where the ray meets the plane
func (p *Plane) intersect(ray core.Ray) (float64, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray is parallel to the plane
	if math.Abs(denominator) < Epsilon {
		return 0, false
	}

	// t = (anchor - origin) · normal / (direction · normal)
	t := p.Anchor.Subtract(ray.Origin).Dot(p.Normal) / denominator
	if t <= Epsilon {
		return 0, false
	}
	return t, true
}

// Hit tests if a ray intersects with the plane.
// The reported normal is the plane's own orientation, whichever side is hit.
func (p *Plane) Hit(ray core.Ray) (*material.HitRecord, bool) {
	t, ok := p.intersect(ray)
	if !ok {
		return nil, false
	}
	return material.NewHitRecord(ray, t, p.Normal, p.Material), true
}
