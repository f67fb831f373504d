package geometry

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Disc represents a circular disc in 3D space
type Disc struct {
	Plane          // Supporting plane; Anchor is the disc center
	Radius float64 // Radius of the disc
}

// NewDisc creates a new disc
func NewDisc(center, normal core.Vec3, radius float64, mat material.Material) *Disc {
	return &Disc{
		Plane:  *NewPlane(center, normal, mat),
		Radius: radius,
	}
}

// Hit implements the Shape interface
func (d *Disc) Hit(ray core.Ray) (*material.HitRecord, bool) {
	t, ok := d.intersect(ray)
	if !ok {
		return nil, false
	}

	// Check if intersection point is within disc radius
	hitPoint := ray.At(t)
	if hitPoint.Subtract(d.Anchor).LengthSquared() > d.Radius*d.Radius {
		return nil, false
	}

	return material.NewHitRecord(ray, t, d.Normal, d.Material), true
}
