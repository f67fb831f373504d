package geometry

import (
	"math"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Cylinder represents a finite, capped cylinder. Center is the middle of the
// bottom cap and the body extends Height units along Orientation.
type Cylinder struct {
	Center         core.Vec3
	Radius         float64
	Height         float64
	Orientation    core.Vec3 // Unit axis from bottom cap to top cap
	BodyMaterial   material.Material
	TopMaterial    material.Material
	BottomMaterial material.Material

	// Cached cap discs
	top    *Disc
	bottom *Disc
}

// NewCylinder creates a new capped cylinder with separate body and cap materials
func NewCylinder(center, orientation core.Vec3, radius, height float64, body, top, bottom material.Material) *Cylinder {
	axis := orientation.Normalize()

	return &Cylinder{
		Center:         center,
		Radius:         radius,
		Height:         height,
		Orientation:    axis,
		BodyMaterial:   body,
		TopMaterial:    top,
		BottomMaterial: bottom,
		top:            NewDisc(center.Add(axis.Multiply(height)), axis, radius, top),
		bottom:         NewDisc(center, axis.Negate(), radius, bottom),
	}
}

// NewSolidCylinder creates a capped cylinder that uses one material everywhere
func NewSolidCylinder(center, orientation core.Vec3, radius, height float64, mat material.Material) *Cylinder {
	return NewCylinder(center, orientation, radius, height, mat, mat, mat)
}

// Hit tests if a ray intersects with the cylinder body or either cap
func (c *Cylinder) Hit(ray core.Ray) (*material.HitRecord, bool) {
	closest, found := c.hitSide(ray)

	for _, disc := range []*Disc{c.bottom, c.top} {
		if hit, ok := disc.Hit(ray); ok && (!found || hit.T < closest.T) {
			closest = hit
			found = true
		}
	}

	return closest, found
}

// hitSide intersects the ray with the finite body of the cylinder
func (c *Cylinder) hitSide(ray core.Ray) (*material.HitRecord, bool) {
	axis := c.Orientation
	oc := ray.Origin.Subtract(c.Center)

	// Components perpendicular to the axis
	n := ray.Direction.Subtract(axis.Multiply(ray.Direction.Dot(axis)))
	m := oc.Subtract(axis.Multiply(oc.Dot(axis)))

	a := n.LengthSquared()
	// Ray is parallel to the axis, only the caps can be hit
	if a <= Epsilon {
		return nil, false
	}

	h := n.Dot(m)
	cc := m.LengthSquared() - c.Radius*c.Radius

	discriminant := h*h - a*cc
	if discriminant < 0 {
		return nil, false
	}
	sqrtD := math.Sqrt(discriminant)

	// Roots in increasing order, so the first valid one is the nearest
	for _, t := range [2]float64{(-h - sqrtD) / a, (-h + sqrtD) / a} {
		if t <= Epsilon {
			continue
		}

		point := ray.At(t)
		height := point.Subtract(c.Center).Dot(axis)
		if height < 0 || height > c.Height {
			continue
		}

		// Normal points radially outward from the axis
		axisPoint := c.Center.Add(axis.Multiply(height))
		normal := point.Subtract(axisPoint).Normalize()

		return material.NewHitRecord(ray, t, normal, c.BodyMaterial), true
	}

	return nil, false
}
