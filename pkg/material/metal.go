package material

import (
	"math/rand"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo core.Vec3 // Metal color
	Fuzz   float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzz float64) *Metal {
	// Clamp fuzz to valid range
	if fuzz > 1.0 {
		fuzz = 1.0
	}
	if fuzz < 0.0 {
		fuzz = 0.0
	}
	return &Metal{Albedo: albedo, Fuzz: fuzz}
}

// Scatter implements the Material interface for metal scattering
func (m *Metal) Scatter(rayIn core.Ray, hit HitRecord, random *rand.Rand) (ScatterResult, bool) {
	reflected := Reflect(rayIn.Direction.Normalize(), hit.Normal)

	// Grazing or back-facing reflection
	if reflected.Dot(hit.Normal) < Epsilon {
		return ScatterResult{}, false
	}

	if m.Fuzz > 0 {
		reflected = reflected.Add(core.RandomUnitSphere(random).Multiply(m.Fuzz))
		// The perturbation can cancel the reflection entirely
		if reflected.LengthSquared() < Epsilon {
			return ScatterResult{}, false
		}
	}

	return ScatterResult{
		Scattered:   core.NewRay(offsetOrigin(hit), reflected.Normalize()),
		Attenuation: m.Albedo,
	}, true
}

// Reflect calculates the reflection of a vector v off a surface with normal n
func Reflect(v, n core.Vec3) core.Vec3 {
	// r = v - 2*dot(v,n)*n
	return v.Subtract(n.Multiply(2 * v.Dot(n)))
}
