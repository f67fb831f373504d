package material

import (
	"math/rand"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
)

// Lambertian represents a solid, perfectly diffuse material
type Lambertian struct {
	Albedo core.Vec3 // Base color/reflectance
}

// NewLambertian creates a new lambertian material
func NewLambertian(albedo core.Vec3) *Lambertian {
	return &Lambertian{Albedo: albedo}
}

// Scatter implements the Material interface for lambertian scattering
func (l *Lambertian) Scatter(rayIn core.Ray, hit HitRecord, random *rand.Rand) (ScatterResult, bool) {
	scatterDirection := hit.Normal.Add(core.RandomUnitSphere(random))

	// Keep the bounce on the normal's side of the surface
	if scatterDirection.Dot(hit.Normal) < 0 {
		scatterDirection = scatterDirection.Negate()
	}

	// normal + (-normal) cancels out
	if scatterDirection.NearZero(Epsilon) {
		scatterDirection = hit.Normal
	}

	return ScatterResult{
		Scattered:   core.NewRay(offsetOrigin(hit), scatterDirection.Normalize()),
		Attenuation: l.Albedo,
	}, true
}

// offsetOrigin lifts the hit point off the surface along the normal
func offsetOrigin(hit HitRecord) core.Vec3 {
	return hit.Point.Add(hit.Normal.Multiply(OffsetEpsilon))
}
