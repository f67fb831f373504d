package geometry

import (
	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

// Epsilon is the minimum ray parameter accepted as a hit. It also bounds the
// parallel-ray tests. Rays that start exactly on a surface must not hit it
// again at t = 0.
const Epsilon = 1e-8

// Shape interface for objects that can be hit by rays.
// Hit returns the nearest intersection with t > Epsilon, if any.
type Shape interface {
	Hit(ray core.Ray) (*material.HitRecord, bool)
}
