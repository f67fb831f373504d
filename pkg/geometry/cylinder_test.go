package geometry

import (
	"math"
	"testing"

	"github.com/df07/go-stochastic-raytracer/pkg/core"
	"github.com/df07/go-stochastic-raytracer/pkg/material"
)

func newTestCylinder() (*Cylinder, material.Material, material.Material, material.Material) {
	body := material.NewLambertian(core.NewVec3(1, 0, 0))
	top := material.NewLambertian(core.NewVec3(0, 1, 0))
	bottom := material.NewLambertian(core.NewVec3(0, 0, 1))
	cyl := NewCylinder(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), 1.0, 2.0, body, top, bottom)
	return cyl, body, top, bottom
}

func TestNewCylinder_NormalizesOrientation(t *testing.T) {
	cyl := NewSolidCylinder(core.NewVec3(0, 0, 0), core.NewVec3(0, 5, 0), 1.0, 2.0, nil)
	if cyl.Orientation != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected unit orientation, got %v", cyl.Orientation)
	}
}

func TestCylinder_Hit(t *testing.T) {
	cyl, body, top, bottom := newTestCylinder()

	tests := []struct {
		name           string
		origin         core.Vec3
		direction      core.Vec3
		expectedT      float64
		expectedNormal core.Vec3
		expectedMat    material.Material
	}{
		{
			name:           "side from outside",
			origin:         core.NewVec3(0, 1, 5),
			direction:      core.NewVec3(0, 0, -1),
			expectedT:      4.0,
			expectedNormal: core.NewVec3(0, 0, 1),
			expectedMat:    body,
		},
		{
			name:           "side from inside",
			origin:         core.NewVec3(0, 1, 0),
			direction:      core.NewVec3(1, 0, 0),
			expectedT:      1.0,
			expectedNormal: core.NewVec3(1, 0, 0),
			expectedMat:    body,
		},
		{
			name:           "top cap along axis",
			origin:         core.NewVec3(0.5, 5, 0),
			direction:      core.NewVec3(0, -1, 0),
			expectedT:      3.0,
			expectedNormal: core.NewVec3(0, 1, 0),
			expectedMat:    top,
		},
		{
			name:           "bottom cap along axis",
			origin:         core.NewVec3(0, -5, 0),
			direction:      core.NewVec3(0, 1, 0),
			expectedT:      5.0,
			expectedNormal: core.NewVec3(0, -1, 0),
			expectedMat:    bottom,
		},
		{
			name:           "oblique into top cap",
			origin:         core.NewVec3(-3, 5, 0),
			direction:      core.NewVec3(1, -1, 0),
			expectedT:      3.0,
			expectedNormal: core.NewVec3(0, 1, 0),
			expectedMat:    top,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := cyl.Hit(core.NewRay(tt.origin, tt.direction))
			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if !approxEqual(hit.T, tt.expectedT, 1e-9) {
				t.Errorf("Expected t=%f, got %f", tt.expectedT, hit.T)
			}
			if !approxEqualVec(hit.Normal, tt.expectedNormal, 1e-9) {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if hit.Material != tt.expectedMat {
				t.Errorf("Hit reported the wrong material")
			}
		})
	}
}

func TestCylinder_Hit_Misses(t *testing.T) {
	cyl, _, _, _ := newTestCylinder()

	tests := []struct {
		name      string
		origin    core.Vec3
		direction core.Vec3
	}{
		// The infinite cylinder would be hit at y=3
		{"above height", core.NewVec3(0, 3, 5), core.NewVec3(0, 0, -1)},
		{"below base", core.NewVec3(0, -0.5, 5), core.NewVec3(0, 0, -1)},
		{"parallel outside radius", core.NewVec3(2, 5, 0), core.NewVec3(0, -1, 0)},
		{"pointing away", core.NewVec3(0, 1, 5), core.NewVec3(0, 0, 1)},
		{"passes beside", core.NewVec3(1.5, 1, 5), core.NewVec3(0, 0, -1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if hit, isHit := cyl.Hit(core.NewRay(tt.origin, tt.direction)); isHit {
				t.Errorf("Expected miss, got hit at t=%f point=%v", hit.T, hit.Point)
			}
		})
	}
}

func TestCylinder_ParallelRayNeverHitsSide(t *testing.T) {
	cyl, body, _, _ := newTestCylinder()

	for _, x := range []float64{-0.9, -0.5, 0, 0.5, 0.99} {
		for _, dir := range []float64{-1, 1} {
			origin := core.NewVec3(x, 1-4*dir, 0)
			hit, isHit := cyl.Hit(core.NewRay(origin, core.NewVec3(0, dir, 0)))
			if !isHit {
				t.Fatalf("Expected cap hit for x=%f dir=%f", x, dir)
			}
			if hit.Material == body {
				t.Errorf("Parallel ray at x=%f reported a side hit", x)
			}
			if math.Abs(math.Abs(hit.Normal.Y)-1) > 1e-12 {
				t.Errorf("Expected axial cap normal, got %v", hit.Normal)
			}
		}
	}
}

func TestCylinder_ArbitraryOrientation(t *testing.T) {
	mat := material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))
	cyl := NewSolidCylinder(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), 0.5, 2.0, mat)

	hit, isHit := cyl.Hit(core.NewRay(core.NewVec3(1, 0, 5), core.NewVec3(0, 0, -1)))
	if !isHit {
		t.Fatal("Expected hit on x-aligned cylinder")
	}
	if !approxEqual(hit.T, 4.5, 1e-9) {
		t.Errorf("Expected t=4.5, got %f", hit.T)
	}
	if !approxEqualVec(hit.Normal, core.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Expected normal (0,0,1), got %v", hit.Normal)
	}

	// Beyond the far cap along the axis
	if _, isHit := cyl.Hit(core.NewRay(core.NewVec3(2.5, 0, 5), core.NewVec3(0, 0, -1))); isHit {
		t.Error("Expected miss beyond cylinder height")
	}
}
