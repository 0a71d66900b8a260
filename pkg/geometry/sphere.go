package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// Sphere represents a sphere shape
type Sphere struct {
	Center   core.Vec3
	Radius   float64
	Material material.Material
}

// NewSphere creates a new sphere
func NewSphere(center core.Vec3, radius float64, mat material.Material) *Sphere {
	return &Sphere{
		Center:   center,
		Radius:   radius,
		Material: mat,
	}
}

// Intersect tests if a ray intersects with the sphere
func (s *Sphere) Intersect(ray core.Ray) (*Hit, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Sub(s.Center)

	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	if a == 0 {
		return nil, false
	}
	halfB := oc.Dot(ray.Direction)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := halfB*halfB - a*c
	if discriminant < 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer root first, then the farther one (origin inside the sphere)
	root := (-halfB - sqrtD) / a
	if root < 0 {
		root = (-halfB + sqrtD) / a
		if root < 0 {
			return nil, false
		}
	}

	point := ray.At(root)
	return &Hit{
		T:      root,
		Point:  point,
		Normal: point.Sub(s.Center).Mul(1.0 / s.Radius),
	}, true
}

// ColorAt returns the flat diffuse color; spheres are never textured
func (s *Sphere) ColorAt(point core.Vec3) core.Color {
	return s.Material.Diffuse
}

func (s *Sphere) GetPosition() core.Vec3 { return s.Center }

func (s *Sphere) GetMaterial() material.Material { return s.Material }

// Validate rejects non-positive or non-finite radii and centers
func (s *Sphere) Validate() error {
	if !core.IsFinite(s.Center) {
		return fmt.Errorf("%w: center %v is not finite", ErrInvalidSphere, s.Center)
	}
	if !(s.Radius > 0) || math.IsInf(s.Radius, 0) {
		return fmt.Errorf("%w: radius must be positive, got %v", ErrInvalidSphere, s.Radius)
	}
	return s.Material.Validate()
}
