package geometry

import (
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// DefaultPlaneSize is the advisory width and height of a plane
const DefaultPlaneSize = 20.0

// parallelEpsilon is the smallest |D·N| considered non-parallel
const parallelEpsilon = 1e-6

// Plane represents an infinite plane defined by a point and normal.
// Width and Height describe the intended extent but are not enforced when
// testing intersections.
type Plane struct {
	Point    core.Vec3 // A point on the plane
	Normal   core.Vec3 // Unit normal; also the normal reported for every hit
	Width    float64
	Height   float64
	Material material.Material
}

// NewPlane creates a new plane
func NewPlane(point, normal core.Vec3, mat material.Material) *Plane {
	return &Plane{
		Point:    point,
		Normal:   normal.Normalize(),
		Width:    DefaultPlaneSize,
		Height:   DefaultPlaneSize,
		Material: mat,
	}
}

// Intersect tests if a ray intersects with the plane
func (p *Plane) Intersect(ray core.Ray) (*Hit, bool) {
	denominator := ray.Direction.Dot(p.Normal)

	// Ray parallel to the plane
	if math.Abs(denominator) < parallelEpsilon {
		return nil, false
	}

	// t = (point_on_plane - ray_origin) · normal / (ray_direction · normal)
	t := p.Point.Sub(ray.Origin).Dot(p.Normal) / denominator
	if t < 0 {
		return nil, false
	}

	// One-sided: the plane normal is reported regardless of approach side
	return &Hit{
		T:      t,
		Point:  ray.At(t),
		Normal: p.Normal,
	}, true
}

// ColorAt samples the texture when one is applied, otherwise returns the diffuse color
func (p *Plane) ColorAt(point core.Vec3) core.Color {
	if p.Material.IsTextured() {
		return material.SampleTexture(p.Normal, point, p.Material.Texture, p.Material.Diffuse)
	}
	return p.Material.Diffuse
}

func (p *Plane) GetPosition() core.Vec3 { return p.Point }

func (p *Plane) GetMaterial() material.Material { return p.Material }

// Validate rejects degenerate normals and non-finite placement
func (p *Plane) Validate() error {
	if !core.IsFinite(p.Point) {
		return fmt.Errorf("%w: point %v is not finite", ErrInvalidPlane, p.Point)
	}
	if !core.IsFinite(p.Normal) || p.Normal.Norm2() == 0 {
		return fmt.Errorf("%w: normal %v has zero length", ErrInvalidPlane, p.Normal)
	}
	if p.Width < 0 || p.Height < 0 {
		return fmt.Errorf("%w: negative bounds %vx%v", ErrInvalidPlane, p.Width, p.Height)
	}
	return p.Material.Validate()
}
