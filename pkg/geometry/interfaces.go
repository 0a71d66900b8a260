package geometry

import (
	"errors"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

var (
	ErrInvalidSphere = errors.New("invalid sphere")
	ErrInvalidPlane  = errors.New("invalid plane")
)

// Object is anything that can be placed in a scene. Intersect must not
// mutate the ray or the object; objects are shared by concurrent workers.
type Object interface {
	// Intersect returns the nearest hit at a non-negative ray parameter
	Intersect(ray core.Ray) (*Hit, bool)
	// ColorAt returns the surface color at a point on the object
	ColorAt(point core.Vec3) core.Color
	GetPosition() core.Vec3
	GetMaterial() material.Material
	// Validate reports configuration errors before rendering starts
	Validate() error
}
