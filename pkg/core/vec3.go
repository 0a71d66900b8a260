package core

import (
	"math"

	"github.com/golang/geo/r3"
)

// Vec3 represents a point or direction in world space
type Vec3 = r3.Vector

// NewVec3 creates a new Vec3
func NewVec3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

// Vec2 represents a point in a plane-local 2D coordinate system
type Vec2 struct {
	X, Y float64
}

// NewVec2 creates a new Vec2
func NewVec2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// IsFinite reports whether every component of v is a finite number
func IsFinite(v Vec3) bool {
	return isFinite(v.X) && isFinite(v.Y) && isFinite(v.Z)
}

// IsFinite2 reports whether every component of v is a finite number
func IsFinite2(v Vec2) bool {
	return isFinite(v.X) && isFinite(v.Y)
}

// NearlyEqual reports whether a and b differ by at most tolerance on every axis
func NearlyEqual(a, b Vec3, tolerance float64) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
