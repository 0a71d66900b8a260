package geometry

import "github.com/df07/go-phong-raytracer/pkg/core"

// Hit contains information about a ray-object intersection
type Hit struct {
	Point  core.Vec3 // Point of intersection
	Normal core.Vec3 // Outward surface normal at the intersection
	T      float64   // Parameter t along the ray
}
