package geometry

import (
	"fmt"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// Marker stands in for a non-renderable scene member such as the camera.
// It is part of the object list but is never hit by primary or shadow rays.
type Marker struct {
	Position core.Vec3
	Aim      core.Vec3
}

// NewMarker creates a marker at a position looking along aim
func NewMarker(position, aim core.Vec3) *Marker {
	return &Marker{Position: position, Aim: aim.Normalize()}
}

func (m *Marker) Intersect(ray core.Ray) (*Hit, bool) {
	return nil, false
}

func (m *Marker) ColorAt(point core.Vec3) core.Color {
	return core.Black
}

func (m *Marker) GetPosition() core.Vec3 { return m.Position }

func (m *Marker) GetMaterial() material.Material {
	return material.NewMaterial(core.Black)
}

func (m *Marker) Validate() error {
	if !core.IsFinite(m.Position) {
		return fmt.Errorf("marker position %v is not finite", m.Position)
	}
	return nil
}
