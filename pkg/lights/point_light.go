package lights

import (
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// PointLight emits equally in all directions from a single position
type PointLight struct {
	Position  core.Vec3
	Intensity float64
}

// NewPointLight creates a point light with the default intensity
func NewPointLight(position core.Vec3) *PointLight {
	return &PointLight{
		Position:  position,
		Intensity: DefaultIntensity,
	}
}

func (pl *PointLight) GetPosition() core.Vec3 { return pl.Position }

func (pl *PointLight) GetIntensity() float64 { return pl.Intensity }

// WithIntensity returns a copy of the light with a new intensity
func (pl *PointLight) WithIntensity(intensity float64) Light {
	light := *pl
	light.Intensity = intensity
	return &light
}

// Validate rejects non-finite positions and negative intensities
func (pl *PointLight) Validate() error {
	return validateLight(pl.Position, pl.Intensity)
}

func validateLight(position core.Vec3, intensity float64) error {
	if !core.IsFinite(position) {
		return fmt.Errorf("%w: position %v is not finite", ErrInvalidLight, position)
	}
	if intensity < 0 || math.IsNaN(intensity) || math.IsInf(intensity, 0) {
		return fmt.Errorf("%w: intensity must be a non-negative number, got %v", ErrInvalidLight, intensity)
	}
	return nil
}
