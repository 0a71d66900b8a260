package lights

import (
	"fmt"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// SpotLight records an aim direction but is shaded exactly like a point
// light: no cone attenuation is applied.
type SpotLight struct {
	Position  core.Vec3
	Aim       core.Vec3
	Intensity float64
}

// NewSpotLight creates a spot light aimed along the given direction
func NewSpotLight(position, aim core.Vec3) *SpotLight {
	return &SpotLight{
		Position:  position,
		Aim:       aim.Normalize(),
		Intensity: DefaultIntensity,
	}
}

func (sl *SpotLight) GetPosition() core.Vec3 { return sl.Position }

func (sl *SpotLight) GetIntensity() float64 { return sl.Intensity }

// WithIntensity returns a copy of the light with a new intensity
func (sl *SpotLight) WithIntensity(intensity float64) Light {
	light := *sl
	light.Intensity = intensity
	return &light
}

// Validate rejects a zero aim direction in addition to the point light checks
func (sl *SpotLight) Validate() error {
	if !core.IsFinite(sl.Aim) || sl.Aim.Norm2() == 0 {
		return fmt.Errorf("%w: spot light aim %v has zero length", ErrInvalidLight, sl.Aim)
	}
	return validateLight(sl.Position, sl.Intensity)
}
