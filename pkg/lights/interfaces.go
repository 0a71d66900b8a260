package lights

import (
	"errors"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// DefaultIntensity is the intensity given to lights when none is specified
const DefaultIntensity = 10.0

var ErrInvalidLight = errors.New("invalid light")

// Light is a point-like emitter. Lights are immutable during a render pass;
// WithIntensity returns a copy so tunables can be applied to a snapshot.
type Light interface {
	GetPosition() core.Vec3
	GetIntensity() float64
	WithIntensity(intensity float64) Light
	Validate() error
}
