package scene

import (
	"fmt"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// Default raster size; its aspect matches the default view plane
const (
	DefaultWidth  = 600
	DefaultHeight = 400
)

// Scene contains all the elements needed for rendering. Objects are
// searched in slice order, so order decides ties between equal hits.
type Scene struct {
	Name       string
	Camera     *renderer.Camera
	Objects    []geometry.Object
	Lights     []lights.Light
	Background core.Color
	Shading    renderer.ShadingConfig
	Width      int
	Height     int
}

// New creates an empty scene with a black background and default shading
func New(name string, camera *renderer.Camera) *Scene {
	return &Scene{
		Name:       name,
		Camera:     camera,
		Objects:    make([]geometry.Object, 0),
		Lights:     make([]lights.Light, 0),
		Background: core.Black,
		Shading:    renderer.DefaultShadingConfig(),
		Width:      DefaultWidth,
		Height:     DefaultHeight,
	}
}

func (s *Scene) GetCamera() *renderer.Camera              { return s.Camera }
func (s *Scene) GetObjects() []geometry.Object            { return s.Objects }
func (s *Scene) GetLights() []lights.Light                { return s.Lights }
func (s *Scene) GetBackground() core.Color                { return s.Background }
func (s *Scene) GetShadingConfig() renderer.ShadingConfig { return s.Shading }

// AddSphere appends a sphere and returns it
func (s *Scene) AddSphere(center core.Vec3, radius float64, mat material.Material) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, mat)
	s.Objects = append(s.Objects, sphere)
	return sphere
}

// AddPlane appends a plane and returns it
func (s *Scene) AddPlane(point, normal core.Vec3, mat material.Material) *geometry.Plane {
	plane := geometry.NewPlane(point, normal, mat)
	s.Objects = append(s.Objects, plane)
	return plane
}

// AddCameraMarker appends a non-renderable marker at the camera position
func (s *Scene) AddCameraMarker() {
	if s.Camera == nil {
		return
	}
	s.Objects = append(s.Objects, geometry.NewMarker(s.Camera.Position, s.Camera.Aim))
}

// AddPointLight appends a point light
func (s *Scene) AddPointLight(position core.Vec3, intensity float64) {
	s.Lights = append(s.Lights, &lights.PointLight{Position: position, Intensity: intensity})
}

// AddSpotLight appends a spot light aimed along aim
func (s *Scene) AddSpotLight(position, aim core.Vec3, intensity float64) {
	light := lights.NewSpotLight(position, aim)
	light.Intensity = intensity
	s.Lights = append(s.Lights, light)
}

// Validate checks everything a render pass relies on, so that a pass
// started on a valid scene can only fail by cancellation
func (s *Scene) Validate() error {
	if s.Camera == nil {
		return renderer.ErrNoCamera
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", renderer.ErrInvalidResolution, s.Width, s.Height)
	}
	if err := s.Shading.Validate(); err != nil {
		return err
	}
	if !core.IsFinite(core.NewVec3(s.Background.R, s.Background.G, s.Background.B)) {
		return fmt.Errorf("background %+v is not finite", s.Background)
	}
	for i, obj := range s.Objects {
		if err := obj.Validate(); err != nil {
			return fmt.Errorf("object %d: %w", i, err)
		}
	}
	for i, light := range s.Lights {
		if err := light.Validate(); err != nil {
			return fmt.Errorf("light %d: %w", i, err)
		}
	}
	return nil
}

// WithTunables returns a snapshot of the scene with every light set to
// intensity and the Phong exponent set to power. The receiver is not changed.
func (s *Scene) WithTunables(intensity, power float64) *Scene {
	snapshot := s.clone()
	for i, light := range snapshot.Lights {
		snapshot.Lights[i] = light.WithIntensity(intensity)
	}
	snapshot.Shading.Power = power
	return snapshot
}

// WithResolution returns a copy of the scene rendering at width x height
func (s *Scene) WithResolution(width, height int) *Scene {
	snapshot := s.clone()
	snapshot.Width = width
	snapshot.Height = height
	return snapshot
}

// WithCamera returns a copy of the scene viewed through camera
func (s *Scene) WithCamera(camera *renderer.Camera) *Scene {
	snapshot := s.clone()
	snapshot.Camera = camera
	return snapshot
}

func (s *Scene) clone() *Scene {
	c := *s
	c.Objects = append([]geometry.Object(nil), s.Objects...)
	c.Lights = append([]lights.Light(nil), s.Lights...)
	return &c
}

// GetPrimitiveCount returns the number of renderable objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, obj := range s.Objects {
		if _, ok := obj.(*geometry.Marker); !ok {
			count++
		}
	}
	return count
}
