package renderer

import (
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

// testScene implements Scene for testing
type testScene struct {
	camera     *Camera
	objects    []geometry.Object
	lights     []lights.Light
	background core.Color
	shading    ShadingConfig
}

func (s *testScene) GetCamera() *Camera              { return s.camera }
func (s *testScene) GetObjects() []geometry.Object   { return s.objects }
func (s *testScene) GetLights() []lights.Light       { return s.lights }
func (s *testScene) GetBackground() core.Color       { return s.background }
func (s *testScene) GetShadingConfig() ShadingConfig { return s.shading }

func newTestCamera(t *testing.T) *Camera {
	t.Helper()
	camera, err := NewCamera(DefaultCameraConfig())
	if err != nil {
		t.Fatalf("NewCamera failed: %v", err)
	}
	return camera
}

// newSimpleTestScene builds a ground plane at y=-3, a radius 3 sphere at the
// origin and one light at (0,5,5) with intensity 10
func newSimpleTestScene(t *testing.T) *testScene {
	t.Helper()
	return &testScene{
		camera: newTestCamera(t),
		objects: []geometry.Object{
			geometry.NewPlane(core.NewVec3(0, -3, 0), core.NewVec3(0, 1, 0), material.NewMaterial(core.Gray)),
			geometry.NewSphere(core.NewVec3(0, 0, 0), 3, material.NewMaterial(core.SteelBlue)),
		},
		lights: []lights.Light{
			&lights.PointLight{Position: core.NewVec3(0, 5, 5), Intensity: 10},
		},
		background: core.Black,
		shading:    DefaultShadingConfig(),
	}
}

func newTestRaytracer(t *testing.T, scene Scene, width, height int) *Raytracer {
	t.Helper()
	rt, err := NewRaytracer(scene, width, height)
	if err != nil {
		t.Fatalf("NewRaytracer failed: %v", err)
	}
	return rt
}

func colorsClose(a, b core.Color, tolerance float64) bool {
	return abs(a.R-b.R) <= tolerance && abs(a.G-b.G) <= tolerance && abs(a.B-b.B) <= tolerance
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
