package scene

import (
	"errors"
	"fmt"
	"sort"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

var ErrUnknownScene = errors.New("unknown scene")

// builtinScenes maps scene IDs to their constructors
var builtinScenes = map[string]struct {
	description string
	create      func(camera *renderer.Camera) *Scene
}{
	"default": {"Textured ground and wall with five spheres and three lights", NewDefaultScene},
	"simple":  {"One sphere over a ground plane lit by a single light", NewSimpleScene},
	"spheres": {"Cluster of pink spheres in front of a striped wall", NewSpheresScene},
}

// BuiltinSceneNames returns the IDs of the built-in scenes in sorted order
func BuiltinSceneNames() []string {
	names := make([]string, 0, len(builtinScenes))
	for name := range builtinScenes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewBuiltinScene creates a built-in scene viewed through the default camera
func NewBuiltinScene(name string) (*Scene, error) {
	entry, ok := builtinScenes[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}
	camera, err := renderer.NewCamera(renderer.DefaultCameraConfig())
	if err != nil {
		return nil, err
	}
	return entry.create(camera), nil
}

// NewDefaultScene creates the textured five sphere scene
func NewDefaultScene(camera *renderer.Camera) *Scene {
	s := New("default", camera)
	s.AddCameraMarker()

	s.AddPointLight(core.NewVec3(2, 3, 5), 10)
	s.AddPointLight(core.NewVec3(-3, 3, 4), 10)
	s.AddPointLight(core.NewVec3(0, 0, 7), 10)

	groundTexture := material.NewCheckerboardTexture(64, 64, 8, core.LightGray, core.DarkGray)
	wallTexture := material.NewStripeTexture(64, 64, 4, core.DarkOliveGreen, core.Gray)

	s.AddPlane(core.NewVec3(0, -3, 0), core.NewVec3(0, 1, 0),
		material.NewMaterial(core.DarkGray).WithTexture(groundTexture))
	s.AddPlane(core.NewVec3(0, 0, -20), core.NewVec3(0, 0, 1),
		material.NewMaterial(core.DarkOliveGreen).WithTexture(wallTexture))

	s.AddSphere(core.NewVec3(0, -1, 0), 3, material.NewMaterial(core.SteelBlue))
	s.AddSphere(core.NewVec3(1.5, 1, 2), 0.5, material.NewMaterial(core.GhostWhite))
	s.AddSphere(core.NewVec3(-1.5, 1, 2), 0.5, material.NewMaterial(core.GhostWhite))
	s.AddSphere(core.NewVec3(0, 0, 2), 1, material.NewMaterial(core.OrangeRed))
	s.AddSphere(core.NewVec3(0, -1.5, 2), 1.3, material.NewMaterial(core.DarkRed))

	return s
}

// NewSimpleScene creates a single sphere resting near a ground plane
func NewSimpleScene(camera *renderer.Camera) *Scene {
	s := New("simple", camera)

	s.AddPlane(core.NewVec3(0, -3, 0), core.NewVec3(0, 1, 0), material.NewMaterial(core.Gray))
	s.AddSphere(core.NewVec3(0, 0, 0), 3, material.NewMaterial(core.SteelBlue))
	s.AddPointLight(core.NewVec3(0, 5, 5), 10)

	return s
}

// NewSpheresScene creates the alternate arrangement of pink spheres
func NewSpheresScene(camera *renderer.Camera) *Scene {
	s := New("spheres", camera)
	s.AddCameraMarker()

	s.AddPointLight(core.NewVec3(2, 3, 5), 10)
	s.AddPointLight(core.NewVec3(-3, 3, 4), 10)
	s.AddPointLight(core.NewVec3(0, 0, 7), 10)

	groundTexture := material.NewCheckerboardTexture(32, 32, 4, core.White, core.Gray)
	wallTexture := material.NewStripeTexture(32, 32, 2, core.LightGray, core.SteelBlue)

	s.AddPlane(core.NewVec3(0, -3, 0), core.NewVec3(0, 1, 0),
		material.NewMaterial(core.DarkGray).WithTexture(groundTexture))
	s.AddPlane(core.NewVec3(0, 0, -20), core.NewVec3(0, 0, 1),
		material.NewMaterial(core.DarkOliveGreen).WithTexture(wallTexture))

	s.AddSphere(core.NewVec3(0, 1, 0), 1.5, material.NewMaterial(core.LightGoldenRodYellow))
	s.AddSphere(core.NewVec3(0, 3, 0), 1, material.NewMaterial(core.HotPink))
	s.AddSphere(core.NewVec3(0, -1, 0), 1, material.NewMaterial(core.DeepPink))
	s.AddSphere(core.NewVec3(-1.7, 2, 0), 1, material.NewMaterial(core.DeepPink))
	s.AddSphere(core.NewVec3(1.7, 2, 0), 1, material.NewMaterial(core.DeepPink))
	s.AddSphere(core.NewVec3(-1.7, 0, 0), 1, material.NewMaterial(core.HotPink))
	s.AddSphere(core.NewVec3(1.7, 0, 0), 1, material.NewMaterial(core.HotPink))

	// Eye
	s.AddSphere(core.NewVec3(0.5, 1.15, 2), 0.1, material.NewMaterial(core.Yellow))
	s.AddSphere(core.NewVec3(0.65, 1.1, 2), 0.1, material.NewMaterial(core.Black))

	return s
}
