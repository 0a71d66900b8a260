package scene

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/df07/go-phong-raytracer/pkg/loaders"
	"github.com/df07/go-phong-raytracer/pkg/renderer"
)

// IsSceneFile reports whether name refers to a scene file rather than a built-in scene
func IsSceneFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, known := range sceneFileExtensions {
		if ext == known {
			return true
		}
	}
	return false
}

// Load creates a scene from a built-in name or a scene file path
func Load(nameOrPath string) (*Scene, error) {
	if IsSceneFile(nameOrPath) {
		return LoadScene(nameOrPath)
	}
	return NewBuiltinScene(nameOrPath)
}

// LoadScene builds a scene from a YAML scene file, viewed through the default camera
func LoadScene(path string) (*Scene, error) {
	sf, err := loaders.LoadSceneFile(path)
	if err != nil {
		return nil, err
	}
	camera, err := renderer.NewCamera(renderer.DefaultCameraConfig())
	if err != nil {
		return nil, err
	}
	return FromSceneFile(sf, camera)
}

// FromSceneFile builds a scene from a parsed scene file. Textures are
// resolved relative to the file's directory.
func FromSceneFile(sf *loaders.SceneFile, camera *renderer.Camera) (*Scene, error) {
	name := sf.Name
	if name == "" {
		name = "scene"
	}
	s := New(name, camera)

	background, err := sf.BackgroundColor()
	if err != nil {
		return nil, err
	}
	s.Background = background

	if sf.Shading != nil {
		if sf.Shading.Ambient != nil {
			s.Shading.Ambient = *sf.Shading.Ambient
		}
		if sf.Shading.Power != nil {
			power := *sf.Shading.Power
			if !(power >= renderer.MinPower && power <= renderer.MaxPower) {
				return nil, fmt.Errorf("scene %s: %w: power %v outside [%v, %v]",
					name, renderer.ErrInvalidShading, power, renderer.MinPower, renderer.MaxPower)
			}
			s.Shading.Power = power
		}
		if sf.Shading.Model != "" {
			s.Shading.Model = renderer.ShadingModel(sf.Shading.Model)
		}
	}

	objects, sceneLights, err := sf.Build(nil)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	s.Objects = objects
	s.Lights = sceneLights

	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	return s, nil
}
