package loaders

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"gopkg.in/yaml.v2"
)

var ErrInvalidSceneFile = errors.New("invalid scene file")

// SceneFile is the YAML description of a scene
type SceneFile struct {
	Name       string      `yaml:"name"`
	Background []float64   `yaml:"background,omitempty"`
	Shading    *ShadingDef `yaml:"shading,omitempty"`
	Objects    []ObjectDef `yaml:"objects"`
	Lights     []LightDef  `yaml:"lights"`

	// Dir is the directory relative texture paths are resolved against
	Dir string `yaml:"-"`
}

// ShadingDef overrides shading parameters for one scene
type ShadingDef struct {
	Ambient *float64 `yaml:"ambient,omitempty"`
	Power   *float64 `yaml:"power,omitempty"`
	Model   string   `yaml:"model,omitempty"`
}

// ObjectDef describes a sphere or a plane
type ObjectDef struct {
	Type     string      `yaml:"type"`
	Position []float64   `yaml:"position"`
	Normal   []float64   `yaml:"normal,omitempty"`
	Radius   float64     `yaml:"radius,omitempty"`
	Diffuse  []float64   `yaml:"diffuse"`
	Specular []float64   `yaml:"specular,omitempty"`
	Texture  string      `yaml:"texture,omitempty"`
	Checker  *CheckerDef `yaml:"checker,omitempty"`
	Width    float64     `yaml:"width,omitempty"`
	Height   float64     `yaml:"height,omitempty"`
}

// CheckerDef describes a procedural checkerboard texture
type CheckerDef struct {
	Size   int       `yaml:"size"`  // Texture size in texels
	Check  int       `yaml:"check"` // Edge length of one square in texels
	Color1 []float64 `yaml:"color1"`
	Color2 []float64 `yaml:"color2"`
}

// LightDef describes a point or spot light
type LightDef struct {
	Type      string    `yaml:"type"`
	Position  []float64 `yaml:"position"`
	Aim       []float64 `yaml:"aim,omitempty"`
	Intensity *float64  `yaml:"intensity,omitempty"`
}

// TextureResolver loads the texture referenced by a scene file
type TextureResolver func(path string) (*material.ColorGrid, error)

// NewTextureCache returns a resolver that loads each texture once.
// Relative paths are resolved against baseDir.
func NewTextureCache(baseDir string) TextureResolver {
	var mu sync.Mutex
	cache := make(map[string]*material.ColorGrid)

	return func(path string) (*material.ColorGrid, error) {
		if !filepath.IsAbs(path) && baseDir != "" {
			path = filepath.Join(baseDir, path)
		}

		mu.Lock()
		defer mu.Unlock()
		if grid, ok := cache[path]; ok {
			return grid, nil
		}
		grid, err := LoadTexture(path)
		if err != nil {
			return nil, err
		}
		cache[path] = grid
		return grid, nil
	}
}

// ParseSceneFile parses a YAML scene description
func ParseSceneFile(data []byte) (*SceneFile, error) {
	var sf SceneFile
	if err := yaml.Unmarshal(data, &sf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSceneFile, err)
	}
	return &sf, nil
}

// LoadSceneFile reads and parses a YAML scene file
func LoadSceneFile(filename string) (*SceneFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read scene file: %w", err)
	}
	sf, err := ParseSceneFile(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	sf.Dir = filepath.Dir(filename)
	return sf, nil
}

// BackgroundColor returns the scene background, black when unset
func (sf *SceneFile) BackgroundColor() (core.Color, error) {
	if len(sf.Background) == 0 {
		return core.Black, nil
	}
	return toColor("background", sf.Background)
}

// Build creates the objects and lights in file order. Textures are resolved
// with textures, or loaded from disk relative to Dir when it is nil.
func (sf *SceneFile) Build(textures TextureResolver) ([]geometry.Object, []lights.Light, error) {
	if textures == nil {
		textures = NewTextureCache(sf.Dir)
	}

	objects := make([]geometry.Object, 0, len(sf.Objects))
	for i, def := range sf.Objects {
		obj, err := def.build(textures)
		if err != nil {
			return nil, nil, fmt.Errorf("object %d (%s): %w", i, def.Type, err)
		}
		objects = append(objects, obj)
	}

	sceneLights := make([]lights.Light, 0, len(sf.Lights))
	for i, def := range sf.Lights {
		light, err := def.build()
		if err != nil {
			return nil, nil, fmt.Errorf("light %d (%s): %w", i, def.Type, err)
		}
		sceneLights = append(sceneLights, light)
	}

	return objects, sceneLights, nil
}

func (def ObjectDef) build(textures TextureResolver) (geometry.Object, error) {
	position, err := toVec3("position", def.Position)
	if err != nil {
		return nil, err
	}
	mat, err := def.material(textures)
	if err != nil {
		return nil, err
	}

	var obj geometry.Object
	switch def.Type {
	case "sphere":
		obj = geometry.NewSphere(position, def.Radius, mat)
	case "plane":
		normal, err := toVec3("normal", def.Normal)
		if err != nil {
			return nil, err
		}
		plane := geometry.NewPlane(position, normal, mat)
		if def.Width > 0 {
			plane.Width = def.Width
		}
		if def.Height > 0 {
			plane.Height = def.Height
		}
		obj = plane
	default:
		return nil, fmt.Errorf("%w: unknown object type %q", ErrInvalidSceneFile, def.Type)
	}

	if err := obj.Validate(); err != nil {
		return nil, err
	}
	return obj, nil
}

func (def ObjectDef) material(textures TextureResolver) (material.Material, error) {
	diffuse, err := toColor("diffuse", def.Diffuse)
	if err != nil {
		return material.Material{}, err
	}
	mat := material.NewMaterial(diffuse)

	if len(def.Specular) > 0 {
		specular, err := toColor("specular", def.Specular)
		if err != nil {
			return material.Material{}, err
		}
		mat = mat.WithSpecular(specular)
	}

	switch {
	case def.Texture != "" && def.Checker != nil:
		return material.Material{}, fmt.Errorf("%w: texture and checker are mutually exclusive", ErrInvalidSceneFile)
	case def.Texture != "":
		grid, err := textures(def.Texture)
		if err != nil {
			return material.Material{}, err
		}
		mat = mat.WithTexture(grid)
	case def.Checker != nil:
		grid, err := def.Checker.build()
		if err != nil {
			return material.Material{}, err
		}
		mat = mat.WithTexture(grid)
	}

	return mat, nil
}

func (def CheckerDef) build() (*material.ColorGrid, error) {
	if def.Size <= 0 || def.Check <= 0 {
		return nil, fmt.Errorf("%w: checker size and check must be positive", ErrInvalidSceneFile)
	}
	c1, err := toColor("checker color1", def.Color1)
	if err != nil {
		return nil, err
	}
	c2, err := toColor("checker color2", def.Color2)
	if err != nil {
		return nil, err
	}
	return material.NewCheckerboardTexture(def.Size, def.Size, def.Check, c1, c2), nil
}

func (def LightDef) build() (lights.Light, error) {
	position, err := toVec3("position", def.Position)
	if err != nil {
		return nil, err
	}

	var light lights.Light
	switch def.Type {
	case "point", "":
		light = lights.NewPointLight(position)
	case "spot":
		aim, err := toVec3("aim", def.Aim)
		if err != nil {
			return nil, err
		}
		light = lights.NewSpotLight(position, aim)
	default:
		return nil, fmt.Errorf("%w: unknown light type %q", ErrInvalidSceneFile, def.Type)
	}

	if def.Intensity != nil {
		light = light.WithIntensity(*def.Intensity)
	}
	if err := light.Validate(); err != nil {
		return nil, err
	}
	return light, nil
}

func toVec3(field string, values []float64) (core.Vec3, error) {
	if len(values) != 3 {
		return core.Vec3{}, fmt.Errorf("%w: %s needs 3 components, got %d", ErrInvalidSceneFile, field, len(values))
	}
	return core.NewVec3(values[0], values[1], values[2]), nil
}

// toColor accepts [r,g,b] or [r,g,b,a] with channels in [0, 1]
func toColor(field string, values []float64) (core.Color, error) {
	switch len(values) {
	case 3:
		return core.NewColor(values[0], values[1], values[2]), nil
	case 4:
		return core.Color{R: values[0], G: values[1], B: values[2], A: values[3]}, nil
	default:
		return core.Color{}, fmt.Errorf("%w: %s needs 3 or 4 components, got %d", ErrInvalidSceneFile, field, len(values))
	}
}
