package material

import (
	"fmt"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// Material holds the surface colors used by the shading model
type Material struct {
	Diffuse  core.Color // Base color for the ambient and Lambertian terms
	Specular core.Color // Highlight color for the Phong term
	Texture  *ColorGrid // Optional texture; only planes sample it
}

// NewMaterial creates a material with the given diffuse color and a white specular highlight
func NewMaterial(diffuse core.Color) Material {
	return Material{
		Diffuse:  diffuse,
		Specular: core.White,
	}
}

// WithSpecular returns a copy of the material with a different specular color
func (m Material) WithSpecular(specular core.Color) Material {
	m.Specular = specular
	return m
}

// WithTexture returns a copy of the material that samples the given texture
func (m Material) WithTexture(texture *ColorGrid) Material {
	m.Texture = texture
	return m
}

// IsTextured reports whether the material carries a texture
func (m Material) IsTextured() bool {
	return m.Texture != nil
}

// Validate checks that the material colors are usable
func (m Material) Validate() error {
	for name, c := range map[string]core.Color{"diffuse": m.Diffuse, "specular": m.Specular} {
		if c.R < 0 || c.G < 0 || c.B < 0 || !isFiniteColor(c) {
			return fmt.Errorf("%w: %s color %+v", ErrInvalidMaterial, name, c)
		}
	}
	if m.Texture != nil {
		if err := m.Texture.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func isFiniteColor(c core.Color) bool {
	return core.IsFinite(core.NewVec3(c.R, c.G, c.B))
}
