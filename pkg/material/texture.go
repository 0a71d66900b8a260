package material

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// TextureWorldScale is the span of world units covered by one repetition of a texture
const TextureWorldScale = 15.0

var (
	ErrInvalidMaterial = errors.New("invalid material")
	ErrInvalidTexture  = errors.New("invalid texture")
)

var (
	groundNormal = core.NewVec3(0, 1, 0)
	wallNormal   = core.NewVec3(0, 0, 1)
)

// ColorGrid is a decoded texture: a row-major 2D array of colors
type ColorGrid struct {
	Width  int
	Height int
	Pixels []core.Color // Row-major: Pixels[y*Width + x]
}

// NewColorGrid creates a new color grid, checking that the pixel count matches the dimensions
func NewColorGrid(width, height int, pixels []core.Color) (*ColorGrid, error) {
	grid := &ColorGrid{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
	if err := grid.Validate(); err != nil {
		return nil, err
	}
	return grid, nil
}

// Validate checks the grid dimensions against its pixel buffer
func (g *ColorGrid) Validate() error {
	if g.Width <= 0 || g.Height <= 0 {
		return fmt.Errorf("%w: dimensions %dx%d", ErrInvalidTexture, g.Width, g.Height)
	}
	if len(g.Pixels) != g.Width*g.Height {
		return fmt.Errorf("%w: expected %d pixels, got %d", ErrInvalidTexture, g.Width*g.Height, len(g.Pixels))
	}
	return nil
}

// At returns the color at (x, y), wrapping both indices into the grid
func (g *ColorGrid) At(x, y int) core.Color {
	return g.Pixels[wrapIndex(y, g.Height)*g.Width+wrapIndex(x, g.Width)]
}

// SampleTexture maps a world-space point on an axis-aligned plane to a texel.
// Only ground planes (normal +Y, sampled on x/z) and wall planes (normal +Z,
// sampled on x/y) are supported; any other orientation returns fallback.
func SampleTexture(normal, point core.Vec3, grid *ColorGrid, fallback core.Color) core.Color {
	if grid == nil {
		return fallback
	}

	var a, b float64
	switch normal {
	case groundNormal:
		a, b = point.X, point.Z
	case wallNormal:
		a, b = point.X, point.Y
	default:
		return fallback
	}

	return grid.At(textureIndex(a, grid.Width), textureIndex(b, grid.Height))
}

// textureIndex scales a world coordinate to a texel index (nearest neighbour)
func textureIndex(coord float64, size int) int {
	scaled := math.Round(coord/TextureWorldScale*float64(size) - 0.5)
	return wrapIndex(int(math.Abs(scaled)), size)
}

func wrapIndex(i, size int) int {
	i %= size
	if i < 0 {
		i += size
	}
	return i
}
