package material

import (
	"github.com/df07/go-phong-raytracer/pkg/core"
)

// NewCheckerboardTexture creates a procedural checkerboard pattern texture
func NewCheckerboardTexture(width, height, checkSize int, color1, color2 core.Color) *ColorGrid {
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			checkX := x / checkSize
			checkY := y / checkSize

			if (checkX+checkY)%2 == 0 {
				pixels[y*width+x] = color1
			} else {
				pixels[y*width+x] = color2
			}
		}
	}

	return &ColorGrid{Width: width, Height: height, Pixels: pixels}
}

// NewStripeTexture creates horizontal bands alternating between two colors
func NewStripeTexture(width, height, stripeSize int, color1, color2 core.Color) *ColorGrid {
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		color := color1
		if (y/stripeSize)%2 == 1 {
			color = color2
		}
		for x := 0; x < width; x++ {
			pixels[y*width+x] = color
		}
	}

	return &ColorGrid{Width: width, Height: height, Pixels: pixels}
}
