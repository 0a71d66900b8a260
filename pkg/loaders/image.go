package loaders

import (
	"fmt"
	"image"
	"image/draw"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"
	"path/filepath"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
	"github.com/fogleman/gg"
)

// LoadTexture loads a PNG or JPEG image as a color grid for texture sampling
func LoadTexture(filename string) (*material.ColorGrid, error) {
	img, err := gg.LoadImage(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to load texture %s: %w", filename, err)
	}

	grid, err := ImageToColorGrid(img)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", filename, err)
	}
	return grid, nil
}

// ImageToColorGrid converts a decoded image to a row-major grid of colors in [0, 1].
// Row 0 of the grid is the top row of the image.
func ImageToColorGrid(img image.Image) (*material.ColorGrid, error) {
	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Color, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			// RGBA returns uint32 in [0, 65535]
			r, g, b, a := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			pixels[y*width+x] = core.Color{
				R: float64(r) / 65535.0,
				G: float64(g) / 65535.0,
				B: float64(b) / 65535.0,
				A: float64(a) / 65535.0,
			}
		}
	}

	return material.NewColorGrid(width, height, pixels)
}

// ColorGridToImage converts a color grid back to an 8-bit image
func ColorGridToImage(grid *material.ColorGrid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	for y := 0; y < grid.Height; y++ {
		for x := 0; x < grid.Width; x++ {
			img.SetRGBA(x, y, grid.At(x, y).ToRGBA())
		}
	}
	return img
}

// SavePNG writes an image to disk, creating the parent directory if needed
func SavePNG(filename string, img image.Image) error {
	if dir := filepath.Dir(filename); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := gg.SavePNG(filename, img); err != nil {
		return fmt.Errorf("failed to save %s: %w", filename, err)
	}
	return nil
}

// EncodePNG writes an image as PNG to w
func EncodePNG(w io.Writer, img image.Image) error {
	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(img.Bounds())
		draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	}
	return gg.NewContextForRGBA(rgba).EncodePNG(w)
}
