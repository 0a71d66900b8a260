package core

import (
	"image/color"
	"math"
)

// Color is a linear RGB color with alpha. Components are unbounded while
// light contributions are accumulated; ToRGBA clamps at the raster boundary.
type Color struct {
	R, G, B, A float64
}

// NewColor creates an opaque color
func NewColor(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// ColorFromRGBA8 converts 8-bit channel values to a color in [0, 1]
func ColorFromRGBA8(r, g, b, a uint8) Color {
	return Color{
		R: float64(r) / 255.0,
		G: float64(g) / 255.0,
		B: float64(b) / 255.0,
		A: float64(a) / 255.0,
	}
}

// Common colors used by the built-in scenes
var (
	Black                = NewColor(0, 0, 0)
	White                = NewColor(1, 1, 1)
	Gray                 = ColorFromRGBA8(128, 128, 128, 255)
	LightGray            = ColorFromRGBA8(211, 211, 211, 255)
	DarkGray             = ColorFromRGBA8(169, 169, 169, 255)
	DarkOliveGreen       = ColorFromRGBA8(85, 107, 47, 255)
	SteelBlue            = ColorFromRGBA8(70, 130, 180, 255)
	GhostWhite           = ColorFromRGBA8(248, 248, 255, 255)
	OrangeRed            = ColorFromRGBA8(255, 69, 0, 255)
	DarkRed              = ColorFromRGBA8(139, 0, 0, 255)
	LightGoldenRodYellow = ColorFromRGBA8(250, 250, 210, 255)
	HotPink              = ColorFromRGBA8(255, 105, 180, 255)
	DeepPink             = ColorFromRGBA8(255, 20, 147, 255)
	Yellow               = ColorFromRGBA8(255, 255, 0, 255)
)

// Add returns the sum of two colors. Alpha is kept from the receiver.
func (c Color) Add(other Color) Color {
	return Color{R: c.R + other.R, G: c.G + other.G, B: c.B + other.B, A: c.A}
}

// Scale returns the color with its RGB channels multiplied by s
func (c Color) Scale(s float64) Color {
	return Color{R: c.R * s, G: c.G * s, B: c.B * s, A: c.A}
}

// Multiply returns the component-wise product of two colors
func (c Color) Multiply(other Color) Color {
	return Color{R: c.R * other.R, G: c.G * other.G, B: c.B * other.B, A: c.A}
}

// Clamp returns the color with every channel clamped to [minVal, maxVal]
func (c Color) Clamp(minVal, maxVal float64) Color {
	return Color{
		R: max(minVal, min(maxVal, c.R)),
		G: max(minVal, min(maxVal, c.G)),
		B: max(minVal, min(maxVal, c.B)),
		A: max(minVal, min(maxVal, c.A)),
	}
}

// Luminance returns the perceptual luminance of the color
// Uses standard luminance weights: 0.299*R + 0.587*G + 0.114*B
func (c Color) Luminance() float64 {
	return 0.299*c.R + 0.587*c.G + 0.114*c.B
}

// ToRGBA clamps the color to [0, 1] and quantizes it to 8 bits per channel
func (c Color) ToRGBA() color.RGBA {
	clamped := c.Clamp(0, 1)
	return color.RGBA{
		R: uint8(math.Round(255 * clamped.R)),
		G: uint8(math.Round(255 * clamped.G)),
		B: uint8(math.Round(255 * clamped.B)),
		A: uint8(math.Round(255 * clamped.A)),
	}
}
