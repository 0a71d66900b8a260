package core

import (
	"image/color"
	"math"
	"testing"
)

func TestColor_Arithmetic(t *testing.T) {
	a := NewColor(0.2, 0.4, 0.6)
	b := NewColor(0.1, 0.1, 0.1)

	sum := a.Add(b)
	if math.Abs(sum.R-0.3) > 1e-12 || math.Abs(sum.G-0.5) > 1e-12 || math.Abs(sum.B-0.7) > 1e-12 {
		t.Errorf("Add: expected (0.3,0.5,0.7), got %+v", sum)
	}
	if sum.A != 1 {
		t.Errorf("Add should keep alpha of receiver, got %f", sum.A)
	}

	scaled := a.Scale(10)
	if math.Abs(scaled.R-2) > 1e-12 || math.Abs(scaled.B-6) > 1e-12 {
		t.Errorf("Scale: expected unclamped (2,4,6), got %+v", scaled)
	}

	product := NewColor(0.5, 1, 0).Multiply(NewColor(0.5, 0.5, 0.5))
	if product.R != 0.25 || product.G != 0.5 || product.B != 0 {
		t.Errorf("Multiply: expected (0.25,0.5,0), got %+v", product)
	}
}

func TestColor_ToRGBA(t *testing.T) {
	tests := []struct {
		name     string
		input    Color
		expected color.RGBA
	}{
		{"black", Black, color.RGBA{0, 0, 0, 255}},
		{"white", White, color.RGBA{255, 255, 255, 255}},
		{"overexposed clamps", NewColor(3, 1.5, 0.5), color.RGBA{255, 255, 128, 255}},
		{"negative clamps", NewColor(-1, 0, 0), color.RGBA{0, 0, 0, 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.input.ToRGBA(); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestColorFromRGBA8(t *testing.T) {
	c := ColorFromRGBA8(255, 0, 51, 255)
	if c.R != 1 || c.G != 0 || math.Abs(c.B-0.2) > 1e-12 || c.A != 1 {
		t.Errorf("Unexpected conversion result %+v", c)
	}
	if got := c.ToRGBA(); got != (color.RGBA{255, 0, 51, 255}) {
		t.Errorf("Round trip through ToRGBA failed: %v", got)
	}
}

func TestColor_Luminance(t *testing.T) {
	if got := White.Luminance(); math.Abs(got-1) > 1e-12 {
		t.Errorf("White luminance should be 1, got %f", got)
	}
	if got := Black.Luminance(); got != 0 {
		t.Errorf("Black luminance should be 0, got %f", got)
	}
}
