package material

import (
	"errors"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

// indexedGrid builds a grid whose red channel encodes the pixel index
func indexedGrid(t *testing.T, width, height int) *ColorGrid {
	t.Helper()
	pixels := make([]core.Color, width*height)
	for i := range pixels {
		pixels[i] = core.NewColor(float64(i), 0, 0)
	}
	grid, err := NewColorGrid(width, height, pixels)
	if err != nil {
		t.Fatalf("NewColorGrid failed: %v", err)
	}
	return grid
}

func TestNewColorGrid_Validation(t *testing.T) {
	tests := []struct {
		name    string
		width   int
		height  int
		pixels  int
		wantErr bool
	}{
		{"valid", 2, 3, 6, false},
		{"zero width", 0, 3, 0, true},
		{"negative height", 2, -1, 0, true},
		{"pixel count mismatch", 2, 2, 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewColorGrid(tt.width, tt.height, make([]core.Color, tt.pixels))
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTexture) {
					t.Errorf("Expected ErrInvalidTexture, got %v", err)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

func TestColorGrid_AtWraps(t *testing.T) {
	grid := indexedGrid(t, 4, 2)

	tests := []struct {
		x, y     int
		expected float64
	}{
		{0, 0, 0},
		{3, 1, 7},
		{4, 0, 0},  // wraps to x=0
		{5, 3, 5},  // wraps to (1, 1)
		{-1, 0, 3}, // negative wraps to the last column
		{41, 10, 1},
	}

	for _, tt := range tests {
		if got := grid.At(tt.x, tt.y).R; got != tt.expected {
			t.Errorf("At(%d,%d): expected index %v, got %v", tt.x, tt.y, tt.expected, got)
		}
	}
}

func TestSampleTexture(t *testing.T) {
	grid := indexedGrid(t, 4, 2)
	fallback := core.NewColor(0.5, 0.5, 0.5)

	tests := []struct {
		name     string
		normal   core.Vec3
		point    core.Vec3
		expected float64
	}{
		// 3.75/15*4 - 0.5 = 0.5 -> 1; 0*2 - 0.5 = -0.5 -> |-1| = 1
		{"ground plane uses x and z", core.NewVec3(0, 1, 0), core.NewVec3(3.75, -3, 0), 5},
		{"ground plane ignores y", core.NewVec3(0, 1, 0), core.NewVec3(3.75, 100, 0), 5},
		// 7.5/15*2 - 0.5 = 0.5 -> 1
		{"wall plane uses x and y", core.NewVec3(0, 0, 1), core.NewVec3(3.75, 7.5, -20), 5},
		// -3.75/15*4 - 0.5 = -1.5 -> |-2| = 2
		{"negative coordinates mirror", core.NewVec3(0, 1, 0), core.NewVec3(-3.75, 0, 0), 6},
		// (3.75+105)/15*4 - 0.5 = 28.5 -> 29 mod 4 = 1
		{"coordinates beyond the grid wrap", core.NewVec3(0, 1, 0), core.NewVec3(108.75, 0, 0), 5},
		{"far wrap on both axes", core.NewVec3(0, 1, 0), core.NewVec3(1e4, 0, -1e4), grid.At(textureIndex(1e4, 4), textureIndex(-1e4, 2)).R},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SampleTexture(tt.normal, tt.point, grid, fallback)
			if got.R != tt.expected {
				t.Errorf("Expected texel %v, got %v", tt.expected, got.R)
			}
		})
	}
}

func TestSampleTexture_UnsupportedOrientationFallsBack(t *testing.T) {
	grid := indexedGrid(t, 4, 2)
	fallback := core.NewColor(0.25, 0.5, 0.75)

	normals := []core.Vec3{
		core.NewVec3(1, 0, 0),
		core.NewVec3(0, -1, 0),
		core.NewVec3(0, 0.7071, 0.7071),
	}
	for _, n := range normals {
		if got := SampleTexture(n, core.NewVec3(1, 2, 3), grid, fallback); got != fallback {
			t.Errorf("Normal %v: expected fallback %v, got %v", n, fallback, got)
		}
	}

	if got := SampleTexture(core.NewVec3(0, 1, 0), core.NewVec3(1, 2, 3), nil, fallback); got != fallback {
		t.Errorf("Nil grid should return fallback, got %v", got)
	}
}

func TestNewCheckerboardTexture(t *testing.T) {
	red := core.NewColor(1, 0, 0)
	blue := core.NewColor(0, 0, 1)
	grid := NewCheckerboardTexture(4, 4, 2, red, blue)

	if err := grid.Validate(); err != nil {
		t.Fatalf("Checkerboard should be valid: %v", err)
	}
	if grid.At(0, 0) != red || grid.At(2, 0) != blue || grid.At(2, 2) != red || grid.At(1, 3) != blue {
		t.Error("Checkerboard pattern does not alternate every 2 texels")
	}
}

func TestMaterial_Validate(t *testing.T) {
	if err := NewMaterial(core.Gray).Validate(); err != nil {
		t.Errorf("Default material should be valid: %v", err)
	}

	bad := NewMaterial(core.NewColor(-1, 0, 0))
	if err := bad.Validate(); !errors.Is(err, ErrInvalidMaterial) {
		t.Errorf("Expected ErrInvalidMaterial for negative color, got %v", err)
	}

	badTexture := NewMaterial(core.Gray).WithTexture(&ColorGrid{Width: 2, Height: 2})
	if err := badTexture.Validate(); !errors.Is(err, ErrInvalidTexture) {
		t.Errorf("Expected ErrInvalidTexture, got %v", err)
	}

	if NewMaterial(core.Gray).Specular != core.White {
		t.Error("Default specular color should be white")
	}
}
