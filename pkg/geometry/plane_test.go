package geometry

import (
	"errors"
	"math"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

func TestPlane_Intersect(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, -3, 0), core.NewVec3(0, 1, 0), material.NewMaterial(core.DarkGray))

	tests := []struct {
		name          string
		ray           core.Ray
		expectHit     bool
		expectedPoint core.Vec3
	}{
		{
			name:          "straight down",
			ray:           core.NewRay(core.NewVec3(1, 2, 3), core.NewVec3(0, -1, 0)),
			expectHit:     true,
			expectedPoint: core.NewVec3(1, -3, 3),
		},
		{
			name:          "oblique",
			ray:           core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, -1, 0).Normalize()),
			expectHit:     true,
			expectedPoint: core.NewVec3(3, -3, 0),
		},
		{
			name:      "parallel above plane",
			ray:       core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0)),
			expectHit: false,
		},
		{
			name:      "pointing away",
			ray:       core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0)),
			expectHit: false,
		},
		{
			name:          "from below",
			ray:           core.NewRay(core.NewVec3(0, -5, 0), core.NewVec3(0, 1, 0)),
			expectHit:     true,
			expectedPoint: core.NewVec3(0, -3, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, isHit := plane.Intersect(tt.ray)
			if isHit != tt.expectHit {
				t.Fatalf("Expected hit=%t, got %t", tt.expectHit, isHit)
			}
			if !isHit {
				return
			}
			if !core.NearlyEqual(hit.Point, tt.expectedPoint, 1e-9) {
				t.Errorf("Expected point %v, got %v", tt.expectedPoint, hit.Point)
			}
			// One-sided normal: always the plane normal
			if hit.Normal != core.NewVec3(0, 1, 0) {
				t.Errorf("Expected plane normal (0,1,0), got %v", hit.Normal)
			}
		})
	}
}

func TestPlane_ParallelMiss(t *testing.T) {
	normals := []core.Vec3{
		core.NewVec3(0, 1, 0),
		core.NewVec3(0, 0, 1),
		core.NewVec3(1, 1, 0),
	}

	for _, n := range normals {
		plane := NewPlane(core.NewVec3(0, -3, 0), n, material.NewMaterial(core.Gray))
		// Any direction perpendicular to the normal is parallel to the plane
		direction := plane.Normal.Ortho()
		ray := core.NewRay(core.NewVec3(0, 5, 5), direction)

		if _, isHit := plane.Intersect(ray); isHit {
			t.Errorf("Normal %v: ray %v parallel to plane should miss", n, direction)
		}
	}
}

func TestNewPlane_NormalizesNormal(t *testing.T) {
	plane := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 5, 0), material.NewMaterial(core.Gray))
	if plane.Normal != core.NewVec3(0, 1, 0) {
		t.Errorf("Expected normalized (0,1,0), got %v", plane.Normal)
	}
	if plane.Width != DefaultPlaneSize || plane.Height != DefaultPlaneSize {
		t.Errorf("Expected default bounds %v, got %vx%v", DefaultPlaneSize, plane.Width, plane.Height)
	}
}

func TestPlane_ColorAt(t *testing.T) {
	grid := material.NewCheckerboardTexture(2, 2, 1, core.Black, core.White)

	ground := NewPlane(core.NewVec3(0, -3, 0), core.NewVec3(0, 1, 0), material.NewMaterial(core.DarkGray).WithTexture(grid))
	if got := ground.ColorAt(core.NewVec3(0, -3, 0)); got != core.Black && got != core.White {
		t.Errorf("Textured ground should sample the checkerboard, got %v", got)
	}

	tilted := NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 0), material.NewMaterial(core.DarkGray).WithTexture(grid))
	if got := tilted.ColorAt(core.NewVec3(0, 0, 0)); got != core.DarkGray {
		t.Errorf("Unsupported orientation should fall back to diffuse, got %v", got)
	}

	plain := NewPlane(core.NewVec3(0, 0, -20), core.NewVec3(0, 0, 1), material.NewMaterial(core.DarkOliveGreen))
	if got := plain.ColorAt(core.NewVec3(3, 3, -20)); got != core.DarkOliveGreen {
		t.Errorf("Untextured plane should return diffuse, got %v", got)
	}
}

func TestPlane_Validate(t *testing.T) {
	tests := []struct {
		name    string
		plane   *Plane
		wantErr bool
	}{
		{"valid", NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), material.NewMaterial(core.Gray)), false},
		{"zero normal", NewPlane(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, 0), material.NewMaterial(core.Gray)), true},
		{"nan point", NewPlane(core.NewVec3(math.NaN(), 0, 0), core.NewVec3(0, 1, 0), material.NewMaterial(core.Gray)), true},
		{"negative bounds", &Plane{Point: core.NewVec3(0, 0, 0), Normal: core.NewVec3(0, 1, 0), Width: -1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plane.Validate()
			if tt.wantErr && !errors.Is(err, ErrInvalidPlane) {
				t.Errorf("Expected ErrInvalidPlane, got %v", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}
