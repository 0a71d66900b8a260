package renderer

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-phong-raytracer/pkg/core"
)

var (
	ErrDegenerateViewPlane = errors.New("degenerate view plane")
	ErrCameraOnViewPlane   = errors.New("camera lies on the view plane")
	ErrInvalidCamera       = errors.New("invalid camera")
)

// ViewPlane is an axis-aligned rectangle facing +Z that primary rays pass through
type ViewPlane struct {
	Min      core.Vec2 // Lower-left corner in plane coordinates
	Max      core.Vec2 // Upper-right corner in plane coordinates
	Position core.Vec3 // Center of the rectangle; only Z is used for placement
	Normal   core.Vec3
}

// NewViewPlane creates a view plane spanning [min, max] at depth z
func NewViewPlane(min, max core.Vec2, z float64) ViewPlane {
	return ViewPlane{
		Min:      min,
		Max:      max,
		Position: core.NewVec3((min.X+max.X)/2, (min.Y+max.Y)/2, z),
		Normal:   core.NewVec3(0, 0, 1),
	}
}

// DefaultViewPlane returns the 6x4 plane at z=5 used by the built-in scenes
func DefaultViewPlane() ViewPlane {
	return NewViewPlane(core.NewVec2(-3, -2), core.NewVec2(3, 2), 5)
}

// ToWorld maps normalized coordinates u, v in [0, 1] to a point on the plane
func (vp ViewPlane) ToWorld(u, v float64) core.Vec3 {
	return core.NewVec3(
		vp.Min.X+u*vp.Width(),
		vp.Min.Y+v*vp.Height(),
		vp.Position.Z,
	)
}

func (vp ViewPlane) Width() float64  { return vp.Max.X - vp.Min.X }
func (vp ViewPlane) Height() float64 { return vp.Max.Y - vp.Min.Y }

// Aspect returns width over height
func (vp ViewPlane) Aspect() float64 { return vp.Width() / vp.Height() }

func (vp ViewPlane) Center() core.Vec3 {
	return vp.ToWorld(0.5, 0.5)
}

func (vp ViewPlane) TopLeft() core.Vec3     { return vp.ToWorld(0, 1) }
func (vp ViewPlane) TopRight() core.Vec3    { return vp.ToWorld(1, 1) }
func (vp ViewPlane) BottomLeft() core.Vec3  { return vp.ToWorld(0, 0) }
func (vp ViewPlane) BottomRight() core.Vec3 { return vp.ToWorld(1, 0) }

// Validate rejects empty or non-finite rectangles
func (vp ViewPlane) Validate() error {
	if !core.IsFinite2(vp.Min) || !core.IsFinite2(vp.Max) || !core.IsFinite(vp.Position) {
		return fmt.Errorf("%w: non-finite bounds %v..%v", ErrDegenerateViewPlane, vp.Min, vp.Max)
	}
	if vp.Width() <= 0 || vp.Height() <= 0 {
		return fmt.Errorf("%w: min %v must be below and left of max %v", ErrDegenerateViewPlane, vp.Min, vp.Max)
	}
	return nil
}

// CameraConfig contains the parameters needed to build a camera
type CameraConfig struct {
	Position core.Vec3 // Eye position, the origin of every primary ray
	Aim      core.Vec3 // Viewing direction; recorded but rays are built from the view plane
	ViewMin  core.Vec2
	ViewMax  core.Vec2
	ViewZ    float64
}

// DefaultCameraConfig returns the camera used by the built-in scenes
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Position: core.NewVec3(0, 0, 10),
		Aim:      core.NewVec3(0, 0, -1),
		ViewMin:  core.NewVec2(-3, -2),
		ViewMax:  core.NewVec2(3, 2),
		ViewZ:    5,
	}
}

// Camera generates primary rays from an eye point through a view plane
type Camera struct {
	Position core.Vec3
	Aim      core.Vec3
	View     ViewPlane
}

// NewCamera creates a camera after checking that it can produce rays
func NewCamera(config CameraConfig) (*Camera, error) {
	view := NewViewPlane(config.ViewMin, config.ViewMax, config.ViewZ)
	if err := view.Validate(); err != nil {
		return nil, err
	}
	if !core.IsFinite(config.Position) {
		return nil, fmt.Errorf("%w: position %v is not finite", ErrInvalidCamera, config.Position)
	}
	if !core.IsFinite(config.Aim) || config.Aim.Norm2() == 0 {
		return nil, fmt.Errorf("%w: aim %v must be a non-zero direction", ErrInvalidCamera, config.Aim)
	}
	if math.Abs(config.Position.Z-config.ViewZ) < 1e-9 {
		return nil, fmt.Errorf("%w: camera z %v equals view plane z", ErrCameraOnViewPlane, config.Position.Z)
	}

	return &Camera{
		Position: config.Position,
		Aim:      config.Aim.Normalize(),
		View:     view,
	}, nil
}

// GetRay returns the primary ray through normalized view plane coordinates (u, v)
func (c *Camera) GetRay(u, v float64) core.Ray {
	target := c.View.ToWorld(u, v)
	return core.NewRay(c.Position, target.Sub(c.Position).Normalize())
}
