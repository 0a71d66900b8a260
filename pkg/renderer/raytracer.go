package renderer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
)

// ShadowEpsilon offsets shadow ray origins along the surface normal
// so a surface does not shadow itself
const ShadowEpsilon = 1e-4

var (
	ErrNoCamera          = errors.New("scene has no camera")
	ErrInvalidResolution = errors.New("invalid resolution")
	ErrInvalidShading    = errors.New("invalid shading config")
)

// ShadingModel selects the local illumination model
type ShadingModel string

const (
	ShadingPhong   ShadingModel = "phong"
	ShadingLambert ShadingModel = "lambert"
)

// Phong exponents accepted from config, request parameters and scene files
const (
	MinPower = 10.0
	MaxPower = 10000.0
)

// ShadingConfig contains the shading parameters shared by every object
type ShadingConfig struct {
	Ambient float64      // Fraction of the diffuse color added unconditionally
	Power   float64      // Phong exponent
	Model   ShadingModel // phong or lambert
}

// DefaultShadingConfig returns sensible default values
func DefaultShadingConfig() ShadingConfig {
	return ShadingConfig{
		Ambient: 0.3,
		Power:   35,
		Model:   ShadingPhong,
	}
}

func (sc ShadingConfig) Validate() error {
	if sc.Ambient < 0 || math.IsNaN(sc.Ambient) || math.IsInf(sc.Ambient, 0) {
		return fmt.Errorf("%w: ambient %v", ErrInvalidShading, sc.Ambient)
	}
	if sc.Power < 0 || math.IsNaN(sc.Power) || math.IsInf(sc.Power, 0) {
		return fmt.Errorf("%w: power %v", ErrInvalidShading, sc.Power)
	}
	switch sc.Model {
	case ShadingPhong, ShadingLambert:
	default:
		return fmt.Errorf("%w: unknown model %q", ErrInvalidShading, sc.Model)
	}
	return nil
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetObjects() []geometry.Object
	GetLights() []lights.Light
	GetBackground() core.Color
	GetShadingConfig() ShadingConfig
}

// SurfaceHit is the nearest intersection found for a ray
type SurfaceHit struct {
	Object   geometry.Object
	Point    core.Vec3
	Normal   core.Vec3
	Distance float64 // Euclidean distance from the ray origin
}

// Raytracer renders a snapshot of a scene. It only reads its state after
// construction, so one instance can be shared by all workers.
type Raytracer struct {
	camera     *Camera
	objects    []geometry.Object
	lights     []lights.Light
	background core.Color
	shading    ShadingConfig
	width      int
	height     int
}

// NewRaytracer creates a raytracer for a width x height raster
func NewRaytracer(scene Scene, width, height int) (*Raytracer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidResolution, width, height)
	}
	camera := scene.GetCamera()
	if camera == nil {
		return nil, ErrNoCamera
	}
	shading := scene.GetShadingConfig()
	if err := shading.Validate(); err != nil {
		return nil, err
	}

	// Copy the slices so later edits to the scene do not leak into a pass
	objects := append([]geometry.Object(nil), scene.GetObjects()...)
	sceneLights := append([]lights.Light(nil), scene.GetLights()...)
	for i, obj := range objects {
		if err := obj.Validate(); err != nil {
			return nil, fmt.Errorf("object %d: %w", i, err)
		}
	}
	for i, light := range sceneLights {
		if err := light.Validate(); err != nil {
			return nil, fmt.Errorf("light %d: %w", i, err)
		}
	}

	return &Raytracer{
		camera:     camera,
		objects:    objects,
		lights:     sceneLights,
		background: scene.GetBackground(),
		shading:    shading,
		width:      width,
		height:     height,
	}, nil
}

func (rt *Raytracer) Width() int  { return rt.width }
func (rt *Raytracer) Height() int { return rt.height }

// FindNearestHit scans every object and keeps the hit closest to the ray
// origin. Ties go to the object that appears first in the scene.
func (rt *Raytracer) FindNearestHit(ray core.Ray) (*SurfaceHit, bool) {
	var nearest *SurfaceHit

	for _, obj := range rt.objects {
		hit, ok := obj.Intersect(ray)
		if !ok {
			continue
		}
		distance := ray.Origin.Distance(hit.Point)
		if nearest == nil || distance < nearest.Distance {
			nearest = &SurfaceHit{
				Object:   obj,
				Point:    hit.Point,
				Normal:   hit.Normal,
				Distance: distance,
			}
		}
	}

	return nearest, nearest != nil
}

// InShadow reports whether any object lies between a surface point and a light
func (rt *Raytracer) InShadow(point, normal, lightPos core.Vec3) bool {
	origin := point.Add(normal.Mul(ShadowEpsilon))
	shadowRay := core.NewRay(origin, lightPos.Sub(point).Normalize())
	lightDistance := origin.Distance(lightPos)

	for _, obj := range rt.objects {
		hit, ok := obj.Intersect(shadowRay)
		if ok && origin.Distance(hit.Point) < lightDistance {
			return true
		}
	}
	return false
}

// Lambert returns ambient plus diffuse lighting at a point
func (rt *Raytracer) Lambert(point, normal core.Vec3, diffuse core.Color) core.Color {
	return rt.illuminate(point, normal, diffuse, core.Black, 0, false)
}

// Phong returns Lambert lighting plus a Blinn half-vector specular term
func (rt *Raytracer) Phong(point, normal core.Vec3, diffuse, specular core.Color, power float64) core.Color {
	return rt.illuminate(point, normal, diffuse, specular, power, true)
}

// illuminate runs one shadow test per light and uses it for both terms
func (rt *Raytracer) illuminate(point, normal core.Vec3, diffuse, specular core.Color, power float64, withSpecular bool) core.Color {
	color := diffuse.Scale(rt.shading.Ambient)
	view := rt.camera.Position.Sub(point).Normalize()

	for _, light := range rt.lights {
		lightPos := light.GetPosition()
		toLight := lightPos.Sub(point)
		distSq := toLight.Norm2()
		if distSq == 0 {
			continue
		}
		if rt.InShadow(point, normal, lightPos) {
			continue
		}

		l := toLight.Normalize()
		falloff := light.GetIntensity() / distSq

		color = color.Add(diffuse.Scale(falloff * math.Max(0, normal.Dot(l))))

		if withSpecular {
			half := view.Add(l).Normalize()
			color = color.Add(specular.Scale(falloff * math.Pow(math.Max(0, normal.Dot(half)), power)))
		}
	}

	return color
}

// Shade evaluates the configured shading model at a surface hit
func (rt *Raytracer) Shade(hit *SurfaceHit) core.Color {
	diffuse := hit.Object.ColorAt(hit.Point)
	if rt.shading.Model == ShadingLambert {
		return rt.Lambert(hit.Point, hit.Normal, diffuse)
	}
	mat := hit.Object.GetMaterial()
	return rt.Phong(hit.Point, hit.Normal, diffuse, mat.Specular, rt.shading.Power)
}

// RayColor returns the shaded color seen along a ray
func (rt *Raytracer) RayColor(ray core.Ray) core.Color {
	color, _ := rt.traceRay(ray)
	return color
}

func (rt *Raytracer) traceRay(ray core.Ray) (core.Color, bool) {
	hit, ok := rt.FindNearestHit(ray)
	if !ok {
		return rt.background, false
	}
	return rt.Shade(hit), true
}

// PixelRay returns the primary ray for raster pixel (i, j), with j counted
// from the bottom row
func (rt *Raytracer) PixelRay(i, j int) core.Ray {
	u := (float64(i) + 0.5) / float64(rt.width)
	v := (float64(j) + 0.5) / float64(rt.height)
	return rt.camera.GetRay(u, v)
}

// RenderBounds renders pixels within bounds (image coordinates, y down)
// into img. Tiles have non-overlapping bounds, so workers can share img.
func (rt *Raytracer) RenderBounds(bounds image.Rectangle, img *image.RGBA) RenderStats {
	stats := RenderStats{TotalPixels: bounds.Dx() * bounds.Dy(), Tiles: 1}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		j := rt.height - 1 - y
		for i := bounds.Min.X; i < bounds.Max.X; i++ {
			color, hit := rt.traceRay(rt.PixelRay(i, j))
			if hit {
				stats.Hits++
				stats.ShadowRays += len(rt.lights)
			} else {
				stats.Misses++
			}
			img.SetRGBA(i, y, color.ToRGBA())
		}
	}

	return stats
}

// RenderPass renders the whole raster on the calling goroutine
func (rt *Raytracer) RenderPass(ctx context.Context) (*image.RGBA, RenderStats, error) {
	start := time.Now()
	img := image.NewRGBA(image.Rect(0, 0, rt.width, rt.height))
	stats := RenderStats{Workers: 1}

	for y := 0; y < rt.height; y++ {
		if err := ctx.Err(); err != nil {
			return nil, RenderStats{}, err
		}
		stats.Add(rt.RenderBounds(image.Rect(0, y, rt.width, y+1), img))
	}

	stats.Tiles = 1
	stats.Duration = time.Since(start)
	return img, stats, nil
}
