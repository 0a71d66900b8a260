package renderer

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/df07/go-phong-raytracer/pkg/core"
	"github.com/df07/go-phong-raytracer/pkg/geometry"
	"github.com/df07/go-phong-raytracer/pkg/lights"
	"github.com/df07/go-phong-raytracer/pkg/material"
)

func TestNewRaytracer_Validation(t *testing.T) {
	scene := newSimpleTestScene(t)

	if _, err := NewRaytracer(scene, 0, 40); !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("Expected ErrInvalidResolution for zero width, got %v", err)
	}
	if _, err := NewRaytracer(scene, 60, -1); !errors.Is(err, ErrInvalidResolution) {
		t.Errorf("Expected ErrInvalidResolution for negative height, got %v", err)
	}

	noCamera := newSimpleTestScene(t)
	noCamera.camera = nil
	if _, err := NewRaytracer(noCamera, 60, 40); !errors.Is(err, ErrNoCamera) {
		t.Errorf("Expected ErrNoCamera, got %v", err)
	}

	badShading := newSimpleTestScene(t)
	badShading.shading.Model = "toon"
	if _, err := NewRaytracer(badShading, 60, 40); !errors.Is(err, ErrInvalidShading) {
		t.Errorf("Expected ErrInvalidShading, got %v", err)
	}

	negativeRadius := newSimpleTestScene(t)
	negativeRadius.objects[1] = geometry.NewSphere(core.NewVec3(0, 0, 0), -3, material.NewMaterial(core.SteelBlue))
	if _, err := NewRaytracer(negativeRadius, 60, 40); !errors.Is(err, geometry.ErrInvalidSphere) {
		t.Errorf("Expected ErrInvalidSphere, got %v", err)
	}
	if _, err := NewParallelRenderer(negativeRadius, 60, 40, DefaultParallelConfig(), nil); !errors.Is(err, geometry.ErrInvalidSphere) {
		t.Errorf("Expected ErrInvalidSphere from the parallel renderer, got %v", err)
	}

	nanLight := newSimpleTestScene(t)
	nanLight.lights[0] = &lights.PointLight{Position: core.NewVec3(math.NaN(), 5, 5), Intensity: 10}
	if _, err := NewRaytracer(nanLight, 60, 40); !errors.Is(err, lights.ErrInvalidLight) {
		t.Errorf("Expected ErrInvalidLight, got %v", err)
	}
}

func TestRaytracer_FindNearestHit(t *testing.T) {
	near := geometry.NewSphere(core.NewVec3(0, 0, 2), 1, material.NewMaterial(core.OrangeRed))
	far := geometry.NewSphere(core.NewVec3(0, 0, -5), 1, material.NewMaterial(core.DarkRed))

	// Far object listed first so scan order alone cannot pick the winner
	scene := &testScene{
		camera:  newTestCamera(t),
		objects: []geometry.Object{far, near},
		shading: DefaultShadingConfig(),
	}
	rt := newTestRaytracer(t, scene, 10, 10)

	hit, ok := rt.FindNearestHit(core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1)))
	if !ok {
		t.Fatal("Expected a hit")
	}
	if hit.Object != near {
		t.Errorf("Expected the nearer sphere to win, got %v", hit.Object)
	}
	if math.Abs(hit.Distance-7) > 1e-9 {
		t.Errorf("Expected distance 7, got %v", hit.Distance)
	}
	if !core.NearlyEqual(hit.Normal, core.NewVec3(0, 0, 1), 1e-9) {
		t.Errorf("Expected normal (0,0,1), got %v", hit.Normal)
	}

	if _, ok := rt.FindNearestHit(core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 1, 0))); ok {
		t.Error("Expected no hit for a ray pointing away from every object")
	}
}

func TestRaytracer_TieBreakIsFirstInScanOrder(t *testing.T) {
	a := geometry.NewSphere(core.NewVec3(0, 0, 0), 1, material.NewMaterial(core.HotPink))
	b := geometry.NewSphere(core.NewVec3(0, 0, 0), 1, material.NewMaterial(core.SteelBlue))
	ray := core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 0, -1))

	tests := []struct {
		name    string
		objects []geometry.Object
		want    geometry.Object
	}{
		{"a first", []geometry.Object{a, b}, a},
		{"b first", []geometry.Object{b, a}, b},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scene := &testScene{camera: newTestCamera(t), objects: tt.objects, shading: DefaultShadingConfig()}
			rt := newTestRaytracer(t, scene, 10, 10)

			// Repeat to make sure the choice is stable
			for i := 0; i < 5; i++ {
				hit, ok := rt.FindNearestHit(ray)
				if !ok || hit.Object != tt.want {
					t.Fatalf("Iteration %d: expected first object to win the tie", i)
				}
			}
		})
	}
}

func TestRaytracer_InShadow(t *testing.T) {
	scene := newSimpleTestScene(t)
	rt := newTestRaytracer(t, scene, 60, 40)
	lightPos := core.NewVec3(0, 5, 5)
	up := core.NewVec3(0, 1, 0)

	tests := []struct {
		name     string
		point    core.Vec3
		normal   core.Vec3
		expected bool
	}{
		{"ground under sphere", core.NewVec3(0, -3, 0), up, true},
		{"ground off to the side", core.NewVec3(10, -3, 0), up, false},
		{"top of sphere does not shadow itself", core.NewVec3(0, 3, 0), up, false},
		{"front of sphere facing light", core.NewVec3(0, 0, 3), core.NewVec3(0, 0, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rt.InShadow(tt.point, tt.normal, lightPos); got != tt.expected {
				t.Errorf("InShadow(%v) = %v, expected %v", tt.point, got, tt.expected)
			}
		})
	}
}

func TestRaytracer_ObjectBeyondLightDoesNotShadow(t *testing.T) {
	// Blocker sits on the shadow ray but past the light
	scene := &testScene{
		camera: newTestCamera(t),
		objects: []geometry.Object{
			geometry.NewSphere(core.NewVec3(0, 10, 0), 1, material.NewMaterial(core.DarkRed)),
		},
		shading: DefaultShadingConfig(),
	}
	rt := newTestRaytracer(t, scene, 10, 10)

	if rt.InShadow(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 5, 0)) {
		t.Error("Object behind the light should not cast a shadow")
	}
	if !rt.InShadow(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 20, 0)) {
		t.Error("Object between point and light should cast a shadow")
	}
}

func TestRaytracer_ShadowOcclusionFlip(t *testing.T) {
	point := core.NewVec3(0, -3, 0)
	normal := core.NewVec3(0, 1, 0)
	diffuse := core.Gray

	open := newSimpleTestScene(t)
	open.objects = open.objects[:1] // ground only
	lit := newTestRaytracer(t, open, 60, 40).Lambert(point, normal, diffuse)

	occluded := newTestRaytracer(t, newSimpleTestScene(t), 60, 40).Lambert(point, normal, diffuse)

	ambient := diffuse.Scale(0.3)
	if !colorsClose(occluded, ambient, 1e-12) {
		t.Errorf("Shadowed point should only receive ambient %v, got %v", ambient, occluded)
	}
	if lit.R <= occluded.R || lit.G <= occluded.G || lit.B <= occluded.B {
		t.Errorf("Unoccluded point %v should be brighter than occluded %v", lit, occluded)
	}
}

func TestRaytracer_LambertMatchesFormula(t *testing.T) {
	scene := &testScene{
		camera: newTestCamera(t),
		lights: []lights.Light{&lights.PointLight{Position: core.NewVec3(0, 4, 0), Intensity: 8}},
		shading: DefaultShadingConfig(),
	}
	rt := newTestRaytracer(t, scene, 10, 10)
	diffuse := core.NewColor(0.5, 0.25, 1)

	// Light straight above at distance 2: falloff 8/4 = 2, n.l = 1
	got := rt.Lambert(core.NewVec3(0, 2, 0), core.NewVec3(0, 1, 0), diffuse)
	expected := diffuse.Scale(0.3 + 2)
	if !colorsClose(got, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, got)
	}

	// Surface facing away from the light only gets ambient
	got = rt.Lambert(core.NewVec3(0, 2, 0), core.NewVec3(0, -1, 0), diffuse)
	if !colorsClose(got, diffuse.Scale(0.3), 1e-12) {
		t.Errorf("Expected ambient only, got %v", got)
	}
}

func TestRaytracer_PhongAddsSpecular(t *testing.T) {
	scene := &testScene{
		camera:  newTestCamera(t),
		lights:  []lights.Light{&lights.PointLight{Position: core.NewVec3(0, 0, 10), Intensity: 10}},
		shading: DefaultShadingConfig(),
	}
	rt := newTestRaytracer(t, scene, 10, 10)
	point := core.NewVec3(0, 0, 0)
	normal := core.NewVec3(0, 0, 1)
	diffuse := core.NewColor(0.2, 0.2, 0.2)

	lambert := rt.Lambert(point, normal, diffuse)
	phong := rt.Phong(point, normal, diffuse, core.White, 35)

	// Camera and light coincide, so the half vector equals the normal
	expected := lambert.Add(core.White.Scale(10.0 / 100.0))
	if !colorsClose(phong, expected, 1e-12) {
		t.Errorf("Expected %v, got %v", expected, phong)
	}

	if noSpec := rt.Phong(point, normal, diffuse, core.Black, 35); !colorsClose(noSpec, lambert, 1e-12) {
		t.Errorf("Black specular should reduce Phong to Lambert: %v vs %v", noSpec, lambert)
	}
}

func TestRaytracer_LambertModelSkipsSpecular(t *testing.T) {
	phongScene := newSimpleTestScene(t)
	lambertScene := newSimpleTestScene(t)
	lambertScene.shading.Model = ShadingLambert

	ray := phongScene.camera.GetRay(0.5, 0.5)
	phong := newTestRaytracer(t, phongScene, 60, 40).RayColor(ray)
	lambert := newTestRaytracer(t, lambertScene, 60, 40).RayColor(ray)

	if lambert.R > phong.R || lambert.G > phong.G || lambert.B > phong.B {
		t.Errorf("Lambert %v should not exceed Phong %v", lambert, phong)
	}
}

func TestRaytracer_MissReturnsBackground(t *testing.T) {
	scene := newSimpleTestScene(t)
	scene.background = core.DarkOliveGreen
	rt := newTestRaytracer(t, scene, 60, 40)

	got := rt.RayColor(core.NewRay(core.NewVec3(0, 0, 10), core.NewVec3(0, 1, 0)))
	if got != core.DarkOliveGreen {
		t.Errorf("Expected background %v, got %v", core.DarkOliveGreen, got)
	}
}

func TestRaytracer_EndToEndScene(t *testing.T) {
	rt := newTestRaytracer(t, newSimpleTestScene(t), 60, 40)

	img, stats, err := rt.RenderPass(context.Background())
	if err != nil {
		t.Fatalf("RenderPass failed: %v", err)
	}
	if img.Bounds().Dx() != 60 || img.Bounds().Dy() != 40 {
		t.Fatalf("Expected 60x40 image, got %v", img.Bounds())
	}

	// Raster pixel (30, 20) is written to image row 40-1-20
	center := img.RGBAAt(30, 19)
	if center.R == 0 && center.G == 0 && center.B == 0 {
		t.Errorf("Center pixel should hit the sphere and be lit, got %v", center)
	}
	if center.A != 255 {
		t.Errorf("Expected opaque pixel, got alpha %d", center.A)
	}

	// Top-left looks up and away from everything
	if corner := img.RGBAAt(0, 0); corner.R != 0 || corner.G != 0 || corner.B != 0 {
		t.Errorf("Top corner should be background, got %v", corner)
	}

	// Bottom-left sees the ground
	if corner := img.RGBAAt(0, 39); corner.R == 0 && corner.G == 0 && corner.B == 0 {
		t.Errorf("Bottom corner should hit the ground, got %v", corner)
	}

	if stats.TotalPixels != 60*40 || stats.Hits+stats.Misses != stats.TotalPixels {
		t.Errorf("Inconsistent stats: %+v", stats)
	}
	if stats.ShadowRays != stats.Hits {
		t.Errorf("Expected one shadow ray per hit with one light, got %d for %d hits", stats.ShadowRays, stats.Hits)
	}
}

func TestRaytracer_RenderPassIsDeterministic(t *testing.T) {
	rt := newTestRaytracer(t, newSimpleTestScene(t), 30, 20)

	first, _, err := rt.RenderPass(context.Background())
	if err != nil {
		t.Fatalf("RenderPass failed: %v", err)
	}
	second, _, err := rt.RenderPass(context.Background())
	if err != nil {
		t.Fatalf("RenderPass failed: %v", err)
	}

	for i := range first.Pix {
		if first.Pix[i] != second.Pix[i] {
			t.Fatalf("Pixel byte %d differs between passes: %d vs %d", i, first.Pix[i], second.Pix[i])
		}
	}
}

func TestRaytracer_EnergyMonotonicity(t *testing.T) {
	dim := newSimpleTestScene(t)
	bright := newSimpleTestScene(t)
	bright.lights = []lights.Light{dim.lights[0].WithIntensity(100)}

	dimImg, _, err := newTestRaytracer(t, dim, 30, 20).RenderPass(context.Background())
	if err != nil {
		t.Fatalf("RenderPass failed: %v", err)
	}
	brightImg, _, err := newTestRaytracer(t, bright, 30, 20).RenderPass(context.Background())
	if err != nil {
		t.Fatalf("RenderPass failed: %v", err)
	}

	for i := range dimImg.Pix {
		if brightImg.Pix[i] < dimImg.Pix[i] {
			t.Fatalf("Byte %d got darker with more light: %d -> %d", i, dimImg.Pix[i], brightImg.Pix[i])
		}
	}
	if CalculateAverageLuminance(brightImg) <= CalculateAverageLuminance(dimImg) {
		t.Error("Expected a brighter image with a stronger light")
	}
}

func TestRaytracer_RenderPassCancelled(t *testing.T) {
	rt := newTestRaytracer(t, newSimpleTestScene(t), 60, 40)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	img, _, err := rt.RenderPass(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if img != nil {
		t.Error("Expected no image from a cancelled pass")
	}
}
