package scene

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// unboundedShape reports an infinite box
type unboundedShape struct{}

func (unboundedShape) Hit(core.Ray, float64, float64, core.Sampler) (*material.HitRecord, bool) {
	return nil, false
}

func (unboundedShape) BoundingBox() core.AABB {
	return core.NewAABB(core.UniverseInterval, core.UniverseInterval, core.UniverseInterval)
}

func testCamera() *geometry.Camera {
	return geometry.NewCamera(geometry.CameraConfig{
		Center: core.NewVec3(0, 0, 5),
		LookAt: core.NewVec3(0, 0, 0),
		Width:  16,
		VFov:   40,
	})
}

func unitSphere() *geometry.Sphere {
	return geometry.NewSphere(core.NewVec3(0, 0, 0), 1, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
}

func TestPreprocess_Validation(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *Scene
		expected error
	}{
		{
			name:     "empty scene",
			build:    func() *Scene { return New(testCamera(), core.Vec3{}) },
			expected: ErrEmptyScene,
		},
		{
			name: "no camera",
			build: func() *Scene {
				s := New(nil, core.Vec3{})
				s.Add(unitSphere())
				return s
			},
			expected: ErrNoCamera,
		},
		{
			name: "unbounded object",
			build: func() *Scene {
				s := New(testCamera(), core.Vec3{})
				s.Add(unitSphere(), unboundedShape{})
				return s
			},
			expected: ErrNonFiniteBounds,
		},
		{
			name: "box as light",
			build: func() *Scene {
				s := New(testCamera(), core.Vec3{})
				box := geometry.NewBox(core.NewVec3(0, 0, 0), core.NewVec3(1, 1, 1), material.NewDiffuseLight(core.NewVec3(1, 1, 1)))
				s.Add(box)
				s.AddLight(box)
				return s
			},
			expected: ErrUnsampleableLight,
		},
		{
			name: "valid",
			build: func() *Scene {
				s := New(testCamera(), core.Vec3{})
				s.Add(unitSphere())
				s.AddQuadLight(core.NewVec3(-1, 3, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), core.NewVec3(4, 4, 4))
				return s
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Preprocess()
			if tt.expected == nil {
				if err != nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestScene_Lifecycle(t *testing.T) {
	s := New(testCamera(), core.NewVec3(0.1, 0.2, 0.3))
	s.Add(unitSphere())

	if !errors.Is(s.Validate(), ErrNotPreprocessed) {
		t.Error("Expected ErrNotPreprocessed before Preprocess")
	}
	if s.GetWorld() != nil {
		t.Error("Expected no world before Preprocess")
	}

	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Expected valid scene, got %v", err)
	}
	if s.GetWorld() == nil {
		t.Error("Expected a world after Preprocess")
	}
	if s.GetLights() != nil {
		t.Error("Expected untyped nil lights for a scene without lights")
	}

	s.AddSphereLight(core.NewVec3(0, 5, 0), 1, core.NewVec3(3, 3, 3))
	if !errors.Is(s.Validate(), ErrNotPreprocessed) {
		t.Error("Expected adding to invalidate the frozen scene")
	}
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if s.GetLights() == nil {
		t.Error("Expected lights after AddSphereLight")
	}
	if len(s.Objects()) != 2 || len(s.Lights()) != 1 {
		t.Errorf("Expected 2 objects and 1 light, got %d and %d", len(s.Objects()), len(s.Lights()))
	}
	if s.GetBackground() != core.NewVec3(0.1, 0.2, 0.3) {
		t.Errorf("Unexpected background %v", s.GetBackground())
	}
}

func TestScene_WorldHitsMatchObjects(t *testing.T) {
	s := New(testCamera(), core.Vec3{})
	s.Add(unitSphere())
	s.AddQuadLight(core.NewVec3(-1, 3, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), core.NewVec3(4, 4, 4))
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	hit, ok := s.GetWorld().Hit(core.NewRay(core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil)
	if !ok || math.Abs(hit.T-4) > 1e-9 {
		t.Fatalf("Expected sphere hit at t=4, got %v %v", hit, ok)
	}
	if hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Expected normal (0,0,1), got %v", hit.Normal)
	}

	// Light importance sampling aims at the quad overhead
	origin := core.NewVec3(0, 1, 0)
	direction := s.GetLights().Random(origin, core.NewSeededSampler(42))
	if direction.Y <= 0 {
		t.Errorf("Expected direction toward the light, got %v", direction)
	}
}

func TestScene_SetImageWidth(t *testing.T) {
	s := NewCornellScene()
	s.SetImageWidth(80)

	if s.Camera.Width() != 80 || s.Camera.Height() != 80 {
		t.Errorf("Expected 80x80 camera, got %dx%d", s.Camera.Width(), s.Camera.Height())
	}
	if s.Camera.Config().VFov != 40 {
		t.Errorf("Expected VFov to survive resize, got %f", s.Camera.Config().VFov)
	}
}

func TestScene_PrimitiveCount(t *testing.T) {
	// 5 walls + light + 6 box faces + glass sphere
	if got := NewCornellScene().GetPrimitiveCount(); got != 13 {
		t.Errorf("Expected 13 primitives, got %d", got)
	}
}

func TestCornellBox_LitUnderLight(t *testing.T) {
	s := NewCornellScene()
	s.SetImageWidth(80)
	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}

	rt := renderer.NewRaytracer(s, renderer.SamplingConfig{SamplesPerPixel: 4, MaxDepth: 8}, nil)
	frame, _, err := rt.Render(context.Background(), renderer.RenderOptions{Seed: 42})
	if err != nil {
		t.Fatalf("Render failed: %v", err)
	}

	// The ceiling light projects to rows 11-12, columns 34-45 at this resolution
	lightLum := 0.0
	lightPixels := 0
	for y := 11; y <= 12; y++ {
		for x := 34; x <= 45; x++ {
			lum := frame.Color(x, y).Luminance()
			if math.Abs(lum-15) > 1e-6 {
				t.Errorf("Pixel (%d,%d) should see the light directly, got luminance %f", x, y, lum)
			}
			lightLum += lum
			lightPixels++
		}
	}
	lightLum /= float64(lightPixels)

	mean := frame.AverageLuminance()
	if mean <= 0 {
		t.Fatal("Expected a non-black image")
	}
	if lightLum < 4*mean {
		t.Errorf("Expected light pixels (%f) to be much brighter than the mean (%f)", lightLum, mean)
	}

	floor := 0.0
	for y := 60; y < 80; y++ {
		for x := 0; x < 80; x++ {
			c := frame.Color(x, y)
			if !c.IsFinite() {
				t.Fatalf("Pixel (%d,%d) is not finite: %v", x, y, c)
			}
			floor += c.Luminance()
		}
	}
	if floor <= 0 {
		t.Error("Expected the lower part of the box to receive light")
	}
}

func TestRender_RequiresPreprocess(t *testing.T) {
	config := renderer.SamplingConfig{SamplesPerPixel: 1, MaxDepth: 2}

	s := NewCornellScene()
	s.SetImageWidth(8)
	if _, _, err := renderer.NewRaytracer(s, config, nil).Render(context.Background(), renderer.RenderOptions{}); !errors.Is(err, ErrNotPreprocessed) {
		t.Fatalf("Expected ErrNotPreprocessed before Preprocess, got %v", err)
	}

	if err := s.Preprocess(); err != nil {
		t.Fatalf("Preprocess failed: %v", err)
	}
	if _, _, err := renderer.NewRaytracer(s, config, nil).Render(context.Background(), renderer.RenderOptions{}); err != nil {
		t.Fatalf("Unexpected error after Preprocess: %v", err)
	}

	s.Add(unitSphere())
	if _, _, err := renderer.NewRaytracer(s, config, nil).Render(context.Background(), renderer.RenderOptions{}); !errors.Is(err, ErrNotPreprocessed) {
		t.Errorf("Expected ErrNotPreprocessed after Add, got %v", err)
	}
}
