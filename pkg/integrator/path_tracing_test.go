package integrator

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// mockScene is a minimal Scene for integrator tests
type mockScene struct {
	world      geometry.Hittable
	lights     pdf.Source
	background core.Vec3
}

func (s *mockScene) GetWorld() geometry.Hittable { return s.world }
func (s *mockScene) GetLights() pdf.Source { return s.lights }
func (s *mockScene) GetBackground() core.Vec3 { return s.background }

// zeroPDF is a density that claims zero everywhere
type zeroPDF struct{}

func (zeroPDF) Value(direction core.Vec3) float64 { return 0 }
func (zeroPDF) Generate(sampler core.Sampler) core.Vec3 { return core.NewVec3(0, 1, 0) }

// brokenMaterial hands out a PDF with zero density
type brokenMaterial struct{}

func (brokenMaterial) Scatter(hit *material.HitRecord, sampler core.Sampler) (material.ScatterRecord, bool) {
	return material.ScatterRecord{Attenuation: core.NewVec3(1, 1, 1), PDF: zeroPDF{}}, true
}

func (brokenMaterial) ScatteringPDF(hit *material.HitRecord, scattered core.Ray) float64 {
	return 1
}

func meanRadiance(pt *PathTracingIntegrator, ray core.Ray, scene Scene, depth, n int) core.Vec3 {
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	sum := core.Vec3{}
	for i := 0; i < n; i++ {
		sum = sum.Add(pt.RayColor(ray, scene, sampler, depth))
	}
	return sum.Multiply(1.0 / float64(n))
}

func TestPathTracingDepthTermination(t *testing.T) {
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.7, 0.3, 0.3)))
	sc := &mockScene{world: sphere, background: core.NewVec3(1, 1, 1)}
	pt := NewPathTracingIntegrator()
	sampler := core.NewSeededSampler(42)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	if c := pt.RayColor(ray, sc, sampler, 0); c != (core.Vec3{}) {
		t.Errorf("Expected black color for depth 0, got %v", c)
	}
	if c := pt.RayColor(ray, sc, sampler, -3); c != (core.Vec3{}) {
		t.Errorf("Expected black color for negative depth, got %v", c)
	}
	// One bounce: the scattered ray has no budget left
	if c := pt.RayColor(ray, sc, sampler, 1); c != (core.Vec3{}) {
		t.Errorf("Expected black color for depth 1 on a non-emitter, got %v", c)
	}
	if c := pt.RayColor(ray, sc, sampler, 3); c == (core.Vec3{}) {
		t.Error("Expected non-black color for positive depth")
	}
}

func TestPathTracingBackground(t *testing.T) {
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -1), 0.5, material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	background := core.NewVec3(0.2, 0.4, 0.6)
	sc := &mockScene{world: sphere, background: background}

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0))
	if c := NewPathTracingIntegrator().RayColor(ray, sc, core.NewSeededSampler(42), 5); c != background {
		t.Errorf("Expected background %v for a miss, got %v", background, c)
	}
}

func TestPathTracingEmission(t *testing.T) {
	emission := core.NewVec3(4, 4, 4)
	light := geometry.NewQuad(core.NewVec3(-1, -1, -2), core.NewVec3(2, 0, 0), core.NewVec3(0, 2, 0), material.NewDiffuseLight(emission))
	sc := &mockScene{world: light}
	pt := NewPathTracingIntegrator()
	sampler := core.NewSeededSampler(42)

	front := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	if c := pt.RayColor(front, sc, sampler, 5); c != emission {
		t.Errorf("Expected emission %v from the front, got %v", emission, c)
	}

	back := core.NewRay(core.NewVec3(0, 0, -4), core.NewVec3(0, 0, 1))
	if c := pt.RayColor(back, sc, sampler, 5); c != (core.Vec3{}) {
		t.Errorf("Expected black from the back of a one-sided light, got %v", c)
	}
}

func TestPathTracingFurnace(t *testing.T) {
	// A convex diffuse sphere under a uniform white sky reflects exactly its
	// albedo, whichever sampling strategy picks the bounce direction
	albedo := 0.6
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -3), 1, material.NewLambertian(core.NewVec3(albedo, albedo, albedo)))
	light := geometry.NewSphere(core.NewVec3(2, 2, 0), 1, nil)
	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))

	tests := []struct {
		name   string
		lights pdf.Source
	}{
		{"Material sampling only", nil},
		{"Mixed with light sampling", light},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sc := &mockScene{world: sphere, lights: tt.lights, background: core.NewVec3(1, 1, 1)}
			pt := NewPathTracingIntegrator()
			mean := meanRadiance(pt, ray, sc, 5, 20000)
			if math.Abs(mean.X-albedo) > 0.02 {
				t.Errorf("Expected mean radiance ~%f, got %f", albedo, mean.X)
			}
			if pt.DegenerateSamples() != 0 {
				t.Errorf("Expected no degenerate samples, got %d", pt.DegenerateSamples())
			}
		})
	}
}

func TestPathTracingGlassFurnace(t *testing.T) {
	glass := geometry.NewSphere(core.NewVec3(0, 0, -3), 1, material.NewDielectric(1.5))
	sc := &mockScene{world: glass, background: core.NewVec3(1, 1, 1)}
	ray := core.NewRay(core.NewVec3(0.3, 0.2, 0), core.NewVec3(0, 0, -1))

	mean := meanRadiance(NewPathTracingIntegrator(), ray, sc, 50, 2000)
	if math.Abs(mean.X-1) > 0.01 {
		t.Errorf("Expected clear glass to pass the sky through, got %f", mean.X)
	}
}

func TestPathTracingDegenerateSampleDropped(t *testing.T) {
	sphere := geometry.NewSphere(core.NewVec3(0, 0, -3), 1, brokenMaterial{})
	sc := &mockScene{world: sphere, background: core.NewVec3(1, 1, 1)}
	pt := NewPathTracingIntegrator()

	ray := core.NewRay(core.NewVec3(0, 0, 0), core.NewVec3(0, 0, -1))
	c := pt.RayColor(ray, sc, core.NewSeededSampler(42), 5)
	if c != (core.Vec3{}) {
		t.Errorf("Expected dropped sample to contribute nothing, got %v", c)
	}
	if pt.DegenerateSamples() != 1 {
		t.Errorf("Expected 1 degenerate sample, got %d", pt.DegenerateSamples())
	}
}

func TestPathTracingLightSamplingReducesVariance(t *testing.T) {
	// A small light above a diffuse floor: mixing in light sampling keeps the
	// mean but lowers the variance
	lightMat := material.NewDiffuseLight(core.NewVec3(15, 15, 15))
	light := geometry.NewQuad(core.NewVec3(-0.5, 3, -0.5), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), lightMat)
	floor := geometry.NewQuad(core.NewVec3(-5, 0, -5), core.NewVec3(0, 0, 10), core.NewVec3(10, 0, 0), material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5)))
	world := geometry.NewHittableList(light, floor)
	ray := core.NewRay(core.NewVec3(0, 1, 2), core.NewVec3(0, -1, -2))

	stats := func(lights pdf.Source) (mean, variance float64) {
		sc := &mockScene{world: world, lights: lights}
		pt := NewPathTracingIntegrator()
		sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
		const n = 50000
		var sum, sumSq float64
		for i := 0; i < n; i++ {
			v := pt.RayColor(ray, sc, sampler, 2).X
			sum += v
			sumSq += v * v
		}
		mean = sum / n
		return mean, sumSq/n - mean*mean
	}

	meanMaterial, varMaterial := stats(nil)
	meanMixed, varMixed := stats(light)

	if math.Abs(meanMaterial-meanMixed) > 0.1*meanMixed {
		t.Errorf("Expected matching means, got %f and %f", meanMaterial, meanMixed)
	}
	if varMixed >= varMaterial {
		t.Errorf("Expected light sampling to reduce variance: %f vs %f", varMixed, varMaterial)
	}
}
