package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
)

func TestQuad_Hit(t *testing.T) {
	// Unit square in the z=0 plane
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)

	tests := []struct {
		name     string
		ray      core.Ray
		hit      bool
		expected core.Vec2
	}{
		{"Center", core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1)), true, core.NewVec2(0.5, 0.5)},
		{"Near corner", core.NewRay(core.NewVec3(0.1, 0.9, 1), core.NewVec3(0, 0, -1)), true, core.NewVec2(0.1, 0.9)},
		{"Outside U", core.NewRay(core.NewVec3(1.5, 0.5, 1), core.NewVec3(0, 0, -1)), false, core.Vec2{}},
		{"Outside V", core.NewRay(core.NewVec3(0.5, -0.1, 1), core.NewVec3(0, 0, -1)), false, core.Vec2{}},
		{"Parallel", core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(1, 0, 0)), false, core.Vec2{}},
		{"Behind origin", core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, 1)), false, core.Vec2{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := quad.Hit(tt.ray, 0.001, math.Inf(1), nil)
			if ok != tt.hit {
				t.Fatalf("Expected hit=%v, got %v", tt.hit, ok)
			}
			if !ok {
				return
			}
			if math.Abs(hit.UV.X-tt.expected.X) > 1e-9 || math.Abs(hit.UV.Y-tt.expected.Y) > 1e-9 {
				t.Errorf("Expected UV %v, got %v", tt.expected, hit.UV)
			}
			if !hit.FrontFace {
				t.Error("Expected ray from +Z to hit front face")
			}
		})
	}
}

func TestQuad_BoundingBoxPadded(t *testing.T) {
	quad := NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), nil)
	box := quad.BoundingBox()
	if box.Z.Size() <= 0 {
		t.Errorf("Expected padded Z extent, got %v", box.Z)
	}
	if !box.Hit(core.NewRay(core.NewVec3(0.5, 0.5, 1), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1)) {
		t.Error("Expected ray to hit flat quad's box")
	}
}

func TestQuad_PDF(t *testing.T) {
	// 2x2 light one unit above the origin, facing down
	quad := NewQuad(core.NewVec3(-1, 1, -1), core.NewVec3(2, 0, 0), core.NewVec3(0, 0, 2), nil)
	if quad.Normal.Subtract(core.NewVec3(0, -1, 0)).Length() > 1e-9 {
		t.Fatalf("Expected downward normal, got %v", quad.Normal)
	}
	origin := core.NewVec3(0, 0, 0)

	// Straight up: dist=1, cos=1, area=4
	if got := quad.PDFValue(origin, core.NewVec3(0, 1, 0)); math.Abs(got-0.25) > 1e-9 {
		t.Errorf("Expected 0.25, got %f", got)
	}

	if got := quad.PDFValue(origin, core.NewVec3(0, -1, 0)); got != 0 {
		t.Errorf("Expected 0 for direction away from quad, got %f", got)
	}

	// The density integrates to one over the solid angle the quad subtends:
	// E_uniform[pdf/(1/4pi)] over the sphere is 1
	sampler := core.NewRandomSampler(rand.New(rand.NewSource(42)))
	const n = 200000
	sum := 0.0
	for i := 0; i < n; i++ {
		dir := core.SampleOnUnitSphere(sampler.Get2D())
		sum += quad.PDFValue(origin, dir) * 4 * math.Pi
	}
	if mean := sum / n; math.Abs(mean-1) > 0.05 {
		t.Errorf("Expected quad density to integrate to 1, got %f", mean)
	}

	for i := 0; i < 200; i++ {
		dir := quad.Random(origin, sampler)
		if quad.PDFValue(origin, dir) <= 0 {
			t.Fatalf("Sampled direction %v has zero density", dir)
		}
	}
}

func TestBox_Hit(t *testing.T) {
	box := NewBox(core.NewVec3(1, 1, 1), core.NewVec3(-1, -1, -1), nil)

	tests := []struct {
		name   string
		origin core.Vec3
		dir    core.Vec3
		t      float64
		normal core.Vec3
	}{
		{"From +Z", core.NewVec3(0, 0, 5), core.NewVec3(0, 0, -1), 4, core.NewVec3(0, 0, 1)},
		{"From -Z", core.NewVec3(0, 0, -5), core.NewVec3(0, 0, 1), 4, core.NewVec3(0, 0, -1)},
		{"From +X", core.NewVec3(5, 0, 0), core.NewVec3(-1, 0, 0), 4, core.NewVec3(1, 0, 0)},
		{"From -X", core.NewVec3(-5, 0, 0), core.NewVec3(1, 0, 0), 4, core.NewVec3(-1, 0, 0)},
		{"From +Y", core.NewVec3(0, 5, 0), core.NewVec3(0, -1, 0), 4, core.NewVec3(0, 1, 0)},
		{"From -Y", core.NewVec3(0, -5, 0), core.NewVec3(0, 1, 0), 4, core.NewVec3(0, -1, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit, ok := box.Hit(core.NewRay(tt.origin, tt.dir), 0.001, math.Inf(1), nil)
			if !ok {
				t.Fatal("Expected hit")
			}
			if math.Abs(hit.T-tt.t) > 1e-9 {
				t.Errorf("Expected t=%f, got %f", tt.t, hit.T)
			}
			if !hit.FrontFace {
				t.Error("Expected outward-facing face to be hit from outside")
			}
			if hit.Normal.Subtract(tt.normal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.normal, hit.Normal)
			}
		})
	}

	if _, ok := box.Hit(core.NewRay(core.NewVec3(3, 3, 5), core.NewVec3(0, 0, -1)), 0.001, math.Inf(1), nil); ok {
		t.Error("Expected miss beside the box")
	}
}
