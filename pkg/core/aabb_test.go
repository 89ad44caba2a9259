package core

import (
	"math"
	"math/rand"
	"testing"
)

func TestAABB_Hit(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))

	tests := []struct {
		name     string
		ray      Ray
		expected bool
	}{
		{"Straight through", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1)), true},
		{"Miss to the side", NewRay(NewVec3(3, 0, 5), NewVec3(0, 0, -1)), false},
		{"Pointing away", NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, 1)), false},
		{"Origin inside", NewRay(NewVec3(0, 0, 0), NewVec3(1, 1, 0)), true},
		{"Parallel outside slab", NewRay(NewVec3(0, 2, 5), NewVec3(0, 0, -1)), false},
		{"Diagonal", NewRay(NewVec3(-5, -5, -5), NewVec3(1, 1, 1)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := box.Hit(tt.ray, 0.001, math.Inf(1)); got != tt.expected {
				t.Errorf("Hit() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestAABB_HitRespectsRange(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(-1, -1, -1), NewVec3(1, 1, 1))
	ray := NewRay(NewVec3(0, 0, 5), NewVec3(0, 0, -1))
	if box.Hit(ray, 0.001, 3.0) {
		t.Error("Box starts at t=4, should miss with tMax=3")
	}
}

func TestAABB_PadsFlatAxis(t *testing.T) {
	// A quad in the z=0 plane would otherwise have zero thickness
	box := NewAABBFromPoints(NewVec3(0, 0, 0), NewVec3(1, 1, 0))
	if box.Z.Size() < boxPadding {
		t.Errorf("Expected padded Z extent, got %g", box.Z.Size())
	}
	if box.X.Size() != 1 {
		t.Errorf("Expected X extent untouched, got %f", box.X.Size())
	}

	ray := NewRay(NewVec3(0.5, 0.5, 1), NewVec3(0, 0, -1))
	if !box.Hit(ray, 0.001, math.Inf(1)) {
		t.Error("Expected ray to hit padded flat box")
	}
}

func TestAABB_UnionContainsBoth(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	randomBox := func() AABB {
		a := NewVec3(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
		b := NewVec3(random.Float64()*10-5, random.Float64()*10-5, random.Float64()*10-5)
		return NewAABBFromPoints(a, b)
	}

	for i := 0; i < 200; i++ {
		a, b := randomBox(), randomBox()
		u := a.Union(b)
		for axis := 0; axis < 3; axis++ {
			ua, aa, ba := u.Axis(axis), a.Axis(axis), b.Axis(axis)
			if ua.Min > math.Min(aa.Min, ba.Min) || ua.Max < math.Max(aa.Max, ba.Max) {
				t.Fatalf("Union %v does not contain %v and %v on axis %d", u, a, b, axis)
			}
		}
	}
}

func TestAABB_LongestAxis(t *testing.T) {
	tests := []struct {
		name     string
		max      Vec3
		expected int
	}{
		{"X longest", NewVec3(5, 1, 1), 0},
		{"Y longest", NewVec3(1, 5, 1), 1},
		{"Z longest", NewVec3(1, 1, 5), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			box := NewAABBFromPoints(Vec3{}, tt.max)
			if got := box.LongestAxis(); got != tt.expected {
				t.Errorf("LongestAxis() = %d, want %d", got, tt.expected)
			}
		})
	}
}

func TestAABB_TranslateAndRotate(t *testing.T) {
	box := NewAABBFromPoints(NewVec3(0, 0, 0), NewVec3(2, 1, 1))

	moved := box.Translate(NewVec3(1, 2, 3))
	if moved.Min() != NewVec3(1, 2, 3) || moved.Max() != NewVec3(3, 3, 4) {
		t.Errorf("Unexpected translated box %v", moved)
	}

	// 90 degrees about Y maps +X to -Z
	rotated := box.Rotate(NewRotationY(90))
	const tolerance = 1e-9
	if math.Abs(rotated.Z.Min+2) > tolerance || math.Abs(rotated.Z.Max) > tolerance {
		t.Errorf("Expected Z in [-2,0], got [%f,%f]", rotated.Z.Min, rotated.Z.Max)
	}
	if math.Abs(rotated.X.Min) > tolerance || math.Abs(rotated.X.Max-1) > tolerance {
		t.Errorf("Expected X in [0,1], got [%f,%f]", rotated.X.Min, rotated.X.Max)
	}
}

func TestAABB_IsFinite(t *testing.T) {
	if !NewAABBFromPoints(Vec3{}, NewVec3(1, 1, 1)).IsFinite() {
		t.Error("Expected unit box to be finite")
	}
	if EmptyAABB.IsFinite() {
		t.Error("Expected empty box to be non-finite")
	}
	inf := NewAABB(UniverseInterval, UnitInterval, UnitInterval)
	if inf.IsFinite() {
		t.Error("Expected infinite box to be non-finite")
	}
}
