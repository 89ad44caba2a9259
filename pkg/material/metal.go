package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// Metal represents a metallic material with specular reflection
type Metal struct {
	Albedo   core.Vec3 // Metal color
	Fuzzness float64   // 0.0 = perfect mirror, 1.0 = very fuzzy
}

// NewMetal creates a new metal material
func NewMetal(albedo core.Vec3, fuzzness float64) *Metal {
	// Clamp fuzzness to valid range
	if fuzzness > 1.0 {
		fuzzness = 1.0
	}
	if fuzzness < 0.0 {
		fuzzness = 0.0
	}
	return &Metal{Albedo: albedo, Fuzzness: fuzzness}
}

// Scatter reflects about the normal and perturbs the result by the fuzz radius
func (m *Metal) Scatter(hit *HitRecord, sampler core.Sampler) (ScatterRecord, bool) {
	reflected := hit.Ray.Direction.Normalize().Reflect(hit.Normal)
	if m.Fuzzness > 0 {
		perturbation := core.SamplePointInUnitSphere(sampler.Get3D()).Multiply(m.Fuzzness)
		reflected = reflected.Add(perturbation)
	}

	scattered := core.NewRayAtTime(hit.Point, reflected, hit.Ray.Time)

	// Fuzz can push the direction below the surface; treat that as absorbed
	if scattered.Direction.Dot(hit.Normal) <= 0 {
		return ScatterRecord{}, false
	}

	return ScatterRecord{
		Attenuation: m.Albedo,
		Scattered:   scattered,
	}, true
}

// ScatteringPDF is unused for specular scattering
func (m *Metal) ScatteringPDF(hit *HitRecord, scattered core.Ray) float64 {
	return 0
}
