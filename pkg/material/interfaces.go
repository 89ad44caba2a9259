package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Material interface for objects that can scatter rays
type Material interface {
	// Scatter returns the scattering of the hit, or false when the ray is absorbed
	Scatter(hit *HitRecord, sampler core.Sampler) (ScatterRecord, bool)

	// ScatteringPDF is the density with which this material itself would scatter
	// along scattered; used to reweight directions drawn from other densities
	ScatteringPDF(hit *HitRecord, scattered core.Ray) float64
}

// Emitter interface for materials that emit light
type Emitter interface {
	Emitted(hit *HitRecord, uv core.Vec2, point core.Vec3) core.Vec3
}

// ScatterRecord contains the result of material scattering.
// Exactly one of PDF and Scattered is meaningful: diffuse materials set PDF
// and leave direction choice to the integrator, specular materials set a
// concrete Scattered ray.
type ScatterRecord struct {
	Attenuation core.Vec3
	PDF         pdf.PDF
	Scattered   core.Ray
}

// IsSpecular returns true if this is specular scattering (no PDF)
func (s ScatterRecord) IsSpecular() bool {
	return s.PDF == nil
}

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	Ray       core.Ray  // Incoming ray, in world space
	Point     core.Vec3 // Point of intersection
	Normal    core.Vec3 // Surface normal, facing against the incoming ray
	T         float64   // Parameter t along the ray
	FrontFace bool      // Whether ray hit the front face
	Material  Material  // Material of the hit object
	UV        core.Vec2 // Surface parametric coordinates
}

// SetFaceNormal sets the normal vector and determines front/back face
func (h *HitRecord) SetFaceNormal(ray core.Ray, outwardNormal core.Vec3) {
	h.FrontFace = ray.Direction.Dot(outwardNormal) < 0
	if h.FrontFace {
		h.Normal = outwardNormal
	} else {
		h.Normal = outwardNormal.Negate()
	}
}
