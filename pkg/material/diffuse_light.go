package material

import (
	"github.com/df07/go-pathtracer/pkg/core"
)

// DiffuseLight is a one-sided emitter; it never scatters
type DiffuseLight struct {
	Emission Texture
}

// NewDiffuseLight creates a light emitting a solid color
func NewDiffuseLight(emission core.Vec3) *DiffuseLight {
	return &DiffuseLight{Emission: NewSolidColor(emission)}
}

// NewTexturedDiffuseLight creates a light whose emission comes from a texture
func NewTexturedDiffuseLight(emission Texture) *DiffuseLight {
	return &DiffuseLight{Emission: emission}
}

// Scatter never scatters: lights absorb everything that reaches them
func (l *DiffuseLight) Scatter(hit *HitRecord, sampler core.Sampler) (ScatterRecord, bool) {
	return ScatterRecord{}, false
}

// ScatteringPDF is zero since lights do not scatter
func (l *DiffuseLight) ScatteringPDF(hit *HitRecord, scattered core.Ray) float64 {
	return 0
}

// Emitted returns the emission for front-face hits and black for back faces
func (l *DiffuseLight) Emitted(hit *HitRecord, uv core.Vec2, point core.Vec3) core.Vec3 {
	if !hit.FrontFace {
		return core.Vec3{}
	}
	return l.Emission.Evaluate(uv, point)
}
