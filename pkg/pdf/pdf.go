// Package pdf provides direction distributions used for importance sampling.
// Each PDF can draw a direction and report the density of any direction,
// measured in solid angle.
package pdf

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
)

// PDF is a probability density over directions on the unit sphere
type PDF interface {
	// Value returns the density of direction in solid-angle measure
	Value(direction core.Vec3) float64
	// Generate draws a direction distributed according to Value
	Generate(sampler core.Sampler) core.Vec3
}

// Source is anything that can be sampled by solid angle from a point,
// typically a light-emitting shape
type Source interface {
	PDFValue(origin, direction core.Vec3) float64
	Random(origin core.Vec3, sampler core.Sampler) core.Vec3
}

// CosinePDF is a cosine-weighted hemisphere about a normal
type CosinePDF struct {
	basis core.ONB
}

// NewCosinePDF creates a cosine density around w
func NewCosinePDF(w core.Vec3) *CosinePDF {
	return &CosinePDF{basis: core.NewONB(w)}
}

// Value returns max(0, cos(theta)/pi)
func (p *CosinePDF) Value(direction core.Vec3) float64 {
	cosine := direction.Normalize().Dot(p.basis.W)
	return math.Max(0, cosine/math.Pi)
}

// Generate draws a cosine-weighted direction
func (p *CosinePDF) Generate(sampler core.Sampler) core.Vec3 {
	return p.basis.Transform(core.RandomCosineDirection(sampler.Get2D()))
}

// SpherePDF is uniform over the whole sphere
type SpherePDF struct{}

// NewSpherePDF creates a uniform sphere density
func NewSpherePDF() *SpherePDF {
	return &SpherePDF{}
}

// Value returns 1/(4*pi) for every direction
func (p *SpherePDF) Value(direction core.Vec3) float64 {
	return 1.0 / (4.0 * math.Pi)
}

// Generate draws a uniform direction
func (p *SpherePDF) Generate(sampler core.Sampler) core.Vec3 {
	return core.SampleOnUnitSphere(sampler.Get2D())
}

// HittablePDF samples directions toward a Source as seen from origin
type HittablePDF struct {
	source Source
	origin core.Vec3
}

// NewHittablePDF creates a density toward source from origin
func NewHittablePDF(source Source, origin core.Vec3) *HittablePDF {
	return &HittablePDF{source: source, origin: origin}
}

// Value is the source's solid-angle density for direction from origin
func (p *HittablePDF) Value(direction core.Vec3) float64 {
	return p.source.PDFValue(p.origin, direction)
}

// Generate draws a direction toward the source
func (p *HittablePDF) Generate(sampler core.Sampler) core.Vec3 {
	return p.source.Random(p.origin, sampler)
}

// MixturePDF blends two densities with equal weight
type MixturePDF struct {
	p [2]PDF
}

// NewMixturePDF creates a 50/50 mixture of p0 and p1
func NewMixturePDF(p0, p1 PDF) *MixturePDF {
	return &MixturePDF{p: [2]PDF{p0, p1}}
}

// Value returns 0.5*p0 + 0.5*p1
func (m *MixturePDF) Value(direction core.Vec3) float64 {
	return 0.5*m.p[0].Value(direction) + 0.5*m.p[1].Value(direction)
}

// Generate picks one of the two densities with probability 0.5 and draws from it
func (m *MixturePDF) Generate(sampler core.Sampler) core.Vec3 {
	if sampler.Get1D() < 0.5 {
		return m.p[0].Generate(sampler)
	}
	return m.p[1].Generate(sampler)
}
