package integrator

import (
	"math"
	"sync/atomic"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// shadowAcneEpsilon is the minimum hit distance, keeping a scattered ray
// from re-hitting the surface it left
const shadowAcneEpsilon = 0.001

// PathTracingIntegrator implements unidirectional path tracing, mixing
// material sampling with light sampling
type PathTracingIntegrator struct {
	degenerate atomic.Int64
}

// NewPathTracingIntegrator creates a new path tracing integrator
func NewPathTracingIntegrator() *PathTracingIntegrator {
	return &PathTracingIntegrator{}
}

// DegenerateSamples returns how many bounces were dropped because the
// sampling density was zero or the estimate was not finite
func (pt *PathTracingIntegrator) DegenerateSamples() int64 {
	return pt.degenerate.Load()
}

// RayColor computes the color for a single ray using unidirectional path tracing
func (pt *PathTracingIntegrator) RayColor(ray core.Ray, scene Scene, sampler core.Sampler, depth int) core.Vec3 {
	// If we've exceeded the ray bounce limit, no more light is gathered
	if depth <= 0 {
		return core.Vec3{}
	}

	hit, isHit := scene.GetWorld().Hit(ray, shadowAcneEpsilon, math.Inf(1), sampler)
	if !isHit {
		return scene.GetBackground()
	}

	colorEmitted := pt.getEmittedLight(hit)

	scatter, didScatter := hit.Material.Scatter(hit, sampler)
	if !didScatter {
		// Material absorbed the ray, only return emitted light
		return colorEmitted
	}

	if scatter.IsSpecular() {
		return colorEmitted.Add(pt.calculateSpecularColor(scatter, scene, sampler, depth))
	}
	return colorEmitted.Add(pt.calculateDiffuseColor(scatter, hit, scene, sampler, depth))
}

// calculateSpecularColor follows the material's concrete scattered ray
func (pt *PathTracingIntegrator) calculateSpecularColor(scatter material.ScatterRecord, scene Scene, sampler core.Sampler, depth int) core.Vec3 {
	return scatter.Attenuation.MultiplyVec(pt.RayColor(scatter.Scattered, scene, sampler, depth-1))
}

// calculateDiffuseColor draws a direction from an equal mixture of the
// material's density and the lights' density, then reweights by
// scatteringPDF/pdfValue
func (pt *PathTracingIntegrator) calculateDiffuseColor(scatter material.ScatterRecord, hit *material.HitRecord, scene Scene, sampler core.Sampler, depth int) core.Vec3 {
	var samplingPDF pdf.PDF = scatter.PDF
	if lights := scene.GetLights(); lights != nil {
		samplingPDF = pdf.NewMixturePDF(scatter.PDF, pdf.NewHittablePDF(lights, hit.Point))
	}

	direction := samplingPDF.Generate(sampler)
	scattered := core.NewRayAtTime(hit.Point, direction, hit.Ray.Time)

	pdfValue := samplingPDF.Value(direction)
	if !(pdfValue > 0) || math.IsInf(pdfValue, 0) {
		pt.degenerate.Add(1)
		return core.Vec3{}
	}

	scatteringPDF := hit.Material.ScatteringPDF(hit, scattered)
	if scatteringPDF <= 0 {
		// e.g. a light sample below the surface
		return core.Vec3{}
	}

	incoming := pt.RayColor(scattered, scene, sampler, depth-1)
	color := scatter.Attenuation.MultiplyVec(incoming).Multiply(scatteringPDF / pdfValue)
	if !color.IsFinite() {
		pt.degenerate.Add(1)
		return core.Vec3{}
	}
	return color
}

// getEmittedLight returns the emitted light from a material if it's emissive
func (pt *PathTracingIntegrator) getEmittedLight(hit *material.HitRecord) core.Vec3 {
	if emitter, isEmissive := hit.Material.(material.Emitter); isEmissive {
		return emitter.Emitted(hit, hit.UV, hit.Point)
	}
	return core.Vec3{}
}
