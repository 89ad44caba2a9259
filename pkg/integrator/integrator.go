package integrator

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Scene is the read-only view of a frozen scene the integrator needs
type Scene interface {
	// GetWorld returns the acceleration structure over every object
	GetWorld() geometry.Hittable
	// GetLights returns the shapes to importance sample, or nil for none
	GetLights() pdf.Source
	// GetBackground returns the radiance of rays that escape the scene
	GetBackground() core.Vec3
}

// Integrator defines the interface for light transport algorithms
type Integrator interface {
	// RayColor estimates the radiance arriving along ray with a budget of depth bounces
	RayColor(ray core.Ray, scene Scene, sampler core.Sampler, depth int) core.Vec3
}
