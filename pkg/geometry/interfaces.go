package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Hittable is anything a ray can intersect.
// The sampler is only consumed by stochastic objects such as participating
// media; deterministic shapes ignore it and callers may pass nil when no
// such object can be reached.
type Hittable interface {
	Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool)
	BoundingBox() core.AABB
}

// Unwrapper is implemented by transforms that wrap a single inner object
type Unwrapper interface {
	Unwrap() Hittable
}

// IsSampleable reports whether h can be importance sampled as a light,
// looking through transforms and into lists
func IsSampleable(h Hittable) bool {
	switch v := h.(type) {
	case *HittableList:
		if v.Len() == 0 {
			return false
		}
		for _, object := range v.Objects() {
			if !IsSampleable(object) {
				return false
			}
		}
		return true
	case Unwrapper:
		return IsSampleable(v.Unwrap())
	}
	_, ok := h.(pdf.Source)
	return ok
}
