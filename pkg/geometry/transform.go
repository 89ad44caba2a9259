package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// Translate moves an inner object by a fixed offset
type Translate struct {
	Object Hittable
	Offset core.Vec3
	bbox   core.AABB
}

// NewTranslate wraps object, shifting it by offset
func NewTranslate(object Hittable, offset core.Vec3) *Translate {
	return &Translate{
		Object: object,
		Offset: offset,
		bbox:   object.BoundingBox().Translate(offset),
	}
}

// Hit intersects the ray shifted into object space, then shifts the hit point back
func (t *Translate) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	offsetRay := core.NewRayAtTime(ray.Origin.Subtract(t.Offset), ray.Direction, ray.Time)

	hit, ok := t.Object.Hit(offsetRay, tMin, tMax, sampler)
	if !ok {
		return nil, false
	}

	hit.Point = hit.Point.Add(t.Offset)
	hit.Ray = ray
	return hit, true
}

// BoundingBox is the inner box shifted by the offset
func (t *Translate) BoundingBox() core.AABB {
	return t.bbox
}

// Unwrap returns the wrapped object
func (t *Translate) Unwrap() Hittable {
	return t.Object
}

// PDFValue forwards to the inner object; solid angle is unchanged by translation
func (t *Translate) PDFValue(origin, direction core.Vec3) float64 {
	source, ok := t.Object.(pdf.Source)
	if !ok {
		return 0
	}
	return source.PDFValue(origin.Subtract(t.Offset), direction)
}

// Random forwards to the inner object
func (t *Translate) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	source, ok := t.Object.(pdf.Source)
	if !ok {
		return t.bbox.Center().Subtract(origin)
	}
	return source.Random(origin.Subtract(t.Offset), sampler)
}

// Rotate turns an inner object about the world origin
type Rotate struct {
	Object   Hittable
	rotation core.Rotation
	bbox     core.AABB
}

// NewRotateY wraps object, rotating it by degrees about the Y axis
func NewRotateY(object Hittable, degrees float64) *Rotate {
	return NewRotate(object, core.NewRotationY(degrees))
}

// NewRotate wraps object with an arbitrary rotation
func NewRotate(object Hittable, rotation core.Rotation) *Rotate {
	return &Rotate{
		Object:   object,
		rotation: rotation,
		bbox:     object.BoundingBox().Rotate(rotation),
	}
}

// Hit intersects the ray rotated into object space, then rotates the hit point and normal back
func (r *Rotate) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	rotated := core.NewRayAtTime(
		r.rotation.ApplyInverse(ray.Origin),
		r.rotation.ApplyInverse(ray.Direction),
		ray.Time,
	)

	hit, ok := r.Object.Hit(rotated, tMin, tMax, sampler)
	if !ok {
		return nil, false
	}

	// Rotation preserves dot products, so FrontFace is still correct
	hit.Point = r.rotation.Apply(hit.Point)
	hit.Normal = r.rotation.Apply(hit.Normal)
	hit.Ray = ray
	return hit, true
}

// BoundingBox encloses the eight rotated corners of the inner box
func (r *Rotate) BoundingBox() core.AABB {
	return r.bbox
}

// Unwrap returns the wrapped object
func (r *Rotate) Unwrap() Hittable {
	return r.Object
}

// PDFValue forwards to the inner object in object space
func (r *Rotate) PDFValue(origin, direction core.Vec3) float64 {
	source, ok := r.Object.(pdf.Source)
	if !ok {
		return 0
	}
	return source.PDFValue(r.rotation.ApplyInverse(origin), r.rotation.ApplyInverse(direction))
}

// Random samples in object space and rotates the direction back to world space
func (r *Rotate) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	source, ok := r.Object.(pdf.Source)
	if !ok {
		return r.bbox.Center().Subtract(origin)
	}
	return r.rotation.Apply(source.Random(r.rotation.ApplyInverse(origin), sampler))
}
