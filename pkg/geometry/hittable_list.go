package geometry

import (
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// HittableList is an ordered collection with a running union bounding box
type HittableList struct {
	objects []Hittable
	bbox    core.AABB
}

// NewHittableList creates a list holding objects
func NewHittableList(objects ...Hittable) *HittableList {
	l := &HittableList{bbox: core.EmptyAABB}
	for _, object := range objects {
		l.Add(object)
	}
	return l
}

// Add appends object and grows the bounding box
func (l *HittableList) Add(object Hittable) {
	l.objects = append(l.objects, object)
	l.bbox = l.bbox.Union(object.BoundingBox())
}

// Len returns the number of objects
func (l *HittableList) Len() int {
	return len(l.objects)
}

// Objects returns the backing slice; callers must not modify it
func (l *HittableList) Objects() []Hittable {
	return l.objects
}

// Hit returns the closest hit over all objects
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	var closestHit *material.HitRecord
	closestSoFar := tMax

	for _, object := range l.objects {
		if hit, ok := object.Hit(ray, tMin, closestSoFar, sampler); ok {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}

// BoundingBox returns the union of the children's boxes
func (l *HittableList) BoundingBox() core.AABB {
	return l.bbox
}

// PDFValue is the mean of the children's densities, matching Random's
// uniform choice of child
func (l *HittableList) PDFValue(origin, direction core.Vec3) float64 {
	if len(l.objects) == 0 {
		return 0
	}

	weight := 1.0 / float64(len(l.objects))
	sum := 0.0
	for _, object := range l.objects {
		if source, ok := object.(pdf.Source); ok {
			sum += weight * source.PDFValue(origin, direction)
		}
	}
	return sum
}

// Random picks a child uniformly and samples a direction toward it
func (l *HittableList) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	if len(l.objects) == 0 {
		return core.NewVec3(1, 0, 0)
	}

	index := int(sampler.Get1D() * float64(len(l.objects)))
	if index >= len(l.objects) {
		index = len(l.objects) - 1
	}

	object := l.objects[index]
	if source, ok := object.(pdf.Source); ok {
		return source.Random(origin, sampler)
	}
	return object.BoundingBox().Center().Subtract(origin)
}
