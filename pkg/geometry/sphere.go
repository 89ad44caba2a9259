package geometry

import (
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// Sphere represents a sphere shape, optionally moving linearly over ray time
type Sphere struct {
	Center   core.Vec3 // Center at time 0
	Motion   core.Vec3 // Center displacement from time 0 to time 1
	Radius   float64
	Material material.Material
	bbox     core.AABB
}

// NewSphere creates a new stationary sphere
func NewSphere(center core.Vec3, radius float64, material material.Material) *Sphere {
	s := &Sphere{
		Center:   center,
		Radius:   math.Max(0, radius),
		Material: material,
	}
	s.bbox = s.boxAt(center)
	return s
}

// NewMovingSphere creates a sphere moving from center0 at time 0 to center1 at time 1.
// Its bounding box covers the whole sweep.
func NewMovingSphere(center0, center1 core.Vec3, radius float64, material material.Material) *Sphere {
	s := NewSphere(center0, radius, material)
	s.Motion = center1.Subtract(center0)
	s.bbox = s.boxAt(center0).Union(s.boxAt(center1))
	return s
}

func (s *Sphere) boxAt(center core.Vec3) core.AABB {
	r := core.NewVec3(s.Radius, s.Radius, s.Radius)
	return core.NewAABBFromPoints(center.Subtract(r), center.Add(r))
}

// CenterAt returns the center at the given ray time
func (s *Sphere) CenterAt(time float64) core.Vec3 {
	return s.Center.Add(s.Motion.Multiply(time))
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64, sampler core.Sampler) (*material.HitRecord, bool) {
	center := s.CenterAt(ray.Time)
	oc := center.Subtract(ray.Origin)

	// Quadratic equation coefficients: at² - 2ht + c = 0
	a := ray.Direction.LengthSquared()
	h := ray.Direction.Dot(oc)
	c := oc.LengthSquared() - s.Radius*s.Radius

	discriminant := h*h - a*c
	if discriminant < 0 || a == 0 || s.Radius == 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Try the closer intersection point first
	root := (h - sqrtD) / a
	if root < tMin || root > tMax {
		root = (h + sqrtD) / a
		if root < tMin || root > tMax {
			return nil, false
		}
	}

	hitRecord := &material.HitRecord{
		Ray:      ray,
		T:        root,
		Point:    ray.At(root),
		Material: s.Material,
	}

	outwardNormal := hitRecord.Point.Subtract(center).Multiply(1.0 / s.Radius)
	hitRecord.SetFaceNormal(ray, outwardNormal)
	hitRecord.UV = sphereUV(outwardNormal)

	return hitRecord, true
}

// sphereUV maps a point on the unit sphere to (u,v) in [0,1]²:
// u is the angle around Y from -X, v the angle from -Y
func sphereUV(p core.Vec3) core.Vec2 {
	theta := math.Acos(core.NewInterval(-1, 1).Clamp(-p.Y))
	phi := math.Atan2(-p.Z, p.X) + math.Pi
	return core.NewVec2(phi/(2*math.Pi), theta/math.Pi)
}

// BoundingBox returns the axis-aligned bounding box for this sphere
func (s *Sphere) BoundingBox() core.AABB {
	return s.bbox
}

// PDFValue returns the solid-angle density of sampling direction toward the sphere from origin
func (s *Sphere) PDFValue(origin, direction core.Vec3) float64 {
	if _, ok := s.Hit(core.NewRay(origin, direction), 0.001, math.Inf(1), nil); !ok {
		return 0
	}

	distSquared := s.Center.Subtract(origin).LengthSquared()
	radiusSquared := s.Radius * s.Radius
	if distSquared <= radiusSquared {
		// Inside the sphere every direction hits it
		return 1.0 / (4.0 * math.Pi)
	}

	cosThetaMax := math.Sqrt(1 - radiusSquared/distSquared)
	solidAngle := 2 * math.Pi * (1 - cosThetaMax)
	return 1.0 / solidAngle
}

// Random samples a direction uniformly within the cone the sphere subtends from origin
func (s *Sphere) Random(origin core.Vec3, sampler core.Sampler) core.Vec3 {
	direction := s.Center.Subtract(origin)
	distSquared := direction.LengthSquared()
	radiusSquared := s.Radius * s.Radius
	if distSquared <= radiusSquared {
		return core.SampleOnUnitSphere(sampler.Get2D())
	}

	cosThetaMax := math.Sqrt(1 - radiusSquared/distSquared)
	return core.NewONB(direction).Transform(core.SampleCone(cosThetaMax, sampler.Get2D()))
}
