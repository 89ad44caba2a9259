package core

import "math"

// boxPadding is the minimum extent of any AABB axis, so flat shapes such as
// axis-aligned quads still produce a box the slab test can hit
const boxPadding = 1e-4

// AABB represents an axis-aligned bounding box as one interval per axis
type AABB struct {
	X, Y, Z Interval
}

// EmptyAABB bounds nothing; it is the identity for Union
var EmptyAABB = AABB{X: EmptyInterval, Y: EmptyInterval, Z: EmptyInterval}

// NewAABB creates a box from three axis intervals, padding any axis
// thinner than boxPadding
func NewAABB(x, y, z Interval) AABB {
	return AABB{X: padToMinimum(x), Y: padToMinimum(y), Z: padToMinimum(z)}
}

// NewAABBFromPoints creates an AABB that bounds all given points
func NewAABBFromPoints(points ...Vec3) AABB {
	if len(points) == 0 {
		return EmptyAABB
	}

	minP := points[0]
	maxP := points[0]

	for _, point := range points[1:] {
		minP.X = math.Min(minP.X, point.X)
		minP.Y = math.Min(minP.Y, point.Y)
		minP.Z = math.Min(minP.Z, point.Z)

		maxP.X = math.Max(maxP.X, point.X)
		maxP.Y = math.Max(maxP.Y, point.Y)
		maxP.Z = math.Max(maxP.Z, point.Z)
	}

	return NewAABB(
		Interval{Min: minP.X, Max: maxP.X},
		Interval{Min: minP.Y, Max: maxP.Y},
		Interval{Min: minP.Z, Max: maxP.Z},
	)
}

func padToMinimum(i Interval) Interval {
	if i.IsEmpty() || i.Size() >= boxPadding {
		return i
	}
	return i.Expand(boxPadding)
}

// Axis returns the interval for axis 0=X, 1=Y, 2=Z
func (aabb AABB) Axis(axis int) Interval {
	switch axis {
	case 0:
		return aabb.X
	case 1:
		return aabb.Y
	default:
		return aabb.Z
	}
}

// Min returns the minimum corner
func (aabb AABB) Min() Vec3 {
	return NewVec3(aabb.X.Min, aabb.Y.Min, aabb.Z.Min)
}

// Max returns the maximum corner
func (aabb AABB) Max() Vec3 {
	return NewVec3(aabb.X.Max, aabb.Y.Max, aabb.Z.Max)
}

// Hit tests if a ray intersects with this AABB using the slab method
func (aabb AABB) Hit(ray Ray, tMin, tMax float64) bool {
	for axis := 0; axis < 3; axis++ {
		slab := aabb.Axis(axis)
		origin := ray.Origin.Axis(axis)
		direction := ray.Direction.Axis(axis)

		// Handle parallel rays (direction near zero)
		if math.Abs(direction) < 1e-8 {
			if origin < slab.Min || origin > slab.Max {
				return false
			}
			continue
		}

		invDirection := 1.0 / direction
		t0 := (slab.Min - origin) * invDirection
		t1 := (slab.Max - origin) * invDirection
		if t0 > t1 {
			t0, t1 = t1, t0
		}

		tMin = math.Max(tMin, t0)
		tMax = math.Min(tMax, t1)
		if tMax <= tMin {
			return false
		}
	}

	return true
}

// Union returns an AABB that bounds both this AABB and another
func (aabb AABB) Union(other AABB) AABB {
	return AABB{
		X: IntervalUnion(aabb.X, other.X),
		Y: IntervalUnion(aabb.Y, other.Y),
		Z: IntervalUnion(aabb.Z, other.Z),
	}
}

// Center returns the center point of the AABB
func (aabb AABB) Center() Vec3 {
	return aabb.Min().Add(aabb.Max()).Multiply(0.5)
}

// Size returns the size (extent) of the AABB along each axis
func (aabb AABB) Size() Vec3 {
	return NewVec3(aabb.X.Size(), aabb.Y.Size(), aabb.Z.Size())
}

// LongestAxis returns the axis (0=X, 1=Y, 2=Z) with the longest extent
func (aabb AABB) LongestAxis() int {
	size := aabb.Size()
	if size.X > size.Y && size.X > size.Z {
		return 0
	}
	if size.Y > size.Z {
		return 1
	}
	return 2
}

// Translate returns the box shifted by offset
func (aabb AABB) Translate(offset Vec3) AABB {
	return AABB{
		X: aabb.X.Translate(offset.X),
		Y: aabb.Y.Translate(offset.Y),
		Z: aabb.Z.Translate(offset.Z),
	}
}

// Corners returns the 8 corner points of the box
func (aabb AABB) Corners() [8]Vec3 {
	var corners [8]Vec3
	for i := 0; i < 8; i++ {
		x := aabb.X.Min
		if i&1 != 0 {
			x = aabb.X.Max
		}
		y := aabb.Y.Min
		if i&2 != 0 {
			y = aabb.Y.Max
		}
		z := aabb.Z.Min
		if i&4 != 0 {
			z = aabb.Z.Max
		}
		corners[i] = NewVec3(x, y, z)
	}
	return corners
}

// Rotate returns the axis-aligned box enclosing this box after rotation
func (aabb AABB) Rotate(r Rotation) AABB {
	corners := aabb.Corners()
	rotated := make([]Vec3, len(corners))
	for i, c := range corners {
		rotated[i] = r.Apply(c)
	}
	return NewAABBFromPoints(rotated...)
}

// IsValid returns true if this is a valid AABB (min <= max for all axes)
func (aabb AABB) IsValid() bool {
	return !aabb.X.IsEmpty() && !aabb.Y.IsEmpty() && !aabb.Z.IsEmpty()
}

// IsFinite reports whether the box is valid and every bound is finite
func (aabb AABB) IsFinite() bool {
	return aabb.IsValid() && aabb.Min().IsFinite() && aabb.Max().IsFinite()
}
