package core

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Rotation is a rigid rotation with its precomputed inverse
type Rotation struct {
	forward mgl64.Mat3
	inverse mgl64.Mat3
}

// NewRotationY creates a rotation of degrees about the Y axis
func NewRotationY(degrees float64) Rotation {
	return newRotation(mgl64.Rotate3DY(mgl64.DegToRad(degrees)))
}

// NewRotationX creates a rotation of degrees about the X axis
func NewRotationX(degrees float64) Rotation {
	return newRotation(mgl64.Rotate3DX(mgl64.DegToRad(degrees)))
}

// NewRotationZ creates a rotation of degrees about the Z axis
func NewRotationZ(degrees float64) Rotation {
	return newRotation(mgl64.Rotate3DZ(mgl64.DegToRad(degrees)))
}

func newRotation(m mgl64.Mat3) Rotation {
	// orthonormal, so the transpose is the inverse
	return Rotation{forward: m, inverse: m.Transpose()}
}

// Apply rotates v from object space into world space
func (r Rotation) Apply(v Vec3) Vec3 {
	return fromMgl(r.forward.Mul3x1(toMgl(v)))
}

// ApplyInverse rotates v from world space into object space
func (r Rotation) ApplyInverse(v Vec3) Vec3 {
	return fromMgl(r.inverse.Mul3x1(toMgl(v)))
}

func toMgl(v Vec3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromMgl(v mgl64.Vec3) Vec3 {
	return NewVec3(v[0], v[1], v[2])
}
