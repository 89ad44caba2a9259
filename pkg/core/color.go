package core

import "math"

// Colors are Vec3 triples of linear RGB radiance.

// MultiplyVec returns component-wise multiplication of two vectors
func (v Vec3) MultiplyVec(other Vec3) Vec3 {
	return Vec3{v.X * other.X, v.Y * other.Y, v.Z * other.Z}
}

// Luminance returns the perceptual luminance of an RGB color
// using the Rec. 601 weights 0.299, 0.587, 0.114
func (v Vec3) Luminance() float64 {
	return 0.299*v.X + 0.587*v.Y + 0.114*v.Z
}

// Clamp limits every channel to the interval
func (v Vec3) Clamp(i Interval) Vec3 {
	return Vec3{i.Clamp(v.X), i.Clamp(v.Y), i.Clamp(v.Z)}
}

// GammaCorrect raises each channel to 1/gamma. Channels must be non-negative.
func (v Vec3) GammaCorrect(gamma float64) Vec3 {
	inv := 1.0 / gamma
	return Vec3{math.Pow(v.X, inv), math.Pow(v.Y, inv), math.Pow(v.Z, inv)}
}

// Linearize undoes a gamma 2 encoding, the inverse of GammaCorrect(2)
func (v Vec3) Linearize() Vec3 {
	return Vec3{v.X * v.X, v.Y * v.Y, v.Z * v.Z}
}
