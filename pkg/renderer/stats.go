package renderer

import (
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels       int           // Total number of pixels rendered
	TotalSamples      int           // Total number of samples taken
	AverageSamples    float64       // Average samples per pixel
	AverageVariance   float64       // Mean variance of the pixel estimates (luminance)
	TilesCompleted    int           // Tiles fully rendered
	TotalTiles        int           // Tiles in the image
	DegenerateSamples int64         // Samples dropped by the integrator for a zero or infinite pdf
	NonFiniteSamples  int           // Samples replaced with black because they were NaN or infinite
	Duration          time.Duration // Wall-clock render time
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Vec3) {
	ps.ColorAccum = ps.ColorAccum.Add(color)
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Vec3 {
	if ps.SampleCount == 0 {
		return core.Vec3{X: 0, Y: 0, Z: 0}
	}
	return ps.ColorAccum.Multiply(1.0 / float64(ps.SampleCount))
}

// Variance returns the sample variance of the pixel's luminance
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	return max(0, ps.LuminanceSqAccum/n-mean*mean)
}

// EstimateVariance returns the variance of the pixel's mean luminance, which
// shrinks as 1/SampleCount
func (ps *PixelStats) EstimateVariance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	return ps.Variance() / float64(ps.SampleCount)
}
