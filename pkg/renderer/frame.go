package renderer

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-pathtracer/pkg/core"
)

// ImageWriter receives display-ready pixels and persists them
type ImageWriter interface {
	// SetPixel stores a color with components in [0, 1]
	SetPixel(x, y int, color core.Vec3)
	Save(path string) error
}

// Frame holds the linear radiance estimate for every pixel
type Frame struct {
	Width, Height int
	pixels        []core.Vec3
}

// NewFrame creates a black frame
func NewFrame(width, height int) *Frame {
	return &Frame{Width: width, Height: height, pixels: make([]core.Vec3, width*height)}
}

// Color returns the linear color at pixel (x, y), with y = 0 at the top
func (f *Frame) Color(x, y int) core.Vec3 {
	return f.pixels[y*f.Width+x]
}

// SetColor stores the linear color at pixel (x, y)
func (f *Frame) SetColor(x, y int, c core.Vec3) {
	f.pixels[y*f.Width+x] = c
}

// DisplayColor returns the pixel clamped to [0, 1] and gamma encoded
func (f *Frame) DisplayColor(x, y int, gamma float64) core.Vec3 {
	return toDisplay(f.Color(x, y), gamma)
}

// Image converts the frame into an 8-bit RGBA image
func (f *Frame) Image(gamma float64) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, Quantize(f.DisplayColor(x, y, gamma)))
		}
	}
	return img
}

// Export sends every display color to w
func (f *Frame) Export(w ImageWriter, gamma float64) {
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			w.SetPixel(x, y, f.DisplayColor(x, y, gamma))
		}
	}
}

// Save exports the frame to w and writes it to path
func (f *Frame) Save(w ImageWriter, path string, gamma float64) error {
	f.Export(w, gamma)
	if err := w.Save(path); err != nil {
		return fmt.Errorf("saving frame to %s: %w", path, err)
	}
	return nil
}

// AverageLuminance returns the mean linear luminance over the frame
func (f *Frame) AverageLuminance() float64 {
	if len(f.pixels) == 0 {
		return 0
	}
	total := 0.0
	for _, p := range f.pixels {
		total += p.Luminance()
	}
	return total / float64(len(f.pixels))
}

// toDisplay clamps before gamma so negative or NaN components never reach math.Pow
func toDisplay(c core.Vec3, gamma float64) core.Vec3 {
	if !c.IsFinite() {
		c = core.Vec3{}
	}
	return c.Clamp(core.UnitInterval).GammaCorrect(gamma)
}

var intensity = core.Interval{Min: 0, Max: 0.999}

// Quantize maps a display color in [0, 1] to 8 bits per channel
func Quantize(c core.Vec3) color.RGBA {
	return color.RGBA{
		R: uint8(256 * intensity.Clamp(c.X)),
		G: uint8(256 * intensity.Clamp(c.Y)),
		B: uint8(256 * intensity.Clamp(c.Z)),
		A: 255,
	}
}
