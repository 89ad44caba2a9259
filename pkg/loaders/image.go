package loaders

import (
	"fmt"
	"image"
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"os"

	"github.com/nfnt/resize"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

// ImageData contains loaded image data as Vec3 color array
type ImageData struct {
	Width  int
	Height int
	Pixels []core.Vec3
}

// LoadOptions controls how a decoded image is converted
type LoadOptions struct {
	MaxDimension int  // Downscale so neither side exceeds this (0 = keep size)
	Linear       bool // Square each channel to undo display gamma 2
}

// LoadImage loads a PNG or JPEG image and converts it to Vec3 color array
func LoadImage(filename string, opts LoadOptions) (*ImageData, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	defer file.Close()

	data, err := DecodeImage(file, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return data, nil
}

// DecodeImage decodes an image stream (format detected from its header)
func DecodeImage(r io.Reader, opts LoadOptions) (*ImageData, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return FromImage(img, opts), nil
}

// FromImage converts an in-memory image to Vec3 colors
func FromImage(img image.Image, opts LoadOptions) *ImageData {
	if opts.MaxDimension > 0 {
		bounds := img.Bounds()
		if bounds.Dx() > opts.MaxDimension || bounds.Dy() > opts.MaxDimension {
			maxDim := uint(opts.MaxDimension)
			img = resize.Thumbnail(maxDim, maxDim, img, resize.Bilinear)
		}
	}

	bounds := img.Bounds()
	width := bounds.Dx()
	height := bounds.Dy()
	pixels := make([]core.Vec3, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535], convert to [0, 1]
			c := core.NewVec3(
				float64(r)/65535.0,
				float64(g)/65535.0,
				float64(b)/65535.0,
			)
			if opts.Linear {
				c = c.Linearize()
			}
			pixels[y*width+x] = c
		}
	}

	return &ImageData{
		Width:  width,
		Height: height,
		Pixels: pixels,
	}
}

// Texture wraps the pixels as a nearest-neighbour image texture
func (d *ImageData) Texture() *material.ImageTexture {
	return material.NewImageTexture(d.Width, d.Height, d.Pixels)
}

// LoadTexture loads an image file as a linear-space texture
func LoadTexture(filename string, maxDimension int) (*material.ImageTexture, error) {
	data, err := LoadImage(filename, LoadOptions{MaxDimension: maxDimension, Linear: true})
	if err != nil {
		return nil, err
	}
	return data.Texture(), nil
}
