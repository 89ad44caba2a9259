package output

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// jpegQuality is used for .jpg/.jpeg output
const jpegQuality = 95

// Canvas is an 8-bit RGBA image that receives display colors from a frame
type Canvas struct {
	img *image.RGBA
}

// NewCanvas creates a black canvas of the given size
func NewCanvas(width, height int) *Canvas {
	return &Canvas{img: image.NewRGBA(image.Rect(0, 0, width, height))}
}

// SetPixel stores a display color in [0, 1], quantized to 8 bits
func (c *Canvas) SetPixel(x, y int, color core.Vec3) {
	c.img.SetRGBA(x, y, renderer.Quantize(color))
}

// Image returns the underlying image
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Save writes the canvas to path, creating parent directories.
// The format is chosen from the extension: .png, .jpg or .jpeg.
func (c *Canvas) Save(path string) error {
	format, err := formatFor(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer file.Close()

	if err := encode(file, c.img, format); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return file.Close()
}

// EncodePNG returns img encoded as PNG bytes
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}
	return buf.Bytes(), nil
}

// ContentType returns the MIME type for an output path
func ContentType(path string) string {
	format, err := formatFor(path)
	if err != nil {
		return "application/octet-stream"
	}
	return "image/" + format
}

func formatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png", nil
	case ".jpg", ".jpeg":
		return "jpeg", nil
	default:
		return "", fmt.Errorf("unsupported image format %q", filepath.Ext(path))
	}
}

func encode(w io.Writer, img image.Image, format string) error {
	if format == "jpeg" {
		return jpeg.Encode(w, img, &jpeg.Options{Quality: jpegQuality})
	}
	return png.Encode(w, img)
}
