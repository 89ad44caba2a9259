package output

import (
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/nfnt/resize"
)

// Thumbnail scales img down so neither side exceeds maxDim, keeping the
// aspect ratio. Images already small enough are returned unchanged.
func Thumbnail(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	if maxDim <= 0 || (bounds.Dx() <= maxDim && bounds.Dy() <= maxDim) {
		return img
	}
	return resize.Thumbnail(uint(maxDim), uint(maxDim), img, resize.Bilinear)
}

// RenderPath returns dir/<scene>/render_<timestamp>.png
func RenderPath(dir, sceneName string, t time.Time) string {
	filename := fmt.Sprintf("render_%s.png", t.Format("20060102_150405"))
	return filepath.Join(dir, sceneName, filename)
}

// ThumbnailPath returns the sibling path used for a render's thumbnail
func ThumbnailPath(renderPath string) string {
	ext := filepath.Ext(renderPath)
	return strings.TrimSuffix(renderPath, ext) + "_thumb" + ext
}
