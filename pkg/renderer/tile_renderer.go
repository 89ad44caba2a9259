package renderer

import (
	"image"
	"math"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
)

// Tile is a rectangular block of pixels rendered with its own random stream
type Tile struct {
	ID      int             // Unique tile identifier
	Bounds  image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	Sampler core.Sampler    // Tile-specific sampler for deterministic results
}

// NewTile creates a new tile whose sampler is derived from the render seed and tile ID
func NewTile(id int, bounds image.Rectangle, seed int64) *Tile {
	return &Tile{
		ID:      id,
		Bounds:  bounds,
		Sampler: core.NewSeededSampler(seed + int64(id)),
	}
}

// NewTileGrid creates a grid of tiles covering the entire image in row-major order
func NewTileGrid(width, height, tileSize int, seed int64) []*Tile {
	if tileSize <= 0 {
		tileSize = DefaultTileSize
	}

	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width)
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1), seed))
			tileID++
		}
	}

	return tiles
}

// TileRenderer renders the pixels of one tile using an integrator
type TileRenderer struct {
	scene      Scene
	integrator integrator.Integrator
	config     SamplingConfig
}

// NewTileRenderer creates a new tile renderer with the given scene and integrator
func NewTileRenderer(scene Scene, integratorInst integrator.Integrator, config SamplingConfig) *TileRenderer {
	return &TileRenderer{
		scene:      scene,
		integrator: integratorInst,
		config:     config,
	}
}

// RenderTile estimates every pixel of the tile into frame and returns the tile's statistics.
// onPixel, if set, is called after each finished pixel.
func (tr *TileRenderer) RenderTile(tile *Tile, frame *Frame, onPixel func()) RenderStats {
	camera := tr.scene.GetCamera()
	stats := RenderStats{TotalPixels: tile.Bounds.Dx() * tile.Bounds.Dy()}
	variance := 0.0

	for j := tile.Bounds.Min.Y; j < tile.Bounds.Max.Y; j++ {
		for i := tile.Bounds.Min.X; i < tile.Bounds.Max.X; i++ {
			var ps PixelStats
			stats.NonFiniteSamples += tr.samplePixel(camera, i, j, tile.Sampler, &ps)
			stats.TotalSamples += ps.SampleCount
			variance += ps.EstimateVariance()
			frame.SetColor(i, j, ps.GetColor())
			if onPixel != nil {
				onPixel()
			}
		}
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
		stats.AverageVariance = variance / float64(stats.TotalPixels)
	}
	return stats
}

// samplePixel takes floor(sqrt(spp))² stratified samples followed by the
// remainder at uniformly random positions. It returns how many samples were
// non-finite and replaced with black.
func (tr *TileRenderer) samplePixel(camera *geometry.Camera, i, j int, sampler core.Sampler, ps *PixelStats) int {
	spp := max(1, tr.config.SamplesPerPixel)
	n := int(math.Sqrt(float64(spp)))
	nonFinite := 0

	sample := func(offset core.Vec2) {
		ray := camera.GetRay(i, j, offset, sampler)
		color := tr.integrator.RayColor(ray, tr.scene, sampler, tr.config.MaxDepth)
		if !color.IsFinite() {
			color = core.Vec3{}
			nonFinite++
		}
		ps.AddSample(color)
	}

	for sj := 0; sj < n; sj++ {
		for si := 0; si < n; si++ {
			sample(core.StratifiedOffset(si, sj, n, sampler.Get2D()))
		}
	}
	for k := n * n; k < spp; k++ {
		r := sampler.Get2D()
		sample(core.NewVec2(r.X-0.5, r.Y-0.5))
	}

	return nonFinite
}
