package renderer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/integrator"
	"github.com/df07/go-pathtracer/pkg/pdf"
)

// DefaultTileSize is the edge length of a render tile in pixels
const DefaultTileSize = 32

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int // Number of rays per pixel
	MaxDepth        int // Maximum ray bounce depth
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		MaxDepth:        50,
	}
}

var (
	// ErrNoWorld is returned by Render when the scene has nothing to intersect
	ErrNoWorld = errors.New("scene has no world")
	// ErrNoCamera is returned by Render when the scene has no camera
	ErrNoCamera = errors.New("scene has no camera")
)

// Validator is implemented by scenes that can report whether they are ready to render
type Validator interface {
	Validate() error
}

// Scene is everything the renderer reads from a frozen scene
type Scene interface {
	integrator.Scene
	GetCamera() *geometry.Camera
}

// ProgressFunc is called after each pixel with the number of finished pixels
type ProgressFunc func(done, total int)

// RenderOptions controls a single render call
type RenderOptions struct {
	Seed     int64        // Base seed; tile N uses Seed+N
	TileSize int          // Tile edge in pixels (0 = DefaultTileSize)
	Progress ProgressFunc // Optional per-pixel progress callback
}

// Raytracer renders a scene tile by tile with the path tracing integrator
type Raytracer struct {
	scene      Scene
	config     SamplingConfig
	integrator *integrator.PathTracingIntegrator
	logger     core.Logger
}

// NewRaytracer creates a new raytracer; a nil logger discards output
func NewRaytracer(scene Scene, config SamplingConfig, logger core.Logger) *Raytracer {
	if logger == nil {
		logger = NopLogger()
	}
	if config.SamplesPerPixel <= 0 {
		config.SamplesPerPixel = DefaultSamplingConfig().SamplesPerPixel
	}
	return &Raytracer{
		scene:      scene,
		config:     config,
		integrator: integrator.NewPathTracingIntegrator(),
		logger:     logger,
	}
}

// Config returns the sampling configuration in effect
func (rt *Raytracer) Config() SamplingConfig {
	return rt.config
}

// Render estimates every pixel of the camera's image. Cancellation is checked
// between tiles; on cancellation the partially filled frame is returned along
// with ctx.Err().
func (rt *Raytracer) Render(ctx context.Context, opts RenderOptions) (*Frame, RenderStats, error) {
	if err := checkScene(rt.scene); err != nil {
		return nil, RenderStats{}, err
	}

	start := time.Now()
	camera := rt.scene.GetCamera()
	width, height := camera.Width(), camera.Height()
	frame := NewFrame(width, height)

	tiles := NewTileGrid(width, height, opts.TileSize, opts.Seed)
	tileRenderer := NewTileRenderer(rt.scene, rt.integrator, rt.config)
	stats := RenderStats{TotalTiles: len(tiles)}
	startDegenerate := rt.integrator.DegenerateSamples()

	total := width * height
	done := 0
	nextReport := 10
	onPixel := func() {
		done++
		if opts.Progress != nil {
			opts.Progress(done, total)
		}
		if done*100 >= nextReport*total {
			rt.logger.Printf("render progress: %d%% (%d/%d pixels)", nextReport, done, total)
			nextReport += 10
		}
	}

	rt.logger.Printf("rendering %dx%d, %d spp, max depth %d, %d tiles",
		width, height, rt.config.SamplesPerPixel, rt.config.MaxDepth, len(tiles))

	var err error
	varianceSum := 0.0
	for _, tile := range tiles {
		if err = ctx.Err(); err != nil {
			rt.logger.Printf("render cancelled after %d/%d tiles: %v", stats.TilesCompleted, len(tiles), err)
			break
		}
		tileStats := tileRenderer.RenderTile(tile, frame, onPixel)
		stats.TotalPixels += tileStats.TotalPixels
		stats.TotalSamples += tileStats.TotalSamples
		stats.NonFiniteSamples += tileStats.NonFiniteSamples
		varianceSum += tileStats.AverageVariance * float64(tileStats.TotalPixels)
		stats.TilesCompleted++
	}

	if stats.TotalPixels > 0 {
		stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)
		stats.AverageVariance = varianceSum / float64(stats.TotalPixels)
	}
	stats.DegenerateSamples = rt.integrator.DegenerateSamples() - startDegenerate
	stats.Duration = time.Since(start)

	if stats.DegenerateSamples > 0 || stats.NonFiniteSamples > 0 {
		rt.logger.Printf("warning: dropped %d degenerate and %d non-finite samples",
			stats.DegenerateSamples, stats.NonFiniteSamples)
	}
	if err == nil {
		rt.logger.Printf("render complete in %v (%d samples, mean pixel variance %.3g)",
			stats.Duration.Round(time.Millisecond), stats.TotalSamples, stats.AverageVariance)
	}

	return frame, stats, err
}

// checkScene fails before any sampling when the scene cannot be rendered
func checkScene(scene Scene) error {
	if v, ok := scene.(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("scene not ready: %w", err)
		}
	}
	if scene.GetCamera() == nil {
		return ErrNoCamera
	}
	if scene.GetWorld() == nil {
		return ErrNoWorld
	}
	return nil
}

// sceneView adapts loose render inputs to Scene
type sceneView struct {
	world      geometry.Hittable
	lights     pdf.Source
	camera     *geometry.Camera
	background core.Vec3
}

func (s sceneView) GetWorld() geometry.Hittable { return s.world }
func (s sceneView) GetLights() pdf.Source       { return s.lights }
func (s sceneView) GetBackground() core.Vec3    { return s.background }
func (s sceneView) GetCamera() *geometry.Camera { return s.camera }

// Render renders world as seen by camera without a Scene value. lights may be
// nil, in which case diffuse surfaces sample only their own scattering pdf.
func Render(ctx context.Context, world geometry.Hittable, lights pdf.Source, camera *geometry.Camera,
	background core.Vec3, config SamplingConfig, opts RenderOptions, logger core.Logger) (*Frame, RenderStats, error) {
	view := sceneView{world: world, lights: lights, camera: camera, background: background}
	return NewRaytracer(view, config, logger).Render(ctx, opts)
}
