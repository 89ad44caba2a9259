package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/df07/go-pathtracer/pkg/config"
	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/df07/go-pathtracer/pkg/renderer"
	"github.com/df07/go-pathtracer/pkg/scene"
)

// uploader stores encoded images remotely
type uploader interface {
	Upload(ctx context.Context, name string, body []byte, contentType string) (string, error)
}

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) || (err == nil && cfg.Help) {
		printHelp(os.Stdout)
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}

	logger := renderer.NewDefaultLogger()

	var up uploader
	if cfg.S3Enabled() {
		s3, err := output.NewS3Uploader(cfg.S3, logger)
		if err != nil {
			logger.Printf("Error: %v", err)
			os.Exit(1)
		}
		up = s3
	}

	if _, err := run(context.Background(), cfg, logger, up); err != nil {
		logger.Printf("Error: %v", err)
		os.Exit(1)
	}
}

func printHelp(w io.Writer) {
	fmt.Fprintln(w, "Path Tracer")
	fmt.Fprintln(w, "Usage: pathtracer [options]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Options:")
	config.PrintDefaults(w)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available scenes:")
	for _, info := range scene.List() {
		fmt.Fprintf(w, "  %-18s %s\n", info.Name, info.Description)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Every option can also be set with its PT_* environment variable or in a .env file.")
	fmt.Fprintln(w, "Output will be saved to <out>/<scene>/render_<timestamp>.png")
}

// createScene builds the configured preset at the configured width
func createScene(cfg config.Config) (*scene.Scene, scene.SceneInfo, error) {
	info, ok := scene.Lookup(cfg.Scene)
	if !ok {
		return nil, scene.SceneInfo{}, fmt.Errorf("unknown scene %q (available: %v)", cfg.Scene, scene.Names())
	}

	s, err := info.Build(scene.Options{Seed: cfg.Seed, EarthTexture: cfg.EarthTexture})
	if err != nil {
		return nil, info, err
	}
	s.SetImageWidth(cfg.Width)
	return s, info, nil
}

// samplingConfig applies non-zero overrides to the scene's recommendation
func samplingConfig(cfg config.Config, s *scene.Scene) renderer.SamplingConfig {
	sampling := s.SamplingConfig
	if cfg.SamplesPerPixel > 0 {
		sampling.SamplesPerPixel = cfg.SamplesPerPixel
	}
	if cfg.MaxDepth > 0 {
		sampling.MaxDepth = cfg.MaxDepth
	}
	return sampling
}

// run renders one image and writes it, plus an optional thumbnail, under
// cfg.OutputDir. A render stopped by the timeout is still saved.
// It returns the path of the saved render.
func run(ctx context.Context, cfg config.Config, logger core.Logger, up uploader) (string, error) {
	s, info, err := createScene(cfg)
	if err != nil {
		return "", err
	}
	logger.Printf("Scene %s: %d primitives, %d lights", info.DisplayName, s.GetPrimitiveCount(), len(s.Lights()))

	renderCtx := ctx
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		renderCtx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	raytracer := renderer.NewRaytracer(s, samplingConfig(cfg, s), logger)
	frame, stats, err := raytracer.Render(renderCtx, renderer.RenderOptions{Seed: cfg.Seed})
	if errors.Is(err, context.DeadlineExceeded) {
		logger.Printf("Timeout reached after %d/%d tiles, saving partial render", stats.TilesCompleted, stats.TotalTiles)
	} else if err != nil {
		return "", fmt.Errorf("rendering %s: %w", info.Name, err)
	}

	path := output.RenderPath(cfg.OutputDir, info.Name, time.Now())
	canvas := output.NewCanvas(frame.Width, frame.Height)
	if err := frame.Save(canvas, path, cfg.Gamma); err != nil {
		return "", err
	}
	logger.Printf("Render saved as %s (%.1f samples per pixel)", path, stats.AverageSamples)

	images := map[string][]byte{}
	if up != nil {
		data, err := output.EncodePNG(canvas.Image())
		if err != nil {
			return path, err
		}
		images[path] = data
	}

	if cfg.Thumbnail > 0 {
		thumbPath := output.ThumbnailPath(path)
		data, err := output.EncodePNG(output.Thumbnail(canvas.Image(), cfg.Thumbnail))
		if err != nil {
			return path, err
		}
		if err := os.WriteFile(thumbPath, data, 0644); err != nil {
			return path, fmt.Errorf("writing thumbnail: %w", err)
		}
		logger.Printf("Thumbnail saved as %s", thumbPath)
		images[thumbPath] = data
	}

	if up != nil {
		for local, data := range images {
			name := info.Name + "/" + filepath.Base(local)
			if _, err := up.Upload(ctx, name, data, output.ContentType(local)); err != nil {
				return path, err
			}
		}
	}

	return path, nil
}
