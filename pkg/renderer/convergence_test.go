package renderer

import (
	"context"
	"math"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
)

// newClosedBoxScene builds a unit box closed on all six sides with one
// ceiling light. The camera sits inside looking at the back wall. A black
// shell catches rays that slip past a wall closer than the hit epsilon, so
// the bright red background is never seen.
func newClosedBoxScene() *testScene {
	white := material.NewLambertian(core.NewVec3(0.73, 0.73, 0.73))
	light := geometry.NewQuad(core.NewVec3(0.35, 0.999, 0.35), core.NewVec3(0.3, 0, 0), core.NewVec3(0, 0, 0.3),
		material.NewDiffuseLight(core.NewVec3(10, 10, 10)))

	world := geometry.NewBVH([]geometry.Hittable{
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), white), // floor
		geometry.NewQuad(core.NewVec3(0, 1, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 0, 1), white), // ceiling
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1), white), // left
		geometry.NewQuad(core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), core.NewVec3(0, 0, 1), white), // right
		geometry.NewQuad(core.NewVec3(0, 0, 0), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), white), // back
		geometry.NewQuad(core.NewVec3(0, 0, 1), core.NewVec3(1, 0, 0), core.NewVec3(0, 1, 0), white), // front
		light,
		geometry.NewSphere(core.NewVec3(0.5, 0.5, 0.5), 5, material.NewLambertian(core.Vec3{})),
	})

	camera := geometry.NewCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0.5, 0.5, 0.5),
		LookAt:      core.NewVec3(0.5, 0.5, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       4,
		AspectRatio: 1,
		VFov:        40,
	})

	return &testScene{world: world, lights: light, camera: camera, background: core.NewVec3(1000, 0, 0)}
}

type convergenceRun struct {
	meanLuminance float64   // frame luminance averaged over seeds
	seedVariance  float64   // per-pixel variance across seeds, averaged over pixels
	estimated     []float64 // RenderStats.AverageVariance per seed
}

func renderAcrossSeeds(t *testing.T, scene *testScene, spp int, seeds []int64) convergenceRun {
	t.Helper()
	config := SamplingConfig{SamplesPerPixel: spp, MaxDepth: 10}

	var frames []*Frame
	run := convergenceRun{}
	for _, seed := range seeds {
		frame, stats, err := NewRaytracer(scene, config, nil).Render(context.Background(), RenderOptions{Seed: seed})
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}
		for y := 0; y < frame.Height; y++ {
			for x := 0; x < frame.Width; x++ {
				c := frame.Color(x, y)
				if !c.IsFinite() || math.Abs(c.X-c.Y) > 1e-9 || math.Abs(c.Y-c.Z) > 1e-9 {
					t.Fatalf("Pixel (%d,%d) at %d spp is not a finite grey, a path escaped the box: %v", x, y, spp, c)
				}
			}
		}
		frames = append(frames, frame)
		run.meanLuminance += frame.AverageLuminance()
		run.estimated = append(run.estimated, stats.AverageVariance)
	}
	run.meanLuminance /= float64(len(seeds))

	width, height := frames[0].Width, frames[0].Height
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var ps PixelStats
			for _, frame := range frames {
				ps.AddSample(frame.Color(x, y))
			}
			run.seedVariance += ps.Variance()
		}
	}
	run.seedVariance /= float64(width * height)
	return run
}

func TestRender_ClosedBoxConverges(t *testing.T) {
	scene := newClosedBoxScene()
	seeds := []int64{1, 2, 3, 4, 5, 6, 7, 8}

	coarse := renderAcrossSeeds(t, scene, 16, seeds)
	fine := renderAcrossSeeds(t, scene, 64, seeds)

	if !(coarse.meanLuminance > 0) || !(fine.meanLuminance > 0) {
		t.Fatalf("Expected a lit box, got means %f and %f", coarse.meanLuminance, fine.meanLuminance)
	}

	// More samples must not move the estimate
	if rel := math.Abs(fine.meanLuminance-coarse.meanLuminance) / fine.meanLuminance; rel > 0.15 {
		t.Errorf("Mean drifted with sample count: %f at 16 spp vs %f at 64 spp", coarse.meanLuminance, fine.meanLuminance)
	}

	// Four times the samples should cut the spread of the estimate roughly fourfold
	if fine.seedVariance >= coarse.seedVariance {
		t.Errorf("Expected variance across seeds to shrink: %g at 16 spp vs %g at 64 spp",
			coarse.seedVariance, fine.seedVariance)
	}

	for i := range seeds {
		if fine.estimated[i] >= coarse.estimated[i] {
			t.Errorf("Seed %d: expected reported pixel variance to shrink, got %g at 16 spp vs %g at 64 spp",
				seeds[i], coarse.estimated[i], fine.estimated[i])
		}
	}
}
