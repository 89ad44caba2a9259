package scene

import (
	"math/rand"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/loaders"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

// skyBackground is the light blue used by the outdoor presets
var skyBackground = core.NewVec3(0.7, 0.8, 1.0)

func randomRange(random *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*random.Float64()
}

func randomVec3(random *rand.Rand, lo, hi float64) core.Vec3 {
	return core.NewVec3(randomRange(random, lo, hi), randomRange(random, lo, hi), randomRange(random, lo, hi))
}

// wideCamera is the 16:9 view from (13,2,3) shared by the texture presets
func wideCamera() *geometry.Camera {
	return geometry.NewCamera(geometry.CameraConfig{
		Center:      core.NewVec3(13, 2, 3),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        20,
	})
}

// NewBouncingSpheres creates the classic field of small random spheres around
// three large ones. Diffuse spheres move upward during the shutter interval.
func NewBouncingSpheres(seed int64) *Scene {
	camera := geometry.NewCamera(geometry.CameraConfig{
		Center:        core.NewVec3(13, 2, 3),
		LookAt:        core.NewVec3(0, 0, 0),
		Up:            core.NewVec3(0, 1, 0),
		Width:         400,
		AspectRatio:   3.0 / 2.0,
		VFov:          20,
		Aperture:      0.1,
		FocusDistance: 10,
	})

	s := New(camera, skyBackground)
	s.SamplingConfig = renderer.SamplingConfig{SamplesPerPixel: 100, MaxDepth: 50}

	random := rand.New(rand.NewSource(seed))
	checker := material.NewCheckerColors(0.32, core.NewVec3(0.2, 0.3, 0.1), core.NewVec3(0.9, 0.9, 0.9))
	s.Add(geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, material.NewTexturedLambertian(checker)))

	for a := -11; a < 11; a++ {
		for b := -11; b < 11; b++ {
			chooseMaterial := random.Float64()
			center := core.NewVec3(float64(a)+0.9*random.Float64(), 0.2, float64(b)+0.9*random.Float64())
			if center.Subtract(core.NewVec3(4, 0.2, 0)).Length() <= 0.9 {
				continue
			}

			switch {
			case chooseMaterial < 0.8:
				albedo := randomVec3(random, 0, 1).MultiplyVec(randomVec3(random, 0, 1))
				center2 := center.Add(core.NewVec3(0, randomRange(random, 0, 0.5), 0))
				s.Add(geometry.NewMovingSphere(center, center2, 0.2, material.NewLambertian(albedo)))
			case chooseMaterial < 0.95:
				albedo := randomVec3(random, 0.5, 1)
				fuzz := randomRange(random, 0, 0.5)
				s.Add(geometry.NewSphere(center, 0.2, material.NewMetal(albedo, fuzz)))
			default:
				s.Add(geometry.NewSphere(center, 0.2, material.NewDielectric(1.5)))
			}
		}
	}

	s.Add(
		geometry.NewSphere(core.NewVec3(0, 1, 0), 1, material.NewDielectric(1.5)),
		geometry.NewSphere(core.NewVec3(-4, 1, 0), 1, material.NewLambertian(core.NewVec3(0.4, 0.2, 0.1))),
		geometry.NewSphere(core.NewVec3(4, 1, 0), 1, material.NewMetal(core.NewVec3(0.7, 0.6, 0.5), 0.0)),
	)

	return s
}

// NewCheckeredSpheres creates two large spheres sharing one 3D checker texture
func NewCheckeredSpheres() *Scene {
	s := New(wideCamera(), skyBackground)
	s.SamplingConfig = renderer.SamplingConfig{SamplesPerPixel: 100, MaxDepth: 50}

	checker := material.NewTexturedLambertian(
		material.NewCheckerColors(0.32, core.NewVec3(0.2, 0.3, 0.1), core.NewVec3(0.9, 0.9, 0.9)))
	s.Add(
		geometry.NewSphere(core.NewVec3(0, -10, 0), 10, checker),
		geometry.NewSphere(core.NewVec3(0, 10, 0), 10, checker),
	)

	return s
}

// NewPerlinSpheres creates a marble ground and sphere from one noise texture
func NewPerlinSpheres(seed int64) *Scene {
	s := New(wideCamera(), skyBackground)
	s.SamplingConfig = renderer.SamplingConfig{SamplesPerPixel: 100, MaxDepth: 50}

	marble := material.NewTexturedLambertian(material.NewNoiseTexture(4, rand.New(rand.NewSource(seed))))
	s.Add(
		geometry.NewSphere(core.NewVec3(0, -1000, 0), 1000, marble),
		geometry.NewSphere(core.NewVec3(0, 2, 0), 2, marble),
	)

	return s
}

// NewEarthScene creates a globe wrapped in the image at opts.EarthTexture
func NewEarthScene(opts Options) (*Scene, error) {
	texture, err := earthTexture(opts)
	if err != nil {
		return nil, err
	}

	camera := geometry.NewCamera(geometry.CameraConfig{
		Center:      core.NewVec3(0, 0, 12),
		LookAt:      core.NewVec3(0, 0, 0),
		Up:          core.NewVec3(0, 1, 0),
		Width:       400,
		AspectRatio: 16.0 / 9.0,
		VFov:        20,
	})

	s := New(camera, skyBackground)
	s.SamplingConfig = renderer.SamplingConfig{SamplesPerPixel: 100, MaxDepth: 50}
	s.Add(geometry.NewSphere(core.NewVec3(0, 0, 0), 2, material.NewTexturedLambertian(texture)))

	return s, nil
}

// earthTexture loads the configured earth map. With no path configured the
// texture is empty and renders as solid cyan.
func earthTexture(opts Options) (*material.ImageTexture, error) {
	if opts.EarthTexture == "" {
		return material.NewImageTexture(0, 0, nil), nil
	}
	return loaders.LoadTexture(opts.EarthTexture, opts.MaxTexture)
}
