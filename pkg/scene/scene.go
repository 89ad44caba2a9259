package scene

import (
	"errors"
	"fmt"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/geometry"
	"github.com/df07/go-pathtracer/pkg/material"
	"github.com/df07/go-pathtracer/pkg/pdf"
	"github.com/df07/go-pathtracer/pkg/renderer"
)

var (
	// ErrEmptyScene is returned by Preprocess when nothing was added
	ErrEmptyScene = errors.New("scene has no objects")
	// ErrNoCamera is returned by Preprocess when the scene has no camera
	ErrNoCamera = errors.New("scene has no camera")
	// ErrNonFiniteBounds is returned when an object or light has an unbounded or invalid box
	ErrNonFiniteBounds = errors.New("bounding box is not finite")
	// ErrUnsampleableLight is returned when a light cannot generate directions toward itself
	ErrUnsampleableLight = errors.New("light cannot be importance sampled")
	// ErrNotPreprocessed is returned when a scene is used before Preprocess succeeded
	ErrNotPreprocessed = errors.New("scene has not been preprocessed")
)

// Scene contains all the elements needed for rendering. Objects and lights
// are collected with Add and AddLight, then frozen into a BVH by Preprocess.
type Scene struct {
	Camera         *geometry.Camera
	Background     core.Vec3               // Radiance of rays that escape
	SamplingConfig renderer.SamplingConfig // Recommended sampling for this scene

	objects []geometry.Hittable
	lights  []geometry.Hittable

	world     *geometry.BVHNode
	lightList *geometry.HittableList
}

// New creates an empty scene with default sampling
func New(camera *geometry.Camera, background core.Vec3) *Scene {
	return &Scene{
		Camera:         camera,
		Background:     background,
		SamplingConfig: renderer.DefaultSamplingConfig(),
	}
}

// Add appends objects to the world. Adding after Preprocess requires
// another Preprocess before rendering.
func (s *Scene) Add(objects ...geometry.Hittable) {
	s.objects = append(s.objects, objects...)
	s.world = nil
}

// AddLight registers a shape for light importance sampling. The shape is not
// added to the world: it may be an emitter already added with Add, or any
// sampleable object diffuse surfaces should aim at.
func (s *Scene) AddLight(light geometry.Hittable) {
	s.lights = append(s.lights, light)
	s.world = nil
}

// AddQuadLight adds a rectangular area light to the world and to the light list
func (s *Scene) AddQuadLight(corner, u, v, emission core.Vec3) *geometry.Quad {
	quad := geometry.NewQuad(corner, u, v, material.NewDiffuseLight(emission))
	s.Add(quad)
	s.AddLight(quad)
	return quad
}

// AddSphereLight adds a spherical light to the world and to the light list
func (s *Scene) AddSphereLight(center core.Vec3, radius float64, emission core.Vec3) *geometry.Sphere {
	sphere := geometry.NewSphere(center, radius, material.NewDiffuseLight(emission))
	s.Add(sphere)
	s.AddLight(sphere)
	return sphere
}

// Objects returns the objects added so far
func (s *Scene) Objects() []geometry.Hittable {
	return s.objects
}

// Lights returns the shapes registered for light sampling
func (s *Scene) Lights() []geometry.Hittable {
	return s.lights
}

// SetImageWidth rebuilds the camera for a new output width, keeping its aspect ratio
func (s *Scene) SetImageWidth(width int) {
	if s.Camera == nil || width <= 0 {
		return
	}
	config := s.Camera.Config()
	config.Width = width
	s.Camera = geometry.NewCamera(config)
}

// Preprocess validates the scene and builds the acceleration structure.
// Every object and light must have a finite bounding box and every light
// must be importance-sampleable.
func (s *Scene) Preprocess() error {
	if s.Camera == nil {
		return ErrNoCamera
	}
	if len(s.objects) == 0 {
		return ErrEmptyScene
	}

	for i, object := range s.objects {
		if !object.BoundingBox().IsFinite() {
			return fmt.Errorf("object %d (%T): %w", i, object, ErrNonFiniteBounds)
		}
	}
	for i, light := range s.lights {
		if !light.BoundingBox().IsFinite() {
			return fmt.Errorf("light %d (%T): %w", i, light, ErrNonFiniteBounds)
		}
		if !geometry.IsSampleable(light) {
			return fmt.Errorf("light %d (%T): %w", i, light, ErrUnsampleableLight)
		}
	}

	s.world = geometry.NewBVH(s.objects)
	s.lightList = nil
	if len(s.lights) > 0 {
		s.lightList = geometry.NewHittableList(s.lights...)
	}
	return nil
}

// Validate reports ErrNotPreprocessed until Preprocess has succeeded
// since the last change
func (s *Scene) Validate() error {
	if s.world == nil {
		return ErrNotPreprocessed
	}
	return nil
}

// GetWorld returns the BVH over every object, or nil before Preprocess
func (s *Scene) GetWorld() geometry.Hittable {
	if s.world == nil {
		return nil
	}
	return s.world
}

// GetLights returns the light list, or nil when the scene has no lights
func (s *Scene) GetLights() pdf.Source {
	if s.lightList == nil {
		return nil
	}
	return s.lightList
}

// GetBackground returns the background radiance
func (s *Scene) GetBackground() core.Vec3 {
	return s.Background
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *geometry.Camera {
	return s.Camera
}

// GetPrimitiveCount returns the total number of primitive objects in the scene
func (s *Scene) GetPrimitiveCount() int {
	count := 0
	for _, object := range s.objects {
		count += countPrimitives(object)
	}
	return count
}

// countPrimitives counts primitives in a single object, looking into composites
func countPrimitives(object geometry.Hittable) int {
	switch obj := object.(type) {
	case *geometry.Box:
		return len(obj.Faces())
	case *geometry.HittableList:
		count := 0
		for _, child := range obj.Objects() {
			count += countPrimitives(child)
		}
		return count
	case *geometry.BVHNode:
		count := 0
		for _, child := range obj.Objects() {
			count += countPrimitives(child)
		}
		return count
	case *geometry.ConstantMedium:
		return countPrimitives(obj.Boundary)
	case geometry.Unwrapper:
		return countPrimitives(obj.Unwrap())
	default:
		return 1
	}
}

// NewGroundQuad creates a horizontal quad centered at center with normal pointing up (0,1,0)
func NewGroundQuad(center core.Vec3, size float64, material material.Material) *geometry.Quad {
	corner := core.NewVec3(center.X-size/2, center.Y, center.Z-size/2)
	// u × v = (0,0,size) × (size,0,0) = (0,size²,0)
	u := core.NewVec3(0, 0, size)
	v := core.NewVec3(size, 0, 0)
	return geometry.NewQuad(corner, u, v, material)
}
