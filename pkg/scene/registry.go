package scene

import (
	"fmt"
	"sort"
	"strings"
)

// Options carries inputs some presets need beyond their fixed geometry
type Options struct {
	Seed         int64  // Seed for presets with random placement or noise
	EarthTexture string // Path to an equirectangular earth map; empty renders the missing-texture colour
	MaxTexture   int    // Downscale textures larger than this (0 = keep size)
}

// SceneInfo describes a built-in scene
type SceneInfo struct {
	Name        string // Identifier used on the command line
	DisplayName string
	Description string
	build       func(Options) (*Scene, error)
}

// Build constructs the scene and preprocesses it, ready to render
func (info SceneInfo) Build(opts Options) (*Scene, error) {
	s, err := info.build(opts)
	if err != nil {
		return nil, fmt.Errorf("building scene %q: %w", info.Name, err)
	}
	if err := s.Preprocess(); err != nil {
		return nil, fmt.Errorf("preprocessing scene %q: %w", info.Name, err)
	}
	return s, nil
}

var builtinScenes = []SceneInfo{
	newInfo("bouncing-spheres", "Field of small random spheres with motion blur around three large ones", seeded(NewBouncingSpheres)),
	newInfo("checkered-spheres", "Two large spheres with a spatial checker texture", noError(NewCheckeredSpheres)),
	newInfo("earth", "Image-textured globe", NewEarthScene),
	newInfo("perlin-spheres", "Marble Perlin-noise ground and sphere", seeded(NewPerlinSpheres)),
	newInfo("quads", "Five coloured quads facing the camera", noError(NewQuadsScene)),
	newInfo("simple-light", "Noise-textured spheres lit by a sphere and a quad light", seeded(NewSimpleLightScene)),
	newInfo("cornell", "Cornell box with a rotated box and a glass sphere", noError(NewCornellScene)),
	newInfo("cornell-smoke", "Cornell box with two blocks of smoke", noError(NewCornellSmokeScene)),
	newInfo("final", "All features together: boxes, media, textures, motion blur, instancing", NewFinalScene),
}

func newInfo(name, description string, build func(Options) (*Scene, error)) SceneInfo {
	return SceneInfo{Name: name, DisplayName: titleCase(name), Description: description, build: build}
}

func noError(build func() *Scene) func(Options) (*Scene, error) {
	return func(Options) (*Scene, error) {
		return build(), nil
	}
}

func seeded(build func(seed int64) *Scene) func(Options) (*Scene, error) {
	return func(opts Options) (*Scene, error) {
		return build(opts.Seed), nil
	}
}

// Lookup finds a built-in scene by name, ignoring case
func Lookup(name string) (SceneInfo, bool) {
	for _, info := range builtinScenes {
		if strings.EqualFold(info.Name, name) {
			return info, true
		}
	}
	return SceneInfo{}, false
}

// Names returns the built-in scene names in alphabetical order
func Names() []string {
	names := make([]string, len(builtinScenes))
	for i, info := range builtinScenes {
		names[i] = info.Name
	}
	sort.Strings(names)
	return names
}

// List returns every built-in scene in presentation order
func List() []SceneInfo {
	list := make([]SceneInfo, len(builtinScenes))
	copy(list, builtinScenes)
	return list
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-smoke" -> "Cornell Smoke"
func titleCase(s string) string {
	// Replace hyphens and underscores with spaces
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	// Title case each word
	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
