package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/df07/go-pathtracer/pkg/output"
	"github.com/joho/godotenv"
)

// ErrInvalidConfig is wrapped by every Validate failure
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds everything the CLI needs for one render.
// Zero Width, SamplesPerPixel and MaxDepth defer to the scene's recommendation.
type Config struct {
	Scene           string
	Width           int
	SamplesPerPixel int
	MaxDepth        int
	Seed            int64
	OutputDir       string
	Thumbnail       int
	Gamma           float64
	EarthTexture    string
	Timeout         time.Duration
	EnvFile         string
	Help            bool

	S3 output.S3Config
}

// LookupFunc reads one environment variable
type LookupFunc func(key string) (string, bool)

// binding ties a flag to the environment variable that backs it
type binding struct {
	flag string
	env  string
	set  func(value string) error
}

// Load parses args over the process environment and the optional .env file
func Load(args []string) (Config, error) {
	return LoadWithEnv(args, os.LookupEnv)
}

// LoadWithEnv is Load with an explicit environment.
// Precedence is flag, then environment, then the .env file, then defaults.
func LoadWithEnv(args []string, lookup LookupFunc) (Config, error) {
	cfg := defaults()
	fs := newFlagSet(&cfg)
	fs.SetOutput(io.Discard)
	if err := fs.Parse(args); err != nil {
		return cfg, fmt.Errorf("parsing flags: %w", err)
	}

	dotenv, err := readDotenv(cfg.EnvFile)
	if err != nil {
		return cfg, err
	}
	get := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}

	explicit := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	for _, b := range cfg.bindings() {
		if b.flag != "" && explicit[b.flag] {
			continue
		}
		value, ok := get(b.env)
		if !ok {
			continue
		}
		if err := b.set(value); err != nil {
			return cfg, fmt.Errorf("%s=%q: %w", b.env, value, err)
		}
	}

	return cfg, nil
}

// PrintDefaults writes the flag usage to w
func PrintDefaults(w io.Writer) {
	cfg := defaults()
	fs := newFlagSet(&cfg)
	fs.SetOutput(w)
	fs.PrintDefaults()
}

func defaults() Config {
	return Config{
		Scene:     "cornell",
		Seed:      42,
		OutputDir: "output",
		Gamma:     2.0,
		EnvFile:   ".env",
	}
}

func newFlagSet(cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet("pathtracer", flag.ContinueOnError)
	fs.StringVar(&cfg.Scene, "scene", cfg.Scene, "Scene preset to render (see -help for the list)")
	fs.IntVar(&cfg.Width, "width", cfg.Width, "Image width in pixels (0 = scene default)")
	fs.IntVar(&cfg.SamplesPerPixel, "spp", cfg.SamplesPerPixel, "Samples per pixel (0 = scene default)")
	fs.IntVar(&cfg.MaxDepth, "depth", cfg.MaxDepth, "Maximum bounces per path (0 = scene default)")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "Seed for scene generation and sampling")
	fs.StringVar(&cfg.OutputDir, "out", cfg.OutputDir, "Output directory")
	fs.IntVar(&cfg.Thumbnail, "thumb", cfg.Thumbnail, "Also write a thumbnail no larger than this (0 = off)")
	fs.Float64Var(&cfg.Gamma, "gamma", cfg.Gamma, "Display gamma")
	fs.StringVar(&cfg.EarthTexture, "texture", cfg.EarthTexture, "Image used by the earth and final scenes")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "Stop rendering after this long (0 = no limit)")
	fs.StringVar(&cfg.EnvFile, "env", cfg.EnvFile, "Optional .env file")
	fs.BoolVar(&cfg.Help, "help", cfg.Help, "Show help information")
	return fs
}

func (c *Config) bindings() []binding {
	return []binding{
		{"scene", "PT_SCENE", stringSetter(&c.Scene)},
		{"width", "PT_WIDTH", intSetter(&c.Width)},
		{"spp", "PT_SAMPLES", intSetter(&c.SamplesPerPixel)},
		{"depth", "PT_MAX_DEPTH", intSetter(&c.MaxDepth)},
		{"seed", "PT_SEED", func(v string) error {
			n, err := strconv.ParseInt(v, 10, 64)
			c.Seed = n
			return err
		}},
		{"out", "PT_OUTPUT_DIR", stringSetter(&c.OutputDir)},
		{"thumb", "PT_THUMBNAIL", intSetter(&c.Thumbnail)},
		{"gamma", "PT_GAMMA", func(v string) error {
			f, err := strconv.ParseFloat(v, 64)
			c.Gamma = f
			return err
		}},
		{"texture", "PT_EARTH_TEXTURE", stringSetter(&c.EarthTexture)},
		{"timeout", "PT_TIMEOUT", func(v string) error {
			d, err := time.ParseDuration(v)
			c.Timeout = d
			return err
		}},
		{"", "PT_S3_BUCKET", stringSetter(&c.S3.Bucket)},
		{"", "PT_S3_REGION", stringSetter(&c.S3.Region)},
		{"", "PT_S3_ENDPOINT", stringSetter(&c.S3.Endpoint)},
		{"", "PT_S3_ACCESS_KEY", stringSetter(&c.S3.AccessKey)},
		{"", "PT_S3_SECRET_KEY", stringSetter(&c.S3.SecretKey)},
		{"", "PT_S3_PREFIX", stringSetter(&c.S3.Prefix)},
	}
}

func stringSetter(target *string) func(string) error {
	return func(v string) error {
		*target = v
		return nil
	}
}

func intSetter(target *int) func(string) error {
	return func(v string) error {
		n, err := strconv.Atoi(v)
		*target = n
		return err
	}
}

// readDotenv returns the variables in path; a missing file yields none
func readDotenv(path string) (map[string]string, error) {
	if path == "" {
		return nil, nil
	}
	values, err := godotenv.Read(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return values, nil
}

// Validate rejects negative sizes, a non-positive gamma and incomplete S3 settings
func (c Config) Validate() error {
	switch {
	case c.Scene == "":
		return fmt.Errorf("%w: scene name is empty", ErrInvalidConfig)
	case c.Width < 0:
		return fmt.Errorf("%w: width %d is negative", ErrInvalidConfig, c.Width)
	case c.SamplesPerPixel < 0:
		return fmt.Errorf("%w: samples per pixel %d is negative", ErrInvalidConfig, c.SamplesPerPixel)
	case c.MaxDepth < 0:
		return fmt.Errorf("%w: max depth %d is negative", ErrInvalidConfig, c.MaxDepth)
	case c.Thumbnail < 0:
		return fmt.Errorf("%w: thumbnail size %d is negative", ErrInvalidConfig, c.Thumbnail)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout %v is negative", ErrInvalidConfig, c.Timeout)
	case !(c.Gamma > 0):
		return fmt.Errorf("%w: gamma must be positive, got %v", ErrInvalidConfig, c.Gamma)
	}

	s3 := c.S3
	partial := s3.Region != "" || s3.Endpoint != "" || s3.AccessKey != "" || s3.SecretKey != "" || s3.Prefix != ""
	if s3.Bucket == "" && partial {
		return fmt.Errorf("%w: S3 settings given without PT_S3_BUCKET", ErrInvalidConfig)
	}
	if s3.Bucket != "" && s3.Region == "" {
		return fmt.Errorf("%w: PT_S3_REGION is required with PT_S3_BUCKET", ErrInvalidConfig)
	}
	if (s3.AccessKey == "") != (s3.SecretKey == "") {
		return fmt.Errorf("%w: PT_S3_ACCESS_KEY and PT_S3_SECRET_KEY must be set together", ErrInvalidConfig)
	}
	return nil
}

// S3Enabled reports whether renders should be uploaded
func (c Config) S3Enabled() bool {
	return c.S3.Bucket != ""
}
