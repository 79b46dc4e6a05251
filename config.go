package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/df07/go-sphere-raytracer/pkg/publish"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

// ErrInvalidConfig is returned by Validate for settings that cannot render
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds everything the CLI needs for one render
type Config struct {
	Scene         string
	Width         int // 0 = scene default
	Height        int // 0 = scene default
	Samples       int // 0 = scene default
	Seed          int64
	Workers       int // 0 = CPU count
	Output        string
	Thumbnail     bool
	ThumbnailSize int
	Publish       bool
	S3            publish.S3Config
	Help          bool
}

// DefaultConfig returns the settings used when nothing else is given
func DefaultConfig() Config {
	return Config{
		Scene:         scene.DefaultSceneID,
		Seed:          42,
		Workers:       0,
		ThumbnailSize: 128,
	}
}

// LookupFunc matches os.LookupEnv
type LookupFunc func(key string) (string, bool)

// LoadConfig layers defaults, the .env file, the process environment and
// command-line flags, each overriding the one before.
func LoadConfig(args []string, lookupEnv LookupFunc, usageOut io.Writer) (Config, error) {
	config := DefaultConfig()

	envFile := ".env"
	if path, ok := lookupEnv("RAYTRACER_ENV_FILE"); ok && path != "" {
		envFile = path
	}
	fileEnv, err := godotenv.Read(envFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return config, fmt.Errorf("failed to read %s: %w", envFile, err)
	}

	lookup := func(key string) (string, bool) {
		if value, ok := lookupEnv(key); ok {
			return value, true
		}
		value, ok := fileEnv[key]
		return value, ok
	}
	if err := config.applyEnv(lookup); err != nil {
		return config, err
	}

	flags := config.flagSet(usageOut)
	if err := flags.Parse(args); err != nil {
		return config, err
	}

	return config, nil
}

// flagSet binds command-line flags to c, using its current values as defaults
func (c *Config) flagSet(output io.Writer) *flag.FlagSet {
	flags := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	flags.SetOutput(output)
	flags.StringVar(&c.Scene, "scene", c.Scene, "Scene ID, 'file:<name>' or path to a .scene file")
	flags.IntVar(&c.Width, "width", c.Width, "Image width (0 = scene default)")
	flags.IntVar(&c.Height, "height", c.Height, "Image height (0 = scene default)")
	flags.IntVar(&c.Samples, "samples", c.Samples, "Samples per pixel (0 = scene default)")
	flags.Int64Var(&c.Seed, "seed", c.Seed, "Random seed for sample jitter")
	flags.IntVar(&c.Workers, "workers", c.Workers, "Parallel row workers (0 = CPU count)")
	flags.StringVar(&c.Output, "output", c.Output, "Output file; extension picks the format (default output/<scene>/render_<timestamp>.ppm)")
	flags.BoolVar(&c.Thumbnail, "thumbnail", c.Thumbnail, "Also write a thumbnail next to the output")
	flags.IntVar(&c.ThumbnailSize, "thumbnail-size", c.ThumbnailSize, "Thumbnail bounding box in pixels")
	flags.BoolVar(&c.Publish, "publish", c.Publish, "Upload the render to S3")
	flags.StringVar(&c.S3.Bucket, "s3-bucket", c.S3.Bucket, "S3 bucket for -publish")
	flags.StringVar(&c.S3.Prefix, "s3-prefix", c.S3.Prefix, "S3 key prefix for -publish")
	flags.BoolVar(&c.Help, "help", false, "Show help information")
	return flags
}

func (c *Config) applyEnv(lookup LookupFunc) error {
	stringVars := map[string]*string{
		"RAYTRACER_SCENE":  &c.Scene,
		"RAYTRACER_OUTPUT": &c.Output,
		"S3_ACCESS_KEY":    &c.S3.AccessKey,
		"S3_SECRET_KEY":    &c.S3.SecretKey,
		"S3_ENDPOINT":      &c.S3.Endpoint,
		"S3_REGION":        &c.S3.Region,
		"S3_BUCKET":        &c.S3.Bucket,
		"S3_PREFIX":        &c.S3.Prefix,
		"S3_ACL":           &c.S3.ACL,
	}
	for key, target := range stringVars {
		if value, ok := lookup(key); ok {
			*target = value
		}
	}

	intVars := map[string]*int{
		"RAYTRACER_WIDTH":          &c.Width,
		"RAYTRACER_HEIGHT":         &c.Height,
		"RAYTRACER_SAMPLES":        &c.Samples,
		"RAYTRACER_WORKERS":        &c.Workers,
		"RAYTRACER_THUMBNAIL_SIZE": &c.ThumbnailSize,
	}
	for key, target := range intVars {
		value, ok := lookup(key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", key, value, ErrInvalidConfig)
		}
		*target = n
	}

	if value, ok := lookup("RAYTRACER_SEED"); ok {
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("RAYTRACER_SEED=%q: %w", value, ErrInvalidConfig)
		}
		c.Seed = seed
	}

	boolVars := map[string]*bool{
		"RAYTRACER_THUMBNAIL": &c.Thumbnail,
		"RAYTRACER_PUBLISH":   &c.Publish,
	}
	for key, target := range boolVars {
		value, ok := lookup(key)
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s=%q: %w", key, value, ErrInvalidConfig)
		}
		*target = b
	}

	return nil
}

// Validate rejects settings that cannot produce a render
func (c Config) Validate() error {
	switch {
	case c.Scene == "":
		return fmt.Errorf("scene is required: %w", ErrInvalidConfig)
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("size %dx%d: %w", c.Width, c.Height, ErrInvalidConfig)
	case c.Samples < 0:
		return fmt.Errorf("samples %d: %w", c.Samples, ErrInvalidConfig)
	case c.Workers < 0:
		return fmt.Errorf("workers %d: %w", c.Workers, ErrInvalidConfig)
	case c.Thumbnail && c.ThumbnailSize < 1:
		return fmt.Errorf("thumbnail size %d: %w", c.ThumbnailSize, ErrInvalidConfig)
	case c.Publish && c.S3.Bucket == "":
		return fmt.Errorf("-publish needs a bucket: %w", ErrInvalidConfig)
	}
	return nil
}
