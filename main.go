package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/output"
	"github.com/df07/go-sphere-raytracer/pkg/publish"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
	"github.com/df07/go-sphere-raytracer/pkg/scene"
)

func main() {
	config, err := LoadConfig(os.Args[1:], os.LookupEnv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}

	// Show help if requested
	if config.Help {
		printHelp()
		return
	}

	if err := config.Validate(); err != nil {
		log.Fatalf("Error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Starting Sphere Raytracer...")
	if _, err := run(ctx, config, renderer.NewDefaultLogger()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func printHelp() {
	fmt.Println("Sphere Raytracer")
	fmt.Println("Usage: raytracer [options]")
	fmt.Println()
	fmt.Println("Options:")
	defaults := DefaultConfig()
	defaults.flagSet(os.Stdout).PrintDefaults()
	fmt.Println()
	fmt.Println("Environment: RAYTRACER_SCENE, RAYTRACER_WIDTH, RAYTRACER_HEIGHT, RAYTRACER_SAMPLES,")
	fmt.Println("  RAYTRACER_SEED, RAYTRACER_WORKERS, RAYTRACER_OUTPUT, RAYTRACER_THUMBNAIL,")
	fmt.Println("  RAYTRACER_PUBLISH, S3_ACCESS_KEY, S3_SECRET_KEY, S3_ENDPOINT, S3_REGION,")
	fmt.Println("  S3_BUCKET, S3_PREFIX, S3_ACL (also read from RAYTRACER_ENV_FILE, default .env)")
	fmt.Println()
	fmt.Println("Available scenes:")
	for _, info := range scene.ListScenes() {
		fmt.Printf("  %-20s %s\n", info.ID, info.Description)
	}
	fmt.Println()
	fmt.Println("Output will be saved to output/<scene>/render_<timestamp>.ppm")
}

// run renders the configured scene and returns the path it was written to
func run(ctx context.Context, config Config, logger core.Logger) (string, error) {
	selectedScene, err := scene.CreateScene(config.Scene)
	if err != nil {
		return "", err
	}
	logger.Printf("Using scene %s (%d spheres)\n", selectedScene.Name, selectedScene.GetSphereCount())

	width, height := config.Width, config.Height
	if width == 0 {
		width = selectedScene.SamplingConfig.Width
	}
	if height == 0 {
		height = selectedScene.SamplingConfig.Height
	}

	samplingConfig := renderer.SamplingConfig{
		SamplesPerPixel: config.Samples,
		Seed:            config.Seed,
		NumWorkers:      config.Workers,
		ProgressRows:    max(1, height/10),
	}
	if samplingConfig.SamplesPerPixel == 0 {
		samplingConfig.SamplesPerPixel = selectedScene.SamplingConfig.SamplesPerPixel
	}

	raytracer, err := renderer.NewRaytracer(selectedScene, width, height, samplingConfig, logger)
	if err != nil {
		return "", err
	}

	fb, stats, err := raytracer.RenderPass(ctx)
	if err != nil {
		return "", err
	}
	logger.Printf("Samples per pixel: %.1f, background rays: %d of %d\n",
		stats.AverageSamples, stats.BackgroundRays, stats.TotalSamples)

	filename := config.Output
	if filename == "" {
		filename = defaultOutputPath(config.Scene, time.Now())
	}
	if err := output.Save(filename, fb); err != nil {
		return "", err
	}
	logger.Printf("Render saved as %s\n", filename)

	if config.Thumbnail {
		thumbPath := output.ThumbnailPath(filename)
		thumb := output.Thumbnail(fb, config.ThumbnailSize, config.ThumbnailSize)
		if err := output.SaveImage(thumbPath, thumb); err != nil {
			return filename, err
		}
		logger.Printf("Thumbnail saved as %s\n", thumbPath)
	}

	if config.Publish {
		publisher, err := publish.NewS3Publisher(config.S3, logger)
		if err != nil {
			return filename, err
		}
		if err := publishRender(ctx, publisher, filename, fb); err != nil {
			return filename, err
		}
	}

	return filename, nil
}

func publishRender(ctx context.Context, publisher *publish.Publisher, filename string, fb *renderer.Framebuffer) error {
	format := strings.TrimPrefix(filepath.Ext(filename), ".")
	data, contentType, err := output.Encode(fb, format)
	if err != nil {
		return err
	}
	_, err = publisher.Publish(ctx, filepath.Base(filename), data, contentType)
	return err
}

// defaultOutputPath builds output/<scene>/render_<timestamp>.ppm. File
// scenes use their base name.
func defaultOutputPath(sceneID string, now time.Time) string {
	name := strings.TrimPrefix(sceneID, "file:")
	name = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if name == "" || name == "." {
		name = "scene"
	}
	timestamp := now.Format("20060102_150405")
	return filepath.Join("output", name, fmt.Sprintf("render_%s.ppm", timestamp))
}
