package renderer

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

var (
	// ErrInvalidDimensions is returned for an image width or height below one pixel
	ErrInvalidDimensions = errors.New("image width and height must be at least 1")
	// ErrInvalidSamples is returned for a sample count below one
	ErrInvalidSamples = errors.New("samples per pixel must be at least 1")
)

// SamplingConfig contains rendering configuration
type SamplingConfig struct {
	SamplesPerPixel int   // Number of rays per pixel
	Seed            int64 // Base seed; output row y samples from Seed+y
	NumWorkers      int   // Parallel row workers (1 = serial, 0 = CPU count)
	ProgressRows    int   // Log progress every N completed rows (0 = never)
}

// DefaultSamplingConfig returns sensible default values
func DefaultSamplingConfig() SamplingConfig {
	return SamplingConfig{
		SamplesPerPixel: 100,
		Seed:            42,
		NumWorkers:      1,
	}
}

// Scene interface to avoid circular imports
type Scene interface {
	GetCamera() *Camera
	GetBackground() Background
	GetWorld() geometry.Shape
}

// SamplerFactory returns the jitter source for one output row
type SamplerFactory func(row int) core.Sampler

// Raytracer handles the rendering process
type Raytracer struct {
	scene      Scene
	width      int
	height     int
	config     SamplingConfig
	newSampler SamplerFactory
	logger     core.Logger
}

// NewRaytracer creates a new raytracer
func NewRaytracer(scene Scene, width, height int, config SamplingConfig, logger core.Logger) (*Raytracer, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%dx%d: %w", width, height, ErrInvalidDimensions)
	}
	if config.SamplesPerPixel < 1 {
		return nil, fmt.Errorf("%d: %w", config.SamplesPerPixel, ErrInvalidSamples)
	}
	if logger == nil {
		logger = NopLogger{}
	}

	return &Raytracer{
		scene:  scene,
		width:  width,
		height: height,
		config: config,
		logger: logger,
	}, nil
}

// SetSamplerFactory replaces the seeded per-row random source
func (rt *Raytracer) SetSamplerFactory(factory SamplerFactory) {
	rt.newSampler = factory
}

// Width returns the image width in pixels
func (rt *Raytracer) Width() int { return rt.width }

// Height returns the image height in pixels
func (rt *Raytracer) Height() int { return rt.height }

func (rt *Raytracer) samplerForRow(row int) core.Sampler {
	if rt.newSampler != nil {
		return rt.newSampler(row)
	}
	return rand.New(rand.NewSource(rt.config.Seed + int64(row)))
}

func (rt *Raytracer) numWorkers() int {
	workers := rt.config.NumWorkers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return min(workers, rt.height)
}

// SamplePixel accumulates SamplesPerPixel jittered samples for pixel column i
// and geometric row j (j = 0 is the bottom row)
func (rt *Raytracer) SamplePixel(camera *Camera, i, j int, sampler core.Sampler) PixelStats {
	ps, _ := rt.samplePixel(camera, i, j, sampler)
	return ps
}

func (rt *Raytracer) samplePixel(camera *Camera, i, j int, sampler core.Sampler) (PixelStats, int) {
	var ps PixelStats
	misses := 0
	world := rt.scene.GetWorld()
	background := rt.scene.GetBackground()

	for sample := 0; sample < rt.config.SamplesPerPixel; sample++ {
		// Convert pixel coordinates to normalized coordinates with jitter
		u := (float64(i) + sampler.Float64()) / float64(rt.width)
		v := (float64(j) + sampler.Float64()) / float64(rt.height)

		color, hit := shade(camera.GetRay(u, v), world, background)
		if !hit {
			misses++
		}
		ps.AddSample(color)
	}

	return ps, misses
}

// renderRow fills output row y and returns the number of background samples
func (rt *Raytracer) renderRow(camera *Camera, y int, row []RGB8) int {
	sampler := rt.samplerForRow(y)
	// Output rows run top to bottom while v grows upward
	j := rt.height - 1 - y
	misses := 0

	for i := 0; i < rt.width; i++ {
		ps, m := rt.samplePixel(camera, i, j, sampler)
		row[i] = Quantize(ps.GetColor())
		misses += m
	}

	return misses
}

// RenderPass renders the full image with multi-sampling.
// The context is checked once per row.
func (rt *Raytracer) RenderPass(ctx context.Context) (*Framebuffer, RenderStats, error) {
	startTime := time.Now()
	camera := rt.scene.GetCamera()
	fb := NewFramebuffer(rt.width, rt.height)
	misses := make([]int, rt.height)
	workers := rt.numWorkers()

	rt.logger.Printf("Rendering %dx%d at %d samples per pixel (using %d workers)...\n",
		rt.width, rt.height, rt.config.SamplesPerPixel, workers)

	var rowsDone atomic.Int64
	renderOne := func(y int) error {
		misses[y] = rt.renderRow(camera, y, fb.Row(y))
		done := rowsDone.Add(1)
		if rt.config.ProgressRows > 0 && done%int64(rt.config.ProgressRows) == 0 {
			rt.logger.Printf("Rendered %d/%d rows\n", done, rt.height)
		}
		return nil
	}

	var err error
	if workers == 1 {
		for y := 0; y < rt.height && err == nil; y++ {
			if err = ctx.Err(); err == nil {
				err = renderOne(y)
			}
		}
	} else {
		err = NewWorkerPool(workers).Run(ctx, rt.height, renderOne)
	}
	if err != nil {
		rt.logger.Printf("Rendering stopped after %d/%d rows: %v\n", rowsDone.Load(), rt.height, err)
		return nil, RenderStats{}, err
	}

	stats := RenderStats{
		TotalPixels:     rt.width * rt.height,
		TotalSamples:    rt.width * rt.height * rt.config.SamplesPerPixel,
		SamplesPerPixel: rt.config.SamplesPerPixel,
		Workers:         workers,
		Elapsed:         time.Since(startTime),
	}
	for _, m := range misses {
		stats.BackgroundRays += m
	}
	stats.AverageSamples = float64(stats.TotalSamples) / float64(stats.TotalPixels)

	rt.logger.Printf("Render completed in %v\n", stats.Elapsed)
	return fb, stats, nil
}
