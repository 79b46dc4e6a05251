package renderer

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

// MockScene implements Scene for testing
type MockScene struct {
	camera     *Camera
	world      geometry.Shape
	background Background
}

func (m MockScene) GetCamera() *Camera        { return m.camera }
func (m MockScene) GetWorld() geometry.Shape  { return m.world }
func (m MockScene) GetBackground() Background { return m.background }

// constantSampler always returns the same offset
type constantSampler float64

func (c constantSampler) Float64() float64 { return float64(c) }

func newMockScene(t *testing.T, shapes ...geometry.Shape) MockScene {
	t.Helper()
	camera, err := NewCamera(DefaultCameraConfig())
	if err != nil {
		t.Fatalf("Failed to create camera: %v", err)
	}
	return MockScene{
		camera:     camera,
		world:      geometry.NewHittableList(shapes...),
		background: DefaultBackground(),
	}
}

func twoSphereScene(t *testing.T) MockScene {
	return newMockScene(t,
		geometry.MustSphere(core.NewPoint(0, 0, -1), 0.5),
		geometry.MustSphere(core.NewPoint(0, -100.5, -1), 100),
	)
}

func newTestRaytracer(t *testing.T, scene Scene, width, height int, config SamplingConfig) *Raytracer {
	t.Helper()
	rt, err := NewRaytracer(scene, width, height, config, NopLogger{})
	if err != nil {
		t.Fatalf("Failed to create raytracer: %v", err)
	}
	return rt
}

func TestNewRaytracer_Validation(t *testing.T) {
	scene := newMockScene(t)

	tests := []struct {
		name          string
		width, height int
		samples       int
		expected      error
	}{
		{"valid", 10, 5, 1, nil},
		{"zero width", 0, 5, 1, ErrInvalidDimensions},
		{"negative height", 10, -1, 1, ErrInvalidDimensions},
		{"zero samples", 10, 5, 0, ErrInvalidSamples},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultSamplingConfig()
			config.SamplesPerPixel = tt.samples
			rt, err := NewRaytracer(scene, tt.width, tt.height, config, nil)
			if tt.expected == nil {
				if err != nil || rt == nil {
					t.Fatalf("Unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.expected) {
				t.Errorf("Expected %v, got %v", tt.expected, err)
			}
		})
	}
}

func TestRaytracer_SamplePixel_Averages(t *testing.T) {
	// Empty world: every sample is background
	scene := newMockScene(t)
	config := DefaultSamplingConfig()
	config.SamplesPerPixel = 4
	rt := newTestRaytracer(t, scene, 200, 100, config)

	ps := rt.SamplePixel(scene.camera, 100, 99, constantSampler(0.5))
	if ps.SampleCount != 4 {
		t.Fatalf("Expected 4 samples, got %d", ps.SampleCount)
	}

	u := 100.5 / 200
	v := 99.5 / 100
	expected := scene.background.At(scene.camera.GetRay(u, v).Direction)
	if !vecNear(ps.GetColor().Vec3(), expected.Vec3()) {
		t.Errorf("Expected average %v, got %v", expected, ps.GetColor())
	}
	if ps.Variance() > 1e-12 {
		t.Errorf("Expected zero variance for identical samples, got %g", ps.Variance())
	}
}

func TestRaytracer_SingleSample(t *testing.T) {
	scene := twoSphereScene(t)
	config := DefaultSamplingConfig()
	config.SamplesPerPixel = 1
	rt := newTestRaytracer(t, scene, 20, 10, config)

	fb, stats, err := rt.RenderPass(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stats.TotalSamples != 200 || stats.AverageSamples != 1 {
		t.Errorf("Expected 200 samples at 1 per pixel, got %+v", stats)
	}
	if len(fb.Pixels) != 200 {
		t.Errorf("Expected 200 pixels, got %d", len(fb.Pixels))
	}
}

func TestRaytracer_RowOrientation(t *testing.T) {
	// Ground sphere only fills the lower half; top row must be sky
	scene := newMockScene(t, geometry.MustSphere(core.NewPoint(0, -100.5, -1), 100))
	config := DefaultSamplingConfig()
	config.SamplesPerPixel = 4
	rt := newTestRaytracer(t, scene, 40, 20, config)

	fb, _, err := rt.RenderPass(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	top := fb.At(20, 0)
	bottom := fb.At(20, fb.Height-1)
	// Sky: blue saturated and dominant; ground normal shading: green dominant
	if top.B != 255 || top.B <= top.R {
		t.Errorf("Expected sky at top row, got %+v", top)
	}
	if bottom.G <= bottom.R || bottom.G <= bottom.B {
		t.Errorf("Expected green-dominant ground at bottom row, got %+v", bottom)
	}
}

func TestRaytracer_BoundaryPixels(t *testing.T) {
	sizes := [][2]int{{1, 1}, {1, 7}, {7, 1}, {3, 2}, {200, 100}}
	// Extreme jitter offsets just below 1 must stay in range too
	samplers := map[string]core.Sampler{
		"zero":     constantSampler(0),
		"near one": constantSampler(math.Nextafter(1, 0)),
	}

	for _, size := range sizes {
		for name, sampler := range samplers {
			scene := twoSphereScene(t)
			config := DefaultSamplingConfig()
			config.SamplesPerPixel = 1
			rt := newTestRaytracer(t, scene, size[0], size[1], config)
			rt.SetSamplerFactory(func(int) core.Sampler { return sampler })

			fb, _, err := rt.RenderPass(context.Background())
			if err != nil {
				t.Fatalf("%dx%d %s: unexpected error: %v", size[0], size[1], name, err)
			}
			_ = fb.At(0, 0)
			_ = fb.At(size[0]-1, size[1]-1)
		}
	}
}

func TestRaytracer_Deterministic(t *testing.T) {
	scene := twoSphereScene(t)
	config := DefaultSamplingConfig()
	config.SamplesPerPixel = 8
	config.Seed = 1234

	render := func(workers int) *Framebuffer {
		c := config
		c.NumWorkers = workers
		rt := newTestRaytracer(t, scene, 50, 25, c)
		fb, _, err := rt.RenderPass(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		return fb
	}

	first := render(1)
	if !first.Equal(render(1)) {
		t.Error("Expected identical output for identical seed")
	}
	if !first.Equal(render(4)) {
		t.Error("Expected identical output regardless of worker count")
	}

	config.Seed = 4321
	other := render(1)
	if first.Equal(other) {
		t.Error("Expected a different seed to change edge pixels")
	}
}

func TestRaytracer_FixedOffsetsReproducible(t *testing.T) {
	scene := twoSphereScene(t)
	config := DefaultSamplingConfig()
	config.SamplesPerPixel = 3

	render := func() *Framebuffer {
		rt := newTestRaytracer(t, scene, 30, 15, config)
		rt.SetSamplerFactory(func(row int) core.Sampler {
			return rand.New(rand.NewSource(int64(row * 31)))
		})
		fb, _, err := rt.RenderPass(context.Background())
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		return fb
	}

	if !render().Equal(render()) {
		t.Error("Expected fixed sample offsets to reproduce identical output")
	}
}

func TestRaytracer_Cancellation(t *testing.T) {
	scene := twoSphereScene(t)

	for _, workers := range []int{1, 3} {
		config := DefaultSamplingConfig()
		config.NumWorkers = workers
		rt := newTestRaytracer(t, scene, 20, 10, config)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		fb, _, err := rt.RenderPass(ctx)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("workers=%d: expected context.Canceled, got %v", workers, err)
		}
		if fb != nil {
			t.Errorf("workers=%d: expected nil framebuffer on cancel", workers)
		}
	}
}

func TestRaytracer_BackgroundRayCount(t *testing.T) {
	scene := newMockScene(t)
	config := DefaultSamplingConfig()
	config.SamplesPerPixel = 2
	rt := newTestRaytracer(t, scene, 4, 3, config)

	_, stats, err := rt.RenderPass(context.Background())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if stats.BackgroundRays != stats.TotalSamples {
		t.Errorf("Expected every sample to miss an empty world, got %d of %d",
			stats.BackgroundRays, stats.TotalSamples)
	}
}

func TestRaytracer_SamplingConvergence(t *testing.T) {
	// A pixel wholly in the background: the estimate converges to the
	// pixel's integral of the gradient as N grows.
	scene := newMockScene(t)
	const width, height = 20, 10
	i, j := 3, 8

	// Reference mean from a dense stratified grid over the pixel
	var ref PixelStats
	const grid = 200
	for a := 0; a < grid; a++ {
		for b := 0; b < grid; b++ {
			u := (float64(i) + (float64(a)+0.5)/grid) / width
			v := (float64(j) + (float64(b)+0.5)/grid) / height
			ref.AddSample(scene.background.At(scene.camera.GetRay(u, v).Direction))
		}
	}
	reference := ref.GetColor().Luminance()

	meanError := func(samples int) float64 {
		config := DefaultSamplingConfig()
		config.SamplesPerPixel = samples
		rt := newTestRaytracer(t, scene, width, height, config)
		const trials = 100
		var total float64
		for trial := 0; trial < trials; trial++ {
			sampler := rand.New(rand.NewSource(int64(trial + 1)))
			ps := rt.SamplePixel(scene.camera, i, j, sampler)
			total += math.Abs(ps.GetColor().Luminance() - reference)
		}
		return total / trials
	}

	e1 := meanError(1)
	e16 := meanError(16)
	e256 := meanError(256)

	// Expected 1/sqrt(N) scaling gives ratios of 4; allow generous slack
	if !(e16 < e1/2) {
		t.Errorf("Expected error to shrink from N=1 (%g) to N=16 (%g)", e1, e16)
	}
	if !(e256 < e16/2) {
		t.Errorf("Expected error to shrink from N=16 (%g) to N=256 (%g)", e16, e256)
	}
}
