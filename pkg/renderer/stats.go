package renderer

import (
	"math"
	"time"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// RenderStats contains statistics about the rendering process
type RenderStats struct {
	TotalPixels     int           // Total number of pixels rendered
	TotalSamples    int           // Total number of samples taken
	AverageSamples  float64       // Average samples per pixel
	SamplesPerPixel int           // Configured samples per pixel
	BackgroundRays  int           // Samples that missed every shape
	Workers         int           // Number of workers used
	Elapsed         time.Duration // Wall time of the pass
}

// PixelStats tracks sampling statistics for a single pixel
type PixelStats struct {
	ColorAccum       core.Vec3 // RGB accumulator for final result
	LuminanceAccum   float64   // Luminance accumulator for convergence
	LuminanceSqAccum float64   // Luminance squared for variance
	SampleCount      int       // Number of samples taken
}

// AddSample adds a new color sample to the pixel statistics
func (ps *PixelStats) AddSample(color core.Color) {
	ps.ColorAccum.AddAssign(color.Vec3())
	luminance := color.Luminance()
	ps.LuminanceAccum += luminance
	ps.LuminanceSqAccum += luminance * luminance
	ps.SampleCount++
}

// GetColor returns the current average color for this pixel
func (ps *PixelStats) GetColor() core.Color {
	if ps.SampleCount == 0 {
		return core.Color{}
	}
	return core.Color(ps.ColorAccum.Divide(float64(ps.SampleCount)))
}

// Variance returns the sample variance of the luminance
func (ps *PixelStats) Variance() float64 {
	if ps.SampleCount < 2 {
		return 0
	}
	n := float64(ps.SampleCount)
	mean := ps.LuminanceAccum / n
	// Bessel-corrected; clamp rounding noise below zero
	return math.Max(0, (ps.LuminanceSqAccum-n*mean*mean)/(n-1))
}

// StandardError returns the standard error of the mean luminance
func (ps *PixelStats) StandardError() float64 {
	if ps.SampleCount == 0 {
		return 0
	}
	return math.Sqrt(ps.Variance() / float64(ps.SampleCount))
}

// CalculateAverageLuminance returns the mean luminance of a framebuffer in [0,1]
func CalculateAverageLuminance(fb *Framebuffer) float64 {
	if fb == nil || len(fb.Pixels) == 0 {
		return 0
	}
	var total float64
	for _, p := range fb.Pixels {
		total += core.NewColor(float64(p.R)/255, float64(p.G)/255, float64(p.B)/255).Luminance()
	}
	return total / float64(len(fb.Pixels))
}
