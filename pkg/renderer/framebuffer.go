package renderer

import (
	"image"
	"image/color"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// MaxChannelValue is the largest quantized channel value
const MaxChannelValue = 255

// RGB8 is a quantized output pixel
type RGB8 struct {
	R, G, B uint8
}

// Quantize converts a linear color to 8-bit channels.
// Each channel is clamped to [0,1] and truncated from c*255.99, so the
// result never exceeds MaxChannelValue.
func Quantize(c core.Color) RGB8 {
	clamped := c.Vec3().Clamp(0.0, 1.0)
	return RGB8{
		R: uint8(255.99 * clamped.X),
		G: uint8(255.99 * clamped.Y),
		B: uint8(255.99 * clamped.Z),
	}
}

// Framebuffer holds quantized pixels in row-major order, top row first
type Framebuffer struct {
	Width  int
	Height int
	Pixels []RGB8
}

// NewFramebuffer allocates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]RGB8, width*height),
	}
}

// At returns the pixel at column x, row y (y = 0 is the top row)
func (fb *Framebuffer) At(x, y int) RGB8 {
	return fb.Pixels[y*fb.Width+x]
}

// Set stores the pixel at column x, row y
func (fb *Framebuffer) Set(x, y int, p RGB8) {
	fb.Pixels[y*fb.Width+x] = p
}

// Row returns the pixels of row y; writes go to the framebuffer
func (fb *Framebuffer) Row(y int) []RGB8 {
	return fb.Pixels[y*fb.Width : (y+1)*fb.Width]
}

// Equal reports whether two framebuffers have the same size and pixels
func (fb *Framebuffer) Equal(other *Framebuffer) bool {
	if fb.Width != other.Width || fb.Height != other.Height || len(fb.Pixels) != len(other.Pixels) {
		return false
	}
	for i := range fb.Pixels {
		if fb.Pixels[i] != other.Pixels[i] {
			return false
		}
	}
	return true
}

// ToRGBA converts the framebuffer to an opaque image
func (fb *Framebuffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			p := fb.At(x, y)
			img.SetRGBA(x, y, color.RGBA{R: p.R, G: p.G, B: p.B, A: 255})
		}
	}
	return img
}

// FromImage quantizes any image into a framebuffer, dropping alpha
func FromImage(img image.Image) *Framebuffer {
	bounds := img.Bounds()
	fb := NewFramebuffer(bounds.Dx(), bounds.Dy())
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			r, g, b, _ := img.At(x+bounds.Min.X, y+bounds.Min.Y).RGBA()
			// RGBA returns uint32 in [0, 65535]
			fb.Set(x, y, RGB8{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)})
		}
	}
	return fb
}
