package renderer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

func TestQuantize(t *testing.T) {
	tests := []struct {
		name     string
		color    core.Color
		expected RGB8
	}{
		{"black", core.NewColor(0, 0, 0), RGB8{0, 0, 0}},
		{"white", core.NewColor(1, 1, 1), RGB8{255, 255, 255}},
		{"half", core.NewColor(0.5, 0.5, 0.5), RGB8{127, 127, 127}},
		{"sky", core.NewColor(0.5, 0.7, 1.0), RGB8{127, 179, 255}},
		{"overflow clamps", core.NewColor(1.5, 2, 100), RGB8{255, 255, 255}},
		{"negative clamps", core.NewColor(-0.5, -1, 0), RGB8{0, 0, 0}},
		{"truncation", core.NewColor(math.Nextafter(1, 0), 0.999, 0.001), RGB8{255, 255, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Quantize(tt.color); got != tt.expected {
				t.Errorf("Expected %+v, got %+v", tt.expected, got)
			}
		})
	}
}

func TestFramebuffer_RowMajorTopFirst(t *testing.T) {
	fb := NewFramebuffer(3, 2)
	fb.Set(2, 0, RGB8{1, 2, 3})
	fb.Row(1)[0] = RGB8{4, 5, 6}

	if fb.Pixels[2] != (RGB8{1, 2, 3}) {
		t.Errorf("Expected (2,0) at index 2, got %+v", fb.Pixels)
	}
	if fb.Pixels[3] != (RGB8{4, 5, 6}) {
		t.Errorf("Expected row 1 to start at index 3, got %+v", fb.Pixels)
	}
}

func TestFramebuffer_ImageRoundTrip(t *testing.T) {
	fb := NewFramebuffer(2, 2)
	fb.Set(0, 0, RGB8{255, 0, 0})
	fb.Set(1, 1, RGB8{10, 20, 30})

	img := fb.ToRGBA()
	if got := img.RGBAAt(1, 1); got != (color.RGBA{10, 20, 30, 255}) {
		t.Errorf("Expected opaque (10,20,30), got %v", got)
	}

	back := FromImage(img)
	if !fb.Equal(back) {
		t.Errorf("Expected round trip through image.RGBA to be lossless")
	}
}

func TestFromImage_OffsetBounds(t *testing.T) {
	img := image.NewRGBA(image.Rect(5, 5, 7, 6))
	img.SetRGBA(5, 5, color.RGBA{9, 8, 7, 255})

	fb := FromImage(img)
	if fb.Width != 2 || fb.Height != 1 {
		t.Fatalf("Expected 2x1, got %dx%d", fb.Width, fb.Height)
	}
	if fb.At(0, 0) != (RGB8{9, 8, 7}) {
		t.Errorf("Expected (9,8,7) at origin, got %+v", fb.At(0, 0))
	}
}
