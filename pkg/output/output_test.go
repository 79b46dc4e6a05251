package output

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/df07/go-sphere-raytracer/pkg/loaders"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

func testFramebuffer() *renderer.Framebuffer {
	fb := renderer.NewFramebuffer(4, 2)
	for i := range fb.Pixels {
		fb.Pixels[i] = renderer.RGB8{R: uint8(i * 30), G: uint8(255 - i), B: 127}
	}
	return fb
}

func TestWritePPM_Format(t *testing.T) {
	fb := renderer.NewFramebuffer(2, 1)
	fb.Set(0, 0, renderer.RGB8{R: 127, G: 179, B: 255})
	fb.Set(1, 0, renderer.RGB8{R: 1, G: 2, B: 3})

	var buf bytes.Buffer
	if err := WritePPM(&buf, fb); err != nil {
		t.Fatalf("Failed to write PPM: %v", err)
	}

	expected := "P3\n2 1\n255\n127 179 255\n1 2 3\n"
	if buf.String() != expected {
		t.Errorf("Expected %q, got %q", expected, buf.String())
	}
}

func TestWritePPM_RoundTrip(t *testing.T) {
	fb := testFramebuffer()

	var buf bytes.Buffer
	if err := WritePPM(&buf, fb); err != nil {
		t.Fatalf("Failed to write PPM: %v", err)
	}
	lines := strings.Count(buf.String(), "\n")
	if lines != 3+len(fb.Pixels) {
		t.Errorf("Expected %d lines, got %d", 3+len(fb.Pixels), lines)
	}

	back, err := loaders.ReadPPM(&buf)
	if err != nil {
		t.Fatalf("Failed to read PPM back: %v", err)
	}
	if !fb.Equal(back) {
		t.Error("Expected round trip to preserve pixels")
	}
}

func TestSave(t *testing.T) {
	fb := testFramebuffer()
	dir := filepath.Join(t.TempDir(), "nested", "dir")

	ppmPath := filepath.Join(dir, "render.ppm")
	if err := Save(ppmPath, fb); err != nil {
		t.Fatalf("Failed to save PPM: %v", err)
	}
	back, err := loaders.LoadPPM(ppmPath)
	if err != nil {
		t.Fatalf("Failed to load PPM: %v", err)
	}
	if !fb.Equal(back) {
		t.Error("PPM on disk does not match framebuffer")
	}

	pngPath := filepath.Join(dir, "render.png")
	if err := Save(pngPath, fb); err != nil {
		t.Fatalf("Failed to save PNG: %v", err)
	}
	back, err = loaders.LoadImage(pngPath)
	if err != nil {
		t.Fatalf("Failed to load PNG: %v", err)
	}
	if !fb.Equal(back) {
		t.Error("PNG on disk does not match framebuffer")
	}
}

func TestSave_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "render.xyz")
	if err := Save(path, testFramebuffer()); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("Expected no file for unsupported format")
	}
}

func TestEncode(t *testing.T) {
	fb := testFramebuffer()

	data, contentType, err := Encode(fb, "png")
	if err != nil {
		t.Fatalf("Failed to encode PNG: %v", err)
	}
	if contentType != "image/png" {
		t.Errorf("Expected image/png, got %s", contentType)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Encoded data is not a PNG: %v", err)
	}
	if !fb.Equal(renderer.FromImage(img)) {
		t.Error("Decoded PNG does not match framebuffer")
	}

	data, contentType, err = Encode(fb, "ppm")
	if err != nil {
		t.Fatalf("Failed to encode PPM: %v", err)
	}
	if contentType != "image/x-portable-pixmap" || !bytes.HasPrefix(data, []byte("P3\n")) {
		t.Errorf("Unexpected PPM encoding %s %q", contentType, data[:8])
	}

	if _, _, err := Encode(fb, "webp"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("Expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestCheckFormat(t *testing.T) {
	for _, format := range []string{"png", "jpeg", "jpg", "gif", "ppm", "PPM", "PNG"} {
		if err := CheckFormat(format); err != nil {
			t.Errorf("%s: unexpected error %v", format, err)
		}
	}
	for _, format := range []string{"webp", "bogus", ""} {
		if err := CheckFormat(format); !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("%q: expected ErrUnsupportedFormat, got %v", format, err)
		}
	}
}

func TestThumbnail(t *testing.T) {
	fb := renderer.NewFramebuffer(200, 100)
	thumb := Thumbnail(fb, 50, 50)
	bounds := thumb.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 25 {
		t.Errorf("Expected 50x25 thumbnail, got %dx%d", bounds.Dx(), bounds.Dy())
	}

	small := Thumbnail(renderer.NewFramebuffer(10, 5), 50, 50)
	if small.Bounds().Dx() != 10 {
		t.Errorf("Expected small image to keep its size, got %d", small.Bounds().Dx())
	}
}

func TestThumbnailPath(t *testing.T) {
	tests := map[string]string{
		"output/default/render.ppm": "output/default/render_thumb.png",
		"out.png":                   "out_thumb.png",
		"a/b.jpg":                   "a/b_thumb.jpg",
	}
	for in, expected := range tests {
		if got := ThumbnailPath(in); got != expected {
			t.Errorf("ThumbnailPath(%q): expected %q, got %q", in, expected, got)
		}
	}
}
