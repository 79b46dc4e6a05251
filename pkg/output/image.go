package output

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// ErrUnsupportedFormat is returned for an output extension with no encoder
var ErrUnsupportedFormat = errors.New("unsupported output format")

// Save writes the framebuffer to path; the extension picks the format.
// ".ppm" writes a P3 pixmap, anything imaging can encode (".png", ".jpg",
// ".gif", ".bmp", ".tif") goes through imaging.
func Save(path string, fb *renderer.Framebuffer) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	if strings.EqualFold(filepath.Ext(path), ".ppm") {
		file, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create file: %w", err)
		}
		if err := WritePPM(file, fb); err != nil {
			file.Close()
			return err
		}
		return file.Close()
	}

	return SaveImage(path, fb.ToRGBA())
}

// SaveImage encodes img with the format implied by the path extension
func SaveImage(path string, img image.Image) error {
	if _, err := imaging.FormatFromFilename(path); err != nil {
		return fmt.Errorf("%s: %w", filepath.Ext(path), ErrUnsupportedFormat)
	}
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// CheckFormat reports whether Encode can produce format
func CheckFormat(format string) error {
	if strings.EqualFold(format, "ppm") {
		return nil
	}
	if _, err := imaging.FormatFromExtension(format); err != nil {
		return fmt.Errorf("%s: %w", format, ErrUnsupportedFormat)
	}
	return nil
}

// Encode writes the framebuffer in the named format ("png", "jpeg", ...)
// to memory, for uploads and HTTP responses
func Encode(fb *renderer.Framebuffer, format string) ([]byte, string, error) {
	var buf bytes.Buffer

	if strings.EqualFold(format, "ppm") {
		if err := WritePPM(&buf, fb); err != nil {
			return nil, "", err
		}
		return buf.Bytes(), "image/x-portable-pixmap", nil
	}

	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", format, ErrUnsupportedFormat)
	}
	if err := imaging.Encode(&buf, fb.ToRGBA(), f); err != nil {
		return nil, "", fmt.Errorf("failed to encode image: %w", err)
	}
	return buf.Bytes(), "image/" + strings.ToLower(f.String()), nil
}

// Thumbnail downscales the framebuffer to fit within maxWidth x maxHeight,
// preserving aspect ratio. Images already small enough are returned as is.
func Thumbnail(fb *renderer.Framebuffer, maxWidth, maxHeight int) image.Image {
	return resize.Thumbnail(uint(maxWidth), uint(maxHeight), fb.ToRGBA(), resize.Bilinear)
}

// ThumbnailPath derives "<name>_thumb<ext>" next to path
func ThumbnailPath(path string) string {
	ext := filepath.Ext(path)
	if strings.EqualFold(ext, ".ppm") {
		// Thumbnails are always written through imaging
		ext = ".png"
	}
	return strings.TrimSuffix(path, filepath.Ext(path)) + "_thumb" + ext
}
