package loaders

import (
	"fmt"

	"github.com/disintegration/imaging"

	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// LoadImage loads a PNG, JPEG, GIF, BMP or TIFF image into a framebuffer.
// PPM files go through LoadPPM instead.
func LoadImage(filename string) (*renderer.Framebuffer, error) {
	img, err := imaging.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open image file: %w", err)
	}
	return renderer.FromImage(img), nil
}
