package scene

import (
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/loaders"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// NewSceneFromFile creates a scene from a .scene file
func NewSceneFromFile(path string) (*Scene, error) {
	desc, err := loaders.LoadSceneFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load scene file: %w", err)
	}

	s, err := FromDescription(desc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// FromDescription converts a parsed scene file. Anything the file leaves
// out is taken from the default scene.
func FromDescription(desc *loaders.SceneDescription) (*Scene, error) {
	defaults := NewDefaultScene()

	name := desc.Name
	if name == "" {
		name = "file"
	}

	cameraConfig := defaults.CameraConfig
	switch {
	case desc.Camera != nil:
		cameraConfig = renderer.CameraConfig{
			Origin:          desc.Camera.Origin,
			LowerLeftCorner: desc.Camera.LowerLeftCorner,
			Horizontal:      desc.Camera.Horizontal,
			Vertical:        desc.Camera.Vertical,
		}
	case desc.Viewport != nil:
		cameraConfig = renderer.NewViewportCameraConfig(desc.Viewport.Origin,
			desc.Viewport.Width, desc.Viewport.Height, desc.Viewport.FocalLength)
	}

	background := defaults.Background
	if desc.Background != nil {
		background = renderer.Background{Top: desc.Background.Top, Bottom: desc.Background.Bottom}
	}

	sampling := defaults.SamplingConfig
	if desc.Width > 0 {
		sampling.Width = desc.Width
	}
	if desc.Height > 0 {
		sampling.Height = desc.Height
	}
	if desc.Samples > 0 {
		sampling.SamplesPerPixel = desc.Samples
	}

	s, err := NewScene(name, cameraConfig, background, sampling)
	if err != nil {
		return nil, err
	}

	for _, sphere := range desc.Spheres {
		if err := s.AddSphere(sphere.Center, sphere.Radius); err != nil {
			return nil, fmt.Errorf("line %d: %w", sphere.Line, err)
		}
	}

	return s, nil
}
