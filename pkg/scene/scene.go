package scene

import (
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// Scene contains all the elements needed for rendering
type Scene struct {
	Name           string
	Camera         *renderer.Camera
	CameraConfig   renderer.CameraConfig
	World          *geometry.HittableList // Spheres in the scene
	Background     renderer.Background
	SamplingConfig SamplingConfig
}

// SamplingConfig contains the scene's preferred output settings
type SamplingConfig struct {
	Width           int // Image width
	Height          int // Image height
	SamplesPerPixel int // Number of rays per pixel
}

// NewScene creates an empty scene viewed through the given viewport
func NewScene(name string, cameraConfig renderer.CameraConfig, background renderer.Background, sampling SamplingConfig) (*Scene, error) {
	camera, err := renderer.NewCamera(cameraConfig)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}

	return &Scene{
		Name:           name,
		Camera:         camera,
		CameraConfig:   cameraConfig,
		World:          geometry.NewHittableList(),
		Background:     background,
		SamplingConfig: sampling,
	}, nil
}

// AddSphere adds a sphere to the scene
func (s *Scene) AddSphere(center core.Point, radius float64) error {
	sphere, err := geometry.NewSphere(center, radius)
	if err != nil {
		return err
	}
	s.World.Add(sphere)
	return nil
}

// GetCamera returns the scene camera
func (s *Scene) GetCamera() *renderer.Camera { return s.Camera }

// GetBackground returns the sky gradient
func (s *Scene) GetBackground() renderer.Background { return s.Background }

// GetWorld returns everything a ray can hit
func (s *Scene) GetWorld() geometry.Shape { return s.World }

// GetSphereCount returns the number of spheres in the scene
func (s *Scene) GetSphereCount() int {
	return s.World.Len()
}
