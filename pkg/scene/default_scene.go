package scene

import (
	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

// NewDefaultScene creates the two-sphere scene: a unit-diameter sphere
// resting on a large ground sphere, seen through the default viewport
func NewDefaultScene() *Scene {
	return &Scene{
		Name:         DefaultSceneID,
		Camera:       mustCamera(renderer.DefaultCameraConfig()),
		CameraConfig: renderer.DefaultCameraConfig(),
		World: geometry.NewHittableList(
			geometry.MustSphere(core.NewPoint(0, 0, -1), 0.5),
			geometry.MustSphere(core.NewPoint(0, -100.5, -1), 100), // ground
		),
		Background: renderer.DefaultBackground(),
		SamplingConfig: SamplingConfig{
			Width:           200,
			Height:          100,
			SamplesPerPixel: 100,
		},
	}
}

// NewEmptyScene creates a scene with nothing but sky
func NewEmptyScene() *Scene {
	return &Scene{
		Name:         EmptySceneID,
		Camera:       mustCamera(renderer.DefaultCameraConfig()),
		CameraConfig: renderer.DefaultCameraConfig(),
		World:        geometry.NewHittableList(),
		Background:   renderer.DefaultBackground(),
		SamplingConfig: SamplingConfig{
			Width:           200,
			Height:          100,
			SamplesPerPixel: 10,
		},
	}
}

// mustCamera is for built-in viewports, which are known to be valid
func mustCamera(config renderer.CameraConfig) *renderer.Camera {
	camera, err := renderer.NewCamera(config)
	if err != nil {
		panic(err)
	}
	return camera
}
