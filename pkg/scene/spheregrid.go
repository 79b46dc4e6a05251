package scene

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
	"github.com/df07/go-sphere-raytracer/pkg/renderer"
)

var groundCenter = core.NewPoint(0, -100.5, -1)

const groundRadius = 100.0

// NewSphereGridScene creates a scene with a grid of small spheres resting
// on the ground sphere
func NewSphereGridScene() *Scene {
	// Eye raised slightly and pulled back so the whole grid fits
	cameraConfig := renderer.NewViewportCameraConfig(core.NewPoint(0, 0.25, 1), 4, 2, 1)

	s := &Scene{
		Name:         SphereGridSceneID,
		Camera:       mustCamera(cameraConfig),
		CameraConfig: cameraConfig,
		World:        geometry.NewHittableList(geometry.MustSphere(groundCenter, groundRadius)),
		Background:   renderer.DefaultBackground(),
		SamplingConfig: SamplingConfig{
			Width:           400,
			Height:          200,
			SamplesPerPixel: 50,
		},
	}

	gridSize := 7
	targetArea := 3.0 // Grid spans 3x3 units around the look-at column
	spacing := targetArea / float64(gridSize-1)

	// Scale sphere radius based on spacing, but keep reasonable minimum/maximum
	sphereRadius := math.Max(0.02, math.Min(0.25, spacing*0.35))

	for i := 0; i < gridSize; i++ {
		for j := 0; j < gridSize; j++ {
			x := float64(i)*spacing - targetArea/2.0
			z := -float64(j)*spacing - 1.0 // Rows recede from z = -1
			s.World.Add(geometry.MustSphere(restingOnGround(x, z, sphereRadius), sphereRadius))
		}
	}

	return s
}

// restingOnGround places a sphere of the given radius at (x, z) so that it
// touches the top of the ground sphere
func restingOnGround(x, z, radius float64) core.Point {
	dx := x - groundCenter.X
	dz := z - groundCenter.Z
	reach := groundRadius + radius
	y := groundCenter.Y + math.Sqrt(reach*reach-dx*dx-dz*dz)
	return core.NewPoint(x, y, z)
}
