package renderer

import (
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/df07/go-sphere-raytracer/pkg/geometry"
)

// Background is a vertical gradient from Bottom (straight down) to Top (straight up)
type Background struct {
	Top    core.Color
	Bottom core.Color
}

// DefaultBackground returns the white-to-sky-blue gradient
func DefaultBackground() Background {
	return Background{
		Top:    core.NewColor(0.5, 0.7, 1.0),
		Bottom: core.NewColor(1.0, 1.0, 1.0),
	}
}

// At returns the gradient color for a ray direction
func (b Background) At(direction core.Vec3) core.Color {
	// Map unit y from [-1,1] to [0,1]
	t := 0.5 * (direction.Normalize().Y + 1.0)
	return b.Bottom.Lerp(b.Top, t)
}

// RayColor shades a single ray: hits by their normal, misses by the background
func RayColor(ray core.Ray, world geometry.Shape, background Background) core.Color {
	color, _ := shade(ray, world, background)
	return color
}

// shade is RayColor that also reports whether the ray struck a shape
func shade(ray core.Ray, world geometry.Shape, background Background) (core.Color, bool) {
	if hit, isHit := world.Hit(ray, 0, math.Inf(1)); isHit {
		return NormalColor(hit.Normal), true
	}
	return background.At(ray.Direction), false
}

// NormalColor maps each normal component from [-1,1] to [0,1]
func NormalColor(normal core.Vec3) core.Color {
	return core.Color(normal.AddScalar(1).Multiply(0.5))
}
