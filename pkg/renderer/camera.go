package renderer

import (
	"errors"
	"fmt"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

var (
	// ErrDegenerateViewport is returned when the viewport spans cannot form a rectangle
	ErrDegenerateViewport = errors.New("viewport spans must be non-zero and not parallel")
	// ErrInvalidCamera is returned for non-finite camera vectors or an eye in the viewport plane
	ErrInvalidCamera = errors.New("invalid camera")
)

// CameraConfig describes an axis-aligned viewport in front of an eye point
type CameraConfig struct {
	Origin          core.Point // Eye position
	LowerLeftCorner core.Point // Lower-left corner of the viewport
	Horizontal      core.Vec3  // Full width span of the viewport
	Vertical        core.Vec3  // Full height span of the viewport
}

// DefaultCameraConfig returns the classic 4x2 viewport one unit down -z
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Origin:          core.NewPoint(0, 0, 0),
		LowerLeftCorner: core.NewPoint(-2, -1, -1),
		Horizontal:      core.NewVec3(4, 0, 0),
		Vertical:        core.NewVec3(0, 2, 0),
	}
}

// NewViewportCameraConfig centers a viewportWidth x viewportHeight viewport
// focalLength units down -z from origin
func NewViewportCameraConfig(origin core.Point, viewportWidth, viewportHeight, focalLength float64) CameraConfig {
	horizontal := core.NewVec3(viewportWidth, 0, 0)
	vertical := core.NewVec3(0, viewportHeight, 0)
	lowerLeftCorner := origin.
		Offset(horizontal.Multiply(-0.5)).
		Offset(vertical.Multiply(-0.5)).
		Offset(core.NewVec3(0, 0, -focalLength))

	return CameraConfig{
		Origin:          origin,
		LowerLeftCorner: lowerLeftCorner,
		Horizontal:      horizontal,
		Vertical:        vertical,
	}
}

// Camera generates rays for rendering
type Camera struct {
	origin          core.Point
	lowerLeftCorner core.Point
	horizontal      core.Vec3
	vertical        core.Vec3
}

// NewCamera creates a camera from the given viewport
func NewCamera(config CameraConfig) (*Camera, error) {
	for _, v := range []core.Vec3{config.Origin.Vec3(), config.LowerLeftCorner.Vec3(), config.Horizontal, config.Vertical} {
		if !v.IsFinite() {
			return nil, fmt.Errorf("non-finite vector %v: %w", v, ErrInvalidCamera)
		}
	}

	normal := config.Horizontal.Cross(config.Vertical)
	if normal.IsZero() {
		return nil, fmt.Errorf("horizontal %v, vertical %v: %w",
			config.Horizontal, config.Vertical, ErrDegenerateViewport)
	}

	// Every ray would run parallel to the viewport
	if normal.Dot(config.LowerLeftCorner.Sub(config.Origin)) == 0 {
		return nil, fmt.Errorf("origin %v lies in the viewport plane: %w", config.Origin, ErrInvalidCamera)
	}

	return &Camera{
		origin:          config.Origin,
		lowerLeftCorner: config.LowerLeftCorner,
		horizontal:      config.Horizontal,
		vertical:        config.Vertical,
	}, nil
}

// GetRay generates a ray for screen coordinates (u, v) where 0 <= u,v <= 1
func (c *Camera) GetRay(u, v float64) core.Ray {
	direction := c.lowerLeftCorner.
		Offset(c.horizontal.Multiply(u)).
		Offset(c.vertical.Multiply(v)).
		Sub(c.origin)

	return core.NewRay(c.origin, direction)
}

// Config returns the viewport the camera was built from
func (c *Camera) Config() CameraConfig {
	return CameraConfig{
		Origin:          c.origin,
		LowerLeftCorner: c.lowerLeftCorner,
		Horizontal:      c.horizontal,
		Vertical:        c.vertical,
	}
}
