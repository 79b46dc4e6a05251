package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

var (
	// ErrInvalidRadius is returned for a sphere radius that is not a positive finite number
	ErrInvalidRadius = errors.New("sphere radius must be positive and finite")
	// ErrInvalidCenter is returned for a sphere center with NaN or infinite components
	ErrInvalidCenter = errors.New("sphere center must be finite")
)

// Sphere represents a sphere shape
type Sphere struct {
	Center core.Point
	Radius float64
}

// NewSphere creates a new sphere
func NewSphere(center core.Point, radius float64) (*Sphere, error) {
	if !center.Vec3().IsFinite() {
		return nil, fmt.Errorf("center %v: %w", center, ErrInvalidCenter)
	}
	if !(radius > 0) || math.IsInf(radius, 1) {
		return nil, fmt.Errorf("radius %v: %w", radius, ErrInvalidRadius)
	}
	return &Sphere{
		Center: center,
		Radius: radius,
	}, nil
}

// MustSphere is like NewSphere but panics on invalid input.
// Intended for built-in scenes with constant geometry.
func MustSphere(center core.Point, radius float64) *Sphere {
	s, err := NewSphere(center, radius)
	if err != nil {
		panic(err)
	}
	return s
}

// Hit tests if a ray intersects with the sphere
func (s *Sphere) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	// Vector from sphere center to ray origin
	oc := ray.Origin.Sub(s.Center)

	// Quadratic equation coefficients: at² + 2bt + c = 0
	a := ray.Direction.Dot(ray.Direction)
	b := ray.Direction.Dot(oc)
	c := oc.Dot(oc) - s.Radius*s.Radius

	discriminant := b*b - a*c

	// Tangent rays (discriminant == 0) count as misses
	if discriminant <= 0 {
		return nil, false
	}

	sqrtD := math.Sqrt(discriminant)

	// Nearer root first; the first one inside the interval wins
	for _, root := range [2]float64{(-b - sqrtD) / a, (-b + sqrtD) / a} {
		if root > tMin && root < tMax {
			point := ray.At(root)
			return &HitRecord{
				T:      root,
				Point:  point,
				Normal: point.Sub(s.Center).Divide(s.Radius),
			}, true
		}
	}

	return nil, false
}
