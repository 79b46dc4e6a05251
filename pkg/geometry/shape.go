package geometry

import "github.com/df07/go-sphere-raytracer/pkg/core"

// HitRecord contains information about a ray-object intersection
type HitRecord struct {
	T      float64    // Parameter t along the ray
	Point  core.Point // Point of intersection
	Normal core.Vec3  // Outward surface normal at intersection
}

// Shape interface for objects that can be hit by rays.
// Hit reports the nearest intersection with t strictly inside (tMin, tMax).
type Shape interface {
	Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool)
}
