package geometry

import "github.com/df07/go-sphere-raytracer/pkg/core"

// HittableList is an ordered collection of shapes that is itself a Shape
type HittableList struct {
	shapes []Shape
}

// NewHittableList creates a list holding the given shapes
func NewHittableList(shapes ...Shape) *HittableList {
	l := &HittableList{shapes: make([]Shape, 0, len(shapes))}
	for _, s := range shapes {
		l.Add(s)
	}
	return l
}

// Add appends a shape to the list
func (l *HittableList) Add(shape Shape) {
	l.shapes = append(l.shapes, shape)
}

// Len returns the number of shapes in the list
func (l *HittableList) Len() int {
	return len(l.shapes)
}

// Shapes returns a copy of the member shapes in insertion order
func (l *HittableList) Shapes() []Shape {
	out := make([]Shape, len(l.shapes))
	copy(out, l.shapes)
	return out
}

// Hit returns the closest intersection among all members
func (l *HittableList) Hit(ray core.Ray, tMin, tMax float64) (*HitRecord, bool) {
	var closestHit *HitRecord
	closestSoFar := tMax

	for _, shape := range l.shapes {
		if hit, isHit := shape.Hit(ray, tMin, closestSoFar); isHit {
			closestSoFar = hit.T
			closestHit = hit
		}
	}

	return closestHit, closestHit != nil
}
