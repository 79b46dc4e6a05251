package core

// Point is a location in world space
type Point Vec3

// NewPoint creates a new Point
func NewPoint(x, y, z float64) Point {
	return Point{X: x, Y: y, Z: z}
}

// Vec3 returns the point as a plain vector
func (p Point) Vec3() Vec3 {
	return Vec3(p)
}

// Offset returns the point moved by d
func (p Point) Offset(d Vec3) Point {
	return Point(Vec3(p).Add(d))
}

// Sub returns the displacement from other to p
func (p Point) Sub(other Point) Vec3 {
	return Vec3(p).Subtract(Vec3(other))
}

// Color is a linear RGB triple, nominally in [0,1] per channel
type Color Vec3

// NewColor creates a new Color
func NewColor(r, g, b float64) Color {
	return Color{X: r, Y: g, Z: b}
}

// R returns the red channel
func (c Color) R() float64 { return c.X }

// G returns the green channel
func (c Color) G() float64 { return c.Y }

// B returns the blue channel
func (c Color) B() float64 { return c.Z }

// Vec3 returns the color as a plain vector
func (c Color) Vec3() Vec3 {
	return Vec3(c)
}

// Add returns the channel-wise sum of two colors
func (c Color) Add(other Color) Color {
	return Color(Vec3(c).Add(Vec3(other)))
}

// Multiply returns the color scaled by a scalar
func (c Color) Multiply(scalar float64) Color {
	return Color(Vec3(c).Multiply(scalar))
}

// Lerp linearly interpolates from c (t = 0) to other (t = 1)
func (c Color) Lerp(other Color, t float64) Color {
	return c.Multiply(1.0 - t).Add(other.Multiply(t))
}

// Luminance returns the perceptual luminance of the color
func (c Color) Luminance() float64 {
	return Vec3(c).Luminance()
}
