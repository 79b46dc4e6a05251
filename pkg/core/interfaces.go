package core

// Logger interface for raytracer logging
type Logger interface {
	Printf(format string, args ...interface{})
}

// Sampler is a source of uniform random numbers in [0,1).
// *rand.Rand satisfies it.
type Sampler interface {
	Float64() float64
}
