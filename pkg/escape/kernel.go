// Package escape counts how many iterations a point takes to leave the
// radius-2 disk under a fractal's recurrence.
package escape

import "github.com/willbeason/escape-fractal/pkg/transforms"

const (
	// Radius is the escape radius shared by every family.
	Radius = 2.0

	radiusSquared = Radius * Radius
)

// A Kernel maps a point of the complex plane to its escape iteration.
//
// Compute returns the iteration at which |z| exceeded Radius, or 0 if the
// orbit stayed bounded for maxIterations steps. A seed that starts outside
// the radius also yields 0.
type Kernel interface {
	Compute(maxIterations uint32, z complex128) uint32
}

func normSquared(z complex128) float64 {
	return real(z)*real(z) + imag(z)*imag(z)
}

func escaped(n uint32, z complex128) uint32 {
	if normSquared(z) > radiusSquared {
		return n
	}
	return 0
}

// Mandelbrot iterates from z₀ = 0 with the sampled point as c.
type Mandelbrot struct{}

func (Mandelbrot) Compute(maxIterations uint32, c complex128) uint32 {
	step := transforms.Mandelbrot{}

	var z complex128
	n := uint32(0)
	for normSquared(z) <= radiusSquared && n < maxIterations {
		z = step.Next(z, c)
		n++
	}

	return escaped(n, z)
}

// Julia iterates from the sampled point with a fixed constant C.
type Julia struct {
	C complex128
}

func (j Julia) Compute(maxIterations uint32, z complex128) uint32 {
	step := transforms.Julia2{C: j.C}

	n := uint32(0)
	for normSquared(z) <= radiusSquared && n < maxIterations {
		z = step.Next(z)
		n++
	}

	return escaped(n, z)
}

// BurningShip is Mandelbrot with both components folded to be non-negative
// before each squaring.
type BurningShip struct{}

func (BurningShip) Compute(maxIterations uint32, c complex128) uint32 {
	step := transforms.BurningShip{}

	var z complex128
	n := uint32(0)
	for normSquared(z) <= radiusSquared && n < maxIterations {
		z = step.Next(z, c)
		n++
	}

	return escaped(n, z)
}

var (
	_ Kernel = Mandelbrot{}
	_ Kernel = Julia{}
	_ Kernel = BurningShip{}
)
