package transforms

// Mandelbrot iterates z² + c where c is the sampled point.
type Mandelbrot struct{}

func (Mandelbrot) Next(z complex128, c complex128) complex128 {
	return z*z + c
}
