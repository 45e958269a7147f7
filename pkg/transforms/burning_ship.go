package transforms

import "math"

// BurningShip folds z into the first quadrant before squaring.
type BurningShip struct{}

func (BurningShip) Next(z complex128, c complex128) complex128 {
	z = complex(math.Abs(real(z)), math.Abs(imag(z)))
	return z*z + c
}
