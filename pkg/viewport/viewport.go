// Package viewport maps grid cells onto a rectangle of the complex plane.
package viewport

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrInvertedViewport  = errors.New("upper-left corner must be above and left of lower-right corner")
	ErrNonFiniteViewport = errors.New("viewport corners must be finite")
)

// A Viewport is the rectangle between two corners of the complex plane.
type Viewport struct {
	UpperLeft  complex128
	LowerRight complex128
}

func finite(z complex128) bool {
	return !math.IsNaN(real(z)) && !math.IsInf(real(z), 0) &&
		!math.IsNaN(imag(z)) && !math.IsInf(imag(z), 0)
}

func (v Viewport) Validate() error {
	if !finite(v.UpperLeft) || !finite(v.LowerRight) {
		return fmt.Errorf("%w: %v %v", ErrNonFiniteViewport, v.UpperLeft, v.LowerRight)
	}
	if imag(v.UpperLeft) < imag(v.LowerRight) || real(v.UpperLeft) > real(v.LowerRight) {
		return fmt.Errorf("%w: %v %v", ErrInvertedViewport, v.UpperLeft, v.LowerRight)
	}
	return nil
}

// Width is the span of the real axis.
func (v Viewport) Width() float64 {
	return real(v.LowerRight) - real(v.UpperLeft)
}

// Height is the span of the imaginary axis.
func (v Viewport) Height() float64 {
	return imag(v.UpperLeft) - imag(v.LowerRight)
}

func (v Viewport) String() string {
	return fmt.Sprintf("[%v, %v]", v.UpperLeft, v.LowerRight)
}

// A Mapper converts cells of a rows × columns grid into points of a Viewport.
// Row 0 is the top edge and column 0 the left edge.
type Mapper struct {
	top, left float64
	dIm, dRe  float64
}

// Mapper precomputes the per-cell step for a grid of the given size.
// A single row sits on the top edge and a single column on the left edge.
func (v Viewport) Mapper(rows, columns int) Mapper {
	m := Mapper{
		top:  imag(v.UpperLeft),
		left: real(v.UpperLeft),
	}
	if rows > 1 {
		m.dIm = v.Height() / float64(rows-1)
	}
	if columns > 1 {
		m.dRe = v.Width() / float64(columns-1)
	}
	return m
}

func (m Mapper) Point(row, column int) complex128 {
	return complex(m.left+float64(column)*m.dRe, m.top-float64(row)*m.dIm)
}

// Point maps a single cell. Prefer Mapper when mapping many cells of one grid.
func (v Viewport) Point(row, column, rows, columns int) complex128 {
	return v.Mapper(rows, columns).Point(row, column)
}

// Finite reports whether both parts of z are finite numbers.
func Finite(z complex128) bool {
	return finite(z)
}
