// Package band splits a render into horizontal strips, one per worker.
//
// Each strip pairs a contiguous range of grid rows with its own slice of the
// viewport. Strips never overlap, so workers can fill them without locking.
package band

import (
	"errors"
	"fmt"
	"strings"

	"github.com/willbeason/escape-fractal/pkg/viewport"
)

var (
	ErrNoWorkers        = errors.New("worker count must be at least 1")
	ErrNoRows           = errors.New("row count must be at least 1")
	ErrUnknownRemainder = errors.New("unknown remainder policy")
)

// Remainder decides what happens to the rows left over when the row count is
// not a multiple of the worker count.
type Remainder int

const (
	// RemainderLast hands the leftover rows to the last band.
	RemainderLast Remainder = iota
	// RemainderDrop leaves the leftover rows unrendered at the bottom of the grid.
	RemainderDrop
)

func (r Remainder) String() string {
	switch r {
	case RemainderLast:
		return "last"
	case RemainderDrop:
		return "drop"
	default:
		return fmt.Sprintf("Remainder(%d)", int(r))
	}
}

func ParseRemainder(s string) (Remainder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last":
		return RemainderLast, nil
	case "drop":
		return RemainderDrop, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownRemainder, s)
	}
}

// A Band is one worker's share of the grid.
type Band struct {
	Index int

	// Start and End are the half-open range of global grid rows.
	Start, End int

	Viewport viewport.Viewport
}

func (b Band) Rows() int {
	return b.End - b.Start
}

// Corners divides v into n strips of equal height from top to bottom.
// Every strip keeps v's real range; the last one ends exactly on v's bottom edge.
func Corners(v viewport.Viewport, n int) []viewport.Viewport {
	top := imag(v.UpperLeft)
	span := v.Height()
	left, right := real(v.UpperLeft), real(v.LowerRight)

	strips := make([]viewport.Viewport, n)
	for i := range strips {
		upper := top - float64(i)*span/float64(n)
		lower := top - float64(i+1)*span/float64(n)
		if i == n-1 {
			lower = imag(v.LowerRight)
		}

		strips[i] = viewport.Viewport{
			UpperLeft:  complex(left, upper),
			LowerRight: complex(right, lower),
		}
	}

	return strips
}

// Partition assigns rows / n consecutive rows to each of n bands, in order,
// and pairs each band with its strip from Corners.
func Partition(v viewport.Viewport, rows, n int, policy Remainder) ([]Band, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoWorkers, n)
	}
	if rows < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrNoRows, rows)
	}
	if policy != RemainderLast && policy != RemainderDrop {
		return nil, fmt.Errorf("%w: %v", ErrUnknownRemainder, policy)
	}

	perBand := rows / n
	strips := Corners(v, n)

	bands := make([]Band, n)
	for i := range bands {
		bands[i] = Band{
			Index:    i,
			Start:    i * perBand,
			End:      (i + 1) * perBand,
			Viewport: strips[i],
		}
	}

	if policy == RemainderLast {
		bands[n-1].End = rows
	}

	return bands, nil
}

// Covered is the number of grid rows the bands render.
func Covered(bands []Band) int {
	total := 0
	for _, b := range bands {
		total += b.Rows()
	}
	return total
}

// Empty is the number of bands with no rows, which happens when there are
// more bands than rows.
func Empty(bands []Band) int {
	n := 0
	for _, b := range bands {
		if b.Rows() == 0 {
			n++
		}
	}
	return n
}
