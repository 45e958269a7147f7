// Package intensity rescales iteration counts to 8-bit grayscale.
package intensity

import (
	"image"
	"math"

	"github.com/willbeason/escape-fractal/pkg/grid"
)

// Scale maps v from [lo, hi] onto [0, 255], rounding half away from zero.
// Values outside the range are clamped to it. A degenerate range maps
// everything to 0.
func Scale(v, lo, hi uint32) uint8 {
	if hi <= lo {
		return 0
	}
	v = max(lo, min(v, hi))

	s := math.Round(float64(v-lo) / float64(hi-lo) * math.MaxUint8)
	return uint8(max(0, min(s, math.MaxUint8)))
}

// Normalize stretches the grid's iteration range over the full gray scale.
// The smallest count becomes black and the largest white; invert swaps them.
// A uniform grid is black, or white when inverted.
func Normalize(g *grid.Grid, invert bool) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.Columns, g.Rows))

	lo, hi := g.Range()
	for r := 0; r < g.Rows; r++ {
		src := g.Row(r)
		dst := img.Pix[r*img.Stride : r*img.Stride+g.Columns]
		for c, v := range src {
			s := Scale(v, lo, hi)
			if invert {
				s = math.MaxUint8 - s
			}
			dst[c] = s
		}
	}

	return img
}
