// Package grid holds escape iteration counts for a render.
package grid

import "fmt"

// A Grid is a row-major rows × columns array of iteration counts.
// A zero cell never escaped.
type Grid struct {
	Rows, Columns int
	Cells         []uint32
}

// MaxCells bounds rows × columns for a single grid.
const MaxCells = 1 << 30

// Fits reports whether a rows × columns grid is non-empty and within MaxCells.
func Fits(rows, columns int) bool {
	return rows > 0 && columns > 0 && rows <= MaxCells/columns
}

func New(rows, columns int) *Grid {
	return &Grid{
		Rows:    rows,
		Columns: columns,
		Cells:   make([]uint32, rows*columns),
	}
}

func (g *Grid) index(row, column int) int {
	if row < 0 || row >= g.Rows || column < 0 || column >= g.Columns {
		panic(fmt.Sprintf("cell (%d, %d) outside %d×%d grid", row, column, g.Rows, g.Columns))
	}
	return row*g.Columns + column
}

func (g *Grid) At(row, column int) uint32 {
	return g.Cells[g.index(row, column)]
}

func (g *Grid) Set(row, column int, v uint32) {
	g.Cells[g.index(row, column)] = v
}

// Row returns row r, sharing storage with the grid.
func (g *Grid) Row(r int) []uint32 {
	return g.Span(r, r+1)
}

// Span returns the contiguous cells of rows [start, end), sharing storage
// with the grid. Spans over disjoint row ranges never alias.
func (g *Grid) Span(start, end int) []uint32 {
	if start < 0 || end > g.Rows || start > end {
		panic(fmt.Sprintf("rows [%d, %d) outside %d-row grid", start, end, g.Rows))
	}
	return g.Cells[start*g.Columns : end*g.Columns : end*g.Columns]
}

// Range returns the smallest and largest counts in the grid.
// An empty grid reports 0, 0.
func (g *Grid) Range() (lo, hi uint32) {
	if len(g.Cells) == 0 {
		return 0, 0
	}

	lo, hi = g.Cells[0], g.Cells[0]
	for _, v := range g.Cells[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	return lo, hi
}

// Equal reports whether two grids have the same shape and counts.
func (g *Grid) Equal(other *Grid) bool {
	if g.Rows != other.Rows || g.Columns != other.Columns || len(g.Cells) != len(other.Cells) {
		return false
	}
	for i, v := range g.Cells {
		if other.Cells[i] != v {
			return false
		}
	}
	return true
}
