package shapes

import (
	"fmt"

	"github.com/ctessum/sparse"
)

// Grid is a dense row-major 2-D array of float64 samples, used for
// structured coordinate grids and gridded data values.
//
// A Grid used as PointSet input is treated as immutable for the lifetime
// of the point set; Set is intended for grids the caller is still building
// (and for the aggregation pre-pass, which always works on fresh grids).
type Grid struct {
	arr *sparse.DenseArray
}

// NewGrid creates a zero-filled grid with the given shape.
func NewGrid(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: grid shape %dx%d", ErrBadPointSet, rows, cols)
	}
	return &Grid{arr: sparse.ZerosDense(rows, cols)}, nil
}

// GridFromSlice creates a grid from row-major values. The values are
// copied, so the grid owns its storage.
func GridFromSlice(values []float64, rows, cols int) (*Grid, error) {
	g, err := NewGrid(rows, cols)
	if err != nil {
		return nil, err
	}
	if len(values) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %dx%d grid", ErrBadPointSet, len(values), rows, cols)
	}
	copy(g.arr.Elements, values)
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.arr.Shape[0] }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.arr.Shape[1] }

// Len returns the total number of samples.
func (g *Grid) Len() int { return len(g.arr.Elements) }

// At returns the sample at row i, column j.
func (g *Grid) At(i, j int) float64 { return g.arr.Get(i, j) }

// Set stores a sample at row i, column j.
func (g *Grid) Set(i, j int, v float64) { g.arr.Set(v, i, j) }

// Values returns the backing row-major storage. Callers must not modify
// it while the grid is referenced by a PointSet.
func (g *Grid) Values() []float64 { return g.arr.Elements }
