package shapes

import (
	"fmt"
	"math"

	"github.com/mapplot/shapes/internal/agg"
)

const contourBinGrid = 100

// buildContour grids the data field and attaches the contour levels for
// the renderer to trace; the engine's contract stops at the gridded
// field because level tracing is a rendering concern. Structured input
// keeps its own grid; irregular input is mean-binned onto a regular
// lattice in the plot CRS.
func (e *Engine) buildContour(ps *PointSet, s Contour) (*Collection, error) {
	vals := ps.Values()
	if vals == nil {
		return nil, fmt.Errorf("%w: contour needs per-point values", ErrBadPointSet)
	}

	var m *QuadMesh
	rows, cols := ps.GridShape()
	if rows >= 2 && cols >= 2 {
		gm, err := e.buildRaster(ps, Raster{})
		if err != nil {
			return nil, err
		}
		m = gm.Primitive.(*QuadMesh)
	} else {
		if !e.aggregate {
			return nil, fmt.Errorf("%w: aggregation backend disabled for this engine", ErrMissingBackend)
		}
		var err error
		m, err = e.binToGrid(ps)
		if err != nil {
			return nil, err
		}
	}

	levels := append([]float64(nil), s.Levels...)
	if len(levels) == 0 {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, v := range m.Values {
			if math.IsNaN(v) {
				continue
			}
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		if !(hi > lo) {
			return nil, fmt.Errorf("%w: field has no value range to contour", ErrDegenerateGeometry)
		}
		n := s.NLevels
		if n <= 0 {
			n = defaultContourLevels
		}
		step := (hi - lo) / float64(n+1)
		for i := 1; i <= n; i++ {
			levels = append(levels, lo+step*float64(i))
		}
	}

	name := s.Name()
	if s.Filled {
		name = "contour_filled"
	}
	col, err := newCollection(name, m, newMask(ps.Len()), ps.Len())
	if err != nil {
		return nil, err
	}
	col.Levels = levels
	return col, nil
}

// binToGrid rasterizes an irregular point set onto a regular lattice in
// the plot CRS, averaging the samples of each cell. Empty cells stay
// NaN.
func (e *Engine) binToGrid(ps *PointSet) (*QuadMesh, error) {
	toPlot, err := e.toPlot(ps.CRS())
	if err != nil {
		return nil, err
	}
	px, py := toPlot(ps.X(), ps.Y())
	vals := ps.Values()

	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	for i := range px {
		if math.IsNaN(px[i]) || math.IsNaN(py[i]) || math.IsNaN(vals[i]) {
			continue
		}
		xmin, xmax = math.Min(xmin, px[i]), math.Max(xmax, px[i])
		ymin, ymax = math.Min(ymin, py[i]), math.Max(ymax, py[i])
	}
	if !(xmax > xmin) || !(ymax > ymin) {
		return nil, fmt.Errorf("%w: points span no area to grid", ErrDegenerateGeometry)
	}

	n := contourBinGrid
	sums := make([]float64, n*n)
	counts := make([]int, n*n)
	for i := range px {
		if math.IsNaN(px[i]) || math.IsNaN(py[i]) || math.IsNaN(vals[i]) {
			continue
		}
		cj := min(int((px[i]-xmin)/(xmax-xmin)*float64(n)), n-1)
		ci := min(int((py[i]-ymin)/(ymax-ymin)*float64(n)), n-1)
		sums[ci*n+cj] += vals[i]
		counts[ci*n+cj]++
	}
	field := make([]float64, n*n)
	for i := range field {
		if counts[i] == 0 {
			field[i] = math.NaN()
			continue
		}
		field[i] = sums[i] / float64(counts[i])
	}
	// A same-size resample leaves finite cells untouched but fills NaN
	// holes from the finite kernel taps around them, so sparse bins
	// still contour cleanly.
	field = agg.Smooth(field, n, n, n, n)

	dx := (xmax - xmin) / float64(n)
	dy := (ymax - ymin) / float64(n)
	m := &QuadMesh{Rows: n, Cols: n, Values: field}
	m.X = make([]float64, (n+1)*(n+1))
	m.Y = make([]float64, (n+1)*(n+1))
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			m.X[i*(n+1)+j] = xmin + float64(j)*dx
			m.Y[i*(n+1)+j] = ymin + float64(i)*dy
		}
	}
	return m, nil
}
