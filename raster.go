package shapes

import (
	"fmt"
	"math"

	"github.com/mapplot/shapes/internal/agg"
)

// buildRaster renders a structured grid as one quad mesh with a face
// per datum. Cell boundaries derive from local coordinate differences,
// so irregular spacing keeps cells centered on their data points. The
// mesh mask is structurally all valid: a hole in a shared-vertex mesh
// is not representable, so missing data stays visible as NaN face
// values instead.
func (e *Engine) buildRaster(ps *PointSet, s Raster) (*Collection, error) {
	rows, cols := ps.GridShape()
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("%w: raster needs a structured grid of at least 2x2, got %dx%d",
			ErrBadPointSet, rows, cols)
	}
	x, y, vals := ps.X(), ps.Y(), ps.Values()

	if s.MaxSize > 0 && rows*cols > s.MaxSize {
		if !e.aggregate {
			return nil, fmt.Errorf("%w: grid aggregation disabled for this engine", ErrMissingBackend)
		}
		outRows, outCols := aggShape(rows, cols, s.MaxSize)
		// Coordinates always aggregate by mean so cells stay centered
		// on their source block.
		x = agg.Block(x, rows, cols, outRows, outCols, agg.Mean, 0)
		y = agg.Block(y, rows, cols, outRows, outCols, agg.Mean, 0)
		if vals != nil {
			if s.Aggregator == AggSpline {
				vals = agg.Smooth(vals, rows, cols, outRows, outCols)
			} else {
				red, err := s.Aggregator.reducer()
				if err != nil {
					return nil, err
				}
				vals = agg.Block(vals, rows, cols, outRows, outCols, red, s.ValidFraction)
			}
		}
		Logger().Debug("aggregated raster grid",
			"rows", rows, "cols", cols, "outRows", outRows, "outCols", outCols,
			"aggregator", string(s.Aggregator))
		rows, cols = outRows, outCols
	}

	vx := meshVertices(x, rows, cols)
	vy := meshVertices(y, rows, cols)
	if b := ps.CRS().Bounds(); b != nil {
		for i := range vx {
			vx[i] = math.Min(math.Max(vx[i], b.Min.X), b.Max.X)
			vy[i] = math.Min(math.Max(vy[i], b.Min.Y), b.Max.Y)
		}
	}
	toPlot, err := e.toPlot(ps.CRS())
	if err != nil {
		return nil, err
	}
	px, py := toPlot(vx, vy)

	m := &QuadMesh{Rows: rows, Cols: cols, X: px, Y: py}
	if vals != nil {
		m.Values = append([]float64(nil), vals...)
	}
	return newCollection(s.Name(), m, newMask(ps.Len()), ps.Len())
}

// aggShape scales a grid shape down so its cell count approaches
// maxSize while preserving the aspect ratio.
func aggShape(rows, cols, maxSize int) (int, int) {
	scale := math.Sqrt(float64(maxSize) / float64(rows*cols))
	return max(1, int(float64(rows)*scale)), max(1, int(float64(cols)*scale))
}

// meshVertices places one vertex at each cell boundary intersection of
// a rows x cols coordinate grid, yielding (rows+1) x (cols+1) values.
// Interior vertices average their four neighboring cell centers; border
// vertices extend the local spacing outward.
func meshVertices(c []float64, rows, cols int) []float64 {
	er, ec := rows+2, cols+2
	ext := make([]float64, er*ec)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			ext[(i+1)*ec+j+1] = c[i*cols+j]
		}
	}
	for j := 1; j <= cols; j++ {
		ext[j] = 2*ext[ec+j] - ext[2*ec+j]
		ext[(er-1)*ec+j] = 2*ext[(er-2)*ec+j] - ext[(er-3)*ec+j]
	}
	for i := 0; i < er; i++ {
		ext[i*ec] = 2*ext[i*ec+1] - ext[i*ec+2]
		ext[i*ec+ec-1] = 2*ext[i*ec+ec-2] - ext[i*ec+ec-3]
	}
	out := make([]float64, (rows+1)*(cols+1))
	for i := 0; i <= rows; i++ {
		for j := 0; j <= cols; j++ {
			out[i*(cols+1)+j] = (ext[i*ec+j] + ext[i*ec+j+1] +
				ext[(i+1)*ec+j] + ext[(i+1)*ec+j+1]) / 4
		}
	}
	return out
}
