package shapes

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/ctessum/geom"
)

var pointSetID atomic.Uint64

// PointSet is an immutable view over a dataset: point coordinates in an
// input CRS, plus an optional scalar value per point. Coordinates may be
// an irregular 1-D sequence or a structured rows x cols grid; the grid
// shape is what lets the raster builders and the grid radius estimator
// exploit structure.
//
// Each PointSet carries a process-unique identity used to memoize
// derived results (radius estimates). Derived sets created by WithValues
// share the identity of their parent, since the coordinates they are
// keyed on are the same.
type PointSet struct {
	id         uint64
	x, y       []float64
	vals       []float64
	rows, cols int // 0,0 when irregular
	crs        CRS
}

// NewPointSet creates an irregular point set from parallel coordinate
// slices. The slices are referenced, not copied; callers must not modify
// them afterwards.
func NewPointSet(x, y []float64, crs CRS) (*PointSet, error) {
	if len(x) == 0 || len(x) != len(y) {
		return nil, fmt.Errorf("%w: %d x and %d y coordinates", ErrBadPointSet, len(x), len(y))
	}
	if crs.IsZero() {
		return nil, fmt.Errorf("%w: point set has no CRS", ErrBadPointSet)
	}
	return &PointSet{
		id:  pointSetID.Add(1),
		x:   x,
		y:   y,
		crs: crs,
	}, nil
}

// NewGridPointSet creates a structured point set from 2-D coordinate
// grids of identical shape. Row-major flattening defines the point order.
func NewGridPointSet(x, y *Grid, crs CRS) (*PointSet, error) {
	if x == nil || y == nil {
		return nil, fmt.Errorf("%w: nil coordinate grid", ErrBadPointSet)
	}
	if x.Rows() != y.Rows() || x.Cols() != y.Cols() {
		return nil, fmt.Errorf("%w: x grid %dx%d, y grid %dx%d",
			ErrBadPointSet, x.Rows(), x.Cols(), y.Rows(), y.Cols())
	}
	if crs.IsZero() {
		return nil, fmt.Errorf("%w: point set has no CRS", ErrBadPointSet)
	}
	return &PointSet{
		id:   pointSetID.Add(1),
		x:    x.Values(),
		y:    y.Values(),
		rows: x.Rows(),
		cols: x.Cols(),
		crs:  crs,
	}, nil
}

// WithValues returns a copy of the point set carrying the given scalar
// values, one per point. The copy shares coordinate storage and identity
// with the receiver.
func (ps *PointSet) WithValues(values []float64) (*PointSet, error) {
	if len(values) != ps.Len() {
		return nil, fmt.Errorf("%w: %d values for %d points", ErrBadPointSet, len(values), ps.Len())
	}
	out := *ps
	out.vals = values
	return &out, nil
}

// Len returns the number of points.
func (ps *PointSet) Len() int { return len(ps.x) }

// IsGrid reports whether the coordinates form a structured 2-D grid.
func (ps *PointSet) IsGrid() bool { return ps.rows > 0 }

// GridShape returns the rows x cols shape, or (0, 0) for irregular sets.
func (ps *PointSet) GridShape() (rows, cols int) { return ps.rows, ps.cols }

// X returns the flattened x coordinates. Callers must not modify them.
func (ps *PointSet) X() []float64 { return ps.x }

// Y returns the flattened y coordinates. Callers must not modify them.
func (ps *PointSet) Y() []float64 { return ps.y }

// Values returns the per-point scalar values, or nil if the set carries
// none.
func (ps *PointSet) Values() []float64 { return ps.vals }

// CRS returns the coordinate reference system the coordinates live in.
func (ps *PointSet) CRS() CRS { return ps.crs }

// Bounds returns the finite coordinate extent, ignoring NaN entries.
// It returns nil when no point is finite.
func (ps *PointSet) Bounds() *geom.Bounds {
	b := &geom.Bounds{
		Min: geom.Point{X: math.Inf(1), Y: math.Inf(1)},
		Max: geom.Point{X: math.Inf(-1), Y: math.Inf(-1)},
	}
	any := false
	for i := range ps.x {
		x, y := ps.x[i], ps.y[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		any = true
		if x < b.Min.X {
			b.Min.X = x
		}
		if x > b.Max.X {
			b.Max.X = x
		}
		if y < b.Min.Y {
			b.Min.Y = y
		}
		if y > b.Max.Y {
			b.Max.Y = y
		}
	}
	if !any {
		return nil
	}
	return b
}
