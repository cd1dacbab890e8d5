package shapes

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/spatial/kdtree"
	"gonum.org/v1/gonum/stat"
)

const (
	// estimateGridBlock bounds the grid corner scanned for spacing, so
	// estimation stays cheap on very large rasters.
	estimateGridBlock = 50
	// estimateMaxSample bounds the number of neighbor queries on
	// irregular datasets.
	estimateMaxSample = 100000
)

// estimateRadius derives per-axis half-extents from point spacing in the
// dataset's input CRS. Structured grids use the median spacing between
// neighboring samples; irregular sets use per-axis nearest-neighbor
// distance statistics. Both paths are deterministic for a given dataset.
func estimateRadius(ps *PointSet) (rx, ry float64, err error) {
	rows, cols := ps.GridShape()
	return estimateRadiusCoords(ps.X(), ps.Y(), rows, cols)
}

// estimateRadiusCoords is estimateRadius for raw coordinate arrays, used
// directly by the tessellation masks, which measure spacing in the plot
// CRS rather than the dataset's input CRS.
func estimateRadiusCoords(x, y []float64, rows, cols int) (rx, ry float64, err error) {
	if rows > 1 && cols > 1 {
		rx, ry, err = gridSpacingRadius(x, y, rows, cols)
		if err == nil {
			return rx, ry, nil
		}
		Logger().Warn("grid spacing estimate failed, falling back to neighbor search", "err", err)
	}
	return nearestNeighborRadius(x, y)
}

// gridSpacingRadius halves the median absolute difference between
// neighboring grid samples, per axis. When the leading orientation gives
// a degenerate spacing (x constant along columns), the transposed
// orientation is tried before giving up.
func gridSpacingRadius(x, y []float64, rows, cols int) (float64, float64, error) {
	br := min(rows, estimateGridBlock)
	bc := min(cols, estimateGridBlock)

	along := func(v []float64, acrossCols bool) float64 {
		var diffs []float64
		if acrossCols {
			for i := 0; i < br; i++ {
				for j := 0; j+1 < bc; j++ {
					d := math.Abs(v[i*cols+j+1] - v[i*cols+j])
					if !math.IsNaN(d) {
						diffs = append(diffs, d)
					}
				}
			}
		} else {
			for i := 0; i+1 < br; i++ {
				for j := 0; j < bc; j++ {
					d := math.Abs(v[(i+1)*cols+j] - v[i*cols+j])
					if !math.IsNaN(d) {
						diffs = append(diffs, d)
					}
				}
			}
		}
		return median(diffs)
	}

	dx := along(x, true)
	dy := along(y, false)
	if !(dx > 0) || !(dy > 0) {
		dx = along(x, false)
		dy = along(y, true)
	}
	if !(dx > 0) || !(dy > 0) {
		return 0, 0, fmt.Errorf("%w: grid spacing is degenerate", ErrRadiusEstimation)
	}
	return dx / 2, dy / 2, nil
}

// nearestNeighborRadius halves the per-axis median offset to each
// point's nearest distinct neighbor. An axis with no nonzero offsets
// borrows the other axis's value. Sampling strides deterministically
// when the dataset exceeds estimateMaxSample points.
func nearestNeighborRadius(x, y []float64) (float64, float64, error) {
	pts := make(kdPoints, 0, len(x))
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		pts = append(pts, kdPoint{x: x[i], y: y[i]})
	}
	if len(pts) < 2 {
		return 0, 0, fmt.Errorf("%w: need at least 2 finite points, have %d", ErrRadiusEstimation, len(pts))
	}
	stride := 1
	if len(pts) > estimateMaxSample {
		stride = (len(pts) + estimateMaxSample - 1) / estimateMaxSample
	}

	tree := kdtree.New(pts, false)
	var dxs, dys []float64
	for i := 0; i < len(pts); i += stride {
		keep := kdtree.NewNKeeper(2)
		tree.NearestSet(keep, pts[i])
		// The query point itself is in the tree at distance zero, so the
		// farthest kept entry is the nearest distinct neighbor.
		var nb kdPoint
		best := 0.0
		for _, cd := range keep.Heap {
			if cd.Comparable == nil || math.IsInf(cd.Dist, 0) {
				continue
			}
			if cd.Dist > best {
				best = cd.Dist
				nb = cd.Comparable.(kdPoint)
			}
		}
		if best == 0 {
			continue
		}
		if dx := math.Abs(nb.x - pts[i].x); dx > 0 {
			dxs = append(dxs, dx)
		}
		if dy := math.Abs(nb.y - pts[i].y); dy > 0 {
			dys = append(dys, dy)
		}
	}
	rx := median(dxs) / 2
	ry := median(dys) / 2
	if !(rx > 0) && !(ry > 0) {
		return 0, 0, fmt.Errorf("%w: all points coincide", ErrRadiusEstimation)
	}
	if !(rx > 0) {
		rx = ry
	}
	if !(ry > 0) {
		ry = rx
	}
	return rx, ry, nil
}

func median(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	sort.Float64s(v)
	return stat.Quantile(0.5, stat.Empirical, v, nil)
}

// kdPoint and kdPoints adapt coordinate pairs to the kdtree package.
// Distances are squared Euclidean, per the kdtree contract.
type kdPoint struct{ x, y float64 }

func (p kdPoint) Compare(c kdtree.Comparable, d kdtree.Dim) float64 {
	q := c.(kdPoint)
	if d == 0 {
		return p.x - q.x
	}
	return p.y - q.y
}

func (p kdPoint) Dims() int { return 2 }

func (p kdPoint) Distance(c kdtree.Comparable) float64 {
	q := c.(kdPoint)
	dx, dy := p.x-q.x, p.y-q.y
	return dx*dx + dy*dy
}

type kdPoints []kdPoint

func (p kdPoints) Index(i int) kdtree.Comparable    { return p[i] }
func (p kdPoints) Len() int                         { return len(p) }
func (p kdPoints) Slice(s, e int) kdtree.Interface  { return p[s:e] }
func (p kdPoints) Pivot(d kdtree.Dim) int           { return kdPlane{Dim: d, kdPoints: p}.Pivot() }

// kdPlane sorts kdPoints along a dimension for tree construction.
type kdPlane struct {
	kdtree.Dim
	kdPoints
}

func (p kdPlane) Less(i, j int) bool {
	if p.Dim == 0 {
		return p.kdPoints[i].x < p.kdPoints[j].x
	}
	return p.kdPoints[i].y < p.kdPoints[j].y
}

func (p kdPlane) Pivot() int { return kdtree.Partition(p, kdtree.MedianOfMedians(p)) }

func (p kdPlane) Slice(s, e int) kdtree.SortSlicer {
	p.kdPoints = p.kdPoints[s:e]
	return p
}

func (p kdPlane) Swap(i, j int) {
	p.kdPoints[i], p.kdPoints[j] = p.kdPoints[j], p.kdPoints[i]
}
