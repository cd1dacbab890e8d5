package shapes

import (
	"errors"
	"fmt"
	"math"

	"github.com/mapplot/shapes/internal/tess"
)

// buildDelaunay triangulates the projected points. The edge-length mask
// drops triangles whose longest edge exceeds a multiple of the
// dataset's estimated spacing, removing the sliver triangles that span
// data gaps; edge lengths are measured in the input or plot CRS per
// spec. A datum is masked when it participates in no surviving
// triangle. Degenerate input (collinear, too few points) yields an
// empty collection with an all-false mask rather than an error.
func (e *Engine) buildDelaunay(ps *PointSet, s DelaunayTriangulation) (*Collection, error) {
	if !e.tessellate {
		return nil, errMissingTessellation
	}
	count := ps.Len()
	toPlot, err := e.toPlot(ps.CRS())
	if err != nil {
		return nil, err
	}
	px, py := toPlot(ps.X(), ps.Y())

	tr, err := tess.Triangulate(px, py)
	if err != nil {
		if errors.Is(err, tess.ErrDegenerate) {
			Logger().Debug("delaunay input degenerate, emitting empty collection", "err", err)
			var prim Primitive = &TriMesh{}
			if s.Flat {
				prim = &PolygonSet{}
			}
			return newCollection(s.Name(), prim, make(Mask, count), count)
		}
		return nil, err
	}

	keep := make([]bool, tr.NumTriangles())
	for i := range keep {
		keep[i] = true
	}
	if !s.Unmasked {
		// Measure edges in the configured CRS. Input-CRS edges use the
		// original coordinates; plot-CRS edges use the projected ones.
		var mx, my []float64
		switch s.MaskRadiusCRS.kind {
		case radiusDefault, radiusIn:
			mx, my = ps.X(), ps.Y()
		case radiusOut:
			mx, my = px, py
		default:
			return nil, fmt.Errorf("%w: delaunay edge mask accepts radius CRS in or out, not %s",
				ErrUnsupportedRadiusCRS, s.MaskRadiusCRS)
		}
		rows, cols := ps.GridShape()
		rx, ry, err := estimateRadiusCoords(mx, my, rows, cols)
		if err != nil {
			return nil, err
		}
		maskR := maskRadiusMult(s.MaskRadiusMult) * math.Hypot(rx, ry)
		for i := range keep {
			a, b, c := tr.Triangle(i)
			ia, ib, ic := tr.Index[a], tr.Index[b], tr.Index[c]
			longest := math.Max(
				math.Hypot(mx[ia]-mx[ib], my[ia]-my[ib]),
				math.Max(
					math.Hypot(mx[ib]-mx[ic], my[ib]-my[ic]),
					math.Hypot(mx[ic]-mx[ia], my[ic]-my[ia])))
			if !(longest <= maskR) {
				keep[i] = false
			}
		}
	}

	mask := make(Mask, count)
	for i, ok := range keep {
		if !ok {
			continue
		}
		a, b, c := tr.Triangle(i)
		mask[tr.Index[a]] = true
		mask[tr.Index[b]] = true
		mask[tr.Index[c]] = true
	}
	vals := ps.Values()

	if s.Flat {
		rings := make([][]Point, 0, tr.NumTriangles())
		var means []float64
		for i, ok := range keep {
			if !ok {
				continue
			}
			a, b, c := tr.Triangle(i)
			rings = append(rings, []Point{
				{X: tr.X[a], Y: tr.Y[a]},
				{X: tr.X[b], Y: tr.Y[b]},
				{X: tr.X[c], Y: tr.Y[c]},
			})
			if vals != nil {
				means = append(means, (vals[tr.Index[a]]+vals[tr.Index[b]]+vals[tr.Index[c]])/3)
			}
		}
		col, err := newCollection(s.Name(), &PolygonSet{Rings: rings}, mask, count)
		if err != nil {
			return nil, err
		}
		// Flat triangles carry one averaged value per triangle, not per
		// datum; bind them here so the generic binder leaves them alone.
		if means != nil {
			col.Colors = &ColorBuffer{Kind: ColorScalar, Scalars: means}
		}
		return col, nil
	}

	m := &TriMesh{X: tr.X, Y: tr.Y}
	if vals != nil {
		m.Values = make([]float64, len(tr.X))
		for p, idx := range tr.Index {
			m.Values[p] = vals[idx]
		}
	}
	for i, ok := range keep {
		if !ok {
			continue
		}
		a, b, c := tr.Triangle(i)
		m.Triangles = append(m.Triangles, [3]int{a, b, c})
	}
	return newCollection(s.Name(), m, mask, count)
}
