package shapes

import (
	"errors"
	"math"

	"github.com/mapplot/shapes/internal/tess"
)

// buildVoronoi tessellates the projected points and emits one convex
// region per surviving datum. Regions touching the hull extend to
// infinity and are always discarded; the distance mask additionally
// drops regions whose vertices stray far from their generating point,
// which removes the oversized boundary cells that are tessellation
// artifacts rather than data geometry.
func (e *Engine) buildVoronoi(ps *PointSet, s VoronoiDiagram) (*Collection, error) {
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
			Logger().Debug("voronoi input degenerate, emitting empty collection", "err", err)
			return newCollection(s.Name(), &PolygonSet{}, make(Mask, count), count)
		}
		return nil, err
	}

	maskR, err := e.tessMaskRadius(px, py, ps, s.Unmasked, s.MaskRadiusMult)
	if err != nil {
		return nil, err
	}

	mask := make(Mask, count)
	rings := make([][]Point, 0, count)
	for _, c := range tr.VoronoiCells() {
		if c.Unbounded || len(c.X) < 3 {
			continue
		}
		gx, gy := px[c.Point], py[c.Point]
		ok := true
		for i := range c.X {
			d := math.Hypot(c.X[i]-gx, c.Y[i]-gy)
			if math.IsNaN(d) || math.IsInf(d, 0) || (maskR > 0 && d > maskR) {
				ok = false
				break
			}
		}
		if !ok {
			continue
		}
		ring := make([]Point, len(c.X))
		for i := range c.X {
			ring[i] = Point{X: c.X[i], Y: c.Y[i]}
		}
		mask[c.Point] = true
		rings = append(rings, ring)
	}
	return newCollection(s.Name(), &PolygonSet{Rings: rings}, mask, count)
}

// tessMaskRadius derives the distance threshold for the tessellation
// masks: a multiple of the dataset's estimated spacing, measured in the
// plot CRS. Unmasked builds report zero, which disables the check.
func (e *Engine) tessMaskRadius(px, py []float64, ps *PointSet, unmasked bool, mult float64) (float64, error) {
	if unmasked {
		return 0, nil
	}
	rows, cols := ps.GridShape()
	rx, ry, err := estimateRadiusCoords(px, py, rows, cols)
	if err != nil {
		return 0, err
	}
	return maskRadiusMult(mult) * math.Hypot(rx, ry), nil
}
