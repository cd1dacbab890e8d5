package shapes

import (
	"errors"
	"math"

	"github.com/golang/geo/r3"
	"github.com/golang/geo/s2"

	"github.com/mapplot/shapes/internal/tess"
)

// buildSphericalVoronoi partitions the sphere instead of the plot
// plane, so regions stay exact across the antimeridian and around the
// poles. The construction maps the data onto the unit sphere,
// stereographically projects it from the antipode of the data centroid
// (a circle-preserving map, so the planar Delaunay of the projection is
// the spherical Delaunay), and walks the dual with circumcenters solved
// on the sphere. Region vertices come back through lon/lat into the
// plot CRS.
func (e *Engine) buildSphericalVoronoi(ps *PointSet, s SphericalVoronoi) (*Collection, error) {
	if !e.tessellate {
		return nil, errMissingTessellation
	}
	count := ps.Len()
	toGeo, err := e.Transform(ps.CRS(), EPSG(4326))
	if err != nil {
		return nil, err
	}
	lon, lat := toGeo(ps.X(), ps.Y())

	vecs := make([]r3.Vector, count)
	ok := make([]bool, count)
	var centroid r3.Vector
	for i := 0; i < count; i++ {
		if math.IsNaN(lon[i]) || math.IsNaN(lat[i]) {
			continue
		}
		v := s2.PointFromLatLng(s2.LatLngFromDegrees(lat[i], lon[i])).Vector
		vecs[i] = v
		ok[i] = true
		centroid = centroid.Add(v)
	}
	if centroid.Norm() < 1e-12 {
		// Antipodally balanced data has no meaningful centroid; any
		// projection pole works, so pick a fixed one.
		centroid = r3.Vector{X: 0, Y: 0, Z: 1}
	}
	c := centroid.Normalize()
	e1 := c.Ortho()
	e2 := c.Cross(e1)

	// Stereographic projection from -c onto the tangent plane at c.
	sx := make([]float64, count)
	sy := make([]float64, count)
	for i := 0; i < count; i++ {
		if !ok[i] {
			sx[i], sy[i] = math.NaN(), math.NaN()
			continue
		}
		d := 1 + vecs[i].Dot(c)
		if d < 1e-12 {
			sx[i], sy[i] = math.NaN(), math.NaN()
			continue
		}
		sx[i] = 2 * vecs[i].Dot(e1) / d
		sy[i] = 2 * vecs[i].Dot(e2) / d
	}

	tr, err := tess.Triangulate(sx, sy)
	if err != nil {
		if errors.Is(err, tess.ErrDegenerate) {
			Logger().Debug("spherical voronoi input degenerate, emitting empty collection", "err", err)
			return newCollection(s.Name(), &PolygonSet{}, make(Mask, count), count)
		}
		return nil, err
	}

	// Region vertices are the spherical circumcenters of the Delaunay
	// triangles, expressed in lon/lat for reprojection.
	nt := tr.NumTriangles()
	clon := make([]float64, nt)
	clat := make([]float64, nt)
	for i := 0; i < nt; i++ {
		a, b, cc := tr.Triangle(i)
		va, vb, vc := vecs[tr.Index[a]], vecs[tr.Index[b]], vecs[tr.Index[cc]]
		n := vb.Sub(va).Cross(vc.Sub(va))
		if n.Norm() < 1e-30 {
			clon[i], clat[i] = math.NaN(), math.NaN()
			continue
		}
		n = n.Normalize()
		if n.Dot(va) < 0 {
			n = n.Mul(-1)
		}
		ll := s2.LatLngFromPoint(s2.Point{Vector: n})
		clon[i], clat[i] = ll.Lng.Degrees(), ll.Lat.Degrees()
	}
	cells := tr.VoronoiCellsFrom(clon, clat)

	// Project all region vertices in one batch.
	type candidate struct {
		point    int
		off, len int
	}
	var cands []candidate
	var vx, vy []float64
	for _, cell := range cells {
		if cell.Unbounded || len(cell.X) < 3 {
			continue
		}
		cands = append(cands, candidate{point: cell.Point, off: len(vx), len: len(cell.X)})
		vx = append(vx, cell.X...)
		vy = append(vy, cell.Y...)
	}
	geoToPlot, err := e.Transform(EPSG(4326), e.plotCRS)
	if err != nil {
		return nil, err
	}
	rvx, rvy := geoToPlot(vx, vy)

	toPlot, err := e.toPlot(ps.CRS())
	if err != nil {
		return nil, err
	}
	gpx, gpy := toPlot(ps.X(), ps.Y())
	maskR, err := e.tessMaskRadius(gpx, gpy, ps, s.Unmasked, s.MaskRadiusMult)
	if err != nil {
		return nil, err
	}

	mask := make(Mask, count)
	rings := make([][]Point, 0, len(cands))
	for _, cd := range cands {
		gx, gy := gpx[cd.point], gpy[cd.point]
		ring := make([]Point, 0, cd.len)
		valid := true
		for k := 0; k < cd.len; k++ {
			x, y := rvx[cd.off+k], rvy[cd.off+k]
			d := math.Hypot(x-gx, y-gy)
			if math.IsNaN(d) || math.IsInf(d, 0) || (maskR > 0 && d > maskR) {
				valid = false
				break
			}
			ring = append(ring, Point{X: x, Y: y})
		}
		if !valid {
			continue
		}
		mask[cd.point] = true
		rings = append(rings, ring)
	}
	return newCollection(s.Name(), &PolygonSet{Rings: rings}, mask, count)
}
