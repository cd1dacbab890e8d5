package shapes

import "math"

// Ring geometry computed in one CRS can straddle the plot projection's
// seam meridian, the discontinuity opposite the projection center.
// Projected naively, such rings streak across the whole map. The fix
// classifies every center and ring point into a hemisphere relative to
// the projection's reference meridian and drops ring points that ended
// up on the other side, unless the center itself sits close enough to
// the reference meridian that straddling it is genuine geometry.
// Azimuthal whole-disk projections have no seam, so they skip this
// entirely.

// normalizeLon wraps a longitude offset into (-180, 180].
func normalizeLon(d float64) float64 {
	d = math.Mod(d, 360)
	switch {
	case d > 180:
		d -= 360
	case d <= -180:
		d += 360
	}
	return d
}

// eastOf reports the hemisphere of a longitude relative to the
// reference meridian.
func eastOf(lon, ref float64) bool {
	return normalizeLon(lon-ref) >= 0
}

// ringBatch is the intermediate output of the circular builders: count
// rings of n points each, flattened row-major, together with the ring
// centers, all expressed in ringCRS.
type ringBatch struct {
	n       int
	x, y    []float64 // count*n ring coordinates
	cx, cy  []float64 // count ring centers
	ringCRS CRS
}

// finishRings projects a ring batch into the plot CRS, applies seam
// masking, and assembles the polygon collection. Rings keeping fewer
// than three valid points are masked out; the batch never fails for
// individual bad rings.
func (e *Engine) finishRings(shape string, count int, rb ringBatch, unmasked bool, tol float64) (*Collection, error) {
	toPlot, err := e.Transform(rb.ringCRS, e.plotCRS)
	if err != nil {
		return nil, err
	}
	px, py := toPlot(rb.x, rb.y)

	valid := make([]bool, len(px))
	for i := range px {
		valid[i] = !math.IsNaN(px[i]) && !math.IsNaN(py[i])
	}

	if !unmasked && !e.plotCRS.IsAzimuthal() {
		if err := e.maskSeamCrossers(rb, valid, tol); err != nil {
			return nil, err
		}
	}

	mask := make(Mask, count)
	rings := make([][]Point, 0, count)
	dropped := 0
	for i := 0; i < count; i++ {
		pts := make([]Point, 0, rb.n)
		for k := 0; k < rb.n; k++ {
			if j := i*rb.n + k; valid[j] {
				pts = append(pts, Point{X: px[j], Y: py[j]})
			}
		}
		if len(pts) < 3 {
			dropped++
			continue
		}
		mask[i] = true
		rings = append(rings, pts)
	}
	if dropped > 0 {
		Logger().Debug("degenerate rings masked", "shape", shape, "count", dropped)
	}
	return newCollection(shape, &PolygonSet{Rings: rings}, mask, count)
}

// maskSeamCrossers clears validity for ring points whose hemisphere
// differs from their center's, relative to the plot CRS's reference
// meridian. Centers within tol degrees of the reference meridian keep
// all their points: geometry genuinely straddling the projection center
// is not a seam artifact.
func (e *Engine) maskSeamCrossers(rb ringBatch, valid []bool, tol float64) error {
	rlon, clon := rb.x, rb.cx
	if !rb.ringCRS.IsGeographic() {
		toGeo, err := e.Transform(rb.ringCRS, EPSG(4326))
		if err != nil {
			return err
		}
		rlon, _ = toGeo(rb.x, rb.y)
		clon, _ = toGeo(rb.cx, rb.cy)
	}

	ref := e.plotCRS.CentralMeridian()
	for i := range clon {
		c := clon[i]
		if math.IsNaN(c) || math.Abs(normalizeLon(c-ref)) <= tol {
			continue
		}
		ch := eastOf(c, ref)
		for k := 0; k < rb.n; k++ {
			j := i*rb.n + k
			if !valid[j] {
				continue
			}
			if math.IsNaN(rlon[j]) || eastOf(rlon[j], ref) != ch {
				valid[j] = false
			}
		}
	}
	return nil
}
