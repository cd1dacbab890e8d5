package shapes

import "math"

// buildEllipses generates parametric ellipse rings around each datum in
// the radius CRS, then projects them to the plot CRS. With rotation phi
// and ring parameter theta the boundary is
//
//	x = x0 + rx cos(theta) cos(phi) - ry sin(theta) sin(phi)
//	y = y0 + rx cos(theta) sin(phi) + ry sin(theta) cos(phi)
func (e *Engine) buildEllipses(ps *PointSet, s Ellipses) (*Collection, error) {
	count := ps.Len()
	rad, rcrs, err := e.resolveRadius(ps, s.Radius, s.RadiusCRS)
	if err != nil {
		return nil, err
	}
	toRad, err := e.Transform(ps.CRS(), rcrs)
	if err != nil {
		return nil, err
	}
	cx, cy := toRad(ps.X(), ps.Y())

	n := adaptiveRingN(s.N, count)
	sinp, cosp := math.Sincos(s.Rotation * math.Pi / 180)
	x := make([]float64, count*n)
	y := make([]float64, count*n)
	for i := 0; i < count; i++ {
		rx, ry := rad.at(i)
		if math.IsNaN(cx[i]) || math.IsNaN(cy[i]) || !(rx > 0) || !(ry > 0) {
			for k := 0; k < n; k++ {
				x[i*n+k], y[i*n+k] = math.NaN(), math.NaN()
			}
			continue
		}
		for k := 0; k < n; k++ {
			sint, cost := math.Sincos(2 * math.Pi * float64(k) / float64(n))
			x[i*n+k] = cx[i] + rx*cost*cosp - ry*sint*sinp
			y[i*n+k] = cy[i] + rx*cost*sinp + ry*sint*cosp
		}
	}

	rb := ringBatch{n: n, x: x, y: y, cx: cx, cy: cy, ringCRS: rcrs}
	return e.finishRings(s.Name(), count, rb, s.Unmasked, maskTolerance(s.MaskTolerance))
}
