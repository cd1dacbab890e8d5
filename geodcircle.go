package shapes

import (
	"fmt"
	"math"
)

// buildGeodCircles traces each circle by walking the forward geodesic
// from the center at n equally spaced azimuths, so every ring point
// sits exactly the requested surface distance away regardless of
// latitude. Rings are generated in geographic coordinates and projected
// from there.
func (e *Engine) buildGeodCircles(ps *PointSet, s GeodCircles) (*Collection, error) {
	if len(s.Radius) == 0 {
		return nil, fmt.Errorf("%w: geodesic circles need an explicit radius in meters", ErrRadiusEstimation)
	}
	count := ps.Len()
	if len(s.Radius) > 1 && len(s.Radius) != count {
		return nil, fmt.Errorf("%w: %d radii for %d points", ErrBadPointSet, len(s.Radius), count)
	}

	geo := EPSG(4326)
	toGeo, err := e.Transform(ps.CRS(), geo)
	if err != nil {
		return nil, err
	}
	lon, lat := toGeo(ps.X(), ps.Y())

	n := adaptiveRingN(s.N, count)
	x := make([]float64, count*n)
	y := make([]float64, count*n)
	for i := 0; i < count; i++ {
		r := s.Radius[0]
		if len(s.Radius) > 1 {
			r = s.Radius[i]
		}
		if math.IsNaN(lon[i]) || math.IsNaN(lat[i]) || !(r > 0) {
			for k := 0; k < n; k++ {
				x[i*n+k], y[i*n+k] = math.NaN(), math.NaN()
			}
			continue
		}
		for k := 0; k < n; k++ {
			azi := 360 * float64(k) / float64(n)
			la, lo := e.geod.Direct(lat[i], lon[i], azi, r)
			x[i*n+k], y[i*n+k] = lo, la
		}
	}

	rb := ringBatch{n: n, x: x, y: y, cx: lon, cy: lat, ringCRS: geo}
	return e.finishRings(s.Name(), count, rb, s.Unmasked, maskTolerance(s.MaskTolerance))
}
