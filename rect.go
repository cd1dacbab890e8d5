package shapes

import (
	"fmt"
	"math"
)

// buildRectangles places an axis-aligned rectangle of half-extents
// (rx, ry) around each datum in the radius CRS. Edges are optionally
// subdivided so they bend with the projection, and all perimeter points
// are clipped to the radius CRS's area of use before transforming,
// keeping near-limit coordinates projectable. A datum survives only if
// all four transformed corners are finite.
func (e *Engine) buildRectangles(ps *PointSet, s Rectangles) (*Collection, error) {
	if s.RadiusCRS.kind == radiusExplicit {
		return nil, fmt.Errorf("%w: rectangles accept radius CRS in or out, not %s",
			ErrUnsupportedRadiusCRS, s.RadiusCRS)
	}
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

	n := s.N
	if s.Mesh || n < 0 {
		n = 0
	}
	per := 4 * (n + 1)

	x := make([]float64, count*per)
	y := make([]float64, count*per)
	for i := 0; i < count; i++ {
		rx, ry := rad.at(i)
		idx := i * per
		if math.IsNaN(cx[i]) || math.IsNaN(cy[i]) || !(rx > 0) || !(ry > 0) {
			for k := 0; k < per; k++ {
				x[idx+k], y[idx+k] = math.NaN(), math.NaN()
			}
			continue
		}
		// Perimeter counterclockwise from the lower-left corner, one
		// corner plus n interior points per side.
		for side := 0; side < 4; side++ {
			for k := 0; k <= n; k++ {
				t := float64(k) / float64(n+1)
				var ox, oy float64
				switch side {
				case 0:
					ox, oy = -rx+2*rx*t, -ry
				case 1:
					ox, oy = rx, -ry+2*ry*t
				case 2:
					ox, oy = rx-2*rx*t, ry
				case 3:
					ox, oy = -rx, ry-2*ry*t
				}
				x[idx], y[idx] = cx[i]+ox, cy[i]+oy
				idx++
			}
		}
	}

	if b := rcrs.Bounds(); b != nil {
		for i := range x {
			x[i] = math.Min(math.Max(x[i], b.Min.X), b.Max.X)
			y[i] = math.Min(math.Max(y[i], b.Min.Y), b.Max.Y)
		}
	}

	toPlot, err := e.Transform(rcrs, e.plotCRS)
	if err != nil {
		return nil, err
	}
	px, py := toPlot(x, y)

	mask := make(Mask, count)
	cornersOK := func(i int) bool {
		for c := 0; c < 4; c++ {
			j := i*per + c*(n+1)
			if math.IsNaN(px[j]) || math.IsNaN(py[j]) {
				return false
			}
		}
		return true
	}

	if s.Mesh {
		m := &TriMesh{}
		vals := ps.Values()
		for i := 0; i < count; i++ {
			if !cornersOK(i) {
				continue
			}
			mask[i] = true
			base := len(m.X)
			for c := 0; c < 4; c++ {
				j := i*per + c
				m.X = append(m.X, px[j])
				m.Y = append(m.Y, py[j])
				if vals != nil {
					m.Values = append(m.Values, vals[i])
				}
			}
			m.Triangles = append(m.Triangles,
				[3]int{base, base + 1, base + 2},
				[3]int{base, base + 2, base + 3})
		}
		return newCollection(s.Name(), m, mask, count)
	}

	rings := make([][]Point, 0, count)
	for i := 0; i < count; i++ {
		if !cornersOK(i) {
			continue
		}
		ring := make([]Point, 0, per)
		for k := 0; k < per; k++ {
			j := i*per + k
			if !math.IsNaN(px[j]) && !math.IsNaN(py[j]) {
				ring = append(ring, Point{X: px[j], Y: py[j]})
			}
		}
		mask[i] = true
		rings = append(rings, ring)
	}
	return newCollection(s.Name(), &PolygonSet{Rings: rings}, mask, count)
}
