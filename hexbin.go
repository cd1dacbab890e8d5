package shapes

import (
	"fmt"
	"math"
	"sort"
)

// buildHexbin bins the projected points into a pointy-top hexagonal
// lattice and emits one hexagon per non-empty bin, colored by the
// aggregated bin value (or the sample count when the dataset carries no
// values). The datum mask marks every point that landed in a bin;
// hexagons and data are not 1:1.
func (e *Engine) buildHexbin(ps *PointSet, s Hexbin) (*Collection, error) {
	if !e.aggregate {
		return nil, fmt.Errorf("%w: aggregation backend disabled for this engine", ErrMissingBackend)
	}
	counting := ps.Values() == nil
	reduce, err := s.Aggregator.reducer()
	if err != nil {
		return nil, err
	}

	count := ps.Len()
	toPlot, err := e.toPlot(ps.CRS())
	if err != nil {
		return nil, err
	}
	px, py := toPlot(ps.X(), ps.Y())

	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	finite := 0
	for i := range px {
		if math.IsNaN(px[i]) || math.IsNaN(py[i]) {
			continue
		}
		finite++
		xmin, xmax = math.Min(xmin, px[i]), math.Max(xmax, px[i])
		ymin, ymax = math.Min(ymin, py[i]), math.Max(ymax, py[i])
	}
	if finite == 0 {
		return nil, fmt.Errorf("%w: no finite points to bin", ErrDegenerateGeometry)
	}
	extent := math.Max(xmax-xmin, ymax-ymin)
	if extent <= 0 {
		return nil, fmt.Errorf("%w: all points coincide", ErrDegenerateGeometry)
	}
	g := s.GridSize
	if g <= 0 {
		g = defaultHexbinGrid
	}
	// Circumradius so that g pointy-top hexagons span the larger extent.
	r := extent / (math.Sqrt(3) * float64(g))

	type bin struct {
		q, r int
	}
	samples := make(map[bin][]float64)
	mask := make(Mask, count)
	vals := ps.Values()
	for i := range px {
		if math.IsNaN(px[i]) || math.IsNaN(py[i]) {
			continue
		}
		q, rr := hexCell(px[i]-xmin, py[i]-ymin, r)
		b := bin{q: q, r: rr}
		if counting {
			samples[b] = append(samples[b], 1)
		} else {
			v := vals[i]
			if math.IsNaN(v) {
				continue
			}
			samples[b] = append(samples[b], v)
		}
		mask[i] = true
	}

	// Deterministic bin order: row-major over axial coordinates.
	bins := make([]bin, 0, len(samples))
	for b := range samples {
		bins = append(bins, b)
	}
	sort.Slice(bins, func(i, j int) bool {
		if bins[i].r != bins[j].r {
			return bins[i].r < bins[j].r
		}
		return bins[i].q < bins[j].q
	})

	rings := make([][]Point, 0, len(bins))
	scalars := make([]float64, 0, len(bins))
	for _, b := range bins {
		cx := xmin + r*math.Sqrt(3)*(float64(b.q)+float64(b.r)/2)
		cy := ymin + r*1.5*float64(b.r)
		ring := make([]Point, 6)
		for k := 0; k < 6; k++ {
			a := math.Pi/6 + float64(k)*math.Pi/3
			ring[k] = Point{X: cx + r*math.Cos(a), Y: cy + r*math.Sin(a)}
		}
		rings = append(rings, ring)
		if counting {
			scalars = append(scalars, float64(len(samples[b])))
		} else {
			scalars = append(scalars, reduce(samples[b]))
		}
	}

	col, err := newCollection(s.Name(), &PolygonSet{Rings: rings}, mask, count)
	if err != nil {
		return nil, err
	}
	col.Colors = &ColorBuffer{Kind: ColorScalar, Scalars: scalars}
	return col, nil
}

// hexCell maps a point offset to axial hex coordinates for a pointy-top
// lattice of circumradius r, rounding in cube space so every point maps
// to its nearest hexagon center.
func hexCell(dx, dy, r float64) (int, int) {
	q := (math.Sqrt(3)/3*dx - dy/3) / r
	rr := 2 / 3.0 * dy / r
	// cube rounding
	x, z := q, rr
	y := -x - z
	rx, ry, rz := math.Round(x), math.Round(y), math.Round(z)
	ddx, ddy, ddz := math.Abs(rx-x), math.Abs(ry-y), math.Abs(rz-z)
	switch {
	case ddx > ddy && ddx > ddz:
		rx = -ry - rz
	case ddy > ddz:
	default:
		rz = -rx - ry
	}
	return int(rx), int(rz)
}
