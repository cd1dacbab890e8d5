package shapes

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
)

// WriteSVG renders collections to a standalone SVG, mapping their joint
// bounding box onto a width x height canvas with a small margin. It is
// a quick-look export for demos and debugging, not the production
// renderer: scalar color buffers map through a fixed two-color ramp.
func WriteSVG(w io.Writer, width, height int, cols ...*Collection) error {
	if w == nil {
		return fmt.Errorf("shapes: nil writer")
	}
	xmin, xmax := math.Inf(1), math.Inf(-1)
	ymin, ymax := math.Inf(1), math.Inf(-1)
	grow := func(x, y float64) {
		if math.IsNaN(x) || math.IsNaN(y) {
			return
		}
		xmin, xmax = math.Min(xmin, x), math.Max(xmax, x)
		ymin, ymax = math.Min(ymin, y), math.Max(ymax, y)
	}
	for _, c := range cols {
		switch p := c.Primitive.(type) {
		case *PolygonSet:
			for _, ring := range p.Rings {
				for _, pt := range ring {
					grow(pt.X, pt.Y)
				}
			}
		case *QuadMesh:
			for i := range p.X {
				grow(p.X[i], p.Y[i])
			}
		case *TriMesh:
			for i := range p.X {
				grow(p.X[i], p.Y[i])
			}
		case *Markers:
			for i := range p.X {
				grow(p.X[i], p.Y[i])
			}
		}
	}
	if !(xmax > xmin) || !(ymax > ymin) {
		return fmt.Errorf("%w: nothing to draw", ErrDegenerateGeometry)
	}

	margin := 0.05 * math.Max(xmax-xmin, ymax-ymin)
	xmin, xmax = xmin-margin, xmax+margin
	ymin, ymax = ymin-margin, ymax+margin
	sx := float64(width) / (xmax - xmin)
	sy := float64(height) / (ymax - ymin)
	toPix := func(x, y float64) (int, int) {
		// SVG y grows downward.
		return int(math.Round((x - xmin) * sx)), int(math.Round((ymax - y) * sy))
	}

	canvas := svg.New(w)
	canvas.Start(width, height)
	canvas.Rect(0, 0, width, height, "fill:white")
	for _, c := range cols {
		drawCollection(canvas, c, toPix)
	}
	canvas.End()
	return nil
}

func drawCollection(canvas *svg.SVG, c *Collection, toPix func(x, y float64) (int, int)) {
	fill := fillFunc(c.Colors)
	switch p := c.Primitive.(type) {
	case *PolygonSet:
		for r, ring := range p.Rings {
			xs := make([]int, len(ring))
			ys := make([]int, len(ring))
			for i, pt := range ring {
				xs[i], ys[i] = toPix(pt.X, pt.Y)
			}
			canvas.Polygon(xs, ys, polyStyle(fill(r)))
		}
	case *QuadMesh:
		ramp := newRamp(p.Values)
		for i := 0; i < p.Rows; i++ {
			for j := 0; j < p.Cols; j++ {
				face := i*p.Cols + j
				cl := fill(face)
				if p.Values != nil {
					if math.IsNaN(p.Values[face]) {
						continue
					}
					cl = ramp.at(p.Values[face])
				}
				corners := [4]int{
					p.VertexIndex(i, j), p.VertexIndex(i, j+1),
					p.VertexIndex(i+1, j+1), p.VertexIndex(i+1, j),
				}
				xs := make([]int, 4)
				ys := make([]int, 4)
				bad := false
				for k, v := range corners {
					if math.IsNaN(p.X[v]) || math.IsNaN(p.Y[v]) {
						bad = true
						break
					}
					xs[k], ys[k] = toPix(p.X[v], p.Y[v])
				}
				if bad {
					continue
				}
				canvas.Polygon(xs, ys, polyStyle(cl))
			}
		}
	case *TriMesh:
		ramp := newRamp(p.Values)
		for _, t := range p.Triangles {
			cl := fill(0)
			if p.Values != nil {
				cl = ramp.at((p.Values[t[0]] + p.Values[t[1]] + p.Values[t[2]]) / 3)
			}
			xs := make([]int, 3)
			ys := make([]int, 3)
			for k := 0; k < 3; k++ {
				xs[k], ys[k] = toPix(p.X[t[k]], p.Y[t[k]])
			}
			canvas.Polygon(xs, ys, polyStyle(cl))
		}
	case *Markers:
		for i := range p.X {
			x, y := toPix(p.X[i], p.Y[i])
			size := p.Sizes[0]
			if len(p.Sizes) > 1 {
				size = p.Sizes[i]
			}
			rad := max(1, int(math.Round(math.Sqrt(size))))
			style := polyStyle(fill(i))
			if p.Marker == "s" {
				canvas.Rect(x-rad, y-rad, 2*rad, 2*rad, style)
			} else {
				canvas.Circle(x, y, rad, style)
			}
		}
	}
}

// fillFunc resolves a color buffer to a per-primitive color lookup.
func fillFunc(b *ColorBuffer) func(i int) RGBA {
	gray := RGBA{R: 0.5, G: 0.5, B: 0.5, A: 1}
	if b == nil {
		return func(int) RGBA { return gray }
	}
	switch b.Kind {
	case ColorUniform:
		return func(int) RGBA { return b.Uniform }
	case ColorPerDatum:
		return func(i int) RGBA {
			if i < len(b.Colors) {
				return b.Colors[i]
			}
			return gray
		}
	case ColorScalar:
		ramp := newRamp(b.Scalars)
		return func(i int) RGBA {
			if i < len(b.Scalars) {
				return ramp.at(b.Scalars[i])
			}
			return gray
		}
	}
	return func(int) RGBA { return gray }
}

// ramp maps scalars onto a dark-blue to gold gradient across the finite
// range of a buffer.
type ramp struct {
	lo, hi float64
}

func newRamp(vals []float64) ramp {
	r := ramp{lo: math.Inf(1), hi: math.Inf(-1)}
	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		r.lo, r.hi = math.Min(r.lo, v), math.Max(r.hi, v)
	}
	return r
}

func (r ramp) at(v float64) RGBA {
	t := 0.5
	if r.hi > r.lo && !math.IsNaN(v) {
		t = (v - r.lo) / (r.hi - r.lo)
	}
	return RGBA{R: 0.1, G: 0.1, B: 0.4, A: 1}.Lerp(RGBA{R: 1, G: 0.85, B: 0.2, A: 1}, t)
}

func polyStyle(c RGBA) string {
	return fmt.Sprintf("fill:%s;fill-opacity:%.3f;stroke:black;stroke-width:0.5", hexColor(c), c.A)
}

func hexColor(c RGBA) string {
	to255 := func(v float64) int {
		return int(math.Round(math.Min(math.Max(v, 0), 1) * 255))
	}
	return fmt.Sprintf("#%02x%02x%02x", to255(c.R), to255(c.G), to255(c.B))
}
