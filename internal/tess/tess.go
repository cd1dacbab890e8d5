// Package tess wraps planar Delaunay triangulation and derives Voronoi
// regions from the triangulation's dual graph.
package tess

import (
	"errors"
	"fmt"
	"math"

	"github.com/fogleman/delaunay"
)

// ErrDegenerate reports a point set with no triangulation: fewer than
// three distinct finite points, or all points collinear.
var ErrDegenerate = errors.New("tess: degenerate point set")

// Triangulation is planar Delaunay connectivity in delaunator layout.
// Triangles holds local point indices in triplets; Halfedges pairs each
// directed edge with its twin, -1 on the hull. Index maps local point
// order back to the caller's indices, since non-finite input points are
// dropped before triangulating.
type Triangulation struct {
	X, Y      []float64
	Index     []int
	Triangles []int
	Halfedges []int
}

// Triangulate builds the Delaunay triangulation of the finite points.
func Triangulate(x, y []float64) (*Triangulation, error) {
	pts := make([]delaunay.Point, 0, len(x))
	t := &Triangulation{}
	for i := range x {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) || math.IsInf(x[i], 0) || math.IsInf(y[i], 0) {
			continue
		}
		pts = append(pts, delaunay.Point{X: x[i], Y: y[i]})
		t.X = append(t.X, x[i])
		t.Y = append(t.Y, y[i])
		t.Index = append(t.Index, i)
	}
	if len(pts) < 3 {
		return nil, fmt.Errorf("%w: %d finite points", ErrDegenerate, len(pts))
	}
	d, err := delaunay.Triangulate(pts)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerate, err)
	}
	if len(d.Triangles) == 0 {
		return nil, ErrDegenerate
	}
	t.Triangles = d.Triangles
	t.Halfedges = d.Halfedges
	return t, nil
}

// NumTriangles returns the triangle count.
func (t *Triangulation) NumTriangles() int { return len(t.Triangles) / 3 }

// Triangle returns the local point indices of triangle i.
func (t *Triangulation) Triangle(i int) (a, b, c int) {
	return t.Triangles[3*i], t.Triangles[3*i+1], t.Triangles[3*i+2]
}

// Circumcenter returns the circumcenter of triangle i.
func (t *Triangulation) Circumcenter(i int) (x, y float64) {
	a, b, c := t.Triangle(i)
	ax, ay := t.X[a], t.Y[a]
	dx, dy := t.X[b]-ax, t.Y[b]-ay
	ex, ey := t.X[c]-ax, t.Y[c]-ay
	bl := dx*dx + dy*dy
	cl := ex*ex + ey*ey
	det := 2 * (dx*ey - dy*ex)
	return ax + (ey*bl-dy*cl)/det, ay + (dx*cl-ex*bl)/det
}

// nextHalfedge steps to the next halfedge of the same triangle.
func nextHalfedge(e int) int {
	if e%3 == 2 {
		return e - 2
	}
	return e + 1
}

// Cell is one Voronoi region: the caller's index of its generating
// point and the region vertices in walk order. Hull regions extend to
// infinity and carry no geometry.
type Cell struct {
	Point     int
	X, Y      []float64
	Unbounded bool
}

// VoronoiCells derives every point's Voronoi region using triangle
// circumcenters as region vertices.
func (t *Triangulation) VoronoiCells() []Cell {
	cx := make([]float64, t.NumTriangles())
	cy := make([]float64, t.NumTriangles())
	for i := range cx {
		cx[i], cy[i] = t.Circumcenter(i)
	}
	return t.VoronoiCellsFrom(cx, cy)
}

// VoronoiCellsFrom derives every point's Voronoi region using caller
// supplied per-triangle vertices, one per triangle. This is how the
// spherical variant reuses the planar dual walk with circumcenters
// solved on the sphere.
func (t *Triangulation) VoronoiCellsFrom(cx, cy []float64) []Cell {
	n := len(t.X)
	// One incoming halfedge per point, preferring hull edges so the
	// walk around a hull point starts at the fan boundary.
	incoming := make([]int, n)
	for p := range incoming {
		incoming[p] = -1
	}
	for e := 0; e < len(t.Triangles); e++ {
		p := t.Triangles[nextHalfedge(e)]
		if incoming[p] == -1 || t.Halfedges[e] == -1 {
			incoming[p] = e
		}
	}

	cells := make([]Cell, 0, n)
	for p := 0; p < n; p++ {
		cell := Cell{Point: t.Index[p]}
		start := incoming[p]
		if start == -1 {
			// Coincident duplicates never enter a triangle.
			cell.Unbounded = true
			cells = append(cells, cell)
			continue
		}
		for e := start; ; {
			tri := e / 3
			cell.X = append(cell.X, cx[tri])
			cell.Y = append(cell.Y, cy[tri])
			e = t.Halfedges[nextHalfedge(e)]
			if e == -1 {
				cell.Unbounded = true
				cell.X, cell.Y = nil, nil
				break
			}
			if e == start {
				break
			}
		}
		cells = append(cells, cell)
	}
	return cells
}
