package shapes

import (
	"errors"
	"math"
	"testing"
)

// ringApprox asserts a ring matches the expected points in order.
func ringApprox(t *testing.T, got []Point, want []Point, tol float64) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("ring has %d points, want %d", len(got), len(want))
	}
	for i := range want {
		if !approx(got[i].X, want[i].X, tol) || !approx(got[i].Y, want[i].Y, tol) {
			t.Errorf("point %d = (%v, %v), want (%v, %v)",
				i, got[i].X, got[i].Y, want[i].X, want[i].Y)
		}
	}
}

func TestEllipsesExactRing(t *testing.T) {
	eng := mustEngine(t, planarCRS, WithProjResolver(&affineResolver{}))
	ps := mustPointSet(t, []float64{10}, []float64{20}, planarCRS)

	col, err := eng.Build(ps, Ellipses{Radius: RadiusXY(2, 1), N: 4})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ringApprox(t, ringPoints(t, col), []Point{
		{12, 20}, {10, 21}, {8, 20}, {10, 19},
	}, 1e-9)
}

func TestEllipsesRotation(t *testing.T) {
	// Rotating by 90 degrees swaps the major axis onto y.
	eng := mustEngine(t, planarCRS, WithProjResolver(&affineResolver{}))
	ps := mustPointSet(t, []float64{10}, []float64{20}, planarCRS)

	col, err := eng.Build(ps, Ellipses{Radius: RadiusXY(2, 1), Rotation: 90, N: 4})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ringApprox(t, ringPoints(t, col), []Point{
		{10, 22}, {9, 20}, {10, 18}, {11, 20},
	}, 1e-9)
}

func TestEllipsesEstimatedRadius(t *testing.T) {
	// Without an explicit radius the spacing estimate supplies the
	// half-extents: a unit lattice estimates to 0.5 per axis.
	eng := mustEngine(t, planarCRS, WithProjResolver(&affineResolver{}))
	ps := latticePoints(t, 3, 3, 1, 1, planarCRS)

	col, err := eng.Build(ps, Ellipses{N: 4})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p := col.Primitive.(*PolygonSet)
	if len(p.Rings) != 9 {
		t.Fatalf("rings = %d, want 9", len(p.Rings))
	}
	ringApprox(t, p.Rings[0], []Point{
		{0.5, 0}, {0, 0.5}, {-0.5, 0}, {0, -0.5},
	}, 1e-9)
}

func TestEllipsesPerDatumRadii(t *testing.T) {
	eng := mustEngine(t, planarCRS, WithProjResolver(&affineResolver{}))
	ps := mustPointSet(t, []float64{0, 10}, []float64{0, 0}, planarCRS)

	col, err := eng.Build(ps, Ellipses{
		Radius: PerDatumRadius([]float64{1, 2}, []float64{0.5}),
		N:      4,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	p := col.Primitive.(*PolygonSet)
	if len(p.Rings) != 2 {
		t.Fatalf("rings = %d, want 2", len(p.Rings))
	}
	ringApprox(t, p.Rings[0], []Point{
		{1, 0}, {0, 0.5}, {-1, 0}, {0, -0.5},
	}, 1e-9)
	ringApprox(t, p.Rings[1], []Point{
		{12, 0}, {10, 0.5}, {8, 0}, {10, -0.5},
	}, 1e-9)
}

func TestEllipsesRadiusCountMismatch(t *testing.T) {
	eng := mustEngine(t, planarCRS, WithProjResolver(&affineResolver{}))
	ps := mustPointSet(t, []float64{0, 1, 2}, []float64{0, 0, 0}, planarCRS)

	_, err := eng.Build(ps, Ellipses{
		Radius: PerDatumRadius([]float64{1, 2}, []float64{1}),
		N:      4,
	})
	if !errors.Is(err, ErrBadPointSet) {
		t.Fatalf("err = %v, want ErrBadPointSet", err)
	}
}

func TestEllipsesExplicitRadiusCRS(t *testing.T) {
	// Ellipses accept an arbitrary intermediate CRS for the radius,
	// unlike rectangles.
	eng := mustEngine(t, planarCRS, WithProjResolver(&affineResolver{}))
	ps := mustPointSet(t, []float64{3}, []float64{4}, planarCRS)

	mid := Proj4("+proj=eqc +lat_0=0 +lon_0=0 +units=m +no_defs")
	col, err := eng.Build(ps, Ellipses{
		Radius:    FixedRadius(1),
		RadiusCRS: RadiusCRSExplicit(mid),
		N:         4,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	ringApprox(t, ringPoints(t, col), []Point{
		{4, 4}, {3, 5}, {2, 4}, {3, 3},
	}, 1e-9)
}

func TestEllipsesNonPositiveRadiusMasked(t *testing.T) {
	eng := mustEngine(t, planarCRS, WithProjResolver(&affineResolver{}))
	ps := mustPointSet(t, []float64{0, 5}, []float64{0, 0}, planarCRS)

	col, err := eng.Build(ps, Ellipses{
		Radius: PerDatumRadius([]float64{1, -1}, []float64{1, 1}),
		N:      8,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if col.Mask[0] != true || col.Mask[1] != false {
		t.Errorf("mask = %v, want [true false]", col.Mask)
	}
	if math.IsNaN(ringPoints(t, col)[0].X) {
		t.Error("surviving ring carries NaN coordinates")
	}
}
