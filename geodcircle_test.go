package shapes

import (
	"errors"
	"math"
	"testing"

	"github.com/tidwall/geodesic"
)

func TestGeodCirclesRequireRadius(t *testing.T) {
	eng := mustEngine(t, EPSG(3857))
	ps := mustPointSet(t, []float64{10}, []float64{50}, EPSG(4326))

	_, err := eng.Build(ps, GeodCircles{N: 8})
	if !errors.Is(err, ErrRadiusEstimation) {
		t.Fatalf("err = %v, want ErrRadiusEstimation", err)
	}
}

func TestGeodCirclesRadiusCountMismatch(t *testing.T) {
	eng := mustEngine(t, EPSG(3857))
	ps := mustPointSet(t, []float64{10, 11, 12}, []float64{50, 50, 50}, EPSG(4326))

	_, err := eng.Build(ps, GeodCircles{Radius: []float64{1e3, 2e3}, N: 8})
	if !errors.Is(err, ErrBadPointSet) {
		t.Fatalf("err = %v, want ErrBadPointSet", err)
	}
}

func TestGeodCirclesPerDatumProblemsMask(t *testing.T) {
	// A NaN center and a non-positive radius must mask their datum, not
	// fail the build.
	eng := mustEngine(t, EPSG(4326))
	ps := mustPointSet(t,
		[]float64{10, math.NaN(), 12},
		[]float64{10, 50, 50},
		EPSG(4326))

	col, err := eng.Build(ps, GeodCircles{Radius: []float64{100e3, 100e3, -5}, N: 8})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	want := Mask{true, false, false}
	if len(col.Mask) != len(want) {
		t.Fatalf("mask length = %d, want %d", len(col.Mask), len(want))
	}
	for i := range want {
		if col.Mask[i] != want[i] {
			t.Errorf("mask[%d] = %v, want %v", i, col.Mask[i], want[i])
		}
	}
	if p := col.Primitive.(*PolygonSet); len(p.Rings) != 1 {
		t.Errorf("rings = %d, want 1", len(p.Rings))
	}
}

func TestGeodCirclesRingDistance(t *testing.T) {
	// Every ring point must sit the requested surface distance from the
	// center, checked with the inverse geodesic.
	const radius = 100e3
	eng := mustEngine(t, EPSG(4326))
	ps := mustPointSet(t, []float64{30}, []float64{45}, EPSG(4326))

	col, err := eng.Build(ps, GeodCircles{Radius: []float64{radius}, N: 12})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	pts := ringPoints(t, col)
	if len(pts) != 12 {
		t.Fatalf("ring points = %d, want 12", len(pts))
	}
	for i, pt := range pts {
		var dist float64
		geodesic.WGS84.Inverse(45, 30, pt.Y, pt.X, &dist, nil, nil)
		if math.Abs(dist-radius) > 0.5 {
			t.Errorf("ring point %d at distance %.2f m, want %.0f", i, dist, radius)
		}
	}
}

func TestGeodCirclesBroadcastRadius(t *testing.T) {
	eng := mustEngine(t, EPSG(4326))
	ps := mustPointSet(t, []float64{0, 1, 2}, []float64{0, 0, 0}, EPSG(4326))

	col, err := eng.Build(ps, GeodCircles{Radius: []float64{50e3}, N: 6})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if col.Survivors() != 3 {
		t.Errorf("survivors = %d, want 3", col.Survivors())
	}
	if p := col.Primitive.(*PolygonSet); len(p.Rings) != 3 {
		t.Errorf("rings = %d, want 3", len(p.Rings))
	}
}

func TestGeodCirclesAdaptiveRingResolution(t *testing.T) {
	// A lone datum with N unset gets the maximum ring resolution.
	eng := mustEngine(t, EPSG(4326))
	ps := mustPointSet(t, []float64{0}, []float64{0}, EPSG(4326))

	col, err := eng.Build(ps, GeodCircles{Radius: []float64{100e3}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if pts := ringPoints(t, col); len(pts) != 100 {
		t.Errorf("ring points = %d, want 100", len(pts))
	}
}
