package shapes

import (
	"math"
	"testing"
)

// sphericalRing is one center plus eight points on a 10 degree circle
// around it, in lon/lat degrees. Only the center gets a bounded region.
func sphericalRing(t *testing.T, clon, clat float64) *PointSet {
	t.Helper()
	lon := []float64{clon}
	lat := []float64{clat}
	for k := 0; k < 8; k++ {
		a := float64(k) * 45 * math.Pi / 180
		lon = append(lon, clon+10*math.Cos(a))
		lat = append(lat, clat+10*math.Sin(a))
	}
	return mustPointSet(t, lon, lat, EPSG(4326))
}

func TestSphericalVoronoiCenterCell(t *testing.T) {
	eng := mustEngine(t, EPSG(4326))

	col, err := eng.Build(sphericalRing(t, 0, 0), SphericalVoronoi{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if col.Survivors() != 1 {
		t.Fatalf("survivors = %d, want 1 (ring points are hull regions)", col.Survivors())
	}
	if !col.Mask[0] {
		t.Fatal("center region was masked")
	}
	p := col.Primitive.(*PolygonSet)
	if len(p.Rings) != 1 || len(p.Rings[0]) != 8 {
		t.Fatalf("rings = %v, want one 8-vertex region", p.Rings)
	}
	// Region vertices are spherical circumcenters, about 5.4 degrees
	// out from the center.
	for i, pt := range p.Rings[0] {
		d := math.Hypot(pt.X, pt.Y)
		if d < 4.5 || d > 6.5 {
			t.Errorf("vertex %d at %v degrees from center, want about 5.4", i, d)
		}
	}
}

func TestSphericalVoronoiAntimeridian(t *testing.T) {
	// A region around (180, 0) stays a closed ring on the sphere; its
	// vertices come back straddling the dateline.
	eng := mustEngine(t, EPSG(4326))

	col, err := eng.Build(sphericalRing(t, 180, 0), SphericalVoronoi{Unmasked: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !col.Mask[0] {
		t.Fatal("center region was masked")
	}
	ring := col.Primitive.(*PolygonSet).Rings[0]
	if len(ring) != 8 {
		t.Fatalf("ring vertices = %d, want 8", len(ring))
	}
	east, west := false, false
	for _, pt := range ring {
		switch {
		case pt.X > 170:
			east = true
		case pt.X < -170:
			west = true
		default:
			t.Errorf("vertex at lon %v, want near the dateline", pt.X)
		}
	}
	if !east || !west {
		t.Errorf("ring does not straddle the dateline (east %v, west %v)", east, west)
	}
}

func TestSphericalVoronoiPolarCell(t *testing.T) {
	// Around the pole planar tessellation degenerates; the spherical
	// variant keeps a tight region at latitude ~84.6.
	eng := mustEngine(t, EPSG(4326))
	lon := []float64{0}
	lat := []float64{90}
	for k := 0; k < 8; k++ {
		lon = append(lon, float64(k)*45)
		lat = append(lat, 80)
	}
	ps := mustPointSet(t, lon, lat, EPSG(4326))

	col, err := eng.Build(ps, SphericalVoronoi{Unmasked: true})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !col.Mask[0] {
		t.Fatal("polar region was masked")
	}
	ring := col.Primitive.(*PolygonSet).Rings[0]
	if len(ring) != 8 {
		t.Fatalf("ring vertices = %d, want 8", len(ring))
	}
	for i, pt := range ring {
		if pt.Y < 84 || pt.Y > 85.2 {
			t.Errorf("vertex %d at lat %v, want about 84.6", i, pt.Y)
		}
	}
}

func TestSphericalVoronoiDegenerate(t *testing.T) {
	// Two antipodal points cancel in the centroid and cannot
	// triangulate; the build yields an empty collection, not an error.
	eng := mustEngine(t, EPSG(4326))
	ps := mustPointSet(t, []float64{0, 180}, []float64{0, 0}, EPSG(4326))

	col, err := eng.Build(ps, SphericalVoronoi{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if col.Survivors() != 0 || len(col.Mask) != 2 {
		t.Errorf("mask = %v, want 2 entries all false", col.Mask)
	}
	if p := col.Primitive.(*PolygonSet); len(p.Rings) != 0 {
		t.Errorf("rings = %d, want 0", len(p.Rings))
	}
}
