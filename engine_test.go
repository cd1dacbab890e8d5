package shapes

import (
	"errors"
	"math"
	"testing"
)

// planarCRS is a projected system with no built-in area-of-use bounds,
// used where tests want coordinates to pass through untouched.
var planarCRS = Proj4("+proj=laea +lat_0=0 +lon_0=0 +x_0=0 +y_0=0 +units=m +no_defs")

// affineResolver stands in for the projection backend. It compiles
// transforms that scale both coordinates by a constant and counts
// compilations, so tests can observe the transform cache.
type affineResolver struct {
	scale    float64 // 0 means 1
	fail     bool
	compiles int
}

func (r *affineResolver) Compile(fromDef, toDef string) (PointTransform, error) {
	r.compiles++
	if r.fail {
		return nil, errors.New("compile refused")
	}
	s := r.scale
	if s == 0 {
		s = 1
	}
	return func(x, y float64) (float64, float64, error) {
		return x * s, y * s, nil
	}, nil
}

func mustEngine(t *testing.T, plot CRS, opts ...Option) *Engine {
	t.Helper()
	eng, err := New(plot, opts...)
	if err != nil {
		t.Fatalf("New(%v): %v", plot, err)
	}
	return eng
}

func mustPointSet(t *testing.T, x, y []float64, crs CRS) *PointSet {
	t.Helper()
	ps, err := NewPointSet(x, y, crs)
	if err != nil {
		t.Fatalf("NewPointSet: %v", err)
	}
	return ps
}

func mustValues(t *testing.T, ps *PointSet, vals []float64) *PointSet {
	t.Helper()
	out, err := ps.WithValues(vals)
	if err != nil {
		t.Fatalf("WithValues: %v", err)
	}
	return out
}

// latticePoints builds a rows x cols structured point set with the given
// spacings, origin at (0, 0).
func latticePoints(t *testing.T, rows, cols int, dx, dy float64, crs CRS) *PointSet {
	t.Helper()
	xs := make([]float64, rows*cols)
	ys := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			xs[i*cols+j] = float64(j) * dx
			ys[i*cols+j] = float64(i) * dy
		}
	}
	gx, err := GridFromSlice(xs, rows, cols)
	if err != nil {
		t.Fatalf("GridFromSlice: %v", err)
	}
	gy, err := GridFromSlice(ys, rows, cols)
	if err != nil {
		t.Fatalf("GridFromSlice: %v", err)
	}
	ps, err := NewGridPointSet(gx, gy, crs)
	if err != nil {
		t.Fatalf("NewGridPointSet: %v", err)
	}
	return ps
}

func approx(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

func TestNewRejectsBadCRS(t *testing.T) {
	tests := []struct {
		name    string
		crs     CRS
		wantErr bool
	}{
		{"zero value", CRS{}, true},
		{"unknown epsg", EPSG(99999), true},
		{"known epsg", EPSG(3857), false},
		{"proj definition", planarCRS, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.crs)
			if (err != nil) != tt.wantErr {
				t.Errorf("New(%v) error = %v, wantErr %v", tt.crs, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrCRSResolve) {
				t.Errorf("New(%v) error = %v, want ErrCRSResolve", tt.crs, err)
			}
		})
	}
}

func TestTransformCachesCompiledPairs(t *testing.T) {
	res := &affineResolver{}
	eng := mustEngine(t, EPSG(3857), WithProjResolver(res))

	if _, err := eng.Transform(EPSG(4326), EPSG(3857)); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if _, err := eng.Transform(EPSG(4326), EPSG(3857)); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if res.compiles != 1 {
		t.Errorf("compiles after repeated identical pair = %d, want 1", res.compiles)
	}

	if _, err := eng.Transform(EPSG(3857), EPSG(4326)); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if res.compiles != 2 {
		t.Errorf("compiles after reverse pair = %d, want 2", res.compiles)
	}

	eng.InvalidateTransforms()
	if _, err := eng.Transform(EPSG(4326), EPSG(3857)); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if res.compiles != 3 {
		t.Errorf("compiles after invalidation = %d, want 3", res.compiles)
	}
}

func TestTransformEquivalentDescriptorsShortCircuit(t *testing.T) {
	res := &affineResolver{}
	eng := mustEngine(t, EPSG(3857), WithProjResolver(res))

	// Same system spelled as an EPSG code and as a proj string, with
	// the tokens shuffled.
	spelled := Proj4("+no_defs +datum=WGS84 +proj=longlat")
	tr, err := eng.Transform(EPSG(4326), spelled)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if res.compiles != 0 {
		t.Errorf("compiles = %d, want 0 for equivalent descriptors", res.compiles)
	}
	xs, ys := tr([]float64{1, 2}, []float64{3, 4})
	if xs[0] != 1 || xs[1] != 2 || ys[0] != 3 || ys[1] != 4 {
		t.Errorf("identity transform altered coordinates: %v %v", xs, ys)
	}
}

func TestTransformCompileFailureNotCached(t *testing.T) {
	res := &affineResolver{fail: true}
	eng := mustEngine(t, EPSG(3857), WithProjResolver(res))

	if _, err := eng.Transform(EPSG(4326), EPSG(3857)); err == nil {
		t.Fatal("Transform with failing resolver succeeded")
	}
	res.fail = false
	if _, err := eng.Transform(EPSG(4326), EPSG(3857)); err != nil {
		t.Fatalf("Transform after resolver recovered: %v", err)
	}
	if res.compiles != 2 {
		t.Errorf("compiles = %d, want 2 (failures must not be cached)", res.compiles)
	}
}

func TestEstimateRadiusMemoizedPerDataset(t *testing.T) {
	eng := mustEngine(t, planarCRS)
	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{0, 0, 0, 0, 0}
	ps := mustPointSet(t, xs, ys, planarCRS)

	rx, ry, err := eng.EstimateRadius(ps)
	if err != nil {
		t.Fatalf("EstimateRadius: %v", err)
	}
	if !approx(rx, 0.5, 1e-12) || !approx(ry, 0.5, 1e-12) {
		t.Fatalf("EstimateRadius = (%v, %v), want (0.5, 0.5)", rx, ry)
	}

	// Stretch the coordinate storage in place. The memoized estimate
	// must not notice until the dataset is invalidated.
	for i := range xs {
		xs[i] *= 3
	}
	rx2, ry2, err := eng.EstimateRadius(ps)
	if err != nil {
		t.Fatalf("EstimateRadius: %v", err)
	}
	if rx2 != rx || ry2 != ry {
		t.Errorf("memoized EstimateRadius = (%v, %v), want (%v, %v)", rx2, ry2, rx, ry)
	}

	eng.InvalidateDataset(ps)
	rx3, ry3, err := eng.EstimateRadius(ps)
	if err != nil {
		t.Fatalf("EstimateRadius: %v", err)
	}
	if !approx(rx3, 1.5, 1e-12) || !approx(ry3, 1.5, 1e-12) {
		t.Errorf("EstimateRadius after invalidation = (%v, %v), want (1.5, 1.5)", rx3, ry3)
	}
}

func TestEstimateRadiusSharedByDerivedSets(t *testing.T) {
	eng := mustEngine(t, planarCRS)
	ps := mustPointSet(t, []float64{0, 2, 4}, []float64{0, 0, 0}, planarCRS)
	withVals := mustValues(t, ps, []float64{7, 8, 9})

	rx, ry, err := eng.EstimateRadius(ps)
	if err != nil {
		t.Fatalf("EstimateRadius: %v", err)
	}
	rx2, ry2, err := eng.EstimateRadius(withVals)
	if err != nil {
		t.Fatalf("EstimateRadius: %v", err)
	}
	if rx != rx2 || ry != ry2 {
		t.Errorf("derived set estimate = (%v, %v), want (%v, %v)", rx2, ry2, rx, ry)
	}
}

func TestResolveRadiusInPlotCRS(t *testing.T) {
	// The fake resolver doubles coordinates, so spacings measured in
	// the plot CRS are twice the input spacings.
	res := &affineResolver{scale: 2}
	eng := mustEngine(t, EPSG(3857), WithProjResolver(res))
	ps := mustPointSet(t, []float64{0, 1, 2, 3}, []float64{0, 0, 0, 0}, EPSG(4326))

	rad, rcrs, err := eng.resolveRadius(ps, Radius{}, RadiusCRSOut())
	if err != nil {
		t.Fatalf("resolveRadius: %v", err)
	}
	if !rcrs.Equal(EPSG(3857)) {
		t.Errorf("radius CRS = %v, want plot CRS", rcrs)
	}
	rx, ry := rad.at(0)
	if !approx(rx, 1, 1e-12) || !approx(ry, 1, 1e-12) {
		t.Errorf("estimated plot-CRS radius = (%v, %v), want (1, 1)", rx, ry)
	}

	rad, rcrs, err = eng.resolveRadius(ps, Radius{}, RadiusCRS{})
	if err != nil {
		t.Fatalf("resolveRadius: %v", err)
	}
	if !rcrs.Equal(EPSG(4326)) {
		t.Errorf("default radius CRS = %v, want input CRS", rcrs)
	}
	rx, ry = rad.at(0)
	if !approx(rx, 0.5, 1e-12) || !approx(ry, 0.5, 1e-12) {
		t.Errorf("estimated input-CRS radius = (%v, %v), want (0.5, 0.5)", rx, ry)
	}
}

func TestBuildValidatesArguments(t *testing.T) {
	eng := mustEngine(t, planarCRS)
	ps := mustPointSet(t, []float64{0, 1}, []float64{0, 1}, planarCRS)

	if _, err := eng.Build(nil, ScatterPoints{}); err == nil {
		t.Error("Build(nil, spec) succeeded")
	}
	if _, err := eng.Build(ps, nil); err == nil {
		t.Error("Build(ps, nil) succeeded")
	}
}

func TestBuildWithoutBackends(t *testing.T) {
	scattered := mustPointSet(t,
		[]float64{0, 1, 2, 0, 1, 2},
		[]float64{0, 0, 0, 1, 1, 1}, planarCRS)
	valued := mustValues(t, scattered, []float64{1, 2, 3, 4, 5, 6})
	grid := latticePoints(t, 3, 3, 1, 1, planarCRS)

	tests := []struct {
		name string
		opt  Option
		ps   *PointSet
		spec Spec
	}{
		{"voronoi", WithoutTessellation(), scattered, VoronoiDiagram{}},
		{"spherical voronoi", WithoutTessellation(), scattered, SphericalVoronoi{}},
		{"delaunay", WithoutTessellation(), scattered, DelaunayTriangulation{}},
		{"hexbin", WithoutAggregation(), scattered, Hexbin{}},
		{"raster aggregation", WithoutAggregation(), grid, Raster{MaxSize: 4}},
		{"contour binning", WithoutAggregation(), valued, Contour{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eng := mustEngine(t, planarCRS, tt.opt)
			_, err := eng.Build(tt.ps, tt.spec)
			if !errors.Is(err, ErrMissingBackend) {
				t.Errorf("Build error = %v, want ErrMissingBackend", err)
			}
		})
	}
}

func TestBuildBindsValuesToSurvivors(t *testing.T) {
	eng := mustEngine(t, EPSG(4326))
	ps := mustPointSet(t,
		[]float64{0, math.NaN(), 1},
		[]float64{0, 0, 0}, EPSG(4326))
	ps = mustValues(t, ps, []float64{10, 20, 30})

	col, err := eng.Build(ps, Ellipses{Radius: FixedRadius(0.25), N: 8})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	wantMask := Mask{true, false, true}
	if len(col.Mask) != 3 || col.Mask[0] != wantMask[0] || col.Mask[1] != wantMask[1] || col.Mask[2] != wantMask[2] {
		t.Fatalf("mask = %v, want %v", col.Mask, wantMask)
	}
	if col.Colors == nil || col.Colors.Kind != ColorScalar {
		t.Fatalf("Colors = %+v, want scalar buffer", col.Colors)
	}
	want := []float64{10, 30}
	if len(col.Colors.Scalars) != 2 || col.Colors.Scalars[0] != want[0] || col.Colors.Scalars[1] != want[1] {
		t.Errorf("Scalars = %v, want %v", col.Colors.Scalars, want)
	}
}

func TestBuildExplicitColorOptions(t *testing.T) {
	eng := mustEngine(t, EPSG(4326))
	ps := mustPointSet(t,
		[]float64{0, math.NaN(), 1},
		[]float64{0, 0, 0}, EPSG(4326))
	spec := Ellipses{Radius: FixedRadius(0.25), N: 8}

	t.Run("per datum colors subset to survivors", func(t *testing.T) {
		in := []RGBA{RGB(1, 0, 0), RGB(0, 1, 0), RGB(0, 0, 1)}
		col, err := eng.Build(ps, spec, WithColors(in))
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if col.Colors == nil || col.Colors.Kind != ColorPerDatum {
			t.Fatalf("Colors = %+v, want per-datum buffer", col.Colors)
		}
		if len(col.Colors.Colors) != 2 || col.Colors.Colors[0] != in[0] || col.Colors.Colors[1] != in[2] {
			t.Errorf("Colors = %v, want survivors [%v %v]", col.Colors.Colors, in[0], in[2])
		}
	})

	t.Run("per datum length mismatch", func(t *testing.T) {
		_, err := eng.Build(ps, spec, WithColors([]RGBA{RGB(1, 0, 0)}))
		if !errors.Is(err, ErrBadPointSet) {
			t.Errorf("Build error = %v, want ErrBadPointSet", err)
		}
	})

	t.Run("uniform color", func(t *testing.T) {
		col, err := eng.Build(ps, spec, WithUniformColor(RGB(0, 0, 1)))
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if col.Colors == nil || col.Colors.Kind != ColorUniform || col.Colors.Uniform != RGB(0, 0, 1) {
			t.Errorf("Colors = %+v, want uniform blue", col.Colors)
		}
	})

	t.Run("named color", func(t *testing.T) {
		col, err := eng.Build(ps, spec, WithNamedColor("steelblue"))
		if err != nil {
			t.Fatalf("Build: %v", err)
		}
		if col.Colors == nil || col.Colors.Kind != ColorUniform {
			t.Fatalf("Colors = %+v, want uniform buffer", col.Colors)
		}
	})

	t.Run("unknown named color aborts", func(t *testing.T) {
		if _, err := eng.Build(ps, spec, WithNamedColor("not-a-color")); err == nil {
			t.Error("Build with unknown color name succeeded")
		}
	})
}

func TestBuildExplicitColorsOverrideBuilderScalars(t *testing.T) {
	eng := mustEngine(t, planarCRS)
	ps := mustPointSet(t, []float64{0, 1, 0}, []float64{0, 0, 1}, planarCRS)
	ps = mustValues(t, ps, []float64{1, 2, 3})

	// Flat triangulations bind averaged per-triangle scalars themselves;
	// an explicit option must still win.
	col, err := eng.Build(ps, DelaunayTriangulation{Flat: true}, WithUniformColor(RGB(1, 0, 0)))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if col.Colors == nil || col.Colors.Kind != ColorUniform {
		t.Errorf("Colors = %+v, want uniform override", col.Colors)
	}
}

func TestBuildMeshValuesStayInPrimitive(t *testing.T) {
	eng := mustEngine(t, EPSG(4326))
	ps := latticePoints(t, 2, 2, 1, 1, EPSG(4326))
	ps = mustValues(t, ps, []float64{1, 2, 3, 4})

	col, err := eng.Build(ps, Raster{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if col.Colors != nil {
		t.Errorf("Colors = %+v, want nil for mesh primitives", col.Colors)
	}
	m, ok := col.Primitive.(*QuadMesh)
	if !ok {
		t.Fatalf("Primitive = %T, want *QuadMesh", col.Primitive)
	}
	if len(m.Values) != 4 {
		t.Errorf("mesh carries %d values, want 4", len(m.Values))
	}
}

func TestCollectionMaskLengthInvariant(t *testing.T) {
	if _, err := newCollection("x", &PolygonSet{}, make(Mask, 2), 3); err == nil {
		t.Error("newCollection accepted a mask shorter than the dataset")
	}
	col, err := newCollection("x", &PolygonSet{}, Mask{true, false, true}, 3)
	if err != nil {
		t.Fatalf("newCollection: %v", err)
	}
	if col.Survivors() != 2 {
		t.Errorf("Survivors() = %d, want 2", col.Survivors())
	}
	if col.Empty() {
		t.Error("Empty() = true with survivors present")
	}
}
