package shapes

import (
	"fmt"
	"sync"

	"github.com/tidwall/geodesic"

	"github.com/mapplot/shapes/internal/cache"
)

// Geodesic solves the forward geodesic problem on an ellipsoid.
type Geodesic interface {
	// Direct walks distance meters from (lat1, lon1) along the initial
	// azimuth in degrees clockwise from north, returning the end point.
	Direct(lat1, lon1, azimuth, distance float64) (lat2, lon2 float64)
}

type wgs84Geodesic struct{}

func (wgs84Geodesic) Direct(lat1, lon1, azi, dist float64) (lat2, lon2 float64) {
	geodesic.WGS84.Direct(lat1, lon1, azi, dist, &lat2, &lon2, nil)
	return lat2, lon2
}

// Engine builds renderable collections for one plot CRS. It owns the
// compiled-transform and radius-estimate caches and the capability set
// chosen at construction; a single Engine is safe for concurrent Build
// calls.
type Engine struct {
	plotCRS    CRS
	resolver   ProjResolver
	geod       Geodesic
	tessellate bool
	aggregate  bool

	transforms *cache.Cache[transformKey, TransformFn]
	radii      *cache.Cache[uint64, *radiusMemo]
}

// radiusMemo holds the radius estimates of one dataset, keyed by the
// CRS the estimate was measured in. One dataset usually collects one or
// two entries (input CRS, plot CRS).
type radiusMemo struct {
	mu sync.Mutex
	m  map[string][2]float64
}

// New creates an engine targeting the given plot CRS.
func New(plotCRS CRS, opts ...Option) (*Engine, error) {
	if plotCRS.IsZero() {
		return nil, fmt.Errorf("%w: engine needs a plot CRS", ErrCRSResolve)
	}
	if _, err := plotCRS.resolveDef(); err != nil {
		return nil, err
	}
	cfg := engineConfig{
		resolver:     projResolver{},
		geod:         wgs84Geodesic{},
		transformCap: defaultTransformCache,
		radiusCap:    defaultRadiusCache,
		tessellate:   true,
		aggregate:    true,
	}
	for _, o := range opts {
		o(&cfg)
	}
	return &Engine{
		plotCRS:    plotCRS,
		resolver:   cfg.resolver,
		geod:       cfg.geod,
		tessellate: cfg.tessellate,
		aggregate:  cfg.aggregate,
		transforms: cache.New[transformKey, TransformFn](cfg.transformCap),
		radii:      cache.New[uint64, *radiusMemo](cfg.radiusCap),
	}, nil
}

// PlotCRS returns the target CRS every build projects into.
func (e *Engine) PlotCRS() CRS { return e.plotCRS }

// Transform returns the batch transform between two reference systems,
// compiling it on first use and caching it by canonical definition
// pair. Transforms between equivalent systems short-circuit to a copy.
func (e *Engine) Transform(from, to CRS) (TransformFn, error) {
	fromDef, err := from.resolveDef()
	if err != nil {
		return nil, err
	}
	toDef, err := to.resolveDef()
	if err != nil {
		return nil, err
	}
	if fromDef == toDef {
		return identityTransform, nil
	}
	return e.transforms.GetOrCreate(transformKey{from: fromDef, to: toDef}, func() (TransformFn, error) {
		pt, err := e.resolver.Compile(fromDef, toDef)
		if err != nil {
			return nil, err
		}
		Logger().Debug("compiled transform", "from", from.String(), "to", to.String())
		return batchTransform(pt), nil
	})
}

// toPlot returns the transform from a dataset's CRS into the plot CRS.
func (e *Engine) toPlot(from CRS) (TransformFn, error) {
	return e.Transform(from, e.plotCRS)
}

// EstimateRadius returns the spacing-derived half-extents of a dataset
// in its input CRS, memoized by dataset identity.
func (e *Engine) EstimateRadius(ps *PointSet) (rx, ry float64, err error) {
	return e.estimateInCRS(ps, ps.CRS())
}

// estimateInCRS estimates the dataset's radius measured in the target
// CRS, transforming the coordinates there first when it differs from
// the input CRS. Results are memoized per dataset and target; failures
// are not cached.
func (e *Engine) estimateInCRS(ps *PointSet, target CRS) (rx, ry float64, err error) {
	def, err := target.resolveDef()
	if err != nil {
		return 0, 0, err
	}
	inDef, err := ps.CRS().resolveDef()
	if err != nil {
		return 0, 0, err
	}
	memo, err := e.radii.GetOrCreate(ps.id, func() (*radiusMemo, error) {
		return &radiusMemo{m: make(map[string][2]float64)}, nil
	})
	if err != nil {
		return 0, 0, err
	}
	memo.mu.Lock()
	defer memo.mu.Unlock()
	if r, ok := memo.m[def]; ok {
		return r[0], r[1], nil
	}

	x, y := ps.X(), ps.Y()
	if def != inDef {
		tr, err := e.Transform(ps.CRS(), target)
		if err != nil {
			return 0, 0, err
		}
		x, y = tr(x, y)
	}
	rows, cols := ps.GridShape()
	rx, ry, err = estimateRadiusCoords(x, y, rows, cols)
	if err != nil {
		return 0, 0, err
	}
	memo.m[def] = [2]float64{rx, ry}
	Logger().Debug("estimated radius", "dataset", ps.id, "crs", target.String(), "rx", rx, "ry", ry)
	return rx, ry, nil
}

// resolveRadius turns a spec's radius request into concrete per-datum
// values and the CRS they are measured in, estimating from point
// spacing when the request is zero.
func (e *Engine) resolveRadius(ps *PointSet, r Radius, rc RadiusCRS) (Radius, CRS, error) {
	var rcrs CRS
	switch rc.kind {
	case radiusDefault, radiusIn:
		rcrs = ps.CRS()
	case radiusOut:
		rcrs = e.plotCRS
	case radiusExplicit:
		rcrs = rc.crs
	}
	if r.IsZero() {
		rx, ry, err := e.estimateInCRS(ps, rcrs)
		if err != nil {
			return Radius{}, CRS{}, err
		}
		r = RadiusXY(rx, ry)
	}
	if err := r.validFor(ps.Len()); err != nil {
		return Radius{}, CRS{}, err
	}
	return r, rcrs, nil
}

// InvalidateDataset drops cached results derived from the point set.
// Call it when coordinate storage passed to NewPointSet was modified in
// place.
func (e *Engine) InvalidateDataset(ps *PointSet) {
	e.radii.Delete(ps.id)
}

// InvalidateTransforms drops every compiled transform.
func (e *Engine) InvalidateTransforms() {
	e.transforms.Clear()
}

// Build turns a dataset into a renderable collection according to the
// spec. Per-datum geometry problems mask the datum and continue;
// configuration problems fail the whole build.
func (e *Engine) Build(ps *PointSet, spec Spec, opts ...BuildOption) (*Collection, error) {
	if ps == nil {
		return nil, fmt.Errorf("%w: nil point set", ErrBadPointSet)
	}
	if spec == nil {
		return nil, fmt.Errorf("shapes: nil spec")
	}
	var cfg buildConfig
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.err != nil {
		return nil, cfg.err
	}

	var (
		col *Collection
		err error
	)
	switch s := spec.(type) {
	case GeodCircles:
		col, err = e.buildGeodCircles(ps, s)
	case Ellipses:
		col, err = e.buildEllipses(ps, s)
	case Rectangles:
		col, err = e.buildRectangles(ps, s)
	case Raster:
		col, err = e.buildRaster(ps, s)
	case VoronoiDiagram:
		col, err = e.buildVoronoi(ps, s)
	case SphericalVoronoi:
		col, err = e.buildSphericalVoronoi(ps, s)
	case DelaunayTriangulation:
		col, err = e.buildDelaunay(ps, s)
	case ScatterPoints:
		col, err = e.buildScatter(ps, s)
	case Hexbin:
		col, err = e.buildHexbin(ps, s)
	case Contour:
		col, err = e.buildContour(ps, s)
	default:
		return nil, fmt.Errorf("shapes: unknown spec type %T", spec)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", spec.Name(), err)
	}

	// Explicit color options win; otherwise a buffer bound by the
	// builder itself (flat triangle averages) stays. Mesh primitives
	// embed their scalars per face or vertex, so dataset values do not
	// bind to them again.
	if cfg.uniform != nil || cfg.perDatum != nil {
		buf, err := bindColors(&cfg, nil, col.Mask)
		if err != nil {
			return nil, err
		}
		col.Colors = buf
	} else if col.Colors == nil {
		vals := ps.Values()
		switch col.Primitive.(type) {
		case *QuadMesh, *TriMesh:
			vals = nil
		}
		buf, err := bindColors(&cfg, vals, col.Mask)
		if err != nil {
			return nil, err
		}
		col.Colors = buf
	}

	Logger().Debug("built collection",
		"shape", col.Shape, "survivors", col.Survivors(), "of", len(col.Mask))
	return col, nil
}
