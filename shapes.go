package shapes

// Spec selects a shape family and its parameters. The interface is
// sealed: the variants are the structs below, and Engine.Build
// dispatches over them exhaustively. Specs are plain values; a spec
// never mutates during a build, so one value can be reused across
// datasets and goroutines.
type Spec interface {
	// Name returns the shape family name used in collections and logs.
	Name() string
	isSpec()
}

// Defaults shared by the masked shape families. Zero fields on a spec
// select these.
const (
	defaultMaskTolerance  = 25.0 // degrees around the seam meridian
	defaultMaskRadiusMult = 4.0  // multiples of the mask radius
	defaultScatterSize    = 20.0
	defaultHexbinGrid     = 100
	defaultContourLevels  = 10
)

// GeodCircles draws circles with a true metric radius, solved point by
// point on the ellipsoid surface. Radius holds meters, one value for all
// data or one per datum; there is no estimated default because a metric
// radius cannot be derived from CRS-unit spacing.
type GeodCircles struct {
	Radius []float64
	// N is the number of ring points; 0 picks a resolution adapted to
	// the dataset size.
	N int
	// Unmasked keeps ring points on the far side of the seam meridian
	// instead of masking them.
	Unmasked bool
	// MaskTolerance widens the seam band, in degrees; 0 means 25.
	MaskTolerance float64
}

func (GeodCircles) Name() string { return "geod_circles" }
func (GeodCircles) isSpec()      {}

// Ellipses draws parametric ellipses with radii measured in a chosen
// CRS. A zero Radius is estimated from the dataset's point spacing.
type Ellipses struct {
	Radius    Radius
	RadiusCRS RadiusCRS
	// Rotation tilts every ellipse counterclockwise, in degrees.
	Rotation      float64
	N             int
	Unmasked      bool
	MaskTolerance float64
}

func (Ellipses) Name() string { return "ellipses" }
func (Ellipses) isSpec()      {}

// Rectangles draws axis-aligned rectangles around each datum, with
// edges subdivided so they stay curved under reprojection. Radii are
// measured in the input or plot CRS; arbitrary intermediate systems are
// not supported for rectangles.
type Rectangles struct {
	Radius    Radius
	RadiusCRS RadiusCRS
	// N is the number of points per edge segment; 0 means corners only.
	N int
	// Mesh renders all rectangles as one shared triangle mesh instead
	// of individual polygons. Meshes ignore N.
	Mesh bool
}

func (Rectangles) Name() string { return "rectangles" }
func (Rectangles) isSpec()      {}

// Raster renders a structured grid as a quadrilateral mesh with one
// face per datum. Cell boundaries sit halfway between neighboring data
// points.
type Raster struct {
	// MaxSize triggers a block-aggregation pre-pass when the grid holds
	// more cells than this; 0 disables aggregation.
	MaxSize int
	// Aggregator selects the block reduction; the zero value is Mean.
	Aggregator Aggregator
	// ValidFraction makes an aggregated cell NaN when fewer than this
	// fraction of its source samples are finite; 0 keeps every cell
	// with at least one finite sample.
	ValidFraction float64
}

func (Raster) Name() string { return "raster" }
func (Raster) isSpec()      {}

// VoronoiDiagram partitions the plot plane into one convex region per
// datum. Regions touching the hull are unbounded and always discarded;
// masking additionally hides regions whose vertices stray far from
// their datum.
type VoronoiDiagram struct {
	Unmasked bool
	// MaskRadiusMult scales the distance beyond which region vertices
	// mask their datum; 0 means 4.
	MaskRadiusMult float64
}

func (VoronoiDiagram) Name() string { return "voronoi_diagram" }
func (VoronoiDiagram) isSpec()      {}

// SphericalVoronoi partitions the sphere instead of the plane, so cells
// stay exact around poles and the antimeridian, then projects the cell
// boundaries to the plot CRS.
type SphericalVoronoi struct {
	Unmasked       bool
	MaskRadiusMult float64
}

func (SphericalVoronoi) Name() string { return "spherical_voronoi" }
func (SphericalVoronoi) isSpec()      {}

// DelaunayTriangulation triangulates the data and renders the triangles
// either as independent polygons (Flat) or as one shared mesh with
// per-vertex values. Masking hides triangles with edges much longer
// than the dataset's mask radius.
type DelaunayTriangulation struct {
	Unmasked       bool
	MaskRadiusMult float64
	// MaskRadiusCRS measures edge lengths in the input or plot CRS;
	// zero means input.
	MaskRadiusCRS RadiusCRS
	Flat          bool
}

func (DelaunayTriangulation) Name() string { return "delaunay_triangulation" }
func (DelaunayTriangulation) isSpec()      {}

// ScatterPoints renders one marker per datum without any geometry
// derived from radii.
type ScatterPoints struct {
	// Size is the uniform marker area; 0 means the default size.
	Size float64
	// Sizes optionally overrides Size per datum.
	Sizes []float64
	// Marker names the glyph ("o", "s", "^", ...); "" means "o".
	Marker string
}

func (ScatterPoints) Name() string { return "scatter_points" }
func (ScatterPoints) isSpec()      {}

// Hexbin aggregates points into a hexagonal grid in the plot CRS and
// renders one hexagon per non-empty bin.
type Hexbin struct {
	// GridSize is the number of hexagons across the x extent; 0 means
	// 100.
	GridSize int
	// Aggregator reduces the values falling into each bin; the zero
	// value is Mean. Bins aggregate counts when the dataset carries no
	// values.
	Aggregator Aggregator
}

func (Hexbin) Name() string { return "hexbin" }
func (Hexbin) isSpec()      {}

// Contour grids the data and attaches contour level values for the
// renderer to trace. Level geometry itself is the renderer's job; the
// collection carries the gridded field and the levels.
type Contour struct {
	// Levels lists explicit level values; empty derives NLevels equal
	// steps across the data range.
	Levels []float64
	// NLevels is the number of derived levels; 0 means 10.
	NLevels int
	// Filled marks the collection for filled bands rather than lines.
	Filled bool
}

func (Contour) Name() string { return "contour" }
func (Contour) isSpec()      {}

// maskTolerance applies the seam-band default.
func maskTolerance(v float64) float64 {
	if v > 0 {
		return v
	}
	return defaultMaskTolerance
}

// maskRadiusMult applies the mask-distance default.
func maskRadiusMult(v float64) float64 {
	if v > 0 {
		return v
	}
	return defaultMaskRadiusMult
}

// adaptiveRingN picks a ring resolution for circles and ellipses,
// spending fewer vertices per shape as datasets grow.
func adaptiveRingN(specN, datasetLen int) int {
	if specN > 0 {
		return specN
	}
	n := 100000 / max(datasetLen, 1)
	return min(max(n, 12), 100)
}
