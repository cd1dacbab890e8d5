package shapes

const (
	defaultTransformCache = 128
	defaultRadiusCache    = 64
)

type engineConfig struct {
	resolver     ProjResolver
	geod         Geodesic
	transformCap int
	radiusCap    int
	tessellate   bool
	aggregate    bool
}

// Option configures an Engine at construction time.
type Option func(*engineConfig)

// WithProjResolver replaces the projection backend. Tests use this to
// install cheap affine transforms.
func WithProjResolver(r ProjResolver) Option {
	return func(c *engineConfig) {
		if r != nil {
			c.resolver = r
		}
	}
}

// WithGeodesic replaces the ellipsoid solver used for geodesic circles.
func WithGeodesic(g Geodesic) Option {
	return func(c *engineConfig) {
		if g != nil {
			c.geod = g
		}
	}
}

// WithTransformCacheSize bounds the compiled-transform cache; 0 keeps
// every compiled transform.
func WithTransformCacheSize(n int) Option {
	return func(c *engineConfig) { c.transformCap = n }
}

// WithRadiusCacheSize bounds the radius-estimate cache; 0 keeps every
// estimate.
func WithRadiusCacheSize(n int) Option {
	return func(c *engineConfig) { c.radiusCap = n }
}

// WithoutTessellation removes the triangulation capability. Voronoi and
// Delaunay builds then fail with ErrMissingBackend instead of pulling
// in the tessellation machinery.
func WithoutTessellation() Option {
	return func(c *engineConfig) { c.tessellate = false }
}

// WithoutAggregation removes the grid-reduction capability. Raster
// builds with MaxSize set, hexbin builds, and contour builds over
// irregular points then fail with ErrMissingBackend.
func WithoutAggregation() Option {
	return func(c *engineConfig) { c.aggregate = false }
}

type buildConfig struct {
	uniform  *RGBA
	perDatum []RGBA
	err      error
}

// BuildOption configures a single Build call.
type BuildOption func(*buildConfig)

// WithUniformColor paints every primitive of the collection with one
// color instead of binding dataset values.
func WithUniformColor(c RGBA) BuildOption {
	return func(b *buildConfig) { b.uniform = &c }
}

// WithNamedColor is WithUniformColor for an SVG color name.
func WithNamedColor(name string) BuildOption {
	return func(b *buildConfig) {
		c, err := Named(name)
		if err != nil {
			b.err = err
			return
		}
		b.uniform = &c
	}
}

// WithColors binds one explicit color per datum; the binder subsets
// them to the surviving data.
func WithColors(cs []RGBA) BuildOption {
	return func(b *buildConfig) { b.perDatum = cs }
}
