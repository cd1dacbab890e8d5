package shapes

import (
	"errors"
	"fmt"
)

// Errors reported by the engine. Configuration problems (bad radius CRS,
// unresolvable CRS, missing backend, failed radius estimation) abort the
// whole build. Per-datapoint problems never do; degenerate points are
// recovered locally by masking them out of the result.
var (
	// ErrRadiusEstimation means no explicit radius was given and automatic
	// estimation could not produce a finite positive value for at least one
	// axis. Pass an explicit Radius to proceed.
	ErrRadiusEstimation = errors.New("shapes: radius estimation failed; pass an explicit radius")

	// ErrDegenerateGeometry means a whole build produced fewer valid
	// vertices than the minimum needed for any legal primitive.
	ErrDegenerateGeometry = errors.New("shapes: degenerate geometry")

	// ErrUnsupportedRadiusCRS means the radius CRS is outside the set the
	// selected shape supports, such as an explicit intermediate CRS for
	// rectangles.
	ErrUnsupportedRadiusCRS = errors.New("shapes: radius CRS not supported by this shape")

	// ErrMissingBackend means a shape needs a backend (tessellation,
	// aggregation) the engine was constructed without.
	ErrMissingBackend = errors.New("shapes: required backend not available")

	// ErrBadPointSet reports a PointSet constructor invariant violation,
	// such as mismatched x/y shapes.
	ErrBadPointSet = errors.New("shapes: invalid point set")

	// ErrCRSResolve means a CRS descriptor could not be resolved to a
	// concrete projection.
	ErrCRSResolve = errors.New("shapes: cannot resolve CRS")
)

var errMissingTessellation = fmt.Errorf("%w: tessellation backend disabled for this engine", ErrMissingBackend)
