package shapes

import (
	"fmt"
	"math"

	"github.com/ctessum/geom/proj"
)

// TransformFn converts coordinate batches between two reference systems.
// Inputs are parallel slices in the source CRS; the returned slices are
// freshly allocated and the caller may modify them. Points that cannot
// be converted (including NaN inputs) come back as NaN/NaN, so one
// unprojectable point never aborts a batch.
type TransformFn func(xs, ys []float64) (outX, outY []float64)

// PointTransform converts a single coordinate pair, reporting an error
// for points outside the target projection's domain.
type PointTransform func(x, y float64) (float64, float64, error)

// ProjResolver compiles point transforms between canonical proj4
// definitions. The default resolver uses the proj package; tests install
// cheap affine resolvers instead.
type ProjResolver interface {
	Compile(fromDef, toDef string) (PointTransform, error)
}

type projResolver struct{}

func (projResolver) Compile(fromDef, toDef string) (PointTransform, error) {
	src, err := proj.Parse(fromDef)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrCRSResolve, fromDef, err)
	}
	dst, err := proj.Parse(toDef)
	if err != nil {
		return nil, fmt.Errorf("%w: parse %q: %v", ErrCRSResolve, toDef, err)
	}
	t, err := src.NewTransform(dst)
	if err != nil {
		return nil, fmt.Errorf("%w: %q -> %q: %v", ErrCRSResolve, fromDef, toDef, err)
	}
	return PointTransform(t), nil
}

// batchTransform lifts a point transform to slices, mapping per-point
// failures to NaN instead of propagating them.
func batchTransform(pt PointTransform) TransformFn {
	return func(xs, ys []float64) ([]float64, []float64) {
		outX := make([]float64, len(xs))
		outY := make([]float64, len(ys))
		bad := 0
		for i := range xs {
			if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
				outX[i], outY[i] = math.NaN(), math.NaN()
				continue
			}
			x, y, err := pt(xs[i], ys[i])
			if err != nil || math.IsInf(x, 0) || math.IsInf(y, 0) {
				outX[i], outY[i] = math.NaN(), math.NaN()
				bad++
				continue
			}
			outX[i], outY[i] = x, y
		}
		if bad > 0 {
			Logger().Debug("transform dropped points", "count", bad, "of", len(xs))
		}
		return outX, outY
	}
}

// identityTransform copies its inputs, keeping the fresh-slices contract.
func identityTransform(xs, ys []float64) ([]float64, []float64) {
	return append([]float64(nil), xs...), append([]float64(nil), ys...)
}

// transformKey keys the compiled-transform cache by the canonical
// definition pair, so equivalent CRS spellings share one entry.
type transformKey struct {
	from, to string
}
