package shapes

import (
	"fmt"

	"github.com/mapplot/shapes/internal/agg"
)

// Aggregator names the reduction applied when a raster build shrinks an
// oversized grid or a hexbin build collapses the samples of one bin.
type Aggregator string

const (
	AggMean   Aggregator = "mean"
	AggSum    Aggregator = "sum"
	AggMin    Aggregator = "min"
	AggMax    Aggregator = "max"
	AggFirst  Aggregator = "first"
	AggLast   Aggregator = "last"
	AggMedian Aggregator = "median"
	AggMode   Aggregator = "mode"
	// AggSpline resamples the field smoothly instead of reducing
	// blocks. It needs a structured grid, so hexbin rejects it.
	AggSpline Aggregator = "spline"
)

// reducer resolves the name to a reduction function. AggSpline has no
// per-block reducer; grid drivers special-case it first.
func (a Aggregator) reducer() (agg.Reducer, error) {
	switch a {
	case "", AggMean:
		return agg.Mean, nil
	case AggSum:
		return agg.Sum, nil
	case AggMin:
		return agg.Min, nil
	case AggMax:
		return agg.Max, nil
	case AggFirst:
		return agg.First, nil
	case AggLast:
		return agg.Last, nil
	case AggMedian:
		return agg.Median, nil
	case AggMode:
		return agg.Mode, nil
	case AggSpline:
		return nil, fmt.Errorf("shapes: spline aggregation needs a structured grid")
	}
	return nil, fmt.Errorf("shapes: unknown aggregator %q", string(a))
}
