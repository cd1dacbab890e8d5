package shapes

import (
	"fmt"
	"math"
)

// buildScatter places one marker per datum. The only masking is
// projectability: data that do not land at finite plot coordinates are
// dropped.
func (e *Engine) buildScatter(ps *PointSet, s ScatterPoints) (*Collection, error) {
	count := ps.Len()
	if s.Sizes != nil && len(s.Sizes) != count {
		return nil, fmt.Errorf("%w: %d sizes for %d points", ErrBadPointSet, len(s.Sizes), count)
	}
	toPlot, err := e.toPlot(ps.CRS())
	if err != nil {
		return nil, err
	}
	px, py := toPlot(ps.X(), ps.Y())

	marker := s.Marker
	if marker == "" {
		marker = "o"
	}
	m := &Markers{Marker: marker}
	mask := make(Mask, count)
	for i := 0; i < count; i++ {
		if math.IsNaN(px[i]) || math.IsNaN(py[i]) {
			continue
		}
		mask[i] = true
		m.X = append(m.X, px[i])
		m.Y = append(m.Y, py[i])
		if s.Sizes != nil {
			m.Sizes = append(m.Sizes, s.Sizes[i])
		}
	}
	if s.Sizes == nil {
		size := s.Size
		if size <= 0 {
			size = defaultScatterSize
		}
		m.Sizes = []float64{size}
	}
	return newCollection(s.Name(), m, mask, count)
}
