package shapes

// Mask records which input datapoints produced a valid, non-degenerate
// primitive. Its length always equals the input point count, and the
// surviving primitives appear in the same relative order as the true
// positions.
type Mask []bool

// newMask returns an all-true mask of length n.
func newMask(n int) Mask {
	m := make(Mask, n)
	for i := range m {
		m[i] = true
	}
	return m
}

// Count returns the number of true positions.
func (m Mask) Count() int {
	n := 0
	for _, ok := range m {
		if ok {
			n++
		}
	}
	return n
}

// Indices returns the positions that are true, in order.
func (m Mask) Indices() []int {
	idx := make([]int, 0, m.Count())
	for i, ok := range m {
		if ok {
			idx = append(idx, i)
		}
	}
	return idx
}

// None reports whether no position survived.
func (m Mask) None() bool {
	for _, ok := range m {
		if ok {
			return false
		}
	}
	return true
}
