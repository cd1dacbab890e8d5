package shapes

import "fmt"

// Collection is the output of one build: the primitives of a shape
// family, the per-datum mask, and the bound color data. The mask always
// has one entry per datum of the source dataset, whether or not the
// datum survived; renderers and pickers rely on that alignment.
type Collection struct {
	// Shape is the family name of the spec that built the collection.
	Shape string
	// Primitive is the renderable geometry for the surviving data.
	Primitive Primitive
	// Mask marks, per datum, whether it contributed geometry.
	Mask Mask
	// Colors carries the color data bound to the surviving data, or nil.
	Colors *ColorBuffer
	// Levels holds contour level values and is set only by contour
	// builds.
	Levels []float64
}

// Survivors returns the number of data that contributed geometry.
func (c *Collection) Survivors() int { return c.Mask.Count() }

// Empty reports whether no datum survived.
func (c *Collection) Empty() bool { return c.Mask.None() }

// newCollection assembles a build result, enforcing that the mask
// covers exactly the source dataset.
func newCollection(shape string, prim Primitive, mask Mask, datasetLen int) (*Collection, error) {
	if len(mask) != datasetLen {
		return nil, fmt.Errorf("shapes: %s mask covers %d of %d data", shape, len(mask), datasetLen)
	}
	return &Collection{Shape: shape, Primitive: prim, Mask: mask}, nil
}
