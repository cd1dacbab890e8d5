package shapes

import "fmt"

// Radius describes shape half-extents along x and y. Each axis holds
// either one value applied to every datum or one value per datum. The
// zero value requests estimation from the dataset's point spacing.
type Radius struct {
	X, Y []float64
}

// FixedRadius returns a uniform radius applied to both axes.
func FixedRadius(r float64) Radius {
	return Radius{X: []float64{r}, Y: []float64{r}}
}

// RadiusXY returns a uniform but per-axis radius.
func RadiusXY(rx, ry float64) Radius {
	return Radius{X: []float64{rx}, Y: []float64{ry}}
}

// PerDatumRadius returns a radius with one x and one y extent per datum.
// Either slice may have length one to hold that axis uniform.
func PerDatumRadius(rx, ry []float64) Radius {
	return Radius{X: rx, Y: ry}
}

// IsZero reports whether the radius requests estimation.
func (r Radius) IsZero() bool { return len(r.X) == 0 && len(r.Y) == 0 }

// validFor checks per-datum lengths against the dataset size.
func (r Radius) validFor(n int) error {
	if len(r.X) > 1 && len(r.X) != n {
		return fmt.Errorf("%w: %d x radii for %d points", ErrBadPointSet, len(r.X), n)
	}
	if len(r.Y) > 1 && len(r.Y) != n {
		return fmt.Errorf("%w: %d y radii for %d points", ErrBadPointSet, len(r.Y), n)
	}
	return nil
}

// at returns the radius pair for datum i, broadcasting length-1 axes.
func (r Radius) at(i int) (rx, ry float64) {
	switch len(r.X) {
	case 0:
	case 1:
		rx = r.X[0]
	default:
		rx = r.X[i]
	}
	switch len(r.Y) {
	case 0:
	case 1:
		ry = r.Y[0]
	default:
		ry = r.Y[i]
	}
	return rx, ry
}

const (
	radiusDefault uint8 = iota
	radiusIn
	radiusOut
	radiusExplicit
)

// RadiusCRS states which coordinate system radius values are measured
// in. The zero value means the shape's default, which is the dataset's
// input CRS. Geodesic circles ignore it; their radii are always meters
// along the ellipsoid surface.
type RadiusCRS struct {
	kind uint8
	crs  CRS
}

// RadiusCRSIn measures radii in the dataset's input CRS.
func RadiusCRSIn() RadiusCRS { return RadiusCRS{kind: radiusIn} }

// RadiusCRSOut measures radii in the plot CRS.
func RadiusCRSOut() RadiusCRS { return RadiusCRS{kind: radiusOut} }

// RadiusCRSExplicit measures radii in an arbitrary intermediate CRS.
func RadiusCRSExplicit(c CRS) RadiusCRS { return RadiusCRS{kind: radiusExplicit, crs: c} }

func (rc RadiusCRS) String() string {
	switch rc.kind {
	case radiusIn, radiusDefault:
		return "in"
	case radiusOut:
		return "out"
	default:
		return rc.crs.String()
	}
}
