package shapes

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// RGBA is a color with channels in [0, 1], alpha not premultiplied.
type RGBA struct {
	R, G, B, A float64
}

// RGB returns an opaque color.
func RGB(r, g, b float64) RGBA { return RGBA{R: r, G: g, B: b, A: 1} }

// NewRGBA returns a color with explicit alpha.
func NewRGBA(r, g, b, a float64) RGBA { return RGBA{R: r, G: g, B: b, A: a} }

// Hex parses "#rgb", "#rrggbb" or "#rrggbbaa".
func Hex(s string) (RGBA, error) {
	h := strings.TrimPrefix(s, "#")
	switch len(h) {
	case 3:
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]}) + "ff"
	case 6:
		h += "ff"
	case 8:
	default:
		return RGBA{}, fmt.Errorf("shapes: malformed hex color %q", s)
	}
	v, err := strconv.ParseUint(h, 16, 64)
	if err != nil {
		return RGBA{}, fmt.Errorf("shapes: malformed hex color %q", s)
	}
	return RGBA{
		R: float64(v>>24&0xff) / 255,
		G: float64(v>>16&0xff) / 255,
		B: float64(v>>8&0xff) / 255,
		A: float64(v&0xff) / 255,
	}, nil
}

// Named looks up an SVG 1.1 color name such as "steelblue".
func Named(name string) (RGBA, error) {
	c, ok := colornames.Map[strings.ToLower(name)]
	if !ok {
		return RGBA{}, fmt.Errorf("shapes: unknown color name %q", name)
	}
	return RGBA{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}, nil
}

// WithAlpha returns the color with its alpha replaced.
func (c RGBA) WithAlpha(a float64) RGBA {
	c.A = a
	return c
}

// Lerp linearly interpolates toward o by t in [0, 1].
func (c RGBA) Lerp(o RGBA, t float64) RGBA {
	return RGBA{
		R: c.R + (o.R-c.R)*t,
		G: c.G + (o.G-c.G)*t,
		B: c.B + (o.B-c.B)*t,
		A: c.A + (o.A-c.A)*t,
	}
}

// ColorKind states what a ColorBuffer carries.
type ColorKind uint8

const (
	// ColorNone means the collection has no color data bound.
	ColorNone ColorKind = iota
	// ColorUniform paints every primitive with one color.
	ColorUniform
	// ColorPerDatum holds one explicit color per surviving datum.
	ColorPerDatum
	// ColorScalar holds one scalar per surviving datum, for the
	// renderer's colormap to resolve.
	ColorScalar
)

// ColorBuffer carries the color data of a collection, aligned with the
// surviving data in dataset order. Mesh primitives embed their scalars
// in the primitive instead, because meshes color faces or vertices
// rather than data.
type ColorBuffer struct {
	Kind    ColorKind
	Uniform RGBA
	Colors  []RGBA
	Scalars []float64
}

// bindColors resolves the color input for a build against the datum
// mask. Explicit per-datum colors and dataset values are subset to the
// survivors; a dataset with all data surviving takes the copy fast
// path.
func bindColors(cfg *buildConfig, vals []float64, mask Mask) (*ColorBuffer, error) {
	switch {
	case cfg.perDatum != nil:
		if len(cfg.perDatum) != len(mask) {
			return nil, fmt.Errorf("%w: %d colors for %d data", ErrBadPointSet, len(cfg.perDatum), len(mask))
		}
		out := make([]RGBA, 0, mask.Count())
		for i, ok := range mask {
			if ok {
				out = append(out, cfg.perDatum[i])
			}
		}
		return &ColorBuffer{Kind: ColorPerDatum, Colors: out}, nil

	case cfg.uniform != nil:
		return &ColorBuffer{Kind: ColorUniform, Uniform: *cfg.uniform}, nil

	case vals != nil:
		n := mask.Count()
		if n == len(mask) {
			return &ColorBuffer{Kind: ColorScalar, Scalars: append([]float64(nil), vals...)}, nil
		}
		out := make([]float64, 0, n)
		for i, ok := range mask {
			if ok {
				out = append(out, vals[i])
			}
		}
		return &ColorBuffer{Kind: ColorScalar, Scalars: out}, nil
	}
	return nil, nil
}
