// Package agg implements the block reductions used to shrink oversized
// grids before meshing. The reducers see only the finite samples of a
// block; validity accounting is handled by the driver.
package agg

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Reducer collapses the finite samples of one block to a single value.
// Reducers receive at least one sample and may reorder the slice.
type Reducer func(samples []float64) float64

func First(s []float64) float64 { return s[0] }
func Last(s []float64) float64  { return s[len(s)-1] }
func Min(s []float64) float64   { return floats.Min(s) }
func Max(s []float64) float64   { return floats.Max(s) }
func Sum(s []float64) float64   { return floats.Sum(s) }
func Mean(s []float64) float64  { return stat.Mean(s, nil) }

func Median(s []float64) float64 {
	sort.Float64s(s)
	return stat.Quantile(0.5, stat.Empirical, s, nil)
}

// Mode returns the most frequent sample, preferring the smallest value
// on ties.
func Mode(s []float64) float64 {
	sort.Float64s(s)
	m, _ := stat.Mode(s, nil)
	return m
}

// Block reduces a rows x cols row-major field to outRows x outCols.
// Output cell (i, j) covers the source block of rows
// [i*rows/outRows, (i+1)*rows/outRows) and the matching column span.
// A cell becomes NaN when it has no finite samples or when its finite
// fraction falls below validFraction.
func Block(vals []float64, rows, cols, outRows, outCols int, reduce Reducer, validFraction float64) []float64 {
	out := make([]float64, outRows*outCols)
	var buf []float64
	for i := 0; i < outRows; i++ {
		r0, r1 := i*rows/outRows, (i+1)*rows/outRows
		if r1 == r0 {
			r1 = r0 + 1
		}
		for j := 0; j < outCols; j++ {
			c0, c1 := j*cols/outCols, (j+1)*cols/outCols
			if c1 == c0 {
				c1 = c0 + 1
			}
			buf = buf[:0]
			total := 0
			for r := r0; r < r1; r++ {
				for c := c0; c < c1; c++ {
					total++
					if v := vals[r*cols+c]; !math.IsNaN(v) {
						buf = append(buf, v)
					}
				}
			}
			cell := math.NaN()
			if len(buf) > 0 && float64(len(buf)) >= validFraction*float64(total) {
				cell = reduce(buf)
			}
			out[i*outCols+j] = cell
		}
	}
	return out
}

// Smooth resamples the field with a separable Catmull-Rom kernel
// instead of reducing blocks, for callers wanting a smooth downsample.
// Samples falling on NaN neighborhoods degrade to the mean of the
// finite kernel taps.
func Smooth(vals []float64, rows, cols, outRows, outCols int) []float64 {
	out := make([]float64, outRows*outCols)
	for i := 0; i < outRows; i++ {
		sy := (float64(i)+0.5)*float64(rows)/float64(outRows) - 0.5
		for j := 0; j < outCols; j++ {
			sx := (float64(j)+0.5)*float64(cols)/float64(outCols) - 0.5
			out[i*outCols+j] = sampleCatmullRom(vals, rows, cols, sx, sy)
		}
	}
	return out
}

func sampleCatmullRom(vals []float64, rows, cols int, x, y float64) float64 {
	iy := int(math.Floor(y))
	fy := y - float64(iy)
	ix := int(math.Floor(x))
	fx := x - float64(ix)

	var taps [16]float64
	var col [4]float64
	for k := 0; k < 4; k++ {
		r := clamp(iy-1+k, 0, rows-1)
		var row [4]float64
		for l := 0; l < 4; l++ {
			c := clamp(ix-1+l, 0, cols-1)
			row[l] = vals[r*cols+c]
			taps[k*4+l] = row[l]
		}
		col[k] = catmullRom(row, fx)
	}
	v := catmullRom(col, fy)
	if !math.IsNaN(v) {
		return v
	}
	sum, n := 0.0, 0
	for _, t := range taps {
		if !math.IsNaN(t) {
			sum += t
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

func catmullRom(p [4]float64, t float64) float64 {
	return 0.5 * (2*p[1] +
		(-p[0]+p[2])*t +
		(2*p[0]-5*p[1]+4*p[2]-p[3])*t*t +
		(-p[0]+3*p[1]-3*p[2]+p[3])*t*t*t)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
