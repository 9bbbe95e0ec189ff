// Package contour traces isolines of a scalar field with marching squares. It is used to draw
// lines of equal field strength around a body cloud.
package contour

import (
	"github.com/setanarut/nbody"
	"github.com/setanarut/vec"
)

// Segment is one piece of an isoline.
type Segment struct {
	A, B vec.Vec2
}

// SampleFunc gets passed every grid point inside the bounding box. For field lines this is
// usually Space.FieldStrength.
type SampleFunc func(point vec.Vec2) float64

// CellFunc emits the segments of one grid cell. a, b, c and d are the samples at (x0,y0),
// (x1,y0), (x0,y1) and (x1,y1).
type CellFunc func(t, a, b, c, d, x0, x1, y0, y1 float64, out *[]Segment)

// Cells samples a xSamples by ySamples grid spread over bb and hands every cell to cell. Each
// sample is taken once; a row of samples is kept between grid rows.
func Cells(bb nbody.BB, xSamples, ySamples int, t float64, sample SampleFunc, cell CellFunc) []Segment {
	if xSamples < 2 || ySamples < 2 {
		return nil
	}
	xDenom := 1.0 / float64(xSamples-1)
	yDenom := 1.0 / float64(ySamples-1)

	buffer := make([]float64, xSamples)
	for i := range xSamples {
		buffer[i] = sample(vec.Vec2{X: lerp(bb.L, bb.R, float64(i)*xDenom), Y: bb.B})
	}
	var segments []Segment

	for j := 0; j < ySamples-1; j++ {
		y0 := lerp(bb.B, bb.T, float64(j+0)*yDenom)
		y1 := lerp(bb.B, bb.T, float64(j+1)*yDenom)

		b := buffer[0]
		d := sample(vec.Vec2{X: bb.L, Y: y1})
		buffer[0] = d

		for i := 0; i < xSamples-1; i++ {
			x0 := lerp(bb.L, bb.R, float64(i+0)*xDenom)
			x1 := lerp(bb.L, bb.R, float64(i+1)*xDenom)

			a := b
			b = buffer[i+1]
			c := d
			d = sample(vec.Vec2{X: x1, Y: y1})
			buffer[i+1] = d

			cell(t, a, b, c, d, x0, x1, y0, y1, &segments)
		}
	}

	return segments
}

// Soft traces an interpolated isoline at threshold t.
func Soft(bb nbody.BB, xSamples, ySamples int, t float64, sample SampleFunc) []Segment {
	return Cells(bb, xSamples, ySamples, t, sample, CellSoft)
}

// Hard traces an aliased isoline at threshold t. Segments run along cell midlines.
func Hard(bb nbody.BB, xSamples, ySamples int, t float64, sample SampleFunc) []Segment {
	return Cells(bb, xSamples, ySamples, t, sample, CellHard)
}

func seg(v0, v1 vec.Vec2, out *[]Segment) {
	if v0 != v1 {
		*out = append(*out, Segment{A: v1, B: v0})
	}
}

func segs(a, b, c vec.Vec2, out *[]Segment) {
	seg(b, c, out)
	seg(a, b, out)
}

func midlerp(x0, x1, s0, s1, t float64) float64 {
	return lerp(x0, x1, (t-s0)/(s1-s0))
}

func caseIndex(t, a, b, c, d float64) int {
	idx := 0
	if a > t {
		idx |= 1 << 0
	}
	if b > t {
		idx |= 1 << 1
	}
	if c > t {
		idx |= 1 << 2
	}
	if d > t {
		idx |= 1 << 3
	}
	return idx
}

// CellSoft places segment ends by linear interpolation along the cell edges.
func CellSoft(t, a, b, c, d, x0, x1, y0, y1 float64, out *[]Segment) {
	left := func() vec.Vec2 { return vec.Vec2{X: x0, Y: midlerp(y0, y1, a, c, t)} }
	right := func() vec.Vec2 { return vec.Vec2{X: x1, Y: midlerp(y0, y1, b, d, t)} }
	bottom := func() vec.Vec2 { return vec.Vec2{X: midlerp(x0, x1, a, b, t), Y: y0} }
	top := func() vec.Vec2 { return vec.Vec2{X: midlerp(x0, x1, c, d, t), Y: y1} }

	switch caseIndex(t, a, b, c, d) {
	case 0x1:
		seg(left(), bottom(), out)
	case 0x2:
		seg(bottom(), right(), out)
	case 0x3:
		seg(left(), right(), out)
	case 0x4:
		seg(top(), left(), out)
	case 0x5:
		seg(top(), bottom(), out)
	case 0x6:
		seg(bottom(), right(), out)
		seg(top(), left(), out)
	case 0x7:
		seg(top(), right(), out)
	case 0x8:
		seg(right(), top(), out)
	case 0x9:
		seg(left(), bottom(), out)
		seg(right(), top(), out)
	case 0xA:
		seg(bottom(), top(), out)
	case 0xB:
		seg(left(), top(), out)
	case 0xC:
		seg(right(), left(), out)
	case 0xD:
		seg(right(), bottom(), out)
	case 0xE:
		seg(bottom(), left(), out)
	}
}

// CellHard snaps segment ends to the cell midlines.
func CellHard(t, a, b, c, d, x0, x1, y0, y1 float64, out *[]Segment) {
	xm := lerp(x0, x1, 0.5)
	ym := lerp(y0, y1, 0.5)

	switch caseIndex(t, a, b, c, d) {
	case 0x1:
		segs(vec.Vec2{X: x0, Y: ym}, vec.Vec2{X: xm, Y: ym}, vec.Vec2{X: xm, Y: y0}, out)
	case 0x2:
		segs(vec.Vec2{X: xm, Y: y0}, vec.Vec2{X: xm, Y: ym}, vec.Vec2{X: x1, Y: ym}, out)
	case 0x3:
		seg(vec.Vec2{X: x0, Y: ym}, vec.Vec2{X: x1, Y: ym}, out)
	case 0x4:
		segs(vec.Vec2{X: xm, Y: y1}, vec.Vec2{X: xm, Y: ym}, vec.Vec2{X: x0, Y: ym}, out)
	case 0x5:
		seg(vec.Vec2{X: xm, Y: y1}, vec.Vec2{X: xm, Y: y0}, out)
	case 0x6:
		segs(vec.Vec2{X: xm, Y: y0}, vec.Vec2{X: xm, Y: ym}, vec.Vec2{X: x0, Y: ym}, out)
		segs(vec.Vec2{X: xm, Y: y1}, vec.Vec2{X: xm, Y: ym}, vec.Vec2{X: x1, Y: ym}, out)
	case 0x7:
		segs(vec.Vec2{X: xm, Y: y1}, vec.Vec2{X: xm, Y: ym}, vec.Vec2{X: x1, Y: ym}, out)
	case 0x8:
		segs(vec.Vec2{X: x1, Y: ym}, vec.Vec2{X: xm, Y: ym}, vec.Vec2{X: xm, Y: y1}, out)
	case 0x9:
		segs(vec.Vec2{X: x1, Y: ym}, vec.Vec2{X: xm, Y: ym}, vec.Vec2{X: xm, Y: y0}, out)
		segs(vec.Vec2{X: x0, Y: ym}, vec.Vec2{X: xm, Y: ym}, vec.Vec2{X: xm, Y: y1}, out)
	case 0xA:
		seg(vec.Vec2{X: xm, Y: y0}, vec.Vec2{X: xm, Y: y1}, out)
	case 0xB:
		segs(vec.Vec2{X: x0, Y: ym}, vec.Vec2{X: xm, Y: ym}, vec.Vec2{X: xm, Y: y1}, out)
	case 0xC:
		seg(vec.Vec2{X: x1, Y: ym}, vec.Vec2{X: x0, Y: ym}, out)
	case 0xD:
		segs(vec.Vec2{X: x1, Y: ym}, vec.Vec2{X: xm, Y: ym}, vec.Vec2{X: xm, Y: y0}, out)
	case 0xE:
		segs(vec.Vec2{X: xm, Y: y0}, vec.Vec2{X: xm, Y: ym}, vec.Vec2{X: x0, Y: ym}, out)
	}
}

func lerp(f1, f2, t float64) float64 {
	return f1*(1.0-t) + f2*t
}
