package main

import (
	"github.com/setanarut/nbody"
	"github.com/setanarut/vec"
)

var (
	bodyColor      = nbody.FColor{R: 0.2, G: 0.4, B: 1, A: 1}
	trailColor     = nbody.FColor{R: 0.6, G: 0.6, B: 0.7, A: 0.5}
	comColor       = nbody.FColor{R: 1, G: 0.2, B: 0.2, A: 1}
	partitionColor = nbody.FColor{R: 0.3, G: 0.3, B: 0.3, A: 0.4}
	contourColor   = nbody.FColor{R: 1, G: 0.8, B: 0.2, A: 0.6}
	previewColor   = nbody.FColor{R: 0.2, G: 1, B: 0.2, A: 0.8}
)

// frameRecorder turns draw calls into a Frame. BodyColor is always called right before the
// body's DrawCircle, which is how circles are matched to body ids.
type frameRecorder struct {
	frame   *Frame
	flags   uint
	current int
}

func newFrameRecorder(tick uint64, flags uint) *frameRecorder {
	return &frameRecorder{
		frame: &Frame{Tick: tick, Bodies: []BodyState{}},
		flags: flags,
	}
}

func rgba(c nbody.FColor) [4]float32 {
	return [4]float32{c.R, c.G, c.B, c.A}
}

func (r *frameRecorder) DrawCircle(pos vec.Vec2, radius float64, fill nbody.FColor, _ any) {
	r.frame.Bodies = append(r.frame.Bodies, BodyState{
		ID:    r.current,
		X:     pos.X,
		Y:     pos.Y,
		R:     radius,
		Color: rgba(fill),
	})
}

func (r *frameRecorder) DrawSegment(a, b vec.Vec2, stroke nbody.FColor, _ any) {
	line := LineState{X1: a.X, Y1: a.Y, X2: b.X, Y2: b.Y, Color: rgba(stroke)}
	if stroke == contourColor {
		r.frame.Contours = append(r.frame.Contours, line)
		return
	}
	r.frame.Splits = append(r.frame.Splits, line)
}

func (r *frameRecorder) DrawPolyline(points []vec.Vec2, stroke nbody.FColor, _ any) {
	flat := make([]float32, 0, 2*len(points))
	for _, p := range points {
		flat = append(flat, float32(p.X), float32(p.Y))
	}
	line := Polyline{Points: flat, Color: rgba(stroke)}
	if stroke == previewColor {
		r.frame.Paths = append(r.frame.Paths, line)
		return
	}
	r.frame.Trails = append(r.frame.Trails, line)
}

func (r *frameRecorder) DrawDot(size float64, pos vec.Vec2, fill nbody.FColor, _ any) {
	r.frame.COM = &MarkerState{X: pos.X, Y: pos.Y, Size: size, Color: rgba(fill)}
}

func (r *frameRecorder) Flags() uint {
	return r.flags
}

func (r *frameRecorder) BodyColor(body nbody.Body, _ any) nbody.FColor {
	r.current = body.ID
	return bodyColor
}

func (r *frameRecorder) TrailColor() nbody.FColor {
	return trailColor
}

func (r *frameRecorder) CenterOfMassColor() nbody.FColor {
	return comColor
}

func (r *frameRecorder) PartitionColor() nbody.FColor {
	return partitionColor
}

func (r *frameRecorder) Data() any {
	return nil
}
