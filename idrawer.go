package nbody

import (
	"github.com/setanarut/vec"
)

// Draw flags
const (
	DrawBodies       = 1 << 0
	DrawTrails       = 1 << 1
	DrawCenterOfMass = 1 << 2
	DrawPartitions   = 1 << 3
)

// 16 bytes
type FColor struct {
	R, G, B, A float32
}

// IDrawer is implemented by front ends. The core never renders; it only tells the drawer what to
// draw. BodyColor is called right before the DrawCircle of the same body.
type IDrawer interface {
	DrawCircle(pos vec.Vec2, radius float64, fill FColor, data any)
	DrawSegment(a, b vec.Vec2, stroke FColor, data any)
	DrawPolyline(points []vec.Vec2, stroke FColor, data any)
	DrawDot(size float64, pos vec.Vec2, fill FColor, data any)

	Flags() uint
	BodyColor(body Body, data any) FColor
	TrailColor() FColor
	CenterOfMassColor() FColor
	PartitionColor() FColor
	Data() any
}

// DrawBody draws a body with the drawer implementation
func DrawBody(body Body, drawer IDrawer) {
	data := drawer.Data()
	flags := drawer.Flags()

	if flags&DrawTrails != 0 && len(body.Trail) > 1 {
		drawer.DrawPolyline(body.Trail, drawer.TrailColor(), data)
	}
	if flags&DrawBodies != 0 {
		fill := drawer.BodyColor(body, data)
		drawer.DrawCircle(body.Position, body.Size, fill, data)
	}
}

// DrawPartition draws the split lines of the subtree clipped to bb.
func DrawPartition(node *Node, bb BB, drawer IDrawer) {
	if node.IsLeaf() {
		return
	}
	color := drawer.PartitionColor()
	data := drawer.Data()
	a, b := node.Children()
	lo, hi := bb, bb

	switch node.Axis() {
	case AxisX:
		x := node.Split()
		drawer.DrawSegment(vec.Vec2{X: x, Y: bb.B}, vec.Vec2{X: x, Y: bb.T}, color, data)
		lo.R, hi.L = x, x
	case AxisY:
		y := node.Split()
		drawer.DrawSegment(vec.Vec2{X: bb.L, Y: y}, vec.Vec2{X: bb.R, Y: y}, color, data)
		lo.T, hi.B = y, y
	}

	DrawPartition(a, lo, drawer)
	DrawPartition(b, hi, drawer)
}

// DrawPaths draws preview polylines.
func DrawPaths(paths []Path, stroke FColor, drawer IDrawer) {
	data := drawer.Data()
	for _, p := range paths {
		if len(p.Points) > 1 {
			drawer.DrawPolyline(p.Points, stroke, data)
		}
	}
}

// DrawSpace draws all bodies in space with the drawer implementation
func DrawSpace(space *Space, drawer IDrawer) {
	flags := drawer.Flags()

	if flags&DrawPartitions != 0 && space.BodyCount() > 0 {
		tree := space.Tree()
		DrawPartition(tree.Root(), tree.Bounds(), drawer)
	}

	space.EachBody(func(b Body) {
		DrawBody(b, drawer)
	})

	if flags&DrawCenterOfMass != 0 && space.BodyCount() > 0 {
		com := space.CenterOfMass()
		drawer.DrawDot(5, com.Centroid, drawer.CenterOfMassColor(), drawer.Data())
	}
}
