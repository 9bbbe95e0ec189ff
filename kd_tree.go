package nbody

import (
	"cmp"
	"slices"

	"github.com/setanarut/vec"
)

// LeafCapacity is the largest number of bodies stored in a single leaf.
const LeafCapacity = 2

// Axis is the coordinate a partition node splits on.
type Axis uint8

const (
	AxisX Axis = iota
	AxisY
)

// Coord returns the component of p along the axis.
func (a Axis) Coord(p vec.Vec2) float64 {
	if a == AxisX {
		return p.X
	}
	return p.Y
}

func (a Axis) String() string {
	if a == AxisX {
		return "x"
	}
	return "y"
}

// NodeKind tells leaves and partitions apart.
type NodeKind uint8

const (
	Leaf NodeKind = iota
	Partition
)

// KDTree is a binary space partition over a snapshot of bodies.
//
// A tree is built once from its snapshot and never modified afterwards. Bodies are copied in,
// so later changes to the caller's slice do not reach the tree.
type KDTree struct {
	root  *Node
	count int
}

// NewKDTree builds a tree over a copy of bodies.
func NewKDTree(bodies []Body) *KDTree {
	return &KDTree{
		root:  newNode(cloneBodies(bodies)),
		count: len(bodies),
	}
}

// Node is either a leaf holding up to LeafCapacity bodies or a partition with exactly two
// children split at the mean coordinate along Axis.
type Node struct {
	bodies []Body

	axis  Axis
	split float64
	a, b  *Node

	com      MassPoint
	comValid bool
}

func newNode(bodies []Body) *Node {
	n := len(bodies)
	if n <= LeafCapacity {
		return &Node{bodies: bodies}
	}

	bb := NewBBForPositions(bodies)
	var sum vec.Vec2
	for i := range bodies {
		sum = sum.Add(bodies[i].Position)
	}
	mean := sum.Scale(1 / float64(n))

	axis := AxisY
	if bb.Width() >= bb.Height() {
		axis = AxisX
	}
	split := axis.Coord(mean)

	slices.SortStableFunc(bodies, func(p, q Body) int {
		return cmp.Compare(axis.Coord(p.Position), axis.Coord(q.Position))
	})
	i := splitIndex(bodies, axis, split)

	return &Node{
		axis:  axis,
		split: split,
		a:     newNode(bodies[:i:i]),
		b:     newNode(bodies[i:]),
	}
}

// splitIndex returns the first index whose coordinate lies strictly past mean. Bodies sitting
// exactly on the mean are split roughly in half, and so is a cloud whose mean was rounded past
// every body. The result is always in [1, n-1] so both children are non-empty, even for NaN
// coordinates.
func splitIndex(sorted []Body, axis Axis, mean float64) int {
	n := len(sorted)
	i := slices.IndexFunc(sorted, func(b Body) bool {
		return axis.Coord(b.Position) > mean
	})
	if i < 0 {
		atMean := 0
		for j := range sorted {
			if axis.Coord(sorted[j].Position) == mean {
				atMean++
			}
		}
		if atMean == 0 {
			i = n / 2
		} else {
			i = atMean/2 + 1
		}
	}
	if i < 1 || i >= n {
		i = n / 2
	}
	return i
}

// Root returns the root node.
func (t *KDTree) Root() *Node {
	return t.root
}

// Count returns the number of bodies in the tree.
func (t *KDTree) Count() int {
	return t.count
}

// Depth returns the number of partition levels above the deepest leaf.
func (t *KDTree) Depth() int {
	return t.root.Depth()
}

// Each calls f once for each body, leaf by leaf.
func (t *KDTree) Each(f BodyIterator) {
	t.root.Each(f)
}

// Bodies flattens the tree into a new slice.
func (t *KDTree) Bodies() []Body {
	out := make([]Body, 0, t.count)
	t.root.Each(func(b Body) {
		out = append(out, b.Clone())
	})
	return out
}

// Bounds returns the box holding every body position. An empty tree returns the zero BB.
func (t *KDTree) Bounds() BB {
	if t.count == 0 {
		return BB{}
	}
	var bb BB
	first := true
	t.root.Each(func(b Body) {
		if first {
			bb = NewBBForExtents(b.Position, 0, 0)
			first = false
			return
		}
		bb = bb.Expand(b.Position)
	})
	return bb
}

// CenterOfMass returns the center of mass of the whole snapshot. Every node's cache is filled
// as a side effect, after which concurrent ApproximateForce calls are safe.
func (t *KDTree) CenterOfMass() MassPoint {
	return t.root.CenterOfMass()
}

// ApproximateForce samples the field at point, descending at most subdivisions partition levels.
func (t *KDTree) ApproximateForce(point vec.Vec2, subdivisions int) vec.Vec2 {
	return t.root.ApproximateForce(point, subdivisions)
}

// Kind reports whether the node is a leaf or a partition.
func (n *Node) Kind() NodeKind {
	if n.a == nil {
		return Leaf
	}
	return Partition
}

// IsLeaf returns true for leaves.
func (n *Node) IsLeaf() bool {
	return n.Kind() == Leaf
}

// Axis returns the split axis of a partition.
func (n *Node) Axis() Axis {
	return n.axis
}

// Split returns the split coordinate of a partition (the mean along Axis).
func (n *Node) Split() float64 {
	return n.split
}

// Children returns both subtrees of a partition, or nil, nil for a leaf.
func (n *Node) Children() (*Node, *Node) {
	return n.a, n.b
}

// Bodies returns the contents of a leaf. The slice is owned by the tree and must not be
// modified.
func (n *Node) Bodies() []Body {
	return n.bodies
}

// Each calls f for each body in the subtree.
func (n *Node) Each(f BodyIterator) {
	switch n.Kind() {
	case Partition:
		n.a.Each(f)
		n.b.Each(f)
	case Leaf:
		for i := range n.bodies {
			f(n.bodies[i])
		}
	}
}

// Count returns the number of bodies in the subtree.
func (n *Node) Count() int {
	if n.Kind() == Leaf {
		return len(n.bodies)
	}
	return n.a.Count() + n.b.Count()
}

// Depth is 0 for a leaf.
func (n *Node) Depth() int {
	if n.Kind() == Leaf {
		return 0
	}
	return 1 + max(n.a.Depth(), n.b.Depth())
}

// EachNode walks the subtree depth first, parents before children.
func (n *Node) EachNode(f func(node *Node, depth int)) {
	n.eachNode(f, 0)
}

func (n *Node) eachNode(f func(node *Node, depth int), depth int) {
	f(n, depth)
	if n.Kind() == Partition {
		n.a.eachNode(f, depth+1)
		n.b.eachNode(f, depth+1)
	}
}
