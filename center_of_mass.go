package nbody

import "github.com/setanarut/vec"

// MassPoint is a total mass concentrated at its mass-weighted centroid.
type MassPoint struct {
	Mass     float64
	Centroid vec.Vec2
}

// Combine returns the mass point equivalent to a and b together. Two massless points combine to
// the zero MassPoint.
func (a MassPoint) Combine(b MassPoint) MassPoint {
	m := a.Mass + b.Mass
	if m == 0 {
		return MassPoint{}
	}
	return MassPoint{
		Mass:     m,
		Centroid: a.Centroid.Scale(a.Mass).Add(b.Centroid.Scale(b.Mass)).Scale(1 / m),
	}
}

// MassPointOf returns the mass point of a single body.
func MassPointOf(b Body) MassPoint {
	return MassPoint{Mass: b.Mass, Centroid: b.Position}
}

// CenterOfMass returns the center of mass of the subtree. The result is computed on first use
// and cached on the node.
func (n *Node) CenterOfMass() MassPoint {
	if n.comValid {
		return n.com
	}
	var com MassPoint
	switch n.Kind() {
	case Partition:
		com = n.a.CenterOfMass().Combine(n.b.CenterOfMass())
	case Leaf:
		for i := range n.bodies {
			com = com.Combine(MassPointOf(n.bodies[i]))
		}
	}
	n.com = com
	n.comValid = true
	return com
}
