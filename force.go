package nbody

import "github.com/setanarut/vec"

// Snapshot is a read-only copy of the bodies taken at the start of a tick.
type Snapshot []Body

// TakeSnapshot copies the kinematic state of bodies. Trails are left out.
func TakeSnapshot(bodies []Body) Snapshot {
	s := make(Snapshot, len(bodies))
	for i := range bodies {
		s[i] = bodies[i]
		s[i].Trail = nil
	}
	return s
}

// ExactForce returns the velocity change of p over dt caused by every other body in the
// snapshot. A body is skipped only when its ID equals p.ID.
//
// Each contribution is dt*g²*m/d² along the unit direction, where m is the mass of the other
// body. The mass of p does not appear. Two distinct bodies at the same position produce NaN or
// Inf components.
func ExactForce(p Body, snapshot []Body, dt, g float64) vec.Vec2 {
	k := dt * g * g
	var sum vec.Vec2
	for i := range snapshot {
		d := &snapshot[i]
		if d.ID == p.ID {
			continue
		}
		dir := d.Position.Sub(p.Position)
		sum = sum.Add(dir.Unit().Scale(k * d.Mass / dir.Dot(dir)))
	}
	return sum
}

// ExactForce is ExactForce over s.
func (s Snapshot) ExactForce(p Body, dt, g float64) vec.Vec2 {
	return ExactForce(p, s, dt, g)
}

// Count returns the number of bodies.
func (s Snapshot) Count() int {
	return len(s)
}

// Each calls f for each body in order.
func (s Snapshot) Each(f BodyIterator) {
	for i := range s {
		f(s[i])
	}
}

// Bodies returns a copy of the snapshot.
func (s Snapshot) Bodies() []Body {
	return cloneBodies(s)
}

// Bounds returns the box holding every body position.
func (s Snapshot) Bounds() BB {
	if len(s) == 0 {
		return BB{}
	}
	return NewBBForPositions(s)
}

// CenterOfMass folds every body into one mass point.
func (s Snapshot) CenterOfMass() MassPoint {
	var com MassPoint
	for i := range s {
		com = com.Combine(MassPointOf(s[i]))
	}
	return com
}

// ApproximateForce sums every body exactly; subdivisions is ignored.
func (s Snapshot) ApproximateForce(point vec.Vec2, _ int) vec.Vec2 {
	var sum vec.Vec2
	for i := range s {
		sum = sum.Add(pointMassField(point, s[i].Position, s[i].Mass))
	}
	return sum
}

// ApproximateForce samples the inverse-square field of the subtree at point.
//
// A partition reached with no subdivisions left contributes one term from its center of mass.
// Leaves always sum their bodies, skipping any that sit exactly at point. The walk visits at most
// 2^subdivisions partitions regardless of the number of bodies.
func (n *Node) ApproximateForce(point vec.Vec2, subdivisions int) vec.Vec2 {
	switch n.Kind() {
	case Partition:
		if subdivisions <= 0 {
			com := n.CenterOfMass()
			return pointMassField(point, com.Centroid, com.Mass)
		}
		return n.a.ApproximateForce(point, subdivisions-1).Add(n.b.ApproximateForce(point, subdivisions-1))
	default:
		var sum vec.Vec2
		for i := range n.bodies {
			sum = sum.Add(pointMassField(point, n.bodies[i].Position, n.bodies[i].Mass))
		}
		return sum
	}
}

// pointMassField is the plain inverse-square pull of mass at source, felt at point.
func pointMassField(point, source vec.Vec2, mass float64) vec.Vec2 {
	if source == point {
		return vec.Vec2{}
	}
	d := source.Sub(point)
	return d.Unit().Scale(mass / d.Dot(d))
}
