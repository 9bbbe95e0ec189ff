package nbody

import "github.com/setanarut/vec"

// BodyIterator is called once per body by Each.
type BodyIterator func(b Body)

// SpatialIndexer is the read-only view of a body snapshot used for field queries. It is
// implemented by KDTree, which approximates distant groups by their center of mass, and by
// Snapshot, which always sums every body.
type SpatialIndexer interface {
	// Count returns the number of bodies in the index.
	Count() int

	// Each iterates over all bodies in the index, applying f to each.
	Each(f BodyIterator)

	// Bodies returns a copy of every body in the index.
	Bodies() []Body

	// Bounds returns the box holding every body position.
	Bounds() BB

	// CenterOfMass returns the total mass and its centroid.
	CenterOfMass() MassPoint

	// ApproximateForce returns the inverse-square field at point. Implementations that
	// subdivide space refine at most subdivisions levels before summarizing a group.
	ApproximateForce(point vec.Vec2, subdivisions int) vec.Vec2
}

var (
	_ SpatialIndexer = (*KDTree)(nil)
	_ SpatialIndexer = Snapshot(nil)
)
