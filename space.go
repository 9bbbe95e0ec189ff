package nbody

import (
	"fmt"
	"log"

	"github.com/setanarut/vec"
)

// Space owns the body collection and drives one tick at a time.
//
// A Space is not safe for concurrent use. Callers run Step, AddBody and Reset from a single frame
// loop and read results between ticks.
type Space struct {
	bodies []Body
	tree   *KDTree
	stamp  uint

	lastID  int
	anyID   bool
	invalid map[int]bool
}

// NewSpace allocates and initializes an empty Space
func NewSpace() *Space {
	return &Space{
		bodies:  []Body{},
		tree:    NewKDTree(nil),
		invalid: map[int]bool{},
	}
}

// BodyCount returns the number of bodies in space
func (s *Space) BodyCount() int {
	return len(s.bodies)
}

// Tick returns the number of completed steps.
func (s *Space) Tick() uint {
	return s.stamp
}

// LastID returns the largest id added so far and false if no body was ever added.
func (s *Space) LastID() (int, bool) {
	return s.lastID, s.anyID
}

// AddBody appends a copy of body.
//
// Ids are unique for the lifetime of the space: each id must be greater than every id added
// before it, including ids removed by Reset.
func (s *Space) AddBody(body Body) error {
	if err := body.Validate(); err != nil {
		return err
	}
	if s.anyID && body.ID <= s.lastID {
		return fmt.Errorf("%w: got %d after %d", ErrNonMonotonicID, body.ID, s.lastID)
	}
	s.bodies = append(s.bodies, body.Clone())
	s.lastID = body.ID
	s.anyID = true
	s.tree = NewKDTree(s.bodies)
	return nil
}

// Reset removes every body. It always succeeds and may be called repeatedly.
func (s *Space) Reset() {
	s.bodies = s.bodies[:0]
	s.tree = NewKDTree(nil)
	clear(s.invalid)
}

// Step advances the simulation by one tick of length dt.
//
// The partition is rebuilt from a snapshot of the bodies as they are before the tick, so field
// queries made afterwards see the state the tick started from.
func (s *Space) Step(dt float64, p Params) {
	s.tree = NewKDTree(s.bodies)
	Integrate(s.bodies, dt, p)
	s.stamp++

	for i := range s.bodies {
		b := &s.bodies[i]
		if !b.IsFinite() && !s.invalid[b.ID] {
			s.invalid[b.ID] = true
			log.Printf("nbody: %v is no longer finite at tick %d (velocity %v)", b, s.stamp, b.Velocity)
		}
	}
}

// Tree returns the partition of the most recent snapshot.
func (s *Space) Tree() *KDTree {
	return s.tree
}

// FieldAt samples the approximate field at each point.
func (s *Space) FieldAt(points []vec.Vec2, subdivisions int) []vec.Vec2 {
	out := make([]vec.Vec2, len(points))
	for i, p := range points {
		out[i] = s.tree.ApproximateForce(p, subdivisions)
	}
	return out
}

// FieldStrength returns a sampler of the field magnitude, suitable for contour tracing.
func (s *Space) FieldStrength(subdivisions int) func(point vec.Vec2) float64 {
	tree := s.tree
	tree.CenterOfMass()
	return func(point vec.Vec2) float64 {
		return tree.ApproximateForce(point, subdivisions).Mag()
	}
}

// CenterOfMass returns the center of mass of the most recent snapshot.
func (s *Space) CenterOfMass() MassPoint {
	return s.tree.CenterOfMass()
}

// Bodies returns copies of all bodies. The order is not guaranteed; index by ID.
func (s *Space) Bodies() []Body {
	return cloneBodies(s.bodies)
}

// Body returns a copy of the body with the given id.
func (s *Space) Body(id int) (Body, bool) {
	for i := range s.bodies {
		if s.bodies[i].ID == id {
			return s.bodies[i].Clone(), true
		}
	}
	return Body{}, false
}

// EachBody calls func f for each body in the space
//
// Example:
//
//	s.EachBody(func(b nbody.Body) {
//		fmt.Println(b.Position)
//	})
func (s *Space) EachBody(f BodyIterator) {
	for i := range s.bodies {
		f(s.bodies[i])
	}
}

// Bounds returns the box holding every body including its display radius.
func (s *Space) Bounds() BB {
	if len(s.bodies) == 0 {
		return BB{}
	}
	bb := NewBBForCircle(s.bodies[0].Position, s.bodies[0].Size)
	for i := 1; i < len(s.bodies); i++ {
		bb = bb.Merge(NewBBForCircle(s.bodies[i].Position, s.bodies[i].Size))
	}
	return bb
}

// KineticEnergy returns the summed kinetic energy of all bodies.
func (s *Space) KineticEnergy() float64 {
	var e float64
	for i := range s.bodies {
		e += s.bodies[i].KineticEnergy()
	}
	return e
}
