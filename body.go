package nbody

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/setanarut/vec"
)

// TrailCapacity is the maximum number of past positions a body remembers.
const TrailCapacity = 100

var (
	ErrInvalidMass    = errors.New("nbody: mass must be positive")
	ErrInvalidSize    = errors.New("nbody: size must be positive")
	ErrNonMonotonicID = errors.New("nbody: body id must be greater than every previous id")
)

// Body is a point mass.
//
// ID is assigned by the caller and never reused. Size is the display radius and has no effect on
// the physics. Trail holds past positions, most recent last.
type Body struct {
	ID       int
	Position vec.Vec2
	Velocity vec.Vec2
	Mass     float64
	Size     float64
	Trail    []vec.Vec2
}

// NewBody returns a body with an empty trail.
func NewBody(id int, position, velocity vec.Vec2, mass, size float64) Body {
	return Body{
		ID:       id,
		Position: position,
		Velocity: velocity,
		Mass:     mass,
		Size:     size,
	}
}

// NewReleasedBody creates the body produced by a drag gesture that started at press and was
// released at release. The body sits at press and moves away from the release point.
func NewReleasedBody(id int, press, release vec.Vec2, p Params) Body {
	return NewBody(id, press, press.Sub(release).Scale(p.ReleaseScale), p.ReleaseMass, p.ReleaseSize)
}

// String returns body id and position
func (b Body) String() string {
	return fmt.Sprint("Body ", b.ID, ", Position ", b.Position)
}

// Validate reports whether mass and size are usable.
func (b Body) Validate() error {
	if !(b.Mass > 0) {
		return fmt.Errorf("%w: body %d has mass %v", ErrInvalidMass, b.ID, b.Mass)
	}
	if !(b.Size > 0) {
		return fmt.Errorf("%w: body %d has size %v", ErrInvalidSize, b.ID, b.Size)
	}
	return nil
}

// Clone returns a copy of b that shares no memory with it.
func (b Body) Clone() Body {
	b.Trail = slices.Clone(b.Trail)
	return b
}

// RecordTrail appends the current position to the trail if it moved more than threshold since
// the last sample. The oldest sample is dropped once the trail is full.
func (b *Body) RecordTrail(threshold float64) {
	if n := len(b.Trail); n > 0 {
		d := b.Trail[n-1].Sub(b.Position)
		if d.Dot(d) <= threshold*threshold {
			return
		}
	}
	if len(b.Trail) == TrailCapacity {
		copy(b.Trail, b.Trail[1:])
		b.Trail[TrailCapacity-1] = b.Position
		return
	}
	b.Trail = append(b.Trail, b.Position)
}

// IsFinite returns false once the body's kinematics have been corrupted by a zero-distance
// interaction.
func (b *Body) IsFinite() bool {
	return isFinite(b.Position) && isFinite(b.Velocity)
}

// KineticEnergy returns the kinetic energy of this body.
func (b *Body) KineticEnergy() float64 {
	return 0.5 * b.Mass * b.Velocity.Dot(b.Velocity)
}

func isFinite(v vec.Vec2) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func cloneBodies(bodies []Body) []Body {
	out := make([]Body, len(bodies))
	for i := range bodies {
		out[i] = bodies[i].Clone()
	}
	return out
}
