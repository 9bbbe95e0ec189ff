package nbody

import (
	"fmt"

	"github.com/setanarut/vec"
)

// Path is the predicted polyline of one body.
type Path struct {
	ID     int
	Points []vec.Vec2
}

// Preview predicts where every body would go if candidate were added now. It runs the same
// Integrate call as Step, steps times, on copies; the space itself is left untouched. The result
// holds one Path per body, candidate last, with one point per step.
func (s *Space) Preview(candidate Body, steps int, dt float64, p Params) ([]Path, error) {
	if err := candidate.Validate(); err != nil {
		return nil, err
	}
	if s.anyID && candidate.ID <= s.lastID {
		return nil, fmt.Errorf("%w: preview id %d after %d", ErrNonMonotonicID, candidate.ID, s.lastID)
	}

	bodies := make([]Body, 0, len(s.bodies)+1)
	for _, b := range s.bodies {
		b.Trail = nil
		bodies = append(bodies, b)
	}
	candidate.Trail = nil
	bodies = append(bodies, candidate)

	paths := make([]Path, len(bodies))
	for i := range bodies {
		paths[i] = Path{ID: bodies[i].ID, Points: make([]vec.Vec2, 0, steps)}
	}

	for range steps {
		Integrate(bodies, dt, p)
		for i := range bodies {
			paths[i].Points = append(paths[i].Points, bodies[i].Position)
		}
	}
	return paths, nil
}
