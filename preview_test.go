package nbody_test

import (
	"errors"
	"testing"

	"github.com/setanarut/nbody"
	"github.com/setanarut/vec"
)

func TestPreviewDoesNotMutateSpace(t *testing.T) {
	s := nbody.NewSpace()
	for _, b := range randomBodies(5, 4) {
		s.AddBody(b)
	}
	s.Step(1, unitParams())
	before := s.Bodies()
	tick := s.Tick()

	candidate := nbody.NewBody(10, vec.Vec2{X: 500, Y: 500}, vec.Vec2{X: 1}, 5, 5)
	paths, err := s.Preview(candidate, 20, 1, unitParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 6 || paths[5].ID != 10 {
		t.Fatalf("got %d paths, last %d", len(paths), paths[len(paths)-1].ID)
	}

	after := s.Bodies()
	for i := range before {
		if after[i].Position != before[i].Position || after[i].Velocity != before[i].Velocity ||
			len(after[i].Trail) != len(before[i].Trail) {
			t.Errorf("body %d changed: %v -> %v", before[i].ID, before[i], after[i])
		}
	}
	if s.Tick() != tick || s.BodyCount() != 5 {
		t.Error("preview advanced the space")
	}
}

func TestPreviewMatchesStep(t *testing.T) {
	bodies := randomBodies(8, 12)
	candidate := nbody.NewBody(100, vec.Vec2{X: 300, Y: 300}, vec.Vec2{Y: -1}, 20, 5)

	s := nbody.NewSpace()
	for _, b := range bodies {
		s.AddBody(b)
	}
	paths, err := s.Preview(candidate, 15, 0.5, unitParams())
	if err != nil {
		t.Fatal(err)
	}

	s.AddBody(candidate)
	for range 15 {
		s.Step(0.5, unitParams())
	}
	for _, p := range paths {
		if len(p.Points) != 15 {
			t.Fatalf("path %d has %d points", p.ID, len(p.Points))
		}
		b, ok := s.Body(p.ID)
		if !ok {
			t.Fatalf("no body %d", p.ID)
		}
		if last := p.Points[len(p.Points)-1]; last != b.Position {
			t.Errorf("body %d: got [%v] want [%v]", p.ID, last, b.Position)
		}
	}
}

func TestPreviewRejectsStaleID(t *testing.T) {
	s := nbody.NewSpace()
	s.AddBody(nbody.NewBody(3, vec.Vec2{}, vec.Vec2{}, 1, 1))
	_, err := s.Preview(nbody.NewBody(3, vec.Vec2{X: 1}, vec.Vec2{}, 1, 1), 10, 1, unitParams())
	if !errors.Is(err, nbody.ErrNonMonotonicID) {
		t.Errorf("got [%v] want [%v]", err, nbody.ErrNonMonotonicID)
	}
}

func TestPreviewZeroSteps(t *testing.T) {
	s := nbody.NewSpace()
	paths, err := s.Preview(nbody.NewBody(0, vec.Vec2{}, vec.Vec2{}, 1, 1), 0, 1, unitParams())
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 1 || len(paths[0].Points) != 0 {
		t.Errorf("got [%v]", paths)
	}
}
