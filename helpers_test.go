package nbody_test

import (
	"cmp"
	"math"
	"slices"
	"testing"

	"github.com/setanarut/nbody"
	"github.com/setanarut/vec"
	"golang.org/x/exp/rand"
)

func randomBodies(n int, seed uint64) []nbody.Body {
	rnd := rand.New(rand.NewSource(seed))
	bodies := make([]nbody.Body, n)
	for i := range bodies {
		pos := vec.Vec2{X: 1000 * rnd.Float64(), Y: 1000 * rnd.Float64()}
		vel := vec.Vec2{X: rnd.NormFloat64(), Y: rnd.NormFloat64()}
		bodies[i] = nbody.NewBody(i, pos, vel, 1+9*rnd.Float64(), 3)
	}
	return bodies
}

func bodiesAt(pos vec.Vec2, n int) []nbody.Body {
	bodies := make([]nbody.Body, n)
	for i := range bodies {
		bodies[i] = nbody.NewBody(i, pos, vec.Vec2{}, 1, 1)
	}
	return bodies
}

func sortByID(bodies []nbody.Body) []nbody.Body {
	out := slices.Clone(bodies)
	slices.SortFunc(out, func(a, b nbody.Body) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return out
}

func sameBodies(t *testing.T, got, want []nbody.Body) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d bodies want %d", len(got), len(want))
	}
	g, w := sortByID(got), sortByID(want)
	for i := range w {
		if g[i].ID != w[i].ID || g[i].Position != w[i].Position || g[i].Mass != w[i].Mass {
			t.Errorf("got [%v] want [%v]", g[i], w[i])
		}
	}
}

func near(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol*math.Max(1, math.Max(math.Abs(a), math.Abs(b)))
}

func nearVec(a, b vec.Vec2, tol float64) bool {
	return near(a.X, b.X, tol) && near(a.Y, b.Y, tol)
}
