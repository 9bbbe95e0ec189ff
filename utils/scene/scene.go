// Package scene loads and generates initial body sets.
package scene

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/setanarut/nbody"
	"github.com/setanarut/vec"
	"golang.org/x/exp/rand"
)

// Scene is the on-disk description of a starting state.
type Scene struct {
	Name      string       `json:"name"`
	Dt        float64      `json:"dt"`
	Gravity   float64      `json:"gravity"`
	AutoOrbit bool         `json:"auto_orbit,omitempty"`
	Bodies    []BodyConfig `json:"bodies"`
}

// BodyConfig is one body record. Ids must increase through the list.
type BodyConfig struct {
	ID   int        `json:"id"`
	Mass float64    `json:"mass"`
	Size float64    `json:"size"`
	Pos  [2]float64 `json:"pos"`
	Vel  [2]float64 `json:"vel"`
}

// Load reads a JSON scene file.
func Load(path string) (*Scene, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("scene: open %s: %w", path, err)
	}
	defer f.Close()
	s, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("scene: %s: %w", path, err)
	}
	return s, nil
}

// Decode parses a JSON scene. A missing dt defaults to 1.
func Decode(r io.Reader) (*Scene, error) {
	var s Scene
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if s.Dt == 0 {
		s.Dt = 1
	}
	if s.AutoOrbit {
		SetOrbitalVelocities(s.Bodies, s.Gravity, s.Dt)
	}
	return &s, nil
}

// Save writes the scene as indented JSON.
func (s *Scene) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("scene: encode: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("scene: write %s: %w", path, err)
	}
	return nil
}

// Params returns p with the scene's gravity.
func (s *Scene) Params(p nbody.Params) nbody.Params {
	p.Gravity = s.Gravity
	return p
}

// BodyList converts the records to bodies.
func (s *Scene) BodyList() []nbody.Body {
	out := make([]nbody.Body, len(s.Bodies))
	for i, b := range s.Bodies {
		out[i] = nbody.NewBody(
			b.ID,
			vec.Vec2{X: b.Pos[0], Y: b.Pos[1]},
			vec.Vec2{X: b.Vel[0], Y: b.Vel[1]},
			b.Mass,
			b.Size,
		)
	}
	return out
}

// Apply adds every body of the scene to space. It stops at the first body the space rejects.
func (s *Scene) Apply(space *nbody.Space) error {
	for _, b := range s.BodyList() {
		if err := space.AddBody(b); err != nil {
			return fmt.Errorf("scene %q: %w", s.Name, err)
		}
	}
	return nil
}

// FromSpace captures the current bodies of space.
func FromSpace(name string, space *nbody.Space, dt float64, p nbody.Params) *Scene {
	s := &Scene{Name: name, Dt: dt, Gravity: p.Gravity}
	space.EachBody(func(b nbody.Body) {
		s.Bodies = append(s.Bodies, BodyConfig{
			ID:   b.ID,
			Mass: b.Mass,
			Size: b.Size,
			Pos:  [2]float64{b.Position.X, b.Position.Y},
			Vel:  [2]float64{b.Velocity.X, b.Velocity.Y},
		})
	})
	return s
}

// OrbitalSpeed is the speed of a circular orbit at distance r around mass m. A body gains
// dt*g²*m/r² of velocity per tick and moves by its velocity once per tick.
func OrbitalSpeed(m, r, g, dt float64) float64 {
	return math.Sqrt(dt * g * g * m / r)
}

// SetOrbitalVelocities gives every resting body a circular orbit around the first body.
func SetOrbitalVelocities(bodies []BodyConfig, g, dt float64) {
	if len(bodies) == 0 {
		return
	}
	central := bodies[0]
	for i := 1; i < len(bodies); i++ {
		if bodies[i].Vel != [2]float64{} {
			continue
		}
		dx := bodies[i].Pos[0] - central.Pos[0]
		dy := bodies[i].Pos[1] - central.Pos[1]
		r := math.Hypot(dx, dy)
		if r == 0 {
			continue
		}
		v := OrbitalSpeed(central.Mass, r, g, dt)
		bodies[i].Vel[0] = central.Vel[0] - dy/r*v
		bodies[i].Vel[1] = central.Vel[1] + dx/r*v
	}
}

// GalaxyConfig controls Galaxy.
type GalaxyConfig struct {
	Count       int
	Seed        uint64
	Center      vec.Vec2
	Radius      float64
	CentralMass float64
	MinMass     float64
	MaxMass     float64
	Size        float64
	Gravity     float64
	Dt          float64
}

// DefaultGalaxy returns a 200 body disk of radius 300.
func DefaultGalaxy() GalaxyConfig {
	return GalaxyConfig{
		Count:       200,
		Seed:        1,
		Radius:      300,
		CentralMass: 2000,
		MinMass:     1,
		MaxMass:     3,
		Size:        2,
		Gravity:     1,
		Dt:          1,
	}
}

// Galaxy places a heavy body at the center and cfg.Count-1 light bodies on circular orbits
// around it. The same seed always yields the same scene.
func Galaxy(cfg GalaxyConfig) *Scene {
	rnd := rand.New(rand.NewSource(cfg.Seed))
	s := &Scene{Name: "galaxy", Dt: cfg.Dt, Gravity: cfg.Gravity}
	if cfg.Count <= 0 {
		return s
	}
	s.Bodies = make([]BodyConfig, 0, cfg.Count)
	s.Bodies = append(s.Bodies, BodyConfig{
		ID:   0,
		Mass: cfg.CentralMass,
		Size: cfg.Size * 4,
		Pos:  [2]float64{cfg.Center.X, cfg.Center.Y},
	})
	for i := 1; i < cfg.Count; i++ {
		r := cfg.Radius * (0.1 + 0.9*math.Sqrt(rnd.Float64()))
		theta := 2 * math.Pi * rnd.Float64()
		s.Bodies = append(s.Bodies, BodyConfig{
			ID:   i,
			Mass: cfg.MinMass + (cfg.MaxMass-cfg.MinMass)*rnd.Float64(),
			Size: cfg.Size,
			Pos: [2]float64{
				cfg.Center.X + r*math.Cos(theta),
				cfg.Center.Y + r*math.Sin(theta),
			},
		})
	}
	SetOrbitalVelocities(s.Bodies, cfg.Gravity, cfg.Dt)
	return s
}
