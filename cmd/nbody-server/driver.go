package main

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/setanarut/nbody"
	"github.com/setanarut/nbody/utils/contour"
	"github.com/setanarut/vec"
	"github.com/vmihailenco/msgpack/v5"
)

const (
	commandBufSize = 256
	contourSamples = 48
	contourMargin  = 50.0
	defaultFlags   = nbody.DrawBodies | nbody.DrawTrails | nbody.DrawCenterOfMass | nbody.DrawPartitions
)

// Broadcaster receives every encoded frame.
type Broadcaster interface {
	BroadcastBinary(data []byte)
}

// command runs on the driver goroutine between ticks.
type command func(d *Driver)

// Driver owns the Space and runs the frame loop. Every access to the space happens on the
// driver goroutine, either in Tick or inside a submitted command.
type Driver struct {
	space    *nbody.Space
	params   nbody.Params
	dt       float64
	rate     int
	flags    uint
	contour  float64
	store    *Store
	out      Broadcaster
	commands chan command
	preview  []nbody.Path

	stop     chan struct{}
	stopOnce sync.Once
}

// NewDriver creates a driver stepping space rate times per second with tick length dt.
func NewDriver(space *nbody.Space, params nbody.Params, dt float64, rate int, out Broadcaster) *Driver {
	return &Driver{
		space:    space,
		params:   params.Clamp(),
		dt:       dt,
		rate:     rate,
		flags:    defaultFlags,
		out:      out,
		commands: make(chan command, commandBufSize),
		stop:     make(chan struct{}),
	}
}

// SetStore persists slider changes to store.
func (d *Driver) SetStore(store *Store) {
	d.store = store
}

// SetContour enables field strength contours at level t. Zero disables them.
func (d *Driver) SetContour(t float64) {
	d.contour = t
}

// Submit queues cmd for the next tick. It reports false when the queue is full.
func (d *Driver) Submit(cmd command) bool {
	select {
	case d.commands <- cmd:
		return true
	default:
		return false
	}
}

// Run steps the simulation until Stop is called. It returns at once if Stop came first.
func (d *Driver) Run() {
	select {
	case <-d.stop:
		return
	default:
	}

	ticker := time.NewTicker(time.Second / time.Duration(max(d.rate, 1)))
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.Tick()
		case <-d.stop:
			return
		}
	}
}

// Stop terminates the frame loop. It may be called more than once, before or after Run.
func (d *Driver) Stop() {
	d.stopOnce.Do(func() {
		close(d.stop)
	})
}

// Tick applies queued commands, advances the space once and broadcasts the frame.
func (d *Driver) Tick() {
	d.drain()
	d.space.Step(d.dt, d.params)

	data, err := msgpack.Marshal(d.Frame())
	if err != nil {
		log.Printf("frame marshal error: %v", err)
		return
	}
	if d.out != nil {
		d.out.BroadcastBinary(data)
	}
}

func (d *Driver) drain() {
	for {
		select {
		case cmd := <-d.commands:
			cmd(d)
		default:
			return
		}
	}
}

// Frame records the current display list.
func (d *Driver) Frame() *Frame {
	rec := newFrameRecorder(uint64(d.space.Tick()), d.flags)
	nbody.DrawSpace(d.space, rec)
	nbody.DrawPaths(d.preview, previewColor, rec)

	if d.contour > 0 && d.space.BodyCount() > 0 {
		bb := d.space.Bounds().Grow(contourMargin)
		sample := d.space.FieldStrength(d.params.Subdivisions)
		for _, s := range contour.Soft(bb, contourSamples, contourSamples, d.contour, sample) {
			rec.DrawSegment(s.A, s.B, contourColor, nil)
		}
	}
	return rec.frame
}

// NextID returns the id the next released body gets.
func (d *Driver) NextID() int {
	if id, ok := d.space.LastID(); ok {
		return id + 1
	}
	return 1
}

// Release adds the body described by a drag gesture.
func (d *Driver) Release(g GestureMsg) (nbody.Body, error) {
	body := nbody.NewReleasedBody(d.NextID(), vec.Vec2{X: g.PX, Y: g.PY}, vec.Vec2{X: g.RX, Y: g.RY}, d.params)
	if err := d.space.AddBody(body); err != nil {
		return body, fmt.Errorf("release: %w", err)
	}
	d.preview = nil
	return body, nil
}

// Reset removes every body and any pending preview.
func (d *Driver) Reset() {
	d.space.Reset()
	d.preview = nil
}

// UpdateParams applies the given slider values, clamped to their ranges.
func (d *Driver) UpdateParams(m ParamsMsg) SettingsMsg {
	p := d.params
	if m.Gravity != nil {
		p.Gravity = *m.Gravity
	}
	if m.Mass != nil {
		p.ReleaseMass = *m.Mass
	}
	if m.Size != nil {
		p.ReleaseSize = *m.Size
	}
	if m.Depth != nil {
		p.Subdivisions = *m.Depth
	}
	d.params = p.Clamp()

	if d.store != nil {
		if err := d.store.SaveParams(d.params); err != nil {
			log.Printf("save settings error: %v", err)
		}
	}
	return d.Settings()
}

// Settings reports the active parameters.
func (d *Driver) Settings() SettingsMsg {
	return SettingsMsg{
		Gravity: d.params.Gravity,
		Mass:    d.params.ReleaseMass,
		Size:    d.params.ReleaseSize,
		Depth:   d.params.Subdivisions,
		Rate:    d.rate,
	}
}

// Probe samples the field at the requested points.
func (d *Driver) Probe(m ProbeMsg) FieldMsg {
	depth := m.Depth
	if depth < 0 {
		depth = d.params.Subdivisions
	}
	points := make([]vec.Vec2, len(m.Points))
	for i, p := range m.Points {
		points[i] = vec.Vec2{X: p[0], Y: p[1]}
	}

	field := d.space.FieldAt(points, depth)
	out := FieldMsg{Vectors: make([]Point, len(field))}
	for i, f := range field {
		out.Vectors[i] = toPoint(f)
	}
	return out
}

// Preview predicts the paths of every body if the gesture were released now. The paths are also
// drawn in every frame until the next release or reset.
func (d *Driver) Preview(g GestureMsg) ([]PathMsg, error) {
	candidate := nbody.NewReleasedBody(d.NextID(), vec.Vec2{X: g.PX, Y: g.PY}, vec.Vec2{X: g.RX, Y: g.RY}, d.params)
	paths, err := d.space.Preview(candidate, d.params.PreviewSteps, d.dt, d.params)
	if err != nil {
		return nil, fmt.Errorf("preview: %w", err)
	}
	d.preview = paths

	out := make([]PathMsg, len(paths))
	for i, p := range paths {
		points := make([]Point, len(p.Points))
		for j, v := range p.Points {
			points[j] = toPoint(v)
		}
		out[i] = PathMsg{ID: p.ID, Points: points}
	}
	return out, nil
}
