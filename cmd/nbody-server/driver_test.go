package main

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/setanarut/nbody"
	"github.com/setanarut/vec"
	"github.com/vmihailenco/msgpack/v5"
)

type captureBroadcaster struct {
	mu     sync.Mutex
	frames [][]byte
}

func (c *captureBroadcaster) BroadcastBinary(data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.frames = append(c.frames, data)
}

func (c *captureBroadcaster) last(t *testing.T) Frame {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.frames) == 0 {
		t.Fatal("no frame broadcast")
	}
	var f Frame
	if err := msgpack.Unmarshal(c.frames[len(c.frames)-1], &f); err != nil {
		t.Fatalf("msgpack unmarshal: %v", err)
	}
	return f
}

func newTestDriver() (*Driver, *captureBroadcaster) {
	out := &captureBroadcaster{}
	return NewDriver(nbody.NewSpace(), nbody.DefaultParams(), 1.0/60, 60, out), out
}

func TestDriverReleaseAssignsIncreasingIDs(t *testing.T) {
	d, _ := newTestDriver()

	first, err := d.Release(GestureMsg{PX: 0, PY: 0, RX: -10, RY: 0})
	if err != nil {
		t.Fatal(err)
	}
	second, err := d.Release(GestureMsg{PX: 50, PY: 0, RX: 50, RY: 0})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID != 1 || second.ID != 2 {
		t.Errorf("ids = %d, %d, want 1, 2", first.ID, second.ID)
	}

	d.Reset()
	third, err := d.Release(GestureMsg{})
	if err != nil {
		t.Fatal(err)
	}
	if third.ID != 3 {
		t.Errorf("id after reset = %d, want 3", third.ID)
	}
	if d.space.BodyCount() != 1 {
		t.Errorf("body count = %d, want 1", d.space.BodyCount())
	}
}

func TestDriverReleaseVelocity(t *testing.T) {
	d, _ := newTestDriver()
	body, err := d.Release(GestureMsg{PX: 10, PY: 10, RX: 0, RY: 10})
	if err != nil {
		t.Fatal(err)
	}
	want := vec.Vec2{X: 10 * d.params.ReleaseScale, Y: 0}
	if body.Velocity != want {
		t.Errorf("velocity = %v, want %v", body.Velocity, want)
	}
	if body.Mass != d.params.ReleaseMass || body.Size != d.params.ReleaseSize {
		t.Errorf("mass/size = %v/%v, want %v/%v", body.Mass, body.Size, d.params.ReleaseMass, d.params.ReleaseSize)
	}
}

func TestDriverTickBroadcastsFrame(t *testing.T) {
	d, out := newTestDriver()
	d.Release(GestureMsg{PX: 0, PY: 0})
	d.Release(GestureMsg{PX: 100, PY: 0, RX: 100, RY: 0})
	d.Release(GestureMsg{PX: 0, PY: 100, RX: 0, RY: 100})

	d.Tick()
	f := out.last(t)

	if f.Tick != 1 {
		t.Errorf("tick = %d, want 1", f.Tick)
	}
	if len(f.Bodies) != 3 {
		t.Fatalf("bodies = %d, want 3", len(f.Bodies))
	}
	for i, b := range f.Bodies {
		if b.ID != i+1 {
			t.Errorf("body %d has id %d, want %d", i, b.ID, i+1)
		}
	}
	if f.COM == nil {
		t.Error("frame has no center of mass marker")
	}
	if len(f.Splits) == 0 {
		t.Error("frame has no partition lines for 3 bodies")
	}
}

func TestDriverTickEmptySpace(t *testing.T) {
	d, out := newTestDriver()
	d.Tick()
	f := out.last(t)
	if len(f.Bodies) != 0 || f.COM != nil || len(f.Splits) != 0 {
		t.Errorf("empty space frame = %+v", f)
	}
}

func TestDriverSubmitRunsOnTick(t *testing.T) {
	d, _ := newTestDriver()
	ran := false
	if !d.Submit(func(d *Driver) { ran = true }) {
		t.Fatal("submit rejected")
	}
	if ran {
		t.Fatal("command ran before tick")
	}
	d.Tick()
	if !ran {
		t.Error("command did not run on tick")
	}
}

func TestDriverSubmitQueueFull(t *testing.T) {
	d, _ := newTestDriver()
	for i := 0; i < commandBufSize; i++ {
		if !d.Submit(func(*Driver) {}) {
			t.Fatalf("submit %d rejected", i)
		}
	}
	if d.Submit(func(*Driver) {}) {
		t.Error("submit accepted past queue size")
	}
}

func TestDriverUpdateParamsClamps(t *testing.T) {
	d, _ := newTestDriver()
	g, m, s, depth := 50.0, 0.0, 500.0, 3
	settings := d.UpdateParams(ParamsMsg{Gravity: &g, Mass: &m, Size: &s, Depth: &depth})

	if settings.Gravity != nbody.MaxGravity {
		t.Errorf("gravity = %v, want %v", settings.Gravity, nbody.MaxGravity)
	}
	if settings.Mass != nbody.MinSize {
		t.Errorf("mass = %v, want %v", settings.Mass, nbody.MinSize)
	}
	if settings.Size != nbody.MaxSize {
		t.Errorf("size = %v, want %v", settings.Size, nbody.MaxSize)
	}
	if settings.Depth != 3 {
		t.Errorf("depth = %v, want 3", settings.Depth)
	}
}

func TestDriverUpdateParamsKeepsUnset(t *testing.T) {
	d, _ := newTestDriver()
	before := d.Settings()
	g := 2.5
	after := d.UpdateParams(ParamsMsg{Gravity: &g})
	if after.Gravity != 2.5 {
		t.Errorf("gravity = %v, want 2.5", after.Gravity)
	}
	if after.Mass != before.Mass || after.Size != before.Size || after.Depth != before.Depth {
		t.Errorf("unset fields changed: %+v -> %+v", before, after)
	}
}

func TestDriverProbe(t *testing.T) {
	d, _ := newTestDriver()
	d.Release(GestureMsg{PX: -10, PY: 0, RX: -10, RY: 0})
	d.Release(GestureMsg{PX: 10, PY: 0, RX: 10, RY: 0})

	field := d.Probe(ProbeMsg{Points: [][2]float64{{0, 0}, {0, 10}}, Depth: -1})
	if len(field.Vectors) != 2 {
		t.Fatalf("vectors = %d, want 2", len(field.Vectors))
	}
	// symmetric pair cancels at the midpoint
	if field.Vectors[0] != (Point{}) {
		t.Errorf("midpoint field = %v, want zero", field.Vectors[0])
	}
	if !(field.Vectors[1][1] < 0) {
		t.Errorf("field above the pair = %v, want pointing down", field.Vectors[1])
	}
}

func TestDriverPreviewLeavesSpaceUntouched(t *testing.T) {
	d, _ := newTestDriver()
	d.Release(GestureMsg{PX: 0, PY: 0, RX: 0, RY: 0})
	before := d.space.Bodies()

	paths, err := d.Preview(GestureMsg{PX: 100, PY: 0, RX: 100, RY: 20})
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("paths = %d, want 2", len(paths))
	}
	if paths[1].ID != 2 {
		t.Errorf("candidate id = %d, want 2", paths[1].ID)
	}
	for _, p := range paths {
		if len(p.Points) != d.params.PreviewSteps {
			t.Errorf("path %d has %d points, want %d", p.ID, len(p.Points), d.params.PreviewSteps)
		}
	}

	after := d.space.Bodies()
	if len(after) != len(before) || after[0].Position != before[0].Position || after[0].Velocity != before[0].Velocity {
		t.Errorf("preview changed the space: %v -> %v", before, after)
	}
	if d.NextID() != 2 {
		t.Errorf("next id = %d, want 2", d.NextID())
	}
}

func TestDriverPreviewRejectsBadMass(t *testing.T) {
	d, _ := newTestDriver()
	d.params.ReleaseMass = 0
	_, err := d.Preview(GestureMsg{})
	if !errors.Is(err, nbody.ErrInvalidMass) {
		t.Errorf("err = %v, want ErrInvalidMass", err)
	}
}

func TestDriverFrameContours(t *testing.T) {
	d, _ := newTestDriver()
	d.params.ReleaseMass = 100
	d.Release(GestureMsg{})
	d.SetContour(0.1)

	f := d.Frame()
	if len(f.Contours) == 0 {
		t.Error("no contour segments around a heavy body")
	}
	for _, c := range f.Contours {
		if c.Color != rgba(contourColor) {
			t.Errorf("contour color = %v", c.Color)
			break
		}
	}
}

func TestDriverRepliesWithCoincidentBodies(t *testing.T) {
	d, _ := newTestDriver()
	d.Release(GestureMsg{PX: 5, PY: 5, RX: 5, RY: 5})
	d.Release(GestureMsg{PX: 5, PY: 5, RX: 5, RY: 5})
	for range 3 {
		d.Tick()
	}

	paths, err := d.Preview(GestureMsg{PX: 50, PY: 50, RX: 50, RY: 50})
	if err != nil {
		t.Fatal(err)
	}
	raw, err := json.Marshal(Envelope{T: MsgPaths, Data: paths})
	if err != nil {
		t.Fatalf("marshal paths: %v", err)
	}
	if !strings.Contains(string(raw), "null") {
		t.Errorf("non-finite path points not encoded as null: %s", raw)
	}

	field := d.Probe(ProbeMsg{Points: [][2]float64{{0, 0}}, Depth: -1})
	raw, err = json.Marshal(Envelope{T: MsgField, Data: field})
	if err != nil {
		t.Fatalf("marshal field: %v", err)
	}

	var back FieldMsg
	env := InEnvelope{}
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(env.D, &back); err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(float64(back.Vectors[0][0])) {
		t.Errorf("got [%v] want NaN", back.Vectors[0])
	}
}

func TestNumberJSON(t *testing.T) {
	raw, err := json.Marshal([]Number{1.5, Number(math.Inf(-1)), Number(math.NaN())})
	if err != nil {
		t.Fatal(err)
	}
	if string(raw) != "[1.5,null,null]" {
		t.Errorf("got [%s] want [[1.5,null,null]]", raw)
	}

	var p Point
	if err := json.Unmarshal([]byte("[null, -2]"), &p); err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(float64(p[0])) || p[1] != -2 {
		t.Errorf("got [%v]", p)
	}
}

func TestDriverPreviewDrawnUntilRelease(t *testing.T) {
	d, _ := newTestDriver()
	d.Release(GestureMsg{})
	if _, err := d.Preview(GestureMsg{PX: 100, PY: 0, RX: 100, RY: 10}); err != nil {
		t.Fatal(err)
	}

	f := d.Frame()
	if len(f.Paths) != 2 {
		t.Fatalf("frame has %d preview paths, want 2", len(f.Paths))
	}
	if f.Paths[0].Color != rgba(previewColor) {
		t.Errorf("path color = %v", f.Paths[0].Color)
	}
	if want := 2 * d.params.PreviewSteps; len(f.Paths[0].Points) != want {
		t.Errorf("path has %d coordinates, want %d", len(f.Paths[0].Points), want)
	}

	d.Release(GestureMsg{PX: 100, PY: 0, RX: 100, RY: 10})
	if f := d.Frame(); len(f.Paths) != 0 {
		t.Errorf("preview still drawn after release: %d paths", len(f.Paths))
	}

	d.Preview(GestureMsg{PX: -50})
	d.Reset()
	if f := d.Frame(); len(f.Paths) != 0 {
		t.Errorf("preview still drawn after reset: %d paths", len(f.Paths))
	}
}

func TestDriverStopBeforeRun(t *testing.T) {
	d, _ := newTestDriver()
	d.Stop()
	d.Stop()

	done := make(chan struct{})
	go func() {
		d.Run()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept going after Stop")
	}
}

func TestDriverStopWhileRunning(t *testing.T) {
	d, out := newTestDriver()
	done := make(chan struct{})
	go func() {
		d.Run()
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		out.mu.Lock()
		n := len(out.frames)
		out.mu.Unlock()
		if n > 0 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("no frame before Stop")
		}
		time.Sleep(5 * time.Millisecond)
	}

	d.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Run kept going after Stop")
	}
}
