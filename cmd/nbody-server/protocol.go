package main

import (
	"encoding/json"
	"math"

	"github.com/setanarut/vec"
)

// Client -> Server message types
const (
	MsgRelease = "release" // drag gesture finished, add a body
	MsgReset   = "reset"   // remove every body
	MsgParams  = "params"  // slider change
	MsgProbe   = "probe"   // sample the field at points
	MsgPreview = "preview" // predict trajectories for a pending release
)

// Server -> Client message types. Frames are sent as binary msgpack and carry no envelope.
const (
	MsgWelcome  = "welcome"
	MsgField    = "field"
	MsgPaths    = "paths"
	MsgSettings = "settings"
	MsgError    = "error"
)

// Envelope wraps all outgoing JSON messages with a type field
type Envelope struct {
	T    string      `json:"t"`
	Data interface{} `json:"d,omitempty"`
}

// InEnvelope is used for incoming messages. D is decoded by the handler for T.
type InEnvelope struct {
	T string          `json:"t"`
	D json.RawMessage `json:"d,omitempty"`
}

// GestureMsg describes a drag from press to release in world coordinates.
type GestureMsg struct {
	PX float64 `json:"px"`
	PY float64 `json:"py"`
	RX float64 `json:"rx"`
	RY float64 `json:"ry"`
}

// ParamsMsg carries slider values. Absent fields are left unchanged.
type ParamsMsg struct {
	Gravity *float64 `json:"gravity,omitempty"`
	Mass    *float64 `json:"mass,omitempty"`
	Size    *float64 `json:"size,omitempty"`
	Depth   *int     `json:"depth,omitempty"`
}

// ProbeMsg asks for the field at each point. Depth < 0 uses the server default.
type ProbeMsg struct {
	Points [][2]float64 `json:"points"`
	Depth  int          `json:"depth"`
}

// Number is a float64 that encodes NaN and ±Inf as null. Bodies that met at zero distance carry
// such values and still have to reach the client.
type Number float64

func (n Number) MarshalJSON() ([]byte, error) {
	f := float64(n)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON reads null back as NaN.
func (n *Number) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = Number(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*n = Number(f)
	return nil
}

// Point is a vector on the wire.
type Point [2]Number

func toPoint(v vec.Vec2) Point {
	return Point{Number(v.X), Number(v.Y)}
}

// FieldMsg answers a probe with one vector per point.
type FieldMsg struct {
	Vectors []Point `json:"vectors"`
}

// PathMsg is one predicted polyline.
type PathMsg struct {
	ID     int     `json:"id"`
	Points []Point `json:"points"`
}

// SettingsMsg reports the active parameters.
type SettingsMsg struct {
	Gravity float64 `json:"gravity"`
	Mass    float64 `json:"mass"`
	Size    float64 `json:"size"`
	Depth   int     `json:"depth"`
	Rate    int     `json:"rate"`
}

// ErrorMsg reports a rejected command.
type ErrorMsg struct {
	Message string `json:"message"`
}

// Frame is the display list of one tick, msgpack encoded.
type Frame struct {
	Tick     uint64       `msgpack:"tick"`
	Bodies   []BodyState  `msgpack:"bodies"`
	Trails   []Polyline   `msgpack:"trails,omitempty"`
	Paths    []Polyline   `msgpack:"paths,omitempty"`
	Splits   []LineState  `msgpack:"splits,omitempty"`
	Contours []LineState  `msgpack:"contours,omitempty"`
	COM      *MarkerState `msgpack:"com,omitempty"`
}

// BodyState is a drawn body.
type BodyState struct {
	ID    int        `msgpack:"id"`
	X     float64    `msgpack:"x"`
	Y     float64    `msgpack:"y"`
	R     float64    `msgpack:"r"`
	Color [4]float32 `msgpack:"c"`
}

// Polyline is a drawn trail or path, flattened as x0, y0, x1, y1, ...
type Polyline struct {
	Points []float32  `msgpack:"p"`
	Color  [4]float32 `msgpack:"c"`
}

// LineState is a drawn segment.
type LineState struct {
	X1    float64    `msgpack:"x1"`
	Y1    float64    `msgpack:"y1"`
	X2    float64    `msgpack:"x2"`
	Y2    float64    `msgpack:"y2"`
	Color [4]float32 `msgpack:"c"`
}

// MarkerState is a drawn dot.
type MarkerState struct {
	X     float64    `msgpack:"x"`
	Y     float64    `msgpack:"y"`
	Size  float64    `msgpack:"s"`
	Color [4]float32 `msgpack:"c"`
}
