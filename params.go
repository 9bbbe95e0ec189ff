package nbody

import (
	"errors"
	"fmt"
	"math"
)

// Slider ranges used by front ends.
const (
	MinGravity = 0.0
	MaxGravity = 10.0
	MinSize    = 1.0
	MaxSize    = 100.0
)

var ErrInvalidParams = errors.New("nbody: invalid params")

// Params are the simulation parameters passed into every tick.
type Params struct {
	// Gravity is the gravitational constant G. Contributions scale with G².
	Gravity float64

	// TrailThreshold is the distance a body must travel before its trail takes a new sample.
	TrailThreshold float64

	// Subdivisions is the default approximation depth for field queries.
	Subdivisions int

	// PreviewSteps is the number of ticks a trajectory preview runs.
	PreviewSteps int

	// ReleaseMass and ReleaseSize are given to bodies created by a release gesture.
	ReleaseMass float64
	ReleaseSize float64

	// ReleaseScale converts the drag vector of a release gesture into a velocity.
	ReleaseScale float64
}

// DefaultParams returns the parameters a fresh front end starts with.
func DefaultParams() Params {
	return Params{
		Gravity:        1,
		TrailThreshold: 2,
		Subdivisions:   6,
		PreviewSteps:   300,
		ReleaseMass:    5,
		ReleaseSize:    5,
		ReleaseScale:   0.1,
	}
}

// Validate reports the first parameter that cannot be simulated.
func (p Params) Validate() error {
	switch {
	case !(p.Gravity >= 0) || math.IsInf(p.Gravity, 0):
		return fmt.Errorf("%w: gravity %v", ErrInvalidParams, p.Gravity)
	case !(p.TrailThreshold >= 0):
		return fmt.Errorf("%w: trail threshold %v", ErrInvalidParams, p.TrailThreshold)
	case p.Subdivisions < 0:
		return fmt.Errorf("%w: subdivisions %d", ErrInvalidParams, p.Subdivisions)
	case p.PreviewSteps < 0:
		return fmt.Errorf("%w: preview steps %d", ErrInvalidParams, p.PreviewSteps)
	case !(p.ReleaseMass > 0):
		return fmt.Errorf("%w: release mass %v", ErrInvalidParams, p.ReleaseMass)
	case !(p.ReleaseSize > 0):
		return fmt.Errorf("%w: release size %v", ErrInvalidParams, p.ReleaseSize)
	}
	return nil
}

// Clamp pulls slider-controlled values into their ranges.
func (p Params) Clamp() Params {
	p.Gravity = clamp(p.Gravity, MinGravity, MaxGravity)
	p.ReleaseMass = clamp(p.ReleaseMass, MinSize, MaxSize)
	p.ReleaseSize = clamp(p.ReleaseSize, MinSize, MaxSize)
	p.TrailThreshold = math.Max(p.TrailThreshold, 0)
	p.Subdivisions = max(p.Subdivisions, 0)
	p.PreviewSteps = max(p.PreviewSteps, 0)
	return p
}

func clamp(f, min, max float64) float64 {
	if f > min {
		return math.Min(f, max)
	} else {
		return min
	}
}
