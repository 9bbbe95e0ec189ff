package nbody_test

import (
	"errors"
	"math"
	"testing"

	"github.com/setanarut/nbody"
)

func TestDefaultParamsValid(t *testing.T) {
	if err := nbody.DefaultParams().Validate(); err != nil {
		t.Error(err)
	}
}

func TestParamsValidate(t *testing.T) {
	mods := []func(*nbody.Params){
		func(p *nbody.Params) { p.Gravity = -1 },
		func(p *nbody.Params) { p.Gravity = math.Inf(1) },
		func(p *nbody.Params) { p.Gravity = math.NaN() },
		func(p *nbody.Params) { p.Subdivisions = -1 },
		func(p *nbody.Params) { p.PreviewSteps = -1 },
		func(p *nbody.Params) { p.ReleaseMass = 0 },
		func(p *nbody.Params) { p.ReleaseSize = 0 },
		func(p *nbody.Params) { p.TrailThreshold = -1 },
	}
	for i, mod := range mods {
		p := nbody.DefaultParams()
		mod(&p)
		if err := p.Validate(); !errors.Is(err, nbody.ErrInvalidParams) {
			t.Errorf("case %d: got [%v] want [%v]", i, err, nbody.ErrInvalidParams)
		}
	}
}

func TestParamsClamp(t *testing.T) {
	p := nbody.DefaultParams()
	p.Gravity = 11
	p.ReleaseMass = -5
	p.ReleaseSize = 1000
	p.Subdivisions = -2

	got := p.Clamp()
	if got.Gravity != nbody.MaxGravity || got.ReleaseMass != nbody.MinSize ||
		got.ReleaseSize != nbody.MaxSize || got.Subdivisions != 0 {
		t.Errorf("got [%+v]", got)
	}
	if err := got.Validate(); err != nil {
		t.Error(err)
	}
}
