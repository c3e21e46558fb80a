package metrics

import (
	"math"

	"github.com/san-kum/gravsim/internal/nbody"
)

// EnergyDrift tracks the maximum relative deviation of total energy from
// its value at the first observation.
type EnergyDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewEnergyDrift() *EnergyDrift {
	return &EnergyDrift{name: "energy_drift"}
}

func (e *EnergyDrift) Name() string { return e.name }

func (e *EnergyDrift) Observe(s *nbody.Simulation) {
	energy := s.Energy()
	if e.samples == 0 {
		e.initial = energy
	}
	e.samples++

	if e.initial != 0 {
		drift := math.Abs((energy - e.initial) / e.initial)
		e.maxDrift = math.Max(e.maxDrift, drift)
	}
}

func (e *EnergyDrift) Value() float64 { return e.maxDrift }

func (e *EnergyDrift) Reset() {
	e.initial = 0
	e.maxDrift = 0
	e.samples = 0
}

// AngularMomentumDrift tracks the maximum absolute deviation of the total
// angular momentum magnitude from its first observation.
type AngularMomentumDrift struct {
	name     string
	initial  float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift {
	return &AngularMomentumDrift{name: "angular_momentum_drift"}
}

func (a *AngularMomentumDrift) Name() string { return a.name }

func (a *AngularMomentumDrift) Observe(s *nbody.Simulation) {
	lx, ly, lz := s.AngularMomentum()
	l := math.Sqrt(lx*lx + ly*ly + lz*lz)
	if a.samples == 0 {
		a.initial = l
	}
	a.samples++
	a.maxDrift = math.Max(a.maxDrift, math.Abs(l-a.initial))
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() {
	a.initial = 0
	a.maxDrift = 0
	a.samples = 0
}

// MomentumMagnitude tracks the maximum magnitude of total linear momentum.
// For an isolated system started at rest in the center-of-mass frame this
// should stay at the round-off floor.
type MomentumMagnitude struct {
	name string
	max  float64
}

func NewMomentumMagnitude() *MomentumMagnitude {
	return &MomentumMagnitude{name: "momentum"}
}

func (m *MomentumMagnitude) Name() string { return m.name }

func (m *MomentumMagnitude) Observe(s *nbody.Simulation) {
	px, py, pz := s.Momentum()
	m.max = math.Max(m.max, math.Sqrt(px*px+py*py+pz*pz))
}

func (m *MomentumMagnitude) Value() float64 { return m.max }

func (m *MomentumMagnitude) Reset() { m.max = 0 }
