package integrators

import "github.com/san-kum/gravsim/internal/nbody"

// Leapfrog is the plain floating-point drift-kick-drift integrator, 2nd
// order and symplectic. It shares the Janus sub-step structure but works
// directly on the float64 particle array, so it accumulates the usual
// round-off drift over long runs.
type Leapfrog struct {
	stepDt float64
}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Part1(s *nbody.Simulation) {
	dt := s.Dt
	l.stepDt = dt
	ps := s.Particles

	for i := range ps {
		ps[i].X += dt / 2. * ps[i].VX
		ps[i].Y += dt / 2. * ps[i].VY
		ps[i].Z += dt / 2. * ps[i].VZ
	}

	s.IgnoreTerms = 0
	s.UpdateAcceleration()

	for i := range ps {
		ps[i].VX += dt * ps[i].AX
		ps[i].VY += dt * ps[i].AY
		ps[i].VZ += dt * ps[i].AZ
	}

	for i := range ps {
		ps[i].X += dt / 2. * ps[i].VX
		ps[i].Y += dt / 2. * ps[i].VY
		ps[i].Z += dt / 2. * ps[i].VZ
	}
}

func (l *Leapfrog) Part2(s *nbody.Simulation) {
	s.T += l.stepDt
}

func (l *Leapfrog) Synchronize(s *nbody.Simulation) {}

func (l *Leapfrog) Reset(s *nbody.Simulation) {
	l.stepDt = 0
}
