package integrators

import "github.com/san-kum/gravsim/internal/nbody"

// Euler is the semi-implicit (symplectic) Euler integrator: kick with the
// current accelerations, then drift with the updated velocities. First
// order; mostly useful as a baseline in comparisons.
type Euler struct {
	stepDt float64
}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Part1(s *nbody.Simulation) {
	dt := s.Dt
	e.stepDt = dt
	ps := s.Particles

	s.IgnoreTerms = 0
	s.UpdateAcceleration()

	for i := range ps {
		ps[i].VX += dt * ps[i].AX
		ps[i].VY += dt * ps[i].AY
		ps[i].VZ += dt * ps[i].AZ

		ps[i].X += dt * ps[i].VX
		ps[i].Y += dt * ps[i].VY
		ps[i].Z += dt * ps[i].VZ
	}
}

func (e *Euler) Part2(s *nbody.Simulation) {
	s.T += e.stepDt
}

func (e *Euler) Synchronize(s *nbody.Simulation) {}

func (e *Euler) Reset(s *nbody.Simulation) {
	e.stepDt = 0
}
