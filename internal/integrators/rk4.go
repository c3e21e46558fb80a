package integrators

import "github.com/san-kum/gravsim/internal/nbody"

// deriv is the phase-space derivative of one particle: position changes at
// the velocity, velocity changes at the acceleration.
type deriv struct {
	dx, dy, dz    float64
	dvx, dvy, dvz float64
}

// RK4 is the classic 4th-order Runge-Kutta integrator. Not symplectic:
// energy drifts secularly on orbital problems, which makes it a useful foil
// for the reversible schemes in comparisons. Four force evaluations per step.
type RK4 struct {
	k1, k2, k3, k4 []deriv
	saved          []nbody.Particle
	stepDt         float64
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) ensure(n int) {
	if len(r.k1) != n {
		r.k1 = make([]deriv, n)
		r.k2 = make([]deriv, n)
		r.k3 = make([]deriv, n)
		r.k4 = make([]deriv, n)
		r.saved = make([]nbody.Particle, n)
	}
}

// eval fills k with the derivative at the simulation's current positions
// and velocities.
func (r *RK4) eval(s *nbody.Simulation, k []deriv) {
	s.UpdateAcceleration()
	for i := range s.Particles {
		p := &s.Particles[i]
		k[i] = deriv{p.VX, p.VY, p.VZ, p.AX, p.AY, p.AZ}
	}
}

// setStage positions the particles at saved + h*k for the next evaluation.
func (r *RK4) setStage(s *nbody.Simulation, k []deriv, h float64) {
	for i := range s.Particles {
		p := &s.Particles[i]
		p.X = r.saved[i].X + h*k[i].dx
		p.Y = r.saved[i].Y + h*k[i].dy
		p.Z = r.saved[i].Z + h*k[i].dz
		p.VX = r.saved[i].VX + h*k[i].dvx
		p.VY = r.saved[i].VY + h*k[i].dvy
		p.VZ = r.saved[i].VZ + h*k[i].dvz
	}
}

func (r *RK4) Part1(s *nbody.Simulation) {
	dt := s.Dt
	r.stepDt = dt
	n := s.N()
	r.ensure(n)
	copy(r.saved, s.Particles)

	s.IgnoreTerms = 0

	r.eval(s, r.k1)
	r.setStage(s, r.k1, dt/2)
	r.eval(s, r.k2)
	r.setStage(s, r.k2, dt/2)
	r.eval(s, r.k3)
	r.setStage(s, r.k3, dt)
	r.eval(s, r.k4)

	sixth := dt / 6.
	for i := range s.Particles {
		p := &s.Particles[i]
		p.X = r.saved[i].X + sixth*(r.k1[i].dx+2*r.k2[i].dx+2*r.k3[i].dx+r.k4[i].dx)
		p.Y = r.saved[i].Y + sixth*(r.k1[i].dy+2*r.k2[i].dy+2*r.k3[i].dy+r.k4[i].dy)
		p.Z = r.saved[i].Z + sixth*(r.k1[i].dz+2*r.k2[i].dz+2*r.k3[i].dz+r.k4[i].dz)
		p.VX = r.saved[i].VX + sixth*(r.k1[i].dvx+2*r.k2[i].dvx+2*r.k3[i].dvx+r.k4[i].dvx)
		p.VY = r.saved[i].VY + sixth*(r.k1[i].dvy+2*r.k2[i].dvy+2*r.k3[i].dvy+r.k4[i].dvy)
		p.VZ = r.saved[i].VZ + sixth*(r.k1[i].dvz+2*r.k2[i].dvz+2*r.k3[i].dvz+r.k4[i].dvz)
	}
}

func (r *RK4) Part2(s *nbody.Simulation) {
	s.T += r.stepDt
}

func (r *RK4) Synchronize(s *nbody.Simulation) {}

func (r *RK4) Reset(s *nbody.Simulation) {
	r.k1, r.k2, r.k3, r.k4 = nil, nil, nil, nil
	r.saved = nil
}
