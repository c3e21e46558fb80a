package nbody

import "context"

// Integrator advances a Simulation by one step of size s.Dt. The step is
// split into two phases: Part1 performs the numerical work, Part2 publishes
// the result to the floating-point particle array and advances the clock.
// Synchronize exposes a consistent intermediate state for schemes that keep
// internal coordinates; variants with nothing to synchronize implement it as
// a no-op. Reset drops all internal buffers so the next Part1 starts fresh.
type Integrator interface {
	Part1(s *Simulation)
	Part2(s *Simulation)
	Synchronize(s *Simulation)
	Reset(s *Simulation)
}

// Accelerator computes per-particle accelerations from current positions.
// It must not modify positions or velocities and must be safe to call
// repeatedly within one step.
type Accelerator interface {
	UpdateAcceleration(s *Simulation)
}

// Simulation owns the particle array and the global clock. Fields are
// exported: the caller configures them directly and guarantees they are
// sane before stepping.
type Simulation struct {
	Particles []Particle

	// T is the global simulation time, advanced by Part2.
	T float64
	// Dt is the step size read by Part1 at the start of each step.
	Dt float64

	G         float64
	Softening float64

	// IgnoreTerms is the gravity exclusion mask: 0 means all pairwise terms
	// are active, 1 tells the solver to skip terms involving particle 0.
	// Integrators that need the full force clear it before evaluating.
	IgnoreTerms int

	Integrator Integrator
	Gravity    Accelerator
}

func NewSimulation(particles []Particle) *Simulation {
	return &Simulation{
		Particles: particles,
		Dt:        1e-3,
		G:         1.0,
		Gravity:   &Direct{},
	}
}

func (s *Simulation) N() int { return len(s.Particles) }

// UpdateAcceleration runs the configured gravity solver.
func (s *Simulation) UpdateAcceleration() {
	if s.Gravity == nil {
		s.Gravity = &Direct{}
	}
	s.Gravity.UpdateAcceleration(s)
}

// Step advances the simulation by exactly one step of size Dt.
func (s *Simulation) Step() {
	s.Integrator.Part1(s)
	s.Integrator.Part2(s)
}

// Steps advances the simulation n steps, checking ctx between steps. A step
// once begun always runs to completion.
func (s *Simulation) Steps(ctx context.Context, n int) error {
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		s.Step()
	}
	return nil
}

// Validate reports configuration errors before a run starts. The stepping
// hot path itself has no error returns.
func (s *Simulation) Validate() error {
	if len(s.Particles) == 0 {
		return ErrNoParticles
	}
	if s.Dt == 0 {
		return ErrZeroStep
	}
	if s.Integrator == nil {
		return ErrNoIntegrator
	}
	return nil
}
