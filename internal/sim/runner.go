package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/gravsim/internal/nbody"
)

// Metric observes the simulation after each step and reduces to a single
// value at the end of a run.
type Metric interface {
	Name() string
	Observe(s *nbody.Simulation)
	Value() float64
	Reset()
}

// Observer receives a callback after every step.
type Observer interface {
	OnStep(s *nbody.Simulation)
}

type Config struct {
	Dt       float64
	Duration float64
	// SnapshotEvery stores every k-th step; 0 or 1 stores all of them.
	SnapshotEvery int
	ValidateState bool
}

// Snapshot is a copy of the externally visible state after a completed step.
type Snapshot struct {
	Time      float64
	Particles []nbody.Particle
	Energy    float64
}

type Result struct {
	Snapshots   []Snapshot
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Err         error
}

// Runner drives a Simulation for a configured duration, collecting
// snapshots and metrics. Not safe for concurrent use; see Ensemble for
// parallel runs.
type Runner struct {
	sim       *nbody.Simulation
	metrics   []Metric
	observers []Observer
}

func New(s *nbody.Simulation) *Runner {
	return &Runner{sim: s}
}

func (r *Runner) AddMetric(m Metric)     { r.metrics = append(r.metrics, m) }
func (r *Runner) AddObserver(o Observer) { r.observers = append(r.observers, o) }

func (r *Runner) Simulation() *nbody.Simulation { return r.sim }

func (r *Runner) validateConfig(cfg Config) error {
	// Negative dt is legal: the reversible schemes integrate backward.
	if cfg.Dt == 0 {
		return fmt.Errorf("sim: dt must be nonzero")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("sim: duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// Run advances the simulation until cfg.Duration of simulated time has
// elapsed. A diverged state stops the run early with the partial result.
func (r *Runner) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := r.validateConfig(cfg); err != nil {
		return nil, err
	}
	r.sim.Dt = cfg.Dt
	if err := r.sim.Validate(); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / abs(cfg.Dt))
	every := cfg.SnapshotEvery
	if every < 1 {
		every = 1
	}

	result := &Result{
		Snapshots: make([]Snapshot, 0, steps/every+1),
		Metrics:   make(map[string]float64),
	}

	for _, m := range r.metrics {
		m.Reset()
	}

	initialEnergy := r.sim.Energy()
	result.Snapshots = append(result.Snapshots, r.snapshot())

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		r.sim.Step()
		result.StepsTaken++

		for _, m := range r.metrics {
			m.Observe(r.sim)
		}
		for _, obs := range r.observers {
			obs.OnStep(r.sim)
		}

		if cfg.ValidateState && !stateValid(r.sim) {
			result.Err = nbody.ErrDiverged
			break
		}

		if (i+1)%every == 0 {
			result.Snapshots = append(result.Snapshots, r.snapshot())
		}
	}

	if initialEnergy != 0 {
		result.EnergyDrift = abs((r.sim.Energy() - initialEnergy) / initialEnergy)
	}
	for _, m := range r.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (r *Runner) snapshot() Snapshot {
	return Snapshot{
		Time:      r.sim.T,
		Particles: nbody.CloneParticles(r.sim.Particles),
		Energy:    r.sim.Energy(),
	}
}

func stateValid(s *nbody.Simulation) bool {
	for i := range s.Particles {
		if !s.Particles[i].IsValid() {
			return false
		}
	}
	return true
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
