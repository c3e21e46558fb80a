package nbody

import "errors"

// Configuration errors reported before a run starts.
var (
	ErrNoParticles  = errors.New("nbody: simulation has no particles")
	ErrZeroStep     = errors.New("nbody: step size is zero")
	ErrNoIntegrator = errors.New("nbody: no integrator configured")

	// ErrDiverged indicates particle state went NaN or Inf mid-run.
	ErrDiverged = errors.New("nbody: particle state diverged")
)
