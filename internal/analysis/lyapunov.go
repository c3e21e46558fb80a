// Package analysis provides chaos diagnostics for n-body trajectories.
package analysis

import (
	"math"

	"github.com/san-kum/gravsim/internal/nbody"
)

// LyapunovExponent estimates the largest Lyapunov exponent of a system by
// the twin-trajectory method: integrate the reference simulation and a copy
// whose first body is displaced by perturbation, track the phase-space
// separation, and renormalize whenever it grows past unity. A positive
// value indicates sensitive dependence on initial conditions.
//
// Both simulations must use independent integrator instances; the factory
// argument builds one per trajectory.
func LyapunovExponent(
	particles []nbody.Particle,
	newIntegrator func() nbody.Integrator,
	dt, duration, perturbation float64,
) float64 {
	if len(particles) == 0 || dt == 0 || perturbation <= 0 {
		return 0
	}

	ref := nbody.NewSimulation(nbody.CloneParticles(particles))
	ref.Dt = dt
	ref.Integrator = newIntegrator()

	twin := nbody.NewSimulation(nbody.CloneParticles(particles))
	twin.Dt = dt
	twin.Integrator = newIntegrator()
	twin.Particles[0].X += perturbation

	d0 := perturbation
	steps := int(duration / math.Abs(dt))

	sumLog := 0.0
	count := 0

	for i := 0; i < steps; i++ {
		ref.Step()
		twin.Step()

		sep := separation(ref.Particles, twin.Particles)
		if sep > 0 {
			sumLog += math.Log(sep / d0)
			count++
		}

		// Renormalize the twin back to distance d0 along the current
		// separation vector so the estimate does not saturate.
		if sep > 1.0 {
			renormalize(ref, twin, d0/sep)
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * math.Abs(dt))
}

// separation is the Euclidean distance between the two phase-space points
// (positions and velocities of every body).
func separation(a, b []nbody.Particle) float64 {
	var sum float64
	for i := range a {
		for _, d := range [...]float64{
			b[i].X - a[i].X, b[i].Y - a[i].Y, b[i].Z - a[i].Z,
			b[i].VX - a[i].VX, b[i].VY - a[i].VY, b[i].VZ - a[i].VZ,
		} {
			sum += d * d
		}
	}
	return math.Sqrt(sum)
}

func renormalize(ref, twin *nbody.Simulation, scale float64) {
	for i := range twin.Particles {
		r, w := &ref.Particles[i], &twin.Particles[i]
		w.X = r.X + (w.X-r.X)*scale
		w.Y = r.Y + (w.Y-r.Y)*scale
		w.Z = r.Z + (w.Z-r.Z)*scale
		w.VX = r.VX + (w.VX-r.VX)*scale
		w.VY = r.VY + (w.VY-r.VY)*scale
		w.VZ = r.VZ + (w.VZ-r.VZ)*scale
	}
	// Rescaling the twin invalidates any integrator-internal coordinates.
	twin.Integrator.Reset(twin)
}
