// Package nbody provides the core primitives for gravitational N-body
// simulation.
//
// The package defines the simulation state and the interfaces the rest of
// the lab plugs into:
//
//   - [Particle]: a point mass with floating-point phase-space coordinates
//   - [Simulation]: particle array, global clock and step size
//   - [Integrator]: the part1/part2 stepping contract
//   - [Accelerator]: the gravity solver contract
//
// # Example
//
//	s := nbody.NewSimulation(particles)
//	s.Dt = 1e-3
//	s.Integrator = integrators.NewJanus(1e16)
//	s.Step()
//
// # Thread Safety
//
// A Simulation is NOT safe for concurrent use. The integrator mutates the
// particle array and its own buffers in place with no locking; a gravity
// solver may parallelize internally, but each Step runs to completion before
// the next begins.
package nbody
