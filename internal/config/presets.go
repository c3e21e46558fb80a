package config

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/san-kum/gravsim/internal/nbody"
)

// builders maps system names to initial-condition constructors. All
// systems use G=1 units and start in (or near) the center-of-mass frame.
var builders = map[string]func(n int, seed int64) []nbody.Particle{
	"figure-eight": figureEight,
	"binary":       equalMassBinary,
	"cluster":      randomCluster,
	"solar":        solarGiants,
}

func ListSystems() []string {
	names := make([]string, 0, len(builders))
	for name := range builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// BuildParticles constructs the named system. n and seed only affect the
// systems that use them ("cluster").
func BuildParticles(system string, n int, seed int64) ([]nbody.Particle, error) {
	b, ok := builders[system]
	if !ok {
		return nil, fmt.Errorf("config: unknown system %q (available: %v)", system, ListSystems())
	}
	return b(n, seed), nil
}

// figureEight is the equal-mass three-body choreography of Chenciner and
// Montgomery: all three bodies chase each other around one figure-eight
// curve.
func figureEight(n int, seed int64) []nbody.Particle {
	return []nbody.Particle{
		{X: -0.97000436, Y: 0.24308753, VX: 0.466203685, VY: 0.43236573, M: 1},
		{X: 0.97000436, Y: -0.24308753, VX: 0.466203685, VY: 0.43236573, M: 1},
		{VX: -0.93240737, VY: -0.86473146, M: 1},
	}
}

// equalMassBinary is two unit masses on a circular orbit of separation 2.
func equalMassBinary(n int, seed int64) []nbody.Particle {
	return []nbody.Particle{
		{X: -1, VY: -0.5, M: 1},
		{X: 1, VY: 0.5, M: 1},
	}
}

// randomCluster is n bodies in a thin rotating disk around a central mass,
// each on an approximately circular orbit.
func randomCluster(n int, seed int64) []nbody.Particle {
	if n < 2 {
		n = DefaultBodies
	}
	rng := rand.New(rand.NewSource(seed))

	const central = 1.0
	ps := make([]nbody.Particle, 0, n)
	ps = append(ps, nbody.Particle{M: central})

	for i := 1; i < n; i++ {
		r := 1.0 + 4.0*rng.Float64()
		theta := rng.Float64() * 2 * math.Pi
		v := math.Sqrt(central / r)
		ps = append(ps, nbody.Particle{
			X:  r * math.Cos(theta),
			Y:  r * math.Sin(theta),
			Z:  0.05 * rng.NormFloat64(),
			VX: -v * math.Sin(theta),
			VY: v * math.Cos(theta),
			M:  1e-5,
		})
	}
	return ps
}

// solarGiants is the Sun and the four giant planets on circular coplanar
// orbits: masses in solar masses, distances in AU.
func solarGiants(n int, seed int64) []nbody.Particle {
	planets := []struct {
		r, m float64
	}{
		{5.20, 9.55e-4},  // Jupiter
		{9.58, 2.86e-4},  // Saturn
		{19.2, 4.37e-5},  // Uranus
		{30.1, 5.15e-5},  // Neptune
	}

	ps := make([]nbody.Particle, 0, len(planets)+1)
	ps = append(ps, nbody.Particle{M: 1})
	for i, pl := range planets {
		// stagger phases so the planets don't start in conjunction
		phase := float64(i) * math.Pi / 3
		v := math.Sqrt(1 / pl.r)
		ps = append(ps, nbody.Particle{
			X:  pl.r * math.Cos(phase),
			Y:  pl.r * math.Sin(phase),
			VX: -v * math.Sin(phase),
			VY: v * math.Cos(phase),
			M:  pl.m,
		})
	}
	return ps
}
