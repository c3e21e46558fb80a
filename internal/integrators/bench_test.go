package integrators

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/gravsim/internal/nbody"
)

func randomCluster(n int, seed int64) []nbody.Particle {
	rng := rand.New(rand.NewSource(seed))
	ps := make([]nbody.Particle, n)
	for i := range ps {
		r := rng.Float64()
		theta := rng.Float64() * 2 * math.Pi
		ps[i] = nbody.Particle{
			X:  r * math.Cos(theta),
			Y:  r * math.Sin(theta),
			Z:  0.1 * rng.NormFloat64(),
			VX: 0.1 * rng.NormFloat64(),
			VY: 0.1 * rng.NormFloat64(),
			M:  1.0 / float64(n),
		}
	}
	return ps
}

func benchStep(b *testing.B, integ nbody.Integrator, n int) {
	s := nbody.NewSimulation(randomCluster(n, 42))
	s.Dt = 1e-3
	s.Softening = 0.01
	s.Integrator = integ

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Step()
	}
}

func BenchmarkJanusStep64(b *testing.B)    { benchStep(b, NewJanus(0), 64) }
func BenchmarkJanusStep256(b *testing.B)   { benchStep(b, NewJanus(0), 256) }
func BenchmarkLeapfrogStep64(b *testing.B) { benchStep(b, NewLeapfrog(), 64) }
func BenchmarkRK4Step64(b *testing.B)      { benchStep(b, NewRK4(), 64) }
