package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/gravsim/internal/nbody"
)

// zeroGravity clears all accelerations: every kick is null, so only the
// drift terms move particles.
type zeroGravity struct{}

func (zeroGravity) UpdateAcceleration(s *nbody.Simulation) {
	for i := range s.Particles {
		s.Particles[i].AX = 0
		s.Particles[i].AY = 0
		s.Particles[i].AZ = 0
	}
}

// countingGravity wraps a solver and counts evaluations.
type countingGravity struct {
	inner nbody.Accelerator
	calls int
}

func (c *countingGravity) UpdateAcceleration(s *nbody.Simulation) {
	c.calls++
	c.inner.UpdateAcceleration(s)
}

func TestCompositionCoefficientsSumToOne(t *testing.T) {
	sum := 2*(gamma1+gamma2+gamma3+gamma4) + gamma5
	if math.Abs(sum-1) > 1e-15 {
		t.Errorf("coefficient sum = %.18f, want 1", sum)
	}
}

func TestConversionRoundTripBound(t *testing.T) {
	scales := []float64{1e6, 1e12, 1e16}
	particles := []nbody.Particle{
		{X: 1.2345678901234, Y: -9.87, Z: 0.001, VX: -0.333, VY: 7.77, VZ: -1e-7, M: 1},
		{X: -250.5, Y: 1e-9, Z: 42, VX: 1.5, VY: -2.25, VZ: 0, M: 2},
	}

	for _, scale := range scales {
		buf := make([]particleInt, len(particles))
		out := nbody.CloneParticles(particles)
		toFixed(buf, particles, scale)
		toFloat(out, buf, scale)

		tol := 1.0 / scale
		for i := range particles {
			fields := [][2]float64{
				{particles[i].X, out[i].X}, {particles[i].Y, out[i].Y}, {particles[i].Z, out[i].Z},
				{particles[i].VX, out[i].VX}, {particles[i].VY, out[i].VY}, {particles[i].VZ, out[i].VZ},
			}
			for f, pair := range fields {
				if math.Abs(pair[0]-pair[1]) > tol {
					t.Errorf("scale %g particle %d field %d: |%g - %g| > %g",
						scale, i, f, pair[0], pair[1], tol)
				}
			}
		}
	}
}

func TestZeroForceDriftComposesToFullStep(t *testing.T) {
	s := nbody.NewSimulation([]nbody.Particle{
		{VX: 0.25, VY: -0.125, VZ: 0.0625, M: 1},
	})
	s.Dt = 0.5
	s.Gravity = zeroGravity{}
	j := NewJanus(1e16)
	s.Integrator = j

	s.Step()

	// 18 half-drifts each truncate at most one unit of fixed-point
	// precision, so allow a few tens of 1/S.
	tol := 32 / j.Scale
	wantX := 0.25 * s.Dt
	wantY := -0.125 * s.Dt
	wantZ := 0.0625 * s.Dt
	p := s.Particles[0]
	if math.Abs(p.X-wantX) > tol || math.Abs(p.Y-wantY) > tol || math.Abs(p.Z-wantZ) > tol {
		t.Errorf("position after one step = (%g, %g, %g), want (%g, %g, %g) within %g",
			p.X, p.Y, p.Z, wantX, wantY, wantZ, tol)
	}
	if p.VX != 0.25 || p.VY != -0.125 || p.VZ != 0.0625 {
		t.Errorf("velocity changed under zero force: %+v", p)
	}
}

func TestTimeAdvancementUsesPart1Dt(t *testing.T) {
	s := nbody.NewSimulation([]nbody.Particle{{M: 1}})
	s.Dt = 0.01
	s.Gravity = zeroGravity{}
	j := NewJanus(0)
	s.Integrator = j

	j.Part1(s)
	s.Dt = 99 // changed between phases; Part2 must ignore it
	j.Part2(s)

	if s.T != 0.01 {
		t.Errorf("T = %g, want 0.01", s.T)
	}
}

func TestOneForceEvaluationPerSubStep(t *testing.T) {
	s := nbody.NewSimulation([]nbody.Particle{
		{X: -0.5, M: 1}, {X: 0.5, M: 1},
	})
	s.Dt = 1e-3
	counter := &countingGravity{inner: &nbody.Direct{}}
	s.Gravity = counter
	s.Integrator = NewJanus(0)

	s.Step()

	if counter.calls != 9 {
		t.Errorf("force evaluations per step = %d, want 9", counter.calls)
	}
}

func TestBufferAuthoritativeWithoutResize(t *testing.T) {
	s := nbody.NewSimulation([]nbody.Particle{
		{VX: 0.5, M: 1},
	})
	s.Dt = 0.25
	s.Gravity = zeroGravity{}
	j := NewJanus(1e16)
	s.Integrator = j

	s.Step()
	// Direct float edit with no particle-count change: the fixed-point
	// buffer remains the source of truth and the edit is discarded.
	s.Particles[0].X = 1000
	s.Step()

	want := 0.5 * 0.25 * 2
	if math.Abs(s.Particles[0].X-want) > 64/j.Scale {
		t.Errorf("X = %g, want %g (float edit must not leak into buffer)", s.Particles[0].X, want)
	}
}

func TestReseedOnResize(t *testing.T) {
	s := nbody.NewSimulation([]nbody.Particle{
		{VX: 0.5, M: 1},
		{X: 3, VX: -0.5, M: 1},
	})
	s.Dt = 0.25
	s.Gravity = zeroGravity{}
	j := NewJanus(1e16)
	s.Integrator = j

	s.Step()

	// Drop to one particle and edit its state in float space. The count
	// change must force a full reseed, so the edit is respected and no
	// fixed-point history survives.
	s.Particles = s.Particles[:1]
	s.Particles[0].X = 7
	s.Particles[0].VX = 0.25
	s.Step()

	want := 7 + 0.25*0.25
	if math.Abs(s.Particles[0].X-want) > 64/j.Scale {
		t.Errorf("X after resize = %g, want %g", s.Particles[0].X, want)
	}

	// Grow again: reused slots must seed from current float state, not
	// stale buffer contents.
	s.Particles = append(s.Particles, nbody.Particle{X: -4, VX: 1, M: 1})
	s.Step()
	want1 := -4 + 1*0.25
	if math.Abs(s.Particles[1].X-want1) > 64/j.Scale {
		t.Errorf("new slot X = %g, want %g (stale residue?)", s.Particles[1].X, want1)
	}
}

func TestDeterminism(t *testing.T) {
	initial := []nbody.Particle{
		{X: -0.97000436, Y: 0.24308753, VX: 0.466203685, VY: 0.43236573, M: 1},
		{X: 0.97000436, Y: -0.24308753, VX: 0.466203685, VY: 0.43236573, M: 1},
		{VX: -0.93240737, VY: -0.86473146, M: 1},
	}

	run := func() []nbody.Particle {
		s := nbody.NewSimulation(nbody.CloneParticles(initial))
		s.Dt = 1e-3
		s.Integrator = NewJanus(1e16)
		for i := 0; i < 50; i++ {
			s.Step()
		}
		return s.Particles
	}

	a, b := run(), run()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("particle %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestResetClearsState(t *testing.T) {
	s := nbody.NewSimulation([]nbody.Particle{{VX: 1, M: 1}})
	s.Dt = 0.125
	s.Gravity = zeroGravity{}
	j := NewJanus(1e16)
	s.Integrator = j

	s.Step()
	j.Reset(s)

	if j.allocatedN != 0 || j.pCurr != nil {
		t.Fatalf("reset left bookkeeping: allocatedN=%d buffer=%v", j.allocatedN, j.pCurr != nil)
	}

	// Next Part1 must behave like a first-ever call: float state seeds
	// the buffer.
	s.Particles[0].X = 5
	s.T = 0
	s.Step()
	want := 5 + 1*0.125
	if math.Abs(s.Particles[0].X-want) > 64/j.Scale {
		t.Errorf("X after reset+step = %g, want %g", s.Particles[0].X, want)
	}
}

func TestSynchronizeIsNoOp(t *testing.T) {
	s := nbody.NewSimulation([]nbody.Particle{{VX: 1, M: 1}})
	s.Dt = 0.125
	s.Gravity = zeroGravity{}
	j := NewJanus(1e16)
	s.Integrator = j

	j.Part1(s)
	before := nbody.CloneParticles(s.Particles)
	tBefore := s.T
	j.Synchronize(s)
	for i := range before {
		if s.Particles[i] != before[i] {
			t.Errorf("Synchronize mutated particle %d", i)
		}
	}
	if s.T != tBefore {
		t.Errorf("Synchronize advanced the clock")
	}
	j.Part2(s)
}

func TestBitReversibility(t *testing.T) {
	s := nbody.NewSimulation([]nbody.Particle{
		{X: -0.97000436, Y: 0.24308753, VX: 0.466203685, VY: 0.43236573, M: 1},
		{X: 0.97000436, Y: -0.24308753, VX: 0.466203685, VY: 0.43236573, M: 1},
		{VX: -0.93240737, VY: -0.86473146, M: 1},
	})
	s.Dt = 1e-3
	j := NewJanus(1e16)
	s.Integrator = j

	const steps = 100
	for i := 0; i < steps; i++ {
		s.Step()
	}
	seed := make([]particleInt, len(j.pCurr))

	// Integrate backward: truncation toward zero makes each increment an
	// exact negation of its forward counterpart, so the fixed-point words
	// must return to their seeded values bit for bit.
	s.Dt = -1e-3
	for i := 0; i < steps; i++ {
		s.Step()
	}

	fresh := nbody.NewSimulation([]nbody.Particle{
		{X: -0.97000436, Y: 0.24308753, VX: 0.466203685, VY: 0.43236573, M: 1},
		{X: 0.97000436, Y: -0.24308753, VX: 0.466203685, VY: 0.43236573, M: 1},
		{VX: -0.93240737, VY: -0.86473146, M: 1},
	})
	toFixed(seed, fresh.Particles, j.Scale)

	for i := range seed {
		if j.pCurr[i] != seed[i] {
			t.Errorf("particle %d fixed-point words differ after round trip:\n got %+v\nwant %+v",
				i, j.pCurr[i], seed[i])
		}
	}
	if math.Abs(s.T) > 1e-12 {
		t.Errorf("clock after round trip = %g, want 0", s.T)
	}
}

func TestJanusEnergyStability(t *testing.T) {
	// Figure-eight three-body choreography: a long run should show no
	// secular energy drift.
	s := nbody.NewSimulation([]nbody.Particle{
		{X: -0.97000436, Y: 0.24308753, VX: 0.466203685, VY: 0.43236573, M: 1},
		{X: 0.97000436, Y: -0.24308753, VX: 0.466203685, VY: 0.43236573, M: 1},
		{VX: -0.93240737, VY: -0.86473146, M: 1},
	})
	s.Dt = 1e-3
	s.Integrator = NewJanus(1e16)

	e0 := s.Energy()
	for i := 0; i < 2000; i++ {
		s.Step()
	}
	drift := math.Abs((s.Energy() - e0) / e0)
	if drift > 1e-6 {
		t.Errorf("relative energy drift = %g, want < 1e-6", drift)
	}
}
