package integrators

import (
	"github.com/san-kum/gravsim/internal/fixedpoint"
	"github.com/san-kum/gravsim/internal/nbody"
)

// Coefficients of the 9-stage symmetric composition. The schedule is
// palindromic, gamma1..gamma5..gamma1, and satisfies
// 2*(gamma1+gamma2+gamma3+gamma4) + gamma5 = 1, which makes the composed
// map 4th-order accurate and time-symmetric.
const (
	gamma1 = 0.39216144400731413928
	gamma2 = 0.33259913678935943860
	gamma3 = -0.70624617255763935981
	gamma4 = 0.082213596293550800230
	gamma5 = 0.79854399093482996340
)

// DefaultScale is the fixed-point multiplier used when none is configured.
// At 1e16 a position of order 10 still leaves ~60 bits of headroom in the
// 128-bit words.
const DefaultScale = 1e16

// particleInt is the fixed-point image of one particle: each field holds
// the real value times the scale factor, truncated to a 128-bit integer.
type particleInt struct {
	x, y, z    fixedpoint.Int128
	vx, vy, vz fixedpoint.Int128
}

// Janus is a bit-reversible high-order symplectic integrator. Phase-space
// state lives in a fixed-point buffer that is only ever updated by exact
// integer addition of truncated increments, so repeated stepping accumulates
// no floating-point rounding error; the float64 particle array is a lossy
// readout refreshed by Part2. The buffer, not the particle array, is the
// source of truth between steps.
type Janus struct {
	// Scale is the fixed-point multiplier S. Larger values reduce the
	// truncation error per operation but shrink the representable
	// position/velocity range before the 128-bit words overflow.
	Scale float64

	allocatedN int
	pCurr      []particleInt
	stepDt     float64
}

// NewJanus returns a Janus integrator with the given scale factor;
// scale <= 0 selects DefaultScale.
func NewJanus(scale float64) *Janus {
	if scale <= 0 {
		scale = DefaultScale
	}
	return &Janus{Scale: scale}
}

func toFixed(dst []particleInt, ps []nbody.Particle, scale float64) {
	for i := range ps {
		dst[i].x = fixedpoint.FromFloat64(ps[i].X * scale)
		dst[i].y = fixedpoint.FromFloat64(ps[i].Y * scale)
		dst[i].z = fixedpoint.FromFloat64(ps[i].Z * scale)
		dst[i].vx = fixedpoint.FromFloat64(ps[i].VX * scale)
		dst[i].vy = fixedpoint.FromFloat64(ps[i].VY * scale)
		dst[i].vz = fixedpoint.FromFloat64(ps[i].VZ * scale)
	}
}

func toFloat(ps []nbody.Particle, src []particleInt, scale float64) {
	for i := range src {
		ps[i].X = src[i].x.Float64() / scale
		ps[i].Y = src[i].y.Float64() / scale
		ps[i].Z = src[i].z.Float64() / scale
		ps[i].VX = src[i].vx.Float64() / scale
		ps[i].VY = src[i].vy.Float64() / scale
		ps[i].VZ = src[i].vz.Float64() / scale
	}
}

// leapfrog applies one symmetric drift-kick-drift sub-step of size dt with
// exactly one force evaluation. The velocity words already carry the scale
// factor, so dt/2 times their numeric value is the position increment in
// scaled units; the kick reapplies the scale explicitly to the float64
// accelerations.
func (j *Janus) leapfrog(s *nbody.Simulation, dt float64) {
	n := s.N()

	for i := 0; i < n; i++ {
		p := &j.pCurr[i]
		p.x = p.x.Add(fixedpoint.FromFloat64(dt / 2. * p.vx.Float64()))
		p.y = p.y.Add(fixedpoint.FromFloat64(dt / 2. * p.vy.Float64()))
		p.z = p.z.Add(fixedpoint.FromFloat64(dt / 2. * p.vz.Float64()))
	}

	s.IgnoreTerms = 0
	toFloat(s.Particles, j.pCurr, j.Scale)
	s.UpdateAcceleration()

	for i := 0; i < n; i++ {
		p := &j.pCurr[i]
		p.vx = p.vx.Add(fixedpoint.FromFloat64(j.Scale * dt * s.Particles[i].AX))
		p.vy = p.vy.Add(fixedpoint.FromFloat64(j.Scale * dt * s.Particles[i].AY))
		p.vz = p.vz.Add(fixedpoint.FromFloat64(j.Scale * dt * s.Particles[i].AZ))
	}

	for i := 0; i < n; i++ {
		p := &j.pCurr[i]
		p.x = p.x.Add(fixedpoint.FromFloat64(dt / 2. * p.vx.Float64()))
		p.y = p.y.Add(fixedpoint.FromFloat64(dt / 2. * p.vy.Float64()))
		p.z = p.z.Add(fixedpoint.FromFloat64(dt / 2. * p.vz.Float64()))
	}
}

// Part1 runs the nine composed sub-steps on the fixed-point buffer. If the
// particle count changed since the last step, the buffer is reallocated and
// reseeded wholesale from the current floating-point state; otherwise any
// direct edits to the particle array since the last Part2 are ignored.
func (j *Janus) Part1(s *nbody.Simulation) {
	s.IgnoreTerms = 0
	n := s.N()
	if j.allocatedN != n {
		j.allocatedN = n
		j.pCurr = make([]particleInt, n)
		toFixed(j.pCurr, s.Particles, j.Scale)
	}

	dt := s.Dt
	j.stepDt = dt

	j.leapfrog(s, gamma1*dt)
	j.leapfrog(s, gamma2*dt)
	j.leapfrog(s, gamma3*dt)
	j.leapfrog(s, gamma4*dt)
	j.leapfrog(s, gamma5*dt)
	j.leapfrog(s, gamma4*dt)
	j.leapfrog(s, gamma3*dt)
	j.leapfrog(s, gamma2*dt)
	j.leapfrog(s, gamma1*dt)
}

// Part2 publishes the completed step to the floating-point particle array
// and advances the clock by the dt captured in Part1, regardless of any
// change to s.Dt in between.
func (j *Janus) Part2(s *nbody.Simulation) {
	toFloat(s.Particles, j.pCurr, j.Scale)
	s.T += j.stepDt
}

// Synchronize is a no-op: the scheme has no intermediate state between
// Part1 and Part2 worth exposing. It exists for parity with the other
// integrator variants.
func (j *Janus) Synchronize(s *nbody.Simulation) {}

// Reset frees the fixed-point buffer and forces a full reseed on the next
// Part1.
func (j *Janus) Reset(s *nbody.Simulation) {
	j.allocatedN = 0
	j.pCurr = nil
}
