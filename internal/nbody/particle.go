package nbody

import "math"

// Particle is a point mass. Positions, velocities and accelerations are
// plain float64; the reversible integrator keeps its own higher-precision
// copy and treats these fields as the externally visible view.
type Particle struct {
	X, Y, Z    float64
	VX, VY, VZ float64
	AX, AY, AZ float64
	M          float64
}

func (p Particle) Speed() float64 {
	return math.Sqrt(p.VX*p.VX + p.VY*p.VY + p.VZ*p.VZ)
}

func (p Particle) DistanceTo(q Particle) float64 {
	dx, dy, dz := q.X-p.X, q.Y-p.Y, q.Z-p.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

func (p Particle) IsValid() bool {
	for _, v := range [...]float64{p.X, p.Y, p.Z, p.VX, p.VY, p.VZ} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// CloneParticles returns an independent copy of a particle slice.
func CloneParticles(ps []Particle) []Particle {
	c := make([]Particle, len(ps))
	copy(c, ps)
	return c
}
