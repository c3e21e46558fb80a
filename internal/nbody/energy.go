package nbody

import "math"

// Energy returns the total mechanical energy, kinetic plus softened
// gravitational potential. For a well-behaved symplectic run this should
// oscillate around its initial value without secular drift.
func (s *Simulation) Energy() float64 {
	ps := s.Particles
	eps2 := s.Softening * s.Softening

	var ke, pe float64
	for i := range ps {
		v2 := ps[i].VX*ps[i].VX + ps[i].VY*ps[i].VY + ps[i].VZ*ps[i].VZ
		ke += 0.5 * ps[i].M * v2

		for j := i + 1; j < len(ps); j++ {
			dx := ps[j].X - ps[i].X
			dy := ps[j].Y - ps[i].Y
			dz := ps[j].Z - ps[i].Z
			r := math.Sqrt(dx*dx + dy*dy + dz*dz + eps2)
			pe -= s.G * ps[i].M * ps[j].M / r
		}
	}
	return ke + pe
}

// Momentum returns the total linear momentum vector.
func (s *Simulation) Momentum() (px, py, pz float64) {
	for i := range s.Particles {
		p := &s.Particles[i]
		px += p.M * p.VX
		py += p.M * p.VY
		pz += p.M * p.VZ
	}
	return
}

// AngularMomentum returns the total angular momentum vector about the origin.
func (s *Simulation) AngularMomentum() (lx, ly, lz float64) {
	for i := range s.Particles {
		p := &s.Particles[i]
		lx += p.M * (p.Y*p.VZ - p.Z*p.VY)
		ly += p.M * (p.Z*p.VX - p.X*p.VZ)
		lz += p.M * (p.X*p.VY - p.Y*p.VX)
	}
	return
}

// CenterOfMass returns the mass-weighted mean position.
func (s *Simulation) CenterOfMass() (x, y, z float64) {
	var m float64
	for i := range s.Particles {
		p := &s.Particles[i]
		x += p.M * p.X
		y += p.M * p.Y
		z += p.M * p.Z
		m += p.M
	}
	if m == 0 {
		return 0, 0, 0
	}
	return x / m, y / m, z / m
}
