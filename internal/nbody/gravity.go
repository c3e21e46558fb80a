package nbody

import (
	"math"
	"runtime"
	"sync"
)

// DefaultParallelThreshold is the particle count above which Direct switches
// to the goroutine-partitioned path. Below it the symmetric serial loop wins.
const DefaultParallelThreshold = 256

// Direct is the all-pairs gravity solver. The serial path accumulates each
// pair once using Newton's third law; the parallel path recomputes the full
// sum per particle so workers never write to shared slots.
type Direct struct {
	// Workers caps goroutines on the parallel path; 0 means GOMAXPROCS.
	Workers int
	// Threshold overrides DefaultParallelThreshold when positive.
	Threshold int
}

func (d *Direct) UpdateAcceleration(s *Simulation) {
	n := len(s.Particles)
	for i := range s.Particles {
		s.Particles[i].AX = 0
		s.Particles[i].AY = 0
		s.Particles[i].AZ = 0
	}

	threshold := d.Threshold
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	if n >= threshold {
		d.parallel(s)
		return
	}
	d.serial(s)
}

func (d *Direct) serial(s *Simulation) {
	ps := s.Particles
	eps2 := s.Softening * s.Softening

	start := 0
	if s.IgnoreTerms >= 1 {
		start = 1
	}

	for i := start; i < len(ps); i++ {
		for j := i + 1; j < len(ps); j++ {
			dx := ps[j].X - ps[i].X
			dy := ps[j].Y - ps[i].Y
			dz := ps[j].Z - ps[i].Z
			r2 := dx*dx + dy*dy + dz*dz + eps2
			rInv := 1.0 / math.Sqrt(r2)
			r3Inv := rInv * rInv * rInv

			fij := s.G * ps[j].M * r3Inv
			ps[i].AX += fij * dx
			ps[i].AY += fij * dy
			ps[i].AZ += fij * dz

			fji := s.G * ps[i].M * r3Inv
			ps[j].AX -= fji * dx
			ps[j].AY -= fji * dy
			ps[j].AZ -= fji * dz
		}
	}
}

func (d *Direct) parallel(s *Simulation) {
	ps := s.Particles
	n := len(ps)
	eps2 := s.Softening * s.Softening

	skip := -1
	if s.IgnoreTerms >= 1 {
		skip = 0
	}

	workers := d.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := w * chunk
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		if lo >= hi {
			break
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for i := lo; i < hi; i++ {
				if i == skip {
					continue
				}
				var ax, ay, az float64
				for j := 0; j < n; j++ {
					if j == i || j == skip {
						continue
					}
					dx := ps[j].X - ps[i].X
					dy := ps[j].Y - ps[i].Y
					dz := ps[j].Z - ps[i].Z
					r2 := dx*dx + dy*dy + dz*dz + eps2
					rInv := 1.0 / math.Sqrt(r2)
					fij := s.G * ps[j].M * rInv * rInv * rInv
					ax += fij * dx
					ay += fij * dy
					az += fij * dz
				}
				ps[i].AX = ax
				ps[i].AY = ay
				ps[i].AZ = az
			}
		}(lo, hi)
	}
	wg.Wait()
}
