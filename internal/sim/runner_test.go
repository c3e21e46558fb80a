package sim_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
)

func circularBinary() *nbody.Simulation {
	s := nbody.NewSimulation([]nbody.Particle{
		{X: -1, VY: -0.5, M: 1},
		{X: 1, VY: 0.5, M: 1},
	})
	s.Integrator = integrators.NewJanus(0)
	return s
}

var _ = Describe("Runner", func() {
	var (
		runner *sim.Runner
		cfg    sim.Config
	)

	BeforeEach(func() {
		runner = sim.New(circularBinary())
		cfg = sim.Config{Dt: 1e-3, Duration: 0.1}
	})

	It("takes the expected number of steps", func() {
		result, err := runner.Run(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.StepsTaken).To(Equal(100))
		Expect(runner.Simulation().T).To(BeNumerically("~", 0.1, 1e-9))
	})

	It("records an initial snapshot plus one per step by default", func() {
		result, err := runner.Run(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Snapshots).To(HaveLen(101))
		Expect(result.Snapshots[0].Time).To(BeZero())
	})

	It("thins snapshots with SnapshotEvery", func() {
		cfg.SnapshotEvery = 10
		result, err := runner.Run(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Snapshots).To(HaveLen(11))
	})

	It("keeps energy drift negligible for the reversible scheme", func() {
		result, err := runner.Run(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.EnergyDrift).To(BeNumerically("<", 1e-8))
	})

	It("collects registered metrics", func() {
		runner.AddMetric(metrics.NewEnergyDrift())
		result, err := runner.Run(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Metrics).To(HaveKey("energy_drift"))
	})

	It("rejects a zero timestep", func() {
		cfg.Dt = 0
		_, err := runner.Run(context.Background(), cfg)
		Expect(err).To(HaveOccurred())
	})

	It("rejects a simulation without an integrator", func() {
		runner = sim.New(nbody.NewSimulation([]nbody.Particle{{M: 1}}))
		_, err := runner.Run(context.Background(), cfg)
		Expect(err).To(MatchError(nbody.ErrNoIntegrator))
	})

	It("stops early when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		result, err := runner.Run(ctx, cfg)
		Expect(err).To(MatchError(context.Canceled))
		Expect(result.StepsTaken).To(BeZero())
	})

	It("integrates backward with a negative timestep", func() {
		cfg.Dt = -1e-3
		result, err := runner.Run(context.Background(), cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.StepsTaken).To(Equal(100))
		Expect(runner.Simulation().T).To(BeNumerically("~", -0.1, 1e-9))
	})
})

var _ = Describe("Ensemble", func() {
	It("runs members independently and in parallel", func() {
		factory := func(seed int64) *nbody.Simulation {
			s := circularBinary()
			// Perturb one member per seed so results differ.
			s.Particles[0].VY += 1e-6 * float64(seed)
			return s
		}
		ens := sim.NewEnsemble(factory, 4, 0)
		results, err := ens.Run(context.Background(), sim.Config{Dt: 1e-3, Duration: 0.05})
		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(4))

		// Seed 0 is unperturbed; the rest must diverge from it.
		base := results[0].Snapshots[len(results[0].Snapshots)-1].Particles[0]
		for i := 1; i < 4; i++ {
			last := results[i].Snapshots[len(results[i].Snapshots)-1].Particles[0]
			Expect(math.Abs(last.Y - base.Y)).To(BeNumerically(">", 0))
		}
	})
})
