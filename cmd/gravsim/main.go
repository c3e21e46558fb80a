package main

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/gravsim/internal/analysis"
	"github.com/san-kum/gravsim/internal/config"
	"github.com/san-kum/gravsim/internal/export"
	"github.com/san-kum/gravsim/internal/integrators"
	"github.com/san-kum/gravsim/internal/metrics"
	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
	"github.com/san-kum/gravsim/internal/storage"
	"github.com/san-kum/gravsim/internal/viz"
)

var (
	dataDir       string
	dt            float64
	duration      float64
	seed          int64
	integrator    string
	scale         float64
	gravConst     float64
	softening     float64
	numBodies     int
	snapshotEvery int
	configFile    string
	stepsPerFrame int
	perturbation  float64
	svgWidth      int
	svgHeight     int
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gravsim",
		Short: "reversible n-body gravity lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".gravsim", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [system]",
		Short: "run simulation",
		Args:  cobra.ExactArgs(1),
		RunE:  runSimulation,
	}
	addSimFlags(runCmd)
	runCmd.Flags().IntVar(&snapshotEvery, "snapshot-every", 1, "record every k-th step")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run energy and trajectories",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run snapshots to csv on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	benchCmd := &cobra.Command{
		Use:   "bench [system]",
		Short: "benchmark integrators on a system",
		Args:  cobra.ExactArgs(1),
		RunE:  benchSystem,
	}
	benchCmd.Flags().IntVar(&numBodies, "bodies", 64, "number of bodies (cluster)")
	benchCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")

	liveCmd := &cobra.Command{
		Use:   "live [system]",
		Short: "run simulation with live visualization",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	addSimFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerFrame, "steps-per-frame", 10, "integration steps per rendered frame")

	compareCmd := &cobra.Command{
		Use:   "compare [system] [integrator1] [integrator2] ...",
		Short: "compare integrators on the same system",
		Args:  cobra.MinimumNArgs(2),
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	compareCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	compareCmd.Flags().IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies (cluster)")
	compareCmd.Flags().Int64Var(&seed, "seed", 42, "random seed")
	compareCmd.Flags().Float64Var(&scale, "scale", config.DefaultScale, "fixed-point scale")

	chaosCmd := &cobra.Command{
		Use:   "chaos [system]",
		Short: "estimate the largest lyapunov exponent",
		Args:  cobra.ExactArgs(1),
		RunE:  chaosEstimate,
	}
	addSimFlags(chaosCmd)
	chaosCmd.Flags().Float64Var(&perturbation, "perturbation", 1e-8, "initial trajectory separation")

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "render run trajectories as svg on stdout",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 600, "image height")

	systemsCmd := &cobra.Command{
		Use:   "systems",
		Short: "list available initial-condition systems",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListSystems() {
				fmt.Println(name)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportSVGCmd, benchCmd, liveCmd, compareCmd, chaosCmd, systemsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addSimFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep (negative integrates backward)")
	cmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	cmd.Flags().Int64Var(&seed, "seed", time.Now().UnixNano(), "random seed")
	cmd.Flags().StringVar(&integrator, "integrator", "janus", "integrator (janus, leapfrog, euler, rk4)")
	cmd.Flags().Float64Var(&scale, "scale", config.DefaultScale, "fixed-point scale (janus)")
	cmd.Flags().Float64Var(&gravConst, "G", config.DefaultG, "gravitational constant")
	cmd.Flags().Float64Var(&softening, "softening", config.DefaultSoftening, "gravitational softening length")
	cmd.Flags().IntVar(&numBodies, "bodies", config.DefaultBodies, "number of bodies (cluster)")
}

func newIntegrator(name string, scale float64) (nbody.Integrator, error) {
	switch name {
	case "janus":
		return integrators.NewJanus(scale), nil
	case "leapfrog":
		return integrators.NewLeapfrog(), nil
	case "euler":
		return integrators.NewEuler(), nil
	case "rk4":
		return integrators.NewRK4(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s (available: janus, leapfrog, euler, rk4)", name)
	}
}

func buildSimulation(system string) (*nbody.Simulation, error) {
	particles, err := config.BuildParticles(system, numBodies, seed)
	if err != nil {
		return nil, err
	}
	integ, err := newIntegrator(integrator, scale)
	if err != nil {
		return nil, err
	}

	s := nbody.NewSimulation(particles)
	s.Dt = dt
	s.G = gravConst
	s.Softening = softening
	s.Integrator = integ
	return s, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	system := args[0]

	// Config file fills in anything the CLI flags did not set.
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if !cmd.Flags().Changed("dt") {
			dt = cfg.Dt
		}
		if !cmd.Flags().Changed("time") {
			duration = cfg.Duration
		}
		if !cmd.Flags().Changed("integrator") {
			integrator = cfg.Integrator
		}
		if !cmd.Flags().Changed("scale") {
			scale = cfg.Scale
		}
		if !cmd.Flags().Changed("G") {
			gravConst = cfg.G
		}
		if !cmd.Flags().Changed("softening") {
			softening = cfg.Softening
		}
		if !cmd.Flags().Changed("bodies") {
			numBodies = cfg.NumBodies
		}
		if !cmd.Flags().Changed("snapshot-every") {
			snapshotEvery = cfg.SnapshotEvery
		}
		if cfg.Seed != 0 && !cmd.Flags().Changed("seed") {
			seed = cfg.Seed
		}
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	s, err := buildSimulation(system)
	if err != nil {
		return err
	}

	runner := sim.New(s)
	runner.AddMetric(metrics.NewEnergyDrift())
	runner.AddMetric(metrics.NewAngularMomentumDrift())
	runner.AddMetric(metrics.NewMomentumMagnitude())

	fmt.Printf("running %s with %s (%d bodies)...\n", system, integrator, s.N())
	start := time.Now()

	result, err := runner.Run(context.Background(), sim.Config{
		Dt:            dt,
		Duration:      duration,
		SnapshotEvery: snapshotEvery,
		ValidateState: true,
	})
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		System:     system,
		Seed:       seed,
		Dt:         dt,
		Duration:   duration,
		Integrator: integrator,
		Scale:      scale,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if result.Err != nil {
		fmt.Printf("stopped early: %v\n", result.Err)
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6e\n", name, val)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSYSTEM\tTIME\tBODIES\tDURATION\tDT\tINTEG")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\t%.4g\t%s\n",
			run.ID,
			run.System,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Bodies,
			run.Duration,
			run.Dt,
			run.Integrator,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	times, energies, rows, err := st.LoadSnapshots(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("system: %s\n", meta.System)
	fmt.Printf("samples: %d\n\n", len(times))

	graph := asciigraph.Plot(energies,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption("total energy"),
	)
	fmt.Println(graph)
	fmt.Println()

	// x-coordinate of each of the first few bodies over time
	maxPlots := 4
	if meta.Bodies < maxPlots {
		maxPlots = meta.Bodies
	}
	for b := 0; b < maxPlots; b++ {
		data := make([]float64, len(rows))
		for i := range rows {
			if b*6 < len(rows[i]) {
				data[i] = rows[i][b*6]
			}
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("x of body %d", b)),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func exportCSV(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	times, energies, rows, err := st.LoadSnapshots(runID)
	if err != nil {
		return err
	}
	if len(times) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "energy"}
	for i := 0; i < len(rows[0])/6; i++ {
		for _, f := range [...]string{"x", "y", "z", "vx", "vy", "vz"} {
			header = append(header, fmt.Sprintf("%s%d", f, i))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for i := range times {
		row := []string{
			strconv.FormatFloat(times[i], 'g', -1, 64),
			strconv.FormatFloat(energies[i], 'g', -1, 64),
		}
		for _, v := range rows[i] {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func benchSystem(cmd *cobra.Command, args []string) error {
	system := args[0]

	durations := []float64{1.0, 5.0}
	dts := []float64{1e-3, 1e-2}
	names := []string{"janus", "leapfrog", "rk4"}

	fmt.Printf("benchmarking %s\n\n", system)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEG\tDURATION\tDT\tSTEPS\tTIME\tSTEPS/SEC")

	for _, name := range names {
		for _, dur := range durations {
			for _, stepSize := range dts {
				particles, err := config.BuildParticles(system, numBodies, seed)
				if err != nil {
					return err
				}
				integ, err := newIntegrator(name, config.DefaultScale)
				if err != nil {
					return err
				}
				s := nbody.NewSimulation(particles)
				s.Dt = stepSize
				s.Integrator = integ

				runner := sim.New(s)

				start := time.Now()
				result, err := runner.Run(context.Background(), sim.Config{Dt: stepSize, Duration: dur, SnapshotEvery: 1 << 30})
				if err != nil {
					return err
				}
				elapsed := time.Since(start)

				stepsPerSec := float64(result.StepsTaken) / elapsed.Seconds()
				fmt.Fprintf(w, "%s\t%.1f\t%.4g\t%d\t%v\t%.0f\n",
					name, dur, stepSize, result.StepsTaken, elapsed.Round(time.Microsecond), stepsPerSec)
			}
		}
	}

	return w.Flush()
}

func runLive(cmd *cobra.Command, args []string) error {
	system := args[0]

	s, err := buildSimulation(system)
	if err != nil {
		return err
	}
	return viz.RunLive(s, system, integrator, stepsPerFrame)
}

func chaosEstimate(cmd *cobra.Command, args []string) error {
	system := args[0]

	particles, err := config.BuildParticles(system, numBodies, seed)
	if err != nil {
		return err
	}
	if _, err := newIntegrator(integrator, scale); err != nil {
		return err
	}
	factory := func() nbody.Integrator {
		integ, _ := newIntegrator(integrator, scale)
		return integ
	}

	fmt.Printf("estimating largest lyapunov exponent for %s (dt=%.4g, duration=%.1f)...\n", system, dt, duration)
	lambda := analysis.LyapunovExponent(particles, factory, dt, duration, perturbation)
	fmt.Printf("lambda: %.6f\n", lambda)
	if lambda > 0.01 {
		fmt.Printf("e-folding time: %.2f\n", 1/lambda)
	}
	return nil
}

func exportSVG(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	_, _, rows, err := st.LoadSnapshots(runID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return fmt.Errorf("no data to export")
	}

	bodies := len(rows[0]) / 6
	orbits := make([][]export.Point, bodies)
	for b := 0; b < bodies; b++ {
		orbit := make([]export.Point, 0, len(rows))
		for i := range rows {
			if b*6+1 < len(rows[i]) {
				orbit = append(orbit, export.Point{X: rows[i][b*6], Y: rows[i][b*6+1]})
			}
		}
		orbits[b] = orbit
	}

	fmt.Println(export.OrbitsToSVG(orbits, svgWidth, svgHeight))
	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	system := args[0]
	names := args[1:]

	fmt.Printf("comparing integrators for %s (dt=%.4g, duration=%.1f)\n\n", system, dt, duration)
	fmt.Printf("%-12s  %-14s  %-14s  %-10s\n", "integrator", "energy_drift", "|P|", "time_ms")
	fmt.Println(strings.Repeat("-", 56))

	for _, name := range names {
		particles, err := config.BuildParticles(system, numBodies, seed)
		if err != nil {
			return err
		}
		integ, err := newIntegrator(name, scale)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}
		s := nbody.NewSimulation(particles)
		s.Dt = dt
		s.Integrator = integ

		runner := sim.New(s)
		runner.AddMetric(metrics.NewMomentumMagnitude())

		start := time.Now()
		result, err := runner.Run(context.Background(), sim.Config{Dt: dt, Duration: duration, SnapshotEvery: 1 << 30})
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		fmt.Printf("%-12s  %14.2e  %14.2e  %10.2f\n",
			name, result.EnergyDrift, result.Metrics["momentum"], float64(elapsed.Microseconds())/1000)
	}

	return nil
}
