package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/gravsim/internal/nbody"
	"github.com/san-kum/gravsim/internal/sim"
)

func sampleResult() *sim.Result {
	return &sim.Result{
		Snapshots: []sim.Snapshot{
			{
				Time:   0,
				Energy: -0.25,
				Particles: []nbody.Particle{
					{X: -1, VY: -0.5, M: 1},
					{X: 1, VY: 0.5, M: 1},
				},
			},
			{
				Time:   0.001,
				Energy: -0.25,
				Particles: []nbody.Particle{
					{X: -0.9999, VY: -0.5, M: 1},
					{X: 0.9999, VY: 0.5, M: 1},
				},
			},
		},
		Metrics:    map[string]float64{"energy_drift": 1.2e-12},
		StepsTaken: 1,
	}
}

func TestSaveAndLoad(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save(RunMetadata{
		System:     "binary",
		Seed:       42,
		Dt:         1e-3,
		Duration:   0.001,
		Integrator: "janus",
		Scale:      1e16,
	}, sampleResult())
	require.NoError(t, err)
	assert.Contains(t, runID, "binary_")

	meta, err := st.Load(runID)
	require.NoError(t, err)
	assert.Equal(t, "janus", meta.Integrator)
	assert.Equal(t, 2, meta.Bodies)
	assert.Equal(t, 1e16, meta.Scale)
	assert.InDelta(t, 1.2e-12, meta.Metrics["energy_drift"], 1e-20)
}

func TestLoadSnapshots(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	runID, err := st.Save(RunMetadata{System: "binary"}, sampleResult())
	require.NoError(t, err)

	times, energies, rows, err := st.LoadSnapshots(runID)
	require.NoError(t, err)
	require.Len(t, times, 2)
	assert.Equal(t, 0.0, times[0])
	assert.Equal(t, 0.001, times[1])
	assert.Equal(t, -0.25, energies[0])

	// 2 bodies * 6 fields
	require.Len(t, rows[0], 12)
	assert.Equal(t, -1.0, rows[0][0])  // x0
	assert.Equal(t, -0.5, rows[0][4])  // vy0
	assert.Equal(t, 1.0, rows[0][6])   // x1
}

func TestListEmptyDir(t *testing.T) {
	st := New(t.TempDir() + "/does-not-exist-yet")
	runs, err := st.List()
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestListFindsSavedRuns(t *testing.T) {
	st := New(t.TempDir())
	require.NoError(t, st.Init())

	_, err := st.Save(RunMetadata{System: "binary"}, sampleResult())
	require.NoError(t, err)
	_, err = st.Save(RunMetadata{System: "solar"}, sampleResult())
	require.NoError(t, err)

	runs, err := st.List()
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}
