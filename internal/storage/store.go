package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/gravsim/internal/sim"
)

// Store persists runs under a base directory, one subdirectory per run
// with metadata.json and snapshots.csv.
type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	System     string             `json:"system"`
	Timestamp  time.Time          `json:"timestamp"`
	Seed       int64              `json:"seed"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Scale      float64            `json:"scale"`
	Bodies     int                `json:"bodies"`
	Metrics    map[string]float64 `json:"metrics"`
}

func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", meta.System, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.Metrics = result.Metrics
	if len(result.Snapshots) > 0 {
		meta.Bodies = len(result.Snapshots[0].Particles)
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "snapshots.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.Snapshots) == 0 {
		return runID, nil
	}

	header := []string{"time", "energy"}
	for i := range result.Snapshots[0].Particles {
		for _, f := range [...]string{"x", "y", "z", "vx", "vy", "vz"} {
			header = append(header, fmt.Sprintf("%s%d", f, i))
		}
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for _, snap := range result.Snapshots {
		row := make([]string, 0, len(header))
		row = append(row,
			strconv.FormatFloat(snap.Time, 'g', -1, 64),
			strconv.FormatFloat(snap.Energy, 'g', -1, 64),
		)
		for _, p := range snap.Particles {
			for _, v := range [...]float64{p.X, p.Y, p.Z, p.VX, p.VY, p.VZ} {
				row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
			}
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.baseDir, entry.Name(), "metadata.json"))
		if err != nil {
			continue
		}
		var meta RunMetadata
		if err := json.Unmarshal(data, &meta); err != nil {
			continue
		}
		runs = append(runs, meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadSnapshots reads back the time series: times, energies and the raw
// per-snapshot value rows (6 values per body, in file order).
func (s *Store) LoadSnapshots(runID string) (times, energies []float64, rows [][]float64, err error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, "snapshots.csv"))
	if err != nil {
		return nil, nil, nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, nil, err
	}
	if len(records) < 2 {
		return []float64{}, []float64{}, [][]float64{}, nil
	}

	for _, record := range records[1:] {
		if len(record) < 2 {
			continue
		}
		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		e, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}

		row := make([]float64, 0, len(record)-2)
		for _, field := range record[2:] {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			row = append(row, v)
		}
		times = append(times, t)
		energies = append(energies, e)
		rows = append(rows, row)
	}
	return times, energies, rows, nil
}
