package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultDt        = 1e-3
	DefaultDuration  = 10.0
	DefaultScale     = 1e16
	DefaultG         = 1.0
	DefaultSoftening = 0.0
	DefaultBodies    = 3
	DefaultSystem    = "figure-eight"
)

type Config struct {
	System     string  `yaml:"system"`
	Integrator string  `yaml:"integrator"`
	Dt         float64 `yaml:"dt"`
	Duration   float64 `yaml:"duration"`
	Seed       int64   `yaml:"seed"`

	// Scale is the fixed-point multiplier for the reversible integrator.
	Scale     float64 `yaml:"scale"`
	G         float64 `yaml:"g"`
	Softening float64 `yaml:"softening"`

	NumBodies     int `yaml:"num_bodies"`
	SnapshotEvery int `yaml:"snapshot_every"`
}

func DefaultConfig() *Config {
	return &Config{
		System:     DefaultSystem,
		Integrator: "janus",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Scale:      DefaultScale,
		G:          DefaultG,
		Softening:  DefaultSoftening,
		NumBodies:  DefaultBodies,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
