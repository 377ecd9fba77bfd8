package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning carries the solver defaults applied when a request leaves the
// corresponding field unset. The normalization bounds feed the weighted-sum
// scalarization; a zero f1 range means "derive from the distance matrix"
// and a zero f2 range means "1 to MaxTeams".
type Tuning struct {
	MaxIter      int `yaml:"max_iter"`
	MaxNoImprove int `yaml:"max_no_improve"`
	FrontPoints  int `yaml:"front_points"`
	MaxFrontSize int `yaml:"max_front_size"`
	Normalize    struct {
		F1Min float64 `yaml:"f1_min"`
		F1Max float64 `yaml:"f1_max"`
		F2Min float64 `yaml:"f2_min"`
		F2Max float64 `yaml:"f2_max"`
	} `yaml:"normalize"`
}

// DefaultTuning matches the sweep scripts this service grew out of: short
// runs per point, twenty points per front.
func DefaultTuning() Tuning {
	return Tuning{
		MaxIter:      300,
		MaxNoImprove: 5,
		FrontPoints:  20,
		MaxFrontSize: 20,
	}
}

// LoadTuning reads a YAML tuning file, layering it over the defaults.
// An empty path returns the defaults unchanged.
func LoadTuning(path string) (Tuning, error) {
	t := DefaultTuning()
	if path == "" {
		return t, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("read tuning file: %w", err)
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("parse tuning file: %w", err)
	}
	return t, nil
}
