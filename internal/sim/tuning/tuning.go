package tuning

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_tuning.yaml
var defaultTuning []byte

type Tuning struct {
	Generator Generator `yaml:"generator"`
	Save      Save      `yaml:"save"`
}

// Generator holds terrain generation defaults. Levels are compared against
// the raw height field; cells below WaterLevel become water, below
// BeachLevel beach.
type Generator struct {
	InitialStep int     `yaml:"initial_step"`
	Roughness   float64 `yaml:"roughness"`
	Smoothness  float64 `yaml:"smoothness"`
	WaterLevel  float64 `yaml:"water_level"`
	BeachLevel  float64 `yaml:"beach_level"`
}

type Save struct {
	Compress    bool `yaml:"compress"`
	KeepBackups int  `yaml:"keep_backups"`
}

func Defaults() Tuning {
	var t Tuning
	if err := yaml.Unmarshal(defaultTuning, &t); err != nil {
		panic(fmt.Sprintf("default tuning: %v", err))
	}
	return t
}

// Load overlays the file at path on top of the defaults.
func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	g := t.Generator
	if g.InitialStep < 0 {
		return fmt.Errorf("generator.initial_step must be >= 0")
	}
	if g.Smoothness <= 0 {
		return fmt.Errorf("generator.smoothness must be > 0")
	}
	if g.BeachLevel < g.WaterLevel {
		return fmt.Errorf("generator.beach_level below water_level")
	}
	if t.Save.KeepBackups < 0 {
		return fmt.Errorf("save.keep_backups must be >= 0")
	}
	return nil
}
