package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/rattlegen/internal/perturb"
)

const (
	DefaultOutputDir = "poscars_db"
	DefaultMaxStrain = 0.05
	DefaultMaxAmp    = 0.1
	DefaultStartID   = 1
	DefaultStepSize  = 1
	DefaultNumRattle = 1
)

// Config mirrors the generate command's parameters so a run can live
// in a YAML file next to the training database it produced.
type Config struct {
	VaspFile     string  `yaml:"vasp_file"`
	OutputDir    string  `yaml:"output_dir"`
	MaxStrain    float64 `yaml:"max_strain"`
	MaxAmplitude float64 `yaml:"max_amplitude"`
	StartID      int     `yaml:"start_structure_id"`
	StepSize     int     `yaml:"step_size"`
	NumRattle    int     `yaml:"number_of_rattling"`
	Seed         int64   `yaml:"seed"`
	Wrap         bool    `yaml:"wrap"`
	Workers      int     `yaml:"workers"`
}

func DefaultConfig() *Config {
	return &Config{
		OutputDir:    DefaultOutputDir,
		MaxStrain:    DefaultMaxStrain,
		MaxAmplitude: DefaultMaxAmp,
		StartID:      DefaultStartID,
		StepSize:     DefaultStepSize,
		NumRattle:    DefaultNumRattle,
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

// Params converts the config into driver parameters.
func (c *Config) Params() perturb.Params {
	return perturb.Params{
		VaspFile:     c.VaspFile,
		OutputDir:    c.OutputDir,
		MaxStrain:    c.MaxStrain,
		MaxAmplitude: c.MaxAmplitude,
		StartID:      c.StartID,
		Stride:       c.StepSize,
		NumRattle:    c.NumRattle,
		Seed:         c.Seed,
		Wrap:         c.Wrap,
		Workers:      c.Workers,
	}
}
