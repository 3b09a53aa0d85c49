package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.OutputDir != "poscars_db" {
		t.Errorf("expected output dir poscars_db, got %s", cfg.OutputDir)
	}
	if cfg.MaxStrain <= 0 {
		t.Error("default max_strain should be positive")
	}
	if cfg.MaxAmplitude <= 0 {
		t.Error("default max_amplitude should be positive")
	}
	if cfg.StartID != 1 || cfg.StepSize != 1 || cfg.NumRattle != 1 {
		t.Error("default counters should all be 1")
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := `vasp_file: XDATCAR
max_strain: 0.02
step_size: 5
seed: 1234
wrap: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if cfg.VaspFile != "XDATCAR" {
		t.Errorf("expected vasp_file XDATCAR, got %s", cfg.VaspFile)
	}
	if cfg.MaxStrain != 0.02 {
		t.Errorf("expected max_strain 0.02, got %f", cfg.MaxStrain)
	}
	if cfg.StepSize != 5 {
		t.Errorf("expected step_size 5, got %d", cfg.StepSize)
	}
	if cfg.Seed != 1234 {
		t.Errorf("expected seed 1234, got %d", cfg.Seed)
	}
	if !cfg.Wrap {
		t.Error("expected wrap true")
	}
	// Untouched keys keep their defaults.
	if cfg.MaxAmplitude != DefaultMaxAmp {
		t.Errorf("expected default max_amplitude, got %f", cfg.MaxAmplitude)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.yaml")
	orig := DefaultConfig()
	orig.VaspFile = "traj/XDATCAR"
	orig.NumRattle = 4
	orig.Seed = 99

	if err := Save(path, orig); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if *got != *orig {
		t.Errorf("round trip changed config: %+v vs %+v", got, orig)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("md")
	if cfg == nil {
		t.Fatal("expected md preset")
	}
	if cfg.StepSize != 10 {
		t.Errorf("expected md step_size 10, got %d", cfg.StepSize)
	}

	// Presets hand out copies, not shared pointers.
	cfg.StepSize = 99
	if Presets["md"].StepSize != 10 {
		t.Error("mutating a preset copy changed the original")
	}

	if GetPreset("nonexistent") != nil {
		t.Error("expected nil for nonexistent preset")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) == 0 {
		t.Fatal("expected some presets")
	}
	seen := make(map[string]bool)
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"relax", "md", "rattle-only"} {
		if !seen[want] {
			t.Errorf("missing preset %s", want)
		}
	}
}

func TestParamsMapping(t *testing.T) {
	cfg := DefaultConfig()
	cfg.VaspFile = "XDATCAR"
	cfg.StepSize = 3

	p := cfg.Params()
	if p.VaspFile != "XDATCAR" || p.Stride != 3 {
		t.Errorf("params mapping broken: %+v", p)
	}
	if p.MaxStrain != cfg.MaxStrain || p.NumRattle != cfg.NumRattle {
		t.Errorf("params mapping broken: %+v", p)
	}
}
