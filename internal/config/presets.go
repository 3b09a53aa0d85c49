package config

// Presets are starting points for the usual database-building stages:
// dense sampling of short relaxation trajectories versus sparse
// sampling of long MD runs, plus single-effect variants for probing
// how a potential responds to cell strain or rattling alone.
var Presets = map[string]*Config{
	"relax": {
		OutputDir: DefaultOutputDir, MaxStrain: 0.04, MaxAmplitude: 0.08,
		StartID: 1, StepSize: 1, NumRattle: 1,
	},
	"md": {
		OutputDir: DefaultOutputDir, MaxStrain: 0.05, MaxAmplitude: 0.1,
		StartID: 1, StepSize: 10, NumRattle: 2,
	},
	"gentle": {
		OutputDir: DefaultOutputDir, MaxStrain: 0.01, MaxAmplitude: 0.02,
		StartID: 1, StepSize: 1, NumRattle: 1,
	},
	"cell-only": {
		OutputDir: DefaultOutputDir, MaxStrain: 0.05, MaxAmplitude: 0,
		StartID: 1, StepSize: 1, NumRattle: 3,
	},
	"rattle-only": {
		OutputDir: DefaultOutputDir, MaxStrain: 0, MaxAmplitude: 0.1,
		StartID: 1, StepSize: 1, NumRattle: 3,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
