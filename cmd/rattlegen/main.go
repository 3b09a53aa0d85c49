package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strconv"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/rattlegen/internal/config"
	"github.com/san-kum/rattlegen/internal/db"
	"github.com/san-kum/rattlegen/internal/extxyz"
	"github.com/san-kum/rattlegen/internal/perturb"
	"github.com/san-kum/rattlegen/internal/report"
	"github.com/san-kum/rattlegen/internal/vasp"
	"github.com/spf13/cobra"
)

var (
	vaspFile     string
	outputDir    string
	maxStrain    float64
	maxAmplitude float64
	startID      int
	stepSize     int
	numRattle    int
	seed         int64
	wrap         bool
	workers      int
	configFile   string
	preset       string
	histogram    bool
	progress     bool
	// info / convert
	plotVolumes bool
	sortSpecies bool
	convertOut  string
	// list
	listDir string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rattlegen",
		Short: "perturbed VASP structure generator for NEP training databases",
	}

	genCmd := &cobra.Command{
		Use:   "generate",
		Short: "sample trajectory frames and write perturbed POSCAR files",
		RunE:  runGenerate,
	}
	genCmd.Flags().StringVar(&vaspFile, "vasp_file", "", "input XDATCAR/POSCAR trajectory")
	genCmd.Flags().StringVar(&outputDir, "output_dir", config.DefaultOutputDir, "directory for POSCAR-<id> files")
	genCmd.Flags().Float64Var(&maxStrain, "max_strain", config.DefaultMaxStrain, "max strain component")
	genCmd.Flags().Float64Var(&maxAmplitude, "max_amplitude", config.DefaultMaxAmp, "max rattle displacement (angstrom)")
	genCmd.Flags().IntVar(&startID, "start_structure_id", config.DefaultStartID, "id of the first output structure")
	genCmd.Flags().IntVar(&stepSize, "step_size", config.DefaultStepSize, "frame sampling stride")
	genCmd.Flags().IntVar(&numRattle, "number_of_rattling", config.DefaultNumRattle, "perturbed copies per sampled frame")
	genCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = time-based)")
	genCmd.Flags().BoolVar(&wrap, "wrap", false, "wrap fractional coordinates into [0,1)")
	genCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = all CPUs)")
	genCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	genCmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	genCmd.Flags().BoolVar(&histogram, "histogram", false, "print displacement histogram after the run")
	genCmd.Flags().BoolVar(&progress, "progress", false, "show live progress view")

	infoCmd := &cobra.Command{
		Use:   "info [file]",
		Short: "summarize a trajectory or structure file",
		Args:  cobra.ExactArgs(1),
		RunE:  runInfo,
	}
	infoCmd.Flags().BoolVar(&plotVolumes, "plot", false, "plot cell volume per frame")

	convertCmd := &cobra.Command{
		Use:   "convert [dump.xyz] [frame]",
		Short: "convert an extended XYZ dump frame to POSCAR",
		Args:  cobra.ExactArgs(2),
		RunE:  runConvert,
	}
	convertCmd.Flags().BoolVar(&sortSpecies, "sort", false, "sort species alphabetically")
	convertCmd.Flags().StringVar(&convertOut, "out", "", "output file path (default POSCAR-<frame>)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded generation runs",
		RunE:  runList,
	}
	listCmd.Flags().StringVar(&listDir, "output_dir", config.DefaultOutputDir, "database directory")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		RunE:  runPresets,
	}

	rootCmd.AddCommand(genCmd, infoCmd, convertCmd, listCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// resolveConfig layers preset, config file, and CLI flags, with later
// layers winning only for values the user actually set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("vasp_file") || cfg.VaspFile == "" {
		cfg.VaspFile = vaspFile
	}
	if flags.Changed("output_dir") {
		cfg.OutputDir = outputDir
	}
	if flags.Changed("max_strain") {
		cfg.MaxStrain = maxStrain
	}
	if flags.Changed("max_amplitude") {
		cfg.MaxAmplitude = maxAmplitude
	}
	if flags.Changed("start_structure_id") {
		cfg.StartID = startID
	}
	if flags.Changed("step_size") {
		cfg.StepSize = stepSize
	}
	if flags.Changed("number_of_rattling") {
		cfg.NumRattle = numRattle
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("wrap") {
		cfg.Wrap = wrap
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}

	return cfg, nil
}

func runGenerate(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	driver := perturb.NewDriver(cfg.Params())

	var result *perturb.Result
	if progress {
		result, err = runWithProgress(ctx, driver, cfg.VaspFile)
	} else {
		result, err = driver.Run(ctx)
	}
	if err != nil {
		return err
	}

	printSummary(cfg, result)

	if histogram {
		fmt.Println()
		fmt.Println(report.Histogram(result.Stats.Magnitudes(), 20))
	}

	entry := db.Entry{
		ID:           db.NewRunID(time.Now()),
		Timestamp:    time.Now(),
		VaspFile:     cfg.VaspFile,
		Seed:         result.Seed,
		MaxStrain:    cfg.MaxStrain,
		MaxAmplitude: cfg.MaxAmplitude,
		StepSize:     cfg.StepSize,
		NumRattle:    cfg.NumRattle,
		FirstID:      result.FirstID,
		LastID:       result.LastID,
		Structures:   result.Written,
	}
	if err := db.Record(result.OutputDir, entry); err != nil {
		// The structures are already on disk; a manifest failure
		// should not fail the run.
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	return nil
}

func runWithProgress(ctx context.Context, driver *perturb.Driver, source string, opts ...tea.ProgramOption) (*perturb.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Program.Send is safe from the worker goroutines and becomes a
	// no-op once the program has exited.
	p := tea.NewProgram(report.NewProgressModel(source), opts...)
	driver.OnProgress = func(done, total int) {
		p.Send(report.ProgressMsg{Done: done, Total: total})
	}

	var (
		result *perturb.Result
		runErr error
	)
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		result, runErr = driver.Run(ctx)
		p.Send(report.DoneMsg{Err: runErr})
	}()

	_, err := p.Run()
	// Stop the driver if the view exited early, and wait for it before
	// touching result or runErr.
	cancel()
	<-runDone
	if err != nil {
		return nil, err
	}
	if runErr != nil {
		return nil, runErr
	}
	return result, nil
}

func printSummary(cfg *config.Config, r *perturb.Result) {
	minRatio, maxRatio := r.Stats.VolumeRange()

	fmt.Println(report.Summary(
		report.Title.Render("rattlegen")+report.Subtle.Render("  "+cfg.VaspFile),
		report.Field("frames", fmt.Sprintf("%d read, %d sampled (stride %d)", r.Frames, r.Sampled, cfg.StepSize)),
		report.Field("structures", fmt.Sprintf("%d written to %s", r.Written, r.OutputDir)),
		report.Field("ids", fmt.Sprintf("POSCAR-%d .. POSCAR-%d", r.FirstID, r.LastID)),
		report.Field("seed", strconv.FormatInt(r.Seed, 10)),
		report.Field("max displacement", fmt.Sprintf("%.4f A", r.Stats.MaxDisplacement())),
		report.Field("mean displacement", fmt.Sprintf("%.4f A", r.Stats.MeanDisplacement())),
		report.Field("volume ratio", fmt.Sprintf("%.4f .. %.4f", minRatio, maxRatio)),
		report.Field("elapsed", r.Elapsed.Round(time.Millisecond).String()),
	))
}

func runInfo(cmd *cobra.Command, args []string) error {
	frames, err := vasp.ReadTrajectory(args[0])
	if err != nil {
		return err
	}
	if len(frames) == 0 {
		return fmt.Errorf("%s: no frames", args[0])
	}

	first := frames[0]
	volumes := make([]float64, len(frames))
	minVol, maxVol := first.Volume(), first.Volume()
	for i, f := range frames {
		v := f.Volume()
		volumes[i] = v
		if v < minVol {
			minVol = v
		}
		if v > maxVol {
			maxVol = v
		}
	}

	species := ""
	for i, s := range first.Species {
		if i > 0 {
			species += " "
		}
		species += fmt.Sprintf("%s(%d)", s, first.Counts[i])
	}

	fmt.Println(report.Title.Render(args[0]))
	fmt.Println(report.Field("frames", strconv.Itoa(len(frames))))
	fmt.Println(report.Field("atoms", strconv.Itoa(first.NumAtoms())))
	fmt.Println(report.Field("species", species))
	fmt.Println(report.Field("volume", fmt.Sprintf("%.3f .. %.3f A^3", minVol, maxVol)))

	if plotVolumes {
		fmt.Println()
		fmt.Println(report.VolumeSeries(volumes))
	}
	return nil
}

func runConvert(cmd *cobra.Command, args []string) error {
	index, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("invalid frame index %q: %w", args[1], err)
	}

	frame, err := extxyz.ReadFrame(args[0], index, sortSpecies)
	if err != nil {
		return err
	}

	out := convertOut
	if out == "" {
		out = fmt.Sprintf("POSCAR-%d", index)
	}
	if err := vasp.WriteStructureFile(out, frame); err != nil {
		return err
	}
	fmt.Printf("wrote frame %d (%d atoms) to %s\n", index, frame.NumAtoms(), out)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	runs, err := db.List(listDir)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tSOURCE\tSEED\tIDS\tSTRUCTURES")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d-%d\t%d\n",
			r.ID, r.Timestamp.Format("2006-01-02 15:04"), r.VaspFile,
			r.Seed, r.FirstID, r.LastID, r.Structures)
	}
	return w.Flush()
}

func runPresets(cmd *cobra.Command, args []string) error {
	names := config.ListPresets()
	sort.Strings(names)

	w := tabwriter.NewWriter(os.Stdout, 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tSTRAIN\tAMPLITUDE\tSTRIDE\tRATTLE")
	for _, name := range names {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%.3f\t%.3f\t%d\t%d\n",
			name, p.MaxStrain, p.MaxAmplitude, p.StepSize, p.NumRattle)
	}
	return w.Flush()
}
