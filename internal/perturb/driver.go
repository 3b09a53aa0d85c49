package perturb

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/san-kum/rattlegen/internal/crystal"
	"github.com/san-kum/rattlegen/internal/vasp"
)

// Params configures one generation run.
type Params struct {
	VaspFile     string
	OutputDir    string
	MaxStrain    float64
	MaxAmplitude float64
	StartID      int
	Stride       int
	NumRattle    int
	Seed         int64
	Wrap         bool
	Workers      int
}

// Validate checks every parameter domain before any I/O happens.
func (p *Params) Validate() error {
	if p.VaspFile == "" {
		return &ParameterError{Name: "vasp_file", Value: `""`}
	}
	if p.MaxStrain < 0 {
		return &ParameterError{Name: "max_strain", Value: p.MaxStrain}
	}
	if p.MaxAmplitude < 0 {
		return &ParameterError{Name: "max_amplitude", Value: p.MaxAmplitude}
	}
	if p.StartID < 1 {
		return &ParameterError{Name: "start_structure_id", Value: p.StartID}
	}
	if p.Stride < 1 {
		return &ParameterError{Name: "step_size", Value: p.Stride}
	}
	if p.NumRattle < 1 {
		return &ParameterError{Name: "number_of_rattling", Value: p.NumRattle}
	}
	if p.Workers < 0 {
		return &ParameterError{Name: "workers", Value: p.Workers}
	}
	return nil
}

// Result summarizes a completed run.
type Result struct {
	Frames     int
	Sampled    int
	Written    int
	FirstID    int
	LastID     int
	Seed       int64
	Stats      *Stats
	Elapsed    time.Duration
	OutputDir  string
	Structures []string
}

// A job is one structure to emit: a source frame, its rattle repeat
// index and its preassigned identifier.
type job struct {
	frame  *crystal.Frame
	repeat int
	id     int
}

// Driver runs the read -> sample -> perturb -> write pipeline.
// Identifier assignment is precomputed in (frame, repeat) order, so
// the output set is the same no matter how many workers run.
type Driver struct {
	params Params

	// OnProgress, when set, is called after each structure is written
	// with the number done and the total. Calls are serialized.
	OnProgress func(done, total int)
}

func NewDriver(p Params) *Driver {
	return &Driver{params: p}
}

// Run executes the pipeline. On a validation or parse error nothing is
// written; on a write error, structures already on disk remain.
func (d *Driver) Run(ctx context.Context) (*Result, error) {
	p := d.params
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if p.Seed == 0 {
		p.Seed = time.Now().UnixNano()
	}
	if p.Workers == 0 {
		p.Workers = runtime.NumCPU()
	}

	start := time.Now()

	frames, err := vasp.ReadTrajectory(p.VaspFile)
	if err != nil {
		return nil, err
	}
	for i, f := range frames {
		if err := f.Validate(); err != nil {
			return nil, fmt.Errorf("frame %d of %s: %w", i, p.VaspFile, err)
		}
	}

	indices, err := SampleIndices(len(frames), p.Stride)
	if err != nil {
		return nil, err
	}

	jobs := make([]job, 0, len(indices)*p.NumRattle)
	id := p.StartID
	for _, fi := range indices {
		for r := 0; r < p.NumRattle; r++ {
			jobs = append(jobs, job{frame: frames[fi], repeat: r, id: id})
			id++
		}
	}

	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("perturb: create output dir %s: %w", p.OutputDir, err)
	}

	res := &Result{
		Frames:    len(frames),
		Sampled:   len(indices),
		FirstID:   p.StartID,
		LastID:    id - 1,
		Seed:      p.Seed,
		Stats:     NewStats(),
		OutputDir: p.OutputDir,
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		done    int
		runErr  error
		jobChan = make(chan job)
	)

	fail := func(err error) {
		mu.Lock()
		if runErr == nil {
			runErr = err
		}
		mu.Unlock()
		cancel()
	}

	for w := 0; w < p.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobChan {
				if runCtx.Err() != nil {
					continue
				}
				path, mags, volRatio, err := d.emit(p, j)
				if err != nil {
					fail(err)
					continue
				}
				res.Stats.Observe(mags, volRatio)
				mu.Lock()
				done++
				res.Written++
				res.Structures = append(res.Structures, path)
				n := done
				mu.Unlock()
				if d.OnProgress != nil {
					d.OnProgress(n, len(jobs))
				}
			}
		}()
	}

	for _, j := range jobs {
		select {
		case <-runCtx.Done():
		case jobChan <- j:
		}
		if runCtx.Err() != nil {
			break
		}
	}
	close(jobChan)
	wg.Wait()

	if runErr != nil {
		return res, runErr
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	res.Elapsed = time.Since(start)
	return res, nil
}

// emit produces and writes one structure. The RNG is derived from the
// base seed and the structure ID, never shared between jobs.
func (d *Driver) emit(p Params, j job) (path string, mags []float64, volRatio float64, err error) {
	rng := rand.New(rand.NewSource(p.Seed + int64(j.id)))

	f := j.frame.Clone()
	v0 := f.Volume()

	ApplyStrain(f, rng, p.MaxStrain)
	mags, err = ApplyRattle(f, rng, p.MaxAmplitude)
	if err != nil {
		return "", nil, 0, err
	}
	if p.Wrap {
		f.Wrap()
	}

	path = filepath.Join(p.OutputDir, fmt.Sprintf("POSCAR-%d", j.id))
	if err := vasp.WriteStructureFile(path, f); err != nil {
		return "", nil, 0, err
	}
	return path, mags, f.Volume() / v0, nil
}
