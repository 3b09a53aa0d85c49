package crystal

import (
	"errors"
	"fmt"
	"math"
)

// Domain errors for structure validation.
var (
	// ErrDegenerateLattice indicates cell vectors with no volume.
	ErrDegenerateLattice = errors.New("crystal: degenerate lattice (zero or negative volume)")

	// ErrSpeciesMismatch indicates a species header inconsistent with the
	// coordinate list.
	ErrSpeciesMismatch = errors.New("crystal: species counts do not match coordinate count")
)

// Frame is one atomic configuration: a lattice, the species header
// (labels and per-species counts, file order) and one fractional
// coordinate per atom. Atoms are grouped by species, in header order.
type Frame struct {
	Comment string
	Lattice Lattice
	Species []string
	Counts  []int
	Frac    [][3]float64
}

// NumAtoms returns the number of atoms declared by the species header.
func (f *Frame) NumAtoms() int {
	n := 0
	for _, c := range f.Counts {
		n += c
	}
	return n
}

// Clone returns a deep copy of the frame.
func (f *Frame) Clone() *Frame {
	c := &Frame{
		Comment: f.Comment,
		Lattice: f.Lattice,
		Species: make([]string, len(f.Species)),
		Counts:  make([]int, len(f.Counts)),
		Frac:    make([][3]float64, len(f.Frac)),
	}
	copy(c.Species, f.Species)
	copy(c.Counts, f.Counts)
	copy(c.Frac, f.Frac)
	return c
}

// Validate checks the frame invariants: matching species header and
// coordinate count, positive per-species counts, a usable lattice and
// finite coordinates.
func (f *Frame) Validate() error {
	if len(f.Species) == 0 || len(f.Species) != len(f.Counts) {
		return fmt.Errorf("%w: %d labels, %d counts", ErrSpeciesMismatch, len(f.Species), len(f.Counts))
	}
	for i, c := range f.Counts {
		if c < 1 {
			return fmt.Errorf("%w: species %q has count %d", ErrSpeciesMismatch, f.Species[i], c)
		}
	}
	if n := f.NumAtoms(); n != len(f.Frac) {
		return fmt.Errorf("%w: header declares %d atoms, found %d coordinates", ErrSpeciesMismatch, n, len(f.Frac))
	}
	if f.Lattice.Degenerate() {
		return ErrDegenerateLattice
	}
	for i, p := range f.Frac {
		for k := 0; k < 3; k++ {
			if math.IsNaN(p[k]) || math.IsInf(p[k], 0) {
				return fmt.Errorf("crystal: atom %d has non-finite coordinate", i)
			}
		}
	}
	return nil
}

// Volume returns the cell volume of the frame's lattice.
func (f *Frame) Volume() float64 {
	return f.Lattice.Volume()
}

// Wrap folds every fractional coordinate into [0,1).
func (f *Frame) Wrap() {
	for i := range f.Frac {
		for k := 0; k < 3; k++ {
			v := math.Mod(f.Frac[i][k], 1)
			if v < 0 {
				v++
			}
			f.Frac[i][k] = v
		}
	}
}

// SymbolList expands the species header into one label per atom,
// in coordinate order.
func (f *Frame) SymbolList() []string {
	out := make([]string, 0, f.NumAtoms())
	for i, s := range f.Species {
		for j := 0; j < f.Counts[i]; j++ {
			out = append(out, s)
		}
	}
	return out
}
