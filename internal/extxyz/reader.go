// Package extxyz reads extended XYZ trajectory dumps, the coordinate
// format written by GPUMD and similar MD engines. Only the fields a
// structure file needs are parsed: the lattice from the comment line
// and per-atom species and Cartesian positions.
package extxyz

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/rattlegen/internal/crystal"
)

// ErrMalformedDump indicates input that does not follow the extended
// XYZ layout.
var ErrMalformedDump = errors.New("extxyz: malformed dump")

// ErrFrameOutOfRange indicates a frame index past the end of the dump.
var ErrFrameOutOfRange = errors.New("extxyz: frame index out of range")

// atom is one parsed dump line before regrouping by species.
type atom struct {
	symbol string
	cart   [3]float64
}

// ReadFrame scans the dump sequentially and returns frame index (zero
// based) as a Frame with fractional coordinates. When sortSpecies is
// set, species blocks are ordered alphabetically; otherwise they keep
// first-appearance order. Atoms are regrouped by species either way,
// since the structure-file header requires contiguous species blocks.
func ReadFrame(path string, index int, sortSpecies bool) (*crystal.Frame, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: %d", ErrFrameOutOfRange, index)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("extxyz: open dump: %w", err)
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 1024*1024), 1024*1024)

	for skipped := 0; skipped < index; skipped++ {
		if err := skipFrame(sc, path, skipped); err != nil {
			return nil, err
		}
	}
	return readFrame(sc, path, index, sortSpecies)
}

func readCount(sc *bufio.Scanner, path string, index int) (int, bool, error) {
	if !sc.Scan() {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil || n < 1 {
		return 0, false, fmt.Errorf("%w: %s: frame %d: bad atom count %q", ErrMalformedDump, path, index, strings.TrimSpace(sc.Text()))
	}
	return n, true, nil
}

func skipFrame(sc *bufio.Scanner, path string, index int) error {
	n, ok, err := readCount(sc, path, index)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s has only %d frames", ErrFrameOutOfRange, path, index)
	}
	for i := 0; i < n+1; i++ {
		if !sc.Scan() {
			return fmt.Errorf("%w: %s: frame %d truncated", ErrMalformedDump, path, index)
		}
	}
	return nil
}

func readFrame(sc *bufio.Scanner, path string, index int, sortSpecies bool) (*crystal.Frame, error) {
	n, ok, err := readCount(sc, path, index)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s has only %d frames", ErrFrameOutOfRange, path, index)
	}

	if !sc.Scan() {
		return nil, fmt.Errorf("%w: %s: frame %d: missing comment line", ErrMalformedDump, path, index)
	}
	lat, err := parseLattice(sc.Text())
	if err != nil {
		return nil, fmt.Errorf("%w: %s: frame %d: %v", ErrMalformedDump, path, index, err)
	}

	atoms := make([]atom, 0, n)
	for i := 0; i < n; i++ {
		if !sc.Scan() {
			return nil, fmt.Errorf("%w: %s: frame %d: got %d of %d atoms", ErrMalformedDump, path, index, i, n)
		}
		fields := strings.Fields(sc.Text())
		if len(fields) < 4 {
			return nil, fmt.Errorf("%w: %s: frame %d: atom line has %d fields, want 4", ErrMalformedDump, path, index, len(fields))
		}
		var a atom
		a.symbol = fields[0]
		for k := 0; k < 3; k++ {
			v, err := strconv.ParseFloat(fields[k+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: frame %d: unparseable coordinate %q", ErrMalformedDump, path, index, fields[k+1])
			}
			a.cart[k] = v
		}
		atoms = append(atoms, a)
	}

	return buildFrame(lat, atoms, sortSpecies)
}

// parseLattice extracts the 9 lattice components from the extended XYZ
// comment line, e.g. Lattice="2.5 0 0 0 2.5 0 0 0 20".
func parseLattice(comment string) (crystal.Lattice, error) {
	var lat crystal.Lattice
	lower := strings.ToLower(comment)
	pos := strings.Index(lower, `lattice="`)
	if pos < 0 {
		return lat, errors.New(`no Lattice="..." entry in comment line`)
	}
	rest := comment[pos+len(`lattice="`):]
	end := strings.Index(rest, `"`)
	if end < 0 {
		return lat, errors.New("unterminated Lattice entry")
	}
	fields := strings.Fields(rest[:end])
	if len(fields) != 9 {
		return lat, fmt.Errorf("lattice has %d components, want 9", len(fields))
	}
	for i, fstr := range fields {
		v, err := strconv.ParseFloat(fstr, 64)
		if err != nil {
			return lat, fmt.Errorf("unparseable lattice component %q", fstr)
		}
		lat[i/3][i%3] = v
	}
	return lat, nil
}

// buildFrame regroups atoms into contiguous species blocks and
// converts Cartesian positions to fractional.
func buildFrame(lat crystal.Lattice, atoms []atom, sortSpecies bool) (*crystal.Frame, error) {
	if lat.Degenerate() {
		return nil, fmt.Errorf("%w: degenerate lattice", ErrMalformedDump)
	}
	inv, err := lat.Inverse()
	if err != nil {
		return nil, fmt.Errorf("%w: lattice not invertible", ErrMalformedDump)
	}

	order := make([]string, 0, 4)
	bySpecies := make(map[string][]atom)
	for _, a := range atoms {
		if _, seen := bySpecies[a.symbol]; !seen {
			order = append(order, a.symbol)
		}
		bySpecies[a.symbol] = append(bySpecies[a.symbol], a)
	}
	if sortSpecies {
		sort.Strings(order)
	}

	f := &crystal.Frame{
		Lattice: lat,
		Species: order,
		Counts:  make([]int, len(order)),
		Frac:    make([][3]float64, 0, len(atoms)),
	}
	for i, s := range order {
		f.Counts[i] = len(bySpecies[s])
		for _, a := range bySpecies[s] {
			f.Frac = append(f.Frac, inv.Cartesian(a.cart))
		}
	}
	return f, nil
}
