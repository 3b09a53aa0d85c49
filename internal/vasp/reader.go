package vasp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/san-kum/rattlegen/internal/crystal"
)

// lineReader is a bufio.Scanner with a line counter and one line of
// pushback, which the XDATCAR parser needs to decide whether the next
// block is another configuration or a fresh header.
type lineReader struct {
	sc     *bufio.Scanner
	line   int
	pushed []string
}

func newLineReader(r io.Reader) *lineReader {
	return &lineReader{sc: bufio.NewScanner(r)}
}

func (lr *lineReader) next() (string, bool) {
	if n := len(lr.pushed); n > 0 {
		s := lr.pushed[n-1]
		lr.pushed = lr.pushed[:n-1]
		lr.line++
		return s, true
	}
	if !lr.sc.Scan() {
		return "", false
	}
	lr.line++
	return lr.sc.Text(), true
}

func (lr *lineReader) unread(s string) {
	lr.pushed = append(lr.pushed, s)
	lr.line--
}

// header holds the per-trajectory (or per-frame, for variable-cell
// trajectories) block preceding the coordinates.
type header struct {
	comment string
	scale   float64
	lattice crystal.Lattice
	species []string
	counts  []int
	natoms  int
}

// ReadTrajectory parses a POSCAR, CONTCAR or XDATCAR file into its
// sequence of frames. Fixed-cell trajectories share one header;
// variable-cell trajectories repeat the header before every
// configuration and both layouts are accepted. Coordinates may be
// Direct or Cartesian and are stored as fractional either way.
func ReadTrajectory(path string) ([]*crystal.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vasp: open trajectory: %w", err)
	}
	defer f.Close()
	return readTrajectory(newLineReader(f), path)
}

// ReadStructure parses a single-frame structure file. Trailing frames
// are rejected so that a POSCAR stays a POSCAR.
func ReadStructure(path string) (*crystal.Frame, error) {
	frames, err := ReadTrajectory(path)
	if err != nil {
		return nil, err
	}
	if len(frames) != 1 {
		return nil, malformed(path, -1, 0, "expected a single structure, found %d frames", len(frames))
	}
	return frames[0], nil
}

func readTrajectory(lr *lineReader, path string) ([]*crystal.Frame, error) {
	hdr, err := readHeader(lr, path)
	if err != nil {
		return nil, err
	}

	var frames []*crystal.Frame
	for {
		frame, err := readConfiguration(lr, path, hdr, len(frames))
		if err != nil {
			return nil, err
		}
		if frame == nil {
			break
		}
		frames = append(frames, frame)

		line, ok := lr.next()
		if !ok {
			break
		}
		// A blank line after a configuration means a trailing velocity
		// block (CONTCAR); positions are all we want.
		if strings.TrimSpace(line) == "" {
			break
		}
		lr.unread(line)
		// A variable-cell XDATCAR repeats the full header before the
		// next configuration; a fixed-cell one goes straight to the
		// next "Direct configuration=" tag.
		if !isConfigTag(line) {
			next, err := readHeader(lr, path)
			if err != nil {
				return nil, err
			}
			if next.natoms != hdr.natoms {
				return nil, malformed(path, len(frames), lr.line,
					"atom count changed between frames: %d then %d", hdr.natoms, next.natoms)
			}
			hdr = next
		}
	}

	if len(frames) == 0 {
		return nil, malformed(path, -1, lr.line, "no coordinate blocks found")
	}
	return frames, nil
}

func readHeader(lr *lineReader, path string) (*header, error) {
	comment, ok := lr.next()
	if !ok {
		return nil, malformed(path, -1, lr.line, "unexpected end of file in header")
	}

	scaleLine, ok := lr.next()
	if !ok {
		return nil, malformed(path, -1, lr.line, "missing scale factor")
	}
	scale, err := strconv.ParseFloat(strings.TrimSpace(scaleLine), 64)
	if err != nil {
		return nil, malformed(path, -1, lr.line, "unparseable scale factor %q", strings.TrimSpace(scaleLine))
	}
	if scale <= 0 {
		return nil, malformed(path, -1, lr.line, "scale factor must be positive, got %g", scale)
	}

	var lat crystal.Lattice
	for i := 0; i < 3; i++ {
		line, ok := lr.next()
		if !ok {
			return nil, malformed(path, -1, lr.line, "truncated lattice block")
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, malformed(path, -1, lr.line, "lattice row %d has %d fields, want 3", i+1, len(fields))
		}
		for j := 0; j < 3; j++ {
			v, err := strconv.ParseFloat(fields[j], 64)
			if err != nil {
				return nil, malformed(path, -1, lr.line, "lattice row %d: unparseable component %q", i+1, fields[j])
			}
			lat[i][j] = v * scale
		}
	}
	if lat.Degenerate() {
		return nil, malformed(path, -1, lr.line, "degenerate lattice")
	}

	speciesLine, ok := lr.next()
	if !ok {
		return nil, malformed(path, -1, lr.line, "missing species line")
	}
	species := strings.Fields(speciesLine)
	if len(species) == 0 {
		return nil, malformed(path, -1, lr.line, "empty species line")
	}
	if _, err := strconv.Atoi(species[0]); err == nil {
		// VASP4 layout: counts directly after the lattice, no symbols.
		return nil, &ParseError{Path: path, Frame: -1, Line: lr.line,
			Wrapped: fmt.Errorf("%w: species symbols missing (VASP4 header)", ErrUnsupportedFormat)}
	}

	countsLine, ok := lr.next()
	if !ok {
		return nil, malformed(path, -1, lr.line, "missing species counts")
	}
	countFields := strings.Fields(countsLine)
	if len(countFields) != len(species) {
		return nil, malformed(path, -1, lr.line, "%d species but %d counts", len(species), len(countFields))
	}
	counts := make([]int, len(countFields))
	natoms := 0
	for i, f := range countFields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 1 {
			return nil, malformed(path, -1, lr.line, "invalid count %q for species %s", f, species[i])
		}
		counts[i] = n
		natoms += n
	}

	return &header{
		comment: strings.TrimSpace(comment),
		scale:   scale,
		lattice: lat,
		species: species,
		counts:  counts,
		natoms:  natoms,
	}, nil
}

// readConfiguration reads one coordinate block. It returns (nil, nil)
// on a clean end of input.
func readConfiguration(lr *lineReader, path string, hdr *header, index int) (*crystal.Frame, error) {
	var mode string
	for {
		line, ok := lr.next()
		if !ok {
			return nil, nil
		}
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		// POSCAR selective dynamics line sits between the counts and
		// the coordinate mode; skip it.
		if strings.HasPrefix(strings.ToLower(trimmed), "s") && !isCoordinateKeyword(trimmed) {
			continue
		}
		if !isCoordinateKeyword(trimmed) {
			return nil, malformed(path, index, lr.line, "expected coordinate block, got %q", trimmed)
		}
		mode = trimmed
		break
	}
	cartesian := strings.HasPrefix(strings.ToLower(mode), "c")

	frac := make([][3]float64, hdr.natoms)
	var inv crystal.Lattice
	if cartesian {
		var err error
		inv, err = hdr.lattice.Inverse()
		if err != nil {
			return nil, malformed(path, index, lr.line, "lattice not invertible")
		}
	}

	for i := 0; i < hdr.natoms; i++ {
		line, ok := lr.next()
		if !ok {
			return nil, malformed(path, index, lr.line,
				"truncated coordinate block: got %d of %d atoms", i, hdr.natoms)
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, malformed(path, index, lr.line, "coordinate line has %d fields, want 3", len(fields))
		}
		var p [3]float64
		for k := 0; k < 3; k++ {
			v, err := strconv.ParseFloat(fields[k], 64)
			if err != nil {
				return nil, malformed(path, index, lr.line, "unparseable coordinate %q", fields[k])
			}
			p[k] = v
		}
		if cartesian {
			// The universal scale factor applies to Cartesian positions
			// just as it does to the cell vectors.
			for k := 0; k < 3; k++ {
				p[k] *= hdr.scale
			}
			p = inv.Cartesian(p)
		}
		frac[i] = p
	}

	return &crystal.Frame{
		Comment: hdr.comment,
		Lattice: hdr.lattice,
		Species: append([]string(nil), hdr.species...),
		Counts:  append([]int(nil), hdr.counts...),
		Frac:    frac,
	}, nil
}

// isCoordinateKeyword reports whether a line opens a coordinate block:
// "Direct", "Cartesian" or an XDATCAR "Direct configuration=  N" tag.
func isCoordinateKeyword(line string) bool {
	l := strings.ToLower(strings.TrimSpace(line))
	return strings.HasPrefix(l, "direct") || strings.HasPrefix(l, "cart")
}

// isConfigTag matches only the XDATCAR per-frame tag, so that a
// trajectory comment line starting with "D" or "C" is not mistaken for
// a coordinate block when deciding whether a new header follows.
func isConfigTag(line string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "direct configuration")
}
