package vasp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/san-kum/rattlegen/internal/crystal"
)

// WriteStructure writes one frame as a standalone POSCAR in Direct
// coordinates. The comment line falls back to the species formula when
// the frame carries none.
func WriteStructure(w io.Writer, f *crystal.Frame) error {
	if err := f.Validate(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	comment := f.Comment
	if comment == "" {
		comment = formula(f)
	}
	fmt.Fprintln(bw, comment)
	fmt.Fprintln(bw, "1.0")
	for i := 0; i < 3; i++ {
		fmt.Fprintf(bw, " %21.16f %21.16f %21.16f\n", f.Lattice[i][0], f.Lattice[i][1], f.Lattice[i][2])
	}
	fmt.Fprintln(bw, " "+strings.Join(f.Species, " "))
	for _, c := range f.Counts {
		fmt.Fprintf(bw, " %d", c)
	}
	fmt.Fprintln(bw)
	fmt.Fprintln(bw, "Direct")
	for _, p := range f.Frac {
		fmt.Fprintf(bw, " %19.16f %19.16f %19.16f\n", p[0], p[1], p[2])
	}
	return bw.Flush()
}

// WriteStructureFile writes the frame to path, creating or truncating
// the file.
func WriteStructureFile(path string, f *crystal.Frame) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("vasp: create %s: %w", path, err)
	}
	if err := WriteStructure(out, f); err != nil {
		out.Close()
		return fmt.Errorf("vasp: write %s: %w", path, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("vasp: close %s: %w", path, err)
	}
	return nil
}

// formula builds a Hill-style label from the species header, e.g.
// "B12 N12 Cu".
func formula(f *crystal.Frame) string {
	parts := make([]string, len(f.Species))
	for i, s := range f.Species {
		if f.Counts[i] == 1 {
			parts[i] = s
		} else {
			parts[i] = fmt.Sprintf("%s%d", s, f.Counts[i])
		}
	}
	return strings.Join(parts, " ")
}
