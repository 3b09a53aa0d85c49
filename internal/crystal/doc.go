// Package crystal provides the core types for periodic atomic structures.
//
// A [Frame] is one snapshot of a crystal: a lattice, an ordered species
// header and fractional coordinates for every atom. Frames come from a
// trajectory (XDATCAR) or stand alone as a single structure (POSCAR);
// the type is the same either way:
//
//	frame.Validate()
//	cart := frame.Lattice.Cartesian(frame.Frac[i])
//
// # Conventions
//
// Lattice vectors are rows, so a Cartesian position is the row vector of
// fractional coordinates right-multiplied by the lattice matrix. All
// lengths are in angstrom.
package crystal
