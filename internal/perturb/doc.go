// Package perturb generates randomly strained and rattled structures
// from a relaxation or MD trajectory, for building interatomic
// potential training databases.
//
// The pipeline is read -> sample -> perturb -> write:
//
//	d := perturb.NewDriver(params)
//	res, err := d.Run(ctx)
//
// Every emitted structure gets its own RNG, seeded from the base seed
// plus its structure ID, so a run is reproducible for a fixed seed
// regardless of worker count.
package perturb
