package perturb

import (
	"math"
	"math/rand"

	"github.com/san-kum/rattlegen/internal/crystal"
)

// RandomDisplacement draws one Cartesian displacement vector with a
// direction uniform on the unit sphere and a magnitude uniform in
// [0, max].
func RandomDisplacement(rng *rand.Rand, max float64) [3]float64 {
	// Uniform direction: z uniform in [-1,1], azimuth uniform in [0,2pi).
	z := uniform(rng, -1, 1)
	phi := uniform(rng, 0, 2*math.Pi)
	r := math.Sqrt(1 - z*z)
	mag := uniform(rng, 0, max)
	return [3]float64{
		mag * r * math.Cos(phi),
		mag * r * math.Sin(phi),
		mag * z,
	}
}

// ApplyRattle displaces every atom of the frame independently in
// Cartesian space, bounded by max, and converts the result back to
// fractional coordinates against the frame's (possibly strained)
// lattice. The returned slice holds each atom's displacement
// magnitude. A zero max consumes no randomness and moves nothing.
func ApplyRattle(f *crystal.Frame, rng *rand.Rand, max float64) ([]float64, error) {
	mags := make([]float64, len(f.Frac))
	if max == 0 {
		return mags, nil
	}

	inv, err := f.Lattice.Inverse()
	if err != nil {
		return nil, crystal.ErrDegenerateLattice
	}

	for i := range f.Frac {
		d := RandomDisplacement(rng, max)
		mags[i] = math.Sqrt(d[0]*d[0] + d[1]*d[1] + d[2]*d[2])

		c := f.Lattice.Cartesian(f.Frac[i])
		for k := 0; k < 3; k++ {
			c[k] += d[k]
		}
		f.Frac[i] = inv.Cartesian(c)
	}
	return mags, nil
}
