package perturb

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/rattlegen/internal/crystal"
)

// SymmetricStrain draws a random symmetric 3x3 strain tensor whose six
// independent components are each uniform in [-max, +max].
func SymmetricStrain(rng *rand.Rand, max float64) *mat.SymDense {
	eps := mat.NewSymDense(3, nil)
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			eps.SetSym(i, j, uniform(rng, -max, max))
		}
	}
	return eps
}

// ApplyStrain deforms the frame's lattice by the gradient I + eps with
// eps drawn from SymmetricStrain. Fractional coordinates are left
// untouched; atoms move in Cartesian space because the cell does.
// A zero max is the identity and consumes no randomness.
func ApplyStrain(f *crystal.Frame, rng *rand.Rand, max float64) {
	if max == 0 {
		return
	}
	eps := SymmetricStrain(rng, max)
	grad := mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
	grad.Add(grad, eps)
	f.Lattice = f.Lattice.Deform(grad)
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}
