package crystal

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Lattice holds the three cell vectors as rows, in angstrom.
type Lattice [3][3]float64

// Dense returns the lattice as a 3x3 gonum matrix.
func (l Lattice) Dense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		l[0][0], l[0][1], l[0][2],
		l[1][0], l[1][1], l[1][2],
		l[2][0], l[2][1], l[2][2],
	})
}

// FromDense converts a 3x3 gonum matrix back into a Lattice.
func FromDense(m mat.Matrix) Lattice {
	var l Lattice
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			l[i][j] = m.At(i, j)
		}
	}
	return l
}

// Volume returns the cell volume, always nonnegative.
func (l Lattice) Volume() float64 {
	return math.Abs(mat.Det(l.Dense()))
}

// Degenerate reports whether the cell vectors are linearly dependent
// (or close enough that fractional coordinates are meaningless).
func (l Lattice) Degenerate() bool {
	return l.Volume() < 1e-10
}

// Cartesian converts a fractional coordinate to Cartesian: c = f · L.
func (l Lattice) Cartesian(f [3]float64) [3]float64 {
	var c [3]float64
	for j := 0; j < 3; j++ {
		c[j] = f[0]*l[0][j] + f[1]*l[1][j] + f[2]*l[2][j]
	}
	return c
}

// Inverse returns the matrix inverse of the lattice, for converting
// Cartesian positions back to fractional ones.
func (l Lattice) Inverse() (Lattice, error) {
	var inv mat.Dense
	if err := inv.Inverse(l.Dense()); err != nil {
		return Lattice{}, err
	}
	return FromDense(&inv), nil
}

// Deform right-multiplies the lattice by the deformation gradient g,
// returning the deformed lattice. Fractional coordinates are invariant
// under this operation.
func (l Lattice) Deform(g mat.Matrix) Lattice {
	var out mat.Dense
	out.Mul(l.Dense(), g)
	return FromDense(&out)
}
