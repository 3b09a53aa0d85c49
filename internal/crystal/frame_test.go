package crystal

import (
	"errors"
	"math"
	"testing"
)

func cubic(a float64) Lattice {
	return Lattice{{a, 0, 0}, {0, a, 0}, {0, 0, a}}
}

func testFrame() *Frame {
	return &Frame{
		Comment: "B N",
		Lattice: cubic(2.5),
		Species: []string{"B", "N"},
		Counts:  []int{1, 1},
		Frac:    [][3]float64{{0, 0, 0}, {0.5, 0.5, 0.5}},
	}
}

func TestLatticeVolume(t *testing.T) {
	l := cubic(3.0)
	if v := l.Volume(); math.Abs(v-27.0) > 1e-12 {
		t.Errorf("expected volume 27, got %f", v)
	}

	tric := Lattice{{2, 0, 0}, {1, 2, 0}, {0, 1, 2}}
	if v := tric.Volume(); math.Abs(v-8.0) > 1e-9 {
		t.Errorf("expected volume 8, got %f", v)
	}
}

func TestLatticeCartesianRoundTrip(t *testing.T) {
	l := Lattice{{4.0, 0.1, 0}, {0.2, 3.5, 0}, {0, 0.3, 10.0}}
	inv, err := l.Inverse()
	if err != nil {
		t.Fatalf("inverse: %v", err)
	}

	f := [3]float64{0.25, 0.8, 0.33}
	c := l.Cartesian(f)
	back := inv.Cartesian(c)

	for k := 0; k < 3; k++ {
		if math.Abs(back[k]-f[k]) > 1e-12 {
			t.Errorf("component %d: expected %f, got %f", k, f[k], back[k])
		}
	}
}

func TestLatticeDeformIdentity(t *testing.T) {
	l := cubic(2.0)
	ident := Lattice{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}
	got := l.Deform(ident.Dense())
	if got != l {
		t.Errorf("identity deformation changed lattice: %v", got)
	}
}

func TestFrameValidate(t *testing.T) {
	if err := testFrame().Validate(); err != nil {
		t.Errorf("valid frame rejected: %v", err)
	}

	f := testFrame()
	f.Counts = []int{1, 2}
	if err := f.Validate(); !errors.Is(err, ErrSpeciesMismatch) {
		t.Errorf("expected species mismatch, got %v", err)
	}

	f = testFrame()
	f.Lattice = Lattice{}
	if err := f.Validate(); !errors.Is(err, ErrDegenerateLattice) {
		t.Errorf("expected degenerate lattice, got %v", err)
	}

	f = testFrame()
	f.Frac[1][2] = math.NaN()
	if err := f.Validate(); err == nil {
		t.Error("expected error for NaN coordinate")
	}
}

func TestFrameCloneIndependent(t *testing.T) {
	f := testFrame()
	c := f.Clone()
	c.Frac[0][0] = 0.9
	c.Lattice[0][0] = 99

	if f.Frac[0][0] != 0 {
		t.Error("clone shares coordinate storage with original")
	}
	if f.Lattice[0][0] != 2.5 {
		t.Error("clone shares lattice with original")
	}
}

func TestFrameWrap(t *testing.T) {
	f := testFrame()
	f.Frac[0] = [3]float64{1.25, -0.25, 0.5}
	f.Wrap()

	want := [3]float64{0.25, 0.75, 0.5}
	for k := 0; k < 3; k++ {
		if math.Abs(f.Frac[0][k]-want[k]) > 1e-12 {
			t.Errorf("component %d: expected %f, got %f", k, want[k], f.Frac[0][k])
		}
	}
}

func TestSymbolList(t *testing.T) {
	f := &Frame{
		Species: []string{"Cu", "B", "N"},
		Counts:  []int{1, 2, 2},
		Frac:    make([][3]float64, 5),
	}
	want := []string{"Cu", "B", "B", "N", "N"}
	got := f.SymbolList()
	if len(got) != len(want) {
		t.Fatalf("expected %d symbols, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("symbol %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
