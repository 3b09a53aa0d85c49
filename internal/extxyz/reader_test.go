package extxyz

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const dump = `3
Lattice="4.0 0.0 0.0 0.0 4.0 0.0 0.0 0.0 4.0" Properties=species:S:1:pos:R:3 Time=0.0
N 2.0 2.0 2.0
Cu 0.0 0.0 0.0
B 1.0 1.0 1.0
3
Lattice="4.0 0.0 0.0 0.0 4.0 0.0 0.0 0.0 4.0" Properties=species:S:1:pos:R:3 Time=1.0
N 2.0 2.0 2.4
Cu 0.4 0.0 0.0
B 1.0 1.4 1.0
`

func writeDump(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dump.xyz")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestReadFrameFirstAppearanceOrder(t *testing.T) {
	f, err := ReadFrame(writeDump(t, dump), 0, false)
	if err != nil {
		t.Fatal(err)
	}

	if len(f.Species) != 3 {
		t.Fatalf("expected 3 species, got %v", f.Species)
	}
	want := []string{"N", "Cu", "B"}
	for i := range want {
		if f.Species[i] != want[i] {
			t.Errorf("species %d: expected %s, got %s", i, want[i], f.Species[i])
		}
		if f.Counts[i] != 1 {
			t.Errorf("species %s: expected count 1, got %d", want[i], f.Counts[i])
		}
	}

	// N sits at 2.0 in a 4.0 cube: fractional 0.5.
	for k := 0; k < 3; k++ {
		if math.Abs(f.Frac[0][k]-0.5) > 1e-12 {
			t.Errorf("N component %d: expected 0.5, got %f", k, f.Frac[0][k])
		}
	}
}

func TestReadFrameSorted(t *testing.T) {
	f, err := ReadFrame(writeDump(t, dump), 0, true)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"B", "Cu", "N"}
	for i := range want {
		if f.Species[i] != want[i] {
			t.Errorf("species %d: expected %s, got %s", i, want[i], f.Species[i])
		}
	}
	// B leads after sorting, at 1.0/4.0 = 0.25.
	if math.Abs(f.Frac[0][0]-0.25) > 1e-12 {
		t.Errorf("B x: expected 0.25, got %f", f.Frac[0][0])
	}
}

func TestReadFrameByIndex(t *testing.T) {
	f, err := ReadFrame(writeDump(t, dump), 1, false)
	if err != nil {
		t.Fatal(err)
	}
	// Frame 1 moved N to z = 2.4 -> fractional 0.6.
	if math.Abs(f.Frac[0][2]-0.6) > 1e-12 {
		t.Errorf("expected frame 1 N z = 0.6, got %f", f.Frac[0][2])
	}
}

func TestReadFrameOutOfRange(t *testing.T) {
	_, err := ReadFrame(writeDump(t, dump), 5, false)
	if !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("expected ErrFrameOutOfRange, got %v", err)
	}

	_, err = ReadFrame(writeDump(t, dump), -1, false)
	if !errors.Is(err, ErrFrameOutOfRange) {
		t.Errorf("expected ErrFrameOutOfRange for negative index, got %v", err)
	}
}

func TestReadFrameMalformed(t *testing.T) {
	cases := []struct {
		name, content string
	}{
		{"no lattice", "1\nTime=0.0\nN 0 0 0\n"},
		{"bad count", "x\ncomment\n"},
		{"truncated atoms", "3\nLattice=\"4 0 0 0 4 0 0 0 4\"\nN 0 0 0\n"},
		{"short atom line", "1\nLattice=\"4 0 0 0 4 0 0 0 4\"\nN 0 0\n"},
		{"degenerate lattice", "1\nLattice=\"0 0 0 0 0 0 0 0 0\"\nN 0 0 0\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadFrame(writeDump(t, tc.content), 0, false)
			if !errors.Is(err, ErrMalformedDump) {
				t.Errorf("expected ErrMalformedDump, got %v", err)
			}
		})
	}
}
