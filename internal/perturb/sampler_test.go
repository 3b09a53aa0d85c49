package perturb

import (
	"errors"
	"testing"
)

func TestSampleIndices(t *testing.T) {
	tests := []struct {
		n, stride int
		want      []int
	}{
		{10, 1, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{10, 3, []int{0, 3, 6, 9}},
		{10, 4, []int{0, 4, 8}},
		{10, 10, []int{0}},
		{10, 99, []int{0}},
		{1, 1, []int{0}},
	}

	for _, tt := range tests {
		got, err := SampleIndices(tt.n, tt.stride)
		if err != nil {
			t.Fatalf("n=%d stride=%d: %v", tt.n, tt.stride, err)
		}
		if len(got) != len(tt.want) {
			t.Fatalf("n=%d stride=%d: expected %d indices, got %d", tt.n, tt.stride, len(tt.want), len(got))
		}
		for i := range tt.want {
			if got[i] != tt.want[i] {
				t.Errorf("n=%d stride=%d index %d: expected %d, got %d", tt.n, tt.stride, i, tt.want[i], got[i])
			}
		}
	}
}

func TestSampleIndicesInvalidStride(t *testing.T) {
	for _, stride := range []int{0, -1, -10} {
		_, err := SampleIndices(10, stride)
		if !errors.Is(err, ErrInvalidParameter) {
			t.Errorf("stride %d: expected ErrInvalidParameter, got %v", stride, err)
		}
	}
}
