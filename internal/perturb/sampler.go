package perturb

// SampleIndices selects every stride-th frame of an n-frame
// trajectory, starting from the first: {0, s, 2s, ...}. A stride of 1
// keeps everything; a stride of at least n keeps only the first frame.
func SampleIndices(n, stride int) ([]int, error) {
	if stride < 1 {
		return nil, &ParameterError{Name: "step_size", Value: stride}
	}
	if n <= 0 {
		return nil, nil
	}
	out := make([]int, 0, (n+stride-1)/stride)
	for i := 0; i < n; i += stride {
		out = append(out, i)
	}
	return out, nil
}
