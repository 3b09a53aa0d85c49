package perturb

import (
	"math"
	"sync"
)

// Stats accumulates displacement and volume statistics over all
// structures emitted by one run. Safe for concurrent use by the
// driver's workers.
type Stats struct {
	mu         sync.Mutex
	magnitudes []float64
	sum        float64
	maxDisp    float64
	minVol     float64
	maxVol     float64
	structures int
}

func NewStats() *Stats {
	return &Stats{minVol: math.Inf(1), maxVol: math.Inf(-1)}
}

// Observe records one structure: its per-atom displacement magnitudes
// and the ratio of its deformed volume to the source frame's.
func (s *Stats) Observe(mags []float64, volRatio float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.structures++
	for _, m := range mags {
		s.sum += m
		if m > s.maxDisp {
			s.maxDisp = m
		}
	}
	s.magnitudes = append(s.magnitudes, mags...)
	s.minVol = math.Min(s.minVol, volRatio)
	s.maxVol = math.Max(s.maxVol, volRatio)
}

// Structures returns the number of observed structures.
func (s *Stats) Structures() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.structures
}

// MaxDisplacement returns the largest per-atom displacement seen.
func (s *Stats) MaxDisplacement() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxDisp
}

// MeanDisplacement returns the mean per-atom displacement.
func (s *Stats) MeanDisplacement() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.magnitudes) == 0 {
		return 0
	}
	return s.sum / float64(len(s.magnitudes))
}

// VolumeRange returns the smallest and largest volume ratio observed.
// Both are 1 when no structure was recorded or strain was disabled.
func (s *Stats) VolumeRange() (lo, hi float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.structures == 0 {
		return 1, 1
	}
	return s.minVol, s.maxVol
}

// Magnitudes returns a copy of every per-atom displacement magnitude,
// for histogramming.
func (s *Stats) Magnitudes() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]float64, len(s.magnitudes))
	copy(out, s.magnitudes)
	return out
}
