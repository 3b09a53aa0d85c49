package report

import (
	"fmt"
	"strings"

	"github.com/guptarohit/asciigraph"
)

// Histogram renders an ASCII histogram of displacement magnitudes in
// angstrom, binned into nbins equal-width buckets.
func Histogram(mags []float64, nbins int) string {
	if len(mags) == 0 || nbins < 1 {
		return Subtle.Render("no displacements recorded")
	}

	max := mags[0]
	for _, m := range mags {
		if m > max {
			max = m
		}
	}
	if max == 0 {
		return Subtle.Render(fmt.Sprintf("%d atoms, all displacements zero", len(mags)))
	}

	counts := make([]float64, nbins)
	width := max / float64(nbins)
	for _, m := range mags {
		idx := int(m / width)
		if idx >= nbins {
			idx = nbins - 1
		}
		counts[idx]++
	}

	graph := asciigraph.Plot(counts,
		asciigraph.Height(8),
		asciigraph.Width(60),
		asciigraph.Caption(fmt.Sprintf("displacement histogram, 0 to %.3f A, %d atoms", max, len(mags))),
	)

	var s strings.Builder
	s.WriteString(graph)
	s.WriteString("\n")
	return s.String()
}

// VolumeSeries renders per-frame cell volumes as an ASCII plot.
func VolumeSeries(volumes []float64) string {
	if len(volumes) < 2 {
		return Subtle.Render("not enough frames to plot")
	}
	return asciigraph.Plot(volumes,
		asciigraph.Height(10),
		asciigraph.Width(70),
		asciigraph.Caption("cell volume per frame (A^3)"),
	)
}
