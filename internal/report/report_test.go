package report

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestHistogramEmpty(t *testing.T) {
	out := Histogram(nil, 10)
	if !strings.Contains(out, "no displacements") {
		t.Errorf("unexpected output for empty input: %q", out)
	}
}

func TestHistogramAllZero(t *testing.T) {
	out := Histogram([]float64{0, 0, 0}, 10)
	if !strings.Contains(out, "all displacements zero") {
		t.Errorf("unexpected output for zero input: %q", out)
	}
}

func TestHistogramRendersCaption(t *testing.T) {
	mags := []float64{0.01, 0.02, 0.05, 0.05, 0.09, 0.1}
	out := Histogram(mags, 5)
	if !strings.Contains(out, "displacement histogram") {
		t.Errorf("missing caption in %q", out)
	}
	if !strings.Contains(out, "6 atoms") {
		t.Errorf("missing atom count in %q", out)
	}
}

func TestVolumeSeriesTooShort(t *testing.T) {
	out := VolumeSeries([]float64{100.0})
	if !strings.Contains(out, "not enough frames") {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestSummaryPanel(t *testing.T) {
	out := Summary("first line", "second line")
	if !strings.Contains(out, "first line") || !strings.Contains(out, "second line") {
		t.Fatalf("summary lost its content: %q", out)
	}
	// Rounded border from the panel style.
	if !strings.Contains(out, "╭") || !strings.Contains(out, "╰") {
		t.Errorf("summary missing panel border: %q", out)
	}
}

func TestProgressModelUpdates(t *testing.T) {
	m := NewProgressModel("XDATCAR")

	next, _ := m.Update(ProgressMsg{Done: 3, Total: 10})
	m = next.(ProgressModel)
	view := m.View()
	if !strings.Contains(view, "3 / 10") {
		t.Errorf("view missing progress count: %q", view)
	}

	next, cmd := m.Update(DoneMsg{})
	m = next.(ProgressModel)
	if cmd == nil {
		t.Error("expected quit command after DoneMsg")
	}
	if !strings.Contains(m.View(), "done") {
		t.Errorf("view missing completion: %q", m.View())
	}
}

func TestProgressModelQuitKey(t *testing.T) {
	m := NewProgressModel("XDATCAR")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Error("expected quit command on ctrl+c")
	}
}
