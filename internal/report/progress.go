package report

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// ProgressMsg reports how many structures the driver has written so far.
type ProgressMsg struct {
	Done  int
	Total int
}

// DoneMsg ends the progress view. Err carries the run's failure, if any.
type DoneMsg struct {
	Err error
}

// ProgressModel is a minimal live view for a generation run. The driver
// pushes ProgressMsg values through Program.Send and a final DoneMsg
// when it returns; the model just renders the current count.
type ProgressModel struct {
	Source string

	done     int
	total    int
	finished bool
	err      error
}

func NewProgressModel(source string) ProgressModel {
	return ProgressModel{Source: source}
}

func (m ProgressModel) Init() tea.Cmd {
	return nil
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
		return m, nil
	case DoneMsg:
		m.finished = true
		m.err = msg.Err
		return m, tea.Quit
	}
	return m, nil
}

func (m ProgressModel) View() string {
	var s strings.Builder

	s.WriteString(Title.Render("rattlegen") + Subtle.Render("  "+m.Source) + "\n\n")

	percent := 0.0
	if m.total > 0 {
		percent = float64(m.done) / float64(m.total)
	}
	s.WriteString("  " + Bar(percent, 40) + "\n")
	s.WriteString("  " + Field("structures", fmt.Sprintf("%d / %d", m.done, m.total)) + "\n\n")

	if m.finished {
		if m.err != nil {
			s.WriteString(Bad.Render("  failed: "+m.err.Error()) + "\n")
		} else {
			s.WriteString(Good.Render("  done") + "\n")
		}
	} else {
		s.WriteString(KeyHint.Render("  q to abort") + "\n")
	}

	return s.String()
}
