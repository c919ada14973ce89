package main

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

type gameDoneMsg struct {
	done  int
	total int
}

type simulationDoneMsg struct{}

// progressModel shows a bar while a simulation runs. ctrl+c cancels the
// simulation.
type progressModel struct {
	bar    progress.Model
	done   int
	total  int
	cancel context.CancelFunc
}

func newProgressModel(total int, cancel context.CancelFunc) progressModel {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40
	return progressModel{bar: bar, total: total, cancel: cancel}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(msg.Width-20, 60))
	case gameDoneMsg:
		// Completion callbacks can arrive out of order
		m.done = max(m.done, msg.done)
		m.total = msg.total
	case simulationDoneMsg:
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	return fmt.Sprintf("%s %d/%d games\n", m.bar.ViewAs(m.percent()), m.done, m.total)
}

func (m progressModel) percent() float64 {
	if m.total == 0 {
		return 0
	}
	return float64(m.done) / float64(m.total)
}
