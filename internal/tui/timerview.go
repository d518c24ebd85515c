package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dferrer/studyflow/internal/timer"
	"github.com/dferrer/studyflow/internal/tracker"
)

// defaultSessionMinutes is the length of a free session started from
// the timer tab, when no task was picked on the today tab.
const defaultSessionMinutes = 15

type timerViewModel struct {
	svc    *tracker.Service
	width  int
	height int

	state    timer.State
	taskName string
	bar      progress.Model
}

func newTimerViewModel(svc *tracker.Service) timerViewModel {
	return timerViewModel{
		svc: svc,
		bar: progress.New(progress.WithDefaultGradient()),
	}
}

func (m *timerViewModel) setSize(w, h int) {
	m.width = w
	m.height = h
	barWidth := w - 16
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 60 {
		barWidth = 60
	}
	m.bar.Width = barWidth
}

func (m timerViewModel) update(msg tea.Msg) (timerViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case timerStateMsg:
		return m.applyState(timer.State(msg)), nil

	case tickMsg:
		return m.applyState(m.svc.Timer.State()), nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			st := m.svc.Timer.State()
			switch {
			case st.Running:
				// Already going.
			case st.Remaining > 0:
				m.svc.Timer.Resume()
			default:
				m.svc.Timer.Start(defaultSessionMinutes, nil)
			}
			return m.applyState(m.svc.Timer.State()), nil

		case key.Matches(msg, keys.Pause):
			st := m.svc.Timer.State()
			if st.Running {
				m.svc.Timer.Pause()
			} else if st.Remaining > 0 {
				m.svc.Timer.Resume()
			}
			return m.applyState(m.svc.Timer.State()), nil

		case key.Matches(msg, keys.Stop):
			m.svc.Timer.Stop()
			m.taskName = ""
			return m.applyState(m.svc.Timer.State()), func() tea.Msg {
				return statusMsg{text: "Timer stopped"}
			}

		case key.Matches(msg, keys.Extend):
			st := m.svc.Timer.State()
			if st.Running || st.Remaining > 0 {
				m.svc.Timer.AddTime(5)
			}
			return m.applyState(m.svc.Timer.State()), nil
		}
	}
	return m, nil
}

func (m timerViewModel) applyState(st timer.State) timerViewModel {
	prev := m.state
	m.state = st

	switch {
	case st.TaskID == nil:
		m.taskName = ""
	case prev.TaskID == nil || *prev.TaskID != *st.TaskID:
		if task, err := m.svc.Store.GetTask(m.svc.UserID, *st.TaskID); err == nil {
			m.taskName = task.Description
		} else {
			m.taskName = ""
		}
	}
	return m
}

func (m timerViewModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}
	w := m.width - 4
	st := m.state

	title := titleStyle.Render("Practice Timer")

	var display, label, bar string
	switch {
	case st.Running:
		display = countdownRunningStyle.Width(w - 6).Render(timer.FormatTime(st.Remaining))
		label = accentStyle.Bold(true).Render("IN SESSION")
		bar = m.bar.ViewAs(m.svc.Timer.Progress() / 100)
	case st.Remaining > 0:
		display = countdownPausedStyle.Width(w - 6).Render(timer.FormatTime(st.Remaining))
		label = warningStyle.Bold(true).Render("PAUSED")
		bar = m.bar.ViewAs(m.svc.Timer.Progress() / 100)
	case st.Total > 0:
		display = countdownStyle.Width(w - 6).Render("Done!")
		label = successStyle.Bold(true).Render("SESSION COMPLETE")
		bar = m.bar.ViewAs(1)
	default:
		display = countdownStyle.Width(w - 6).Render(timer.FormatTime(defaultSessionMinutes * 60))
		label = mutedStyle.Render("Ready when you are")
		bar = mutedStyle.Render("Pick a task on the today tab and press s, or start here")
	}

	task := ""
	if m.taskName != "" {
		task = highlightStyle.Render(m.taskName)
	}

	var controls string
	switch {
	case st.Running:
		controls = mutedStyle.Render("space: pause  +: add 5m  x: stop")
	case st.Remaining > 0:
		controls = mutedStyle.Render("s/space: resume  +: add 5m  x: stop")
	default:
		controls = mutedStyle.Render(fmt.Sprintf("s: start %dm session", defaultSessionMinutes))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title, "", display, label, task, "", bar, "", controls,
	)
	return panelStyle.Width(w).Render(content)
}
