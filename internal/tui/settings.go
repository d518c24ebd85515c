package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/dferrer/studyflow/internal/store"
	"github.com/dferrer/studyflow/internal/tracker"
)

// settingsSavedMsg tells the app to rewire the timer's chime and
// notification sinks against the new settings.
type settingsSavedMsg struct {
	settings *store.UserSettings
}

type settingsModel struct {
	svc    *tracker.Service
	width  int
	height int

	current *store.UserSettings

	formActive bool
	form       *huh.Form

	formSound  *bool
	formNotify *bool
	formAuto   *bool
	formTheme  *string
}

func newSettingsModel(svc *tracker.Service) settingsModel {
	sound, notify, auto := true, true, false
	theme := "default"
	return settingsModel{
		svc:        svc,
		formSound:  &sound,
		formNotify: &notify,
		formAuto:   &auto,
		formTheme:  &theme,
	}
}

func (m *settingsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type settingsDataMsg struct {
	settings *store.UserSettings
}

func (m settingsModel) load() tea.Cmd {
	return func() tea.Msg {
		settings, err := m.svc.Store.GetSettings(m.svc.UserID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return settingsDataMsg{settings: settings}
	}
}

func (m settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		m.current = msg.settings
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return m.showForm()
		}
	}
	return m, nil
}

func (m settingsModel) showForm() (settingsModel, tea.Cmd) {
	if m.current == nil {
		return m, m.load()
	}
	*m.formSound = m.current.SoundEnabled
	*m.formNotify = m.current.NotificationsEnabled
	*m.formAuto = m.current.AutoStartNext
	*m.formTheme = m.current.Theme

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Chime when a session completes").Value(m.formSound),
			huh.NewConfirm().Title("Show completion notifications").Value(m.formNotify),
			huh.NewConfirm().Title("Auto-start the next scheduled task").Value(m.formAuto),
			huh.NewSelect[string]().Title("Theme").
				Options(
					huh.NewOption("Default", "default"),
					huh.NewOption("Dark", "dark"),
					huh.NewOption("Light", "light"),
				).
				Value(m.formTheme),
		).Title("Settings"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		return m, m.save()
	}

	return m, cmd
}

func (m settingsModel) save() tea.Cmd {
	patch := store.SettingsPatch{
		SoundEnabled:         m.formSound,
		NotificationsEnabled: m.formNotify,
		AutoStartNext:        m.formAuto,
		Theme:                m.formTheme,
	}
	return func() tea.Msg {
		settings, err := m.svc.Store.UpdateSettings(m.svc.UserID, patch)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return settingsSavedMsg{settings: settings}
	}
}

func (m settingsModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}
	w := m.width - 4

	if m.formActive && m.form != nil {
		return activePanelStyle.Width(w).Render(m.form.View())
	}

	title := titleStyle.Render("Settings")
	if m.current == nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("Loading...")),
		)
	}

	rows := []string{
		title,
		"",
		settingRow("Completion chime", m.current.SoundEnabled),
		settingRow("Notifications", m.current.NotificationsEnabled),
		settingRow("Auto-start next task", m.current.AutoStartNext),
		fmt.Sprintf("  %-28s %s", "Theme", accentStyle.Render(m.current.Theme)),
		"",
		mutedStyle.Render("  enter: edit"),
	}
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func settingRow(label string, on bool) string {
	state := mutedStyle.Render("off")
	if on {
		state = successStyle.Render("on")
	}
	return fmt.Sprintf("  %-28s %s", label, state)
}
