package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/dferrer/studyflow/internal/store"
	"github.com/dferrer/studyflow/internal/tracker"
)

type todayModel struct {
	svc    *tracker.Service
	width  int
	height int

	tasks      []store.Task
	categories []store.Category
	motivation string
	streak     *store.UserStreak
	cursor     int

	formActive bool
	form       *huh.Form

	// Form field pointers (survive value copies)
	formDescription *string
	formCategory    *string
	formDuration    *string
	formTime        *string
}

func newTodayModel(svc *tracker.Service) todayModel {
	desc, cat, dur, at := "", "", "", ""
	return todayModel{
		svc:             svc,
		formDescription: &desc,
		formCategory:    &cat,
		formDuration:    &dur,
		formTime:        &at,
	}
}

func (m *todayModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type todayDataMsg struct {
	tasks      []store.Task
	categories []store.Category
	motivation string
	streak     *store.UserStreak
}

func (m todayModel) load() tea.Cmd {
	return func() tea.Msg {
		tasks, _ := m.svc.TodayTasks()
		categories, _ := m.svc.Store.ListCategories(m.svc.UserID)
		motivation, _ := m.svc.Motivation()
		streak, _ := m.svc.Store.GetStreak(m.svc.UserID)
		return todayDataMsg{
			tasks:      tasks,
			categories: categories,
			motivation: motivation,
			streak:     streak,
		}
	}
}

func (m todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case todayDataMsg:
		m.tasks = msg.tasks
		m.categories = msg.categories
		m.motivation = msg.motivation
		m.streak = msg.streak
		if m.cursor >= len(m.tasks) {
			m.cursor = max(0, len(m.tasks)-1)
		}
		return m, nil

	case taskToggledMsg:
		if msg.err != nil {
			return m, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Error: %v", msg.err), isError: true}
			}
		}
		return m, m.load()

	case taskCreatedMsg:
		return m, m.load()

	case taskDeletedMsg:
		return m, m.load()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.tasks)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Toggle), key.Matches(msg, keys.Enter):
			return m, m.toggleSelected()
		case key.Matches(msg, keys.Start):
			return m, m.startSelected()
		case key.Matches(msg, keys.Delete):
			return m, m.deleteSelected()
		case key.Matches(msg, keys.New):
			return m.showForm()
		}
	}
	return m, nil
}

func (m todayModel) toggleSelected() tea.Cmd {
	if m.cursor >= len(m.tasks) {
		return nil
	}
	task := m.tasks[m.cursor]
	return func() tea.Msg {
		updated, err := m.svc.SetCompleted(task.ID, !task.Completed)
		return taskToggledMsg{task: updated, err: err}
	}
}

func (m todayModel) startSelected() tea.Cmd {
	if m.cursor >= len(m.tasks) {
		return nil
	}
	task := m.tasks[m.cursor]
	if task.Completed {
		return func() tea.Msg {
			return statusMsg{text: "Task already completed"}
		}
	}
	m.svc.StartTaskTimer(task)
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Timer started: %s (%dm)", task.Description, task.Duration)}
	}
}

func (m todayModel) deleteSelected() tea.Cmd {
	if m.cursor >= len(m.tasks) {
		return nil
	}
	id := m.tasks[m.cursor].ID
	return func() tea.Msg {
		if err := m.svc.Store.DeleteTask(m.svc.UserID, id); err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return taskDeletedMsg{id: id}
	}
}

func (m todayModel) showForm() (todayModel, tea.Cmd) {
	*m.formDescription = ""
	*m.formDuration = "15"
	*m.formTime = ""
	if len(m.categories) > 0 {
		*m.formCategory = m.categories[0].ID
	}

	var options []huh.Option[string]
	for _, c := range m.categories {
		options = append(options, huh.NewOption(c.Icon+" "+c.Name, c.ID))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Description").Value(m.formDescription),
			huh.NewSelect[string]().Title("Category").Options(options...).Value(m.formCategory),
			huh.NewInput().Title("Duration (min)").Value(m.formDuration),
			huh.NewInput().Title("Scheduled time (HH:MM, optional)").Value(m.formTime),
		).Title("New Task"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m todayModel) updateForm(msg tea.Msg) (todayModel, tea.Cmd) {
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
		return m, m.createTask()
	}

	return m, cmd
}

func (m todayModel) createTask() tea.Cmd {
	description := strings.TrimSpace(*m.formDescription)
	category := *m.formCategory
	duration, err := strconv.Atoi(strings.TrimSpace(*m.formDuration))
	scheduled := strings.TrimSpace(*m.formTime)

	return func() tea.Msg {
		if description == "" || category == "" || err != nil || duration <= 0 {
			return statusMsg{text: "Task needs a description, category and positive duration", isError: true}
		}
		task, err := m.svc.Store.CreateTask(m.svc.UserID, store.Task{
			Description:   description,
			Category:      category,
			Duration:      duration,
			ScheduledTime: scheduled,
			Date:          todayString(),
		})
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		return taskCreatedMsg{task: task}
	}
}

func (m todayModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}
	contentWidth := m.width - 4

	if m.formActive && m.form != nil {
		return activePanelStyle.Width(contentWidth).Render(m.form.View())
	}

	header := m.renderHeaderPanel(contentWidth)
	list := m.renderTaskList(contentWidth)
	return lipgloss.JoinVertical(lipgloss.Left, header, list)
}

func (m todayModel) renderHeaderPanel(w int) string {
	motivation := highlightStyle.Render(m.motivation)

	streakLine := ""
	if m.streak != nil {
		streakLine = fmt.Sprintf("🔥 %d day streak", m.streak.CurrentStreak)
		if m.streak.LongestStreak > m.streak.CurrentStreak {
			streakLine += mutedStyle.Render(fmt.Sprintf("  (best %d)", m.streak.LongestStreak))
		}
	}

	done, total, minutes := 0, len(m.tasks), 0
	for _, t := range m.tasks {
		if t.Completed {
			done++
			minutes += t.Duration
		}
	}
	progress := fmt.Sprintf("%d/%d tasks done · %s practiced", done, total, formatMinutes(minutes))

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left, motivation, "", streakLine, mutedStyle.Render(progress)),
	)
}

func (m todayModel) renderTaskList(w int) string {
	title := titleStyle.Render("Today's Plan")

	if len(m.tasks) == 0 {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, mutedStyle.Render("No tasks for today. Press n to add one.")),
		)
	}

	icons := map[string]string{}
	for _, c := range m.categories {
		icons[c.ID] = c.Icon
	}

	var rows []string
	rows = append(rows, title)
	for i, t := range m.tasks {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		check := "☐"
		if t.Completed {
			check = "☑"
			if i != m.cursor {
				style = completedItemStyle
			}
		}

		at := "     "
		if t.ScheduledTime != "" {
			at = t.ScheduledTime
		}

		row := fmt.Sprintf("%s%s %s %s %-40s %s",
			cursor, check, at, icons[t.Category], t.Description, mutedStyle.Render(formatMinutes(t.Duration)))
		rows = append(rows, style.Render(row))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  c: complete  s: start timer  n: new  d: delete"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
