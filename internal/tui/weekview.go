package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/dferrer/studyflow/internal/export"
	"github.com/dferrer/studyflow/internal/store"
	"github.com/dferrer/studyflow/internal/tracker"
	"github.com/dferrer/studyflow/internal/week"
)

type weekModel struct {
	svc    *tracker.Service
	width  int
	height int

	startDate  string // Monday of the displayed week
	grid       *week.View
	categories []store.Category

	formActive bool
	form       *huh.Form

	formPath *string
	formType *string
	formDate *string
}

func newWeekModel(svc *tracker.Service) weekModel {
	path, typ, date := "", "", ""
	return weekModel{
		svc:       svc,
		startDate: week.MondayString(time.Now()),
		formPath:  &path,
		formType:  &typ,
		formDate:  &date,
	}
}

func (m *weekModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type weekDataMsg struct {
	grid       *week.View
	categories []store.Category
}

func (m weekModel) load() tea.Cmd {
	start := m.startDate
	return func() tea.Msg {
		v, err := m.svc.Weeks.ViewFor(m.svc.UserID, start)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		categories, _ := m.svc.Store.ListCategories(m.svc.UserID)
		return weekDataMsg{grid: v, categories: categories}
	}
}

func (m weekModel) update(msg tea.Msg) (weekModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case weekDataMsg:
		m.grid = msg.grid
		m.categories = msg.categories
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			m.startDate = shiftWeek(m.startDate, -7)
			return m, m.load()
		case key.Matches(msg, keys.Right):
			m.startDate = shiftWeek(m.startDate, 7)
			return m, m.load()
		case key.Matches(msg, keys.Export):
			return m, m.exportWeek()
		case key.Matches(msg, keys.Template):
			return m, writeTemplate()
		case key.Matches(msg, keys.Import):
			return m.showImportForm()
		}
	}
	return m, nil
}

func shiftWeek(startDate string, days int) string {
	t, err := time.ParseInLocation(week.DateFormat, startDate, time.Local)
	if err != nil {
		return startDate
	}
	return t.AddDate(0, 0, days).Format(week.DateFormat)
}

func (m weekModel) exportWeek() tea.Cmd {
	v := m.grid
	categories := m.categories
	return func() tea.Msg {
		if v == nil {
			return statusMsg{text: "Nothing to export yet", isError: true}
		}
		data, err := export.Week(v, categories, time.Now())
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export failed: %v", err), isError: true}
		}
		path := fmt.Sprintf("week-%s.json", v.StartDate)
		if err := export.WriteFile(path, data); err != nil {
			return statusMsg{text: fmt.Sprintf("Export failed: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func writeTemplate() tea.Cmd {
	return func() tea.Msg {
		payload := export.WeekTemplate(time.Now())
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Template failed: %v", err), isError: true}
		}
		path := fmt.Sprintf("template-%s.json", payload.WeekStart)
		if err := export.WriteFile(path, data); err != nil {
			return statusMsg{text: fmt.Sprintf("Template failed: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (m weekModel) showImportForm() (weekModel, tea.Cmd) {
	*m.formPath = ""
	*m.formType = export.TypeFullWeek
	*m.formDate = todayString()

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("File to import").Value(m.formPath),
			huh.NewSelect[string]().Title("Import as").
				Options(
					huh.NewOption("Full week", export.TypeFullWeek),
					huh.NewOption("Single day", export.TypeSingleDay),
				).
				Value(m.formType),
			huh.NewInput().Title("Target date (single day only)").Value(m.formDate),
		).Title("Import Tasks"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m weekModel) updateForm(msg tea.Msg) (weekModel, tea.Cmd) {
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
		return m, tea.Sequence(m.runImport(), m.load())
	}

	return m, cmd
}

func (m weekModel) runImport() tea.Cmd {
	path := strings.TrimSpace(*m.formPath)
	typ := *m.formType
	date := strings.TrimSpace(*m.formDate)

	return func() tea.Msg {
		raw, err := os.ReadFile(path)
		if err != nil {
			return importDoneMsg{message: fmt.Sprintf("Cannot read %s: %v", path, err), isError: true}
		}

		// Override the payload's own type and date with what the dialog
		// selected, the same way the import subcommand's flags do.
		if typ == export.TypeSingleDay {
			var payload export.Payload
			if err := json.Unmarshal(raw, &payload); err == nil {
				payload.Type = export.TypeSingleDay
				payload.Date = date
				raw, _ = json.Marshal(payload)
			}
		}

		result, err := export.Import(m.svc.Store, m.svc.UserID, raw)
		if err != nil {
			return importDoneMsg{message: fmt.Sprintf("Import failed: %v", err), isError: true}
		}
		return importDoneMsg{message: result.Message, isError: !result.Success}
	}
}

func (m weekModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}
	contentWidth := m.width - 4

	if m.formActive && m.form != nil {
		return activePanelStyle.Width(contentWidth).Render(m.form.View())
	}

	if m.grid == nil {
		return panelStyle.Width(contentWidth).Render(mutedStyle.Render("Loading week..."))
	}

	header := titleStyle.Render(fmt.Sprintf("Week %s → %s", m.grid.StartDate, m.grid.EndDate))
	nav := mutedStyle.Render("←/→: other weeks  i: import  e: export  t: template")

	icons := map[string]string{}
	for _, c := range m.categories {
		icons[c.ID] = c.Icon
	}

	today := todayString()
	var days []string
	for _, d := range m.grid.Days {
		days = append(days, m.renderDay(d, icons, d.Date == today, contentWidth))
	}

	body := strings.Join(days, "\n")
	return lipgloss.JoinVertical(lipgloss.Left,
		panelStyle.Width(contentWidth).Render(header+"  "+nav),
		body,
	)
}

func (m weekModel) renderDay(d week.DayView, icons map[string]string, isToday bool, w int) string {
	name := d.DayName
	if isToday {
		name = highlightStyle.Render(name + " (today)")
	} else {
		name = accentStyle.Render(name)
	}

	head := fmt.Sprintf("%s  %s", name, mutedStyle.Render(d.Date))
	if d.TotalMinutes > 0 {
		head += mutedStyle.Render("  · " + formatMinutes(d.TotalMinutes) + " planned")
	}

	var lines []string
	lines = append(lines, head)
	if len(d.Tasks) == 0 {
		lines = append(lines, mutedStyle.Render("  —"))
	}
	for _, t := range d.Tasks {
		check := "☐"
		style := normalItemStyle
		if t.Completed {
			check = "☑"
			style = completedItemStyle
		}
		at := "     "
		if t.ScheduledTime != "" {
			at = t.ScheduledTime
		}
		lines = append(lines, style.Render(fmt.Sprintf("  %s %s %s %s (%s)",
			check, at, icons[t.Category], t.Description, formatMinutes(t.Duration))))
	}

	return panelStyle.Width(w).Render(strings.Join(lines, "\n"))
}
