package tui

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dferrer/studyflow/internal/store"
	"github.com/dferrer/studyflow/internal/tracker"
	"github.com/dferrer/studyflow/internal/week"
)

type statsModel struct {
	svc    *tracker.Service
	width  int
	height int

	stats      store.Stats
	categories []store.Category
	streak     *store.UserStreak
	tasksDone  int
	tasksTotal int

	chart barchart.Model
	goals progress.Model
}

func newStatsModel(svc *tracker.Service) statsModel {
	return statsModel{
		svc:   svc,
		chart: barchart.New(60, 10),
		goals: progress.New(progress.WithDefaultGradient()),
	}
}

func (m *statsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

type statsDataMsg struct {
	stats      store.Stats
	categories []store.Category
	streak     *store.UserStreak
	tasksDone  int
	tasksTotal int
}

func (m statsModel) load() tea.Cmd {
	return func() tea.Msg {
		stats, err := m.svc.Weeks.Stats(m.svc.UserID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error: %v", err), isError: true}
		}
		categories, _ := m.svc.Store.ListCategories(m.svc.UserID)
		streak, _ := m.svc.Store.GetStreak(m.svc.UserID)

		monday := week.MondayString(time.Now())
		sunday := shiftWeek(monday, 6)
		tasks, _ := m.svc.Store.ListTasksBetween(m.svc.UserID, monday, sunday)
		done := 0
		for _, t := range tasks {
			if t.Completed {
				done++
			}
		}

		return statsDataMsg{
			stats:      stats,
			categories: categories,
			streak:     streak,
			tasksDone:  done,
			tasksTotal: len(tasks),
		}
	}
}

func (m statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		m.stats = msg.stats
		m.categories = msg.categories
		m.streak = msg.streak
		m.tasksDone = msg.tasksDone
		m.tasksTotal = msg.tasksTotal
		m.buildChart()
		return m, nil
	}
	return m, nil
}

func (m *statsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	m.chart = barchart.New(chartWidth, 10)

	var bars []barchart.BarData
	for _, c := range m.categories {
		hours := float64(m.stats[c.ID]) / 60.0
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Color))
		bars = append(bars, barchart.BarData{
			Label: c.Icon + " " + c.Name,
			Values: []barchart.BarValue{
				{Name: c.Name, Value: hours, Style: style},
			},
		})
	}
	if len(bars) == 0 {
		return
	}

	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m statsModel) view() string {
	if m.width < 20 {
		return "Terminal too small"
	}
	w := m.width - 4

	header := titleStyle.Render("This Week")
	summary := m.renderSummary()
	goals := m.renderGoals(w)

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", summary, "", m.chart.View(), "", goals,
		),
	)
}

func (m statsModel) renderSummary() string {
	totalMinutes := 0
	for _, minutes := range m.stats {
		totalMinutes += minutes
	}

	parts := []string{
		accentStyle.Render(formatHours(totalMinutes)) + mutedStyle.Render(" practiced"),
	}

	if m.tasksTotal > 0 {
		rate := 100 * m.tasksDone / m.tasksTotal
		parts = append(parts, fmt.Sprintf("%d/%d tasks (%d%%)", m.tasksDone, m.tasksTotal, rate))
	}

	if m.streak != nil && m.streak.CurrentStreak > 0 {
		parts = append(parts, fmt.Sprintf("🔥 %d day streak", m.streak.CurrentStreak))
	}
	if m.streak != nil && m.streak.TotalPracticeDays > 0 {
		parts = append(parts, mutedStyle.Render(fmt.Sprintf("%d practice days total", m.streak.TotalPracticeDays)))
	}

	return strings.Join(parts, mutedStyle.Render("  ·  "))
}

// renderGoals shows one progress bar per category against its weekly
// hour goal, sorted by completion descending.
func (m statsModel) renderGoals(w int) string {
	if len(m.categories) == 0 {
		return mutedStyle.Render("No categories yet")
	}

	barWidth := min(w-36, 40)
	if barWidth < 10 {
		barWidth = 10
	}
	bar := m.goals
	bar.Width = barWidth

	type goalRow struct {
		label   string
		percent float64
		detail  string
	}

	var rows []goalRow
	for _, c := range m.categories {
		hours := float64(m.stats[c.ID]) / 60.0
		percent := 0.0
		if c.WeeklyGoal > 0 {
			percent = hours / c.WeeklyGoal
		}
		rows = append(rows, goalRow{
			label:   fmt.Sprintf("%s %-14s", c.Icon, c.Name),
			percent: percent,
			detail:  fmt.Sprintf("%.1f / %.0fh", hours, c.WeeklyGoal),
		})
	}
	sort.SliceStable(rows, func(a, b int) bool { return rows[a].percent > rows[b].percent })

	var lines []string
	lines = append(lines, titleStyle.Render("Weekly Goals"))
	for _, r := range rows {
		pct := r.percent
		if pct > 1 {
			pct = 1
		}
		line := fmt.Sprintf("%s %s %s", r.label, bar.ViewAs(pct), mutedStyle.Render(r.detail))
		if r.percent >= 1 {
			line += " " + successStyle.Render("✓")
		}
		lines = append(lines, line)
	}

	return strings.Join(lines, "\n")
}
