package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/dferrer/studyflow/internal/notify"
	"github.com/dferrer/studyflow/internal/store"
	"github.com/dferrer/studyflow/internal/timer"
	"github.com/dferrer/studyflow/internal/tracker"
)

// App is the root Bubble Tea model.
type App struct {
	svc          *tracker.Service
	refreshEvery time.Duration
	width        int
	height       int

	activeView viewState
	showHelp   bool

	today    todayModel
	week     weekModel
	stats    statsModel
	timer    timerViewModel
	settings settingsModel

	help   help.Model
	status string

	timerStates <-chan timer.State
	effects     chan effectMsg
}

func NewApp(svc *tracker.Service, refreshEvery time.Duration) App {
	h := help.New()
	h.ShowAll = false

	effects := make(chan effectMsg, 8)
	wireSinks(svc, effects)
	states, _ := svc.Timer.Subscribe()

	return App{
		svc:          svc,
		refreshEvery: refreshEvery,
		activeView:   viewToday,
		today:        newTodayModel(svc),
		week:         newWeekModel(svc),
		stats:        newStatsModel(svc),
		timer:        newTimerViewModel(svc),
		settings:     newSettingsModel(svc),
		help:         h,
		timerStates:  states,
		effects:      effects,
	}
}

// wireSinks points the timer's completion side effects at the TUI: the
// chime is the terminal bell, notifications land in the status bar. Both
// drop when the effects buffer is full rather than block the timer
// goroutine.
func wireSinks(svc *tracker.Service, effects chan effectMsg) {
	settings, err := svc.Store.GetSettings(svc.UserID)
	if err != nil {
		settings = &store.UserSettings{SoundEnabled: true, NotificationsEnabled: true}
	}

	var chime notify.Chime
	if settings.SoundEnabled {
		chime = notify.ChimeFunc(func() {
			select {
			case effects <- effectMsg{chime: true}:
			default:
			}
		})
	}

	notifier := notify.Gated{
		Notifier: notify.NotifierFunc(func(title, body string) {
			select {
			case effects <- effectMsg{text: title + " " + body}:
			default:
			}
		}),
		// The status bar is always visible; there is no permission to ask for.
		Permission: notify.Granted,
		Enabled:    settings.NotificationsEnabled,
	}

	svc.Timer.SetSinks(chime, notifier)
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.today.load(),
		tickCmd(),
		refreshCmd(a.refreshEvery),
		waitTimer(a.timerStates),
		waitEffect(a.effects),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func refreshCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return refreshMsg(t)
	})
}

func waitTimer(ch <-chan timer.State) tea.Cmd {
	return func() tea.Msg {
		return timerStateMsg(<-ch)
	}
}

func waitEffect(ch chan effectMsg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.week.setSize(a.width, contentHeight)
		a.stats.setSize(a.width, contentHeight)
		a.timer.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewToday
			return a, a.today.load()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewWeek
			return a, a.week.load()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewStats
			return a, a.stats.load()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewTimer
			return a, nil
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, a.settings.load()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 5
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case refreshMsg:
		// Periodic poll: catch mutations from other flows.
		return a, tea.Batch(
			refreshCmd(a.refreshEvery),
			a.today.load(),
			a.stats.load(),
		)

	case timerStateMsg:
		var cmd tea.Cmd
		a.timer, cmd = a.timer.update(msg)
		cmds := []tea.Cmd{waitTimer(a.timerStates), cmd}
		if st := timer.State(msg); !st.Running && st.Total > 0 && st.Remaining == 0 {
			// Countdown finished: today's list and stats just changed.
			cmds = append(cmds, a.today.load(), a.stats.load())
		}
		return a, tea.Batch(cmds...)

	case effectMsg:
		if msg.chime {
			// BEL rendered with the next frame rings the terminal.
			a.status = "\a" + a.status
		} else {
			a.status = msg.text
		}
		return a, waitEffect(a.effects)

	case statusMsg:
		a.status = msg.text
		return a, nil

	case settingsSavedMsg:
		wireSinks(a.svc, a.effects)
		a.status = "Settings saved"
		return a, a.settings.load()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		return a, nil

	case importDoneMsg:
		a.status = msg.message
		if !msg.isError {
			return a, tea.Batch(a.today.load(), a.week.load(), a.stats.load())
		}
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewWeek:
		a.week, cmd = a.week.update(msg)
	case viewStats:
		a.stats, cmd = a.stats.update(msg)
	case viewTimer:
		a.timer, cmd = a.timer.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewToday:
		return a.today.formActive
	case viewWeek:
		return a.week.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewToday:
		return a.today.load()
	case viewWeek:
		return a.week.load()
	case viewStats:
		return a.stats.load()
	case viewSettings:
		return a.settings.load()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewWeek:
		content = a.week.view()
	case viewStats:
		content = a.stats.view()
	case viewTimer:
		content = a.timer.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("studyflow")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	// Countdown indicator in footer
	timerInfo := ""
	if st := a.svc.Timer.State(); st.Total > 0 {
		if st.Running {
			timerInfo = successStyle.Render(" ● " + timer.FormatTime(st.Remaining))
		} else if st.Remaining > 0 {
			timerInfo = warningStyle.Render(" ⏸ " + timer.FormatTime(st.Remaining))
		}
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}
