package tui

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/sitelog/internal/export"
	"github.com/sadopc/sitelog/internal/logging"
	"github.com/sadopc/sitelog/internal/store"
)

// Options configure the TUI. Zero values fall back to the current directory,
// a discarding logger and the wall clock.
type Options struct {
	ExportDir string
	Logger    *slog.Logger
	Now       func() time.Time
}

// App is the root Bubble Tea model.
type App struct {
	store     *store.Store
	logger    *slog.Logger
	exportDir string
	width     int
	height    int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard dashboardModel
	projects  projectsModel
	dailyLog  dailyLogModel
	reports   reportsModel
	settings  settingsModel

	help        help.Model
	status      string
	statusError bool
}

func NewApp(s *store.Store, opts Options) App {
	if opts.Logger == nil {
		opts.Logger = logging.Discard()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ExportDir == "" {
		opts.ExportDir = "."
	}

	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		logger:     opts.Logger,
		exportDir:  opts.ExportDir,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s, opts.Now),
		projects:   newProjectsModel(s),
		dailyLog:   newDailyLogModel(s, opts.Now, opts.Logger),
		reports:    newReportsModel(s, opts.Now),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.projects.setSize(a.width, contentHeight)
		a.dailyLog.setSize(a.width, contentHeight)
		a.reports.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			return a.startExport()
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewDashboard)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewProjects)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewDailyLog)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewReports)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % viewState(len(viewNames)))
		}

	case tickMsg:
		cmds = append(cmds, tickCmd())
		// The shift clock runs whichever view is open.
		var cmd tea.Cmd
		a.dailyLog, cmd = a.dailyLog.update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusMsg:
		a.status = msg.text
		a.statusError = msg.isError
		if msg.isError {
			a.logger.Warn("status", slog.String("message", msg.text))
		}
		return a, nil

	case shiftStartedMsg:
		a.setStatus("Shift started")
		return a, nil

	case shiftEndedMsg:
		a.setStatus("Shift ended. Fill in quantities to submit the log")
		return a, nil

	case logSubmittedMsg:
		a.setStatus(fmt.Sprintf("Logged %s %s %s", formatQty(msg.log.ActualQuantity), msg.log.Unit, msg.log.ActivityName))
		var dcmd, rcmd tea.Cmd
		a.dashboard, dcmd = a.dashboard.update(msg)
		a.reports, rcmd = a.reports.update(msg)
		return a, tea.Batch(dcmd, rcmd)

	case exportDoneMsg:
		a.setStatus("Exported to " + msg.path)
		a.exportPicking = false
		return a, nil

	// Loads finish after the user may have switched tabs; deliver them to
	// the view that asked.
	case dashboardDataMsg:
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd
	case projectsDataMsg, targetsDataMsg:
		var cmd tea.Cmd
		a.projects, cmd = a.projects.update(msg)
		return a, cmd
	case dailyLogDataMsg:
		var cmd tea.Cmd
		a.dailyLog, cmd = a.dailyLog.update(msg)
		return a, cmd
	case reportsDataMsg:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.update(msg)
		return a, cmd
	case settingsDataMsg:
		var cmd tea.Cmd
		a.settings, cmd = a.settings.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a *App) setStatus(text string) {
	a.status = text
	a.statusError = false
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	return a, a.refreshCurrentView()
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewProjects:
		a.projects, cmd = a.projects.update(msg)
	case viewDailyLog:
		a.dailyLog, cmd = a.dailyLog.update(msg)
	case viewReports:
		a.reports, cmd = a.reports.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewProjects:
		return a.projects.formActive
	case viewDailyLog:
		return a.dailyLog.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewProjects:
		return a.projects.refresh()
	case viewDailyLog:
		return a.dailyLog.refresh()
	case viewReports:
		return a.reports.refresh()
	case viewSettings:
		return a.settings.refresh()
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
	case viewDashboard:
		content = a.dashboard.view()
	case viewProjects:
		content = a.projects.view()
	case viewDailyLog:
		content = a.dailyLog.view()
	case viewReports:
		content = a.reports.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := max(a.height-headerHeight-footerHeight, 1)

	if a.exportPicking {
		content = a.renderExportPicker()
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
		label := fmt.Sprintf("%d %s", i+1, name)
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(label))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("sitelog")
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusError {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	// Shift indicator in footer
	shiftInfo := ""
	if a.dailyLog.shift.running() {
		elapsed := formatDuration(a.dailyLog.shift.currentElapsed())
		shiftInfo = successStyle.Render(" ● " + elapsed)
		if a.dailyLog.shift.paused() {
			shiftInfo = warningStyle.Render(" ⏸ " + elapsed)
		}
	}

	left := footerStyle.Render(helpView)
	right := shiftInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) startExport() (tea.Model, tea.Cmd) {
	if a.activeView != viewReports {
		return a, statusCmd("Open Reports (4) and pick a project and day to export its DPR")
	}
	if !a.reports.hasReport() {
		return a, statusCmd("Nothing to export: no project selected")
	}
	a.exportPicking = true
	a.exportCursor = 0
	return a, nil
}

func (a App) renderExportPicker() string {
	r := a.reports.dpr
	rows := []string{
		titleStyle.Render("Export DPR"),
		mutedStyle.Render(fmt.Sprintf("%s, %s", r.Project.Name, r.Date.Format(store.DateLayout))),
		"",
	}
	for i, f := range export.Formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+strings.ToUpper(string(f))))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  Saved to "+a.exportDir))
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(export.Formats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(export.Formats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the DPR currently shown in Reports.
func (a App) doExport(format export.Format) tea.Cmd {
	r := a.reports.dpr
	dir := a.exportDir
	logger := a.logger
	return func() tea.Msg {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		path := export.Path(dir, r, format)
		if err := export.Write(r, format, path); err != nil {
			logger.Error("export dpr", slog.String("format", string(format)), slog.Any("error", err))
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		logger.Info("dpr exported",
			slog.String("project", r.Project.Name),
			slog.String("date", r.Date.Format(store.DateLayout)),
			slog.String("format", string(format)),
			slog.String("path", path),
			slog.Int("entries", len(r.Entries)))
		return exportDoneMsg{path: path}
	}
}
