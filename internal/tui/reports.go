package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/store"
)

type reportsModel struct {
	store  *store.Store
	now    func() time.Time
	width  int
	height int

	projects   []store.Project
	projectIdx int
	offset     int // days back from today (0 = today)

	bands     analytics.Bands
	summaries []analytics.ActivitySummary
	dpr       analytics.DPR

	chart barchart.Model
}

func newReportsModel(s *store.Store, now func() time.Time) reportsModel {
	return reportsModel{
		store: s,
		now:   now,
		bands: analytics.DefaultBands(),
		chart: barchart.New(60, 12),
	}
}

func (r *reportsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r reportsModel) day() time.Time {
	return store.Day(r.now()).AddDate(0, 0, -r.offset)
}

// hasReport reports whether a project's DPR is loaded and can be exported.
func (r reportsModel) hasReport() bool {
	return r.dpr.Project.ID != 0
}

type reportsDataMsg struct {
	projects   []store.Project
	projectIdx int
	bands      analytics.Bands
	summaries  []analytics.ActivitySummary
	dpr        analytics.DPR
	err        error
}

func (r reportsModel) refresh() tea.Cmd {
	var selectedID int64
	if r.projectIdx < len(r.projects) {
		selectedID = r.projects[r.projectIdx].ID
	}
	day := r.day()
	return func() tea.Msg {
		projects, err := r.store.ListProjects(true)
		if err != nil {
			return reportsDataMsg{err: err}
		}
		msg := reportsDataMsg{projects: projects, bands: analytics.LoadBands(r.store)}
		for i, p := range projects {
			if p.ID == selectedID {
				msg.projectIdx = i
			}
		}
		if len(projects) == 0 {
			return msg
		}
		p := projects[msg.projectIdx]

		logs, err := r.store.ListLogsForDay(p.ID, day)
		if err != nil {
			return reportsDataMsg{err: err}
		}
		targets, err := r.store.ListActiveTargets(p.ID, day)
		if err != nil {
			return reportsDataMsg{err: err}
		}
		msg.summaries = analytics.Summarize(targets, logs)
		msg.dpr = analytics.BuildDPR(p, logs, day, msg.bands)
		return msg
	}
}

func (r reportsModel) update(msg tea.Msg) (reportsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case reportsDataMsg:
		if msg.err != nil {
			return r, errorCmd("Reports", msg.err)
		}
		r.projects = msg.projects
		r.projectIdx = msg.projectIdx
		r.bands = msg.bands
		r.summaries = msg.summaries
		r.dpr = msg.dpr
		r.buildChart()
		return r, nil

	case logSubmittedMsg:
		return r, r.refresh()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		case key.Matches(msg, keys.Up):
			if r.projectIdx > 0 {
				r.projectIdx--
				return r, r.refresh()
			}
		case key.Matches(msg, keys.Down):
			if r.projectIdx < len(r.projects)-1 {
				r.projectIdx++
				return r, r.refresh()
			}
		}
	}
	return r, nil
}

// buildChart draws one bar per activity, coloured by its productivity level.
func (r *reportsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if r.height > 36 {
		chartHeight = 14
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for _, s := range r.summaries {
		style := levelStyle(r.bands.Level(s.Percentage))
		bars = append(bars, barchart.BarData{
			Label: truncate(s.Activity, 10),
			Values: []barchart.BarValue{{
				Name:  s.Activity,
				Value: s.Percentage,
				Style: style,
			}},
		})
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  "",
			Values: []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r reportsModel) view() string {
	w := r.width - 4

	if len(r.projects) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			titleStyle.Render("Reports"), "",
			mutedStyle.Render("No projects yet. Press 2 to go to Projects and create one."),
		))
	}

	p := r.projects[r.projectIdx]
	dot := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("●")
	dateLabel := r.day().Format("Mon 02 Jan 2006")
	if r.offset == 0 {
		dateLabel += " (today)"
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Reports"), "  ", dot, " ", highlightStyle.Render(p.Name), "  ", mutedStyle.Render(dateLabel),
	)

	nav := mutedStyle.Render("  ←/→: day  ↑/↓: project  e: export DPR")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "",
			subtitleStyle.Render("Productivity by activity"),
			r.chart.View(), "",
			r.renderSummaryTable(w), "",
			r.renderDPR(w), "",
			nav,
		),
	)
}

func (r reportsModel) renderSummaryTable(w int) string {
	if len(r.summaries) == 0 {
		return mutedStyle.Render("  No targets or logs for this day")
	}

	rows := []string{
		mutedStyle.Render(fmt.Sprintf("  %-24s %10s %10s %-6s %8s  %s", "Activity", "Planned", "Actual", "Unit", "Prod", "Status")),
		mutedStyle.Render("  " + rule(w)),
	}
	for _, s := range r.summaries {
		level := r.bands.Level(s.Percentage)
		rows = append(rows, fmt.Sprintf("  %-24s %10s %10s %-6s %8s  %s",
			truncate(s.Activity, 24), formatQty(s.Planned), formatQty(s.Actual), truncate(s.Unit, 6),
			formatPct(s.Percentage), levelStyle(level).Render(level.String()),
		))
	}
	return strings.Join(rows, "\n")
}

func (r reportsModel) renderDPR(w int) string {
	rows := []string{subtitleStyle.Render("Daily Progress Report")}
	if r.dpr.Empty() {
		return strings.Join(append(rows, mutedStyle.Render("  No activities were logged on this day.")), "\n")
	}

	for _, e := range r.dpr.Entries {
		l := e.Log
		rows = append(rows, fmt.Sprintf("  %-24s %s-%s  crew %d+%d  net %s  %d stop(s)  %s",
			truncate(l.ActivityName, 24), l.StartTime, l.EndTime, l.Laborers, l.Supervisors,
			formatHours(l.NetWorkingHours), len(l.Interruptions),
			levelStyle(e.Level).Render(formatPct(e.Productivity)),
		))
		if l.Remarks != "" {
			rows = append(rows, mutedStyle.Render("    "+truncate(l.Remarks, max(10, w-10))))
		}
	}

	t := r.dpr.Totals
	rows = append(rows, mutedStyle.Render("  "+rule(w)))
	rows = append(rows, fmt.Sprintf("  %d activities  %d laborers  %d supervisors  %d interruptions (%s)  net %s",
		t.Activities, t.Laborers, t.Supervisors, t.Interruptions, formatHours(t.PauseHours), formatHours(t.NetHours)))
	return strings.Join(rows, "\n")
}

// rule is a horizontal divider sized to fit a panel of width w.
func rule(w int) string {
	return strings.Repeat("─", max(0, min(w-6, 76)))
}
