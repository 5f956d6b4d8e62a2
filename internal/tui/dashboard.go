package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/store"
)

type alert struct {
	risk        analytics.DelayRisk
	suggestions []analytics.Suggestion
}

type dashboardModel struct {
	store  *store.Store
	now    func() time.Time
	width  int
	height int

	metrics analytics.DashboardMetrics
	rules   analytics.Rules
	alerts  []alert
	cursor  int
}

func newDashboardModel(s *store.Store, now func() time.Time) dashboardModel {
	return dashboardModel{
		store: s,
		now:   now,
		rules: analytics.DefaultRules(),
	}
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

type dashboardDataMsg struct {
	metrics analytics.DashboardMetrics
	rules   analytics.Rules
	alerts  []alert
	err     error
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		projects, err := d.store.ListProjects(false)
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		rules := analytics.LoadRules(d.store)

		var (
			all    []store.DailyLog
			alerts []alert
		)
		for _, p := range projects {
			id := p.ID
			logs, err := d.store.ListLogs(store.LogFilter{ProjectID: &id})
			if err != nil {
				return dashboardDataMsg{err: err}
			}
			targets, err := d.store.ListPlannedTargets(p.ID)
			if err != nil {
				return dashboardDataMsg{err: err}
			}
			all = append(all, logs...)
			for _, r := range rules.Detect(logs, targets, p) {
				alerts = append(alerts, alert{risk: r, suggestions: analytics.GenerateSuggestions(r)})
			}
		}

		return dashboardDataMsg{
			metrics: analytics.Metrics(projects, all, d.now()),
			rules:   rules,
			alerts:  alerts,
		}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		if msg.err != nil {
			return d, errorCmd("Dashboard", msg.err)
		}
		d.metrics = msg.metrics
		d.rules = msg.rules
		d.alerts = msg.alerts
		if d.cursor >= len(d.alerts) {
			d.cursor = max(0, len(d.alerts)-1)
		}
		return d, nil

	case logSubmittedMsg:
		return d, d.loadData()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if d.cursor > 0 {
				d.cursor--
			}
		case key.Matches(msg, keys.Down):
			if d.cursor < len(d.alerts)-1 {
				d.cursor++
			}
		}
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	contentWidth := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderMetrics(contentWidth),
		d.renderAlerts(contentWidth),
	)
}

func (d dashboardModel) renderMetrics(w int) string {
	m := d.metrics
	cards := []struct{ label, value string }{
		{"Active Projects", fmt.Sprintf("%d", m.TotalProjects)},
		{"Overall Progress", formatPct(m.OverallProgress)},
		{"Interruptions (7d)", fmt.Sprintf("%d", m.InterruptionsThisWeek)},
		{"Logged Today", fmt.Sprintf("%d / %d", m.ProjectsLoggedToday, m.TotalProjects)},
		{"Working Days", fmt.Sprintf("%d", m.WorkingDays)},
	}

	cardWidth := max(16, w/len(cards)-2)
	rendered := make([]string, len(cards))
	for i, c := range cards {
		rendered[i] = cardStyle.Width(cardWidth).Render(
			lipgloss.JoinVertical(lipgloss.Center, cardValueStyle.Render(c.value), mutedStyle.Render(c.label)),
		)
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, rendered...)

	var pending string
	if m.PendingToday > 0 {
		pending = warningStyle.Render(fmt.Sprintf("  %d project(s) still need today's log", m.PendingToday))
	} else if m.TotalProjects > 0 {
		pending = successStyle.Render("  Every active project is logged for today")
	} else {
		pending = mutedStyle.Render("  No projects yet. Press 2 to create one.")
	}
	return lipgloss.JoinVertical(lipgloss.Left, row, pending)
}

func (d dashboardModel) renderAlerts(w int) string {
	title := titleStyle.Render("Delay Alerts")
	if len(d.alerts) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			successStyle.Render("No delay risks. Every targeted activity is keeping pace."),
		))
	}

	var rows []string
	rows = append(rows, title+mutedStyle.Render(fmt.Sprintf("  below %.0f%% for %d+ days", d.rules.LowThreshold, d.rules.MinConsecutive)))
	rows = append(rows, "")
	for i, a := range d.alerts {
		r := a.risk
		cursor := "  "
		style := normalItemStyle
		if i == d.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		line := fmt.Sprintf("%s%s %-28s %d days  now %s  avg %s  %d interruptions",
			cursor,
			accentStyle.Render("▲"),
			truncate(r.ProjectName+" / "+r.Activity, 28),
			r.ConsecutiveDays,
			formatPct(r.CurrentProductivity),
			formatPct(r.AverageProductivity),
			r.Interruptions,
		)
		rows = append(rows, style.Render(line))
	}

	sel := d.alerts[d.cursor]
	rows = append(rows, "")
	rows = append(rows, subtitleStyle.Render(fmt.Sprintf("Suggestions for %s / %s", sel.risk.ProjectName, sel.risk.Activity)))
	if len(sel.suggestions) == 0 {
		rows = append(rows, mutedStyle.Render("  Keep monitoring; no specific action suggested."))
	}
	for _, s := range sel.suggestions {
		rows = append(rows, fmt.Sprintf("  %s %s", highlightStyle.Render(s.Category.Icon()), s.Text))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ↑/↓: select alert"))

	return alertPanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
