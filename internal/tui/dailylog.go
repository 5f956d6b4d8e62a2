package tui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/store"
)

// logFields holds the submission form values behind pointers.
type logFields struct {
	activity, planned, actual, unit, laborers, supervisors *string
	start, end, interruptions, remarks                     *string
}

func newLogFields() logFields {
	var activity, planned, actual, unit, laborers, supervisors string
	var start, end, interruptions, remarks string
	return logFields{
		&activity, &planned, &actual, &unit, &laborers, &supervisors,
		&start, &end, &interruptions, &remarks,
	}
}

// fill resets the form, prefilling times from a recorded shift when given.
func (f logFields) fill(rec *shiftRecord) {
	*f.activity, *f.planned, *f.actual, *f.unit = "", "", "", ""
	*f.laborers, *f.supervisors, *f.remarks = "", "", ""
	*f.start, *f.end, *f.interruptions = "08:00", "17:00", ""
	if rec != nil {
		*f.start = rec.StartTime
		*f.end = rec.EndTime
		*f.interruptions = formatInterruptions(rec.Interruptions)
	}
}

type dailyLogModel struct {
	store  *store.Store
	now    func() time.Time
	logger *slog.Logger
	width  int
	height int

	projects   []store.Project
	projectIdx int
	targets    []store.PlannedTarget // active today for the selected project
	logs       []store.DailyLog      // today's logs of the selected project
	activities []string              // every activity ever targeted or logged
	bands      analytics.Bands
	cursor     int

	shift shiftClock

	formActive bool
	form       *huh.Form
	fields     logFields
}

func newDailyLogModel(s *store.Store, now func() time.Time, logger *slog.Logger) dailyLogModel {
	return dailyLogModel{
		store:  s,
		now:    now,
		logger: logger,
		shift:  newShiftClock(now),
		fields: newLogFields(),
		bands:  analytics.DefaultBands(),
	}
}

func (m *dailyLogModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m dailyLogModel) selected() (store.Project, bool) {
	if m.projectIdx < len(m.projects) {
		return m.projects[m.projectIdx], true
	}
	return store.Project{}, false
}

type dailyLogDataMsg struct {
	projects   []store.Project
	projectIdx int
	targets    []store.PlannedTarget
	logs       []store.DailyLog
	activities []string
	bands      analytics.Bands
	err        error
}

// refresh reloads projects, keeping the selection on the same project ID.
func (m dailyLogModel) refresh() tea.Cmd {
	var selectedID int64
	if p, ok := m.selected(); ok {
		selectedID = p.ID
	}
	today := store.Day(m.now())
	return func() tea.Msg {
		projects, err := m.store.ListProjects(false)
		if err != nil {
			return dailyLogDataMsg{err: err}
		}
		msg := dailyLogDataMsg{projects: projects, bands: analytics.LoadBands(m.store)}
		for i, p := range projects {
			if p.ID == selectedID {
				msg.projectIdx = i
			}
		}
		if len(projects) == 0 {
			return msg
		}
		pid := projects[msg.projectIdx].ID
		if msg.targets, err = m.store.ListActiveTargets(pid, today); err != nil {
			return dailyLogDataMsg{err: err}
		}
		if msg.logs, err = m.store.ListLogsForDay(pid, today); err != nil {
			return dailyLogDataMsg{err: err}
		}
		if msg.activities, err = m.store.ListActivities(pid); err != nil {
			return dailyLogDataMsg{err: err}
		}
		return msg
	}
}

func (m dailyLogModel) update(msg tea.Msg) (dailyLogModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case dailyLogDataMsg:
		if msg.err != nil {
			return m, errorCmd("Daily log", msg.err)
		}
		m.projects = msg.projects
		m.projectIdx = msg.projectIdx
		m.targets = msg.targets
		m.logs = msg.logs
		m.activities = msg.activities
		m.bands = msg.bands
		if m.cursor >= len(m.logs) {
			m.cursor = max(0, len(m.logs)-1)
		}
		return m, nil

	case tickMsg:
		m.shift.tick()
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left), key.Matches(msg, keys.Right):
			if m.shift.running() {
				return m, statusCmd("End the running shift before switching project")
			}
			return m.moveProject(key.Matches(msg, keys.Right))
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.logs)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.New):
			return m.showForm(nil)
		case key.Matches(msg, keys.StartShift):
			return m.startShift()
		case key.Matches(msg, keys.Pause):
			m.shift.toggle()
			return m, nil
		case key.Matches(msg, keys.EndShift):
			return m.endShift()
		}
	}
	return m, nil
}

func (m dailyLogModel) moveProject(forward bool) (dailyLogModel, tea.Cmd) {
	switch {
	case forward && m.projectIdx < len(m.projects)-1:
		m.projectIdx++
	case !forward && m.projectIdx > 0:
		m.projectIdx--
	default:
		return m, nil
	}
	return m, m.refresh()
}

func (m dailyLogModel) startShift() (dailyLogModel, tea.Cmd) {
	if m.shift.running() {
		return m, nil
	}
	p, ok := m.selected()
	if !ok {
		return m, func() tea.Msg {
			return statusMsg{text: "No projects yet. Press 2 to go to Projects and create one.", isError: true}
		}
	}
	m.shift.start(p.ID, p.Name)
	return m, func() tea.Msg { return shiftStartedMsg{} }
}

func (m dailyLogModel) endShift() (dailyLogModel, tea.Cmd) {
	rec, ok := m.shift.stop()
	if !ok {
		return m, nil
	}
	m, cmd := m.showForm(&rec)
	return m, tea.Batch(cmd, func() tea.Msg { return shiftEndedMsg{} })
}

func (m dailyLogModel) showForm(rec *shiftRecord) (dailyLogModel, tea.Cmd) {
	p, ok := m.selected()
	if !ok {
		return m, func() tea.Msg {
			return statusMsg{text: "No projects yet. Press 2 to go to Projects and create one.", isError: true}
		}
	}
	m.fields.fill(rec)
	f := m.fields

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Activity").Suggestions(m.activitySuggestions()).Value(f.activity).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("activity is required")
					}
					return nil
				}),
			huh.NewInput().Title("Planned quantity (blank = today's target)").Value(f.planned).Validate(validateOptionalQty),
			huh.NewInput().Title("Actual quantity").Value(f.actual).Validate(validateQty),
			huh.NewInput().Title("Unit (blank = target unit)").Value(f.unit),
		).Title(p.Name),
		huh.NewGroup(
			huh.NewInput().Title("Laborers").Value(f.laborers).Validate(validateCount),
			huh.NewInput().Title("Supervisors").Value(f.supervisors).Validate(validateCount),
			huh.NewInput().Title("Start time (HH:MM)").Value(f.start).Validate(validateClock),
			huh.NewInput().Title("End time (HH:MM)").Value(f.end).Validate(validateClock),
		).Title("Manpower and hours"),
		huh.NewGroup(
			huh.NewText().Title("Interruptions").
				Description("One per line: reason, HH:MM, HH:MM").
				Lines(4).Value(f.interruptions).Validate(validateInterruptions),
			huh.NewText().Title("Remarks").Lines(3).Value(f.remarks),
		).Title("Interruptions"),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

// activitySuggestions lists today's targets first, then past activities.
func (m dailyLogModel) activitySuggestions() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range m.targets {
		if !seen[t.ActivityName] {
			seen[t.ActivityName] = true
			out = append(out, t.ActivityName)
		}
	}
	for _, a := range m.activities {
		if !seen[a] {
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

func (m dailyLogModel) updateForm(msg tea.Msg) (dailyLogModel, tea.Cmd) {
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
		return m, m.submit()
	}
	return m, cmd
}

// logInput turns the form into a submission, filling planned quantity and
// unit from today's target for the activity when left blank.
func (m dailyLogModel) logInput() (store.LogInput, error) {
	p, ok := m.selected()
	if !ok {
		return store.LogInput{}, fmt.Errorf("no project selected")
	}
	f := m.fields
	in := store.LogInput{
		ProjectID:    p.ID,
		ActivityName: strings.TrimSpace(*f.activity),
		Unit:         strings.TrimSpace(*f.unit),
		Date:         store.Day(m.now()),
		StartTime:    strings.TrimSpace(*f.start),
		EndTime:      strings.TrimSpace(*f.end),
		Remarks:      strings.TrimSpace(*f.remarks),
	}

	var target *store.PlannedTarget
	for i := range m.targets {
		if strings.EqualFold(m.targets[i].ActivityName, in.ActivityName) {
			target = &m.targets[i]
			in.ActivityName = target.ActivityName
			break
		}
	}

	var err error
	if strings.TrimSpace(*f.planned) == "" {
		if target == nil {
			return in, fmt.Errorf("no target for %q today; enter the planned quantity", in.ActivityName)
		}
		in.PlannedQuantity = target.PlannedDailyQuantity
	} else if in.PlannedQuantity, err = parseQty(*f.planned); err != nil {
		return in, fmt.Errorf("planned quantity: %w", err)
	}
	if in.Unit == "" && target != nil {
		in.Unit = target.Unit
	}
	if in.ActualQuantity, err = parseQty(*f.actual); err != nil {
		return in, fmt.Errorf("actual quantity: %w", err)
	}
	if in.Laborers, err = parseCount(*f.laborers); err != nil {
		return in, fmt.Errorf("laborers: %w", err)
	}
	if in.Supervisors, err = parseCount(*f.supervisors); err != nil {
		return in, fmt.Errorf("supervisors: %w", err)
	}
	if in.Interruptions, err = parseInterruptions(*f.interruptions); err != nil {
		return in, fmt.Errorf("interruptions: %w", err)
	}
	return in, nil
}

func (m dailyLogModel) submit() tea.Cmd {
	in, err := m.logInput()
	if err != nil {
		return errorCmd("Log not saved", err)
	}
	if profile, err := m.store.GetProfile(); err == nil {
		in.SubmittedBy = profile.FullName
	}

	l, err := m.store.SubmitLog(in)
	if err != nil {
		m.logger.Warn("submit log", slog.Int64("project_id", in.ProjectID), slog.String("activity", in.ActivityName), slog.Any("error", err))
		return errorCmd("Log not saved", err)
	}
	m.logger.Info("log submitted",
		slog.Int64("log_id", l.ID),
		slog.Int64("project_id", l.ProjectID),
		slog.String("activity", l.ActivityName),
		slog.Float64("net_hours", l.NetWorkingHours),
		slog.Int("interruptions", len(l.Interruptions)))

	return tea.Batch(
		m.refresh(),
		func() tea.Msg { return logSubmittedMsg{log: l} },
	)
}

func (m dailyLogModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Submit Daily Log"), "", m.form.View()),
		)
	}

	title := titleStyle.Render("Daily Log") + mutedStyle.Render("  "+m.now().Format("Mon 02 Jan 2006"))
	if len(m.projects) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No projects yet. Press 2 to go to Projects and create one."),
		))
	}

	rows := []string{title, "", m.renderProjectBar(), "", m.renderShift(), ""}
	rows = append(rows, m.renderTargets()...)
	rows = append(rows, "")
	rows = append(rows, m.renderLogs()...)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  ←/→: project  n: submit log  s: start shift  space: interrupt/resume  x: end shift"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m dailyLogModel) renderProjectBar() string {
	var items []string
	for i, p := range m.projects {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(p.Color)).Render("●")
		if i == m.projectIdx {
			items = append(items, selectedItemStyle.Render("["+dot+" "+p.Name+"]"))
		} else {
			items = append(items, mutedStyle.Render(" "+p.Name+" "))
		}
	}
	return strings.Join(items, " ")
}

func (m dailyLogModel) renderShift() string {
	if !m.shift.running() {
		return mutedStyle.Render("■ No shift running. Press s to start recording one.")
	}
	elapsed := formatDuration(m.shift.currentElapsed())
	started := m.shift.startTime.Format(clockLayout)
	stops := len(m.shift.interruptions)
	if m.shift.paused() {
		return shiftPausedStyle.Render(fmt.Sprintf("⏸ INTERRUPTED  %s  %s since %s  %d interruption(s) so far",
			elapsed, m.shift.projectName, started, stops+1))
	}
	return shiftRunningStyle.Render(fmt.Sprintf("● WORKING  %s  %s since %s  %d interruption(s)",
		elapsed, m.shift.projectName, started, stops))
}

func (m dailyLogModel) renderTargets() []string {
	rows := []string{subtitleStyle.Render("Today's targets")}
	if len(m.targets) == 0 {
		return append(rows, mutedStyle.Render("  None. Add planned targets in Projects."))
	}
	logged := make(map[string]float64)
	for _, l := range m.logs {
		logged[l.ActivityName] += l.ActualQuantity
	}
	for _, t := range m.targets {
		done := logged[t.ActivityName]
		mark := mutedStyle.Render("○")
		if done > 0 {
			mark = successStyle.Render("●")
		}
		rows = append(rows, fmt.Sprintf("  %s %-26s %s / %s %s", mark, truncate(t.ActivityName, 26),
			formatQty(done), formatQty(t.PlannedDailyQuantity), t.Unit))
	}
	return rows
}

func (m dailyLogModel) renderLogs() []string {
	rows := []string{subtitleStyle.Render("Submitted today")}
	if len(m.logs) == 0 {
		return append(rows, mutedStyle.Render("  Nothing logged yet. Press n to submit a log."))
	}
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("    %-22s %14s %6s %-16s %6s %6s %6s %s",
		"Activity", "Actual/Plan", "Prod", "Status", "Total", "Pause", "Net", "Crew")))
	for i, l := range m.logs {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		pct := analytics.Productivity(l.ActualQuantity, l.PlannedQuantity)
		level := m.bands.Level(pct)
		qty := formatQty(l.ActualQuantity) + "/" + formatQty(l.PlannedQuantity)
		rows = append(rows, style.Render(fmt.Sprintf("%s  %-22s %14s %6s ", cursor, truncate(l.ActivityName, 22), qty, formatPct(pct)))+
			levelStyle(level).Render(fmt.Sprintf("%-16s", level))+
			fmt.Sprintf(" %6s %6s %6s %s", formatHours(l.TotalWorkingHours), formatHours(l.TotalPauseHours), formatHours(l.NetWorkingHours),
				strconv.Itoa(l.Laborers)+"+"+strconv.Itoa(l.Supervisors)))
	}

	if m.cursor < len(m.logs) {
		l := m.logs[m.cursor]
		rows = append(rows, "")
		rows = append(rows, subtitleStyle.Render(fmt.Sprintf("%s  %s-%s", l.ActivityName, l.StartTime, l.EndTime)))
		for _, in := range l.Interruptions {
			rows = append(rows, fmt.Sprintf("  %s %-20s %s-%s  %s", warningStyle.Render("⏸"), truncate(in.Reason, 20), in.StartTime, in.EndTime, formatHours(in.Duration)))
		}
		if l.Remarks != "" {
			rows = append(rows, mutedStyle.Render("  "+l.Remarks))
		}
	}
	return rows
}
