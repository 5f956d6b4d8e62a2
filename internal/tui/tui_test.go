package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/export"
	"github.com/sadopc/sitelog/internal/logging"
	"github.com/sadopc/sitelog/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// fakeClock is a settable time source.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

// seedSite creates "Tower A" with a Concrete target of 10 m³/day and two low
// days: 6 yesterday and 7 today.
func seedSite(t *testing.T, s *store.Store, today time.Time) *store.Project {
	t.Helper()
	p, err := s.CreateProject(store.ProjectInput{Name: "Tower A", Type: store.ProjectCommercial})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddPlannedTarget(store.PlannedTarget{ProjectID: p.ID, ActivityName: "Concrete", PlannedDailyQuantity: 10, Unit: "m³"}); err != nil {
		t.Fatal(err)
	}
	for i, actual := range []float64{6, 7} {
		_, err := s.SubmitLog(store.LogInput{
			ProjectID:       p.ID,
			ActivityName:    "Concrete",
			PlannedQuantity: 10,
			ActualQuantity:  actual,
			Unit:            "m³",
			Laborers:        8,
			Supervisors:     1,
			Date:            store.Day(today).AddDate(0, 0, i-1),
			StartTime:       "08:00",
			EndTime:         "17:00",
			Interruptions:   []store.Interruption{{Reason: "Rain", StartTime: "10:00", EndTime: "11:00"}},
		})
		if err != nil {
			t.Fatal(err)
		}
	}
	return p
}

// collect runs cmd and every command nested in a batch, returning the messages.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

func statusOf(msgs []tea.Msg) (statusMsg, bool) {
	for _, m := range msgs {
		if s, ok := m.(statusMsg); ok {
			return s, true
		}
	}
	return statusMsg{}, false
}

// ============================================================
// Shift clock
// ============================================================

func TestShiftRecordsInterruptions(t *testing.T) {
	clk := newFakeClock()
	c := newShiftClock(clk.Now)
	if c.running() {
		t.Fatal("shift should start stopped")
	}

	c.start(3, "Tower A")
	clk.advance(2 * time.Hour)
	c.pause("Rain")
	clk.advance(30 * time.Minute)
	c.resume()
	clk.advance(6*time.Hour + 30*time.Minute)

	rec, ok := c.stop()
	if !ok {
		t.Fatal("stop should return the shift")
	}
	if rec.ProjectID != 3 || rec.StartTime != "08:00" || rec.EndTime != "17:00" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	want := store.Interruption{Reason: "Rain", StartTime: "10:00", EndTime: "10:30"}
	if len(rec.Interruptions) != 1 || rec.Interruptions[0] != want {
		t.Fatalf("interruptions = %+v", rec.Interruptions)
	}
	if c.running() {
		t.Fatal("shift should be stopped")
	}
}

func TestShiftStopClosesOpenInterruption(t *testing.T) {
	clk := newFakeClock()
	c := newShiftClock(clk.Now)
	c.start(1, "Tower A")
	clk.advance(8 * time.Hour)
	c.pause("Crane breakdown")
	clk.advance(time.Hour)

	rec, _ := c.stop()
	if len(rec.Interruptions) != 1 {
		t.Fatalf("expected the open interruption to be closed, got %+v", rec.Interruptions)
	}
	if in := rec.Interruptions[0]; in.StartTime != "16:00" || in.EndTime != "17:00" || in.Reason != "Crane breakdown" {
		t.Fatalf("unexpected interruption: %+v", in)
	}
	if rec.EndTime != "17:00" {
		t.Fatalf("EndTime = %q", rec.EndTime)
	}
}

func TestShiftStopWhenStopped(t *testing.T) {
	c := newShiftClock(newFakeClock().Now)
	if _, ok := c.stop(); ok {
		t.Fatal("stop on a stopped shift should report nothing")
	}
}

func TestShiftPauseResumeNoOps(t *testing.T) {
	c := newShiftClock(newFakeClock().Now)

	c.pause("Rain")
	if c.paused() {
		t.Fatal("should not pause when stopped")
	}

	c.start(1, "Tower A")
	c.resume()
	if c.paused() || len(c.interruptions) != 0 {
		t.Fatal("resume while running should be a no-op")
	}
}

func TestShiftToggle(t *testing.T) {
	clk := newFakeClock()
	c := newShiftClock(clk.Now)
	c.toggle()
	if c.running() {
		t.Fatal("toggle should not start a stopped shift")
	}

	c.start(1, "Tower A")
	c.toggle()
	if !c.paused() {
		t.Fatal("toggle should pause")
	}
	clk.advance(15 * time.Minute)
	c.toggle()
	if c.paused() {
		t.Fatal("toggle should resume")
	}
	if len(c.interruptions) != 1 || c.interruptions[0].Reason != "Interruption" {
		t.Fatalf("unexpected interruptions: %+v", c.interruptions)
	}
}

func TestShiftElapsedExcludesInterruptions(t *testing.T) {
	clk := newFakeClock()
	c := newShiftClock(clk.Now)
	c.start(1, "Tower A")

	clk.advance(time.Hour)
	c.pause("Rain")
	clk.advance(30 * time.Minute)
	if got := c.currentElapsed(); got != time.Hour {
		t.Fatalf("elapsed while paused = %v, want 1h", got)
	}

	c.resume()
	clk.advance(15 * time.Minute)
	if got := c.currentElapsed(); got != time.Hour+15*time.Minute {
		t.Fatalf("elapsed = %v, want 1h15m", got)
	}
	c.tick()
	if c.elapsed != time.Hour+15*time.Minute {
		t.Fatalf("tick elapsed = %v", c.elapsed)
	}
}

func TestShiftElapsedWhenStopped(t *testing.T) {
	c := newShiftClock(newFakeClock().Now)
	c.tick()
	if c.currentElapsed() != 0 || c.elapsed != 0 {
		t.Fatal("stopped shift should have no elapsed time")
	}
}

// ============================================================
// Form parsing
// ============================================================

func TestParseInterruptions(t *testing.T) {
	got, err := parseInterruptions("Rain, 10:00, 11:00\n\n  Material delay ,13:00,13:30  \n")
	if err != nil {
		t.Fatal(err)
	}
	want := []store.Interruption{
		{Reason: "Rain", StartTime: "10:00", EndTime: "11:00"},
		{Reason: "Material delay", StartTime: "13:00", EndTime: "13:30"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d interruptions", len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("interruption %d = %+v, want %+v", i, got[i], want[i])
		}
	}

	if got, err := parseInterruptions("  \n"); err != nil || got != nil {
		t.Fatalf("blank text should give no interruptions, got %v, %v", got, err)
	}
}

func TestParseInterruptionsErrors(t *testing.T) {
	tests := map[string]string{
		"fields":  "Rain, 10:00",
		"reason":  " , 10:00, 11:00",
		"clock":   "Rain, 10:00, 25:00",
		"garbage": "Rain, ten, eleven",
	}
	for name, text := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := parseInterruptions(text); err == nil {
				t.Fatalf("expected error for %q", text)
			}
		})
	}

	_, err := parseInterruptions("Rain, 10:00, 11:00\nRain")
	if !errors.Is(err, errInterruptionLine) || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line 2 format error, got %v", err)
	}
}

func TestFormatInterruptions(t *testing.T) {
	list := []store.Interruption{{Reason: "Rain", StartTime: "10:00", EndTime: "11:00"}}
	text := formatInterruptions(list)
	if text != "Rain, 10:00, 11:00" {
		t.Fatalf("formatInterruptions = %q", text)
	}
	if formatInterruptions(nil) != "" {
		t.Fatal("no interruptions should format as empty text")
	}
}

func TestParseNumbers(t *testing.T) {
	if v, err := parseQty(" 12.5 "); err != nil || v != 12.5 {
		t.Fatalf("parseQty = %v, %v", v, err)
	}
	for _, bad := range []string{"", "abc", "-1"} {
		if _, err := parseQty(bad); err == nil {
			t.Fatalf("parseQty(%q) should fail", bad)
		}
	}

	if n, err := parseCount(""); err != nil || n != 0 {
		t.Fatalf("blank count = %v, %v", n, err)
	}
	if n, err := parseCount("12"); err != nil || n != 12 {
		t.Fatalf("parseCount = %v, %v", n, err)
	}
	for _, bad := range []string{"1.5", "-2", "x"} {
		if _, err := parseCount(bad); err == nil {
			t.Fatalf("parseCount(%q) should fail", bad)
		}
	}
}

func TestParseOptionalDate(t *testing.T) {
	d, err := parseOptionalDate("2026-03-14")
	if err != nil || formatOptionalDate(d) != "2026-03-14" {
		t.Fatalf("parseOptionalDate = %v, %v", d, err)
	}
	if d, err := parseOptionalDate(" "); err != nil || !d.IsZero() {
		t.Fatal("blank date should be zero")
	}
	if _, err := parseOptionalDate("14/03/2026"); err == nil {
		t.Fatal("expected error for wrong layout")
	}
	if formatOptionalDate(time.Time{}) != "" {
		t.Fatal("zero date should format as blank")
	}
}

func TestValidators(t *testing.T) {
	if validateOptionalQty("") != nil || validateOptionalQty("x") == nil {
		t.Fatal("validateOptionalQty")
	}
	if validateClock("07:30") != nil || validateClock("7h") == nil {
		t.Fatal("validateClock")
	}
	if validatePositive("0") == nil || validatePositive("80") != nil {
		t.Fatal("validatePositive")
	}
	if validatePositiveCount("0") == nil || validatePositiveCount("3") != nil {
		t.Fatal("validatePositiveCount")
	}
}

// ============================================================
// Formatting
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "00:00:00"},
		{-time.Second, "00:00:00"},
		{90 * time.Second, "00:01:30"},
		{8*time.Hour + 5*time.Minute + 3*time.Second, "08:05:03"},
	}
	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatFigures(t *testing.T) {
	if formatHours(7.5) != "7.5h" || formatPct(66.66) != "67%" || formatQty(2.5) != "2.5" || formatQty(10) != "10" {
		t.Fatal("unexpected figure formatting")
	}
}

func TestTruncate(t *testing.T) {
	if truncate("Concrete", 20) != "Concrete" {
		t.Fatal("short strings are kept")
	}
	if got := truncate("Reinforcement", 6); got != "Reinf…" {
		t.Fatalf("truncate = %q", got)
	}
	if got := truncate("m³ per day", 2); got != "m…" {
		t.Fatalf("truncate should count runes, got %q", got)
	}
}

func TestViewNames(t *testing.T) {
	if len(viewNames) != 5 {
		t.Fatalf("expected 5 view names, got %d", len(viewNames))
	}
	if viewNames[viewDailyLog] != "Daily Log" || viewNames[viewSettings] != "Settings" {
		t.Fatalf("view names out of order: %v", viewNames)
	}
}

func TestLevelStyle(t *testing.T) {
	if levelStyle(analytics.LevelOnTrack).Render("x") == "" ||
		levelStyle(analytics.LevelSlightlyDelayed).Render("x") == "" ||
		levelStyle(analytics.LevelCritical).Render("x") == "" {
		t.Fatal("level styles should render")
	}
}

// ============================================================
// Dashboard
// ============================================================

func TestDashboardLoadData(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	seedSite(t, s, clk.Now())

	d := newDashboardModel(s, clk.Now)
	d.setSize(160, 40)
	msg, ok := d.loadData()().(dashboardDataMsg)
	if !ok || msg.err != nil {
		t.Fatalf("unexpected load result: %+v", msg)
	}
	if msg.metrics.TotalProjects != 1 || msg.metrics.ProjectsLoggedToday != 1 || msg.metrics.WorkingDays != 2 {
		t.Fatalf("unexpected metrics: %+v", msg.metrics)
	}
	if len(msg.alerts) != 1 {
		t.Fatalf("expected one delay alert, got %d", len(msg.alerts))
	}
	r := msg.alerts[0].risk
	if r.Activity != "Concrete" || r.ConsecutiveDays != 2 || r.Interruptions != 2 {
		t.Fatalf("unexpected risk: %+v", r)
	}
	if len(msg.alerts[0].suggestions) == 0 {
		t.Fatal("alert should carry suggestions")
	}

	d, _ = d.update(msg)
	if view := d.view(); !strings.Contains(view, "Suggestions for Tower A / Concrete") {
		t.Fatalf("dashboard should show the selected alert:\n%s", view)
	}
}

func TestDashboardNoRisks(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(s, newFakeClock().Now)
	d.setSize(160, 40)
	d, _ = d.update(d.loadData()())
	if !strings.Contains(d.view(), "No delay risks") {
		t.Fatal("empty dashboard should report no risks")
	}
}

func TestDashboardReloadsOnSubmit(t *testing.T) {
	d := newDashboardModel(newTestStore(t), newFakeClock().Now)
	if _, cmd := d.update(logSubmittedMsg{log: &store.DailyLog{}}); cmd == nil {
		t.Fatal("a submitted log should reload the dashboard")
	}
}

// ============================================================
// Projects
// ============================================================

func TestProjectsCreateAndEdit(t *testing.T) {
	s := newTestStore(t)
	p := newProjectsModel(s)

	p.projectForm.fill(nil)
	*p.projectForm.name = "  Metro Line 3 "
	*p.projectForm.ptype = string(store.ProjectInfrastructure)
	*p.projectForm.start = "2026-01-05"
	p.formType = "project"

	p, cmd := p.saveForm()
	if st, ok := statusOf(collect(cmd)); !ok || st.isError {
		t.Fatalf("expected success status, got %+v", st)
	}
	list, _ := s.ListProjects(false)
	if len(list) != 1 || list[0].Name != "Metro Line 3" || list[0].Type != store.ProjectInfrastructure {
		t.Fatalf("project not created: %+v", list)
	}
	if list[0].PlannedHoursPerDay != 8 || list[0].WorkingDaysPerWeek != 6 {
		t.Fatalf("form defaults not applied: %+v", list[0])
	}

	p.projectForm.fill(&list[0])
	*p.projectForm.location = "Chennai"
	p.formType = "edit_project"
	p.editingID = list[0].ID
	p, _ = p.saveForm()

	got, _ := s.GetProject(list[0].ID)
	if got.Location != "Chennai" || got.StartDate.Format(store.DateLayout) != "2026-01-05" {
		t.Fatalf("project not updated: %+v", got)
	}
}

func TestProjectsInvalidForm(t *testing.T) {
	s := newTestStore(t)
	p := newProjectsModel(s)
	p.projectForm.fill(nil)
	*p.projectForm.name = "Depot"
	*p.projectForm.hours = "eight"
	p.formType = "project"

	_, cmd := p.saveForm()
	if st, ok := statusOf(collect(cmd)); !ok || !st.isError {
		t.Fatalf("expected error status, got %+v", st)
	}
	if list, _ := s.ListProjects(true); len(list) != 0 {
		t.Fatal("invalid form should not create a project")
	}
}

func TestProjectsAddTarget(t *testing.T) {
	s := newTestStore(t)
	proj, _ := s.CreateProject(store.ProjectInput{Name: "Tower A", Type: store.ProjectCommercial})

	p := newProjectsModel(s)
	p, _ = p.update(p.refresh()())
	if len(p.projects) != 1 {
		t.Fatal("projects not loaded")
	}

	p.targetForm.reset()
	*p.targetForm.activity = "Brickwork"
	*p.targetForm.quantity = "1200"
	*p.targetForm.unit = "bricks"
	p.formType = "target"
	p, cmd := p.saveForm()
	p, _ = p.update(cmd())

	if len(p.targets) != 1 || p.targets[0].ActivityName != "Brickwork" || p.targets[0].ProjectID != proj.ID {
		t.Fatalf("target not added: %+v", p.targets)
	}
}

func TestProjectsArchiveToggle(t *testing.T) {
	s := newTestStore(t)
	proj, _ := s.CreateProject(store.ProjectInput{Name: "Old Yard", Type: store.ProjectIndustrial})
	s.ArchiveProject(proj.ID)

	p := newProjectsModel(s)
	p, _ = p.update(p.refresh()())
	if len(p.projects) != 0 {
		t.Fatal("archived projects should be hidden by default")
	}

	p, cmd := p.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	p, _ = p.update(cmd())
	if !p.showArchived || len(p.projects) != 1 {
		t.Fatal("a should show archived projects")
	}
}

// ============================================================
// Daily log
// ============================================================

func newLoadedDailyLog(t *testing.T, s *store.Store, clk *fakeClock) dailyLogModel {
	t.Helper()
	m := newDailyLogModel(s, clk.Now, logging.Discard())
	m.setSize(160, 40)
	m, _ = m.update(m.refresh()())
	return m
}

func TestDailyLogLoadsToday(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	seedSite(t, s, clk.Now())

	m := newLoadedDailyLog(t, s, clk)
	if len(m.projects) != 1 || len(m.targets) != 1 {
		t.Fatalf("unexpected data: %d projects, %d targets", len(m.projects), len(m.targets))
	}
	if len(m.logs) != 1 || m.logs[0].ActualQuantity != 7 {
		t.Fatalf("only today's log expected, got %+v", m.logs)
	}
	if view := m.view(); !strings.Contains(view, "Tower A") || !strings.Contains(view, "Concrete") {
		t.Fatalf("daily log view missing data:\n%s", view)
	}
}

func TestDailyLogInputUsesTarget(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	p := seedSite(t, s, clk.Now())
	m := newLoadedDailyLog(t, s, clk)

	m.fields.fill(nil)
	*m.fields.activity = " concrete "
	*m.fields.actual = "9"
	*m.fields.laborers = "10"
	*m.fields.interruptions = "Rain, 10:00, 11:00"

	in, err := m.logInput()
	if err != nil {
		t.Fatal(err)
	}
	if in.ProjectID != p.ID || in.ActivityName != "Concrete" || in.PlannedQuantity != 10 || in.Unit != "m³" {
		t.Fatalf("target values not applied: %+v", in)
	}
	if in.StartTime != "08:00" || in.EndTime != "17:00" || in.Laborers != 10 || len(in.Interruptions) != 1 {
		t.Fatalf("unexpected input: %+v", in)
	}
	if !in.Date.Equal(store.Day(clk.Now())) {
		t.Fatalf("date = %v", in.Date)
	}
}

func TestDailyLogInputWithoutTarget(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	seedSite(t, s, clk.Now())
	m := newLoadedDailyLog(t, s, clk)

	m.fields.fill(nil)
	*m.fields.activity = "Plastering"
	*m.fields.actual = "30"
	if _, err := m.logInput(); err == nil {
		t.Fatal("untargeted activity needs an explicit planned quantity")
	}

	*m.fields.planned = "40"
	*m.fields.unit = "m²"
	in, err := m.logInput()
	if err != nil || in.PlannedQuantity != 40 || in.Unit != "m²" {
		t.Fatalf("unexpected input: %+v, %v", in, err)
	}
}

func TestDailyLogSubmit(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	seedSite(t, s, clk.Now())
	if err := s.SaveProfile(store.Profile{FullName: "R. Iyer", Role: store.RoleSiteEngineer}); err != nil {
		t.Fatal(err)
	}
	m := newLoadedDailyLog(t, s, clk)

	m.fields.fill(nil)
	*m.fields.activity = "Concrete"
	*m.fields.actual = "11"
	*m.fields.interruptions = "Rain, 12:00, 13:00"

	var submitted *store.DailyLog
	for _, msg := range collect(m.submit()) {
		switch msg := msg.(type) {
		case logSubmittedMsg:
			submitted = msg.log
		case dailyLogDataMsg:
			m, _ = m.update(msg)
		case statusMsg:
			t.Fatalf("unexpected status: %s", msg.text)
		}
	}
	if submitted == nil {
		t.Fatal("expected logSubmittedMsg")
	}
	if submitted.SubmittedBy != "R. Iyer" || submitted.NetWorkingHours != 8 || submitted.TotalPauseHours != 1 {
		t.Fatalf("unexpected stored log: %+v", submitted)
	}
	if len(m.logs) != 2 {
		t.Fatalf("view should reload today's logs, got %d", len(m.logs))
	}
}

func TestDailyLogSubmitRejectsLongPause(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	seedSite(t, s, clk.Now())
	m := newLoadedDailyLog(t, s, clk)

	m.fields.fill(nil)
	*m.fields.activity = "Concrete"
	*m.fields.actual = "1"
	*m.fields.start = "08:00"
	*m.fields.end = "09:00"
	*m.fields.interruptions = "Rain, 09:00, 12:00"

	st, ok := statusOf(collect(m.submit()))
	if !ok || !st.isError {
		t.Fatalf("expected an error status, got %+v", st)
	}
}

func TestDailyLogShiftPrefillsForm(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	seedSite(t, s, clk.Now())
	m := newLoadedDailyLog(t, s, clk)

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	if !m.shift.running() {
		t.Fatal("s should start the shift")
	}
	clk.advance(3 * time.Hour)
	m, _ = m.update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	clk.advance(45 * time.Minute)
	m, _ = m.update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	clk.advance(5 * time.Hour)

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if !m.formActive || m.shift.running() {
		t.Fatal("x should end the shift and open the form")
	}
	if *m.fields.start != "08:00" || *m.fields.end != "16:45" {
		t.Fatalf("times not prefilled: %s-%s", *m.fields.start, *m.fields.end)
	}
	if *m.fields.interruptions != "Interruption, 11:00, 11:45" {
		t.Fatalf("interruptions not prefilled: %q", *m.fields.interruptions)
	}
}

func TestDailyLogActivitySuggestions(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	p := seedSite(t, s, clk.Now())
	_, err := s.SubmitLog(store.LogInput{
		ProjectID: p.ID, ActivityName: "Blockwork", PlannedQuantity: 100, ActualQuantity: 90,
		Date: store.Day(clk.Now()).AddDate(0, 0, -5), StartTime: "08:00", EndTime: "16:00",
	})
	if err != nil {
		t.Fatal(err)
	}

	m := newLoadedDailyLog(t, s, clk)
	got := m.activitySuggestions()
	if len(got) != 2 || got[0] != "Concrete" || got[1] != "Blockwork" {
		t.Fatalf("suggestions = %v, want targets first then past activities", got)
	}
}

func TestDailyLogShiftLocksProject(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	seedSite(t, s, clk.Now())
	s.CreateProject(store.ProjectInput{Name: "Tower B", Type: store.ProjectCommercial})
	m := newLoadedDailyLog(t, s, clk)

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("s")})
	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyRight})
	if m.projectIdx != 0 {
		t.Fatal("project should not change during a shift")
	}
	if _, ok := statusOf(collect(cmd)); !ok {
		t.Fatal("expected a hint to end the shift")
	}

	m.shift.stop()
	m, cmd = m.update(tea.KeyMsg{Type: tea.KeyRight})
	if m.projectIdx != 1 || cmd == nil {
		t.Fatal("right should select the next project")
	}
}

func TestDailyLogNoProjects(t *testing.T) {
	m := newLoadedDailyLog(t, newTestStore(t), newFakeClock())
	m, cmd := m.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("n")})
	if m.formActive {
		t.Fatal("form should not open without projects")
	}
	if st, ok := statusOf(collect(cmd)); !ok || !st.isError {
		t.Fatal("expected a hint to create a project")
	}
}

// ============================================================
// Reports
// ============================================================

func TestReportsLoadDay(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	seedSite(t, s, clk.Now())

	r := newReportsModel(s, clk.Now)
	r.setSize(160, 50)
	r, _ = r.update(r.refresh()())

	if !r.hasReport() || len(r.dpr.Entries) != 1 || r.dpr.Entries[0].Log.ActualQuantity != 7 {
		t.Fatalf("unexpected DPR: %+v", r.dpr)
	}
	if len(r.summaries) != 1 || r.summaries[0].Percentage != 70 {
		t.Fatalf("unexpected summaries: %+v", r.summaries)
	}
	if view := r.view(); !strings.Contains(view, "Daily Progress Report") || !strings.Contains(view, "Critical Delay") {
		t.Fatalf("reports view missing sections:\n%s", view)
	}
}

func TestReportsNavigateDays(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	seedSite(t, s, clk.Now())

	r := newReportsModel(s, clk.Now)
	r.setSize(160, 50)
	r, cmd := r.update(tea.KeyMsg{Type: tea.KeyLeft})
	if r.offset != 1 {
		t.Fatalf("left should go back a day, offset = %d", r.offset)
	}
	r, _ = r.update(cmd())
	if len(r.dpr.Entries) != 1 || r.dpr.Entries[0].Log.ActualQuantity != 6 {
		t.Fatalf("expected yesterday's log: %+v", r.dpr.Entries)
	}

	r, _ = r.update(tea.KeyMsg{Type: tea.KeyRight})
	r, _ = r.update(tea.KeyMsg{Type: tea.KeyRight})
	if r.offset != 0 {
		t.Fatal("right should not go past today")
	}
}

func TestReportsEmptyDay(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	seedSite(t, s, clk.Now())
	clk.advance(72 * time.Hour)

	r := newReportsModel(s, clk.Now)
	r.setSize(160, 50)
	r, _ = r.update(r.refresh()())
	if !r.dpr.Empty() || !strings.Contains(r.view(), "No activities were logged") {
		t.Fatal("a day without logs should show an empty DPR")
	}
}

func TestReportsNarrowTerminal(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	seedSite(t, s, clk.Now())

	model, _ := NewApp(s, Options{Now: clk.Now}).Update(tea.WindowSizeMsg{Width: 9, Height: 20})
	model, cmd := model.(App).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")})
	model, _ = model.(App).Update(cmd())
	app := model.(App)
	if !app.reports.hasReport() {
		t.Fatal("reports should have loaded the seeded day")
	}
	if app.View() == "" {
		t.Fatal("narrow view should still render")
	}

	r := newReportsModel(s, clk.Now)
	r, _ = r.update(r.refresh()())
	if !strings.Contains(r.view(), "Daily Progress Report") {
		t.Fatal("unsized reports view should still render")
	}
	if rule(0) != "" || rule(9) != "───" {
		t.Fatalf("rule(0) = %q, rule(9) = %q", rule(0), rule(9))
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingsSave(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	m, _ = m.update(m.refresh()())
	m, _ = m.showForm()

	if *m.threshold != "80" || *m.window != "5" || *m.onTrack != "90" {
		t.Fatalf("form not filled from defaults: %s %s %s", *m.threshold, *m.window, *m.onTrack)
	}

	*m.threshold = "70"
	*m.minConsecutive = "3"
	*m.slightDelay = "60"
	*m.fullName = "A. Rao"
	*m.role = store.RoleProjectManager
	if err := m.saveSettings(); err != nil {
		t.Fatal(err)
	}

	if r := analytics.LoadRules(s); r.LowThreshold != 70 || r.MinConsecutive != 3 || r.Window != 5 {
		t.Fatalf("rules not saved: %+v", r)
	}
	if b := analytics.LoadBands(s); b.SlightDelay != 60 || b.OnTrack != 90 {
		t.Fatalf("bands not saved: %+v", b)
	}
	profile, _ := s.GetProfile()
	if profile.FullName != "A. Rao" || profile.Role != store.RoleProjectManager {
		t.Fatalf("profile not saved: %+v", profile)
	}
}

func TestSettingsRejectInvertedBands(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)
	m, _ = m.showForm()
	*m.onTrack = "70"
	*m.slightDelay = "80"

	if err := m.saveSettings(); err == nil {
		t.Fatal("expected error when slightly delayed exceeds on track")
	}
	if v, _ := s.GetSetting(store.SettingOnTrack); v != "90" {
		t.Fatalf("on track should stay at 90, got %q", v)
	}
}

func TestSettingsView(t *testing.T) {
	m := newSettingsModel(newTestStore(t))
	m.setSize(120, 40)
	view := m.view()
	for _, want := range []string{"Delay rules", "Status bands", "Profile", "Site Engineer"} {
		if !strings.Contains(view, want) {
			t.Fatalf("settings view missing %q", want)
		}
	}
}

// ============================================================
// App model
// ============================================================

func newTestApp(t *testing.T, s *store.Store, clk *fakeClock) App {
	t.Helper()
	app := NewApp(s, Options{ExportDir: t.TempDir(), Now: clk.Now})
	model, _ := app.Update(tea.WindowSizeMsg{Width: 160, Height: 50})
	return model.(App)
}

func TestNewApp(t *testing.T) {
	app := NewApp(newTestStore(t), Options{})

	if app.activeView != viewDashboard {
		t.Fatal("default view should be dashboard")
	}
	if app.showHelp || app.exportPicking || app.isFormActive() {
		t.Fatal("help, export picker and forms should be hidden by default")
	}
	if app.exportDir != "." || app.logger == nil {
		t.Fatalf("defaults not applied: dir %q", app.exportDir)
	}
}

func TestAppViewStates(t *testing.T) {
	app := newTestApp(t, newTestStore(t), newFakeClock())

	for v := range viewNames {
		app.activeView = viewState(v)
		if app.View() == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppSwitchView(t *testing.T) {
	app := newTestApp(t, newTestStore(t), newFakeClock())

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("3")})
	app = model.(App)
	if app.activeView != viewDailyLog || cmd == nil {
		t.Fatal("3 should open the daily log and load it")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	if model.(App).activeView != viewReports {
		t.Fatal("tab should move to the next view")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app := newTestApp(t, newTestStore(t), newFakeClock())

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	app := NewApp(newTestStore(t), Options{})
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app := newTestApp(t, newTestStore(t), newFakeClock())

	model, _ := app.Update(statusMsg{text: "Log not saved: boom", isError: true})
	app = model.(App)
	if !app.statusError || !strings.Contains(app.renderFooter(), "Log not saved: boom") {
		t.Fatal("footer should contain the error status")
	}
}

func TestAppFooterShowsShift(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	app := newTestApp(t, s, clk)
	app.dailyLog.shift.start(1, "Tower A")
	clk.advance(90 * time.Minute)

	if footer := app.renderFooter(); !strings.Contains(footer, "01:30:00") {
		t.Fatalf("footer should show the running shift:\n%s", footer)
	}
}

func TestAppExportRequiresReports(t *testing.T) {
	app := newTestApp(t, newTestStore(t), newFakeClock())

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	if model.(App).exportPicking {
		t.Fatal("export picker should only open from Reports")
	}
	if _, ok := statusOf(collect(cmd)); !ok {
		t.Fatal("expected a hint about Reports")
	}
}

func TestAppExportDPR(t *testing.T) {
	s := newTestStore(t)
	clk := newFakeClock()
	seedSite(t, s, clk.Now())
	app := newTestApp(t, s, clk)

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("4")})
	model, _ = model.(App).Update(cmd())
	model, _ = model.(App).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	app = model.(App)
	if !app.exportPicking {
		t.Fatal("e should open the export picker on Reports")
	}
	if !strings.Contains(app.View(), "Export DPR") {
		t.Fatal("picker should be rendered")
	}

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyDown})
	model, cmd = model.(App).Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = model.(App)
	if app.exportPicking {
		t.Fatal("enter should close the picker")
	}

	done, ok := cmd().(exportDoneMsg)
	if !ok {
		t.Fatal("expected exportDoneMsg")
	}
	if want := filepath.Join(app.exportDir, "dpr-tower-a-2026-03-14."+string(export.Formats[1])); done.path != want {
		t.Fatalf("path = %q, want %q", done.path, want)
	}
	if _, err := os.Stat(done.path); err != nil {
		t.Fatalf("export not written: %v", err)
	}

	model, _ = app.Update(done)
	if !strings.Contains(model.(App).status, "Exported to") {
		t.Fatal("status should report the export")
	}
}

func TestAppLogSubmittedUpdatesStatus(t *testing.T) {
	app := newTestApp(t, newTestStore(t), newFakeClock())
	l := &store.DailyLog{ActivityName: "Concrete", ActualQuantity: 7, Unit: "m³"}

	model, cmd := app.Update(logSubmittedMsg{log: l})
	if got := model.(App).status; got != "Logged 7 m³ Concrete" {
		t.Fatalf("status = %q", got)
	}
	if cmd == nil {
		t.Fatal("dashboard and reports should reload")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test: they must render)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"alertPanel", func() string { return alertPanelStyle.Render("test") }},
		{"card", func() string { return cardStyle.Render("test") }},
		{"cardValue", func() string { return cardValueStyle.Render("test") }},
		{"shiftRunning", func() string { return shiftRunningStyle.Render("test") }},
		{"shiftPaused", func() string { return shiftPausedStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"subtitle", func() string { return subtitleStyle.Render("test") }},
		{"accent", func() string { return accentStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
	}

	for _, s := range styles {
		if s.fn() == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
}
