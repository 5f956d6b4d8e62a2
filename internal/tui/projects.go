package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/sitelog/internal/store"
)

var projectColors = []string{"#F39C12", "#2EC4B6", "#FF6B6B", "#6C63FF", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

// projectFields holds project form values behind pointers so they survive
// value copies of the model.
type projectFields struct {
	name, color, ptype, location, start, end, hours, days *string
}

func newProjectFields() projectFields {
	var name, color, ptype, location, start, end, hours, days string
	return projectFields{&name, &color, &ptype, &location, &start, &end, &hours, &days}
}

func (f projectFields) fill(p *store.Project) {
	if p == nil {
		*f.name, *f.location, *f.start, *f.end = "", "", "", ""
		*f.color = projectColors[0]
		*f.ptype = string(store.ProjectCommercial)
		*f.hours, *f.days = "8", "6"
		return
	}
	*f.name = p.Name
	*f.color = p.Color
	*f.ptype = string(p.Type)
	*f.location = p.Location
	*f.start = formatOptionalDate(p.StartDate)
	*f.end = formatOptionalDate(p.PlannedCompletionDate)
	*f.hours = formatQty(p.PlannedHoursPerDay)
	*f.days = strconv.Itoa(p.WorkingDaysPerWeek)
}

func (f projectFields) input() (store.ProjectInput, error) {
	in := store.ProjectInput{
		Name:     strings.TrimSpace(*f.name),
		Color:    *f.color,
		Type:     store.ProjectType(*f.ptype),
		Location: strings.TrimSpace(*f.location),
	}
	var err error
	if in.StartDate, err = parseOptionalDate(*f.start); err != nil {
		return in, fmt.Errorf("start date: %w", err)
	}
	if in.PlannedCompletionDate, err = parseOptionalDate(*f.end); err != nil {
		return in, fmt.Errorf("planned completion: %w", err)
	}
	if in.PlannedHoursPerDay, err = parseQty(*f.hours); err != nil {
		return in, fmt.Errorf("hours per day: %w", err)
	}
	if in.WorkingDaysPerWeek, err = parseCount(*f.days); err != nil {
		return in, fmt.Errorf("days per week: %w", err)
	}
	return in, nil
}

func (f projectFields) form() *huh.Form {
	colorOptions := make([]huh.Option[string], len(projectColors))
	for i, c := range projectColors {
		colorOptions[i] = huh.NewOption(fmt.Sprintf("● %s", c), c)
	}
	typeOptions := make([]huh.Option[string], len(store.ProjectTypes))
	for i, t := range store.ProjectTypes {
		typeOptions[i] = huh.NewOption(t.Label(), string(t))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Project Name").Value(f.name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("name is required")
					}
					return nil
				}),
			huh.NewSelect[string]().Title("Type").Options(typeOptions...).Value(f.ptype),
			huh.NewInput().Title("Location").Value(f.location),
			huh.NewSelect[string]().Title("Color").Options(colorOptions...).Value(f.color),
		),
		huh.NewGroup(
			huh.NewInput().Title("Start date (YYYY-MM-DD)").Value(f.start).Validate(validateOptionalDate),
			huh.NewInput().Title("Planned completion (YYYY-MM-DD)").Value(f.end).Validate(validateOptionalDate),
			huh.NewInput().Title("Planned hours per day").Value(f.hours).Validate(validateQty),
			huh.NewInput().Title("Working days per week").Value(f.days).Validate(validateCount),
		).Title("Schedule"),
	).WithShowHelp(true).WithShowErrors(true)
}

type targetFields struct {
	activity, quantity, unit, start, end *string
}

func newTargetFields() targetFields {
	var activity, quantity, unit, start, end string
	return targetFields{&activity, &quantity, &unit, &start, &end}
}

func (f targetFields) reset() {
	*f.activity, *f.quantity, *f.unit, *f.start, *f.end = "", "", "", "", ""
}

func (f targetFields) target(projectID int64) (store.PlannedTarget, error) {
	t := store.PlannedTarget{
		ProjectID:    projectID,
		ActivityName: strings.TrimSpace(*f.activity),
		Unit:         strings.TrimSpace(*f.unit),
	}
	var err error
	if t.PlannedDailyQuantity, err = parseQty(*f.quantity); err != nil {
		return t, fmt.Errorf("planned quantity: %w", err)
	}
	if t.StartDate, err = parseOptionalDate(*f.start); err != nil {
		return t, fmt.Errorf("start date: %w", err)
	}
	if t.EndDate, err = parseOptionalDate(*f.end); err != nil {
		return t, fmt.Errorf("end date: %w", err)
	}
	return t, nil
}

func (f targetFields) form() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Activity").Placeholder("Concrete Pouring").Value(f.activity).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("activity is required")
					}
					return nil
				}),
			huh.NewInput().Title("Planned daily quantity").Value(f.quantity).Validate(validateQty),
			huh.NewInput().Title("Unit").Placeholder("m³").Value(f.unit),
			huh.NewInput().Title("Valid from (YYYY-MM-DD, optional)").Value(f.start).Validate(validateOptionalDate),
			huh.NewInput().Title("Valid until (YYYY-MM-DD, optional)").Value(f.end).Validate(validateOptionalDate),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

type projectsModel struct {
	store  *store.Store
	width  int
	height int

	projects       []store.Project
	targets        []store.PlannedTarget
	cursor         int
	targetCursor   int
	showArchived   bool
	viewingTargets bool // true = viewing targets of selected project

	formActive bool
	form       *huh.Form
	formType   string // "project", "edit_project", "target"

	projectForm projectFields
	targetForm  targetFields
	editingID   int64 // project ID being edited
}

func newProjectsModel(s *store.Store) projectsModel {
	return projectsModel{
		store:       s,
		projectForm: newProjectFields(),
		targetForm:  newTargetFields(),
	}
}

func (p *projectsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

type projectsDataMsg struct {
	projects []store.Project
	err      error
}

type targetsDataMsg struct {
	targets []store.PlannedTarget
	err     error
}

func (p projectsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		projects, err := p.store.ListProjects(p.showArchived)
		return projectsDataMsg{projects: projects, err: err}
	}
}

func (p projectsModel) refreshTargets() tea.Cmd {
	if p.cursor >= len(p.projects) {
		return nil
	}
	pid := p.projects[p.cursor].ID
	return func() tea.Msg {
		targets, err := p.store.ListPlannedTargets(pid)
		return targetsDataMsg{targets: targets, err: err}
	}
}

func (p projectsModel) update(msg tea.Msg) (projectsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	switch msg := msg.(type) {
	case projectsDataMsg:
		if msg.err != nil {
			return p, errorCmd("Projects", msg.err)
		}
		p.projects = msg.projects
		if p.cursor >= len(p.projects) {
			p.cursor = max(0, len(p.projects)-1)
		}
		return p, nil

	case targetsDataMsg:
		if msg.err != nil {
			return p, errorCmd("Targets", msg.err)
		}
		p.targets = msg.targets
		if p.targetCursor >= len(p.targets) {
			p.targetCursor = max(0, len(p.targets)-1)
		}
		return p, nil

	case tea.KeyMsg:
		if p.viewingTargets {
			return p.updateTargetView(msg)
		}
		return p.updateProjectList(msg)
	}
	return p, nil
}

func (p projectsModel) updateProjectList(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, keys.Down):
		if p.cursor < len(p.projects)-1 {
			p.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(p.projects) > 0 {
			p.viewingTargets = true
			p.targetCursor = 0
			return p, p.refreshTargets()
		}
	case key.Matches(msg, keys.New):
		return p.showProjectForm(nil)
	case key.Matches(msg, keys.Edit):
		if len(p.projects) > 0 {
			proj := p.projects[p.cursor]
			return p.showProjectForm(&proj)
		}
	case key.Matches(msg, keys.Delete):
		if len(p.projects) > 0 {
			proj := p.projects[p.cursor]
			if err := p.store.ArchiveProject(proj.ID); err != nil {
				return p, errorCmd("Archive", err)
			}
			return p, tea.Batch(p.refresh(), statusCmd("Archived "+proj.Name))
		}
	case key.Matches(msg, keys.Archived):
		p.showArchived = !p.showArchived
		return p, p.refresh()
	}
	return p, nil
}

func (p projectsModel) updateTargetView(msg tea.KeyMsg) (projectsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		p.viewingTargets = false
		return p, nil
	case key.Matches(msg, keys.Up):
		if p.targetCursor > 0 {
			p.targetCursor--
		}
	case key.Matches(msg, keys.Down):
		if p.targetCursor < len(p.targets)-1 {
			p.targetCursor++
		}
	case key.Matches(msg, keys.New):
		return p.showTargetForm()
	case key.Matches(msg, keys.Delete):
		if len(p.targets) > 0 {
			t := p.targets[p.targetCursor]
			if err := p.store.DeletePlannedTarget(t.ID); err != nil {
				return p, errorCmd("Delete target", err)
			}
			return p, p.refreshTargets()
		}
	}
	return p, nil
}

func (p projectsModel) showProjectForm(proj *store.Project) (projectsModel, tea.Cmd) {
	p.projectForm.fill(proj)
	p.formType = "project"
	if proj != nil {
		p.formType = "edit_project"
		p.editingID = proj.ID
	}
	p.form = p.projectForm.form()
	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) showTargetForm() (projectsModel, tea.Cmd) {
	p.targetForm.reset()
	p.formType = "target"
	p.form = p.targetForm.form()
	p.formActive = true
	return p, p.form.Init()
}

func (p projectsModel) updateForm(msg tea.Msg) (projectsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		return p.saveForm()
	}

	return p, cmd
}

// saveForm persists the completed form.
func (p projectsModel) saveForm() (projectsModel, tea.Cmd) {
	switch p.formType {
	case "project", "edit_project":
		in, err := p.projectForm.input()
		if err != nil {
			return p, errorCmd("Project", err)
		}
		if p.formType == "project" {
			if _, err := p.store.CreateProject(in); err != nil {
				return p, errorCmd("Create project", err)
			}
			return p, tea.Batch(p.refresh(), statusCmd("Created "+in.Name))
		}
		if err := p.store.UpdateProject(p.editingID, in); err != nil {
			return p, errorCmd("Update project", err)
		}
		return p, tea.Batch(p.refresh(), statusCmd("Updated "+in.Name))

	case "target":
		if p.cursor >= len(p.projects) {
			return p, nil
		}
		t, err := p.targetForm.target(p.projects[p.cursor].ID)
		if err != nil {
			return p, errorCmd("Target", err)
		}
		if _, err := p.store.AddPlannedTarget(t); err != nil {
			return p, errorCmd("Add target", err)
		}
		return p, p.refreshTargets()
	}
	return p, nil
}

func (p projectsModel) view() string {
	if p.formActive && p.form != nil {
		title := titleStyle.Render("New Project")
		if p.formType == "edit_project" {
			title = titleStyle.Render("Edit Project")
		} else if p.formType == "target" {
			title = titleStyle.Render("New Planned Target")
		}
		formView := p.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(p.width - 4).Render(content)
	}

	if p.viewingTargets {
		return p.renderTargetView()
	}
	return p.renderProjectList()
}

func (p projectsModel) renderProjectList() string {
	w := p.width - 4
	title := titleStyle.Render("Projects")
	if p.showArchived {
		title += mutedStyle.Render("  (including archived)")
	}

	if len(p.projects) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No projects yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	// Table header
	header := mutedStyle.Render(fmt.Sprintf("    %-24s %-15s %-18s %-10s %s", "Name", "Type", "Location", "Status", "Completion"))
	rows = append(rows, header)

	for i, proj := range p.projects {
		colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(proj.Color)).Render("●")
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		completion := formatOptionalDate(proj.PlannedCompletionDate)
		if completion == "" {
			completion = "-"
		}
		row := style.Render(fmt.Sprintf("%s%s %-24s %-15s %-18s %-10s %s",
			cursor, colorDot, truncate(proj.Name, 24), proj.Type.Label(), truncate(proj.Location, 18), proj.Status, completion))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  u: edit  d: archive  a: toggle archived  enter: targets"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (p projectsModel) renderTargetView() string {
	w := p.width - 4
	proj := p.projects[p.cursor]
	colorDot := lipgloss.NewStyle().Foreground(lipgloss.Color(proj.Color)).Render("●")
	title := titleStyle.Render(fmt.Sprintf("%s %s  Planned Targets", colorDot, proj.Name))

	if len(p.targets) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No targets. Press n to add one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-26s %12s %-8s %s", "Activity", "Daily qty", "Unit", "Valid")))

	for i, t := range p.targets {
		cursor := "  "
		style := normalItemStyle
		if i == p.targetCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		valid := "always"
		if !t.StartDate.IsZero() || !t.EndDate.IsZero() {
			valid = fmt.Sprintf("%s → %s", orDash(formatOptionalDate(t.StartDate)), orDash(formatOptionalDate(t.EndDate)))
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-26s %12s %-8s %s",
			cursor, truncate(t.ActivityName, 26), formatQty(t.PlannedDailyQuantity), t.Unit, valid)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new target  d: delete  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
