package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	rules   analytics.Rules
	bands   analytics.Bands
	profile store.Profile

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	threshold      *string
	window         *string
	minConsecutive *string
	onTrack        *string
	slightDelay    *string
	fullName       *string
	designation    *string
	role           *store.Role
	company        *string
	phone          *string
}

func newSettingsModel(s *store.Store) settingsModel {
	th, win, mc, ot, sd := "", "", "", "", ""
	fn, des, co, ph := "", "", "", ""
	role := store.RoleSiteEngineer
	return settingsModel{
		store:          s,
		rules:          analytics.DefaultRules(),
		bands:          analytics.DefaultBands(),
		profile:        store.Profile{Role: store.RoleSiteEngineer},
		threshold:      &th,
		window:         &win,
		minConsecutive: &mc,
		onTrack:        &ot,
		slightDelay:    &sd,
		fullName:       &fn,
		designation:    &des,
		role:           &role,
		company:        &co,
		phone:          &ph,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	rules   analytics.Rules
	bands   analytics.Bands
	profile store.Profile
	err     error
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		profile, err := s.store.GetProfile()
		if err != nil {
			return settingsDataMsg{err: err}
		}
		return settingsDataMsg{
			rules:   analytics.LoadRules(s.store),
			bands:   analytics.LoadBands(s.store),
			profile: profile,
		}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		if msg.err != nil {
			return s, errorCmd("Settings", msg.err)
		}
		s.rules = msg.rules
		s.bands = msg.bands
		s.profile = msg.profile
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.threshold = formatQty(s.rules.LowThreshold)
	*s.window = strconv.Itoa(s.rules.Window)
	*s.minConsecutive = strconv.Itoa(s.rules.MinConsecutive)
	*s.onTrack = formatQty(s.bands.OnTrack)
	*s.slightDelay = formatQty(s.bands.SlightDelay)
	*s.fullName = s.profile.FullName
	*s.designation = s.profile.Designation
	*s.role = s.profile.Role
	*s.company = s.profile.CompanyName
	*s.phone = s.profile.Phone

	var roles []huh.Option[store.Role]
	for _, r := range store.Roles {
		roles = append(roles, huh.NewOption(r.Label(), r))
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Low productivity threshold (%)").Value(s.threshold).Validate(validatePositive),
			huh.NewInput().Title("Days inspected per activity").Value(s.window).Validate(validatePositiveCount),
			huh.NewInput().Title("Low days in a row that raise a risk").Value(s.minConsecutive).Validate(validatePositiveCount),
		).Title("Delay rules"),
		huh.NewGroup(
			huh.NewInput().Title("On track from (%)").Value(s.onTrack).Validate(validatePositive),
			huh.NewInput().Title("Slightly delayed from (%)").Value(s.slightDelay).Validate(validatePositive),
		).Title("Status bands"),
		huh.NewGroup(
			huh.NewInput().Title("Full name").Value(s.fullName),
			huh.NewInput().Title("Designation").Value(s.designation),
			huh.NewSelect[store.Role]().Title("Role").Options(roles...).Value(s.role),
			huh.NewInput().Title("Company").Value(s.company),
			huh.NewInput().Title("Phone").Value(s.phone),
		).Title("Profile"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, errorCmd("Settings not saved", err)
		}
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved"))
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	on, _ := strconv.ParseFloat(strings.TrimSpace(*s.onTrack), 64)
	slight, _ := strconv.ParseFloat(strings.TrimSpace(*s.slightDelay), 64)
	if slight > on {
		return fmt.Errorf("slightly delayed (%s%%) must not exceed on track (%s%%)", formatQty(slight), formatQty(on))
	}

	values := []struct{ key, value string }{
		{store.SettingLowProductivity, *s.threshold},
		{store.SettingRiskWindow, *s.window},
		{store.SettingMinConsecutive, *s.minConsecutive},
		{store.SettingOnTrack, *s.onTrack},
		{store.SettingSlightDelay, *s.slightDelay},
	}
	for _, v := range values {
		if err := s.store.SetSetting(v.key, strings.TrimSpace(v.value)); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	return s.store.SaveProfile(store.Profile{
		FullName:    *s.fullName,
		Designation: *s.designation,
		Role:        *s.role,
		CompanyName: *s.company,
		Phone:       *s.phone,
	})
}

func validatePositive(v string) error {
	f, err := parseQty(v)
	if err != nil {
		return err
	}
	if f == 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}

func validatePositiveCount(v string) error {
	n, err := parseCount(v)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("must be at least 1")
	}
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	row := func(label, value string) string {
		return fmt.Sprintf("  %s %s", lipgloss.NewStyle().Width(36).Render(label), highlightStyle.Render(value))
	}
	orNotSet := func(v string) string {
		if v == "" {
			return "not set"
		}
		return v
	}

	rows := []string{
		titleStyle.Render("Settings"), "",
		subtitleStyle.Render("Delay rules"),
		row("Low productivity threshold", "below "+formatPct(s.rules.LowThreshold)),
		row("Days inspected per activity", strconv.Itoa(s.rules.Window)),
		row("Low days in a row that raise a risk", strconv.Itoa(s.rules.MinConsecutive)),
		"",
		subtitleStyle.Render("Status bands"),
		row(analytics.LevelOnTrack.String(), formatPct(s.bands.OnTrack)+" and above"),
		row(analytics.LevelSlightlyDelayed.String(), formatPct(s.bands.SlightDelay)+" and above"),
		row(analytics.LevelCritical.String(), "below "+formatPct(s.bands.SlightDelay)),
		"",
		subtitleStyle.Render("Profile"),
		row("Full name", orNotSet(s.profile.FullName)),
		row("Designation", orNotSet(s.profile.Designation)),
		row("Role", s.profile.Role.Label()),
		row("Company", orNotSet(s.profile.CompanyName)),
		row("Phone", orNotSet(s.profile.Phone)),
		"",
		mutedStyle.Render("Press enter to edit settings"),
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
