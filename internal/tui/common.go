package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/store"
	"github.com/sadopc/sitelog/internal/worktime"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewProjects
	viewDailyLog
	viewReports
	viewSettings
)

var viewNames = []string{"Dashboard", "Projects", "Daily Log", "Reports", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type logSubmittedMsg struct {
	log *store.DailyLog
}

type shiftStartedMsg struct{}
type shiftEndedMsg struct{}

func statusCmd(text string) tea.Cmd {
	return func() tea.Msg { return statusMsg{text: text} }
}

func errorCmd(context string, err error) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("%s: %v", context, err), isError: true}
	}
}

// --- Helpers ---

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

func formatPct(p float64) string {
	return fmt.Sprintf("%.0f%%", p)
}

func formatQty(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}

func levelStyle(l analytics.Level) lipgloss.Style {
	switch l {
	case analytics.LevelOnTrack:
		return successStyle
	case analytics.LevelSlightlyDelayed:
		return warningStyle
	default:
		return errorStyle
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

// --- Form parsing ---

var errInterruptionLine = errors.New(`expected "reason, HH:MM, HH:MM"`)

// parseInterruptions reads one interruption per line as "reason, start, end".
// Blank lines are skipped.
func parseInterruptions(text string) ([]store.Interruption, error) {
	var out []store.Interruption
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != 3 {
			return nil, fmt.Errorf("line %d: %w", n+1, errInterruptionLine)
		}
		in := store.Interruption{
			Reason:    strings.TrimSpace(parts[0]),
			StartTime: strings.TrimSpace(parts[1]),
			EndTime:   strings.TrimSpace(parts[2]),
		}
		if in.Reason == "" {
			return nil, fmt.Errorf("line %d: reason is required", n+1)
		}
		if _, err := worktime.HoursBetween(in.StartTime, in.EndTime); err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		out = append(out, in)
	}
	return out, nil
}

func formatInterruptions(list []store.Interruption) string {
	lines := make([]string, len(list))
	for i, in := range list {
		lines[i] = fmt.Sprintf("%s, %s, %s", in.Reason, in.StartTime, in.EndTime)
	}
	return strings.Join(lines, "\n")
}

func parseQty(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if v < 0 {
		return 0, errors.New("must not be negative")
	}
	return v, nil
}

func parseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("not a whole number: %q", s)
	}
	if v < 0 {
		return 0, errors.New("must not be negative")
	}
	return v, nil
}

// parseOptionalDate accepts YYYY-MM-DD or blank.
func parseOptionalDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(store.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("use YYYY-MM-DD")
	}
	return t, nil
}

func formatOptionalDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(store.DateLayout)
}

func validateQty(s string) error {
	_, err := parseQty(s)
	return err
}

func validateOptionalQty(s string) error {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return validateQty(s)
}

func validateCount(s string) error {
	_, err := parseCount(s)
	return err
}

func validateClock(s string) error {
	_, err := worktime.ParseClock(s)
	return err
}

func validateOptionalDate(s string) error {
	_, err := parseOptionalDate(s)
	return err
}

func validateInterruptions(s string) error {
	_, err := parseInterruptions(s)
	return err
}
