package export

import (
	"fmt"
	"os"
	"strings"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/store"
)

// Markdown renders r as a GitHub-flavoured Markdown document.
func Markdown(r analytics.DPR) string {
	var b strings.Builder
	p := r.Project

	fmt.Fprintf(&b, "# Daily Progress Report: %s\n\n", cell(p.Name))
	fmt.Fprintf(&b, "- **Date:** %s\n", r.Date.Format(store.DateLayout))
	fmt.Fprintf(&b, "- **Type:** %s\n", p.Type.Label())
	if p.Location != "" {
		fmt.Fprintf(&b, "- **Location:** %s\n", cell(p.Location))
	}
	b.WriteString("\n")

	if r.Empty() {
		b.WriteString("_No activities were logged on this day._\n")
		return b.String()
	}

	b.WriteString("## Activities\n\n")
	b.WriteString("| Activity | Planned | Actual | Unit | Productivity | Status | Crew | Hours (net) |\n")
	b.WriteString("|---|---:|---:|---|---:|---|---:|---:|\n")
	for _, e := range r.Entries {
		l := e.Log
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s%% | %s | %d + %d | %s |\n",
			cell(l.ActivityName), formatQty(l.PlannedQuantity), formatQty(l.ActualQuantity), cell(l.Unit),
			formatPct(e.Productivity), e.Level, l.Laborers, l.Supervisors, formatHours(l.NetWorkingHours))
	}

	t := r.Totals
	b.WriteString("\n## Totals\n\n")
	fmt.Fprintf(&b, "- **Activities:** %d\n", t.Activities)
	fmt.Fprintf(&b, "- **Quantity:** %s\n", formatQty(t.Quantity))
	fmt.Fprintf(&b, "- **Manpower:** %d laborers, %d supervisors\n", t.Laborers, t.Supervisors)
	fmt.Fprintf(&b, "- **Interruptions:** %d (%s h paused)\n", t.Interruptions, formatHours(t.PauseHours))
	fmt.Fprintf(&b, "- **Net working hours:** %s\n", formatHours(t.NetHours))

	var withStops []analytics.DPREntry
	for _, e := range r.Entries {
		if len(e.Log.Interruptions) > 0 {
			withStops = append(withStops, e)
		}
	}
	if len(withStops) > 0 {
		b.WriteString("\n## Interruptions\n\n")
		b.WriteString("| Activity | Reason | From | To | Hours |\n")
		b.WriteString("|---|---|---|---|---:|\n")
		for _, e := range withStops {
			for _, i := range e.Log.Interruptions {
				fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
					cell(e.Log.ActivityName), cell(i.Reason), i.StartTime, i.EndTime, formatHours(i.Duration))
			}
		}
	}

	var remarks []string
	for _, e := range r.Entries {
		if s := strings.TrimSpace(e.Log.Remarks); s != "" {
			remarks = append(remarks, fmt.Sprintf("- **%s:** %s", cell(e.Log.ActivityName), cell(s)))
		}
	}
	if len(remarks) > 0 {
		b.WriteString("\n## Remarks\n\n")
		b.WriteString(strings.Join(remarks, "\n"))
		b.WriteString("\n")
	}
	return b.String()
}

// ToMarkdown writes Markdown(r) to path.
func ToMarkdown(r analytics.DPR, path string) error {
	if err := os.WriteFile(path, []byte(Markdown(r)), 0o644); err != nil {
		return fmt.Errorf("write markdown file: %w", err)
	}
	return nil
}

// cell keeps user text from breaking table rows.
func cell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", `\|`)
}
