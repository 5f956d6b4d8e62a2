package analytics

// Category groups suggestions for display.
type Category string

const (
	CategoryStaffing      Category = "staffing"
	CategoryProcess       Category = "process"
	CategoryScheduling    Category = "scheduling"
	CategoryInvestigation Category = "investigation"
)

// Icon is a single-glyph marker for terminal display.
func (c Category) Icon() string {
	switch c {
	case CategoryStaffing:
		return "♟"
	case CategoryProcess:
		return "⚙"
	case CategoryScheduling:
		return "◷"
	case CategoryInvestigation:
		return "⌕"
	}
	return "•"
}

type Suggestion struct {
	Text     string
	Category Category
}

// GenerateSuggestions maps a risk to remediation advice. Rules are independent,
// so any combination may apply, including none.
func GenerateSuggestions(risk DelayRisk) []Suggestion {
	var out []Suggestion

	if risk.CurrentProductivity < 60 {
		out = append(out, Suggestion{
			Text:     "Increase manpower allocation to this activity to improve output",
			Category: CategoryStaffing,
		})
	}

	if risk.ConsecutiveDays >= 3 {
		out = append(out,
			Suggestion{
				Text:     "Review workflow and identify bottlenecks in the current process",
				Category: CategoryProcess,
			},
			Suggestion{
				Text:     "Consider rescheduling this activity or adjusting the timeline",
				Category: CategoryScheduling,
			},
		)
	}

	if risk.Interruptions >= 3 {
		out = append(out, Suggestion{
			Text:     "Investigate repeated interruptions and address root causes (weather, materials, equipment)",
			Category: CategoryInvestigation,
		})
	}

	if risk.CurrentProductivity >= 60 && risk.CurrentProductivity < 80 {
		out = append(out, Suggestion{
			Text:     "Optimize resource allocation and improve coordination between teams",
			Category: CategoryProcess,
		})
	}

	return out
}
