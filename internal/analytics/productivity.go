// Package analytics derives productivity figures, delay risks and progress
// reports from daily logs and planned targets. Every function is pure: it reads
// its arguments and returns freshly allocated results.
package analytics

import "github.com/sadopc/sitelog/internal/store"

// ActivitySummary is the planned-vs-actual total of one activity.
type ActivitySummary struct {
	Activity   string
	Planned    float64
	Actual     float64
	Unit       string
	Percentage float64
}

// Productivity returns actual as a percentage of planned, or 0 when nothing
// was planned.
func Productivity(actual, planned float64) float64 {
	if planned <= 0 {
		return 0
	}
	return actual / planned * 100
}

// Summarize buckets logs by activity. Targets seed the buckets (first target
// per activity wins); a logged activity without a target is seeded from its
// first log. Results keep first-encounter order.
func Summarize(targets []store.PlannedTarget, logs []store.DailyLog) []ActivitySummary {
	var out []ActivitySummary
	index := make(map[string]int)

	for _, t := range targets {
		if _, ok := index[t.ActivityName]; ok {
			continue
		}
		index[t.ActivityName] = len(out)
		out = append(out, ActivitySummary{
			Activity: t.ActivityName,
			Planned:  t.PlannedDailyQuantity,
			Unit:     t.Unit,
		})
	}

	for _, l := range logs {
		if i, ok := index[l.ActivityName]; ok {
			out[i].Actual += l.ActualQuantity
			continue
		}
		index[l.ActivityName] = len(out)
		out = append(out, ActivitySummary{
			Activity: l.ActivityName,
			Planned:  l.PlannedQuantity,
			Actual:   l.ActualQuantity,
			Unit:     l.Unit,
		})
	}

	for i := range out {
		out[i].Percentage = Productivity(out[i].Actual, out[i].Planned)
	}
	return out
}
