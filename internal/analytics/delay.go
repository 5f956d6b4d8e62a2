package analytics

import (
	"sort"

	"github.com/sadopc/sitelog/internal/store"
)

// DelayRisk flags an activity whose most recent days ran below threshold.
type DelayRisk struct {
	ProjectID           int64
	ProjectName         string
	Activity            string
	ConsecutiveDays     int
	CurrentProductivity float64
	AverageProductivity float64
	Interruptions       int
}

// Rules parameterise the delay scan.
type Rules struct {
	// LowThreshold is the productivity percentage below which a day counts as low.
	LowThreshold float64
	// Window is the maximum number of most recent days inspected.
	Window int
	// MinConsecutive is the shortest run of low days that raises a risk.
	MinConsecutive int
}

func DefaultRules() Rules {
	return Rules{LowThreshold: 80, Window: 5, MinConsecutive: 2}
}

// SettingsReader is the part of the store that holds user-tuned rules.
type SettingsReader interface {
	SettingFloat(key string, fallback float64) float64
	SettingInt(key string, fallback int) int
}

// LoadRules reads rules from settings, keeping defaults for anything unset.
func LoadRules(s SettingsReader) Rules {
	d := DefaultRules()
	return Rules{
		LowThreshold:   s.SettingFloat(store.SettingLowProductivity, d.LowThreshold),
		Window:         s.SettingInt(store.SettingRiskWindow, d.Window),
		MinConsecutive: s.SettingInt(store.SettingMinConsecutive, d.MinConsecutive),
	}.normalized()
}

func (r Rules) normalized() Rules {
	d := DefaultRules()
	if r.LowThreshold <= 0 {
		r.LowThreshold = d.LowThreshold
	}
	if r.Window <= 0 {
		r.Window = d.Window
	}
	if r.MinConsecutive <= 0 {
		r.MinConsecutive = d.MinConsecutive
	}
	return r
}

// DetectDelayRisks runs Detect with the default rules.
func DetectDelayRisks(logs []store.DailyLog, targets []store.PlannedTarget, project store.Project) []DelayRisk {
	return DefaultRules().Detect(logs, targets, project)
}

// Detect walks each targeted activity's logs from the most recent day
// backwards. Low days extend the run; the first day at or above the threshold
// ends the walk. Every inspected day, including the one that ended the walk,
// counts toward the average and the interruption total.
func (r Rules) Detect(logs []store.DailyLog, targets []store.PlannedTarget, project store.Project) []DelayRisk {
	r = r.normalized()

	targeted := make(map[string]bool, len(targets))
	for _, t := range targets {
		targeted[t.ActivityName] = true
	}

	var order []string
	groups := make(map[string][]store.DailyLog)
	for _, l := range logs {
		if _, ok := groups[l.ActivityName]; !ok {
			order = append(order, l.ActivityName)
		}
		groups[l.ActivityName] = append(groups[l.ActivityName], l)
	}

	var risks []DelayRisk
	for _, activity := range order {
		if !targeted[activity] {
			continue
		}
		if risk, ok := r.scan(groups[activity]); ok {
			risk.ProjectID = project.ID
			risk.ProjectName = project.Name
			risk.Activity = activity
			risks = append(risks, risk)
		}
	}
	return risks
}

func (r Rules) scan(group []store.DailyLog) (DelayRisk, bool) {
	sorted := make([]store.DailyLog, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.After(sorted[j].Date)
		}
		return sorted[i].ID > sorted[j].ID
	})

	var (
		run           int
		inspected     int
		sum           float64
		current       float64
		interruptions int
	)
	for i := 0; i < len(sorted) && i < r.Window; i++ {
		l := sorted[i]
		p := Productivity(l.ActualQuantity, l.PlannedQuantity)
		if i == 0 {
			current = p
		}
		inspected++
		sum += p
		interruptions += len(l.Interruptions)

		if p >= r.LowThreshold {
			break
		}
		run++
	}

	if run < r.MinConsecutive {
		return DelayRisk{}, false
	}
	return DelayRisk{
		ConsecutiveDays:     run,
		CurrentProductivity: current,
		AverageProductivity: sum / float64(inspected),
		Interruptions:       interruptions,
	}, true
}
