package analytics

import (
	"time"

	"github.com/sadopc/sitelog/internal/store"
)

// DashboardMetrics is the headline state across all active projects.
type DashboardMetrics struct {
	TotalProjects         int
	OverallProgress       float64 // actual over planned, percent, capped at 100
	InterruptionsThisWeek int     // last 7 days including today
	ProjectsLoggedToday   int
	PendingToday          int // active projects without a log today
	WorkingDays           int // distinct days with at least one log
}

// Metrics summarises logs of the given projects as of now. Logs of projects
// not in the list are ignored.
func Metrics(projects []store.Project, logs []store.DailyLog, now time.Time) DashboardMetrics {
	today := store.Day(now)
	weekStart := today.AddDate(0, 0, -6)

	active := make(map[int64]bool)
	for _, p := range projects {
		if !p.Archived {
			active[p.ID] = true
		}
	}

	m := DashboardMetrics{TotalProjects: len(active)}
	var planned, actual float64
	loggedToday := make(map[int64]bool)
	days := make(map[time.Time]bool)

	for _, l := range logs {
		if !active[l.ProjectID] {
			continue
		}
		d := store.Day(l.Date)
		if d.After(today) {
			continue
		}
		planned += l.PlannedQuantity
		actual += l.ActualQuantity
		days[d] = true
		if !d.Before(weekStart) {
			m.InterruptionsThisWeek += len(l.Interruptions)
		}
		if d.Equal(today) {
			loggedToday[l.ProjectID] = true
		}
	}

	m.OverallProgress = Productivity(actual, planned)
	if m.OverallProgress > 100 {
		m.OverallProgress = 100
	}
	m.ProjectsLoggedToday = len(loggedToday)
	m.PendingToday = m.TotalProjects - m.ProjectsLoggedToday
	m.WorkingDays = len(days)
	return m
}
