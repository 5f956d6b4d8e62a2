package analytics

import (
	"time"

	"github.com/sadopc/sitelog/internal/store"
)

// DPR is the Daily Progress Report of one project for one calendar day.
type DPR struct {
	Project store.Project
	Date    time.Time
	Entries []DPREntry
	Totals  DPRTotals
}

type DPREntry struct {
	Log          store.DailyLog
	Productivity float64
	Level        Level
}

type DPRTotals struct {
	Activities    int
	Quantity      float64
	Laborers      int
	Supervisors   int
	Interruptions int
	PauseHours    float64
	NetHours      float64
}

// BuildDPR keeps the logs of project on day, in the given order, and totals them.
func BuildDPR(project store.Project, logs []store.DailyLog, day time.Time, bands Bands) DPR {
	day = store.Day(day)
	r := DPR{Project: project, Date: day}

	for _, l := range logs {
		if l.ProjectID != project.ID || !store.Day(l.Date).Equal(day) {
			continue
		}
		p := Productivity(l.ActualQuantity, l.PlannedQuantity)
		r.Entries = append(r.Entries, DPREntry{Log: l, Productivity: p, Level: bands.Level(p)})

		r.Totals.Activities++
		r.Totals.Quantity += l.ActualQuantity
		r.Totals.Laborers += l.Laborers
		r.Totals.Supervisors += l.Supervisors
		r.Totals.Interruptions += len(l.Interruptions)
		r.Totals.PauseHours += l.TotalPauseHours
		r.Totals.NetHours += l.NetWorkingHours
	}
	return r
}

// Empty reports whether nothing was logged that day.
func (r DPR) Empty() bool {
	return len(r.Entries) == 0
}
