package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/store"
)

type jsonReport struct {
	ReportID   string      `json:"report_id"`
	ExportedAt string      `json:"exported_at"`
	Project    jsonProject `json:"project"`
	Date       string      `json:"date"`
	Count      int         `json:"count"`
	Entries    []jsonEntry `json:"entries"`
	Totals     jsonTotals  `json:"totals"`
}

type jsonProject struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Location string `json:"location,omitempty"`
}

type jsonEntry struct {
	ID              int64              `json:"id"`
	Activity        string             `json:"activity"`
	PlannedQuantity float64            `json:"planned_quantity"`
	ActualQuantity  float64            `json:"actual_quantity"`
	Unit            string             `json:"unit"`
	Productivity    float64            `json:"productivity"`
	Status          string             `json:"status"`
	Laborers        int                `json:"laborers"`
	Supervisors     int                `json:"supervisors"`
	StartTime       string             `json:"start_time"`
	EndTime         string             `json:"end_time"`
	TotalHours      float64            `json:"total_working_hours"`
	PauseHours      float64            `json:"total_pause_hours"`
	NetHours        float64            `json:"net_working_hours"`
	Interruptions   []jsonInterruption `json:"interruptions"`
	Remarks         string             `json:"remarks,omitempty"`
	SubmittedBy     string             `json:"submitted_by,omitempty"`
}

type jsonInterruption struct {
	Reason    string  `json:"reason"`
	StartTime string  `json:"start_time"`
	EndTime   string  `json:"end_time"`
	Duration  float64 `json:"duration_hours"`
}

type jsonTotals struct {
	Activities    int     `json:"activities"`
	Quantity      float64 `json:"quantity"`
	Laborers      int     `json:"laborers"`
	Supervisors   int     `json:"supervisors"`
	Interruptions int     `json:"interruptions"`
	PauseHours    float64 `json:"pause_hours"`
	NetHours      float64 `json:"net_hours"`
}

// ToJSON writes r with a freshly generated report id.
func ToJSON(r analytics.DPR, path string) error {
	export := jsonReport{
		ReportID:   uuid.New().String(),
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Project: jsonProject{
			ID:       r.Project.ID,
			Name:     r.Project.Name,
			Type:     string(r.Project.Type),
			Location: r.Project.Location,
		},
		Date:    r.Date.Format(store.DateLayout),
		Count:   len(r.Entries),
		Entries: []jsonEntry{},
		Totals:  jsonTotals(r.Totals),
	}

	for _, e := range r.Entries {
		l := e.Log
		entry := jsonEntry{
			ID:              l.ID,
			Activity:        l.ActivityName,
			PlannedQuantity: l.PlannedQuantity,
			ActualQuantity:  l.ActualQuantity,
			Unit:            l.Unit,
			Productivity:    e.Productivity,
			Status:          e.Level.String(),
			Laborers:        l.Laborers,
			Supervisors:     l.Supervisors,
			StartTime:       l.StartTime,
			EndTime:         l.EndTime,
			TotalHours:      l.TotalWorkingHours,
			PauseHours:      l.TotalPauseHours,
			NetHours:        l.NetWorkingHours,
			Interruptions:   []jsonInterruption{},
			Remarks:         l.Remarks,
			SubmittedBy:     l.SubmittedBy,
		}
		for _, i := range l.Interruptions {
			entry.Interruptions = append(entry.Interruptions, jsonInterruption{
				Reason:    i.Reason,
				StartTime: i.StartTime,
				EndTime:   i.EndTime,
				Duration:  i.Duration,
			})
		}
		export.Entries = append(export.Entries, entry)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
