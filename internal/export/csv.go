package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/sadopc/sitelog/internal/analytics"
	"github.com/sadopc/sitelog/internal/store"
)

// ToCSV writes one row per log followed by a totals row.
func ToCSV(r analytics.DPR, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	// Header
	if err := w.Write([]string{
		"Project", "Date", "Activity", "Planned", "Actual", "Unit", "Productivity (%)", "Status",
		"Laborers", "Supervisors", "Start", "End", "Total (h)", "Pause (h)", "Net (h)",
		"Interruptions", "Remarks", "Submitted By",
	}); err != nil {
		return err
	}

	date := r.Date.Format(store.DateLayout)
	for _, e := range r.Entries {
		l := e.Log
		row := []string{
			r.Project.Name,
			date,
			l.ActivityName,
			formatQty(l.PlannedQuantity),
			formatQty(l.ActualQuantity),
			l.Unit,
			formatPct(e.Productivity),
			e.Level.String(),
			strconv.Itoa(l.Laborers),
			strconv.Itoa(l.Supervisors),
			l.StartTime,
			l.EndTime,
			formatHours(l.TotalWorkingHours),
			formatHours(l.TotalPauseHours),
			formatHours(l.NetWorkingHours),
			strconv.Itoa(len(l.Interruptions)),
			l.Remarks,
			l.SubmittedBy,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	t := r.Totals
	if err := w.Write([]string{
		r.Project.Name, date, "TOTAL", "", formatQty(t.Quantity), "", "", "",
		strconv.Itoa(t.Laborers), strconv.Itoa(t.Supervisors), "", "", "",
		formatHours(t.PauseHours), formatHours(t.NetHours),
		strconv.Itoa(t.Interruptions), "", "",
	}); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
