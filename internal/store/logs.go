package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sadopc/sitelog/internal/worktime"
)

// ErrInvalidLog wraps every validation failure of SubmitLog.
var ErrInvalidLog = errors.New("invalid daily log")

const logColumns = `id, project_id, activity_name, planned_quantity, actual_quantity, unit, laborers, supervisors,
	log_date, start_time, end_time, total_working_hours, total_pause_hours, net_working_hours, remarks,
	submitted_by, submitted_at`

// SubmitLog validates a log, derives its hour fields and stores it together
// with its interruptions. Logs cannot be edited afterwards.
func (s *Store) SubmitLog(in LogInput) (*DailyLog, error) {
	in.ActivityName = strings.TrimSpace(in.ActivityName)
	in.Unit = strings.TrimSpace(in.Unit)
	switch {
	case in.ActivityName == "":
		return nil, fmt.Errorf("%w: activity is required", ErrInvalidLog)
	case in.PlannedQuantity < 0 || in.ActualQuantity < 0:
		return nil, fmt.Errorf("%w: quantities must not be negative", ErrInvalidLog)
	case in.Laborers < 0 || in.Supervisors < 0:
		return nil, fmt.Errorf("%w: crew counts must not be negative", ErrInvalidLog)
	case in.Date.IsZero():
		return nil, fmt.Errorf("%w: date is required", ErrInvalidLog)
	}

	shift, err := worktime.NewShift(in.StartTime, in.EndTime, in.Interruptions)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidLog, err)
	}
	if shift.Net < 0 {
		return nil, fmt.Errorf("%w: interruptions (%.2fh) exceed working hours (%.2fh)", ErrInvalidLog, shift.Pause, shift.Total)
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	res, err := tx.Exec(
		`INSERT INTO daily_logs (project_id, activity_name, planned_quantity, actual_quantity, unit, laborers, supervisors,
			log_date, start_time, end_time, total_working_hours, total_pause_hours, net_working_hours, remarks,
			submitted_by, submitted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.ProjectID, in.ActivityName, in.PlannedQuantity, in.ActualQuantity, in.Unit, in.Laborers, in.Supervisors,
		in.Date.Format(DateLayout), in.StartTime, in.EndTime, shift.Total, shift.Pause, shift.Net, in.Remarks,
		in.SubmittedBy, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert log: %w", err)
	}
	id, _ := res.LastInsertId()

	for i, intr := range in.Interruptions {
		// NewShift already validated both clocks.
		dur, _ := worktime.HoursBetween(intr.StartTime, intr.EndTime)
		_, err := tx.Exec(
			`INSERT INTO interruptions (log_id, position, reason, start_time, end_time, duration_hours)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			id, i, strings.TrimSpace(intr.Reason), intr.StartTime, intr.EndTime, dur,
		)
		if err != nil {
			return nil, fmt.Errorf("insert interruption %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit log: %w", err)
	}
	return s.GetLog(id)
}

func (s *Store) GetLog(id int64) (*DailyLog, error) {
	row := s.db.QueryRow(`SELECT `+logColumns+` FROM daily_logs WHERE id = ?`, id)
	l, err := scanLog(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get log %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get log %d: %w", id, err)
	}
	logs := []DailyLog{*l}
	if err := s.attachInterruptions(logs); err != nil {
		return nil, err
	}
	return &logs[0], nil
}

// ListLogs returns logs newest date first, each with its interruptions.
func (s *Store) ListLogs(f LogFilter) ([]DailyLog, error) {
	query := `SELECT ` + logColumns + ` FROM daily_logs WHERE 1=1`
	var args []any

	if f.ProjectID != nil {
		query += ` AND project_id = ?`
		args = append(args, *f.ProjectID)
	}
	if f.Activity != "" {
		query += ` AND activity_name = ?`
		args = append(args, f.Activity)
	}
	if f.From != nil {
		query += ` AND log_date >= ?`
		args = append(args, f.From.Format(DateLayout))
	}
	if f.To != nil {
		query += ` AND log_date < ?`
		args = append(args, f.To.Format(DateLayout))
	}
	query += ` ORDER BY log_date DESC, id DESC`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list logs: %w", err)
	}
	defer rows.Close()

	var logs []DailyLog
	for rows.Next() {
		l, err := scanLog(rows)
		if err != nil {
			return nil, err
		}
		logs = append(logs, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := s.attachInterruptions(logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// ListLogsForDay returns a project's logs of one calendar day in submission order.
func (s *Store) ListLogsForDay(projectID int64, day time.Time) ([]DailyLog, error) {
	from := Day(day)
	to := from.AddDate(0, 0, 1)
	logs, err := s.ListLogs(LogFilter{ProjectID: &projectID, From: &from, To: &to})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(logs)-1; i < j; i, j = i+1, j-1 {
		logs[i], logs[j] = logs[j], logs[i]
	}
	return logs, nil
}

// ListActivities returns the distinct activity names logged or targeted for a project.
func (s *Store) ListActivities(projectID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT activity_name FROM planned_targets WHERE project_id = ?
		UNION
		SELECT activity_name FROM daily_logs WHERE project_id = ?
		ORDER BY activity_name`, projectID, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var n string
		if err := rows.Scan(&n); err != nil {
			return nil, err
		}
		names = append(names, n)
	}
	return names, rows.Err()
}

func (s *Store) attachInterruptions(logs []DailyLog) error {
	if len(logs) == 0 {
		return nil
	}
	index := make(map[int64]int, len(logs))
	placeholders := make([]string, len(logs))
	args := make([]any, len(logs))
	for i, l := range logs {
		index[l.ID] = i
		placeholders[i] = "?"
		args[i] = l.ID
	}

	rows, err := s.db.Query(
		`SELECT id, log_id, reason, start_time, end_time, duration_hours FROM interruptions
		 WHERE log_id IN (`+strings.Join(placeholders, ",")+`) ORDER BY log_id, position`, args...,
	)
	if err != nil {
		return fmt.Errorf("list interruptions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var in Interruption
		var logID int64
		if err := rows.Scan(&in.ID, &logID, &in.Reason, &in.StartTime, &in.EndTime, &in.Duration); err != nil {
			return err
		}
		i := index[logID]
		logs[i].Interruptions = append(logs[i].Interruptions, in)
	}
	return rows.Err()
}

func scanLog(r rowScanner) (*DailyLog, error) {
	l := &DailyLog{}
	var logDate, submittedAt string
	err := r.Scan(&l.ID, &l.ProjectID, &l.ActivityName, &l.PlannedQuantity, &l.ActualQuantity, &l.Unit,
		&l.Laborers, &l.Supervisors, &logDate, &l.StartTime, &l.EndTime, &l.TotalWorkingHours,
		&l.TotalPauseHours, &l.NetWorkingHours, &l.Remarks, &l.SubmittedBy, &submittedAt)
	if err != nil {
		return nil, err
	}
	l.Date = parseDate(logDate)
	l.SubmittedAt, _ = time.Parse(time.RFC3339, submittedAt)
	return l, nil
}
