package store

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

func (s *Store) AddPlannedTarget(t PlannedTarget) (*PlannedTarget, error) {
	if err := validateTarget(&t); err != nil {
		return nil, err
	}
	res, err := s.db.Exec(
		`INSERT INTO planned_targets (project_id, activity_name, planned_daily_quantity, unit, start_date, end_date)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.ProjectID, t.ActivityName, t.PlannedDailyQuantity, t.Unit, formatDate(t.StartDate), formatDate(t.EndDate),
	)
	if err != nil {
		return nil, fmt.Errorf("insert target: %w", err)
	}
	t.ID, _ = res.LastInsertId()
	return &t, nil
}

// SetPlannedTargets replaces every target of a project in one transaction.
func (s *Store) SetPlannedTargets(projectID int64, targets []PlannedTarget) error {
	for i := range targets {
		targets[i].ProjectID = projectID
		if err := validateTarget(&targets[i]); err != nil {
			return err
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM planned_targets WHERE project_id = ?`, projectID); err != nil {
		return fmt.Errorf("clear targets: %w", err)
	}
	for _, t := range targets {
		_, err := tx.Exec(
			`INSERT INTO planned_targets (project_id, activity_name, planned_daily_quantity, unit, start_date, end_date)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			projectID, t.ActivityName, t.PlannedDailyQuantity, t.Unit, formatDate(t.StartDate), formatDate(t.EndDate),
		)
		if err != nil {
			return fmt.Errorf("insert target %q: %w", t.ActivityName, err)
		}
	}
	return tx.Commit()
}

func (s *Store) ListPlannedTargets(projectID int64) ([]PlannedTarget, error) {
	rows, err := s.db.Query(
		`SELECT id, project_id, activity_name, planned_daily_quantity, unit, start_date, end_date
		 FROM planned_targets WHERE project_id = ? ORDER BY id`, projectID,
	)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}
	defer rows.Close()

	var targets []PlannedTarget
	for rows.Next() {
		var t PlannedTarget
		var start, end string
		if err := rows.Scan(&t.ID, &t.ProjectID, &t.ActivityName, &t.PlannedDailyQuantity, &t.Unit, &start, &end); err != nil {
			return nil, err
		}
		t.StartDate = parseDate(start)
		t.EndDate = parseDate(end)
		targets = append(targets, t)
	}
	return targets, rows.Err()
}

// ListActiveTargets returns the project's targets whose range covers day.
func (s *Store) ListActiveTargets(projectID int64, day time.Time) ([]PlannedTarget, error) {
	all, err := s.ListPlannedTargets(projectID)
	if err != nil {
		return nil, err
	}
	var active []PlannedTarget
	for _, t := range all {
		if t.ActiveOn(day) {
			active = append(active, t)
		}
	}
	return active, nil
}

func (s *Store) DeletePlannedTarget(id int64) error {
	_, err := s.db.Exec(`DELETE FROM planned_targets WHERE id = ?`, id)
	return err
}

func validateTarget(t *PlannedTarget) error {
	t.ActivityName = strings.TrimSpace(t.ActivityName)
	t.Unit = strings.TrimSpace(t.Unit)
	if t.ActivityName == "" {
		return errors.New("target activity is required")
	}
	if t.PlannedDailyQuantity < 0 {
		return fmt.Errorf("target %q: planned quantity must not be negative", t.ActivityName)
	}
	if !t.StartDate.IsZero() && !t.EndDate.IsZero() && t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("target %q: end date before start date", t.ActivityName)
	}
	return nil
}
