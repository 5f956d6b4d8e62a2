package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

const projectColumns = `id, name, color, project_type, location, status, start_date, planned_completion_date,
	planned_hours_per_day, working_days_per_week, archived, created_at, updated_at`

func (s *Store) CreateProject(in ProjectInput) (*Project, error) {
	in, err := normalizeProject(in)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(
		`INSERT INTO projects (name, color, project_type, location, status, start_date, planned_completion_date,
			planned_hours_per_day, working_days_per_week, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Color, string(in.Type), in.Location, in.Status,
		formatDate(in.StartDate), formatDate(in.PlannedCompletionDate),
		in.PlannedHoursPerDay, in.WorkingDaysPerWeek, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("insert project: %w", err)
	}
	id, _ := res.LastInsertId()
	return s.GetProject(id)
}

func (s *Store) GetProject(id int64) (*Project, error) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE id = ?`, id)
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get project %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project %d: %w", id, err)
	}
	return p, nil
}

// GetProjectByName looks a project up case-insensitively.
func (s *Store) GetProjectByName(name string) (*Project, error) {
	row := s.db.QueryRow(`SELECT `+projectColumns+` FROM projects WHERE name = ? COLLATE NOCASE`, strings.TrimSpace(name))
	p, err := scanProject(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get project %q: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get project %q: %w", name, err)
	}
	return p, nil
}

func (s *Store) ListProjects(includeArchived bool) ([]Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects`
	if !includeArchived {
		query += ` WHERE archived = 0`
	}
	query += ` ORDER BY name`

	rows, err := s.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	var projects []Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, *p)
	}
	return projects, rows.Err()
}

func (s *Store) UpdateProject(id int64, in ProjectInput) error {
	in, err := normalizeProject(in)
	if err != nil {
		return err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec(
		`UPDATE projects SET name = ?, color = ?, project_type = ?, location = ?, status = ?, start_date = ?,
			planned_completion_date = ?, planned_hours_per_day = ?, working_days_per_week = ?, updated_at = ?
		 WHERE id = ?`,
		in.Name, in.Color, string(in.Type), in.Location, in.Status,
		formatDate(in.StartDate), formatDate(in.PlannedCompletionDate),
		in.PlannedHoursPerDay, in.WorkingDaysPerWeek, now, id,
	)
	if err != nil {
		return fmt.Errorf("update project %d: %w", id, err)
	}
	return nil
}

func (s *Store) ArchiveProject(id int64) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(
		`UPDATE projects SET archived = 1, status = 'archived', updated_at = ? WHERE id = ?`, now, id,
	)
	return err
}

func normalizeProject(in ProjectInput) (ProjectInput, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return in, errors.New("project name is required")
	}
	if in.Type == "" {
		in.Type = ProjectCommercial
	}
	if !in.Type.Valid() {
		return in, fmt.Errorf("unknown project type %q", in.Type)
	}
	if in.Color == "" {
		in.Color = "#F39C12"
	}
	if in.Status == "" {
		in.Status = "active"
	}
	if in.PlannedHoursPerDay <= 0 {
		in.PlannedHoursPerDay = 8
	}
	if in.WorkingDaysPerWeek <= 0 || in.WorkingDaysPerWeek > 7 {
		in.WorkingDaysPerWeek = 6
	}
	return in, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(r rowScanner) (*Project, error) {
	p := &Project{}
	var projectType, startDate, completion, createdAt, updatedAt string
	var archived int
	err := r.Scan(&p.ID, &p.Name, &p.Color, &projectType, &p.Location, &p.Status, &startDate, &completion,
		&p.PlannedHoursPerDay, &p.WorkingDaysPerWeek, &archived, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	p.Type = ProjectType(projectType)
	p.Archived = archived == 1
	p.StartDate = parseDate(startDate)
	p.PlannedCompletionDate = parseDate(completion)
	p.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	p.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return p, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func parseDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, _ := time.Parse(DateLayout, s)
	return t
}
