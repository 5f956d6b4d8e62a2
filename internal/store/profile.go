package store

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

// GetProfile returns the local profile, or a blank site engineer profile if
// none has been saved yet.
func (s *Store) GetProfile() (Profile, error) {
	var p Profile
	var role string
	err := s.db.QueryRow(
		`SELECT full_name, designation, role, company_name, phone FROM profile WHERE id = 1`,
	).Scan(&p.FullName, &p.Designation, &role, &p.CompanyName, &p.Phone)
	if errors.Is(err, sql.ErrNoRows) {
		return Profile{Role: RoleSiteEngineer}, nil
	}
	if err != nil {
		return Profile{}, fmt.Errorf("get profile: %w", err)
	}
	p.Role = ParseRole(role)
	return p, nil
}

func (s *Store) SaveProfile(p Profile) error {
	p.Role = ParseRole(string(p.Role))
	_, err := s.db.Exec(
		`INSERT INTO profile (id, full_name, designation, role, company_name, phone) VALUES (1, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET full_name = excluded.full_name, designation = excluded.designation,
			role = excluded.role, company_name = excluded.company_name, phone = excluded.phone`,
		strings.TrimSpace(p.FullName), strings.TrimSpace(p.Designation), string(p.Role),
		strings.TrimSpace(p.CompanyName), strings.TrimSpace(p.Phone),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}
