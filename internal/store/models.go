package store

import (
	"strings"
	"time"
)

// DateLayout is the storage and display format for calendar dates.
const DateLayout = "2006-01-02"

// ProjectType classifies a construction project.
type ProjectType string

const (
	ProjectCommercial     ProjectType = "commercial"
	ProjectInfrastructure ProjectType = "infrastructure"
	ProjectResidential    ProjectType = "residential"
	ProjectIndustrial     ProjectType = "industrial"
)

// ProjectTypes lists every project type in display order.
var ProjectTypes = []ProjectType{ProjectCommercial, ProjectInfrastructure, ProjectResidential, ProjectIndustrial}

func (t ProjectType) Label() string {
	switch t {
	case ProjectCommercial:
		return "Commercial"
	case ProjectInfrastructure:
		return "Infrastructure"
	case ProjectResidential:
		return "Residential"
	case ProjectIndustrial:
		return "Industrial"
	}
	return string(t)
}

func (t ProjectType) Valid() bool {
	for _, pt := range ProjectTypes {
		if t == pt {
			return true
		}
	}
	return false
}

// Role is the standardized role of a site user.
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleSiteEngineer   Role = "site_engineer"
	RoleProjectManager Role = "project_manager"
)

var Roles = []Role{RoleAdmin, RoleSiteEngineer, RoleProjectManager}

func (r Role) Label() string {
	switch r {
	case RoleAdmin:
		return "Admin"
	case RoleSiteEngineer:
		return "Site Engineer"
	case RoleProjectManager:
		return "Project Manager"
	}
	return string(r)
}

// ParseRole normalizes free-form role text ("Project Manager", "site_engineer").
// Unknown roles fall back to site engineer.
func ParseRole(s string) Role {
	normalized := strings.Join(strings.Fields(strings.ToLower(s)), "_")
	switch normalized {
	case "admin":
		return RoleAdmin
	case "project_manager":
		return RoleProjectManager
	default:
		return RoleSiteEngineer
	}
}

type Project struct {
	ID                    int64
	Name                  string
	Color                 string
	Type                  ProjectType
	Location              string
	Status                string
	StartDate             time.Time
	PlannedCompletionDate time.Time
	PlannedHoursPerDay    float64
	WorkingDaysPerWeek    int
	Archived              bool
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// ProjectInput carries the editable fields of a project.
type ProjectInput struct {
	Name                  string
	Color                 string
	Type                  ProjectType
	Location              string
	Status                string
	StartDate             time.Time
	PlannedCompletionDate time.Time
	PlannedHoursPerDay    float64
	WorkingDaysPerWeek    int
}

type PlannedTarget struct {
	ID                   int64
	ProjectID            int64
	ActivityName         string
	PlannedDailyQuantity float64
	Unit                 string
	StartDate            time.Time
	EndDate              time.Time
}

// ActiveOn reports whether day falls inside the target's validity range.
// A zero end date means open-ended.
func (t PlannedTarget) ActiveOn(day time.Time) bool {
	d := Day(day)
	if !t.StartDate.IsZero() && d.Before(t.StartDate) {
		return false
	}
	if !t.EndDate.IsZero() && d.After(t.EndDate) {
		return false
	}
	return true
}

type Interruption struct {
	ID        int64
	Reason    string
	StartTime string  // HH:MM
	EndTime   string  // HH:MM
	Duration  float64 // hours
}

func (i Interruption) Clocks() (string, string) { return i.StartTime, i.EndTime }

type DailyLog struct {
	ID                int64
	ProjectID         int64
	ActivityName      string
	PlannedQuantity   float64
	ActualQuantity    float64
	Unit              string
	Laborers          int
	Supervisors       int
	Date              time.Time
	StartTime         string
	EndTime           string
	TotalWorkingHours float64
	TotalPauseHours   float64
	NetWorkingHours   float64
	Remarks           string
	SubmittedBy       string
	SubmittedAt       time.Time
	Interruptions     []Interruption
}

// LogInput is what a user submits for one activity on one day.
type LogInput struct {
	ProjectID       int64
	ActivityName    string
	PlannedQuantity float64
	ActualQuantity  float64
	Unit            string
	Laborers        int
	Supervisors     int
	Date            time.Time
	StartTime       string
	EndTime         string
	Remarks         string
	SubmittedBy     string
	Interruptions   []Interruption
}

// LogFilter is used to filter daily logs in queries.
type LogFilter struct {
	ProjectID *int64
	Activity  string
	From      *time.Time // inclusive
	To        *time.Time // exclusive
	Limit     int
}

type Setting struct {
	Key   string
	Value string
}

// Profile is the local user of the installation.
type Profile struct {
	FullName    string
	Designation string
	Role        Role
	CompanyName string
	Phone       string
}

// Day returns the UTC midnight of t's calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
