// Package store provides engine.Store implementations: a gorm-backed adapter
// over the persisted tables and an in-memory one for tests and demos.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/dmorales/crewsched-api-go/pkg/database"
	"github.com/dmorales/crewsched-api-go/pkg/engine"
	"github.com/dmorales/crewsched-api-go/pkg/models"
)

// Gorm reads the scheduling tables through a gorm connection. It holds no
// state beyond the handle and is safe for concurrent use.
type Gorm struct {
	db *gorm.DB
}

// NewGorm wraps an initialized database connection.
func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

func (s *Gorm) ListActiveAssignments(ctx context.Context, filter engine.ScopeFilter) ([]models.Assignment, error) {
	q := s.db.WithContext(ctx).Model(&database.Assignment{})
	if filter.EmployeeID != "" {
		q = q.Where("employee_id = ?", filter.EmployeeID)
	}
	if filter.PhaseID != "" {
		q = q.Where("phase_id = ?", filter.PhaseID)
	}
	if !filter.From.IsZero() {
		q = q.Where("date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("date <= ?", filter.To)
	}

	var rows []database.Assignment
	if err := q.Order("date, id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query assignments: %w", err)
	}

	out := make([]models.Assignment, 0, len(rows))
	for _, row := range rows {
		out = append(out, assignmentFromRow(row))
	}
	return out, nil
}

func (s *Gorm) GetEmployee(ctx context.Context, id string) (models.Employee, error) {
	var row database.Employee
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Employee{}, fmt.Errorf("employee %s: %w", id, engine.ErrNotFound)
		}
		return models.Employee{}, fmt.Errorf("query employee %s: %w", id, err)
	}
	return employeeFromRow(row), nil
}

func (s *Gorm) GetPhase(ctx context.Context, id string) (models.Phase, error) {
	var row database.Phase
	if err := s.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Phase{}, fmt.Errorf("phase %s: %w", id, engine.ErrNotFound)
		}
		return models.Phase{}, fmt.Errorf("query phase %s: %w", id, err)
	}

	var proj database.Project
	if err := s.db.WithContext(ctx).First(&proj, "id = ?", row.ProjectID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Phase{}, fmt.Errorf("project %s: %w", row.ProjectID, engine.ErrNotFound)
		}
		return models.Phase{}, fmt.Errorf("query project %s: %w", row.ProjectID, err)
	}
	return phaseFromRow(row, proj), nil
}

// ListAvailableEmployees returns active employees. A non-empty division
// narrows to that division plus GENERAL crews; scheduling load within the
// window is the advisor's concern, not a query predicate.
func (s *Gorm) ListAvailableEmployees(ctx context.Context, division models.Division, _ engine.Window) ([]models.Employee, error) {
	q := s.db.WithContext(ctx).Model(&database.Employee{}).Where("is_active = ?", true)
	if division != "" && division != models.DivisionGeneral {
		q = q.Where("division IN ?", []string{string(division), string(models.DivisionGeneral)})
	}

	var rows []database.Employee
	if err := q.Order("id").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("query available employees: %w", err)
	}

	out := make([]models.Employee, 0, len(rows))
	for _, row := range rows {
		out = append(out, employeeFromRow(row))
	}
	return out, nil
}

func employeeFromRow(row database.Employee) models.Employee {
	var skills []string
	if row.Skills != "" {
		skills = strings.Split(row.Skills, ",")
	}
	return models.Employee{
		ID:          row.ID,
		Name:        row.Name,
		Division:    models.Division(row.Division),
		IsActive:    row.IsActive,
		WeeklyHours: row.WeeklyHours,
		DailyHours:  row.DailyHours,
		Skills:      skills,
	}
}

func phaseFromRow(row database.Phase, proj database.Project) models.Phase {
	return models.Phase{
		ID:        row.ID,
		ProjectID: row.ProjectID,
		Project: models.Project{
			ID:        proj.ID,
			Name:      proj.Name,
			Division:  models.Division(proj.Division),
			Status:    models.ProjectStatus(proj.Status),
			StartDate: proj.StartDate,
			EndDate:   proj.EndDate,
		},
		Name:      row.Name,
		StartDate: row.StartDate,
		EndDate:   row.EndDate,
		Labor: models.LaborRequirement{
			CrewSize:     row.CrewSize,
			NeedsForeman: row.NeedsForeman,
			Journeymen:   row.Journeymen,
			Apprentices:  row.Apprentices,
		},
		ProgressPct: row.ProgressPct,
	}
}

func assignmentFromRow(row database.Assignment) models.Assignment {
	return models.Assignment{
		ID:         row.ID,
		EmployeeID: row.EmployeeID,
		PhaseID:    row.PhaseID,
		Date:       row.Date,
		Hours:      row.Hours,
		CreatedBy:  row.CreatedBy,
		CreatedAt:  row.CreatedAt,
	}
}
