package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dmorales/crewsched-api-go/pkg/models"
)

// ValidateAssignment checks one proposed assignment against the employee's and
// phase's existing commitments before it is persisted. The check is scoped to
// that single employee/phase pair and always reads the store fresh; it never
// touches the scan cache.
//
// DOUBLE_BOOKING, DATE_RANGE_VIOLATION, and CAPACITY_OVERFLOW at the hard
// limit block (IsValid=false). SKILL_MISMATCH, OVERALLOCATION, and soft
// CAPACITY_OVERFLOW surface as warnings.
func (e *Engine) ValidateAssignment(ctx context.Context, phaseID, employeeID string, date time.Time, hours float64) (models.ValidationResult, error) {
	var res models.ValidationResult
	if hours <= 0 || hours > 24 {
		return res, fmt.Errorf("hours must be in (0, 24], got %.2f: %w", hours, ErrInvalidInput)
	}

	emp, err := e.store.GetEmployee(ctx, employeeID)
	if err != nil {
		return res, storeErr("employee "+employeeID, err)
	}
	ph, err := e.store.GetPhase(ctx, phaseID)
	if err != nil {
		return res, storeErr("phase "+phaseID, err)
	}

	empAsgns, err := e.store.ListActiveAssignments(ctx, ScopeFilter{EmployeeID: employeeID})
	if err != nil {
		return res, storeErr("list employee assignments", err)
	}
	phAsgns, err := e.store.ListActiveAssignments(ctx, ScopeFilter{PhaseID: phaseID})
	if err != nil {
		return res, storeErr("list phase assignments", err)
	}

	candidate := models.Assignment{
		ID:         "proposed-" + uuid.NewString(),
		EmployeeID: employeeID,
		PhaseID:    phaseID,
		Date:       DayOf(date),
		Hours:      hours,
	}

	snap := Snapshot{
		Assignments: append(dedupeAssignments(empAsgns, phAsgns), candidate),
		Employees:   map[string]models.Employee{employeeID: emp},
		Phases:      map[string]models.Phase{phaseID: ph},
		Now:         e.clock.Now(),
	}

	// Understaffing is deliberately not evaluated here: adding a person never
	// makes a phase more understaffed.
	var found []models.Conflict
	found = append(found, e.rules.doubleBooking(snap)...)
	found = append(found, e.rules.overallocation(snap)...)
	found = append(found, e.rules.divisionMismatch(snap)...)
	found = append(found, e.rules.overstaffed(snap)...)
	found = append(found, e.rules.dateRange(snap)...)

	res.Conflicts = []models.Conflict{}
	res.Warnings = []models.Conflict{}
	for _, c := range found {
		// Pre-existing conflicts among the employee's or phase's other
		// assignments must not reject this proposal.
		if !mentions(c, candidate.ID) && !(c.Type == models.ConflictCapacityOverflow && c.EntityID == phaseID) {
			continue
		}
		if blocking(c) {
			res.Conflicts = append(res.Conflicts, c)
		} else {
			res.Warnings = append(res.Warnings, c)
		}
	}
	sortConflicts(res.Conflicts)
	sortConflicts(res.Warnings)
	res.IsValid = len(res.Conflicts) == 0
	return res, nil
}

// blocking reports whether a conflict rejects the proposed assignment.
// SKILL_MISMATCH and soft CAPACITY_OVERFLOW never block; treating them as
// warnings regardless of caller role is a deliberate policy choice.
func blocking(c models.Conflict) bool {
	switch c.Type {
	case models.ConflictDoubleBooking, models.ConflictDateRangeViolation:
		return true
	case models.ConflictCapacityOverflow:
		return c.Severity.Rank() >= models.SeverityHigh.Rank()
	}
	return false
}

func mentions(c models.Conflict, id string) bool {
	if c.EntityID == id {
		return true
	}
	for _, r := range c.RelatedEntities {
		if r == id {
			return true
		}
	}
	return false
}

// dedupeAssignments merges the two scoped lists, dropping the overlap where an
// assignment matches both the employee and the phase.
func dedupeAssignments(a, b []models.Assignment) []models.Assignment {
	seen := make(map[string]bool, len(a))
	out := make([]models.Assignment, 0, len(a)+len(b))
	for _, asgn := range a {
		seen[asgn.ID] = true
		out = append(out, asgn)
	}
	for _, asgn := range b {
		if !seen[asgn.ID] {
			out = append(out, asgn)
		}
	}
	return out
}
