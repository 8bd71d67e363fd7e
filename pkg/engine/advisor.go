package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/dmorales/crewsched-api-go/pkg/models"
)

// maxSuggestions bounds each suggestion list; beyond a handful the caller is
// better served by another scan.
const maxSuggestions = 5

// GetResolutionSuggestions proposes ranked remediations for a conflict using
// store reads only. The advisor never writes and never re-validates its own
// proposals; callers must run ValidateAssignment before acting on one.
//
// Candidate employees are ordered by a deterministic comparator: spare weekly
// capacity descending, exact division match before compatible, then employee
// id ascending.
func (e *Engine) GetResolutionSuggestions(ctx context.Context, c models.Conflict) ([]models.Suggestion, error) {
	switch c.Type {
	case models.ConflictDoubleBooking:
		return e.suggestForDoubleBooking(ctx, c)
	case models.ConflictCapacityOverflow:
		return e.suggestForUnderstaffing(ctx, c)
	case models.ConflictSkillMismatch:
		return e.suggestForSkillMismatch(ctx, c)
	case models.ConflictDateRangeViolation:
		return e.suggestForDateRange(ctx, c)
	}
	// OVERALLOCATION: shifting hours between weeks is a planning call the
	// engine does not make.
	return nil, nil
}

// suggestForDoubleBooking proposes moving the later of the colliding
// assignments to a free day inside its phase window, or handing it to another
// qualified employee with spare capacity.
func (e *Engine) suggestForDoubleBooking(ctx context.Context, c models.Conflict) ([]models.Suggestion, error) {
	emp, err := e.store.GetEmployee(ctx, c.EntityID)
	if err != nil {
		return nil, storeErr("employee "+c.EntityID, err)
	}
	asgns, err := e.store.ListActiveAssignments(ctx, ScopeFilter{EmployeeID: emp.ID})
	if err != nil {
		return nil, storeErr("list employee assignments", err)
	}

	var colliding []models.Assignment
	for _, a := range asgns {
		if mentions(c, a.ID) {
			colliding = append(colliding, a)
		}
	}
	if len(colliding) == 0 {
		return nil, nil
	}
	sortAssignments(colliding)
	target := colliding[len(colliding)-1]

	ph, err := e.store.GetPhase(ctx, target.PhaseID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, storeErr("phase "+target.PhaseID, err)
	}
	window := NewWindow(ph.StartDate, ph.EndDate)

	// Hours the employee already carries per day, the target excluded.
	dayLoad := make(map[string]float64)
	for _, a := range asgns {
		if a.ID != target.ID {
			dayLoad[DayOf(a.Date).Format("2006-01-02")] += a.Hours
		}
	}

	var out []models.Suggestion
	for d := window.Start; !d.After(window.End) && len(out) < maxSuggestions; d = d.AddDate(0, 0, 1) {
		if d.Equal(DayOf(target.Date)) {
			continue
		}
		if dayLoad[d.Format("2006-01-02")]+target.Hours > emp.DailyCapacity() {
			continue
		}
		day := d
		out = append(out, models.Suggestion{
			Action:      models.SuggestMoveDate,
			Description: fmt.Sprintf("move assignment %s to %s, where %s has %.1fh free", target.ID, day.Format("2006-01-02"), emp.Name, emp.DailyCapacity()-dayLoad[day.Format("2006-01-02")]),
			Date:        &day,
		})
	}

	alternates, err := e.rankedCandidates(ctx, ph, SingleDay(target.Date), target.Hours, emp.ID)
	if err != nil {
		return nil, err
	}
	for _, cand := range alternates {
		if len(out) >= 2*maxSuggestions {
			break
		}
		out = append(out, models.Suggestion{
			Action:      models.SuggestReassignEmployee,
			Description: fmt.Sprintf("reassign %s to %s (%s, %.1fh spare this week)", target.ID, cand.emp.Name, cand.emp.Division, cand.remaining),
			EmployeeID:  cand.emp.ID,
		})
	}
	return out, nil
}

// suggestForUnderstaffing proposes available, division-matched employees to
// close a phase's crew gap. Overstaffing gets no suggestions; deciding who
// comes off a crew is not the engine's call.
func (e *Engine) suggestForUnderstaffing(ctx context.Context, c models.Conflict) ([]models.Suggestion, error) {
	ph, err := e.store.GetPhase(ctx, c.EntityID)
	if err != nil {
		return nil, storeErr("phase "+c.EntityID, err)
	}
	asgns, err := e.store.ListActiveAssignments(ctx, ScopeFilter{PhaseID: ph.ID})
	if err != nil {
		return nil, storeErr("list phase assignments", err)
	}

	crew := make(map[string]bool)
	for _, a := range asgns {
		crew[a.EmployeeID] = true
	}
	required := ph.Labor.Headcount()
	if len(crew) >= required {
		return nil, nil
	}
	gap := required - len(crew)

	window := NewWindow(ph.StartDate, ph.EndDate)
	candidates, err := e.rankedCandidates(ctx, ph, window, 0, "")
	if err != nil {
		return nil, err
	}

	var out []models.Suggestion
	for _, cand := range candidates {
		if len(out) >= maxSuggestions {
			break
		}
		if crew[cand.emp.ID] {
			continue
		}
		out = append(out, models.Suggestion{
			Action:      models.SuggestAddEmployee,
			Description: fmt.Sprintf("add %s (%s, %.1fh spare) to phase %s; %d more needed", cand.emp.Name, cand.emp.Division, cand.remaining, ph.Name, gap),
			EmployeeID:  cand.emp.ID,
		})
	}
	return out, nil
}

// suggestForSkillMismatch proposes qualified employees in the project's
// division to take over the mismatched assignment.
func (e *Engine) suggestForSkillMismatch(ctx context.Context, c models.Conflict) ([]models.Suggestion, error) {
	ph, ok, err := e.resolvePhase(ctx, c.RelatedEntities)
	if err != nil || !ok {
		return nil, err
	}

	current := ""
	for _, id := range c.RelatedEntities {
		if _, err := e.store.GetEmployee(ctx, id); err == nil {
			current = id
			break
		}
	}

	window := NewWindow(ph.StartDate, ph.EndDate)
	candidates, err := e.rankedCandidates(ctx, ph, window, 0, current)
	if err != nil {
		return nil, err
	}

	var out []models.Suggestion
	for _, cand := range candidates {
		if len(out) >= maxSuggestions {
			break
		}
		out = append(out, models.Suggestion{
			Action:      models.SuggestReassignEmployee,
			Description: fmt.Sprintf("reassign to %s (%s, %.1fh spare this week)", cand.emp.Name, cand.emp.Division, cand.remaining),
			EmployeeID:  cand.emp.ID,
		})
	}
	return out, nil
}

// suggestForDateRange reports the valid bounds to move the assignment into.
func (e *Engine) suggestForDateRange(ctx context.Context, c models.Conflict) ([]models.Suggestion, error) {
	ph, ok, err := e.resolvePhase(ctx, c.RelatedEntities)
	if err != nil || !ok {
		return nil, err
	}
	if ph.Project.Status.Closed() {
		return []models.Suggestion{{
			Action:      models.SuggestReassignEmployee,
			Description: fmt.Sprintf("project %s is %s; move the assignment to a phase of an open project", ph.Project.Name, ph.Project.Status),
		}}, nil
	}
	start, end := DayOf(ph.StartDate), DayOf(ph.EndDate)
	return []models.Suggestion{{
		Action:      models.SuggestMoveIntoWindow,
		Description: fmt.Sprintf("move the assignment into phase %s's window %s..%s", ph.Name, start.Format("2006-01-02"), end.Format("2006-01-02")),
		WindowStart: &start,
		WindowEnd:   &end,
	}}, nil
}

// resolvePhase finds which of the related entity ids is a phase.
func (e *Engine) resolvePhase(ctx context.Context, ids []string) (models.Phase, bool, error) {
	for _, id := range ids {
		ph, err := e.store.GetPhase(ctx, id)
		if err == nil {
			return ph, true, nil
		}
		if !errors.Is(err, ErrNotFound) {
			return models.Phase{}, false, storeErr("phase "+id, err)
		}
	}
	return models.Phase{}, false, nil
}

type candidate struct {
	emp       models.Employee
	remaining float64
	exact     bool
}

// rankedCandidates lists available employees for a phase, ordered by the
// deterministic comparator. Employees with no spare weekly capacity, or who
// cannot fit hoursNeeded on top of their load, are dropped; exclude names an
// employee to leave out.
func (e *Engine) rankedCandidates(ctx context.Context, ph models.Phase, window Window, hoursNeeded float64, exclude string) ([]candidate, error) {
	emps, err := e.store.ListAvailableEmployees(ctx, ph.Project.Division, window)
	if err != nil {
		return nil, storeErr("list available employees", err)
	}
	loads, err := e.store.ListActiveAssignments(ctx, ScopeFilter{From: window.Start, To: window.End})
	if err != nil {
		return nil, storeErr("list assignments in window", err)
	}
	booked := make(map[string]float64)
	for _, a := range loads {
		booked[a.EmployeeID] += a.Hours
	}

	var out []candidate
	for _, emp := range emps {
		if emp.ID == exclude || !emp.IsActive {
			continue
		}
		if !emp.Division.Compatible(ph.Project.Division) {
			continue
		}
		remaining := emp.WeeklyCapacity() - booked[emp.ID]
		if remaining <= 0 || remaining < hoursNeeded {
			continue
		}
		out = append(out, candidate{
			emp:       emp,
			remaining: remaining,
			exact:     emp.Division == ph.Project.Division,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].remaining != out[j].remaining {
			return out[i].remaining > out[j].remaining
		}
		if out[i].exact != out[j].exact {
			return out[i].exact
		}
		return out[i].emp.ID < out[j].emp.ID
	})
	return out, nil
}
