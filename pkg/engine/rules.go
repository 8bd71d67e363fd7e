package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/dmorales/crewsched-api-go/pkg/models"
)

// Snapshot is the immutable working set one rule pass evaluates: the
// assignments in scope plus lookups for every employee and phase they
// reference. Evaluators never mutate it, so two passes over the same snapshot
// produce the same findings.
type Snapshot struct {
	Assignments []models.Assignment
	Employees   map[string]models.Employee
	Phases      map[string]models.Phase
	Now         time.Time
}

// ruleSet holds the tuning shared by all evaluators. Each evaluator is a pure
// function of its snapshot; assignments whose employee or phase is missing
// from the lookups are skipped.
type ruleSet struct {
	cfg Config
}

// all runs every evaluator over the snapshot.
func (r ruleSet) all(snap Snapshot) []models.Conflict {
	var out []models.Conflict
	out = append(out, r.doubleBooking(snap)...)
	out = append(out, r.overallocation(snap)...)
	out = append(out, r.divisionMismatch(snap)...)
	out = append(out, r.overstaffed(snap)...)
	out = append(out, r.understaffed(snap)...)
	out = append(out, r.dateRange(snap)...)
	return out
}

// doubleBooking flags employee assignment pairs whose combined hours exceed
// the daily capacity: CRITICAL when both fall on the same day, HIGH when they
// sit on adjacent days.
func (r ruleSet) doubleBooking(snap Snapshot) []models.Conflict {
	byEmp := groupByEmployee(snap.Assignments)

	var out []models.Conflict
	for _, empID := range sortedKeys(byEmp) {
		emp, ok := snap.Employees[empID]
		if !ok {
			continue
		}
		dayCap := emp.DailyCapacity()
		asgns := byEmp[empID]
		sortAssignments(asgns)

		for i := 0; i < len(asgns); i++ {
			for j := i + 1; j < len(asgns); j++ {
				a, b := asgns[i], asgns[j]
				combined := a.Hours + b.Hours
				if combined <= dayCap {
					continue
				}
				gap := DayOf(b.Date).Sub(DayOf(a.Date)) / (24 * time.Hour)
				if gap < 0 {
					gap = -gap
				}
				switch gap {
				case 0:
					out = append(out, models.Conflict{
						Type:            models.ConflictDoubleBooking,
						Severity:        models.SeverityCritical,
						EntityType:      models.EntityEmployee,
						EntityID:        empID,
						RelatedEntities: []string{a.ID, b.ID},
						DetectedAt:      snap.Now,
						Description: fmt.Sprintf("%s is booked %.1fh on %s across assignments %s and %s (daily capacity %.1fh)",
							emp.Name, combined, DayOf(a.Date).Format("2006-01-02"), a.ID, b.ID, dayCap),
					})
				case 1:
					out = append(out, models.Conflict{
						Type:            models.ConflictDoubleBooking,
						Severity:        models.SeverityHigh,
						EntityType:      models.EntityEmployee,
						EntityID:        empID,
						RelatedEntities: []string{a.ID, b.ID},
						DetectedAt:      snap.Now,
						Description: fmt.Sprintf("%s carries %.1fh across adjacent days %s and %s (daily capacity %.1fh)",
							emp.Name, combined, DayOf(a.Date).Format("2006-01-02"), DayOf(b.Date).Format("2006-01-02"), dayCap),
					})
				}
			}
		}
	}
	return out
}

// overallocation flags employees whose summed hours in one ISO week exceed
// their weekly capacity: MEDIUM, escalating to HIGH past the configured
// overrun factor.
func (r ruleSet) overallocation(snap Snapshot) []models.Conflict {
	byEmp := groupByEmployee(snap.Assignments)

	var out []models.Conflict
	for _, empID := range sortedKeys(byEmp) {
		emp, ok := snap.Employees[empID]
		if !ok {
			continue
		}
		weekCap := emp.WeeklyCapacity()

		weekHours := make(map[string]float64)
		weekAsgns := make(map[string][]string)
		for _, a := range byEmp[empID] {
			y, w := DayOf(a.Date).ISOWeek()
			key := fmt.Sprintf("%d-W%02d", y, w)
			weekHours[key] += a.Hours
			weekAsgns[key] = append(weekAsgns[key], a.ID)
		}

		for _, week := range sortedKeys(weekHours) {
			total := weekHours[week]
			if total <= weekCap {
				continue
			}
			sev := models.SeverityMedium
			if total > weekCap*r.cfg.OverallocationHighFactor {
				sev = models.SeverityHigh
			}
			out = append(out, models.Conflict{
				Type:            models.ConflictOverallocation,
				Severity:        sev,
				EntityType:      models.EntityEmployee,
				EntityID:        empID,
				RelatedEntities: weekAsgns[week],
				DetectedAt:      snap.Now,
				Description: fmt.Sprintf("%s is allocated %.1fh in week %s against a weekly capacity of %.1fh",
					emp.Name, total, week, weekCap),
			})
		}
	}
	return out
}

// divisionMismatch flags assignments pairing an employee with a project of an
// incompatible division. Always MEDIUM; never blocks on its own.
func (r ruleSet) divisionMismatch(snap Snapshot) []models.Conflict {
	var out []models.Conflict
	for _, a := range snap.Assignments {
		emp, okEmp := snap.Employees[a.EmployeeID]
		ph, okPh := snap.Phases[a.PhaseID]
		if !okEmp || !okPh {
			continue
		}
		if emp.Division.Compatible(ph.Project.Division) {
			continue
		}
		out = append(out, models.Conflict{
			Type:            models.ConflictSkillMismatch,
			Severity:        models.SeverityMedium,
			EntityType:      models.EntityAssignment,
			EntityID:        a.ID,
			RelatedEntities: []string{a.EmployeeID, a.PhaseID},
			DetectedAt:      snap.Now,
			Description: fmt.Sprintf("%s (%s) is assigned to phase %s of a %s project",
				emp.Name, emp.Division, ph.Name, ph.Project.Division),
		})
	}
	return out
}

// overstaffed flags phases whose assigned headcount exceeds the labor
// requirement: LOW normally (inefficient, not unsafe), HIGH past the hard
// capacity factor.
func (r ruleSet) overstaffed(snap Snapshot) []models.Conflict {
	byPhase := crewByPhase(snap.Assignments)

	var out []models.Conflict
	for _, phaseID := range sortedKeys(byPhase) {
		ph, ok := snap.Phases[phaseID]
		if !ok {
			continue
		}
		required := ph.Labor.Headcount()
		if required == 0 {
			continue
		}
		crew := byPhase[phaseID]
		if len(crew) <= required {
			continue
		}
		sev := models.SeverityLow
		if float64(len(crew)) > float64(required)*r.cfg.HardCapacityFactor {
			sev = models.SeverityHigh
		}
		out = append(out, models.Conflict{
			Type:            models.ConflictCapacityOverflow,
			Severity:        sev,
			EntityType:      models.EntityPhase,
			EntityID:        phaseID,
			RelatedEntities: crew,
			DetectedAt:      snap.Now,
			Description: fmt.Sprintf("phase %s is staffed with %d for a requirement of %d",
				ph.Name, len(crew), required),
		})
	}
	return out
}

// understaffed flags phases short of their labor requirement whose start date
// falls inside the look-ahead horizon. HIGH: the gap is about to matter.
func (r ruleSet) understaffed(snap Snapshot) []models.Conflict {
	byPhase := crewByPhase(snap.Assignments)
	today := DayOf(snap.Now)
	horizon := today.AddDate(0, 0, r.cfg.UnderstaffHorizonDays)

	var out []models.Conflict
	for _, phaseID := range sortedKeys(byPhase) {
		ph, ok := snap.Phases[phaseID]
		if !ok || ph.Project.Status.Closed() {
			continue
		}
		required := ph.Labor.Headcount()
		crew := byPhase[phaseID]
		if required == 0 || len(crew) >= required {
			continue
		}
		start := DayOf(ph.StartDate)
		if start.Before(today) || start.After(horizon) {
			continue
		}
		out = append(out, models.Conflict{
			Type:            models.ConflictCapacityOverflow,
			Severity:        models.SeverityHigh,
			EntityType:      models.EntityPhase,
			EntityID:        phaseID,
			RelatedEntities: crew,
			DetectedAt:      snap.Now,
			Description: fmt.Sprintf("phase %s starts %s with %d of %d required crew assigned",
				ph.Name, start.Format("2006-01-02"), len(crew), required),
		})
	}
	return out
}

// dateRange flags assignments outside their phase window, on phases of
// cancelled or completed projects, or held by inactive employees. Always
// CRITICAL and always blocking.
func (r ruleSet) dateRange(snap Snapshot) []models.Conflict {
	var out []models.Conflict
	for _, a := range snap.Assignments {
		ph, okPh := snap.Phases[a.PhaseID]
		if okPh {
			window := NewWindow(ph.StartDate, ph.EndDate)
			if !window.Contains(a.Date) {
				out = append(out, models.Conflict{
					Type:            models.ConflictDateRangeViolation,
					Severity:        models.SeverityCritical,
					EntityType:      models.EntityAssignment,
					EntityID:        a.ID,
					RelatedEntities: []string{a.EmployeeID, a.PhaseID},
					DetectedAt:      snap.Now,
					Description: fmt.Sprintf("assignment %s on %s falls outside phase %s window %s..%s",
						a.ID, DayOf(a.Date).Format("2006-01-02"), ph.Name,
						window.Start.Format("2006-01-02"), window.End.Format("2006-01-02")),
				})
			}
			if ph.Project.Status.Closed() {
				out = append(out, models.Conflict{
					Type:            models.ConflictDateRangeViolation,
					Severity:        models.SeverityCritical,
					EntityType:      models.EntityAssignment,
					EntityID:        a.ID,
					RelatedEntities: []string{a.EmployeeID, a.PhaseID, ph.ProjectID},
					DetectedAt:      snap.Now,
					Description: fmt.Sprintf("assignment %s targets phase %s of a %s project",
						a.ID, ph.Name, ph.Project.Status),
				})
			}
		}
		if emp, okEmp := snap.Employees[a.EmployeeID]; okEmp && !emp.IsActive {
			out = append(out, models.Conflict{
				Type:            models.ConflictDateRangeViolation,
				Severity:        models.SeverityCritical,
				EntityType:      models.EntityAssignment,
				EntityID:        a.ID,
				RelatedEntities: []string{a.EmployeeID, a.PhaseID},
				DetectedAt:      snap.Now,
				Description: fmt.Sprintf("assignment %s references inactive employee %s",
					a.ID, emp.Name),
			})
		}
	}
	return out
}

func groupByEmployee(assignments []models.Assignment) map[string][]models.Assignment {
	out := make(map[string][]models.Assignment)
	for _, a := range assignments {
		out[a.EmployeeID] = append(out[a.EmployeeID], a)
	}
	return out
}

// crewByPhase returns the distinct employee ids assigned to each phase,
// sorted for stable output.
func crewByPhase(assignments []models.Assignment) map[string][]string {
	seen := make(map[string]map[string]bool)
	for _, a := range assignments {
		if seen[a.PhaseID] == nil {
			seen[a.PhaseID] = make(map[string]bool)
		}
		seen[a.PhaseID][a.EmployeeID] = true
	}
	out := make(map[string][]string, len(seen))
	for phaseID, crew := range seen {
		out[phaseID] = sortedKeys(crew)
	}
	return out
}

func sortAssignments(asgns []models.Assignment) {
	sort.Slice(asgns, func(i, j int) bool {
		if !asgns[i].Date.Equal(asgns[j].Date) {
			return asgns[i].Date.Before(asgns[j].Date)
		}
		return asgns[i].ID < asgns[j].ID
	})
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
