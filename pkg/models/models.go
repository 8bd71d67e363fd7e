package models

import "time"

// Default capacities applied when an employee record does not state its own.
const (
	DefaultDailyHours  = 8.0
	DefaultWeeklyHours = 40.0
)

// Division identifies the trade an employee works in or a project belongs to.
type Division string

const (
	DivisionPlumbing   Division = "PLUMBING"
	DivisionElectrical Division = "ELECTRICAL"
	DivisionHVAC       Division = "HVAC"
	DivisionCarpentry  Division = "CARPENTRY"
	DivisionGeneral    Division = "GENERAL"
)

// Compatible reports whether an employee of division d may work a project of
// division other. GENERAL crews work any project.
func (d Division) Compatible(other Division) bool {
	return d == other || d == DivisionGeneral || other == DivisionGeneral
}

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	StatusPlanned   ProjectStatus = "PLANNED"
	StatusActive    ProjectStatus = "ACTIVE"
	StatusCancelled ProjectStatus = "CANCELLED"
	StatusComplete  ProjectStatus = "COMPLETE"
)

// Closed reports whether the project no longer accepts labor.
func (s ProjectStatus) Closed() bool {
	return s == StatusCancelled || s == StatusComplete
}

// Employee is a crew member snapshot as read from the store.
type Employee struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Division    Division `json:"division"`
	IsActive    bool     `json:"is_active"`
	WeeklyHours float64  `json:"weekly_hours"`
	DailyHours  float64  `json:"daily_hours"`
	Skills      []string `json:"skills,omitempty"`
}

// DailyCapacity returns the employee's per-day hour limit.
func (e Employee) DailyCapacity() float64 {
	if e.DailyHours > 0 {
		return e.DailyHours
	}
	return DefaultDailyHours
}

// WeeklyCapacity returns the employee's per-week hour limit.
func (e Employee) WeeklyCapacity() float64 {
	if e.WeeklyHours > 0 {
		return e.WeeklyHours
	}
	return DefaultWeeklyHours
}

// Project groups phases under one division and lifecycle status.
type Project struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	Division  Division      `json:"division"`
	Status    ProjectStatus `json:"status"`
	StartDate time.Time     `json:"start_date"`
	EndDate   time.Time     `json:"end_date"`
}

// LaborRequirement states how many people a phase needs, either as a flat
// crew size or as a foreman/journeymen/apprentices breakdown.
type LaborRequirement struct {
	CrewSize     int  `json:"crew_size,omitempty"`
	NeedsForeman bool `json:"needs_foreman,omitempty"`
	Journeymen   int  `json:"journeymen,omitempty"`
	Apprentices  int  `json:"apprentices,omitempty"`
}

// Headcount collapses the requirement to a total number of people.
func (r LaborRequirement) Headcount() int {
	if r.CrewSize > 0 {
		return r.CrewSize
	}
	n := r.Journeymen + r.Apprentices
	if r.NeedsForeman {
		n++
	}
	return n
}

// Phase is a dated sub-unit of work within a project. StartDate <= EndDate.
type Phase struct {
	ID          string           `json:"id"`
	ProjectID   string           `json:"project_id"`
	Project     Project          `json:"project"`
	Name        string           `json:"name"`
	StartDate   time.Time        `json:"start_date"`
	EndDate     time.Time        `json:"end_date"`
	Labor       LaborRequirement `json:"labor"`
	ProgressPct float64          `json:"progress_pct"`
}

// Assignment commits one employee to one phase for a given day.
type Assignment struct {
	ID         string    `json:"id"`
	EmployeeID string    `json:"employee_id"`
	PhaseID    string    `json:"phase_id"`
	Date       time.Time `json:"date"` // first day of the booked block
	Hours      float64   `json:"hours"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitempty"`
}

// ConflictType is the closed set of invariant violations the engine detects.
type ConflictType string

const (
	ConflictDoubleBooking      ConflictType = "DOUBLE_BOOKING"
	ConflictOverallocation     ConflictType = "OVERALLOCATION"
	ConflictSkillMismatch      ConflictType = "SKILL_MISMATCH"
	ConflictCapacityOverflow   ConflictType = "CAPACITY_OVERFLOW"
	ConflictDateRangeViolation ConflictType = "DATE_RANGE_VIOLATION"
)

// Severity orders conflicts from CRITICAL down to LOW.
type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityHigh     Severity = "HIGH"
	SeverityMedium   Severity = "MEDIUM"
	SeverityLow      Severity = "LOW"
)

// Rank maps a severity onto an integer scale for sorting; higher is worse.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// EntityType names the kind of record a conflict points at.
type EntityType string

const (
	EntityEmployee   EntityType = "employee"
	EntityPhase      EntityType = "phase"
	EntityAssignment EntityType = "assignment"
)

// Conflict is a derived finding. It is never persisted; DetectedAt is the
// instant of computation, not of the underlying event.
type Conflict struct {
	Type            ConflictType `json:"type"`
	Severity        Severity     `json:"severity"`
	EntityType      EntityType   `json:"entity_type"`
	EntityID        string       `json:"entity_id"`
	RelatedEntities []string     `json:"related_entities,omitempty"`
	DetectedAt      time.Time    `json:"detected_at"`
	Description     string       `json:"description"`
}

// ValidationResult is the outcome of a pre-commit assignment check.
// IsValid is true iff Conflicts is empty; Warnings never block.
type ValidationResult struct {
	IsValid   bool       `json:"is_valid"`
	Conflicts []Conflict `json:"conflicts"`
	Warnings  []Conflict `json:"warnings"`
}

// SuggestionAction is the closed set of remediations the advisor proposes.
type SuggestionAction string

const (
	SuggestMoveDate         SuggestionAction = "MOVE_DATE"
	SuggestReassignEmployee SuggestionAction = "REASSIGN_EMPLOYEE"
	SuggestAddEmployee      SuggestionAction = "ADD_EMPLOYEE"
	SuggestMoveIntoWindow   SuggestionAction = "MOVE_INTO_WINDOW"
)

// Suggestion is a read-only remediation proposal. The caller must re-validate
// before acting on one.
type Suggestion struct {
	Action      SuggestionAction `json:"action"`
	Description string           `json:"description"`
	EmployeeID  string           `json:"employee_id,omitempty"`
	Date        *time.Time       `json:"date,omitempty"`
	WindowStart *time.Time       `json:"window_start,omitempty"`
	WindowEnd   *time.Time       `json:"window_end,omitempty"`
}
