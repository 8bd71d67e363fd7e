package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmorales/crewsched-api-go/internal/clock"
	"github.com/dmorales/crewsched-api-go/pkg/engine"
	"github.com/dmorales/crewsched-api-go/pkg/models"
	"github.com/dmorales/crewsched-api-go/pkg/store"
)

var fixedNow = time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// fixtureStore seeds the E1/P1 scenario: a plumbing phase running
// 2024-01-01..2024-01-05 on an active project, with E1 already booked 8h on
// 2024-01-02.
func fixtureStore() *store.Memory {
	m := store.NewMemory()

	proj := models.Project{
		ID: "PR1", Name: "Northside Remodel",
		Division: models.DivisionPlumbing, Status: models.StatusActive,
		StartDate: day(2024, 1, 1), EndDate: day(2024, 3, 1),
	}
	m.PutPhase(models.Phase{
		ID: "P1", ProjectID: "PR1", Project: proj, Name: "Rough-In",
		StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 5),
		Labor: models.LaborRequirement{CrewSize: 2},
	})
	m.PutEmployee(models.Employee{
		ID: "E1", Name: "Rosa Alvarez", Division: models.DivisionPlumbing, IsActive: true,
	})
	m.PutAssignment(models.Assignment{
		ID: "A1", EmployeeID: "E1", PhaseID: "P1", Date: day(2024, 1, 2), Hours: 8,
	})
	return m
}

func newEngine(m *store.Memory) *engine.Engine {
	return engine.New(m, engine.DefaultConfig(), clock.NewFake(fixedNow))
}

func TestValidateDoubleBookingScenario(t *testing.T) {
	eng := newEngine(fixtureStore())

	result, err := eng.ValidateAssignment(context.Background(), "P1", "E1", day(2024, 1, 2), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.IsValid {
		t.Fatal("12h combined against 8h capacity must be invalid")
	}
	if len(result.Conflicts) != 1 {
		t.Fatalf("expected 1 blocking conflict, got %d", len(result.Conflicts))
	}
	c := result.Conflicts[0]
	if c.Type != models.ConflictDoubleBooking || c.Severity != models.SeverityCritical {
		t.Errorf("expected CRITICAL DOUBLE_BOOKING, got %s %s", c.Severity, c.Type)
	}
}

func TestValidateCleanAssignment(t *testing.T) {
	eng := newEngine(fixtureStore())

	// Jan 4 leaves a clear day after the existing Jan 2 booking.
	result, err := eng.ValidateAssignment(context.Background(), "P1", "E1", day(2024, 1, 4), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("a free day within the window should validate, got %+v", result.Conflicts)
	}
	if len(result.Warnings) != 0 {
		t.Errorf("expected no warnings, got %+v", result.Warnings)
	}
}

func TestValidateDateOutsideWindowBlocksRegardless(t *testing.T) {
	eng := newEngine(fixtureStore())

	// Capacity and division are fine; only the date is wrong.
	result, err := eng.ValidateAssignment(context.Background(), "P1", "E1", day(2024, 1, 9), 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsValid {
		t.Fatal("date outside the phase window must always block")
	}
	found := false
	for _, c := range result.Conflicts {
		if c.Type == models.ConflictDateRangeViolation {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a DATE_RANGE_VIOLATION, got %+v", result.Conflicts)
	}
}

func TestValidateSkillMismatchWarnsWithoutBlocking(t *testing.T) {
	m := fixtureStore()
	m.PutEmployee(models.Employee{
		ID: "E2", Name: "Ben Okafor", Division: models.DivisionElectrical, IsActive: true,
	})
	eng := newEngine(m)

	result, err := eng.ValidateAssignment(context.Background(), "P1", "E2", day(2024, 1, 3), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("a division mismatch alone must not block, got %+v", result.Conflicts)
	}
	if len(result.Warnings) != 1 || result.Warnings[0].Type != models.ConflictSkillMismatch {
		t.Fatalf("expected exactly one SKILL_MISMATCH warning, got %+v", result.Warnings)
	}
}

func TestValidateSoftOverflowWarns(t *testing.T) {
	m := fixtureStore()
	m.PutEmployee(models.Employee{ID: "E2", Name: "B", Division: models.DivisionPlumbing, IsActive: true})
	m.PutEmployee(models.Employee{ID: "E3", Name: "C", Division: models.DivisionPlumbing, IsActive: true})
	m.PutAssignment(models.Assignment{ID: "A2", EmployeeID: "E2", PhaseID: "P1", Date: day(2024, 1, 3), Hours: 8})
	eng := newEngine(m)

	// Third person on a crew of 2: over, but inside the hard limit (2*1.5=3).
	result, err := eng.ValidateAssignment(context.Background(), "P1", "E3", day(2024, 1, 4), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("soft overstaffing must not block, got %+v", result.Conflicts)
	}
	found := false
	for _, w := range result.Warnings {
		if w.Type == models.ConflictCapacityOverflow && w.Severity == models.SeverityLow {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a LOW CAPACITY_OVERFLOW warning, got %+v", result.Warnings)
	}
}

func TestValidateHardOverflowBlocks(t *testing.T) {
	m := store.NewMemory()
	proj := models.Project{
		ID: "PR1", Division: models.DivisionPlumbing, Status: models.StatusActive,
	}
	m.PutPhase(models.Phase{
		ID: "P3", ProjectID: "PR1", Project: proj, Name: "Punch List",
		StartDate: day(2024, 1, 1), EndDate: day(2024, 1, 10),
		Labor: models.LaborRequirement{CrewSize: 1},
	})
	for _, id := range []string{"E1", "E2", "E3"} {
		m.PutEmployee(models.Employee{ID: id, Name: id, Division: models.DivisionPlumbing, IsActive: true})
	}
	m.PutAssignment(models.Assignment{ID: "A1", EmployeeID: "E1", PhaseID: "P3", Date: day(2024, 1, 2), Hours: 8})
	m.PutAssignment(models.Assignment{ID: "A2", EmployeeID: "E2", PhaseID: "P3", Date: day(2024, 1, 3), Hours: 8})
	eng := newEngine(m)

	// Third person on a crew of 1 breaches the hard limit.
	result, err := eng.ValidateAssignment(context.Background(), "P3", "E3", day(2024, 1, 4), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.IsValid {
		t.Fatal("overstaffing past the hard limit must block")
	}
	if result.Conflicts[0].Type != models.ConflictCapacityOverflow {
		t.Errorf("expected CAPACITY_OVERFLOW, got %s", result.Conflicts[0].Type)
	}
}

func TestValidateErrorTaxonomy(t *testing.T) {
	eng := newEngine(fixtureStore())
	ctx := context.Background()

	t.Run("unknown employee", func(t *testing.T) {
		_, err := eng.ValidateAssignment(ctx, "P1", "ghost", day(2024, 1, 2), 4)
		if !errors.Is(err, engine.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
	t.Run("unknown phase", func(t *testing.T) {
		_, err := eng.ValidateAssignment(ctx, "ghost", "E1", day(2024, 1, 2), 4)
		if !errors.Is(err, engine.ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
	t.Run("zero hours", func(t *testing.T) {
		_, err := eng.ValidateAssignment(ctx, "P1", "E1", day(2024, 1, 2), 0)
		if !errors.Is(err, engine.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
	t.Run("more than a day", func(t *testing.T) {
		_, err := eng.ValidateAssignment(ctx, "P1", "E1", day(2024, 1, 2), 25)
		if !errors.Is(err, engine.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestValidateIgnoresPreexistingConflicts(t *testing.T) {
	m := fixtureStore()
	// E1 is already double-booked on Jan 2 between two existing assignments.
	m.PutAssignment(models.Assignment{ID: "A9", EmployeeID: "E1", PhaseID: "P1", Date: day(2024, 1, 2), Hours: 8})
	eng := newEngine(m)

	// A proposal on a free day must not be rejected for the old mess.
	result, err := eng.ValidateAssignment(context.Background(), "P1", "E1", day(2024, 1, 4), 8)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.IsValid {
		t.Fatalf("pre-existing conflicts must not block an unrelated proposal, got %+v", result.Conflicts)
	}
}
