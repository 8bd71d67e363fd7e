package store

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/dmorales/crewsched-api-go/pkg/engine"
	"github.com/dmorales/crewsched-api-go/pkg/models"
)

// Memory is an in-memory engine.Store used in tests and demo fixtures.
// Safe for concurrent use.
type Memory struct {
	mu          sync.RWMutex
	employees   map[string]models.Employee
	phases      map[string]models.Phase
	assignments map[string]models.Assignment
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		employees:   make(map[string]models.Employee),
		phases:      make(map[string]models.Phase),
		assignments: make(map[string]models.Assignment),
	}
}

// PutEmployee inserts or replaces an employee.
func (m *Memory) PutEmployee(e models.Employee) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.employees[e.ID] = e
}

// PutPhase inserts or replaces a phase.
func (m *Memory) PutPhase(p models.Phase) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.phases[p.ID] = p
}

// PutAssignment inserts or replaces an assignment.
func (m *Memory) PutAssignment(a models.Assignment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.assignments[a.ID] = a
}

// DeleteAssignment removes an assignment if present.
func (m *Memory) DeleteAssignment(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.assignments, id)
}

func (m *Memory) ListActiveAssignments(_ context.Context, filter engine.ScopeFilter) ([]models.Assignment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Assignment
	for _, a := range m.assignments {
		if filter.EmployeeID != "" && a.EmployeeID != filter.EmployeeID {
			continue
		}
		if filter.PhaseID != "" && a.PhaseID != filter.PhaseID {
			continue
		}
		if !filter.From.IsZero() && a.Date.Before(filter.From) {
			continue
		}
		if !filter.To.IsZero() && a.Date.After(filter.To) {
			continue
		}
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *Memory) GetEmployee(_ context.Context, id string) (models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.employees[id]
	if !ok {
		return models.Employee{}, fmt.Errorf("employee %s: %w", id, engine.ErrNotFound)
	}
	return e, nil
}

func (m *Memory) GetPhase(_ context.Context, id string) (models.Phase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.phases[id]
	if !ok {
		return models.Phase{}, fmt.Errorf("phase %s: %w", id, engine.ErrNotFound)
	}
	return p, nil
}

func (m *Memory) ListAvailableEmployees(_ context.Context, division models.Division, _ engine.Window) ([]models.Employee, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.Employee
	for _, e := range m.employees {
		if !e.IsActive {
			continue
		}
		if division != "" && !e.Division.Compatible(division) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
