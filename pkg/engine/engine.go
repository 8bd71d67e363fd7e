// Package engine implements the conflict detection and assignment validation
// core: pre-commit validation of a proposed assignment, full conflict scans
// over the active working set, ranked resolution suggestions, and a
// caller-invalidated scan cache. The engine performs no I/O of its own; all
// data comes from the Store adapter.
package engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dmorales/crewsched-api-go/internal/clock"
	"github.com/dmorales/crewsched-api-go/pkg/models"
)

// Store is the read contract the engine consumes. Implementations live in
// pkg/store; the engine never writes through it.
type Store interface {
	// ListActiveAssignments returns assignments matching the filter. A zero
	// filter means the full working set.
	ListActiveAssignments(ctx context.Context, filter ScopeFilter) ([]models.Assignment, error)
	// GetEmployee resolves one employee by id.
	GetEmployee(ctx context.Context, id string) (models.Employee, error)
	// GetPhase resolves one phase by id, with its project embedded.
	GetPhase(ctx context.Context, id string) (models.Phase, error)
	// ListAvailableEmployees returns active employees, optionally narrowed to
	// a division. An empty division or zero window means no narrowing.
	ListAvailableEmployees(ctx context.Context, division models.Division, window Window) ([]models.Employee, error)
}

// ScopeFilter narrows an assignment query. Zero-value fields are unbounded.
type ScopeFilter struct {
	EmployeeID string
	PhaseID    string
	From       time.Time
	To         time.Time
}

// Fingerprint derives the cache key for a scan over this scope.
func (f ScopeFilter) Fingerprint() string {
	var b strings.Builder
	if f.EmployeeID != "" {
		fmt.Fprintf(&b, "|emp=%s", f.EmployeeID)
	}
	if f.PhaseID != "" {
		fmt.Fprintf(&b, "|phase=%s", f.PhaseID)
	}
	if !f.From.IsZero() {
		fmt.Fprintf(&b, "|from=%s", f.From.Format("2006-01-02"))
	}
	if !f.To.IsZero() {
		fmt.Fprintf(&b, "|to=%s", f.To.Format("2006-01-02"))
	}
	if b.Len() == 0 {
		return "all"
	}
	return "scope" + b.String()
}

// Config tunes the rule evaluators. Zero values fall back to defaults.
type Config struct {
	// OverallocationHighFactor is the weekly overrun multiple past which an
	// OVERALLOCATION finding escalates from MEDIUM to HIGH.
	OverallocationHighFactor float64
	// HardCapacityFactor is the multiple of a phase's required headcount past
	// which overstaffing becomes a blocking CAPACITY_OVERFLOW.
	HardCapacityFactor float64
	// UnderstaffHorizonDays is the look-ahead inside which an understaffed
	// phase escalates to HIGH.
	UnderstaffHorizonDays int
	// LookBackDays bounds how far back a full scan reaches.
	LookBackDays int
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		OverallocationHighFactor: 1.2,
		HardCapacityFactor:       1.5,
		UnderstaffHorizonDays:    7,
		LookBackDays:             30,
	}
}

// ConfigFromEnv reads the engine tunables from the environment, falling back
// to defaults for anything unset or unparsable.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()
	if v, err := strconv.Atoi(os.Getenv("UNDERSTAFF_HORIZON_DAYS")); err == nil && v > 0 {
		cfg.UnderstaffHorizonDays = v
	}
	if v, err := strconv.Atoi(os.Getenv("SCAN_LOOKBACK_DAYS")); err == nil && v > 0 {
		cfg.LookBackDays = v
	}
	return cfg
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.OverallocationHighFactor <= 1 {
		c.OverallocationHighFactor = d.OverallocationHighFactor
	}
	if c.HardCapacityFactor <= 1 {
		c.HardCapacityFactor = d.HardCapacityFactor
	}
	if c.UnderstaffHorizonDays <= 0 {
		c.UnderstaffHorizonDays = d.UnderstaffHorizonDays
	}
	if c.LookBackDays <= 0 {
		c.LookBackDays = d.LookBackDays
	}
	return c
}

// Engine is the conflict detection and validation facade. It is safe for
// concurrent use; the cache is the only shared mutable state.
type Engine struct {
	store Store
	cache *Cache
	rules ruleSet
	clock clock.Clock
}

// New builds an Engine over the given store. A nil clk uses the system clock.
func New(store Store, cfg Config, clk clock.Clock) *Engine {
	if clk == nil {
		clk = clock.Real{}
	}
	return &Engine{
		store: store,
		cache: NewCache(clk),
		rules: ruleSet{cfg: cfg.withDefaults()},
		clock: clk,
	}
}

// ClearCache drops every cached scan result. Callers must invoke this after
// any assignment, phase, or employee mutation, or accept stale conflict data
// until they do.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// loadSnapshot materializes the working set for a scan: the filtered
// assignments plus every employee and phase they reference. Dangling
// references are dropped from the lookup maps and skipped by the evaluators;
// referential integrity is the store's concern, not the engine's.
func (e *Engine) loadSnapshot(ctx context.Context, filter ScopeFilter) (Snapshot, error) {
	now := e.clock.Now()
	if filter.From.IsZero() {
		filter.From = DayOf(now).AddDate(0, 0, -e.rules.cfg.LookBackDays)
	}

	assignments, err := e.store.ListActiveAssignments(ctx, filter)
	if err != nil {
		return Snapshot{}, storeErr("list assignments", err)
	}

	snap := Snapshot{
		Assignments: assignments,
		Employees:   make(map[string]models.Employee),
		Phases:      make(map[string]models.Phase),
		Now:         now,
	}
	for _, a := range assignments {
		if _, ok := snap.Employees[a.EmployeeID]; !ok {
			emp, err := e.store.GetEmployee(ctx, a.EmployeeID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return Snapshot{}, storeErr("load employee "+a.EmployeeID, err)
			}
			snap.Employees[a.EmployeeID] = emp
		}
	}
	for _, a := range assignments {
		if _, ok := snap.Phases[a.PhaseID]; !ok {
			ph, err := e.store.GetPhase(ctx, a.PhaseID)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					continue
				}
				return Snapshot{}, storeErr("load phase "+a.PhaseID, err)
			}
			snap.Phases[a.PhaseID] = ph
		}
	}
	return snap, nil
}

// storeErr classifies an adapter failure. NotFound passes through; anything
// else is surfaced as StoreUnavailable.
func storeErr(op string, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%s: %w: %v", op, ErrStoreUnavailable, err)
}
