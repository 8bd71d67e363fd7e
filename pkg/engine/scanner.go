package engine

import (
	"context"
	"sort"
	"strings"

	"github.com/dmorales/crewsched-api-go/pkg/models"
)

// ScanAllConflicts audits the full active working set and returns every
// detected conflict, severity descending. Results are served from the cache
// when a previous scan for the same scope has not been invalidated.
func (e *Engine) ScanAllConflicts(ctx context.Context) ([]models.Conflict, error) {
	return e.ScanConflicts(ctx, ScopeFilter{})
}

// ScanConflicts audits the working set narrowed by filter.
func (e *Engine) ScanConflicts(ctx context.Context, filter ScopeFilter) ([]models.Conflict, error) {
	key := filter.Fingerprint()
	if cached, _, ok := e.cache.Get(key); ok {
		return cached, nil
	}

	snap, err := e.loadSnapshot(ctx, filter)
	if err != nil {
		return nil, err
	}

	conflicts := dedupe(e.rules.all(snap))
	sortConflicts(conflicts)
	e.cache.Put(key, conflicts)
	return conflicts, nil
}

// dedupe collapses conflicts that describe the same finding: same type over
// the same entity set. The higher severity wins and related entities merge.
func dedupe(conflicts []models.Conflict) []models.Conflict {
	byKey := make(map[string]int)
	out := make([]models.Conflict, 0, len(conflicts))

	for _, c := range conflicts {
		key := dedupeKey(c)
		i, seen := byKey[key]
		if !seen {
			byKey[key] = len(out)
			out = append(out, c)
			continue
		}
		if c.Severity.Rank() > out[i].Severity.Rank() {
			out[i].Severity = c.Severity
			out[i].Description = c.Description
		}
		out[i].RelatedEntities = mergeIDs(out[i].RelatedEntities, c.RelatedEntities)
	}
	return out
}

func dedupeKey(c models.Conflict) string {
	ids := mergeIDs([]string{c.EntityID}, c.RelatedEntities)
	return string(c.Type) + "|" + strings.Join(ids, ",")
}

// mergeIDs unions two id sets, sorted.
func mergeIDs(a, b []string) []string {
	seen := make(map[string]bool, len(a)+len(b))
	for _, id := range a {
		seen[id] = true
	}
	for _, id := range b {
		seen[id] = true
	}
	return sortedKeys(seen)
}

// sortConflicts orders severity descending, then DetectedAt descending as a
// deterministic tie-break.
func sortConflicts(conflicts []models.Conflict) {
	sort.SliceStable(conflicts, func(i, j int) bool {
		if conflicts[i].Severity.Rank() != conflicts[j].Severity.Rank() {
			return conflicts[i].Severity.Rank() > conflicts[j].Severity.Rank()
		}
		return conflicts[i].DetectedAt.After(conflicts[j].DetectedAt)
	})
}
