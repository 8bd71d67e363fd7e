package engine_test

import (
	"testing"
	"time"

	"github.com/dmorales/crewsched-api-go/internal/clock"
	"github.com/dmorales/crewsched-api-go/pkg/engine"
	"github.com/dmorales/crewsched-api-go/pkg/models"
)

func TestCachePutGetClear(t *testing.T) {
	fake := clock.NewFake(fixedNow)
	cache := engine.NewCache(fake)

	if _, _, ok := cache.Get("all"); ok {
		t.Fatal("empty cache must miss")
	}

	conflicts := []models.Conflict{{Type: models.ConflictDoubleBooking, EntityID: "E1"}}
	cache.Put("all", conflicts)

	got, at, ok := cache.Get("all")
	if !ok {
		t.Fatal("expected a hit after Put")
	}
	if !at.Equal(fixedNow) {
		t.Errorf("expected computedAt %v, got %v", fixedNow, at)
	}
	if len(got) != 1 || got[0].EntityID != "E1" {
		t.Fatalf("cached payload mangled: %+v", got)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", cache.Len())
	}

	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("expected empty cache after Clear, got %d entries", cache.Len())
	}
	if _, _, ok := cache.Get("all"); ok {
		t.Error("cleared cache must miss")
	}
}

func TestCacheCopiesAcrossBoundary(t *testing.T) {
	cache := engine.NewCache(clock.NewFake(fixedNow))

	src := []models.Conflict{{Type: models.ConflictDoubleBooking, EntityID: "E1"}}
	cache.Put("all", src)
	src[0].EntityID = "mutated"

	got, _, _ := cache.Get("all")
	if got[0].EntityID != "E1" {
		t.Error("caller mutation reached the cached copy")
	}

	got[0].EntityID = "mutated-again"
	again, _, _ := cache.Get("all")
	if again[0].EntityID != "E1" {
		t.Error("mutating a returned slice reached the cached copy")
	}
}

func TestCacheStampsWithInjectedClock(t *testing.T) {
	fake := clock.NewFake(fixedNow)
	cache := engine.NewCache(fake)

	cache.Put("all", nil)
	fake.Advance(2 * time.Hour)
	cache.Put("scoped", nil)

	_, first, _ := cache.Get("all")
	_, second, _ := cache.Get("scoped")
	if second.Sub(first) != 2*time.Hour {
		t.Errorf("expected 2h between stamps, got %v", second.Sub(first))
	}
}
