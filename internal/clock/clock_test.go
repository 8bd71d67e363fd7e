package clock

import (
	"testing"
	"time"
)

func TestFakeAdvance(t *testing.T) {
	base := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFake(base)

	if !f.Now().Equal(base) {
		t.Errorf("expected %v, got %v", base, f.Now())
	}

	f.Advance(90 * time.Minute)
	want := base.Add(90 * time.Minute)
	if !f.Now().Equal(want) {
		t.Errorf("expected %v after advance, got %v", want, f.Now())
	}
}

func TestFakeSet(t *testing.T) {
	f := NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	target := time.Date(2025, 6, 15, 8, 30, 0, 0, time.UTC)
	f.Set(target)
	if !f.Now().Equal(target) {
		t.Errorf("expected %v, got %v", target, f.Now())
	}
}

func TestRealMovesForward(t *testing.T) {
	var c Real
	a := c.Now()
	b := c.Now()
	if b.Before(a) {
		t.Errorf("real clock went backwards: %v then %v", a, b)
	}
}
