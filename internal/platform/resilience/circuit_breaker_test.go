package resilience

import (
	"errors"
	"testing"
	"time"
)

func TestCircuitBreaker_TripAndRecover(t *testing.T) {
	b := NewCircuitBreaker(2, 5*time.Second, 1)

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }

	if err := b.Allow(); err != nil {
		t.Fatalf("closed breaker should admit requests: %v", err)
	}

	b.RecordFailure()
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("one failure below threshold should stay closed, got %s", got)
	}

	b.RecordFailure()
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("threshold failures should open the breaker, got %s", got)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("open breaker should refuse, got %v", err)
	}

	clock = clock.Add(6 * time.Second)
	if err := b.Allow(); err != nil {
		t.Fatalf("probe after open window should pass: %v", err)
	}
	if got := b.State(); got != CircuitStateHalfOpen {
		t.Fatalf("expected half-open during probe, got %s", got)
	}

	b.RecordSuccess()
	if got := b.State(); got != CircuitStateClosed {
		t.Fatalf("successful probe should close the breaker, got %s", got)
	}
}

func TestCircuitBreaker_HalfOpenProbeLimitAndRetrip(t *testing.T) {
	b := NewCircuitBreaker(1, time.Second, 1)

	clock := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return clock }

	b.RecordFailure()
	clock = clock.Add(2 * time.Second)

	if err := b.Allow(); err != nil {
		t.Fatalf("first probe should pass: %v", err)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("second concurrent probe should be refused, got %v", err)
	}

	b.RecordFailure()
	if got := b.State(); got != CircuitStateOpen {
		t.Fatalf("failed probe should re-open the breaker, got %s", got)
	}
	if err := b.Allow(); !errors.Is(err, ErrCircuitOpen) {
		t.Fatalf("re-opened breaker should refuse, got %v", err)
	}
}
