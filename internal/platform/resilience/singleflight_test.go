package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestSingleFlight_DeduplicatesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var executions atomic.Int32
	var shared atomic.Int32

	const callers = 16
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(callers)

	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			<-start
			val, err, wasShared := g.Do("scoreboard:123", func() (any, error) {
				executions.Add(1)
				time.Sleep(20 * time.Millisecond)
				return "payload", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if val != "payload" {
				t.Errorf("unexpected value: %v", val)
			}
			if wasShared {
				shared.Add(1)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := executions.Load(); got != 1 {
		t.Fatalf("expected a single execution, got %d", got)
	}
	if got := shared.Load(); got != callers-1 {
		t.Fatalf("expected %d shared results, got %d", callers-1, got)
	}
}

func TestSingleFlight_KeyReleasedAfterCompletion(t *testing.T) {
	var g SingleFlight
	var executions int

	for i := 0; i < 3; i++ {
		if _, err, _ := g.Do("same-key", func() (any, error) {
			executions++
			return nil, nil
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if executions != 3 {
		t.Fatalf("sequential calls should each execute, got %d", executions)
	}
}

func TestSingleFlight_DistinctKeysRunIndependently(t *testing.T) {
	var g SingleFlight

	a, err, _ := g.Do("key-a", func() (any, error) { return 1, nil })
	if err != nil || a != 1 {
		t.Fatalf("key-a: got %v, %v", a, err)
	}
	b, err, _ := g.Do("key-b", func() (any, error) { return 2, nil })
	if err != nil || b != 2 {
		t.Fatalf("key-b: got %v, %v", b, err)
	}
}
