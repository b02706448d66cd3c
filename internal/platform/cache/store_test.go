package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestStore_GetOrLoad_CollapsesConcurrentLoads(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls atomic.Int32

	loader := func(context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(20 * time.Millisecond)
		return "value", nil
	}

	const workers = 32
	start := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(workers)

	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			<-start
			v, err := store.GetOrLoad(context.Background(), "same-key", loader)
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if got, _ := v.(string); got != "value" {
				t.Errorf("unexpected value: %v", v)
			}
		}()
	}

	close(start)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("loader called %d times, want 1", got)
	}
}

func TestStore_GetOrLoad_ServesCachedValue(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	var calls int

	loader := func(context.Context) (any, error) {
		calls++
		return "cached", nil
	}

	for i := 0; i < 3; i++ {
		if _, err := store.GetOrLoad(context.Background(), "k", loader); err != nil {
			t.Fatalf("GetOrLoad %d: %v", i, err)
		}
	}

	if calls != 1 {
		t.Fatalf("loader called %d times, want 1", calls)
	}
}

func TestStore_TTLExpiry(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	clock := time.Date(2026, 4, 12, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	ctx := context.Background()
	store.Set(ctx, "rules", "v1")

	if _, ok := store.Get(ctx, "rules"); !ok {
		t.Fatal("fresh entry should be readable")
	}

	clock = clock.Add(2 * time.Minute)
	if _, ok := store.Get(ctx, "rules"); ok {
		t.Fatal("expired entry should miss")
	}
}

func TestStore_DeleteInvalidates(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	ctx := context.Background()

	store.Set(ctx, "rules", "v1")
	store.Delete(ctx, "rules")

	loaded, err := store.GetOrLoad(ctx, "rules", func(context.Context) (any, error) {
		return "v2", nil
	})
	if err != nil {
		t.Fatalf("GetOrLoad after delete: %v", err)
	}
	if loaded != "v2" {
		t.Fatalf("expected reload after delete, got %v", loaded)
	}
}

func TestStore_GetOrLoad_PropagatesLoaderError(t *testing.T) {
	t.Parallel()

	store := NewStore(time.Minute)
	wantErr := errors.New("backend down")

	_, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected loader error, got %v", err)
	}

	// errors are not cached
	v, err := store.GetOrLoad(context.Background(), "k", func(context.Context) (any, error) {
		return "recovered", nil
	})
	if err != nil || v != "recovered" {
		t.Fatalf("expected recovery, got %v, %v", v, err)
	}
}
