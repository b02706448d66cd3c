package resilience

import "sync"

// SingleFlight deduplicates concurrent calls for the same key. The third
// return value reports whether the result was shared from another caller.
type SingleFlight struct {
	mu    sync.Mutex
	calls map[string]*inflight
}

type inflight struct {
	done chan struct{}
	val  any
	err  error
}

func (g *SingleFlight) Do(key string, fn func() (any, error)) (any, error, bool) {
	g.mu.Lock()
	if existing, ok := g.calls[key]; ok {
		g.mu.Unlock()
		<-existing.done
		return existing.val, existing.err, true
	}

	if g.calls == nil {
		g.calls = make(map[string]*inflight)
	}
	current := &inflight{done: make(chan struct{})}
	g.calls[key] = current
	g.mu.Unlock()

	current.val, current.err = fn()
	close(current.done)

	g.mu.Lock()
	delete(g.calls, key)
	g.mu.Unlock()

	return current.val, current.err, false
}
