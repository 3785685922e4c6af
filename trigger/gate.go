package trigger

import (
	"context"
	"log"

	"golang.org/x/sync/semaphore"
)

// RunFunc executes one full pipeline run.
type RunFunc func(ctx context.Context) error

// Gate serializes runs. A trigger that arrives while a run is still active
// is rejected outright — never queued — so concurrent runs can't exist.
type Gate struct {
	sem *semaphore.Weighted
	run RunFunc
}

// NewGate creates a single-run-at-a-time Gate around run.
func NewGate(run RunFunc) *Gate {
	return &Gate{sem: semaphore.NewWeighted(1), run: run}
}

// TryStart launches a run in its own goroutine and returns immediately. It
// reports false when a run is already in progress.
func (g *Gate) TryStart(source string) bool {
	if !g.sem.TryAcquire(1) {
		log.Printf("[trigger] %s: run already in progress — skipping", source)
		return false
	}
	go func() {
		defer g.sem.Release(1)
		if err := g.run(context.Background()); err != nil {
			log.Printf("[trigger] %s: run failed: %v", source, err)
		}
	}()
	return true
}
