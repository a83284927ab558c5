// Package dispatch serializes bracket operations per tournament.
// The engine itself works on immutable values, but a tournament's
// registry and current bracket pointer are shared mutable state;
// funneling every operation on one tournament through the same
// lane keeps results applied in submission order without a lock
// around whole tournaments.
package dispatch

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// A Dispatcher runs submitted operations strictly in order per
// key while separate keys proceed in parallel.
type Dispatcher struct {
	group *errgroup.Group
	sem   *semaphore.Weighted
	log   zerolog.Logger

	mu    sync.Mutex
	tails map[string]chan struct{}
}

// New creates a dispatcher. maxParallel bounds how many
// operations run at once across all keys; zero or negative means
// unbounded. The bound applies to the running operation only,
// never to waiting in a lane, so lanes cannot starve each other.
func New(log zerolog.Logger, maxParallel int) *Dispatcher {
	d := &Dispatcher{
		group: new(errgroup.Group),
		log:   log,
		tails: make(map[string]chan struct{}),
	}
	if maxParallel > 0 {
		d.sem = semaphore.NewWeighted(int64(maxParallel))
	}
	return d
}

// Do runs fn after every previously submitted operation for the
// same key has finished, and blocks until fn returns. Waiting is
// interruptible through ctx; a cancelled operation gives up its
// place in the lane without running.
func (d *Dispatcher) Do(ctx context.Context, key string, fn func() error) error {
	prev, done := d.enqueue(key)
	return d.run(ctx, key, prev, done, fn)
}

// Go submits fn asynchronously. The lane position is taken
// immediately, so per-key order follows the Go call order. Any
// error is logged and surfaced again by Wait.
func (d *Dispatcher) Go(ctx context.Context, key string, fn func() error) {
	prev, done := d.enqueue(key)
	d.group.Go(func() error {
		err := d.run(ctx, key, prev, done, fn)
		if err != nil {
			d.log.Error().Err(err).Str("key", key).Msg("dispatched operation failed")
		}
		return err
	})
}

// Wait blocks until every operation submitted through Go has
// finished and returns the first error among them.
func (d *Dispatcher) Wait() error {
	return d.group.Wait()
}

func (d *Dispatcher) run(ctx context.Context, key string, prev, done chan struct{}, fn func() error) error {
	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			// The lane slot must stay closed until the predecessor
			// finishes; otherwise the next operation in line would
			// overtake one that is still running.
			go func() {
				<-prev
				d.release(key, done)
			}()
			return ctx.Err()
		}
	}
	defer d.release(key, done)

	if d.sem != nil {
		if err := d.sem.Acquire(ctx, 1); err != nil {
			return err
		}
		defer d.sem.Release(1)
	}

	return fn()
}

func (d *Dispatcher) enqueue(key string) (prev, done chan struct{}) {
	d.mu.Lock()
	defer d.mu.Unlock()
	prev = d.tails[key]
	done = make(chan struct{})
	d.tails[key] = done
	return prev, done
}

func (d *Dispatcher) release(key string, done chan struct{}) {
	close(done)
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.tails[key] == done {
		delete(d.tails, key)
	}
}
