package analytics

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ErrExecutorReleased is returned when work is scheduled on an executor
// whose resources were already released.
var ErrExecutorReleased = errors.New("executor already released")

// Executor is the compute resource handle for a pipeline run. It bounds
// parallelism to a fixed number of workers and is acquired once at the
// start of a run and released exactly once at the end, on every exit path.
type Executor struct {
	workers     int
	mu          sync.Mutex
	released    bool
	releaseOnce sync.Once
}

// NewExecutor creates an executor with the given worker count
func NewExecutor(workers int) *Executor {
	if workers <= 0 {
		workers = 1
	}

	return &Executor{workers: workers}
}

// Workers returns the parallelism bound
func (e *Executor) Workers() int {
	return e.workers
}

// Run executes the tasks with bounded parallelism and returns the first
// error. Remaining tasks are cancelled through the context once a task
// fails.
func (e *Executor) Run(ctx context.Context, tasks []func(context.Context) error) error {
	if e.Released() {
		return ErrExecutorReleased
	}

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(e.workers)

	for _, task := range tasks {
		task := task
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return task(ctx)
		})
	}

	return group.Wait()
}

// Release frees the executor. Safe to call more than once; only the first
// call has effect.
func (e *Executor) Release() {
	e.releaseOnce.Do(func() {
		e.mu.Lock()
		e.released = true
		e.mu.Unlock()
	})
}

// Released reports whether the executor has been released
func (e *Executor) Released() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.released
}
