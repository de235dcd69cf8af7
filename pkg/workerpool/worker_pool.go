// Package workerpool runs independent units of work with bounded parallelism.
package workerpool

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Config configures the worker pool.
type Config struct {
	MaxConcurrent int // Maximum concurrent work items (default: 8)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxConcurrent: 8,
	}
}

// WorkerPool executes work items concurrently. A semaphore limits how many
// run at once; new items start as soon as a slot frees up.
type WorkerPool struct {
	config Config
	logger *zap.Logger
}

// New creates a new worker pool.
func New(config Config, logger *zap.Logger) *WorkerPool {
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = 8
	}
	return &WorkerPool{
		config: config,
		logger: logger.Named("worker-pool"),
	}
}

// MaxConcurrent returns the effective concurrency limit.
func (p *WorkerPool) MaxConcurrent() int {
	return p.config.MaxConcurrent
}

// WorkItem represents a unit of work to be processed.
type WorkItem[T any] struct {
	ID      string                               // For logging/tracking
	Execute func(ctx context.Context) (T, error) // The work to be executed
}

// WorkResult represents the result of a work item.
type WorkResult[T any] struct {
	ID     string
	Result T
	Err    error
}

// Process executes all work items with bounded parallelism.
// Results are returned in submission order: results[i] belongs to items[i].
// One failing item never stops the others. Items still waiting for a slot
// when ctx is cancelled report ctx.Err().
func Process[T any](
	ctx context.Context,
	pool *WorkerPool,
	items []WorkItem[T],
	onProgress func(completed, total int),
) []WorkResult[T] {
	if len(items) == 0 {
		return nil
	}

	results := make([]WorkResult[T], len(items))
	done := make(chan int, len(items))
	sem := make(chan struct{}, pool.config.MaxConcurrent)

	var wg sync.WaitGroup

	for i, item := range items {
		wg.Add(1)
		go func(i int, item WorkItem[T]) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				results[i] = WorkResult[T]{ID: item.ID, Err: ctx.Err()}
				done <- i
				return
			}

			result, err := item.Execute(ctx)
			if err != nil {
				pool.logger.Debug("Work item failed",
					zap.String("id", item.ID),
					zap.Error(err))
			}
			results[i] = WorkResult[T]{ID: item.ID, Result: result, Err: err}
			done <- i
		}(i, item)
	}

	go func() {
		wg.Wait()
		close(done)
	}()

	completed := 0
	for range done {
		completed++
		if onProgress != nil {
			onProgress(completed, len(items))
		}
	}

	return results
}
