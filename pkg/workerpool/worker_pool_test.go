package workerpool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestWorkerPool_Process_SubmissionOrder(t *testing.T) {
	pool := New(Config{MaxConcurrent: 3}, zap.NewNop())

	items := make([]WorkItem[string], 6)
	for i := range items {
		i := i
		items[i] = WorkItem[string]{
			ID: fmt.Sprintf("task%d", i),
			Execute: func(ctx context.Context) (string, error) {
				// Later items finish first.
				time.Sleep(time.Duration(len(items)-i) * time.Millisecond)
				return fmt.Sprintf("result%d", i), nil
			},
		}
	}

	results := Process(context.Background(), pool, items, nil)

	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("task %s failed: %v", r.ID, r.Err)
		}
		if r.ID != items[i].ID {
			t.Errorf("results[%d].ID = %s, want %s", i, r.ID, items[i].ID)
		}
		if want := fmt.Sprintf("result%d", i); r.Result != want {
			t.Errorf("results[%d].Result = %s, want %s", i, r.Result, want)
		}
	}
}

func TestWorkerPool_Process_WithErrors(t *testing.T) {
	pool := New(Config{MaxConcurrent: 2}, zap.NewNop())

	expectedErr := errors.New("task failed")
	items := []WorkItem[string]{
		{ID: "task1", Execute: func(ctx context.Context) (string, error) { return "result1", nil }},
		{ID: "task2", Execute: func(ctx context.Context) (string, error) { return "", expectedErr }},
		{ID: "task3", Execute: func(ctx context.Context) (string, error) { return "result3", nil }},
	}

	results := Process(context.Background(), pool, items, nil)

	if results[0].Err != nil {
		t.Errorf("task1 should succeed, got error: %v", results[0].Err)
	}
	if !errors.Is(results[1].Err, expectedErr) {
		t.Errorf("task2 should fail with expectedErr, got: %v", results[1].Err)
	}
	if results[2].Err != nil || results[2].Result != "result3" {
		t.Errorf("task3 should succeed, got %q, %v", results[2].Result, results[2].Err)
	}
}

func TestWorkerPool_Process_EmptyItems(t *testing.T) {
	pool := New(Config{MaxConcurrent: 2}, zap.NewNop())

	results := Process(context.Background(), pool, []WorkItem[int]{}, nil)

	if results != nil {
		t.Errorf("expected nil results for empty items, got %v", results)
	}
}

func TestWorkerPool_Process_ConcurrencyLimit(t *testing.T) {
	pool := New(Config{MaxConcurrent: 2}, zap.NewNop())

	var current, peak int32
	items := make([]WorkItem[int], 10)
	for i := range items {
		items[i] = WorkItem[int]{
			ID: fmt.Sprintf("task%d", i),
			Execute: func(ctx context.Context) (int, error) {
				n := atomic.AddInt32(&current, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&current, -1)
				return 0, nil
			},
		}
	}

	Process(context.Background(), pool, items, nil)

	if peak > 2 {
		t.Errorf("expected at most 2 concurrent items, observed %d", peak)
	}
}

func TestWorkerPool_Process_Progress(t *testing.T) {
	pool := New(Config{MaxConcurrent: 2}, zap.NewNop())

	items := make([]WorkItem[int], 4)
	for i := range items {
		items[i] = WorkItem[int]{ID: fmt.Sprintf("task%d", i), Execute: func(ctx context.Context) (int, error) { return 1, nil }}
	}

	var mu sync.Mutex
	var calls []int
	Process(context.Background(), pool, items, func(completed, total int) {
		mu.Lock()
		defer mu.Unlock()
		if total != 4 {
			t.Errorf("expected total 4, got %d", total)
		}
		calls = append(calls, completed)
	})

	if len(calls) != 4 || calls[3] != 4 {
		t.Errorf("expected progress 1..4, got %v", calls)
	}
}

func TestWorkerPool_Process_CancelledContext(t *testing.T) {
	pool := New(Config{MaxConcurrent: 1}, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	items := []WorkItem[string]{
		{ID: "task1", Execute: func(ctx context.Context) (string, error) {
			if err := ctx.Err(); err != nil {
				return "", err
			}
			return "result1", nil
		}},
	}

	results := Process(ctx, pool, items, nil)

	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if !errors.Is(results[0].Err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", results[0].Err)
	}
}

func TestNew_DefaultsConcurrency(t *testing.T) {
	pool := New(Config{}, zap.NewNop())
	if pool.MaxConcurrent() != DefaultConfig().MaxConcurrent {
		t.Errorf("expected default concurrency %d, got %d", DefaultConfig().MaxConcurrent, pool.MaxConcurrent())
	}
}
