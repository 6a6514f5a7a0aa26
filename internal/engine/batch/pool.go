package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// MaxConcurrency caps the number of workers a caller may request.
const MaxConcurrency = 256

// Common pool errors.
var (
	ErrInvalidConcurrency = errors.New("concurrency must be between 0 and 256")
	ErrNilFunc            = errors.New("batch function cannot be nil")
)

// Func processes the item at index i.
type Func[T, R any] func(ctx context.Context, i int, item T) (R, error)

// ProgressCallback is an optional callback invoked after each item completes.
type ProgressCallback func(snapshot ProgressSnapshot)

// Pool maps items through a Func with bounded parallelism.
type Pool[T, R any] struct {
	concurrency int
	onProgress  ProgressCallback
}

// NewPool creates a pool running at most concurrency items at once.
// A concurrency of 0 selects runtime.NumCPU().
func NewPool[T, R any](concurrency int) (*Pool[T, R], error) {
	if concurrency < 0 || concurrency > MaxConcurrency {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidConcurrency, concurrency)
	}
	if concurrency == 0 {
		concurrency = runtime.NumCPU()
	}
	return &Pool[T, R]{concurrency: concurrency}, nil
}

// WithProgressCallback sets a progress callback for the pool.
func (p *Pool[T, R]) WithProgressCallback(callback ProgressCallback) *Pool[T, R] {
	p.onProgress = callback
	return p
}

// Concurrency returns the configured worker limit.
func (p *Pool[T, R]) Concurrency() int {
	return p.concurrency
}

// Map calls fn for every item and returns the results in input order.
//
// The first error returned by fn cancels the context handed to the
// remaining calls and is returned by Map together with whatever results
// completed. Items not yet started when the context is cancelled are
// skipped.
func (p *Pool[T, R]) Map(ctx context.Context, items []T, fn Func[T, R]) ([]R, error) {
	if fn == nil {
		return nil, ErrNilFunc
	}
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, nil
	}

	progress := NewProgress(len(items))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, item := range items {
		if gCtx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			r, err := fn(gCtx, i, item)
			if err != nil {
				return fmt.Errorf("item %d: %w", i, err)
			}
			results[i] = r

			progress.AddProcessed(1)
			if p.onProgress != nil {
				p.onProgress(progress.Snapshot())
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	// Cancellation of the parent can stop the loop before any Go call fails.
	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, nil
}

// Map is a convenience wrapper building a Pool with the given concurrency.
func Map[T, R any](ctx context.Context, items []T, concurrency int, fn Func[T, R]) ([]R, error) {
	p, err := NewPool[T, R](concurrency)
	if err != nil {
		return nil, err
	}
	return p.Map(ctx, items, fn)
}
