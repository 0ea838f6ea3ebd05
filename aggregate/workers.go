package aggregate

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// WorkerPool runs independent tasks on at most Size goroutines.
// A pool of size one runs tasks inline on the calling goroutine.
type WorkerPool struct {
	size int
}

// NewWorkerPool returns a pool of size workers. Sizes below one are treated as one.
func NewWorkerPool(size int) *WorkerPool {
	if size < 1 {
		size = 1
	}

	return &WorkerPool{size: size}
}

// Size returns the maximum number of concurrent tasks.
func (p *WorkerPool) Size() int {
	return p.size
}

// Map calls fn(ctx, i) for every i in [0, n) and waits for all calls to
// return. Tasks share no state through the pool; a task that needs to
// publish a result writes to its own index of a caller-owned slice.
//
// The first error is returned once every started task has finished. A
// cancelled ctx stops tasks that have not been scheduled yet.
func (p *WorkerPool) Map(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}

	if p.size == 1 || n == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i); err != nil {
				return err
			}
		}

		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			return fn(gctx, i)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}
