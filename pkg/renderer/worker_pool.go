package renderer

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// WorkerPool renders image rows in parallel.
// Rows are independent: each task writes only its own row.
type WorkerPool struct {
	numWorkers int
}

// NewWorkerPool creates a worker pool with the specified number of workers
func NewWorkerPool(numWorkers int) *WorkerPool {
	if numWorkers <= 0 {
		numWorkers = runtime.NumCPU()
	}
	return &WorkerPool{numWorkers: numWorkers}
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// Run calls render for every row in [0, numRows) and waits for completion.
// The first error or context cancellation stops the remaining rows.
func (wp *WorkerPool) Run(ctx context.Context, numRows int, render func(row int) error) error {
	g, ctx := errgroup.WithContext(ctx)
	tasks := make(chan int)

	g.Go(func() error {
		defer close(tasks)
		for row := 0; row < numRows; row++ {
			select {
			case tasks <- row:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < wp.numWorkers; i++ {
		g.Go(func() error {
			for row := range tasks {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := render(row); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}
