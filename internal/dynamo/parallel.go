package dynamo

import (
	"golang.org/x/sync/errgroup"
)

// ParallelFor splits [0, n) into at most workers contiguous chunks and runs
// fn on each chunk concurrently. Chunks below minChunk run inline. The first
// non-nil error in chunk order is returned once every chunk has finished.
func ParallelFor(n, workers, minChunk int, fn func(start, end int) error) error {
	if workers <= 1 || n <= minChunk {
		return fn(0, n)
	}

	if minChunk > 0 && n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers
	errs := make([]error, workers)

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			continue
		}
		w := w
		g.Go(func() error {
			errs[w] = fn(start, end)
			return nil
		})
	}
	_ = g.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
