// Package batch computes the entropy of many lines concurrently.
package batch

import (
	"context"
	"time"

	"shannon/internal/entropy"
	"shannon/internal/logging"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Result is the outcome for one input line.
type Result struct {
	Line  int // 1-based
	Value float64
	Err   error
}

// Run evaluates every line with at most workers goroutines and returns one
// Result per line in input order. Per-line errors (empty lines) are reported in
// Result.Err and do not stop the run; a canceled context does.
func Run(ctx context.Context, lines []string, workers int) ([]Result, error) {
	if workers <= 0 {
		workers = 1
	}
	start := time.Now()
	results := make([]Result, len(lines))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, line := range lines {
		if egCtx.Err() != nil {
			break
		}
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			h, err := entropy.Compute(line)
			// Each goroutine owns its slot.
			results[i] = Result{Line: i + 1, Value: h, Err: err}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logging.Get(logging.CategoryBatch).Debug("batch complete",
		zap.Int("lines", len(lines)),
		zap.Int("workers", workers),
		zap.Duration("elapsed", time.Since(start)))
	return results, nil
}

// Failed counts results carrying an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
