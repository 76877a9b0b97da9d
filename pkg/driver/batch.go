package driver

import (
	"context"
	"errors"
	"sync"
)

// ErrNoInput is returned by RunBatch for an empty line list.
var ErrNoInput = errors.New("no input lines")

// RunBatch processes every line on a pool of workers and returns the results
// in line order. The run is all or nothing: if any line fails, the error of
// the lowest-numbered failing line is returned together with no results.
func (p *Pipeline) RunBatch(ctx context.Context, lines []string) ([]*Result, error) {
	if len(lines) == 0 {
		return nil, ErrNoInput
	}

	results := make([]*Result, len(lines))
	errs := make([]error, len(lines))

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := p.cfg.Workers
	if workers > len(lines) {
		workers = len(lines)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i], errs[i] = p.Process(i+1, lines[i])
				if errs[i] != nil {
					cancel()
				}
			}
		}()
	}

	// Lines are handed out in order, so every line before a failing one has
	// been dispatched and finishes before wg.Wait returns.
dispatch:
	for i := range lines {
		select {
		case <-runCtx.Done():
			break dispatch
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			tracer().Errorf("%v", err)
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	tracer().Infof("processed %d lines with %d workers", len(lines), workers)
	return results, nil
}
