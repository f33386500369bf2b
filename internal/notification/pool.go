package notification

import (
	"context"
	"sync"

	"github.com/cockroachdb/errors"
	"golang.org/x/time/rate"
)

// Task is one delivery. A failed delivery returns an error so the caller can
// log the batch outcome.
type Task func(ctx context.Context) error

// Pool runs delivery batches on a bounded number of goroutines, optionally
// throttled so a large interview does not flood the mail transport.
type Pool struct {
	workers int
	limiter *rate.Limiter
}

// NewPool returns a pool running at most workers deliveries at once. A
// perSecond of zero or less disables throttling.
func NewPool(workers int, perSecond float64) *Pool {
	if workers <= 0 {
		workers = 1
	}
	p := &Pool{workers: workers}
	if perSecond > 0 {
		burst := max(int(perSecond), 1)
		p.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
	return p
}

// Run executes tasks and blocks until all of them finished or ctx is done.
// Every task error is combined into the returned error.
func (p *Pool) Run(ctx context.Context, tasks ...Task) error {
	if p == nil {
		p = &Pool{workers: 1}
	}
	if len(tasks) == 0 {
		return nil
	}

	queue := make(chan Task)
	errs := make(chan error, len(tasks))

	var wg sync.WaitGroup
	workers := min(p.workers, len(tasks))
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for t := range queue {
				if p.limiter != nil {
					if err := p.limiter.Wait(ctx); err != nil {
						errs <- err
						continue
					}
				}
				if err := t(ctx); err != nil {
					errs <- err
				}
			}
		}()
	}

feed:
	for _, t := range tasks {
		if t == nil {
			continue
		}
		select {
		case <-ctx.Done():
			break feed
		case queue <- t:
		}
	}
	close(queue)
	wg.Wait()
	close(errs)

	var out error
	for err := range errs {
		out = errors.CombineErrors(out, err)
	}
	if err := ctx.Err(); err != nil && out == nil {
		out = err
	}
	return out
}
