package concurrency

import (
	"context"
	"errors"

	"golang.org/x/time/rate"
)

// ThrottledWorker paces calls to the bridge, which drops requests when flooded
type ThrottledWorker struct {
	limiter *rate.Limiter
}

func NewThrottledWorker(requestsPerSecond float64) *ThrottledWorker {
	burst := int(requestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &ThrottledWorker{limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst)}
}

// Do runs one job once the limiter allows it
func (w *ThrottledWorker) Do(ctx context.Context, job func(ctx context.Context) error) error {
	if err := w.limiter.Wait(ctx); err != nil {
		return err
	}
	return job(ctx)
}

// Run runs every job in order, a failing job does not stop the rest. The returned error joins
// every job error.
func (w *ThrottledWorker) Run(ctx context.Context, jobs []func(ctx context.Context) error) error {
	var errs []error
	for _, job := range jobs {
		if err := w.Do(ctx, job); err != nil {
			errs = append(errs, err)
			if ctx.Err() != nil {
				break
			}
		}
	}
	return errors.Join(errs...)
}
