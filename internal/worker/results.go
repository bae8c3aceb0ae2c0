// Package worker drains the results job queue: it claims due jobs and runs
// the finalizer for each of them.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"

	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/services"
)

type JobStore interface {
	ClaimDue(ctx context.Context, now time.Time, limit int, lease time.Duration) ([]entity.ResultJob, error)
	MarkSucceeded(ctx context.Context, id string, at time.Time) error
	MarkFailed(ctx context.Context, id string, reason string, at time.Time) error
	Retry(ctx context.Context, id string, runAt time.Time, reason string) error
	Reschedule(ctx context.Context, id string, runAt time.Time) error
}

type Finalizer interface {
	Finalize(ctx context.Context, pollID int64) error
}

type Options struct {
	PollInterval time.Duration
	BatchSize    int
	Lease        time.Duration
	MaxAttempts  int
	// Backoff is the base delay before a failed job is retried. It doubles
	// with every attempt.
	Backoff time.Duration
}

func (o *Options) setDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = 5 * time.Second
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
	if o.Lease <= 0 {
		o.Lease = 2 * time.Minute
	}
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = 5
	}
	if o.Backoff <= 0 {
		o.Backoff = 10 * time.Second
	}
}

type ResultsWorker struct {
	log       *slog.Logger
	clock     services.Clock
	store     JobStore
	finalizer Finalizer
	opts      Options
}

func NewResultsWorker(log *slog.Logger, clock services.Clock, store JobStore, finalizer Finalizer, opts Options) *ResultsWorker {
	if clock == nil {
		clock = services.SystemClock
	}
	opts.setDefaults()
	return &ResultsWorker{
		log:       log,
		clock:     clock,
		store:     store,
		finalizer: finalizer,
		opts:      opts,
	}
}

// Run polls the queue until ctx is cancelled.
func (w *ResultsWorker) Run(ctx context.Context) error {
	const op = "ResultsWorker.Run"

	log := w.log.With(slog.String("op", op))
	log.Info("results worker started", slog.Duration("interval", w.opts.PollInterval))

	ticker := time.NewTicker(w.opts.PollInterval)
	defer ticker.Stop()

	for {
		if _, err := w.RunOnce(ctx); err != nil {
			log.Error("results worker iteration failed", sl.Err(err))
		}

		select {
		case <-ctx.Done():
			log.Info("results worker stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce claims one batch of due jobs and processes it. It returns how many
// jobs were claimed.
func (w *ResultsWorker) RunOnce(ctx context.Context) (int, error) {
	const op = "ResultsWorker.RunOnce"

	jobs, err := w.store.ClaimDue(ctx, w.clock.Now(), w.opts.BatchSize, w.opts.Lease)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	var errs []error
	for _, job := range jobs {
		if err := w.process(ctx, job); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return len(jobs), fmt.Errorf("%s: %w", op, errors.Join(errs...))
	}
	return len(jobs), nil
}

// process runs the finalizer for one job and records the outcome. The
// returned error concerns the queue bookkeeping only.
func (w *ResultsWorker) process(ctx context.Context, job entity.ResultJob) error {
	log := w.log.With(
		slog.String("jobID", job.ID),
		slog.Int64("pollID", job.PollID),
		slog.Int("attempt", job.Attempts),
	)

	err := w.finalizer.Finalize(ctx, job.PollID)
	now := w.clock.Now()

	var notEnded *services.NotEndedError
	switch {
	case err == nil:
		log.Info("results job succeeded")
		return w.store.MarkSucceeded(ctx, job.ID, now)

	case errors.As(err, &notEnded):
		log.Info("poll has not ended yet, rescheduling", slog.Time("runAt", notEnded.EndsAt))
		return w.store.Reschedule(ctx, job.ID, notEnded.EndsAt)

	case errors.Is(err, services.ErrPollNotFound):
		log.Warn("poll no longer exists, dropping job")
		return w.store.MarkFailed(ctx, job.ID, err.Error(), now)

	case job.Attempts >= w.opts.MaxAttempts:
		log.Error("results job exhausted its attempts", sl.Err(err))
		return w.store.MarkFailed(ctx, job.ID, err.Error(), now)
	}

	runAt := now.Add(w.backoff(job.Attempts))
	log.Warn("results job failed, retrying", sl.Err(err), slog.Time("runAt", runAt))
	return w.store.Retry(ctx, job.ID, runAt, err.Error())
}

func (w *ResultsWorker) backoff(attempts int) time.Duration {
	if attempts < 1 {
		attempts = 1
	}
	d := w.opts.Backoff
	for i := 1; i < attempts && d < time.Hour; i++ {
		d *= 2
	}
	return d
}
