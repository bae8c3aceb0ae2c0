package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/14kear/online-polls/internal/entity"
)

// JobQueue is the durable store behind the results scheduler.
type JobQueue interface {
	Enqueue(ctx context.Context, pollID int64, runAt time.Time) (entity.ResultJob, error)
}

type ResultScheduler struct {
	log   *slog.Logger
	clock Clock
	queue JobQueue
}

func NewResultScheduler(log *slog.Logger, clock Clock, queue JobQueue) *ResultScheduler {
	if clock == nil {
		clock = SystemClock
	}
	return &ResultScheduler{log: log, clock: clock, queue: queue}
}

// RunAt is when the results job for poll should fire: its end time, or now
// if that already passed.
func RunAt(now time.Time, poll entity.Poll) (time.Time, error) {
	end, ok := poll.EndTime()
	if !ok {
		return time.Time{}, fmt.Errorf("%w: poll %d has no end time", ErrValidation, poll.ID)
	}
	delay := end.Sub(now)
	if delay < 0 {
		delay = 0
	}
	return now.Add(delay), nil
}

func (s *ResultScheduler) Schedule(ctx context.Context, poll entity.Poll) error {
	const op = "ResultScheduler.Schedule"

	runAt, err := RunAt(s.clock.Now(), poll)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	job, err := s.queue.Enqueue(ctx, poll.ID, runAt)
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrSchedulingUnavailable, err)
	}

	s.log.Info("results calculation scheduled",
		slog.String("op", op),
		slog.Int64("pollID", poll.ID),
		slog.String("jobID", job.ID),
		slog.Time("runAt", runAt),
	)
	return nil
}
