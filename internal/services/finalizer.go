package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"

	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/repo"
)

// ResultStorage persists final results.
type ResultStorage interface {
	// FinalizePoll marks the poll finalized and stores the snapshot
	// atomically; repo.ErrAlreadyFinalized if it was finalized before.
	FinalizePoll(ctx context.Context, snapshot entity.ResultSnapshot) error
	SaveSnapshot(ctx context.Context, snapshot entity.ResultSnapshot) error
	GetSnapshot(ctx context.Context, pollID int64) (entity.ResultSnapshot, error)
}

type Notifier interface {
	NotifyResults(ctx context.Context, result entity.PollResult, recipients []string) error
}

type Finalizer struct {
	log           *slog.Logger
	clock         Clock
	pollStorage   PollStorage
	ballotStorage BallotStorage
	voteStorage   VoteStorage
	resultStorage ResultStorage
	notifier      Notifier
}

func NewFinalizer(
	log *slog.Logger,
	clock Clock,
	pollStorage PollStorage,
	ballotStorage BallotStorage,
	voteStorage VoteStorage,
	resultStorage ResultStorage,
	notifier Notifier,
) *Finalizer {
	if clock == nil {
		clock = SystemClock
	}
	return &Finalizer{
		log:           log,
		clock:         clock,
		pollStorage:   pollStorage,
		ballotStorage: ballotStorage,
		voteStorage:   voteStorage,
		resultStorage: resultStorage,
		notifier:      notifier,
	}
}

// Finalize is what a fired results job runs. A poll that is already
// finalized is left alone. A poll that has not ended yet yields a
// *NotEndedError so the caller can retry at the new end time.
func (f *Finalizer) Finalize(ctx context.Context, pollID int64) error {
	const op = "Finalizer.Finalize"

	log := f.log.With(slog.String("op", op), slog.Int64("pollID", pollID))

	poll, err := f.pollStorage.GetPollByID(ctx, pollID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}

	if poll.IsFinalized() {
		log.Info("poll already finalized, skipping")
		return nil
	}

	now := f.clock.Now()
	if !poll.HasEnded(now) {
		end, _ := poll.EndTime()
		return fmt.Errorf("%s: %w", op, &NotEndedError{PollID: pollID, EndsAt: end})
	}

	result, finalizedNow, err := f.finalize(ctx, poll)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !finalizedNow {
		log.Info("poll finalized concurrently, skipping notification")
		return nil
	}

	f.notify(ctx, log, result)
	return nil
}

// Recompute recalculates the results of an ended poll on operator demand,
// regardless of whether a results job ever fired. The snapshot is
// overwritten. With notify set, voters are notified only when this call is
// the one that finalizes the poll.
func (f *Finalizer) Recompute(ctx context.Context, pollID int64, notify bool) (entity.PollResult, error) {
	const op = "Finalizer.Recompute"

	log := f.log.With(slog.String("op", op), slog.Int64("pollID", pollID))

	poll, err := f.pollStorage.GetPollByID(ctx, pollID)
	if err != nil {
		return entity.PollResult{}, fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}

	now := f.clock.Now()
	if !poll.HasEnded(now) {
		end, _ := poll.EndTime()
		return entity.PollResult{}, fmt.Errorf("%s: %w", op, &NotEndedError{PollID: pollID, EndsAt: end})
	}

	if poll.IsFinalized() {
		result, err := tally(ctx, f.ballotStorage, f.voteStorage, poll, now)
		if err != nil {
			return entity.PollResult{}, fmt.Errorf("%s: %w", op, err)
		}
		snapshot := entity.ResultSnapshot{PollID: poll.ID, Result: result, ComputedAt: now}
		if err := f.resultStorage.SaveSnapshot(ctx, snapshot); err != nil {
			return entity.PollResult{}, fmt.Errorf("%s: %w", op, err)
		}
		log.Info("results recomputed for finalized poll")
		return result, nil
	}

	result, finalizedNow, err := f.finalize(ctx, poll)
	if err != nil {
		return entity.PollResult{}, fmt.Errorf("%s: %w", op, err)
	}

	if notify && finalizedNow {
		f.notify(ctx, log, result)
	}

	return result, nil
}

// RecomputeAll finalizes every poll that ended without being finalized.
// Failures on one poll are logged and do not stop the others.
func (f *Finalizer) RecomputeAll(ctx context.Context, notify bool) ([]entity.PollResult, error) {
	const op = "Finalizer.RecomputeAll"

	log := f.log.With(slog.String("op", op))

	polls, err := f.pollStorage.GetEndedUnfinalizedPolls(ctx, f.clock.Now())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		results []entity.PollResult
		errs    []error
	)
	for _, poll := range polls {
		result, err := f.Recompute(ctx, poll.ID, notify)
		if err != nil {
			log.Error("failed to recompute results", slog.Int64("pollID", poll.ID), sl.Err(err))
			errs = append(errs, err)
			continue
		}
		results = append(results, result)
	}

	if len(errs) > 0 {
		return results, fmt.Errorf("%s: %w", op, errors.Join(errs...))
	}
	return results, nil
}

// finalizeAttempts bounds how often a snapshot is re-tallied when votes
// validated before the end time are still landing.
const finalizeAttempts = 3

func (f *Finalizer) finalize(ctx context.Context, poll entity.Poll) (entity.PollResult, bool, error) {
	var err error
	for attempt := 1; attempt <= finalizeAttempts; attempt++ {
		now := f.clock.Now()

		var result entity.PollResult
		result, err = tally(ctx, f.ballotStorage, f.voteStorage, poll, now)
		if err != nil {
			return entity.PollResult{}, false, err
		}

		err = f.resultStorage.FinalizePoll(ctx, entity.ResultSnapshot{PollID: poll.ID, Result: result, ComputedAt: now})
		switch {
		case err == nil:
			f.log.Info("poll finalized",
				slog.Int64("pollID", poll.ID),
				slog.Int("positions", len(result.Positions)),
			)
			return result, true, nil
		case errors.Is(err, repo.ErrAlreadyFinalized):
			return result, false, nil
		case errors.Is(err, repo.ErrStaleResults):
			f.log.Warn("ledger changed while finalizing, tallying again",
				slog.Int64("pollID", poll.ID),
				slog.Int("attempt", attempt),
			)
			continue
		}
		return entity.PollResult{}, false, mapRepoErr(err)
	}

	return entity.PollResult{}, false, err
}

// notify sends the results to every distinct voter address. Failures are
// logged only; finalization already happened.
func (f *Finalizer) notify(ctx context.Context, log *slog.Logger, result entity.PollResult) {
	if f.notifier == nil {
		return
	}

	recipients, err := f.voteStorage.VoterEmailsForPoll(ctx, result.PollID)
	if err != nil {
		log.Error("failed to collect voter emails", sl.Err(err))
		return
	}
	if len(recipients) == 0 {
		log.Info("no voters to notify")
		return
	}

	if err := f.notifier.NotifyResults(ctx, result, recipients); err != nil {
		log.Error("failed to notify voters", sl.Err(err), slog.Int("recipients", len(recipients)))
		return
	}

	log.Info("voters notified", slog.Int("recipients", len(recipients)))
}
