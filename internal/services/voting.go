package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"

	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/repo"
)

//go:generate mockgen -destination=mocks/mocks.go -package=mocks . LogStorage,PollStorage,BallotStorage,VoteStorage,Scheduler,JobQueue,ResultStorage,Notifier

type OnlineVoting struct {
	log           *slog.Logger
	clock         Clock
	logStorage    LogStorage
	pollStorage   PollStorage
	ballotStorage BallotStorage
	voteStorage   VoteStorage
	scheduler     Scheduler
}

type LogStorage interface {
	SaveLog(ctx context.Context, log *entity.Log) (int64, error)
	GetLogs(ctx context.Context) ([]entity.Log, error)
}

type PollStorage interface {
	SavePoll(ctx context.Context, poll entity.Poll) (int64, error)
	GetPollByID(ctx context.Context, id int64) (entity.Poll, error)
	GetPolls(ctx context.Context) ([]entity.Poll, error)
	GetEndedUnfinalizedPolls(ctx context.Context, now time.Time) ([]entity.Poll, error)
	UpdatePoll(ctx context.Context, poll entity.Poll) error
	DeletePoll(ctx context.Context, id int64) error
}

// BallotStorage holds positions and their candidates.
type BallotStorage interface {
	SavePosition(ctx context.Context, position entity.Position) (int64, error)
	GetPositionByID(ctx context.Context, id int64) (entity.Position, error)
	GetPositionsByPollID(ctx context.Context, pollID int64) ([]entity.Position, error)
	SaveCandidate(ctx context.Context, candidate entity.Candidate) (int64, error)
	GetCandidateByID(ctx context.Context, id int64) (entity.Candidate, error)
}

// VoteStorage is the vote ledger. SaveVote must enforce at most one vote per
// (voter, position) and report a violation as repo.ErrVoteExists.
type VoteStorage interface {
	SaveVote(ctx context.Context, vote entity.Vote) (int64, error)
	HasVoted(ctx context.Context, voterID, positionID int64) (bool, error)
	CountForCandidate(ctx context.Context, candidateID int64) (int64, error)
	CountsForPoll(ctx context.Context, pollID int64) (map[int64]int64, error)
	VotesForPoll(ctx context.Context, pollID int64) ([]entity.Vote, error)
	VoterEmailsForPoll(ctx context.Context, pollID int64) ([]string, error)
}

type Scheduler interface {
	Schedule(ctx context.Context, poll entity.Poll) error
}

type PollInput struct {
	Title         string
	Description   string
	StartTime     time.Time
	DurationHours int
}

func (in PollInput) validate() error {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return fmt.Errorf("%w: title is empty", ErrValidation)
	case in.StartTime.IsZero():
		return fmt.Errorf("%w: start time is required", ErrValidation)
	case in.DurationHours <= 0:
		return fmt.Errorf("%w: duration must be a positive number of hours", ErrValidation)
	}
	return nil
}

func NewOnlineVoting(
	log *slog.Logger,
	clock Clock,
	logStorage LogStorage,
	pollStorage PollStorage,
	ballotStorage BallotStorage,
	voteStorage VoteStorage,
	scheduler Scheduler,
) *OnlineVoting {
	if clock == nil {
		clock = SystemClock
	}
	return &OnlineVoting{
		log:           log,
		clock:         clock,
		logStorage:    logStorage,
		pollStorage:   pollStorage,
		ballotStorage: ballotStorage,
		voteStorage:   voteStorage,
		scheduler:     scheduler,
	}
}

// Now is the instant every status in a response is computed against.
func (v *OnlineVoting) Now() time.Time {
	return v.clock.Now()
}

func (v *OnlineVoting) CreatePoll(ctx context.Context, in PollInput, adminID int64) (int64, error) {
	const op = "OnlineVoting.CreatePoll"

	log := v.log.With(slog.String("op", op), slog.Int64("adminID", adminID))

	if err := in.validate(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	poll := entity.Poll{
		Title:         strings.TrimSpace(in.Title),
		Description:   in.Description,
		StartTime:     in.StartTime.UTC(),
		DurationHours: in.DurationHours,
	}

	pollID, err := v.pollStorage.SavePoll(ctx, poll)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	poll.ID = pollID

	v.schedule(ctx, log, poll)
	v.audit(ctx, op, &entity.Log{PollID: &pollID, UserID: adminID, Action: op})

	log.Info("poll created", slog.Int64("pollID", pollID))
	return pollID, nil
}

// UpdatePoll edits a poll that has not been finalized yet and reschedules
// its results job for the new end time.
func (v *OnlineVoting) UpdatePoll(ctx context.Context, id int64, in PollInput, adminID int64) error {
	const op = "OnlineVoting.UpdatePoll"

	log := v.log.With(slog.String("op", op), slog.Int64("adminID", adminID), slog.Int64("pollID", id))

	if err := in.validate(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	poll, err := v.getPoll(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if poll.IsFinalized() {
		return fmt.Errorf("%s: %w", op, ErrPollFinalized)
	}

	poll.Title = strings.TrimSpace(in.Title)
	poll.Description = in.Description
	poll.StartTime = in.StartTime.UTC()
	poll.DurationHours = in.DurationHours

	if err := v.pollStorage.UpdatePoll(ctx, poll); err != nil {
		return fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}

	v.schedule(ctx, log, poll)
	v.audit(ctx, op, &entity.Log{PollID: &id, UserID: adminID, Action: op})

	log.Info("poll updated")
	return nil
}

func (v *OnlineVoting) DeletePoll(ctx context.Context, id int64, adminID int64) error {
	const op = "OnlineVoting.DeletePoll"

	if err := v.pollStorage.DeletePoll(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}

	v.audit(ctx, op, &entity.Log{PollID: &id, UserID: adminID, Action: op})
	return nil
}

// schedule enqueues the results job. A failure never fails the admin write:
// the worker or the operator recompute command picks the poll up later.
func (v *OnlineVoting) schedule(ctx context.Context, log *slog.Logger, poll entity.Poll) {
	if v.scheduler == nil {
		return
	}
	if err := v.scheduler.Schedule(ctx, poll); err != nil {
		log.Warn("failed to schedule results calculation",
			sl.Err(fmt.Errorf("%w: %w", ErrSchedulingUnavailable, err)),
			slog.Int64("pollID", poll.ID),
		)
	}
}

func (v *OnlineVoting) GetPollByID(ctx context.Context, id int64) (entity.Poll, error) {
	const op = "OnlineVoting.GetPollByID"

	poll, err := v.getPoll(ctx, id)
	if err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}

	positions, err := v.ballotStorage.GetPositionsByPollID(ctx, id)
	if err != nil {
		return entity.Poll{}, fmt.Errorf("%s: %w", op, err)
	}
	poll.Positions = positions

	return poll, nil
}

// GetPolls lists polls with the newest start time first.
func (v *OnlineVoting) GetPolls(ctx context.Context) ([]entity.Poll, error) {
	const op = "OnlineVoting.GetPolls"

	polls, err := v.pollStorage.GetPolls(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return polls, nil
}

func (v *OnlineVoting) CreatePosition(ctx context.Context, pollID int64, title, description string, adminID int64) (int64, error) {
	const op = "OnlineVoting.CreatePosition"

	if strings.TrimSpace(title) == "" {
		return 0, fmt.Errorf("%s: %w: title is empty", op, ErrValidation)
	}

	if _, err := v.getPoll(ctx, pollID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	positionID, err := v.ballotStorage.SavePosition(ctx, entity.Position{
		PollID:      pollID,
		Title:       strings.TrimSpace(title),
		Description: description,
	})
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}

	v.audit(ctx, op, &entity.Log{PollID: &pollID, PositionID: &positionID, UserID: adminID, Action: op})

	return positionID, nil
}

func (v *OnlineVoting) CreateCandidate(ctx context.Context, pollID int64, candidate entity.Candidate, adminID int64) (int64, error) {
	const op = "OnlineVoting.CreateCandidate"

	if strings.TrimSpace(candidate.Name) == "" {
		return 0, fmt.Errorf("%s: %w: name is empty", op, ErrValidation)
	}

	position, err := v.ballotStorage.GetPositionByID(ctx, candidate.PositionID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}
	if position.PollID != pollID {
		return 0, fmt.Errorf("%s: %w", op, ErrPositionNotFound)
	}

	candidate.Name = strings.TrimSpace(candidate.Name)
	candidateID, err := v.ballotStorage.SaveCandidate(ctx, candidate)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}

	v.audit(ctx, op, &entity.Log{
		PollID:      &pollID,
		PositionID:  &position.ID,
		CandidateID: &candidateID,
		UserID:      adminID,
		Action:      op,
	})

	return candidateID, nil
}

func (v *OnlineVoting) GetLogs(ctx context.Context) ([]entity.Log, error) {
	const op = "OnlineVoting.GetLogs"

	logs, err := v.logStorage.GetLogs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return logs, nil
}

func (v *OnlineVoting) getPoll(ctx context.Context, id int64) (entity.Poll, error) {
	poll, err := v.pollStorage.GetPollByID(ctx, id)
	if err != nil {
		return entity.Poll{}, mapRepoErr(err)
	}
	return poll, nil
}

// audit records the action. The write it describes is already durable, so
// a failure is logged and not returned.
func (v *OnlineVoting) audit(ctx context.Context, op string, entry *entity.Log) {
	if _, err := v.logStorage.SaveLog(ctx, entry); err != nil {
		v.log.Error("failed to write audit log",
			slog.String("op", op),
			slog.String("action", entry.Action),
			sl.Err(err),
		)
	}
}

// mapRepoErr translates storage sentinels into the service's own.
func mapRepoErr(err error) error {
	switch {
	case errors.Is(err, repo.ErrPollNotFound):
		return fmt.Errorf("%w: %w", ErrPollNotFound, err)
	case errors.Is(err, repo.ErrPositionNotFound):
		return fmt.Errorf("%w: %w", ErrPositionNotFound, err)
	case errors.Is(err, repo.ErrCandidateNotFound):
		return fmt.Errorf("%w: %w", ErrCandidateNotFound, err)
	case errors.Is(err, repo.ErrPollClosed):
		return fmt.Errorf("%w: %w", ErrPollNotActive, err)
	case errors.Is(err, repo.ErrCandidateMismatch):
		return fmt.Errorf("%w: %w", ErrCandidateMismatch, err)
	case errors.Is(err, repo.ErrVoteExists):
		return fmt.Errorf("%w: %w", ErrDuplicateVote, err)
	case errors.Is(err, repo.ErrAlreadyFinalized):
		return fmt.Errorf("%w: %w", ErrPollFinalized, err)
	}
	return err
}
