package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	sl "github.com/14kear/sso-prettyslog/slogpretty/errors"

	"github.com/14kear/online-polls/internal/entity"
)

// ValidateVote applies the vote rules in order and returns the first
// violation. alreadyVoted is advisory; the ledger's unique constraint is
// the final word on duplicates.
func ValidateVote(now time.Time, poll entity.Poll, position entity.Position, candidate entity.Candidate, alreadyVoted bool) error {
	if !poll.IsActive(now) {
		return ErrPollNotActive
	}
	if candidate.PositionID != position.ID {
		return ErrCandidateMismatch
	}
	if alreadyVoted {
		return ErrDuplicateVote
	}
	return nil
}

// CastVote records the voter's choice for one position of the poll. A poll
// outside its voting window rejects the vote with ErrPollNotActive before
// the position or candidate are looked up.
func (v *OnlineVoting) CastVote(ctx context.Context, voter entity.Identity, pollID, positionID, candidateID int64) (entity.Vote, error) {
	const op = "OnlineVoting.CastVote"

	log := v.log.With(
		slog.String("op", op),
		slog.Int64("pollID", pollID),
		slog.Int64("voterID", voter.UserID),
	)

	poll, err := v.getPoll(ctx, pollID)
	if err != nil {
		return entity.Vote{}, fmt.Errorf("%s: %w", op, err)
	}

	now := v.clock.Now()
	if !poll.IsActive(now) {
		log.Info("vote rejected", slog.String("reason", ErrPollNotActive.Error()))
		return entity.Vote{}, fmt.Errorf("%s: %w", op, ErrPollNotActive)
	}

	position, err := v.ballotStorage.GetPositionByID(ctx, positionID)
	if err != nil {
		return entity.Vote{}, fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}
	if position.PollID != poll.ID {
		return entity.Vote{}, fmt.Errorf("%s: %w", op, ErrPositionNotFound)
	}

	candidate, err := v.ballotStorage.GetCandidateByID(ctx, candidateID)
	if err != nil {
		return entity.Vote{}, fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}

	hasVoted, err := v.voteStorage.HasVoted(ctx, voter.UserID, position.ID)
	if err != nil {
		return entity.Vote{}, fmt.Errorf("%s: %w", op, err)
	}

	if err := ValidateVote(now, poll, position, candidate, hasVoted); err != nil {
		log.Info("vote rejected", slog.String("reason", err.Error()))
		return entity.Vote{}, fmt.Errorf("%s: %w", op, err)
	}

	vote := entity.Vote{
		VoterID:     voter.UserID,
		VoterEmail:  voter.Email,
		PositionID:  position.ID,
		CandidateID: candidate.ID,
		CreatedAt:   now,
	}

	// the ledger re-checks the rules against the stored poll at write time
	vote.ID, err = v.voteStorage.SaveVote(ctx, vote)
	if err != nil {
		err = mapRepoErr(err)
		log.Info("vote not recorded", sl.Err(err))
		return entity.Vote{}, fmt.Errorf("%s: %w", op, err)
	}

	entry := &entity.Log{
		UserID:      voter.UserID,
		Action:      op,
		PollID:      &poll.ID,
		PositionID:  &position.ID,
		CandidateID: &candidate.ID,
		VoteID:      &vote.ID,
	}
	v.audit(ctx, op, entry)

	log.Info("vote recorded", slog.Int64("voteID", vote.ID))
	return vote, nil
}
