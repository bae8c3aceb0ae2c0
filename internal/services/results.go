package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/14kear/online-polls/internal/entity"
)

// Aggregate tallies every position of the poll independently. Candidates are
// ranked by vote count descending, ties broken by candidate id ascending.
// A winner is set only once the poll has ended and the leader has at least
// one vote. The output depends only on its inputs.
func Aggregate(now time.Time, poll entity.Poll, positions []entity.Position, counts map[int64]int64) entity.PollResult {
	ended := poll.HasEnded(now)

	result := entity.PollResult{
		PollID:    poll.ID,
		Title:     poll.Title,
		Status:    poll.Status(now),
		Final:     ended,
		Positions: make([]entity.PositionResult, 0, len(positions)),
	}

	for _, position := range positions {
		tallies := make([]entity.CandidateTally, 0, len(position.Candidates))
		for _, c := range position.Candidates {
			tallies = append(tallies, entity.CandidateTally{
				CandidateID: c.ID,
				Name:        c.Name,
				VoteCount:   counts[c.ID],
			})
		}

		sort.SliceStable(tallies, func(i, j int) bool {
			if tallies[i].VoteCount != tallies[j].VoteCount {
				return tallies[i].VoteCount > tallies[j].VoteCount
			}
			return tallies[i].CandidateID < tallies[j].CandidateID
		})

		pr := entity.PositionResult{
			PositionID: position.ID,
			Title:      position.Title,
			Candidates: tallies,
		}
		if ended && len(tallies) > 0 && tallies[0].VoteCount > 0 {
			winner := tallies[0]
			pr.Winner = &winner
		}

		result.Positions = append(result.Positions, pr)
	}

	return result
}

// tally loads the ballot and a snapshot of the counts, then aggregates.
func tally(ctx context.Context, ballots BallotStorage, votes VoteStorage, poll entity.Poll, now time.Time) (entity.PollResult, error) {
	positions, err := ballots.GetPositionsByPollID(ctx, poll.ID)
	if err != nil {
		return entity.PollResult{}, fmt.Errorf("load positions: %w", err)
	}

	counts, err := votes.CountsForPoll(ctx, poll.ID)
	if err != nil {
		return entity.PollResult{}, fmt.Errorf("count votes: %w", err)
	}

	return Aggregate(now, poll, positions, counts), nil
}

// PollResults returns the poll's tallies. Before the poll ends they are
// visible only when allowLive is set, and never carry a winner.
func (v *OnlineVoting) PollResults(ctx context.Context, pollID int64, allowLive bool) (entity.PollResult, error) {
	const op = "OnlineVoting.PollResults"

	poll, err := v.getPoll(ctx, pollID)
	if err != nil {
		return entity.PollResult{}, fmt.Errorf("%s: %w", op, err)
	}

	now := v.clock.Now()
	if !poll.HasEnded(now) && !allowLive {
		return entity.PollResult{}, fmt.Errorf("%s: %w", op, ErrResultsNotYetAvailable)
	}

	result, err := tally(ctx, v.ballotStorage, v.voteStorage, poll, now)
	if err != nil {
		return entity.PollResult{}, fmt.Errorf("%s: %w", op, err)
	}

	return result, nil
}

// CandidateVotes is the ledger's count for a single candidate.
func (v *OnlineVoting) CandidateVotes(ctx context.Context, candidateID int64) (int64, error) {
	const op = "OnlineVoting.CandidateVotes"

	if _, err := v.ballotStorage.GetCandidateByID(ctx, candidateID); err != nil {
		return 0, fmt.Errorf("%s: %w", op, mapRepoErr(err))
	}

	count, err := v.voteStorage.CountForCandidate(ctx, candidateID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	return count, nil
}
