package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/repo"
)

func seed(t *testing.T, s *Storage) (pollID, positionID, candidateID int64) {
	t.Helper()
	ctx := context.Background()

	pollID, err := s.SavePoll(ctx, entity.Poll{Title: "p", StartTime: time.Now(), DurationHours: 1})
	require.NoError(t, err)
	positionID, err = s.SavePosition(ctx, entity.Position{PollID: pollID, Title: "chair"})
	require.NoError(t, err)
	candidateID, err = s.SaveCandidate(ctx, entity.Candidate{PositionID: positionID, Name: "ada"})
	require.NoError(t, err)
	return pollID, positionID, candidateID
}

func TestSaveVote_ConcurrentDuplicates(t *testing.T) {
	s := New()
	_, positionID, candidateID := seed(t, s)

	const attempts = 20
	var (
		wg        sync.WaitGroup
		succeeded atomic.Int32
		rejected  atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.SaveVote(context.Background(), entity.Vote{VoterID: 42, PositionID: positionID, CandidateID: candidateID})
			if err == nil {
				succeeded.Add(1)
				return
			}
			assert.ErrorIs(t, err, repo.ErrVoteExists)
			rejected.Add(1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), succeeded.Load())
	assert.Equal(t, int32(attempts-1), rejected.Load())

	n, err := s.CountForCandidate(context.Background(), candidateID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestVoterEmailsForPoll_Distinct(t *testing.T) {
	s := New()
	ctx := context.Background()
	pollID, positionID, candidateID := seed(t, s)

	second, err := s.SavePosition(ctx, entity.Position{PollID: pollID, Title: "treasurer"})
	require.NoError(t, err)
	secondCandidate, err := s.SaveCandidate(ctx, entity.Candidate{PositionID: second, Name: "bob"})
	require.NoError(t, err)

	_, err = s.SaveVote(ctx, entity.Vote{VoterID: 1, VoterEmail: "a@x.io", PositionID: positionID, CandidateID: candidateID})
	require.NoError(t, err)
	_, err = s.SaveVote(ctx, entity.Vote{VoterID: 1, VoterEmail: "a@x.io", PositionID: second, CandidateID: secondCandidate})
	require.NoError(t, err)
	_, err = s.SaveVote(ctx, entity.Vote{VoterID: 2, VoterEmail: "b@x.io", PositionID: positionID, CandidateID: candidateID})
	require.NoError(t, err)

	emails, err := s.VoterEmailsForPoll(ctx, pollID)
	require.NoError(t, err)
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, emails)

	votes, err := s.VotesForPoll(ctx, pollID)
	require.NoError(t, err)
	assert.Len(t, votes, 3)
}

func TestFinalizePoll_Once(t *testing.T) {
	s := New()
	ctx := context.Background()
	pollID, _, _ := seed(t, s)

	snap := entity.ResultSnapshot{PollID: pollID, ComputedAt: time.Now()}
	require.NoError(t, s.FinalizePoll(ctx, snap))
	assert.ErrorIs(t, s.FinalizePoll(ctx, snap), repo.ErrAlreadyFinalized)
	assert.ErrorIs(t, s.FinalizePoll(ctx, entity.ResultSnapshot{PollID: 999}), repo.ErrPollNotFound)

	_, err := s.GetSnapshot(ctx, pollID)
	require.NoError(t, err)
}

func TestSaveVote_WriteTimeRules(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)

	s := New()
	pollID, err := s.SavePoll(ctx, entity.Poll{Title: "p", StartTime: start, DurationHours: 1})
	require.NoError(t, err)
	chair, err := s.SavePosition(ctx, entity.Position{PollID: pollID, Title: "chair"})
	require.NoError(t, err)
	ada, err := s.SaveCandidate(ctx, entity.Candidate{PositionID: chair, Name: "ada"})
	require.NoError(t, err)
	treasurer, err := s.SavePosition(ctx, entity.Position{PollID: pollID, Title: "treasurer"})
	require.NoError(t, err)
	bob, err := s.SaveCandidate(ctx, entity.Candidate{PositionID: treasurer, Name: "bob"})
	require.NoError(t, err)

	tests := []struct {
		name string
		vote entity.Vote
		want error
	}{
		{name: "before start", vote: entity.Vote{VoterID: 1, PositionID: chair, CandidateID: ada, CreatedAt: start.Add(-time.Second)}, want: repo.ErrPollClosed},
		{name: "after end", vote: entity.Vote{VoterID: 1, PositionID: chair, CandidateID: ada, CreatedAt: start.Add(time.Hour + time.Second)}, want: repo.ErrPollClosed},
		{name: "candidate of another position", vote: entity.Vote{VoterID: 1, PositionID: chair, CandidateID: bob, CreatedAt: start}, want: repo.ErrCandidateMismatch},
		{name: "unknown candidate", vote: entity.Vote{VoterID: 1, PositionID: chair, CandidateID: 999, CreatedAt: start}, want: repo.ErrCandidateNotFound},
		{name: "unknown position", vote: entity.Vote{VoterID: 1, PositionID: 999, CandidateID: ada, CreatedAt: start}, want: repo.ErrPositionNotFound},
		{name: "at end", vote: entity.Vote{VoterID: 1, PositionID: chair, CandidateID: ada, CreatedAt: start.Add(time.Hour)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.SaveVote(ctx, tt.vote)
			if tt.want == nil {
				require.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}

	require.NoError(t, s.FinalizePoll(ctx, entity.ResultSnapshot{
		PollID: pollID,
		Result: entity.PollResult{Positions: []entity.PositionResult{{
			Candidates: []entity.CandidateTally{{CandidateID: ada, VoteCount: 1}},
		}}},
		ComputedAt: start.Add(time.Hour),
	}))

	_, err = s.SaveVote(ctx, entity.Vote{VoterID: 2, PositionID: chair, CandidateID: ada, CreatedAt: start.Add(30 * time.Minute)})
	assert.ErrorIs(t, err, repo.ErrPollClosed, "finalized poll takes no votes")
}

func TestFinalizePoll_StaleSnapshot(t *testing.T) {
	s := New()
	ctx := context.Background()
	pollID, positionID, candidateID := seed(t, s)

	_, err := s.SaveVote(ctx, entity.Vote{VoterID: 1, PositionID: positionID, CandidateID: candidateID})
	require.NoError(t, err)

	err = s.FinalizePoll(ctx, entity.ResultSnapshot{PollID: pollID, ComputedAt: time.Now()})
	assert.ErrorIs(t, err, repo.ErrStaleResults)

	poll, err := s.GetPollByID(ctx, pollID)
	require.NoError(t, err)
	assert.False(t, poll.IsFinalized())
	_, err = s.GetSnapshot(ctx, pollID)
	assert.ErrorIs(t, err, repo.ErrSnapshotNotFound)
}

func TestJobs_ClaimLeaseAndReschedule(t *testing.T) {
	s := New()
	ctx := context.Background()
	pollID, _, _ := seed(t, s)

	now := time.Now().UTC()
	job, err := s.Enqueue(ctx, pollID, now)
	require.NoError(t, err)

	dup, err := s.Enqueue(ctx, pollID, now)
	require.NoError(t, err)
	assert.Equal(t, job.ID, dup.ID)

	claimed, err := s.ClaimDue(ctx, now, 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, entity.JobStateFired, claimed[0].State)
	assert.Equal(t, 1, claimed[0].Attempts)

	again, err := s.ClaimDue(ctx, now.Add(30*time.Second), 10, time.Minute)
	require.NoError(t, err)
	assert.Empty(t, again, "lease still held")

	expired, err := s.ClaimDue(ctx, now.Add(2*time.Minute), 10, time.Minute)
	require.NoError(t, err)
	require.Len(t, expired, 1, "expired lease is redelivered")
	assert.Equal(t, 2, expired[0].Attempts)

	later := now.Add(time.Hour)
	require.NoError(t, s.Reschedule(ctx, job.ID, later))

	jobs := s.Jobs()
	require.Len(t, jobs, 1)
	assert.Equal(t, entity.JobStateScheduled, jobs[0].State)
	assert.Equal(t, 0, jobs[0].Attempts)
	assert.True(t, jobs[0].RunAt.Equal(later))
}

func TestJobs_RescheduleOntoExistingJob(t *testing.T) {
	s := New()
	ctx := context.Background()
	pollID, _, _ := seed(t, s)

	now := time.Now().UTC()
	first, err := s.Enqueue(ctx, pollID, now)
	require.NoError(t, err)
	second, err := s.Enqueue(ctx, pollID, now.Add(time.Hour))
	require.NoError(t, err)

	require.NoError(t, s.Reschedule(ctx, first.ID, now.Add(time.Hour)))

	for _, j := range s.Jobs() {
		if j.ID == first.ID {
			assert.Equal(t, entity.JobStateSucceeded, j.State)
		}
		if j.ID == second.ID {
			assert.Equal(t, entity.JobStateScheduled, j.State)
		}
	}
}
