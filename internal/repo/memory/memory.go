// Package memory is an in-process implementation of every storage
// interface. It keeps the same guarantees as the postgres schema, including
// the (voter, position) uniqueness of votes, and backs tests and local demos.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/14kear/online-polls/internal/entity"
	"github.com/14kear/online-polls/internal/repo"
)

type voteKey struct {
	voterID    int64
	positionID int64
}

type jobKey struct {
	pollID int64
	runAt  int64
}

type Storage struct {
	mu sync.Mutex

	nextID int64

	polls      map[int64]entity.Poll
	positions  map[int64]entity.Position
	candidates map[int64]entity.Candidate
	votes      map[int64]entity.Vote
	voteIndex  map[voteKey]int64
	snapshots  map[int64]entity.ResultSnapshot
	logs       []entity.Log
	jobs       map[string]entity.ResultJob
	jobIndex   map[jobKey]string
}

func New() *Storage {
	return &Storage{
		polls:      make(map[int64]entity.Poll),
		positions:  make(map[int64]entity.Position),
		candidates: make(map[int64]entity.Candidate),
		votes:      make(map[int64]entity.Vote),
		voteIndex:  make(map[voteKey]int64),
		snapshots:  make(map[int64]entity.ResultSnapshot),
		jobs:       make(map[string]entity.ResultJob),
		jobIndex:   make(map[jobKey]string),
	}
}

func (s *Storage) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *Storage) SavePoll(_ context.Context, poll entity.Poll) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	poll.ID = s.id()
	poll.Positions = nil
	poll.FinalizedAt = nil
	poll.CreatedAt, poll.UpdatedAt = now, now
	s.polls[poll.ID] = poll
	return poll.ID, nil
}

func (s *Storage) GetPollByID(_ context.Context, id int64) (entity.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[id]
	if !ok {
		return entity.Poll{}, fmt.Errorf("storage.memory.GetPollByID: %w", repo.ErrPollNotFound)
	}
	return poll, nil
}

func (s *Storage) GetPolls(_ context.Context) ([]entity.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	polls := make([]entity.Poll, 0, len(s.polls))
	for _, p := range s.polls {
		polls = append(polls, p)
	}
	sort.Slice(polls, func(i, j int) bool {
		if !polls[i].StartTime.Equal(polls[j].StartTime) {
			return polls[i].StartTime.After(polls[j].StartTime)
		}
		return polls[i].ID > polls[j].ID
	})
	return polls, nil
}

func (s *Storage) GetEndedUnfinalizedPolls(_ context.Context, now time.Time) ([]entity.Poll, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var polls []entity.Poll
	for _, p := range s.polls {
		if p.FinalizedAt == nil && p.HasEnded(now) {
			polls = append(polls, p)
		}
	}
	sort.Slice(polls, func(i, j int) bool { return polls[i].StartTime.Before(polls[j].StartTime) })
	return polls, nil
}

func (s *Storage) UpdatePoll(_ context.Context, poll entity.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.polls[poll.ID]
	if !ok {
		return fmt.Errorf("storage.memory.UpdatePoll: %w", repo.ErrPollNotFound)
	}
	current.Title = poll.Title
	current.Description = poll.Description
	current.StartTime = poll.StartTime
	current.DurationHours = poll.DurationHours
	current.UpdatedAt = time.Now().UTC()
	s.polls[poll.ID] = current
	return nil
}

// DeletePoll cascades to positions, candidates, votes, snapshots and jobs.
func (s *Storage) DeletePoll(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[id]; !ok {
		return fmt.Errorf("storage.memory.DeletePoll: %w", repo.ErrPollNotFound)
	}
	delete(s.polls, id)
	delete(s.snapshots, id)

	for pid, position := range s.positions {
		if position.PollID != id {
			continue
		}
		delete(s.positions, pid)
		for cid, c := range s.candidates {
			if c.PositionID == pid {
				delete(s.candidates, cid)
			}
		}
		for vid, v := range s.votes {
			if v.PositionID == pid {
				delete(s.votes, vid)
				delete(s.voteIndex, voteKey{v.VoterID, v.PositionID})
			}
		}
	}

	for jid, job := range s.jobs {
		if job.PollID == id {
			delete(s.jobs, jid)
			delete(s.jobIndex, jobKey{job.PollID, job.RunAt.UnixNano()})
		}
	}
	return nil
}

func (s *Storage) SavePosition(_ context.Context, position entity.Position) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[position.PollID]; !ok {
		return 0, fmt.Errorf("storage.memory.SavePosition: %w", repo.ErrPollNotFound)
	}
	position.ID = s.id()
	position.Candidates = nil
	s.positions[position.ID] = position
	return position.ID, nil
}

func (s *Storage) GetPositionByID(_ context.Context, id int64) (entity.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	position, ok := s.positions[id]
	if !ok {
		return entity.Position{}, fmt.Errorf("storage.memory.GetPositionByID: %w", repo.ErrPositionNotFound)
	}
	return position, nil
}

func (s *Storage) GetPositionsByPollID(_ context.Context, pollID int64) ([]entity.Position, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var positions []entity.Position
	for _, p := range s.positions {
		if p.PollID == pollID {
			positions = append(positions, p)
		}
	}
	sort.Slice(positions, func(i, j int) bool { return positions[i].ID < positions[j].ID })

	for i := range positions {
		for _, c := range s.candidates {
			if c.PositionID == positions[i].ID {
				positions[i].Candidates = append(positions[i].Candidates, c)
			}
		}
		cands := positions[i].Candidates
		sort.Slice(cands, func(a, b int) bool { return cands[a].ID < cands[b].ID })
	}
	return positions, nil
}

func (s *Storage) SaveCandidate(_ context.Context, candidate entity.Candidate) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.positions[candidate.PositionID]; !ok {
		return 0, fmt.Errorf("storage.memory.SaveCandidate: %w", repo.ErrPositionNotFound)
	}
	candidate.ID = s.id()
	s.candidates[candidate.ID] = candidate
	return candidate.ID, nil
}

func (s *Storage) GetCandidateByID(_ context.Context, id int64) (entity.Candidate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	candidate, ok := s.candidates[id]
	if !ok {
		return entity.Candidate{}, fmt.Errorf("storage.memory.GetCandidateByID: %w", repo.ErrCandidateNotFound)
	}
	return candidate, nil
}

// SaveVote re-checks the vote rules against the stored poll under the store
// lock, mirroring the conditional insert of the postgres ledger.
func (s *Storage) SaveVote(_ context.Context, vote entity.Vote) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now().UTC()
	}

	position, ok := s.positions[vote.PositionID]
	if !ok {
		return 0, fmt.Errorf("storage.memory.SaveVote: %w", repo.ErrPositionNotFound)
	}
	candidate, ok := s.candidates[vote.CandidateID]
	if !ok {
		return 0, fmt.Errorf("storage.memory.SaveVote: %w", repo.ErrCandidateNotFound)
	}
	poll := s.polls[position.PollID]
	if poll.IsFinalized() || !poll.IsActive(vote.CreatedAt) {
		return 0, fmt.Errorf("storage.memory.SaveVote: %w", repo.ErrPollClosed)
	}
	if candidate.PositionID != position.ID {
		return 0, fmt.Errorf("storage.memory.SaveVote: %w", repo.ErrCandidateMismatch)
	}

	key := voteKey{vote.VoterID, vote.PositionID}
	if _, exists := s.voteIndex[key]; exists {
		return 0, fmt.Errorf("storage.memory.SaveVote: %w", repo.ErrVoteExists)
	}

	vote.ID = s.id()
	s.votes[vote.ID] = vote
	s.voteIndex[key] = vote.ID
	return vote.ID, nil
}

func (s *Storage) HasVoted(_ context.Context, voterID, positionID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.voteIndex[voteKey{voterID, positionID}]
	return exists, nil
}

func (s *Storage) CountForCandidate(_ context.Context, candidateID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var n int64
	for _, v := range s.votes {
		if v.CandidateID == candidateID {
			n++
		}
	}
	return n, nil
}

func (s *Storage) CountsForPoll(_ context.Context, pollID int64) (map[int64]int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[int64]int64)
	for _, v := range s.votesForPollLocked(pollID) {
		counts[v.CandidateID]++
	}
	return counts, nil
}

func (s *Storage) VotesForPoll(_ context.Context, pollID int64) ([]entity.Vote, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.votesForPollLocked(pollID), nil
}

func (s *Storage) VoterEmailsForPoll(_ context.Context, pollID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{})
	var emails []string
	for _, v := range s.votesForPollLocked(pollID) {
		if v.VoterEmail == "" {
			continue
		}
		if _, ok := seen[v.VoterEmail]; ok {
			continue
		}
		seen[v.VoterEmail] = struct{}{}
		emails = append(emails, v.VoterEmail)
	}
	sort.Strings(emails)
	return emails, nil
}

func (s *Storage) votesForPollLocked(pollID int64) []entity.Vote {
	var votes []entity.Vote
	for _, v := range s.votes {
		if p, ok := s.positions[v.PositionID]; ok && p.PollID == pollID {
			votes = append(votes, v)
		}
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].ID < votes[j].ID })
	return votes
}

func (s *Storage) FinalizePoll(_ context.Context, snapshot entity.ResultSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	poll, ok := s.polls[snapshot.PollID]
	if !ok {
		return fmt.Errorf("storage.memory.FinalizePoll: %w", repo.ErrPollNotFound)
	}
	if poll.FinalizedAt != nil {
		return fmt.Errorf("storage.memory.FinalizePoll: %w", repo.ErrAlreadyFinalized)
	}
	if n := int64(len(s.votesForPollLocked(poll.ID))); n != snapshot.Result.TotalVotes() {
		return fmt.Errorf("storage.memory.FinalizePoll: %w", repo.ErrStaleResults)
	}

	at := snapshot.ComputedAt
	poll.FinalizedAt = &at
	s.polls[poll.ID] = poll
	s.snapshots[poll.ID] = snapshot
	return nil
}

func (s *Storage) SaveSnapshot(_ context.Context, snapshot entity.ResultSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[snapshot.PollID]; !ok {
		return fmt.Errorf("storage.memory.SaveSnapshot: %w", repo.ErrPollNotFound)
	}
	s.snapshots[snapshot.PollID] = snapshot
	return nil
}

func (s *Storage) GetSnapshot(_ context.Context, pollID int64) (entity.ResultSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot, ok := s.snapshots[pollID]
	if !ok {
		return entity.ResultSnapshot{}, fmt.Errorf("storage.memory.GetSnapshot: %w", repo.ErrSnapshotNotFound)
	}
	return snapshot, nil
}

func (s *Storage) SaveLog(_ context.Context, log *entity.Log) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log.ID = s.id()
	log.CreatedAt = time.Now().UTC()
	s.logs = append(s.logs, *log)
	return log.ID, nil
}

func (s *Storage) GetLogs(_ context.Context) ([]entity.Log, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logs := make([]entity.Log, len(s.logs))
	for i := range s.logs {
		logs[len(s.logs)-1-i] = s.logs[i]
	}
	return logs, nil
}

// Enqueue adds a scheduled job unless one already exists for the same poll
// and run time, in which case that job is returned.
func (s *Storage) Enqueue(_ context.Context, pollID int64, runAt time.Time) (entity.ResultJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[pollID]; !ok {
		return entity.ResultJob{}, fmt.Errorf("storage.memory.Enqueue: %w", repo.ErrPollNotFound)
	}

	key := jobKey{pollID, runAt.UnixNano()}
	if id, ok := s.jobIndex[key]; ok {
		return s.jobs[id], nil
	}

	now := time.Now().UTC()
	job := entity.ResultJob{
		ID:        uuid.NewString(),
		PollID:    pollID,
		RunAt:     runAt,
		State:     entity.JobStateScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.jobs[job.ID] = job
	s.jobIndex[key] = job.ID
	return job, nil
}

func (s *Storage) ClaimDue(_ context.Context, now time.Time, limit int, lease time.Duration) ([]entity.ResultJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var due []entity.ResultJob
	for _, job := range s.jobs {
		switch {
		case job.State == entity.JobStateScheduled && !job.RunAt.After(now):
		case job.State == entity.JobStateFired && job.LockedUntil != nil && job.LockedUntil.Before(now):
		default:
			continue
		}
		due = append(due, job)
	}
	sort.Slice(due, func(i, j int) bool { return due[i].RunAt.Before(due[j].RunAt) })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}

	lockedUntil := now.Add(lease)
	for i := range due {
		due[i].State = entity.JobStateFired
		due[i].Attempts++
		due[i].LockedUntil = &lockedUntil
		due[i].UpdatedAt = now
		s.jobs[due[i].ID] = due[i]
	}
	return due, nil
}

func (s *Storage) MarkSucceeded(_ context.Context, id string, at time.Time) error {
	return s.updateJob(id, func(job *entity.ResultJob) {
		job.State = entity.JobStateSucceeded
		job.LockedUntil = nil
		job.UpdatedAt = at
	})
}

func (s *Storage) MarkFailed(_ context.Context, id string, reason string, at time.Time) error {
	return s.updateJob(id, func(job *entity.ResultJob) {
		job.State = entity.JobStateFailed
		job.LastError = reason
		job.LockedUntil = nil
		job.UpdatedAt = at
	})
}

func (s *Storage) Retry(_ context.Context, id string, runAt time.Time, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("storage.memory.Retry: %w", repo.ErrJobNotFound)
	}
	job.LastError = reason
	s.moveJobLocked(&job, runAt)
	return nil
}

func (s *Storage) Reschedule(_ context.Context, id string, runAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("storage.memory.Reschedule: %w", repo.ErrJobNotFound)
	}
	job.Attempts = 0
	job.LastError = ""
	s.moveJobLocked(&job, runAt)
	return nil
}

// moveJobLocked puts job back to scheduled at runAt. If another job already
// covers that poll and time, job is closed as succeeded instead.
func (s *Storage) moveJobLocked(job *entity.ResultJob, runAt time.Time) {
	oldKey := jobKey{job.PollID, job.RunAt.UnixNano()}
	newKey := jobKey{job.PollID, runAt.UnixNano()}

	job.LockedUntil = nil
	job.UpdatedAt = time.Now().UTC()

	delete(s.jobIndex, oldKey)

	if other, ok := s.jobIndex[newKey]; ok && other != job.ID {
		job.State = entity.JobStateSucceeded
		s.jobs[job.ID] = *job
		return
	}

	job.RunAt = runAt
	job.State = entity.JobStateScheduled
	s.jobIndex[newKey] = job.ID
	s.jobs[job.ID] = *job
}

func (s *Storage) updateJob(id string, fn func(job *entity.ResultJob)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("storage.memory: %w", repo.ErrJobNotFound)
	}
	fn(&job)
	s.jobs[id] = job
	return nil
}

// Jobs returns a copy of all jobs, oldest run time first.
func (s *Storage) Jobs() []entity.ResultJob {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]entity.ResultJob, 0, len(s.jobs))
	for _, j := range s.jobs {
		jobs = append(jobs, j)
	}
	sort.Slice(jobs, func(i, j int) bool { return jobs[i].RunAt.Before(jobs[j].RunAt) })
	return jobs
}
