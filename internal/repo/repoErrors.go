package repo

import "errors"

var (
	ErrPollNotFound      = errors.New("poll not found")
	ErrPositionNotFound  = errors.New("position not found")
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrSnapshotNotFound  = errors.New("result snapshot not found")
	ErrVoteExists        = errors.New("vote already exists for voter and position")
	ErrAlreadyFinalized  = errors.New("poll already finalized")
	ErrJobNotFound       = errors.New("result job not found")
	ErrCandidateMismatch = errors.New("candidate does not belong to position")

	// ErrPollClosed is returned by SaveVote when, at write time, the poll is
	// outside its voting window or already finalized.
	ErrPollClosed = errors.New("poll is not accepting votes")

	// ErrStaleResults is returned by FinalizePoll when the ledger no longer
	// matches the snapshot being stored.
	ErrStaleResults = errors.New("result snapshot does not match the ledger")
)
