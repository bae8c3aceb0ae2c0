package entity

import "time"

// Log is an audit record of an admin mutation or an accepted vote.
type Log struct {
	ID          int64
	UserID      int64
	Action      string
	PollID      *int64
	PositionID  *int64
	CandidateID *int64
	VoteID      *int64
	CreatedAt   time.Time
}
