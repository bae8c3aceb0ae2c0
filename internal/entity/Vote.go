package entity

import "time"

type Vote struct {
	ID          int64
	VoterID     int64
	VoterEmail  string
	PositionID  int64
	CandidateID int64
	CreatedAt   time.Time
}
