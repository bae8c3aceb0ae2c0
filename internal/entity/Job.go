package entity

import "time"

type JobState string

const (
	JobStateScheduled JobState = "scheduled"
	JobStateFired     JobState = "fired"
	JobStateSucceeded JobState = "succeeded"
	JobStateFailed    JobState = "failed"
)

// ResultJob is a deferred request to finalize the results of a poll.
type ResultJob struct {
	ID          string
	PollID      int64
	RunAt       time.Time
	State       JobState
	Attempts    int
	LastError   string
	LockedUntil *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
